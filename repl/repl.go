package repl

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
	"golang.org/x/term"

	"github.com/lollipopkit/glua/api"
	terminal "github.com/lollipopkit/glua/term"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	linesHistory = []string{}
	historyPath  = filepath.Join(os.Getenv("HOME"), ".config", "glua_history.json")
)

// Repl runs the interactive driver: lines accumulate until the chunk
// is syntactically complete, then run in protected mode.
func Repl(ls api.LuaState) {
	loadHistory()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Printf("glua %s  (exit with ctrl-d)\n", api.VERSION)
	}

	reader := bufio.NewReader(os.Stdin)
	blockLines := []string{}

	for {
		if interactive {
			if len(blockLines) == 0 {
				os.Stdout.WriteString("> ")
			} else {
				os.Stdout.WriteString(">> ")
			}
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if len(strings.TrimSpace(line)) == 0 {
				break
			}
		}
		line = strings.TrimRight(line, "\r\n")
		if len(blockLines) == 0 && strings.TrimSpace(line) == "" {
			continue
		}

		blockLines = append(blockLines, line)
		src := strings.Join(blockLines, "\n")

		switch tryRun(ls, src) {
		case runIncomplete:
			continue // read more lines
		default:
			updateHistory(src)
			blockLines = blockLines[:0]
		}

		if err != nil {
			break
		}
	}
	writeHistory()
}

type runResult int

const (
	runOK runResult = iota
	runFailed
	runIncomplete
)

func tryRun(ls api.LuaState, src string) runResult {
	// an expression gets an implicit return, like the standalone
	// interpreter's "=" sugar
	if strings.HasPrefix(src, "=") {
		src = "return " + src[1:]
	} else if ls.LoadString("return "+src, "stdin") == api.LUA_OK {
		ls.Pop(1)
		src = "return " + src
	}

	if ls.LoadString(src, "stdin") != api.LUA_OK {
		msg := ls.ToString(-1)
		ls.Pop(1)
		// an error at end of input means the chunk just isn't finished
		if strings.Contains(msg, "near '<eof>'") {
			return runIncomplete
		}
		terminal.Red("%s", msg)
		return runFailed
	}

	before := ls.GetTop() - 1
	if ls.PCall(0, api.LUA_MULTRET, 0) != api.LUA_OK {
		terminal.Red("%s", ls.ToString2(-1))
		ls.Pop(2)
		return runFailed
	}

	// print the chunk's results
	n := ls.GetTop() - before
	for i := n; i > 0; i-- {
		if i < n {
			os.Stdout.WriteString("\t")
		}
		os.Stdout.WriteString(ls.ToString2(-i))
		ls.Pop(1)
	}
	if n > 0 {
		os.Stdout.WriteString("\n")
	}
	ls.SetTop(before)
	return runOK
}

/* history */

func loadHistory() {
	data, err := os.ReadFile(historyPath)
	if err != nil {
		return
	}
	for _, line := range gjson.ParseBytes(data).Array() {
		linesHistory = append(linesHistory, line.String())
	}
}

func updateHistory(line string) {
	for i := range linesHistory {
		if linesHistory[i] == line {
			linesHistory = append(linesHistory[:i], linesHistory[i+1:]...)
			break
		}
	}
	linesHistory = append(linesHistory, line)
	if len(linesHistory) > 200 {
		linesHistory = linesHistory[len(linesHistory)-200:]
	}
}

func writeHistory() {
	data, err := json.Marshal(linesHistory)
	if err != nil {
		return
	}
	os.MkdirAll(filepath.Dir(historyPath), 0o755)
	os.WriteFile(historyPath, data, 0o644)
}
