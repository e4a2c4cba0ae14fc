package stdlib

import (
	"bufio"
	"fmt"
	"io"
	"os"

	. "github.com/lollipopkit/glua/api"
)

var stdinReader = bufio.NewReader(os.Stdin)

var ioLib = map[string]GoFunction{
	"write": ioWrite,
	"read":  ioRead,
	"lines": ioLines,
}

func OpenIOLib(ls LuaState) int {
	ls.NewLib(ioLib)
	return 1
}

// io.write (···)
func ioWrite(ls LuaState) int {
	n := ls.GetTop()
	for i := 1; i <= n; i++ {
		s, ok := ls.ToStringX(i)
		if !ok {
			return ls.ArgError(i, "string expected")
		}
		os.Stdout.WriteString(s)
	}
	return 0
}

// io.read ([format]) -- "*l" (default), "*n", "*a"
func ioRead(ls LuaState) int {
	format := ls.OptString(1, "*l")
	switch format {
	case "*l", "l", "*L", "L":
		line, err := stdinReader.ReadString('\n')
		if err != nil && line == "" {
			ls.PushNil()
			return 1
		}
		if format == "*l" || format == "l" {
			for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
				line = line[:len(line)-1]
			}
		}
		ls.PushString(line)
	case "*n", "n":
		var f float64
		if _, err := fmt.Fscan(stdinReader, &f); err != nil {
			ls.PushNil()
		} else {
			ls.PushNumber(f)
		}
	case "*a", "a":
		data, _ := io.ReadAll(stdinReader)
		ls.PushString(string(data))
	default:
		return ls.ArgError(1, "invalid format")
	}
	return 1
}

// io.lines ([filename])
func ioLines(ls LuaState) int {
	filename := ls.OptString(1, "")
	var scanner *bufio.Scanner
	if filename == "" {
		scanner = bufio.NewScanner(os.Stdin)
	} else {
		f, err := os.Open(filename)
		if err != nil {
			return ls.Error2("cannot open %s", filename)
		}
		scanner = bufio.NewScanner(f)
	}

	ls.PushGoFunction(func(ls LuaState) int {
		if scanner.Scan() {
			ls.PushString(scanner.Text())
			return 1
		}
		ls.PushNil()
		return 1
	})
	return 1
}
