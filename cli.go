package main

import (
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/lollipopkit/glua/api"
	"github.com/lollipopkit/glua/binchunk"
	"github.com/lollipopkit/glua/compiler"
	"github.com/lollipopkit/glua/compiler/parser"
	"github.com/lollipopkit/glua/compiler/report"
	"github.com/lollipopkit/glua/repl"
	"github.com/lollipopkit/glua/state"
	"github.com/lollipopkit/glua/term"
	"github.com/lollipopkit/glua/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// run drives the CLI and maps outcomes to exit codes: 0 ok, 1 runtime
// error, 2 syntax error, 3 host error.
func run(args []string) int {
	exitCode := api.EXIT_OK

	root := &cobra.Command{
		Use:           "glua [script.lua]",
		Short:         "A Lua 5.1 interpreter",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				replCmd()
				return nil
			}
			exitCode = runFile(args[0])
			return nil
		},
	}

	var dumpAst bool
	var listing bool
	var strict bool
	compileCmd := &cobra.Command{
		Use:   "compile <script.lua>",
		Short: "Compile a script to a chunk without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode = compileFile(args[0], dumpAst, listing, strict)
			return nil
		},
	}
	compileCmd.Flags().BoolVar(&dumpAst, "ast", false, "write the parsed AST as JSON next to the source")
	compileCmd.Flags().BoolVar(&listing, "list", false, "print a bytecode listing instead of writing a chunk")
	compileCmd.Flags().BoolVar(&strict, "strict", false, "stop at the first syntax error")

	root.AddCommand(compileCmd, &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			replCmd()
		},
	})

	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		term.Err("%v", err)
		return api.EXIT_HOST
	}
	return exitCode
}

func runFile(file string) int {
	data, err := os.ReadFile(file)
	if err != nil {
		term.Err("cannot read %s: %v", file, err)
		return api.EXIT_HOST
	}

	// a precompiled chunk next to its source runs only while fresh
	if binchunk.IsChunk(data) && strings.HasSuffix(file, "c") {
		src := strings.TrimSuffix(file, "c")
		if srcData, serr := os.ReadFile(src); serr == nil {
			if _, verr := binchunk.Verify(data, utils.Md5(srcData)); verr != nil {
				term.Warn("stale chunk (%v), running %s instead", verr, src)
				data = srcData
				file = src
			}
		}
	}

	ls := state.New()
	ls.OpenLibs()
	if ls.Load(data, "@"+file, "bt") != api.LUA_OK {
		term.Err("%s", ls.ToString(-1))
		return api.EXIT_SYNERR
	}
	if ls.PCall(0, api.LUA_MULTRET, 0) != api.LUA_OK {
		term.Err("%s", ls.ToString2(-1))
		return api.EXIT_RUNERR
	}
	return api.EXIT_OK
}

func compileFile(file string, dumpAst, listing, strict bool) int {
	data, err := os.ReadFile(file)
	if err != nil {
		term.Err("cannot read %s: %v", file, err)
		return api.EXIT_HOST
	}

	rep := report.Default()
	if strict {
		rep = report.Strict()
	}

	if dumpAst {
		block := parser.ParseWith(string(data), file, rep)
		if rep.HasErrors() {
			term.Err("%s", rep.Detailed())
			return api.EXIT_SYNERR
		}
		j, err := json.MarshalIndent(block, "", "  ")
		if err != nil {
			term.Err("%v", err)
			return api.EXIT_HOST
		}
		if err := os.WriteFile(file+".ast.json", j, 0o644); err != nil {
			term.Err("%v", err)
			return api.EXIT_HOST
		}
		term.Suc("wrote %s.ast.json", file)
		return api.EXIT_OK
	}

	proto, cerr := compiler.CompileWith(string(data), file, rep)
	if cerr != nil {
		term.Err("%s", rep.Detailed())
		return api.EXIT_SYNERR
	}

	if listing {
		printListing(proto)
		return api.EXIT_OK
	}

	chunk, err := proto.Dump(utils.Md5(data))
	if err != nil {
		term.Err("%v", err)
		return api.EXIT_HOST
	}
	out := file + "c"
	if err := os.WriteFile(out, chunk, 0o644); err != nil {
		term.Err("%v", err)
		return api.EXIT_HOST
	}
	term.Suc("wrote %s", out)
	return api.EXIT_OK
}

func replCmd() {
	ls := state.New()
	ls.OpenLibs()
	repl.Repl(ls)
}

