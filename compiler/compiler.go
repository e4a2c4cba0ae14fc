package compiler

import (
	"errors"
	"fmt"

	"github.com/lollipopkit/glua/binchunk"
	"github.com/lollipopkit/glua/compiler/codegen"
	"github.com/lollipopkit/glua/compiler/lexer"
	"github.com/lollipopkit/glua/compiler/parser"
	"github.com/lollipopkit/glua/compiler/report"
)

// Compile turns Lua source into a prototype tree using the default
// reporter preset.
func Compile(chunk, chunkName string) (*binchunk.Prototype, error) {
	return CompileWith(chunk, chunkName, report.Default())
}

// CompileWith compiles with the caller's reporter, so hosts pick the
// preset (default/strict/permissive) and the rendering.
func CompileWith(chunk, chunkName string, rep *report.Reporter) (proto *binchunk.Prototype, err error) {
	block := parser.ParseWith(chunk, chunkName, rep)
	if rep.HasErrors() {
		return nil, errors.New(rep.Plain())
	}

	// the code generator reports resource overflows (registers,
	// constants, upvalues, jump ranges) by panicking
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *lexer.Error:
				rep.Errorf(e.ChunkName, e.Line, e.Column, "%s", e.Msg)
			case string:
				rep.Errorf(chunkName, 0, 0, "%s", e)
			default:
				rep.Errorf(chunkName, 0, 0, "%v", e)
			}
			proto = nil
			err = errors.New(rep.Plain())
		}
	}()

	proto = codegen.GenProto(block, chunkName)
	return proto, nil
}

// MustCompile is Compile for chunks the host knows are valid.
func MustCompile(chunk, chunkName string) *binchunk.Prototype {
	proto, err := Compile(chunk, chunkName)
	if err != nil {
		panic(fmt.Sprintf("compile %s: %v", chunkName, err))
	}
	return proto
}
