package main

import (
	"fmt"

	"github.com/lollipopkit/glua/binchunk"
	"github.com/lollipopkit/glua/vm"
)

// printListing writes a human-readable disassembly of a prototype tree.
func printListing(proto *binchunk.Prototype) {
	listProto(proto, 0)
}

func listProto(proto *binchunk.Prototype, depth int) {
	funcType := "main"
	if depth > 0 {
		funcType = "function"
	}
	varargFlag := ""
	if proto.IsVararg > 0 {
		varargFlag = "+"
	}

	fmt.Printf("\n%s <%s:%d,%d> (%d instructions)\n",
		funcType, proto.Source, proto.LineDefined, proto.LastLineDefined,
		len(proto.Code))
	fmt.Printf("%d%s params, %d slots, %d upvalues, %d locals, %d constants, %d functions\n",
		proto.NumParams, varargFlag, proto.MaxStackSize,
		len(proto.Upvalues), len(proto.LocVars), len(proto.Constants),
		len(proto.Protos))

	for pc, code := range proto.Code {
		line := "-"
		if len(proto.LineInfo) > pc {
			line = fmt.Sprintf("%d", proto.LineInfo[pc])
		}
		i := vm.Instruction(code)
		fmt.Printf("\t%d\t[%s]\t%s \t", pc+1, line, i.OpName())
		listOperands(i)
		fmt.Println()
	}

	for _, p := range proto.Protos {
		listProto(p, depth+1)
	}
}

func listOperands(i vm.Instruction) {
	switch i.OpMode() {
	case vm.IABC:
		a, b, c := i.ABC()
		fmt.Printf("%d", a)
		if i.BMode() != vm.OpArgN {
			if b > 0xFF {
				fmt.Printf(" %d", -1-(b&0xFF))
			} else {
				fmt.Printf(" %d", b)
			}
		}
		if i.CMode() != vm.OpArgN {
			if c > 0xFF {
				fmt.Printf(" %d", -1-(c&0xFF))
			} else {
				fmt.Printf(" %d", c)
			}
		}
	case vm.IABx:
		a, bx := i.ABx()
		fmt.Printf("%d %d", a, bx)
	case vm.IAsBx:
		a, sbx := i.AsBx()
		fmt.Printf("%d %d", a, sbx)
	case vm.IAx:
		fmt.Printf("%d", -1-i.Ax())
	}
}
