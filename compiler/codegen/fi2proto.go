package codegen

import (
	"fmt"

	. "github.com/lollipopkit/glua/binchunk"
)

// toProto converts a finished funcInfo into the prototype tree the VM
// loads. source is stamped on every prototype, not just the root, so
// tracebacks and debug.getinfo can name nested functions.
func toProto(fi *funcInfo, source string) *Prototype {
	maxStack := fi.maxRegs
	if maxStack < 2 {
		// a frame always has room for a value and its metamethod
		maxStack = 2
	}

	proto := &Prototype{
		Source:          source,
		LineDefined:     uint32(fi.line),
		LastLineDefined: uint32(fi.lastLine),
		NumParams:       byte(fi.numParams),
		MaxStackSize:    byte(maxStack),
		Code:            fi.insts,
		Constants:       constantVector(fi),
		Upvalues:        upvalueVector(fi),
		Protos:          childProtos(fi, source),
		LineInfo:        fi.lineNums,
		LocVars:         locVarVector(fi),
		UpvalueNames:    upvalueNameVector(fi),
	}

	if fi.isVararg {
		proto.IsVararg = 1
	}
	if fi.line == 0 { // the main chunk spans no definition lines
		proto.LastLineDefined = 0
	}
	return proto
}

func childProtos(fi *funcInfo, source string) []*Prototype {
	if len(fi.subFuncs) == 0 {
		return nil
	}
	protos := make([]*Prototype, len(fi.subFuncs))
	for i, sub := range fi.subFuncs {
		protos[i] = toProto(sub, source)
	}
	return protos
}

// constantVector flattens the dedup map into index order. Values are
// nil/bool/float64/string only; anything else here is a compiler bug,
// not a user error.
func constantVector(fi *funcInfo) []any {
	consts := make([]any, len(fi.constants))
	for k, idx := range fi.constants {
		switch k.(type) {
		case nil, bool, float64, string:
			consts[idx] = k
		default:
			panic(fmt.Sprintf("non-canonical constant %T in constant table", k))
		}
	}
	return consts
}

// upvalueVector emits the descriptors in the same index order the
// CLOSURE binding pseudo-instructions were emitted in.
func upvalueVector(fi *funcInfo) []Upvalue {
	upvals := make([]Upvalue, 0, len(fi.upvalues))
	for _, uv := range fi.orderedUpvals() {
		if uv.locVarSlot >= 0 { // captures a local of the enclosing function
			upvals = append(upvals, Upvalue{Instack: 1, Idx: byte(uv.locVarSlot)})
		} else { // shares an upvalue of the enclosing function
			upvals = append(upvals, Upvalue{Instack: 0, Idx: byte(uv.upvalIndex)})
		}
	}
	return upvals
}

func upvalueNameVector(fi *funcInfo) []string {
	names := make([]string, len(fi.upvalues))
	for name, uv := range fi.upvalues {
		names[uv.index] = name
	}
	return names
}

func locVarVector(fi *funcInfo) []LocVar {
	locVars := make([]LocVar, 0, len(fi.locVars))
	for _, lv := range fi.locVars {
		locVars = append(locVars, LocVar{
			VarName: lv.name,
			StartPC: uint32(lv.startPC),
			EndPC:   uint32(lv.endPC),
		})
	}
	return locVars
}
