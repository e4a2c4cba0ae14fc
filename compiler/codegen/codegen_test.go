package codegen

import (
	"testing"

	"github.com/lollipopkit/glua/binchunk"
	"github.com/lollipopkit/glua/compiler/parser"
	"github.com/lollipopkit/glua/vm"
)

func compile(t *testing.T, src string) *binchunk.Prototype {
	t.Helper()
	block, err := parser.Parse(src, "test")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return GenProto(block, "test")
}

func TestMainChunkShape(t *testing.T) {
	proto := compile(t, "local a = 1 return a")
	if proto.IsVararg != 1 {
		t.Errorf("main chunk must be vararg")
	}
	if proto.NumParams != 0 {
		t.Errorf("main chunk has %d params", proto.NumParams)
	}
	if proto.MaxStackSize < 2 {
		t.Errorf("max stack size below minimum: %d", proto.MaxStackSize)
	}
	if proto.Source != "@test" {
		t.Errorf("source not recorded: %q", proto.Source)
	}
}

func TestConstantsDeduplicated(t *testing.T) {
	proto := compile(t, `local a = "x" local b = "x" local c = "x" local d = 7 local e = 7`)
	if len(proto.Constants) != 2 {
		t.Errorf("got %d constants, want 2 (deduplicated)", len(proto.Constants))
	}
}

func TestGlobalsCompileToGlobalOpcodes(t *testing.T) {
	proto := compile(t, "x = y")
	var sawGet, sawSet bool
	for _, code := range proto.Code {
		switch vm.Instruction(code).Opcode() {
		case vm.OP_GETGLOBAL:
			sawGet = true
		case vm.OP_SETGLOBAL:
			sawSet = true
		}
	}
	if !sawGet || !sawSet {
		t.Errorf("globals should lower to GETGLOBAL/SETGLOBAL (get=%v set=%v)", sawGet, sawSet)
	}
}

func TestUpvalueDescriptorLocal(t *testing.T) {
	proto := compile(t, `
local x = 1
local function f() return x end
`)
	if len(proto.Protos) != 1 {
		t.Fatalf("got %d child protos, want 1", len(proto.Protos))
	}
	child := proto.Protos[0]
	if len(child.Upvalues) != 1 {
		t.Fatalf("got %d upvalues, want 1", len(child.Upvalues))
	}
	if child.Upvalues[0].Instack != 1 {
		t.Errorf("capturing an enclosing local must set Instack")
	}
	if len(child.UpvalueNames) != 1 || child.UpvalueNames[0] != "x" {
		t.Errorf("upvalue name not recorded: %v", child.UpvalueNames)
	}
}

// a reference across two function barriers gives each intermediate
// function its own descriptor
func TestUpvalueDescriptorChain(t *testing.T) {
	proto := compile(t, `
local x = 1
local function outer()
	local function inner() return x end
	return inner
end
`)
	outer := proto.Protos[0]
	if len(outer.Upvalues) != 1 || outer.Upvalues[0].Instack != 1 {
		t.Fatalf("intermediate function should capture the local directly: %+v", outer.Upvalues)
	}
	inner := outer.Protos[0]
	if len(inner.Upvalues) != 1 || inner.Upvalues[0].Instack != 0 {
		t.Fatalf("inner function should reference the parent's upvalue: %+v", inner.Upvalues)
	}
}

// CLOSURE must be followed by one binding pseudo-instruction per upvalue
func TestClosureBindingPseudoInstructions(t *testing.T) {
	proto := compile(t, `
local x = 1
local f = function() return x end
`)
	for pc, code := range proto.Code {
		i := vm.Instruction(code)
		if i.Opcode() != vm.OP_CLOSURE {
			continue
		}
		_, bx := i.ABx()
		nUps := len(proto.Protos[bx].Upvalues)
		if pc+nUps >= len(proto.Code) {
			t.Fatalf("missing binding instructions after CLOSURE")
		}
		for k := 1; k <= nUps; k++ {
			op := vm.Instruction(proto.Code[pc+k]).Opcode()
			if op != vm.OP_MOVE && op != vm.OP_GETUPVAL {
				t.Errorf("binding %d after CLOSURE: opcode %d", k, op)
			}
		}
		return
	}
	t.Fatal("no CLOSURE instruction emitted")
}

func TestTailCallLowering(t *testing.T) {
	proto := compile(t, "local function f() return f() end return 0")
	child := proto.Protos[0]
	found := false
	for _, code := range child.Code {
		if vm.Instruction(code).Opcode() == vm.OP_TAILCALL {
			found = true
		}
	}
	if !found {
		t.Errorf("return f() should lower to TAILCALL")
	}
}

func TestNumericForLowering(t *testing.T) {
	proto := compile(t, "for i = 1, 10 do end")
	var sawPrep, sawLoop bool
	for _, code := range proto.Code {
		switch vm.Instruction(code).Opcode() {
		case vm.OP_FORPREP:
			sawPrep = true
		case vm.OP_FORLOOP:
			sawLoop = true
		}
	}
	if !sawPrep || !sawLoop {
		t.Errorf("numeric for should emit FORPREP+FORLOOP")
	}
}

func TestGenericForLowering(t *testing.T) {
	proto := compile(t, "for k, v in pairs(t) do end")
	found := false
	for pc, code := range proto.Code {
		i := vm.Instruction(code)
		if i.Opcode() == vm.OP_TFORLOOP {
			found = true
			_, _, c := i.ABC()
			if c != 2 {
				t.Errorf("TFORLOOP C: got %d, want 2 loop variables", c)
			}
			if pc+1 >= len(proto.Code) ||
				vm.Instruction(proto.Code[pc+1]).Opcode() != vm.OP_JMP {
				t.Errorf("TFORLOOP must be followed by the back jump")
			}
		}
	}
	if !found {
		t.Error("generic for should emit TFORLOOP")
	}
}

func TestConcatChainOneInstruction(t *testing.T) {
	proto := compile(t, "local a, b, c = 1, 2, 3 local s = a .. b .. c")
	count := 0
	for _, code := range proto.Code {
		i := vm.Instruction(code)
		if i.Opcode() == vm.OP_CONCAT {
			count++
			_, b, c := i.ABC()
			if c-b != 2 {
				t.Errorf("CONCAT should span 3 registers, got B=%d C=%d", b, c)
			}
		}
	}
	if count != 1 {
		t.Errorf("a..b..c should emit a single CONCAT, got %d", count)
	}
}

func TestCapturedLoopVarEmitsClose(t *testing.T) {
	proto := compile(t, `
local fs = {}
for i = 1, 3 do
	fs[i] = function() return i end
end
`)
	found := false
	for _, code := range proto.Code {
		if vm.Instruction(code).Opcode() == vm.OP_CLOSE {
			found = true
		}
	}
	if !found {
		t.Errorf("a captured loop variable should emit CLOSE at scope exit")
	}
}

func TestBreakOutsideLoopFails(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("break outside a loop should abort compilation")
		}
	}()
	compile(t, "break")
}

func TestRegisterLimit(t *testing.T) {
	// a single expression wide enough to exhaust the register budget
	src := "return f("
	for i := 0; i < 260; i++ {
		if i > 0 {
			src += ","
		}
		src += "g()"
	}
	src += ")"
	defer func() {
		if recover() == nil {
			t.Errorf("register overflow should abort compilation")
		}
	}()
	compile(t, src)
}
