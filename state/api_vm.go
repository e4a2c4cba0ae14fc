package state

import (
	"github.com/lollipopkit/glua/vm"
)

/* the LuaVM view used by instruction handlers */

func (self *luaState) PC() int {
	return self.ci.savedPC
}

func (self *luaState) AddPC(n int) {
	self.ci.savedPC += n
}

func (self *luaState) Fetch() uint32 {
	i := self.ci.closure.proto.Code[self.ci.savedPC]
	self.ci.savedPC++
	return i
}

func (self *luaState) GetConst(idx int) {
	k := self.ci.closure.proto.Constants[idx]
	if s, ok := k.(string); ok {
		k = self.gs.interner.intern(self.gs, s)
	}
	self.stack.push(k)
}

// GetRK pushes a register or a constant depending on the RK operand's
// high bit.
func (self *luaState) GetRK(rk int) {
	if rk > 0xFF { // constant
		self.GetConst(rk & 0xFF)
	} else { // register
		self.PushValue(rk + 1)
	}
}

func (self *luaState) RegisterCount() int {
	return int(self.ci.closure.proto.MaxStackSize)
}

func (self *luaState) LoadVararg(n int) {
	if n < 0 {
		n = len(self.ci.varargs)
	}

	self.stack.check(n)
	self.stack.pushN(self.ci.varargs, n)
}

// LoadProto instantiates a closure from a child prototype. Each upvalue
// binds per the pseudo-instruction following CLOSURE: MOVE captures a
// local register of this frame (reusing the open cell if any sibling
// closure already captured that slot), GETUPVAL shares one of this
// closure's own upvalue cells.
func (self *luaState) LoadProto(idx int) {
	ci := self.ci
	subProto := ci.closure.proto.Protos[idx]
	c := self.gs.newLuaClosure(subProto)

	for i := range subProto.Upvalues {
		pseudo := vm.Instruction(self.Fetch())
		_, b, _ := pseudo.ABC()
		switch pseudo.Opcode() {
		case vm.OP_MOVE:
			c.upVals[i] = self.findUpvalue(ci.base + b)
		case vm.OP_GETUPVAL:
			c.upVals[i] = ci.closure.upVals[b]
		default:
			panic("malformed upvalue binding after CLOSURE")
		}
	}

	self.stack.push(c)
}

// CloseUpvalues closes open upvalues at or above frame register a
// (1-based).
func (self *luaState) CloseUpvalues(a int) {
	self.closeUpvaluesAbs(self.ci.base + a - 1)
}
