package state

import (
	"fmt"

	. "github.com/lollipopkit/glua/api"
)

/* push functions (Go -> stack) */

func (self *luaState) PushNil() {
	self.stack.push(nil)
}

func (self *luaState) PushBoolean(b bool) {
	self.stack.push(b)
}

func (self *luaState) PushInteger(n int64) {
	self.stack.push(float64(n))
}

func (self *luaState) PushNumber(n float64) {
	self.stack.push(n)
}

func (self *luaState) PushString(s string) {
	self.stack.push(self.gs.interner.intern(self.gs, s))
}

func (self *luaState) PushFString(format string, a ...any) {
	self.PushString(fmt.Sprintf(format, a...))
}

func (self *luaState) PushGoFunction(f GoFunction) {
	self.stack.push(self.gs.newGoClosure(f, 0))
}

// PushGoClosure pops n values off the stack into closed upvalue cells
// of a new native closure.
func (self *luaState) PushGoClosure(f GoFunction, n int) {
	c := self.gs.newGoClosure(f, n)
	for i := n; i > 0; i-- {
		val := self.stack.pop()
		c.upVals[i-1] = self.gs.newClosedUpvalue(val)
	}
	self.stack.push(c)
}

func (self *luaState) PushGlobalTable() {
	self.stack.push(self.gs.globals)
}

func (self *luaState) PushThread() bool {
	self.stack.push(self)
	return self.isMainThread()
}

func (self *luaState) NewUserdata(data any) {
	self.stack.push(self.gs.newUserdata(data))
}
