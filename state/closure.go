package state

import (
	"fmt"

	. "github.com/lollipopkit/glua/api"
	"github.com/lollipopkit/glua/binchunk"
)

// closure is a function value: a Lua prototype bound to its upvalue
// cells, or a native Go callable.
type closure struct {
	gcHeader
	proto  *binchunk.Prototype // lua closure
	goFunc GoFunction          // go closure
	upVals []*upvalue
}

func (self *globalState) newLuaClosure(proto *binchunk.Prototype) *closure {
	c := &closure{proto: proto}
	if nUpvals := len(proto.Upvalues); nUpvals > 0 {
		c.upVals = make([]*upvalue, nUpvals)
	}
	self.addObj(c, sizeClosure+sizeSlot*len(c.upVals))
	return c
}

func (self *globalState) newGoClosure(f GoFunction, nUpvals int) *closure {
	c := &closure{goFunc: f}
	if nUpvals > 0 {
		c.upVals = make([]*upvalue, nUpvals)
	}
	self.addObj(c, sizeClosure+sizeSlot*len(c.upVals))
	return c
}

func (self *closure) String() string {
	if self.goFunc != nil {
		return fmt.Sprintf("builtin: %p", self.goFunc)
	}
	return fmt.Sprintf("function: %p", self.proto)
}
