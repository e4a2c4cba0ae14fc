package state

import (
	. "github.com/lollipopkit/glua/api"
)

// luaState is one thread of execution: a value stack, a callInfo
// chain, the open-upvalue list and coroutine plumbing. All threads of
// one interpreter share a globalState.
type luaState struct {
	gcHeader
	gs        *globalState
	stack     *luaStack
	ci        *callInfo
	callDepth int
	openuvs   *upvalue
	status    LuaStatus
	/* instruction hook */
	hookEvery   int
	hookCounter int
	hookFn      GoFunction
	hookRunning bool
	/* coroutine */
	coCaller *luaState
	coChan   chan int
}

// New creates an interpreter instance: a fresh global state plus its
// main thread.
func New() LuaState {
	gs := newGlobalState()
	ls := gs.newThread()
	gs.mainThread = ls
	gs.registry.put(LUA_RIDX_MAINTHREAD, ls)
	return ls
}

func (self *globalState) newThread() *luaState {
	ls := &luaState{
		gs:    self,
		stack: newLuaStack(LUA_MINSTACK),
	}
	ls.ci = &callInfo{base: 0, top: LUA_MINSTACK, nResults: LUA_MULTRET}
	self.addObj(ls, sizeThread)
	return ls
}

func (self *luaState) isMainThread() bool {
	return self.gs.mainThread == self
}

/* index translation */

// absSlot maps an acceptable API index to an absolute stack slot, or
// -1 when the index does not denote a stack slot.
func (self *luaState) absSlot(idx int) int {
	if idx > 0 {
		return self.ci.base + idx - 1
	}
	if idx > LUA_REGISTRYINDEX { // negative: relative to top
		return self.stack.top + idx
	}
	return -1
}

func (self *luaState) getValue(idx int) any {
	if idx < LUA_REGISTRYINDEX { // upvalues of the running closure
		uvIdx := LUA_REGISTRYINDEX - idx - 1
		c := self.ci.closure
		if c == nil || uvIdx >= len(c.upVals) || c.upVals[uvIdx] == nil {
			return nil
		}
		return c.upVals[uvIdx].get()
	}
	if idx == LUA_REGISTRYINDEX {
		return self.gs.registry
	}

	absIdx := self.absSlot(idx)
	if absIdx >= self.ci.base && absIdx < self.stack.top {
		return self.stack.slots[absIdx]
	}
	return nil
}

func (self *luaState) setValue(idx int, val any) {
	if idx < LUA_REGISTRYINDEX {
		uvIdx := LUA_REGISTRYINDEX - idx - 1
		c := self.ci.closure
		if c != nil && uvIdx < len(c.upVals) && c.upVals[uvIdx] != nil {
			c.upVals[uvIdx].set(val)
			self.gs.barrierBack(c, val)
		}
		return
	}
	if idx == LUA_REGISTRYINDEX {
		self.gs.registry = val.(*luaTable)
		return
	}

	absIdx := self.absSlot(idx)
	if absIdx >= self.ci.base && absIdx < self.stack.top {
		self.stack.slots[absIdx] = val
		return
	}
	panic("invalid index!")
}

// isValidIndex reports whether idx denotes an existing slot/upvalue.
func (self *luaState) isValidIndex(idx int) bool {
	if idx < LUA_REGISTRYINDEX {
		uvIdx := LUA_REGISTRYINDEX - idx - 1
		c := self.ci.closure
		return c != nil && uvIdx < len(c.upVals)
	}
	if idx == LUA_REGISTRYINDEX {
		return true
	}
	absIdx := self.absSlot(idx)
	return absIdx >= self.ci.base && absIdx < self.stack.top
}
