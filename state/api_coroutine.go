package state

import . "github.com/lollipopkit/glua/api"

/*
Coroutines are additional threads sharing the global state. The handoff
runs on goroutines but is strictly synchronous: a resume blocks its
caller until the coroutine yields, returns or errors, so at most one
thread of a global state ever mutates it.
*/

func (self *luaState) NewThread() LuaState {
	t := self.gs.newThread()
	self.stack.push(t)
	return t
}

func (self *luaState) Resume(from LuaState, nArgs int) LuaStatus {
	lsFrom := from.(*luaState)
	if lsFrom.coChan == nil {
		lsFrom.coChan = make(chan int)
	}

	if self.coChan == nil {
		// first resume starts the body
		self.coChan = make(chan int)
		self.coCaller = lsFrom
		go func() {
			self.status = self.PCall(nArgs, LUA_MULTRET, 0)
			lsFrom.coChan <- 1
		}()
	} else {
		if self.status != LUA_YIELD {
			self.stack.check(1)
			self.stack.push(self.gs.interner.intern(self.gs,
				"cannot resume non-suspended coroutine"))
			return LUA_ERRRUN
		}
		self.status = LUA_OK
		self.coChan <- 1
	}

	<-lsFrom.coChan // wait for the coroutine to finish or yield
	return self.status
}

func (self *luaState) Yield(nResults int) LuaStatus {
	if self.coCaller == nil {
		self.runtimeError("attempt to yield from outside a coroutine")
	}
	self.status = LUA_YIELD
	self.ci.status |= ciStatYielded
	self.coCaller.coChan <- 1
	<-self.coChan
	self.ci.status &^= ciStatYielded
	self.ci.status |= ciStatReentry
	return LuaStatus(self.GetTop())
}

func (self *luaState) Status() LuaStatus {
	return self.status
}

func (self *luaState) IsYieldable() bool {
	return !self.isMainThread()
}

// HasFrames reports whether the thread has activation records beyond
// the host frame (used to tell "normal" from "dead"/"suspended").
func (self *luaState) HasFrames() bool {
	return self.ci != nil && self.ci.prev != nil
}
