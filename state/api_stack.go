package state

import . "github.com/lollipopkit/glua/api"

/* basic stack manipulation */

func (self *luaState) GetTop() int {
	return self.stack.top - self.ci.base
}

func (self *luaState) AbsIndex(idx int) int {
	if idx >= 0 || idx <= LUA_REGISTRYINDEX {
		return idx
	}
	return idx + self.GetTop() + 1
}

func (self *luaState) CheckStack(n int) bool {
	self.stack.check(n)
	if self.stack.top+n > self.ci.top {
		self.ci.top = self.stack.top + n
	}
	return true
}

func (self *luaState) Pop(n int) {
	for i := 0; i < n; i++ {
		self.stack.pop()
	}
}

func (self *luaState) Copy(fromIdx, toIdx int) {
	val := self.getValue(fromIdx)
	self.setValue(toIdx, val)
}

func (self *luaState) PushValue(idx int) {
	val := self.getValue(idx)
	self.stack.push(val)
}

func (self *luaState) Replace(idx int) {
	val := self.stack.pop()
	self.setValue(idx, val)
}

func (self *luaState) Insert(idx int) {
	self.Rotate(idx, 1)
}

func (self *luaState) Remove(idx int) {
	self.Rotate(idx, -1)
	self.Pop(1)
}

func (self *luaState) Rotate(idx, n int) {
	t := self.stack.top - 1
	p := self.absSlot(idx)
	var m int
	if n >= 0 {
		m = t - n
	} else {
		m = p - n - 1
	}
	self.stack.reverse(p, m)
	self.stack.reverse(m+1, t)
	self.stack.reverse(p, t)
}

func (self *luaState) SetTop(idx int) {
	newTop := self.ci.base + idx
	if idx < 0 {
		newTop = self.stack.top + idx + 1
	}
	if newTop < self.ci.base {
		panic("stack underflow!")
	}
	self.stack.check(newTop - self.stack.top)
	self.stack.setTopAbs(newTop)
}

func (self *luaState) XMove(to LuaState, n int) {
	dst := to.(*luaState)
	vals := self.stack.popN(n)
	dst.stack.check(n)
	dst.stack.pushN(vals, n)
}
