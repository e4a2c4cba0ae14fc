package state

import (
	"math"

	. "github.com/lollipopkit/glua/api"
)

/* set functions (stack -> Lua) */

// SetTable pops the value then the key and performs t[k]=v (where t is
// at idx). __newindex applies when the raw slot is nil.
func (self *luaState) SetTable(idx int) {
	t := self.getValue(idx)
	v := self.stack.pop()
	k := self.stack.pop()
	self.setTable(t, k, v, false)
}

func (self *luaState) SetField(idx int, k string) {
	t := self.getValue(idx)
	v := self.stack.pop()
	self.setTable(t, self.gs.interner.intern(self.gs, k), v, false)
}

func (self *luaState) SetI(idx int, i int64) {
	t := self.getValue(idx)
	v := self.stack.pop()
	self.setTable(t, float64(i), v, false)
}

func (self *luaState) RawSet(idx int) {
	t := self.getValue(idx)
	v := self.stack.pop()
	k := self.stack.pop()
	self.setTable(t, k, v, true)
}

func (self *luaState) RawSetI(idx int, i int64) {
	t := self.getValue(idx)
	v := self.stack.pop()
	self.setTable(t, float64(i), v, true)
}

func (self *luaState) SetGlobal(name string) {
	v := self.stack.pop()
	self.setTable(self.gs.globals, self.gs.interner.intern(self.gs, name), v, false)
}

func (self *luaState) Register(name string, f GoFunction) {
	self.PushGoFunction(f)
	self.SetGlobal(name)
}

// SetMetatable pops a table (or nil) and installs it as the metatable
// of the value at idx. For non-table values this sets the per-type
// default metatable.
func (self *luaState) SetMetatable(idx int) {
	val := self.getValue(idx)
	mtVal := self.stack.pop()

	switch mt := mtVal.(type) {
	case nil:
		setMetatable(val, nil, self)
	case *luaTable:
		setMetatable(val, mt, self)
	default:
		self.runtimeError("table expected for metatable, got %s", typeName(typeOf(mtVal)))
	}
}

// setTable stores t[k]=v, following __newindex chains unless raw.
func (self *luaState) setTable(t, k, v any, raw bool) {
	for loop := 0; loop < maxMetaChain; loop++ {
		if tbl, ok := t.(*luaTable); ok {
			if raw || tbl.get(k) != nil || !tbl.hasMetafield("__newindex") {
				self.checkKey(k)
				tbl.put(k, v)
				self.gs.barrierBack(tbl, k)
				self.gs.barrierBack(tbl, v)
				return
			}
			switch mf := tbl.metatable.get("__newindex").(type) {
			case *closure:
				self.callMetaNewIndex(mf, t, k, v)
				return
			default:
				t = mf
				continue
			}
		}

		if raw {
			self.runtimeError("attempt to index a %s value", typeName(typeOf(t)))
		}
		switch mf := getMetafield(t, "__newindex", self).(type) {
		case nil:
			self.runtimeError("attempt to index a %s value", typeName(typeOf(t)))
		case *closure:
			self.callMetaNewIndex(mf, t, k, v)
			return
		default:
			t = mf
		}
	}
	self.runtimeError("'__newindex' chain too long; possible loop")
}

func (self *luaState) checkKey(k any) {
	if k == nil {
		self.runtimeError("table index is nil")
	}
	if f, ok := k.(float64); ok && math.IsNaN(f) {
		self.runtimeError("table index is NaN")
	}
}

func (self *luaState) callMetaNewIndex(mf *closure, t, k, v any) {
	self.stack.check(4)
	self.stack.push(mf)
	self.stack.push(t)
	self.stack.push(k)
	self.stack.push(v)
	self.Call(3, 0)
}
