package state

import . "github.com/lollipopkit/glua/api"

/* get functions (Lua -> stack) */

func (self *luaState) NewTable() {
	self.CreateTable(0, 0)
}

func (self *luaState) CreateTable(nArr, nRec int) {
	self.stack.check(1)
	self.stack.push(self.gs.newTable(nArr, nRec))
}

// GetTable pops the key, pushes t[k] (where t is at idx) and returns
// its type. Metamethods apply.
func (self *luaState) GetTable(idx int) LuaType {
	t := self.getValue(idx)
	k := self.stack.pop()
	v := self.getTable(t, k, false)
	self.stack.push(v)
	return typeOf(v)
}

func (self *luaState) GetField(idx int, k string) LuaType {
	t := self.getValue(idx)
	v := self.getTable(t, k, false)
	self.stack.push(v)
	return typeOf(v)
}

func (self *luaState) GetI(idx int, i int64) LuaType {
	t := self.getValue(idx)
	v := self.getTable(t, float64(i), false)
	self.stack.push(v)
	return typeOf(v)
}

func (self *luaState) RawGet(idx int) LuaType {
	t := self.getValue(idx)
	k := self.stack.pop()
	v := self.getTable(t, k, true)
	self.stack.push(v)
	return typeOf(v)
}

func (self *luaState) RawGetI(idx int, i int64) LuaType {
	t := self.getValue(idx)
	v := self.getTable(t, float64(i), true)
	self.stack.push(v)
	return typeOf(v)
}

func (self *luaState) GetGlobal(name string) LuaType {
	v := self.getTable(self.gs.globals, name, false)
	self.stack.push(v)
	return typeOf(v)
}

// GetMetatable pushes the metatable of the value at idx, or pushes
// nothing and returns false.
func (self *luaState) GetMetatable(idx int) bool {
	val := self.getValue(idx)
	if mt := getMetatable(val, self.gs); mt != nil {
		self.stack.push(mt)
		return true
	}
	return false
}

// maximum length of an __index/__newindex chain, to catch cycles
const maxMetaChain = 100

// getTable resolves t[k], following __index chains (tables or
// functions) unless raw.
func (self *luaState) getTable(t, k any, raw bool) any {
	for loop := 0; loop < maxMetaChain; loop++ {
		if tbl, ok := t.(*luaTable); ok {
			v := tbl.get(k)
			if raw || v != nil || !tbl.hasMetafield("__index") {
				return v
			}
			switch mf := tbl.metatable.get("__index").(type) {
			case *closure:
				return self.callMetaIndex(mf, t, k)
			default:
				t = mf
				continue
			}
		}

		if raw {
			self.runtimeError("attempt to index a %s value", typeName(typeOf(t)))
		}
		switch mf := getMetafield(t, "__index", self).(type) {
		case nil:
			self.runtimeError("attempt to index a %s value", typeName(typeOf(t)))
		case *closure:
			return self.callMetaIndex(mf, t, k)
		default:
			t = mf
		}
	}
	self.runtimeError("'__index' chain too long; possible loop")
	return nil
}

func (self *luaState) callMetaIndex(mf *closure, t, k any) any {
	self.stack.check(3)
	self.stack.push(mf)
	self.stack.push(t)
	self.stack.push(k)
	self.Call(2, 1)
	return self.stack.pop()
}
