package state

import (
	"fmt"

	. "github.com/lollipopkit/glua/api"
	"github.com/lollipopkit/glua/utils"
)

/* access functions (stack -> Go) */

func (self *luaState) TypeName(tp LuaType) string {
	return typeName(tp)
}

func (self *luaState) Type(idx int) LuaType {
	if !self.isValidIndex(idx) {
		return LUA_TNONE
	}
	return typeOf(self.getValue(idx))
}

func (self *luaState) IsNone(idx int) bool {
	return self.Type(idx) == LUA_TNONE
}

func (self *luaState) IsNil(idx int) bool {
	return self.Type(idx) == LUA_TNIL
}

func (self *luaState) IsNoneOrNil(idx int) bool {
	return self.Type(idx) <= LUA_TNIL
}

func (self *luaState) IsBoolean(idx int) bool {
	return self.Type(idx) == LUA_TBOOLEAN
}

func (self *luaState) IsTable(idx int) bool {
	return self.Type(idx) == LUA_TTABLE
}

func (self *luaState) IsThread(idx int) bool {
	return self.Type(idx) == LUA_TTHREAD
}

func (self *luaState) IsFunction(idx int) bool {
	return self.Type(idx) == LUA_TFUNCTION
}

func (self *luaState) IsUserdata(idx int) bool {
	return self.Type(idx) == LUA_TUSERDATA
}

func (self *luaState) IsNumber(idx int) bool {
	_, ok := self.ToNumberX(idx)
	return ok
}

func (self *luaState) IsString(idx int) bool {
	t := self.Type(idx)
	return t == LUA_TSTRING || t == LUA_TNUMBER
}

func (self *luaState) IsGoFunction(idx int) bool {
	c, ok := self.getValue(idx).(*closure)
	return ok && c.goFunc != nil
}

func (self *luaState) ToBoolean(idx int) bool {
	return convertToBoolean(self.getValue(idx))
}

func (self *luaState) ToNumber(idx int) float64 {
	f, _ := self.ToNumberX(idx)
	return f
}

func (self *luaState) ToNumberX(idx int) (float64, bool) {
	return convertToFloat(self.getValue(idx))
}

func (self *luaState) ToInteger(idx int) int64 {
	i, _ := self.ToIntegerX(idx)
	return i
}

func (self *luaState) ToIntegerX(idx int) (int64, bool) {
	return convertToInteger(self.getValue(idx))
}

func (self *luaState) ToString(idx int) string {
	s, _ := self.ToStringX(idx)
	return s
}

func (self *luaState) ToStringX(idx int) (string, bool) {
	switch x := self.getValue(idx).(type) {
	case string:
		return x, true
	case float64:
		s := self.gs.interner.intern(self.gs, utils.NumberToString(x))
		self.setValue(idx, s) // converts the slot in place, like the C API
		return s, true
	default:
		return "", false
	}
}

func (self *luaState) ToGoFunction(idx int) GoFunction {
	if c, ok := self.getValue(idx).(*closure); ok {
		return c.goFunc
	}
	return nil
}

func (self *luaState) ToThread(idx int) LuaState {
	if t, ok := self.getValue(idx).(*luaState); ok {
		return t
	}
	return nil
}

func (self *luaState) ToUserdata(idx int) any {
	if ud, ok := self.getValue(idx).(*userdata); ok {
		return ud.data
	}
	return nil
}

func (self *luaState) ToPointer(idx int) any {
	return self.getValue(idx)
}

func (self *luaState) RawLen(idx int) int {
	switch x := self.getValue(idx).(type) {
	case string:
		return len(x)
	case *luaTable:
		return x.length()
	default:
		return 0
	}
}

func (self *luaState) RawEqual(idx1, idx2 int) bool {
	if !self.isValidIndex(idx1) || !self.isValidIndex(idx2) {
		return false
	}
	return rawEqual(self.getValue(idx1), self.getValue(idx2))
}

// rawEqual: value identity for scalars, interned identity for strings,
// reference identity for everything else.
func rawEqual(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	default:
		return a == b
	}
}

func debugValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", x)
	case float64:
		return utils.NumberToString(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
