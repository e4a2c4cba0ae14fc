package state

import (
	"fmt"

	. "github.com/lollipopkit/glua/api"
	"github.com/lollipopkit/glua/utils"
)

func typeOf(val any) LuaType {
	switch val.(type) {
	case nil:
		return LUA_TNIL
	case bool:
		return LUA_TBOOLEAN
	case float64:
		return LUA_TNUMBER
	case string:
		return LUA_TSTRING
	case *luaTable:
		return LUA_TTABLE
	case *closure:
		return LUA_TFUNCTION
	case *luaState:
		return LUA_TTHREAD
	case *userdata:
		return LUA_TUSERDATA
	default:
		panic(fmt.Sprintf("invalid type: %T<%v>", val, val))
	}
}

func typeName(tp LuaType) string {
	switch tp {
	case LUA_TNONE:
		return "no value"
	case LUA_TNIL:
		return "nil"
	case LUA_TBOOLEAN:
		return "boolean"
	case LUA_TNUMBER:
		return "number"
	case LUA_TSTRING:
		return "string"
	case LUA_TTABLE:
		return "table"
	case LUA_TFUNCTION:
		return "function"
	case LUA_TTHREAD:
		return "thread"
	default:
		return "userdata"
	}
}

// only nil and false are falsy
func convertToBoolean(val any) bool {
	switch x := val.(type) {
	case nil:
		return false
	case bool:
		return x
	default:
		return true
	}
}

// numbers are IEEE-754 doubles; strings that parse as numbers coerce
func convertToFloat(val any) (float64, bool) {
	switch x := val.(type) {
	case float64:
		return x, true
	case string:
		return utils.ParseNumber(x)
	default:
		return 0, false
	}
}

func convertToInteger(val any) (int64, bool) {
	if f, ok := convertToFloat(val); ok {
		return utils.FloatToInteger(f)
	}
	return 0, false
}

/* userdata */

type userdata struct {
	gcHeader
	data        any
	metatable   *luaTable
	finalizable bool
	finalized   bool
}

func (self *globalState) newUserdata(data any) *userdata {
	ud := &userdata{data: data}
	self.addObj(ud, sizeUserdata)
	return ud
}

/* metatables */

// getMetatable returns the metatable of a value: the table's own, or
// the per-type default kept in the global state.
func getMetatable(val any, gs *globalState) *luaTable {
	switch x := val.(type) {
	case *luaTable:
		return x.metatable
	case *userdata:
		return x.metatable
	default:
		return gs.typeMetatables[typeOf(val)]
	}
}

func setMetatable(val any, mt *luaTable, ls *luaState) {
	switch x := val.(type) {
	case *luaTable:
		x.metatable = mt
		ls.gs.barrierBack(x, mt)
	case *userdata:
		x.metatable = mt
		if mt != nil && mt.get("__gc") != nil {
			x.finalizable = true
		}
		ls.gs.barrierBack(x, mt)
	default:
		ls.gs.typeMetatables[typeOf(val)] = mt
	}
}

func getMetafield(val any, fieldName string, ls *luaState) any {
	if mt := getMetatable(val, ls.gs); mt != nil {
		return mt.get(fieldName)
	}
	return nil
}

func callMetamethod(a, b any, mmName string, ls *luaState) (any, bool) {
	var mm any
	if mm = getMetafield(a, mmName, ls); mm == nil {
		if mm = getMetafield(b, mmName, ls); mm == nil {
			return nil, false
		}
	}

	ls.stack.check(4)
	ls.stack.push(mm)
	ls.stack.push(a)
	ls.stack.push(b)
	ls.Call(2, 1)
	return ls.stack.pop(), true
}
