package state

import (
	"fmt"
	"os"

	. "github.com/lollipopkit/glua/api"
	"github.com/lollipopkit/glua/stdlib"
)

/* error-report functions */

func (self *luaState) Error2(format string, a ...any) int {
	self.PushString(self.where() + fmt.Sprintf(format, a...))
	return self.Error()
}

func (self *luaState) ArgError(arg int, extraMsg string) int {
	return self.Error2("bad argument #%d (%s)", arg, extraMsg)
}

/* argument check functions */

func (self *luaState) CheckStack2(sz int, msg string) {
	if !self.CheckStack(sz) {
		if msg != "" {
			self.Error2("stack overflow (%s)", msg)
		} else {
			self.Error2("stack overflow")
		}
	}
}

func (self *luaState) ArgCheck(cond bool, arg int, extraMsg string) {
	if !cond {
		self.ArgError(arg, extraMsg)
	}
}

func (self *luaState) CheckAny(arg int) {
	if self.Type(arg) == LUA_TNONE {
		self.ArgError(arg, "value expected")
	}
}

func (self *luaState) CheckType(arg int, t LuaType) {
	if self.Type(arg) != t {
		self.tagError(arg, t)
	}
}

func (self *luaState) CheckInteger(arg int) int64 {
	i, ok := self.ToIntegerX(arg)
	if !ok {
		self.intError(arg)
	}
	return i
}

func (self *luaState) CheckNumber(arg int) float64 {
	f, ok := self.ToNumberX(arg)
	if !ok {
		self.tagError(arg, LUA_TNUMBER)
	}
	return f
}

func (self *luaState) CheckString(arg int) string {
	s, ok := self.ToStringX(arg)
	if !ok {
		self.tagError(arg, LUA_TSTRING)
	}
	return s
}

func (self *luaState) OptInteger(arg int, d int64) int64 {
	if self.IsNoneOrNil(arg) {
		return d
	}
	return self.CheckInteger(arg)
}

func (self *luaState) OptNumber(arg int, d float64) float64 {
	if self.IsNoneOrNil(arg) {
		return d
	}
	return self.CheckNumber(arg)
}

func (self *luaState) OptString(arg int, d string) string {
	if self.IsNoneOrNil(arg) {
		return d
	}
	return self.CheckString(arg)
}

func (self *luaState) intError(arg int) {
	if self.IsNumber(arg) {
		self.ArgError(arg, "number has no integer representation")
	} else {
		self.tagError(arg, LUA_TNUMBER)
	}
}

func (self *luaState) tagError(arg int, tag LuaType) {
	self.typeError(arg, self.TypeName(tag))
}

func (self *luaState) typeError(arg int, tname string) int {
	var typeArg string
	if self.GetMetafield(arg, "__name") == LUA_TSTRING {
		typeArg = self.ToString(-1)
		self.Pop(1)
	} else {
		typeArg = self.TypeName2(arg)
	}
	return self.ArgError(arg, fmt.Sprintf("%s expected, got %s", tname, typeArg))
}

/* load functions */

func (self *luaState) DoFile(filename string) bool {
	return self.LoadFile(filename) == LUA_OK &&
		self.PCall(0, LUA_MULTRET, 0) == LUA_OK
}

func (self *luaState) DoString(str, source string) bool {
	return self.LoadString(str, source) == LUA_OK &&
		self.PCall(0, LUA_MULTRET, 0) == LUA_OK
}

func (self *luaState) LoadFile(filename string) LuaStatus {
	return self.LoadFileX(filename, "bt")
}

func (self *luaState) LoadFileX(filename, mode string) LuaStatus {
	data, err := os.ReadFile(filename)
	if err != nil {
		self.PushString("cannot open " + filename)
		return LUA_ERRSYNTAX
	}
	return self.Load(data, "@"+filename, mode)
}

func (self *luaState) LoadString(s, source string) LuaStatus {
	return self.Load([]byte(s), source, "bt")
}

/* other functions */

func (self *luaState) TypeName2(idx int) string {
	return self.TypeName(self.Type(idx))
}

// ToString2 converts the value at idx to a string, honoring
// __tostring, pushes the string and returns it.
func (self *luaState) ToString2(idx int) string {
	if self.CallMeta(idx, "__tostring") {
		if s, ok := self.ToStringX(-1); ok {
			return s
		}
		self.Error2("'__tostring' must return a string")
	}

	switch self.Type(idx) {
	case LUA_TNUMBER, LUA_TSTRING:
		s, _ := self.ToStringX(idx)
		self.PushString(s)
		return s
	case LUA_TBOOLEAN:
		var s string
		if self.ToBoolean(idx) {
			s = "true"
		} else {
			s = "false"
		}
		self.PushString(s)
		return s
	case LUA_TNIL:
		self.PushString("nil")
		return "nil"
	default:
		s := fmt.Sprintf("%s: %p", self.TypeName2(idx), self.ToPointer(idx))
		self.PushString(s)
		return s
	}
}

func (self *luaState) Len2(idx int) int64 {
	self.Len(idx)
	i, ok := self.ToIntegerX(-1)
	if !ok {
		self.Error2("object length is not an integer")
	}
	self.Pop(1)
	return i
}

// GetSubTable pushes registry-or-table field fname, creating it as an
// empty table when absent.
func (self *luaState) GetSubTable(idx int, fname string) bool {
	if self.GetField(idx, fname) == LUA_TTABLE {
		return true
	}
	self.Pop(1)
	idx = self.AbsIndex(idx)
	self.CreateTable(0, 0)
	self.PushValue(-1)
	self.SetField(idx, fname)
	return false
}

func (self *luaState) GetMetafield(obj int, e string) LuaType {
	if !self.GetMetatable(obj) {
		return LUA_TNIL
	}

	self.PushString(e)
	tt := self.RawGet(-2)
	if tt == LUA_TNIL {
		self.Pop(2) // remove metatable and nil
	} else {
		self.Remove(-2) // remove only metatable
	}
	return tt
}

func (self *luaState) CallMeta(obj int, e string) bool {
	obj = self.AbsIndex(obj)
	if self.GetMetafield(obj, e) == LUA_TNIL {
		return false
	}

	self.PushValue(obj)
	self.Call(1, 1)
	return true
}

/* library registration */

func (self *luaState) OpenLibs() {
	libs := map[string]GoFunction{
		"_G":        stdlib.OpenBaseLib,
		"math":      stdlib.OpenMathLib,
		"string":    stdlib.OpenStringLib,
		"table":     stdlib.OpenTableLib,
		"os":        stdlib.OpenOSLib,
		"io":        stdlib.OpenIOLib,
		"coroutine": stdlib.OpenCoroutineLib,
		"debug":     stdlib.OpenDebugLib,
	}

	for name, fun := range libs {
		self.RequireF(name, fun, true)
		self.Pop(1) /* remove lib */
	}
}

// RequireF runs a library's registration entry point once, records the
// module in registry._LOADED and optionally as a global.
func (self *luaState) RequireF(modname string, openf GoFunction, glb bool) {
	self.GetSubTable(LUA_REGISTRYINDEX, "_LOADED")
	self.GetField(-1, modname) // _LOADED[modname]
	if !self.ToBoolean(-1) {   // package not already loaded?
		self.Pop(1) // remove field
		self.PushGoFunction(openf)
		self.PushString(modname)   // argument to open function
		self.Call(1, 1)            // call open function
		self.PushValue(-1)         // make copy of module
		self.SetField(-3, modname) // _LOADED[modname] = module
	}
	self.Remove(-2) // remove _LOADED table
	if glb {
		self.PushValue(-1)      // copy of module
		self.SetGlobal(modname) // _G[modname] = module
	}
}

func (self *luaState) NewLib(l FuncReg) {
	self.NewLibTable(l)
	self.SetFuncs(l, 0)
}

func (self *luaState) NewLibTable(l FuncReg) {
	self.CreateTable(0, len(l))
}

// SetFuncs registers every function in l into the table below the nup
// shared upvalues.
func (self *luaState) SetFuncs(l FuncReg, nup int) {
	self.CheckStack2(nup, "too many upvalues")
	for name, fun := range l {
		for i := 0; i < nup; i++ {
			self.PushValue(-nup)
		}
		self.PushGoClosure(fun, nup)
		self.SetField(-(nup + 2), name)
	}
	self.Pop(nup)
}
