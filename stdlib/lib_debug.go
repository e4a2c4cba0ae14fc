package stdlib

import (
	"strings"

	. "github.com/lollipopkit/glua/api"
)

var debugLib = map[string]GoFunction{
	"traceback":    dbgTraceback,
	"getinfo":      dbgGetInfo,
	"getmetatable": dbgGetMetatable,
	"setmetatable": dbgSetMetatable,
	"getregistry":  dbgGetRegistry,
}

func OpenDebugLib(ls LuaState) int {
	ls.NewLib(debugLib)
	return 1
}

// debug.traceback ([message [, level]])
// http://www.lua.org/manual/5.1/manual.html#pdf-debug.traceback
func dbgTraceback(ls LuaState) int {
	msg := ""
	if !ls.IsNoneOrNil(1) {
		if s, ok := ls.ToStringX(1); ok {
			msg = s
		} else { /* non-string 'message' is returned unchanged */
			ls.PushValue(1)
			return 1
		}
	}
	level := int(ls.OptInteger(2, 1))
	ls.PushString(ls.Traceback(msg, level))
	return 1
}

// debug.getinfo (level) -- level form only; the table carries the
// source/short_src/currentline/what subset
// http://www.lua.org/manual/5.1/manual.html#pdf-debug.getinfo
func dbgGetInfo(ls LuaState) int {
	level := int(ls.CheckInteger(1))
	ls.ArgCheck(level >= 0, 1, "level out of range")

	source, line, what, ok := ls.GetStackInfo(level)
	if !ok { /* level past the bottom of the stack */
		ls.PushNil()
		return 1
	}

	ls.CreateTable(0, 4)
	ls.PushString(source)
	ls.SetField(-2, "source")
	ls.PushString(strings.TrimPrefix(source, "@"))
	ls.SetField(-2, "short_src")
	ls.PushInteger(int64(line))
	ls.SetField(-2, "currentline")
	ls.PushString(what)
	ls.SetField(-2, "what")
	return 1
}

// debug.getmetatable (value) -- ignores __metatable
func dbgGetMetatable(ls LuaState) int {
	ls.CheckAny(1)
	if !ls.GetMetatable(1) {
		ls.PushNil()
	}
	return 1
}

// debug.setmetatable (value, table)
func dbgSetMetatable(ls LuaState) int {
	t := ls.Type(2)
	ls.ArgCheck(t == LUA_TNIL || t == LUA_TTABLE, 2, "nil or table expected")
	ls.SetTop(2)
	ls.SetMetatable(1)
	ls.PushValue(1)
	return 1
}

// debug.getregistry ()
func dbgGetRegistry(ls LuaState) int {
	ls.PushValue(LUA_REGISTRYINDEX)
	return 1
}
