package stdlib

import (
	"fmt"
	"strconv"
	"strings"

	. "github.com/lollipopkit/glua/api"
)

var baseFuncs = map[string]GoFunction{
	"print":          basePrint,
	"assert":         baseAssert,
	"error":          baseError,
	"ipairs":         baseIPairs,
	"pairs":          basePairs,
	"next":           baseNext,
	"select":         baseSelect,
	"load":           baseLoad,
	"loadstring":     baseLoadString,
	"dofile":         baseDoFile,
	"pcall":          basePCall,
	"xpcall":         baseXPCall,
	"rawget":         baseRawGet,
	"rawset":         baseRawSet,
	"rawequal":       baseRawEqual,
	"rawlen":         baseRawLen,
	"type":           baseType,
	"tostring":       baseToString,
	"tonumber":       baseToNumber,
	"unpack":         baseUnpack,
	"setmetatable":   baseSetMetatable,
	"getmetatable":   baseGetMetatable,
	"collectgarbage": baseCollectGarbage,
}

// lua-5.1.5/src/lbaselib.c#luaopen_base()
func OpenBaseLib(ls LuaState) int {
	/* open lib into global table */
	ls.PushGlobalTable()
	ls.SetFuncs(baseFuncs, 0)
	/* set global _G */
	ls.PushValue(-1)
	ls.SetField(-2, "_G")
	/* set global _VERSION */
	ls.PushString("Lua " + VERSION)
	ls.SetField(-2, "_VERSION")
	return 1
}

// print (···)
// http://www.lua.org/manual/5.1/manual.html#pdf-print
func basePrint(ls LuaState) int {
	n := ls.GetTop() /* number of arguments */
	for i := 1; i <= n; i++ {
		if i > 1 {
			fmt.Print("\t")
		}
		fmt.Print(ls.ToString2(i))
		ls.Pop(1) /* pop result */
	}
	fmt.Println()
	return 0
}

// assert (v [, message])
// http://www.lua.org/manual/5.1/manual.html#pdf-assert
func baseAssert(ls LuaState) int {
	if ls.ToBoolean(1) { /* condition is true? */
		return ls.GetTop() /* return all arguments */
	}
	ls.CheckAny(1)                     /* there must be a condition */
	ls.Remove(1)                       /* remove it */
	ls.PushString("assertion failed!") /* default message */
	ls.SetTop(1)                       /* leave only message (default if no other one) */
	return ls.Error()                  /* raise it as is, without position info */
}

// error (message [, level])
// http://www.lua.org/manual/5.1/manual.html#pdf-error
func baseError(ls LuaState) int {
	level := ls.OptInteger(2, 1)
	ls.SetTop(1)
	if ls.Type(1) == LUA_TSTRING && level > 0 {
		/* add position info to a string message */
		return ls.Error2("%s", ls.ToString(1))
	}
	return ls.Error()
}

// ipairs (t)
// http://www.lua.org/manual/5.1/manual.html#pdf-ipairs
func baseIPairs(ls LuaState) int {
	ls.CheckAny(1)
	ls.PushGoFunction(iPairsAux) /* iteration function */
	ls.PushValue(1)              /* state */
	ls.PushInteger(0)            /* initial control value */
	return 3
}

func iPairsAux(ls LuaState) int {
	i := ls.CheckInteger(2) + 1
	ls.PushInteger(i)
	if ls.GetI(1, i) == LUA_TNIL {
		return 1
	}
	return 2
}

// pairs (t)
// http://www.lua.org/manual/5.1/manual.html#pdf-pairs
func basePairs(ls LuaState) int {
	ls.CheckAny(1)
	ls.PushGoFunction(baseNext) /* will return generator, */
	ls.PushValue(1)             /* state, */
	ls.PushNil()                /* and initial value */
	return 3
}

// next (table [, index])
// http://www.lua.org/manual/5.1/manual.html#pdf-next
func baseNext(ls LuaState) int {
	ls.CheckType(1, LUA_TTABLE)
	ls.SetTop(2) /* create a 2nd argument if there isn't one */
	if ls.Next(1) {
		return 2
	}
	ls.PushNil()
	return 1
}

// select (index, ···)
// http://www.lua.org/manual/5.1/manual.html#pdf-select
func baseSelect(ls LuaState) int {
	n := int64(ls.GetTop())
	if ls.Type(1) == LUA_TSTRING && ls.CheckString(1) == "#" {
		ls.PushInteger(n - 1)
		return 1
	}
	i := ls.CheckInteger(1)
	if i < 0 {
		i = n + i
	} else if i > n {
		i = n
	}
	ls.ArgCheck(1 <= i, 1, "index out of range")
	return int(n - i)
}

// load (chunk [, chunkname [, mode]])
// http://www.lua.org/manual/5.1/manual.html#pdf-load
func baseLoad(ls LuaState) int {
	chunk, isStr := ls.ToPointer(1).(string)
	mode := ls.OptString(3, "bt")
	if !isStr {
		return ls.Error2("only string chunks are loadable")
	}
	chunkname := ls.OptString(2, chunk)
	status := ls.Load([]byte(chunk), chunkname, mode)
	if status != LUA_OK { /* error (message is on top of the stack) */
		ls.PushNil()
		ls.Insert(-2) /* put before error message */
		return 2      /* return nil plus error message */
	}
	return 1
}

// loadstring (string [, chunkname])
// http://www.lua.org/manual/5.1/manual.html#pdf-loadstring
func baseLoadString(ls LuaState) int {
	s := ls.CheckString(1)
	chunkname := ls.OptString(2, s)
	status := ls.LoadString(s, chunkname)
	if status != LUA_OK {
		ls.PushNil()
		ls.Insert(-2)
		return 2
	}
	return 1
}

// dofile ([filename])
// http://www.lua.org/manual/5.1/manual.html#pdf-dofile
func baseDoFile(ls LuaState) int {
	filename := ls.CheckString(1)
	ls.SetTop(1)
	if ls.LoadFile(filename) != LUA_OK {
		return ls.Error()
	}
	ls.Call(0, LUA_MULTRET)
	return ls.GetTop() - 1
}

// pcall (f [, arg1, ···])
// http://www.lua.org/manual/5.1/manual.html#pdf-pcall
func basePCall(ls LuaState) int {
	nArgs := ls.GetTop() - 1
	status := ls.PCall(nArgs, LUA_MULTRET, 0)
	ls.PushBoolean(status == LUA_OK)
	ls.Insert(1)
	return ls.GetTop()
}

// xpcall (f, msgh [, arg1, ···])
// http://www.lua.org/manual/5.1/manual.html#pdf-xpcall
func baseXPCall(ls LuaState) int {
	nArgs := ls.GetTop() - 2
	/* move the handler below the function: msgh, f, args... */
	ls.PushValue(2)
	ls.Insert(1)
	ls.Remove(3)
	status := ls.PCall(nArgs, LUA_MULTRET, 1)
	ls.PushBoolean(status == LUA_OK)
	ls.Insert(2)
	return ls.GetTop() - 1
}

// rawget (table, index)
func baseRawGet(ls LuaState) int {
	ls.CheckType(1, LUA_TTABLE)
	ls.CheckAny(2)
	ls.SetTop(2)
	ls.RawGet(1)
	return 1
}

// rawset (table, index, value)
func baseRawSet(ls LuaState) int {
	ls.CheckType(1, LUA_TTABLE)
	ls.CheckAny(2)
	ls.CheckAny(3)
	ls.SetTop(3)
	ls.RawSet(1)
	return 1
}

// rawequal (v1, v2)
func baseRawEqual(ls LuaState) int {
	ls.CheckAny(1)
	ls.CheckAny(2)
	ls.PushBoolean(ls.RawEqual(1, 2))
	return 1
}

// rawlen (v)
func baseRawLen(ls LuaState) int {
	t := ls.Type(1)
	ls.ArgCheck(t == LUA_TTABLE || t == LUA_TSTRING, 1, "table or string expected")
	ls.PushInteger(int64(ls.RawLen(1)))
	return 1
}

// type (v)
// http://www.lua.org/manual/5.1/manual.html#pdf-type
func baseType(ls LuaState) int {
	ls.CheckAny(1)
	ls.PushString(ls.TypeName2(1))
	return 1
}

// tostring (v)
// http://www.lua.org/manual/5.1/manual.html#pdf-tostring
func baseToString(ls LuaState) int {
	ls.CheckAny(1)
	ls.ToString2(1)
	return 1
}

// tonumber (e [, base])
// http://www.lua.org/manual/5.1/manual.html#pdf-tonumber
func baseToNumber(ls LuaState) int {
	if ls.IsNoneOrNil(2) { /* standard conversion? */
		ls.CheckAny(1)
		if ls.Type(1) == LUA_TNUMBER {
			ls.SetTop(1)
			return 1
		}
		if ls.Type(1) == LUA_TSTRING {
			if f, ok := ls.ToNumberX(1); ok {
				ls.PushNumber(f)
				return 1
			}
		}
		ls.PushNil()
		return 1
	}

	base := int(ls.CheckInteger(2))
	ls.ArgCheck(2 <= base && base <= 36, 2, "base out of range")
	s := strings.TrimSpace(ls.CheckString(1))
	if i, err := strconv.ParseInt(strings.ToLower(s), base, 64); err == nil {
		ls.PushInteger(i)
		return 1
	}
	ls.PushNil()
	return 1
}

// unpack (list [, i [, j]])
// http://www.lua.org/manual/5.1/manual.html#pdf-unpack
func baseUnpack(ls LuaState) int {
	ls.CheckType(1, LUA_TTABLE)
	i := ls.OptInteger(2, 1)
	e := ls.OptInteger(3, ls.Len2(1))
	if i > e {
		return 0 /* empty range */
	}
	n := int(e - i + 1)
	if n <= 0 || !ls.CheckStack(n) {
		return ls.Error2("too many results to unpack")
	}
	for ; i <= e; i++ {
		ls.GetI(1, i)
	}
	return n
}

// setmetatable (table, metatable)
// http://www.lua.org/manual/5.1/manual.html#pdf-setmetatable
func baseSetMetatable(ls LuaState) int {
	t := ls.Type(2)
	ls.CheckType(1, LUA_TTABLE)
	ls.ArgCheck(t == LUA_TNIL || t == LUA_TTABLE, 2, "nil or table expected")
	if ls.GetMetafield(1, "__metatable") != LUA_TNIL {
		return ls.Error2("cannot change a protected metatable")
	}
	ls.SetTop(2)
	ls.SetMetatable(1)
	return 1
}

// getmetatable (object)
// http://www.lua.org/manual/5.1/manual.html#pdf-getmetatable
func baseGetMetatable(ls LuaState) int {
	ls.CheckAny(1)
	if !ls.GetMetatable(1) {
		ls.PushNil()
		return 1 /* no metatable */
	}
	ls.GetMetafield(1, "__metatable")
	if ls.Type(-1) != LUA_TNIL {
		return 1 /* return __metatable field */
	}
	ls.Pop(1)
	ls.GetMetatable(1)
	return 1
}

// collectgarbage ([opt [, arg]])
// http://www.lua.org/manual/5.1/manual.html#pdf-collectgarbage
func baseCollectGarbage(ls LuaState) int {
	opt := ls.OptString(1, "collect")
	switch opt {
	case "collect", "step":
		ls.GC(LUA_GCCOLLECT, 0)
		ls.PushInteger(0)
	case "count":
		ls.PushInteger(int64(ls.GC(LUA_GCCOUNT, 0)))
	case "stop":
		ls.GC(LUA_GCSTOP, 0)
		ls.PushInteger(0)
	case "restart":
		ls.GC(LUA_GCRESTART, 0)
		ls.PushInteger(0)
	default:
		return ls.ArgError(1, "invalid option '"+opt+"'")
	}
	return 1
}
