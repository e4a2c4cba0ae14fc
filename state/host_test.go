package state

import (
	"strings"
	"testing"

	. "github.com/lollipopkit/glua/api"
)

/* the host embedding surface: native registration, globals, threads */

func TestRegisterNative(t *testing.T) {
	ls := New().(*luaState)
	ls.OpenLibs()
	ls.Register("double", func(arg LuaState) int {
		arg.PushNumber(arg.CheckNumber(1) * 2)
		return 1
	})
	if !ls.DoString("return double(21)", "t") {
		t.Fatalf("chunk failed: %v", ls.ToString2(-1))
	}
	if got := ls.ToNumber(-1); got != 42 {
		t.Errorf("got %v, want 42", got)
	}
}

func TestNativeFunctionError(t *testing.T) {
	ls := New().(*luaState)
	ls.OpenLibs()
	ls.Register("explode", func(arg LuaState) int {
		return arg.Error2("kaboom")
	})
	if !ls.DoString("local ok, err = pcall(explode) return ok, err", "t") {
		t.Fatalf("chunk failed: %v", ls.ToString2(-1))
	}
	if ls.ToBoolean(-2) {
		t.Error("native error not caught by pcall")
	}
	if err := ls.ToString(-1); err == "" || err[len(err)-6:] != "kaboom" {
		t.Errorf("error message: %q", err)
	}
}

func TestGoClosureUpvalues(t *testing.T) {
	ls := New().(*luaState)
	ls.PushInteger(0)
	ls.PushGoClosure(func(arg LuaState) int {
		n := arg.ToNumber(LuaUpvalueIndex(1)) + 1
		arg.PushNumber(n)
		arg.Replace(LuaUpvalueIndex(1))
		arg.PushNumber(n)
		return 1
	}, 1)
	ls.SetGlobal("tick")

	ls.GetGlobal("tick")
	ls.Call(0, 1)
	ls.GetGlobal("tick")
	ls.Call(0, 1)
	if a, b := ls.ToNumber(-2), ls.ToNumber(-1); a != 1 || b != 2 {
		t.Errorf("native upvalue state: got %v, %v; want 1, 2", a, b)
	}
}

func TestSetGetGlobal(t *testing.T) {
	ls := New().(*luaState)
	ls.PushString("value")
	ls.SetGlobal("key")
	if tp := ls.GetGlobal("key"); tp != LUA_TSTRING {
		t.Fatalf("GetGlobal type: %d", tp)
	}
	if got := ls.ToString(-1); got != "value" {
		t.Errorf("got %q", got)
	}
	if tp := ls.GetGlobal("missing"); tp != LUA_TNIL {
		t.Errorf("missing global should be nil, got %d", tp)
	}
}

func TestThreadsShareGlobals(t *testing.T) {
	ls := New().(*luaState)
	co := ls.NewThread().(*luaState)
	if co.gs != ls.gs {
		t.Fatal("threads must share the global state")
	}
	ls.PushNumber(7)
	ls.SetGlobal("shared")
	co.GetGlobal("shared")
	if got := co.ToNumber(-1); got != 7 {
		t.Errorf("global not visible from the new thread: %v", got)
	}
}

func TestExclusiveCallDepthRaise(t *testing.T) {
	ls := New().(*luaState)
	ls.OpenLibs()
	ls.gs.maxCallDepth = 50
	if !ls.DoString(`
local d = 0
local function f(n) if n > 0 then d = n return f(n - 1) end end -- tail: no depth
f(100)
local ok = pcall(function()
	local function g(n) if n == 0 then return 0 end return 1 + g(n - 1) end
	return g(100) -- real recursion: must hit the limit
end)
return d, ok`, "t") {
		t.Fatalf("chunk failed: %v", ls.ToString2(-1))
	}
	if got := ls.ToNumber(-2); got != 1 {
		t.Errorf("tail recursion stopped early: %v", got)
	}
	if ls.ToBoolean(-1) {
		t.Error("non-tail recursion should overflow the lowered depth limit")
	}
}

func TestInstructionHook(t *testing.T) {
	ls := New().(*luaState)
	ls.OpenLibs()

	fired := 0
	ls.SetHook(100, func(arg LuaState) int {
		fired++
		return 0
	})
	if !ls.DoString("for i = 1, 1000 do end", "t") {
		t.Fatalf("chunk failed: %v", ls.ToString2(-1))
	}
	if fired == 0 {
		t.Error("hook never fired")
	}

	ls.SetHook(0, nil)
	fired = 0
	if !ls.DoString("for i = 1, 1000 do end", "t") {
		t.Fatalf("chunk failed: %v", ls.ToString2(-1))
	}
	if fired != 0 {
		t.Error("removed hook still fired")
	}
}

// throwing from the hook cancels a runaway chunk through the normal
// error machinery
func TestHookCancelsRunawayChunk(t *testing.T) {
	ls := New().(*luaState)
	ls.OpenLibs()

	budget := 10
	ls.SetHook(1000, func(arg LuaState) int {
		budget--
		if budget <= 0 {
			return arg.Error2("instruction budget exhausted")
		}
		return 0
	})

	if ls.LoadString("while true do end", "t") != LUA_OK {
		t.Fatal("load failed")
	}
	status := ls.PCall(0, 0, 0)
	if status != LUA_ERRRUN {
		t.Fatalf("runaway chunk should die with errrun, got %v", status)
	}
	if !strings.Contains(ls.ToString(-1), "instruction budget exhausted") {
		t.Errorf("error message: %q", ls.ToString(-1))
	}
}

func BenchmarkFib(b *testing.B) {
	ls := New().(*luaState)
	ls.OpenLibs()
	if ls.LoadString(`
local function fib(n)
	if n < 2 then return n end
	return fib(n - 1) + fib(n - 2)
end
return fib(15)`, "bench") != LUA_OK {
		b.Fatal("load failed")
	}
	ls.SetGlobal("bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ls.GetGlobal("bench")
		ls.Call(0, 1)
		ls.Pop(1)
	}
}
