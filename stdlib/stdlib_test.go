package stdlib_test

import (
	"testing"

	"github.com/lollipopkit/glua/api"
	"github.com/lollipopkit/glua/state"
)

// eval runs src and returns the chunk's results via ToPointer.
func eval(t *testing.T, src string) []any {
	t.Helper()
	ls := state.New()
	ls.OpenLibs()
	if ls.LoadString(src, "test") != api.LUA_OK {
		t.Fatalf("load error: %s", ls.ToString(-1))
	}
	if st := ls.PCall(0, api.LUA_MULTRET, 0); st != api.LUA_OK {
		t.Fatalf("runtime error: %s", ls.ToString2(-1))
	}
	n := ls.GetTop()
	vals := make([]any, n)
	for i := 1; i <= n; i++ {
		vals[i-1] = ls.ToPointer(i)
	}
	return vals
}

func want(t *testing.T, src string, want ...any) {
	t.Helper()
	got := eval(t, src)
	if len(got) != len(want) {
		t.Fatalf("%s\n got %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s\n result %d: got %v (%T), want %v (%T)",
				src, i+1, got[i], got[i], want[i], want[i])
		}
	}
}

/* string library */

func TestStrBasics(t *testing.T) {
	want(t, `return string.len("hello"), ("hello"):len()`, 5.0, 5.0)
	want(t, `return string.sub("hello", 2, 4)`, "ell")
	want(t, `return string.sub("hello", -3)`, "llo")
	want(t, `return string.upper("abc"), string.lower("ABC")`, "ABC", "abc")
	want(t, `return string.rep("ab", 3)`, "ababab")
	want(t, `return string.reverse("abc")`, "cba")
	want(t, `return string.byte("A"), string.char(104, 105)`, 65.0, "hi")
}

func TestStrFormat(t *testing.T) {
	want(t, `return string.format("%d-%s", 42, "x")`, "42-x")
	want(t, `return string.format("%5.2f", 3.14159)`, " 3.14")
	want(t, `return string.format("%x", 255)`, "ff")
	want(t, `return string.format("100%%")`, "100%")
	want(t, `return string.format("%s", {} ~= nil)`, "true")
}

func TestStrFind(t *testing.T) {
	want(t, `return string.find("hello world", "o w")`, 5.0, 7.0)
	want(t, `return string.find("hello", "l+")`, 3.0, 4.0)
	want(t, `return string.find("hello", "z")`, nil)
	want(t, `return string.find("a.b", ".", 1, true)`, 2.0, 2.0)
	want(t, `return string.find("key=value", "(%w+)=(%w+)")`, 1.0, 9.0, "key", "value")
}

func TestStrMatch(t *testing.T) {
	want(t, `return string.match("hello 42 world", "%d+")`, "42")
	want(t, `return string.match("2026-08-01", "(%d+)-(%d+)-(%d+)")`, "2026", "08", "01")
	want(t, `return string.match("abc", "^a")`, "a")
	want(t, `return string.match("abc", "^b")`, nil)
	want(t, `return ("[x]"):match("%[(.-)%]")`, "x")
	want(t, `return string.match("hello", "()ll()")`, 3.0, 5.0)
}

func TestStrGmatch(t *testing.T) {
	want(t, `
local words = {}
for w in string.gmatch("one two three", "%a+") do
	words[#words + 1] = w
end
return #words, words[1], words[3]`, 3.0, "one", "three")
}

func TestStrGsub(t *testing.T) {
	want(t, `return string.gsub("hello world", "o", "0")`, "hell0 w0rld", 2.0)
	want(t, `return string.gsub("hello", "l", "L", 1)`, "heLlo", 1.0)
	want(t, `return string.gsub("abc", "(%a)", "%1%1")`, "aabbcc", 3.0)
	want(t, `return string.gsub("a b", "%s", function() return "_" end)`, "a_b", 1.0)
	want(t, `return string.gsub("ab", "%a", {a = "1"})`, "1b", 2.0)
}

func TestStrBalancedMatch(t *testing.T) {
	want(t, `return string.match("(nested (parens)) rest", "%b()")`, "(nested (parens))")
}

/* table library */

func TestTableInsertRemove(t *testing.T) {
	want(t, `
local t = {1, 2, 3}
table.insert(t, 4)
table.insert(t, 1, 0)
return #t, t[1], t[5]`, 5.0, 0.0, 4.0)

	want(t, `
local t = {"a", "b", "c"}
local x = table.remove(t)
local y = table.remove(t, 1)
return x, y, #t, t[1]`, "c", "a", 1.0, "b")
}

func TestTableConcat(t *testing.T) {
	want(t, `return table.concat({1, 2, 3})`, "123")
	want(t, `return table.concat({"a", "b"}, ", ")`, "a, b")
	want(t, `return table.concat({1, 2, 3, 4}, "-", 2, 3)`, "2-3")
}

func TestTableSort(t *testing.T) {
	want(t, `
local t = {3, 1, 2}
table.sort(t)
return t[1], t[2], t[3]`, 1.0, 2.0, 3.0)

	want(t, `
local t = {1, 3, 2}
table.sort(t, function(a, b) return a > b end)
return t[1], t[3]`, 3.0, 1.0)
}

/* math library */

func TestMath(t *testing.T) {
	want(t, `return math.floor(3.7), math.ceil(3.2), math.abs(-5)`, 3.0, 4.0, 5.0)
	want(t, `return math.max(1, 5, 3), math.min(1, 5, 3)`, 5.0, 1.0)
	want(t, `return math.sqrt(16), math.pow(2, 8)`, 4.0, 256.0)
	want(t, `return math.fmod(7, 3)`, 1.0)
	want(t, `local i, f = math.modf(3.25) return i, f`, 3.0, 0.25)
	want(t, `return math.huge > 1e300, math.pi > 3.14 and math.pi < 3.15`, true, true)
}

func TestMathRandom(t *testing.T) {
	want(t, `
math.randomseed(42)
local x = math.random()
local y = math.random(10)
local z = math.random(5, 7)
return x >= 0 and x < 1, y >= 1 and y <= 10, z >= 5 and z <= 7`,
		true, true, true)
}

/* os library */

func TestOSTimeAndDate(t *testing.T) {
	want(t, `return os.time() > 0`, true)
	want(t, `return os.time({year = 2000, month = 1, day = 1}) > 0`, true)
	want(t, `
local d = os.date("*t", os.time())
return d.year >= 2026, d.month >= 1 and d.month <= 12`, true, true)
	want(t, `return #os.date("%Y") == 4`, true)
	want(t, `return os.difftime(5, 2)`, 3.0)
	want(t, `return os.clock() >= 0`, true)
}

/* base library details */

func TestSelect(t *testing.T) {
	want(t, `return select("#", "a", "b", "c")`, 3.0)
	want(t, `return select(2, "a", "b", "c")`, "b", "c")
	want(t, `return select(-1, "a", "b", "c")`, "c")
}

func TestTostringTonumber(t *testing.T) {
	want(t, `return tostring(42), tostring(nil), tostring(true)`, "42", "nil", "true")
	want(t, `return tonumber("42"), tonumber("0x10"), tonumber("nope")`, 42.0, 16.0, nil)
	want(t, `return tonumber("ff", 16), tonumber("111", 2)`, 255.0, 7.0)
	want(t, `return tostring(tonumber("3.5"))`, "3.5")
}

func TestUnpack(t *testing.T) {
	want(t, `return unpack({1, 2, 3})`, 1.0, 2.0, 3.0)
	want(t, `return unpack({1, 2, 3}, 2)`, 2.0, 3.0)
	want(t, `return unpack({1, 2, 3}, 2, 2)`, 2.0)
}

func TestAssert(t *testing.T) {
	want(t, `return assert(1, "ignored")`, 1.0, "ignored")
	want(t, `
local ok, err = pcall(function() assert(false, "boom") end)
return ok, err`, false, "boom")
	want(t, `
local ok, err = pcall(function() assert(nil) end)
return ok, err`, false, "assertion failed!")
}

func TestTypeOf(t *testing.T) {
	want(t, `return type(nil), type(1), type("s"), type({}), type(print), type(true)`,
		"nil", "number", "string", "table", "function", "boolean")
	want(t, `return type(coroutine.create(function() end))`, "thread")
}

func TestNextIteration(t *testing.T) {
	want(t, `
local t = {10, 20}
local k1, v1 = next(t)
local k2, v2 = next(t, k1)
local k3 = next(t, k2)
return k1, v1, k2, v2, k3`, 1.0, 10.0, 2.0, 20.0, nil)
}

func TestRawAccessors(t *testing.T) {
	want(t, `
local t = setmetatable({}, {__index = function() return "magic" end})
return t.x, rawget(t, "x")`, "magic", nil)
	want(t, `return rawequal("a", "a"), rawequal({}, {})`, true, false)
	want(t, `return rawlen({1, 2, 3}), rawlen("abcd")`, 3.0, 4.0)
}

func TestDebugGetInfo(t *testing.T) {
	want(t, `
local info = debug.getinfo(1)
return info.what, info.short_src, info.currentline > 0`,
		"main", "test", true)

	want(t, `
local function f() return debug.getinfo(1) end
local info = f()
return info.what, info.currentline > 0`, "Lua", true)

	want(t, `return debug.getinfo(100)`, nil)
}

func TestGetSetMetatableProtection(t *testing.T) {
	want(t, `
local t = setmetatable({}, {__metatable = "locked"})
local mt = getmetatable(t)
local ok = pcall(setmetatable, t, {})
return mt, ok`, "locked", false)
}
