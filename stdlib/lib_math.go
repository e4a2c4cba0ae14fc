package stdlib

import (
	"math"
	"math/rand"

	. "github.com/lollipopkit/glua/api"
)

var mathLib = map[string]GoFunction{
	"abs":        mathAbs,
	"ceil":       mathCeil,
	"floor":      mathFloor,
	"fmod":       mathFmod,
	"modf":       mathModf,
	"sqrt":       mathSqrt,
	"pow":        mathPow,
	"exp":        mathExp,
	"log":        mathLog,
	"log10":      mathLog10,
	"sin":        mathSin,
	"cos":        mathCos,
	"tan":        mathTan,
	"asin":       mathAsin,
	"acos":       mathAcos,
	"atan":       mathAtan,
	"atan2":      mathAtan2,
	"deg":        mathDeg,
	"rad":        mathRad,
	"min":        mathMin,
	"max":        mathMax,
	"random":     mathRandom,
	"randomseed": mathRandomSeed,
}

func OpenMathLib(ls LuaState) int {
	ls.NewLib(mathLib)
	ls.PushNumber(math.Pi)
	ls.SetField(-2, "pi")
	ls.PushNumber(math.Inf(1))
	ls.SetField(-2, "huge")
	return 1
}

func mathAbs(ls LuaState) int   { ls.PushNumber(math.Abs(ls.CheckNumber(1))); return 1 }
func mathCeil(ls LuaState) int  { ls.PushNumber(math.Ceil(ls.CheckNumber(1))); return 1 }
func mathFloor(ls LuaState) int { ls.PushNumber(math.Floor(ls.CheckNumber(1))); return 1 }
func mathSqrt(ls LuaState) int  { ls.PushNumber(math.Sqrt(ls.CheckNumber(1))); return 1 }
func mathExp(ls LuaState) int   { ls.PushNumber(math.Exp(ls.CheckNumber(1))); return 1 }
func mathLog10(ls LuaState) int { ls.PushNumber(math.Log10(ls.CheckNumber(1))); return 1 }
func mathSin(ls LuaState) int   { ls.PushNumber(math.Sin(ls.CheckNumber(1))); return 1 }
func mathCos(ls LuaState) int   { ls.PushNumber(math.Cos(ls.CheckNumber(1))); return 1 }
func mathTan(ls LuaState) int   { ls.PushNumber(math.Tan(ls.CheckNumber(1))); return 1 }
func mathAsin(ls LuaState) int  { ls.PushNumber(math.Asin(ls.CheckNumber(1))); return 1 }
func mathAcos(ls LuaState) int  { ls.PushNumber(math.Acos(ls.CheckNumber(1))); return 1 }
func mathAtan(ls LuaState) int  { ls.PushNumber(math.Atan(ls.CheckNumber(1))); return 1 }

func mathPow(ls LuaState) int {
	ls.PushNumber(math.Pow(ls.CheckNumber(1), ls.CheckNumber(2)))
	return 1
}

func mathFmod(ls LuaState) int {
	ls.PushNumber(math.Mod(ls.CheckNumber(1), ls.CheckNumber(2)))
	return 1
}

func mathModf(ls LuaState) int {
	i, f := math.Modf(ls.CheckNumber(1))
	ls.PushNumber(i)
	ls.PushNumber(f)
	return 2
}

// math.log (x) -- natural logarithm (Lua 5.1 has no base argument)
func mathLog(ls LuaState) int {
	ls.PushNumber(math.Log(ls.CheckNumber(1)))
	return 1
}

func mathAtan2(ls LuaState) int {
	ls.PushNumber(math.Atan2(ls.CheckNumber(1), ls.CheckNumber(2)))
	return 1
}

func mathDeg(ls LuaState) int {
	ls.PushNumber(ls.CheckNumber(1) * 180 / math.Pi)
	return 1
}

func mathRad(ls LuaState) int {
	ls.PushNumber(ls.CheckNumber(1) * math.Pi / 180)
	return 1
}

func mathMin(ls LuaState) int {
	n := ls.GetTop()
	min := ls.CheckNumber(1)
	for i := 2; i <= n; i++ {
		min = math.Min(min, ls.CheckNumber(i))
	}
	ls.PushNumber(min)
	return 1
}

func mathMax(ls LuaState) int {
	n := ls.GetTop()
	max := ls.CheckNumber(1)
	for i := 2; i <= n; i++ {
		max = math.Max(max, ls.CheckNumber(i))
	}
	ls.PushNumber(max)
	return 1
}

// math.random ([m [, n]])
func mathRandom(ls LuaState) int {
	switch ls.GetTop() {
	case 0:
		ls.PushNumber(rand.Float64())
	case 1:
		m := ls.CheckInteger(1)
		ls.ArgCheck(m >= 1, 1, "interval is empty")
		ls.PushInteger(1 + rand.Int63n(m))
	default:
		m := ls.CheckInteger(1)
		n := ls.CheckInteger(2)
		ls.ArgCheck(m <= n, 2, "interval is empty")
		ls.PushInteger(m + rand.Int63n(n-m+1))
	}
	return 1
}

func mathRandomSeed(ls LuaState) int {
	rand.Seed(int64(ls.CheckNumber(1)))
	return 0
}
