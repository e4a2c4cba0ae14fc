package state

import (
	"math"

	. "github.com/lollipopkit/glua/api"
)

type operator struct {
	metamethod string
	fn         func(a, b float64) float64
}

var operators = []operator{
	LUA_OPADD: {"__add", func(a, b float64) float64 { return a + b }},
	LUA_OPSUB: {"__sub", func(a, b float64) float64 { return a - b }},
	LUA_OPMUL: {"__mul", func(a, b float64) float64 { return a * b }},
	LUA_OPDIV: {"__div", func(a, b float64) float64 { return a / b }},
	LUA_OPMOD: {"__mod", luaMod},
	LUA_OPPOW: {"__pow", math.Pow},
	LUA_OPUNM: {"__unm", func(a, _ float64) float64 { return -a }},
}

// Lua mod: a - floor(a/b)*b; the result keeps the divisor's sign
func luaMod(a, b float64) float64 {
	if math.IsInf(b, 0) && !math.IsInf(a, 0) {
		if (a >= 0) == (b > 0) {
			return a
		}
		return b
	}
	return a - math.Floor(a/b)*b
}

// Arith pops the operands (one for unary minus), applies the operator
// and pushes the result. String operands coerce if they parse as
// numbers; otherwise the metamethod is consulted.
func (self *luaState) Arith(op ArithOp) {
	var a, b any
	b = self.stack.pop()
	if op != LUA_OPUNM {
		a = self.stack.pop()
	} else {
		a = b
	}

	oper := operators[op]
	if x, ok := convertToFloat(a); ok {
		if y, ok := convertToFloat(b); ok {
			self.stack.push(oper.fn(x, y))
			return
		}
	}

	if result, ok := callMetamethod(a, b, oper.metamethod, self); ok {
		self.stack.push(result)
		return
	}

	bad := a
	if _, ok := convertToFloat(a); ok {
		bad = b
	}
	self.runtimeError("attempt to perform arithmetic on a %s value", typeName(typeOf(bad)))
}

// Compare compares two stack slots without popping them. EQ never
// raises; LT/LE raise on uncomparable operands.
func (self *luaState) Compare(idx1, idx2 int, op CompareOp) bool {
	a := self.getValue(idx1)
	b := self.getValue(idx2)
	switch op {
	case LUA_OPEQ:
		return self.eq(a, b)
	case LUA_OPLT:
		return self.lt(a, b)
	case LUA_OPLE:
		return self.le(a, b)
	default:
		panic("invalid compare op!")
	}
}

func (self *luaState) eq(a, b any) bool {
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
	case *luaTable:
		if y, ok := b.(*luaTable); ok {
			if x == y {
				return true
			}
			// both tables, with an __eq between them
			if result, ok := callMetamethod(x, y, "__eq", self); ok {
				return convertToBoolean(result)
			}
		}
		return false
	default:
		return a == b
	}
}

func (self *luaState) lt(a, b any) bool {
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			return x < y
		}
	}
	if x, ok := a.(string); ok {
		if y, ok := b.(string); ok {
			return x < y
		}
	}
	if result, ok := callMetamethod(a, b, "__lt", self); ok {
		return convertToBoolean(result)
	}
	self.runtimeError("attempt to compare %s with %s",
		typeName(typeOf(a)), typeName(typeOf(b)))
	return false
}

func (self *luaState) le(a, b any) bool {
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			return x <= y
		}
	}
	if x, ok := a.(string); ok {
		if y, ok := b.(string); ok {
			return x <= y
		}
	}
	if result, ok := callMetamethod(a, b, "__le", self); ok {
		return convertToBoolean(result)
	}
	// a <= b falls back to not (b < a)
	if result, ok := callMetamethod(b, a, "__lt", self); ok {
		return !convertToBoolean(result)
	}
	self.runtimeError("attempt to compare %s with %s",
		typeName(typeOf(a)), typeName(typeOf(b)))
	return false
}
