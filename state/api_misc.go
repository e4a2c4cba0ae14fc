package state

import (
	"strings"

	. "github.com/lollipopkit/glua/api"
	"github.com/lollipopkit/glua/utils"
)

/* miscellaneous functions */

// Len pushes the length of the value at idx: byte length for strings,
// a border for tables (honoring __len).
func (self *luaState) Len(idx int) {
	val := self.getValue(idx)
	switch x := val.(type) {
	case string:
		self.stack.push(float64(len(x)))
	case *luaTable:
		if result, ok := callMetamethod(x, x, "__len", self); ok {
			self.stack.push(result)
			return
		}
		self.stack.push(float64(x.length()))
	default:
		if result, ok := callMetamethod(val, val, "__len", self); ok {
			self.stack.push(result)
			return
		}
		self.runtimeError("attempt to get length of a %s value", typeName(typeOf(val)))
	}
}

// Concat pops n values and pushes their concatenation. A chain of
// string/number operands is joined in one pass over a single buffer;
// otherwise __concat folds right to left.
func (self *luaState) Concat(n int) {
	if n == 0 {
		self.stack.push(self.gs.interner.intern(self.gs, ""))
		return
	}
	if n == 1 {
		return
	}

	if self.allStringable(n) {
		vals := self.stack.popN(n)
		total := 0
		strs := make([]string, n)
		for i := range vals {
			strs[i] = toStringable(vals[i])
			total += len(strs[i])
		}
		var b strings.Builder
		b.Grow(total)
		for i := range strs {
			b.WriteString(strs[i])
		}
		self.stack.push(self.gs.interner.intern(self.gs, b.String()))
		return
	}

	// metamethod path, right to left
	for i := 1; i < n; i++ {
		b := self.stack.pop()
		a := self.stack.pop()
		if isStringable(a) && isStringable(b) {
			s := toStringable(a) + toStringable(b)
			self.stack.push(self.gs.interner.intern(self.gs, s))
			continue
		}
		if result, ok := callMetamethod(a, b, "__concat", self); ok {
			self.stack.push(result)
			continue
		}
		bad := a
		if isStringable(a) {
			bad = b
		}
		self.runtimeError("attempt to concatenate a %s value", typeName(typeOf(bad)))
	}
}

func (self *luaState) allStringable(n int) bool {
	for i := 0; i < n; i++ {
		if !isStringable(self.stack.slots[self.stack.top-1-i]) {
			return false
		}
	}
	return true
}

func isStringable(v any) bool {
	switch v.(type) {
	case string, float64:
		return true
	}
	return false
}

func toStringable(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return utils.NumberToString(v.(float64))
}

// Next pops a key and pushes the next key/value pair of the table at
// idx, returning false (and pushing nothing) at the end.
func (self *luaState) Next(idx int) bool {
	val := self.getValue(idx)
	if t, ok := val.(*luaTable); ok {
		key := self.stack.pop()
		if nextKey := t.nextKey(key); nextKey != nil {
			// integer keys live as int64 inside the table, but numbers
			// on the stack are always float64
			if ik, isInt := nextKey.(int64); isInt {
				self.stack.push(float64(ik))
			} else {
				self.stack.push(nextKey)
			}
			self.stack.push(t.get(nextKey))
			return true
		}
		return false
	}
	self.runtimeError("table expected, got %s", typeName(typeOf(val)))
	return false
}

/* garbage collector control */

func (self *luaState) GC(what, data int) int {
	gs := self.gs
	switch what {
	case LUA_GCSTOP:
		gs.gcStopped = true
	case LUA_GCRESTART:
		gs.gcStopped = false
	case LUA_GCCOLLECT, LUA_GCSTEP:
		gs.fullGC()
	case LUA_GCCOUNT:
		return gs.totalBytes / 1024
	}
	return 0
}
