package stdlib

import (
	"sort"
	"strings"

	. "github.com/lollipopkit/glua/api"
)

var tableLib = map[string]GoFunction{
	"insert": tabInsert,
	"remove": tabRemove,
	"concat": tabConcat,
	"sort":   tabSort,
	"maxn":   tabMaxN,
}

func OpenTableLib(ls LuaState) int {
	ls.NewLib(tableLib)
	return 1
}

// table.insert (list, [pos,] value)
func tabInsert(ls LuaState) int {
	ls.CheckType(1, LUA_TTABLE)
	n := ls.Len2(1)
	switch ls.GetTop() {
	case 2: /* insert at the end */
		ls.SetI(1, n+1)
	case 3:
		pos := ls.CheckInteger(2)
		ls.ArgCheck(1 <= pos && pos <= n+1, 2, "position out of bounds")
		for i := n; i >= pos; i-- { /* shift up */
			ls.GetI(1, i)
			ls.SetI(1, i+1)
		}
		ls.SetI(1, pos)
	default:
		return ls.Error2("wrong number of arguments to 'insert'")
	}
	return 0
}

// table.remove (list [, pos])
func tabRemove(ls LuaState) int {
	ls.CheckType(1, LUA_TTABLE)
	n := ls.Len2(1)
	pos := ls.OptInteger(2, n)
	if n > 0 {
		ls.ArgCheck(1 <= pos && pos <= n, 2, "position out of bounds")
	}
	if n == 0 {
		ls.PushNil()
		return 1
	}
	ls.GetI(1, pos) /* the removed value */
	for i := pos; i < n; i++ {
		ls.GetI(1, i+1)
		ls.SetI(1, i)
	}
	ls.PushNil()
	ls.SetI(1, n)
	return 1
}

// table.concat (list [, sep [, i [, j]]])
func tabConcat(ls LuaState) int {
	ls.CheckType(1, LUA_TTABLE)
	sep := ls.OptString(2, "")
	i := ls.OptInteger(3, 1)
	j := ls.OptInteger(4, ls.Len2(1))

	var b strings.Builder
	for ; i <= j; i++ {
		ls.GetI(1, i)
		s, ok := ls.ToStringX(-1)
		if !ok {
			return ls.Error2("invalid value (at index %d) in table for 'concat'", i)
		}
		b.WriteString(s)
		ls.Pop(1)
		if i != j {
			b.WriteString(sep)
		}
	}
	ls.PushString(b.String())
	return 1
}

// table.maxn (table)
func tabMaxN(ls LuaState) int {
	ls.CheckType(1, LUA_TTABLE)
	max := float64(0)
	ls.PushNil()
	for ls.Next(1) {
		ls.Pop(1) /* value */
		if ls.Type(-1) == LUA_TNUMBER {
			if v := ls.ToNumber(-1); v > max {
				max = v
			}
		}
	}
	ls.PushNumber(max)
	return 1
}

/* sort */

type tableSorter struct {
	ls  LuaState
	n   int
	cmp bool
}

func (self tableSorter) Len() int {
	return self.n
}

func (self tableSorter) Less(i, j int) bool {
	ls := self.ls
	if self.cmp {
		ls.PushValue(2)
		ls.GetI(1, int64(i+1))
		ls.GetI(1, int64(j+1))
		ls.Call(2, 1)
		b := ls.ToBoolean(-1)
		ls.Pop(1)
		return b
	}
	ls.GetI(1, int64(i+1))
	ls.GetI(1, int64(j+1))
	b := ls.Compare(-2, -1, LUA_OPLT)
	ls.Pop(2)
	return b
}

func (self tableSorter) Swap(i, j int) {
	ls := self.ls
	ls.GetI(1, int64(i+1))
	ls.GetI(1, int64(j+1))
	ls.SetI(1, int64(i+1))
	ls.SetI(1, int64(j+1))
}

// table.sort (list [, comp])
func tabSort(ls LuaState) int {
	ls.CheckType(1, LUA_TTABLE)
	sorter := tableSorter{ls: ls, n: int(ls.Len2(1))}
	if !ls.IsNoneOrNil(2) {
		ls.CheckType(2, LUA_TFUNCTION)
		sorter.cmp = true
	}
	sort.Sort(sorter)
	return 0
}
