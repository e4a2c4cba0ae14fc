package stdlib

import (
	"fmt"
	"strconv"
	"strings"

	. "github.com/lollipopkit/glua/api"
)

var strLib = map[string]GoFunction{
	"len":     strLen,
	"sub":     strSub,
	"upper":   strUpper,
	"lower":   strLower,
	"rep":     strRep,
	"reverse": strReverse,
	"byte":    strByte,
	"char":    strChar,
	"format":  strFormat,
	"find":    strFind,
	"match":   strMatch,
	"gmatch":  strGmatch,
	"gsub":    strGsub,
}

func OpenStringLib(ls LuaState) int {
	ls.NewLib(strLib)
	createStringMetatable(ls)
	return 1
}

// the shared string metatable makes s:sub(...) work: indexing any
// string goes through the library table
func createStringMetatable(ls LuaState) {
	ls.CreateTable(0, 1) /* metatable for strings */
	ls.PushString("dummy")
	ls.PushValue(-2)
	ls.SetMetatable(-2) /* set it as the per-type string metatable */
	ls.Pop(1)           /* pop dummy string */
	ls.PushValue(-2)    /* string library */
	ls.SetField(-2, "__index")
	ls.Pop(1) /* pop metatable */
}

/* basics */

// string.len (s)
func strLen(ls LuaState) int {
	s := ls.CheckString(1)
	ls.PushInteger(int64(len(s)))
	return 1
}

// string.sub (s, i [, j])
func strSub(ls LuaState) int {
	s := ls.CheckString(1)
	i := posRelat(ls.CheckInteger(2), len(s))
	j := posRelat(ls.OptInteger(3, -1), len(s))

	if i < 1 {
		i = 1
	}
	if j > int64(len(s)) {
		j = int64(len(s))
	}
	if i <= j {
		ls.PushString(s[i-1 : j])
	} else {
		ls.PushString("")
	}
	return 1
}

// translate a relative string position: negative means back from end
func posRelat(pos int64, _len int) int64 {
	if pos >= 0 {
		return pos
	}
	if -pos > int64(_len) {
		return 0
	}
	return int64(_len) + pos + 1
}

// string.upper (s)
func strUpper(ls LuaState) int {
	ls.PushString(strings.ToUpper(ls.CheckString(1)))
	return 1
}

// string.lower (s)
func strLower(ls LuaState) int {
	ls.PushString(strings.ToLower(ls.CheckString(1)))
	return 1
}

// string.rep (s, n)
func strRep(ls LuaState) int {
	s := ls.CheckString(1)
	n := ls.CheckInteger(2)
	if n <= 0 {
		ls.PushString("")
	} else {
		ls.PushString(strings.Repeat(s, int(n)))
	}
	return 1
}

// string.reverse (s)
func strReverse(ls LuaState) int {
	s := ls.CheckString(1)
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	ls.PushString(string(b))
	return 1
}

// string.byte (s [, i [, j]])
func strByte(ls LuaState) int {
	s := ls.CheckString(1)
	i := posRelat(ls.OptInteger(2, 1), len(s))
	j := posRelat(ls.OptInteger(3, i), len(s))
	if i < 1 {
		i = 1
	}
	if j > int64(len(s)) {
		j = int64(len(s))
	}
	if i > j {
		return 0
	}
	n := int(j - i + 1)
	ls.CheckStack2(n, "string slice too long")
	for k := 0; k < n; k++ {
		ls.PushInteger(int64(s[i-1+int64(k)]))
	}
	return n
}

// string.char (···)
func strChar(ls LuaState) int {
	n := ls.GetTop()
	b := make([]byte, n)
	for i := 1; i <= n; i++ {
		c := ls.CheckInteger(i)
		ls.ArgCheck(int64(byte(c)) == c, i, "value out of range")
		b[i-1] = byte(c)
	}
	ls.PushString(string(b))
	return 1
}

// string.format (formatstring, ···)
func strFormat(ls LuaState) int {
	fmtStr := ls.CheckString(1)
	var b strings.Builder
	argIdx := 1

	for i := 0; i < len(fmtStr); {
		if fmtStr[i] != '%' {
			b.WriteByte(fmtStr[i])
			i++
			continue
		}
		if i+1 < len(fmtStr) && fmtStr[i+1] == '%' {
			b.WriteByte('%')
			i += 2
			continue
		}

		j := i + 1
		for j < len(fmtStr) && strings.IndexByte("-+ #0", fmtStr[j]) >= 0 {
			j++
		}
		for j < len(fmtStr) && fmtStr[j] >= '0' && fmtStr[j] <= '9' {
			j++
		}
		if j < len(fmtStr) && fmtStr[j] == '.' {
			j++
			for j < len(fmtStr) && fmtStr[j] >= '0' && fmtStr[j] <= '9' {
				j++
			}
		}
		if j >= len(fmtStr) {
			return ls.Error2("invalid format string to 'format'")
		}

		verb := fmtStr[j]
		spec := fmtStr[i : j+1]
		argIdx++
		switch verb {
		case 'd', 'i':
			b.WriteString(fmt.Sprintf(spec[:len(spec)-1]+"d", ls.CheckInteger(argIdx)))
		case 'u':
			b.WriteString(fmt.Sprintf(spec[:len(spec)-1]+"d", ls.CheckInteger(argIdx)))
		case 'c':
			b.WriteByte(byte(ls.CheckInteger(argIdx)))
		case 'o', 'x', 'X':
			b.WriteString(fmt.Sprintf(spec, ls.CheckInteger(argIdx)))
		case 'e', 'E', 'f', 'F', 'g', 'G':
			b.WriteString(fmt.Sprintf(spec, ls.CheckNumber(argIdx)))
		case 's':
			s := ls.ToString2(argIdx)
			ls.Pop(1)
			b.WriteString(fmt.Sprintf(spec, s))
		case 'q':
			b.WriteString(strconv.Quote(ls.CheckString(argIdx)))
		default:
			return ls.Error2("invalid option '%%%c' to 'format'", verb)
		}
		i = j + 1
	}

	ls.PushString(b.String())
	return 1
}

/* pattern matching */

// string.find (s, pattern [, init [, plain]])
func strFind(ls LuaState) int {
	return strFindAux(ls, true)
}

// string.match (s, pattern [, init])
func strMatch(ls LuaState) int {
	return strFindAux(ls, false)
}

func strFindAux(ls LuaState, find bool) int {
	s := ls.CheckString(1)
	pat := ls.CheckString(2)
	init := posRelat(ls.OptInteger(3, 1), len(s))
	if init < 1 {
		init = 1
	} else if init > int64(len(s))+1 { /* start after end? */
		ls.PushNil()
		return 1
	}

	if find && ls.ToBoolean(4) { /* plain search */
		idx := strings.Index(s[init-1:], pat)
		if idx < 0 {
			ls.PushNil()
			return 1
		}
		start := int(init-1) + idx
		ls.PushInteger(int64(start + 1))
		ls.PushInteger(int64(start + len(pat)))
		return 2
	}

	start, end, ms := patternMatch(s, pat, int(init-1))
	if start < 0 {
		ls.PushNil()
		return 1
	}

	if find {
		ls.PushInteger(int64(start + 1))
		ls.PushInteger(int64(end))
		return 2 + pushCaptures(ls, ms, start, end, false)
	}
	return pushCaptures(ls, ms, start, end, true)
}

// pushCaptures pushes the captures of a successful match; wholeIfNone
// pushes the whole match for capture-less patterns.
func pushCaptures(ls LuaState, ms *matchState, s, e int, wholeIfNone bool) int {
	if ms.level == 0 && !wholeIfNone {
		return 0
	}
	n := ms.captureCount()
	if ms.level == 0 && wholeIfNone {
		ls.PushString(ms.src[s:e])
		return 1
	}
	ls.CheckStack2(n, "too many captures")
	for i := 0; i < n; i++ {
		pushCapture(ls, ms, i, s, e)
	}
	return n
}

func pushCapture(ls LuaState, ms *matchState, i, s, e int) {
	switch v := ms.oneCapture(i, s, e).(type) {
	case string:
		ls.PushString(v)
	case float64:
		ls.PushNumber(v)
	}
}

// string.gmatch (s, pattern)
func strGmatch(ls LuaState) int {
	s := ls.CheckString(1)
	pat := ls.CheckString(2)
	pos := 0

	ls.PushGoFunction(func(ls LuaState) int {
		for pos <= len(s) {
			start, end, ms := patternMatch(s, pat, pos)
			if start < 0 {
				return 0
			}
			if end == pos && end == start { /* empty match: advance */
				pos++
			} else {
				pos = end
			}
			if start <= end {
				return pushCaptures(ls, ms, start, end, true)
			}
		}
		return 0
	})
	return 1
}

// string.gsub (s, pattern, repl [, n])
func strGsub(ls LuaState) int {
	s := ls.CheckString(1)
	pat := ls.CheckString(2)
	replType := ls.Type(3)
	ls.ArgCheck(replType == LUA_TSTRING || replType == LUA_TNUMBER ||
		replType == LUA_TFUNCTION || replType == LUA_TTABLE,
		3, "string/function/table expected")
	maxN := int(ls.OptInteger(4, int64(len(s))+1))

	var b strings.Builder
	pos, count := 0, 0
	for count < maxN && pos <= len(s) {
		start, end, ms := patternMatch(s, pat, pos)
		if start < 0 {
			break
		}
		count++
		b.WriteString(s[pos:start])
		appendReplacement(ls, &b, ms, start, end, replType)
		if end > pos {
			pos = end
		} else { /* empty match */
			if pos < len(s) {
				b.WriteByte(s[pos])
			}
			pos++
		}
	}
	if pos < len(s) {
		b.WriteString(s[pos:])
	}

	ls.PushString(b.String())
	ls.PushInteger(int64(count))
	return 2
}

func appendReplacement(ls LuaState, b *strings.Builder, ms *matchState, start, end int, replType LuaType) {
	whole := ms.src[start:end]
	switch replType {
	case LUA_TSTRING, LUA_TNUMBER:
		repl := ls.ToString(3)
		for i := 0; i < len(repl); i++ {
			if repl[i] != '%' || i+1 >= len(repl) {
				b.WriteByte(repl[i])
				continue
			}
			i++
			switch c := repl[i]; {
			case c == '%':
				b.WriteByte('%')
			case c == '0':
				b.WriteString(whole)
			case c >= '1' && c <= '9':
				switch v := ms.oneCapture(int(c-'1'), start, end).(type) {
				case string:
					b.WriteString(v)
				case float64:
					fmt.Fprintf(b, "%d", int64(v))
				}
			default:
				b.WriteByte(c)
			}
		}
	case LUA_TFUNCTION:
		ls.PushValue(3)
		n := pushCaptures(ls, ms, start, end, true)
		ls.Call(n, 1)
		appendGsubResult(ls, b, whole)
	case LUA_TTABLE:
		pushCapture(ls, ms, 0, start, end)
		ls.GetTable(3)
		appendGsubResult(ls, b, whole)
	}
}

// a false/nil result keeps the original match
func appendGsubResult(ls LuaState, b *strings.Builder, whole string) {
	if !ls.ToBoolean(-1) {
		b.WriteString(whole)
	} else if s, ok := ls.ToStringX(-1); ok {
		b.WriteString(s)
	} else {
		ls.Error2("invalid replacement value (a %s)", ls.TypeName2(-1))
	}
	ls.Pop(1)
}
