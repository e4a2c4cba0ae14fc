package state

import (
	"fmt"
	"strings"

	. "github.com/lollipopkit/glua/api"
)

// luaError is the panic payload the VM unwinds with. Errors are values:
// usually strings, but any Lua value is allowed.
type luaError struct {
	code  LuaStatus
	value any
}

func (self *luaError) Error() string {
	return fmt.Sprintf("%v", self.value)
}

func newLuaError(code LuaStatus, value any) *luaError {
	return &luaError{code: code, value: value}
}

// runtimeError raises an errrun error whose message is prefixed with
// the current source location.
func (self *luaState) runtimeError(format string, a ...any) {
	msg := self.where() + fmt.Sprintf(format, a...)
	panic(newLuaError(LUA_ERRRUN, self.gs.interner.intern(self.gs, msg)))
}

// Error pops the error object off the stack and throws it. If a string,
// callers already formatted it; other values pass through untouched so
// handlers decide the formatting.
func (self *luaState) Error() int {
	value := self.stack.pop()
	panic(newLuaError(LUA_ERRRUN, value))
}

// where formats "source:line: " for the nearest Lua frame.
func (self *luaState) where() string {
	for ci := self.ci; ci != nil; ci = ci.prev {
		if ci.isLua() {
			return frameLocation(ci) + ": "
		}
	}
	return ""
}

func frameLocation(ci *callInfo) string {
	proto := ci.closure.proto
	src := strings.TrimPrefix(proto.Source, "@")
	if src == "" {
		src = "?"
	}
	return fmt.Sprintf("%s:%d", src, currentLine(ci))
}

func currentLine(ci *callInfo) int {
	proto := ci.closure.proto
	if pc := ci.savedPC - 1; pc >= 0 && pc < len(proto.LineInfo) {
		return int(proto.LineInfo[pc])
	}
	return 0
}

// GetStackInfo resolves one activation record for debug.getinfo:
// level 1 is the frame that called the inquiring function.
func (self *luaState) GetStackInfo(level int) (string, int, string, bool) {
	n := 0
	for ci := self.ci; ci != nil; ci = ci.prev {
		n++
		if n <= level {
			continue
		}
		switch {
		case ci.isLua():
			proto := ci.closure.proto
			what := "Lua"
			if proto.LineDefined == 0 {
				what = "main"
			}
			return proto.Source, currentLine(ci), what, true
		case ci.closure != nil:
			return "=[C]", -1, "C", true
		default:
			return "", 0, "", false // host frame: bottom of the stack
		}
	}
	return "", 0, "", false
}

// Traceback walks the CallInfo chain from the running frame down,
// marking tail calls. level skips that many leading frames.
func (self *luaState) Traceback(msg string, level int) string {
	var b strings.Builder
	if msg != "" {
		b.WriteString(msg)
		b.WriteByte('\n')
	}
	b.WriteString("stack traceback:")

	n := 0
	for ci := self.ci; ci != nil; ci = ci.prev {
		n++
		if n <= level {
			continue
		}
		switch {
		case ci.isLua():
			proto := ci.closure.proto
			src := strings.TrimPrefix(proto.Source, "@")
			if proto.LineDefined == 0 {
				fmt.Fprintf(&b, "\n\t%s:%d: in main chunk", src, currentLine(ci))
			} else {
				fmt.Fprintf(&b, "\n\t%s:%d: in function <%s:%d>",
					src, currentLine(ci), src, proto.LineDefined)
			}
			if ci.tailCalls > 0 {
				b.WriteString("\n\t(...tail calls...)")
			}
		case ci.closure != nil:
			b.WriteString("\n\t[G]: in ?")
		default:
			b.WriteString("\n\t[host]")
		}
	}
	return b.String()
}
