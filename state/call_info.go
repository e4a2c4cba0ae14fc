package state

import . "github.com/lollipopkit/glua/api"

type ciStatus uint16

const (
	ciStatLua     ciStatus = 1 << iota // frame runs a Lua closure
	ciStatTail                         // frame absorbed at least one tail call
	ciStatFresh                        // pushed, not yet entered by the dispatch loop
	ciStatHooked                       // running a hook
	ciStatYielded                      // suspended in a yield
	ciStatYPCall                       // protected frame (pcall boundary)
	ciStatReentry                      // re-entered after a yield
)

// callInfo is the per-activation control record. base is the absolute
// stack index of register 0; top is the frame's stack ceiling. Frames
// form a list from the running frame down to the host frame.
type callInfo struct {
	base      int
	top       int
	savedPC   int
	nResults  int
	tailCalls int
	status    ciStatus
	closure   *closure
	varargs   []any
	prev      *callInfo
}

func (self *callInfo) isLua() bool {
	return self.status&ciStatLua != 0
}

func (self *luaState) pushCallInfo(ci *callInfo) {
	if self.callDepth >= self.gs.maxCallDepth {
		self.runtimeError("stack overflow (call depth > %d)", self.gs.maxCallDepth)
	}
	if self.callDepth >= LUAI_MAXCALLDEPTH {
		panic("absolute call depth limit exceeded")
	}
	ci.prev = self.ci
	self.ci = ci
	self.callDepth++
}

func (self *luaState) popCallInfo() {
	ci := self.ci
	self.ci = ci.prev
	ci.prev = nil
	self.callDepth--
}
