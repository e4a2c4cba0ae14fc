package state

import (
	"testing"

	. "github.com/lollipopkit/glua/api"
)

func countObjs(gs *globalState) int {
	n := 0
	for o := gs.allObjs; o != nil; o = o.gch().next {
		n++
	}
	return n
}

func contains(gs *globalState, target gcObj) bool {
	for o := gs.allObjs; o != nil; o = o.gch().next {
		if o == target {
			return true
		}
	}
	return false
}

func TestGCCollectsUnreachable(t *testing.T) {
	ls := New().(*luaState)
	gs := ls.gs

	ls.CreateTable(0, 0)
	tbl := ls.getValue(-1).(*luaTable)
	ls.Pop(1)

	gs.fullGC()
	if contains(gs, tbl) {
		t.Error("unreachable table survived a collection")
	}
}

func TestGCKeepsReachable(t *testing.T) {
	ls := New().(*luaState)
	gs := ls.gs

	// reachable from the globals table
	ls.CreateTable(0, 0)
	fromGlobal := ls.getValue(-1).(*luaTable)
	ls.SetGlobal("keep")

	// reachable from the stack
	ls.CreateTable(0, 0)
	fromStack := ls.getValue(-1).(*luaTable)

	gs.fullGC()
	if !contains(gs, fromGlobal) {
		t.Error("table reachable from globals was collected")
	}
	if !contains(gs, fromStack) {
		t.Error("table reachable from the stack was collected")
	}
}

func TestGCCollectsCycles(t *testing.T) {
	ls := New().(*luaState)
	gs := ls.gs

	ls.CreateTable(0, 1)
	a := ls.getValue(-1).(*luaTable)
	ls.CreateTable(0, 1)
	b := ls.getValue(-1).(*luaTable)
	a.put("other", b)
	b.put("other", a)
	ls.Pop(2)

	gs.fullGC()
	if contains(gs, a) || contains(gs, b) {
		t.Error("cyclic garbage survived a collection")
	}
}

func TestGCKeepsClosureUpvalues(t *testing.T) {
	ls := runChunk(t, `
local function counter()
	local t = {n = 0}
	return function() t.n = t.n + 1 return t.n end
end
c = counter()
collectgarbage("collect")
return c(), c()`)
	got := results(ls)
	if got[0] != 1.0 || got[1] != 2.0 {
		t.Errorf("closed upvalue lost across a collection: %v", got)
	}
}

func TestGCRunsDuringExecution(t *testing.T) {
	// enough table churn to cross the threshold several times
	ls := New().(*luaState)
	ls.OpenLibs()
	ls.gs.gcThreshold = 1 << 12
	if !ls.DoString(`
local keep = {}
for i = 1, 5000 do
	local junk = {i, i + 1, i + 2}
	if i % 100 == 0 then keep[#keep + 1] = junk end
end
return #keep`, "churn") {
		t.Fatalf("chunk failed: %v", ls.ToString2(-1))
	}
	if got := ls.ToNumber(-1); got != 50 {
		t.Errorf("kept %v tables, want 50", got)
	}
}

func TestInternerDeduplicates(t *testing.T) {
	gs := newGlobalState()
	a := gs.interner.intern(gs, "hello"+" ")
	b := gs.interner.intern(gs, "hello ")
	if a != b {
		t.Error("equal byte sequences must intern to one instance")
	}
	before := gs.interner.count()
	gs.interner.intern(gs, "hello ")
	if gs.interner.count() != before {
		t.Error("re-interning grew the table")
	}
}

func TestInternerSweep(t *testing.T) {
	ls := New().(*luaState)
	gs := ls.gs

	ls.PushString("transient-string-value")
	ls.Pop(1)
	gs.fullGC()
	if _, found := gs.interner.strs["transient-string-value"]; found {
		t.Error("unreferenced string survived the sweep")
	}

	ls.PushString("rooted-string-value")
	ls.SetGlobal("s")
	gs.fullGC()
	if _, found := gs.interner.strs["rooted-string-value"]; !found {
		t.Error("rooted string was swept")
	}
}

func TestFinalizerRunsOnce(t *testing.T) {
	ls := New().(*luaState)
	gs := ls.gs

	calls := 0
	ls.NewUserdata("payload")
	ls.CreateTable(0, 1)
	ls.PushGoFunction(func(ls LuaState) int {
		calls++
		return 0
	})
	ls.SetField(-2, "__gc")
	ls.SetMetatable(-2)
	ls.Pop(1)

	gs.fullGC() // resurrects onto the finalization list, runs __gc
	if calls != 1 {
		t.Fatalf("finalizer ran %d times after first cycle, want 1", calls)
	}
	gs.fullGC() // actually frees, must not run __gc again
	if calls != 1 {
		t.Errorf("finalizer ran %d times, want 1", calls)
	}
}

func TestFinalizerErrorSwallowed(t *testing.T) {
	ls := New().(*luaState)
	gs := ls.gs

	ls.NewUserdata(nil)
	ls.CreateTable(0, 1)
	ls.PushGoFunction(func(ls LuaState) int {
		return ls.Error2("finalizer exploded")
	})
	ls.SetField(-2, "__gc")
	ls.SetMetatable(-2)
	ls.Pop(1)

	gs.fullGC() // must not panic
	gs.fullGC()
}

func TestWriteBarrierRegraysParent(t *testing.T) {
	ls := New().(*luaState)
	gs := ls.gs

	ls.CreateTable(0, 0)
	parent := ls.getValue(-1).(*luaTable)
	ls.SetGlobal("parent")

	// freeze the collector mid-propagation and blacken the parent
	gs.gcPhase = gcPropagate
	parent.color = colorBlack

	child := gs.newTable(0, 0) // white
	gs.barrierBack(parent, child)

	if parent.color != colorGray {
		t.Error("storing a white child must gray a black parent back")
	}
	gs.gcPhase = gcPause
}

func TestThresholdGrowsAfterCollection(t *testing.T) {
	ls := New().(*luaState)
	gs := ls.gs
	for i := 0; i < 100; i++ {
		ls.CreateTable(8, 8)
	}
	gs.fullGC()
	if gs.gcThreshold < gs.totalBytes {
		t.Errorf("threshold %d below live size %d", gs.gcThreshold, gs.totalBytes)
	}
}

// upvalues open during a frame's life are closed by its return, and
// the returned closure keeps working through the closed cells
func TestUpvaluesClosedOnReturn(t *testing.T) {
	ls := runChunk(t, `
local a, b = 1, 2
local f = function() a = a + 1 return a + b end
return f`)
	if ls.openuvs != nil {
		t.Error("open upvalue list must be empty once every frame returned")
	}

	f := ls.getValue(1).(*closure)
	for _, uv := range f.upVals {
		if uv.isOpen() {
			t.Error("captured cells must be closed after the frame died")
		}
	}

	ls.PushValue(1)
	ls.Call(0, 1)
	if got := ls.ToNumber(-1); got != 4 {
		t.Errorf("closure through closed upvalues: got %v, want 4", got)
	}
}

// while frames are live, the per-thread open list is sorted by
// descending stack position
func TestOpenUpvalueListSorted(t *testing.T) {
	ls := New().(*luaState)
	ls.OpenLibs()

	// the hook runs while the chunk's frame is still active
	ls.Register("hook", func(arg LuaState) int {
		inner := arg.(*luaState)
		n := 0
		for uv := inner.openuvs; uv != nil; uv = uv.next {
			n++
			if !uv.isOpen() {
				t.Error("upvalue on the open list is closed")
			}
			if uv.idx < 0 || uv.idx >= inner.stack.top {
				t.Errorf("open upvalue outside the live stack: %d", uv.idx)
			}
			if uv.next != nil && uv.next.idx >= uv.idx {
				t.Error("open list must be sorted by descending stack position")
			}
		}
		if n != 2 {
			t.Errorf("expected 2 open upvalues, saw %d", n)
		}
		return 0
	})

	if !ls.DoString(`
local a, b = 1, 2
local f = function() return a end
local g = function() return b end
hook()
return f() + g()`, "t") {
		t.Fatalf("chunk failed: %v", ls.ToString2(-1))
	}
}
