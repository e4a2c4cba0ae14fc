package state

import (
	lru "github.com/hashicorp/golang-lru/v2"

	. "github.com/lollipopkit/glua/api"
	"github.com/lollipopkit/glua/binchunk"
)

// number of compiled chunks kept per global state
const protoCacheSize = 64

// globalState is the shared half of an interpreter instance: every
// coroutine of one instance points at the same globalState. A different
// globalState is an isolated universe; values must not cross.
type globalState struct {
	registry       *luaTable
	globals        *luaTable
	mainThread     *luaState
	interner       *stringInterner
	typeMetatables map[LuaType]*luaTable

	// compiled chunk cache, keyed by source hash
	protoCache *lru.Cache[string, *binchunk.Prototype]

	// gc state
	allObjs      gcObj
	grays        []gcObj
	gcPhase      int
	currentWhite byte
	totalBytes   int
	gcThreshold  int
	gcStopped    bool
	gcRunning    bool
	toFinalize   []*userdata
	pinned       []any

	maxCallDepth int
}

func newGlobalState() *globalState {
	cache, _ := lru.New[string, *binchunk.Prototype](protoCacheSize)
	gs := &globalState{
		interner:       newStringInterner(),
		typeMetatables: map[LuaType]*luaTable{},
		protoCache:     cache,
		currentWhite:   colorWhite0,
		gcThreshold:    gcInitialThreshold,
		maxCallDepth:   LUA_MAXCALLDEPTH,
	}
	gs.registry = gs.newTable(0, 8)
	gs.globals = gs.newTable(0, 20)
	gs.registry.put(LUA_RIDX_GLOBALS, gs.globals)
	return gs
}

// Pin registers a temporary value as a GC root on behalf of a native
// function that holds it outside any Lua stack.
func (self *globalState) Pin(v any) {
	self.pinned = append(self.pinned, v)
}

func (self *globalState) Unpin(v any) {
	for i := len(self.pinned) - 1; i >= 0; i-- {
		if self.pinned[i] == v {
			self.pinned = append(self.pinned[:i], self.pinned[i+1:]...)
			return
		}
	}
}
