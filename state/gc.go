package state

/*
Tri-color mark-sweep, stop-the-world, non-moving. White objects are
candidate garbage, gray objects are reached with children pending,
black objects are fully scanned. A full cycle runs at instruction
boundaries only, so it never observes a half-executed opcode.
*/

import (
	"github.com/lollipopkit/glua/binchunk"
	"github.com/lollipopkit/glua/logger"
)

const (
	colorWhite0 = iota
	colorWhite1
	colorGray
	colorBlack
)

const (
	gcPause = iota
	gcPropagate
	gcSweep
)

const (
	gcInitialThreshold = 1 << 20
	gcGrowthFactor     = 2

	// rough per-object byte estimates feeding the allocation counter
	sizeTable    = 64
	sizeSlot     = 16
	sizeClosure  = 64
	sizeUpvalue  = 48
	sizeThread   = 512
	sizeUserdata = 64
	sizeString   = 24
)

type gcHeader struct {
	color byte
	size  int
	next  gcObj
}

type gcObj interface {
	gch() *gcHeader
}

func (self *gcHeader) gch() *gcHeader { return self }

// addObj links a freshly allocated object into the heap list, colored
// with the current white.
func (self *globalState) addObj(o gcObj, size int) {
	h := o.gch()
	h.color = self.currentWhite
	h.size = size
	h.next = self.allObjs
	self.allObjs = o
	self.totalBytes += size
}

func (self *globalState) isWhite(o gcObj) bool {
	return o.gch().color == colorWhite0 || o.gch().color == colorWhite1
}

// checkGC is the per-instruction safe point.
func (self *globalState) checkGC() {
	if self.gcStopped || self.gcRunning {
		return
	}
	if self.totalBytes > self.gcThreshold {
		self.fullGC()
	}
}

// fullGC runs one complete collection cycle.
func (self *globalState) fullGC() {
	if self.gcRunning { // a finalizer asked for a collection
		return
	}
	self.gcRunning = true
	defer func() { self.gcRunning = false }()
	before := self.totalBytes

	self.markRoots()
	for self.gcPhase == gcPropagate {
		self.singleStep()
	}
	self.sweep()
	self.runFinalizers()

	self.gcThreshold = self.totalBytes * gcGrowthFactor
	if self.gcThreshold < gcInitialThreshold {
		self.gcThreshold = gcInitialThreshold
	}
	logger.I("gc: %d -> %d bytes, next cycle at %d", before, self.totalBytes, self.gcThreshold)
}

/* mark phase */

func (self *globalState) markRoots() {
	self.gcPhase = gcPropagate
	self.grays = self.grays[:0]
	self.interner.beginCycle()

	self.markObj(self.registry)
	self.markObj(self.globals)
	for _, mt := range self.typeMetatables {
		if mt != nil {
			self.markObj(mt)
		}
	}
	if self.mainThread != nil {
		self.markObj(self.mainThread)
	}
	for _, v := range self.pinned {
		self.markValue(v)
	}
}

// singleStep blackens one gray object.
func (self *globalState) singleStep() {
	if len(self.grays) == 0 {
		self.gcPhase = gcSweep
		return
	}
	o := self.grays[len(self.grays)-1]
	self.grays = self.grays[:len(self.grays)-1]
	self.blacken(o)
}

func (self *globalState) markValue(v any) {
	switch x := v.(type) {
	case string:
		self.interner.mark(x)
	case *luaTable:
		self.markObj(x)
	case *closure:
		self.markObj(x)
	case *upvalue:
		self.markObj(x)
	case *luaState:
		self.markObj(x)
	case *userdata:
		self.markObj(x)
	}
}

func (self *globalState) markObj(o gcObj) {
	if o == nil || !self.isWhite(o) {
		return
	}
	o.gch().color = colorGray
	self.grays = append(self.grays, o)
}

func (self *globalState) blacken(o gcObj) {
	o.gch().color = colorBlack
	switch x := o.(type) {
	case *luaTable:
		if x.metatable != nil {
			self.markObj(x.metatable)
		}
		for i := range x.arr {
			self.markValue(x.arr[i])
		}
		for k, v := range x._map {
			self.markValue(k)
			self.markValue(v)
		}
	case *closure:
		for _, uv := range x.upVals {
			if uv != nil {
				self.markObj(uv)
			}
		}
		if x.proto != nil {
			self.markProtoConstants(x.proto)
		}
	case *upvalue:
		self.markValue(x.get())
	case *luaState:
		self.blackenThread(x)
	case *userdata:
		if x.metatable != nil {
			self.markObj(x.metatable)
		}
		self.markValue(x.data)
	}
}

// prototypes are not collectable, but their string constants live in
// the interner and must survive while a closure can still load them
func (self *globalState) markProtoConstants(proto *binchunk.Prototype) {
	for _, k := range proto.Constants {
		if s, ok := k.(string); ok {
			self.interner.mark(s)
		}
	}
	for _, sub := range proto.Protos {
		self.markProtoConstants(sub)
	}
}

func (self *globalState) blackenThread(ls *luaState) {
	for i := 0; i < ls.stack.top; i++ {
		self.markValue(ls.stack.slots[i])
	}
	for ci := ls.ci; ci != nil; ci = ci.prev {
		if ci.closure != nil {
			self.markObj(ci.closure)
		}
		for _, v := range ci.varargs {
			self.markValue(v)
		}
	}
	for uv := ls.openuvs; uv != nil; uv = uv.next {
		self.markObj(uv)
	}
	if ls.coCaller != nil {
		self.markObj(ls.coCaller)
	}
}

/* write barrier */

// barrierBack restores the tri-color invariant after storing a white
// child into a black parent: the parent goes back to gray so its
// children are rescanned.
func (self *globalState) barrierBack(parent gcObj, child any) {
	if self.gcPhase != gcPropagate {
		return
	}
	if parent.gch().color != colorBlack {
		return
	}
	if c := asGCObj(child); c != nil && self.isWhite(c) {
		parent.gch().color = colorGray
		self.grays = append(self.grays, parent)
	}
}

// asGCObj unwraps a heap object from a value, mapping typed nils to nil.
func asGCObj(v any) gcObj {
	switch x := v.(type) {
	case *luaTable:
		if x != nil {
			return x
		}
	case *closure:
		if x != nil {
			return x
		}
	case *upvalue:
		if x != nil {
			return x
		}
	case *luaState:
		if x != nil {
			return x
		}
	case *userdata:
		if x != nil {
			return x
		}
	}
	return nil
}

/* sweep phase */

func (self *globalState) sweep() {
	// flip the current white; survivors are recolored to the new white,
	// so everything is a candidate again next cycle
	if self.currentWhite == colorWhite0 {
		self.currentWhite = colorWhite1
	} else {
		self.currentWhite = colorWhite0
	}

	var prev gcObj
	o := self.allObjs
	for o != nil {
		h := o.gch()
		next := h.next
		if self.isWhite(o) {
			if ud, isUd := o.(*userdata); isUd && ud.finalizable && !ud.finalized {
				// resurrect for finalization; it dies for real next cycle
				ud.finalized = true
				ud.color = self.currentWhite
				self.toFinalize = append(self.toFinalize, ud)
				prev = o
			} else {
				// unlink; the host GC reclaims the memory
				if prev == nil {
					self.allObjs = next
				} else {
					prev.gch().next = next
				}
				self.totalBytes -= h.size
			}
		} else {
			h.color = self.currentWhite
			prev = o
		}
		o = next
	}

	self.totalBytes -= self.interner.sweep()
	self.gcPhase = gcPause
}

/* finalization */

// runFinalizers calls __gc on userdata collected this cycle. Finalizers
// run between cycles so they may resurrect objects; a finalizer that
// throws is swallowed to keep the collector consistent.
func (self *globalState) runFinalizers() {
	pending := self.toFinalize
	self.toFinalize = nil
	ls := self.mainThread
	for _, ud := range pending {
		mt := ud.metatable
		if mt == nil {
			continue
		}
		gc := mt.get("__gc")
		if gc == nil {
			continue
		}
		func() {
			defer func() { recover() }() // errors in __gc are dropped
			ls.stack.check(2)
			ls.stack.push(gc)
			ls.stack.push(ud)
			ls.Call(1, 0)
		}()
	}
}
