package state

/*
An upvalue is the runtime cell shared between a closure and the
activation it captured from. While the captured local is alive the
cell is "open": it aliases the stack slot directly, so every closure
holding it observes the same value. When the slot dies (RETURN, CLOSE,
or a closing JMP) the cell takes ownership of the value and is
"closed". Open upvalues of a thread form a list sorted by descending
stack position, so close-on-return walks only a prefix.
*/
type upvalue struct {
	gcHeader
	stk  *luaStack // non-nil while open
	idx  int       // absolute slot in stk
	val  any       // the value, once closed
	next *upvalue  // open list link
}

func (self *globalState) newUpvalue(stk *luaStack, idx int) *upvalue {
	uv := &upvalue{stk: stk, idx: idx}
	self.addObj(uv, sizeUpvalue)
	return uv
}

func (self *globalState) newClosedUpvalue(val any) *upvalue {
	uv := &upvalue{val: val}
	self.addObj(uv, sizeUpvalue)
	return uv
}

func (self *upvalue) isOpen() bool {
	return self.stk != nil
}

func (self *upvalue) get() any {
	if self.stk != nil {
		return self.stk.slots[self.idx]
	}
	return self.val
}

func (self *upvalue) set(v any) {
	if self.stk != nil {
		self.stk.slots[self.idx] = v
		return
	}
	self.val = v
}

// findUpvalue returns the open upvalue for an absolute stack slot,
// creating and linking one if no closure captured that slot yet.
// Sharing the cell is what gives sibling closures shared mutation.
func (self *luaState) findUpvalue(idx int) *upvalue {
	var prev *upvalue
	uv := self.openuvs
	for uv != nil && uv.idx > idx {
		prev = uv
		uv = uv.next
	}
	if uv != nil && uv.idx == idx {
		return uv
	}

	nuv := self.gs.newUpvalue(self.stack, idx)
	nuv.next = uv
	if prev == nil {
		self.openuvs = nuv
	} else {
		prev.next = nuv
	}
	return nuv
}

// closeUpvaluesAbs closes every open upvalue at or above the absolute
// stack slot minAbs.
func (self *luaState) closeUpvaluesAbs(minAbs int) {
	for self.openuvs != nil && self.openuvs.idx >= minAbs {
		uv := self.openuvs
		uv.val = uv.stk.slots[uv.idx]
		uv.stk = nil
		self.openuvs = uv.next
		uv.next = nil
	}
}
