package state

import (
	"fmt"
	"strings"

	. "github.com/lollipopkit/glua/api"
	"github.com/lollipopkit/glua/binchunk"
	"github.com/lollipopkit/glua/compiler"
	"github.com/lollipopkit/glua/logger"
	"github.com/lollipopkit/glua/utils"
	"github.com/lollipopkit/glua/vm"
)

// Load turns a chunk (source text or a dumped chunk) into a Lua
// closure on the stack. Compiled sources are cached by content hash.
func (self *luaState) Load(chunk []byte, chunkName, mode string) LuaStatus {
	var proto *binchunk.Prototype
	var err error

	if binchunk.IsChunk(chunk) {
		if !strings.Contains(mode, "b") {
			err = fmt.Errorf("attempt to load a binary chunk (mode is '%s')", mode)
		} else {
			proto, err = binchunk.Undump(chunk)
		}
	} else {
		if !strings.Contains(mode, "t") {
			err = fmt.Errorf("attempt to load a text chunk (mode is '%s')", mode)
		} else {
			hash := utils.Md5(chunk)
			if cached, found := self.gs.protoCache.Get(hash); found {
				logger.I("load: chunk cache hit for %s", chunkName)
				proto = cached
			} else {
				proto, err = compiler.Compile(string(chunk), chunkName)
				if err == nil {
					self.gs.protoCache.Add(hash, proto)
				}
			}
		}
	}

	if err != nil {
		self.stack.check(1)
		self.stack.push(self.gs.interner.intern(self.gs, err.Error()))
		return LUA_ERRSYNTAX
	}

	c := self.gs.newLuaClosure(proto)
	self.stack.check(1)
	self.stack.push(c)
	return LUA_OK
}

// Call invokes the value below the nArgs topmost stack values.
// Unprotected: errors propagate to the nearest protected frame.
func (self *luaState) Call(nArgs, nResults int) {
	val := self.stack.get(self.stack.top - nArgs - 1)

	c, ok := val.(*closure)
	if !ok {
		// a value with __call is called with itself prepended once
		if mf := getMetafield(val, "__call", self); mf != nil {
			if mc, mok := mf.(*closure); mok {
				self.stack.check(1)
				self.stack.push(mf)
				self.Insert(-(nArgs + 2))
				nArgs += 1
				c, ok = mc, true
			}
		}
	}
	if !ok {
		self.runtimeError("attempt to call a %s value", typeName(typeOf(val)))
	}

	if c.proto != nil {
		self.callLuaClosure(nArgs, nResults, c)
	} else {
		self.callGoClosure(nArgs, nResults, c)
	}
}

// precall for a Lua closure: carve a register window out of the stack
// where the function value sat, stash varargs aside, push a CallInfo
// and interpret until its RETURN.
func (self *luaState) callLuaClosure(nArgs, nResults int, c *closure) {
	nRegs := int(c.proto.MaxStackSize)
	nParams := int(c.proto.NumParams)
	isVararg := c.proto.IsVararg == 1

	base := self.stack.top - nArgs - 1
	funcAndArgs := self.stack.popN(nArgs + 1)

	self.stack.check(nRegs + LUA_MINSTACK)
	self.stack.pushN(funcAndArgs[1:], nParams) // missing params become nil
	self.stack.setTopAbs(base + nRegs)

	ci := &callInfo{
		base:     base,
		top:      base + nRegs + LUA_MINSTACK,
		nResults: nResults,
		closure:  c,
		status:   ciStatLua | ciStatFresh,
	}
	if nArgs > nParams && isVararg {
		ci.varargs = funcAndArgs[nParams+1:]
	}
	self.pushCallInfo(ci)

	self.runLuaClosure()

	// postcall: the frame may have been replaced by tail calls, so read
	// the result window from the live CallInfo
	ci = self.ci
	resultBase := ci.base + int(ci.closure.proto.MaxStackSize)
	results := self.stack.popN(self.stack.top - resultBase)
	self.closeUpvaluesAbs(ci.base)
	self.popCallInfo()
	self.stack.setTopAbs(base)

	if nResults != 0 {
		self.stack.check(len(results))
		self.stack.pushN(results, nResults) // pad with nil or discard
	}
}

// precall/postcall for a native closure.
func (self *luaState) callGoClosure(nArgs, nResults int, c *closure) {
	base := self.stack.top - nArgs - 1
	args := self.stack.popN(nArgs)
	self.stack.pop() // function slot

	self.stack.check(nArgs + LUA_MINSTACK)
	self.stack.pushN(args, nArgs)

	ci := &callInfo{
		base:     base,
		top:      base + nArgs + LUA_MINSTACK,
		nResults: nResults,
		closure:  c,
	}
	self.pushCallInfo(ci)

	r := c.goFunc(self)

	results := self.stack.popN(r)
	self.popCallInfo()
	self.stack.setTopAbs(base)

	if nResults != 0 {
		self.stack.check(len(results))
		self.stack.pushN(results, nResults)
	}
}

// runLuaClosure is the dispatch loop. The GC gets its safe point at
// every instruction boundary. A RETURN breaks the loop; tail calls
// replace the frame under our feet without growing this Go stack.
func (self *luaState) runLuaClosure() {
	self.ci.status &^= ciStatFresh
	for {
		inst := vm.Instruction(self.Fetch())
		inst.Execute(self)
		self.gs.checkGC()
		if self.hookEvery > 0 {
			self.hookCounter++
			if self.hookCounter >= self.hookEvery {
				self.hookCounter = 0
				self.callHook()
			}
		}
		if inst.Opcode() == vm.OP_RETURN {
			break
		}
	}
}

// SetHook installs (or with every <= 0 removes) the instruction hook.
func (self *luaState) SetHook(every int, hook GoFunction) {
	if every <= 0 || hook == nil {
		self.hookEvery, self.hookFn = 0, nil
		return
	}
	self.hookEvery, self.hookCounter, self.hookFn = every, 0, hook
}

func (self *luaState) callHook() {
	if self.hookRunning {
		return // no hooks from inside a hook
	}
	self.hookRunning = true
	self.ci.status |= ciStatHooked
	ci := self.ci
	defer func() {
		self.hookRunning = false
		ci.status &^= ciStatHooked
	}()

	self.stack.check(1)
	self.stack.push(self.gs.newGoClosure(self.hookFn, 0))
	self.Call(0, 0)
}

// TailCall reuses the current frame for a Lua callee: open upvalues
// close, the callee overwrites the register window in place, and the
// CallInfo's tail counter grows. Native callees run as ordinary calls
// and TailCall reports false.
func (self *luaState) TailCall(nArgs int) bool {
	val := self.stack.get(self.stack.top - nArgs - 1)
	c, ok := val.(*closure)
	if !ok || c.proto == nil {
		self.Call(nArgs, LUA_MULTRET)
		return false
	}

	nRegs := int(c.proto.MaxStackSize)
	nParams := int(c.proto.NumParams)
	isVararg := c.proto.IsVararg == 1

	funcAndArgs := self.stack.popN(nArgs + 1)
	ci := self.ci
	self.closeUpvaluesAbs(ci.base)
	self.stack.setTopAbs(ci.base)

	self.stack.check(nRegs + LUA_MINSTACK)
	self.stack.pushN(funcAndArgs[1:], nParams)
	self.stack.setTopAbs(ci.base + nRegs)

	ci.closure = c
	ci.top = ci.base + nRegs + LUA_MINSTACK
	ci.savedPC = 0
	ci.tailCalls++
	ci.status |= ciStatLua | ciStatTail
	if nArgs > nParams && isVararg {
		ci.varargs = funcAndArgs[nParams+1:]
	} else {
		ci.varargs = nil
	}
	return true
}

// PCall runs a call in protected mode. On error the stack unwinds to
// this frame (closing upvalues of unwound frames), the status encodes
// the error class, and the error object ends up on the stack. msgh, if
// nonzero, names a handler run on the raw error (the xpcall contract);
// a handler that itself errors produces LUA_ERRERR.
func (self *luaState) PCall(nArgs, nResults, msgh int) (status LuaStatus) {
	ci := self.ci
	depth := self.callDepth
	funcSlot := self.stack.top - nArgs - 1

	var errFunc any
	if msgh != 0 {
		errFunc = self.getValue(msgh)
	}

	// this frame is the catch boundary
	wasProtected := ci.status&ciStatYPCall != 0
	ci.status |= ciStatYPCall

	status = LUA_ERRRUN
	defer func() {
		if !wasProtected {
			ci.status &^= ciStatYPCall
		}
		r := recover()
		if r == nil {
			return
		}
		e, isLuaErr := r.(*luaError)
		if !isLuaErr {
			e = newLuaError(LUA_ERRRUN, fmt.Sprintf("%v", r))
		}

		for self.ci != ci {
			self.closeUpvaluesAbs(self.ci.base)
			self.popCallInfo()
		}
		self.callDepth = depth
		self.stack.setTopAbs(funcSlot)

		errVal := e.value
		status = e.code
		if errFunc != nil {
			if hv, herr := self.callErrFunc(errFunc, errVal); herr != nil {
				status = LUA_ERRERR
				errVal = herr.value
			} else {
				errVal = hv
			}
		}
		self.stack.check(1)
		self.stack.push(errVal)
	}()

	self.Call(nArgs, nResults)
	status = LUA_OK
	return
}

// callErrFunc runs the error handler on the raw error object.
func (self *luaState) callErrFunc(errFunc, errVal any) (res any, lerr *luaError) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*luaError); ok {
				lerr = e
			} else {
				lerr = newLuaError(LUA_ERRERR, fmt.Sprintf("%v", r))
			}
		}
	}()
	self.stack.check(2)
	self.stack.push(errFunc)
	self.stack.push(errVal)
	self.Call(1, 1)
	return self.stack.pop(), nil
}
