package api

// LuaVM is the view of a LuaState the instruction handlers run against.
type LuaVM interface {
	LuaState
	PC() int
	AddPC(n int)
	Fetch() uint32
	GetConst(idx int)
	GetRK(rk int)
	RegisterCount() int
	LoadVararg(n int)
	LoadProto(idx int)
	// CloseUpvalues closes every open upvalue whose register index
	// (1-based, relative to the current frame) is >= a.
	CloseUpvalues(a int)
	// TailCall reuses the current frame for a Lua callee and reports
	// whether it did; a Go callee runs as an ordinary call and the
	// handler leaves its results for the following RETURN.
	TailCall(nArgs int) bool
}
