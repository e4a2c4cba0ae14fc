package api

// auxiliary library
type AuxLib interface {
	/* error-report functions */
	Error2(format string, a ...any) int
	ArgError(arg int, extraMsg string) int
	Traceback(msg string, level int) string
	// GetStackInfo reports where the activation `level` frames below
	// the current one is executing: its source, current line and kind
	// ("main", "Lua" or "C"). ok is false past the bottom of the stack.
	GetStackInfo(level int) (source string, currentLine int, what string, ok bool)
	/* argument check functions */
	CheckStack2(sz int, msg string)
	ArgCheck(cond bool, arg int, extraMsg string)
	CheckAny(arg int)
	CheckType(arg int, t LuaType)
	CheckInteger(arg int) int64
	CheckNumber(arg int) float64
	CheckString(arg int) string
	OptInteger(arg int, d int64) int64
	OptNumber(arg int, d float64) float64
	OptString(arg int, d string) string
	/* load functions */
	DoFile(filename string) bool
	DoString(str, source string) bool
	LoadFile(filename string) LuaStatus
	LoadString(s, source string) LuaStatus
	/* other functions */
	TypeName2(idx int) string
	ToString2(idx int) string
	Len2(idx int) int64
	GetSubTable(idx int, fname string) bool
	GetMetafield(obj int, e string) LuaType
	CallMeta(obj int, e string) bool
	OpenLibs()
	RequireF(modname string, openf GoFunction, glb bool)
	NewLib(l FuncReg)
	NewLibTable(l FuncReg)
	SetFuncs(l FuncReg, nup int)
}
