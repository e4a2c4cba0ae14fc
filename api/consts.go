package api

const (
	LUA_MINSTACK      = 20
	LUAI_MAXSTACK     = 1000000
	LUA_REGISTRYINDEX = -LUAI_MAXSTACK - 1000
	LUA_MULTRET       = -1

	// registry slots
	LUA_RIDX_MAINTHREAD int64 = 1
	LUA_RIDX_GLOBALS    int64 = 2

	// call depth. A chunk that recurses past LUA_MAXCALLDEPTH frames is
	// runaway; LUAI_MAXCALLDEPTH is the hard ceiling a host may raise to.
	LUA_MAXCALLDEPTH  = 200
	LUAI_MAXCALLDEPTH = 1000

	// registers per function
	LUAI_MAXREGS = 250
)

const VERSION = "5.1"

/* basic types */
type LuaType = int

const (
	LUA_TNONE LuaType = iota - 1 // -1
	LUA_TNIL
	LUA_TBOOLEAN
	LUA_TLIGHTUSERDATA
	LUA_TNUMBER
	LUA_TSTRING
	LUA_TTABLE
	LUA_TFUNCTION
	LUA_TUSERDATA
	LUA_TTHREAD
)

/* arithmetic functions */
type ArithOp = int

const (
	LUA_OPADD ArithOp = iota // +
	LUA_OPSUB                // -
	LUA_OPMUL                // *
	LUA_OPDIV                // /
	LUA_OPMOD                // %
	LUA_OPPOW                // ^
	LUA_OPUNM                // - (unary)
)

/* comparison functions */
type CompareOp = int

const (
	LUA_OPEQ CompareOp = iota // ==
	LUA_OPLT                  // <
	LUA_OPLE                  // <=
)

/* thread status */
type LuaStatus = int

const (
	LUA_OK LuaStatus = iota
	LUA_YIELD
	LUA_ERRRUN
	LUA_ERRSYNTAX
	LUA_ERRMEM
	LUA_ERRERR
)

/* garbage collector options */
const (
	LUA_GCSTOP = iota
	LUA_GCRESTART
	LUA_GCCOLLECT
	LUA_GCCOUNT
	LUA_GCSTEP
)

/* host driver exit codes */
const (
	EXIT_OK     = 0
	EXIT_RUNERR = 1
	EXIT_SYNERR = 2
	EXIT_HOST   = 3
)
