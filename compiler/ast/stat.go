package ast

/*
stat ::=  ';'
	| varlist '=' explist
	| functioncall
	| do block end
	| while exp do block end
	| repeat block until exp
	| if exp then block {elseif exp then block} [else block] end
	| for Name '=' exp ',' exp [',' exp] do block end
	| for namelist in explist do block end
	| function funcname funcbody
	| local function Name funcbody
	| local namelist ['=' explist]
	| return [explist] [';']
	| break
*/

type Stat interface{}

type EmptyStat struct{}              // ;
type BreakStat struct{ Line int }    // break
type DoStat struct{ Block *Block }   // do block end

// while exp do block end
type WhileStat struct {
	Exp   Exp
	Block *Block
}

// repeat block until exp
type RepeatStat struct {
	Block *Block
	Exp   Exp
}

// if exp then block {elseif exp then block} [else block] end
// `else block` is stored as a trailing `elseif true then block`.
type IfStat struct {
	Exps   []Exp
	Blocks []*Block
}

// for Name '=' exp ',' exp [',' exp] do block end
type ForNumStat struct {
	LineOfFor int
	LineOfDo  int
	VarName   string
	InitExp   Exp
	LimitExp  Exp
	StepExp   Exp
	Block     *Block
}

// for namelist in explist do block end
type ForInStat struct {
	LineOfDo int
	NameList []string
	ExpList  []Exp
	Block    *Block
}

// local namelist ['=' explist]
type LocalVarDeclStat struct {
	LastLine int
	NameList []string
	ExpList  []Exp
}

// varlist '=' explist
type AssignStat struct {
	LastLine int
	VarList  []Exp
	ExpList  []Exp
}

// local function Name funcbody
type LocalFuncDefStat struct {
	Name string
	Exp  *FuncDefExp
}

// FuncCallExp doubles as a statement.
var _ Stat = (*FuncCallExp)(nil)
