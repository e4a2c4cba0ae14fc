package ast

/*
exp ::=  nil | false | true | Numeral | LiteralString | '...' | functiondef |
	 prefixexp | tableconstructor | exp binop exp | unop exp

prefixexp ::= var | functioncall | '(' exp ')'

var ::=  Name | prefixexp '[' exp ']' | prefixexp '.' Name

functioncall ::=  prefixexp args | prefixexp ':' Name args
*/

type Exp interface{}

type NilExp struct{ Line, Col int }    // nil
type TrueExp struct{ Line, Col int }   // true
type FalseExp struct{ Line, Col int }  // false
type VarargExp struct{ Line, Col int } // ...

// Numeral. Lua numbers are IEEE-754 doubles.
type NumberExp struct {
	Line, Col int
	Val       float64
}

// LiteralString
type StringExp struct {
	Line, Col int
	Str       string
}

// unop exp
type UnopExp struct {
	Line, Col int // position of operator
	Op        int // operator
	Unop      Exp
}

// exp1 op exp2
type BinopExp struct {
	Line, Col int // position of operator
	Op        int // operator
	Left      Exp
	Right     Exp
}

// exp1 .. exp2 {.. expN}, kept flat so chains concatenate in one pass
type ConcatExp struct {
	Line, Col int // position of last `..`
	Exps      []Exp
}

// tableconstructor ::= '{' [fieldlist] '}'
// fieldlist ::= field {fieldsep field} [fieldsep]
// field ::= '[' exp ']' '=' exp | Name '=' exp | exp
// fieldsep ::= ',' | ';'
type TableConstructorExp struct {
	Line, Col int // position of `{`
	LastLine  int // line of `}`
	KeyExps   []Exp
	ValExps   []Exp
}

// functiondef ::= function funcbody
// funcbody ::= '(' [parlist] ')' block end
// parlist ::= namelist [',' '...'] | '...'
// namelist ::= Name {',' Name}
type FuncDefExp struct {
	Line, Col int
	LastLine  int // line of `end`
	ParList   []string
	IsVararg  bool
	Block     *Block
}

type NameExp struct {
	Line, Col int
	Name      string
}

type ParensExp struct {
	Exp Exp
}

type TableAccessExp struct {
	Line, Col int // position of `[` or `.`
	LastLine  int // line of `]`
	PrefixExp Exp
	KeyExp    Exp
}

type FuncCallExp struct {
	Line, Col int // position of `(`
	LastLine  int // line of `)`
	PrefixExp Exp
	NameExp   *StringExp // method name for o:m(...) calls
	Args      []Exp
}
