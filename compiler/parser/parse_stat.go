package parser

import (
	. "github.com/lollipopkit/glua/compiler/ast"
	. "github.com/lollipopkit/glua/compiler/lexer"
)

var _statEmpty = &EmptyStat{}

/*
stat ::=  ';'
	| break
	| do block end
	| while exp do block end
	| repeat block until exp
	| if exp then block {elseif exp then block} [else block] end
	| for Name '=' exp ',' exp [',' exp] do block end
	| for namelist in explist do block end
	| function funcname funcbody
	| local function Name funcbody
	| local namelist ['=' explist]
	| varlist '=' explist
	| functioncall
*/
func (self *parser) parseStat() Stat {
	switch self.lx.LookAhead() {
	case TOKEN_SEP_SEMI:
		return self.parseEmptyStat()
	case TOKEN_KW_BREAK:
		return self.parseBreakStat()
	case TOKEN_KW_DO:
		return self.parseDoStat()
	case TOKEN_KW_WHILE:
		return self.parseWhileStat()
	case TOKEN_KW_REPEAT:
		return self.parseRepeatStat()
	case TOKEN_KW_IF:
		return self.parseIfStat()
	case TOKEN_KW_FOR:
		return self.parseForStat()
	case TOKEN_KW_FUNCTION:
		return self.parseFuncDefStat()
	case TOKEN_KW_LOCAL:
		return self.parseLocalAssignOrFuncDefStat()
	case TOKEN_SEP_LABEL:
		tok := self.lx.NextToken()
		self.error(tok, "labels are not supported")
		return nil
	default:
		return self.parseAssignOrFuncCallStat()
	}
}

// ;
func (self *parser) parseEmptyStat() *EmptyStat {
	self.lx.NextTokenOfKind(TOKEN_SEP_SEMI)
	return _statEmpty
}

// break
func (self *parser) parseBreakStat() *BreakStat {
	tok := self.lx.NextTokenOfKind(TOKEN_KW_BREAK)
	return &BreakStat{tok.Line}
}

// do block end
func (self *parser) parseDoStat() *DoStat {
	self.lx.NextTokenOfKind(TOKEN_KW_DO)  // do
	block := self.parseBlock()            // block
	self.lx.NextTokenOfKind(TOKEN_KW_END) // end
	return &DoStat{block}
}

// while exp do block end
func (self *parser) parseWhileStat() *WhileStat {
	self.lx.NextTokenOfKind(TOKEN_KW_WHILE) // while
	exp := self.parseExp()                  // exp
	self.lx.NextTokenOfKind(TOKEN_KW_DO)    // do
	block := self.parseBlock()              // block
	self.lx.NextTokenOfKind(TOKEN_KW_END)   // end
	return &WhileStat{exp, block}
}

// repeat block until exp
func (self *parser) parseRepeatStat() *RepeatStat {
	self.lx.NextTokenOfKind(TOKEN_KW_REPEAT) // repeat
	block := self.parseBlock()               // block
	self.lx.NextTokenOfKind(TOKEN_KW_UNTIL)  // until
	exp := self.parseExp()                   // exp
	return &RepeatStat{block, exp}
}

// if exp then block {elseif exp then block} [else block] end
func (self *parser) parseIfStat() *IfStat {
	exps := make([]Exp, 0, 4)
	blocks := make([]*Block, 0, 4)

	self.lx.NextTokenOfKind(TOKEN_KW_IF)           // if
	exps = append(exps, self.parseExp())           // exp
	self.lx.NextTokenOfKind(TOKEN_KW_THEN)         // then
	blocks = append(blocks, self.parseBlock())     // block
	for self.lx.LookAhead() == TOKEN_KW_ELSEIF {
		self.lx.NextToken()                        // elseif
		exps = append(exps, self.parseExp())       // exp
		self.lx.NextTokenOfKind(TOKEN_KW_THEN)     // then
		blocks = append(blocks, self.parseBlock()) // block
	}

	// else block => elseif true then block
	if self.lx.LookAhead() == TOKEN_KW_ELSE {
		tok := self.lx.NextToken()                       // else
		exps = append(exps, &TrueExp{tok.Line, tok.Column})
		blocks = append(blocks, self.parseBlock())       // block
	}

	self.lx.NextTokenOfKind(TOKEN_KW_END) // end
	return &IfStat{exps, blocks}
}

// for Name '=' exp ',' exp [',' exp] do block end
// for namelist in explist do block end
func (self *parser) parseForStat() Stat {
	forTok := self.lx.NextTokenOfKind(TOKEN_KW_FOR)
	name := self.lx.NextIdentifier()
	if self.lx.LookAhead() == TOKEN_OP_ASSIGN {
		return self.finishForNumStat(forTok.Line, name.Str)
	}
	return self.finishForInStat(name.Str)
}

// for Name '=' exp ',' exp [',' exp] do block end
func (self *parser) finishForNumStat(lineOfFor int, varName string) *ForNumStat {
	self.lx.NextTokenOfKind(TOKEN_OP_ASSIGN) // for name =
	initExp := self.parseExp()               // exp
	self.lx.NextTokenOfKind(TOKEN_SEP_COMMA) // ,
	limitExp := self.parseExp()              // exp

	var stepExp Exp
	if self.lx.LookAhead() == TOKEN_SEP_COMMA {
		self.lx.NextToken()        // ,
		stepExp = self.parseExp()  // exp
	} else {
		stepExp = &NumberExp{self.lx.Line(), 0, 1}
	}

	doTok := self.lx.NextTokenOfKind(TOKEN_KW_DO) // do
	block := self.parseBlock()                    // block
	self.lx.NextTokenOfKind(TOKEN_KW_END)         // end

	return &ForNumStat{lineOfFor, doTok.Line,
		varName, initExp, limitExp, stepExp, block}
}

// for namelist in explist do block end
// namelist ::= Name {',' Name}
// explist ::= exp {',' exp}
func (self *parser) finishForInStat(name0 string) *ForInStat {
	nameList := self.finishNameList(name0)        // for namelist
	self.lx.NextTokenOfKind(TOKEN_KW_IN)          // in
	expList := self.parseExpList()                // explist
	doTok := self.lx.NextTokenOfKind(TOKEN_KW_DO) // do
	block := self.parseBlock()                    // block
	self.lx.NextTokenOfKind(TOKEN_KW_END)         // end
	return &ForInStat{doTok.Line, nameList, expList, block}
}

// namelist ::= Name {',' Name}
func (self *parser) finishNameList(name0 string) []string {
	names := []string{name0}
	for self.lx.LookAhead() == TOKEN_SEP_COMMA {
		self.lx.NextToken()               // ,
		name := self.lx.NextIdentifier()  // Name
		names = append(names, name.Str)
	}
	return names
}

// local function Name funcbody
// local namelist ['=' explist]
func (self *parser) parseLocalAssignOrFuncDefStat() Stat {
	self.lx.NextTokenOfKind(TOKEN_KW_LOCAL)
	if self.lx.LookAhead() == TOKEN_KW_FUNCTION {
		return self.finishLocalFuncDefStat()
	}
	return self.finishLocalVarDeclStat()
}

/*
function f() end          =>  f = function() end
function t.a.b.c.f() end  =>  t.a.b.c.f = function() end
function t.a.b.c:f() end  =>  t.a.b.c.f = function(self) end
local function f() end    =>  local f; f = function() end

The statement `local function f () body end`
translates to `local f; f = function () body end`
not to `local f = function () body end`
(This only makes a difference when the body of the function
 contains references to f.)
*/
// local function Name funcbody
func (self *parser) finishLocalFuncDefStat() *LocalFuncDefStat {
	self.lx.NextTokenOfKind(TOKEN_KW_FUNCTION) // local function
	name := self.lx.NextIdentifier()           // name
	fdExp := self.parseFuncDefExp()            // funcbody
	return &LocalFuncDefStat{name.Str, fdExp}
}

// local namelist ['=' explist]
func (self *parser) finishLocalVarDeclStat() *LocalVarDeclStat {
	name0 := self.lx.NextIdentifier()          // local Name
	nameList := self.finishNameList(name0.Str) // { , Name }
	var expList []Exp
	if self.lx.LookAhead() == TOKEN_OP_ASSIGN {
		self.lx.NextToken()            // =
		expList = self.parseExpList()  // explist
	}
	lastLine := self.lx.Line()
	return &LocalVarDeclStat{lastLine, nameList, expList}
}

// varlist '=' explist
// functioncall
func (self *parser) parseAssignOrFuncCallStat() Stat {
	prefixExp := self.parsePrefixExp()
	if fc, ok := prefixExp.(*FuncCallExp); ok {
		if self.lx.LookAhead() != TOKEN_OP_ASSIGN &&
			self.lx.LookAhead() != TOKEN_SEP_COMMA {
			return fc
		}
	}
	return self.parseAssignStat(prefixExp)
}

// varlist '=' explist
func (self *parser) parseAssignStat(var0 Exp) *AssignStat {
	varList := self.finishVarList(var0)      // varlist
	self.lx.NextTokenOfKind(TOKEN_OP_ASSIGN) // =
	expList := self.parseExpList()           // explist
	lastLine := self.lx.Line()
	return &AssignStat{lastLine, varList, expList}
}

// varlist ::= var {',' var}
func (self *parser) finishVarList(var0 Exp) []Exp {
	vars := []Exp{self.checkVar(var0)}
	for self.lx.LookAhead() == TOKEN_SEP_COMMA {
		self.lx.NextToken()                        // ,
		exp := self.parsePrefixExp()               // var
		vars = append(vars, self.checkVar(exp))
	}
	return vars
}

// var ::=  Name | prefixexp '[' exp ']' | prefixexp '.' Name
func (self *parser) checkVar(exp Exp) Exp {
	switch exp.(type) {
	case *NameExp, *TableAccessExp:
		return exp
	}
	tok := self.lx.NextToken()
	self.error(tok, "syntax error near '%s' (cannot assign)", tok.Str)
	return nil
}

// function funcname funcbody
// funcname ::= Name {'.' Name} [':' Name]
// funcbody ::= '(' [parlist] ')' block end
func (self *parser) parseFuncDefStat() *AssignStat {
	self.lx.NextTokenOfKind(TOKEN_KW_FUNCTION) // function
	fnExp, hasColon := self.parseFuncName()    // funcname
	fdExp := self.parseFuncDefExp()            // funcbody
	if hasColon {                              // insert self
		fdExp.ParList = append(fdExp.ParList, "")
		copy(fdExp.ParList[1:], fdExp.ParList)
		fdExp.ParList[0] = "self"
	}

	return &AssignStat{
		LastLine: fdExp.Line,
		VarList:  []Exp{fnExp},
		ExpList:  []Exp{fdExp},
	}
}

// funcname ::= Name {'.' Name} [':' Name]
func (self *parser) parseFuncName() (exp Exp, hasColon bool) {
	name := self.lx.NextIdentifier()
	exp = &NameExp{name.Line, name.Column, name.Str}

	for self.lx.LookAhead() == TOKEN_SEP_DOT {
		self.lx.NextToken()
		name := self.lx.NextIdentifier()
		idx := &StringExp{name.Line, name.Column, name.Str}
		exp = &TableAccessExp{name.Line, name.Column, name.Line, exp, idx}
	}
	if self.lx.LookAhead() == TOKEN_SEP_COLON {
		self.lx.NextToken()
		name := self.lx.NextIdentifier()
		idx := &StringExp{name.Line, name.Column, name.Str}
		exp = &TableAccessExp{name.Line, name.Column, name.Line, exp, idx}
		hasColon = true
	}
	return
}
