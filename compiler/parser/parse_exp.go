package parser

import (
	. "github.com/lollipopkit/glua/compiler/ast"
	. "github.com/lollipopkit/glua/compiler/lexer"
	"github.com/lollipopkit/glua/utils"
)

// explist ::= exp {',' exp}
func (self *parser) parseExpList() []Exp {
	exps := make([]Exp, 0, 4)
	exps = append(exps, self.parseExp())
	for self.lx.LookAhead() == TOKEN_SEP_COMMA {
		self.lx.NextToken()
		exps = append(exps, self.parseExp())
	}
	return exps
}

/*
exp ::=  nil | false | true | Numeral | LiteralString | '...' | functiondef |
	 prefixexp | tableconstructor | exp binop exp | unop exp
*/
/*
exp   ::= exp8
exp8  ::= exp7 {or exp7}
exp7  ::= exp6 {and exp6}
exp6  ::= exp5 {('<' | '>' | '<=' | '>=' | '~=' | '==') exp5}
exp5  ::= exp4 {'..' exp4}          -- right associative
exp4  ::= exp3 {('+' | '-') exp3}
exp3  ::= exp2 {('*' | '/' | '%') exp2}
exp2  ::= {('not' | '#' | '-')} exp2 | exp1
exp1  ::= exp0 ['^' exp2]           -- right associative, above unary
exp0  ::= nil | false | true | Numeral | LiteralString
	| '...' | functiondef | prefixexp | tableconstructor
*/
func (self *parser) parseExp() Exp {
	return self.parseExp8()
}

// x or y
func (self *parser) parseExp8() Exp {
	exp := self.parseExp7()
	for self.lx.LookAhead() == TOKEN_OP_OR {
		op := self.lx.NextToken()
		lor := &BinopExp{op.Line, op.Column, op.Kind, exp, self.parseExp7()}
		exp = optimizeLogicalOr(lor)
	}
	return exp
}

// x and y
func (self *parser) parseExp7() Exp {
	exp := self.parseExp6()
	for self.lx.LookAhead() == TOKEN_OP_AND {
		op := self.lx.NextToken()
		land := &BinopExp{op.Line, op.Column, op.Kind, exp, self.parseExp6()}
		exp = optimizeLogicalAnd(land)
	}
	return exp
}

// compare
func (self *parser) parseExp6() Exp {
	exp := self.parseExp5()
	for {
		switch self.lx.LookAhead() {
		case TOKEN_OP_LT, TOKEN_OP_GT, TOKEN_OP_NE,
			TOKEN_OP_LE, TOKEN_OP_GE, TOKEN_OP_EQ:
			op := self.lx.NextToken()
			exp = &BinopExp{op.Line, op.Column, op.Kind, exp, self.parseExp5()}
		default:
			return exp
		}
	}
}

// a .. b .. c  parses as one flat chain so codegen can emit a single
// CONCAT over the register range.
func (self *parser) parseExp5() Exp {
	exp := self.parseExp4()
	if self.lx.LookAhead() != TOKEN_OP_CONCAT {
		return exp
	}

	line, col := 0, 0
	exps := []Exp{exp}
	for self.lx.LookAhead() == TOKEN_OP_CONCAT {
		op := self.lx.NextToken()
		line, col = op.Line, op.Column
		exps = append(exps, self.parseExp4())
	}
	return &ConcatExp{line, col, exps}
}

// x +/- y
func (self *parser) parseExp4() Exp {
	exp := self.parseExp3()
	for {
		switch self.lx.LookAhead() {
		case TOKEN_OP_ADD, TOKEN_OP_SUB:
			op := self.lx.NextToken()
			arith := &BinopExp{op.Line, op.Column, op.Kind, exp, self.parseExp3()}
			exp = optimizeArithBinaryOp(arith)
		default:
			return exp
		}
	}
}

// *, /, %
func (self *parser) parseExp3() Exp {
	exp := self.parseExp2()
	for {
		switch self.lx.LookAhead() {
		case TOKEN_OP_MUL, TOKEN_OP_DIV, TOKEN_OP_MOD:
			op := self.lx.NextToken()
			arith := &BinopExp{op.Line, op.Column, op.Kind, exp, self.parseExp2()}
			exp = optimizeArithBinaryOp(arith)
		default:
			return exp
		}
	}
}

// unary
func (self *parser) parseExp2() Exp {
	switch self.lx.LookAhead() {
	case TOKEN_OP_UNM, TOKEN_OP_LEN, TOKEN_OP_NOT:
		op := self.lx.NextToken()
		exp := &UnopExp{op.Line, op.Column, op.Kind, self.parseExp2()}
		return optimizeUnaryOp(exp)
	}
	return self.parseExp1()
}

// x ^ y; pow is right associative and binds tighter than unary
func (self *parser) parseExp1() Exp {
	exp := self.parseExp0()
	if self.lx.LookAhead() == TOKEN_OP_POW {
		op := self.lx.NextToken()
		exp = &BinopExp{op.Line, op.Column, op.Kind, exp, self.parseExp2()}
	}
	return optimizePow(exp)
}

func (self *parser) parseExp0() Exp {
	switch self.lx.LookAhead() {
	case TOKEN_VARARG: // ...
		tok := self.lx.NextToken()
		return &VarargExp{tok.Line, tok.Column}
	case TOKEN_KW_NIL: // nil
		tok := self.lx.NextToken()
		return &NilExp{tok.Line, tok.Column}
	case TOKEN_KW_TRUE: // true
		tok := self.lx.NextToken()
		return &TrueExp{tok.Line, tok.Column}
	case TOKEN_KW_FALSE: // false
		tok := self.lx.NextToken()
		return &FalseExp{tok.Line, tok.Column}
	case TOKEN_STRING: // LiteralString
		tok := self.lx.NextToken()
		return &StringExp{tok.Line, tok.Column, tok.Str}
	case TOKEN_NUMBER: // Numeral
		return self.parseNumberExp()
	case TOKEN_SEP_LCURLY: // tableconstructor
		return self.parseTableConstructorExp()
	case TOKEN_KW_FUNCTION: // functiondef
		self.lx.NextToken()
		return self.parseFuncDefExp()
	default: // prefixexp
		return self.parsePrefixExp()
	}
}

func (self *parser) parseNumberExp() Exp {
	tok := self.lx.NextToken()
	f, ok := utils.ParseNumber(tok.Str)
	if !ok {
		self.error(tok, "malformed number near '%s'", tok.Str)
	}
	return &NumberExp{tok.Line, tok.Column, f}
}

// functiondef ::= function funcbody
// funcbody ::= '(' [parlist] ')' block end
func (self *parser) parseFuncDefExp() *FuncDefExp {
	line := self.lx.Line()                        // function
	self.lx.NextTokenOfKind(TOKEN_SEP_LPAREN)     // (
	parList, isVararg := self.parseParList()      // [parlist]
	self.lx.NextTokenOfKind(TOKEN_SEP_RPAREN)     // )
	block := self.parseBlock()                    // block
	endTok := self.lx.NextTokenOfKind(TOKEN_KW_END) // end
	return &FuncDefExp{line, 0, endTok.Line, parList, isVararg, block}
}

// [parlist]
// parlist ::= namelist [',' '...'] | '...'
func (self *parser) parseParList() (names []string, isVararg bool) {
	switch self.lx.LookAhead() {
	case TOKEN_SEP_RPAREN:
		return nil, false
	case TOKEN_VARARG:
		self.lx.NextToken()
		return nil, true
	}

	name := self.lx.NextIdentifier()
	names = append(names, name.Str)
	for self.lx.LookAhead() == TOKEN_SEP_COMMA {
		self.lx.NextToken()
		if self.lx.LookAhead() == TOKEN_IDENTIFIER {
			name := self.lx.NextIdentifier()
			names = append(names, name.Str)
		} else {
			self.lx.NextTokenOfKind(TOKEN_VARARG)
			isVararg = true
			break
		}
	}
	return
}

// tableconstructor ::= '{' [fieldlist] '}'
func (self *parser) parseTableConstructorExp() *TableConstructorExp {
	openTok := self.lx.NextTokenOfKind(TOKEN_SEP_LCURLY) // {
	keyExps, valExps := self.parseFieldList()            // [fieldlist]
	self.lx.NextTokenOfKind(TOKEN_SEP_RCURLY)            // }
	lastLine := self.lx.Line()
	return &TableConstructorExp{openTok.Line, openTok.Column, lastLine, keyExps, valExps}
}

// fieldlist ::= field {fieldsep field} [fieldsep]
// fieldsep ::= ',' | ';'
func (self *parser) parseFieldList() (ks, vs []Exp) {
	if self.lx.LookAhead() != TOKEN_SEP_RCURLY {
		k, v := self.parseField()
		ks = append(ks, k)
		vs = append(vs, v)

		for _isFieldSep(self.lx.LookAhead()) {
			self.lx.NextToken()
			if self.lx.LookAhead() == TOKEN_SEP_RCURLY {
				break
			}
			k, v := self.parseField()
			ks = append(ks, k)
			vs = append(vs, v)
		}
	}
	return
}

func _isFieldSep(tokenKind int) bool {
	return tokenKind == TOKEN_SEP_COMMA || tokenKind == TOKEN_SEP_SEMI
}

// field ::= '[' exp ']' '=' exp | Name '=' exp | exp
func (self *parser) parseField() (k, v Exp) {
	if self.lx.LookAhead() == TOKEN_SEP_LBRACK {
		self.lx.NextToken()                       // [
		k = self.parseExp()                       // exp
		self.lx.NextTokenOfKind(TOKEN_SEP_RBRACK) // ]
		self.lx.NextTokenOfKind(TOKEN_OP_ASSIGN)  // =
		v = self.parseExp()                       // exp
		return
	}

	exp := self.parseExp()
	if nameExp, ok := exp.(*NameExp); ok {
		if self.lx.LookAhead() == TOKEN_OP_ASSIGN {
			// Name '=' exp => '[' LiteralString ']' = exp
			self.lx.NextToken()
			k = &StringExp{nameExp.Line, nameExp.Col, nameExp.Name}
			v = self.parseExp()
			return
		}
	}

	return nil, exp
}
