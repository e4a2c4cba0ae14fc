package parser

import (
	. "github.com/lollipopkit/glua/compiler/ast"
	. "github.com/lollipopkit/glua/compiler/lexer"
)

/*
prefixexp ::= Name |
	'(' exp ')' |
	prefixexp '[' exp ']' |
	prefixexp '.' Name |
	prefixexp [':' Name] args
*/
func (self *parser) parsePrefixExp() Exp {
	var exp Exp
	if self.lx.LookAhead() == TOKEN_IDENTIFIER {
		name := self.lx.NextIdentifier() // Name
		exp = &NameExp{name.Line, name.Column, name.Str}
	} else { // '(' exp ')'
		exp = self.parseParensExp()
	}
	return self.finishPrefixExp(exp)
}

func (self *parser) parseParensExp() Exp {
	self.lx.NextTokenOfKind(TOKEN_SEP_LPAREN) // (
	exp := self.parseExp()                    // exp
	self.lx.NextTokenOfKind(TOKEN_SEP_RPAREN) // )

	switch exp.(type) {
	case *VarargExp, *FuncCallExp, *NameExp, *TableAccessExp:
		// parens change the meaning: (f()) truncates to one value
		return &ParensExp{exp}
	}
	return exp
}

func (self *parser) finishPrefixExp(exp Exp) Exp {
	for {
		switch self.lx.LookAhead() {
		case TOKEN_SEP_LBRACK: // prefixexp '[' exp ']'
			openTok := self.lx.NextToken()            // [
			keyExp := self.parseExp()                 // exp
			self.lx.NextTokenOfKind(TOKEN_SEP_RBRACK) // ]
			exp = &TableAccessExp{openTok.Line, openTok.Column,
				self.lx.Line(), exp, keyExp}
		case TOKEN_SEP_DOT: // prefixexp '.' Name
			dotTok := self.lx.NextToken()    // .
			name := self.lx.NextIdentifier() // Name
			keyExp := &StringExp{name.Line, name.Column, name.Str}
			exp = &TableAccessExp{dotTok.Line, dotTok.Column,
				name.Line, exp, keyExp}
		case TOKEN_SEP_COLON, // prefixexp ':' Name args
			TOKEN_SEP_LPAREN, TOKEN_SEP_LCURLY, TOKEN_STRING: // prefixexp args
			exp = self.finishFuncCallExp(exp)
		default:
			return exp
		}
	}
}

// functioncall ::= prefixexp args | prefixexp ':' Name args
func (self *parser) finishFuncCallExp(prefixExp Exp) *FuncCallExp {
	nameExp := self.parseNameExp()
	line, col := self.lx.Line(), 0
	args := self.parseArgs()
	lastLine := self.lx.Line()
	return &FuncCallExp{line, col, lastLine, prefixExp, nameExp, args}
}

func (self *parser) parseNameExp() *StringExp {
	if self.lx.LookAhead() == TOKEN_SEP_COLON {
		self.lx.NextToken()
		name := self.lx.NextIdentifier()
		return &StringExp{name.Line, name.Column, name.Str}
	}
	return nil
}

// args ::= '(' [explist] ')' | tableconstructor | LiteralString
func (self *parser) parseArgs() (args []Exp) {
	switch self.lx.LookAhead() {
	case TOKEN_SEP_LPAREN: // '(' [explist] ')'
		self.lx.NextToken() // (
		if self.lx.LookAhead() != TOKEN_SEP_RPAREN {
			args = self.parseExpList()
		}
		self.lx.NextTokenOfKind(TOKEN_SEP_RPAREN) // )
	case TOKEN_SEP_LCURLY: // tableconstructor
		args = []Exp{self.parseTableConstructorExp()}
	default: // LiteralString
		tok := self.lx.NextTokenOfKind(TOKEN_STRING)
		args = []Exp{&StringExp{tok.Line, tok.Column, tok.Str}}
	}
	return
}
