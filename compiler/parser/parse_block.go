package parser

import (
	. "github.com/lollipopkit/glua/compiler/ast"
	. "github.com/lollipopkit/glua/compiler/lexer"
)

// block ::= {stat} [retstat]
func (self *parser) parseBlock() *Block {
	block := &Block{Stats: self.parseStats()}
	if !self.rep.Saturated() {
		self.guard(func() { block.RetExps = self.parseRetExps() })
	}
	block.LastLine = self.lx.Line()
	return block
}

func (self *parser) parseStats() []Stat {
	stats := make([]Stat, 0, 8)
	for !_isReturnOrBlockEnd(self.lx.LookAhead()) {
		if self.rep.Saturated() {
			break
		}
		var stat Stat
		if !self.guard(func() { stat = self.parseStat() }) {
			self.resync()
			continue
		}
		if _, ok := stat.(*EmptyStat); !ok {
			stats = append(stats, stat)
		}
	}
	return stats
}

func _isReturnOrBlockEnd(tokenKind int) bool {
	switch tokenKind {
	case TOKEN_KW_RETURN, TOKEN_EOF, TOKEN_KW_END,
		TOKEN_KW_ELSE, TOKEN_KW_ELSEIF, TOKEN_KW_UNTIL:
		return true
	}
	return false
}

// retstat ::= return [explist] [';']
// explist ::= exp {',' exp}
func (self *parser) parseRetExps() []Exp {
	if self.lx.LookAhead() != TOKEN_KW_RETURN {
		return nil
	}

	self.lx.NextToken()
	switch self.lx.LookAhead() {
	case TOKEN_EOF, TOKEN_KW_END,
		TOKEN_KW_ELSE, TOKEN_KW_ELSEIF, TOKEN_KW_UNTIL:
		return []Exp{}
	case TOKEN_SEP_SEMI:
		self.lx.NextToken()
		return []Exp{}
	default:
		exps := self.parseExpList()
		if self.lx.LookAhead() == TOKEN_SEP_SEMI {
			self.lx.NextToken()
		}
		return exps
	}
}
