package parser

import (
	"errors"
	"fmt"

	. "github.com/lollipopkit/glua/compiler/ast"
	. "github.com/lollipopkit/glua/compiler/lexer"
	"github.com/lollipopkit/glua/compiler/report"
)

/* recursive descent parser */

type parser struct {
	lx  *Lexer
	rep *report.Reporter
}

// Parse parses a chunk with the default reporter (errors accumulate and
// parsing resyncs at statement boundaries). The partial AST is returned
// alongside the error so tools can still inspect it.
func Parse(chunk, chunkName string) (*Block, error) {
	rep := report.Default()
	block := ParseWith(chunk, chunkName, rep)
	if rep.HasErrors() {
		return block, errors.New(rep.Plain())
	}
	return block, nil
}

// ParseWith parses a chunk, recording diagnostics in rep.
func ParseWith(chunk, chunkName string, rep *report.Reporter) *Block {
	self := &parser{lx: NewLexer(chunk, chunkName), rep: rep}
	block := self.parseChunk()
	return block
}

func (self *parser) parseChunk() *Block {
	block := self.parseBlock()
	if !self.rep.Saturated() {
		self.guard(func() {
			self.lx.NextTokenOfKind(TOKEN_EOF)
		})
	}
	return block
}

// guard runs one parse step, converting a lexer/parser panic into a
// diagnostic. It reports whether the step completed without error.
func (self *parser) guard(step func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			lerr, isLex := r.(*Error)
			if !isLex {
				panic(r)
			}
			self.rep.Errorf(lerr.ChunkName, lerr.Line, lerr.Column, "%s", lerr.Msg)
			ok = false
		}
	}()
	step()
	return true
}

// error reports a syntax error at the given token and unwinds to the
// nearest recovery point.
func (self *parser) error(tok Token, format string, a ...any) {
	panic(&Error{
		ChunkName: self.lx.ChunkName(),
		Line:      tok.Line,
		Column:    tok.Column,
		Msg:       fmt.Sprintf(format, a...),
	})
}

// resync skips tokens until something that can start or end a statement,
// so one bad statement produces one diagnostic.
func (self *parser) resync() {
	self.lx.NextToken() // always make progress
	for {
		switch self.lx.LookAhead() {
		case TOKEN_EOF, TOKEN_KW_END, TOKEN_KW_ELSE, TOKEN_KW_ELSEIF,
			TOKEN_KW_UNTIL, TOKEN_KW_RETURN, TOKEN_KW_BREAK,
			TOKEN_KW_IF, TOKEN_KW_WHILE, TOKEN_KW_DO, TOKEN_KW_FOR,
			TOKEN_KW_FUNCTION, TOKEN_KW_LOCAL, TOKEN_KW_REPEAT:
			return
		case TOKEN_SEP_SEMI:
			self.lx.NextToken()
			return
		default:
			self.lx.NextToken()
		}
	}
}
