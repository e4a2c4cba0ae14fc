package lexer

import (
	"testing"
)

func tokens(t *testing.T, src string) []Token {
	t.Helper()
	lx := NewLexer(src, "test")
	var toks []Token
	for {
		tok := lx.NextToken()
		if tok.Kind == TOKEN_EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestTokenKinds(t *testing.T) {
	toks := tokens(t, `local x = 42 + 0x1F .. "hi" ~= ... :: #`)
	want := []int{
		TOKEN_KW_LOCAL, TOKEN_IDENTIFIER, TOKEN_OP_ASSIGN, TOKEN_NUMBER,
		TOKEN_OP_ADD, TOKEN_NUMBER, TOKEN_OP_CONCAT, TOKEN_STRING,
		TOKEN_OP_NE, TOKEN_VARARG, TOKEN_SEP_LABEL, TOKEN_OP_LEN,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i := range want {
		if toks[i].Kind != want[i] {
			t.Errorf("token %d: got kind %d (%q), want %d", i, toks[i].Kind, toks[i].Str, want[i])
		}
	}
}

func TestKeywordsAreNotIdentifiers(t *testing.T) {
	for kw, kind := range keywords {
		toks := tokens(t, kw)
		if len(toks) != 1 || toks[0].Kind != kind {
			t.Errorf("keyword %q not recognized", kw)
		}
	}
	toks := tokens(t, "ending forx Nil")
	for _, tok := range toks {
		if tok.Kind != TOKEN_IDENTIFIER {
			t.Errorf("%q should lex as identifier", tok.Str)
		}
	}
}

func TestPositions(t *testing.T) {
	toks := tokens(t, "local a\n  return b")
	type pos struct{ line, col int }
	want := []pos{{1, 1}, {1, 7}, {2, 3}, {2, 10}}
	for i := range want {
		if toks[i].Line != want[i].line || toks[i].Column != want[i].col {
			t.Errorf("token %d (%q): got %d:%d, want %d:%d",
				i, toks[i].Str, toks[i].Line, toks[i].Column, want[i].line, want[i].col)
		}
	}
}

func TestShortStringEscapes(t *testing.T) {
	cases := map[string]string{
		`"a\nb"`:     "a\nb",
		`"tab\there"`: "tab\there",
		`'\65\66\67'`: "ABC",
		`"quote\""`:  `quote"`,
		`'\\'`:       `\`,
	}
	for src, want := range cases {
		toks := tokens(t, src)
		if len(toks) != 1 || toks[0].Str != want {
			t.Errorf("%s: got %q, want %q", src, toks[0].Str, want)
		}
	}
}

func TestLongStrings(t *testing.T) {
	cases := map[string]string{
		"[[hello]]":         "hello",
		"[==[a]b]==]":       "a]b",
		"[[\nfirst\nline]]": "first\nline", // leading newline dropped
	}
	for src, want := range cases {
		toks := tokens(t, src)
		if len(toks) != 1 || toks[0].Str != want {
			t.Errorf("%s: got %q, want %q", src, toks[0].Str, want)
		}
	}
}

func TestLongStringTracksLines(t *testing.T) {
	toks := tokens(t, "[[a\nb\nc]] x")
	if len(toks) != 2 {
		t.Fatalf("got %d tokens", len(toks))
	}
	if toks[1].Line != 3 {
		t.Errorf("identifier after long string: got line %d, want 3", toks[1].Line)
	}
}

func TestComments(t *testing.T) {
	toks := tokens(t, "a -- short\nb --[[long\ncomment]] c")
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3", len(toks))
	}
	if toks[2].Line != 3 {
		t.Errorf("token after long comment: got line %d, want 3", toks[2].Line)
	}
}

func TestNumbers(t *testing.T) {
	for _, src := range []string{"3", "3.5", "0.5", ".5", "3e2", "3.1E-2", "0xFF"} {
		toks := tokens(t, src)
		if len(toks) != 1 || toks[0].Kind != TOKEN_NUMBER {
			t.Errorf("%q should lex as one number", src)
		}
	}
}

func TestLexErrors(t *testing.T) {
	cases := []string{
		`"unterminated`,
		"'also\nbad'",
		`"bad \z escape"`,
		"[[never closed",
		"3x7",
	}
	for _, src := range cases {
		func() {
			defer func() {
				if r := recover(); r != nil {
					if _, ok := r.(*Error); !ok {
						t.Errorf("%q: panic is %T, want *Error", src, r)
					}
					return
				}
			}()
			lx := NewLexer(src, "test")
			for i := 0; i < 100; i++ {
				if tok := lx.NextToken(); tok.Kind == TOKEN_EOF {
					t.Errorf("expected a lexical error for %q", src)
					return
				}
			}
		}()
	}
}

func TestErrorPosition(t *testing.T) {
	defer func() {
		r := recover()
		lerr, ok := r.(*Error)
		if !ok {
			t.Fatalf("expected *Error, got %v", r)
		}
		if lerr.Line != 2 {
			t.Errorf("got line %d, want 2", lerr.Line)
		}
	}()
	lx := NewLexer("ok\n\"bad", "test")
	for {
		lx.NextToken()
	}
}
