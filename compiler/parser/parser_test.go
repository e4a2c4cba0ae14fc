package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	. "github.com/lollipopkit/glua/compiler/ast"
	. "github.com/lollipopkit/glua/compiler/lexer"
	"github.com/lollipopkit/glua/compiler/report"
)

func mustParse(t *testing.T, src string) *Block {
	t.Helper()
	block, err := Parse(src, "test")
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return block
}

func TestLocalVarDecl(t *testing.T) {
	block := mustParse(t, "local a, b = 1, 'x'")
	want := &Block{
		LastLine: 1,
		Stats: []Stat{
			&LocalVarDeclStat{
				LastLine: 1,
				NameList: []string{"a", "b"},
				ExpList: []Exp{
					&NumberExp{1, 14, 1},
					&StringExp{1, 17, "x"},
				},
			},
		},
	}
	if diff := cmp.Diff(want, block); diff != "" {
		t.Errorf("AST mismatch (-want +got):\n%s", diff)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	// 1 + 2 * x parses as 1 + (2 * x); constant folding must not fire
	block := mustParse(t, "return 1 + 2 * x")
	ret := block.RetExps[0].(*BinopExp)
	if ret.Op != TOKEN_OP_ADD {
		t.Fatalf("top operator: got %d, want +", ret.Op)
	}
	right := ret.Right.(*BinopExp)
	if right.Op != TOKEN_OP_MUL {
		t.Errorf("right operator: got %d, want *", right.Op)
	}
}

func TestPowRightAssociative(t *testing.T) {
	// x ^ y ^ z parses as x ^ (y ^ z)
	block := mustParse(t, "return x ^ y ^ z")
	top := block.RetExps[0].(*BinopExp)
	if top.Op != TOKEN_OP_POW {
		t.Fatalf("top operator is not ^")
	}
	if _, ok := top.Right.(*BinopExp); !ok {
		t.Errorf("^ should be right associative")
	}
	if _, ok := top.Left.(*NameExp); !ok {
		t.Errorf("left of ^ should be a plain name")
	}
}

func TestUnaryBindsBelowPow(t *testing.T) {
	// -x^2 parses as -(x^2)
	block := mustParse(t, "return -x^2")
	top := block.RetExps[0].(*UnopExp)
	if top.Op != TOKEN_OP_UNM {
		t.Fatalf("top is not unary minus")
	}
	if inner, ok := top.Unop.(*BinopExp); !ok || inner.Op != TOKEN_OP_POW {
		t.Errorf("operand of unary minus should be x^2")
	}
}

func TestConcatParsesFlat(t *testing.T) {
	block := mustParse(t, "return a .. b .. c")
	concat := block.RetExps[0].(*ConcatExp)
	if len(concat.Exps) != 3 {
		t.Errorf("concat chain: got %d operands, want 3", len(concat.Exps))
	}
}

func TestConstantFolding(t *testing.T) {
	block := mustParse(t, "return 1 + 2 * 3, -4, not nil")
	if v := block.RetExps[0].(*NumberExp).Val; v != 7 {
		t.Errorf("1+2*3 folded to %v", v)
	}
	if v := block.RetExps[1].(*NumberExp).Val; v != -4 {
		t.Errorf("-4 folded to %v", v)
	}
	if _, ok := block.RetExps[2].(*TrueExp); !ok {
		t.Errorf("not nil should fold to true")
	}
}

func TestMethodCall(t *testing.T) {
	block := mustParse(t, "obj:method(1)")
	call := block.Stats[0].(*FuncCallExp)
	if call.NameExp == nil || call.NameExp.Str != "method" {
		t.Errorf("method name not recorded")
	}
	if len(call.Args) != 1 {
		t.Errorf("got %d args, want 1", len(call.Args))
	}
}

func TestFuncDefStatementForms(t *testing.T) {
	// function t.a:f() end inserts self
	block := mustParse(t, "function t.a:f() end")
	asgn := block.Stats[0].(*AssignStat)
	fd := asgn.ExpList[0].(*FuncDefExp)
	if len(fd.ParList) != 1 || fd.ParList[0] != "self" {
		t.Errorf("colon form should add a self parameter, got %v", fd.ParList)
	}
	if _, ok := asgn.VarList[0].(*TableAccessExp); !ok {
		t.Errorf("target should be a table access")
	}
}

func TestLocalFunctionScoping(t *testing.T) {
	block := mustParse(t, "local function f() return f end")
	if _, ok := block.Stats[0].(*LocalFuncDefStat); !ok {
		t.Errorf("local function should parse to LocalFuncDefStat")
	}
}

func TestControlStatements(t *testing.T) {
	src := `
do local a = 1 end
while x do break end
repeat x = x - 1 until x == 0
if a then b() elseif c then d() else e() end
for i = 1, 10, 2 do f(i) end
for k, v in pairs(t) do g(k, v) end
`
	block := mustParse(t, src)
	wantTypes := []any{
		&DoStat{}, &WhileStat{}, &RepeatStat{},
		&IfStat{}, &ForNumStat{}, &ForInStat{},
	}
	if len(block.Stats) != len(wantTypes) {
		t.Fatalf("got %d statements, want %d", len(block.Stats), len(wantTypes))
	}
	for i := range wantTypes {
		if got, want := typeNameOf(block.Stats[i]), typeNameOf(wantTypes[i]); got != want {
			t.Errorf("statement %d: got %s, want %s", i, got, want)
		}
	}

	// else becomes a trailing elseif-true branch
	ifStat := block.Stats[3].(*IfStat)
	if len(ifStat.Exps) != 3 {
		t.Fatalf("if: got %d branches, want 3", len(ifStat.Exps))
	}
	if _, ok := ifStat.Exps[2].(*TrueExp); !ok {
		t.Errorf("else branch should carry a true condition")
	}
}

func typeNameOf(v any) string {
	switch v.(type) {
	case *DoStat:
		return "do"
	case *WhileStat:
		return "while"
	case *RepeatStat:
		return "repeat"
	case *IfStat:
		return "if"
	case *ForNumStat:
		return "fornum"
	case *ForInStat:
		return "forin"
	default:
		return "other"
	}
}

func TestReservedWordAfterDotRejected(t *testing.T) {
	if _, err := Parse("return t.function", "test"); err == nil {
		t.Errorf("reserved word after '.' should not parse")
	}
}

func TestSyntaxErrorRecovery(t *testing.T) {
	rep := report.Default()
	src := "local = 1\nlocal b = 2\nreturn +\n"
	ParseWith(src, "test", rep)
	if rep.ErrorCount() < 2 {
		t.Errorf("default preset should recover and report both errors, got %d", rep.ErrorCount())
	}
}

func TestStrictStopsAtFirstError(t *testing.T) {
	rep := report.Strict()
	ParseWith("local = 1\nlocal = 2\n", "test", rep)
	if rep.ErrorCount() != 1 {
		t.Errorf("strict preset should stop at the first error, got %d", rep.ErrorCount())
	}
}

func TestDiagnosticPosition(t *testing.T) {
	rep := report.Default()
	ParseWith("x = 1\ny = = 2\n", "chunk.lua", rep)
	if rep.ErrorCount() == 0 {
		t.Fatal("expected a syntax error")
	}
	d := rep.Diagnostics()[0]
	if d.File != "chunk.lua" || d.Line != 2 {
		t.Errorf("diagnostic at %s:%d, want chunk.lua:2", d.File, d.Line)
	}
}
