package parser

import (
	"math"

	. "github.com/lollipopkit/glua/compiler/ast"
	. "github.com/lollipopkit/glua/compiler/lexer"
)

/* constant folding on the freshly parsed tree */

func optimizeLogicalOr(exp *BinopExp) Exp {
	if isTrue(exp.Left) {
		return exp.Left // true or x => true
	}
	if isFalse(exp.Left) && !isVarargOrFuncCall(exp.Right) {
		return exp.Right // false or x => x
	}
	return exp
}

func optimizeLogicalAnd(exp *BinopExp) Exp {
	if isFalse(exp.Left) {
		return exp.Left // false and x => false
	}
	if isTrue(exp.Left) && !isVarargOrFuncCall(exp.Right) {
		return exp.Right // true and x => x
	}
	return exp
}

func optimizeArithBinaryOp(exp *BinopExp) Exp {
	x, xok := castToNumber(exp.Left)
	y, yok := castToNumber(exp.Right)
	if !xok || !yok {
		return exp
	}

	switch exp.Op {
	case TOKEN_OP_ADD:
		return &NumberExp{exp.Line, exp.Col, x + y}
	case TOKEN_OP_SUB:
		return &NumberExp{exp.Line, exp.Col, x - y}
	case TOKEN_OP_MUL:
		return &NumberExp{exp.Line, exp.Col, x * y}
	case TOKEN_OP_DIV:
		if y != 0 {
			return &NumberExp{exp.Line, exp.Col, x / y}
		}
	case TOKEN_OP_MOD:
		if y != 0 {
			// Lua mod: a - floor(a/b)*b
			return &NumberExp{exp.Line, exp.Col, x - math.Floor(x/y)*y}
		}
	}
	return exp
}

func optimizePow(exp Exp) Exp {
	if binop, ok := exp.(*BinopExp); ok && binop.Op == TOKEN_OP_POW {
		binop.Right = optimizePow(binop.Right)
		x, xok := castToNumber(binop.Left)
		y, yok := castToNumber(binop.Right)
		if xok && yok {
			return &NumberExp{binop.Line, binop.Col, math.Pow(x, y)}
		}
	}
	return exp
}

func optimizeUnaryOp(exp *UnopExp) Exp {
	switch exp.Op {
	case TOKEN_OP_UNM:
		if x, ok := castToNumber(exp.Unop); ok {
			return &NumberExp{exp.Line, exp.Col, -x}
		}
	case TOKEN_OP_NOT:
		switch exp.Unop.(type) {
		case *NilExp, *FalseExp:
			return &TrueExp{exp.Line, exp.Col}
		case *TrueExp, *NumberExp, *StringExp:
			return &FalseExp{exp.Line, exp.Col}
		}
	}
	return exp
}

func isFalse(exp Exp) bool {
	switch exp.(type) {
	case *FalseExp, *NilExp:
		return true
	}
	return false
}

func isTrue(exp Exp) bool {
	switch exp.(type) {
	case *TrueExp, *NumberExp, *StringExp:
		return true
	}
	return false
}

func isVarargOrFuncCall(exp Exp) bool {
	switch exp.(type) {
	case *VarargExp, *FuncCallExp:
		return true
	}
	return false
}

func castToNumber(exp Exp) (float64, bool) {
	if x, ok := exp.(*NumberExp); ok {
		return x.Val, true
	}
	return 0, false
}
