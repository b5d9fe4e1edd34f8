package parser

import (
	"playscript/internal/ast"
	"playscript/internal/token"
)

// Higher binds tighter.
const (
	precLogicalOr      = 1 // ||
	precLogicalAnd     = 2 // &&
	precEquality       = 3 // == !=
	precComparison     = 4 // < <= > >=
	precAdditive       = 5 // + -
	precMultiplicative = 6 // * / %
)

func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.OrOr:
		return precLogicalOr
	case token.AndAnd:
		return precLogicalAnd
	case token.EqEq, token.BangEq:
		return precEquality
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	}
	return -1
}

var binaryOps = map[token.Kind]ast.ExprBinaryOp{
	token.Plus:          ast.ExprBinaryAdd,
	token.Minus:         ast.ExprBinarySub,
	token.Star:          ast.ExprBinaryMul,
	token.Slash:         ast.ExprBinaryDiv,
	token.Percent:       ast.ExprBinaryMod,
	token.EqEq:          ast.ExprBinaryEq,
	token.BangEq:        ast.ExprBinaryNotEq,
	token.Lt:            ast.ExprBinaryLess,
	token.LtEq:          ast.ExprBinaryLessEq,
	token.Gt:            ast.ExprBinaryGreater,
	token.GtEq:          ast.ExprBinaryGreaterEq,
	token.AndAnd:        ast.ExprBinaryLogicalAnd,
	token.OrOr:          ast.ExprBinaryLogicalOr,
	token.Assign:        ast.ExprBinaryAssign,
	token.PlusAssign:    ast.ExprBinaryAddAssign,
	token.MinusAssign:   ast.ExprBinarySubAssign,
	token.StarAssign:    ast.ExprBinaryMulAssign,
	token.SlashAssign:   ast.ExprBinaryDivAssign,
	token.PercentAssign: ast.ExprBinaryModAssign,
}

func prefixOp(kind token.Kind) (ast.ExprUnaryOp, bool) {
	switch kind {
	case token.Plus:
		return ast.ExprUnaryPlus, true
	case token.Minus:
		return ast.ExprUnaryMinus, true
	case token.Bang:
		return ast.ExprUnaryNot, true
	case token.PlusPlus:
		return ast.ExprUnaryInc, true
	case token.MinusMinus:
		return ast.ExprUnaryDec, true
	}
	return 0, false
}
