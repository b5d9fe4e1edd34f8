package ast

import (
	"playscript/internal/source"
)

// ExprKind enumerates the closed set of expression variants.
type ExprKind uint8

const (
	ExprBad ExprKind = iota
	ExprIdent
	ExprLit
	ExprCall
	ExprBinary
	ExprUnary
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "Ident"
	case ExprLit:
		return "Lit"
	case ExprCall:
		return "Call"
	case ExprBinary:
		return "Binary"
	case ExprUnary:
		return "Unary"
	}
	return "Bad"
}

// Expr is the common header of every expression node.
// Payload indexes the per-kind arena selected by Kind.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
	Err     bool // node or a descendant failed to parse
}

type ExprLitKind uint8

const (
	LitInt ExprLitKind = iota
	LitDecimal
	LitString
	LitTrue
	LitFalse
)

func (k ExprLitKind) String() string {
	switch k {
	case LitInt:
		return "int"
	case LitDecimal:
		return "decimal"
	case LitString:
		return "string"
	case LitTrue:
		return "true"
	case LitFalse:
		return "false"
	}
	return "?"
}

type ExprIdentData struct {
	Name string
}

type ExprLiteralData struct {
	Kind  ExprLitKind
	Value string // raw digits, or the decoded string value
}

type ExprCallData struct {
	Name     string
	NameSpan source.Span
	Args     []ExprID
}

type ExprBinaryOp uint8

const (
	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryMod

	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq

	ExprBinaryLogicalAnd
	ExprBinaryLogicalOr

	ExprBinaryAssign
	ExprBinaryAddAssign
	ExprBinarySubAssign
	ExprBinaryMulAssign
	ExprBinaryDivAssign
	ExprBinaryModAssign

	// ExprBinaryDot is member access. The grammar does not produce it yet
	// and the checker rejects it.
	ExprBinaryDot
)

var binaryOpText = [...]string{
	ExprBinaryAdd:        "+",
	ExprBinarySub:        "-",
	ExprBinaryMul:        "*",
	ExprBinaryDiv:        "/",
	ExprBinaryMod:        "%",
	ExprBinaryEq:         "==",
	ExprBinaryNotEq:      "!=",
	ExprBinaryLess:       "<",
	ExprBinaryLessEq:     "<=",
	ExprBinaryGreater:    ">",
	ExprBinaryGreaterEq:  ">=",
	ExprBinaryLogicalAnd: "&&",
	ExprBinaryLogicalOr:  "||",
	ExprBinaryAssign:     "=",
	ExprBinaryAddAssign:  "+=",
	ExprBinarySubAssign:  "-=",
	ExprBinaryMulAssign:  "*=",
	ExprBinaryDivAssign:  "/=",
	ExprBinaryModAssign:  "%=",
	ExprBinaryDot:        ".",
}

func (op ExprBinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

func (op ExprBinaryOp) IsAssign() bool {
	return op >= ExprBinaryAssign && op <= ExprBinaryModAssign
}

func (op ExprBinaryOp) IsArithmetic() bool {
	return op <= ExprBinaryMod
}

func (op ExprBinaryOp) IsComparison() bool {
	return op >= ExprBinaryEq && op <= ExprBinaryGreaterEq
}

func (op ExprBinaryOp) IsLogical() bool {
	return op == ExprBinaryLogicalAnd || op == ExprBinaryLogicalOr
}

// ArithmeticOf maps a compound assignment to its arithmetic operator.
func (op ExprBinaryOp) ArithmeticOf() (ExprBinaryOp, bool) {
	switch op {
	case ExprBinaryAddAssign:
		return ExprBinaryAdd, true
	case ExprBinarySubAssign:
		return ExprBinarySub, true
	case ExprBinaryMulAssign:
		return ExprBinaryMul, true
	case ExprBinaryDivAssign:
		return ExprBinaryDiv, true
	case ExprBinaryModAssign:
		return ExprBinaryMod, true
	}
	return 0, false
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryOp uint8

const (
	ExprUnaryPlus ExprUnaryOp = iota
	ExprUnaryMinus
	ExprUnaryNot
	ExprUnaryInc
	ExprUnaryDec
)

func (op ExprUnaryOp) String() string {
	switch op {
	case ExprUnaryPlus:
		return "+"
	case ExprUnaryMinus:
		return "-"
	case ExprUnaryNot:
		return "!"
	case ExprUnaryInc:
		return "++"
	case ExprUnaryDec:
		return "--"
	}
	return "?"
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
	Postfix bool
}
