package ast

import (
	"playscript/internal/source"
)

type StmtKind uint8

const (
	StmtBad StmtKind = iota
	StmtBlock
	StmtLet
	StmtFunc
	StmtReturn
	StmtIf
	StmtFor
	StmtExpr
	StmtEmpty
)

func (k StmtKind) String() string {
	switch k {
	case StmtBlock:
		return "Block"
	case StmtLet:
		return "Let"
	case StmtFunc:
		return "Func"
	case StmtReturn:
		return "Return"
	case StmtIf:
		return "If"
	case StmtFor:
		return "For"
	case StmtExpr:
		return "Expr"
	case StmtEmpty:
		return "Empty"
	}
	return "Bad"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
	Err     bool
}

// TypeRef is a type annotation as written. An empty Name means "not annotated".
type TypeRef struct {
	Name string
	Span source.Span
}

func (t TypeRef) IsSet() bool { return t.Name != "" }

type BlockStmt struct {
	Stmts []StmtID
}

type LetStmt struct {
	Name     string
	NameSpan source.Span
	Type     TypeRef
	Init     ExprID
}

type Param struct {
	Name string
	Span source.Span
	Type TypeRef
}

type FuncStmt struct {
	Name     string
	NameSpan source.Span
	Params   []Param
	Result   TypeRef
	Body     StmtID // StmtBlock
}

type ReturnStmt struct {
	Value ExprID
}

type IfStmt struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

// ForStmt: Init is a StmtLet, a StmtExpr or NoStmtID.
type ForStmt struct {
	Init StmtID
	Cond ExprID
	Post ExprID
	Body StmtID
}

type ExprStmt struct {
	Expr ExprID
}
