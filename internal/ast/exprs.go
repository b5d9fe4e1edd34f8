package ast

import (
	"playscript/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Idents   *Arena[ExprIdentData]
	Literals *Arena[ExprLiteralData]
	Calls    *Arena[ExprCallData]
	Binaries *Arena[ExprBinaryData]
	Unaries  *Arena[ExprUnaryData]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Idents:   NewArena[ExprIdentData](capHint),
		Literals: NewArena[ExprLiteralData](capHint),
		Calls:    NewArena[ExprCallData](capHint / 4),
		Binaries: NewArena[ExprBinaryData](capHint),
		Unaries:  NewArena[ExprUnaryData](capHint / 4),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// NewBad creates an error placeholder produced by parser recovery.
func (e *Exprs) NewBad(span source.Span) ExprID {
	id := e.new(ExprBad, span, NoPayloadID)
	e.Get(id).Err = true
	return id
}

func (e *Exprs) NewIdent(span source.Span, name string) ExprID {
	payload := e.Idents.Allocate(ExprIdentData{Name: name})
	return e.new(ExprIdent, span, PayloadID(payload))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIdent {
		return nil, false
	}
	return e.Idents.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewLiteral(span source.Span, kind ExprLitKind, value string) ExprID {
	payload := e.Literals.Allocate(ExprLiteralData{Kind: kind, Value: value})
	return e.new(ExprLit, span, PayloadID(payload))
}

func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLit {
		return nil, false
	}
	return e.Literals.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewCall(span source.Span, name string, nameSpan source.Span, args []ExprID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{
		Name:     name,
		NameSpan: nameSpan,
		Args:     append([]ExprID(nil), args...),
	})
	return e.new(ExprCall, span, PayloadID(payload))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	payload := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right})
	id := e.new(ExprBinary, span, PayloadID(payload))
	e.Get(id).Err = e.hasErr(left) || e.hasErr(right)
	return id
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewUnary(span source.Span, op ExprUnaryOp, operand ExprID, postfix bool) ExprID {
	payload := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand, Postfix: postfix})
	id := e.new(ExprUnary, span, PayloadID(payload))
	e.Get(id).Err = e.hasErr(operand)
	return id
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(expr.Payload)), true
}

func (e *Exprs) hasErr(id ExprID) bool {
	x := e.Get(id)
	return x == nil || x.Err
}

// Children returns the direct sub-expressions of id in evaluation order.
func (e *Exprs) Children(id ExprID) []ExprID {
	expr := e.Get(id)
	if expr == nil {
		return nil
	}
	switch expr.Kind {
	case ExprCall:
		call, _ := e.Call(id)
		return call.Args
	case ExprBinary:
		bin, _ := e.Binary(id)
		return []ExprID{bin.Left, bin.Right}
	case ExprUnary:
		un, _ := e.Unary(id)
		return []ExprID{un.Operand}
	}
	return nil
}
