package sema

import (
	"fmt"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/symbols"
	"playscript/internal/types"
)

// target says what kind of operator consumes an expression as its target.
type target uint8

const (
	targetNone target = iota
	targetAssign
	targetIncDec
	targetDot
)

type lvalueAttributor struct {
	builder  *ast.Builder
	table    *symbols.Table
	types    *types.Interner
	info     *Info
	reporter diag.Reporter
}

// AttributeLeftValues marks assignable expressions and reports assignments
// and increments whose target is not one.
func AttributeLeftValues(builder *ast.Builder, fileID ast.FileID, table *symbols.Table, info *Info, reporter diag.Reporter) {
	file := builder.Files.Get(fileID)
	if file == nil {
		return
	}
	la := lvalueAttributor{
		builder:  builder,
		table:    table,
		types:    table.Types,
		info:     info,
		reporter: reporter,
	}
	for _, id := range file.Body {
		builder.WalkStmt(id, 0, func(n ast.Node, _ int) bool {
			if !n.Expr.IsValid() {
				return true
			}
			la.expr(n.Expr, targetNone)
			return false
		})
	}
}

func (la *lvalueAttributor) expr(id ast.ExprID, as target) {
	e := la.builder.Exprs.Get(id)
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.ExprIdent:
		if t, ok := la.info.Types[id]; ok && as != targetNone && !la.types.HasVoid(t) {
			la.info.LeftValues[id] = true
		}
	case ast.ExprCall:
		call, _ := la.builder.Exprs.Call(id)
		for _, arg := range call.Args {
			la.expr(arg, targetNone)
		}
		if t, ok := la.info.Types[id]; ok && as == targetDot && !la.types.HasVoid(t) {
			la.info.LeftValues[id] = true
		}
	case ast.ExprBinary:
		bin, _ := la.builder.Exprs.Binary(id)
		switch {
		case bin.Op.IsAssign():
			la.expr(bin.Left, targetAssign)
			la.require(bin.Left, fmt.Sprintf("left side of '%s' must be assignable", bin.Op))
		case bin.Op == ast.ExprBinaryDot:
			la.expr(bin.Left, targetDot)
			la.require(bin.Left, "left side of '.' must be a value")
		default:
			la.expr(bin.Left, targetNone)
		}
		la.expr(bin.Right, targetNone)
	case ast.ExprUnary:
		un, _ := la.builder.Exprs.Unary(id)
		if un.Op == ast.ExprUnaryInc || un.Op == ast.ExprUnaryDec {
			la.expr(un.Operand, targetIncDec)
			la.require(un.Operand, fmt.Sprintf("operand of '%s' must be assignable", un.Op))
			return
		}
		la.expr(un.Operand, targetNone)
	}
}

// require reports id unless it is a left value. Nodes without a type were
// reported by an earlier pass.
func (la *lvalueAttributor) require(id ast.ExprID, msg string) {
	if _, typed := la.info.Types[id]; !typed || la.info.LeftValues[id] {
		return
	}
	diag.ReportError(la.reporter, diag.SemaNotLeftValue, la.builder.Exprs.Get(id).Span, msg).Emit()
}
