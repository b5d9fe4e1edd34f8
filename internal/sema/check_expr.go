package sema

import (
	"fmt"
	"strconv"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/types"
)

// expr checks id and records its type. NoTypeID means the node was
// already reported and callers must not report it again.
func (tc *typeChecker) expr(id ast.ExprID) types.TypeID {
	t := tc.exprType(id)
	if t != types.NoTypeID {
		tc.info.Types[id] = t
	}
	return t
}

// value is expr for positions that consume the result.
func (tc *typeChecker) value(id ast.ExprID) types.TypeID {
	t := tc.expr(id)
	if t != types.NoTypeID && tc.types.HasVoid(t) {
		diag.ReportError(tc.reporter, diag.SemaVoidValue, tc.span(id),
			fmt.Sprintf("expression of type '%s' has no value", tc.types.Display(t))).Emit()
		return types.NoTypeID
	}
	return t
}

func (tc *typeChecker) exprType(id ast.ExprID) types.TypeID {
	e := tc.builder.Exprs.Get(id)
	if e == nil {
		return types.NoTypeID
	}
	switch e.Kind {
	case ast.ExprLit:
		lit, _ := tc.builder.Exprs.Literal(id)
		switch lit.Kind {
		case ast.LitInt:
			if _, err := strconv.ParseInt(lit.Value, 10, 64); err != nil {
				diag.ReportError(tc.reporter, diag.SemaError, e.Span,
					fmt.Sprintf("integer literal %s is out of range", lit.Value)).Emit()
				return types.NoTypeID
			}
			return tc.builtins.Integer
		case ast.LitDecimal:
			if _, err := strconv.ParseFloat(lit.Value, 64); err != nil {
				diag.ReportError(tc.reporter, diag.SemaError, e.Span,
					fmt.Sprintf("decimal literal %s is out of range", lit.Value)).Emit()
				return types.NoTypeID
			}
			return tc.builtins.Decimal
		case ast.LitString:
			return tc.builtins.String
		default:
			return tc.builtins.Boolean
		}
	case ast.ExprIdent:
		if sym := tc.table.Symbols.Get(tc.table.Refs[id]); sym != nil {
			return sym.Type
		}
	case ast.ExprCall:
		return tc.call(id)
	case ast.ExprBinary:
		return tc.binary(id, e)
	case ast.ExprUnary:
		return tc.unary(id, e)
	}
	return types.NoTypeID
}

func (tc *typeChecker) call(id ast.ExprID) types.TypeID {
	call, _ := tc.builder.Exprs.Call(id)
	args := make([]types.TypeID, len(call.Args))
	for i, arg := range call.Args {
		args[i] = tc.value(arg)
	}
	symID, ok := tc.table.Refs[id]
	if !ok {
		return types.NoTypeID
	}
	sig, ok := tc.table.FuncType(symID)
	if !ok {
		return types.NoTypeID
	}
	if len(args) != len(sig.Params) {
		diag.ReportError(tc.reporter, diag.SemaArgumentCount, tc.span(id),
			fmt.Sprintf("function '%s' expects %d arguments, got %d", call.Name, len(sig.Params), len(args))).Emit()
	}
	for i := 0; i < len(args) && i < len(sig.Params); i++ {
		param := sig.Params[i]
		// string parameters take anything; the converter coerces
		if args[i] == types.NoTypeID || param == tc.builtins.String {
			continue
		}
		if !tc.types.IsSubtype(args[i], param) {
			diag.ReportError(tc.reporter, diag.SemaArgumentType, tc.span(call.Args[i]),
				fmt.Sprintf("argument %d of '%s' has type '%s', expected '%s'",
					i+1, call.Name, tc.types.Display(args[i]), tc.types.Display(param))).Emit()
		}
	}
	return sig.Result
}

func (tc *typeChecker) binary(id ast.ExprID, e *ast.Expr) types.TypeID {
	bin, _ := tc.builder.Exprs.Binary(id)
	switch {
	case bin.Op == ast.ExprBinaryDot:
		tc.expr(bin.Left)
		tc.expr(bin.Right)
		diag.ReportError(tc.reporter, diag.SemaOperatorMismatch, e.Span, "operator '.' is not supported").Emit()
		return types.NoTypeID
	case bin.Op.IsAssign():
		return tc.assign(bin, e)
	}
	lt := tc.value(bin.Left)
	rt := tc.value(bin.Right)
	if lt == types.NoTypeID || rt == types.NoTypeID {
		return types.NoTypeID
	}
	return tc.operator(bin.Op, lt, rt, e)
}

// assign types `l op= r` like `l = l op r` and yields the type of l.
func (tc *typeChecker) assign(bin *ast.ExprBinaryData, e *ast.Expr) types.TypeID {
	lt := tc.expr(bin.Left)
	rt := tc.value(bin.Right)
	if lt == types.NoTypeID || rt == types.NoTypeID {
		return lt
	}
	src := rt
	if arith, ok := bin.Op.ArithmeticOf(); ok {
		if src = tc.operator(arith, lt, rt, e); src == types.NoTypeID {
			return lt
		}
	}
	if !tc.assignable(src, lt) {
		diag.ReportError(tc.reporter, diag.SemaAssignMismatch, e.Span,
			fmt.Sprintf("operator '%s' cannot assign '%s' to '%s'",
				bin.Op, tc.types.Display(src), tc.types.Display(lt))).Emit()
	}
	return lt
}

// operator is the binary typing table.
func (tc *typeChecker) operator(op ast.ExprBinaryOp, lt, rt types.TypeID, e *ast.Expr) types.TypeID {
	b := tc.builtins
	in := tc.types
	switch {
	case op == ast.ExprBinaryAdd && (lt == b.String || rt == b.String):
		return b.String
	case op.IsArithmetic():
		if in.IsNumeric(lt) && in.IsNumeric(rt) {
			return in.Join(lt, rt)
		}
	case op.IsComparison():
		if in.IsNumeric(lt) && in.IsNumeric(rt) {
			return b.Boolean
		}
	case op.IsLogical():
		if in.IsSubtype(lt, b.Boolean) && in.IsSubtype(rt, b.Boolean) {
			return b.Boolean
		}
	}
	diag.ReportError(tc.reporter, diag.SemaOperatorMismatch, e.Span,
		fmt.Sprintf("operator '%s' cannot be applied to '%s' and '%s'", op, in.Display(lt), in.Display(rt))).Emit()
	return types.NoTypeID
}

func (tc *typeChecker) unary(id ast.ExprID, e *ast.Expr) types.TypeID {
	un, _ := tc.builder.Exprs.Unary(id)
	t := tc.value(un.Operand)
	if t == types.NoTypeID {
		return t
	}
	switch un.Op {
	case ast.ExprUnaryNot:
		if tc.types.IsSubtype(t, tc.builtins.Boolean) {
			return tc.builtins.Boolean
		}
	default:
		if tc.types.IsNumeric(t) {
			return t
		}
	}
	diag.ReportError(tc.reporter, diag.SemaOperatorMismatch, e.Span,
		fmt.Sprintf("operator '%s' cannot be applied to '%s'", un.Op, tc.types.Display(t))).Emit()
	return types.NoTypeID
}
