package sema

import (
	"fmt"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/source"
	"playscript/internal/symbols"
	"playscript/internal/types"
)

// checkCtx carries the function whose body is being checked.
type checkCtx struct {
	fn symbols.SymbolID
}

type typeChecker struct {
	builder  *ast.Builder
	table    *symbols.Table
	types    *types.Interner
	builtins types.Builtins
	reporter diag.Reporter
	info     *Info
}

// Check assigns a type to every expression bottom-up, infers the type of
// unannotated variables from their initializers and validates operators,
// calls, assignments and returns.
func Check(builder *ast.Builder, fileID ast.FileID, table *symbols.Table, info *Info, reporter diag.Reporter) {
	file := builder.Files.Get(fileID)
	if file == nil {
		return
	}
	tc := typeChecker{
		builder:  builder,
		table:    table,
		types:    table.Types,
		builtins: table.Types.Builtins(),
		reporter: reporter,
		info:     info,
	}
	cx := checkCtx{fn: table.Main}
	for _, id := range file.Body {
		tc.stmt(id, cx)
	}
}

func (tc *typeChecker) stmt(id ast.StmtID, cx checkCtx) {
	st := tc.builder.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		for _, child := range tc.builder.Stmts.Block(id).Stmts {
			tc.stmt(child, cx)
		}
	case ast.StmtLet:
		tc.let(id, tc.builder.Stmts.Let(id))
	case ast.StmtFunc:
		fnID, ok := tc.table.Decls[id]
		if !ok {
			return
		}
		fn := tc.builder.Stmts.Func(id)
		tc.stmt(fn.Body, checkCtx{fn: fnID})
		if !st.Err {
			tc.checkFallOff(fnID, fn)
		}
	case ast.StmtReturn:
		tc.ret(st, tc.builder.Stmts.Return(id), cx)
	case ast.StmtIf:
		ifs := tc.builder.Stmts.If(id)
		tc.cond(ifs.Cond)
		tc.stmt(ifs.Then, cx)
		tc.stmt(ifs.Else, cx)
	case ast.StmtFor:
		loop := tc.builder.Stmts.For(id)
		tc.stmt(loop.Init, cx)
		if loop.Cond.IsValid() {
			tc.cond(loop.Cond)
		}
		tc.expr(loop.Post)
		tc.stmt(loop.Body, cx)
	case ast.StmtExpr:
		tc.expr(tc.builder.Stmts.Expr(id).Expr)
	}
}

func (tc *typeChecker) let(id ast.StmtID, let *ast.LetStmt) {
	if !let.Init.IsValid() {
		return
	}
	initType := tc.value(let.Init)
	symID, ok := tc.table.Decls[id]
	if !ok || initType == types.NoTypeID {
		return
	}
	sym := tc.table.Symbols.Get(symID)
	if sym.Flags&symbols.SymbolFlagInferred != 0 {
		// one-time inference: the symbol keeps this type from now on
		sym.Type = initType
		sym.Flags &^= symbols.SymbolFlagInferred
		return
	}
	if !tc.assignable(initType, sym.Type) {
		diag.ReportError(tc.reporter, diag.SemaAssignMismatch, tc.span(let.Init),
			fmt.Sprintf("cannot initialize '%s' of type '%s' with a value of type '%s'",
				let.Name, tc.types.Display(sym.Type), tc.types.Display(initType))).
			WithNote(let.NameSpan, "declared here").
			Emit()
	}
}

func (tc *typeChecker) ret(st *ast.Stmt, ret *ast.ReturnStmt, cx checkCtx) {
	fn := tc.table.Symbols.Get(cx.fn)
	sig, ok := tc.table.FuncType(cx.fn)
	if !ok {
		return
	}
	result := sig.Result
	if !ret.Value.IsValid() {
		if result != tc.builtins.Void && result != tc.builtins.Any {
			diag.ReportError(tc.reporter, diag.SemaReturnType, st.Span,
				fmt.Sprintf("function '%s' must return a value of type '%s'", fn.Name, tc.types.Display(result))).Emit()
		}
		return
	}
	t := tc.value(ret.Value)
	switch {
	case t == types.NoTypeID:
	case result == tc.builtins.Void:
		diag.ReportError(tc.reporter, diag.SemaReturnType, tc.span(ret.Value),
			fmt.Sprintf("function '%s' returns void but a value is returned", fn.Name)).Emit()
	case !tc.assignable(t, result):
		diag.ReportError(tc.reporter, diag.SemaReturnType, tc.span(ret.Value),
			fmt.Sprintf("cannot return '%s' from function '%s' returning '%s'",
				tc.types.Display(t), fn.Name, tc.types.Display(result))).Emit()
	}
}

func (tc *typeChecker) cond(id ast.ExprID) {
	t := tc.value(id)
	if t != types.NoTypeID && !tc.types.IsSubtype(t, tc.builtins.Boolean) {
		diag.ReportError(tc.reporter, diag.SemaOperatorMismatch, tc.span(id),
			fmt.Sprintf("condition must be boolean, found '%s'", tc.types.Display(t))).Emit()
	}
}

// assignable is ≤ plus the one implicit conversion the converter inserts:
// numbers flow into string slots.
func (tc *typeChecker) assignable(src, dst types.TypeID) bool {
	if tc.types.IsSubtype(src, dst) {
		return true
	}
	return dst == tc.builtins.String && tc.types.IsNumeric(src)
}

func (tc *typeChecker) span(id ast.ExprID) (sp source.Span) {
	if e := tc.builder.Exprs.Get(id); e != nil {
		sp = e.Span
	}
	return sp
}
