package sema

import (
	"fmt"
	"slices"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/symbols"
)

// checkFallOff warns when a function with a result can reach the end of its
// body. Such a function returns the zero value of its result type.
func (tc *typeChecker) checkFallOff(fnID symbols.SymbolID, fn *ast.FuncStmt) {
	sig, ok := tc.table.FuncType(fnID)
	if !ok || sig.Result == tc.builtins.Void || sig.Result == tc.builtins.Any {
		return
	}
	if tc.terminates(fn.Body) {
		return
	}
	diag.ReportWarning(tc.reporter, diag.SemaMissingReturn, fn.NameSpan,
		fmt.Sprintf("function '%s' may end without returning a value; it then returns the zero '%s'",
			fn.Name, tc.types.Display(sig.Result))).Emit()
}

// terminates reports whether control never runs past the end of id. The
// language has no break, so a loop without a condition never exits normally.
func (tc *typeChecker) terminates(id ast.StmtID) bool {
	st := tc.builder.Stmts.Get(id)
	if st == nil {
		return false
	}
	switch st.Kind {
	case ast.StmtReturn:
		return true
	case ast.StmtBlock:
		return slices.ContainsFunc(tc.builder.Stmts.Block(id).Stmts, tc.terminates)
	case ast.StmtIf:
		ifs := tc.builder.Stmts.If(id)
		return ifs.Else.IsValid() && tc.terminates(ifs.Then) && tc.terminates(ifs.Else)
	case ast.StmtFor:
		return !tc.builder.Stmts.For(id).Cond.IsValid()
	}
	return false
}
