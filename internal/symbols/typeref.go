package symbols

import (
	"fmt"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/types"
)

// resolveTypeRef maps an annotation to a built-in type. Unannotated slots are
// any; unknown names are reported and also become any.
func resolveTypeRef(in *types.Interner, ref ast.TypeRef, reporter diag.Reporter) (types.TypeID, bool) {
	anyType := in.Builtins().Any
	if !ref.IsSet() {
		return anyType, false
	}
	id, ok := in.ByName(ref.Name)
	if !ok || !in.IsBuiltin(id) {
		diag.ReportError(reporter, diag.SemaUnknownType, ref.Span,
			fmt.Sprintf("unknown type '%s'", ref.Name)).Emit()
		return anyType, true
	}
	return id, true
}

// returnsValue reports whether body has a `return expr` outside nested functions.
func returnsValue(b *ast.Builder, id ast.StmtID) bool {
	st := b.Stmts.Get(id)
	if st == nil {
		return false
	}
	switch st.Kind {
	case ast.StmtReturn:
		return b.Stmts.Return(id).Value.IsValid()
	case ast.StmtBlock:
		for _, child := range b.Stmts.Block(id).Stmts {
			if returnsValue(b, child) {
				return true
			}
		}
	case ast.StmtIf:
		ifs := b.Stmts.If(id)
		return returnsValue(b, ifs.Then) || returnsValue(b, ifs.Else)
	case ast.StmtFor:
		return returnsValue(b, b.Stmts.For(id).Body)
	}
	return false
}
