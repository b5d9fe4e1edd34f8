package symbols

import (
	"fmt"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/source"
	"playscript/internal/types"
)

// ResolveOptions controls symbol resolution for a single AST file.
type ResolveOptions struct {
	Table    *Table
	Types    *types.Interner
	Hints    Hints
	Reporter diag.Reporter
}

// Result captures resolve artefacts for one file.
type Result struct {
	Table     *Table
	File      ast.FileID
	FileScope ScopeID
}

// ResolveFile runs the entry pass and then the reference pass over the file.
func ResolveFile(builder *ast.Builder, fileID ast.FileID, opts ResolveOptions) Result {
	table := opts.Table
	if table == nil {
		table = NewTable(opts.Hints, opts.Types)
	}
	Enter(table, builder, fileID, opts.Reporter)
	ResolveRefs(table, builder, fileID, opts.Reporter)
	return Result{Table: table, File: fileID, FileScope: table.Root}
}

type refCtx struct {
	scope ScopeID
	fn    SymbolID
}

type refResolver struct {
	table    *Table
	builder  *ast.Builder
	reporter diag.Reporter
	// declared holds, per entered scope, the variables whose declaration the
	// walk has already passed. Scope maps say a name exists; this says it may
	// be used.
	declared map[ScopeID]map[string]SymbolID
}

// ResolveRefs binds identifiers and calls to symbols. Function names resolve
// regardless of order; variables must be declared before use.
func ResolveRefs(table *Table, builder *ast.Builder, fileID ast.FileID, reporter diag.Reporter) {
	file := builder.Files.Get(fileID)
	if file == nil {
		return
	}
	r := refResolver{
		table:    table,
		builder:  builder,
		reporter: reporter,
		declared: make(map[ScopeID]map[string]SymbolID),
	}
	cx := r.enter(table.Root, table.Main)
	for _, id := range file.Body {
		r.stmt(id, cx)
	}
}

func (r *refResolver) enter(scope ScopeID, fn SymbolID) refCtx {
	r.declared[scope] = make(map[string]SymbolID)
	return refCtx{scope: scope, fn: fn}
}

func (r *refResolver) stmt(id ast.StmtID, cx refCtx) {
	st := r.builder.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		inner := r.enter(r.table.StmtScopes[id], cx.fn)
		for _, child := range r.builder.Stmts.Block(id).Stmts {
			r.stmt(child, inner)
		}
	case ast.StmtLet:
		let := r.builder.Stmts.Let(id)
		r.expr(let.Init, cx)
		if sym, ok := r.table.Decls[id]; ok {
			r.declared[cx.scope][let.Name] = sym
		}
	case ast.StmtFunc:
		fnID := r.table.Decls[id]
		fnSym := r.table.Symbols.Get(fnID)
		if fnSym == nil {
			return
		}
		inner := r.enter(fnSym.Fn.Scope, fnID)
		for _, p := range fnSym.Fn.Locals[:fnSym.Fn.Params] {
			if v := r.table.Symbols.Get(p); v != nil && v.Scope == inner.scope {
				r.declared[inner.scope][v.Name] = p
			}
		}
		r.stmt(fnSym.Fn.Body, inner)
	case ast.StmtReturn:
		r.expr(r.builder.Stmts.Return(id).Value, cx)
	case ast.StmtIf:
		ifs := r.builder.Stmts.If(id)
		r.expr(ifs.Cond, cx)
		r.stmt(ifs.Then, cx)
		r.stmt(ifs.Else, cx)
	case ast.StmtFor:
		loop := r.builder.Stmts.For(id)
		inner := r.enter(r.table.StmtScopes[id], cx.fn)
		r.stmt(loop.Init, inner)
		r.expr(loop.Cond, inner)
		r.expr(loop.Post, inner)
		r.stmt(loop.Body, inner)
	case ast.StmtExpr:
		r.expr(r.builder.Stmts.Expr(id).Expr, cx)
	}
}

func (r *refResolver) expr(id ast.ExprID, cx refCtx) {
	e := r.builder.Exprs.Get(id)
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.ExprIdent:
		ident, _ := r.builder.Exprs.Ident(id)
		r.resolveVar(id, ident.Name, e.Span, cx)
	case ast.ExprCall:
		call, _ := r.builder.Exprs.Call(id)
		r.resolveCall(id, call.Name, call.NameSpan, cx)
	}
	for _, child := range r.builder.Exprs.Children(id) {
		r.expr(child, cx)
	}
}

func (r *refResolver) resolveVar(id ast.ExprID, name string, span source.Span, cx refCtx) {
	for scopeID := cx.scope; scopeID.IsValid(); {
		scope := r.table.Scopes.Get(scopeID)
		symID, exists := scope.Local(name)
		if !exists {
			scopeID = scope.Parent
			continue
		}
		if declID, ok := r.declared[scopeID][name]; ok {
			sym := r.table.Symbols.Get(declID)
			if sym.Owner != cx.fn {
				diag.ReportError(r.reporter, diag.SemaCapturedLocal, span,
					fmt.Sprintf("variable '%s' belongs to an enclosing function and cannot be used here", name)).
					WithNote(sym.Span, "declared here").
					Emit()
				return
			}
			r.table.Refs[id] = declID
			return
		}
		sym := r.table.Symbols.Get(symID)
		if sym.Kind == SymbolVariable {
			diag.ReportError(r.reporter, diag.SemaUsedBeforeDeclaration, span,
				fmt.Sprintf("variable '%s' is used before declaration", name)).
				WithNote(sym.Span, "declared here").
				Emit()
		} else {
			r.reportNotAVariable(name, span, sym.Kind)
		}
		return
	}
	if _, ok := r.table.Builtin(name); ok {
		r.reportNotAVariable(name, span, SymbolFunction)
		return
	}
	diag.ReportError(r.reporter, diag.SemaUnresolvedSymbol, span,
		fmt.Sprintf("cannot find a variable named '%s'", name)).Emit()
}

func (r *refResolver) reportNotAVariable(name string, span source.Span, kind SymbolKind) {
	diag.ReportError(r.reporter, diag.SemaNotAVariable, span,
		fmt.Sprintf("expected a variable named '%s', found a %s", name, kind)).Emit()
}

func (r *refResolver) resolveCall(id ast.ExprID, name string, span source.Span, cx refCtx) {
	if b, ok := r.table.Builtin(name); ok {
		r.table.Refs[id] = b
		return
	}
	symID, _ := r.table.Lookup(cx.scope, name)
	sym := r.table.Symbols.Get(symID)
	switch {
	case sym == nil:
		diag.ReportError(r.reporter, diag.SemaUnresolvedSymbol, span,
			fmt.Sprintf("cannot find a function named '%s'", name)).Emit()
	case sym.Kind != SymbolFunction:
		diag.ReportError(r.reporter, diag.SemaNotAFunction, span,
			fmt.Sprintf("'%s' is a %s, not a function", name, sym.Kind)).
			WithNote(sym.Span, "declared here").
			Emit()
	default:
		r.table.Refs[id] = symID
	}
}
