package symbols

import (
	"fmt"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/source"
	"playscript/internal/types"
)

// MaxLocals is the widest frame the instruction encoding can address.
const MaxLocals = 256

// entryCtx is the position of the walk: the scope receiving declarations and
// the function whose frame receives variables.
type entryCtx struct {
	scope ScopeID
	fn    SymbolID
}

type entryPass struct {
	table    *Table
	builder  *ast.Builder
	reporter diag.Reporter
}

// Enter runs the symbol entry pass: it opens a scope per function, block and
// for statement, binds every declaration and lays out function frames.
func Enter(table *Table, builder *ast.Builder, fileID ast.FileID, reporter diag.Reporter) {
	file := builder.Files.Get(fileID)
	if file == nil {
		return
	}
	e := entryPass{table: table, builder: builder, reporter: reporter}
	root := table.Scopes.Get(table.Root)
	root.Span = file.Span
	cx := entryCtx{scope: table.Root, fn: table.Main}
	for _, id := range file.Body {
		e.stmt(id, cx)
	}
	e.checkFrame(table.Main, file.Span)
}

func (e *entryPass) stmt(id ast.StmtID, cx entryCtx) {
	st := e.builder.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		scope := e.table.Scopes.New(ScopeBlock, cx.scope, cx.fn, st.Span)
		e.table.StmtScopes[id] = scope
		inner := entryCtx{scope: scope, fn: cx.fn}
		for _, child := range e.builder.Stmts.Block(id).Stmts {
			e.stmt(child, inner)
		}
	case ast.StmtLet:
		let := e.builder.Stmts.Let(id)
		e.declareLet(id, let, cx)
	case ast.StmtFunc:
		e.declareFunc(id, st.Span, e.builder.Stmts.Func(id), cx)
	case ast.StmtIf:
		ifs := e.builder.Stmts.If(id)
		e.stmt(ifs.Then, cx)
		e.stmt(ifs.Else, cx)
	case ast.StmtFor:
		scope := e.table.Scopes.New(ScopeFor, cx.scope, cx.fn, st.Span)
		e.table.StmtScopes[id] = scope
		loop := e.builder.Stmts.For(id)
		inner := entryCtx{scope: scope, fn: cx.fn}
		e.stmt(loop.Init, inner)
		e.stmt(loop.Body, inner)
	}
}

func (e *entryPass) declareLet(id ast.StmtID, let *ast.LetStmt, cx entryCtx) {
	typ, annotated := resolveTypeRef(e.table.Types, let.Type, e.reporter)
	sym := &Symbol{
		Name: let.Name,
		Kind: SymbolVariable,
		Type: typ,
		Span: let.NameSpan,
		Decl: id,
	}
	// an explicit any narrows to its initializer like a missing annotation
	if !annotated || typ == e.table.Types.Builtins().Any {
		sym.Flags |= SymbolFlagInferred
	}
	symID, ok := e.table.Declare(cx.scope, sym)
	if !ok {
		e.reportDuplicate(let.Name, let.NameSpan, symID)
		return
	}
	e.table.Decls[id] = symID
	e.table.AddLocal(cx.fn, symID)
}

func (e *entryPass) declareFunc(id ast.StmtID, span source.Span, fn *ast.FuncStmt, cx entryCtx) {
	in := e.table.Types
	params := make([]types.TypeID, len(fn.Params))
	for i, p := range fn.Params {
		params[i], _ = resolveTypeRef(in, p.Type, e.reporter)
	}
	var result types.TypeID
	switch {
	case fn.Result.IsSet():
		result, _ = resolveTypeRef(in, fn.Result, e.reporter)
	case returnsValue(e.builder, fn.Body):
		result = in.Builtins().Any
	default:
		result = in.Builtins().Void
	}

	if _, ok := e.table.Builtin(fn.Name); ok {
		diag.ReportError(e.reporter, diag.SemaDuplicateSymbol, fn.NameSpan,
			fmt.Sprintf("function '%s' redeclares an intrinsic", fn.Name)).Emit()
	}
	sym := &Symbol{
		Name: fn.Name,
		Kind: SymbolFunction,
		Type: in.NewFn(params, result),
		Span: fn.NameSpan,
		Decl: id,
		Fn:   &FuncData{Body: fn.Body},
	}
	fnID, ok := e.table.Declare(cx.scope, sym)
	if !ok {
		e.reportDuplicate(fn.Name, fn.NameSpan, fnID)
		// keep checking the body against a detached symbol
		fnID = e.table.Symbols.New(sym)
	}
	e.table.Decls[id] = fnID

	scope := e.table.Scopes.New(ScopeFunction, cx.scope, fnID, span)
	e.table.StmtScopes[id] = scope
	fnSym := e.table.Symbols.Get(fnID)
	fnSym.Fn.Scope = scope
	fnSym.Fn.Params = len(fn.Params)

	for i, p := range fn.Params {
		v := &Symbol{
			Name:  p.Name,
			Kind:  SymbolVariable,
			Flags: SymbolFlagParam,
			Type:  params[i],
			Span:  p.Span,
		}
		vID, ok := e.table.Declare(scope, v)
		if !ok {
			e.reportDuplicate(p.Name, p.Span, vID)
			vID = e.table.Symbols.New(v)
		}
		e.table.AddLocal(fnID, vID)
	}
	e.stmt(fn.Body, entryCtx{scope: scope, fn: fnID})
	e.checkFrame(fnID, fn.NameSpan)
}

func (e *entryPass) checkFrame(fn SymbolID, span source.Span) {
	sym := e.table.Symbols.Get(fn)
	if n := len(sym.Fn.Locals); n > MaxLocals {
		diag.ReportError(e.reporter, diag.SemaTooManyLocals, span,
			fmt.Sprintf("function '%s' has %d local variables, at most %d are supported", sym.Name, n, MaxLocals)).Emit()
	}
}

func (e *entryPass) reportDuplicate(name string, span source.Span, prev SymbolID) {
	b := diag.ReportError(e.reporter, diag.SemaDuplicateSymbol, span,
		fmt.Sprintf("duplicate symbol '%s'", name))
	if p := e.table.Symbols.Get(prev); p != nil && p.Span != (source.Span{}) {
		b.WithNote(p.Span, "previous declaration here")
	}
	b.Emit()
}
