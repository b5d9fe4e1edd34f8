package symbols

import (
	"fmt"

	"playscript/internal/ast"
	"playscript/internal/source"
	"playscript/internal/types"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table aggregates symbol-related arenas and the side tables the passes fill.
type Table struct {
	Types   *types.Interner
	Scopes  *Scopes
	Symbols *Symbols

	// Builtins lists the intrinsics in constant-pool order.
	Builtins []SymbolID
	Main     SymbolID
	Root     ScopeID

	// StmtScopes maps blocks, functions and for statements to the scope they open.
	StmtScopes map[ast.StmtID]ScopeID
	// Decls maps let and function statements to their symbols.
	Decls map[ast.StmtID]SymbolID
	// Refs maps identifiers and calls to the symbol they resolved to.
	Refs map[ast.ExprID]SymbolID

	builtinByName map[string]SymbolID
}

// NewTable builds a fresh table with the intrinsics and the main symbol
// installed. If in is nil, a fresh type interner is allocated.
func NewTable(h Hints, in *types.Interner) *Table {
	if in == nil {
		in = types.NewInterner()
	}
	t := &Table{
		Types:         in,
		Scopes:        NewScopes(h.Scopes),
		Symbols:       NewSymbols(h.Symbols),
		StmtScopes:    make(map[ast.StmtID]ScopeID),
		Decls:         make(map[ast.StmtID]SymbolID),
		Refs:          make(map[ast.ExprID]SymbolID),
		builtinByName: make(map[string]SymbolID, len(intrinsics)),
	}
	t.installBuiltins()
	t.Main = t.NewFunction("main", in.NewFn(nil, in.Builtins().Any), source.Span{}, ast.NoStmtID)
	t.Symbols.Get(t.Main).Flags |= SymbolFlagMain
	t.Root = t.Scopes.New(ScopeGlobal, NoScopeID, t.Main, source.Span{})
	t.Symbols.Get(t.Main).Fn.Scope = t.Root
	return t
}

// Builtin finds an intrinsic by name.
func (t *Table) Builtin(name string) (SymbolID, bool) {
	id, ok := t.builtinByName[name]
	return id, ok
}

// Lookup searches name from scope outwards.
func (t *Table) Lookup(scope ScopeID, name string) (SymbolID, ScopeID) {
	for id := scope; id.IsValid(); {
		s := t.Scopes.Get(id)
		if s == nil {
			break
		}
		if sym, ok := s.Local(name); ok {
			return sym, id
		}
		id = s.Parent
	}
	return NoSymbolID, NoScopeID
}

// NewFunction allocates a function symbol outside of any scope.
func (t *Table) NewFunction(name string, fnType types.TypeID, span source.Span, decl ast.StmtID) SymbolID {
	return t.Symbols.New(&Symbol{
		Name: name,
		Kind: SymbolFunction,
		Type: fnType,
		Span: span,
		Decl: decl,
		Fn:   &FuncData{Body: ast.NoStmtID},
	})
}

// AddLocal appends a variable to the frame layout of fn.
func (t *Table) AddLocal(fn, v SymbolID) {
	f := t.Symbols.Get(fn)
	if f == nil || f.Fn == nil {
		panic(fmt.Errorf("symbols: %d is not a function", fn))
	}
	f.Fn.Locals = append(f.Fn.Locals, v)
	if sym := t.Symbols.Get(v); sym != nil {
		sym.Owner = fn
	}
}

// SlotOf returns the local slot of v in the frame of fn.
func (t *Table) SlotOf(fn, v SymbolID) (int, bool) {
	f := t.Symbols.Get(fn)
	if f == nil || f.Fn == nil {
		return 0, false
	}
	for i, id := range f.Fn.Locals {
		if id == v {
			return i, true
		}
	}
	return 0, false
}

// Declare binds sym into scope. It returns the existing binding and false
// when the name is already taken in that very scope.
func (t *Table) Declare(scope ScopeID, sym *Symbol) (SymbolID, bool) {
	s := t.Scopes.Get(scope)
	if s == nil {
		return NoSymbolID, false
	}
	if prev, ok := s.Names[sym.Name]; ok {
		return prev, false
	}
	sym.Scope = scope
	id := t.Symbols.New(sym)
	s.Names[sym.Name] = id
	s.Symbols = append(s.Symbols, id)
	return id, true
}

// FuncType returns the signature of a function symbol.
func (t *Table) FuncType(fn SymbolID) (*types.FnInfo, bool) {
	sym := t.Symbols.Get(fn)
	if sym == nil || sym.Kind != SymbolFunction {
		return nil, false
	}
	return t.Types.FnInfo(sym.Type)
}
