package symbols

import (
	"playscript/internal/ast"
	"playscript/internal/source"
	"playscript/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolVariable
	SymbolFunction
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolFunction:
		return "function"
	default:
		return "invalid"
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	SymbolFlagBuiltin SymbolFlags = 1 << iota
	SymbolFlagParam
	SymbolFlagMain
	SymbolFlagInferred // variable type still waits for its initializer
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	if f&SymbolFlagBuiltin != 0 {
		labels = append(labels, "builtin")
	}
	if f&SymbolFlagParam != 0 {
		labels = append(labels, "param")
	}
	if f&SymbolFlagMain != 0 {
		labels = append(labels, "main")
	}
	if f&SymbolFlagInferred != 0 {
		labels = append(labels, "inferred")
	}
	return labels
}

// Symbol describes a named entity available in a scope.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Flags SymbolFlags
	Type  types.TypeID
	Span  source.Span
	Scope ScopeID    // declaring scope; NoScopeID for builtins and main
	Decl  ast.StmtID // StmtLet or StmtFunc; NoStmtID for params and builtins
	Owner SymbolID   // variables: the function whose frame holds the slot
	Fn    *FuncData  // functions only
}

// FuncData is the per-function part of a function symbol.
// Locals order is the slot numbering: parameters first, then block-local
// variables in the order the entry pass met them.
type FuncData struct {
	Params int
	Locals []SymbolID
	Scope  ScopeID
	Body   ast.StmtID
}

func (s *Symbol) IsBuiltin() bool { return s.Flags&SymbolFlagBuiltin != 0 }
