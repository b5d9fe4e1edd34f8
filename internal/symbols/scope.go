package symbols

import (
	"playscript/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeGlobal             // program body, owned by main
	ScopeFunction           // parameters of a declared function
	ScopeBlock              // braces
	ScopeFor                // for-statement init declarations
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeFor:
		return "for"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope with a parent-child hierarchy.
// Func is the function whose frame stores the variables declared here.
type Scope struct {
	Kind     ScopeKind
	Parent   ScopeID
	Func     SymbolID
	Span     source.Span
	Names    map[string]SymbolID
	Symbols  []SymbolID // declaration order
	Children []ScopeID
}

// Local finds name in this scope only.
func (s *Scope) Local(name string) (SymbolID, bool) {
	id, ok := s.Names[name]
	return id, ok
}
