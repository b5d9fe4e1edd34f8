package symbols

import (
	"cmp"

	"playscript/internal/ast"
	"playscript/internal/source"
)

// ScopeID and SymbolID index the table arenas. Both are 1-based; the zero
// value means "none".
type (
	ScopeID  uint32
	SymbolID uint32
)

const (
	NoScopeID ScopeID = 0
	// NoSymbolID on a reference means resolution failed and was already
	// reported; later passes skip the node.
	NoSymbolID SymbolID = 0
)

func (id ScopeID) IsValid() bool  { return id != NoScopeID }
func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// Scopes owns every scope of a table.
type Scopes struct {
	arena *ast.Arena[Scope]
}

func NewScopes(capHint uint) *Scopes {
	return &Scopes{arena: ast.NewArena[Scope](cmp.Or(capHint, 32))}
}

// New allocates a scope and links it under parent.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, fn SymbolID, span source.Span) ScopeID {
	id := ScopeID(s.arena.Allocate(Scope{
		Kind:   kind,
		Parent: parent,
		Func:   fn,
		Span:   span,
		Names:  make(map[string]SymbolID),
	}))
	if p := s.Get(parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}

// Get returns nil for NoScopeID and unknown IDs.
func (s *Scopes) Get(id ScopeID) *Scope {
	return s.arena.Get(uint32(id))
}

// Symbols owns every symbol of a table.
type Symbols struct {
	arena *ast.Arena[Symbol]
}

func NewSymbols(capHint uint) *Symbols {
	return &Symbols{arena: ast.NewArena[Symbol](cmp.Or(capHint, 64))}
}

// New copies sym into the arena.
func (s *Symbols) New(sym *Symbol) SymbolID {
	return SymbolID(s.arena.Allocate(*sym))
}

// Get returns nil for NoSymbolID and unknown IDs.
func (s *Symbols) Get(id SymbolID) *Symbol {
	return s.arena.Get(uint32(id))
}
