package symbols

// Visitor is the dump hook over the scope tree. Embed BaseVisitor for
// no-op defaults.
type Visitor interface {
	EnterScope(id ScopeID, scope *Scope, depth int)
	LeaveScope(id ScopeID, scope *Scope, depth int)
	VisitSymbol(id SymbolID, sym *Symbol, depth int)
}

type BaseVisitor struct{}

func (BaseVisitor) EnterScope(ScopeID, *Scope, int)    {}
func (BaseVisitor) LeaveScope(ScopeID, *Scope, int)    {}
func (BaseVisitor) VisitSymbol(SymbolID, *Symbol, int) {}

// Walk visits the scope tree under root in declaration order.
func (t *Table) Walk(root ScopeID, v Visitor) {
	t.walkScope(root, 0, v)
}

func (t *Table) walkScope(id ScopeID, depth int, v Visitor) {
	scope := t.Scopes.Get(id)
	if scope == nil {
		return
	}
	v.EnterScope(id, scope, depth)
	for _, symID := range scope.Symbols {
		v.VisitSymbol(symID, t.Symbols.Get(symID), depth+1)
	}
	for _, child := range scope.Children {
		t.walkScope(child, depth+1, v)
	}
	v.LeaveScope(id, scope, depth)
}
