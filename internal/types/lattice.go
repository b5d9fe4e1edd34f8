package types

// IsSubtype reports a ≤ b. Rules in priority order:
//  1. anything ≤ any
//  2. any ≤ nothing else
//  3. a ≤ a
//  4. simple b: b is in the supertype closure of a
//  5. union b: a is a member of b or a ≤ some member
//  6. union a and union b: every member of a ≤ some member of b
//  7. function types have no variance
func (in *Interner) IsSubtype(a, b TypeID) bool {
	bi := in.builtins
	switch {
	case b == bi.Any:
		return true
	case a == bi.Any:
		return false
	case a == b:
		return true
	}
	ta, ok := in.Lookup(a)
	if !ok {
		return false
	}
	tb, ok := in.Lookup(b)
	if !ok {
		return false
	}

	switch ta.Kind {
	case KindSimple:
		switch tb.Kind {
		case KindSimple:
			return in.reaches(a, b)
		case KindUnion:
			return in.inUnion(a, b)
		}
	case KindFn:
		return tb.Kind == KindUnion && in.IsMember(a, b)
	case KindUnion:
		if tb.Kind != KindUnion {
			return false
		}
		for _, m := range in.unions[ta.Payload].Members {
			if !in.inUnion(m, b) {
				return false
			}
		}
		return true
	}
	return false
}

func (in *Interner) inUnion(a, u TypeID) bool {
	if in.IsMember(a, u) {
		return true
	}
	for _, m := range in.unions[in.types[u].Payload].Members {
		if in.IsSubtype(a, m) {
			return true
		}
	}
	return false
}

// Join returns the least type both a and b fit into: any if either is any,
// the wider one if they are comparable, a union otherwise.
func (in *Interner) Join(a, b TypeID) TypeID {
	bi := in.builtins
	switch {
	case a == bi.Any || b == bi.Any:
		return bi.Any
	case in.IsSubtype(a, b):
		return b
	case in.IsSubtype(b, a):
		return a
	}
	return in.NewUnion(a, b)
}

// HasVoid reports whether t is void, a simple type whose supertypes reach
// void, a function returning such a type, or a union with such a member.
func (in *Interner) HasVoid(t TypeID) bool {
	tt, ok := in.Lookup(t)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindSimple:
		return in.reaches(t, in.builtins.Void)
	case KindFn:
		return in.HasVoid(in.fns[tt.Payload].Result)
	case KindUnion:
		for _, m := range in.unions[tt.Payload].Members {
			if in.HasVoid(m) {
				return true
			}
		}
	}
	return false
}

// IsNumeric reports t ≤ number.
func (in *Interner) IsNumeric(t TypeID) bool {
	return in.IsSubtype(t, in.builtins.Number)
}
