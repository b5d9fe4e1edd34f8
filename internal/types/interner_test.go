package types

import (
	"errors"
	"slices"
	"testing"
)

func allBuiltins(b Builtins) []TypeID {
	return []TypeID{b.Any, b.String, b.Number, b.Boolean, b.Integer, b.Decimal, b.Null, b.Undefined, b.Void}
}

func TestBuiltinLattice(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	cases := []struct {
		a, b TypeID
		want bool
	}{
		{b.Integer, b.Number, true},
		{b.Decimal, b.Number, true},
		{b.Integer, b.Any, true},
		{b.Void, b.Any, true},
		{b.Null, b.Any, true},
		{b.Number, b.Integer, false},
		{b.Any, b.String, false},
		{b.Integer, b.Decimal, false},
		{b.String, b.Number, false},
		{b.Void, b.Null, false},
	}
	for _, c := range cases {
		if got := in.IsSubtype(c.a, c.b); got != c.want {
			t.Fatalf("IsSubtype(%s, %s) = %v, want %v", in.Name(c.a), in.Name(c.b), got, c.want)
		}
	}
	for _, id := range allBuiltins(b) {
		if !in.IsBuiltin(id) {
			t.Fatalf("%s should be builtin", in.Name(id))
		}
	}
}

func TestSubtypeReflexiveAndTransitive(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	small, err := in.RegisterSimple("small", b.Integer)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	u := in.NewUnion(b.String, b.Number)
	all := append(allBuiltins(b), small, u, in.NewFn(nil, b.Void))

	for _, x := range all {
		if !in.IsSubtype(x, x) {
			t.Fatalf("%s should be a subtype of itself", in.Display(x))
		}
	}
	for _, x := range all {
		for _, y := range all {
			for _, z := range all {
				if in.IsSubtype(x, y) && in.IsSubtype(y, z) && !in.IsSubtype(x, z) {
					t.Fatalf("transitivity broken: %s <= %s <= %s", in.Display(x), in.Display(y), in.Display(z))
				}
			}
		}
	}
	if !in.IsSubtype(small, b.Number) {
		t.Fatalf("small should reach number through integer")
	}
}

func TestJoin(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	all := allBuiltins(b)
	for _, x := range all {
		for _, y := range all {
			j := in.Join(x, y)
			if !in.IsSubtype(x, j) || !in.IsSubtype(y, j) {
				t.Fatalf("Join(%s, %s) = %s is not an upper bound", in.Name(x), in.Name(y), in.Display(j))
			}
			if in.IsSubtype(x, y) && j != y {
				t.Fatalf("Join(%s, %s) = %s, want %s", in.Name(x), in.Name(y), in.Display(j), in.Name(y))
			}
		}
	}
	// incomparable siblings get a fresh union, not their common supertype
	mixed := in.Join(b.Integer, b.Decimal)
	if u, ok := in.UnionInfo(mixed); !ok || !sameMembers(u.Members, b.Integer, b.Decimal) {
		t.Fatalf("Join(integer, decimal) = %s, want integer | decimal", in.Display(mixed))
	}
	if got := in.Join(b.Null, b.Any); got != b.Any {
		t.Fatalf("Join(null, any) = %s", in.Display(got))
	}
	got := in.Join(b.String, b.Null)
	if tt := in.MustLookup(got); tt.Kind != KindUnion {
		t.Fatalf("Join(string, null) kind = %s, want union", tt.Kind)
	}
	if in.Display(got) != "string | null" {
		t.Fatalf("Display = %q", in.Display(got))
	}
}

func sameMembers(got []TypeID, want ...TypeID) bool {
	if len(got) != len(want) {
		return false
	}
	for _, w := range want {
		if !slices.Contains(got, w) {
			return false
		}
	}
	return true
}

func TestUnionSubtyping(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	sn := in.NewUnion(b.String, b.Number)
	si := in.NewUnion(b.String, b.Integer)
	if !in.IsSubtype(si, sn) {
		t.Fatalf("string|integer should fit string|number")
	}
	if in.IsSubtype(sn, si) {
		t.Fatalf("string|number should not fit string|integer")
	}
	if !in.IsSubtype(b.Decimal, sn) {
		t.Fatalf("decimal should fit string|number through number")
	}
	if in.IsSubtype(sn, b.String) {
		t.Fatalf("union should not fit a simple type")
	}
	if again := in.NewUnion(b.Number, b.String, b.String); again != sn {
		t.Fatalf("equal member sets should share a TypeID")
	}
	nested := in.NewUnion(sn, b.Boolean)
	info, _ := in.UnionInfo(nested)
	if len(info.Members) != 3 {
		t.Fatalf("nested union not flattened: %v", info.Members)
	}
}

func TestFunctionTypesAreNominal(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	f1 := in.NewFn([]TypeID{b.Integer}, b.Integer)
	f2 := in.NewFn([]TypeID{b.Integer}, b.Integer)
	if f1 == f2 || in.IsSubtype(f1, f2) {
		t.Fatalf("structurally equal function types must stay distinct")
	}
	if in.Name(f1) == in.Name(f2) {
		t.Fatalf("function names must be unique: %s", in.Name(f1))
	}
	u := in.NewUnion(f1, b.String)
	if !in.IsSubtype(f1, u) || in.IsSubtype(f2, u) {
		t.Fatalf("function fits a union only as a literal member")
	}
	if in.Display(f1) != "(integer) => integer" {
		t.Fatalf("Display = %q", in.Display(f1))
	}
}

func TestHasVoid(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	unit, _ := in.RegisterSimple("unit", b.Void)
	cases := []struct {
		id   TypeID
		want bool
	}{
		{b.Void, true},
		{unit, true},
		{b.Integer, false},
		{in.NewFn(nil, b.Void), true},
		{in.NewFn(nil, b.String), false},
		{in.NewUnion(b.String, b.Void), true},
		{in.NewUnion(b.String, b.Null), false},
	}
	for _, c := range cases {
		if got := in.HasVoid(c.id); got != c.want {
			t.Fatalf("HasVoid(%s) = %v, want %v", in.Display(c.id), got, c.want)
		}
	}
}

func TestRegisterRejectsDuplicatesAndCycles(t *testing.T) {
	in := NewInterner()
	if _, err := in.RegisterSimple("integer"); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	a, _ := in.NewSimpleShell("a")
	c, _ := in.RegisterSimple("c", a)
	if err := in.SetSupers(a, []TypeID{c}); !errors.Is(err, ErrCycle) {
		t.Fatalf("expected cycle error, got %v", err)
	}
	if err := in.SetSupers(a, []TypeID{a}); !errors.Is(err, ErrCycle) {
		t.Fatalf("expected self cycle error, got %v", err)
	}
}

type countingVisitor struct {
	BaseVisitor
	simple, fn, union int
}

func (v *countingVisitor) VisitSimple(TypeID, *SimpleInfo) { v.simple++ }
func (v *countingVisitor) VisitFn(TypeID, *FnInfo)         { v.fn++ }
func (v *countingVisitor) VisitUnion(TypeID, *UnionInfo)   { v.union++ }

func TestWalk(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	in.NewFn(nil, b.Void)
	in.NewUnion(b.String, b.Null)
	var v countingVisitor
	in.Walk(&v)
	if v.simple != 9 || v.fn != 1 || v.union != 1 {
		t.Fatalf("walk counts = %d/%d/%d", v.simple, v.fn, v.union)
	}
}
