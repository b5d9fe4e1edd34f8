package types

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs of the predefined lattice.
type Builtins struct {
	Any       TypeID
	String    TypeID
	Number    TypeID
	Boolean   TypeID
	Integer   TypeID
	Decimal   TypeID
	Null      TypeID
	Undefined TypeID
	Void      TypeID
}

var (
	ErrDuplicateName = errors.New("duplicate type name")
	ErrCycle         = errors.New("supertype cycle")
)

// Interner is the arena of all types of one compilation or one loaded module.
// A TypeID is only meaningful together with the interner that produced it.
type Interner struct {
	types    []Type
	simples  []SimpleInfo
	fns      []FnInfo
	unions   []UnionInfo
	byName   map[string]TypeID
	unionKey map[string]TypeID
	builtins Builtins
	nbuiltin TypeID
	nextFn   int
	nextUn   int
}

// NewInterner constructs an interner seeded with the built-in lattice:
// string, number and boolean under any; integer and decimal under number;
// null, undefined and void with no supertypes.
func NewInterner() *Interner {
	in := &Interner{
		types:    []Type{{Kind: KindInvalid}}, // reserve 0
		byName:   make(map[string]TypeID, 16),
		unionKey: make(map[string]TypeID),
	}
	b := &in.builtins
	b.Any = in.mustSimple("any")
	b.String = in.mustSimple("string", b.Any)
	b.Number = in.mustSimple("number", b.Any)
	b.Boolean = in.mustSimple("boolean", b.Any)
	b.Null = in.mustSimple("null")
	b.Undefined = in.mustSimple("undefined")
	b.Void = in.mustSimple("void")
	b.Integer = in.mustSimple("integer", b.Number)
	b.Decimal = in.mustSimple("decimal", b.Number)
	in.nbuiltin = b.Decimal
	return in
}

func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// IsBuiltin reports whether id is one of the predefined types.
func (in *Interner) IsBuiltin(id TypeID) bool {
	return id != NoTypeID && id <= in.nbuiltin
}

// Len returns the number of types including the reserved zero slot.
func (in *Interner) Len() int {
	return len(in.types)
}

func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// ByName finds a type by its unique name.
func (in *Interner) ByName(name string) (TypeID, bool) {
	id, ok := in.byName[name]
	return id, ok
}

// Name returns the unique name of id ("" for NoTypeID).
func (in *Interner) Name(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return ""
	}
	switch tt.Kind {
	case KindSimple:
		return in.simples[tt.Payload].Name
	case KindFn:
		return in.fns[tt.Payload].Name
	case KindUnion:
		return in.unions[tt.Payload].Name
	}
	return ""
}

func (in *Interner) SimpleInfo(id TypeID) (*SimpleInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindSimple {
		return nil, false
	}
	return &in.simples[tt.Payload], true
}

func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

func (in *Interner) UnionInfo(id TypeID) (*UnionInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindUnion {
		return nil, false
	}
	return &in.unions[tt.Payload], true
}

// RegisterSimple adds a named type with the given direct supertypes.
func (in *Interner) RegisterSimple(name string, supers ...TypeID) (TypeID, error) {
	id, err := in.NewSimpleShell(name)
	if err != nil {
		return NoTypeID, err
	}
	if err := in.SetSupers(id, supers); err != nil {
		return NoTypeID, err
	}
	return id, nil
}

// NewSimpleShell adds a named type without supertypes. Readers use it to
// create every type before wiring cross-references.
func (in *Interner) NewSimpleShell(name string) (TypeID, error) {
	if err := in.claimName(name); err != nil {
		return NoTypeID, err
	}
	slot := in.appendSlot(len(in.simples))
	in.simples = append(in.simples, SimpleInfo{Name: name})
	return in.add(name, Type{Kind: KindSimple, Payload: slot}), nil
}

// SetSupers replaces the direct supertypes of a simple type. It refuses
// edges that would make the supertype graph cyclic.
func (in *Interner) SetSupers(id TypeID, supers []TypeID) error {
	info, ok := in.SimpleInfo(id)
	if !ok {
		return fmt.Errorf("types: %d is not a simple type", id)
	}
	for _, s := range supers {
		if _, ok := in.SimpleInfo(s); !ok {
			return fmt.Errorf("types: supertype %d of %q is not a simple type", s, info.Name)
		}
		if s == id || in.reaches(s, id) {
			return fmt.Errorf("%w: %s -> %s", ErrCycle, info.Name, in.Name(s))
		}
	}
	info.Supers = append([]TypeID(nil), supers...)
	return nil
}

// NewFn always allocates a fresh function type.
func (in *Interner) NewFn(params []TypeID, result TypeID) TypeID {
	name := "@function" + strconv.Itoa(in.nextFn)
	for in.byName[name] != NoTypeID {
		in.nextFn++
		name = "@function" + strconv.Itoa(in.nextFn)
	}
	in.nextFn++
	id, _ := in.NewFnNamed(name, params, result)
	return id
}

// NewFnNamed allocates a function type under an explicit unique name.
func (in *Interner) NewFnNamed(name string, params []TypeID, result TypeID) (TypeID, error) {
	if err := in.claimName(name); err != nil {
		return NoTypeID, err
	}
	slot := in.appendSlot(len(in.fns))
	in.fns = append(in.fns, FnInfo{Name: name, Params: append([]TypeID(nil), params...), Result: result})
	return in.add(name, Type{Kind: KindFn, Payload: slot}), nil
}

// SetFnSignature fills a function type created with empty signature.
func (in *Interner) SetFnSignature(id TypeID, params []TypeID, result TypeID) error {
	info, ok := in.FnInfo(id)
	if !ok {
		return fmt.Errorf("types: %d is not a function type", id)
	}
	info.Params = append([]TypeID(nil), params...)
	info.Result = result
	return nil
}

// NewUnion returns the union of members. Nested unions are flattened,
// duplicates dropped, and equal member sets share one TypeID.
// A single remaining member is returned as is.
func (in *Interner) NewUnion(members ...TypeID) TypeID {
	set := in.flatten(members)
	if len(set) == 1 {
		return set[0]
	}
	key := unionKey(set)
	if id, ok := in.unionKey[key]; ok {
		return id
	}
	name := "@union" + strconv.Itoa(in.nextUn)
	for in.byName[name] != NoTypeID {
		in.nextUn++
		name = "@union" + strconv.Itoa(in.nextUn)
	}
	in.nextUn++
	id, _ := in.NewUnionNamed(name, set)
	return id
}

// NewUnionNamed allocates a union under an explicit unique name.
func (in *Interner) NewUnionNamed(name string, members []TypeID) (TypeID, error) {
	if err := in.claimName(name); err != nil {
		return NoTypeID, err
	}
	slot := in.appendSlot(len(in.unions))
	in.unions = append(in.unions, UnionInfo{Name: name})
	id := in.add(name, Type{Kind: KindUnion, Payload: slot})
	if len(members) > 0 {
		if err := in.SetUnionMembers(id, members); err != nil {
			return NoTypeID, err
		}
	}
	return id, nil
}

// SetUnionMembers fills a union created as an empty shell. Members must
// not be unions.
func (in *Interner) SetUnionMembers(id TypeID, members []TypeID) error {
	info, ok := in.UnionInfo(id)
	if !ok {
		return fmt.Errorf("types: %d is not a union type", id)
	}
	for _, m := range members {
		if m == id {
			return fmt.Errorf("%w: union %s contains itself", ErrCycle, info.Name)
		}
		if tt, ok := in.Lookup(m); !ok || tt.Kind == KindUnion {
			return fmt.Errorf("types: union %s: member %d must be a simple or function type", info.Name, m)
		}
	}
	set := slices.Clone(members)
	slices.Sort(set)
	set = slices.Compact(set)
	info.Members = set
	in.unionKey[unionKey(set)] = id
	return nil
}

func (in *Interner) mustSimple(name string, supers ...TypeID) TypeID {
	id, err := in.RegisterSimple(name, supers...)
	if err != nil {
		panic(err)
	}
	return id
}

func (in *Interner) claimName(name string) error {
	if name == "" {
		return errors.New("types: empty type name")
	}
	if _, dup := in.byName[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	return nil
}

func (in *Interner) add(name string, t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.byName[name] = id
	return id
}

func (in *Interner) appendSlot(n int) uint32 {
	slot, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("type info overflow: %w", err))
	}
	return slot
}

// reaches reports whether to is in the reflexive-transitive supertype closure of from.
func (in *Interner) reaches(from, to TypeID) bool {
	if from == to {
		return true
	}
	info, ok := in.SimpleInfo(from)
	if !ok {
		return false
	}
	for _, s := range info.Supers {
		if in.reaches(s, to) {
			return true
		}
	}
	return false
}
