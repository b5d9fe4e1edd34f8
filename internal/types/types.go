package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the variants of the type lattice.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindSimple
	KindFn
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindSimple:
		return "simple"
	case KindFn:
		return "function"
	case KindUnion:
		return "union"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor. Payload indexes the per-kind info table.
type Type struct {
	Kind    Kind
	Payload uint32
}

// SimpleInfo is a named type with its direct supertypes.
type SimpleInfo struct {
	Name   string
	Supers []TypeID
}

// FnInfo describes a function signature. Function types compare by identity.
type FnInfo struct {
	Name   string
	Params []TypeID
	Result TypeID
}

// UnionInfo holds the member set of a union, sorted by TypeID.
// Members are never unions themselves.
type UnionInfo struct {
	Name    string
	Members []TypeID
}
