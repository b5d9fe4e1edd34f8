// Package vm executes bytecode modules on an operand-stack machine.
package vm

import (
	"strconv"

	"playscript/internal/types"
)

// ValueKind identifies the runtime representation of a Value.
type ValueKind uint8

const (
	// VKInvalid is the zero Value: no value was produced.
	VKInvalid ValueKind = iota
	// VKInt holds integers and booleans (0 and 1).
	VKInt
	// VKFloat holds decimals.
	VKFloat
	// VKString holds strings.
	VKString
)

func (k ValueKind) String() string {
	switch k {
	case VKInt:
		return "int"
	case VKFloat:
		return "float"
	case VKString:
		return "string"
	}
	return "invalid"
}

// Value is one operand-stack or local slot entry.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Str   string
}

func MakeInt(v int64) Value     { return Value{Kind: VKInt, Int: v} }
func MakeFloat(v float64) Value { return Value{Kind: VKFloat, Float: v} }
func MakeString(s string) Value { return Value{Kind: VKString, Str: s} }

func MakeBool(b bool) Value {
	if b {
		return MakeInt(1)
	}
	return MakeInt(0)
}

func (v Value) IsValid() bool   { return v.Kind != VKInvalid }
func (v Value) IsNumeric() bool { return v.Kind == VKInt || v.Kind == VKFloat }

// AsFloat widens a numeric value.
func (v Value) AsFloat() float64 {
	if v.Kind == VKInt {
		return float64(v.Int)
	}
	return v.Float
}

// String is the text println writes and integer_to_string produces.
func (v Value) String() string {
	switch v.Kind {
	case VKInt:
		return strconv.FormatInt(v.Int, 10)
	case VKFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case VKString:
		return v.Str
	}
	return "undefined"
}

// zeroValue is the initial content of a local of type t.
func zeroValue(in *types.Interner, t types.TypeID) Value {
	b := in.Builtins()
	switch t {
	case b.String:
		return MakeString("")
	case b.Decimal:
		return MakeFloat(0)
	}
	return MakeInt(0)
}
