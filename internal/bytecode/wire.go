package bytecode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"fortio.org/safecast"

	"playscript/internal/types"
)

// ErrMalformed wraps every decoding failure.
var ErrMalformed = errors.New("malformed module")

const (
	tagTypes  = "types"
	tagConsts = "consts"
)

// type record discriminators
const (
	kindSimple byte = 1
	kindFn     byte = 2
	kindUnion  byte = 3
)

// Layout:
//
//	"types" count {kind name fields}*
//	"consts" count {tag payload}*
//
// Strings are a uvarint length followed by raw bytes; counts, stack hints
// and code lengths are uvarints. Type references are by name.

// Encode serializes m.
func Encode(m *Module) ([]byte, error) {
	e := encoder{m: m}
	reachable := e.collectTypes()
	e.str(tagTypes)
	e.count(len(reachable))
	for _, id := range reachable {
		e.typeRecord(id)
	}
	e.str(tagConsts)
	e.count(len(m.Consts))
	for i, c := range m.Consts {
		if err := e.constant(c); err != nil {
			return nil, fmt.Errorf("constant %d: %w", i, err)
		}
	}
	return e.buf, e.err
}

// Write serializes m into w.
func Write(w io.Writer, m *Module) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

type encoder struct {
	m   *Module
	buf []byte
	err error
}

func (e *encoder) uvarint(v int) {
	u, err := safecast.Conv[uint64](v)
	if err != nil && e.err == nil {
		e.err = fmt.Errorf("negative length %d: %w", v, err)
	}
	e.buf = binary.AppendUvarint(e.buf, u)
}

func (e *encoder) count(n int) { e.uvarint(n) }

func (e *encoder) str(s string) {
	e.uvarint(len(s))
	e.buf = append(e.buf, s...)
}

func (e *encoder) typeName(id types.TypeID) {
	e.str(e.m.Types.Name(id))
}

func (e *encoder) typeNames(ids []types.TypeID) {
	e.count(len(ids))
	for _, id := range ids {
		e.typeName(id)
	}
}

// collectTypes lists every non-built-in type reachable from constants in
// first-seen order.
func (e *encoder) collectTypes() []types.TypeID {
	in := e.m.Types
	seen := make(map[types.TypeID]bool)
	var out []types.TypeID
	var visit func(id types.TypeID)
	visit = func(id types.TypeID) {
		if id == types.NoTypeID || seen[id] || in.IsBuiltin(id) {
			return
		}
		seen[id] = true
		out = append(out, id)
		if info, ok := in.SimpleInfo(id); ok {
			for _, s := range info.Supers {
				visit(s)
			}
		}
		if info, ok := in.FnInfo(id); ok {
			visit(info.Result)
			for _, p := range info.Params {
				visit(p)
			}
		}
		if info, ok := in.UnionInfo(id); ok {
			for _, m := range info.Members {
				visit(m)
			}
		}
	}
	for _, c := range e.m.Consts {
		if c.Kind != ConstFunction || c.Func == nil {
			continue
		}
		visit(c.Func.Type)
		for _, l := range c.Func.Locals {
			visit(l.Type)
		}
	}
	return out
}

func (e *encoder) typeRecord(id types.TypeID) {
	in := e.m.Types
	switch tt := in.MustLookup(id); tt.Kind {
	case types.KindSimple:
		info, _ := in.SimpleInfo(id)
		e.buf = append(e.buf, kindSimple)
		e.str(info.Name)
		e.typeNames(info.Supers)
	case types.KindFn:
		info, _ := in.FnInfo(id)
		e.buf = append(e.buf, kindFn)
		e.str(info.Name)
		e.typeName(info.Result)
		e.typeNames(info.Params)
	case types.KindUnion:
		info, _ := in.UnionInfo(id)
		e.buf = append(e.buf, kindUnion)
		e.str(info.Name)
		e.typeNames(info.Members)
	}
}

func (e *encoder) constant(c Constant) error {
	e.buf = append(e.buf, byte(c.Kind))
	switch c.Kind {
	case ConstInteger:
		e.buf = binary.AppendVarint(e.buf, c.Int)
	case ConstDecimal:
		e.buf = binary.BigEndian.AppendUint64(e.buf, math.Float64bits(c.Decimal))
	case ConstString:
		e.str(c.Str)
	case ConstFunction:
		fn := c.Func
		if fn == nil {
			return errors.New("function constant without function")
		}
		e.str(fn.Name)
		e.typeName(fn.Type)
		e.uvarint(fn.MaxStack)
		e.count(len(fn.Locals))
		for _, l := range fn.Locals {
			e.str(l.Name)
			e.typeName(l.Type)
		}
		e.uvarint(len(fn.Code))
		e.buf = append(e.buf, fn.Code...)
	default:
		return fmt.Errorf("unknown constant kind %d", c.Kind)
	}
	return nil
}
