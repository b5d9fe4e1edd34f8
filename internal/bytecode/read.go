package bytecode

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"slices"

	"playscript/internal/types"
)

// DecodeModule rebuilds a module from bytes produced by Encode. The result
// has its own type interner; types are created as shells first and wired by
// name afterwards, so records may reference types that appear later.
func DecodeModule(data []byte) (*Module, error) {
	d := decoder{data: data}
	m := NewModule(types.NewInterner())
	if err := d.tag(tagTypes); err != nil {
		return nil, err
	}
	if err := d.types(m.Types); err != nil {
		return nil, err
	}
	if err := d.tag(tagConsts); err != nil {
		return nil, err
	}
	if err := d.consts(m); err != nil {
		return nil, err
	}
	if d.pos != len(d.data) {
		return nil, d.fail("%d trailing bytes", len(d.data)-d.pos)
	}
	return m, nil
}

// Read decodes a module from r.
func Read(r io.Reader) (*Module, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read module: %w", err)
	}
	return DecodeModule(data)
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) fail(format string, args ...any) error {
	return fmt.Errorf("%w: at byte %d: %s", ErrMalformed, d.pos, fmt.Sprintf(format, args...))
}

func (d *decoder) u8() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, d.fail("unexpected end of data")
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) uvarint() (int, error) {
	v, n := binary.Uvarint(d.data[d.pos:])
	if n <= 0 {
		return 0, d.fail("bad varint")
	}
	if v > uint64(len(d.data)) {
		return 0, d.fail("length %d exceeds input", v)
	}
	d.pos += n
	return int(v), nil
}

// count reads a record count; every record takes at least one byte.
func (d *decoder) count() (int, error) {
	n, err := d.uvarint()
	if err != nil {
		return 0, err
	}
	if n > len(d.data)-d.pos {
		return 0, d.fail("count %d exceeds remaining input", n)
	}
	return n, nil
}

func (d *decoder) bytes(n int) ([]byte, error) {
	if n > len(d.data)-d.pos {
		return nil, d.fail("need %d bytes", n)
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) str() (string, error) {
	n, err := d.uvarint()
	if err != nil {
		return "", err
	}
	b, err := d.bytes(n)
	return string(b), err
}

func (d *decoder) strs() ([]string, error) {
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		if out[i], err = d.str(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d *decoder) tag(want string) error {
	got, err := d.str()
	if err != nil {
		return err
	}
	if got != want {
		return d.fail("expected tag %q, got %q", want, got)
	}
	return nil
}

type typeRecord struct {
	kind   byte
	name   string
	result string
	refs   []string
	id     types.TypeID
}

func (d *decoder) types(in *types.Interner) error {
	n, err := d.count()
	if err != nil {
		return err
	}
	records := make([]typeRecord, n)
	for i := range records {
		r := &records[i]
		if r.kind, err = d.u8(); err != nil {
			return err
		}
		if r.name, err = d.str(); err != nil {
			return err
		}
		if r.kind == kindFn {
			if r.result, err = d.str(); err != nil {
				return err
			}
		}
		if r.refs, err = d.strs(); err != nil {
			return err
		}
		switch r.kind {
		case kindSimple:
			r.id, err = in.NewSimpleShell(r.name)
		case kindFn:
			r.id, err = in.NewFnNamed(r.name, nil, types.NoTypeID)
		case kindUnion:
			r.id, err = in.NewUnionNamed(r.name, nil)
		default:
			return d.fail("unknown type kind %d", r.kind)
		}
		if err != nil {
			return d.fail("type %q: %v", r.name, err)
		}
	}

	lookup := func(name string) (types.TypeID, error) {
		id, ok := in.ByName(name)
		if !ok {
			return types.NoTypeID, fmt.Errorf("%w: unknown type %q", ErrMalformed, name)
		}
		return id, nil
	}
	for _, r := range records {
		refs := make([]types.TypeID, len(r.refs))
		for i, name := range r.refs {
			if refs[i], err = lookup(name); err != nil {
				return err
			}
		}
		switch r.kind {
		case kindSimple:
			err = in.SetSupers(r.id, refs)
		case kindFn:
			var result types.TypeID
			if result, err = lookup(r.result); err == nil {
				err = in.SetFnSignature(r.id, refs, result)
			}
		case kindUnion:
			err = in.SetUnionMembers(r.id, refs)
		}
		if err != nil {
			return fmt.Errorf("%w: type %q: %v", ErrMalformed, r.name, err)
		}
	}
	return nil
}

func (d *decoder) consts(m *Module) error {
	n, err := d.count()
	if err != nil {
		return err
	}
	for range n {
		tag, err := d.u8()
		if err != nil {
			return err
		}
		c := Constant{Kind: ConstKind(tag)}
		switch c.Kind {
		case ConstInteger:
			v, k := binary.Varint(d.data[d.pos:])
			if k <= 0 {
				return d.fail("bad integer constant")
			}
			d.pos += k
			c.Int = v
		case ConstDecimal:
			b, err := d.bytes(8)
			if err != nil {
				return err
			}
			c.Decimal = math.Float64frombits(binary.BigEndian.Uint64(b))
		case ConstString:
			if c.Str, err = d.str(); err != nil {
				return err
			}
		case ConstFunction:
			if c.Func, err = d.function(m.Types); err != nil {
				return err
			}
			c.Func.Intrinsic = len(c.Func.Code) == 0 && slices.Contains(intrinsicNames, c.Func.Name)
			if m.Entry < 0 && !c.Func.Intrinsic {
				m.Entry = len(m.Consts)
			}
		default:
			return d.fail("unknown constant tag %d", tag)
		}
		m.Add(c)
	}
	return nil
}

func (d *decoder) function(in *types.Interner) (*Function, error) {
	fn := &Function{}
	var err error
	if fn.Name, err = d.str(); err != nil {
		return nil, err
	}
	typeName, err := d.str()
	if err != nil {
		return nil, err
	}
	var ok bool
	if fn.Type, ok = in.ByName(typeName); !ok {
		return nil, d.fail("function %q has unknown type %q", fn.Name, typeName)
	}
	if _, ok := in.FnInfo(fn.Type); !ok {
		return nil, d.fail("function %q has non-function type %q", fn.Name, typeName)
	}
	if fn.MaxStack, err = d.uvarint(); err != nil {
		return nil, err
	}
	nlocals, err := d.count()
	if err != nil {
		return nil, err
	}
	fn.Locals = make([]Local, nlocals)
	for i := range fn.Locals {
		if fn.Locals[i].Name, err = d.str(); err != nil {
			return nil, err
		}
		name, err := d.str()
		if err != nil {
			return nil, err
		}
		if fn.Locals[i].Type, ok = in.ByName(name); !ok {
			return nil, d.fail("local %q has unknown type %q", fn.Locals[i].Name, name)
		}
	}
	size, err := d.uvarint()
	if err != nil {
		return nil, err
	}
	code, err := d.bytes(size)
	if err != nil {
		return nil, err
	}
	fn.Code = slices.Clone(code)
	return fn, nil
}
