package codegen

import (
	"encoding/binary"
	"fmt"

	"fortio.org/safecast"

	"playscript/internal/bytecode"
	"playscript/internal/symbols"
)

// usage tells an expression whether the value it computes is consumed.
type usage uint8

const (
	// usageStatement: the value is discarded and the stack is left as found.
	usageStatement usage = iota
	// usageSubExpression: exactly one value is left on the stack.
	usageSubExpression
)

// funcGen compiles the body of one function.
type funcGen struct {
	*generator
	fn   symbols.SymbolID
	name string
	err  error // first encoding failure
}

func (f *funcGen) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

func (f *funcGen) internal(format string, args ...any) *InternalError {
	return &InternalError{Func: f.name, Msg: fmt.Sprintf(format, args...)}
}

// splice appends seg to dst, moving its jump targets by len(dst).
func (f *funcGen) splice(dst, seg []byte) []byte {
	if len(seg) == 0 {
		return dst
	}
	if err := bytecode.Relocate(seg, len(dst)); err != nil {
		f.fail(err)
	}
	return append(dst, seg...)
}

// u2 encodes op followed by a big-endian u2 operand. Jumps use it with an
// absolute target inside the current segment.
func (f *funcGen) u2(op bytecode.Opcode, v int) []byte {
	out := []byte{byte(op), 0, 0}
	if err := bytecode.PutU16(out[1:], v); err != nil {
		f.fail(fmt.Errorf("%s operand %d: %w", op, v, err))
	}
	return out
}

func (f *funcGen) slotByte(slot int) byte {
	b, err := safecast.Conv[uint8](slot)
	if err != nil {
		panic(f.internal("slot %d out of range", slot))
	}
	return b
}

func (f *funcGen) load(slot int) []byte {
	if slot <= 3 {
		return []byte{byte(bytecode.OpIload0) + byte(slot)}
	}
	return []byte{byte(bytecode.OpIload), f.slotByte(slot)}
}

func (f *funcGen) store(slot int) []byte {
	if slot <= 3 {
		return []byte{byte(bytecode.OpIstore0) + byte(slot)}
	}
	return []byte{byte(bytecode.OpIstore), f.slotByte(slot)}
}

func (f *funcGen) iinc(slot int, delta int8) []byte {
	return []byte{byte(bytecode.OpIinc), f.slotByte(slot), byte(delta)}
}

// pushInt picks the shortest encoding for v.
func (f *funcGen) pushInt(v int64) []byte {
	if v >= 0 && v <= 5 {
		return []byte{byte(bytecode.OpIconst0) + byte(v)}
	}
	if b, err := safecast.Conv[int8](v); err == nil {
		return []byte{byte(bytecode.OpBipush), byte(b)}
	}
	if s, err := safecast.Conv[int16](v); err == nil {
		out := []byte{byte(bytecode.OpSipush), 0, 0}
		binary.BigEndian.PutUint16(out[1:], uint16(s))
		return out
	}
	return f.u2(bytecode.OpLdc, f.intConst(v))
}

// materialize turns a condition into a 0/1 value:
//
//	code; onFalse Lf; iconst_1; goto end; Lf: iconst_0; end:
func (f *funcGen) materialize(code []byte, onFalse bytecode.Opcode) []byte {
	n := len(code)
	out := append(code, f.u2(onFalse, n+bytecode.JumpLen+1+bytecode.JumpLen)...)
	out = append(out, byte(bytecode.OpIconst1))
	out = append(out, f.u2(bytecode.OpGoto, n+bytecode.JumpLen+1+bytecode.JumpLen+1)...)
	return append(out, byte(bytecode.OpIconst0))
}

// implicitReturn ends a body that can fall off its last statement. A
// function with a result returns its zero value.
func (f *funcGen) implicitReturn() []byte {
	if f.fn == f.table.Main || !f.returnsValue(f.fn) {
		return []byte{byte(bytecode.OpReturn)}
	}
	var out []byte
	if f.resultType(f.fn) == f.table.Types.Builtins().String {
		out = f.u2(bytecode.OpSldc, f.stringConst(""))
	} else {
		out = []byte{byte(bytecode.OpIconst0)}
	}
	return append(out, byte(bytecode.OpIreturn))
}

// slot finds the frame slot of the variable an identifier resolved to.
func (f *funcGen) slot(v symbols.SymbolID) int {
	slot, ok := f.table.SlotOf(f.fn, v)
	if !ok {
		name := "?"
		if sym := f.table.Symbols.Get(v); sym != nil {
			name = sym.Name
		}
		panic(f.internal("variable %s has no slot", name))
	}
	return slot
}
