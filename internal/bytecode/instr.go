package bytecode

import (
	"encoding/binary"
	"errors"
	"fmt"

	"fortio.org/safecast"
)

var (
	ErrUnknownOpcode = errors.New("unknown opcode")
	ErrTruncated     = errors.New("truncated instruction")
	ErrJumpRange     = errors.New("jump target out of range")
)

// Instr is one decoded instruction. A holds the first operand (slot,
// constant index, immediate or jump target), B the second (iinc delta).
type Instr struct {
	Op     Opcode
	Offset int
	A      int
	B      int
}

// Next is the offset of the following instruction.
func (in Instr) Next() int { return in.Offset + in.Op.Len() }

// Decode reads the instruction at pc.
func Decode(code []byte, pc int) (Instr, error) {
	if pc < 0 || pc >= len(code) {
		return Instr{}, fmt.Errorf("%w at %d", ErrTruncated, pc)
	}
	op := Opcode(code[pc])
	if !op.Valid() {
		return Instr{}, fmt.Errorf("%w 0x%02x at %d", ErrUnknownOpcode, code[pc], pc)
	}
	if pc+op.Len() > len(code) {
		return Instr{}, fmt.Errorf("%w: %s at %d", ErrTruncated, op, pc)
	}
	in := Instr{Op: op, Offset: pc}
	operands := code[pc+1 : pc+op.Len()]
	switch op {
	case OpBipush:
		in.A = int(int8(operands[0]))
	case OpSipush:
		in.A = int(int16(binary.BigEndian.Uint16(operands)))
	case OpIload, OpIstore:
		in.A = int(operands[0])
	case OpIinc:
		in.A = int(operands[0])
		in.B = int(int8(operands[1]))
	default:
		if len(operands) == 2 {
			in.A = int(binary.BigEndian.Uint16(operands))
		}
	}
	return in, nil
}

// Instructions decodes a whole body.
func Instructions(code []byte) ([]Instr, error) {
	var out []Instr
	for pc := 0; pc < len(code); {
		in, err := Decode(code, pc)
		if err != nil {
			return out, err
		}
		out = append(out, in)
		pc = in.Next()
	}
	return out, nil
}

// Relocate adds delta to every jump target in code. Code compiled as if it
// started at offset 0 becomes valid at offset delta.
func Relocate(code []byte, delta int) error {
	if delta == 0 {
		return nil
	}
	for pc := 0; pc < len(code); {
		in, err := Decode(code, pc)
		if err != nil {
			return err
		}
		if in.Op.IsJump() {
			if err := PutU16(code[pc+1:], in.A+delta); err != nil {
				return fmt.Errorf("%w: %s at %d", ErrJumpRange, in.Op, pc)
			}
		}
		pc = in.Next()
	}
	return nil
}

// PutU16 writes v as a big-endian u2 operand.
func PutU16(dst []byte, v int) error {
	u, err := safecast.Conv[uint16](v)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint16(dst, u)
	return nil
}

// MaxStack runs a linear stack-effect scan over code and returns the highest
// depth reached. call reports the effect of invokestatic on its constant.
func MaxStack(code []byte, call func(index int) int) (int, error) {
	depth, peak := 0, 0
	for pc := 0; pc < len(code); {
		in, err := Decode(code, pc)
		if err != nil {
			return peak, err
		}
		if in.Op == OpInvokestatic {
			depth += call(in.A)
		} else {
			info := opTable[in.Op]
			depth += info.push - info.pop
		}
		peak = max(peak, depth)
		pc = in.Next()
	}
	return peak, nil
}
