package vm

import (
	"cmp"

	"playscript/internal/bytecode"
)

// exec runs in against frame and advances the program counter.
func (vm *VM) exec(frame *Frame, in bytecode.Instr) *Fault {
	frame.PC = in.Offset
	next := in.Next()

	switch op := in.Op; op {
	case bytecode.OpNop:

	case bytecode.OpIconst0, bytecode.OpIconst1, bytecode.OpIconst2,
		bytecode.OpIconst3, bytecode.OpIconst4, bytecode.OpIconst5:
		frame.push(MakeInt(int64(op - bytecode.OpIconst0)))
	case bytecode.OpBipush, bytecode.OpSipush:
		frame.push(MakeInt(int64(in.A)))
	case bytecode.OpLdc:
		c, f := vm.constant(in.A)
		if f != nil {
			return f
		}
		switch c.Kind {
		case bytecode.ConstInteger:
			frame.push(MakeInt(c.Int))
		case bytecode.ConstDecimal:
			frame.push(MakeFloat(c.Decimal))
		default:
			return vm.fault(FaultBadConstant, "ldc #%d is a %s constant", in.A, c.Kind)
		}
	case bytecode.OpSldc:
		c, f := vm.constant(in.A)
		if f != nil {
			return f
		}
		if c.Kind != bytecode.ConstString {
			return vm.fault(FaultBadConstant, "sldc #%d is a %s constant", in.A, c.Kind)
		}
		frame.push(MakeString(c.Str))

	case bytecode.OpIload, bytecode.OpIload0, bytecode.OpIload1, bytecode.OpIload2, bytecode.OpIload3:
		slot := in.A
		if op != bytecode.OpIload {
			slot = int(op - bytecode.OpIload0)
		}
		if f := vm.checkSlot(frame, slot); f != nil {
			return f
		}
		frame.push(frame.Locals[slot])
	case bytecode.OpIstore, bytecode.OpIstore0, bytecode.OpIstore1, bytecode.OpIstore2, bytecode.OpIstore3:
		slot := in.A
		if op != bytecode.OpIstore {
			slot = int(op - bytecode.OpIstore0)
		}
		if f := vm.checkSlot(frame, slot); f != nil {
			return f
		}
		v, f := vm.pop(frame)
		if f != nil {
			return f
		}
		frame.Locals[slot] = v
	case bytecode.OpIinc:
		if f := vm.checkSlot(frame, in.A); f != nil {
			return f
		}
		v, f := vm.arith(bytecode.OpIadd, frame.Locals[in.A], MakeInt(int64(in.B)))
		if f != nil {
			return f
		}
		frame.Locals[in.A] = v

	case bytecode.OpPop:
		if _, f := vm.pop(frame); f != nil {
			return f
		}
	case bytecode.OpDup:
		v, f := vm.pop(frame)
		if f != nil {
			return f
		}
		frame.push(v)
		frame.push(v)

	case bytecode.OpIadd, bytecode.OpIsub, bytecode.OpImul, bytecode.OpIdiv, bytecode.OpIrem:
		a, b, f := vm.pop2(frame)
		if f != nil {
			return f
		}
		v, f := vm.arith(op, a, b)
		if f != nil {
			return f
		}
		frame.push(v)
	case bytecode.OpSadd:
		a, b, f := vm.pop2(frame)
		if f != nil {
			return f
		}
		frame.push(MakeString(a.String() + b.String()))
	case bytecode.OpIneg:
		v, f := vm.pop(frame)
		if f != nil {
			return f
		}
		switch v.Kind {
		case VKInt:
			frame.push(MakeInt(-v.Int))
		case VKFloat:
			frame.push(MakeFloat(-v.Float))
		default:
			return vm.fault(FaultTypeMismatch, "ineg on %s", v.Kind)
		}
	case bytecode.OpLcmp:
		a, b, f := vm.pop2(frame)
		if f != nil {
			return f
		}
		c, f := vm.compare(a, b)
		if f != nil {
			return f
		}
		frame.push(MakeInt(int64(c)))

	case bytecode.OpIfeq, bytecode.OpIfne, bytecode.OpIflt, bytecode.OpIfge, bytecode.OpIfgt, bytecode.OpIfle:
		v, f := vm.pop(frame)
		if f != nil {
			return f
		}
		c, f := vm.compare(v, MakeInt(0))
		if f != nil {
			return f
		}
		if holds(op, c) {
			next = in.A
		}
	case bytecode.OpIfIcmpeq, bytecode.OpIfIcmpne, bytecode.OpIfIcmplt,
		bytecode.OpIfIcmpge, bytecode.OpIfIcmpgt, bytecode.OpIfIcmple:
		a, b, f := vm.pop2(frame)
		if f != nil {
			return f
		}
		c, f := vm.compare(a, b)
		if f != nil {
			return f
		}
		if holds(op, c) {
			next = in.A
		}
	case bytecode.OpGoto:
		next = in.A

	case bytecode.OpIreturn:
		v, f := vm.pop(frame)
		if f != nil {
			return f
		}
		vm.leave(v)
		return nil
	case bytecode.OpReturn:
		vm.leave(Value{})
		return nil
	case bytecode.OpInvokestatic:
		// The callee frame starts at 0; the caller resumes after the call.
		frame.PC = next
		return vm.invoke(frame, in.A)

	default:
		return vm.fault(FaultBadInstruction, "%s at %04d: unknown opcode %s", frame.Func.Name, in.Offset, op)
	}
	if op := in.Op; op.IsJump() && next > len(frame.Func.Code) {
		return vm.fault(FaultBadInstruction, "%s at %04d: jump to %d outside the code", frame.Func.Name, in.Offset, next)
	}
	frame.PC = next
	return nil
}

func (vm *VM) constant(i int) (bytecode.Constant, *Fault) {
	if i < 0 || i >= len(vm.M.Consts) {
		return bytecode.Constant{}, vm.fault(FaultBadConstant, "constant #%d out of range", i)
	}
	return vm.M.Consts[i], nil
}

func (vm *VM) checkSlot(frame *Frame, slot int) *Fault {
	if slot < 0 || slot >= len(frame.Locals) {
		return vm.fault(FaultBadInstruction, "%s at %04d: slot %d outside %d locals",
			frame.Func.Name, frame.PC, slot, len(frame.Locals))
	}
	return nil
}

// holds reports whether the branch op is taken for a three-way comparison c.
func holds(op bytecode.Opcode, c int) bool {
	switch op {
	case bytecode.OpIfeq, bytecode.OpIfIcmpeq:
		return c == 0
	case bytecode.OpIfne, bytecode.OpIfIcmpne:
		return c != 0
	case bytecode.OpIflt, bytecode.OpIfIcmplt:
		return c < 0
	case bytecode.OpIfge, bytecode.OpIfIcmpge:
		return c >= 0
	case bytecode.OpIfgt, bytecode.OpIfIcmpgt:
		return c > 0
	case bytecode.OpIfle, bytecode.OpIfIcmple:
		return c <= 0
	}
	return false
}

// compare orders two numbers, or two strings.
func (vm *VM) compare(a, b Value) (int, *Fault) {
	switch {
	case a.Kind == VKInt && b.Kind == VKInt:
		return cmp.Compare(a.Int, b.Int), nil
	case a.IsNumeric() && b.IsNumeric():
		return cmp.Compare(a.AsFloat(), b.AsFloat()), nil
	case a.Kind == VKString && b.Kind == VKString:
		return cmp.Compare(a.Str, b.Str), nil
	}
	return 0, vm.fault(FaultTypeMismatch, "cannot compare %s with %s", a.Kind, b.Kind)
}
