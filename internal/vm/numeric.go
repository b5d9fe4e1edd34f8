package vm

import (
	"math"

	"playscript/internal/bytecode"
)

// arith applies a numeric instruction. Two integers stay integers and
// divide with truncation; any decimal operand makes the result decimal.
func (vm *VM) arith(op bytecode.Opcode, a, b Value) (Value, *Fault) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Value{}, vm.fault(FaultTypeMismatch, "%s on %s and %s", op, a.Kind, b.Kind)
	}
	if a.Kind == VKInt && b.Kind == VKInt {
		x, y := a.Int, b.Int
		switch op {
		case bytecode.OpIadd:
			return MakeInt(x + y), nil
		case bytecode.OpIsub:
			return MakeInt(x - y), nil
		case bytecode.OpImul:
			return MakeInt(x * y), nil
		case bytecode.OpIdiv, bytecode.OpIrem:
			if y == 0 {
				return Value{}, vm.fault(FaultDivideByZero, "%d %s 0", x, op)
			}
			if op == bytecode.OpIdiv {
				return MakeInt(x / y), nil
			}
			return MakeInt(x % y), nil
		}
	} else {
		x, y := a.AsFloat(), b.AsFloat()
		switch op {
		case bytecode.OpIadd:
			return MakeFloat(x + y), nil
		case bytecode.OpIsub:
			return MakeFloat(x - y), nil
		case bytecode.OpImul:
			return MakeFloat(x * y), nil
		case bytecode.OpIdiv:
			return MakeFloat(x / y), nil
		case bytecode.OpIrem:
			return MakeFloat(math.Mod(x, y)), nil
		}
	}
	return Value{}, vm.fault(FaultBadInstruction, "%s is not arithmetic", op)
}
