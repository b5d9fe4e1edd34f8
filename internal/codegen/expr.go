package codegen

import (
	"strconv"

	"playscript/internal/ast"
	"playscript/internal/bytecode"
	"playscript/internal/types"
)

// compareJumps maps a comparison to the branch taken when it holds.
var compareJumps = map[ast.ExprBinaryOp]bytecode.Opcode{
	ast.ExprBinaryEq:        bytecode.OpIfIcmpeq,
	ast.ExprBinaryNotEq:     bytecode.OpIfIcmpne,
	ast.ExprBinaryLess:      bytecode.OpIfIcmplt,
	ast.ExprBinaryLessEq:    bytecode.OpIfIcmple,
	ast.ExprBinaryGreater:   bytecode.OpIfIcmpgt,
	ast.ExprBinaryGreaterEq: bytecode.OpIfIcmpge,
}

var arithmeticOps = map[ast.ExprBinaryOp]bytecode.Opcode{
	ast.ExprBinaryAdd: bytecode.OpIadd,
	ast.ExprBinarySub: bytecode.OpIsub,
	ast.ExprBinaryMul: bytecode.OpImul,
	ast.ExprBinaryDiv: bytecode.OpIdiv,
	ast.ExprBinaryMod: bytecode.OpIrem,
}

// value compiles id so that it leaves exactly one value.
func (f *funcGen) value(id ast.ExprID) []byte {
	return f.expr(id, usageSubExpression)
}

func (f *funcGen) expr(id ast.ExprID, use usage) []byte {
	e := f.builder.Exprs.Get(id)
	if e == nil {
		panic(f.internal("missing expression %d", id))
	}
	var out []byte
	switch e.Kind {
	case ast.ExprIdent:
		out = f.load(f.slot(f.table.Refs[id]))
	case ast.ExprLit:
		out = f.literal(id)
	case ast.ExprCall:
		return f.call(id, use)
	case ast.ExprBinary:
		b, _ := f.builder.Exprs.Binary(id)
		if b.Op.IsAssign() {
			return f.assign(b, use)
		}
		out = f.binary(id, b)
	case ast.ExprUnary:
		u, _ := f.builder.Exprs.Unary(id)
		if u.Op == ast.ExprUnaryInc || u.Op == ast.ExprUnaryDec {
			return f.incDec(u, use)
		}
		out = f.unary(id, u)
	default:
		panic(f.internal("unexpected %s expression", e.Kind))
	}
	if use == usageStatement {
		out = append(out, byte(bytecode.OpPop))
	}
	return out
}

// cond compiles a condition and returns the branch that must be taken
// when it is false. Comparisons fuse into a single if_icmp.
func (f *funcGen) cond(id ast.ExprID) ([]byte, bytecode.Opcode) {
	if b, ok := f.builder.Exprs.Binary(id); ok {
		if jump, ok := compareJumps[b.Op]; ok {
			return f.splice(f.value(b.Left), f.value(b.Right)), jump.Negate()
		}
	}
	if u, ok := f.builder.Exprs.Unary(id); ok && u.Op == ast.ExprUnaryNot {
		code, onFalse := f.cond(u.Operand)
		return code, onFalse.Negate()
	}
	return f.value(id), bytecode.OpIfeq
}

func (f *funcGen) literal(id ast.ExprID) []byte {
	lit, _ := f.builder.Exprs.Literal(id)
	switch lit.Kind {
	case ast.LitInt:
		v, err := strconv.ParseInt(lit.Value, 10, 64)
		if err != nil {
			panic(f.internal("integer literal %s: %v", lit.Value, err))
		}
		return f.pushInt(v)
	case ast.LitDecimal:
		v, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			panic(f.internal("decimal literal %s: %v", lit.Value, err))
		}
		return f.u2(bytecode.OpLdc, f.decimalConst(v))
	case ast.LitString:
		return f.u2(bytecode.OpSldc, f.stringConst(lit.Value))
	case ast.LitTrue:
		return []byte{byte(bytecode.OpIconst1)}
	case ast.LitFalse:
		return []byte{byte(bytecode.OpIconst0)}
	}
	panic(f.internal("unexpected %s literal", lit.Kind))
}

func (f *funcGen) call(id ast.ExprID, use usage) []byte {
	c, _ := f.builder.Exprs.Call(id)
	callee := f.table.Refs[id]
	index, ok := f.funcs[callee]
	if !ok {
		panic(f.internal("call to %s has no function constant", c.Name))
	}
	var out []byte
	for _, arg := range c.Args {
		out = f.splice(out, f.value(arg))
	}
	out = append(out, f.u2(bytecode.OpInvokestatic, index)...)
	returns := f.returnsValue(callee)
	switch {
	case use == usageStatement && returns:
		out = append(out, byte(bytecode.OpPop))
	case use == usageSubExpression && !returns:
		panic(f.internal("value of void call to %s", c.Name))
	}
	return out
}

func (f *funcGen) arithmetic(op ast.ExprBinaryOp, result types.TypeID) byte {
	if op == ast.ExprBinaryAdd && result == f.table.Types.Builtins().String {
		return byte(bytecode.OpSadd)
	}
	code, ok := arithmeticOps[op]
	if !ok {
		panic(f.internal("no instruction for %s", op))
	}
	return byte(code)
}

func (f *funcGen) binary(id ast.ExprID, b *ast.ExprBinaryData) []byte {
	switch {
	case b.Op.IsComparison():
		return f.materialize(f.cond(id))
	case b.Op.IsLogical():
		return f.logical(b)
	case b.Op.IsArithmetic():
		out := f.splice(f.value(b.Left), f.value(b.Right))
		return append(out, f.arithmetic(b.Op, f.info.TypeOf(id)))
	}
	panic(f.internal("unexpected operator %s", b.Op))
}

// logical short-circuits && and ||:
//
//	left; exit Ls; right; exit Ls; fall; goto end; Ls: short; end:
//
// where && exits on ifeq with 0 and || exits on ifne with 1.
func (f *funcGen) logical(b *ast.ExprBinaryData) []byte {
	exit, short, fall := bytecode.OpIfeq, bytecode.OpIconst0, bytecode.OpIconst1
	if b.Op == ast.ExprBinaryLogicalOr {
		exit, short, fall = bytecode.OpIfne, bytecode.OpIconst1, bytecode.OpIconst0
	}
	left, right := f.value(b.Left), f.value(b.Right)
	shortAt := len(left) + bytecode.JumpLen + len(right) + bytecode.JumpLen + 1 + bytecode.JumpLen
	out := append(left, f.u2(exit, shortAt)...)
	out = f.splice(out, right)
	out = append(out, f.u2(exit, shortAt)...)
	out = append(out, byte(fall))
	out = append(out, f.u2(bytecode.OpGoto, shortAt+1)...)
	return append(out, byte(short))
}

func (f *funcGen) unary(id ast.ExprID, u *ast.ExprUnaryData) []byte {
	switch u.Op {
	case ast.ExprUnaryPlus:
		return f.value(u.Operand)
	case ast.ExprUnaryMinus:
		return append(f.value(u.Operand), byte(bytecode.OpIneg))
	case ast.ExprUnaryNot:
		return f.materialize(f.cond(id))
	}
	panic(f.internal("unexpected operator %s", u.Op))
}

// target returns the slot an assignment or increment writes to.
func (f *funcGen) target(id ast.ExprID) int {
	if _, ok := f.builder.Exprs.Ident(id); !ok {
		panic(f.internal("assignment target is not a variable"))
	}
	return f.slot(f.table.Refs[id])
}

// assign stores into the target. As a sub-expression the stored value is
// duplicated first so it stays on the stack.
func (f *funcGen) assign(b *ast.ExprBinaryData, use usage) []byte {
	slot := f.target(b.Left)
	var out []byte
	if op, ok := b.Op.ArithmeticOf(); ok {
		out = f.splice(f.load(slot), f.value(b.Right))
		out = append(out, f.arithmetic(op, f.info.TypeOf(b.Left)))
	} else {
		out = f.value(b.Right)
	}
	if use == usageSubExpression {
		out = append(out, byte(bytecode.OpDup))
	}
	return append(out, f.store(slot)...)
}

// incDec updates the variable in place. As a sub-expression the prefix form
// pushes the new value and the postfix form the old one.
func (f *funcGen) incDec(u *ast.ExprUnaryData, use usage) []byte {
	slot := f.target(u.Operand)
	var delta int8 = 1
	if u.Op == ast.ExprUnaryDec {
		delta = -1
	}
	inc := f.iinc(slot, delta)
	switch {
	case use == usageStatement:
		return inc
	case u.Postfix:
		return append(f.load(slot), inc...)
	default:
		return append(inc, f.load(slot)...)
	}
}
