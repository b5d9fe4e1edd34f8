package vm

import (
	"playscript/internal/bytecode"
	"playscript/internal/trace"
	"playscript/internal/types"
)

// Frame is one function activation.
type Frame struct {
	Func   *bytecode.Function
	PC     int // offset of the instruction being executed
	Locals []Value
	Stack  []Value
	span   *trace.Span
}

// NewFrame allocates the locals of fn, each holding the zero value of its
// declared type, and reserves fn.MaxStack operand slots.
func NewFrame(fn *bytecode.Function, in *types.Interner) *Frame {
	locals := make([]Value, len(fn.Locals))
	for i, l := range fn.Locals {
		locals[i] = zeroValue(in, l.Type)
	}
	return &Frame{
		Func:   fn,
		Locals: locals,
		Stack:  make([]Value, 0, fn.MaxStack),
	}
}

func (f *Frame) push(v Value) {
	f.Stack = append(f.Stack, v)
}

func (f *Frame) pop() (Value, bool) {
	n := len(f.Stack)
	if n == 0 {
		return Value{}, false
	}
	v := f.Stack[n-1]
	f.Stack = f.Stack[:n-1]
	return v, true
}
