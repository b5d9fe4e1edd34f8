package vm

import (
	"context"
	"fmt"

	"playscript/internal/bytecode"
	"playscript/internal/trace"
)

// DefaultMaxDepth bounds the call stack when Options.MaxDepth is zero.
const DefaultMaxDepth = 1 << 16

// Options configures VM execution.
type Options struct {
	Runtime  Runtime // defaults to a DefaultRuntime on os.Stdout
	MaxDepth int
}

// VM runs one module. A VM is single use; the module is only read.
type VM struct {
	M      *bytecode.Module
	Stack  []*Frame
	RT     Runtime
	Halted bool
	Result Value // value returned by the entry function, if any
	Steps  int   // instructions executed

	maxDepth   int
	tracer     trace.Tracer
	parentSpan uint64
	traceInstr bool
	started    bool
}

// New creates a VM for m.
func New(m *bytecode.Module, opts Options) *VM {
	rt := opts.Runtime
	if rt == nil {
		rt = NewDefaultRuntime(nil)
	}
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	return &VM{M: m, RT: rt, maxDepth: depth, tracer: trace.Nop}
}

// Run executes the entry function to completion and returns its value.
// ctx only carries the tracer; a run cannot be cancelled.
func (vm *VM) Run(ctx context.Context) (Value, error) {
	ctx, span := trace.StartSpan(ctx, trace.ScopePass, "run")
	defer func() {
		span.WithExtra("steps", fmt.Sprint(vm.Steps)).End("")
	}()
	vm.tracer = trace.FromContext(ctx)
	vm.parentSpan = span.ID()
	vm.traceInstr = vm.tracer.Enabled() && vm.tracer.Level().ShouldEmit(trace.ScopeInstr)

	if f := vm.Start(); f != nil {
		return Value{}, f
	}
	for !vm.Halted {
		if f := vm.Step(); f != nil {
			return Value{}, f
		}
	}
	return vm.Result, nil
}

// Start pushes the entry frame.
func (vm *VM) Start() *Fault {
	if vm.started {
		return nil
	}
	vm.started = true
	if vm.M == nil {
		return vm.fault(FaultMissingCode, "no module")
	}
	fn, err := vm.M.EntryFunction()
	if err != nil {
		return vm.fault(FaultMissingCode, "no entry function: %v", err)
	}
	return vm.enter(fn)
}

// Step executes exactly one instruction.
func (vm *VM) Step() *Fault {
	if vm.Halted || len(vm.Stack) == 0 {
		vm.Halted = true
		return nil
	}
	frame := vm.Stack[len(vm.Stack)-1]
	code := frame.Func.Code
	if frame.PC >= len(code) {
		return vm.fault(FaultBadInstruction, "%s: ran past the end of its code", frame.Func.Name)
	}
	in, err := bytecode.Decode(code, frame.PC)
	if err != nil {
		return vm.fault(FaultBadInstruction, "%s: %v", frame.Func.Name, err)
	}
	vm.Steps++
	if vm.traceInstr {
		trace.Point(vm.tracer, trace.ScopeInstr, in.Op.String(),
			fmt.Sprintf("%s@%04d depth=%d stack=%d", frame.Func.Name, in.Offset, len(vm.Stack), len(frame.Stack)),
			frame.span.ID())
	}
	return vm.exec(frame, in)
}

// enter pushes a frame for a function with code.
func (vm *VM) enter(fn *bytecode.Function) *Fault {
	if len(fn.Code) == 0 {
		return vm.fault(FaultMissingCode, "function %s has no code", fn.Name)
	}
	if len(vm.Stack) >= vm.maxDepth {
		return vm.fault(FaultCallDepth, "more than %d nested calls", vm.maxDepth)
	}
	parent := vm.parentSpan
	if n := len(vm.Stack); n > 0 {
		parent = vm.Stack[n-1].span.ID()
	}
	frame := NewFrame(fn, vm.M.Types)
	frame.span = trace.Begin(vm.tracer, trace.ScopeFunction, fn.Name, parent)
	vm.Stack = append(vm.Stack, frame)
	return nil
}

// invoke calls the function constant index from caller. Arguments are
// moved off the caller's stack into the first slots, the last argument
// popped first.
func (vm *VM) invoke(caller *Frame, index int) *Fault {
	fn, err := vm.M.Function(index)
	if err != nil {
		return vm.fault(FaultBadConstant, "invokestatic #%d: %v", index, err)
	}
	if fn.Intrinsic {
		return vm.callIntrinsic(caller, fn.Name)
	}
	n := vm.M.ParamCount(fn)
	if len(caller.Stack) < n {
		return vm.fault(FaultStackUnderflow, "call to %s needs %d arguments", fn.Name, n)
	}
	args := caller.Stack[len(caller.Stack)-n:]
	caller.Stack = caller.Stack[:len(caller.Stack)-n]
	if f := vm.enter(fn); f != nil {
		return f
	}
	callee := vm.Stack[len(vm.Stack)-1]
	if len(callee.Locals) < n {
		callee.Locals = append(callee.Locals, make([]Value, n-len(callee.Locals))...)
	}
	for i := n - 1; i >= 0; i-- {
		callee.Locals[i] = args[i]
	}
	return nil
}

// leave pops the current frame and hands v, when valid, to the caller. An
// empty call stack ends the run with v as its result.
func (vm *VM) leave(v Value) {
	top := vm.Stack[len(vm.Stack)-1]
	top.span.End("")
	vm.Stack = vm.Stack[:len(vm.Stack)-1]
	if len(vm.Stack) == 0 {
		vm.Halted = true
		vm.Result = v
		return
	}
	if v.IsValid() {
		vm.Stack[len(vm.Stack)-1].push(v)
	}
}

func (vm *VM) pop(frame *Frame) (Value, *Fault) {
	v, ok := frame.pop()
	if !ok {
		return Value{}, vm.fault(FaultStackUnderflow, "%s at %04d: operand stack is empty", frame.Func.Name, frame.PC)
	}
	return v, nil
}

func (vm *VM) pop2(frame *Frame) (a, b Value, f *Fault) {
	if b, f = vm.pop(frame); f != nil {
		return a, b, f
	}
	a, f = vm.pop(frame)
	return a, b, f
}
