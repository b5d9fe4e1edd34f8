package vm

import (
	"fmt"
	"strings"
)

// FaultCode is the negative status a failed run ends with.
type FaultCode int

// Stable fault codes - do not change values.
const (
	FaultMissingCode    FaultCode = -1 // no entry, or a called function has no code
	FaultBadInstruction FaultCode = -2 // unknown opcode, truncated operand or bad jump/slot
	FaultStackUnderflow FaultCode = -3
	FaultBadConstant    FaultCode = -4 // operand names a constant of the wrong kind
	FaultDivideByZero   FaultCode = -5
	FaultTypeMismatch   FaultCode = -6 // operands of a kind the instruction cannot use
	FaultCallDepth      FaultCode = -7
)

func (c FaultCode) String() string {
	switch c {
	case FaultMissingCode:
		return "missing code"
	case FaultBadInstruction:
		return "bad instruction"
	case FaultStackUnderflow:
		return "stack underflow"
	case FaultBadConstant:
		return "bad constant"
	case FaultDivideByZero:
		return "division by zero"
	case FaultTypeMismatch:
		return "type mismatch"
	case FaultCallDepth:
		return "call depth exceeded"
	}
	return fmt.Sprintf("fault(%d)", int(c))
}

// BacktraceFrame is one active call when the fault occurred.
type BacktraceFrame struct {
	FuncName string
	PC       int
}

// Fault ends a run. The module is assumed valid by the time it runs, so a
// fault is reported as a status rather than a diagnostic.
type Fault struct {
	Code      FaultCode
	Message   string
	Backtrace []BacktraceFrame // innermost first
}

func (f *Fault) Error() string {
	return fmt.Sprintf("vm fault %d (%s): %s", int(f.Code), f.Code, f.Message)
}

// Status is the process-style status of the failed run.
func (f *Fault) Status() int { return int(f.Code) }

// Format renders the fault with its backtrace.
func (f *Fault) Format() string {
	var sb strings.Builder
	sb.WriteString(f.Error())
	sb.WriteByte('\n')
	if len(f.Backtrace) > 0 {
		sb.WriteString("backtrace:\n")
		for i, fr := range f.Backtrace {
			fmt.Fprintf(&sb, "  %d: %s at %04d\n", i, fr.FuncName, fr.PC)
		}
	}
	return sb.String()
}

func (vm *VM) fault(code FaultCode, format string, args ...any) *Fault {
	f := &Fault{Code: code, Message: fmt.Sprintf(format, args...)}
	f.Backtrace = make([]BacktraceFrame, len(vm.Stack))
	for i := len(vm.Stack) - 1; i >= 0; i-- {
		fr := vm.Stack[i]
		f.Backtrace[len(vm.Stack)-1-i] = BacktraceFrame{FuncName: fr.Func.Name, PC: fr.PC}
	}
	return f
}
