package codegen

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAnalyzed is returned when semantic analysis reported errors.
	ErrNotAnalyzed = errors.New("codegen: input has semantic errors")
	// ErrTooLarge is returned when a function body or the constant pool
	// does not fit the u2 operands of the instruction set.
	ErrTooLarge = errors.New("codegen: function too large")
)

// InternalError is the panic value for states semantic analysis should
// have ruled out, such as an identifier without a frame slot.
type InternalError struct {
	Func string
	Msg  string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("codegen: internal error in %s: %s", e.Func, e.Msg)
}
