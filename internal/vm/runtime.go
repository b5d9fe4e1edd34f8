package vm

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Runtime provides the interface between the intrinsics and the outside world.
type Runtime interface {
	// Println writes one line of program output.
	Println(s string)
	// TickMillis returns a monotonic millisecond reading.
	TickMillis() int64
}

// DefaultRuntime writes to an io.Writer and measures ticks from its
// creation on the monotonic clock.
type DefaultRuntime struct {
	out   io.Writer
	start time.Time
}

// NewDefaultRuntime creates a runtime writing to w, or to os.Stdout when w is nil.
func NewDefaultRuntime(w io.Writer) *DefaultRuntime {
	if w == nil {
		w = os.Stdout
	}
	return &DefaultRuntime{out: w, start: time.Now()}
}

func (r *DefaultRuntime) Println(s string) {
	fmt.Fprintln(r.out, s)
}

func (r *DefaultRuntime) TickMillis() int64 {
	return time.Since(r.start).Milliseconds()
}

// TestRuntime records output and serves a fixed, advancing clock.
type TestRuntime struct {
	Output []string
	Clock  int64
	Step   int64
}

func NewTestRuntime() *TestRuntime {
	return &TestRuntime{Step: 1}
}

func (r *TestRuntime) Println(s string) {
	r.Output = append(r.Output, s)
}

func (r *TestRuntime) TickMillis() int64 {
	t := r.Clock
	r.Clock += r.Step
	return t
}
