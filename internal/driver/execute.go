package driver

import (
	"context"

	"playscript/internal/buildpipeline"
	"playscript/internal/bytecode"
	"playscript/internal/vm"
)

// ExecOptions configures Execute.
type ExecOptions struct {
	VM      vm.Options
	Sink    buildpipeline.ProgressSink
	Timings *buildpipeline.Timings
	File    string // label for progress events
}

// Execute runs m on a fresh VM and returns the entry function's value.
func Execute(ctx context.Context, m *bytecode.Module, opts ExecOptions) (vm.Value, error) {
	done := buildpipeline.Begin(opts.Sink, opts.Timings, opts.File, buildpipeline.StageRun)
	v, err := vm.New(m, opts.VM).Run(ctx)
	done(err)
	return v, err
}
