package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"playscript/internal/buildpipeline"
	"playscript/internal/bytecode"
	"playscript/internal/driver"
	"playscript/internal/trace"
	"playscript/internal/vm"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [file.play]",
	Short: "Compile and execute a PlayScript program",
	Long:  `Compile a PlayScript source file to bytecode and execute it on the VM. Without a file, [run].main of play.toml is used.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExecution,
}

func init() {
	addCacheFlag(runCmd)
	addVMFlags(runCmd)
}

func addVMFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("vm-trace", false, "trace every VM instruction (implies --trace-level=debug)")
	cmd.Flags().Int("max-depth", vm.DefaultMaxDepth, "maximum call depth")
	cmd.Flags().Bool("print-result", false, "print the value returned by the program")
}

func runExecution(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	path, manifest, err := resolveSource(args)
	if err != nil {
		return err
	}
	res, err := compileProgram(cmd, g, path, manifest, nil)
	if err != nil {
		return err
	}
	runErr := executeModule(cmd, res.Module, path, &res.Timings)
	if g.timings {
		printStageTimings(os.Stderr, res.Timings, true)
	}
	return runErr
}

// executeModule runs m and maps VM faults to the process exit status.
func executeModule(cmd *cobra.Command, m *bytecode.Module, label string, timings *buildpipeline.Timings) error {
	vmTrace, err := cmd.Flags().GetBool("vm-trace")
	if err != nil {
		return fmt.Errorf("failed to get vm-trace flag: %w", err)
	}
	maxDepth, err := cmd.Flags().GetInt("max-depth")
	if err != nil {
		return fmt.Errorf("failed to get max-depth flag: %w", err)
	}
	printResult, err := cmd.Flags().GetBool("print-result")
	if err != nil {
		return fmt.Errorf("failed to get print-result flag: %w", err)
	}

	ctx := cmd.Context()
	if vmTrace {
		ctx = withInstructionTracing(ctx)
	}

	value, err := driver.Execute(ctx, m, driver.ExecOptions{
		VM: vm.Options{
			Runtime:  vm.NewDefaultRuntime(cmd.OutOrStdout()),
			MaxDepth: maxDepth,
		},
		Timings: timings,
		File:    label,
	})
	var fault *vm.Fault
	if errors.As(err, &fault) {
		fmt.Fprint(os.Stderr, fault.Format())
		return &exitError{code: faultExitCode(fault)}
	}
	if err != nil {
		return err
	}
	if printResult && value.IsValid() {
		fmt.Fprintln(cmd.OutOrStdout(), value.String())
	}
	return nil
}

// withInstructionTracing adds a debug-level text tracer on stderr so that
// every VM instruction is printed, keeping any tracer already configured.
func withInstructionTracing(ctx context.Context) context.Context {
	vmTracer := trace.NewStreamTracer(os.Stderr, trace.LevelDebug, trace.FormatText)
	if current := trace.FromContext(ctx); current.Enabled() {
		return trace.WithTracer(ctx, trace.NewMultiTracer(trace.LevelDebug, current, vmTracer))
	}
	return trace.WithTracer(ctx, vmTracer)
}

// faultExitCode folds a negative VM status into a process exit code the
// way a shell reports it: -5 exits with 251.
func faultExitCode(f *vm.Fault) int {
	return f.Status() & 0xff
}
