package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"playscript/internal/buildpipeline"
	"playscript/internal/driver"
	"playscript/internal/project"
)

// compileProgram compiles path for run, build and disasm. Diagnostics are
// printed here; a failed compilation becomes an exitError.
func compileProgram(cmd *cobra.Command, g globalFlags, path string, manifest *project.Manifest, sink buildpipeline.ProgressSink) (*driver.Result, error) {
	cache, err := openCache(cmd, manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to open module cache: %w", err)
	}
	res, err := driver.CompileFile(cmd.Context(), path, driver.Options{
		MaxDiagnostics: g.maxDiagnostics,
		Sink:           sink,
		Cache:          cache,
	})
	if err != nil {
		return nil, err
	}
	if g.printDiagnostics(res.Bag, res.FileSet) || !res.OK() || res.Module == nil {
		return nil, &exitError{code: 1}
	}
	return res, nil
}

func addCacheFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("cache", false, "reuse compiled modules from the disk cache (overrides [build].cache)")
}
