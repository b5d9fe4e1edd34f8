package main

import (
	"os"

	"github.com/spf13/cobra"

	"playscript/internal/buildpipeline"
	"playscript/internal/driver"
)

var execCmd = &cobra.Command{
	Use:   "exec [flags] <module.pbc>",
	Short: "Execute a compiled bytecode module",
	Args:  cobra.ExactArgs(1),
	RunE:  execModule,
}

func init() {
	addVMFlags(execCmd)
}

func execModule(cmd *cobra.Command, args []string) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	m, err := driver.ReadModule(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	var timings buildpipeline.Timings
	runErr := executeModule(cmd, m, args[0], &timings)
	if g.timings {
		printStageTimings(os.Stderr, timings, true)
	}
	return runErr
}
