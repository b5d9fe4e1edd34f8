package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"playscript/internal/buildpipeline"
	"playscript/internal/driver"
	"playscript/internal/project"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file.play]",
	Short: "Compile a PlayScript program to a bytecode module",
	Long:  `Compile a PlayScript source file and write the module (.pbc). Without a file, play.toml decides the source and output.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  buildExecution,
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "output module path (default: [build].out or <file>.pbc)")
	addCacheFlag(buildCmd)
}

func buildExecution(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	path, manifest, err := resolveSource(args)
	if err != nil {
		return err
	}
	res, err := compileProgram(cmd, g, path, manifest, nil)
	if err != nil {
		return err
	}

	out := resolveOutputPath(output, path, manifest, len(args) == 0)
	done := buildpipeline.Begin(nil, &res.Timings, path, buildpipeline.StageWrite)
	err = driver.WriteModule(cmd.Context(), out, res.Module)
	done(err)
	if err != nil {
		return err
	}

	if !g.quiet {
		note := ""
		if res.Cached {
			note = " (cached)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s%s\n", out, note)
	}
	if g.timings {
		printStageTimings(os.Stderr, res.Timings, false)
	}
	return nil
}

// resolveOutputPath applies -o, then [build].out for manifest builds, then
// the source path with a .pbc extension.
func resolveOutputPath(flag, sourcePath string, manifest *project.Manifest, fromManifest bool) string {
	if flag != "" {
		return flag
	}
	if fromManifest && manifest != nil {
		return manifest.OutPath()
	}
	return defaultOutputPath(sourcePath)
}
