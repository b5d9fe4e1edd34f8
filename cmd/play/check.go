package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"playscript/internal/driver"
	"playscript/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.play|directory]",
	Short: "Run syntax and semantic checks without generating code",
	Long:  `Check a PlayScript source file, or every .play file under a directory in parallel. Without a path, [run].main of play.toml is checked.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress view for directories (auto|on|off)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}

	var target string
	if len(args) > 0 {
		target = args[0]
	} else {
		path, _, err := resolveSource(nil)
		if err != nil {
			return err
		}
		target = path
	}
	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if st.IsDir() {
		return checkDirectory(cmd, g, target)
	}

	res, err := driver.CompileFile(cmd.Context(), target, driver.Options{
		MaxDiagnostics: g.maxDiagnostics,
		CheckOnly:      true,
	})
	if err != nil {
		return err
	}
	failed := g.printDiagnostics(res.Bag, res.FileSet) || !res.OK()
	if g.timings {
		printStageTimings(os.Stderr, res.Timings, false)
	}
	if failed {
		return &exitError{code: 1}
	}
	if !g.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", target)
	}
	return nil
}

func checkDirectory(cmd *cobra.Command, g globalFlags, dir string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readSwitchMode("ui", uiValue)
	if err != nil {
		return err
	}

	opts := driver.CheckOptions{Jobs: jobs, MaxDiagnostics: g.maxDiagnostics}
	var (
		fs      *source.FileSet
		results []driver.CheckDirResult
	)
	if shouldUseTUI(mode) && !g.quiet {
		files, listErr := driver.ListSourceFiles(dir)
		if listErr != nil {
			return listErr
		}
		fs, results, err = checkDirWithUI(cmd.Context(), "checking "+dir, files, dir, opts)
	} else {
		fs, results, err = driver.CheckDir(cmd.Context(), dir, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	failedFiles := 0
	for _, r := range results {
		failed := g.printDiagnostics(r.Bag, fs)
		if r.Result != nil && !r.Result.OK() {
			failed = true
		}
		if failed {
			failedFiles++
		}
	}
	if !g.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "checked %d files, %d with errors\n", len(results), failedFiles)
	}
	if failedFiles > 0 {
		return &exitError{code: 1}
	}
	return nil
}
