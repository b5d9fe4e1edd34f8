package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"playscript/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.play",
	Short: "Parse a PlayScript source file and print its syntax tree",
	Long:  `Parse a PlayScript source file and print its syntax tree. With --symbols, the semantic passes run and the scope tree is printed as well.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().Bool("symbols", false, "also run the semantic passes and print scopes and symbols")
}

func runParse(cmd *cobra.Command, args []string) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	withSymbols, err := cmd.Flags().GetBool("symbols")
	if err != nil {
		return fmt.Errorf("failed to get symbols flag: %w", err)
	}
	out := cmd.OutOrStdout()

	if !withSymbols {
		result, err := driver.Parse(cmd.Context(), args[0], driver.FrontendOptions{MaxDiagnostics: g.maxDiagnostics})
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		failed := g.printDiagnostics(result.Bag, result.FileSet)
		if err := result.Builder.Dump(out, result.FileID); err != nil {
			return err
		}
		if failed {
			return &exitError{code: 1}
		}
		return nil
	}

	res, err := driver.CompileFile(cmd.Context(), args[0], driver.Options{
		MaxDiagnostics: g.maxDiagnostics,
		CheckOnly:      true,
	})
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	failed := g.printDiagnostics(res.Bag, res.FileSet)
	if res.Builder != nil {
		if err := res.Builder.Dump(out, res.ASTFile); err != nil {
			return err
		}
	}
	if res.Sema != nil {
		fmt.Fprintln(out)
		if err := res.Sema.Table.Dump(out); err != nil {
			return err
		}
	}
	if failed {
		return &exitError{code: 1}
	}
	return nil
}
