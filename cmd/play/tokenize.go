package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"playscript/internal/diagfmt"
	"playscript/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.play",
	Short: "Tokenize a PlayScript source file",
	Long:  `Tokenize breaks down a PlayScript source file into its constituent tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("trivia", false, "show whitespace and comments attached to each token")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	trivia, err := cmd.Flags().GetBool("trivia")
	if err != nil {
		return fmt.Errorf("failed to get trivia flag: %w", err)
	}

	result, err := driver.Tokenize(cmd.Context(), args[0], driver.FrontendOptions{
		MaxDiagnostics: g.maxDiagnostics,
		KeepTrivia:     trivia,
	})
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	g.printDiagnostics(result.Bag, result.FileSet)

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
