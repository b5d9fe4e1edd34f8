package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"playscript/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the compiled-module disk cache",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	cache, err := driver.OpenDiskCache(cacheAppName)
	if err != nil {
		return fmt.Errorf("failed to open module cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to remove %q: %w", cache.Dir(), err)
	}
	if !g.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
	}
	return nil
}
