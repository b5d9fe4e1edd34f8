package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"playscript/internal/diag"
	"playscript/internal/diagfmt"
	"playscript/internal/driver"
	"playscript/internal/project"
	"playscript/internal/source"
)

type globalFlags struct {
	color          switchMode
	quiet          bool
	timings        bool
	maxDiagnostics int
}

func readGlobalFlags(cmd *cobra.Command) (globalFlags, error) {
	flags := cmd.Root().PersistentFlags()
	var (
		g   globalFlags
		err error
	)
	colorValue, err := flags.GetString("color")
	if err != nil {
		return g, fmt.Errorf("failed to get color flag: %w", err)
	}
	if g.color, err = readSwitchMode("color", colorValue); err != nil {
		return g, err
	}
	if g.quiet, err = flags.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = flags.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return g, nil
}

func (g globalFlags) useColor(f *os.File) bool {
	return g.color.enabled(f)
}

// printDiagnostics writes bag to stderr and reports whether it held errors.
func (g globalFlags) printDiagnostics(bag *diag.Bag, fs *source.FileSet) bool {
	if bag == nil || bag.Len() == 0 {
		return false
	}
	if g.quiet && !bag.HasErrors() {
		return false
	}
	bag.Sort()
	diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:     g.useColor(os.Stderr),
		Context:   2,
		ShowNotes: true,
		Max:       g.maxDiagnostics,
	})
	return bag.HasErrors()
}

// resolveSource picks the program to compile: the argument when given,
// otherwise [run].main of the surrounding play.toml.
func resolveSource(args []string) (string, *project.Manifest, error) {
	manifest, found, err := project.LoadManifest(".")
	if err != nil {
		return "", nil, err
	}
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		path := args[0]
		if filepath.Ext(path) != driver.SourceExt {
			return "", nil, fmt.Errorf("%s: expected a %s file", path, driver.SourceExt)
		}
		return path, manifest, nil
	}
	if !found {
		return "", nil, fmt.Errorf("%s", project.NoManifestMessage)
	}
	path, err := manifest.MainPath()
	if err != nil {
		return "", nil, err
	}
	return path, manifest, nil
}

// openCache returns the module cache when enabled by flag or manifest.
func openCache(cmd *cobra.Command, manifest *project.Manifest) (*driver.DiskCache, error) {
	enabled, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if !cmd.Flags().Changed("cache") && manifest != nil {
		enabled = manifest.Config.Build.Cache
	}
	if !enabled {
		return nil, nil
	}
	return driver.OpenDiskCache(cacheAppName)
}

const cacheAppName = "playscript"

// defaultOutputPath is <dir>/<base>.pbc next to the source.
func defaultOutputPath(sourcePath string) string {
	base := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
	return base + ".pbc"
}
