package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"playscript/internal/bytecode"
	"playscript/internal/driver"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [flags] <file.play|module.pbc>",
	Short: "Print the constant pool and code of a module",
	Long:  `Disassemble a compiled module, or compile a source file first and disassemble the result`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDisasm,
}

func init() {
	addCacheFlag(disasmCmd)
}

func runDisasm(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	path := args[0]
	var m *bytecode.Module
	if filepath.Ext(path) == driver.SourceExt {
		g, err := readGlobalFlags(cmd)
		if err != nil {
			return err
		}
		res, err := compileProgram(cmd, g, path, nil, nil)
		if err != nil {
			return err
		}
		m = res.Module
	} else {
		var err error
		if m, err = driver.ReadModule(cmd.Context(), path); err != nil {
			return fmt.Errorf("disassembly failed: %w", err)
		}
	}
	return bytecode.Disassemble(cmd.OutOrStdout(), m)
}
