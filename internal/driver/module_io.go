package driver

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"playscript/internal/bytecode"
	"playscript/internal/trace"
)

// WriteModule persists m at path, creating parent directories.
func WriteModule(ctx context.Context, path string, m *bytecode.Module) (err error) {
	_, span := trace.StartSpan(ctx, trace.ScopePass, "write")
	defer span.WithExtra("path", path).End("")

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	w := bufio.NewWriter(f)
	if err := bytecode.Write(w, m); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return w.Flush()
}

// ReadModule loads a module persisted by WriteModule.
func ReadModule(ctx context.Context, path string) (*bytecode.Module, error) {
	_, span := trace.StartSpan(ctx, trace.ScopePass, "read")
	defer span.WithExtra("path", path).End("")

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := bytecode.Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return m, nil
}
