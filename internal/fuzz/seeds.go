package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 1 << 16
)

var languageSeeds = []string{
	"",
	"let a = 1;",
	"println(1 + 2 * 3);",
	`let s = "x" + 1; println(s);`,
	"function f(n: integer): integer { return n * 2; } println(f(21));",
	"for (let i = 0; i < 3; i++) { println(i); }",
	"let i = 0; let j = i++ + ++i; i -= 1;",
	"if (1 < 2 && !false) { println(\"yes\"); } else { println(\"no\"); }",
	"let d: decimal = 2.5; println(d / 2);",
	"function g(): boolean { return true || false; } g();",
	"let t = tick(); return t - t;",
	"return 7 % 3;",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".play" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src, maxSeedBytes))
		return nil
	})
}

// clamp copies src, cutting it at limit bytes.
func clamp(src []byte, limit int) []byte {
	if len(src) > limit {
		src = src[:limit]
	}
	return append([]byte(nil), src...)
}
