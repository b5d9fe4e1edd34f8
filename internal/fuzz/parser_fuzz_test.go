package fuzztests

import (
	"context"
	"testing"
	"time"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/lexer"
	"playscript/internal/parser"
	"playscript/internal/source"
	"playscript/internal/testkit"
)

// parseTimeout bounds a single parse; exceeding it points at a recovery loop.
const parseTimeout = 5 * time.Second

func parseInput(input []byte) (*ast.Builder, ast.FileID, *source.File) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("fuzz.play", input))
	rep := diag.BagReporter{Bag: diag.NewBag(128)}
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(lexer.New(file, lexer.Options{Reporter: rep}), b, parser.Options{
		Reporter:  rep,
		MaxErrors: 128,
	})
	return b, res.File, file
}

func FuzzParserSpans(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		b, id, file := parseInput(clamp(input, maxFuzzInput))
		if err := testkit.CheckSpanInvariants(b, id, file); err != nil {
			t.Fatalf("span invariants: %v", err)
		}
	})
}

func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	// recovery edge cases
	f.Add([]byte("let x = 1\nlet y = 2;"))
	f.Add([]byte("function f( { return; }"))
	f.Add([]byte("for (let i = 0 i < 10 i++) {}"))
	f.Add([]byte("{ { { { } } } }"))
	f.Add([]byte("}}}} let a = 1;"))
	f.Add([]byte("if (1 { println(1); } else"))
	f.Add([]byte("let s = \"unterminated"))
	f.Add([]byte("println(((((((1)))))));"))
	f.Add([]byte("function (a: , b): { }"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			parseInput(input)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser timed out after %v on %d bytes: %q", parseTimeout, len(input), preview(input))
		}
	})
}

func preview(input []byte) []byte {
	if len(input) > 100 {
		return input[:100]
	}
	return input
}
