package fuzztests

import (
	"testing"

	"playscript/internal/diag"
	"playscript/internal/lexer"
	"playscript/internal/source"
	"playscript/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.play", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		var last uint32
		// every token consumes input, so the count is bounded by its length
		for n := 0; ; n++ {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
			if n > len(input) {
				t.Fatalf("lexer produced more tokens than input bytes")
			}
			if tok.Span.Start < last || tok.Span.End < tok.Span.Start {
				t.Fatalf("token %s has span %v after offset %d", tok.Kind, tok.Span, last)
			}
			last = tok.Span.End
		}
	})
}
