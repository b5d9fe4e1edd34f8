package parser

import (
	"bytes"
	"testing"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/lexer"
	"playscript/internal/source"
)

func parseSnippet(t *testing.T, src string) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("snippet.play", []byte(src))
	bag := diag.NewBag(32)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	b := ast.NewBuilder(ast.Hints{})
	res := ParseFile(lx, b, Options{Reporter: rep})
	return b, res.File, bag
}

func dump(t *testing.T, b *ast.Builder, file ast.FileID) string {
	t.Helper()
	var buf bytes.Buffer
	if err := b.Dump(&buf, file); err != nil {
		t.Fatalf("dump: %v", err)
	}
	return buf.String()
}
