package lexer

import (
	"testing"

	"playscript/internal/diag"
	"playscript/internal/source"
	"playscript/internal/token"
)

func lexString(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.play", []byte(src))
	bag := diag.NewBag(16)
	lx := New(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx.All(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestLexStatement(t *testing.T) {
	toks, bag := lexString(t, "for (let i = 0; i <= 10; i++) { x += 2.5; }")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []token.Kind{
		token.KwFor, token.LParen, token.KwLet, token.Ident, token.Assign, token.IntLit, token.Semicolon,
		token.Ident, token.LtEq, token.IntLit, token.Semicolon, token.Ident, token.PlusPlus, token.RParen,
		token.LBrace, token.Ident, token.PlusAssign, token.DecimalLit, token.Semicolon, token.RBrace, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("want %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: want %s got %s", i, want[i], got[i])
		}
	}
	if toks[17].Text != "2.5" || toks[17].Span.Start != 37 {
		t.Fatalf("bad decimal token: %+v", toks[17])
	}
}

func TestLexCommentsAndStrings(t *testing.T) {
	toks, bag := lexString(t, "// hi\n/* block */ println(\"a\\tb\" + 'q');")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if toks[0].Kind != token.Ident || toks[0].Text != "println" {
		t.Fatalf("comments not skipped: %+v", toks[0])
	}
	if toks[2].Kind != token.StringLit || toks[2].Text != "a\tb" {
		t.Fatalf("escape not decoded: %q", toks[2].Text)
	}
	if toks[4].Text != "q" {
		t.Fatalf("single-quoted string: %q", toks[4].Text)
	}
}

func TestLexStringNFC(t *testing.T) {
	toks, _ := lexString(t, "\"e\u0301\"")
	if toks[0].Text != "\u00e9" {
		t.Fatalf("string not normalized: %q", toks[0].Text)
	}
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
	}{
		{"\"abc", diag.LexUnterminatedString},
		{"a # b", diag.LexUnknownChar},
		{"1e+", diag.LexBadNumber},
		{"12ab", diag.LexBadNumber},
		{"/* open", diag.LexUnterminatedBlockComment},
	}
	for _, tc := range cases {
		_, bag := lexString(t, tc.src)
		if bag.Len() == 0 || bag.Items()[0].Code != tc.code {
			t.Fatalf("%q: want %s, got %v", tc.src, tc.code.ID(), bag.Items())
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.play", []byte("a b"))
	lx := New(fs.Get(id), Options{KeepTrivia: true})
	if lx.Peek().Text != "a" || lx.Peek().Text != "a" {
		t.Fatalf("peek consumed a token")
	}
	lx.Next()
	b := lx.Next()
	if b.Text != "b" || len(b.Leading) != 1 || b.Leading[0].Kind != token.TriviaSpace {
		t.Fatalf("trivia not attached: %+v", b)
	}
}
