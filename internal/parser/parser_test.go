package parser

import (
	"strings"
	"testing"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/lexer"
	"playscript/internal/source"
)

func TestParsePrecedence(t *testing.T) {
	b, file, bag := parseSnippet(t, "x = 1 + 2 * 3 < 4 && !y;")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := "Expr\n" +
		"  Binary =\n" +
		"    Ident x\n" +
		"    Binary &&\n" +
		"      Binary <\n" +
		"        Binary +\n" +
		"          Lit int 1\n" +
		"          Binary *\n" +
		"            Lit int 2\n" +
		"            Lit int 3\n" +
		"        Lit int 4\n" +
		"      Unary !\n" +
		"        Ident y\n"
	if got := dump(t, b, file); got != want {
		t.Fatalf("tree mismatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestParseAssignIsRightAssociative(t *testing.T) {
	b, file, _ := parseSnippet(t, "a = b += 1;")
	stmt := b.Stmts.Expr(b.Files.Get(file).Body[0])
	outer, _ := b.Exprs.Binary(stmt.Expr)
	if outer.Op != ast.ExprBinaryAssign {
		t.Fatalf("outer op = %s", outer.Op)
	}
	inner, ok := b.Exprs.Binary(outer.Right)
	if !ok || inner.Op != ast.ExprBinaryAddAssign {
		t.Fatalf("right side must be the compound assignment")
	}
}

func TestParseFunctionAndControlFlow(t *testing.T) {
	src := `
function fib(n: number): number {
  if (n <= 1) { return n; } else { return fib(n - 1) + fib(n - 2); }
}
for (let i = 0; i < 3; i++) { println(i); }
for (;;) { }
`
	b, file, bag := parseSnippet(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	body := b.Files.Get(file).Body
	if len(body) != 3 {
		t.Fatalf("want 3 top-level statements, got %d", len(body))
	}
	fn := b.Stmts.Func(body[0])
	if fn == nil || fn.Name != "fib" || len(fn.Params) != 1 || fn.Params[0].Type.Name != "number" || fn.Result.Name != "number" {
		t.Fatalf("bad function: %+v", fn)
	}
	loop := b.Stmts.For(body[1])
	if loop == nil || b.Stmts.Let(loop.Init) == nil || !loop.Cond.IsValid() || !loop.Post.IsValid() {
		t.Fatalf("bad for loop: %+v", loop)
	}
	post, _ := b.Exprs.Unary(loop.Post)
	if !post.Postfix || post.Op != ast.ExprUnaryInc {
		t.Fatalf("i++ must be postfix increment")
	}
	empty := b.Stmts.For(body[2])
	if empty.Init.IsValid() || empty.Cond.IsValid() || empty.Post.IsValid() {
		t.Fatalf("for(;;) must have no clauses")
	}
}

func TestParseRecoversAfterError(t *testing.T) {
	b, file, bag := parseSnippet(t, "let = 5; let b = 2; x = (1 + ; println(b);")
	if bag.Len() != 2 {
		t.Fatalf("want 2 diagnostics, got %d: %v", bag.Len(), bag.Items())
	}
	if bag.Items()[0].Code != diag.SynExpectIdentifier || bag.Items()[1].Code != diag.SynExpectExpression {
		t.Fatalf("unexpected codes: %v", bag.Items())
	}
	got := dump(t, b, file)
	if !strings.Contains(got, "Let b") || !strings.Contains(got, "Call println/1") {
		t.Fatalf("valid statements lost during recovery:\n%s", got)
	}
	if strings.Count(got, "Bad !err") != 2 {
		t.Fatalf("want two error nodes:\n%s", got)
	}
}

func TestParseMissingSemicolon(t *testing.T) {
	_, _, bag := parseSnippet(t, "let a = 1\nlet b = 2;")
	if bag.Len() == 0 || bag.Items()[0].Code != diag.SynExpectSemicolon {
		t.Fatalf("want missing semicolon, got %v", bag.Items())
	}
}

func TestParseMaxErrors(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("many.play", []byte("+; +; +;"))
	bag := diag.NewBag(32)
	rep := diag.BagReporter{Bag: bag}
	res := ParseFile(lexer.New(fs.Get(id), lexer.Options{}), ast.NewBuilder(ast.Hints{}), Options{Reporter: rep, MaxErrors: 2})
	if bag.Len() != 2 {
		t.Fatalf("want 2 reported diagnostics, got %d", bag.Len())
	}
	if res.Errors != 3 {
		t.Fatalf("all errors must still be counted, got %d", res.Errors)
	}
}
