package sema

import (
	"context"
	"slices"
	"testing"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/lexer"
	"playscript/internal/parser"
	"playscript/internal/source"
)

func analyzeSnippet(t *testing.T, src string) (*ast.Builder, Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("snippet.play", []byte(src))
	bag := diag.NewBag(32)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	b := ast.NewBuilder(ast.Hints{})
	pr := parser.ParseFile(lx, b, parser.Options{Reporter: rep})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Items())
	}
	return b, Analyze(context.Background(), b, pr.File, Options{Reporter: rep}), bag
}

func expectCodes(t *testing.T, bag *diag.Bag, want ...diag.Code) {
	t.Helper()
	items := bag.Items()
	if len(items) != len(want) {
		t.Fatalf("got %d diagnostics %v, want %v", len(items), items, want)
	}
	for i, d := range items {
		if d.Code != want[i] {
			t.Fatalf("diagnostic %d = %s (%s), want %s", i, d.Code.ID(), d.Message, want[i].ID())
		}
	}
}

func TestStringConcatInsertsConversion(t *testing.T) {
	b, res, bag := analyzeSnippet(t, `let a = 1; let b = "x" + a;`)
	expectCodes(t, bag)
	if !res.OK() {
		t.Fatalf("errors = %d", res.Errors)
	}
	table := res.Table
	in := table.Types
	aID, _ := table.Lookup(table.Root, "a")
	bID, _ := table.Lookup(table.Root, "b")
	if got := table.Symbols.Get(aID).Type; got != in.Builtins().Integer {
		t.Fatalf("a inferred as %s, want integer", in.Display(got))
	}
	if got := table.Symbols.Get(bID).Type; got != in.Builtins().String {
		t.Fatalf("b inferred as %s, want string", in.Display(got))
	}
	if len(res.Info.Conversions) != 1 {
		t.Fatalf("conversions = %d, want 1", len(res.Info.Conversions))
	}
	call, ok := b.Exprs.Call(res.Info.Conversions[0])
	if !ok || call.Name != "integer_to_string" || len(call.Args) != 1 {
		t.Fatalf("unexpected conversion node %+v", call)
	}
	ident, ok := b.Exprs.Ident(call.Args[0])
	if !ok || ident.Name != "a" {
		t.Fatalf("conversion should wrap a, got %+v", ident)
	}
	// the binary node now points at the conversion
	file := b.Files.Get(res.File)
	let := b.Stmts.Let(file.Body[1])
	bin, _ := b.Exprs.Binary(let.Init)
	if bin.Right != res.Info.Conversions[0] {
		t.Fatalf("right operand was not replaced")
	}
}

func TestConversionContexts(t *testing.T) {
	_, res, bag := analyzeSnippet(t, `
		let s: string = 5;
		s = 2.5;
		s += 1;
		println(7);
		function f(): string { return 3; }
	`)
	expectCodes(t, bag)
	if len(res.Info.Conversions) != 5 {
		t.Fatalf("conversions = %d, want 5", len(res.Info.Conversions))
	}
}

func TestAssignToLiteralRejected(t *testing.T) {
	_, res, bag := analyzeSnippet(t, "let x = 1; 5 = x;")
	expectCodes(t, bag, diag.SemaNotLeftValue)
	if res.OK() {
		t.Fatalf("analysis should fail")
	}
}

func TestIncrementNeedsLeftValue(t *testing.T) {
	_, _, bag := analyzeSnippet(t, "let x = 1; x++; 3++; (x + 1)--;")
	expectCodes(t, bag, diag.SemaNotLeftValue, diag.SemaNotLeftValue)
}

func TestInferenceIsPermanent(t *testing.T) {
	_, _, bag := analyzeSnippet(t, `let a = 1; a = "s";`)
	expectCodes(t, bag, diag.SemaAssignMismatch)
}

func TestExplicitAnyAdoptsInitializerType(t *testing.T) {
	_, res, bag := analyzeSnippet(t, "let a: any = 1; let b = a + 1; let c: any;")
	expectCodes(t, bag)
	table := res.Table
	b := table.Types.Builtins()
	aID, _ := table.Lookup(table.Root, "a")
	if got := table.Symbols.Get(aID).Type; got != b.Integer {
		t.Fatalf("a = %s, want integer", table.Types.Display(got))
	}
	cID, _ := table.Lookup(table.Root, "c")
	if got := table.Symbols.Get(cID).Type; got != b.Any {
		t.Fatalf("c = %s, want any", table.Types.Display(got))
	}
}

func TestOperatorTable(t *testing.T) {
	cases := []struct {
		src  string
		want []diag.Code
	}{
		{"let a = 1 + 2.5;", nil},
		{"let a = 1 < 2 && 3 >= 2;", nil},
		{"let a = true + 1;", []diag.Code{diag.SemaOperatorMismatch}},
		{"let a = 1 && true;", []diag.Code{diag.SemaOperatorMismatch}},
		{`let a = "a" < "b";`, []diag.Code{diag.SemaOperatorMismatch}},
		{"let a = -true;", []diag.Code{diag.SemaOperatorMismatch}},
		{"let a = !1;", []diag.Code{diag.SemaOperatorMismatch}},
		{"let a = !(1 == 2);", nil},
		{"let a = 7 % 3 * 2;", nil},
		{"if (1) {}", []diag.Code{diag.SemaOperatorMismatch}},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			_, _, bag := analyzeSnippet(t, c.src)
			expectCodes(t, bag, c.want...)
		})
	}
}

func TestJoinOfMixedNumbers(t *testing.T) {
	_, res, _ := analyzeSnippet(t, "let a = 1 + 2.5;")
	table := res.Table
	aID, _ := table.Lookup(table.Root, "a")
	b := table.Types.Builtins()
	got := table.Symbols.Get(aID).Type
	u, ok := table.Types.UnionInfo(got)
	if !ok || len(u.Members) != 2 || !slices.Contains(u.Members, b.Integer) || !slices.Contains(u.Members, b.Decimal) {
		t.Fatalf("a = %s, want integer | decimal", table.Types.Display(got))
	}
}

func TestCallChecks(t *testing.T) {
	_, _, bag := analyzeSnippet(t, `
		function f(n: number): number { return n; }
		println();
		f("s");
		f(1, 2);
		let v = println("a");
	`)
	expectCodes(t, bag,
		diag.SemaArgumentCount,
		diag.SemaArgumentType,
		diag.SemaArgumentCount,
		diag.SemaVoidValue,
	)
}

func TestReturnChecks(t *testing.T) {
	_, _, bag := analyzeSnippet(t, `
		function a(): number { return "s"; }
		function b(): number { return; }
		function c(): void { return 1; }
		function d() { return; }
		return 42;
	`)
	expectCodes(t, bag, diag.SemaReturnType, diag.SemaReturnType, diag.SemaReturnType)
}

func TestUnresolvedIsReportedOnce(t *testing.T) {
	_, _, bag := analyzeSnippet(t, "let a = b + 1; c = 2;")
	expectCodes(t, bag, diag.SemaUnresolvedSymbol, diag.SemaUnresolvedSymbol)
}

func TestLeftValuesAreMarked(t *testing.T) {
	b, res, bag := analyzeSnippet(t, "let x = 1; x = 2;")
	expectCodes(t, bag)
	file := b.Files.Get(res.File)
	es := b.Stmts.Expr(file.Body[1])
	bin, _ := b.Exprs.Binary(es.Expr)
	if !res.Info.LeftValues[bin.Left] {
		t.Fatalf("x should be a left value")
	}
	if res.Info.LeftValues[bin.Right] {
		t.Fatalf("2 should not be a left value")
	}
}

func TestMissingReturnWarns(t *testing.T) {
	_, res, bag := analyzeSnippet(t, `
		function a(n: integer): integer { if (n > 0) { return 1; } }
		function b(n: integer): integer { if (n > 0) { return 1; } else { return 2; } }
		function c(): integer { for (;;) { } }
		function d(): string { println("x"); return "y"; println("z"); }
		function e() { }
		function f(): integer { for (let i = 0; i < 3; i++) { return i; } }
	`)
	expectCodes(t, bag, diag.SemaMissingReturn, diag.SemaMissingReturn)
	if !res.OK() {
		t.Fatalf("warnings must not fail analysis: %v", bag.Items())
	}
	for _, d := range bag.Items() {
		if d.Severity != diag.SevWarning {
			t.Fatalf("%s has severity %s", d.Code.ID(), d.Severity)
		}
	}
}
