package symbols

import (
	"bytes"
	"strings"
	"testing"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/lexer"
	"playscript/internal/parser"
	"playscript/internal/source"
)

func resolveSnippet(t *testing.T, src string) (*ast.Builder, Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("snippet.play", []byte(src))
	bag := diag.NewBag(32)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(lx, b, parser.Options{Reporter: rep})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Items())
	}
	return b, ResolveFile(b, res.File, ResolveOptions{Reporter: rep}), bag
}

func codes(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func expectCodes(t *testing.T, bag *diag.Bag, want ...diag.Code) {
	t.Helper()
	got := codes(bag)
	if len(got) != len(want) {
		t.Fatalf("diagnostics = %v, want %v (%v)", got, want, bag.Items())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("diagnostics = %v, want %v", got, want)
		}
	}
}

func TestUsedBeforeDeclaration(t *testing.T) {
	_, _, bag := resolveSnippet(t, "println(a); let a = 1;")
	expectCodes(t, bag, diag.SemaUsedBeforeDeclaration)

	_, _, bag = resolveSnippet(t, "let a = 1; println(a);")
	expectCodes(t, bag)
}

func TestUsedBeforeDeclarationInInnerScope(t *testing.T) {
	// the inner a exists in the block scope but is not declared yet,
	// so the outer a is not reachable either
	_, _, bag := resolveSnippet(t, "let a = 1; { println(a); let a = 2; }")
	expectCodes(t, bag, diag.SemaUsedBeforeDeclaration)

	_, _, bag = resolveSnippet(t, "let a = 1; { println(a); let b = 2; }")
	expectCodes(t, bag)
}

func TestSelfReferencingInitializer(t *testing.T) {
	_, _, bag := resolveSnippet(t, "let a = a;")
	expectCodes(t, bag, diag.SemaUsedBeforeDeclaration)
}

func TestForwardFunctionReference(t *testing.T) {
	_, res, bag := resolveSnippet(t, `
		let x = twice(2);
		function twice(n: number): number { return n * 2; }
	`)
	expectCodes(t, bag)
	var found bool
	for _, sym := range res.Table.Refs {
		if s := res.Table.Symbols.Get(sym); s != nil && s.Name == "twice" {
			found = true
		}
	}
	if !found {
		t.Fatalf("call to twice was not resolved")
	}
}

func TestDuplicateAndShadowing(t *testing.T) {
	_, _, bag := resolveSnippet(t, "let a = 1; let a = 2;")
	expectCodes(t, bag, diag.SemaDuplicateSymbol)
	if notes := bag.Items()[0].Notes; len(notes) != 1 {
		t.Fatalf("expected a note pointing at the first declaration, got %v", notes)
	}

	_, _, bag = resolveSnippet(t, "let a = 1; { let a = 2; }")
	expectCodes(t, bag)

	_, _, bag = resolveSnippet(t, "function f() {} function f() {}")
	expectCodes(t, bag, diag.SemaDuplicateSymbol)
}

func TestUnresolvedAndWrongKind(t *testing.T) {
	_, _, bag := resolveSnippet(t, "missing(); println(nope);")
	expectCodes(t, bag, diag.SemaUnresolvedSymbol, diag.SemaUnresolvedSymbol)

	_, _, bag = resolveSnippet(t, "let v = 1; v();")
	expectCodes(t, bag, diag.SemaNotAFunction)

	_, _, bag = resolveSnippet(t, "function f() {} let v = f;")
	expectCodes(t, bag, diag.SemaNotAVariable)
}

func TestCapturedLocal(t *testing.T) {
	_, _, bag := resolveSnippet(t, "let a = 1; function f() { println(a); }")
	expectCodes(t, bag, diag.SemaCapturedLocal)
}

func TestFrameLayout(t *testing.T) {
	_, res, bag := resolveSnippet(t, `
		function f(x: integer, y: integer): integer {
			let s = x;
			for (let i = 0; i < y; i++) { let t = i; s = s + t; }
			return s;
		}
	`)
	expectCodes(t, bag)
	table := res.Table
	fnID, _ := table.Lookup(table.Root, "f")
	fn := table.Symbols.Get(fnID)
	if fn.Fn.Params != 2 {
		t.Fatalf("params = %d", fn.Fn.Params)
	}
	names := make([]string, 0, len(fn.Fn.Locals))
	for _, id := range fn.Fn.Locals {
		names = append(names, table.Symbols.Get(id).Name)
	}
	if got := strings.Join(names, ","); got != "x,y,s,i,t" {
		t.Fatalf("locals = %s", got)
	}
	for i, id := range fn.Fn.Locals {
		if slot, ok := table.SlotOf(fnID, id); !ok || slot != i {
			t.Fatalf("slot of %d = %d, %v", id, slot, ok)
		}
	}
}

func TestFunctionResultInference(t *testing.T) {
	_, res, bag := resolveSnippet(t, "function a() { return; } function b() { if (true) { return 1; } }")
	expectCodes(t, bag)
	table := res.Table
	in := table.Types
	for name, want := range map[string]string{"a": "void", "b": "any"} {
		id, _ := table.Lookup(table.Root, name)
		info, ok := table.FuncType(id)
		if !ok || in.Name(info.Result) != want {
			t.Fatalf("%s result = %s, want %s", name, in.Name(info.Result), want)
		}
	}
}

func TestUnknownTypeAnnotation(t *testing.T) {
	_, _, bag := resolveSnippet(t, "let a: widget = 1;")
	expectCodes(t, bag, diag.SemaUnknownType)
}

func TestBuiltinsComeFirst(t *testing.T) {
	table := NewTable(Hints{}, nil)
	got := make([]string, 0, len(table.Builtins))
	for _, id := range table.Builtins {
		got = append(got, table.Symbols.Get(id).Name)
	}
	if strings.Join(got, ",") != strings.Join(IntrinsicNames(), ",") {
		t.Fatalf("builtins = %v", got)
	}
	if table.Main <= table.Builtins[len(table.Builtins)-1] {
		t.Fatalf("main must be allocated after the intrinsics")
	}
}

func TestDump(t *testing.T) {
	_, res, _ := resolveSnippet(t, "let a: integer = 1; function f(n: number) { let b = n; }")
	var buf bytes.Buffer
	if err := res.Table.Dump(&buf); err != nil {
		t.Fatalf("dump: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"scope#1 global fn=main",
		"a: variable integer slot=0",
		"f: function (number) => void locals=2",
		"n: variable number slot=0 [param]",
		"b: variable any slot=1 [inferred]",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump missing %q:\n%s", want, out)
		}
	}
}
