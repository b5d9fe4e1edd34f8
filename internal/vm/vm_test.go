package vm_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"playscript/internal/ast"
	"playscript/internal/bytecode"
	"playscript/internal/codegen"
	"playscript/internal/diag"
	"playscript/internal/lexer"
	"playscript/internal/parser"
	"playscript/internal/sema"
	"playscript/internal/source"
	"playscript/internal/trace"
	"playscript/internal/vm"
)

func compile(t *testing.T, src string) *bytecode.Module {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("prog.play", []byte(src))
	bag := diag.NewBag(32)
	rep := diag.BagReporter{Bag: bag}
	b := ast.NewBuilder(ast.Hints{})
	pr := parser.ParseFile(lexer.New(fs.Get(id), lexer.Options{Reporter: rep}), b, parser.Options{Reporter: rep})
	res := sema.Analyze(context.Background(), b, pr.File, sema.Options{Reporter: rep})
	if bag.HasErrors() {
		t.Fatalf("front end errors: %v", bag.Items())
	}
	m, err := codegen.Compile(context.Background(), b, res, codegen.Options{Reporter: rep})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return m
}

func run(t *testing.T, m *bytecode.Module) (vm.Value, []string) {
	t.Helper()
	rt := vm.NewTestRuntime()
	v, err := vm.New(m, vm.Options{Runtime: rt}).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return v, rt.Output
}

func expectOutput(t *testing.T, got []string, want ...string) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

const fibDecl = `
function fib(n: number): number {
	if (n <= 1) { return n; } else { return fib(n - 1) + fib(n - 2); }
}
println(fib(10));
`

const fibSource = fibDecl + "return fib(10);\n"

func TestFibonacci(t *testing.T) {
	v, out := run(t, compile(t, fibSource))
	expectOutput(t, out, "55")
	if v.Kind != vm.VKInt || v.Int != 55 {
		t.Fatalf("result = %s %s, want int 55", v.Kind, v)
	}
}

func TestStringConcatConvertsInteger(t *testing.T) {
	_, out := run(t, compile(t, `let a = 1; let b = "x" + a; println(b);`))
	expectOutput(t, out, "x1")
}

func TestForLoopPrintsThreeValues(t *testing.T) {
	_, out := run(t, compile(t, `for (let i = 0; i < 3; i++) { println(i); }`))
	expectOutput(t, out, "0", "1", "2")
}

func TestInfiniteForLeftByReturn(t *testing.T) {
	src := `
	function firstOver(limit: integer): integer {
		for (let i = 0; ; i++) {
			if (i * i > limit) { return i; }
		}
	}
	println(firstOver(50));
	`
	_, out := run(t, compile(t, src))
	expectOutput(t, out, "8")
}

func TestIncrementAndAssignmentValues(t *testing.T) {
	src := `
	let i = 0;
	let j = i++ + ++i;
	let k = 0;
	let m = (k = 4) * 2;
	k -= 1;
	println(j); println(i); println(m); println(k);
	`
	_, out := run(t, compile(t, src))
	expectOutput(t, out, "2", "2", "8", "3")
}

func TestLogicalOperatorsShortCircuit(t *testing.T) {
	src := `
	function touch(): boolean { println("touch"); return true; }
	let a = false && touch();
	let b = true || touch();
	let c = true && touch();
	if (!a && b && c) { println("ok"); }
	`
	_, out := run(t, compile(t, src))
	expectOutput(t, out, "touch", "ok")
}

func TestBareReturnInValueFunctionYieldsZero(t *testing.T) {
	src := `
	function f(x: integer) { if (x > 0) { return 1; } return; }
	let y = f(0);
	println(y);
	println(f(2));
	println("after");
	`
	_, out := run(t, compile(t, src))
	expectOutput(t, out, "0", "1", "after")
}

func TestDecimalArithmetic(t *testing.T) {
	src := `let d = 1.5; println(d * 2); println(7 / 2); println(7 % 3); println(-d);`
	_, out := run(t, compile(t, src))
	expectOutput(t, out, "3", "3", "1", "-1.5")
}

func TestTickUsesRuntimeClock(t *testing.T) {
	m := compile(t, `let t1 = tick(); let t2 = tick(); println(t2 - t1);`)
	rt := vm.NewTestRuntime()
	rt.Clock, rt.Step = 1000, 7
	if _, err := vm.New(m, vm.Options{Runtime: rt}).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	expectOutput(t, rt.Output, "7")
}

func TestDefaultRuntimeTicksFromStart(t *testing.T) {
	var buf strings.Builder
	rt := vm.NewDefaultRuntime(&buf)
	first := rt.TickMillis()
	if first < 0 || first > 1000 {
		t.Fatalf("first tick = %d, want a reading near zero", first)
	}
	prev := first
	for range 100 {
		now := rt.TickMillis()
		if now < prev {
			t.Fatalf("tick went backwards: %d after %d", now, prev)
		}
		prev = now
	}
	rt.Println("hi")
	if buf.String() != "hi\n" {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestUninitializedLocalsHoldZeroValues(t *testing.T) {
	_, out := run(t, compile(t, `let n: integer; let s: string; n++; println(s + n);`))
	expectOutput(t, out, "1")
}

func TestSerializedModuleBehavesTheSame(t *testing.T) {
	src := fibDecl + `
	let s = "a";
	for (let i = 0; i < 4; i++) { s += i; }
	println(s);
	println(2.25 + 1);
	println(100000 + 1);
	return fib(10);
	`
	m := compile(t, src)
	wantValue, wantOut := run(t, m)

	data, err := bytecode.Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := bytecode.DecodeModule(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	gotValue, gotOut := run(t, back)
	if gotValue != wantValue {
		t.Fatalf("result = %v, want %v", gotValue, wantValue)
	}
	expectOutput(t, gotOut, wantOut...)
	expectOutput(t, wantOut, "55", "a0123", "3.25", "100001")
}

func expectFault(t *testing.T, err error, code vm.FaultCode) *vm.Fault {
	t.Helper()
	var f *vm.Fault
	if !errors.As(err, &f) {
		t.Fatalf("err = %v, want a fault", err)
	}
	if f.Code != code || f.Status() != int(code) {
		t.Fatalf("fault = %v, want code %d", f, code)
	}
	return f
}

func TestDivisionByZeroFaultHasBacktrace(t *testing.T) {
	m := compile(t, `function f(n: integer): integer { return 10 / n; } println(f(0));`)
	_, err := vm.New(m, vm.Options{Runtime: vm.NewTestRuntime()}).Run(context.Background())
	f := expectFault(t, err, vm.FaultDivideByZero)
	if len(f.Backtrace) != 2 || f.Backtrace[0].FuncName != "f" || f.Backtrace[1].FuncName != "main" {
		t.Fatalf("backtrace = %+v", f.Backtrace)
	}
	if !strings.Contains(f.Format(), "backtrace:\n  0: f at") {
		t.Fatalf("format = %q", f.Format())
	}
}

func TestCallDepthLimit(t *testing.T) {
	m := compile(t, `function down(n: integer): integer { return down(n + 1); } down(0);`)
	_, err := vm.New(m, vm.Options{Runtime: vm.NewTestRuntime(), MaxDepth: 64}).Run(context.Background())
	f := expectFault(t, err, vm.FaultCallDepth)
	if len(f.Backtrace) != 64 {
		t.Fatalf("backtrace depth = %d, want 64", len(f.Backtrace))
	}
}

// handModule builds a module whose entry is a void function with code.
func handModule(code ...byte) *bytecode.Module {
	m := bytecode.NewModule(nil)
	fnType := m.Types.NewFn(nil, m.Types.Builtins().Void)
	m.Entry = m.Add(bytecode.Constant{
		Kind: bytecode.ConstFunction,
		Func: &bytecode.Function{Name: "main", Type: fnType, MaxStack: 2, Code: code},
	})
	return m
}

func TestFaultStatuses(t *testing.T) {
	cases := []struct {
		name string
		m    *bytecode.Module
		code vm.FaultCode
	}{
		{"no entry", bytecode.NewModule(nil), vm.FaultMissingCode},
		{"empty entry", handModule(), vm.FaultMissingCode},
		{"unknown opcode", handModule(0xff), vm.FaultBadInstruction},
		{"truncated operand", handModule(byte(bytecode.OpSipush), 1), vm.FaultBadInstruction},
		{"slot out of range", handModule(byte(bytecode.OpIload2)), vm.FaultBadInstruction},
		{"jump outside", handModule(byte(bytecode.OpGoto), 0, 40), vm.FaultBadInstruction},
		{"fell off the end", handModule(byte(bytecode.OpNop)), vm.FaultBadInstruction},
		{"underflow", handModule(byte(bytecode.OpPop), byte(bytecode.OpReturn)), vm.FaultStackUnderflow},
		{"ldc of a function", handModule(byte(bytecode.OpLdc), 0, 0, byte(bytecode.OpReturn)), vm.FaultBadConstant},
		{"string arithmetic", handModule(byte(bytecode.OpSldc), 0, 1, byte(bytecode.OpIconst1), byte(bytecode.OpIadd)), vm.FaultTypeMismatch},
	}
	// give the string case a string constant at index 1
	cases[len(cases)-1].m.Add(bytecode.Constant{Kind: bytecode.ConstString, Str: "s"})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := vm.New(tc.m, vm.Options{Runtime: vm.NewTestRuntime()}).Run(context.Background())
			expectFault(t, err, tc.code)
		})
	}
}

func TestVoidEntryHasNoResult(t *testing.T) {
	v, out := run(t, handModule(byte(bytecode.OpIconst2), byte(bytecode.OpPop), byte(bytecode.OpReturn)))
	if v.IsValid() || len(out) != 0 {
		t.Fatalf("result = %v, output = %q", v, out)
	}
}

func TestTraceEmitsCallsAndInstructions(t *testing.T) {
	m := compile(t, `function one(): integer { return 1; } println(one());`)
	ring := trace.NewRingTracer(1024, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	if _, err := vm.New(m, vm.Options{Runtime: vm.NewTestRuntime()}).Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	var calls, instrs []string
	for _, ev := range ring.Snapshot() {
		switch {
		case ev.Scope == trace.ScopeFunction && ev.Kind == trace.KindSpanBegin:
			calls = append(calls, ev.Name)
		case ev.Scope == trace.ScopeInstr:
			instrs = append(instrs, ev.Name)
		}
	}
	if !slices.Equal(calls, []string{"main", "one"}) {
		t.Fatalf("calls = %v", calls)
	}
	want := []string{"invokestatic", "iconst_1", "ireturn", "invokestatic", "invokestatic", "return"}
	if !slices.Equal(instrs, want) {
		t.Fatalf("instructions = %v, want %v", instrs, want)
	}
}
