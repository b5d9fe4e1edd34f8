package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"playscript/internal/buildpipeline"
	"playscript/internal/bytecode"
	"playscript/internal/diag"
	"playscript/internal/source"
	"playscript/internal/token"
	"playscript/internal/vm"
)

func runModule(t *testing.T, m *bytecode.Module) []string {
	t.Helper()
	rt := vm.NewTestRuntime()
	if _, err := Execute(context.Background(), m, ExecOptions{VM: vm.Options{Runtime: rt}}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	return rt.Output
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestCompileSourceRunsEndToEnd(t *testing.T) {
	res, err := CompileSource(context.Background(), "prog.play", []byte(`println(1 + 2);`), Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !res.OK() || res.Module == nil || res.Cached {
		t.Fatalf("result not usable: ok=%v module=%v cached=%v", res.OK(), res.Module != nil, res.Cached)
	}
	for _, stage := range []buildpipeline.Stage{buildpipeline.StageParse, buildpipeline.StageDiagnose, buildpipeline.StageGenerate} {
		if !res.Timings.Has(stage) {
			t.Fatalf("no timing for %s", stage)
		}
	}
	if out := runModule(t, res.Module); !slices.Equal(out, []string{"3"}) {
		t.Fatalf("output = %q", out)
	}
}

func TestSyntaxErrorsStopBeforeAnalysis(t *testing.T) {
	res, err := CompileSource(context.Background(), "bad.play", []byte(`let = 1;`), Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if res.OK() || res.Module != nil || res.Sema != nil {
		t.Fatalf("expected a failed parse, got ok=%v", res.OK())
	}
	if res.Timings.Has(buildpipeline.StageDiagnose) {
		t.Fatal("analysis ran after syntax errors")
	}
}

func TestSemanticErrorsStopBeforeGeneration(t *testing.T) {
	var events []buildpipeline.Event
	sink := buildpipeline.FuncSink(func(ev buildpipeline.Event) { events = append(events, ev) })
	res, err := CompileSource(context.Background(), "bad.play", []byte(`let a = b;`), Options{Sink: sink})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if res.OK() || res.Module != nil || res.Sema == nil || res.Sema.OK() {
		t.Fatal("expected semantic failure without a module")
	}
	if items := res.Bag.Items(); len(items) == 0 || items[0].Code != diag.SemaUnresolvedSymbol {
		t.Fatalf("diagnostics = %v", items)
	}
	last := events[len(events)-1]
	if last.Stage != buildpipeline.StageDiagnose || last.Status != buildpipeline.StatusError {
		t.Fatalf("last event = %+v", last)
	}
}

func TestCheckOnlySkipsGeneration(t *testing.T) {
	res, err := CompileSource(context.Background(), "ok.play", []byte(`let a = 1;`), Options{CheckOnly: true})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !res.OK() || res.Module != nil || res.Timings.Has(buildpipeline.StageGenerate) {
		t.Fatal("check-only compilation generated code")
	}
}

func TestDiskCacheServesSecondCompile(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	src := []byte(`let s = "v"; println(s + 2);`)
	first, err := CompileSource(context.Background(), "c.play", src, Options{Cache: cache})
	if err != nil || first.Cached {
		t.Fatalf("first compile: cached=%v err=%v", first != nil && first.Cached, err)
	}
	second, err := CompileSource(context.Background(), "c.play", src, Options{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached || second.Builder != nil {
		t.Fatal("second compile did not come from the cache")
	}
	if out := runModule(t, second.Module); !slices.Equal(out, []string{"v2"}) {
		t.Fatalf("cached output = %q", out)
	}

	changed, err := CompileSource(context.Background(), "c.play", []byte(`println("w");`), Options{Cache: cache})
	if err != nil || changed.Cached {
		t.Fatal("changed source hit the cache")
	}
}

func TestDiskCacheIgnoresOtherSchemas(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	res, err := CompileSource(context.Background(), "s.play", []byte(`println("x");`), Options{})
	if err != nil {
		t.Fatal(err)
	}
	data, err := bytecode.Encode(res.Module)
	if err != nil {
		t.Fatal(err)
	}
	err = cache.Put(CacheKey(res.File), &DiskPayload{Schema: diskCacheSchemaVersion + 1, Module: data})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok, err := cache.loadModule(res.File); ok || err != nil {
		t.Fatalf("stale schema served: ok=%v err=%v", ok, err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	var payload DiskPayload
	if ok, err := cache.Get(CacheKey(res.File), &payload); ok || err != nil {
		t.Fatalf("entry survived DropAll: ok=%v err=%v", ok, err)
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var cache *DiskCache
	file := &source.File{Path: "x.play"}
	if err := cache.storeModule(file, bytecode.NewModule(nil)); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := cache.loadModule(file); ok || err != nil {
		t.Fatal("nil cache returned an entry")
	}
}

func TestWriteAndReadModule(t *testing.T) {
	res, err := CompileSource(context.Background(), "w.play", []byte(`for (let i = 0; i < 2; i++) { println(i); }`), Options{})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out", "w.pbc")
	if err := WriteModule(context.Background(), path, res.Module); err != nil {
		t.Fatalf("write: %v", err)
	}
	m, err := ReadModule(context.Background(), path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if out := runModule(t, m); !slices.Equal(out, []string{"0", "1"}) {
		t.Fatalf("output = %q", out)
	}
}

func TestReadModuleRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.pbc")
	writeFile(t, path, "not a module")
	if _, err := ReadModule(context.Background(), path); !errors.Is(err, bytecode.ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestCheckDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.play"), `let a = 1;`)
	writeFile(t, filepath.Join(dir, "b.play"), `let b = missing;`)
	writeFile(t, filepath.Join(dir, "sub", "c.play"), `function f(): integer { return 2; } f();`)
	writeFile(t, filepath.Join(dir, "notes.txt"), `ignored`)

	var mu sync.Mutex
	var events []buildpipeline.Event
	sink := buildpipeline.FuncSink(func(ev buildpipeline.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	})

	fs, results, err := CheckDir(context.Background(), dir, CheckOptions{Jobs: 2, Sink: sink})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	wantErr := map[string]bool{"a.play": false, "b.play": true, "c.play": false}
	for _, r := range results {
		if fs.Get(r.FileID) == nil {
			t.Fatalf("%s: file not in the set", r.Path)
		}
		if got := r.Bag.HasErrors(); got != wantErr[filepath.Base(r.Path)] {
			t.Fatalf("%s: errors = %v, want %v", r.Path, got, !got)
		}
		if r.Result == nil || r.Result.Module != nil {
			t.Fatalf("%s: check must not generate code", r.Path)
		}
	}
	if filepath.Base(results[0].Path) != "a.play" || filepath.Base(results[2].Path) != "c.play" {
		t.Fatalf("results are not sorted: %s, %s", results[0].Path, results[2].Path)
	}

	queued := 0
	for _, ev := range events {
		if ev.Status == buildpipeline.StatusQueued {
			queued++
		}
	}
	if queued != 3 {
		t.Fatalf("queued events = %d, want 3", queued)
	}
}

func TestCheckDirEmpty(t *testing.T) {
	_, results, err := CheckDir(context.Background(), t.TempDir(), CheckOptions{})
	if err != nil || len(results) != 0 {
		t.Fatalf("results = %v, err = %v", results, err)
	}
}

func TestTokenizeAndParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.play")
	writeFile(t, path, "let x = 1;\n")
	tr, err := Tokenize(context.Background(), path, FrontendOptions{MaxDiagnostics: 10, KeepTrivia: true})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(tr.Tokens); n == 0 || tr.Tokens[n-1].Kind != token.EOF {
		t.Fatalf("tokens do not end with EOF: %v", tr.Tokens)
	}
	// the space before x is kept as leading trivia
	if x := tr.Tokens[1]; x.Text != "x" || len(x.Leading) != 1 || x.Leading[0].Kind != token.TriviaSpace {
		t.Fatalf("token x = %+v", x)
	}
	pr, err := Parse(context.Background(), path, FrontendOptions{MaxDiagnostics: 10})
	if err != nil {
		t.Fatal(err)
	}
	if pr.Bag.HasErrors() || pr.Builder == nil {
		t.Fatalf("parse failed: %v", pr.Bag.Items())
	}
	if _, err := Parse(context.Background(), filepath.Join(t.TempDir(), "missing.play"), FrontendOptions{}); err == nil {
		t.Fatal("missing file parsed")
	}
}
