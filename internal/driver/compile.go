package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"playscript/internal/ast"
	"playscript/internal/buildpipeline"
	"playscript/internal/bytecode"
	"playscript/internal/codegen"
	"playscript/internal/diag"
	"playscript/internal/sema"
	"playscript/internal/source"
	"playscript/internal/trace"
)

// DefaultMaxDiagnostics is used when Options.MaxDiagnostics is not positive.
const DefaultMaxDiagnostics = 100

// Options configures one compilation.
type Options struct {
	MaxDiagnostics int
	Sink           buildpipeline.ProgressSink
	Cache          *DiskCache // nil disables caching
	// Stop after the semantic passes; no module is generated.
	CheckOnly bool
}

// Result holds every artefact of one compilation. Builder, ASTFile and
// Sema are empty when the module came from the cache.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	Bag     *diag.Bag
	Builder *ast.Builder
	ASTFile ast.FileID
	Sema    *sema.Result
	Module  *bytecode.Module
	Timings buildpipeline.Timings
	Cached  bool
}

// OK reports whether the compilation finished without errors.
func (r *Result) OK() bool {
	return r != nil && !r.Bag.HasErrors() && (r.Sema == nil || r.Sema.OK())
}

// CompileFile loads path and compiles it.
func CompileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return compile(ctx, fs, fs.Get(id), opts)
}

// CompileSource compiles src as if it were read from a file named name.
func CompileSource(ctx context.Context, name string, src []byte, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	return compile(ctx, fs, fs.Get(id), opts)
}

func compile(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) (*Result, error) {
	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "compile")
	res := &Result{FileSet: fs, File: file}
	defer func() {
		span.WithExtra("path", file.Path).WithExtra("cached", strconv.FormatBool(res.Cached)).End("")
	}()

	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = DefaultMaxDiagnostics
	}
	res.Bag = diag.NewBag(maxDiag)
	rep := diag.BagReporter{Bag: res.Bag}

	if !opts.CheckOnly {
		m, ok, err := opts.Cache.loadModule(file)
		if err != nil {
			// an unreadable entry is rebuilt and overwritten
			trace.Point(trace.FromContext(ctx), trace.ScopePass, "cache", "read failed: "+err.Error(), span.ID())
		}
		if ok {
			res.Module = m
			res.Cached = true
			return res, nil
		}
	}

	done := buildpipeline.Begin(opts.Sink, &res.Timings, file.Path, buildpipeline.StageParse)
	builder, astFile, err := parseFile(ctx, file, res.Bag, maxDiag)
	if err != nil {
		done(err)
		return nil, err
	}
	res.Builder, res.ASTFile = builder, astFile
	if res.Bag.HasErrors() {
		done(errorsIn(res.Bag))
		return res, nil
	}
	done(nil)

	done = buildpipeline.Begin(opts.Sink, &res.Timings, file.Path, buildpipeline.StageDiagnose)
	sres := sema.Analyze(ctx, builder, astFile, sema.Options{Reporter: rep})
	res.Sema = &sres
	if !sres.OK() {
		done(fmt.Errorf("%d semantic errors", sres.Errors))
		return res, nil
	}
	done(nil)
	if opts.CheckOnly {
		return res, nil
	}

	done = buildpipeline.Begin(opts.Sink, &res.Timings, file.Path, buildpipeline.StageGenerate)
	m, err := codegen.Compile(ctx, builder, sres, codegen.Options{Reporter: rep})
	done(err)
	if err != nil {
		if errors.Is(err, codegen.ErrTooLarge) {
			// already reported as a diagnostic
			return res, nil
		}
		return nil, fmt.Errorf("generate %s: %w", file.Path, err)
	}
	res.Module = m

	if err := opts.Cache.storeModule(file, m); err != nil {
		trace.Point(trace.FromContext(ctx), trace.ScopePass, "cache", "write failed: "+err.Error(), span.ID())
	}
	return res, nil
}

func errorsIn(bag *diag.Bag) error {
	return fmt.Errorf("%d errors", bag.ErrorCount())
}
