package sema

import (
	"context"
	"strconv"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/symbols"
	"playscript/internal/trace"
	"playscript/internal/types"
)

// Options configure a semantic analysis run.
type Options struct {
	Reporter diag.Reporter
	Types    *types.Interner
	Hints    symbols.Hints
}

// Result stores semantic artefacts of one file.
type Result struct {
	Table  *symbols.Table
	Info   *Info
	File   ast.FileID
	Errors int
}

// OK reports whether code generation may proceed.
func (r Result) OK() bool { return r.Errors == 0 }

type pass struct {
	name string
	run  func(rep diag.Reporter)
}

// Analyze runs every pass in order. Each pass runs even when earlier ones
// reported errors so that one compilation surfaces as many findings as
// possible.
func Analyze(ctx context.Context, builder *ast.Builder, fileID ast.FileID, opts Options) Result {
	counter := &diag.CountingReporter{Next: opts.Reporter}
	res := Result{
		Table: symbols.NewTable(opts.Hints, opts.Types),
		Info:  NewInfo(),
		File:  fileID,
	}
	passes := []pass{
		{"entry", func(rep diag.Reporter) { symbols.Enter(res.Table, builder, fileID, rep) }},
		{"resolve", func(rep diag.Reporter) { symbols.ResolveRefs(res.Table, builder, fileID, rep) }},
		{"check", func(rep diag.Reporter) { Check(builder, fileID, res.Table, res.Info, rep) }},
		{"convert", func(diag.Reporter) { Convert(builder, fileID, res.Table, res.Info) }},
		{"lvalue", func(rep diag.Reporter) { AttributeLeftValues(builder, fileID, res.Table, res.Info, rep) }},
	}
	for _, p := range passes {
		_, span := trace.StartSpan(ctx, trace.ScopePass, p.name)
		before := counter.Errors
		p.run(counter)
		span.WithExtra("errors", strconv.Itoa(counter.Errors-before)).End("")
	}
	res.Errors = counter.Errors
	return res
}
