package codegen

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"playscript/internal/ast"
	"playscript/internal/bytecode"
	"playscript/internal/diag"
	"playscript/internal/sema"
	"playscript/internal/source"
	"playscript/internal/symbols"
	"playscript/internal/trace"
	"playscript/internal/types"
)

// Options configure code generation.
type Options struct {
	Reporter diag.Reporter
}

type generator struct {
	builder  *ast.Builder
	table    *symbols.Table
	info     *sema.Info
	module   *bytecode.Module
	reporter diag.Reporter

	funcs map[symbols.SymbolID]int
	strs  map[string]int
	ints  map[int64]int
	decs  map[float64]int
}

// unit is one function to compile together with the statements of its body.
type unit struct {
	sym   symbols.SymbolID
	index int
	body  []ast.StmtID
	span  source.Span
}

// Compile lowers the analysed file into a module whose entry is main.
// res must come from a sema run without errors. Functions whose code does
// not fit the instruction encoding are reported as GenFunctionTooLarge and
// make Compile fail with ErrTooLarge.
//
// Compile panics with *InternalError when the tree and the side tables of
// res disagree.
func Compile(ctx context.Context, builder *ast.Builder, res sema.Result, opts Options) (*bytecode.Module, error) {
	if !res.OK() {
		return nil, ErrNotAnalyzed
	}
	ctx, span := trace.StartSpan(ctx, trace.ScopePass, "codegen")
	defer span.End("")

	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	g := &generator{
		builder:  builder,
		table:    res.Table,
		info:     res.Info,
		module:   bytecode.NewModule(res.Table.Types),
		reporter: reporter,
		funcs:    make(map[symbols.SymbolID]int),
		strs:     make(map[string]int),
		ints:     make(map[int64]int),
		decs:     make(map[float64]int),
	}
	for _, id := range g.table.Builtins {
		sym := g.table.Symbols.Get(id)
		g.funcs[id] = g.module.Add(bytecode.Constant{
			Kind: bytecode.ConstFunction,
			Func: &bytecode.Function{Name: sym.Name, Type: sym.Type, Intrinsic: true},
		})
	}

	units := g.declare(res.File)
	g.module.Entry = g.funcs[g.table.Main]

	var errs []error
	for _, u := range units {
		if err := g.function(ctx, u); err != nil {
			errs = append(errs, err)
		}
	}
	span.WithExtra("functions", strconv.Itoa(len(units))).
		WithExtra("constants", strconv.Itoa(len(g.module.Consts)))
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return g.module, nil
}

// declare reserves a constant for main and for every function declared in
// the file, so calls can reference functions defined later.
func (g *generator) declare(fileID ast.FileID) []unit {
	file := g.builder.Files.Get(fileID)
	units := []unit{{sym: g.table.Main, body: file.Body, span: file.Span}}
	g.builder.Walk(fileID, func(n ast.Node, _ int) bool {
		if !n.Stmt.IsValid() {
			return false
		}
		fn := g.builder.Stmts.Func(n.Stmt)
		if fn == nil {
			return true
		}
		sym, ok := g.table.Decls[n.Stmt]
		if !ok {
			panic(&InternalError{Func: fn.Name, Msg: "function declaration has no symbol"})
		}
		var body []ast.StmtID
		if blk := g.builder.Stmts.Block(fn.Body); blk != nil {
			body = blk.Stmts
		}
		units = append(units, unit{sym: sym, body: body, span: g.builder.Stmts.Get(n.Stmt).Span})
		return true
	})
	for i := range units {
		sym := g.table.Symbols.Get(units[i].sym)
		locals := make([]bytecode.Local, 0, len(sym.Fn.Locals))
		for _, id := range sym.Fn.Locals {
			v := g.table.Symbols.Get(id)
			locals = append(locals, bytecode.Local{Name: v.Name, Type: v.Type})
		}
		units[i].index = g.module.Add(bytecode.Constant{
			Kind: bytecode.ConstFunction,
			Func: &bytecode.Function{Name: sym.Name, Type: sym.Type, Locals: locals},
		})
		g.funcs[units[i].sym] = units[i].index
	}
	return units
}

func (g *generator) function(ctx context.Context, u unit) error {
	fn := g.module.Consts[u.index].Func
	_, span := trace.StartSpan(ctx, trace.ScopeFunction, fn.Name)
	defer span.End("")

	f := &funcGen{generator: g, fn: u.sym, name: fn.Name}
	var code []byte
	for _, st := range u.body {
		code = f.splice(code, f.stmt(st))
	}
	code = append(code, f.implicitReturn()...)
	if len(code) > maxCode {
		f.fail(fmt.Errorf("%d bytes of code", len(code)))
	}
	if f.err != nil {
		diag.ReportError(g.reporter, diag.GenFunctionTooLarge, u.span,
			fmt.Sprintf("function %s does not fit the instruction encoding: %v", fn.Name, f.err)).Emit()
		return fmt.Errorf("%w: %s: %w", ErrTooLarge, fn.Name, f.err)
	}
	depth, err := bytecode.MaxStack(code, g.module.CallEffect)
	if err != nil {
		panic(&InternalError{Func: fn.Name, Msg: err.Error()})
	}
	fn.Code = code
	fn.MaxStack = depth
	span.WithExtra("code", strconv.Itoa(len(code))).WithExtra("max_stack", strconv.Itoa(depth))
	return nil
}

// maxCode is the highest code size a u2 jump target can address.
const maxCode = 1<<16 - 1

func (g *generator) returnsValue(fn symbols.SymbolID) bool {
	info, ok := g.table.FuncType(fn)
	return ok && info.Result != g.table.Types.Builtins().Void
}

func (g *generator) resultType(fn symbols.SymbolID) types.TypeID {
	info, ok := g.table.FuncType(fn)
	if !ok {
		return types.NoTypeID
	}
	return info.Result
}

func (g *generator) stringConst(s string) int {
	if i, ok := g.strs[s]; ok {
		return i
	}
	i := g.module.Add(bytecode.Constant{Kind: bytecode.ConstString, Str: s})
	g.strs[s] = i
	return i
}

func (g *generator) intConst(v int64) int {
	if i, ok := g.ints[v]; ok {
		return i
	}
	i := g.module.Add(bytecode.Constant{Kind: bytecode.ConstInteger, Int: v})
	g.ints[v] = i
	return i
}

func (g *generator) decimalConst(v float64) int {
	if i, ok := g.decs[v]; ok {
		return i
	}
	i := g.module.Add(bytecode.Constant{Kind: bytecode.ConstDecimal, Decimal: v})
	g.decs[v] = i
	return i
}
