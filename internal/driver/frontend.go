package driver

import (
	"context"
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/lexer"
	"playscript/internal/parser"
	"playscript/internal/source"
	"playscript/internal/token"
	"playscript/internal/trace"
)

// FrontendOptions configure the inspection entry points Tokenize and Parse.
type FrontendOptions struct {
	MaxDiagnostics int
	// KeepTrivia attaches whitespace and comments to each token.
	KeepTrivia bool
}

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
}

func load(path string) (*source.FileSet, *source.File, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	return fs, fs.Get(id), nil
}

// Tokenize scans path and returns every token up to and including EOF.
func Tokenize(ctx context.Context, path string, opts FrontendOptions) (*TokenizeResult, error) {
	fs, file, err := load(path)
	if err != nil {
		return nil, err
	}
	_, span := trace.StartSpan(ctx, trace.ScopePass, "tokenize")
	bag := diag.NewBag(opts.MaxDiagnostics)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}, KeepTrivia: opts.KeepTrivia})
	tokens := lx.All()
	span.WithExtra("tokens", strconv.Itoa(len(tokens))).End("")
	return &TokenizeResult{FileSet: fs, File: file, Tokens: tokens, Bag: bag}, nil
}

// Parse loads path and builds its syntax tree without semantic checks.
func Parse(ctx context.Context, path string, opts FrontendOptions) (*ParseResult, error) {
	fs, file, err := load(path)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(opts.MaxDiagnostics)
	builder, astFile, err := parseFile(ctx, file, bag, opts.MaxDiagnostics)
	if err != nil {
		return nil, err
	}
	return &ParseResult{FileSet: fs, File: file, Builder: builder, FileID: astFile, Bag: bag}, nil
}

// parseFile runs the lexer and parser over file, reporting into bag.
func parseFile(ctx context.Context, file *source.File, bag *diag.Bag, maxDiagnostics int) (*ast.Builder, ast.FileID, error) {
	maxErrors, err := safecast.Conv[uint](max(maxDiagnostics, 0))
	if err != nil {
		return nil, ast.NoFileID, err
	}
	_, span := trace.StartSpan(ctx, trace.ScopePass, "parse")
	defer span.End("")

	rep := diag.BagReporter{Bag: bag}
	builder := ast.NewBuilder(ast.Hints{})
	result := parser.ParseFile(lexer.New(file, lexer.Options{Reporter: rep}), builder, parser.Options{
		Reporter:  rep,
		MaxErrors: maxErrors,
	})
	return builder, result.File, nil
}
