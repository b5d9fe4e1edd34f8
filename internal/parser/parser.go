package parser

import (
	"slices"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/lexer"
	"playscript/internal/source"
	"playscript/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error limit has been reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File   ast.FileID
	Errors uint
}

// Parser holds the state for one file.
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	opts     Options
	lastSpan source.Span // span of the last consumed token
}

// ParseFile parses a whole program. Top-level statements become the body of
// the implicit main function.
func ParseFile(lx *lexer.Lexer, arenas *ast.Builder, opts Options) Result {
	start := lx.Peek().Span
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.NewFile(start),
		opts:     opts,
		lastSpan: source.Span{File: start.File},
	}
	for !p.at(token.EOF) {
		if p.at(token.RBrace) {
			p.err(diag.SynUnexpectedToken, "unexpected '}'")
			p.advance()
			continue
		}
		arenas.PushStmt(p.file, p.parseStmt())
	}
	arenas.Files.Get(p.file).Span = start.Cover(p.lx.Peek().Span)
	return Result{File: p.file, Errors: p.opts.CurrentErrors}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOneOf(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}
