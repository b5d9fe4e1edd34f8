package parser

import (
	"fmt"

	"playscript/internal/diag"
	"playscript/internal/source"
	"playscript/internal/token"
)

// advance consumes the next token and updates lastSpan.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagnosticSpan points right after the last token when the parser sits on EOF.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect consumes k or reports code and returns false.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagnosticSpan()
	p.report(code, sp, fmt.Sprintf("%s, got %s", msg, describe(p.lx.Peek())))
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.diagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	enough := p.opts.Enough()
	p.opts.CurrentErrors++
	if p.opts.Reporter == nil || enough {
		return
	}
	diag.ReportError(p.opts.Reporter, code, sp, msg).Emit()
}

// resyncStmt skips to the end of the broken statement: past the next ';', or
// up to (not past) a '}' or EOF.
func (p *Parser) resyncStmt() {
	for {
		switch p.lx.Peek().Kind {
		case token.EOF, token.RBrace:
			return
		case token.Semicolon:
			p.advance()
			return
		}
		p.advance()
	}
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident:
		return fmt.Sprintf("identifier '%s'", t.Text)
	case token.IntLit, token.DecimalLit:
		return fmt.Sprintf("number %s", t.Text)
	case token.StringLit:
		return "string literal"
	}
	return fmt.Sprintf("'%s'", t.Kind)
}
