package parser

import (
	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/source"
	"playscript/internal/token"
)

func (p *Parser) parseStmt() ast.StmtID {
	switch p.lx.Peek().Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.KwLet:
		return p.parseLetStmt()
	case token.KwFunction:
		return p.parseFuncDecl()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwIf:
		return p.parseIf()
	case token.KwFor:
		return p.parseFor()
	case token.Semicolon:
		return p.arenas.Stmts.NewEmpty(p.advance().Span)
	default:
		return p.parseExprStmt()
	}
}

// bad records a recovered statement covering start..current position.
func (p *Parser) bad(start source.Span) ast.StmtID {
	p.resyncStmt()
	return p.arenas.Stmts.NewBad(start.Cover(p.lastSpan))
}

func (p *Parser) parseBlock() ast.StmtID {
	open, _ := p.expect(token.LBrace, diag.SynExpectLBrace, "expected '{'")
	var stmts []ast.StmtID
	for !p.atOneOf(token.RBrace, token.EOF) {
		stmts = append(stmts, p.parseStmt())
	}
	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close block")
	sp := open.Span.Cover(closeTok.Span)
	if !ok {
		sp = open.Span.Cover(p.lastSpan)
	}
	id := p.arenas.Stmts.NewBlock(sp, stmts)
	if !ok {
		p.arenas.Stmts.Get(id).Err = true
	}
	return id
}

func (p *Parser) parseLetStmt() ast.StmtID {
	start := p.advance().Span // let
	id, ok := p.parseVarDecl(start)
	if !ok {
		return p.bad(start)
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after variable declaration"); !ok {
		p.arenas.Stmts.Get(id).Err = true
		p.resyncStmt()
	}
	return id
}

// parseVarDecl parses `Ident (':' type)? ('=' expr)?` after 'let'.
func (p *Parser) parseVarDecl(start source.Span) (ast.StmtID, bool) {
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected variable name")
	if !ok {
		return ast.NoStmtID, false
	}
	var typ ast.TypeRef
	if p.at(token.Colon) {
		p.advance()
		if typ, ok = p.parseTypeRef(); !ok {
			return ast.NoStmtID, false
		}
	}
	init := ast.NoExprID
	if p.at(token.Assign) {
		p.advance()
		if init, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	return p.arenas.Stmts.NewLet(start.Cover(p.lastSpan), name.Text, name.Span, typ, init), true
}

func (p *Parser) parseTypeRef() (ast.TypeRef, bool) {
	tok, ok := p.expect(token.Ident, diag.SynExpectType, "expected type name")
	if !ok {
		return ast.TypeRef{}, false
	}
	return ast.TypeRef{Name: tok.Text, Span: tok.Span}, true
}

func (p *Parser) parseFuncDecl() ast.StmtID {
	start := p.advance().Span // function
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name")
	if !ok {
		return p.bad(start)
	}
	if _, ok := p.expect(token.LParen, diag.SynExpectLParen, "expected '(' after function name"); !ok {
		return p.bad(start)
	}
	var params []ast.Param
	for !p.atOneOf(token.RParen, token.EOF) {
		pn, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
		if !ok {
			return p.bad(start)
		}
		param := ast.Param{Name: pn.Text, Span: pn.Span}
		if p.at(token.Colon) {
			p.advance()
			if param.Type, ok = p.parseTypeRef(); !ok {
				return p.bad(start)
			}
		}
		params = append(params, param)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters"); !ok {
		return p.bad(start)
	}
	var result ast.TypeRef
	if p.at(token.Colon) {
		p.advance()
		if result, ok = p.parseTypeRef(); !ok {
			return p.bad(start)
		}
	}
	if !p.at(token.LBrace) {
		p.err(diag.SynExpectLBrace, "expected '{' to start function body")
		return p.bad(start)
	}
	body := p.parseBlock()
	return p.arenas.Stmts.NewFunc(start.Cover(p.lastSpan), ast.FuncStmt{
		Name:     name.Text,
		NameSpan: name.Span,
		Params:   params,
		Result:   result,
		Body:     body,
	})
}

func (p *Parser) parseReturn() ast.StmtID {
	start := p.advance().Span // return
	value := ast.NoExprID
	if !p.at(token.Semicolon) {
		var ok bool
		if value, ok = p.parseExpr(); !ok {
			return p.bad(start)
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after return"); !ok {
		return p.bad(start)
	}
	return p.arenas.Stmts.NewReturn(start.Cover(p.lastSpan), value)
}

func (p *Parser) parseIf() ast.StmtID {
	start := p.advance().Span // if
	cond, ok := p.parseParenCond()
	if !ok {
		return p.bad(start)
	}
	then := p.parseStmt()
	els := ast.NoStmtID
	if p.at(token.KwElse) {
		p.advance()
		els = p.parseStmt()
	}
	return p.arenas.Stmts.NewIf(start.Cover(p.lastSpan), cond, then, els)
}

func (p *Parser) parseParenCond() (ast.ExprID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynExpectLParen, "expected '('"); !ok {
		return ast.NoExprID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
		return ast.NoExprID, false
	}
	return cond, true
}

func (p *Parser) parseFor() ast.StmtID {
	start := p.advance().Span // for
	if _, ok := p.expect(token.LParen, diag.SynExpectLParen, "expected '(' after 'for'"); !ok {
		return p.bad(start)
	}
	var f ast.ForStmt
	var ok bool
	switch {
	case p.at(token.KwLet):
		letStart := p.advance().Span
		if f.Init, ok = p.parseVarDecl(letStart); !ok {
			return p.bad(start)
		}
	case !p.at(token.Semicolon):
		exprStart := p.lx.Peek().Span
		e, ok := p.parseExpr()
		if !ok {
			return p.bad(start)
		}
		f.Init = p.arenas.Stmts.NewExpr(exprStart.Cover(p.lastSpan), e)
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after for-init"); !ok {
		return p.bad(start)
	}
	if !p.at(token.Semicolon) {
		if f.Cond, ok = p.parseExpr(); !ok {
			return p.bad(start)
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after for-condition"); !ok {
		return p.bad(start)
	}
	if !p.at(token.RParen) {
		if f.Post, ok = p.parseExpr(); !ok {
			return p.bad(start)
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after for clauses"); !ok {
		return p.bad(start)
	}
	f.Body = p.parseStmt()
	return p.arenas.Stmts.NewFor(start.Cover(p.lastSpan), f)
}

func (p *Parser) parseExprStmt() ast.StmtID {
	start := p.lx.Peek().Span
	e, ok := p.parseExpr()
	if !ok {
		return p.bad(start)
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression"); !ok {
		return p.bad(start)
	}
	return p.arenas.Stmts.NewExpr(start.Cover(p.lastSpan), e)
}
