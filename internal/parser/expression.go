package parser

import (
	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/token"
)

// parseExpr parses an assignment expression. Assignment is right-associative
// and binds loosest.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	left, ok := p.parseBinaryExpr(precLogicalOr)
	if !ok {
		return left, false
	}
	tok := p.lx.Peek()
	if !tok.IsAssignOp() {
		return left, true
	}
	p.advance()
	right, ok := p.parseExpr()
	if !ok {
		return right, false
	}
	sp := p.arenas.Exprs.Get(left).Span.Cover(p.arenas.Exprs.Get(right).Span)
	return p.arenas.Exprs.NewBinary(sp, binaryOps[tok.Kind], left, right), true
}

// parseBinaryExpr is precedence climbing over left-associative operators.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return left, false
	}
	for {
		tok := p.lx.Peek()
		prec := binaryPrec(tok.Kind)
		if prec < minPrec {
			return left, true
		}
		p.advance()
		right, ok := p.parseBinaryExpr(prec + 1)
		if !ok {
			return right, false
		}
		sp := p.arenas.Exprs.Get(left).Span.Cover(p.arenas.Exprs.Get(right).Span)
		left = p.arenas.Exprs.NewBinary(sp, binaryOps[tok.Kind], left, right)
	}
}

func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	if op, ok := prefixOp(tok.Kind); ok {
		p.advance()
		operand, ok := p.parseUnaryExpr()
		if !ok {
			return operand, false
		}
		sp := tok.Span.Cover(p.arenas.Exprs.Get(operand).Span)
		return p.arenas.Exprs.NewUnary(sp, op, operand, false), true
	}
	return p.parsePostfixExpr()
}

func (p *Parser) parsePostfixExpr() (ast.ExprID, bool) {
	expr, ok := p.parsePrimaryExpr()
	if !ok {
		return expr, false
	}
	for p.atOneOf(token.PlusPlus, token.MinusMinus) {
		tok := p.advance()
		op := ast.ExprUnaryInc
		if tok.Kind == token.MinusMinus {
			op = ast.ExprUnaryDec
		}
		sp := p.arenas.Exprs.Get(expr).Span.Cover(tok.Span)
		expr = p.arenas.Exprs.NewUnary(sp, op, expr, true)
	}
	return expr, true
}

func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	exprs := p.arenas.Exprs
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitInt, tok.Text), true
	case token.DecimalLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitDecimal, tok.Text), true
	case token.StringLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitString, tok.Text), true
	case token.KwTrue:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitTrue, tok.Text), true
	case token.KwFalse:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitFalse, tok.Text), true
	case token.Ident:
		p.advance()
		if p.at(token.LParen) {
			return p.parseCallArgs(tok)
		}
		return exprs.NewIdent(tok.Span, tok.Text), true
	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return inner, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return exprs.NewBad(tok.Span.Cover(p.lastSpan)), false
		}
		return inner, true
	}
	p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
	return exprs.NewBad(p.diagnosticSpan()), false
}

func (p *Parser) parseCallArgs(name token.Token) (ast.ExprID, bool) {
	p.advance() // (
	var args []ast.ExprID
	for !p.atOneOf(token.RParen, token.EOF) {
		arg, ok := p.parseExpr()
		if !ok {
			return arg, false
		}
		args = append(args, arg)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after arguments"); !ok {
		return p.arenas.Exprs.NewBad(name.Span.Cover(p.lastSpan)), false
	}
	return p.arenas.Exprs.NewCall(name.Span.Cover(p.lastSpan), name.Text, name.Span, args), true
}
