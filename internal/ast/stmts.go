package ast

import (
	"playscript/internal/source"
)

type Stmts struct {
	Arena   *Arena[Stmt]
	Blocks  *Arena[BlockStmt]
	Lets    *Arena[LetStmt]
	Funcs   *Arena[FuncStmt]
	Returns *Arena[ReturnStmt]
	Ifs     *Arena[IfStmt]
	Fors    *Arena[ForStmt]
	Exprs   *Arena[ExprStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Blocks:  NewArena[BlockStmt](capHint / 4),
		Lets:    NewArena[LetStmt](capHint / 4),
		Funcs:   NewArena[FuncStmt](capHint / 8),
		Returns: NewArena[ReturnStmt](capHint / 8),
		Ifs:     NewArena[IfStmt](capHint / 8),
		Fors:    NewArena[ForStmt](capHint / 8),
		Exprs:   NewArena[ExprStmt](capHint / 2),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewBad(span source.Span) StmtID {
	id := s.new(StmtBad, span, 0)
	s.Get(id).Err = true
	return id
}

func (s *Stmts) NewEmpty(span source.Span) StmtID {
	return s.new(StmtEmpty, span, 0)
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	return s.new(StmtBlock, span, s.Blocks.Allocate(BlockStmt{Stmts: append([]StmtID(nil), stmts...)}))
}

func (s *Stmts) Block(id StmtID) *BlockStmt {
	st := s.Get(id)
	if st == nil || st.Kind != StmtBlock {
		return nil
	}
	return s.Blocks.Get(uint32(st.Payload))
}

func (s *Stmts) NewLet(span source.Span, name string, nameSpan source.Span, typ TypeRef, init ExprID) StmtID {
	return s.new(StmtLet, span, s.Lets.Allocate(LetStmt{Name: name, NameSpan: nameSpan, Type: typ, Init: init}))
}

func (s *Stmts) Let(id StmtID) *LetStmt {
	st := s.Get(id)
	if st == nil || st.Kind != StmtLet {
		return nil
	}
	return s.Lets.Get(uint32(st.Payload))
}

func (s *Stmts) NewFunc(span source.Span, fn FuncStmt) StmtID {
	fn.Params = append([]Param(nil), fn.Params...)
	return s.new(StmtFunc, span, s.Funcs.Allocate(fn))
}

func (s *Stmts) Func(id StmtID) *FuncStmt {
	st := s.Get(id)
	if st == nil || st.Kind != StmtFunc {
		return nil
	}
	return s.Funcs.Get(uint32(st.Payload))
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, s.Returns.Allocate(ReturnStmt{Value: value}))
}

func (s *Stmts) Return(id StmtID) *ReturnStmt {
	st := s.Get(id)
	if st == nil || st.Kind != StmtReturn {
		return nil
	}
	return s.Returns.Get(uint32(st.Payload))
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	return s.new(StmtIf, span, s.Ifs.Allocate(IfStmt{Cond: cond, Then: then, Else: els}))
}

func (s *Stmts) If(id StmtID) *IfStmt {
	st := s.Get(id)
	if st == nil || st.Kind != StmtIf {
		return nil
	}
	return s.Ifs.Get(uint32(st.Payload))
}

func (s *Stmts) NewFor(span source.Span, f ForStmt) StmtID {
	return s.new(StmtFor, span, s.Fors.Allocate(f))
}

func (s *Stmts) For(id StmtID) *ForStmt {
	st := s.Get(id)
	if st == nil || st.Kind != StmtFor {
		return nil
	}
	return s.Fors.Get(uint32(st.Payload))
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	return s.new(StmtExpr, span, s.Exprs.Allocate(ExprStmt{Expr: expr}))
}

func (s *Stmts) Expr(id StmtID) *ExprStmt {
	st := s.Get(id)
	if st == nil || st.Kind != StmtExpr {
		return nil
	}
	return s.Exprs.Get(uint32(st.Payload))
}
