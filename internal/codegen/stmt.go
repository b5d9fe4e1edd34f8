package codegen

import (
	"playscript/internal/ast"
	"playscript/internal/bytecode"
)

func (f *funcGen) stmt(id ast.StmtID) []byte {
	st := f.builder.Stmts.Get(id)
	if st == nil {
		return nil
	}
	switch st.Kind {
	case ast.StmtBlock:
		var out []byte
		for _, child := range f.builder.Stmts.Block(id).Stmts {
			out = f.splice(out, f.stmt(child))
		}
		return out
	case ast.StmtLet:
		let := f.builder.Stmts.Let(id)
		if !let.Init.IsValid() {
			return nil
		}
		v, ok := f.table.Decls[id]
		if !ok {
			panic(f.internal("let %s has no symbol", let.Name))
		}
		return f.splice(f.value(let.Init), f.store(f.slot(v)))
	case ast.StmtFunc, ast.StmtEmpty:
		// Nested functions are compiled as units of their own.
		return nil
	case ast.StmtReturn:
		ret := f.builder.Stmts.Return(id)
		if !ret.Value.IsValid() {
			// callers of a function with a result always expect a value
			return f.implicitReturn()
		}
		return append(f.value(ret.Value), byte(bytecode.OpIreturn))
	case ast.StmtIf:
		return f.ifStmt(f.builder.Stmts.If(id))
	case ast.StmtFor:
		return f.forStmt(f.builder.Stmts.For(id))
	case ast.StmtExpr:
		return f.expr(f.builder.Stmts.Expr(id).Expr, usageStatement)
	}
	panic(f.internal("unexpected %s statement", st.Kind))
}

// ifStmt lays out
//
//	cond; onFalse else; then; goto next; else: els; next:
//
// and drops the goto when there is no else code.
func (f *funcGen) ifStmt(s *ast.IfStmt) []byte {
	cond, onFalse := f.cond(s.Cond)
	then := f.stmt(s.Then)
	els := f.stmt(s.Else)

	elseStart := len(cond) + bytecode.JumpLen + len(then)
	if len(els) > 0 {
		elseStart += bytecode.JumpLen
	}
	out := append(cond, f.u2(onFalse, elseStart)...)
	out = f.splice(out, then)
	if len(els) > 0 {
		out = append(out, f.u2(bytecode.OpGoto, elseStart+len(els))...)
		out = f.splice(out, els)
	}
	return out
}

// forStmt lays out
//
//	init; top: cond; onFalse next; body; post; goto top; next:
//
// A missing condition loops until a return leaves the function.
func (f *funcGen) forStmt(s *ast.ForStmt) []byte {
	init := f.stmt(s.Init)
	var (
		cond    []byte
		onFalse bytecode.Opcode
	)
	hasCond := s.Cond.IsValid()
	if hasCond {
		cond, onFalse = f.cond(s.Cond)
	}
	body := f.stmt(s.Body)
	var post []byte
	if s.Post.IsValid() {
		post = f.expr(s.Post, usageStatement)
	}

	top := len(init)
	next := top + len(cond) + len(body) + len(post) + bytecode.JumpLen
	if hasCond {
		next += bytecode.JumpLen
	}
	out := f.splice(init, cond)
	if hasCond {
		out = append(out, f.u2(onFalse, next)...)
	}
	out = f.splice(out, body)
	out = f.splice(out, post)
	return append(out, f.u2(bytecode.OpGoto, top)...)
}
