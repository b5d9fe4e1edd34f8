package sema

import (
	"playscript/internal/ast"
	"playscript/internal/symbols"
	"playscript/internal/types"
)

type converter struct {
	builder  *ast.Builder
	table    *symbols.Table
	info     *Info
	str      types.TypeID
	toString symbols.SymbolID
}

// Convert wraps every non-string value used in a string context (string
// variable or parameter, string concatenation operand, string return) in a
// call to integer_to_string. It returns the number of inserted calls.
func Convert(builder *ast.Builder, fileID ast.FileID, table *symbols.Table, info *Info) int {
	file := builder.Files.Get(fileID)
	if file == nil {
		return 0
	}
	toString, ok := table.Builtin("integer_to_string")
	if !ok {
		panic("sema: integer_to_string intrinsic missing")
	}
	c := converter{
		builder:  builder,
		table:    table,
		info:     info,
		str:      table.Types.Builtins().String,
		toString: toString,
	}
	before := len(info.Conversions)
	for _, id := range file.Body {
		c.stmt(id, table.Main)
	}
	return len(info.Conversions) - before
}

// fn is the function whose body contains id.
func (c *converter) stmt(id ast.StmtID, fn symbols.SymbolID) {
	st := c.builder.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		for _, child := range c.builder.Stmts.Block(id).Stmts {
			c.stmt(child, fn)
		}
	case ast.StmtLet:
		let := c.builder.Stmts.Let(id)
		let.Init = c.expr(let.Init)
		if sym := c.table.Symbols.Get(c.table.Decls[id]); sym != nil {
			let.Init = c.coerce(let.Init, sym.Type)
		}
	case ast.StmtFunc:
		fnID, ok := c.table.Decls[id]
		if !ok {
			return
		}
		c.stmt(c.builder.Stmts.Func(id).Body, fnID)
	case ast.StmtReturn:
		ret := c.builder.Stmts.Return(id)
		ret.Value = c.expr(ret.Value)
		if sig, ok := c.table.FuncType(fn); ok {
			ret.Value = c.coerce(ret.Value, sig.Result)
		}
	case ast.StmtIf:
		ifs := c.builder.Stmts.If(id)
		ifs.Cond = c.expr(ifs.Cond)
		c.stmt(ifs.Then, fn)
		c.stmt(ifs.Else, fn)
	case ast.StmtFor:
		loop := c.builder.Stmts.For(id)
		c.stmt(loop.Init, fn)
		loop.Cond = c.expr(loop.Cond)
		loop.Post = c.expr(loop.Post)
		c.stmt(loop.Body, fn)
	case ast.StmtExpr:
		es := c.builder.Stmts.Expr(id)
		es.Expr = c.expr(es.Expr)
	}
}

// expr rewrites the subtree under id and returns the ID that replaces it.
func (c *converter) expr(id ast.ExprID) ast.ExprID {
	e := c.builder.Exprs.Get(id)
	if e == nil {
		return id
	}
	switch e.Kind {
	case ast.ExprCall:
		call, _ := c.builder.Exprs.Call(id)
		for i, arg := range call.Args {
			call.Args[i] = c.expr(arg)
		}
		if sig, ok := c.table.FuncType(c.table.Refs[id]); ok {
			for i := 0; i < len(call.Args) && i < len(sig.Params); i++ {
				call.Args[i] = c.coerce(call.Args[i], sig.Params[i])
			}
		}
	case ast.ExprBinary:
		bin, _ := c.builder.Exprs.Binary(id)
		bin.Left = c.expr(bin.Left)
		bin.Right = c.expr(bin.Right)
		switch {
		case bin.Op == ast.ExprBinaryAssign || bin.Op == ast.ExprBinaryAddAssign:
			bin.Right = c.coerce(bin.Right, c.info.Types[bin.Left])
		case bin.Op == ast.ExprBinaryAdd && c.info.Types[id] == c.str:
			bin.Left = c.coerce(bin.Left, c.str)
			bin.Right = c.coerce(bin.Right, c.str)
		}
	case ast.ExprUnary:
		un, _ := c.builder.Exprs.Unary(id)
		un.Operand = c.expr(un.Operand)
	}
	return id
}

// coerce wraps id when a string is expected and id has another known type.
func (c *converter) coerce(id ast.ExprID, want types.TypeID) ast.ExprID {
	if want != c.str {
		return id
	}
	t, ok := c.info.Types[id]
	if !ok || t == c.str {
		return id
	}
	span := c.builder.Exprs.Get(id).Span
	call := c.builder.Exprs.NewCall(span, "integer_to_string", span, []ast.ExprID{id})
	c.table.Refs[call] = c.toString
	c.info.Types[call] = c.str
	c.info.Conversions = append(c.info.Conversions, call)
	return call
}
