package ast

// Node is either a statement or an expression handle.
type Node struct {
	Stmt StmtID
	Expr ExprID
}

// WalkFunc is called for every node in pre-order. Returning false skips the
// node's children.
type WalkFunc func(n Node, depth int) bool

// Walk visits every top-level statement of file.
func (b *Builder) Walk(file FileID, fn WalkFunc) {
	f := b.Files.Get(file)
	if f == nil {
		return
	}
	for _, s := range f.Body {
		b.WalkStmt(s, 0, fn)
	}
}

func (b *Builder) WalkStmt(id StmtID, depth int, fn WalkFunc) {
	st := b.Stmts.Get(id)
	if st == nil || !fn(Node{Stmt: id}, depth) {
		return
	}
	d := depth + 1
	switch st.Kind {
	case StmtBlock:
		for _, c := range b.Stmts.Block(id).Stmts {
			b.WalkStmt(c, d, fn)
		}
	case StmtLet:
		b.WalkExpr(b.Stmts.Let(id).Init, d, fn)
	case StmtFunc:
		b.WalkStmt(b.Stmts.Func(id).Body, d, fn)
	case StmtReturn:
		b.WalkExpr(b.Stmts.Return(id).Value, d, fn)
	case StmtIf:
		s := b.Stmts.If(id)
		b.WalkExpr(s.Cond, d, fn)
		b.WalkStmt(s.Then, d, fn)
		b.WalkStmt(s.Else, d, fn)
	case StmtFor:
		s := b.Stmts.For(id)
		b.WalkStmt(s.Init, d, fn)
		b.WalkExpr(s.Cond, d, fn)
		b.WalkExpr(s.Post, d, fn)
		b.WalkStmt(s.Body, d, fn)
	case StmtExpr:
		b.WalkExpr(b.Stmts.Expr(id).Expr, d, fn)
	}
}

func (b *Builder) WalkExpr(id ExprID, depth int, fn WalkFunc) {
	if b.Exprs.Get(id) == nil || !fn(Node{Expr: id}, depth) {
		return
	}
	for _, c := range b.Exprs.Children(id) {
		b.WalkExpr(c, depth+1, fn)
	}
}
