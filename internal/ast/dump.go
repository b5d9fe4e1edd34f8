package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump prints the tree of file, one node per line, indented by depth.
func (b *Builder) Dump(w io.Writer, file FileID) error {
	var err error
	b.Walk(file, func(n Node, depth int) bool {
		if err != nil {
			return false
		}
		_, err = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), b.Describe(n))
		return true
	})
	return err
}

// Describe renders a single node without its children.
func (b *Builder) Describe(n Node) string {
	if n.Stmt.IsValid() {
		return b.describeStmt(n.Stmt)
	}
	return b.describeExpr(n.Expr)
}

func (b *Builder) describeStmt(id StmtID) string {
	st := b.Stmts.Get(id)
	var sb strings.Builder
	sb.WriteString(st.Kind.String())
	switch st.Kind {
	case StmtLet:
		s := b.Stmts.Let(id)
		fmt.Fprintf(&sb, " %s", s.Name)
		if s.Type.IsSet() {
			fmt.Fprintf(&sb, ": %s", s.Type.Name)
		}
	case StmtFunc:
		s := b.Stmts.Func(id)
		params := make([]string, len(s.Params))
		for i, p := range s.Params {
			params[i] = p.Name
			if p.Type.IsSet() {
				params[i] += ": " + p.Type.Name
			}
		}
		fmt.Fprintf(&sb, " %s(%s)", s.Name, strings.Join(params, ", "))
		if s.Result.IsSet() {
			fmt.Fprintf(&sb, ": %s", s.Result.Name)
		}
	case StmtIf:
		if b.Stmts.If(id).Else.IsValid() {
			sb.WriteString(" +else")
		}
	}
	if st.Err {
		sb.WriteString(" !err")
	}
	return sb.String()
}

func (b *Builder) describeExpr(id ExprID) string {
	e := b.Exprs.Get(id)
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	switch e.Kind {
	case ExprIdent:
		d, _ := b.Exprs.Ident(id)
		fmt.Fprintf(&sb, " %s", d.Name)
	case ExprLit:
		d, _ := b.Exprs.Literal(id)
		if d.Kind == LitString {
			fmt.Fprintf(&sb, " %q", d.Value)
		} else {
			fmt.Fprintf(&sb, " %s", d.Kind)
			if d.Kind == LitInt || d.Kind == LitDecimal {
				fmt.Fprintf(&sb, " %s", d.Value)
			}
		}
	case ExprCall:
		d, _ := b.Exprs.Call(id)
		fmt.Fprintf(&sb, " %s/%d", d.Name, len(d.Args))
	case ExprBinary:
		d, _ := b.Exprs.Binary(id)
		fmt.Fprintf(&sb, " %s", d.Op)
	case ExprUnary:
		d, _ := b.Exprs.Unary(id)
		if d.Postfix {
			fmt.Fprintf(&sb, " postfix %s", d.Op)
		} else {
			fmt.Fprintf(&sb, " %s", d.Op)
		}
	}
	if e.Err {
		sb.WriteString(" !err")
	}
	return sb.String()
}
