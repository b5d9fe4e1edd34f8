package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"playscript/internal/ast"
	"playscript/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span belongs to sf and lies within its content
// 2) every well-formed statement and expression span is ordered, points at
// sf and sits inside file.Span
// 3) top-level statements start in source order
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End < f.Span.Start || f.Span.End > lenContent {
		return fmt.Errorf("file span %v outside content of %d bytes", f.Span, lenContent)
	}

	var prev uint32
	for i, id := range f.Body {
		st := b.Stmts.Get(id)
		if st == nil {
			return fmt.Errorf("nil statement for id=%d", id)
		}
		if i > 0 && !st.Err && st.Span.Start < prev {
			return fmt.Errorf("statement %d starts at %d before its predecessor at %d", i, st.Span.Start, prev)
		}
		if !st.Err {
			prev = st.Span.Start
		}
	}

	var walkErr error
	b.Walk(fileID, func(n ast.Node, _ int) bool {
		if walkErr != nil {
			return false
		}
		var sp source.Span
		switch {
		case n.Stmt.IsValid():
			st := b.Stmts.Get(n.Stmt)
			if st.Err {
				return true
			}
			sp = st.Span
		default:
			ex := b.Exprs.Get(n.Expr)
			if ex.Err {
				return true
			}
			sp = ex.Span
		}
		walkErr = checkNodeSpan(b, n, sp, f.Span, sf.ID)
		return walkErr == nil
	})
	return walkErr
}

func checkNodeSpan(b *ast.Builder, n ast.Node, sp, file source.Span, id source.FileID) error {
	switch {
	case sp.End < sp.Start:
		return fmt.Errorf("%s has inverted span %v", b.Describe(n), sp)
	case sp.File != id:
		return fmt.Errorf("%s span file mismatch: got=%d want=%d", b.Describe(n), sp.File, id)
	case !file.Contains(sp):
		return fmt.Errorf("%s span %v is outside file span %v", b.Describe(n), sp, file)
	}
	return nil
}
