package sema

import (
	"playscript/internal/ast"
	"playscript/internal/types"
)

// Info holds the per-expression annotations produced by the passes.
type Info struct {
	// Types is filled by the checker. Expressions whose checking failed
	// have no entry; later passes skip them.
	Types map[ast.ExprID]types.TypeID
	// LeftValues marks expressions that may be assigned or incremented.
	LeftValues map[ast.ExprID]bool
	// Conversions lists the integer_to_string calls the converter inserted.
	Conversions []ast.ExprID
}

func NewInfo() *Info {
	return &Info{
		Types:      make(map[ast.ExprID]types.TypeID),
		LeftValues: make(map[ast.ExprID]bool),
	}
}

// TypeOf returns the checked type of id or NoTypeID.
func (i *Info) TypeOf(id ast.ExprID) types.TypeID {
	return i.Types[id]
}
