// Package sema runs the semantic passes over a parsed program: symbol entry,
// reference resolution, type checking, implicit string conversion and
// left-value attribution. Every pass reports recoverable diagnostics and
// keeps walking; Analyze reports failure through Result.Errors.
//
// Annotations live in side tables keyed by ast.ExprID (see Info). The
// converter is the only pass that changes tree shape: it returns the
// replacement ID for every expression and parents store what it returns.
package sema
