// Package bytecode defines the instruction set, the in-memory Module the
// compiler produces and the VM consumes, and the persisted binary form.
//
// Instructions are one opcode byte followed by fixed-width big-endian
// operands. Jump operands are absolute offsets inside the enclosing
// function body.
package bytecode
