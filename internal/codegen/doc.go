// Package codegen lowers a checked syntax tree into a bytecode module.
//
// Every construct compiles into a segment whose jump targets are relative
// to the segment start. Segments are spliced into their parent with
// bytecode.Relocate, so layout decisions only need the lengths of the
// sub-segments and the fixed size of a jump.
//
// The constant pool starts with the intrinsics in symbol-table order,
// followed by main and the user functions in declaration order. Number
// and string constants are appended as they are met; each distinct value
// is stored once.
package codegen
