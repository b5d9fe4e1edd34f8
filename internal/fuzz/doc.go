// Package fuzztests houses Go fuzz harnesses that exercise the playscript
// pipeline end to end: lexer, parser, semantic analysis, code generation,
// the module wire format and the VM. They guard against panics, hangs and
// unbounded execution on arbitrary inputs.
package fuzztests
