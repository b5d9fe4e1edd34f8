// Package trace is the logging layer of the toolchain.
//
// Every phase (lexing, parsing, the semantic passes, code generation,
// serialization and the VM) reports its progress as trace events instead of
// writing ad-hoc log lines.
//
// # Usage
//
//	play run --trace=- --trace-level=phase main.play
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is disabled
//   - StreamTracer: writes every event immediately (file or stderr)
//   - RingTracer: keeps the last N events for crash dumps
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// A Level selects which Scopes are emitted:
//
//   - LevelPhase: ScopeDriver and ScopePass (lex, parse, enter, resolve, ...)
//   - LevelDetail: adds ScopeFunction (per-function codegen, VM calls)
//   - LevelDebug: adds ScopeInstr (every executed VM instruction)
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer span.End("")
package trace
