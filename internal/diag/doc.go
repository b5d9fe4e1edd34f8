// Package diag defines the diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the lexer, parser and semantic passes.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: info, warning or error. Only errors stop the pipeline before
//     code generation; a warning such as SEM3017 (missing return) does not.
//   - Code: numeric identifier (see codes.go) printed as LEX/SYN/SEM/GEN/IO
//     plus four digits.
//   - Message: human oriented text; keep it short and actionable.
//   - Primary: the source.Span the finding points at.
//   - Notes: optional secondary spans with their own messages.
//
// # Emitting diagnostics
//
// Phases should use a diag.Reporter to decouple emission from storage. Passes
// construct a ReportBuilder via ReportError/ReportWarning and chain WithNote
// before calling Emit. BagReporter aggregates diagnostics into a Bag, which
// supports sorting, deduplication and error counting.
//
// Package diag does not perform any formatting or IO. Rendering lives in
// internal/diagfmt.
package diag
