// Package token defines lexical token kinds and trivia for PlayScript.
// Invariants:
//   - Token.Span covers the exact source bytes of the token.
//   - Token.Text is the raw source text, except for StringLit where it holds
//     the decoded, NFC-normalized value without quotes.
//   - Built-in type names (any, number, integer, ...) are identifiers.
//     They are recognized by the semantic layer, not the lexer.
package token
