// Package token defines lexical token kinds and trivia for .msg/.srv schemas.
// Invariants:
//   - Token.Text is the exact source text of Token.Span.
//   - Schemas are line oriented: every declaration ends with Newline or EOF.
//     Blank and comment-only lines are leading trivia, never Newline tokens.
//   - A comment after a declaration on the same line is attached to the
//     terminating Newline/EOF token as Trailing.
//   - Primitive type names (int32, string, ...) are identifiers; the resolver
//     recognizes them.
package token
