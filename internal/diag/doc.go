// Package diag defines the diagnostic model shared by every compiler phase.
//
// Phases never abort on the first problem. They report through a Reporter
// (usually a BagReporter) and keep going, so one run surfaces every schema
// error. A Diagnostic carries:
//
//   - Severity: Info, Warning or Error.
//   - Code: compact numeric identifier with a stable string ID (LEX, SYN, SEM,
//     IO, LAY, EMT, PRJ ranges). Code.Kind maps it onto the error taxonomy
//     (SyntaxError, UnresolvedTypeError, InvalidBoundError, CyclicTypeError,
//     InvalidDefaultError, DuplicateFieldError, IOError, plus layout and emit
//     failures).
//   - Primary: the source.Span of the offending token, or Path for problems
//     outside any loaded schema (unreadable input, unwritable output).
//   - Notes: secondary spans, e.g. the first declaration of a duplicate field.
//
// Bag.Err turns the collected errors into a joined Go error whose parts match
// the taxonomy sentinels (ErrSyntax, ErrUnresolvedType, ...) with errors.Is.
//
// Rendering lives in internal/diagfmt; FormatGoldenDiagnostics here is the
// stable one-line-per-entry form used by tests.
package diag
