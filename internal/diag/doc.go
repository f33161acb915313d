// Package diag defines the diagnostic model shared by the scanner, parser and
// inline assembler.
//
// Diagnostic is the central record: Severity, a compact numeric Code with a
// stable string form (LEXnnnn, SYNnnnn, PRJnnnn, ASMnnnn, IOnnnn), a short Message, the
// Primary span and optional Notes.
//
// Front-end phases are fail-fast. The first problem is returned as *Error,
// whose message ends with position: '<offset>' so that a renderer holding only
// the error text can still point at the source. The same error is also sent to
// an optional Reporter so that drivers can collect diagnostics into a Bag.
//
// Besides FormatShortDiagnostics, the stable one-line form used by tests and
// `aoc check --format short`, rendering lives in internal/diagfmt.
package diag
