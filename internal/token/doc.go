// Package token defines lexical token kinds for Active Oberon sources.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Reserved words are upper-case and matched case-sensitively; everything
//     else that looks like a word is Ident.
//   - Comments and whitespace never reach the token stream.
package token
