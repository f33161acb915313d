package lexer

import (
	"aoc/internal/diag"
	"aoc/internal/token"
)

// scanString читает '...' или "..." без escape-последовательностей.
// Перевод строки или EOF внутри строки: ошибка.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	quote := lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || b == '\r' {
			break
		}
		lx.cursor.Bump()
		if b == quote {
			return lx.emit(token.String, start)
		}
	}
	tok := lx.invalid(start)
	lx.fail(diag.LexUnterminatedString, tok.Span, "unterminated string")
	return tok
}
