package lexer

import (
	"aoc/internal/diag"
)

// skipTrivia пропускает пробелы, переводы строк и комментарии (* ... *).
// Комментарии вкладываются. Если комментарий не закрыт, возвращает его начало и false.
func (lx *Lexer) skipTrivia() (Mark, bool) {
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			lx.cursor.Bump()
		case b == '(' && lx.cursor.PeekAt(1) == '*':
			start := lx.cursor.Mark()
			if !lx.skipComment() {
				return start, false
			}
		default:
			return 0, true
		}
	}
	return 0, true
}

func (lx *Lexer) skipComment() bool {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	depth := 1
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		switch {
		case b == '(' && lx.cursor.Peek() == '*':
			lx.cursor.Bump()
			depth++
		case b == '*' && lx.cursor.Peek() == ')':
			lx.cursor.Bump()
			depth--
			if depth == 0 {
				return true
			}
		}
	}
	lx.fail(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated comment")
	return false
}
