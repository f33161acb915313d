package lexer

import (
	"aoc/internal/diag"
	"aoc/internal/token"
)

// scanNumber распознаёт:
//   - Integer: 123, 0FFH, 0ffh (суффикс H/h: шестнадцатеричное)
//   - Character: 41X (код символа, шестнадцатеричный)
//   - Real: 1.5, 1.5E10, 2.0D-3
//
// Лексема накапливает [0-9A-Fa-f]*; без суффикса все цифры обязаны быть десятичными.
// "1..2": целое 1 и затем "..".
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	allDec := true
	for isHex(lx.cursor.Peek()) {
		if !isDec(lx.cursor.Bump()) {
			allDec = false
		}
	}

	switch lx.cursor.Peek() {
	case 'H', 'h':
		lx.cursor.Bump()
		return lx.emit(token.Integer, start)
	case 'X':
		lx.cursor.Bump()
		return lx.emit(token.Character, start)
	}

	// Real: точка, за которой цифра. Иначе точка остаётся следующему токену.
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		if !allDec {
			return lx.badNumber(start, "non-decimal digit in real number")
		}
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		if lx.scanExponent() {
			return lx.emit(token.Real, start)
		}
		return lx.badNumber(start, "malformed exponent")
	}

	if !allDec {
		return lx.badNumber(start, "non-decimal digit in number without H or X suffix")
	}
	return lx.emit(token.Integer, start)
}

// scanExponent принимает (E|e|D|d)[+-]?digits; false если после маркера нет цифр.
func (lx *Lexer) scanExponent() bool {
	switch lx.cursor.Peek() {
	case 'E', 'e', 'D', 'd':
	default:
		return true
	}
	lx.cursor.Bump()
	if b := lx.cursor.Peek(); b == '+' || b == '-' {
		lx.cursor.Bump()
	}
	if !isDec(lx.cursor.Peek()) {
		return false
	}
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return true
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	// дочитываем хвост лексемы, чтобы ошибка покрывала её целиком
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	tok := lx.invalid(start)
	lx.fail(diag.LexBadNumber, tok.Span, msg)
	return tok
}
