package lexer

import (
	"aoc/internal/diag"
	"aoc/internal/source"
	"aoc/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
	last   token.Token  // последний выданный Next токен
	err    *diag.Error  // первая лексическая ошибка
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий значимый токен. Комментарии и пробелы пропускаются.
// Ошибка оформляется токеном Invalid; после EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		lx.last = tok
		return tok
	}
	lx.last = lx.scan()
	return lx.last
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		t := lx.scan()
		lx.look = &t
	}
	return *lx.look
}

// StartPos returns the start offset of the token most recently returned by Next.
func (lx *Lexer) StartPos() uint32 {
	return lx.last.Span.Start
}

// Err returns the first lexical error, if any.
func (lx *Lexer) Err() *diag.Error {
	return lx.err
}

// File returns the file being scanned.
func (lx *Lexer) File() *source.File {
	return lx.file
}

func (lx *Lexer) scan() token.Token {
	if start, ok := lx.skipTrivia(); !ok {
		return lx.invalid(start)
	}
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch):
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '\'' || ch == '"':
		return lx.scanString()
	default:
		return lx.scanOperatorOrPunct()
	}
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) invalid(start Mark) token.Token {
	return lx.emit(token.Invalid, start)
}

func (lx *Lexer) emptySpan() source.Span {
	return source.At(lx.file.ID, lx.cursor.Off)
}
