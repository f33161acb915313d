package lexer

import (
	"aoc/internal/diag"
	"aoc/internal/source"
)

// CaptureRaw returns the span of raw text between the current position and
// the next END keyword, leaving END as the next token. It is used for CODE
// blocks, whose contents follow the assembler's lexical rules: ';' starts a
// line comment and quotes delimit strings, so END inside either is skipped.
// A buffered lookahead token is discarded and rescanned as raw text.
func (lx *Lexer) CaptureRaw() (source.Span, bool) {
	if lx.look != nil {
		lx.cursor.Reset(Mark(lx.look.Span.Start))
		lx.look = nil
	}
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == ';':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case b == '\'' || b == '"':
			lx.cursor.Bump()
			for !lx.cursor.EOF() {
				c := lx.cursor.Bump()
				if c == b || c == '\n' {
					break
				}
			}
		case isIdentStartByte(b):
			word := lx.cursor.Mark()
			for isIdentContinueByte(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			if string(lx.file.Content[word:lx.cursor.Off]) == "END" {
				lx.cursor.Reset(word)
				return source.Span{File: lx.file.ID, Start: uint32(start), End: uint32(word)}, true
			}
		case isDec(b):
			for isIdentContinueByte(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		default:
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.fail(diag.SynUnterminatedCode, sp, "missing END after CODE block")
	return sp, false
}
