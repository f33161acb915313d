package lexer

import (
	"aoc/internal/diag"
	"aoc/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil: тогда ошибка доступна только через Err()
}

// fail records the first lexical error and forwards every error to the reporter.
func (lx *Lexer) fail(code diag.Code, sp source.Span, msg string) {
	e := &diag.Error{Code: code, Message: msg, Span: sp}
	if lx.err == nil {
		lx.err = e
	}
	e.Report(lx.opts.Reporter)
}
