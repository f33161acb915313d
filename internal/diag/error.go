package diag

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"aoc/internal/source"
)

// positionMarker prefixes the byte offset at the end of every fail-fast
// message. Renderers recover the offset from the message text.
const positionMarker = "position: '"

// Error is the fail-fast error produced by the scanner, parser and inline
// assembler. Error() always ends with position: '<offset>'.
type Error struct {
	Code    Code
	Message string
	Span    source.Span
}

// Errorf builds an Error at span.
func Errorf(code Code, span source.Span, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Span: span}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s%d'", e.Message, positionMarker, e.Span.Start)
}

// Diagnostic converts the error into a Diagnostic record.
func (e *Error) Diagnostic() Diagnostic {
	return NewError(e.Code, e.Span, e.Message)
}

// Report forwards the error to r as an error diagnostic.
func (e *Error) Report(r Reporter) {
	if e == nil || r == nil {
		return
	}
	r.Report(e.Code, SevError, e.Span, e.Message, nil)
}

// PositionFromMessage extracts the offset from the trailing
// position: '<n>' of a fail-fast message.
func PositionFromMessage(msg string) (uint32, bool) {
	i := strings.LastIndex(msg, positionMarker)
	if i < 0 {
		return 0, false
	}
	rest := strings.TrimSuffix(msg[i+len(positionMarker):], "'")
	n, err := strconv.ParseUint(rest, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// AsError unwraps err to *Error when possible.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
