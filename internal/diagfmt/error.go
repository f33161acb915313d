package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"aoc/internal/diag"
	"aoc/internal/source"
)

// RenderError prints a fail-fast error from the scanner, parser or
// assembler. The offset is taken from the trailing position: '<n>' of the
// message, so wrapped errors render the same way as bare ones. file is the
// unit the error belongs to; the span of a *diag.Error wins when present.
func RenderError(w io.Writer, err error, fs *source.FileSet, file source.FileID, opts PrettyOpts) {
	if err == nil {
		return
	}
	p := newPalette(opts.Color)
	d, ok := errorDiagnostic(err, fs, file)
	if !ok {
		fmt.Fprintf(w, "%s %s\n", p.err.Sprint("error:"), err.Error())
		return
	}
	prettyOne(w, &d, fs, opts, p)
}

func errorDiagnostic(err error, fs *source.FileSet, file source.FileID) (diag.Diagnostic, bool) {
	msg := err.Error()
	off, ok := diag.PositionFromMessage(msg)
	if !ok {
		return diag.Diagnostic{}, false
	}
	if de, isDiag := diag.AsError(err); isDiag {
		sp := de.Span
		if sp.Start != off {
			sp = source.At(sp.File, off)
		}
		return diag.NewError(de.Code, sp, de.Message), true
	}
	f, found := fs.Lookup(source.At(file, 0))
	if !found || off > f.Len() {
		return diag.Diagnostic{}, false
	}
	if i := strings.LastIndex(msg, " at position: '"); i >= 0 {
		msg = msg[:i]
	}
	return diag.NewError(diag.UnknownCode, source.At(file, off), msg), true
}
