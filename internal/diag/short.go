package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"aoc/internal/source"
)

// shortLine is one row of the short format; notes get their own rows.
type shortLine struct {
	label string
	code  string
	path  string
	pos   source.LineCol
	msg   string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.label, l.code, l.path, l.pos.Line, l.pos.Col, l.msg)
}

// FormatShortDiagnostics renders one line per diagnostic (and per note when
// includeNotes is set), sorted by location. Paths are relative to the file
// set's base directory so the output is stable across machines. Spans that
// do not belong to fs are skipped.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var lines []shortLine
	for i := range diags {
		d := &diags[i]
		code := d.Code.ID()
		if l, ok := shortAt(fs, d.Primary); ok {
			l.label, l.code, l.msg = d.Severity.Label(), code, flatten(d.Message)
			lines = append(lines, l)
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if l, ok := shortAt(fs, n.Span); ok {
				l.label, l.code, l.msg = "note", code, flatten(n.Msg)
				lines = append(lines, l)
			}
		}
	}

	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			strings.Compare(a.path, b.path),
			cmp.Compare(a.pos.Line, b.pos.Line),
			cmp.Compare(a.pos.Col, b.pos.Col),
			strings.Compare(a.label, b.label),
			strings.Compare(a.code, b.code),
			strings.Compare(a.msg, b.msg),
		)
	})

	rows := make([]string, len(lines))
	for i, l := range lines {
		rows[i] = l.String()
	}
	return strings.Join(rows, "\n")
}

func shortAt(fs *source.FileSet, sp source.Span) (shortLine, bool) {
	f, ok := fs.Lookup(sp)
	if !ok || sp.Start > f.Len() {
		return shortLine{}, false
	}
	path := filepath.ToSlash(f.FormatPath("relative", fs.BaseDir()))
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return shortLine{path: path, pos: f.Position(sp.Start)}, true
}

// flatten keeps a message on one line.
func flatten(msg string) string {
	return strings.TrimSpace(strings.Join(strings.FieldsFunc(msg, func(r rune) bool { return r == '\r' || r == '\n' }), " "))
}
