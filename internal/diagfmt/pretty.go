package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"aoc/internal/diag"
	"aoc/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	note            *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		code:   color.New(color.FgMagenta),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	items := bag.Items()
	shown := len(items)
	if opts.Max > 0 && opts.Max < shown {
		shown = opts.Max
	}
	for i := range shown {
		prettyOne(w, &items[i], fs, opts, p)
	}
	if shown < len(items) {
		fmt.Fprintf(w, "... %d more diagnostic(s) not shown\n", len(items)-shown)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f, ok := fs.Lookup(d.Primary)
	if !ok {
		fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity).Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
		return
	}
	pos := f.Position(d.Primary.Start)
	path := f.FormatPath(opts.PathMode.mode(), fs.BaseDir())
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprintf("%s:%d:%d", path, pos.Line, pos.Col),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message)
	writeSnippet(w, f, d.Primary, opts, p)

	if !opts.ShowNotes {
		return
	}
	for _, note := range d.Notes {
		nf, ok := fs.Lookup(note.Span)
		if !ok {
			fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), note.Msg)
			continue
		}
		np := nf.Position(note.Span.Start)
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
			nf.FormatPath(opts.PathMode.mode(), fs.BaseDir()), np.Line, np.Col, note.Msg)
	}
}

// writeSnippet печатает строку span'а (и Context строк до неё) с кареткой.
func writeSnippet(w io.Writer, f *source.File, sp source.Span, opts PrettyOpts, p palette) {
	pos := f.Position(sp.Start)
	first := pos.Line
	if opts.Context > 0 {
		ctx := uint32(opts.Context)
		if first > ctx {
			first -= ctx
		} else {
			first = 1
		}
	}
	gutterWidth := len(fmt.Sprint(pos.Line))
	for ln := first; ln <= pos.Line; ln++ {
		text := f.GetLine(ln)
		if opts.Width > 0 {
			text = runewidth.Truncate(text, opts.Width, "…")
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), text)
	}

	line := f.GetLine(pos.Line)
	rel := int(pos.Col) - 1
	if rel > len(line) {
		rel = len(line)
	}
	end := rel + int(sp.Len())
	if end > len(line) {
		end = len(line)
	}
	underline := max(runewidth.StringWidth(line[rel:end]), 1)
	marker := "^" + strings.Repeat("~", underline-1)
	fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), caretPadding(line[:rel]), p.caret.Sprint(marker))
}

// caretPadding повторяет табы строки и заменяет остальное пробелами по ширине.
func caretPadding(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}
