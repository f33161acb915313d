package diagfmt

import (
	"aoc/internal/diag"
	"aoc/internal/source"
)

// PositionJSON is a 1-based line and column.
type PositionJSON struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// LocationJSON always carries byte offsets; File and the line/column pair
// are filled only when the span resolves in the file set.
type LocationJSON struct {
	File      string        `json:"file,omitempty"`
	StartByte uint32        `json:"start_byte"`
	EndByte   uint32        `json:"end_byte"`
	Start     *PositionJSON `json:"start,omitempty"`
	End       *PositionJSON `json:"end,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the JSON document; Count may be below Total when
// JSONOpts.Max cut the list.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Total       int              `json:"total"`
}

type locator struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (l locator) at(sp source.Span) LocationJSON {
	loc := LocationJSON{StartByte: sp.Start, EndByte: sp.End}
	f, ok := l.fs.Lookup(sp)
	if !ok {
		return loc
	}
	loc.File = f.FormatPath(l.opts.PathMode.mode(), l.fs.BaseDir())
	if l.opts.IncludePositions {
		s, e := f.Position(sp.Start), f.Position(sp.End)
		loc.Start = &PositionJSON{Line: s.Line, Col: s.Col}
		loc.End = &PositionJSON{Line: e.Line, Col: e.Col}
	}
	return loc
}

// BuildDiagnosticsOutput converts the bag for encoding/json; the caller
// owns the encoder so the result can be embedded in larger documents.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
	}
	l := locator{fs: fs, opts: opts}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(items)), Total: bag.Len()}
	for _, d := range items {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: l.at(d.Primary),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: l.at(n.Span)})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}
