package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"aoc/internal/diag"
	"aoc/internal/diagfmt"
	"aoc/internal/source"
)

// reportDiagnostics prints bag to stderr. It returns errReported when the
// bag holds errors.
func (s *session) reportDiagnostics(bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	if s.quiet && !bag.HasErrors() {
		return nil
	}
	diagfmt.Pretty(os.Stderr, bag, fs, s.pretty)
	if n := bag.Count(diag.SevError); n > 0 {
		fmt.Fprintf(os.Stderr, "%d error(s), %d warning(s)\n", n, bag.Count(diag.SevWarning))
		return errReported
	}
	return nil
}

func (s *session) jsonOpts() diagfmt.JSONOpts {
	return diagfmt.JSONOpts{
		IncludePositions: true,
		IncludeNotes:     true,
		Max:              s.cfg.MaxDiagnostics,
	}
}

// printTimer writes the phase summary of the session timer, if enabled.
func (s *session) printTimer(out io.Writer) {
	if s.timer == nil {
		return
	}
	fmt.Fprint(out, s.timer.Summary())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
