package source

import "fmt"

// Span is a half-open byte range [Start, End) inside one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// At returns the empty span at off.
func At(file FileID, off uint32) Span { return Span{File: file, Start: off, End: off} }

func (s Span) Empty() bool    { return s.End <= s.Start }
func (s Span) Len() uint32    { return s.End - s.Start }
func (s Span) String() string { return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End) }

// Cover extends s to include other. Spans of another file leave s as is.
func (s Span) Cover(other Span) Span {
	if s.File == other.File {
		s.Start, s.End = min(s.Start, other.Start), max(s.End, other.End)
	}
	return s
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

// Shift rebases a span measured inside an embedded text (a CODE body) onto
// the enclosing file.
func (s Span) Shift(n uint32) Span {
	s.Start += n
	s.End += n
	return s
}
