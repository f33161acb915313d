package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fortio.org/safecast"
)

// FileID identifies a file inside its FileSet; ids are dense and start at 0.
type FileID uint32

// FileFlags records how the content was obtained and what Normalize changed.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM                               // снят UTF-8 BOM
	FileNormalizedCRLF                       // CRLF заменены на LF
	FileNormalizedNFC                        // текст приведён к NFC
)

func (f FileFlags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, fl := range []struct {
		bit  FileFlags
		name string
	}{
		{FileVirtual, "virtual"},
		{FileHadBOM, "bom"},
		{FileNormalizedCRLF, "crlf"},
		{FileNormalizedNFC, "nfc"},
	} {
		if f&fl.bit != 0 {
			parts = append(parts, fl.name)
		}
	}
	return strings.Join(parts, "|")
}

// File is one loaded module text. Content is already normalized; LineIdx
// holds the offset of every '\n'.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte // sha256 нормализованного содержимого
	Flags   FileFlags
}

// LineCol is a 1-based line and byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}

func (lc LineCol) String() string {
	return fmt.Sprintf("%d:%d", lc.Line, lc.Col)
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, safecast.MustConv[uint32](i))
		}
	}
	return out
}

// Position maps a byte offset to its line and column. A newline belongs to
// the line it terminates.
func (f *File) Position(off uint32) LineCol {
	// количество переводов строки строго до off
	n := sort.Search(len(f.LineIdx), func(i int) bool { return f.LineIdx[i] >= off })
	var lineStart uint32
	if n > 0 {
		lineStart = f.LineIdx[n-1] + 1
	}
	return LineCol{Line: safecast.MustConv[uint32](n + 1), Col: off - lineStart + 1}
}

// Len returns the content length in bytes.
func (f *File) Len() uint32 {
	return safecast.MustConv[uint32](len(f.Content))
}

// Slice returns the source text covered by sp, clamped to the file.
func (f *File) Slice(sp Span) string {
	end := min(sp.End, f.Len())
	start := min(sp.Start, end)
	return string(f.Content[start:end])
}

// GetLine returns line lineNum (1-based) without its newline, or "" when
// the file has no such line.
func (f *File) GetLine(lineNum uint32) string {
	lines := uint32(len(f.LineIdx)) + 1
	if lineNum == 0 || lineNum > lines {
		return ""
	}
	start := uint32(0)
	if lineNum > 1 {
		start = f.LineIdx[lineNum-2] + 1
	}
	end := f.Len()
	if lineNum < lines {
		end = f.LineIdx[lineNum-1]
	}
	return string(f.Content[start:end])
}

// FormatPath renders the path for diagnostics. mode is one of "absolute",
// "relative", "basename" or "auto"; anything else returns Path as stored.
// Virtual names are never made absolute.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if f.Flags&FileVirtual != 0 {
			return f.Path
		}
		if abs, err := filepath.Abs(f.Path); err == nil {
			return normalizePath(abs)
		}
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return BaseName(f.Path)
	case "auto":
		// длинные абсолютные пути сворачиваем до имени файла
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return BaseName(f.Path)
		}
	}
	return f.Path
}
