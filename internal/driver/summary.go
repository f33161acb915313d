package driver

import (
	"aoc/internal/ast"
	"aoc/internal/diag"
	"aoc/internal/lexer"
	"aoc/internal/project"
	"aoc/internal/source"
	"aoc/internal/token"
)

// Current schema version - increment when Summary format changes
const summarySchemaVersion uint16 = 1

// SummaryImport is one entry of the import list with its byte range.
type SummaryImport struct {
	Name  string
	Alias string
	Start uint32
	End   uint32
}

// SummaryDiag is a diagnostic detached from its FileSet.
type SummaryDiag struct {
	Severity uint8
	Code     uint16
	Start    uint32
	End      uint32
	Message  string
}

// Summary is what the module check needs to know about one file. It is
// small enough to be cached on disk instead of reparsing unchanged files.
type Summary struct {
	Schema uint16

	Module      string // квалифицированное имя, пусто если заголовок не разобран
	ModuleStart uint32
	ModuleEnd   uint32
	Imports     []SummaryImport

	Consts     int
	Types      int
	Vars       int
	Procedures int // включая вложенные и методы
	Operators  int
	CodeBlocks int
	CodeBytes  int

	Broken      bool
	Diagnostics []SummaryDiag
	ContentHash project.Digest
}

// Summarize collects the summary of a parsed module. m may be nil when
// parsing failed; the module header is then recovered by a token scan so
// the file still takes its place in the module graph.
func Summarize(m *ast.Module, file *source.File, bag *diag.Bag) Summary {
	s := Summary{Schema: summarySchemaVersion, ContentHash: file.Hash}
	if bag != nil {
		for _, d := range bag.Items() {
			s.Diagnostics = append(s.Diagnostics, SummaryDiag{
				Severity: uint8(d.Severity),
				Code:     uint16(d.Code),
				Start:    d.Primary.Start,
				End:      d.Primary.End,
				Message:  d.Message,
			})
		}
		s.Broken = bag.HasErrors()
	}
	if m == nil {
		s.Broken = true
		s.Module, s.ModuleStart, s.ModuleEnd = scanHeader(file)
		return s
	}

	meta := project.MetaFromAST(m, file)
	s.Module, s.ModuleStart, s.ModuleEnd = meta.Name, meta.Span.Start, meta.Span.End
	for _, imp := range meta.Imports {
		s.Imports = append(s.Imports, SummaryImport{
			Name:  imp.Name,
			Alias: imp.Alias,
			Start: imp.Span.Start,
			End:   imp.Span.End,
		})
	}
	if d := m.Decls; d != nil {
		s.Consts, s.Types, s.Vars, s.Operators = len(d.Consts), len(d.Types), len(d.Vars), len(d.Operators)
	}
	ast.Inspect(m, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.ProcDecl:
			s.Procedures++
		case *ast.CodeBlock:
			s.CodeBlocks++
			if n.Asm != nil {
				s.CodeBytes += len(n.Asm.Code)
			}
		}
		return true
	})
	return s
}

// Meta rebuilds the module metadata with spans pointing into file.
func (s *Summary) Meta(file *source.File) project.ModuleMeta {
	meta := project.ModuleMeta{
		Name:        s.Module,
		Path:        file.Path,
		Span:        source.Span{File: file.ID, Start: s.ModuleStart, End: s.ModuleEnd},
		ContentHash: s.ContentHash,
	}
	for _, imp := range s.Imports {
		meta.Imports = append(meta.Imports, project.ImportMeta{
			Name:  imp.Name,
			Alias: imp.Alias,
			Span:  source.Span{File: file.ID, Start: imp.Start, End: imp.End},
		})
	}
	return meta
}

// Restore adds the stored diagnostics of the file to bag.
func (s *Summary) Restore(file source.FileID, bag *diag.Bag) {
	for _, d := range s.Diagnostics {
		bag.Add(diag.Diagnostic{
			Severity: diag.Severity(d.Severity),
			Code:     diag.Code(d.Code),
			Message:  d.Message,
			Primary:  source.Span{File: file, Start: d.Start, End: d.End},
		})
	}
}

// FirstError returns the first stored error diagnostic.
func (s *Summary) FirstError(file source.FileID) *diag.Diagnostic {
	for _, d := range s.Diagnostics {
		if diag.Severity(d.Severity) == diag.SevError {
			out := diag.NewError(diag.Code(d.Code), source.Span{File: file, Start: d.Start, End: d.End}, d.Message)
			return &out
		}
	}
	return nil
}

// scanHeader reads MODULE ['(' ... ')'] name [IN context] from the token
// stream without building a tree. It returns the qualified name and the
// byte range from MODULE to the name, or "" when the header is unreadable.
func scanHeader(file *source.File) (string, uint32, uint32) {
	lx := lexer.New(file, lexer.Options{})
	tok := lx.Next()
	if tok.Kind != token.KwModule {
		return "", 0, 0
	}
	start := tok.Span.Start
	tok = lx.Next()
	if tok.Kind == token.LParen {
		for depth := 1; depth > 0; {
			tok = lx.Next()
			switch tok.Kind {
			case token.LParen:
				depth++
			case token.RParen:
				depth--
			case token.EOF, token.Invalid:
				return "", 0, 0
			}
		}
		tok = lx.Next()
	}
	if tok.Kind != token.Ident {
		return "", 0, 0
	}
	name, end := tok.Text, tok.Span.End
	if lx.Peek().Kind == token.KwIn {
		lx.Next()
		if ctx := lx.Next(); ctx.Kind == token.Ident {
			return project.QualifiedName(name, ctx.Text), start, ctx.Span.End
		}
	}
	return name, start, end
}
