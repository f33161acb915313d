package driver

import (
	"context"

	"aoc/internal/ast"
	"aoc/internal/diag"
	"aoc/internal/parser"
	"aoc/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Module  *ast.Module // nil, если разбор остановился на ошибке
	Bag     *diag.Bag
	Err     error // первая ошибка разбора, *diag.Error
}

// Parse loads path and parses it as a module. Only I/O failures are
// returned as errors; the first lexical or syntax error is in Err and Bag.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return parseFile(ctx, fs, fs.Get(fileID), opts), nil
}

// ParseSource parses in-memory content registered under name.
func ParseSource(ctx context.Context, name string, src []byte, opts Options) *ParseResult {
	fs := source.NewFileSet()
	content, flags := source.Normalize(src)
	fileID := fs.Add(name, content, flags|source.FileVirtual)
	return parseFile(ctx, fs, fs.Get(fileID), opts)
}

func parseFile(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) *ParseResult {
	bag := diag.NewBag(opts.maxDiagnostics())
	m, err := parser.ParseModule(file, opts.parserOptions(ctx, diag.BagReporter{Bag: bag}))
	opts.count("files", 1)
	opts.count("bytes", len(file.Content))
	if m != nil {
		var blocks, code int
		ast.Inspect(m, func(n ast.Node) bool {
			if cb, ok := n.(*ast.CodeBlock); ok && cb.Asm != nil {
				blocks++
				code += len(cb.Asm.Code)
			}
			return true
		})
		opts.count("code_blocks", blocks)
		opts.count("code_bytes", code)
	}
	return &ParseResult{
		FileSet: fs,
		File:    file,
		Module:  m,
		Bag:     bag,
		Err:     err,
	}
}
