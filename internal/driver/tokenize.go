package driver

import (
	"aoc/internal/diag"
	"aoc/internal/lexer"
	"aoc/internal/source"
	"aoc/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
	Err     *diag.Error // первая лексическая ошибка
}

// Tokenize loads path and scans it to EOF. Only I/O failures are returned
// as errors; lexical errors land in Bag and Err.
func Tokenize(path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return tokenizeFile(fs, fs.Get(fileID), opts), nil
}

// TokenizeSource scans in-memory content registered under name.
func TokenizeSource(name string, src []byte, opts Options) *TokenizeResult {
	fs := source.NewFileSet()
	content, flags := source.Normalize(src)
	fileID := fs.Add(name, content, flags|source.FileVirtual)
	return tokenizeFile(fs, fs.Get(fileID), opts)
}

func tokenizeFile(fs *source.FileSet, file *source.File, opts Options) *TokenizeResult {
	bag := diag.NewBag(opts.maxDiagnostics())
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	// Токенизация: собираем все токены до EOF
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	opts.count("files", 1)
	opts.count("tokens", len(tokens))

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
		Err:     lx.Err(),
	}
}
