package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"

	"aoc/internal/ast"
	"aoc/internal/buildpipeline"
	"aoc/internal/diag"
	"aoc/internal/source"
	"aoc/internal/token"
	"aoc/internal/trace"
)

// TokenizeDirResult содержит результат токенизации одного файла
type TokenizeDirResult struct {
	Path   string        // путь к файлу
	FileID source.FileID // ID файла в FileSet
	Tokens []token.Token
	Bag    *diag.Bag
}

// ParseDirResult содержит результат парсинга одного файла
type ParseDirResult struct {
	Path   string
	FileID source.FileID
	Module *ast.Module // nil при ошибке
	Bag    *diag.Bag
	Err    error
}

// ListSources returns the sorted source files under root. A root that is a
// file is returned as is, whatever its extension.
func ListSources(root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && opts.hasSourceExt(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return files, nil
}

// sourceSet is a directory preloaded into one FileSet. Loading is
// sequential; workers only read the FileSet afterwards.
type sourceSet struct {
	fs       *source.FileSet
	files    []string
	ids      []source.FileID
	loadErrs []error
}

func loadSources(root string, opts Options) (*sourceSet, error) {
	files, err := ListSources(root, opts)
	if err != nil {
		return nil, err
	}
	done := opts.beginPhase("load")
	set := &sourceSet{
		fs:       source.NewFileSet(),
		files:    files,
		ids:      make([]source.FileID, len(files)),
		loadErrs: make([]error, len(files)),
	}
	if info, statErr := os.Stat(root); statErr == nil && info.IsDir() {
		set.fs.SetBaseDir(root)
	} else {
		set.fs.SetBaseDir(filepath.Dir(root))
	}
	for i, path := range files {
		set.ids[i], set.loadErrs[i] = set.fs.Load(path)
	}
	done("")
	return set, nil
}

// loadFailure returns a bag holding the I/O error of file i, or nil.
func (s *sourceSet) loadFailure(i int, opts Options) *diag.Bag {
	if s.loadErrs[i] == nil {
		return nil
	}
	bag := diag.NewBag(opts.maxDiagnostics())
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+s.loadErrs[i].Error()))
	return bag
}

// forEach runs fn for every file on a bounded errgroup. Results are stored
// by index, so fn needs no locking.
func (s *sourceSet) forEach(ctx context.Context, opts Options, fn func(ctx context.Context, i int) error) error {
	if len(s.files) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(s.files)))
	for i := range s.files {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

// TokenizeDir токенизирует все исходники каталога параллельно
func TokenizeDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []TokenizeDirResult, error) {
	set, err := loadSources(dir, opts)
	if err != nil {
		return nil, nil, err
	}
	done := opts.beginPhase("tokenize")
	defer done("")

	results := make([]TokenizeDirResult, len(set.files))
	err = set.forEach(ctx, opts, func(_ context.Context, i int) error {
		if bag := set.loadFailure(i, opts); bag != nil {
			results[i] = TokenizeDirResult{Path: set.files[i], Bag: bag}
			return nil
		}
		res := tokenizeFile(set.fs, set.fs.Get(set.ids[i]), opts)
		results[i] = TokenizeDirResult{Path: set.files[i], FileID: set.ids[i], Tokens: res.Tokens, Bag: res.Bag}
		return nil
	})
	return set.fs, results, err
}

// ParseDir парсит все исходники каталога параллельно. Each file is parsed
// independently and gets its own trace span under the one stored in ctx.
func ParseDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []ParseDirResult, error) {
	set, err := loadSources(dir, opts)
	if err != nil {
		return nil, nil, err
	}
	done := opts.beginPhase("parse")
	defer done("")

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "parse-dir", trace.ParentFromContext(ctx))
	defer span.End("")
	ctx = trace.WithParent(ctx, span)

	results := make([]ParseDirResult, len(set.files))
	err = set.forEach(ctx, opts, func(ctx context.Context, i int) error {
		if bag := set.loadFailure(i, opts); bag != nil {
			results[i] = ParseDirResult{Path: set.files[i], Bag: bag, Err: set.loadErrs[i]}
			return nil
		}
		res := parseFile(ctx, set.fs, set.fs.Get(set.ids[i]), opts)
		results[i] = ParseDirResult{Path: set.files[i], FileID: set.ids[i], Module: res.Module, Bag: res.Bag, Err: res.Err}
		buildpipeline.Emit(opts.Progress, buildpipeline.Event{
			File:   set.files[i],
			Stage:  buildpipeline.StageParse,
			Status: statusOf(res.Bag),
			Err:    res.Err,
		})
		return nil
	})
	return set.fs, results, err
}

func statusOf(bag *diag.Bag) buildpipeline.Status {
	if bag.HasErrors() {
		return buildpipeline.StatusError
	}
	return buildpipeline.StatusDone
}
