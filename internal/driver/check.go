package driver

import (
	"context"
	"fmt"
	"time"

	"aoc/internal/ast"
	"aoc/internal/buildpipeline"
	"aoc/internal/diag"
	"aoc/internal/project"
	"aoc/internal/project/dag"
	"aoc/internal/source"
	"aoc/internal/trace"
)

// CheckFile is the outcome for one file of a checked tree.
type CheckFile struct {
	Path    string // путь для отображения, относительно корня
	FileID  source.FileID
	Summary Summary
	Module  *ast.Module // nil при ошибке или если взято из кэша
	Meta    project.ModuleMeta
	Bag     *diag.Bag
	Cached  bool
}

// CheckResult is the outcome of Check.
type CheckResult struct {
	FileSet *source.FileSet
	Files   []CheckFile
	Order   []string   // порядок загрузки модулей
	Batches [][]string // волны независимых модулей
	Cycles  []string
	Bag     *diag.Bag // все диагностики, отсортированы
	Timings buildpipeline.Timings
	Hits    int // файлов из кэша
}

// Broken reports whether any file has errors.
func (r *CheckResult) Broken() bool {
	return r.Bag.HasErrors()
}

// Check parses every source under root in parallel, reusing cached
// summaries of unchanged files, and then checks the module graph:
// duplicate modules, self imports, import cycles and imports of modules
// with errors.
func Check(ctx context.Context, root string, opts Options) (*CheckResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "check", trace.ParentFromContext(ctx))
	defer span.End("")
	ctx = trace.WithParent(ctx, span)

	started := time.Now()
	set, err := loadSources(root, opts)
	if err != nil {
		return nil, err
	}
	res := &CheckResult{FileSet: set.fs, Files: make([]CheckFile, len(set.files))}
	res.Timings.Add(buildpipeline.StageLoad, time.Since(started))

	display := make([]string, len(set.files))
	for i, f := range set.files {
		display[i] = buildpipeline.DisplayPath(f, set.fs.BaseDir())
	}
	buildpipeline.EmitQueued(opts.Progress, display)

	started = time.Now()
	done := opts.beginPhase("parse")
	err = set.forEach(ctx, opts, func(ctx context.Context, i int) error {
		res.Files[i] = checkOne(ctx, set, i, display[i], opts)
		return nil
	})
	for _, f := range res.Files {
		if f.Cached {
			res.Hits++
		}
	}
	done(fmt.Sprintf("%d files, %d cached", len(set.files), res.Hits))
	res.Timings.Add(buildpipeline.StageParse, time.Since(started))
	if err != nil {
		return nil, err
	}
	opts.count("cache_hits", res.Hits)

	started = time.Now()
	done = opts.beginPhase("graph")
	buildpipeline.Emit(opts.Progress, buildpipeline.Event{Stage: buildpipeline.StageGraph, Status: buildpipeline.StatusWorking})
	checkGraph(res)
	elapsed := time.Since(started)
	res.Timings.Add(buildpipeline.StageGraph, elapsed)
	done(fmt.Sprintf("%d modules", len(res.Order)))

	res.Bag = diag.NewBag(opts.maxDiagnostics())
	for _, f := range res.Files {
		res.Bag.Merge(f.Bag)
	}
	res.Bag.Sort()
	status := buildpipeline.StatusDone
	if res.Bag.HasErrors() {
		status = buildpipeline.StatusError
	}
	buildpipeline.Emit(opts.Progress, buildpipeline.Event{Stage: buildpipeline.StageGraph, Status: status, Elapsed: elapsed})
	return res, nil
}

// checkOne produces the summary of file i, from the cache when possible.
func checkOne(ctx context.Context, set *sourceSet, i int, name string, opts Options) CheckFile {
	started := time.Now()
	out := CheckFile{Path: name, FileID: set.ids[i]}
	emit := func(status buildpipeline.Status, err error) {
		buildpipeline.Emit(opts.Progress, buildpipeline.Event{
			File:    name,
			Stage:   buildpipeline.StageParse,
			Status:  status,
			Err:     err,
			Elapsed: time.Since(started),
		})
	}

	if bag := set.loadFailure(i, opts); bag != nil {
		out.Bag = bag
		out.Summary = Summary{Schema: summarySchemaVersion, Broken: true}
		emit(buildpipeline.StatusError, set.loadErrs[i])
		return out
	}
	file := set.fs.Get(set.ids[i])
	emit(buildpipeline.StatusWorking, nil)

	out.Bag = diag.NewBag(opts.maxDiagnostics())
	key := CacheKey(project.Digest(file.Hash), opts)
	if opts.Cache != nil {
		hit, err := opts.Cache.Get(key, &out.Summary)
		if err != nil {
			out.Bag.Add(diag.NewWarning(diag.IOCacheError, source.Span{File: file.ID},
				"summary cache: "+err.Error()))
		}
		if hit {
			out.Cached = true
			out.Summary.Restore(file.ID, out.Bag)
			out.Meta = out.Summary.Meta(file)
			emit(buildpipeline.StatusCached, nil)
			return out
		}
	}

	parsed := parseFile(ctx, set.fs, file, opts)
	out.Module = parsed.Module
	out.Bag.Merge(parsed.Bag)
	out.Summary = Summarize(parsed.Module, file, parsed.Bag)
	out.Meta = out.Summary.Meta(file)
	if opts.Cache != nil {
		if err := opts.Cache.Put(key, &out.Summary); err != nil {
			out.Bag.Add(diag.NewWarning(diag.IOCacheError, source.Span{File: file.ID},
				"summary cache: "+err.Error()))
		}
	}
	if out.Summary.Broken {
		emit(buildpipeline.StatusError, parsed.Err)
	} else {
		emit(buildpipeline.StatusDone, nil)
	}
	return out
}

// checkGraph links the modules of res and fills the order, the cycles and
// the module hashes. Graph diagnostics go to the bag of the file at fault.
func checkGraph(res *CheckResult) {
	metas := make([]project.ModuleMeta, 0, len(res.Files))
	nodes := make([]dag.ModuleNode, 0, len(res.Files))
	owner := make(map[string]int, len(res.Files))
	for i := range res.Files {
		f := &res.Files[i]
		if f.Meta.Name == "" {
			continue
		}
		metas = append(metas, f.Meta)
		nodes = append(nodes, dag.ModuleNode{
			Meta:     f.Meta,
			Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: f.Bag}),
			Broken:   f.Summary.Broken,
			FirstErr: f.Summary.FirstError(f.FileID),
		})
		if _, dup := owner[f.Meta.Name]; !dup {
			owner[f.Meta.Name] = i
		}
	}

	idx := dag.BuildIndex(metas)
	graph, slots := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(graph)
	dag.ReportCycles(idx, slots, topo)
	dag.ReportBrokenDeps(idx, slots)
	dag.Hashes(graph, slots, topo)

	res.Order = idx.Names(topo.Order)
	res.Cycles = idx.Names(topo.Cycles)
	for _, batch := range topo.Batches {
		res.Batches = append(res.Batches, idx.Names(batch))
	}
	for _, slot := range slots {
		if i, ok := owner[slot.Meta.Name]; ok && slot.Present {
			res.Files[i].Meta.ModuleHash = slot.Meta.ModuleHash
		}
	}
}
