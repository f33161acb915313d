// Package driver runs the front-end over files and directories: loading,
// scanning, parsing (CODE blocks included), the module graph check and the
// on-disk summary cache.
package driver

import (
	"context"
	"runtime"
	"strings"

	"aoc/internal/buildpipeline"
	"aoc/internal/config"
	"aoc/internal/diag"
	"aoc/internal/isa"
	"aoc/internal/observ"
	"aoc/internal/parser"
	"aoc/internal/trace"
)

type Options struct {
	MaxDiagnostics int
	Arch           isa.Arch
	CPU            isa.Flags // 0: isa.Baseline(Arch)
	Jobs           int       // 0: GOMAXPROCS
	Extensions     []string  // расширения исходников для режимов с каталогом

	Timer    *observ.Timer              // может быть nil
	Cache    *DiskCache                 // может быть nil
	Progress buildpipeline.ProgressSink // может быть nil
}

// OptionsFromConfig copies the build settings of cfg.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		MaxDiagnostics: cfg.MaxDiagnostics,
		Arch:           cfg.Arch,
		CPU:            cfg.CPU,
		Extensions:     cfg.Extensions,
	}
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return config.DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

func (o Options) cpu() isa.Flags {
	if o.CPU == 0 {
		return isa.Baseline(o.Arch)
	}
	return o.CPU
}

func (o Options) jobs(files int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, files))
}

func (o Options) hasSourceExt(name string) bool {
	exts := o.Extensions
	if len(exts) == 0 {
		exts = config.Default().Extensions
	}
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func (o Options) parserOptions(ctx context.Context, r diag.Reporter) parser.Options {
	return parser.Options{
		Reporter:    r,
		Arch:        o.Arch,
		CPU:         o.CPU,
		Tracer:      trace.FromContext(ctx),
		TraceParent: trace.ParentFromContext(ctx),
	}
}

// beginPhase starts a timer phase; the returned func ends it.
func (o Options) beginPhase(name string) func(note string) {
	if o.Timer == nil {
		return func(string) {}
	}
	idx := o.Timer.Begin(name)
	return func(note string) { o.Timer.End(idx, note) }
}

func (o Options) count(name string, n int) {
	if o.Timer != nil && n != 0 {
		o.Timer.Count(name, int64(n))
	}
}
