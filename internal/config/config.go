// Package config loads aoc.toml, the optional per-tree settings file.
//
// The file is searched upward from the input path. Every key is optional;
// command-line flags override whatever the file sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"aoc/internal/isa"
)

// FileName is the name looked up by Find.
const FileName = "aoc.toml"

// DefaultMaxDiagnostics caps rendered diagnostics when nothing else is set.
const DefaultMaxDiagnostics = 100

// Config is the decoded and validated content of aoc.toml.
type Config struct {
	Path string // пустой, если файл не найден

	Arch           isa.Arch
	CPU            isa.Flags // 0: isa.Baseline(Arch)
	MaxDiagnostics int
	Extensions     []string

	TraceLevel  string
	TraceOutput string
	TraceFormat string
}

type fileConfig struct {
	Build struct {
		Target         string   `toml:"target"`
		CPU            []string `toml:"cpu"`
		MaxDiagnostics int      `toml:"max_diagnostics"`
		Extensions     []string `toml:"extensions"`
	} `toml:"build"`
	Trace struct {
		Level  string `toml:"level"`
		Output string `toml:"output"`
		Format string `toml:"format"`
	} `toml:"trace"`
}

// Default returns the settings used when no aoc.toml exists.
func Default() Config {
	return Config{
		Arch:           isa.ArchAMD64,
		MaxDiagnostics: DefaultMaxDiagnostics,
		Extensions:     []string{".Mod", ".mod"},
		TraceLevel:     "off",
		TraceOutput:    "stderr",
		TraceFormat:    "auto",
	}
}

// Find walks up from startDir to locate aoc.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes the file at path on top of Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg, err := Decode(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Discover finds aoc.toml above startDir and loads it. Without a file the
// defaults are returned.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Decode parses TOML text. Keys that are absent keep their default value.
func Decode(text string) (Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(text, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown key %q", undecoded[0].String())
	}

	cfg := Default()
	if meta.IsDefined("build", "target") {
		arch, err := isa.ParseArch(raw.Build.Target)
		if err != nil {
			return Config{}, fmt.Errorf("[build].target: %w", err)
		}
		cfg.Arch = arch
	}
	if meta.IsDefined("build", "cpu") {
		flags, err := isa.ParseFlags(strings.Join(raw.Build.CPU, ","))
		if err != nil {
			return Config{}, fmt.Errorf("[build].cpu: %w", err)
		}
		cfg.CPU = flags
	}
	if meta.IsDefined("build", "max_diagnostics") {
		if raw.Build.MaxDiagnostics < 0 {
			return Config{}, fmt.Errorf("[build].max_diagnostics must not be negative")
		}
		cfg.MaxDiagnostics = raw.Build.MaxDiagnostics
	}
	if meta.IsDefined("build", "extensions") {
		cfg.Extensions = cfg.Extensions[:0]
		for _, ext := range raw.Build.Extensions {
			ext = strings.TrimSpace(ext)
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			cfg.Extensions = append(cfg.Extensions, ext)
		}
		if len(cfg.Extensions) == 0 {
			return Config{}, fmt.Errorf("[build].extensions must not be empty")
		}
	}
	if meta.IsDefined("trace", "level") {
		cfg.TraceLevel = raw.Trace.Level
	}
	if meta.IsDefined("trace", "output") {
		cfg.TraceOutput = raw.Trace.Output
	}
	if meta.IsDefined("trace", "format") {
		cfg.TraceFormat = raw.Trace.Format
	}
	return cfg, nil
}

// HasSourceExt reports whether name carries one of the configured extensions.
func (c Config) HasSourceExt(name string) bool {
	ext := filepath.Ext(name)
	for _, want := range c.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// EffectiveCPU returns the configured capability set or the arch baseline.
func (c Config) EffectiveCPU() isa.Flags {
	if c.CPU != 0 {
		return c.CPU
	}
	return isa.Baseline(c.Arch)
}
