package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"aoc/internal/buildpipeline"
	"aoc/internal/diag"
	"aoc/internal/diagfmt"
	"aoc/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <directory|file.Mod>",
	Short: "Parse a source tree and check its module graph",
	Long: `Check parses every module of a source tree in parallel and links the
import graph: duplicate modules, self imports, import cycles and imports of
modules that failed to parse are reported, and the load order is printed.
Summaries of unchanged files are reused from the on-disk cache.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	checkCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().Bool("no-cache", false, "do not read or write the summary cache")
	checkCmd.Flags().Bool("clean-cache", false, "drop every cached summary before checking")
}

type checkFileJSON struct {
	Path   string `json:"path"`
	Module string `json:"module,omitempty"`
	Hash   string `json:"hash,omitempty"`
	Cached bool   `json:"cached"`
	Broken bool   `json:"broken"`
}

type checkJSON struct {
	Order       []string                  `json:"order"`
	Batches     [][]string                `json:"batches"`
	Cycles      []string                  `json:"cycles,omitempty"`
	Files       []checkFileJSON           `json:"files"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	s := current

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "short" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	cleanCache, err := cmd.Flags().GetBool("clean-cache")
	if err != nil {
		return fmt.Errorf("failed to get clean-cache flag: %w", err)
	}

	opts := s.opts
	opts.Jobs = jobs
	if !noCache {
		cache, cacheErr := driver.OpenDiskCache("aoc")
		if cacheErr != nil {
			fmt.Fprintf(os.Stderr, "warning: summary cache disabled: %v\n", cacheErr)
		} else {
			if cleanCache {
				if dropErr := cache.DropAll(); dropErr != nil {
					return fmt.Errorf("failed to clean cache: %w", dropErr)
				}
			}
			opts.Cache = cache
		}
	}

	var res *driver.CheckResult
	if shouldUseTUI(mode, s.quiet, format) {
		files, listErr := driver.ListSources(root, opts)
		if listErr != nil {
			return listErr
		}
		base := root
		if info, statErr := os.Stat(root); statErr == nil && !info.IsDir() {
			base = filepath.Dir(root)
		}
		res, err = runCheckWithUI(cmd.Context(), "check", root, buildpipeline.DisplayPaths(files, base), opts)
	} else {
		res, err = driver.Check(cmd.Context(), root, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if format == "json" {
		if err := writeJSON(os.Stdout, buildCheckJSON(res, s)); err != nil {
			return err
		}
		if res.Broken() {
			return errReported
		}
		return nil
	}

	if format == "short" {
		if out := diag.FormatShortDiagnostics(res.Bag.Items(), res.FileSet, true); out != "" {
			fmt.Fprintln(os.Stdout, out)
		}
		if res.Broken() {
			return errReported
		}
		return nil
	}

	if !s.quiet {
		printCheckSummary(os.Stdout, res)
	}
	if s.timings {
		printStageTimings(os.Stderr, res.Timings)
		s.printTimer(os.Stderr)
	}
	return s.reportDiagnostics(res.Bag, res.FileSet)
}

func printCheckSummary(out io.Writer, res *driver.CheckResult) {
	for i, batch := range res.Batches {
		fmt.Fprintf(out, "%3d  %s\n", i+1, strings.Join(batch, " "))
	}
	if len(res.Cycles) > 0 {
		fmt.Fprintf(out, "cycle: %s\n", strings.Join(res.Cycles, " "))
	}
	fmt.Fprintf(out, "checked %d file(s), %d module(s) in load order, %d cached\n",
		len(res.Files), len(res.Order), res.Hits)
}

func buildCheckJSON(res *driver.CheckResult, s *session) checkJSON {
	out := checkJSON{
		Order:       res.Order,
		Batches:     res.Batches,
		Cycles:      res.Cycles,
		Files:       make([]checkFileJSON, 0, len(res.Files)),
		Diagnostics: diagfmt.BuildDiagnosticsOutput(res.Bag, res.FileSet, s.jsonOpts()),
	}
	for _, f := range res.Files {
		entry := checkFileJSON{
			Path:   f.Path,
			Module: f.Meta.Name,
			Cached: f.Cached,
			Broken: f.Summary.Broken,
		}
		if !f.Meta.ModuleHash.IsZero() {
			entry.Hash = f.Meta.ModuleHash.String()
		}
		out.Files = append(out.Files, entry)
	}
	return out
}
