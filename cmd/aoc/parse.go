package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aoc/internal/ast"
	"aoc/internal/diag"
	"aoc/internal/diagfmt"
	"aoc/internal/driver"
	"aoc/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.Mod|directory>",
	Short: "Parse an Active Oberon source file or directory and output AST",
	Long: `Parse analyzes an Active Oberon source file or all module files in a
directory and outputs their syntax trees. Parsing stops at the first error
of each file.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|tree)")
	parseCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	s := current

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "tree":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	s.opts.Jobs = jobs

	// Проверяем, файл это или директория
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	if !st.IsDir() {
		result, err := driver.Parse(cmd.Context(), path, s.opts)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		s.printTimer(os.Stderr)
		if result.Err != nil {
			diagfmt.RenderError(os.Stderr, result.Err, result.FileSet, result.File.ID, s.pretty)
			return errReported
		}
		if err := s.reportDiagnostics(result.Bag, result.FileSet); err != nil {
			return err
		}
		return printAST(format, result.Module, result.FileSet)
	}

	fs, results, err := driver.ParseDir(cmd.Context(), path, s.opts)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	bag := diag.NewBag(s.cfg.MaxDiagnostics)
	parsed := 0
	for _, r := range results {
		bag.Merge(r.Bag)
		if r.Module == nil {
			continue
		}
		parsed++
		if s.quiet {
			continue
		}
		fmt.Fprintf(os.Stdout, "== %s ==\n", r.Path)
		if err := printAST(format, r.Module, fs); err != nil {
			return err
		}
	}
	bag.Sort()
	if !s.quiet {
		fmt.Fprintf(os.Stderr, "parsed %d of %d file(s)\n", parsed, len(results))
	}
	s.printTimer(os.Stderr)
	return s.reportDiagnostics(bag, fs)
}

func printAST(format string, m *ast.Module, fs *source.FileSet) error {
	switch format {
	case "json":
		return diagfmt.FormatASTJSON(os.Stdout, m)
	case "tree":
		return diagfmt.FormatASTTree(os.Stdout, m)
	default:
		return diagfmt.FormatASTPretty(os.Stdout, m, fs)
	}
}
