package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aoc/internal/diag"
	"aoc/internal/diagfmt"
	"aoc/internal/driver"
	"aoc/internal/source"
	"aoc/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file.Mod|directory>",
	Short: "Tokenize an Active Oberon source file or directory",
	Long:  `Tokenize breaks down an Active Oberon source file into its constituent tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	path := args[0]
	s := current

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	printTokens, err := tokenPrinter(format)
	if err != nil {
		return err
	}

	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if st.IsDir() {
		fs, results, err := driver.TokenizeDir(cmd.Context(), path, s.opts)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
		bag := diag.NewBag(s.cfg.MaxDiagnostics)
		for _, r := range results {
			bag.Merge(r.Bag)
			if s.quiet {
				continue
			}
			fmt.Fprintf(os.Stdout, "== %s ==\n", r.Path)
			if err := printTokens(r.Tokens, fs); err != nil {
				return err
			}
		}
		bag.Sort()
		s.printTimer(os.Stderr)
		return s.reportDiagnostics(bag, fs)
	}

	// Выполняем токенизацию
	result, err := driver.Tokenize(path, s.opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if err := printTokens(result.Tokens, result.FileSet); err != nil {
		return err
	}
	s.printTimer(os.Stderr)
	return s.reportDiagnostics(result.Bag, result.FileSet)
}

func tokenPrinter(format string) (func([]token.Token, *source.FileSet) error, error) {
	switch format {
	case "pretty":
		return func(toks []token.Token, fs *source.FileSet) error {
			return diagfmt.FormatTokensPretty(os.Stdout, toks, fs)
		}, nil
	case "json":
		return func(toks []token.Token, fs *source.FileSet) error {
			return diagfmt.FormatTokensJSON(os.Stdout, toks, fs)
		}, nil
	}
	return nil, fmt.Errorf("unknown format: %s", format)
}
