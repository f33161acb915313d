package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"aoc/internal/asm"
	"aoc/internal/diagfmt"
	"aoc/internal/driver"
	"aoc/internal/source"
)

var asmCmd = &cobra.Command{
	Use:   "asm [flags] <file>",
	Short: "Assemble the body of a CODE block",
	Long: `Asm assembles a file holding the text between CODE and END of an inline
assembler block and prints the machine code. --target and --cpu select the
encoder and the assumed capabilities.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsm,
}

var disasmCmd = &cobra.Command{
	Use:   "disasm [flags] <hex bytes|file>",
	Short: "Decode machine code back to assembler text",
	Long: `Disasm decodes a byte listing such as "48 89 C8" given on the command
line, or the content of a file, with the encoder of --target.`,
	Args: cobra.ExactArgs(1),
	RunE: runDisasm,
}

func init() {
	asmCmd.Flags().String("format", "listing", "output format (listing|hex)")
}

func runAsm(cmd *cobra.Command, args []string) error {
	s := current
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "listing" && format != "hex" {
		return fmt.Errorf("unknown format: %s", format)
	}

	result, err := driver.Assemble(args[0], s.opts)
	if err != nil {
		return fmt.Errorf("assembly failed: %w", err)
	}
	s.printTimer(os.Stderr)
	if result.Err != nil {
		diagfmt.RenderError(os.Stderr, result.Err, result.FileSet, result.File.ID, s.pretty)
		return errReported
	}
	if format == "hex" {
		fmt.Fprintln(os.Stdout, hexBytes(result.Block.Code))
		return nil
	}
	printListing(os.Stdout, result.Block, result.File)
	return nil
}

func runDisasm(cmd *cobra.Command, args []string) error {
	s := current
	text := args[0]
	if data, err := os.ReadFile(text); err == nil {
		text = string(data)
	}
	code, err := driver.ParseHex(text)
	if err != nil {
		return err
	}
	out, err := driver.Disassemble(code, s.opts)
	if err != nil {
		return fmt.Errorf("disassembly failed: %w", err)
	}
	fmt.Fprint(os.Stdout, out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

// printListing writes offset, bytes and source text of every line that
// produced code or carries a label.
func printListing(w io.Writer, block *asm.Block, file *source.File) {
	for _, ln := range block.Lines {
		if len(ln.Code) == 0 && ln.Label == "" {
			continue
		}
		text := strings.TrimSpace(file.Slice(ln.Span))
		fmt.Fprintf(w, "%06X  %-24s  %s\n", ln.Offset, hexBytes(ln.Code), text)
	}
	fmt.Fprintf(w, "%d byte(s), %s\n", len(block.Code), block.CPU)
}

func hexBytes(code []byte) string {
	var sb strings.Builder
	for i, b := range code {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}
