package fuzztests

import (
	"context"
	"testing"
	"time"

	"aoc/internal/ast"
	"aoc/internal/diag"
	"aoc/internal/parser"
	"aoc/internal/source"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParserBuildsAST(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.Mod", input)

		bag := diag.NewBag(128)
		m, err := parser.ParseModule(fs.Get(fileID), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
		if err == nil && m == nil {
			t.Fatalf("no module and no error")
		}
		if err != nil && !bag.HasErrors() {
			t.Fatalf("error %v was not reported", err)
		}
		if m == nil {
			return
		}
		// все узлы лежат внутри файла
		size := uint32(len(fs.Get(fileID).Content))
		ast.Inspect(m, func(n ast.Node) bool {
			if sp := n.NodeSpan(); sp.End > size || sp.Start > sp.End {
				t.Fatalf("%s span %v outside of %d bytes", ast.NodeTypeName(n), sp, size)
			}
			return true
		})
	})
}

// FuzzParserNoHang tests that the parser doesn't hang on any input.
// It uses a timeout to detect infinite loops in the parser or in the
// CODE block assembler.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Add([]byte("MODULE M; BEGIN x := (((((1)))))"))     // unclosed module
	f.Add([]byte("MODULE M; TYPE R = RECORD a: INTEGER"))  // record without END
	f.Add([]byte("MODULE M; BEGIN CODE MOV RAX, "))        // truncated CODE block
	f.Add([]byte("MODULE M; (* (* nested *) END M."))      // unterminated comment
	f.Add([]byte("MODULE M; VAR a: ARRAY [?] OF REAL; END")) // tensor without name

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			fileID := fs.AddVirtual("fuzz.Mod", input)
			_, _ = parser.ParseModule(fs.Get(fileID), parser.Options{})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
