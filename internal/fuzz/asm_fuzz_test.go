package fuzztests

import (
	"testing"

	"aoc/internal/asm"
	"aoc/internal/isa"
)

func FuzzAssembleAMD64(f *testing.F) {
	addAsmSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		block, err := asm.Assemble(string(input), 0, asm.Options{Arch: isa.ArchAMD64})
		if err != nil {
			return
		}
		total := 0
		for _, ln := range block.Lines {
			total += len(ln.Code)
		}
		if total != len(block.Code) {
			t.Fatalf("lines hold %d bytes, block has %d", total, len(block.Code))
		}
	})
}
