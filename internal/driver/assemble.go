package driver

import (
	"encoding/hex"
	"fmt"
	"strings"

	"aoc/internal/asm"
	"aoc/internal/diag"
	"aoc/internal/source"
)

type AssembleResult struct {
	FileSet *source.FileSet
	File    *source.File
	Block   *asm.Block // nil при ошибке
	Bag     *diag.Bag
	Err     error
}

// Assemble loads path and assembles its whole content as the body of a
// CODE block. Only I/O failures are returned as errors.
func Assemble(path string, opts Options) (*AssembleResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return assembleFile(fs, fs.Get(fileID), opts), nil
}

// AssembleSource assembles in-memory assembler text registered under name.
func AssembleSource(name string, src []byte, opts Options) *AssembleResult {
	fs := source.NewFileSet()
	content, flags := source.Normalize(src)
	fileID := fs.Add(name, content, flags|source.FileVirtual)
	return assembleFile(fs, fs.Get(fileID), opts)
}

func assembleFile(fs *source.FileSet, file *source.File, opts Options) *AssembleResult {
	done := opts.beginPhase("assemble")
	res := &AssembleResult{FileSet: fs, File: file, Bag: diag.NewBag(opts.maxDiagnostics())}
	res.Block, res.Err = asm.Assemble(string(file.Content), 0, asm.Options{
		Arch: opts.Arch,
		CPU:  opts.CPU,
		File: file.ID,
	})
	if res.Err != nil {
		if de, ok := diag.AsError(res.Err); ok {
			de.Report(diag.BagReporter{Bag: res.Bag})
		} else {
			res.Bag.Add(diag.NewError(diag.AsmIllegalInstruction, source.At(file.ID, 0), res.Err.Error()))
		}
		done("error")
		return res
	}
	opts.count("code_bytes", len(res.Block.Code))
	done(fmt.Sprintf("%d bytes", len(res.Block.Code)))
	return res
}

// ParseHex decodes a byte listing such as "48 89 C8" or "4889c8".
func ParseHex(text string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ',':
			return -1
		}
		return r
	}, text)
	clean = strings.ReplaceAll(strings.ReplaceAll(clean, "0x", ""), "0X", "")
	code, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid byte listing: %w", err)
	}
	return code, nil
}

// Disassemble decodes code with the encoder of opts.Arch.
func Disassemble(code []byte, opts Options) (string, error) {
	return asm.EncoderFor(opts.Arch).Decode(code, opts.cpu())
}
