// Package asm implements the inline assembler used for CODE blocks.
//
// A CODE block body is assembled in three steps: Tokenize splits the raw
// text with a participle lexer, the parser walks an optional capability
// header ({ SYSTEM.FLAG, ... }) and then the body lines, and layout runs two
// passes over the lines. The first pass assigns offsets with unresolved
// symbols treated as zero, the second pass encodes with the final symbol
// table. An instruction whose size changes between the passes is a phase
// error.
package asm

import (
	"aoc/internal/isa"
	"aoc/internal/isa/amd64"
	"aoc/internal/isa/arm64"
	"aoc/internal/isa/riscv"
	"aoc/internal/source"
)

// Options configure Assemble.
type Options struct {
	Arch isa.Arch
	// CPU is the capability set the header flags are added to. Zero selects
	// isa.Baseline(Arch).
	CPU  isa.Flags
	File source.FileID
}

// Block is an assembled CODE body.
type Block struct {
	Span    source.Span
	Arch    isa.Arch
	Flags   isa.Flags // flags named in the header
	CPU     isa.Flags // effective capabilities after header and CPU directives
	Bits    int       // last BITS value, 0 if none
	Lines   []*Line
	Symbols map[string]int64
	Code    []byte
}

// EncoderFor returns the instruction encoder of an architecture.
func EncoderFor(arch isa.Arch) isa.Encoder {
	switch arch {
	case isa.ArchARM64:
		return arm64.New()
	case isa.ArchRISCV:
		return riscv.New()
	default:
		return amd64.New()
	}
}

// Assemble parses and encodes text, which starts at byte offset base of
// opts.File. All spans in the result and in errors are absolute. Errors are
// *diag.Error values.
func Assemble(text string, base uint32, opts Options) (*Block, error) {
	toks, err := Tokenize(opts.File, text, base)
	if err != nil {
		return nil, err
	}
	enc := EncoderFor(opts.Arch)
	p := &parser{toks: toks, enc: enc}
	if err := p.parse(); err != nil {
		return nil, err
	}
	cpu := opts.CPU
	if cpu == 0 {
		cpu = isa.Baseline(opts.Arch)
	}
	b := &Block{
		Span:  source.Span{File: opts.File, Start: base, End: toks[len(toks)-1].Span.End},
		Arch:  opts.Arch,
		Flags: p.flags,
		Lines: p.lines,
	}
	l := &layout{enc: enc, block: b, base: cpu | p.flags}
	if err := l.run(); err != nil {
		return nil, err
	}
	return b, nil
}
