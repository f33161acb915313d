// Package arm64 encodes and decodes the ARMv8 (A64) instruction subset
// accepted in CODE blocks. Every instruction is one little-endian word.
package arm64

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"aoc/internal/isa"
)

// Encoder implements isa.Encoder for ARMv8.
type Encoder struct{}

var _ isa.Encoder = (*Encoder)(nil)

func New() *Encoder { return &Encoder{} }

func (*Encoder) Arch() isa.Arch { return isa.ArchARM64 }

const regZR = 31

// register resolves X0..X30, XZR, SP and LR. SP and XZR share number 31;
// which one is meant depends on the instruction.
func register(name string) (uint32, bool) {
	switch name = strings.ToUpper(name); name {
	case "XZR", "SP":
		return regZR, true
	case "LR":
		return 30, true
	case "FP":
		return 29, true
	}
	if len(name) < 2 || name[0] != 'X' {
		return 0, false
	}
	n, err := strconv.Atoi(name[1:])
	if err != nil || n < 0 || n > 30 || strconv.Itoa(n) != name[1:] {
		return 0, false
	}
	return uint32(n), true
}

func (*Encoder) IsRegister(name string) bool {
	_, ok := register(name)
	return ok
}

func (*Encoder) IsBranch(mnemonic string) bool {
	switch strings.ToUpper(mnemonic) {
	case "B", "BL", "CBZ", "CBNZ":
		return true
	}
	return false
}

type fixed struct {
	word uint32
	need isa.Flags
}

var fixedOps = map[string]fixed{
	"NOP":   {0xD503201F, 0},
	"YIELD": {0xD503203F, 0},
	"WFE":   {0xD503205F, isa.Privileged},
	"WFI":   {0xD503207F, isa.Privileged},
	"ERET":  {0xD69F03E0, isa.Privileged},
	"ISB":   {0xD5033FDF, 0},
	"DSB":   {0xD5033F9F, 0},
	"DMB":   {0xD5033FBF, 0},
}

// Encode assembles one instruction.
func (e *Encoder) Encode(mnemonic string, ops []isa.Operand, flags isa.Flags) ([]byte, error) {
	m := strings.ToUpper(mnemonic)
	word, err := e.encode(m, ops, flags)
	if err != nil {
		return nil, err
	}
	return binary.LittleEndian.AppendUint32(nil, word), nil
}

func (e *Encoder) encode(m string, ops []isa.Operand, flags isa.Flags) (uint32, error) {
	if f, ok := fixedOps[m]; ok {
		if err := isa.CheckFeatures(m, f.need, flags); err != nil {
			return 0, err
		}
		return f.word, isa.Operands(m, ops, 0)
	}
	fail := func(reason string) error { return &isa.OperandError{Mnemonic: m, Reason: reason} }
	reg := func(op isa.Operand) (uint32, error) {
		if op.Kind != isa.OpReg {
			return 0, fail("want register")
		}
		r, ok := register(op.Reg)
		if !ok {
			return 0, fail("unknown register " + op.Reg)
		}
		return r, nil
	}
	imm := func(op isa.Operand, bits uint) (uint32, error) {
		if op.Kind != isa.OpImm || op.PCRel || !isa.FitsUnsigned(op.Imm, bits) {
			return 0, fail(fmt.Sprintf("want an unsigned %d-bit immediate", bits))
		}
		return uint32(op.Imm), nil
	}

	switch m {
	case "RET":
		if len(ops) == 0 {
			return 0xD65F03C0, nil
		}
		if err := isa.Operands(m, ops, 1); err != nil {
			return 0, err
		}
		n, err := reg(ops[0])
		return 0xD65F0000 | n<<5, err
	case "BR", "BLR":
		if err := isa.Operands(m, ops, 1); err != nil {
			return 0, err
		}
		n, err := reg(ops[0])
		base := uint32(0xD61F0000)
		if m == "BLR" {
			base = 0xD63F0000
		}
		return base | n<<5, err
	case "BRK", "SVC", "HVC":
		if err := isa.Operands(m, ops, 1); err != nil {
			return 0, err
		}
		if m == "HVC" {
			if err := isa.CheckFeatures(m, isa.Privileged, flags); err != nil {
				return 0, err
			}
		}
		v, err := imm(ops[0], 16)
		base := map[string]uint32{"BRK": 0xD4200000, "SVC": 0xD4000001, "HVC": 0xD4000002}[m]
		return base | v<<5, err
	case "MOVZ", "MOVK":
		if err := isa.Operands(m, ops, 2); err != nil {
			return 0, err
		}
		d, err := reg(ops[0])
		if err != nil {
			return 0, err
		}
		v, err := imm(ops[1], 16)
		base := uint32(0xD2800000)
		if m == "MOVK" {
			base = 0xF2800000
		}
		return base | v<<5 | d, err
	case "MOV":
		if err := isa.Operands(m, ops, 2); err != nil {
			return 0, err
		}
		d, err := reg(ops[0])
		if err != nil {
			return 0, err
		}
		if ops[1].Kind == isa.OpReg {
			s, err := reg(ops[1])
			// ORR Xd, XZR, Xm
			return 0xAA0003E0 | s<<16 | d, err
		}
		v, err := imm(ops[1], 16)
		return 0xD2800000 | v<<5 | d, err
	case "ADD", "SUB":
		if err := isa.Operands(m, ops, 3); err != nil {
			return 0, err
		}
		d, err := reg(ops[0])
		if err != nil {
			return 0, err
		}
		n, err := reg(ops[1])
		if err != nil {
			return 0, err
		}
		if ops[2].Kind == isa.OpReg {
			r, err := reg(ops[2])
			base := uint32(0x8B000000)
			if m == "SUB" {
				base = 0xCB000000
			}
			return base | r<<16 | n<<5 | d, err
		}
		v, err := imm(ops[2], 12)
		base := uint32(0x91000000)
		if m == "SUB" {
			base = 0xD1000000
		}
		return base | v<<10 | n<<5 | d, err
	case "B", "BL":
		if err := isa.Operands(m, ops, 1); err != nil {
			return 0, err
		}
		off, err := branchOffset(ops[0], 26, fail)
		base := uint32(0x14000000)
		if m == "BL" {
			base = 0x94000000
		}
		return base | off, err
	case "CBZ", "CBNZ":
		if err := isa.Operands(m, ops, 2); err != nil {
			return 0, err
		}
		t, err := reg(ops[0])
		if err != nil {
			return 0, err
		}
		off, err := branchOffset(ops[1], 19, fail)
		base := uint32(0xB4000000)
		if m == "CBNZ" {
			base = 0xB5000000
		}
		return base | off<<5 | t, err
	}
	return 0, isa.ErrIllegalInstruction
}

// branchOffset converts a PC-relative byte distance into a word offset
// field of the given width.
func branchOffset(op isa.Operand, bits uint, fail func(string) error) (uint32, error) {
	if op.Kind != isa.OpImm || !op.PCRel {
		return 0, fail("branch target must be a label")
	}
	if op.Imm%4 != 0 {
		return 0, fail("branch target is not word aligned")
	}
	words := op.Imm / 4
	if !isa.FitsSigned(words, bits) {
		return 0, fail("branch target out of range")
	}
	return uint32(words) & (1<<bits - 1), nil
}
