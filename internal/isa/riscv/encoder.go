// Package riscv encodes and decodes the RV64I subset accepted in CODE blocks,
// including the usual pseudo-instructions (nop, mv, li, j, ret).
package riscv

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"aoc/internal/isa"
)

// Encoder implements isa.Encoder for RISC-V.
type Encoder struct{}

var _ isa.Encoder = (*Encoder)(nil)

func New() *Encoder { return &Encoder{} }

func (*Encoder) Arch() isa.Arch { return isa.ArchRISCV }

var abiNames = [32]string{
	"ZERO", "RA", "SP", "GP", "TP", "T0", "T1", "T2",
	"S0", "S1", "A0", "A1", "A2", "A3", "A4", "A5",
	"A6", "A7", "S2", "S3", "S4", "S5", "S6", "S7",
	"S8", "S9", "S10", "S11", "T3", "T4", "T5", "T6",
}

var abiRegs = func() map[string]uint32 {
	m := make(map[string]uint32, 33)
	for i, n := range abiNames {
		m[n] = uint32(i)
	}
	m["FP"] = 8
	return m
}()

func register(name string) (uint32, bool) {
	name = strings.ToUpper(name)
	if r, ok := abiRegs[name]; ok {
		return r, true
	}
	if len(name) < 2 || name[0] != 'X' {
		return 0, false
	}
	n, err := strconv.Atoi(name[1:])
	if err != nil || n < 0 || n > 31 || strconv.Itoa(n) != name[1:] {
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
	case "J", "JAL", "BEQ", "BNE", "BLT", "BGE":
		return true
	}
	return false
}

const (
	opImm    = 0x13
	opReg    = 0x33
	opLUI    = 0x37
	opJAL    = 0x6F
	opBranch = 0x63
)

type fixed struct {
	word uint32
	need isa.Flags
}

var fixedOps = map[string]fixed{
	"NOP":    {0x00000013, 0},
	"RET":    {0x00008067, 0},
	"ECALL":  {0x00000073, 0},
	"EBREAK": {0x00100073, 0},
	"FENCE":  {0x0FF0000F, 0},
	"WFI":    {0x10500073, isa.Privileged},
	"MRET":   {0x30200073, isa.Privileged},
	"SRET":   {0x10200073, isa.Privileged},
}

// funct3/funct7 of the register-register ALU group
var regOps = map[string][2]uint32{
	"ADD": {0, 0x00}, "SUB": {0, 0x20}, "SLL": {1, 0x00}, "SLT": {2, 0x00},
	"SLTU": {3, 0x00}, "XOR": {4, 0x00}, "SRL": {5, 0x00}, "SRA": {5, 0x20},
	"OR": {6, 0x00}, "AND": {7, 0x00},
}

var immOps = map[string]uint32{"ADDI": 0, "SLTI": 2, "SLTIU": 3, "XORI": 4, "ORI": 6, "ANDI": 7}

var branchOps = map[string]uint32{"BEQ": 0, "BNE": 1, "BLT": 4, "BGE": 5}

func iType(f3, rd, rs1 uint32, imm int64) uint32 {
	return uint32(imm)&0xFFF<<20 | rs1<<15 | f3<<12 | rd<<7 | opImm
}

func rType(f7, f3, rd, rs1, rs2 uint32) uint32 {
	return f7<<25 | rs2<<20 | rs1<<15 | f3<<12 | rd<<7 | opReg
}

func jType(rd uint32, off int64) uint32 {
	v := uint32(off)
	return (v>>20&1)<<31 | (v>>1&0x3FF)<<21 | (v>>11&1)<<20 | (v>>12&0xFF)<<12 | rd<<7 | opJAL
}

func bType(f3, rs1, rs2 uint32, off int64) uint32 {
	v := uint32(off)
	return (v>>12&1)<<31 | (v>>5&0x3F)<<25 | rs2<<20 | rs1<<15 | f3<<12 | (v>>1&0xF)<<8 | (v>>11&1)<<7 | opBranch
}

// Encode assembles one instruction or pseudo-instruction. "li" expands to
// lui+addi when the value does not fit 12 bits.
func (e *Encoder) Encode(mnemonic string, ops []isa.Operand, flags isa.Flags) ([]byte, error) {
	m := strings.ToUpper(mnemonic)
	words, err := e.encode(m, ops, flags)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 4*len(words))
	for _, w := range words {
		out = binary.LittleEndian.AppendUint32(out, w)
	}
	return out, nil
}

func (e *Encoder) encode(m string, ops []isa.Operand, flags isa.Flags) ([]uint32, error) {
	if f, ok := fixedOps[m]; ok {
		if err := isa.CheckFeatures(m, f.need, flags); err != nil {
			return nil, err
		}
		if err := isa.Operands(m, ops, 0); err != nil {
			return nil, err
		}
		return []uint32{f.word}, nil
	}
	fail := func(reason string) error { return &isa.OperandError{Mnemonic: m, Reason: reason} }
	regs := func(n int) ([]uint32, error) {
		if len(ops) < n {
			return nil, isa.Operands(m, ops, n)
		}
		out := make([]uint32, n)
		for i := 0; i < n; i++ {
			if ops[i].Kind != isa.OpReg {
				return nil, fail(fmt.Sprintf("operand %d must be a register", i+1))
			}
			r, ok := register(ops[i].Reg)
			if !ok {
				return nil, fail("unknown register " + ops[i].Reg)
			}
			out[i] = r
		}
		return out, nil
	}
	imm := func(op isa.Operand, bits uint) (int64, error) {
		if op.Kind != isa.OpImm || op.PCRel || !isa.FitsSigned(op.Imm, bits) {
			return 0, fail(fmt.Sprintf("want a signed %d-bit immediate", bits))
		}
		return op.Imm, nil
	}
	target := func(op isa.Operand, bits uint) (int64, error) {
		if op.Kind != isa.OpImm || !op.PCRel {
			return 0, fail("branch target must be a label")
		}
		if op.Imm%2 != 0 || !isa.FitsSigned(op.Imm, bits) {
			return 0, fail("branch target out of range")
		}
		return op.Imm, nil
	}

	if f, ok := regOps[m]; ok {
		if err := isa.Operands(m, ops, 3); err != nil {
			return nil, err
		}
		r, err := regs(3)
		if err != nil {
			return nil, err
		}
		return []uint32{rType(f[1], f[0], r[0], r[1], r[2])}, nil
	}
	if f3, ok := immOps[m]; ok {
		if err := isa.Operands(m, ops, 3); err != nil {
			return nil, err
		}
		r, err := regs(2)
		if err != nil {
			return nil, err
		}
		v, err := imm(ops[2], 12)
		if err != nil {
			return nil, err
		}
		return []uint32{iType(f3, r[0], r[1], v)}, nil
	}
	if f3, ok := branchOps[m]; ok {
		if err := isa.Operands(m, ops, 3); err != nil {
			return nil, err
		}
		r, err := regs(2)
		if err != nil {
			return nil, err
		}
		off, err := target(ops[2], 13)
		if err != nil {
			return nil, err
		}
		return []uint32{bType(f3, r[0], r[1], off)}, nil
	}

	switch m {
	case "MV":
		if err := isa.Operands(m, ops, 2); err != nil {
			return nil, err
		}
		r, err := regs(2)
		if err != nil {
			return nil, err
		}
		return []uint32{iType(0, r[0], r[1], 0)}, nil
	case "LI":
		if err := isa.Operands(m, ops, 2); err != nil {
			return nil, err
		}
		r, err := regs(1)
		if err != nil {
			return nil, err
		}
		v, err := imm(ops[1], 32)
		if err != nil {
			return nil, err
		}
		if isa.FitsSigned(v, 12) {
			return []uint32{iType(0, r[0], 0, v)}, nil
		}
		hi := (v + 0x800) >> 12
		lo := v - hi<<12
		words := []uint32{uint32(hi)&0xFFFFF<<12 | r[0]<<7 | opLUI}
		if lo != 0 {
			words = append(words, iType(0, r[0], r[0], lo))
		}
		return words, nil
	case "LUI":
		if err := isa.Operands(m, ops, 2); err != nil {
			return nil, err
		}
		r, err := regs(1)
		if err != nil {
			return nil, err
		}
		if ops[1].Kind != isa.OpImm || !isa.FitsUnsigned(ops[1].Imm, 20) {
			return nil, fail("want an unsigned 20-bit immediate")
		}
		return []uint32{uint32(ops[1].Imm)<<12 | r[0]<<7 | opLUI}, nil
	case "J", "JAL":
		rd := uint32(0)
		targetOp := 0
		switch {
		case m == "JAL" && len(ops) == 2:
			r, err := regs(1)
			if err != nil {
				return nil, err
			}
			rd, targetOp = r[0], 1
		case len(ops) == 1:
			if m == "JAL" {
				rd = 1
			}
		default:
			return nil, isa.Operands(m, ops, 1)
		}
		off, err := target(ops[targetOp], 21)
		if err != nil {
			return nil, err
		}
		return []uint32{jType(rd, off)}, nil
	case "JR":
		if err := isa.Operands(m, ops, 1); err != nil {
			return nil, err
		}
		r, err := regs(1)
		if err != nil {
			return nil, err
		}
		// jalr x0, 0(rs)
		return []uint32{r[0]<<15 | 0x67}, nil
	}
	return nil, isa.ErrIllegalInstruction
}
