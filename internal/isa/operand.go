package isa

import (
	"fmt"
	"strings"
)

// OperandKind classifies an evaluated instruction operand.
type OperandKind uint8

const (
	OpReg OperandKind = iota + 1
	OpImm
	OpMem
)

// Operand is an instruction operand after expression evaluation. Size is the
// explicit width in bits from a BYTE/WORD/DWORD/QWORD prefix, zero if absent.
type Operand struct {
	Kind    OperandKind
	Reg     string // OpReg; upper case
	Imm     int64  // OpImm
	PCRel   bool   // OpImm: Imm is a distance from the instruction start
	Base    string // OpMem base register, may be empty
	Disp    int64  // OpMem displacement
	Segment string // optional segment override, upper case
	Size    int
}

// Reg builds a register operand.
func Reg(name string) Operand { return Operand{Kind: OpReg, Reg: strings.ToUpper(name)} }

// Imm builds an immediate operand.
func Imm(v int64) Operand { return Operand{Kind: OpImm, Imm: v} }

// Rel builds a PC-relative branch operand.
func Rel(dist int64) Operand { return Operand{Kind: OpImm, Imm: dist, PCRel: true} }

// Mem builds a memory operand [base + disp].
func Mem(base string, disp int64) Operand {
	return Operand{Kind: OpMem, Base: strings.ToUpper(base), Disp: disp}
}

func (o Operand) String() string {
	switch o.Kind {
	case OpReg:
		return o.Reg
	case OpImm:
		if o.PCRel {
			return fmt.Sprintf("$%+d", o.Imm)
		}
		return fmt.Sprintf("%d", o.Imm)
	case OpMem:
		var b strings.Builder
		if o.Segment != "" {
			b.WriteString(o.Segment + ":")
		}
		b.WriteByte('[')
		switch {
		case o.Base != "" && o.Disp != 0:
			fmt.Fprintf(&b, "%s%+d", o.Base, o.Disp)
		case o.Base != "":
			b.WriteString(o.Base)
		default:
			fmt.Fprintf(&b, "%d", o.Disp)
		}
		b.WriteByte(']')
		return b.String()
	}
	return "?"
}

// FitsSigned reports whether v fits a two's complement field of bits width.
func FitsSigned(v int64, bits uint) bool {
	lim := int64(1) << (bits - 1)
	return v >= -lim && v < lim
}

// FitsUnsigned reports whether v fits an unsigned field of bits width.
func FitsUnsigned(v int64, bits uint) bool {
	return v >= 0 && (bits >= 63 || v < int64(1)<<bits)
}
