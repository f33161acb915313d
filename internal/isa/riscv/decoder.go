package riscv

import (
	"encoding/binary"
	"fmt"
	"strings"

	"aoc/internal/isa"
)

var fixedByWord = func() map[uint32]string {
	m := make(map[uint32]string, len(fixedOps))
	for name, f := range fixedOps {
		m[f.word] = name
	}
	return m
}()

var (
	regByFunct    = map[[2]uint32]string{}
	immByFunct3   = map[uint32]string{}
	branchByFunct = map[uint32]string{}
)

func init() {
	for name, f := range regOps {
		regByFunct[f] = name
	}
	for name, f3 := range immOps {
		immByFunct3[f3] = name
	}
	for name, f3 := range branchOps {
		branchByFunct[f3] = name
	}
}

func signExtend(v uint32, bits uint) int64 {
	shift := 64 - bits
	return int64(uint64(v)<<shift) >> shift
}

// Decode disassembles whole words; a trailing partial word is shown as DB.
func (*Encoder) Decode(code []byte, _ isa.Flags) (string, error) {
	var b strings.Builder
	pc := 0
	for ; pc+4 <= len(code); pc += 4 {
		w := binary.LittleEndian.Uint32(code[pc:])
		fmt.Fprintf(&b, "%04X  %08X  %s\n", pc, w, decodeWord(w, pc))
	}
	for ; pc < len(code); pc++ {
		fmt.Fprintf(&b, "%04X  %02X        DB %02XH\n", pc, code[pc], code[pc])
	}
	return b.String(), nil
}

func decodeWord(w uint32, pc int) string {
	if name, ok := fixedByWord[w]; ok {
		return name
	}
	rd, f3, rs1, rs2, f7 := w>>7&31, w>>12&7, w>>15&31, w>>20&31, w>>25
	x := func(r uint32) string { return abiNames[r] }
	switch w & 0x7F {
	case opImm:
		imm := signExtend(w>>20, 12)
		if f3 == 0 {
			switch {
			case rs1 == 0:
				return fmt.Sprintf("LI %s, %d", x(rd), imm)
			case imm == 0:
				return fmt.Sprintf("MV %s, %s", x(rd), x(rs1))
			}
		}
		if name, ok := immByFunct3[f3]; ok {
			return fmt.Sprintf("%s %s, %s, %d", name, x(rd), x(rs1), imm)
		}
	case opReg:
		if name, ok := regByFunct[[2]uint32{f3, f7}]; ok {
			return fmt.Sprintf("%s %s, %s, %s", name, x(rd), x(rs1), x(rs2))
		}
	case opLUI:
		return fmt.Sprintf("LUI %s, %d", x(rd), w>>12)
	case opJAL:
		v := (w>>31&1)<<20 | (w>>21&0x3FF)<<1 | (w>>20&1)<<11 | (w>>12&0xFF)<<12
		target := int64(pc) + signExtend(v, 21)
		switch rd {
		case 0:
			return fmt.Sprintf("J %04XH", target)
		case 1:
			return fmt.Sprintf("JAL %04XH", target)
		}
		return fmt.Sprintf("JAL %s, %04XH", x(rd), target)
	case opBranch:
		v := (w>>31&1)<<12 | (w>>25&0x3F)<<5 | (w>>8&0xF)<<1 | (w>>7&1)<<11
		target := int64(pc) + signExtend(v, 13)
		if name, ok := branchByFunct[f3]; ok {
			return fmt.Sprintf("%s %s, %s, %04XH", name, x(rs1), x(rs2), target)
		}
	case 0x67:
		if f3 == 0 && rd == 0 && w>>20 == 0 {
			return "JR " + x(rs1)
		}
	}
	return fmt.Sprintf("DD %08XH", w)
}
