package arm64

import (
	"encoding/binary"
	"fmt"
	"strings"

	"aoc/internal/isa"
)

var fixedByWord = func() map[uint32]string {
	m := make(map[uint32]string, len(fixedOps)+1)
	for name, f := range fixedOps {
		m[f.word] = name
	}
	m[0xD65F03C0] = "RET"
	return m
}()

func xreg(n uint32) string {
	switch n {
	case regZR:
		return "XZR"
	case 30:
		return "LR"
	}
	return fmt.Sprintf("X%d", n)
}

// spreg names register 31 as SP, for the immediate ADD/SUB forms.
func spreg(n uint32) string {
	if n == regZR {
		return "SP"
	}
	return xreg(n)
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
	rd, rn, rm := w&31, (w>>5)&31, (w>>16)&31
	switch {
	case w&0xFFFFFC1F == 0xD65F0000:
		return "RET " + xreg(rn)
	case w&0xFFFFFC1F == 0xD61F0000:
		return "BR " + xreg(rn)
	case w&0xFFFFFC1F == 0xD63F0000:
		return "BLR " + xreg(rn)
	case w&0xFFE0001F == 0xD4200000:
		return fmt.Sprintf("BRK %d", (w>>5)&0xFFFF)
	case w&0xFFE0001F == 0xD4000001:
		return fmt.Sprintf("SVC %d", (w>>5)&0xFFFF)
	case w&0xFFE0001F == 0xD4000002:
		return fmt.Sprintf("HVC %d", (w>>5)&0xFFFF)
	case w&0xFFE00000 == 0xD2800000:
		return fmt.Sprintf("MOVZ %s, %d", xreg(rd), (w>>5)&0xFFFF)
	case w&0xFFE00000 == 0xF2800000:
		return fmt.Sprintf("MOVK %s, %d", xreg(rd), (w>>5)&0xFFFF)
	case w&0xFFE0FFE0 == 0xAA0003E0:
		return fmt.Sprintf("MOV %s, %s", xreg(rd), xreg(rm))
	case w&0xFFC00000 == 0x91000000:
		return fmt.Sprintf("ADD %s, %s, %d", spreg(rd), spreg(rn), (w>>10)&0xFFF)
	case w&0xFFC00000 == 0xD1000000:
		return fmt.Sprintf("SUB %s, %s, %d", spreg(rd), spreg(rn), (w>>10)&0xFFF)
	case w&0xFFE0FC00 == 0x8B000000:
		return fmt.Sprintf("ADD %s, %s, %s", xreg(rd), xreg(rn), xreg(rm))
	case w&0xFFE0FC00 == 0xCB000000:
		return fmt.Sprintf("SUB %s, %s, %s", xreg(rd), xreg(rn), xreg(rm))
	case w&0xFC000000 == 0x14000000, w&0xFC000000 == 0x94000000:
		name := "B"
		if w&0x80000000 != 0 {
			name = "BL"
		}
		target := int64(pc) + 4*signExtend(w&0x3FFFFFF, 26)
		return fmt.Sprintf("%s %04XH", name, target)
	case w&0xFF000000 == 0xB4000000, w&0xFF000000 == 0xB5000000:
		name := "CBZ"
		if w&0x01000000 != 0 {
			name = "CBNZ"
		}
		target := int64(pc) + 4*signExtend((w>>5)&0x7FFFF, 19)
		return fmt.Sprintf("%s %s, %04XH", name, xreg(rd), target)
	}
	return fmt.Sprintf("DD %08XH", w)
}
