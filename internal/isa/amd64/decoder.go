package amd64

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"aoc/internal/isa"
)

// fixedByCode lists the operand-free encodings, longest first, so that
// F3 90 decodes as PAUSE rather than a REP prefix.
var fixedByCode = func() []struct {
	code []byte
	name string
} {
	list := make([]struct {
		code []byte
		name string
	}, 0, len(fixedOps))
	for name, f := range fixedOps {
		list = append(list, struct {
			code []byte
			name string
		}{f.code, name})
	}
	sort.Slice(list, func(i, j int) bool {
		if len(list[i].code) != len(list[j].code) {
			return len(list[i].code) > len(list[j].code)
		}
		return list[i].name < list[j].name
	})
	return list
}()

var prefixNames = map[byte]string{0xF3: "REP", 0xF2: "REPNE", 0xF0: "LOCK"}

// Decode disassembles code into one line per instruction: offset, bytes and
// text. Bytes that do not start a known encoding are shown as DB.
func (*Encoder) Decode(code []byte, _ isa.Flags) (string, error) {
	var b strings.Builder
	for pc := 0; pc < len(code); {
		n, text := decodeOne(code[pc:], pc)
		fmt.Fprintf(&b, "%04X  %-24s %s\n", pc, hexBytes(code[pc:pc+n]), text)
		pc += n
	}
	return b.String(), nil
}

func hexBytes(c []byte) string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = fmt.Sprintf("%02X", v)
	}
	return strings.Join(parts, " ")
}

func decodeOne(c []byte, pc int) (int, string) {
	for _, f := range fixedByCode {
		if bytes.HasPrefix(c, f.code) {
			return len(f.code), f.name
		}
	}
	if name, ok := prefixNames[c[0]]; ok && len(c) > 1 {
		n, text := decodeOne(c[1:], pc+1)
		if !strings.HasPrefix(text, "DB ") {
			return n + 1, name + " " + text
		}
	}
	if n, text, ok := decodeInstr(c, pc); ok {
		return n, text
	}
	return 1, fmt.Sprintf("DB %02XH", c[0])
}

func regName(num byte, w bool) string {
	if w {
		return names64[num&15]
	}
	return names32[num&15]
}

func decodeInstr(c []byte, pc int) (int, string, bool) {
	p := 0
	var rex byte
	if c[0]&0xF0 == 0x40 {
		rex = c[0]
		p = 1
	}
	if p >= len(c) {
		return 0, "", false
	}
	w := rex&0x08 != 0
	rexR := (rex & 0x04) << 1
	rexB := (rex & 0x01) << 3
	op := c[p]
	rest := c[p+1:]

	switch {
	case op >= 0x50 && op <= 0x57:
		return p + 1, "PUSH " + names64[op-0x50|rexB], true
	case op >= 0x58 && op <= 0x5F:
		return p + 1, "POP " + names64[op-0x58|rexB], true
	case op >= 0xB8 && op <= 0xBF:
		r := regName(op-0xB8|rexB, w)
		if w {
			if len(rest) < 8 {
				return 0, "", false
			}
			return p + 9, fmt.Sprintf("MOV %s, %d", r, int64(binary.LittleEndian.Uint64(rest))), true
		}
		if len(rest) < 4 {
			return 0, "", false
		}
		return p + 5, fmt.Sprintf("MOV %s, %d", r, binary.LittleEndian.Uint32(rest)), true
	case op == 0xE8 || op == 0xE9:
		if len(rest) < 4 {
			return 0, "", false
		}
		name := "CALL"
		if op == 0xE9 {
			name = "JMP"
		}
		target := pc + p + 5 + int(int32(binary.LittleEndian.Uint32(rest)))
		return p + 5, fmt.Sprintf("%s %04XH", name, target), true
	case op == 0x0F && len(rest) >= 5 && rest[0]&0xF0 == 0x80:
		target := pc + p + 6 + int(int32(binary.LittleEndian.Uint32(rest[1:])))
		return p + 6, fmt.Sprintf("%s %04XH", jccNames[rest[0]&0x0F], target), true
	case op == 0xCD && len(rest) >= 1:
		return p + 2, fmt.Sprintf("INT %d", rest[0]), true
	case op == 0xC2 && len(rest) >= 2:
		return p + 3, fmt.Sprintf("RET %d", binary.LittleEndian.Uint16(rest)), true
	case op == 0x6A && len(rest) >= 1:
		return p + 2, fmt.Sprintf("PUSH %d", int8(rest[0])), true
	case op == 0x68 && len(rest) >= 4:
		return p + 5, fmt.Sprintf("PUSH %d", int32(binary.LittleEndian.Uint32(rest))), true
	}

	if len(rest) == 0 {
		return 0, "", false
	}
	mod, reg, rm := rest[0]>>6, (rest[0]>>3)&7, rest[0]&7
	if mod == 3 {
		dst := regName(rm|rexB, w)
		src := regName(reg|rexR, w)
		switch {
		case op&0xC7 == 0x01 && op <= 0x39:
			return p + 2, fmt.Sprintf("%s %s, %s", aluNames[op>>3], dst, src), true
		case op == 0x89:
			return p + 2, fmt.Sprintf("MOV %s, %s", dst, src), true
		case op == 0x85:
			return p + 2, fmt.Sprintf("TEST %s, %s", dst, src), true
		case op == 0x83 && len(rest) >= 2:
			return p + 3, fmt.Sprintf("%s %s, %d", aluNames[reg], dst, int8(rest[1])), true
		case op == 0x81 && len(rest) >= 5:
			return p + 6, fmt.Sprintf("%s %s, %d", aluNames[reg], dst, int32(binary.LittleEndian.Uint32(rest[1:]))), true
		case op == 0xC7 && reg == 0 && len(rest) >= 5:
			return p + 6, fmt.Sprintf("MOV %s, %d", dst, int32(binary.LittleEndian.Uint32(rest[1:]))), true
		case op == 0xFF && reg <= 1:
			return p + 2, fmt.Sprintf("%s %s", [2]string{"INC", "DEC"}[reg], dst), true
		case op == 0xFF && (reg == 2 || reg == 4):
			name := "CALL"
			if reg == 4 {
				name = "JMP"
			}
			return p + 2, name + " " + names64[rm|rexB], true
		case op == 0xF7 && (reg == 2 || reg == 3):
			return p + 2, fmt.Sprintf("%s %s", [2]string{"NOT", "NEG"}[reg-2], dst), true
		}
		return 0, "", false
	}

	n, mem, ok := decodeMem(rest, rexB)
	if !ok {
		return 0, "", false
	}
	r := regName(reg|rexR, w)
	switch {
	case op == 0x8B:
		return p + 1 + n, fmt.Sprintf("MOV %s, %s", r, mem), true
	case op == 0x89:
		return p + 1 + n, fmt.Sprintf("MOV %s, %s", mem, r), true
	case op == 0x8D:
		return p + 1 + n, fmt.Sprintf("LEA %s, %s", r, mem), true
	case op&0xC7 == 0x03 && op <= 0x3B:
		return p + 1 + n, fmt.Sprintf("%s %s, %s", aluNames[op>>3], r, mem), true
	case op&0xC7 == 0x01 && op <= 0x39:
		return p + 1 + n, fmt.Sprintf("%s %s, %s", aluNames[op>>3], mem, r), true
	case op == 0xC7 && reg == 0 && len(rest) >= n+4:
		size := "DWORD"
		if w {
			size = "QWORD"
		}
		return p + 1 + n + 4, fmt.Sprintf("MOV %s %s, %d", size, mem, int32(binary.LittleEndian.Uint32(rest[n:]))), true
	}
	return 0, "", false
}

// decodeMem decodes the ModRM addressing bytes at the start of c and returns
// their length (ModRM, SIB and displacement) and the rendered operand.
func decodeMem(c []byte, rexB byte) (int, string, bool) {
	mod, rm := c[0]>>6, c[0]&7
	n := 1
	base := ""
	if rm == 4 {
		if len(c) < 2 {
			return 0, "", false
		}
		sib := c[1]
		n++
		switch {
		case sib == 0x25 && mod == 0:
			if len(c) < n+4 {
				return 0, "", false
			}
			return n + 4, fmt.Sprintf("[%d]", int32(binary.LittleEndian.Uint32(c[n:]))), true
		case sib&0x3F == 0x24:
			base = names64[4|rexB]
		default:
			return 0, "", false
		}
	} else {
		if mod == 0 && rm == 5 {
			if len(c) < n+4 {
				return 0, "", false
			}
			return n + 4, fmt.Sprintf("[RIP%+d]", int32(binary.LittleEndian.Uint32(c[n:]))), true
		}
		base = names64[rm|rexB]
	}
	var disp int64
	switch mod {
	case 1:
		if len(c) < n+1 {
			return 0, "", false
		}
		disp = int64(int8(c[n]))
		n++
	case 2:
		if len(c) < n+4 {
			return 0, "", false
		}
		disp = int64(int32(binary.LittleEndian.Uint32(c[n:])))
		n += 4
	}
	if disp == 0 {
		return n, "[" + base + "]", true
	}
	return n, fmt.Sprintf("[%s%+d]", base, disp), true
}
