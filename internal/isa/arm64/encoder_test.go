package arm64

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"aoc/internal/isa"
)

func word(t *testing.T, b []byte) uint32 {
	t.Helper()
	if len(b) != 4 {
		t.Fatalf("want one word, got %d bytes", len(b))
	}
	return binary.LittleEndian.Uint32(b)
}

func TestEncode(t *testing.T) {
	cases := []struct {
		mn   string
		ops  []isa.Operand
		want uint32
	}{
		{"nop", nil, 0xD503201F},
		{"RET", nil, 0xD65F03C0},
		{"RET", []isa.Operand{isa.Reg("X1")}, 0xD65F0020},
		{"BRK", []isa.Operand{isa.Imm(0)}, 0xD4200000},
		{"SVC", []isa.Operand{isa.Imm(0)}, 0xD4000001},
		{"MOVZ", []isa.Operand{isa.Reg("X0"), isa.Imm(1)}, 0xD2800020},
		{"MOV", []isa.Operand{isa.Reg("X0"), isa.Reg("X1")}, 0xAA0103E0},
		{"ADD", []isa.Operand{isa.Reg("X0"), isa.Reg("X1"), isa.Imm(1)}, 0x91000420},
		{"SUB", []isa.Operand{isa.Reg("SP"), isa.Reg("SP"), isa.Imm(16)}, 0xD10043FF},
		{"ADD", []isa.Operand{isa.Reg("X0"), isa.Reg("X1"), isa.Reg("X2")}, 0x8B020020},
		{"B", []isa.Operand{isa.Rel(8)}, 0x14000002},
		{"BL", []isa.Operand{isa.Rel(-4)}, 0x97FFFFFF},
		{"WFI", nil, 0xD503207F},
	}
	e := New()
	for _, tc := range cases {
		t.Run(tc.mn, func(t *testing.T) {
			b, err := e.Encode(tc.mn, tc.ops, isa.Privileged)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if got := word(t, b); got != tc.want {
				t.Fatalf("Encode = %08X, want %08X", got, tc.want)
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	e := New()
	if _, err := e.Encode("MOVQ", nil, 0); !errors.Is(err, isa.ErrIllegalInstruction) {
		t.Fatalf("got %v", err)
	}
	var mf *isa.MissingFeatureError
	if _, err := e.Encode("ERET", nil, isa.Baseline(isa.ArchARM64)); !errors.As(err, &mf) {
		t.Fatalf("ERET without PRIVILEGED: got %v", err)
	}
	var oe *isa.OperandError
	if _, err := e.Encode("B", []isa.Operand{isa.Rel(2)}, 0); !errors.As(err, &oe) {
		t.Fatalf("unaligned branch: got %v", err)
	}
	if _, err := e.Encode("ADD", []isa.Operand{isa.Reg("X0"), isa.Reg("X99"), isa.Imm(1)}, 0); !errors.As(err, &oe) {
		t.Fatalf("bad register: got %v", err)
	}
}

func TestDecode(t *testing.T) {
	e := New()
	var code []byte
	for _, w := range []uint32{0xD10043FF, 0xD2800020, 0x14000000, 0xD65F03C0} {
		code = binary.LittleEndian.AppendUint32(code, w)
	}
	code = append(code, 0xAB)
	text, err := e.Decode(code, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for _, want := range []string{"SUB SP, SP, 16", "MOVZ X0, 1", "B 0008H", "RET", "DB ABH"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
}
