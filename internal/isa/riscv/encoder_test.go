package riscv

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"aoc/internal/isa"
)

func words(b []byte) []uint32 {
	out := make([]uint32, 0, len(b)/4)
	for i := 0; i+4 <= len(b); i += 4 {
		out = append(out, binary.LittleEndian.Uint32(b[i:]))
	}
	return out
}

func TestEncode(t *testing.T) {
	cases := []struct {
		name string
		mn   string
		ops  []isa.Operand
		want []uint32
	}{
		{"nop", "nop", nil, []uint32{0x00000013}},
		{"ret", "ret", nil, []uint32{0x00008067}},
		{"ecall", "ecall", nil, []uint32{0x00000073}},
		{"ebreak", "ebreak", nil, []uint32{0x00100073}},
		{"addi", "addi", []isa.Operand{isa.Reg("a0"), isa.Reg("zero"), isa.Imm(1)}, []uint32{0x00100513}},
		{"add", "add", []isa.Operand{isa.Reg("a0"), isa.Reg("a1"), isa.Reg("a2")}, []uint32{0x00C58533}},
		{"sub", "sub", []isa.Operand{isa.Reg("x10"), isa.Reg("x11"), isa.Reg("x12")}, []uint32{0x40C58533}},
		{"mv", "mv", []isa.Operand{isa.Reg("s0"), isa.Reg("sp")}, []uint32{0x00010413}},
		{"li small", "li", []isa.Operand{isa.Reg("a0"), isa.Imm(-1)}, []uint32{0xFFF00513}},
		{"li large", "li", []isa.Operand{isa.Reg("a0"), isa.Imm(0x12345)}, []uint32{0x00012537, 0x34550513}},
		{"li page", "li", []isa.Operand{isa.Reg("a0"), isa.Imm(0x1000)}, []uint32{0x00001537}},
		{"j", "j", []isa.Operand{isa.Rel(8)}, []uint32{0x0080006F}},
		{"jal back", "jal", []isa.Operand{isa.Rel(-4)}, []uint32{0xFFDFF0EF}},
		{"beq", "beq", []isa.Operand{isa.Reg("a0"), isa.Reg("a1"), isa.Rel(8)}, []uint32{0x00B50463}},
		{"mret", "mret", nil, []uint32{0x30200073}},
	}
	e := New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := e.Encode(tc.mn, tc.ops, isa.Privileged)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got := words(b)
			if len(got) != len(tc.want) {
				t.Fatalf("Encode = %08X, want %08X", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("word %d = %08X, want %08X", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	e := New()
	if _, err := e.Encode("frob", nil, 0); !errors.Is(err, isa.ErrIllegalInstruction) {
		t.Fatalf("got %v", err)
	}
	var mf *isa.MissingFeatureError
	if _, err := e.Encode("wfi", nil, isa.Baseline(isa.ArchRISCV)); !errors.As(err, &mf) {
		t.Fatalf("wfi without PRIVILEGED: got %v", err)
	}
	var oe *isa.OperandError
	if _, err := e.Encode("addi", []isa.Operand{isa.Reg("a0"), isa.Reg("a0"), isa.Imm(4096)}, 0); !errors.As(err, &oe) {
		t.Fatalf("immediate overflow: got %v", err)
	}
}

func TestDecode(t *testing.T) {
	var code []byte
	for _, w := range []uint32{0x00100513, 0x00C58533, 0xFFDFF0EF, 0x00008067} {
		code = binary.LittleEndian.AppendUint32(code, w)
	}
	text, err := New().Decode(code, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for _, want := range []string{"LI A0, 1", "ADD A0, A1, A2", "JAL 0004H", "RET"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
}
