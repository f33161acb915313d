package amd64

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"aoc/internal/isa"
)

func TestEncode(t *testing.T) {
	all := isa.Baseline(isa.ArchAMD64) | isa.Privileged
	cases := []struct {
		name string
		mn   string
		ops  []isa.Operand
		want []byte
	}{
		{"nop", "nop", nil, []byte{0x90}},
		{"ret", "RET", nil, []byte{0xC3}},
		{"ret imm", "RET", []isa.Operand{isa.Imm(8)}, []byte{0xC2, 0x08, 0x00}},
		{"cpuid", "CPUID", nil, []byte{0x0F, 0xA2}},
		{"hlt", "HLT", nil, []byte{0xF4}},
		{"push rbp", "PUSH", []isa.Operand{isa.Reg("rbp")}, []byte{0x55}},
		{"push r12", "PUSH", []isa.Operand{isa.Reg("R12")}, []byte{0x41, 0x54}},
		{"pop rbp", "POP", []isa.Operand{isa.Reg("RBP")}, []byte{0x5D}},
		{"mov rbp rsp", "MOV", []isa.Operand{isa.Reg("RBP"), isa.Reg("RSP")}, []byte{0x48, 0x89, 0xE5}},
		{"mov r8 rax", "MOV", []isa.Operand{isa.Reg("R8"), isa.Reg("RAX")}, []byte{0x49, 0x89, 0xC0}},
		{"mov eax imm", "MOV", []isa.Operand{isa.Reg("EAX"), isa.Imm(1)}, []byte{0xB8, 0x01, 0x00, 0x00, 0x00}},
		{"mov rax imm32", "MOV", []isa.Operand{isa.Reg("RAX"), isa.Imm(-1)}, []byte{0x48, 0xC7, 0xC0, 0xFF, 0xFF, 0xFF, 0xFF}},
		{"mov rax imm64", "MOV", []isa.Operand{isa.Reg("RAX"), isa.Imm(0x100000000)}, []byte{0x48, 0xB8, 0, 0, 0, 0, 1, 0, 0, 0}},
		{"mov rax [rbp-8]", "MOV", []isa.Operand{isa.Reg("RAX"), isa.Mem("RBP", -8)}, []byte{0x48, 0x8B, 0x45, 0xF8}},
		{"mov [rsp] rax", "MOV", []isa.Operand{isa.Mem("RSP", 0), isa.Reg("RAX")}, []byte{0x48, 0x89, 0x04, 0x24}},
		{"lea", "LEA", []isa.Operand{isa.Reg("RDI"), isa.Mem("RBX", 0x100)}, []byte{0x48, 0x8D, 0xBB, 0x00, 0x01, 0x00, 0x00}},
		{"add rax rbx", "ADD", []isa.Operand{isa.Reg("RAX"), isa.Reg("RBX")}, []byte{0x48, 0x01, 0xD8}},
		{"sub rsp 16", "SUB", []isa.Operand{isa.Reg("RSP"), isa.Imm(16)}, []byte{0x48, 0x83, 0xEC, 0x10}},
		{"cmp eax 1000", "CMP", []isa.Operand{isa.Reg("EAX"), isa.Imm(1000)}, []byte{0x81, 0xF8, 0xE8, 0x03, 0x00, 0x00}},
		{"xor eax eax", "XOR", []isa.Operand{isa.Reg("EAX"), isa.Reg("EAX")}, []byte{0x31, 0xC0}},
		{"inc rcx", "INC", []isa.Operand{isa.Reg("RCX")}, []byte{0x48, 0xFF, 0xC1}},
		{"neg eax", "NEG", []isa.Operand{isa.Reg("EAX")}, []byte{0xF7, 0xD8}},
		{"jmp back", "JMP", []isa.Operand{isa.Rel(0)}, []byte{0xE9, 0xFB, 0xFF, 0xFF, 0xFF}},
		{"call fwd", "CALL", []isa.Operand{isa.Rel(10)}, []byte{0xE8, 0x05, 0x00, 0x00, 0x00}},
		{"jne", "JNE", []isa.Operand{isa.Rel(6)}, []byte{0x0F, 0x85, 0x00, 0x00, 0x00, 0x00}},
		{"call rax", "CALL", []isa.Operand{isa.Reg("RAX")}, []byte{0xFF, 0xD0}},
		{"int 80h", "INT", []isa.Operand{isa.Imm(0x80)}, []byte{0xCD, 0x80}},
	}
	e := New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.Encode(tc.mn, tc.ops, all)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.Equal(got, tc.want) {
				t.Fatalf("Encode = % X, want % X", got, tc.want)
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	e := New()
	if _, err := e.Encode("FROB", nil, isa.Baseline(isa.ArchAMD64)); !errors.Is(err, isa.ErrIllegalInstruction) {
		t.Fatalf("unknown mnemonic: got %v", err)
	}
	if err := isa.ErrIllegalInstruction; err.Error() != "Illegal instruction" {
		t.Fatalf("message = %q", err.Error())
	}

	_, err := e.Encode("HLT", nil, isa.Baseline(isa.ArchAMD64))
	var mf *isa.MissingFeatureError
	if !errors.As(err, &mf) || mf.Missing != isa.Privileged {
		t.Fatalf("HLT without PRIVILEGED: got %v", err)
	}

	_, err = e.Encode("MOV", []isa.Operand{isa.Reg("RAX")}, isa.Baseline(isa.ArchAMD64))
	var oe *isa.OperandError
	if !errors.As(err, &oe) {
		t.Fatalf("operand count: got %v", err)
	}

	_, err = e.Encode("MOV", []isa.Operand{isa.Reg("RAX"), isa.Reg("EAX")}, isa.Baseline(isa.ArchAMD64))
	if !errors.As(err, &oe) {
		t.Fatalf("size mismatch: got %v", err)
	}

	if _, err := e.Encode("MOV", []isa.Operand{isa.Reg("RAX"), isa.Imm(1)}, isa.CPU386); !errors.As(err, &mf) {
		t.Fatalf("64-bit register without CPU_AMD64: got %v", err)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	e := New()
	flags := isa.Baseline(isa.ArchAMD64)
	var code []byte
	for _, in := range []struct {
		mn  string
		ops []isa.Operand
	}{
		{"PUSH", []isa.Operand{isa.Reg("RBP")}},
		{"MOV", []isa.Operand{isa.Reg("RBP"), isa.Reg("RSP")}},
		{"SUB", []isa.Operand{isa.Reg("RSP"), isa.Imm(16)}},
		{"MOV", []isa.Operand{isa.Reg("RAX"), isa.Mem("RBP", -8)}},
		{"JMP", []isa.Operand{isa.Rel(-12)}},
		{"RET", nil},
	} {
		b, err := e.Encode(in.mn, in.ops, flags)
		if err != nil {
			t.Fatalf("Encode %s: %v", in.mn, err)
		}
		code = append(code, b...)
	}
	text, err := e.Decode(code, flags)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []string{"PUSH RBP", "MOV RBP, RSP", "SUB RSP, 16", "MOV RAX, [RBP-8]", "JMP 0000H", "RET"}
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) != len(want) {
		t.Fatalf("decoded %d lines, want %d:\n%s", len(lines), len(want), text)
	}
	for i, w := range want {
		if !strings.HasSuffix(lines[i], " "+w) {
			t.Fatalf("line %d = %q, want suffix %q", i, lines[i], w)
		}
	}
}

func TestDecodeUnknownByte(t *testing.T) {
	text, _ := New().Decode([]byte{0x06}, 0)
	if !strings.Contains(text, "DB 06H") {
		t.Fatalf("got %q", text)
	}
}
