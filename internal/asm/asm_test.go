package asm

import (
	"bytes"
	"strings"
	"testing"

	"aoc/internal/diag"
	"aoc/internal/isa"
)

func TestTokenizeNumbers(t *testing.T) {
	cases := []struct {
		in         string
		start, end uint32
		want       uint64
	}{
		{"7FH", 0, 3, 0x7F},
		{"7fabX", 0, 5, 0x7FAB},
		{"1000", 0, 4, 1000},
		{"0ffh", 0, 4, 0xFF},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			toks, err := Tokenize(0, tc.in, 0)
			if err != nil {
				t.Fatalf("Tokenize: %v", err)
			}
			if len(toks) != 2 || toks[1].Kind != EOF {
				t.Fatalf("want one token and EOF, got %v", toks)
			}
			n := toks[0]
			if n.Kind != Number || n.Span.Start != tc.start || n.Span.End != tc.end || n.Value != tc.want {
				t.Fatalf("got %s(%d,%d, %#x)", n.Kind, n.Span.Start, n.Span.End, n.Value)
			}
		})
	}
}

func TestTokenizeKinds(t *testing.T) {
	toks, err := Tokenize(3, "loop: MOV [RAX+4], 'x' ; comment\n$", 100)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []Kind{Label, Ident, LBracket, Ident, Plus, Number, RBracket, Comma, String, NewLine, Dollar, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d = %s, want %s", i, toks[i].Kind, k)
		}
	}
	if toks[0].Span.Start != 100 || toks[0].Span.End != 105 || toks[0].Span.File != 3 {
		t.Fatalf("label span = %v", toks[0].Span)
	}
}

func TestTokenizeErrors(t *testing.T) {
	cases := []struct {
		in   string
		code diag.Code
	}{
		{"12AB", diag.AsmBadNumber},
		{"99999999999999999999", diag.AsmBadNumber},
		{"'abc", diag.AsmUnexpectedToken},
		{"MOV RAX, #1", diag.AsmUnexpectedToken},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			_, err := Tokenize(0, tc.in, 0)
			de, ok := diag.AsError(err)
			if !ok || de.Code != tc.code {
				t.Fatalf("got %v, want code %s", err, tc.code.ID())
			}
		})
	}
}

func TestExpressionPrecedence(t *testing.T) {
	cases := map[string]string{
		"-2*3+4":  "(-(2*3)+4)",
		"1+2*3":   "(1+(2*3))",
		"8-4-2":   "((8-4)-2)",
		"~0+1":    "(~0+1)",
		"(1+2)*3": "((1+2)*3)",
		"10%4/2":  "((10%4)/2)",
	}
	for in, want := range cases {
		toks, err := Tokenize(0, in, 0)
		if err != nil {
			t.Fatalf("Tokenize %q: %v", in, err)
		}
		p := &parser{toks: toks, enc: EncoderFor(isa.ArchAMD64)}
		e, err := p.parseExpr()
		if err != nil {
			t.Fatalf("parseExpr %q: %v", in, err)
		}
		if got := e.String(); got != want {
			t.Fatalf("%q parsed as %s, want %s", in, got, want)
		}
	}
}

func TestHeaderOnly(t *testing.T) {
	b, err := Assemble("{ SYSTEM.CPU_AMD64, SYSTEM.CPU_SSE3 } BITS 64", 0, Options{Arch: isa.ArchAMD64})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(b.Code) != 0 {
		t.Fatalf("expected no code, got % X", b.Code)
	}
	if b.Flags != isa.CPUAMD64|isa.SSE3 {
		t.Fatalf("flags = %s", b.Flags)
	}
	if b.Bits != 64 {
		t.Fatalf("bits = %d", b.Bits)
	}
}

func TestHeaderErrors(t *testing.T) {
	cases := []struct {
		in   string
		code diag.Code
		msg  string
	}{
		{"{ SYSTEM.CPU_Z80 }", diag.AsmUnknownFlag, "unknown CPU flag"},
		{"{ HOST.CPU_AMD64 }", diag.AsmUnsupportedTarget, "unsupported target identifier"},
		{"{ SYSTEM CPU_AMD64 }", diag.AsmUnexpectedToken, "expected '.'"},
		{"{ SYSTEM.CPU_AMD64 SYSTEM.CPU_SSE }", diag.AsmUnexpectedToken, "',' or '}'"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			_, err := Assemble(tc.in, 0, Options{})
			de, ok := diag.AsError(err)
			if !ok || de.Code != tc.code || !strings.Contains(de.Message, tc.msg) {
				t.Fatalf("got %v, want %s containing %q", err, tc.code.ID(), tc.msg)
			}
		})
	}
}

func TestAssembleAMD64(t *testing.T) {
	src := `{SYSTEM.CPU_AMD64}
start:
	PUSH RBP
	MOV RBP, RSP
loop: DEC RCX          ; counter
	JNE loop
	MOV RAX, QWORD [RBP-8]
	POP RBP
	RET
`
	b, err := Assemble(src, 0, Options{Arch: isa.ArchAMD64})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{
		0x55,
		0x48, 0x89, 0xE5,
		0x48, 0xFF, 0xC9,
		0x0F, 0x85, 0xF7, 0xFF, 0xFF, 0xFF,
		0x48, 0x8B, 0x45, 0xF8,
		0x5D,
		0xC3,
	}
	if !bytes.Equal(b.Code, want) {
		t.Fatalf("code = % X\nwant % X", b.Code, want)
	}
	if b.Symbols["start"] != 0 || b.Symbols["loop"] != 4 {
		t.Fatalf("symbols = %v", b.Symbols)
	}
	if len(b.Lines) != 8 {
		t.Fatalf("lines = %d", len(b.Lines))
	}
}

func TestDirectives(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []byte
	}{
		{"db", "DB 1, 'AB', 0FFH", []byte{0x01, 0x41, 0x42, 0xFF}},
		{"dw", "DW 1234H", []byte{0x34, 0x12}},
		{"dd", "DD 12345678H", []byte{0x78, 0x56, 0x34, 0x12}},
		{"dq", "DQ -1", bytes.Repeat([]byte{0xFF}, 8)},
		{"times", "TIMES 3 NOP", []byte{0x90, 0x90, 0x90}},
		{"align", "DB 7\nALIGN 4\nDB 8", []byte{0x07, 0x90, 0x90, 0x90, 0x08}},
		{"resb", "RESB 2\nRESW 1", []byte{0, 0, 0, 0}},
		{"equ", "N EQU 8\nSUB RSP, N", []byte{0x48, 0x83, 0xEC, 0x08}},
		{"label equ", "N: EQU 2*4\nDB N", []byte{0x08}},
		{"here", "DB 1\nDB $", []byte{0x01, 0x01}},
		{"org", "ORG 10H\nhere: DB here", []byte{0x10}},
		{"absolute", "ABSOLUTE 0\nfield: RESD 1\nnext: RESB 1\nORG 0\nDB next", []byte{0x04}},
		{"rep prefix", "REP MOVSB", []byte{0xF3, 0xA4}},
		{"lock alone", "LOCK", []byte{0xF0}},
		{"cpu", "CPU PRIVILEGED\nHLT", []byte{0xF4}},
		{"times empty", "TIMES 100000000000 DB ''\nDB 1", []byte{0x01}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Assemble(tc.src, 0, Options{Arch: isa.ArchAMD64})
			if err != nil {
				t.Fatalf("Assemble: %v", err)
			}
			if !bytes.Equal(b.Code, tc.want) {
				t.Fatalf("code = % X, want % X", b.Code, tc.want)
			}
		})
	}
}

func TestAssembleErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"illegal", "FROB RAX", diag.AsmIllegalInstruction},
		{"privileged", "HLT", diag.AsmMissingFeature},
		{"operands", "MOV RAX", diag.AsmBadOperand},
		{"undefined", "JMP nowhere", diag.AsmUndefinedSymbol},
		{"duplicate", "a: NOP\na: NOP", diag.AsmDuplicateLabel},
		{"phase", "ADD RAX, big\nbig EQU 1000", diag.AsmPhaseError},
		{"bits", "BITS 8", diag.AsmBadOperand},
		{"align", "ALIGN 3", diag.AsmBadOperand},
		{"absolute code", "ABSOLUTE 0\nNOP", diag.AsmBadOperand},
		{"stray paren", "NOP )", diag.AsmUnexpectedToken},
		{"no mnemonic", "a: 5", diag.AsmUnexpectedToken},
		{"div zero", "DB 1/0", diag.AsmBadOperand},
		{"db range", "DB 300", diag.AsmBadOperand},
		{"reserve wraps", "TIMES 3 RESB 3074457345618258603", diag.AsmBadOperand},
		{"reserve limit", "RESD 5000000", diag.AsmBadOperand},
		{"times limit", "TIMES 100000000000 NOP", diag.AsmBadOperand},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Assemble(tc.src, 0, Options{Arch: isa.ArchAMD64})
			de, ok := diag.AsError(err)
			if !ok || de.Code != tc.code {
				t.Fatalf("got %v, want %s", err, tc.code.ID())
			}
		})
	}
}

func TestIllegalInstructionMessage(t *testing.T) {
	_, err := Assemble("\n  FROB", 40, Options{Arch: isa.ArchAMD64})
	if err == nil {
		t.Fatalf("expected error")
	}
	de, _ := diag.AsError(err)
	if de.Message != "Illegal instruction" {
		t.Fatalf("message = %q", de.Message)
	}
	if !strings.HasSuffix(err.Error(), "position: '43'") {
		t.Fatalf("error = %q", err.Error())
	}
}

func TestPrivilegedHeader(t *testing.T) {
	b, err := Assemble("{SYSTEM.PRIVILEGED}\nCLI\nHLT", 0, Options{Arch: isa.ArchAMD64})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !bytes.Equal(b.Code, []byte{0xFA, 0xF4}) {
		t.Fatalf("code = % X", b.Code)
	}
	if !b.CPU.Has(isa.Privileged | isa.CPUAMD64) {
		t.Fatalf("effective cpu = %s", b.CPU)
	}
}

func TestAssembleOtherArchitectures(t *testing.T) {
	rv, err := Assemble("li a0, 1\nret", 0, Options{Arch: isa.ArchRISCV})
	if err != nil {
		t.Fatalf("riscv: %v", err)
	}
	if !bytes.Equal(rv.Code, []byte{0x13, 0x05, 0x10, 0x00, 0x67, 0x80, 0x00, 0x00}) {
		t.Fatalf("riscv code = % X", rv.Code)
	}

	arm, err := Assemble("top: NOP\nB top", 0, Options{Arch: isa.ArchARM64})
	if err != nil {
		t.Fatalf("arm64: %v", err)
	}
	if !bytes.Equal(arm.Code, []byte{0x1F, 0x20, 0x03, 0xD5, 0xFF, 0xFF, 0xFF, 0x17}) {
		t.Fatalf("arm64 code = % X", arm.Code)
	}

	if _, err := Assemble("REP NOP", 0, Options{Arch: isa.ArchARM64}); err == nil {
		t.Fatalf("prefix must be rejected on arm64")
	}
}
