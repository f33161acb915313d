// Package amd64 encodes and decodes the x86-64 instruction subset accepted in
// CODE blocks.
package amd64

import (
	"aoc/internal/isa"
)

type register struct {
	num  byte
	bits int
}

var (
	names64 = [16]string{"RAX", "RCX", "RDX", "RBX", "RSP", "RBP", "RSI", "RDI", "R8", "R9", "R10", "R11", "R12", "R13", "R14", "R15"}
	names32 = [16]string{"EAX", "ECX", "EDX", "EBX", "ESP", "EBP", "ESI", "EDI", "R8D", "R9D", "R10D", "R11D", "R12D", "R13D", "R14D", "R15D"}
)

var registers = func() map[string]register {
	m := make(map[string]register, 32)
	for i := range names64 {
		m[names64[i]] = register{num: byte(i), bits: 64}
		m[names32[i]] = register{num: byte(i), bits: 32}
	}
	return m
}()

var segments = map[string]byte{"ES": 0x26, "CS": 0x2E, "SS": 0x36, "DS": 0x3E, "FS": 0x64, "GS": 0x65}

type fixed struct {
	code []byte
	need isa.Flags
}

// instructions without operands
var fixedOps = map[string]fixed{
	"NOP":     {[]byte{0x90}, 0},
	"RET":     {[]byte{0xC3}, 0},
	"INT3":    {[]byte{0xCC}, 0},
	"CLD":     {[]byte{0xFC}, 0},
	"STD":     {[]byte{0xFD}, 0},
	"MOVSB":   {[]byte{0xA4}, 0},
	"STOSB":   {[]byte{0xAA}, 0},
	"LEAVE":   {[]byte{0xC9}, isa.CPU186},
	"CDQ":     {[]byte{0x99}, isa.CPU386},
	"HLT":     {[]byte{0xF4}, isa.Privileged},
	"CLI":     {[]byte{0xFA}, isa.Privileged},
	"STI":     {[]byte{0xFB}, isa.Privileged},
	"CPUID":   {[]byte{0x0F, 0xA2}, isa.CPUPentium},
	"RDTSC":   {[]byte{0x0F, 0x31}, isa.CPUPentium},
	"EMMS":    {[]byte{0x0F, 0x77}, isa.MMX},
	"FNINIT":  {[]byte{0xDB, 0xE3}, isa.FPU},
	"FWAIT":   {[]byte{0x9B}, isa.FPU},
	"SFENCE":  {[]byte{0x0F, 0xAE, 0xF8}, isa.SSE},
	"LFENCE":  {[]byte{0x0F, 0xAE, 0xE8}, isa.SSE2},
	"MFENCE":  {[]byte{0x0F, 0xAE, 0xF0}, isa.SSE2},
	"PAUSE":   {[]byte{0xF3, 0x90}, isa.SSE2},
	"SYSCALL": {[]byte{0x0F, 0x05}, isa.CPUAMD64},
	"CQO":     {[]byte{0x48, 0x99}, isa.CPUAMD64},
	"MOVSQ":   {[]byte{0x48, 0xA5}, isa.CPUAMD64},
	"STOSQ":   {[]byte{0x48, 0xAB}, isa.CPUAMD64},
	"PUSHFQ":  {[]byte{0x9C}, isa.CPUAMD64},
	"POPFQ":   {[]byte{0x9D}, isa.CPUAMD64},
	"IRETQ":   {[]byte{0x48, 0xCF}, isa.CPUAMD64 | isa.Privileged},
}

// aluOps maps the classic two-operand arithmetic group to its /digit.
var aluOps = map[string]byte{"ADD": 0, "OR": 1, "ADC": 2, "SBB": 3, "AND": 4, "SUB": 5, "XOR": 6, "CMP": 7}

var aluNames = [8]string{"ADD", "OR", "ADC", "SBB", "AND", "SUB", "XOR", "CMP"}

// unaryOps: opcode and /digit of single register operand instructions.
var unaryOps = map[string][2]byte{
	"INC": {0xFF, 0},
	"DEC": {0xFF, 1},
	"NOT": {0xF7, 2},
	"NEG": {0xF7, 3},
}

var jccOps = map[string]byte{
	"JO": 0x0, "JNO": 0x1, "JB": 0x2, "JC": 0x2, "JAE": 0x3, "JNC": 0x3,
	"JE": 0x4, "JZ": 0x4, "JNE": 0x5, "JNZ": 0x5, "JBE": 0x6, "JA": 0x7,
	"JS": 0x8, "JNS": 0x9, "JP": 0xA, "JNP": 0xB, "JL": 0xC, "JGE": 0xD,
	"JLE": 0xE, "JG": 0xF,
}

var jccNames = [16]string{"JO", "JNO", "JB", "JAE", "JE", "JNE", "JBE", "JA", "JS", "JNS", "JP", "JNP", "JL", "JGE", "JLE", "JG"}
