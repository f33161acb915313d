// Package isa describes the instruction-set side of inline assembly: the CPU
// capability bitset selected by a CODE block header, target architectures,
// encoded operands and the Encoder contract implemented per architecture.
package isa

import (
	"sort"
	"strings"
)

// Flags is the CPU capability bitset. Every capability is a distinct bit.
type Flags uint32

const (
	CPU8086 Flags = 1 << iota
	CPU186
	CPU286
	CPU386
	CPU486
	CPUPentium
	CPUP6
	CPUKatmai
	CPUWillamette
	CPUPrescott
	CPUAMD64
	Protected
	Privileged
	SSE
	SSE2
	SSE3
	ThreeDNow
	MMX
	FPU
)

// flagNames maps header identifiers (the part after "SYSTEM.") to bits.
var flagNames = map[string]Flags{
	"CPU_8086":       CPU8086,
	"CPU_186":        CPU186,
	"CPU_286":        CPU286,
	"CPU_386":        CPU386,
	"CPU_486":        CPU486,
	"CPU_PENTIUM":    CPUPentium,
	"CPU_P6":         CPUP6,
	"CPU_KATMAI":     CPUKatmai,
	"CPU_WILLAMETTE": CPUWillamette,
	"CPU_PRESCOTT":   CPUPrescott,
	"CPU_AMD64":      CPUAMD64,
	"PROTECTED":      Protected,
	"PRIVILEGED":     Privileged,
	"CPU_SSE":        SSE,
	"CPU_SSE2":       SSE2,
	"CPU_SSE3":       SSE3,
	"CPU_3DNOW":      ThreeDNow,
	"CPU_MMX":        MMX,
	"CPU_FPU":        FPU,
}

// LookupFlag resolves a header identifier such as "CPU_AMD64".
func LookupFlag(name string) (Flags, bool) {
	f, ok := flagNames[name]
	return f, ok
}

// Has reports whether every bit of need is present in f.
func (f Flags) Has(need Flags) bool { return f&need == need }

// Missing returns the bits of need that f lacks.
func (f Flags) Missing(need Flags) Flags { return need &^ f }

// Names returns the header identifiers of the set bits in bit order.
func (f Flags) Names() []string {
	type named struct {
		bit  Flags
		name string
	}
	list := make([]named, 0, len(flagNames))
	for name, bit := range flagNames {
		if f&bit != 0 {
			list = append(list, named{bit, name})
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].bit < list[j].bit })
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.name
	}
	return out
}

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	return strings.Join(f.Names(), "|")
}

// ParseFlags reads a comma or '|' separated list of header identifiers,
// with or without the "SYSTEM." prefix. Used by the configuration layer.
func ParseFlags(s string) (Flags, error) {
	var out Flags
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' || r == ' ' }) {
		name := strings.ToUpper(strings.TrimPrefix(part, "SYSTEM."))
		bit, ok := flagNames[name]
		if !ok {
			return 0, &UnknownFlagError{Name: part}
		}
		out |= bit
	}
	return out, nil
}

// UnknownFlagError reports a capability name that is not in the table.
type UnknownFlagError struct {
	Name string
}

func (e *UnknownFlagError) Error() string { return "unknown CPU flag " + e.Name }
