package isa

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestLookupFlagBits(t *testing.T) {
	tests := []struct {
		name string
		want Flags
	}{
		{"CPU_8086", 1 << 0},
		{"CPU_186", 1 << 1},
		{"CPU_286", 1 << 2},
		{"CPU_386", 1 << 3},
		{"CPU_486", 1 << 4},
		{"CPU_PENTIUM", 1 << 5},
		{"CPU_P6", 1 << 6},
		{"CPU_KATMAI", 1 << 7},
		{"CPU_WILLAMETTE", 1 << 8},
		{"CPU_PRESCOTT", 1 << 9},
		{"CPU_AMD64", 1 << 10},
		{"PROTECTED", 1 << 11},
		{"PRIVILEGED", 1 << 12},
		{"CPU_SSE", 1 << 13},
		{"CPU_SSE2", 1 << 14},
		{"CPU_SSE3", 1 << 15},
		{"CPU_3DNOW", 1 << 16},
		{"CPU_MMX", 1 << 17},
		{"CPU_FPU", 1 << 18},
	}
	if len(tests) != len(flagNames) {
		t.Fatalf("table has %d names, flagNames has %d", len(tests), len(flagNames))
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LookupFlag(tt.name)
			if !ok {
				t.Fatalf("LookupFlag(%q) not found", tt.name)
			}
			if got != tt.want {
				t.Fatalf("LookupFlag(%q) = %#x, want %#x", tt.name, uint32(got), uint32(tt.want))
			}
			if names := got.Names(); len(names) != 1 || names[0] != tt.name {
				t.Fatalf("Names() = %v, want [%s]", names, tt.name)
			}
		})
	}
}

func TestLookupFlagUnknown(t *testing.T) {
	for _, name := range []string{"AMD64", "SYSTEM.CPU_AMD64", "cpu_amd64", ""} {
		if f, ok := LookupFlag(name); ok {
			t.Fatalf("LookupFlag(%q) = %v, want miss", name, f)
		}
	}
}

func TestFlagsNamesOrder(t *testing.T) {
	f := FPU | CPU8086 | SSE2 | CPUAMD64
	want := []string{"CPU_8086", "CPU_AMD64", "CPU_SSE2", "CPU_FPU"}
	if got := f.Names(); !slices.Equal(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	if got := f.String(); got != strings.Join(want, "|") {
		t.Fatalf("String() = %q", got)
	}
	if got := Flags(0).String(); got != "none" {
		t.Fatalf("empty String() = %q", got)
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		in   string
		want Flags
	}{
		{"", 0},
		{"CPU_AMD64", CPUAMD64},
		{"SYSTEM.CPU_AMD64, SYSTEM.PRIVILEGED", CPUAMD64 | Privileged},
		{"cpu_sse3|cpu_mmx", SSE3 | MMX},
		{"CPU_386 CPU_FPU", CPU386 | FPU},
	}
	for _, tt := range tests {
		got, err := ParseFlags(tt.in)
		if err != nil {
			t.Fatalf("ParseFlags(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseFlags(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFlagsRoundTrip(t *testing.T) {
	all := Flags(0)
	for _, bit := range flagNames {
		all |= bit
	}
	for _, f := range []Flags{CPU8086, Baseline(ArchAMD64), Baseline(ArchARM64), all} {
		back, err := ParseFlags(f.String())
		if err != nil {
			t.Fatalf("ParseFlags(%q): %v", f.String(), err)
		}
		if back != f {
			t.Fatalf("round trip %v -> %v", f, back)
		}
		joined, err := ParseFlags(strings.Join(f.Names(), ", "))
		if err != nil || joined != f {
			t.Fatalf("ParseFlags(joined names) = %v, %v; want %v", joined, err, f)
		}
	}
}

func TestParseFlagsUnknown(t *testing.T) {
	_, err := ParseFlags("CPU_AMD64|CPU_AVX")
	var unknown *UnknownFlagError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want *UnknownFlagError", err)
	}
	if unknown.Name != "CPU_AVX" {
		t.Fatalf("Name = %q", unknown.Name)
	}
	if got := err.Error(); got != "unknown CPU flag CPU_AVX" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestFlagsHasMissing(t *testing.T) {
	cpu := Baseline(ArchAMD64)
	if !cpu.Has(SSE2 | CPUAMD64) {
		t.Fatalf("baseline %v lacks SSE2|CPU_AMD64", cpu)
	}
	if cpu.Has(Privileged) {
		t.Fatalf("baseline %v includes PRIVILEGED", cpu)
	}
	if got := cpu.Missing(SSE3 | SSE2); got != SSE3 {
		t.Fatalf("Missing = %v, want CPU_SSE3", got)
	}
}

func TestParseArch(t *testing.T) {
	tests := []struct {
		in   string
		want Arch
	}{
		{"amd64", ArchAMD64},
		{" X86_64 ", ArchAMD64},
		{"aarch64", ArchARM64},
		{"rv64", ArchRISCV},
	}
	for _, tt := range tests {
		got, err := ParseArch(tt.in)
		if err != nil || got != tt.want {
			t.Fatalf("ParseArch(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseArch("mips"); err == nil {
		t.Fatalf("ParseArch(mips) accepted")
	}
	if got := Arch(9).String(); got != "arch(9)" {
		t.Fatalf("String() = %q", got)
	}
}
