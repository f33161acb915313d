package isa

import (
	"fmt"
	"strings"
)

// Arch selects the instruction encoder used for CODE blocks.
type Arch uint8

const (
	ArchAMD64 Arch = iota
	ArchARM64
	ArchRISCV
)

func (a Arch) String() string {
	switch a {
	case ArchAMD64:
		return "amd64"
	case ArchARM64:
		return "arm64"
	case ArchRISCV:
		return "riscv64"
	}
	return fmt.Sprintf("arch(%d)", uint8(a))
}

// ParseArch accepts the names printed by String plus a few common aliases.
func ParseArch(s string) (Arch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "amd64", "x86_64", "x86-64", "x64":
		return ArchAMD64, nil
	case "arm64", "aarch64", "armv8":
		return ArchARM64, nil
	case "riscv", "riscv64", "rv64":
		return ArchRISCV, nil
	}
	return 0, fmt.Errorf("unknown target architecture %q", s)
}

// Baseline is the capability set assumed for an architecture when the
// caller does not configure one. Header flags of a CODE block are added on
// top of it; PRIVILEGED is never part of a baseline.
func Baseline(a Arch) Flags {
	switch a {
	case ArchAMD64:
		return CPU8086 | CPU186 | CPU286 | CPU386 | CPU486 | CPUPentium | CPUP6 |
			CPUAMD64 | Protected | FPU | MMX | SSE | SSE2
	default:
		return Protected
	}
}
