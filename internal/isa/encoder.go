package isa

import (
	"errors"
	"fmt"
)

// ErrIllegalInstruction is returned for a mnemonic the encoder does not know.
var ErrIllegalInstruction = errors.New("Illegal instruction") //nolint:staticcheck // message is part of the diagnostic contract

// Encoder turns one instruction into bytes for a single architecture and
// disassembles byte sequences back into text.
//
// Mnemonics and register names are matched case-insensitively. A PC-relative
// operand carries the distance from the first byte of the instruction to the
// target; the encoder accounts for its own length.
type Encoder interface {
	Arch() Arch
	Encode(mnemonic string, ops []Operand, flags Flags) ([]byte, error)
	Decode(code []byte, flags Flags) (string, error)
	IsRegister(name string) bool
	IsBranch(mnemonic string) bool
}

// MissingFeatureError reports an instruction whose capability requirement is
// not covered by the active flag set.
type MissingFeatureError struct {
	Mnemonic string
	Missing  Flags
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("instruction %s requires %s", e.Mnemonic, e.Missing)
}

// OperandError reports operands that do not fit any form of the mnemonic.
type OperandError struct {
	Mnemonic string
	Reason   string
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("invalid operands for %s: %s", e.Mnemonic, e.Reason)
}

// CheckFeatures returns a MissingFeatureError when flags lack any bit of need.
func CheckFeatures(mnemonic string, need, flags Flags) error {
	if m := flags.Missing(need); m != 0 {
		return &MissingFeatureError{Mnemonic: mnemonic, Missing: m}
	}
	return nil
}

// Operands returns an OperandError unless ops has exactly n entries.
func Operands(mnemonic string, ops []Operand, n int) error {
	if len(ops) != n {
		return &OperandError{Mnemonic: mnemonic, Reason: fmt.Sprintf("want %d operand(s), got %d", n, len(ops))}
	}
	return nil
}
