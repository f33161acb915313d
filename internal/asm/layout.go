package asm

import (
	"encoding/binary"
	"errors"
	"strings"

	"fortio.org/safecast"

	"aoc/internal/diag"
	"aoc/internal/isa"
)

var prefixBytes = map[string]byte{
	"REP": 0xF3, "REPE": 0xF3, "REPZ": 0xF3,
	"REPNE": 0xF2, "REPNZ": 0xF2,
	"LOCK": 0xF0,
}

// maxBlockSize bounds the bytes one CODE line may emit or reserve.
const maxBlockSize = 1 << 24

var dataWidth = map[string]int{"DB": 1, "DW": 2, "DD": 4, "DQ": 8, "RESB": 1, "RESW": 2, "RESD": 4}

type layout struct {
	enc   isa.Encoder
	block *Block
	base  isa.Flags

	// pass state
	final    bool
	flags    isa.Flags
	pc       int64
	absolute bool
	symbols  map[string]int64
	defined  map[string]bool
}

func (l *layout) run() error {
	l.symbols = make(map[string]int64)
	if err := l.pass(false); err != nil {
		return err
	}
	if err := l.pass(true); err != nil {
		return err
	}
	l.block.Symbols = l.symbols
	return nil
}

func (l *layout) pass(final bool) error {
	l.final, l.flags, l.pc, l.absolute = final, l.base, 0, false
	l.defined = make(map[string]bool)
	var out []byte
	for _, ln := range l.block.Lines {
		if ln.Label != "" && ln.Kind != LineEqu {
			if err := l.define(ln, l.pc); err != nil {
				return err
			}
		}
		start := l.pc
		code, advance, err := l.line(ln)
		if err != nil {
			return err
		}
		if final {
			if advance != ln.Size || start != ln.Offset {
				return diag.Errorf(diag.AsmPhaseError, ln.Span, "phase error: size of %s changed between passes (%d -> %d)", ln.describe(), ln.Size, advance)
			}
			ln.Code = code
			out = append(out, code...)
		} else {
			ln.Offset, ln.Size = start, advance
		}
		if ln.Kind != LineOrg && ln.Kind != LineAbsolute {
			l.pc += advance
		}
	}
	if final {
		l.block.Code = out
		l.block.CPU = l.flags
	}
	return nil
}

func (ln *Line) describe() string {
	if ln.Name != "" {
		return ln.Name
	}
	return ln.Kind.String()
}

func (l *layout) define(ln *Line, v int64) error {
	if l.defined[ln.Label] {
		return diag.Errorf(diag.AsmDuplicateLabel, ln.LabelSpan, "duplicate label %s", ln.Label)
	}
	l.defined[ln.Label] = true
	if old, ok := l.symbols[ln.Label]; ok && l.final && old != v && ln.Kind != LineEqu {
		return diag.Errorf(diag.AsmPhaseError, ln.LabelSpan, "phase error: label %s moved from %d to %d", ln.Label, old, v)
	}
	l.symbols[ln.Label] = v
	return nil
}

func (l *layout) eval(e *Expr) (int64, error) {
	ev := env{symbols: l.symbols, here: l.pc, lenient: !l.final}
	return ev.eval(e)
}

// line returns the bytes emitted for ln and the amount the location counter
// advances. For ORG the advance is the new counter value.
func (l *layout) line(ln *Line) ([]byte, int64, error) {
	repeat := int64(1)
	if ln.Repeat != nil {
		n, err := l.eval(ln.Repeat)
		if err != nil {
			return nil, 0, err
		}
		if n < 0 {
			return nil, 0, diag.Errorf(diag.AsmBadOperand, ln.Repeat.Span, "negative TIMES count")
		}
		repeat = n
	}

	switch ln.Kind {
	case LineLabel:
		return nil, 0, nil
	case LineEqu:
		v, err := l.eval(ln.Args[0])
		if err != nil {
			return nil, 0, err
		}
		return nil, 0, l.define(ln, v)
	case LineBits:
		v, err := l.eval(ln.Args[0])
		if err != nil {
			return nil, 0, err
		}
		if v != 16 && v != 32 && v != 64 {
			return nil, 0, diag.Errorf(diag.AsmBadOperand, ln.Args[0].Span, "BITS must be 16, 32 or 64")
		}
		l.block.Bits = int(v)
		return nil, 0, nil
	case LineCPU:
		name := strings.ToUpper(ln.Args[0].Text)
		bit, ok := isa.LookupFlag("CPU_" + name)
		if !ok {
			bit, ok = isa.LookupFlag(name)
		}
		if !ok {
			return nil, 0, diag.Errorf(diag.AsmUnknownFlag, ln.Args[0].Span, "unknown CPU %s", ln.Args[0].Text)
		}
		l.flags |= bit
		return nil, 0, nil
	case LineOrg, LineAbsolute:
		v, err := l.eval(ln.Args[0])
		if err != nil {
			return nil, 0, err
		}
		if v < 0 {
			return nil, 0, diag.Errorf(diag.AsmBadOperand, ln.Args[0].Span, "negative location")
		}
		l.absolute = ln.Kind == LineAbsolute
		l.pc = v
		return nil, v, nil
	case LineAlign:
		v, err := l.eval(ln.Args[0])
		if err != nil {
			return nil, 0, err
		}
		if v <= 0 || v&(v-1) != 0 {
			return nil, 0, diag.Errorf(diag.AsmBadOperand, ln.Args[0].Span, "ALIGN needs a power of two")
		}
		pad := (v - l.pc%v) % v
		return l.fill(ln, l.padByte(), pad)
	case LineReserve:
		n, err := l.eval(ln.Args[0])
		if err != nil {
			return nil, 0, err
		}
		if n < 0 {
			return nil, 0, diag.Errorf(diag.AsmBadOperand, ln.Args[0].Span, "negative reservation")
		}
		size, err := blockBytes(ln, repeat, n, int64(dataWidth[ln.Name]))
		if err != nil {
			return nil, 0, err
		}
		return l.fill(ln, 0, size)
	}

	if l.absolute {
		return nil, 0, diag.Errorf(diag.AsmBadOperand, ln.Span, "%s emits code inside an ABSOLUTE section", ln.describe())
	}
	var one []byte
	var err error
	switch ln.Kind {
	case LineData:
		one, err = l.data(ln)
	case LinePrefix:
		one, err = l.prefixes(ln)
	default:
		one, err = l.instruction(ln)
	}
	if err != nil {
		return nil, 0, err
	}
	if len(one) == 0 {
		return nil, 0, nil
	}
	size, err := blockBytes(ln, repeat, int64(len(one)))
	if err != nil {
		return nil, 0, err
	}
	code := make([]byte, 0, size)
	for i := int64(0); i < repeat; i++ {
		code = append(code, one...)
	}
	return code, size, nil
}

// blockBytes multiplies non-negative counts and fails as soon as the product
// passes maxBlockSize, so the result never wraps.
func blockBytes(ln *Line, counts ...int64) (int64, error) {
	total := int64(1)
	for _, c := range counts {
		if c < 0 || (c > 0 && total > maxBlockSize/c) {
			return 0, diag.Errorf(diag.AsmBadOperand, ln.Span, "%s expands beyond the block size limit", ln.describe())
		}
		total *= c
	}
	return total, nil
}

// fill emits n copies of b, or only advances the counter in ABSOLUTE mode.
func (l *layout) fill(ln *Line, b byte, n int64) ([]byte, int64, error) {
	if n < 0 || n > maxBlockSize {
		return nil, 0, diag.Errorf(diag.AsmBadOperand, ln.Span, "%s size %d out of range", ln.describe(), n)
	}
	if l.absolute {
		return nil, n, nil
	}
	size, err := safecast.Conv[int](n)
	if err != nil {
		return nil, 0, diag.Errorf(diag.AsmBadOperand, ln.Span, "%s size %d too large", ln.describe(), n)
	}
	out := make([]byte, size)
	if b != 0 {
		for i := range out {
			out[i] = b
		}
	}
	return out, n, nil
}

func (l *layout) padByte() byte {
	if l.block.Arch == isa.ArchAMD64 {
		return 0x90
	}
	return 0
}

func (l *layout) data(ln *Line) ([]byte, error) {
	width := dataWidth[ln.Name]
	var out []byte
	for _, arg := range ln.Args {
		if arg.Kind == ExprString && width == 1 {
			out = append(out, arg.Text...)
			continue
		}
		v, err := l.eval(arg)
		if err != nil {
			return nil, err
		}
		bits := uint(8 * width)
		if width < 8 && !isa.FitsSigned(v, bits) && !isa.FitsUnsigned(v, bits) {
			return nil, diag.Errorf(diag.AsmBadOperand, arg.Span, "value %d does not fit %s", v, ln.Name)
		}
		switch width {
		case 1:
			out = append(out, byte(v))
		case 2:
			out = binary.LittleEndian.AppendUint16(out, uint16(v))
		case 4:
			out = binary.LittleEndian.AppendUint32(out, uint32(v))
		default:
			out = binary.LittleEndian.AppendUint64(out, uint64(v))
		}
	}
	return out, nil
}

func (l *layout) prefixes(ln *Line) ([]byte, error) {
	if l.block.Arch != isa.ArchAMD64 {
		return nil, diag.Errorf(diag.AsmIllegalInstruction, ln.Prefixes[0].Span, "prefix %s is not available on %s", ln.Prefixes[0].Name, l.block.Arch)
	}
	out := make([]byte, 0, len(ln.Prefixes))
	for _, p := range ln.Prefixes {
		out = append(out, prefixBytes[p.Name])
	}
	return out, nil
}

func (l *layout) instruction(ln *Line) ([]byte, error) {
	ops := make([]isa.Operand, 0, len(ln.Operands))
	branch := l.enc.IsBranch(ln.Name)
	for _, o := range ln.Operands {
		op, err := l.operand(o, branch)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	var out []byte
	if len(ln.Prefixes) > 0 {
		p, err := l.prefixes(ln)
		if err != nil {
			return nil, err
		}
		out = p
	}
	code, err := l.enc.Encode(ln.Name, ops, l.flags)
	if err != nil {
		return nil, l.encodeError(ln, err)
	}
	return append(out, code...), nil
}

func (l *layout) operand(o *Operand, branch bool) (isa.Operand, error) {
	if o.Memory {
		op := isa.Operand{Kind: isa.OpMem, Base: o.Base, Segment: o.Segment, Size: o.Size}
		if o.X != nil {
			v, err := l.eval(o.X)
			if err != nil {
				return op, err
			}
			op.Disp = v
		}
		return op, nil
	}
	if o.X.Kind == ExprIdent && l.enc.IsRegister(o.X.Text) {
		op := isa.Reg(o.X.Text)
		op.Size = o.Size
		return op, nil
	}
	v, err := l.eval(o.X)
	if err != nil {
		return isa.Operand{}, err
	}
	if branch {
		return isa.Rel(v - l.pc), nil
	}
	op := isa.Imm(v)
	op.Size = o.Size
	return op, nil
}

func (l *layout) encodeError(ln *Line, err error) error {
	var mf *isa.MissingFeatureError
	var oe *isa.OperandError
	switch {
	case errors.Is(err, isa.ErrIllegalInstruction):
		return diag.Errorf(diag.AsmIllegalInstruction, ln.NameSpan, "%s", err.Error())
	case errors.As(err, &mf):
		return diag.Errorf(diag.AsmMissingFeature, ln.NameSpan, "%s", err.Error())
	case errors.As(err, &oe):
		sp := ln.NameSpan
		if len(ln.Operands) > 0 {
			sp = ln.Operands[0].Span.Cover(ln.Operands[len(ln.Operands)-1].Span)
		}
		return diag.Errorf(diag.AsmBadOperand, sp, "%s", err.Error())
	}
	return diag.Errorf(diag.AsmBadOperand, ln.NameSpan, "%s", err.Error())
}
