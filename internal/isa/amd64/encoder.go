package amd64

import (
	"encoding/binary"
	"strings"

	"fortio.org/safecast"

	"aoc/internal/isa"
)

// Encoder implements isa.Encoder for x86-64.
type Encoder struct{}

var _ isa.Encoder = (*Encoder)(nil)

// New returns the AMD64 encoder.
func New() *Encoder { return &Encoder{} }

func (*Encoder) Arch() isa.Arch { return isa.ArchAMD64 }

func (*Encoder) IsRegister(name string) bool {
	upper := strings.ToUpper(name)
	if _, ok := registers[upper]; ok {
		return true
	}
	_, ok := segments[upper]
	return ok
}

func (*Encoder) IsBranch(mnemonic string) bool {
	m := strings.ToUpper(mnemonic)
	if m == "JMP" || m == "CALL" {
		return true
	}
	_, ok := jccOps[m]
	return ok
}

// Encode assembles one instruction.
func (e *Encoder) Encode(mnemonic string, ops []isa.Operand, flags isa.Flags) ([]byte, error) {
	m := strings.ToUpper(mnemonic)
	if f, ok := fixedOps[m]; ok && len(ops) == 0 {
		if err := isa.CheckFeatures(m, f.need, flags); err != nil {
			return nil, err
		}
		return append([]byte(nil), f.code...), nil
	}
	a := asm{mnemonic: m, flags: flags}
	switch m {
	case "MOV":
		return a.mov(ops)
	case "LEA":
		return a.lea(ops)
	case "TEST":
		return a.test(ops)
	case "PUSH", "POP":
		return a.pushPop(ops)
	case "JMP", "CALL":
		return a.jmpCall(ops)
	case "INT":
		return a.interrupt(ops)
	case "RET":
		return a.retImm(ops)
	}
	if ext, ok := aluOps[m]; ok {
		return a.alu(ext, ops)
	}
	if op, ok := unaryOps[m]; ok {
		return a.unary(op[0], op[1], ops)
	}
	if cc, ok := jccOps[m]; ok {
		return a.jcc(cc, ops)
	}
	return nil, isa.ErrIllegalInstruction
}

// asm accumulates the bytes of one instruction.
type asm struct {
	mnemonic string
	flags    isa.Flags
	out      []byte
}

func (a *asm) fail(reason string) error {
	return &isa.OperandError{Mnemonic: a.mnemonic, Reason: reason}
}

func (a *asm) reg(op isa.Operand) (register, error) {
	r, ok := registers[op.Reg]
	if !ok {
		return register{}, a.fail("unknown register " + op.Reg)
	}
	need := isa.CPU386
	if r.bits == 64 {
		need = isa.CPUAMD64
	}
	if err := isa.CheckFeatures(a.mnemonic, need, a.flags); err != nil {
		return register{}, err
	}
	return r, nil
}

func (a *asm) rex(w bool, r, b byte) {
	v := byte(0x40)
	if w {
		v |= 0x08
	}
	if r&8 != 0 {
		v |= 0x04
	}
	if b&8 != 0 {
		v |= 0x01
	}
	if v != 0x40 {
		a.out = append(a.out, v)
	}
}

func (a *asm) imm8(v int64) error {
	b, err := safecast.Conv[int8](v)
	if err != nil {
		return a.fail("immediate does not fit 8 bits")
	}
	a.out = append(a.out, byte(b))
	return nil
}

func (a *asm) imm16(v int64) error {
	w, err := safecast.Conv[uint16](v)
	if err != nil {
		return a.fail("immediate does not fit 16 bits")
	}
	a.out = binary.LittleEndian.AppendUint16(a.out, w)
	return nil
}

func (a *asm) imm32(v int64) error {
	d, err := safecast.Conv[int32](v)
	if err != nil {
		return a.fail("immediate does not fit 32 bits")
	}
	a.out = binary.LittleEndian.AppendUint32(a.out, uint32(d))
	return nil
}

// prefixes emits the segment override of a memory operand.
func (a *asm) prefixes(m isa.Operand) error {
	if m.Segment == "" {
		return nil
	}
	p, ok := segments[m.Segment]
	if !ok {
		return a.fail("unknown segment " + m.Segment)
	}
	a.out = append(a.out, p)
	return nil
}

// memBase validates the base register of a memory operand.
func (a *asm) memBase(m isa.Operand) (register, bool, error) {
	if m.Base == "" {
		return register{}, false, nil
	}
	r, ok := registers[m.Base]
	if !ok || r.bits != 64 {
		return register{}, false, a.fail("memory base must be a 64-bit register")
	}
	return r, true, nil
}

// modrmMem appends ModRM (+SIB, +displacement) addressing m with the given
// reg field.
func (a *asm) modrmMem(regField byte, m isa.Operand, base register, hasBase bool) error {
	if !hasBase {
		// mod=00 rm=100, SIB base=101 index=100: absolute disp32
		a.out = append(a.out, modrm(0, regField, 4), 0x25)
		return a.imm32(m.Disp)
	}
	low := base.num & 7
	var mod byte
	switch {
	case m.Disp == 0 && low != 5:
		mod = 0
	case isa.FitsSigned(m.Disp, 8):
		mod = 1
	default:
		mod = 2
	}
	a.out = append(a.out, modrm(mod, regField, low))
	if low == 4 {
		a.out = append(a.out, 0x24)
	}
	switch mod {
	case 1:
		return a.imm8(m.Disp)
	case 2:
		return a.imm32(m.Disp)
	}
	return nil
}

// regMem encodes "op reg, mem" style instructions (reg in the ModRM reg field).
func (a *asm) regMem(opcode byte, r register, m isa.Operand) ([]byte, error) {
	base, hasBase, err := a.memBase(m)
	if err != nil {
		return nil, err
	}
	if err := a.prefixes(m); err != nil {
		return nil, err
	}
	a.rex(r.bits == 64, r.num, base.num)
	a.out = append(a.out, opcode)
	if err := a.modrmMem(r.num, m, base, hasBase); err != nil {
		return nil, err
	}
	return a.out, nil
}

// done returns the accumulated bytes after the last append reported err.
func (a *asm) done(err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	return a.out, nil
}

func modrm(mod, reg, rm byte) byte { return mod<<6 | (reg&7)<<3 | rm&7 }

func (a *asm) mov(ops []isa.Operand) ([]byte, error) {
	if err := isa.Operands(a.mnemonic, ops, 2); err != nil {
		return nil, err
	}
	dst, src := ops[0], ops[1]
	switch {
	case dst.Kind == isa.OpReg && src.Kind == isa.OpReg:
		return a.regReg(0x89, dst, src)
	case dst.Kind == isa.OpReg && src.Kind == isa.OpImm:
		r, err := a.reg(dst)
		if err != nil {
			return nil, err
		}
		if r.bits == 64 && isa.FitsSigned(src.Imm, 32) {
			a.rex(true, 0, r.num)
			a.out = append(a.out, 0xC7, modrm(3, 0, r.num))
			return a.done(a.imm32(src.Imm))
		}
		a.rex(r.bits == 64, 0, r.num)
		a.out = append(a.out, 0xB8+r.num&7)
		if r.bits == 64 {
			a.out = binary.LittleEndian.AppendUint64(a.out, uint64(src.Imm))
			return a.out, nil
		}
		if !isa.FitsUnsigned(src.Imm, 32) && !isa.FitsSigned(src.Imm, 32) {
			return nil, a.fail("immediate does not fit 32 bits")
		}
		a.out = binary.LittleEndian.AppendUint32(a.out, uint32(src.Imm))
		return a.out, nil
	case dst.Kind == isa.OpReg && src.Kind == isa.OpMem:
		r, err := a.reg(dst)
		if err != nil {
			return nil, err
		}
		return a.regMem(0x8B, r, src)
	case dst.Kind == isa.OpMem && src.Kind == isa.OpReg:
		r, err := a.reg(src)
		if err != nil {
			return nil, err
		}
		return a.regMem(0x89, r, dst)
	case dst.Kind == isa.OpMem && src.Kind == isa.OpImm:
		if dst.Size != 32 && dst.Size != 64 {
			return nil, a.fail("operand size required (DWORD or QWORD)")
		}
		base, hasBase, err := a.memBase(dst)
		if err != nil {
			return nil, err
		}
		if err := a.prefixes(dst); err != nil {
			return nil, err
		}
		a.rex(dst.Size == 64, 0, base.num)
		a.out = append(a.out, 0xC7)
		if err := a.modrmMem(0, dst, base, hasBase); err != nil {
			return nil, err
		}
		return a.done(a.imm32(src.Imm))
	}
	return nil, a.fail("unsupported operand combination")
}

// regReg encodes "op dst, src" with the source in the ModRM reg field.
func (a *asm) regReg(opcode byte, dst, src isa.Operand) ([]byte, error) {
	d, err := a.reg(dst)
	if err != nil {
		return nil, err
	}
	s, err := a.reg(src)
	if err != nil {
		return nil, err
	}
	if d.bits != s.bits {
		return nil, a.fail("register size mismatch")
	}
	a.rex(d.bits == 64, s.num, d.num)
	a.out = append(a.out, opcode, modrm(3, s.num, d.num))
	return a.out, nil
}

func (a *asm) lea(ops []isa.Operand) ([]byte, error) {
	if err := isa.Operands(a.mnemonic, ops, 2); err != nil {
		return nil, err
	}
	if ops[0].Kind != isa.OpReg || ops[1].Kind != isa.OpMem {
		return nil, a.fail("want register, memory")
	}
	r, err := a.reg(ops[0])
	if err != nil {
		return nil, err
	}
	return a.regMem(0x8D, r, ops[1])
}

func (a *asm) test(ops []isa.Operand) ([]byte, error) {
	if err := isa.Operands(a.mnemonic, ops, 2); err != nil {
		return nil, err
	}
	if ops[0].Kind != isa.OpReg || ops[1].Kind != isa.OpReg {
		return nil, a.fail("want register, register")
	}
	return a.regReg(0x85, ops[0], ops[1])
}

func (a *asm) alu(ext byte, ops []isa.Operand) ([]byte, error) {
	if err := isa.Operands(a.mnemonic, ops, 2); err != nil {
		return nil, err
	}
	dst, src := ops[0], ops[1]
	switch {
	case dst.Kind == isa.OpReg && src.Kind == isa.OpReg:
		return a.regReg(ext<<3|1, dst, src)
	case dst.Kind == isa.OpReg && src.Kind == isa.OpMem:
		r, err := a.reg(dst)
		if err != nil {
			return nil, err
		}
		return a.regMem(ext<<3|3, r, src)
	case dst.Kind == isa.OpMem && src.Kind == isa.OpReg:
		r, err := a.reg(src)
		if err != nil {
			return nil, err
		}
		return a.regMem(ext<<3|1, r, dst)
	case dst.Kind == isa.OpReg && src.Kind == isa.OpImm:
		r, err := a.reg(dst)
		if err != nil {
			return nil, err
		}
		a.rex(r.bits == 64, 0, r.num)
		if isa.FitsSigned(src.Imm, 8) {
			a.out = append(a.out, 0x83, modrm(3, ext, r.num))
			return a.done(a.imm8(src.Imm))
		}
		a.out = append(a.out, 0x81, modrm(3, ext, r.num))
		return a.done(a.imm32(src.Imm))
	}
	return nil, a.fail("unsupported operand combination")
}

func (a *asm) unary(opcode, ext byte, ops []isa.Operand) ([]byte, error) {
	if err := isa.Operands(a.mnemonic, ops, 1); err != nil {
		return nil, err
	}
	if ops[0].Kind != isa.OpReg {
		return nil, a.fail("want register")
	}
	r, err := a.reg(ops[0])
	if err != nil {
		return nil, err
	}
	a.rex(r.bits == 64, 0, r.num)
	a.out = append(a.out, opcode, modrm(3, ext, r.num))
	return a.out, nil
}

func (a *asm) pushPop(ops []isa.Operand) ([]byte, error) {
	if err := isa.Operands(a.mnemonic, ops, 1); err != nil {
		return nil, err
	}
	op := ops[0]
	if op.Kind == isa.OpImm && a.mnemonic == "PUSH" {
		if isa.FitsSigned(op.Imm, 8) {
			a.out = append(a.out, 0x6A)
			return a.done(a.imm8(op.Imm))
		}
		a.out = append(a.out, 0x68)
		return a.done(a.imm32(op.Imm))
	}
	if op.Kind != isa.OpReg {
		return nil, a.fail("want register")
	}
	r, err := a.reg(op)
	if err != nil {
		return nil, err
	}
	if r.bits != 64 {
		return nil, a.fail("only 64-bit registers can be pushed")
	}
	a.rex(false, 0, r.num)
	base := byte(0x50)
	if a.mnemonic == "POP" {
		base = 0x58
	}
	a.out = append(a.out, base+r.num&7)
	return a.out, nil
}

func (a *asm) jmpCall(ops []isa.Operand) ([]byte, error) {
	if err := isa.Operands(a.mnemonic, ops, 1); err != nil {
		return nil, err
	}
	op := ops[0]
	switch {
	case op.Kind == isa.OpReg:
		r, err := a.reg(op)
		if err != nil {
			return nil, err
		}
		if r.bits != 64 {
			return nil, a.fail("indirect target must be a 64-bit register")
		}
		ext := byte(4)
		if a.mnemonic == "CALL" {
			ext = 2
		}
		a.rex(false, 0, r.num)
		a.out = append(a.out, 0xFF, modrm(3, ext, r.num))
		return a.out, nil
	case op.Kind == isa.OpImm && op.PCRel:
		opcode := byte(0xE9)
		if a.mnemonic == "CALL" {
			opcode = 0xE8
		}
		a.out = append(a.out, opcode)
		return a.done(a.imm32(op.Imm - 5))
	}
	return nil, a.fail("branch target must be a label or a register")
}

func (a *asm) jcc(cc byte, ops []isa.Operand) ([]byte, error) {
	if err := isa.Operands(a.mnemonic, ops, 1); err != nil {
		return nil, err
	}
	if err := isa.CheckFeatures(a.mnemonic, isa.CPU386, a.flags); err != nil {
		return nil, err
	}
	if ops[0].Kind != isa.OpImm || !ops[0].PCRel {
		return nil, a.fail("branch target must be a label")
	}
	a.out = append(a.out, 0x0F, 0x80|cc)
	return a.done(a.imm32(ops[0].Imm - 6))
}

func (a *asm) interrupt(ops []isa.Operand) ([]byte, error) {
	if err := isa.Operands(a.mnemonic, ops, 1); err != nil {
		return nil, err
	}
	if ops[0].Kind != isa.OpImm || !isa.FitsUnsigned(ops[0].Imm, 8) {
		return nil, a.fail("want an 8-bit vector number")
	}
	a.out = append(a.out, 0xCD, byte(ops[0].Imm))
	return a.out, nil
}

func (a *asm) retImm(ops []isa.Operand) ([]byte, error) {
	if err := isa.Operands(a.mnemonic, ops, 1); err != nil {
		return nil, err
	}
	if ops[0].Kind != isa.OpImm {
		return nil, a.fail("want an immediate")
	}
	a.out = append(a.out, 0xC2)
	return a.done(a.imm16(ops[0].Imm))
}
