package asm

import (
	"strings"

	"aoc/internal/diag"
	"aoc/internal/isa"
	"aoc/internal/source"
)

// LineKind classifies a body line.
type LineKind uint8

const (
	LineInstruction LineKind = iota
	LineData                 // DB DW DD DQ
	LineReserve              // RESB RESW RESD
	LineAlign
	LineOrg
	LineAbsolute
	LineEqu
	LineBits
	LineCPU
	LinePrefix // prefixes with no instruction on the same line
	LineLabel  // label alone
)

var lineKindNames = [...]string{
	LineInstruction: "instruction", LineData: "data", LineReserve: "reserve",
	LineAlign: "align", LineOrg: "org", LineAbsolute: "absolute", LineEqu: "equ",
	LineBits: "bits", LineCPU: "cpu", LinePrefix: "prefix", LineLabel: "label",
}

func (k LineKind) String() string {
	if int(k) < len(lineKindNames) {
		return lineKindNames[k]
	}
	return "line(?)"
}

// Prefix is a REP/LOCK style instruction prefix.
type Prefix struct {
	Name string
	Span source.Span
}

// Operand is a parsed instruction operand before evaluation.
type Operand struct {
	Span    source.Span
	Size    int    // 8/16/32/64 from BYTE/WORD/DWORD/QWORD, 0 if absent
	Segment string // segment override, upper case
	Memory  bool   // [ ... ]
	Base    string // memory base register, upper case
	X       *Expr  // immediate, register name or displacement; nil for [reg]
}

// Line is one statement of the assembler body. Offset, Size and Code are
// filled in by layout.
type Line struct {
	Span      source.Span
	Label     string
	LabelSpan source.Span
	Kind      LineKind
	Name      string // mnemonic or directive, upper case
	NameSpan  source.Span
	Prefixes  []Prefix
	Repeat    *Expr // TIMES count
	Operands  []*Operand
	Args      []*Expr // directive arguments
	Offset    int64
	Size      int64
	Code      []byte
}

var directives = map[string]LineKind{
	"DB": LineData, "DW": LineData, "DD": LineData, "DQ": LineData,
	"RESB": LineReserve, "RESW": LineReserve, "RESD": LineReserve,
	"ALIGN": LineAlign, "ORG": LineOrg, "ABSOLUTE": LineAbsolute,
	"BITS": LineBits, "CPU": LineCPU,
}

var prefixes = map[string]bool{"REP": true, "REPE": true, "REPZ": true, "REPNE": true, "REPNZ": true, "LOCK": true}

var sizeKeywords = map[string]int{"BYTE": 8, "WORD": 16, "DWORD": 32, "QWORD": 64}

type state uint8

const (
	stateFlagsOpt state = iota
	stateFlags
	stateBody
)

type parser struct {
	toks  []Token
	pos   int
	enc   isa.Encoder
	flags isa.Flags
	lines []*Line
}

func (p *parser) cur() Token { return p.toks[p.pos] }

func (p *parser) peek() Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() Token {
	t := p.toks[p.pos]
	if t.Kind != EOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(k Kind, what string) (Token, error) {
	t := p.cur()
	if t.Kind != k {
		return t, p.unexpected(t, what)
	}
	return p.next(), nil
}

func (p *parser) unexpected(t Token, what string) error {
	got := t.Kind.String()
	if t.Text != "" && t.Kind != NewLine {
		got = "'" + t.Text + "'"
	}
	return diag.Errorf(diag.AsmUnexpectedToken, t.Span, "expected %s, got %s", what, got)
}

// parse runs the header/body state machine over the token stream.
func (p *parser) parse() error {
	st := stateFlagsOpt
	for {
		switch st {
		case stateFlagsOpt:
			for p.cur().Kind == NewLine {
				p.next()
			}
			if p.cur().Kind == LBrace {
				p.next()
				st = stateFlags
			} else {
				st = stateBody
			}
		case stateFlags:
			if err := p.parseFlags(); err != nil {
				return err
			}
			st = stateBody
		case stateBody:
			switch p.cur().Kind {
			case EOF:
				return nil
			case NewLine:
				p.next()
			default:
				ln, err := p.parseLine()
				if err != nil {
					return err
				}
				p.lines = append(p.lines, ln)
			}
		}
	}
}

// parseFlags reads SYSTEM.FLAG {',' SYSTEM.FLAG} '}'.
func (p *parser) parseFlags() error {
	if p.cur().Kind == RBrace {
		p.next()
		return nil
	}
	for {
		target, err := p.expect(Ident, "SYSTEM")
		if err != nil {
			return err
		}
		if target.Text != "SYSTEM" {
			return diag.Errorf(diag.AsmUnsupportedTarget, target.Span, "unsupported target identifier %s", target.Text)
		}
		if _, err := p.expect(Period, "'.'"); err != nil {
			return err
		}
		name, err := p.expect(Ident, "CPU flag")
		if err != nil {
			return err
		}
		bit, ok := isa.LookupFlag(name.Text)
		if !ok {
			return diag.Errorf(diag.AsmUnknownFlag, name.Span, "unknown CPU flag %s", name.Text)
		}
		p.flags |= bit
		switch t := p.next(); t.Kind {
		case Comma:
			continue
		case RBrace:
			return nil
		default:
			return p.unexpected(t, "',' or '}'")
		}
	}
}

func (p *parser) atLineEnd() bool {
	k := p.cur().Kind
	return k == NewLine || k == EOF
}

func (p *parser) endLine(ln *Line) (*Line, error) {
	if !p.atLineEnd() {
		return nil, p.unexpected(p.cur(), "end of line")
	}
	last := p.toks[p.pos-1]
	ln.Span = ln.Span.Cover(last.Span)
	return ln, nil
}

func (p *parser) parseLine() (*Line, error) {
	first := p.cur()
	ln := &Line{Span: first.Span, Kind: LineLabel}

	switch {
	case first.Kind == Label:
		p.next()
		ln.Label = strings.TrimSuffix(first.Text, ":")
		ln.LabelSpan = first.Span
	case first.Kind == Ident && strings.EqualFold(p.peek().Text, "EQU") && p.peek().Kind == Ident:
		p.next()
		ln.Label = first.Text
		ln.LabelSpan = first.Span
	}
	if p.atLineEnd() {
		if ln.Label == "" {
			return nil, p.unexpected(p.cur(), "label or instruction")
		}
		return p.endLine(ln)
	}

	if t := p.cur(); t.Kind == Ident && strings.EqualFold(t.Text, "TIMES") {
		p.next()
		count, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ln.Repeat = count
	}

	for {
		t := p.cur()
		if t.Kind != Ident {
			return nil, p.unexpected(t, "mnemonic or directive")
		}
		name := strings.ToUpper(t.Text)
		if prefixes[name] {
			p.next()
			ln.Prefixes = append(ln.Prefixes, Prefix{Name: name, Span: t.Span})
			if p.atLineEnd() {
				ln.Kind = LinePrefix
				return p.endLine(ln)
			}
			continue
		}
		p.next()
		ln.Name, ln.NameSpan = name, t.Span
		if name == "EQU" {
			if ln.Label == "" {
				return nil, diag.Errorf(diag.AsmUnexpectedToken, t.Span, "EQU without a symbol name")
			}
			ln.Kind = LineEqu
			return p.parseArgs(ln, 1)
		}
		if kind, ok := directives[name]; ok {
			ln.Kind = kind
			switch kind {
			case LineData:
				return p.parseArgs(ln, -1)
			case LineCPU:
				id, err := p.expect(Ident, "CPU name")
				if err != nil {
					return nil, err
				}
				ln.Args = []*Expr{{Kind: ExprIdent, Span: id.Span, Text: id.Text}}
				return p.endLine(ln)
			default:
				return p.parseArgs(ln, 1)
			}
		}
		ln.Kind = LineInstruction
		if !p.atLineEnd() {
			for {
				op, err := p.parseOperand()
				if err != nil {
					return nil, err
				}
				ln.Operands = append(ln.Operands, op)
				if p.cur().Kind != Comma {
					break
				}
				p.next()
			}
		}
		return p.endLine(ln)
	}
}

// parseArgs reads exactly n comma separated expressions, or at least one
// when n is negative.
func (p *parser) parseArgs(ln *Line, n int) (*Line, error) {
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ln.Args = append(ln.Args, e)
		if p.cur().Kind != Comma || len(ln.Args) == n {
			break
		}
		p.next()
	}
	return p.endLine(ln)
}

func (p *parser) parseOperand() (*Operand, error) {
	op := &Operand{Span: p.cur().Span}
	if t := p.cur(); t.Kind == Ident {
		if bits, ok := sizeKeywords[strings.ToUpper(t.Text)]; ok {
			p.next()
			op.Size = bits
			if u := p.cur(); u.Kind == Ident && strings.EqualFold(u.Text, "PTR") {
				p.next()
			}
		}
	}
	if t := p.cur(); t.Kind == Label && p.enc.IsRegister(strings.TrimSuffix(t.Text, ":")) {
		p.next()
		op.Segment = strings.ToUpper(strings.TrimSuffix(t.Text, ":"))
	}
	if p.cur().Kind == LBracket {
		p.next()
		op.Memory = true
		if t := p.cur(); t.Kind == Ident && p.enc.IsRegister(t.Text) {
			p.next()
			op.Base = strings.ToUpper(t.Text)
			switch p.cur().Kind {
			case Plus:
				p.next()
				x, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				op.X = x
			case Minus:
				m := p.next()
				x, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				op.X = &Expr{Kind: ExprUnaryMinus, Span: m.Span.Cover(x.Span), X: x}
			}
		} else {
			x, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			op.X = x
		}
		rb, err := p.expect(RBracket, "']'")
		if err != nil {
			return nil, err
		}
		op.Span = op.Span.Cover(rb.Span)
		return op, nil
	}
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	op.X = x
	op.Span = op.Span.Cover(x.Span)
	return op, nil
}

// Грамматика выражений операндов:
//
//	expr   = unary { ('+' | '-') unary }
//	unary  = ('+' | '-' | '~') unary | term
//	term   = factor { ('*' | '/' | '%') factor }
//	factor = Number | String | Ident | '$' | '(' expr ')'
func (p *parser) parseExpr() (*Expr, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var kind ExprKind
		switch p.cur().Kind {
		case Plus:
			kind = ExprPlus
		case Minus:
			kind = ExprMinus
		default:
			return x, nil
		}
		p.next()
		y, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		x = &Expr{Kind: kind, Span: x.Span.Cover(y.Span), X: x, Y: y}
	}
}

func (p *parser) parseUnary() (*Expr, error) {
	var kind ExprKind
	switch p.cur().Kind {
	case Plus:
		kind = ExprUnaryPlus
	case Minus:
		kind = ExprUnaryMinus
	case Negate:
		kind = ExprNegate
	default:
		return p.parseTerm()
	}
	op := p.next()
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Expr{Kind: kind, Span: op.Span.Cover(x.Span), X: x}, nil
}

func (p *parser) parseTerm() (*Expr, error) {
	x, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		var kind ExprKind
		switch p.cur().Kind {
		case Times:
			kind = ExprTimes
		case Div:
			kind = ExprDiv
		case Modulo:
			kind = ExprModulo
		default:
			return x, nil
		}
		p.next()
		y, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		x = &Expr{Kind: kind, Span: x.Span.Cover(y.Span), X: x, Y: y}
	}
}

func (p *parser) parseFactor() (*Expr, error) {
	t := p.cur()
	switch t.Kind {
	case Number:
		p.next()
		return &Expr{Kind: ExprNumber, Span: t.Span, Value: t.Value}, nil
	case String:
		p.next()
		return &Expr{Kind: ExprString, Span: t.Span, Text: t.Text[1 : len(t.Text)-1]}, nil
	case Ident:
		p.next()
		return &Expr{Kind: ExprIdent, Span: t.Span, Text: t.Text}, nil
	case Dollar:
		p.next()
		return &Expr{Kind: ExprHere, Span: t.Span}, nil
	case LParen:
		p.next()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RParen, "')'"); err != nil {
			return nil, err
		}
		return x, nil
	}
	return nil, p.unexpected(t, "operand")
}
