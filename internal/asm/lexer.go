package asm

import (
	"errors"
	"strconv"
	"strings"

	"fortio.org/safecast"
	plexer "github.com/alecthomas/participle/v2/lexer"

	"aoc/internal/diag"
	"aoc/internal/source"
)

// Kind is the type of an assembler token.
type Kind uint8

const (
	EOF Kind = iota
	NewLine
	Ident
	Label
	Number
	String
	Period
	Colon
	Comma
	Plus
	Minus
	Times
	Div
	Modulo
	Negate
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	At
	Dollar
	Invalid
)

var kindNames = [...]string{
	EOF: "EOF", NewLine: "NewLine", Ident: "Ident", Label: "Label", Number: "Number",
	String: "String", Period: "Period", Colon: "Colon", Comma: "Comma", Plus: "Plus",
	Minus: "Minus", Times: "Times", Div: "Div", Modulo: "Modulo", Negate: "Negate",
	LParen: "LParen", RParen: "RParen", LBracket: "LBracket", RBracket: "RBracket",
	LBrace: "LBrace", RBrace: "RBrace", At: "At", Dollar: "Dollar", Invalid: "Invalid",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Token is one assembler token. Value holds the decoded number for Number.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string
	Value uint64
}

// Правила проверяются по порядку, побеждает первое совпадение.
// Label стоит раньше Ident, а Invalid ловит всё остальное.
var definition = plexer.MustStateful(plexer.Rules{
	"Root": {
		{Name: "comment", Pattern: `;[^\n]*`},
		{Name: "whitespace", Pattern: `[ \t\r]+`},
		{Name: "NewLine", Pattern: `\n`},
		{Name: "Label", Pattern: `[A-Za-z_][A-Za-z0-9_]*:`},
		{Name: "Number", Pattern: `[0-9][0-9A-Fa-f]*[HhX]?`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "String", Pattern: `'[^'\n]*'|"[^"\n]*"`},
		{Name: "Period", Pattern: `\.`},
		{Name: "Colon", Pattern: `:`},
		{Name: "Comma", Pattern: `,`},
		{Name: "Plus", Pattern: `\+`},
		{Name: "Minus", Pattern: `-`},
		{Name: "Times", Pattern: `\*`},
		{Name: "Div", Pattern: `/`},
		{Name: "Modulo", Pattern: `%`},
		{Name: "Negate", Pattern: `~`},
		{Name: "LParen", Pattern: `\(`},
		{Name: "RParen", Pattern: `\)`},
		{Name: "LBracket", Pattern: `\[`},
		{Name: "RBracket", Pattern: `\]`},
		{Name: "LBrace", Pattern: `\{`},
		{Name: "RBrace", Pattern: `\}`},
		{Name: "At", Pattern: `@`},
		{Name: "Dollar", Pattern: `\$`},
		{Name: "Invalid", Pattern: `.`},
	},
})

var kindBySymbol = func() map[plexer.TokenType]Kind {
	m := make(map[plexer.TokenType]Kind)
	byName := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		byName[name] = Kind(k)
	}
	for name, tt := range definition.Symbols() {
		if k, ok := byName[name]; ok {
			m[tt] = k
		}
	}
	return m
}()

// Tokenize splits assembler text into tokens. base is the offset of text
// inside file; token spans are absolute. The last token is always EOF.
func Tokenize(file source.FileID, text string, base uint32) ([]Token, error) {
	lx, err := definition.LexString("", text)
	if err != nil {
		return nil, err
	}
	span := func(off, n int) source.Span {
		start := base + safecast.MustConv[uint32](off)
		return source.Span{File: file, Start: start, End: start + safecast.MustConv[uint32](n)}
	}
	var out []Token
	for {
		t, err := lx.Next()
		if err != nil {
			var le *plexer.Error
			if errors.As(err, &le) {
				return out, diag.Errorf(diag.AsmUnexpectedToken, span(le.Pos.Offset, 0), "%s", le.Msg)
			}
			return out, err
		}
		if t.EOF() {
			out = append(out, Token{Kind: EOF, Span: span(t.Pos.Offset, 0)})
			return out, nil
		}
		tok := Token{Kind: kindBySymbol[t.Type], Span: span(t.Pos.Offset, len(t.Value)), Text: t.Value}
		switch tok.Kind {
		case Number:
			v, err := parseNumber(tok.Text)
			if err != nil {
				return out, diag.Errorf(diag.AsmBadNumber, tok.Span, "bad number %q: %v", tok.Text, err)
			}
			tok.Value = v
		case Invalid:
			if tok.Text == "'" || tok.Text == `"` {
				return out, diag.Errorf(diag.AsmUnexpectedToken, tok.Span, "unterminated string")
			}
			return out, diag.Errorf(diag.AsmUnexpectedToken, tok.Span, "unexpected character %q", tok.Text)
		}
		out = append(out, tok)
	}
}

// parseNumber decodes decimal, H/h suffixed hexadecimal and X suffixed
// hexadecimal lexemes.
func parseNumber(text string) (uint64, error) {
	digits, base := text, 10
	switch last := text[len(text)-1]; last {
	case 'H', 'h', 'X':
		digits, base = text[:len(text)-1], 16
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
			return 0, errors.New("value out of range")
		}
		if base == 10 && strings.ContainsAny(digits, "ABCDEFabcdef") {
			return 0, errors.New("non-decimal digit without H or X suffix")
		}
		return 0, err
	}
	return v, nil
}
