package lexer

import (
	"fmt"

	"aoc/internal/diag"
	"aoc/internal/token"
)

// compound lists multi-byte operators, longest first, so that ".<=" wins
// over ".<" and "..".
var compound = []struct {
	text string
	kind token.Kind
}{
	{".<=", token.DotLessEqual},
	{".>=", token.DotGreaterEqual},
	{"<<?", token.LessLessQ},
	{">>?", token.GreaterGreaterQ},
	{"..", token.Upto},
	{".*", token.DotTimes},
	{"./", token.DotSlash},
	{".=", token.DotEqual},
	{".#", token.DotUnequal},
	{".<", token.DotLess},
	{".>", token.DotGreater},
	{":=", token.Becomes},
	{"**", token.TimesTimes},
	{"+*", token.PlusTimes},
	{"<=", token.LessEqual},
	{">=", token.GreaterEqual},
	{"<<", token.LessLess},
	{">>", token.GreaterGreater},
	{"??", token.QuestionMarks},
	{"!!", token.ExclaimMarks},
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	for _, op := range compound {
		if lx.cursor.Accept(op.text) {
			return lx.emit(op.kind, start)
		}
	}

	ch := lx.cursor.Bump()
	if k, ok := single[ch]; ok {
		return lx.emit(k, start)
	}
	tok := lx.invalid(start)
	lx.fail(diag.LexUnknownChar, tok.Span, fmt.Sprintf("unexpected character %q", rune(ch)))
	return tok
}

var single = map[byte]token.Kind{
	'+':  token.Plus,
	'-':  token.Minus,
	'*':  token.Times,
	'/':  token.Slash,
	'\\': token.Backslash,
	'=':  token.Equal,
	'#':  token.Unequal,
	'<':  token.Less,
	'>':  token.Greater,
	'?':  token.Question,
	'!':  token.Exclaim,
	':':  token.Colon,
	';':  token.Semicolon,
	',':  token.Comma,
	'.':  token.Period,
	'(':  token.LParen,
	')':  token.RParen,
	'[':  token.LBracket,
	']':  token.RBracket,
	'{':  token.LBrace,
	'}':  token.RBrace,
	'^':  token.Arrow,
	'|':  token.Bar,
	'~':  token.Tilde,
	'&':  token.Ampersand,
	'`':  token.Transpose,
}
