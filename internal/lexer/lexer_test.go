package lexer

import (
	"strings"
	"testing"

	"aoc/internal/diag"
	"aoc/internal/source"
	"aoc/internal/token"
)

type testReporter struct {
	msgs []string
}

func (r *testReporter) Report(code diag.Code, _ diag.Severity, _ source.Span, msg string, _ []diag.Note) {
	r.msgs = append(r.msgs, code.ID()+": "+msg)
}

func makeTestLexer(input string) (*Lexer, *testReporter) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.Mod", []byte(input))
	rep := &testReporter{}
	return New(fs.Get(id), Options{Reporter: rep}), rep
}

func collectAllTokens(lx *Lexer) []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return out
		}
		out = append(out, tok)
		if tok.Kind == token.Invalid && lx.Err() != nil && lx.cursor.EOF() {
			return out
		}
	}
}

func expectKinds(t *testing.T, input string, want ...token.Kind) []token.Token {
	t.Helper()
	lx, rep := makeTestLexer(input)
	toks := collectAllTokens(lx)
	if len(rep.msgs) > 0 {
		t.Fatalf("%q: unexpected diagnostics %v", input, rep.msgs)
	}
	if len(toks) != len(want) {
		t.Fatalf("%q: got %d tokens %v, want %d", input, len(toks), toks, len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("%q: token %d = %v, want %v", input, i, toks[i], k)
		}
	}
	return toks
}

func expectError(t *testing.T, input string, code diag.Code) {
	t.Helper()
	lx, rep := makeTestLexer(input)
	collectAllTokens(lx)
	if lx.Err() == nil {
		t.Fatalf("%q: expected error %s", input, code.ID())
	}
	if lx.Err().Code != code {
		t.Fatalf("%q: got %s, want %s", input, lx.Err().Code.ID(), code.ID())
	}
	if len(rep.msgs) == 0 {
		t.Fatalf("%q: reporter was not called", input)
	}
}

func TestKeywordsAndIdents(t *testing.T) {
	toks := expectKinds(t, "MODULE Test; END Test.",
		token.KwModule, token.Ident, token.Semicolon, token.KwEnd, token.Ident, token.Period)
	if toks[1].Text != "Test" || toks[1].Span.Start != 7 || toks[1].Span.End != 11 {
		t.Fatalf("ident token %+v", toks[1])
	}
	// регистр важен: module: идентификатор
	expectKinds(t, "module Begin END_X", token.Ident, token.Ident, token.Ident)
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		in   string
		kind token.Kind
	}{
		{"1000", token.Integer},
		{"7FH", token.Integer},
		{"0ffh", token.Integer},
		{"41X", token.Character},
		{"0DX", token.Character},
		{"1.5", token.Real},
		{"1.5E10", token.Real},
		{"2.0D-3", token.Real},
		{"3.25e+2", token.Real},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			toks := expectKinds(t, tc.in, tc.kind)
			if toks[0].Text != tc.in {
				t.Fatalf("text = %q", toks[0].Text)
			}
		})
	}
}

func TestIntegerBeforeRange(t *testing.T) {
	toks := expectKinds(t, "1..10", token.Integer, token.Upto, token.Integer)
	if toks[0].Text != "1" || toks[2].Text != "10" {
		t.Fatalf("unexpected texts %v", toks)
	}
	// точка без цифры после неё завершает целое
	expectKinds(t, "1.x", token.Integer, token.Period, token.Ident)
}

func TestBadNumbers(t *testing.T) {
	for _, in := range []string{"1A", "0FF", "1.5E", "12AB.5"} {
		t.Run(in, func(t *testing.T) { expectError(t, in, diag.LexBadNumber) })
	}
}

func TestComments(t *testing.T) {
	expectKinds(t, "a (* outer (* inner *) still *) b", token.Ident, token.Ident)
	expectKinds(t, "(**)x", token.Ident)
	expectError(t, "a (* (* *) ", diag.LexUnterminatedBlockComment)
}

func TestStrings(t *testing.T) {
	toks := expectKinds(t, `'abc' "it's"`, token.String, token.String)
	if toks[1].Text != `"it's"` {
		t.Fatalf("text = %q", toks[1].Text)
	}
	expectError(t, "'abc\n'", diag.LexUnterminatedString)
	expectError(t, "'abc", diag.LexUnterminatedString)
}

func TestOperatorsGreedy(t *testing.T) {
	cases := map[string]token.Kind{
		".<=": token.DotLessEqual, ".>=": token.DotGreaterEqual, "<<?": token.LessLessQ,
		">>?": token.GreaterGreaterQ, "..": token.Upto, ".*": token.DotTimes, "./": token.DotSlash,
		".=": token.DotEqual, ".#": token.DotUnequal, ".<": token.DotLess, ".>": token.DotGreater,
		":=": token.Becomes, "**": token.TimesTimes, "+*": token.PlusTimes, "<=": token.LessEqual,
		">=": token.GreaterEqual, "<<": token.LessLess, ">>": token.GreaterGreater,
		"??": token.QuestionMarks, "!!": token.ExclaimMarks, "`": token.Transpose, "\\": token.Backslash,
		"#": token.Unequal, "^": token.Arrow, "|": token.Bar, "~": token.Tilde, "&": token.Ampersand,
	}
	for in, want := range cases {
		toks := expectKinds(t, in, want)
		if toks[0].Text != in {
			t.Fatalf("%q: text %q", in, toks[0].Text)
		}
	}
	expectKinds(t, "a<<?b", token.Ident, token.LessLessQ, token.Ident)
	expectKinds(t, "x:=y", token.Ident, token.Becomes, token.Ident)
}

func TestUnknownCharacter(t *testing.T) {
	expectError(t, "a @ b", diag.LexUnknownChar)
	expectError(t, "a $", diag.LexUnknownChar)
}

func TestPeekAndStartPos(t *testing.T) {
	lx, _ := makeTestLexer("IF x THEN")
	if p := lx.Peek(); p.Kind != token.KwIf {
		t.Fatalf("peek = %v", p)
	}
	if p := lx.Peek(); p.Kind != token.KwIf {
		t.Fatalf("second peek must not advance, got %v", p)
	}
	lx.Next()
	x := lx.Next()
	if x.Kind != token.Ident || lx.StartPos() != 3 {
		t.Fatalf("got %v at %d", x, lx.StartPos())
	}
	if lx.Next().Kind != token.KwThen || lx.Next().Kind != token.EOF || lx.Next().Kind != token.EOF {
		t.Fatal("EOF must be sticky")
	}
}

// Склеивание лексем с пропущенными промежутками восстанавливает исходник.
func TestRoundTrip(t *testing.T) {
	src := "MODULE M; (* c (* n *) *)\nVAR a: ARRAY 10 OF CHAR;\nBEGIN a[0] := 41X; x := 1.5E3 .* y (* z *) END M."
	lx, rep := makeTestLexer(src)
	var b strings.Builder
	var prev uint32
	for {
		tok := lx.Next()
		b.WriteString(src[prev:tok.Span.Start])
		b.WriteString(tok.Text)
		prev = tok.Span.End
		if tok.Kind == token.EOF {
			break
		}
	}
	b.WriteString(src[prev:])
	if len(rep.msgs) != 0 {
		t.Fatalf("diagnostics: %v", rep.msgs)
	}
	if b.String() != src {
		t.Fatalf("round trip mismatch:\n%q\n%q", b.String(), src)
	}
}

func TestCaptureRaw(t *testing.T) {
	src := "CODE\n  MOV EAX, 'END' ; END in comment\n  NOP\nEND x"
	lx, _ := makeTestLexer(src)
	if tok := lx.Next(); tok.Kind != token.KwCode {
		t.Fatalf("got %v", tok)
	}
	sp, ok := lx.CaptureRaw()
	if !ok {
		t.Fatalf("CaptureRaw failed: %v", lx.Err())
	}
	if got := src[sp.Start:sp.End]; got != "\n  MOV EAX, 'END' ; END in comment\n  NOP\n" {
		t.Fatalf("raw = %q", got)
	}
	if tok := lx.Next(); tok.Kind != token.KwEnd {
		t.Fatalf("after raw got %v", tok)
	}
}

func TestCaptureRawUnterminated(t *testing.T) {
	lx, _ := makeTestLexer("CODE NOP ENDING")
	lx.Next()
	if _, ok := lx.CaptureRaw(); ok {
		t.Fatal("expected failure")
	}
	if lx.Err() == nil || lx.Err().Code != diag.SynUnterminatedCode {
		t.Fatalf("err = %v", lx.Err())
	}
}
