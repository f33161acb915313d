package parser

import (
	"strings"
	"testing"

	"aoc/internal/ast"
	"aoc/internal/diag"
	"aoc/internal/token"
)

func TestIdentExpression(t *testing.T) {
	x := parseExprOK(t, "variable1")
	id, ok := x.(*ast.Ident)
	if !ok {
		t.Fatalf("got %T, want *ast.Ident", x)
	}
	if id.Name != "variable1" || id.Span.Start != 0 || id.Span.End != 9 {
		t.Fatalf("ident = %q %v", id.Name, id.Span)
	}
}

func TestRangeExpressions(t *testing.T) {
	tests := []struct {
		src      string
		end      uint32
		op       token.Kind
		lower    bool
		upper    bool
		step     bool
		rendered string
	}{
		{"1 .. 10 BY 2", 12, token.Upto, true, true, true, "1..10 BY 2"},
		{".. BY 2", 7, token.Upto, false, false, true, ".. BY 2"},
		{"*", 1, token.Times, false, false, false, "*"},
		{"3 ..", 4, token.Upto, true, false, false, "3.."},
		{"..5", 3, token.Upto, false, true, false, "..5"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			x := parseExprOK(t, tt.src)
			r, ok := x.(*ast.RangeExpr)
			if !ok {
				t.Fatalf("got %T, want *ast.RangeExpr", x)
			}
			if r.Span.Start != 0 || r.Span.End != tt.end {
				t.Fatalf("span = %v, want 0..%d", r.Span, tt.end)
			}
			if r.OpTok.Kind != tt.op {
				t.Fatalf("op = %v, want %v", r.OpTok.Kind, tt.op)
			}
			if (r.Lower != nil) != tt.lower || (r.Upper != nil) != tt.upper || (r.Step != nil) != tt.step {
				t.Fatalf("lower=%v upper=%v step=%v", r.Lower != nil, r.Upper != nil, r.Step != nil)
			}
			if tt.step != r.By.IsValid() {
				t.Fatalf("BY token presence mismatch")
			}
			if got := render(r); got != tt.rendered {
				t.Fatalf("render = %q, want %q", got, tt.rendered)
			}
		})
	}
}

// Верхняя граница опускается перед закрывающими и реляционными токенами.
func TestRangeUpperBoundOmitted(t *testing.T) {
	tests := []string{
		"a[1 .., 2]",
		"{1 .., 5}",
		"a[2 ..]",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			parseExprOK(t, src)
		})
	}
	x := parseExprOK(t, "1 .. = x")
	bin, ok := x.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.BinEqual {
		t.Fatalf("got %T", x)
	}
	if r, ok := bin.X.(*ast.RangeExpr); !ok || r.Upper != nil {
		t.Fatalf("left = %T", bin.X)
	}
}

func TestDesignatorChain(t *testing.T) {
	x := parseExprOK(t, "test(1,2).run^")
	d, ok := x.(*ast.Designator)
	if !ok {
		t.Fatalf("got %T, want *ast.Designator", x)
	}
	if d.Span.Start != 0 || d.Span.End != 14 {
		t.Fatalf("span = %v", d.Span)
	}
	if id, ok := d.X.(*ast.Ident); !ok || id.Name != "test" {
		t.Fatalf("head = %#v", d.X)
	}
	if len(d.Selectors) != 3 {
		t.Fatalf("selectors = %d, want 3", len(d.Selectors))
	}
	call, ok := d.Selectors[0].(*ast.CallSelector)
	if !ok || call.Args == nil || len(call.Args.List) != 2 {
		t.Fatalf("selector 0 = %#v", d.Selectors[0])
	}
	dot, ok := d.Selectors[1].(*ast.DotSelector)
	if !ok || dot.Name.Name != "run" {
		t.Fatalf("selector 1 = %#v", d.Selectors[1])
	}
	if _, ok := d.Selectors[2].(*ast.ArrowSelector); !ok {
		t.Fatalf("selector 2 = %T", d.Selectors[2])
	}
}

func TestDesignatorFlagsAndTranspose(t *testing.T) {
	x := parseExprOK(t, "m`[1, 2] {UNTRACED}")
	d, ok := x.(*ast.Designator)
	if !ok {
		t.Fatalf("got %T", x)
	}
	if _, ok := d.Selectors[0].(*ast.TransposeSelector); !ok {
		t.Fatalf("selector 0 = %T", d.Selectors[0])
	}
	if d.Flags == nil || len(d.Flags.Flags) != 1 || d.Flags.Flags[0].Name.Name != "UNTRACED" {
		t.Fatalf("flags = %#v", d.Flags)
	}
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a + b * c", "(a + (b * c))"},
		{"a - b - c", "((a - b) - c)"},
		{"a DIV b MOD c", "((a DIV b) MOD c)"},
		{"a < b + c", "(a < (b + c))"},
		{"-a * b", "((-a) * b)"},
		{"- - a", "(-(-a))"},
		{"(a + b) * c", "((a + b) * c)"},
		{"a OR b & c", "(a OR (b & c))"},
		{"x IN {1, 2}", "(x IN SetExpr)"},
		{"a .* b + c", "((a .* b) + c)"},
		{"p IS T", "(p IS T)"},
		{"NIL", "NIL"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := render(parseExprOK(t, tt.src)); got != tt.want {
				t.Fatalf("render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIndexListShapes(t *testing.T) {
	tests := []struct {
		src   string
		shape ast.IndexShape
		head  int
		tail  int
	}{
		{"a[1, 2]", ast.IndexExprs, 2, 0},
		{"a[?]", ast.IndexWildcard, 0, 0},
		{"a[?, 1]", ast.IndexWildcardLeft, 0, 1},
		{"a[1, ?]", ast.IndexWildcardRight, 1, 0},
		{"a[1, ?, 2, 3]", ast.IndexWildcardMid, 1, 2},
		{"a[]", ast.IndexEmpty, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			x := parseExprOK(t, tt.src)
			d, ok := x.(*ast.Designator)
			if !ok {
				t.Fatalf("got %T", x)
			}
			idx, ok := d.Selectors[0].(*ast.IndexSelector)
			if !ok {
				t.Fatalf("selector = %T", d.Selectors[0])
			}
			il := idx.Index
			if il.Shape != tt.shape {
				t.Fatalf("shape = %v, want %v", il.Shape, tt.shape)
			}
			if n := exprCount(il.Head); n != tt.head {
				t.Fatalf("head = %d, want %d", n, tt.head)
			}
			if n := exprCount(il.Tail); n != tt.tail {
				t.Fatalf("tail = %d, want %d", n, tt.tail)
			}
		})
	}
}

func exprCount(l *ast.ExprList) int {
	if l == nil {
		return 0
	}
	return len(l.List)
}

func TestEmptyIndexSpan(t *testing.T) {
	x := parseExprOK(t, "a[]")
	idx := x.(*ast.Designator).Selectors[0].(*ast.IndexSelector)
	if !idx.Index.Span.Empty() || idx.Index.Span.Start != 2 {
		t.Fatalf("index span = %v, want empty at 2", idx.Index.Span)
	}
}

func TestPrimaryForms(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"ADDRESS OF x", "AddressExpr"},
		{"ADDRESS", "AddressExpr"},
		{"SIZE OF T", "SizeExpr"},
		{"ALIAS OF p", "AliasExpr"},
		{"NEW Obj(1, 2)", "NewExpr"},
		{"[1, 2, 3]", "ArrayExpr"},
		{"{}", "SetExpr"},
		{"'x'", "BasicLit"},
		{"3.14E2", "BasicLit"},
		{"0FFH", "BasicLit"},
		{"SELF", "ConstLit"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := ast.NodeTypeName(parseExprOK(t, tt.src)); got != tt.want {
				t.Fatalf("node = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestExpressionErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
		pos  int
	}{
		{"a = b = c", diag.SynUnexpectedToken, 6},
		{"(a + b", diag.SynUnclosedParen, -1},
		{"a[1, ?, ?]", diag.SynExpectExpression, 8},
		{"f(1, ?)", diag.SynExpectExpression, 5},
		{"a +", diag.SynExpectExpression, -1},
		{"NEW", diag.SynExpectIdentifier, -1},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := ParseExpression(makeFile(tt.src), Options{})
			if err == nil {
				t.Fatalf("expected error")
			}
			de, ok := diag.AsError(err)
			if !ok || de.Code != tt.code {
				t.Fatalf("error = %v, want code %s", err, tt.code.ID())
			}
			if !strings.Contains(err.Error(), "position: '") {
				t.Fatalf("missing position suffix: %q", err.Error())
			}
			if tt.pos >= 0 {
				if got, _ := diag.PositionFromMessage(err.Error()); int(got) != tt.pos {
					t.Fatalf("position = %d, want %d (%q)", got, tt.pos, err.Error())
				}
			}
		})
	}
}
