package parser

import (
	"strings"
	"testing"

	"aoc/internal/ast"
	"aoc/internal/diag"
	"aoc/internal/source"
	"aoc/internal/testkit"
)

func makeFile(src string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.Mod", []byte(src))
	return fs.Get(id)
}

func parseExprOK(t *testing.T, src string) ast.Expr {
	t.Helper()
	f := makeFile(src)
	x, err := ParseExpression(f, Options{})
	if err != nil {
		t.Fatalf("%q: unexpected error: %v", src, err)
	}
	if err := testkit.CheckSpanInvariants(x, f); err != nil {
		t.Fatalf("%q: %v", src, err)
	}
	return x
}

func parseStmtOK(t *testing.T, src string) ast.Stmt {
	t.Helper()
	f := makeFile(src)
	s, err := ParseStatement(f, Options{})
	if err != nil {
		t.Fatalf("%q: unexpected error: %v", src, err)
	}
	if err := testkit.CheckSpanInvariants(s, f); err != nil {
		t.Fatalf("%q: %v", src, err)
	}
	return s
}

func parseModuleOK(t *testing.T, src string) *ast.Module {
	t.Helper()
	f := makeFile(src)
	m, err := ParseModule(f, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := testkit.CheckSpanInvariants(m, f); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
	return m
}

// expectModuleError parses src and checks the error code and, when pos >= 0,
// the reported offset.
func expectModuleError(t *testing.T, src string, code diag.Code, pos int) *diag.Error {
	t.Helper()
	_, err := ParseModule(makeFile(src), Options{})
	if err == nil {
		t.Fatalf("%q: expected error", src)
	}
	de, ok := diag.AsError(err)
	if !ok {
		t.Fatalf("%q: error %T is not *diag.Error", src, err)
	}
	if de.Code != code {
		t.Fatalf("%q: code = %s (%s), want %s", src, de.Code.ID(), de.Message, code.ID())
	}
	if pos >= 0 {
		got, ok := diag.PositionFromMessage(err.Error())
		if !ok || int(got) != pos {
			t.Fatalf("%q: error %q, want position %d", src, err.Error(), pos)
		}
	}
	return de
}

// render prints an expression fully parenthesised.
func render(x ast.Expr) string {
	switch x := x.(type) {
	case *ast.Ident:
		return x.Name
	case *ast.BasicLit:
		return x.Tok.Text
	case *ast.ConstLit:
		return x.Tok.Kind.String()
	case *ast.ParenExpr:
		return render(x.X)
	case *ast.UnaryExpr:
		return "(" + x.OpTok.Kind.String() + render(x.X) + ")"
	case *ast.BinaryExpr:
		return "(" + render(x.X) + " " + x.OpTok.Kind.String() + " " + render(x.Y) + ")"
	case *ast.RangeExpr:
		var b strings.Builder
		if x.Lower != nil {
			b.WriteString(render(x.Lower))
		}
		b.WriteString(x.OpTok.Kind.String())
		if x.Upper != nil {
			b.WriteString(render(x.Upper))
		}
		if x.Step != nil {
			b.WriteString(" BY " + render(x.Step))
		}
		return b.String()
	}
	return ast.NodeTypeName(x)
}
