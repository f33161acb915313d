package asm

import (
	"fmt"

	"aoc/internal/diag"
	"aoc/internal/source"
)

// ExprKind enumerates operand expression nodes.
type ExprKind uint8

const (
	ExprNumber ExprKind = iota
	ExprString
	ExprIdent
	ExprHere // $
	ExprTimes
	ExprDiv
	ExprModulo
	ExprPlus
	ExprMinus
	ExprUnaryPlus
	ExprUnaryMinus
	ExprNegate
)

var exprNames = [...]string{
	ExprNumber: "Number", ExprString: "String", ExprIdent: "Ident", ExprHere: "Here",
	ExprTimes: "Times", ExprDiv: "Div", ExprModulo: "Modulo", ExprPlus: "Plus",
	ExprMinus: "Minus", ExprUnaryPlus: "UnaryPlus", ExprUnaryMinus: "UnaryMinus",
	ExprNegate: "Negate",
}

func (k ExprKind) String() string {
	if int(k) < len(exprNames) {
		return exprNames[k]
	}
	return fmt.Sprintf("ExprKind(%d)", uint8(k))
}

// Expr is an operand expression. Binary nodes use X and Y, unary nodes X.
type Expr struct {
	Kind  ExprKind
	Span  source.Span
	Value uint64 // ExprNumber
	Text  string // ExprString without quotes, ExprIdent name
	X, Y  *Expr
}

func (e *Expr) String() string {
	switch e.Kind {
	case ExprNumber:
		return fmt.Sprintf("%d", e.Value)
	case ExprString:
		return "'" + e.Text + "'"
	case ExprIdent:
		return e.Text
	case ExprHere:
		return "$"
	case ExprUnaryPlus:
		return "+" + e.X.String()
	case ExprUnaryMinus:
		return "-" + e.X.String()
	case ExprNegate:
		return "~" + e.X.String()
	}
	op := map[ExprKind]string{ExprTimes: "*", ExprDiv: "/", ExprModulo: "%", ExprPlus: "+", ExprMinus: "-"}[e.Kind]
	return "(" + e.X.String() + op + e.Y.String() + ")"
}

// env resolves identifiers during evaluation. Lenient evaluation (the
// layout pass) treats unknown symbols as zero.
type env struct {
	symbols map[string]int64
	here    int64
	lenient bool
}

func (ev *env) eval(e *Expr) (int64, error) {
	switch e.Kind {
	case ExprNumber:
		return int64(e.Value), nil
	case ExprString:
		if len(e.Text) > 8 {
			return 0, diag.Errorf(diag.AsmBadOperand, e.Span, "string constant longer than 8 bytes")
		}
		var v int64
		for i := len(e.Text) - 1; i >= 0; i-- {
			v = v<<8 | int64(e.Text[i])
		}
		return v, nil
	case ExprIdent:
		if v, ok := ev.symbols[e.Text]; ok {
			return v, nil
		}
		if ev.lenient {
			return 0, nil
		}
		return 0, diag.Errorf(diag.AsmUndefinedSymbol, e.Span, "undefined symbol %s", e.Text)
	case ExprHere:
		return ev.here, nil
	case ExprUnaryPlus, ExprUnaryMinus, ExprNegate:
		x, err := ev.eval(e.X)
		if err != nil {
			return 0, err
		}
		switch e.Kind {
		case ExprUnaryMinus:
			return -x, nil
		case ExprNegate:
			return ^x, nil
		}
		return x, nil
	}
	x, err := ev.eval(e.X)
	if err != nil {
		return 0, err
	}
	y, err := ev.eval(e.Y)
	if err != nil {
		return 0, err
	}
	switch e.Kind {
	case ExprTimes:
		return x * y, nil
	case ExprDiv, ExprModulo:
		if y == 0 {
			if ev.lenient {
				return 0, nil
			}
			return 0, diag.Errorf(diag.AsmBadOperand, e.Y.Span, "division by zero")
		}
		if e.Kind == ExprDiv {
			return x / y, nil
		}
		return x % y, nil
	case ExprPlus:
		return x + y, nil
	case ExprMinus:
		return x - y, nil
	}
	return 0, diag.Errorf(diag.AsmBadOperand, e.Span, "unexpected expression %s", e.Kind)
}
