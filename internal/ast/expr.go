package ast

import (
	"aoc/internal/token"
)

// Ident is a plain identifier.
type Ident struct {
	Base
	Tok  token.Token
	Name string
}

// LitKind distinguishes the literal atoms.
type LitKind uint8

const (
	LitInteger LitKind = iota
	LitReal
	LitCharacter
	LitString
)

func (k LitKind) String() string {
	switch k {
	case LitInteger:
		return "Integer"
	case LitReal:
		return "Real"
	case LitCharacter:
		return "Character"
	case LitString:
		return "String"
	}
	return "Lit(?)"
}

// BasicLit is an Integer, Real, Character or String literal. Tok.Text keeps
// the raw lexeme including suffixes and quotes.
type BasicLit struct {
	Base
	Kind LitKind
	Tok  token.Token
}

// ConstLit is one of the keyword atoms NIL, TRUE, FALSE, SELF, RESULT, IMAG.
type ConstLit struct {
	Base
	Tok token.Token
}

// AddressExpr is ADDRESS [OF factor]. X is nil when OF is absent.
type AddressExpr struct {
	Base
	Address token.Token
	Of      token.Token
	X       Expr
}

// SizeExpr is SIZE [OF factor]. X is nil when OF is absent.
type SizeExpr struct {
	Base
	Size token.Token
	Of   token.Token
	X    Expr
}

// AliasExpr is ALIAS OF factor.
type AliasExpr struct {
	Base
	Alias token.Token
	Of    token.Token
	X     Expr
}

// NewExpr is NEW qualident '(' [expr_list] ')'.
type NewExpr struct {
	Base
	New    token.Token
	Type   *QualIdent
	Lparen token.Token
	Args   *ExprList // nil for "()"
	Rparen token.Token
}

// ParenExpr is '(' expression ')'.
type ParenExpr struct {
	Base
	Lparen token.Token
	X      Expr
	Rparen token.Token
}

// ArrayExpr is an array constructor '[' expr_list ']'.
type ArrayExpr struct {
	Base
	Lbrack token.Token
	Elems  *ExprList // nil for "[]"
	Rbrack token.Token
}

// SetExpr is a set constructor '{' expr_list '}'.
type SetExpr struct {
	Base
	Lbrace token.Token
	Elems  *ExprList // nil for "{}"
	Rbrace token.Token
}

// ExprList is a non-empty comma separated list of expressions.
type ExprList struct {
	Base
	List   []Expr
	Commas []token.Token
}

// IndexShape enumerates the forms of an index list around the '?' wildcard.
type IndexShape uint8

const (
	IndexExprs         IndexShape = iota // e1, e2
	IndexWildcard                        // ?
	IndexWildcardLeft                    // ?, e1
	IndexWildcardRight                   // e1, ?
	IndexWildcardMid                     // e1, ?, e2
	IndexEmpty                           // []
)

func (s IndexShape) String() string {
	switch s {
	case IndexExprs:
		return "exprs"
	case IndexWildcard:
		return "?"
	case IndexWildcardLeft:
		return "?,exprs"
	case IndexWildcardRight:
		return "exprs,?"
	case IndexWildcardMid:
		return "exprs,?,exprs"
	case IndexEmpty:
		return "empty"
	}
	return "shape(?)"
}

// IndexList is the content of '[' ... ']' in an index selector.
type IndexList struct {
	Base
	Shape    IndexShape
	Head     *ExprList
	Comma1   token.Token
	Question token.Token
	Comma2   token.Token
	Tail     *ExprList
}

// UnaryOp is a prefix operator.
type UnaryOp uint8

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryPlus:
		return "UnaryPlus"
	case UnaryMinus:
		return "UnaryMinus"
	case UnaryNot:
		return "UnaryNot"
	}
	return "unary(?)"
}

// UnaryExpr is a prefix operator applied to a factor. NOT may be spelled '~'.
type UnaryExpr struct {
	Base
	Op    UnaryOp
	OpTok token.Token
	X     Expr
}

// BinaryOp is an infix operator of the term, simple-expression or relation level.
type BinaryOp uint8

const (
	// term level
	BinTimes BinaryOp = iota
	BinSlash
	BinDiv
	BinMod
	BinAnd
	BinDotTimes
	BinDotSlash
	BinBackslash
	BinTimesTimes
	BinPlusTimes
	// simple-expression level
	BinPlus
	BinMinus
	BinOr
	// relations
	BinEqual
	BinNotEqual
	BinLess
	BinLessEqual
	BinGreater
	BinGreaterEqual
	BinIn
	BinIs
	BinDotEqual
	BinDotUnequal
	BinDotLess
	BinDotLessEqual
	BinDotGreater
	BinDotGreaterEqual
	BinQuestionMarks
	BinExclaimMarks
	BinLessLessQ
	BinGreaterGreaterQ
)

var binaryNames = [...]string{
	BinTimes: "Times", BinSlash: "Slash", BinDiv: "Div", BinMod: "Mod", BinAnd: "And",
	BinDotTimes: "DotTimes", BinDotSlash: "DotSlash", BinBackslash: "Backslash",
	BinTimesTimes: "TimesTimes", BinPlusTimes: "PlusTimes",
	BinPlus: "Plus", BinMinus: "Minus", BinOr: "Or",
	BinEqual: "Equal", BinNotEqual: "NotEqual", BinLess: "Less", BinLessEqual: "LessEqual",
	BinGreater: "Greater", BinGreaterEqual: "GreaterEqual", BinIn: "In", BinIs: "Is",
	BinDotEqual: "DotEqual", BinDotUnequal: "DotUnequal", BinDotLess: "DotLess",
	BinDotLessEqual: "DotLessEqual", BinDotGreater: "DotGreater", BinDotGreaterEqual: "DotGreaterEqual",
	BinQuestionMarks: "QuestionMarks", BinExclaimMarks: "ExclaimMarks",
	BinLessLessQ: "LessLessQ", BinGreaterGreaterQ: "GreaterGreaterQ",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryNames) {
		return binaryNames[op]
	}
	return "binary(?)"
}

// IsRelation reports whether op belongs to the relational level.
func (op BinaryOp) IsRelation() bool { return op >= BinEqual }

// BinaryExpr is X Op Y. Arithmetic levels are left-associative; a relation
// has exactly one operator.
type BinaryExpr struct {
	Base
	Op    BinaryOp
	OpTok token.Token
	X     Expr
	Y     Expr
}

// RangeExpr is [lower] '..' [upper] ['BY' step], or the open range '*'.
// OpTok is either Upto or Times; for '*' all operands are nil.
type RangeExpr struct {
	Base
	Lower Expr
	OpTok token.Token
	Upper Expr
	By    token.Token
	Step  Expr
}

// IsOpen reports whether the range is the standalone '*'.
func (r *RangeExpr) IsOpen() bool { return r.OpTok.Kind == token.Times }

// Designator is a primary followed by a non-empty selector chain and/or a
// flag-set.
type Designator struct {
	Base
	X         Expr
	Selectors []Selector
	Flags     *FlagSet
}

// CallSelector is '(' [expr_list] ')'.
type CallSelector struct {
	Base
	Lparen token.Token
	Args   *ExprList
	Rparen token.Token
}

// DotSelector is '.' ident.
type DotSelector struct {
	Base
	Dot  token.Token
	Name *Ident
}

// IndexSelector is '[' index_list ']'.
type IndexSelector struct {
	Base
	Lbrack token.Token
	Index  *IndexList
	Rbrack token.Token
}

// ArrowSelector is the dereference '^'.
type ArrowSelector struct {
	Base
	Tok token.Token
}

// TransposeSelector is the transpose '`'.
type TransposeSelector struct {
	Base
	Tok token.Token
}

// FlagSet is '{' [flag {',' flag}] '}'.
type FlagSet struct {
	Base
	Lbrace token.Token
	Flags  []*Flag
	Commas []token.Token
	Rbrace token.Token
}

// Flag is ident ['(' expression ')' | '=' expression]. Open is LParen or
// Equal when a value is present; Rparen is set only for the parenthesised form.
type Flag struct {
	Base
	Name   *Ident
	Open   token.Token
	Value  Expr
	Rparen token.Token
}

func (*Ident) exprNode()       {}
func (*BasicLit) exprNode()    {}
func (*ConstLit) exprNode()    {}
func (*AddressExpr) exprNode() {}
func (*SizeExpr) exprNode()    {}
func (*AliasExpr) exprNode()   {}
func (*NewExpr) exprNode()     {}
func (*ParenExpr) exprNode()   {}
func (*ArrayExpr) exprNode()   {}
func (*SetExpr) exprNode()     {}
func (*UnaryExpr) exprNode()   {}
func (*BinaryExpr) exprNode()  {}
func (*RangeExpr) exprNode()   {}
func (*Designator) exprNode()  {}

func (*CallSelector) selectorNode()      {}
func (*DotSelector) selectorNode()       {}
func (*IndexSelector) selectorNode()     {}
func (*ArrowSelector) selectorNode()     {}
func (*TransposeSelector) selectorNode() {}
