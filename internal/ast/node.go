// Package ast defines the Active Oberon syntax tree.
//
// Nodes form closed families: Expr, Selector, Stmt, Decl and Type. Every node
// embeds Base and so carries the half-open byte span from its leftmost to its
// rightmost token. Structural tokens (keywords, delimiters, operators) are
// stored on the node that owns them; an absent optional token is the zero
// token.Token. Children are owned by value through pointers and are never
// shared between parents.
package ast

import (
	"aoc/internal/source"
)

// Node is implemented by every syntax tree node.
type Node interface {
	NodeSpan() source.Span
}

// Base carries the span shared by all nodes.
type Base struct {
	Span source.Span
}

// NodeSpan returns the node's source span.
func (b *Base) NodeSpan() source.Span { return b.Span }

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Selector is one postfix operator of a designator chain.
type Selector interface {
	Node
	selectorNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is a declaration node inside a declaration sequence.
type Decl interface {
	Node
	declNode()
}

// Type is a type expression node.
type Type interface {
	Node
	typeNode()
}
