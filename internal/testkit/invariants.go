// Package testkit holds structural checks shared by parser and driver tests.
package testkit

import (
	"fmt"
	"reflect"

	"fortio.org/safecast"

	"aoc/internal/ast"
	"aoc/internal/source"
	"aoc/internal/token"
)

var tokenType = reflect.TypeOf(token.Token{})

// CheckSpanInvariants runs the span invariants over a parsed tree:
// 1) every span is well formed, points to sf and lies within its content
// 2) a parent span covers the spans of its children
// 3) siblings are in source order and do not overlap
// 4) every token stored on a node lies within that node and is stored once
func CheckSpanInvariants(root ast.Node, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil root or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	c := &checker{file: sf.ID, limit: lenContent, seen: make(map[uint32]ast.Node)}
	return c.check(root)
}

type checker struct {
	file  source.FileID
	limit uint32
	seen  map[uint32]ast.Node // начало токена -> владелец
}

func (c *checker) check(n ast.Node) error {
	sp := n.NodeSpan()
	if err := c.wellFormed(sp, n); err != nil {
		return err
	}
	if err := c.tokens(n, sp); err != nil {
		return err
	}
	var prev ast.Node
	for _, child := range ast.Children(n) {
		csp := child.NodeSpan()
		if !sp.Contains(csp) {
			return fmt.Errorf("%s %v does not cover child %s %v",
				ast.NodeTypeName(n), sp, ast.NodeTypeName(child), csp)
		}
		if prev != nil && prev.NodeSpan().End > csp.Start {
			return fmt.Errorf("siblings out of order in %s: %s %v then %s %v",
				ast.NodeTypeName(n), ast.NodeTypeName(prev), prev.NodeSpan(), ast.NodeTypeName(child), csp)
		}
		if err := c.check(child); err != nil {
			return err
		}
		prev = child
	}
	return nil
}

func (c *checker) wellFormed(sp source.Span, n ast.Node) error {
	switch {
	case sp.Start > sp.End:
		return fmt.Errorf("%s has inverted span %v", ast.NodeTypeName(n), sp)
	case sp.File != c.file:
		return fmt.Errorf("%s span file mismatch: got=%d want=%d", ast.NodeTypeName(n), sp.File, c.file)
	case sp.End > c.limit:
		return fmt.Errorf("%s span end beyond content: %d > %d", ast.NodeTypeName(n), sp.End, c.limit)
	}
	return nil
}

// tokens inspects the token.Token and []token.Token fields of n.
func (c *checker) tokens(n ast.Node, sp source.Span) error {
	v := reflect.ValueOf(n)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	for i := range v.NumField() {
		f := v.Field(i)
		switch {
		case f.Type() == tokenType:
			if err := c.token(n, sp, f.Interface().(token.Token)); err != nil {
				return err
			}
		case f.Kind() == reflect.Slice && f.Type().Elem() == tokenType:
			for j := range f.Len() {
				if err := c.token(n, sp, f.Index(j).Interface().(token.Token)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *checker) token(n ast.Node, sp source.Span, tok token.Token) error {
	if !tok.IsValid() {
		return nil
	}
	if !sp.Contains(tok.Span) {
		return fmt.Errorf("token %s %v lies outside its %s %v", tok.Kind, tok.Span, ast.NodeTypeName(n), sp)
	}
	if owner, dup := c.seen[tok.Span.Start]; dup {
		return fmt.Errorf("token %s at %d stored twice: %s and %s",
			tok.Kind, tok.Span.Start, ast.NodeTypeName(owner), ast.NodeTypeName(n))
	}
	c.seen[tok.Span.Start] = n
	return nil
}
