package parser

import (
	"aoc/internal/ast"
	"aoc/internal/diag"
	"aoc/internal/token"
)

// parseDesignator reads primary {selector} [flags]. A Designator node is
// built only when at least one selector or a flag-set is present.
func (p *Parser) parseDesignator() (ast.Expr, bool) {
	start := p.mark()
	x, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	var sels []ast.Selector
	for {
		sel, more, ok := p.parseSelector()
		if !ok {
			return nil, false
		}
		if !more {
			break
		}
		sels = append(sels, sel)
	}
	flags, ok := p.optFlags()
	if !ok {
		return nil, false
	}
	if len(sels) == 0 && flags == nil {
		return x, true
	}
	return &ast.Designator{
		Base:      ast.Base{Span: p.spanFrom(start)},
		X:         x,
		Selectors: sels,
		Flags:     flags,
	}, true
}

// parseSelector reads one postfix operator. more is false when the lookahead
// does not start a selector.
func (p *Parser) parseSelector() (sel ast.Selector, more, ok bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.LParen:
		p.advance()
		call := &ast.CallSelector{Lparen: tok}
		if !p.at(token.RParen) {
			if call.Args, ok = p.parseExprList(); !ok {
				return nil, false, false
			}
		}
		if call.Rparen, ok = p.expect(token.RParen, diag.SynUnclosedParen); !ok {
			return nil, false, false
		}
		call.Span = p.spanFrom(tok.Span.Start)
		return call, true, true
	case token.Period:
		p.advance()
		name, ok := p.parseIdent()
		if !ok {
			return nil, false, false
		}
		return &ast.DotSelector{Base: ast.Base{Span: tok.Span.Cover(name.Span)}, Dot: tok, Name: name}, true, true
	case token.LBracket:
		p.advance()
		idx := &ast.IndexSelector{Lbrack: tok}
		if idx.Index, ok = p.parseIndexList(); !ok {
			return nil, false, false
		}
		if idx.Rbrack, ok = p.expect(token.RBracket, diag.SynUnclosedBracket); !ok {
			return nil, false, false
		}
		idx.Span = p.spanFrom(tok.Span.Start)
		return idx, true, true
	case token.Arrow:
		p.advance()
		return &ast.ArrowSelector{Base: ast.Base{Span: tok.Span}, Tok: tok}, true, true
	case token.Transpose:
		p.advance()
		return &ast.TransposeSelector{Base: ast.Base{Span: tok.Span}, Tok: tok}, true, true
	}
	return nil, false, true
}
