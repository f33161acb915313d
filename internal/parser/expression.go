package parser

import (
	"aoc/internal/ast"
	"aoc/internal/diag"
	"aoc/internal/token"
)

// Уровни выражений, от низшего приоритета к высшему:
//
//	expression  = range [relop range]
//	range       = '*' | [simple] '..' [simple] ['BY' simple] | simple
//	simple      = term {('+' | '-' | 'OR') term}
//	term        = factor {mulop factor}
//	factor      = ('+' | '-' | 'NOT' | '~') factor | designator
//	designator  = primary {selector} [flags]

var relOps = map[token.Kind]ast.BinaryOp{
	token.Equal:           ast.BinEqual,
	token.Unequal:         ast.BinNotEqual,
	token.Less:            ast.BinLess,
	token.LessEqual:       ast.BinLessEqual,
	token.Greater:         ast.BinGreater,
	token.GreaterEqual:    ast.BinGreaterEqual,
	token.KwIn:            ast.BinIn,
	token.KwIs:            ast.BinIs,
	token.DotEqual:        ast.BinDotEqual,
	token.DotUnequal:      ast.BinDotUnequal,
	token.DotLess:         ast.BinDotLess,
	token.DotLessEqual:    ast.BinDotLessEqual,
	token.DotGreater:      ast.BinDotGreater,
	token.DotGreaterEqual: ast.BinDotGreaterEqual,
	token.QuestionMarks:   ast.BinQuestionMarks,
	token.ExclaimMarks:    ast.BinExclaimMarks,
	token.LessLessQ:       ast.BinLessLessQ,
	token.GreaterGreaterQ: ast.BinGreaterGreaterQ,
}

var addOps = map[token.Kind]ast.BinaryOp{
	token.Plus:  ast.BinPlus,
	token.Minus: ast.BinMinus,
	token.KwOr:  ast.BinOr,
}

var mulOps = map[token.Kind]ast.BinaryOp{
	token.Times:      ast.BinTimes,
	token.Slash:      ast.BinSlash,
	token.KwDiv:      ast.BinDiv,
	token.KwMod:      ast.BinMod,
	token.KwAnd:      ast.BinAnd,
	token.Ampersand:  ast.BinAnd,
	token.DotTimes:   ast.BinDotTimes,
	token.DotSlash:   ast.BinDotSlash,
	token.Backslash:  ast.BinBackslash,
	token.TimesTimes: ast.BinTimesTimes,
	token.PlusTimes:  ast.BinPlusTimes,
}

var unaryOps = map[token.Kind]ast.UnaryOp{
	token.Plus:  ast.UnaryPlus,
	token.Minus: ast.UnaryMinus,
	token.KwNot: ast.UnaryNot,
	token.Tilde: ast.UnaryNot,
}

// startsPrimary reports whether k can begin a primary.
func startsPrimary(k token.Kind) bool {
	switch k {
	case token.Ident, token.Integer, token.Real, token.Character, token.String,
		token.KwNil, token.KwTrue, token.KwFalse, token.KwSelf, token.KwResult, token.KwImag,
		token.KwAddress, token.KwSize, token.KwAlias, token.KwNew,
		token.LParen, token.LBracket, token.LBrace:
		return true
	}
	return false
}

// startsSimpleExpr is the first set of simple_expr. After '..' any other
// token (',', ']', '}', BY, a relation, EOF, ...) means the upper bound is
// omitted.
func startsSimpleExpr(k token.Kind) bool {
	_, unary := unaryOps[k]
	return unary || startsPrimary(k)
}

func (p *Parser) parseExpr() (ast.Expr, bool) {
	x, ok := p.parseRange()
	if !ok {
		return nil, false
	}
	op, isRel := relOps[p.peek().Kind]
	if !isRel {
		return x, true
	}
	opTok := p.advance()
	y, ok := p.parseRange()
	if !ok {
		return nil, false
	}
	return &ast.BinaryExpr{
		Base:  ast.Base{Span: x.NodeSpan().Cover(y.NodeSpan())},
		Op:    op,
		OpTok: opTok,
		X:     x,
		Y:     y,
	}, true
}

func (p *Parser) parseRange() (ast.Expr, bool) {
	if p.at(token.Times) {
		star := p.advance()
		return &ast.RangeExpr{Base: ast.Base{Span: star.Span}, OpTok: star}, true
	}
	start := p.mark()
	var lower ast.Expr
	if !p.at(token.Upto) {
		x, ok := p.parseSimple()
		if !ok {
			return nil, false
		}
		if !p.at(token.Upto) {
			return x, true
		}
		lower = x
	}
	r := &ast.RangeExpr{Lower: lower, OpTok: p.advance()}
	var ok bool
	if startsSimpleExpr(p.peek().Kind) {
		if r.Upper, ok = p.parseSimple(); !ok {
			return nil, false
		}
	}
	if by, has := p.accept(token.KwBy); has {
		r.By = by
		if r.Step, ok = p.parseSimple(); !ok {
			return nil, false
		}
	}
	r.Span = p.spanFrom(start)
	return r, true
}

func (p *Parser) parseSimple() (ast.Expr, bool) {
	return p.parseBinaryLevel(addOps, p.parseTerm)
}

func (p *Parser) parseTerm() (ast.Expr, bool) {
	return p.parseBinaryLevel(mulOps, p.parseFactor)
}

// parseBinaryLevel builds a left-associative chain of operand {op operand}.
func (p *Parser) parseBinaryLevel(ops map[token.Kind]ast.BinaryOp, operand func() (ast.Expr, bool)) (ast.Expr, bool) {
	x, ok := operand()
	if !ok {
		return nil, false
	}
	for {
		op, found := ops[p.peek().Kind]
		if !found {
			return x, true
		}
		opTok := p.advance()
		y, ok := operand()
		if !ok {
			return nil, false
		}
		x = &ast.BinaryExpr{
			Base:  ast.Base{Span: x.NodeSpan().Cover(y.NodeSpan())},
			Op:    op,
			OpTok: opTok,
			X:     x,
			Y:     y,
		}
	}
}

func (p *Parser) parseFactor() (ast.Expr, bool) {
	op, isUnary := unaryOps[p.peek().Kind]
	if !isUnary {
		return p.parseDesignator()
	}
	opTok := p.advance()
	x, ok := p.parseFactor()
	if !ok {
		return nil, false
	}
	return &ast.UnaryExpr{
		Base:  ast.Base{Span: opTok.Span.Cover(x.NodeSpan())},
		Op:    op,
		OpTok: opTok,
		X:     x,
	}, true
}

func (p *Parser) parsePrimary() (ast.Expr, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		return p.parseIdent()
	case token.Integer, token.Real, token.Character, token.String:
		p.advance()
		return &ast.BasicLit{Base: ast.Base{Span: tok.Span}, Kind: litKind(tok.Kind), Tok: tok}, true
	case token.KwNil, token.KwTrue, token.KwFalse, token.KwSelf, token.KwResult, token.KwImag:
		p.advance()
		return &ast.ConstLit{Base: ast.Base{Span: tok.Span}, Tok: tok}, true
	case token.KwAddress:
		p.advance()
		e := &ast.AddressExpr{Address: tok}
		var ok bool
		if e.Of, e.X, ok = p.optOfFactor(); !ok {
			return nil, false
		}
		e.Span = p.spanFrom(tok.Span.Start)
		return e, true
	case token.KwSize:
		p.advance()
		e := &ast.SizeExpr{Size: tok}
		var ok bool
		if e.Of, e.X, ok = p.optOfFactor(); !ok {
			return nil, false
		}
		e.Span = p.spanFrom(tok.Span.Start)
		return e, true
	case token.KwAlias:
		p.advance()
		e := &ast.AliasExpr{Alias: tok}
		var ok bool
		if e.Of, ok = p.expect(token.KwOf, diag.SynExpectKeyword); !ok {
			return nil, false
		}
		if e.X, ok = p.parseFactor(); !ok {
			return nil, false
		}
		e.Span = p.spanFrom(tok.Span.Start)
		return e, true
	case token.KwNew:
		return p.parseNew()
	case token.LParen:
		p.advance()
		e := &ast.ParenExpr{Lparen: tok}
		var ok bool
		if e.X, ok = p.parseExpr(); !ok {
			return nil, false
		}
		if e.Rparen, ok = p.expect(token.RParen, diag.SynUnclosedParen); !ok {
			return nil, false
		}
		e.Span = p.spanFrom(tok.Span.Start)
		return e, true
	case token.LBracket:
		p.advance()
		e := &ast.ArrayExpr{Lbrack: tok}
		var ok bool
		if !p.at(token.RBracket) {
			if e.Elems, ok = p.parseExprList(); !ok {
				return nil, false
			}
		}
		if e.Rbrack, ok = p.expect(token.RBracket, diag.SynUnclosedBracket); !ok {
			return nil, false
		}
		e.Span = p.spanFrom(tok.Span.Start)
		return e, true
	case token.LBrace:
		p.advance()
		e := &ast.SetExpr{Lbrace: tok}
		var ok bool
		if !p.at(token.RBrace) {
			if e.Elems, ok = p.parseExprList(); !ok {
				return nil, false
			}
		}
		if e.Rbrace, ok = p.expect(token.RBrace, diag.SynUnclosedBrace); !ok {
			return nil, false
		}
		e.Span = p.spanFrom(tok.Span.Start)
		return e, true
	}
	return nil, p.unexpected(diag.SynExpectExpression, "expression")
}

func litKind(k token.Kind) ast.LitKind {
	switch k {
	case token.Real:
		return ast.LitReal
	case token.Character:
		return ast.LitCharacter
	case token.String:
		return ast.LitString
	}
	return ast.LitInteger
}

// optOfFactor reads the optional "OF factor" of ADDRESS and SIZE.
func (p *Parser) optOfFactor() (token.Token, ast.Expr, bool) {
	of, has := p.accept(token.KwOf)
	if !has {
		return token.Token{}, nil, true
	}
	x, ok := p.parseFactor()
	if !ok {
		return token.Token{}, nil, false
	}
	return of, x, true
}

// parseNew reads NEW qualident '(' [expr_list] ')'.
func (p *Parser) parseNew() (ast.Expr, bool) {
	start := p.mark()
	e := &ast.NewExpr{New: p.advance()}
	var ok bool
	if e.Type, ok = p.parseQualIdent(); !ok {
		return nil, false
	}
	if e.Lparen, ok = p.expect(token.LParen, diag.SynUnexpectedToken); !ok {
		return nil, false
	}
	if !p.at(token.RParen) {
		if e.Args, ok = p.parseExprList(); !ok {
			return nil, false
		}
	}
	if e.Rparen, ok = p.expect(token.RParen, diag.SynUnclosedParen); !ok {
		return nil, false
	}
	e.Span = p.spanFrom(start)
	return e, true
}

// parseExprListOrWildcard reads expression {',' expression}. It stops in
// front of ", ?": the comma is consumed and returned so that the index list
// can continue with the wildcard; otherwise the returned token is zero.
func (p *Parser) parseExprListOrWildcard() (*ast.ExprList, token.Token, bool) {
	first, ok := p.parseExpr()
	if !ok {
		return nil, token.Token{}, false
	}
	list := &ast.ExprList{List: []ast.Expr{first}}
	var pending token.Token
	for p.at(token.Comma) {
		comma := p.advance()
		if p.at(token.Question) {
			pending = comma
			break
		}
		x, ok := p.parseExpr()
		if !ok {
			return nil, token.Token{}, false
		}
		list.Commas = append(list.Commas, comma)
		list.List = append(list.List, x)
	}
	list.Span = first.NodeSpan().Cover(list.List[len(list.List)-1].NodeSpan())
	return list, pending, true
}

// parseExprList reads a plain expression list where '?' is not allowed.
func (p *Parser) parseExprList() (*ast.ExprList, bool) {
	list, pending, ok := p.parseExprListOrWildcard()
	if !ok {
		return nil, false
	}
	if pending.IsValid() {
		return nil, p.unexpected(diag.SynExpectExpression, "expression")
	}
	return list, true
}

// parseIndexList reads the content of '[' ... ']' in one of six shapes:
// exprs | ? | ?, exprs | exprs, ? | exprs, ?, exprs | empty.
func (p *Parser) parseIndexList() (*ast.IndexList, bool) {
	start := p.mark()
	il := &ast.IndexList{}
	var ok bool
	switch {
	case p.at(token.RBracket):
		il.Shape = ast.IndexEmpty
	case p.at(token.Question):
		il.Question = p.advance()
		il.Shape = ast.IndexWildcard
		if comma, has := p.accept(token.Comma); has {
			il.Comma2 = comma
			if il.Tail, ok = p.parseExprList(); !ok {
				return nil, false
			}
			il.Shape = ast.IndexWildcardLeft
		}
	default:
		var pending token.Token
		if il.Head, pending, ok = p.parseExprListOrWildcard(); !ok {
			return nil, false
		}
		il.Shape = ast.IndexExprs
		if pending.IsValid() {
			il.Comma1 = pending
			il.Question = p.advance()
			il.Shape = ast.IndexWildcardRight
			if comma, has := p.accept(token.Comma); has {
				il.Comma2 = comma
				if il.Tail, ok = p.parseExprList(); !ok {
					return nil, false
				}
				il.Shape = ast.IndexWildcardMid
			}
		}
	}
	il.Span = p.spanFrom(start)
	return il, true
}
