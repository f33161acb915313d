package parser

import (
	"aoc/internal/ast"
	"aoc/internal/diag"
	"aoc/internal/token"
)

// parseType dispatches on the first token of a type expression.
func (p *Parser) parseType() (ast.Type, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		q, ok := p.parseQualIdent()
		if !ok {
			return nil, false
		}
		return &ast.NamedType{Base: ast.Base{Span: q.Span}, Name: q}, true
	case token.KwAny, token.KwAddress, token.KwSize:
		p.advance()
		return &ast.KeywordType{Base: ast.Base{Span: tok.Span}, Tok: tok}, true
	case token.KwArray:
		return p.parseArrayType()
	case token.KwRecord:
		return p.parseRecordType()
	case token.KwPointer:
		return p.parsePointerType()
	case token.KwProcedure:
		return p.parseProcType()
	case token.KwObject:
		return p.parseObjectType()
	case token.KwEnum:
		return p.parseEnumType()
	case token.KwCell, token.KwCellnet:
		return p.parseCellType()
	case token.KwPort:
		return p.parsePortType()
	}
	return nil, p.unexpected(diag.SynExpectType, "type")
}

// parseArrayType reads ARRAY [flags] [len {',' len}] OF type, or the math
// form when '[' follows ARRAY.
func (p *Parser) parseArrayType() (ast.Type, bool) {
	start := p.mark()
	arrayTok := p.advance()
	if p.at(token.LBracket) {
		return p.parseMathArrayType(start, arrayTok)
	}
	t := &ast.ArrayType{Array: arrayTok}
	var ok bool
	if t.Flags, ok = p.optFlags(); !ok {
		return nil, false
	}
	if !p.at(token.KwOf) {
		for {
			n, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			t.Lens = append(t.Lens, n)
			comma, more := p.accept(token.Comma)
			if !more {
				break
			}
			t.Commas = append(t.Commas, comma)
		}
	}
	if t.Of, ok = p.expect(token.KwOf, diag.SynExpectKeyword); !ok {
		return nil, false
	}
	if t.Elem, ok = p.parseType(); !ok {
		return nil, false
	}
	t.Span = p.spanFrom(start)
	return t, true
}

func (p *Parser) parseMathArrayType(start uint32, arrayTok token.Token) (ast.Type, bool) {
	t := &ast.MathArrayType{Array: arrayTok, Lbrack: p.advance()}
	for {
		d, ok := p.parseMathDim()
		if !ok {
			return nil, false
		}
		t.Dims = append(t.Dims, d)
		comma, more := p.accept(token.Comma)
		if !more {
			break
		}
		t.Commas = append(t.Commas, comma)
	}
	var ok bool
	if t.Rbrack, ok = p.expect(token.RBracket, diag.SynUnclosedBracket); !ok {
		return nil, false
	}
	if t.Of, ok = p.expect(token.KwOf, diag.SynExpectKeyword); !ok {
		return nil, false
	}
	if t.Elem, ok = p.parseType(); !ok {
		return nil, false
	}
	t.Span = p.spanFrom(start)
	return t, true
}

// parseMathDim reads '*' (open), '?' (any rank) or a length expression.
func (p *Parser) parseMathDim() (*ast.MathDim, bool) {
	if p.atOr(token.Times, token.Question) {
		tok := p.advance()
		return &ast.MathDim{Base: ast.Base{Span: tok.Span}, Wildcard: tok}, true
	}
	n, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	return &ast.MathDim{Base: ast.Base{Span: n.NodeSpan()}, Len: n}, true
}

// optBaseType reads ['(' qualident ')'].
func (p *Parser) optBaseType() (lparen token.Token, base *ast.QualIdent, rparen token.Token, ok bool) {
	lparen, has := p.accept(token.LParen)
	if !has {
		return lparen, nil, rparen, true
	}
	if base, ok = p.parseQualIdent(); !ok {
		return lparen, nil, rparen, false
	}
	rparen, ok = p.expect(token.RParen, diag.SynUnclosedParen)
	return lparen, base, rparen, ok
}

// parseRecordType reads RECORD [flags] ['(' base ')'] fields END. The
// semicolon after the last field may be omitted.
func (p *Parser) parseRecordType() (ast.Type, bool) {
	start := p.mark()
	t := &ast.RecordType{Record: p.advance()}
	var ok bool
	if t.Flags, ok = p.optFlags(); !ok {
		return nil, false
	}
	if t.Lparen, t.BaseType, t.Rparen, ok = p.optBaseType(); !ok {
		return nil, false
	}
	for p.at(token.Ident) {
		f, ok := p.parseVarDecl(false)
		if !ok {
			return nil, false
		}
		t.Fields = append(t.Fields, f)
		if !f.Semi.IsValid() {
			break
		}
	}
	if t.End, ok = p.expectEnd(); !ok {
		return nil, false
	}
	t.Span = p.spanFrom(start)
	return t, true
}

func (p *Parser) parsePointerType() (ast.Type, bool) {
	start := p.mark()
	t := &ast.PointerType{Pointer: p.advance()}
	var ok bool
	if t.Flags, ok = p.optFlags(); !ok {
		return nil, false
	}
	if t.To, ok = p.expect(token.KwTo, diag.SynExpectKeyword); !ok {
		return nil, false
	}
	if t.Target, ok = p.parseType(); !ok {
		return nil, false
	}
	t.Span = p.spanFrom(start)
	return t, true
}

func (p *Parser) parseProcType() (ast.Type, bool) {
	start := p.mark()
	t := &ast.ProcType{Procedure: p.advance()}
	var ok bool
	if t.Flags, ok = p.optFlags(); !ok {
		return nil, false
	}
	if p.at(token.LParen) {
		if t.Params, ok = p.parseFormalParams(); !ok {
			return nil, false
		}
	}
	t.Span = p.spanFrom(start)
	return t, true
}

// parseObjectType reads OBJECT [flags] ['(' base ')'] DeclSeq [Body] END [ident].
// A bare OBJECT followed by ';' or ')' is the generic object type.
func (p *Parser) parseObjectType() (ast.Type, bool) {
	start := p.mark()
	objTok := p.advance()
	if p.atOr(token.Semicolon, token.RParen) {
		return &ast.KeywordType{Base: ast.Base{Span: objTok.Span}, Tok: objTok}, true
	}
	t := &ast.ObjectType{Object: objTok}
	var ok bool
	if t.Flags, ok = p.optFlags(); !ok {
		return nil, false
	}
	if t.Lparen, t.BaseType, t.Rparen, ok = p.optBaseType(); !ok {
		return nil, false
	}
	if t.Decls, ok = p.parseDeclSeq(); !ok {
		return nil, false
	}
	if t.Body, ok = p.optBody(); !ok {
		return nil, false
	}
	if t.End, ok = p.expectEnd(); !ok {
		return nil, false
	}
	if p.at(token.Ident) {
		t.EndName, _ = p.parseIdent()
	}
	t.Span = p.spanFrom(start)
	return t, true
}

// parseEnumType reads ENUM ['(' base ')'] elem {',' elem} END.
func (p *Parser) parseEnumType() (ast.Type, bool) {
	start := p.mark()
	t := &ast.EnumType{Enum: p.advance()}
	var ok bool
	if t.Lparen, t.BaseType, t.Rparen, ok = p.optBaseType(); !ok {
		return nil, false
	}
	for {
		estart := p.mark()
		e := &ast.EnumElem{}
		if e.Name, ok = p.parseIdentDef(); !ok {
			return nil, false
		}
		if eq, has := p.accept(token.Equal); has {
			e.Eq = eq
			if e.Value, ok = p.parseExpr(); !ok {
				return nil, false
			}
		}
		e.Span = p.spanFrom(estart)
		t.Elems = append(t.Elems, e)
		comma, more := p.accept(token.Comma)
		if !more {
			break
		}
		t.Commas = append(t.Commas, comma)
	}
	if t.End, ok = p.expectEnd(); !ok {
		return nil, false
	}
	t.Span = p.spanFrom(start)
	return t, true
}

// parseCellType reads (CELL | CELLNET) [flags] ['(' port {';' port} ')'] [';']
// [ImportList] DeclSeq [Body] END [ident].
func (p *Parser) parseCellType() (ast.Type, bool) {
	start := p.mark()
	t := &ast.CellType{Keyword: p.advance()}
	var ok bool
	if t.Flags, ok = p.optFlags(); !ok {
		return nil, false
	}
	if lparen, has := p.accept(token.LParen); has {
		t.Lparen = lparen
		if !p.at(token.RParen) {
			for {
				port, ok := p.parsePortDecl()
				if !ok {
					return nil, false
				}
				t.Ports = append(t.Ports, port)
				semi, more := p.accept(token.Semicolon)
				if !more {
					break
				}
				t.Semis = append(t.Semis, semi)
			}
		}
		if t.Rparen, ok = p.expect(token.RParen, diag.SynUnclosedParen); !ok {
			return nil, false
		}
	}
	t.Semi, _ = p.accept(token.Semicolon)
	if p.at(token.KwImport) {
		if t.Imports, ok = p.parseImportList(); !ok {
			return nil, false
		}
	}
	if t.Decls, ok = p.parseDeclSeq(); !ok {
		return nil, false
	}
	if t.Body, ok = p.optBody(); !ok {
		return nil, false
	}
	if t.End, ok = p.expectEnd(); !ok {
		return nil, false
	}
	if p.at(token.Ident) {
		t.EndName, _ = p.parseIdent()
	}
	t.Span = p.spanFrom(start)
	return t, true
}

// parsePortDecl reads name [flags] {',' name [flags]} ':' type.
func (p *Parser) parsePortDecl() (*ast.PortDecl, bool) {
	start := p.mark()
	d := &ast.PortDecl{}
	var ok bool
	if d.Names, d.Commas, ok = p.parseVarNames(); !ok {
		return nil, false
	}
	if d.Colon, ok = p.expect(token.Colon, diag.SynExpectColon); !ok {
		return nil, false
	}
	if d.Type, ok = p.parseType(); !ok {
		return nil, false
	}
	d.Span = p.spanFrom(start)
	return d, true
}

// parsePortType reads PORT (IN | OUT) ['(' width ')'].
func (p *Parser) parsePortType() (ast.Type, bool) {
	start := p.mark()
	t := &ast.PortType{Port: p.advance()}
	if !p.atOr(token.KwIn, token.KwOut) {
		return nil, p.unexpected(diag.SynExpectKeyword, "IN or OUT")
	}
	t.Dir = p.advance()
	if lparen, has := p.accept(token.LParen); has {
		t.Lparen = lparen
		var ok bool
		if t.Width, ok = p.parseExpr(); !ok {
			return nil, false
		}
		if t.Rparen, ok = p.expect(token.RParen, diag.SynUnclosedParen); !ok {
			return nil, false
		}
	}
	t.Span = p.spanFrom(start)
	return t, true
}
