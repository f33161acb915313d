package parser

import (
	"aoc/internal/ast"
	"aoc/internal/diag"
	"aoc/internal/token"
)

// parseModule reads
//
//	MODULE [TemplateParams] ident [IN ident] ';' [ImportList] DeclSeq [Body] END ident '.'
//
// Anything after the final period is ignored.
func (p *Parser) parseModule() (*ast.Module, bool) {
	start := p.mark()
	m := &ast.Module{}
	var ok bool
	if m.ModuleTok, ok = p.expect(token.KwModule, diag.SynUnexpectedTopLevel); !ok {
		return nil, false
	}
	if p.at(token.LParen) {
		if m.Params, ok = p.parseTemplateParams(); !ok {
			return nil, false
		}
	}
	if m.Name, ok = p.parseIdent(); !ok {
		return nil, false
	}
	if in, has := p.accept(token.KwIn); has {
		m.In = in
		if m.Context, ok = p.parseIdent(); !ok {
			return nil, false
		}
	}
	if m.Semi, ok = p.expect(token.Semicolon, diag.SynExpectSemicolon); !ok {
		return nil, false
	}
	if p.at(token.KwImport) {
		if m.Imports, ok = p.parseImportList(); !ok {
			return nil, false
		}
	}
	if m.Decls, ok = p.parseDeclSeq(); !ok {
		return nil, false
	}
	if m.Body, ok = p.optBody(); !ok {
		return nil, false
	}
	if m.End, ok = p.expectEnd(); !ok {
		return nil, false
	}
	if m.EndName, ok = p.parseIdent(); !ok {
		return nil, false
	}
	if m.EndName.Name != m.Name.Name {
		return nil, p.fail(diag.SynMismatchedEndName, m.EndName.Span,
			"module %s closed with END %s", m.Name.Name, m.EndName.Name)
	}
	if m.Dot, ok = p.expect(token.Period, diag.SynUnexpectedToken); !ok {
		return nil, false
	}
	m.Span = p.spanFrom(start)
	return m, true
}

// parseTemplateParams reads '(' (CONST | TYPE) ident {',' (CONST | TYPE) ident} ')'.
func (p *Parser) parseTemplateParams() (*ast.TemplateParams, bool) {
	start := p.mark()
	tp := &ast.TemplateParams{Lparen: p.advance()}
	for {
		pstart := p.mark()
		if !p.atOr(token.KwConst, token.KwType) {
			return nil, p.unexpected(diag.SynExpectKeyword, "CONST or TYPE")
		}
		param := &ast.TemplateParam{Kind: p.advance()}
		var ok bool
		if param.Name, ok = p.parseIdent(); !ok {
			return nil, false
		}
		param.Span = p.spanFrom(pstart)
		tp.Params = append(tp.Params, param)
		comma, more := p.accept(token.Comma)
		if !more {
			break
		}
		tp.Commas = append(tp.Commas, comma)
	}
	var ok bool
	if tp.Rparen, ok = p.expect(token.RParen, diag.SynUnclosedParen); !ok {
		return nil, false
	}
	tp.Span = p.spanFrom(start)
	return tp, true
}

// parseImportList reads IMPORT import {',' import} ';'.
func (p *Parser) parseImportList() (*ast.ImportList, bool) {
	start := p.mark()
	il := &ast.ImportList{Import: p.advance()}
	for {
		imp, ok := p.parseImport()
		if !ok {
			return nil, false
		}
		il.Imports = append(il.Imports, imp)
		comma, more := p.accept(token.Comma)
		if !more {
			break
		}
		il.Commas = append(il.Commas, comma)
	}
	var ok bool
	if il.Semi, ok = p.expect(token.Semicolon, diag.SynExpectSemicolon); !ok {
		return nil, false
	}
	il.Span = p.spanFrom(start)
	return il, true
}

// parseImport reads [alias ':='] ident ['(' args ')'] [IN ident].
func (p *Parser) parseImport() (*ast.Import, bool) {
	start := p.mark()
	imp := &ast.Import{}
	first, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	imp.Name = first
	// первый идентификатор оказался алиасом
	if becomes, has := p.accept(token.Becomes); has {
		imp.Alias, imp.Becomes = first, becomes
		if imp.Name, ok = p.parseIdent(); !ok {
			return nil, false
		}
	}
	if lparen, has := p.accept(token.LParen); has {
		imp.Lparen = lparen
		if !p.at(token.RParen) {
			if imp.Args, ok = p.parseExprList(); !ok {
				return nil, false
			}
		}
		if imp.Rparen, ok = p.expect(token.RParen, diag.SynUnclosedParen); !ok {
			return nil, false
		}
	}
	if in, has := p.accept(token.KwIn); has {
		imp.In = in
		if imp.Context, ok = p.parseIdent(); !ok {
			return nil, false
		}
	}
	imp.Span = p.spanFrom(start)
	return imp, true
}
