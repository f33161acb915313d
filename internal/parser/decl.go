package parser

import (
	"aoc/internal/ast"
	"aoc/internal/diag"
	"aoc/internal/token"
	"aoc/internal/trace"
)

// parseDeclSeq collects CONST, TYPE and VAR sections and PROCEDURE and
// OPERATOR declarations in any order.
func (p *Parser) parseDeclSeq() (*ast.DeclSeq, bool) {
	start := p.mark()
	ds := &ast.DeclSeq{}
	for {
		switch p.peek().Kind {
		case token.KwConst, token.KwType, token.KwVar:
			sec, ok := p.parseDeclSection(ds)
			if !ok {
				return nil, false
			}
			ds.Sections = append(ds.Sections, sec)
		case token.KwProcedure:
			pd, ok := p.parseProcDecl()
			if !ok {
				return nil, false
			}
			ds.Sections = append(ds.Sections, pd)
			ds.Procedures = append(ds.Procedures, pd)
		case token.KwOperator:
			od, ok := p.parseOperatorDecl()
			if !ok {
				return nil, false
			}
			ds.Sections = append(ds.Sections, od)
			ds.Operators = append(ds.Operators, od)
		default:
			ds.Span = p.spanFrom(start)
			return ds, true
		}
	}
}

// parseDeclSection reads the keyword and every declaration that follows it.
// Declarations are also aggregated into ds.
func (p *Parser) parseDeclSection(ds *ast.DeclSeq) (*ast.DeclSection, bool) {
	start := p.mark()
	sec := &ast.DeclSection{Keyword: p.advance()}
	for p.at(token.Ident) {
		switch sec.Keyword.Kind {
		case token.KwConst:
			d, ok := p.parseConstDecl()
			if !ok {
				return nil, false
			}
			sec.Decls = append(sec.Decls, d)
			ds.Consts = append(ds.Consts, d)
		case token.KwType:
			d, ok := p.parseTypeDecl()
			if !ok {
				return nil, false
			}
			sec.Decls = append(sec.Decls, d)
			ds.Types = append(ds.Types, d)
		default:
			d, ok := p.parseVarDecl(true)
			if !ok {
				return nil, false
			}
			sec.Decls = append(sec.Decls, d)
			ds.Vars = append(ds.Vars, d)
		}
	}
	sec.Span = p.spanFrom(start)
	return sec, true
}

// parseConstDecl reads identdef '=' expression ';'.
func (p *Parser) parseConstDecl() (*ast.ConstDecl, bool) {
	start := p.mark()
	d := &ast.ConstDecl{}
	var ok bool
	if d.Name, ok = p.parseIdentDef(); !ok {
		return nil, false
	}
	if d.Eq, ok = p.expect(token.Equal, diag.SynExpectEquals); !ok {
		return nil, false
	}
	if d.Value, ok = p.parseExpr(); !ok {
		return nil, false
	}
	if d.Semi, ok = p.expect(token.Semicolon, diag.SynExpectSemicolon); !ok {
		return nil, false
	}
	d.Span = p.spanFrom(start)
	return d, true
}

// parseTypeDecl reads identdef '=' type ';'.
func (p *Parser) parseTypeDecl() (*ast.TypeDecl, bool) {
	start := p.mark()
	d := &ast.TypeDecl{}
	var ok bool
	if d.Name, ok = p.parseIdentDef(); !ok {
		return nil, false
	}
	if d.Eq, ok = p.expect(token.Equal, diag.SynExpectEquals); !ok {
		return nil, false
	}
	if d.Type, ok = p.parseType(); !ok {
		return nil, false
	}
	if end := typeEndName(d.Type); end != nil && end.Name != declName(d.Name) {
		return nil, p.fail(diag.SynMismatchedEndName, end.Span,
			"type %s closed with END %s", declName(d.Name), end.Name)
	}
	if d.Semi, ok = p.expect(token.Semicolon, diag.SynExpectSemicolon); !ok {
		return nil, false
	}
	d.Span = p.spanFrom(start)
	return d, true
}

// typeEndName returns the optional name after END of an OBJECT or CELL
// body, looking through POINTER TO.
func typeEndName(t ast.Type) *ast.Ident {
	switch t := t.(type) {
	case *ast.PointerType:
		return typeEndName(t.Target)
	case *ast.ObjectType:
		return t.EndName
	case *ast.CellType:
		return t.EndName
	}
	return nil
}

func declName(d *ast.IdentDef) string {
	if d == nil || d.Name == nil {
		return ""
	}
	return d.Name.Name
}

// parseVarDecl reads varname {',' varname} ':' type [';']. Record fields
// pass needSemi=false: the semicolon after the last field is optional.
func (p *Parser) parseVarDecl(needSemi bool) (*ast.VarDecl, bool) {
	start := p.mark()
	d := &ast.VarDecl{}
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
	if needSemi {
		if d.Semi, ok = p.expect(token.Semicolon, diag.SynExpectSemicolon); !ok {
			return nil, false
		}
	} else {
		d.Semi, _ = p.accept(token.Semicolon)
	}
	d.Span = p.spanFrom(start)
	return d, true
}

func (p *Parser) parseVarNames() ([]*ast.VarName, []token.Token, bool) {
	var names []*ast.VarName
	var commas []token.Token
	for {
		n, ok := p.parseVarName()
		if !ok {
			return nil, nil, false
		}
		names = append(names, n)
		comma, more := p.accept(token.Comma)
		if !more {
			return names, commas, true
		}
		commas = append(commas, comma)
	}
}

// parseVarName reads identdef [flags] [':=' expression | EXTERN string].
func (p *Parser) parseVarName() (*ast.VarName, bool) {
	start := p.mark()
	n := &ast.VarName{}
	var ok bool
	if n.Name, ok = p.parseIdentDef(); !ok {
		return nil, false
	}
	if n.Flags, ok = p.optFlags(); !ok {
		return nil, false
	}
	switch {
	case p.at(token.Becomes):
		n.Becomes = p.advance()
		if n.Init, ok = p.parseExpr(); !ok {
			return nil, false
		}
	case p.at(token.KwExtern):
		n.Extern = p.advance()
		if n.ExternName, ok = p.expect(token.String, diag.SynExpectString); !ok {
			return nil, false
		}
	}
	n.Span = p.spanFrom(start)
	return n, true
}

var procMarkers = []token.Kind{token.Arrow, token.Ampersand, token.Tilde, token.Minus}

// parseProcDecl reads
//
//	PROCEDURE [flags] [marker] identdef [EXTERN string] [params] [EXTERN string] ';'
//	    DeclSeq [Body] END ident ';'
//
// Forward declarations (marker '^') and EXTERN procedures end after the
// heading semicolon.
func (p *Parser) parseProcDecl() (*ast.ProcDecl, bool) {
	start := p.mark()
	d := &ast.ProcDecl{Procedure: p.advance()}
	var ok bool
	if d.Flags, ok = p.optFlags(); !ok {
		return nil, false
	}
	if p.atOr(procMarkers...) {
		d.Marker = p.advance()
	}
	if d.Name, ok = p.parseIdentDef(); !ok {
		return nil, false
	}
	sp := trace.Begin(p.opts.Tracer, trace.ScopeNode, "procedure:"+d.Name.Name.Name, p.span.ID())
	defer sp.End("")

	if ok = p.optExtern(d); !ok {
		return nil, false
	}
	if p.at(token.LParen) {
		if d.Params, ok = p.parseFormalParams(); !ok {
			return nil, false
		}
	}
	if !d.Extern.IsValid() {
		if ok = p.optExtern(d); !ok {
			return nil, false
		}
	}
	if d.Semi, ok = p.expect(token.Semicolon, diag.SynExpectSemicolon); !ok {
		return nil, false
	}
	if d.Marker.Kind == token.Arrow || d.Extern.IsValid() {
		d.Span = p.spanFrom(start)
		return d, true
	}
	if d.Decls, ok = p.parseDeclSeq(); !ok {
		return nil, false
	}
	if d.Body, ok = p.optBody(); !ok {
		return nil, false
	}
	if d.End, ok = p.expectEnd(); !ok {
		return nil, false
	}
	if d.EndName, ok = p.parseIdent(); !ok {
		return nil, false
	}
	if d.EndName.Name != d.Name.Name.Name {
		return nil, p.fail(diag.SynMismatchedEndName, d.EndName.Span,
			"procedure %s closed with END %s", d.Name.Name.Name, d.EndName.Name)
	}
	if d.Term, ok = p.expect(token.Semicolon, diag.SynExpectSemicolon); !ok {
		return nil, false
	}
	d.Span = p.spanFrom(start)
	return d, true
}

func (p *Parser) optExtern(d *ast.ProcDecl) bool {
	ext, has := p.accept(token.KwExtern)
	if !has {
		return true
	}
	d.Extern = ext
	var ok bool
	d.ExternName, ok = p.expect(token.String, diag.SynExpectString)
	return ok
}

// parseOperatorDecl reads
//
//	OPERATOR [flags] ['-'] string ['*' | '-'] params ';' DeclSeq [Body] END string ';'
func (p *Parser) parseOperatorDecl() (*ast.OperatorDecl, bool) {
	start := p.mark()
	d := &ast.OperatorDecl{Operator: p.advance()}
	var ok bool
	if d.Flags, ok = p.optFlags(); !ok {
		return nil, false
	}
	d.Inline, _ = p.accept(token.Minus)
	if d.Name, ok = p.expect(token.String, diag.SynExpectString); !ok {
		return nil, false
	}
	switch {
	case p.at(token.Times):
		d.Export, d.Mark = ast.ExportReadWrite, p.advance()
	case p.at(token.Minus):
		d.Export, d.Mark = ast.ExportRead, p.advance()
	}
	if d.Params, ok = p.parseFormalParams(); !ok {
		return nil, false
	}
	if d.Semi, ok = p.expect(token.Semicolon, diag.SynExpectSemicolon); !ok {
		return nil, false
	}
	if d.Decls, ok = p.parseDeclSeq(); !ok {
		return nil, false
	}
	if d.Body, ok = p.optBody(); !ok {
		return nil, false
	}
	if d.End, ok = p.expectEnd(); !ok {
		return nil, false
	}
	if d.EndName, ok = p.expect(token.String, diag.SynExpectString); !ok {
		return nil, false
	}
	if d.Term, ok = p.expect(token.Semicolon, diag.SynExpectSemicolon); !ok {
		return nil, false
	}
	d.Span = p.spanFrom(start)
	return d, true
}

// parseFormalParams reads '(' [section {';' section}] ')' [':' [flags] type].
func (p *Parser) parseFormalParams() (*ast.FormalParams, bool) {
	start := p.mark()
	fp := &ast.FormalParams{}
	var ok bool
	if fp.Lparen, ok = p.expect(token.LParen, diag.SynUnexpectedToken); !ok {
		return nil, false
	}
	if !p.at(token.RParen) {
		for {
			sec, ok := p.parseParamSection()
			if !ok {
				return nil, false
			}
			fp.Sections = append(fp.Sections, sec)
			semi, more := p.accept(token.Semicolon)
			if !more {
				break
			}
			fp.Semis = append(fp.Semis, semi)
		}
	}
	if fp.Rparen, ok = p.expect(token.RParen, diag.SynUnclosedParen); !ok {
		return nil, false
	}
	if colon, has := p.accept(token.Colon); has {
		fp.Colon = colon
		if fp.ResultFlags, ok = p.optFlags(); !ok {
			return nil, false
		}
		if fp.Result, ok = p.parseType(); !ok {
			return nil, false
		}
	}
	fp.Span = p.spanFrom(start)
	return fp, true
}

// parseParamSection reads [VAR | CONST] name {',' name} ':' type.
func (p *Parser) parseParamSection() (*ast.ParamSection, bool) {
	start := p.mark()
	sec := &ast.ParamSection{}
	if p.atOr(token.KwVar, token.KwConst) {
		sec.Mode = p.advance()
	}
	for {
		n, ok := p.parseParamName()
		if !ok {
			return nil, false
		}
		sec.Names = append(sec.Names, n)
		comma, more := p.accept(token.Comma)
		if !more {
			break
		}
		sec.Commas = append(sec.Commas, comma)
	}
	var ok bool
	if sec.Colon, ok = p.expect(token.Colon, diag.SynExpectColon); !ok {
		return nil, false
	}
	if sec.Type, ok = p.parseType(); !ok {
		return nil, false
	}
	sec.Span = p.spanFrom(start)
	return sec, true
}

// parseParamName reads ident [flags] ['=' expression].
func (p *Parser) parseParamName() (*ast.ParamName, bool) {
	start := p.mark()
	n := &ast.ParamName{}
	var ok bool
	if n.Name, ok = p.parseIdent(); !ok {
		return nil, false
	}
	if n.Flags, ok = p.optFlags(); !ok {
		return nil, false
	}
	if eq, has := p.accept(token.Equal); has {
		n.Eq = eq
		if n.Default, ok = p.parseExpr(); !ok {
			return nil, false
		}
	}
	n.Span = p.spanFrom(start)
	return n, true
}

// optBody reads BEGIN [flags] seq [FINALLY seq] or a CODE block when one
// starts at the lookahead.
func (p *Parser) optBody() (*ast.Body, bool) {
	start := p.mark()
	switch p.peek().Kind {
	case token.KwBegin:
		b := &ast.Body{Begin: p.advance()}
		var ok bool
		if b.Flags, ok = p.optFlags(); !ok {
			return nil, false
		}
		if b.Stmts, ok = p.parseStmtSeq(); !ok {
			return nil, false
		}
		if fin, has := p.accept(token.KwFinally); has {
			b.Finally = fin
			if b.FinallyBody, ok = p.parseStmtSeq(); !ok {
				return nil, false
			}
		}
		b.Span = p.spanFrom(start)
		return b, true
	case token.KwCode:
		blk, ok := p.parseCodeBlock()
		if !ok {
			return nil, false
		}
		return &ast.Body{Base: ast.Base{Span: blk.Span}, Code: blk}, true
	}
	return nil, true
}
