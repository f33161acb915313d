package parser

import (
	"aoc/internal/ast"
	"aoc/internal/diag"
	"aoc/internal/token"
)

// parseIf reads IF cond THEN seq {ELSIF cond THEN seq} [ELSE seq] END.
func (p *Parser) parseIf() (ast.Stmt, bool) {
	start := p.mark()
	s := &ast.IfStmt{If: p.advance()}
	var ok bool
	if s.Cond, ok = p.parseExpr(); !ok {
		return nil, false
	}
	if s.Then, ok = p.expect(token.KwThen, diag.SynExpectKeyword); !ok {
		return nil, false
	}
	if s.Body, ok = p.parseStmtSeq(); !ok {
		return nil, false
	}
	for p.at(token.KwElsif) {
		cstart := p.mark()
		c := &ast.ElsifClause{Elsif: p.advance()}
		if c.Cond, ok = p.parseExpr(); !ok {
			return nil, false
		}
		if c.Then, ok = p.expect(token.KwThen, diag.SynExpectKeyword); !ok {
			return nil, false
		}
		if c.Body, ok = p.parseStmtSeq(); !ok {
			return nil, false
		}
		c.Span = p.spanFrom(cstart)
		s.Elsifs = append(s.Elsifs, c)
	}
	if s.Else, s.ElseBody, ok = p.optElse(); !ok {
		return nil, false
	}
	if s.End, ok = p.expectEnd(); !ok {
		return nil, false
	}
	s.Span = p.spanFrom(start)
	return s, true
}

// optElse reads [ELSE seq].
func (p *Parser) optElse() (token.Token, *ast.StmtSeq, bool) {
	elseTok, has := p.accept(token.KwElse)
	if !has {
		return token.Token{}, nil, true
	}
	body, ok := p.parseStmtSeq()
	if !ok {
		return token.Token{}, nil, false
	}
	return elseTok, body, true
}

// parseWith reads WITH ident ':' qualident DO seq {'|' qualident DO seq}
// [ELSE seq] END. The first arm has no bar.
func (p *Parser) parseWith() (ast.Stmt, bool) {
	start := p.mark()
	s := &ast.WithStmt{With: p.advance()}
	var ok bool
	if s.Var, ok = p.parseIdent(); !ok {
		return nil, false
	}
	if s.Colon, ok = p.expect(token.Colon, diag.SynExpectColon); !ok {
		return nil, false
	}
	for {
		astart := p.mark()
		arm := &ast.WithArm{}
		if len(s.Arms) > 0 {
			bar, more := p.accept(token.Bar)
			if !more {
				break
			}
			arm.Bar = bar
		}
		if arm.Type, ok = p.parseQualIdent(); !ok {
			return nil, false
		}
		if arm.Do, ok = p.expect(token.KwDo, diag.SynExpectKeyword); !ok {
			return nil, false
		}
		if arm.Body, ok = p.parseStmtSeq(); !ok {
			return nil, false
		}
		arm.Span = p.spanFrom(astart)
		s.Arms = append(s.Arms, arm)
	}
	if s.Else, s.ElseBody, ok = p.optElse(); !ok {
		return nil, false
	}
	if s.End, ok = p.expectEnd(); !ok {
		return nil, false
	}
	s.Span = p.spanFrom(start)
	return s, true
}

// parseCase reads CASE expr OF ['|'] arm {'|' arm} [ELSE seq] END.
func (p *Parser) parseCase() (ast.Stmt, bool) {
	start := p.mark()
	s := &ast.CaseStmt{Case: p.advance()}
	var ok bool
	if s.X, ok = p.parseExpr(); !ok {
		return nil, false
	}
	if s.Of, ok = p.expect(token.KwOf, diag.SynExpectKeyword); !ok {
		return nil, false
	}
	for {
		astart := p.mark()
		arm := &ast.CaseArm{}
		bar, hasBar := p.accept(token.Bar)
		if !hasBar && len(s.Arms) > 0 {
			break
		}
		arm.Bar = bar
		if !hasBar && !startsSimpleExpr(p.peek().Kind) && !p.at(token.Upto) {
			// CASE x OF ELSE ... END без вариантов
			break
		}
		if ok = p.parseCaseLabels(arm); !ok {
			return nil, false
		}
		if arm.Colon, ok = p.expect(token.Colon, diag.SynExpectColon); !ok {
			return nil, false
		}
		if arm.Body, ok = p.parseStmtSeq(); !ok {
			return nil, false
		}
		arm.Span = p.spanFrom(astart)
		s.Arms = append(s.Arms, arm)
	}
	if s.Else, s.ElseBody, ok = p.optElse(); !ok {
		return nil, false
	}
	if s.End, ok = p.expectEnd(); !ok {
		return nil, false
	}
	s.Span = p.spanFrom(start)
	return s, true
}

// parseCaseLabels reads range {',' range}.
func (p *Parser) parseCaseLabels(arm *ast.CaseArm) bool {
	for {
		label, ok := p.parseRange()
		if !ok {
			return false
		}
		arm.Labels = append(arm.Labels, label)
		comma, more := p.accept(token.Comma)
		if !more {
			return true
		}
		arm.Commas = append(arm.Commas, comma)
	}
}

func (p *Parser) parseWhile() (ast.Stmt, bool) {
	start := p.mark()
	s := &ast.WhileStmt{While: p.advance()}
	var ok bool
	if s.Cond, ok = p.parseExpr(); !ok {
		return nil, false
	}
	if s.Do, ok = p.expect(token.KwDo, diag.SynExpectKeyword); !ok {
		return nil, false
	}
	if s.Body, ok = p.parseStmtSeq(); !ok {
		return nil, false
	}
	if s.End, ok = p.expectEnd(); !ok {
		return nil, false
	}
	s.Span = p.spanFrom(start)
	return s, true
}

func (p *Parser) parseRepeat() (ast.Stmt, bool) {
	start := p.mark()
	s := &ast.RepeatStmt{Repeat: p.advance()}
	var ok bool
	if s.Body, ok = p.parseStmtSeq(); !ok {
		return nil, false
	}
	if s.Until, ok = p.expect(token.KwUntil, diag.SynExpectKeyword); !ok {
		return nil, false
	}
	if s.Cond, ok = p.parseExpr(); !ok {
		return nil, false
	}
	s.Span = p.spanFrom(start)
	return s, true
}

// parseFor reads FOR v ':=' from TO limit [BY step] DO seq END.
func (p *Parser) parseFor() (ast.Stmt, bool) {
	start := p.mark()
	s := &ast.ForStmt{For: p.advance()}
	var ok bool
	if s.Var, ok = p.parseIdent(); !ok {
		return nil, false
	}
	if s.Becomes, ok = p.expect(token.Becomes, diag.SynUnexpectedToken); !ok {
		return nil, false
	}
	if s.From, ok = p.parseExpr(); !ok {
		return nil, false
	}
	if s.To, ok = p.expect(token.KwTo, diag.SynExpectKeyword); !ok {
		return nil, false
	}
	if s.Limit, ok = p.parseExpr(); !ok {
		return nil, false
	}
	if by, has := p.accept(token.KwBy); has {
		s.By = by
		if s.Step, ok = p.parseExpr(); !ok {
			return nil, false
		}
	}
	if s.Do, ok = p.expect(token.KwDo, diag.SynExpectKeyword); !ok {
		return nil, false
	}
	if s.Body, ok = p.parseStmtSeq(); !ok {
		return nil, false
	}
	if s.End, ok = p.expectEnd(); !ok {
		return nil, false
	}
	s.Span = p.spanFrom(start)
	return s, true
}

func (p *Parser) parseLoop() (ast.Stmt, bool) {
	start := p.mark()
	s := &ast.LoopStmt{Loop: p.advance()}
	var ok bool
	if s.Body, ok = p.parseStmtSeq(); !ok {
		return nil, false
	}
	if s.End, ok = p.expectEnd(); !ok {
		return nil, false
	}
	s.Span = p.spanFrom(start)
	return s, true
}
