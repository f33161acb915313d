package parser

import (
	"aoc/internal/asm"
	"aoc/internal/ast"
	"aoc/internal/diag"
	"aoc/internal/token"
)

var assignOps = map[token.Kind]ast.AssignOp{
	token.Becomes:        ast.AssignBecomes,
	token.Exclaim:        ast.AssignSend,
	token.Question:       ast.AssignReceive,
	token.LessLess:       ast.AssignLessLess,
	token.GreaterGreater: ast.AssignGreaterGreater,
}

// startsStatement reports whether k can begin a non-empty statement.
func startsStatement(k token.Kind) bool {
	switch k {
	case token.KwIf, token.KwWith, token.KwCase, token.KwWhile, token.KwRepeat, token.KwFor,
		token.KwLoop, token.KwExit, token.KwReturn, token.KwAwait, token.KwIgnore,
		token.KwBegin, token.KwCode:
		return true
	}
	return startsSimpleExpr(k)
}

// parseStmtSeq collects statements separated by ';'. Empty statements are
// allowed; only their separators are recorded.
func (p *Parser) parseStmtSeq() (*ast.StmtSeq, bool) {
	start := p.mark()
	seq := &ast.StmtSeq{}
	for {
		if startsStatement(p.peek().Kind) {
			s, ok := p.parseStmt()
			if !ok {
				return nil, false
			}
			seq.List = append(seq.List, s)
		}
		semi, more := p.accept(token.Semicolon)
		if !more {
			break
		}
		seq.Semis = append(seq.Semis, semi)
	}
	seq.Span = p.spanFrom(start)
	return seq, true
}

func (p *Parser) parseStmt() (ast.Stmt, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.KwIf:
		return p.parseIf()
	case token.KwWith:
		return p.parseWith()
	case token.KwCase:
		return p.parseCase()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwRepeat:
		return p.parseRepeat()
	case token.KwFor:
		return p.parseFor()
	case token.KwLoop:
		return p.parseLoop()
	case token.KwExit:
		p.advance()
		return &ast.ExitStmt{Base: ast.Base{Span: tok.Span}, Exit: tok}, true
	case token.KwReturn:
		p.advance()
		s := &ast.ReturnStmt{Return: tok}
		if startsSimpleExpr(p.peek().Kind) {
			var ok bool
			if s.X, ok = p.parseExpr(); !ok {
				return nil, false
			}
		}
		s.Span = p.spanFrom(tok.Span.Start)
		return s, true
	case token.KwAwait:
		p.advance()
		x, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		return &ast.AwaitStmt{Base: ast.Base{Span: tok.Span.Cover(x.NodeSpan())}, Await: tok, X: x}, true
	case token.KwIgnore:
		p.advance()
		x, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		return &ast.IgnoreStmt{Base: ast.Base{Span: tok.Span.Cover(x.NodeSpan())}, Ignore: tok, X: x}, true
	case token.KwBegin:
		return p.parseBlockStmt()
	case token.KwCode:
		return p.parseCodeStmt()
	}
	if !startsSimpleExpr(tok.Kind) {
		return nil, p.unexpected(diag.SynExpectStatement, "statement")
	}
	return p.parseAssignOrCall()
}

// parseAssignOrCall reads expression [assignop expression].
func (p *Parser) parseAssignOrCall() (ast.Stmt, bool) {
	lhs, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	op, isAssign := assignOps[p.peek().Kind]
	if !isAssign {
		return &ast.ExprStmt{Base: ast.Base{Span: lhs.NodeSpan()}, X: lhs}, true
	}
	opTok := p.advance()
	rhs, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	return &ast.AssignStmt{
		Base:  ast.Base{Span: lhs.NodeSpan().Cover(rhs.NodeSpan())},
		Lhs:   lhs,
		Op:    op,
		OpTok: opTok,
		Rhs:   rhs,
	}, true
}

// parseBlockStmt reads BEGIN [flags] seq END.
func (p *Parser) parseBlockStmt() (ast.Stmt, bool) {
	start := p.mark()
	b := &ast.BlockStmt{Begin: p.advance()}
	var ok bool
	if b.Flags, ok = p.optFlags(); !ok {
		return nil, false
	}
	if b.Body, ok = p.parseStmtSeq(); !ok {
		return nil, false
	}
	if b.End, ok = p.expectEnd(); !ok {
		return nil, false
	}
	b.Span = p.spanFrom(start)
	return b, true
}

func (p *Parser) parseCodeStmt() (ast.Stmt, bool) {
	blk, ok := p.parseCodeBlock()
	if !ok {
		return nil, false
	}
	s := &ast.CodeStmt{Block: blk}
	if s.End, ok = p.expectEnd(); !ok {
		return nil, false
	}
	s.Span = blk.Span.Cover(s.End.Span)
	return s, true
}

// parseCodeBlock consumes CODE, captures the raw text up to the matching END
// and assembles it. END itself is left to the caller.
func (p *Parser) parseCodeBlock() (*ast.CodeBlock, bool) {
	code := p.advance()
	text, ok := p.lx.CaptureRaw()
	if !ok {
		// лексер уже зафиксировал и отправил SynUnterminatedCode
		if p.err == nil {
			p.err = p.lx.Err()
		}
		return nil, false
	}
	blk, err := asm.Assemble(p.file.Slice(text), text.Start, asm.Options{
		Arch: p.opts.Arch,
		CPU:  p.opts.CPU,
		File: p.file.ID,
	})
	if err != nil {
		if de, isDiag := diag.AsError(err); isDiag {
			return nil, p.failWith(de)
		}
		return nil, p.fail(diag.AsmBadOperand, text, "%v", err)
	}
	p.lastSpan = text
	return &ast.CodeBlock{
		Base: ast.Base{Span: code.Span.Cover(text)},
		Code: code,
		Text: text,
		Asm:  blk,
	}, true
}

func (p *Parser) expectEnd() (token.Token, bool) {
	return p.expect(token.KwEnd, diag.SynExpectEnd)
}
