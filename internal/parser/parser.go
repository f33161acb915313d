// Package parser is the recursive-descent parser of Active Oberon.
//
// The parser works with one token of lookahead (lexer.Peek) and stops at the
// first error. Every node it builds carries the span from its leftmost to its
// rightmost token; structural tokens are stored on the owning node.
package parser

import (
	"slices"

	"aoc/internal/ast"
	"aoc/internal/diag"
	"aoc/internal/isa"
	"aoc/internal/lexer"
	"aoc/internal/source"
	"aoc/internal/token"
	"aoc/internal/trace"
)

type Options struct {
	Reporter    diag.Reporter // может быть nil
	Arch        isa.Arch      // архитектура для CODE блоков
	CPU         isa.Flags     // базовый набор возможностей; 0: isa.Baseline(Arch)
	Tracer      trace.Tracer  // nil: без трассировки
	TraceParent uint64        // родительский span, 0: корень
}

// Parser: состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	file     *source.File
	opts     Options
	err      *diag.Error // первая синтаксическая ошибка
	lastSpan source.Span // span последнего съеденного токена
	span     *trace.Span
}

func newParser(file *source.File, opts Options) *Parser {
	return &Parser{
		lx:       lexer.New(file, lexer.Options{Reporter: opts.Reporter}),
		file:     file,
		opts:     opts,
		lastSpan: source.At(file.ID, 0),
	}
}

// ParseModule parses a whole translation unit. The returned error is a
// *diag.Error whose message ends with position: '<offset>'.
func ParseModule(file *source.File, opts Options) (*ast.Module, error) {
	p := newParser(file, opts)
	p.span = trace.Begin(opts.Tracer, trace.ScopeModule, "parse:"+file.Path, opts.TraceParent)
	m, ok := p.parseModule()
	if err := p.result(ok); err != nil {
		p.span.End("error")
		return nil, err
	}
	p.span.End("")
	return m, nil
}

// ParseExpression parses file content as a single expression.
func ParseExpression(file *source.File, opts Options) (ast.Expr, error) {
	p := newParser(file, opts)
	x, ok := p.parseExpr()
	ok = ok && p.expectEOF()
	if err := p.result(ok); err != nil {
		return nil, err
	}
	return x, nil
}

// ParseStatement parses file content as a single statement.
func ParseStatement(file *source.File, opts Options) (ast.Stmt, error) {
	p := newParser(file, opts)
	s, ok := p.parseStmt()
	ok = ok && p.expectEOF()
	if err := p.result(ok); err != nil {
		return nil, err
	}
	return s, nil
}

// result picks the error to surface: the earliest of the first lexical and
// the first syntax error.
func (p *Parser) result(ok bool) error {
	lexErr := p.lx.Err()
	switch {
	case lexErr != nil && (p.err == nil || lexErr.Span.Start <= p.err.Span.Start):
		return lexErr
	case p.err != nil:
		return p.err
	case !ok:
		// не должно случаться: любой false сопровождается p.fail
		return diag.Errorf(diag.SynUnexpectedToken, p.lastSpan, "syntax error")
	}
	return nil
}

func (p *Parser) expectEOF() bool {
	if p.at(token.EOF) {
		return true
	}
	return p.unexpected(diag.SynUnexpectedToken, "end of input")
}

func (p *Parser) peek() token.Token {
	return p.lx.Peek()
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// accept consumes the next token if it has kind k.
func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// expect: ожидаем конкретный токен, иначе фиксируем ошибку.
func (p *Parser) expect(k token.Kind, code diag.Code) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, p.unexpected(code, "'"+k.String()+"'")
}

// unexpected fails at the lookahead token with "expected <what>, got <tok>".
func (p *Parser) unexpected(code diag.Code, what string) bool {
	tok := p.peek()
	return p.fail(code, tok.Span, "expected %s, got %s", what, describe(tok))
}

// fail records the first error and forwards it to the reporter. It always
// returns false so callers can write `return nil, p.fail(...)`.
func (p *Parser) fail(code diag.Code, sp source.Span, format string, args ...any) bool {
	return p.failWith(diag.Errorf(code, sp, format, args...))
}

func (p *Parser) failWith(e *diag.Error) bool {
	if p.err == nil {
		p.err = e
		e.Report(p.opts.Reporter)
	}
	return false
}

// mark returns the start offset of the lookahead token.
func (p *Parser) mark() uint32 {
	return p.lx.Peek().Span.Start
}

// spanFrom returns the span from start to the end of the last consumed
// token. When nothing was consumed since start the node is empty and sits
// right after the previous token, so it stays inside its parent.
func (p *Parser) spanFrom(start uint32) source.Span {
	end := p.lastSpan.End
	if end < start {
		return source.At(p.file.ID, end)
	}
	return source.Span{File: p.file.ID, Start: start, End: end}
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.Integer, token.Real, token.Character, token.String, token.Invalid:
		return "'" + tok.Text + "'"
	}
	return "'" + tok.Kind.String() + "'"
}

// parseIdent: ожидает Ident.
func (p *Parser) parseIdent() (*ast.Ident, bool) {
	if !p.at(token.Ident) {
		return nil, p.unexpected(diag.SynExpectIdentifier, "identifier")
	}
	tok := p.advance()
	return &ast.Ident{Base: ast.Base{Span: tok.Span}, Tok: tok, Name: tok.Text}, true
}

// parseQualIdent reads ident ['.' ident].
func (p *Parser) parseQualIdent() (*ast.QualIdent, bool) {
	start := p.mark()
	first, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	q := &ast.QualIdent{Name: first}
	if dot, ok := p.accept(token.Period); ok {
		name, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		q.Module, q.Dot, q.Name = first, dot, name
	}
	q.Span = p.spanFrom(start)
	return q, true
}

// parseIdentDef reads ident ['*' | '-'].
func (p *Parser) parseIdentDef() (*ast.IdentDef, bool) {
	start := p.mark()
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	d := &ast.IdentDef{Name: name}
	switch {
	case p.at(token.Times):
		d.Export, d.Mark = ast.ExportReadWrite, p.advance()
	case p.at(token.Minus):
		d.Export, d.Mark = ast.ExportRead, p.advance()
	}
	d.Span = p.spanFrom(start)
	return d, true
}

// parseFlagSet reads '{' [flag {',' flag}] '}'.
func (p *Parser) parseFlagSet() (*ast.FlagSet, bool) {
	start := p.mark()
	fs := &ast.FlagSet{}
	var ok bool
	if fs.Lbrace, ok = p.expect(token.LBrace, diag.SynUnexpectedToken); !ok {
		return nil, false
	}
	if !p.at(token.RBrace) {
		for {
			f, ok := p.parseFlag()
			if !ok {
				return nil, false
			}
			fs.Flags = append(fs.Flags, f)
			comma, more := p.accept(token.Comma)
			if !more {
				break
			}
			fs.Commas = append(fs.Commas, comma)
		}
	}
	if fs.Rbrace, ok = p.expect(token.RBrace, diag.SynUnclosedBrace); !ok {
		return nil, false
	}
	fs.Span = p.spanFrom(start)
	return fs, true
}

// parseFlag reads ident ['(' expression ')' | '=' expression].
func (p *Parser) parseFlag() (*ast.Flag, bool) {
	start := p.mark()
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	f := &ast.Flag{Name: name}
	switch {
	case p.at(token.LParen):
		f.Open = p.advance()
		if f.Value, ok = p.parseExpr(); !ok {
			return nil, false
		}
		if f.Rparen, ok = p.expect(token.RParen, diag.SynUnclosedParen); !ok {
			return nil, false
		}
	case p.at(token.Equal):
		f.Open = p.advance()
		if f.Value, ok = p.parseExpr(); !ok {
			return nil, false
		}
	}
	f.Span = p.spanFrom(start)
	return f, true
}

// optFlags parses a flag-set when the lookahead is '{'.
func (p *Parser) optFlags() (*ast.FlagSet, bool) {
	if !p.at(token.LBrace) {
		return nil, true
	}
	return p.parseFlagSet()
}
