package ast

import (
	"strings"
	"testing"

	"aoc/internal/source"
	"aoc/internal/token"
)

// recorder visits every node and logs its type name with the nesting depth.
type recorder struct {
	lines []string
}

func (r *recorder) visit(n Node, depth int) {
	r.lines = append(r.lines, strings.Repeat(" ", depth)+NodeTypeName(n))
	WalkChildren[int](r, n, depth+1)
}

func (r *recorder) VisitIdent(n *Ident, depth int)                         { r.visit(n, depth) }
func (r *recorder) VisitBasicLit(n *BasicLit, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitConstLit(n *ConstLit, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitAddressExpr(n *AddressExpr, depth int)             { r.visit(n, depth) }
func (r *recorder) VisitSizeExpr(n *SizeExpr, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitAliasExpr(n *AliasExpr, depth int)                 { r.visit(n, depth) }
func (r *recorder) VisitNewExpr(n *NewExpr, depth int)                     { r.visit(n, depth) }
func (r *recorder) VisitParenExpr(n *ParenExpr, depth int)                 { r.visit(n, depth) }
func (r *recorder) VisitArrayExpr(n *ArrayExpr, depth int)                 { r.visit(n, depth) }
func (r *recorder) VisitSetExpr(n *SetExpr, depth int)                     { r.visit(n, depth) }
func (r *recorder) VisitExprList(n *ExprList, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitIndexList(n *IndexList, depth int)                 { r.visit(n, depth) }
func (r *recorder) VisitUnaryExpr(n *UnaryExpr, depth int)                 { r.visit(n, depth) }
func (r *recorder) VisitBinaryExpr(n *BinaryExpr, depth int)               { r.visit(n, depth) }
func (r *recorder) VisitRangeExpr(n *RangeExpr, depth int)                 { r.visit(n, depth) }
func (r *recorder) VisitDesignator(n *Designator, depth int)               { r.visit(n, depth) }
func (r *recorder) VisitCallSelector(n *CallSelector, depth int)           { r.visit(n, depth) }
func (r *recorder) VisitDotSelector(n *DotSelector, depth int)             { r.visit(n, depth) }
func (r *recorder) VisitIndexSelector(n *IndexSelector, depth int)         { r.visit(n, depth) }
func (r *recorder) VisitArrowSelector(n *ArrowSelector, depth int)         { r.visit(n, depth) }
func (r *recorder) VisitTransposeSelector(n *TransposeSelector, depth int) { r.visit(n, depth) }
func (r *recorder) VisitFlagSet(n *FlagSet, depth int)                     { r.visit(n, depth) }
func (r *recorder) VisitFlag(n *Flag, depth int)                           { r.visit(n, depth) }
func (r *recorder) VisitStmtSeq(n *StmtSeq, depth int)                     { r.visit(n, depth) }
func (r *recorder) VisitBlockStmt(n *BlockStmt, depth int)                 { r.visit(n, depth) }
func (r *recorder) VisitIfStmt(n *IfStmt, depth int)                       { r.visit(n, depth) }
func (r *recorder) VisitElsifClause(n *ElsifClause, depth int)             { r.visit(n, depth) }
func (r *recorder) VisitWithStmt(n *WithStmt, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitWithArm(n *WithArm, depth int)                     { r.visit(n, depth) }
func (r *recorder) VisitCaseStmt(n *CaseStmt, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitCaseArm(n *CaseArm, depth int)                     { r.visit(n, depth) }
func (r *recorder) VisitWhileStmt(n *WhileStmt, depth int)                 { r.visit(n, depth) }
func (r *recorder) VisitRepeatStmt(n *RepeatStmt, depth int)               { r.visit(n, depth) }
func (r *recorder) VisitForStmt(n *ForStmt, depth int)                     { r.visit(n, depth) }
func (r *recorder) VisitLoopStmt(n *LoopStmt, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitExitStmt(n *ExitStmt, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitReturnStmt(n *ReturnStmt, depth int)               { r.visit(n, depth) }
func (r *recorder) VisitAwaitStmt(n *AwaitStmt, depth int)                 { r.visit(n, depth) }
func (r *recorder) VisitIgnoreStmt(n *IgnoreStmt, depth int)               { r.visit(n, depth) }
func (r *recorder) VisitCodeBlock(n *CodeBlock, depth int)                 { r.visit(n, depth) }
func (r *recorder) VisitCodeStmt(n *CodeStmt, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitAssignStmt(n *AssignStmt, depth int)               { r.visit(n, depth) }
func (r *recorder) VisitExprStmt(n *ExprStmt, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitQualIdent(n *QualIdent, depth int)                 { r.visit(n, depth) }
func (r *recorder) VisitIdentDef(n *IdentDef, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitModule(n *Module, depth int)                       { r.visit(n, depth) }
func (r *recorder) VisitTemplateParams(n *TemplateParams, depth int)       { r.visit(n, depth) }
func (r *recorder) VisitTemplateParam(n *TemplateParam, depth int)         { r.visit(n, depth) }
func (r *recorder) VisitImportList(n *ImportList, depth int)               { r.visit(n, depth) }
func (r *recorder) VisitImport(n *Import, depth int)                       { r.visit(n, depth) }
func (r *recorder) VisitDeclSeq(n *DeclSeq, depth int)                     { r.visit(n, depth) }
func (r *recorder) VisitDeclSection(n *DeclSection, depth int)             { r.visit(n, depth) }
func (r *recorder) VisitConstDecl(n *ConstDecl, depth int)                 { r.visit(n, depth) }
func (r *recorder) VisitTypeDecl(n *TypeDecl, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitVarDecl(n *VarDecl, depth int)                     { r.visit(n, depth) }
func (r *recorder) VisitVarName(n *VarName, depth int)                     { r.visit(n, depth) }
func (r *recorder) VisitProcDecl(n *ProcDecl, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitOperatorDecl(n *OperatorDecl, depth int)           { r.visit(n, depth) }
func (r *recorder) VisitFormalParams(n *FormalParams, depth int)           { r.visit(n, depth) }
func (r *recorder) VisitParamSection(n *ParamSection, depth int)           { r.visit(n, depth) }
func (r *recorder) VisitParamName(n *ParamName, depth int)                 { r.visit(n, depth) }
func (r *recorder) VisitBody(n *Body, depth int)                           { r.visit(n, depth) }
func (r *recorder) VisitNamedType(n *NamedType, depth int)                 { r.visit(n, depth) }
func (r *recorder) VisitKeywordType(n *KeywordType, depth int)             { r.visit(n, depth) }
func (r *recorder) VisitArrayType(n *ArrayType, depth int)                 { r.visit(n, depth) }
func (r *recorder) VisitMathArrayType(n *MathArrayType, depth int)         { r.visit(n, depth) }
func (r *recorder) VisitMathDim(n *MathDim, depth int)                     { r.visit(n, depth) }
func (r *recorder) VisitRecordType(n *RecordType, depth int)               { r.visit(n, depth) }
func (r *recorder) VisitPointerType(n *PointerType, depth int)             { r.visit(n, depth) }
func (r *recorder) VisitProcType(n *ProcType, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitObjectType(n *ObjectType, depth int)               { r.visit(n, depth) }
func (r *recorder) VisitEnumType(n *EnumType, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitEnumElem(n *EnumElem, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitCellType(n *CellType, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitPortDecl(n *PortDecl, depth int)                   { r.visit(n, depth) }
func (r *recorder) VisitPortType(n *PortType, depth int)                   { r.visit(n, depth) }

func sp(start, end uint32) source.Span { return source.Span{File: 1, Start: start, End: end} }

func tok(kind token.Kind, text string, start uint32) token.Token {
	return token.Token{Kind: kind, Text: text, Span: sp(start, start+uint32(len(text)))}
}

func ident(name string, start uint32) *Ident {
	t := tok(token.Ident, name, start)
	return &Ident{Base: Base{Span: t.Span}, Tok: t, Name: name}
}

func intLit(text string, start uint32) *BasicLit {
	t := tok(token.Integer, text, start)
	return &BasicLit{Base: Base{Span: t.Span}, Kind: LitInteger, Tok: t}
}

// a + b * 2
func sampleExpr() *BinaryExpr {
	a, b, two := ident("a", 0), ident("b", 4), intLit("2", 8)
	mul := &BinaryExpr{Base: Base{Span: sp(4, 9)}, Op: BinTimes, OpTok: tok(token.Times, "*", 6), X: b, Y: two}
	return &BinaryExpr{Base: Base{Span: sp(0, 9)}, Op: BinPlus, OpTok: tok(token.Plus, "+", 2), X: a, Y: mul}
}

func TestWalkChildrenVisitsInSourceOrder(t *testing.T) {
	r := &recorder{}
	Dispatch[int](r, sampleExpr(), 0)
	got := strings.Join(r.lines, "|")
	want := "BinaryExpr| Ident| BinaryExpr|  Ident|  BasicLit"
	if got != want {
		t.Fatalf("visit order:\n got %q\nwant %q", got, want)
	}
}

func TestChildrenSkipsAbsentOptionals(t *testing.T) {
	r := &RangeExpr{Base: Base{Span: sp(0, 7)}, OpTok: tok(token.Upto, "..", 0), By: tok(token.KwBy, "BY", 3), Step: intLit("2", 6)}
	kids := Children(r)
	if len(kids) != 1 {
		t.Fatalf("expected only the step child, got %d", len(kids))
	}
	if kids[0] != Node(r.Step) {
		t.Fatalf("unexpected child %T", kids[0])
	}

	var missing *FlagSet
	d := &Designator{Base: Base{Span: sp(0, 2)}, X: ident("p", 0), Selectors: []Selector{&ArrowSelector{Base: Base{Span: sp(1, 2)}, Tok: tok(token.Arrow, "^", 1)}}, Flags: missing}
	if got := len(Children(d)); got != 2 {
		t.Fatalf("typed nil flags must be skipped, got %d children", got)
	}
}

func TestChildrenPanicsOnForeignNode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Children(foreign{})
}

type foreign struct{}

func (foreign) NodeSpan() source.Span { return source.Span{} }

func TestInspectPrune(t *testing.T) {
	var seen []string
	Inspect(sampleExpr(), func(n Node) bool {
		seen = append(seen, NodeTypeName(n))
		_, isBin := n.(*BinaryExpr)
		return !isBin || len(seen) == 1
	})
	if got := strings.Join(seen, ","); got != "BinaryExpr,Ident,BinaryExpr" {
		t.Fatalf("inspect = %s", got)
	}
}

func TestLiteralValues(t *testing.T) {
	cases := []struct {
		kind LitKind
		text string
		want uint64
	}{
		{LitInteger, "1000", 1000},
		{LitInteger, "7FH", 0x7F},
		{LitInteger, "0ffh", 0xFF},
		{LitCharacter, "41X", 0x41},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			l := &BasicLit{Kind: tc.kind, Tok: token.Token{Text: tc.text}}
			got, err := l.IntValue()
			if err != nil {
				t.Fatalf("IntValue: %v", err)
			}
			if got != tc.want {
				t.Fatalf("IntValue = %#x, want %#x", got, tc.want)
			}
		})
	}

	r := &BasicLit{Kind: LitReal, Tok: token.Token{Text: "1.5D2"}}
	if v, err := r.RealValue(); err != nil || v != 150 {
		t.Fatalf("RealValue = %v, %v", v, err)
	}
	c := &BasicLit{Kind: LitCharacter, Tok: token.Token{Text: "0DX"}}
	if v, err := c.CharValue(); err != nil || v != '\r' {
		t.Fatalf("CharValue = %q, %v", v, err)
	}
	s := &BasicLit{Kind: LitString, Tok: token.Token{Text: "'abc'"}}
	if s.StringValue() != "abc" {
		t.Fatalf("StringValue = %q", s.StringValue())
	}
	if _, err := s.IntValue(); err == nil {
		t.Fatalf("string literal must not decode as integer")
	}
}

func TestQualIdentString(t *testing.T) {
	q := &QualIdent{Module: ident("Out", 0), Dot: tok(token.Period, ".", 3), Name: ident("String", 4)}
	if q.String() != "Out.String" {
		t.Fatalf("got %q", q.String())
	}
	q.Module = nil
	if q.String() != "String" {
		t.Fatalf("got %q", q.String())
	}
}

func TestBinaryOpClassification(t *testing.T) {
	if BinPlus.IsRelation() || BinTimesTimes.IsRelation() {
		t.Fatalf("arithmetic operator reported as relation")
	}
	if !BinEqual.IsRelation() || !BinGreaterGreaterQ.IsRelation() {
		t.Fatalf("relation not reported")
	}
	if BinExclaimMarks.String() != "ExclaimMarks" {
		t.Fatalf("name = %s", BinExclaimMarks)
	}
}
