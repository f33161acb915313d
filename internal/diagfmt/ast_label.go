package diagfmt

import (
	"fmt"
	"strings"

	"aoc/internal/ast"
)

// labeler fills the one-line description of a node. It only looks at the
// node itself; children are walked by the callers.
type labeler struct{}

// describe returns "<Type>" or "<Type> <detail>".
func describe(n ast.Node) string {
	var detail string
	ast.Dispatch[*string](labeler{}, n, &detail)
	if detail == "" {
		return ast.NodeTypeName(n)
	}
	return ast.NodeTypeName(n) + " " + detail
}

func identName(id *ast.Ident) string {
	if id == nil {
		return "_"
	}
	return id.Name
}

func defName(d *ast.IdentDef) string {
	if d == nil {
		return "_"
	}
	return identName(d.Name) + d.Export.String()
}

func count(n int, what string) string {
	if n == 1 {
		return "1 " + what
	}
	return fmt.Sprintf("%d %ss", n, what)
}

func exprListLen(l *ast.ExprList) int {
	if l == nil {
		return 0
	}
	return len(l.List)
}

func (labeler) VisitIdent(n *ast.Ident, out *string)       { *out = n.Name }
func (labeler) VisitBasicLit(n *ast.BasicLit, out *string) { *out = n.Kind.String() + " " + n.Tok.Text }
func (labeler) VisitConstLit(n *ast.ConstLit, out *string) { *out = n.Tok.Kind.String() }

func (labeler) VisitAddressExpr(n *ast.AddressExpr, out *string) {
	if n.X != nil {
		*out = "OF"
	}
}

func (labeler) VisitSizeExpr(n *ast.SizeExpr, out *string) {
	if n.X != nil {
		*out = "OF"
	}
}

func (labeler) VisitAliasExpr(*ast.AliasExpr, *string)       {}
func (labeler) VisitNewExpr(n *ast.NewExpr, out *string)     { *out = n.Type.String() }
func (labeler) VisitParenExpr(*ast.ParenExpr, *string)       {}
func (labeler) VisitArrayExpr(n *ast.ArrayExpr, out *string) { *out = count(exprListLen(n.Elems), "elem") }
func (labeler) VisitSetExpr(n *ast.SetExpr, out *string)     { *out = count(exprListLen(n.Elems), "elem") }
func (labeler) VisitExprList(n *ast.ExprList, out *string)   { *out = count(len(n.List), "expr") }
func (labeler) VisitIndexList(n *ast.IndexList, out *string) { *out = n.Shape.String() }
func (labeler) VisitUnaryExpr(n *ast.UnaryExpr, out *string) { *out = n.Op.String() }

func (labeler) VisitBinaryExpr(n *ast.BinaryExpr, out *string) { *out = n.Op.String() }

func (labeler) VisitRangeExpr(n *ast.RangeExpr, out *string) {
	if n.IsOpen() {
		*out = "*"
		return
	}
	*out = ".."
	if n.Step != nil {
		*out += " BY"
	}
}

func (labeler) VisitDesignator(n *ast.Designator, out *string) {
	*out = count(len(n.Selectors), "selector")
}

func (labeler) VisitCallSelector(n *ast.CallSelector, out *string) {
	*out = count(exprListLen(n.Args), "arg")
}

func (labeler) VisitDotSelector(n *ast.DotSelector, out *string)             { *out = "." + identName(n.Name) }
func (labeler) VisitIndexSelector(*ast.IndexSelector, *string)               {}
func (labeler) VisitArrowSelector(_ *ast.ArrowSelector, out *string)         { *out = "^" }
func (labeler) VisitTransposeSelector(_ *ast.TransposeSelector, out *string) { *out = "`" }
func (labeler) VisitFlagSet(n *ast.FlagSet, out *string)                     { *out = count(len(n.Flags), "flag") }
func (labeler) VisitFlag(n *ast.Flag, out *string)                           { *out = identName(n.Name) }

// statements

func (labeler) VisitStmtSeq(n *ast.StmtSeq, out *string) { *out = count(len(n.List), "stmt") }
func (labeler) VisitBlockStmt(*ast.BlockStmt, *string)   {}

func (labeler) VisitIfStmt(n *ast.IfStmt, out *string) {
	*out = count(len(n.Elsifs), "elsif")
	if n.ElseBody != nil {
		*out += " +else"
	}
}

func (labeler) VisitElsifClause(*ast.ElsifClause, *string)     {}
func (labeler) VisitWithStmt(n *ast.WithStmt, out *string)     { *out = identName(n.Var) }
func (labeler) VisitWithArm(n *ast.WithArm, out *string)       { *out = n.Type.String() }
func (labeler) VisitCaseStmt(n *ast.CaseStmt, out *string)     { *out = count(len(n.Arms), "arm") }
func (labeler) VisitCaseArm(n *ast.CaseArm, out *string)       { *out = count(len(n.Labels), "label") }
func (labeler) VisitWhileStmt(*ast.WhileStmt, *string)         {}
func (labeler) VisitRepeatStmt(*ast.RepeatStmt, *string)       {}
func (labeler) VisitForStmt(n *ast.ForStmt, out *string)       { *out = identName(n.Var) }
func (labeler) VisitLoopStmt(*ast.LoopStmt, *string)           {}
func (labeler) VisitExitStmt(*ast.ExitStmt, *string)           {}
func (labeler) VisitReturnStmt(*ast.ReturnStmt, *string)       {}
func (labeler) VisitAwaitStmt(*ast.AwaitStmt, *string)         {}
func (labeler) VisitIgnoreStmt(*ast.IgnoreStmt, *string)       {}
func (labeler) VisitCodeStmt(*ast.CodeStmt, *string)           {}
func (labeler) VisitAssignStmt(n *ast.AssignStmt, out *string) { *out = n.Op.String() }
func (labeler) VisitExprStmt(*ast.ExprStmt, *string)           {}

func (labeler) VisitCodeBlock(n *ast.CodeBlock, out *string) {
	if n.Asm == nil {
		return
	}
	*out = fmt.Sprintf("%s %s, %d bytes", n.Asm.Arch, count(len(n.Asm.Lines), "line"), len(n.Asm.Code))
}

// declarations

func (labeler) VisitQualIdent(n *ast.QualIdent, out *string) { *out = n.String() }
func (labeler) VisitIdentDef(n *ast.IdentDef, out *string)   { *out = defName(n) }

func (labeler) VisitModule(n *ast.Module, out *string) {
	*out = identName(n.Name)
	if n.Context != nil {
		*out += " IN " + n.Context.Name
	}
}

func (labeler) VisitTemplateParams(n *ast.TemplateParams, out *string) {
	*out = count(len(n.Params), "param")
}

func (labeler) VisitTemplateParam(n *ast.TemplateParam, out *string) {
	*out = n.Kind.Kind.String() + " " + identName(n.Name)
}

func (labeler) VisitImportList(n *ast.ImportList, out *string) { *out = count(len(n.Imports), "import") }

func (labeler) VisitImport(n *ast.Import, out *string) {
	*out = identName(n.Name)
	if n.Alias != nil {
		*out = n.Alias.Name + " := " + *out
	}
	if n.Context != nil {
		*out += " IN " + n.Context.Name
	}
}

func (labeler) VisitDeclSeq(n *ast.DeclSeq, out *string) {
	var parts []string
	add := func(k int, what string) {
		if k > 0 {
			parts = append(parts, count(k, what))
		}
	}
	add(len(n.Consts), "const")
	add(len(n.Types), "type")
	add(len(n.Vars), "var")
	add(len(n.Procedures), "procedure")
	add(len(n.Operators), "operator")
	*out = strings.Join(parts, ", ")
}

func (labeler) VisitDeclSection(n *ast.DeclSection, out *string) { *out = n.Keyword.Kind.String() }
func (labeler) VisitConstDecl(n *ast.ConstDecl, out *string)     { *out = defName(n.Name) }
func (labeler) VisitTypeDecl(n *ast.TypeDecl, out *string)       { *out = defName(n.Name) }

func (labeler) VisitVarDecl(n *ast.VarDecl, out *string) {
	names := make([]string, len(n.Names))
	for i, v := range n.Names {
		names[i] = defName(v.Name)
	}
	*out = strings.Join(names, ", ")
}

func (labeler) VisitVarName(n *ast.VarName, out *string) {
	*out = defName(n.Name)
	if n.Extern.IsValid() {
		*out += " EXTERN " + n.ExternName.Text
	}
}

func (labeler) VisitProcDecl(n *ast.ProcDecl, out *string) {
	*out = defName(n.Name)
	if n.Marker.IsValid() {
		*out = n.Marker.Kind.String() + " " + *out
	}
	if n.Extern.IsValid() {
		*out += " EXTERN"
	}
}

func (labeler) VisitOperatorDecl(n *ast.OperatorDecl, out *string) {
	*out = n.Name.Text + n.Export.String()
}

func (labeler) VisitFormalParams(n *ast.FormalParams, out *string) {
	*out = count(len(n.Sections), "section")
	if n.Result != nil {
		*out += " +result"
	}
}

func (labeler) VisitParamSection(n *ast.ParamSection, out *string) {
	if n.Mode.IsValid() {
		*out = n.Mode.Kind.String()
	}
}

func (labeler) VisitParamName(n *ast.ParamName, out *string) { *out = identName(n.Name) }

func (labeler) VisitBody(n *ast.Body, out *string) {
	switch {
	case n.Code != nil:
		*out = "CODE"
	case n.FinallyBody != nil:
		*out = "FINALLY"
	}
}

// types

func (labeler) VisitNamedType(n *ast.NamedType, out *string)     { *out = n.Name.String() }
func (labeler) VisitKeywordType(n *ast.KeywordType, out *string) { *out = n.Tok.Kind.String() }

func (labeler) VisitArrayType(n *ast.ArrayType, out *string) {
	if len(n.Lens) == 0 {
		*out = "open"
		return
	}
	*out = count(len(n.Lens), "dim")
}

func (labeler) VisitMathArrayType(n *ast.MathArrayType, out *string) {
	*out = count(len(n.Dims), "dim")
}

func (labeler) VisitMathDim(n *ast.MathDim, out *string) {
	if n.Wildcard.IsValid() {
		*out = n.Wildcard.Kind.String()
	}
}

func (labeler) VisitRecordType(n *ast.RecordType, out *string) { *out = count(len(n.Fields), "field") }
func (labeler) VisitPointerType(*ast.PointerType, *string)     {}
func (labeler) VisitProcType(*ast.ProcType, *string)           {}

func (labeler) VisitObjectType(n *ast.ObjectType, out *string) {
	if n.EndName != nil {
		*out = n.EndName.Name
	}
}

func (labeler) VisitEnumType(n *ast.EnumType, out *string) { *out = count(len(n.Elems), "elem") }
func (labeler) VisitEnumElem(n *ast.EnumElem, out *string) { *out = defName(n.Name) }

func (labeler) VisitCellType(n *ast.CellType, out *string) {
	*out = n.Keyword.Kind.String()
	if n.EndName != nil {
		*out += " " + n.EndName.Name
	}
}

func (labeler) VisitPortDecl(n *ast.PortDecl, out *string) { *out = count(len(n.Names), "port") }
func (labeler) VisitPortType(n *ast.PortType, out *string) { *out = n.Dir.Kind.String() }
