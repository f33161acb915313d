package ast

import "fmt"

// Visitor has one method per node type. A context value of type C is
// threaded through every call. Adding a node type to the package adds a
// method here, so every implementation must handle it before it compiles.
type Visitor[C any] interface {
	// expressions
	VisitIdent(n *Ident, ctx C)
	VisitBasicLit(n *BasicLit, ctx C)
	VisitConstLit(n *ConstLit, ctx C)
	VisitAddressExpr(n *AddressExpr, ctx C)
	VisitSizeExpr(n *SizeExpr, ctx C)
	VisitAliasExpr(n *AliasExpr, ctx C)
	VisitNewExpr(n *NewExpr, ctx C)
	VisitParenExpr(n *ParenExpr, ctx C)
	VisitArrayExpr(n *ArrayExpr, ctx C)
	VisitSetExpr(n *SetExpr, ctx C)
	VisitExprList(n *ExprList, ctx C)
	VisitIndexList(n *IndexList, ctx C)
	VisitUnaryExpr(n *UnaryExpr, ctx C)
	VisitBinaryExpr(n *BinaryExpr, ctx C)
	VisitRangeExpr(n *RangeExpr, ctx C)
	VisitDesignator(n *Designator, ctx C)
	VisitCallSelector(n *CallSelector, ctx C)
	VisitDotSelector(n *DotSelector, ctx C)
	VisitIndexSelector(n *IndexSelector, ctx C)
	VisitArrowSelector(n *ArrowSelector, ctx C)
	VisitTransposeSelector(n *TransposeSelector, ctx C)
	VisitFlagSet(n *FlagSet, ctx C)
	VisitFlag(n *Flag, ctx C)

	// statements
	VisitStmtSeq(n *StmtSeq, ctx C)
	VisitBlockStmt(n *BlockStmt, ctx C)
	VisitIfStmt(n *IfStmt, ctx C)
	VisitElsifClause(n *ElsifClause, ctx C)
	VisitWithStmt(n *WithStmt, ctx C)
	VisitWithArm(n *WithArm, ctx C)
	VisitCaseStmt(n *CaseStmt, ctx C)
	VisitCaseArm(n *CaseArm, ctx C)
	VisitWhileStmt(n *WhileStmt, ctx C)
	VisitRepeatStmt(n *RepeatStmt, ctx C)
	VisitForStmt(n *ForStmt, ctx C)
	VisitLoopStmt(n *LoopStmt, ctx C)
	VisitExitStmt(n *ExitStmt, ctx C)
	VisitReturnStmt(n *ReturnStmt, ctx C)
	VisitAwaitStmt(n *AwaitStmt, ctx C)
	VisitIgnoreStmt(n *IgnoreStmt, ctx C)
	VisitCodeBlock(n *CodeBlock, ctx C)
	VisitCodeStmt(n *CodeStmt, ctx C)
	VisitAssignStmt(n *AssignStmt, ctx C)
	VisitExprStmt(n *ExprStmt, ctx C)

	// declarations and module structure
	VisitQualIdent(n *QualIdent, ctx C)
	VisitIdentDef(n *IdentDef, ctx C)
	VisitModule(n *Module, ctx C)
	VisitTemplateParams(n *TemplateParams, ctx C)
	VisitTemplateParam(n *TemplateParam, ctx C)
	VisitImportList(n *ImportList, ctx C)
	VisitImport(n *Import, ctx C)
	VisitDeclSeq(n *DeclSeq, ctx C)
	VisitDeclSection(n *DeclSection, ctx C)
	VisitConstDecl(n *ConstDecl, ctx C)
	VisitTypeDecl(n *TypeDecl, ctx C)
	VisitVarDecl(n *VarDecl, ctx C)
	VisitVarName(n *VarName, ctx C)
	VisitProcDecl(n *ProcDecl, ctx C)
	VisitOperatorDecl(n *OperatorDecl, ctx C)
	VisitFormalParams(n *FormalParams, ctx C)
	VisitParamSection(n *ParamSection, ctx C)
	VisitParamName(n *ParamName, ctx C)
	VisitBody(n *Body, ctx C)

	// types
	VisitNamedType(n *NamedType, ctx C)
	VisitKeywordType(n *KeywordType, ctx C)
	VisitArrayType(n *ArrayType, ctx C)
	VisitMathArrayType(n *MathArrayType, ctx C)
	VisitMathDim(n *MathDim, ctx C)
	VisitRecordType(n *RecordType, ctx C)
	VisitPointerType(n *PointerType, ctx C)
	VisitProcType(n *ProcType, ctx C)
	VisitObjectType(n *ObjectType, ctx C)
	VisitEnumType(n *EnumType, ctx C)
	VisitEnumElem(n *EnumElem, ctx C)
	VisitCellType(n *CellType, ctx C)
	VisitPortDecl(n *PortDecl, ctx C)
	VisitPortType(n *PortType, ctx C)
}

// Dispatch calls the Visitor method matching the dynamic type of n.
func Dispatch[C any](v Visitor[C], n Node, ctx C) {
	switch n := n.(type) {
	case *Ident:
		v.VisitIdent(n, ctx)
	case *BasicLit:
		v.VisitBasicLit(n, ctx)
	case *ConstLit:
		v.VisitConstLit(n, ctx)
	case *AddressExpr:
		v.VisitAddressExpr(n, ctx)
	case *SizeExpr:
		v.VisitSizeExpr(n, ctx)
	case *AliasExpr:
		v.VisitAliasExpr(n, ctx)
	case *NewExpr:
		v.VisitNewExpr(n, ctx)
	case *ParenExpr:
		v.VisitParenExpr(n, ctx)
	case *ArrayExpr:
		v.VisitArrayExpr(n, ctx)
	case *SetExpr:
		v.VisitSetExpr(n, ctx)
	case *ExprList:
		v.VisitExprList(n, ctx)
	case *IndexList:
		v.VisitIndexList(n, ctx)
	case *UnaryExpr:
		v.VisitUnaryExpr(n, ctx)
	case *BinaryExpr:
		v.VisitBinaryExpr(n, ctx)
	case *RangeExpr:
		v.VisitRangeExpr(n, ctx)
	case *Designator:
		v.VisitDesignator(n, ctx)
	case *CallSelector:
		v.VisitCallSelector(n, ctx)
	case *DotSelector:
		v.VisitDotSelector(n, ctx)
	case *IndexSelector:
		v.VisitIndexSelector(n, ctx)
	case *ArrowSelector:
		v.VisitArrowSelector(n, ctx)
	case *TransposeSelector:
		v.VisitTransposeSelector(n, ctx)
	case *FlagSet:
		v.VisitFlagSet(n, ctx)
	case *Flag:
		v.VisitFlag(n, ctx)
	case *StmtSeq:
		v.VisitStmtSeq(n, ctx)
	case *BlockStmt:
		v.VisitBlockStmt(n, ctx)
	case *IfStmt:
		v.VisitIfStmt(n, ctx)
	case *ElsifClause:
		v.VisitElsifClause(n, ctx)
	case *WithStmt:
		v.VisitWithStmt(n, ctx)
	case *WithArm:
		v.VisitWithArm(n, ctx)
	case *CaseStmt:
		v.VisitCaseStmt(n, ctx)
	case *CaseArm:
		v.VisitCaseArm(n, ctx)
	case *WhileStmt:
		v.VisitWhileStmt(n, ctx)
	case *RepeatStmt:
		v.VisitRepeatStmt(n, ctx)
	case *ForStmt:
		v.VisitForStmt(n, ctx)
	case *LoopStmt:
		v.VisitLoopStmt(n, ctx)
	case *ExitStmt:
		v.VisitExitStmt(n, ctx)
	case *ReturnStmt:
		v.VisitReturnStmt(n, ctx)
	case *AwaitStmt:
		v.VisitAwaitStmt(n, ctx)
	case *IgnoreStmt:
		v.VisitIgnoreStmt(n, ctx)
	case *CodeBlock:
		v.VisitCodeBlock(n, ctx)
	case *CodeStmt:
		v.VisitCodeStmt(n, ctx)
	case *AssignStmt:
		v.VisitAssignStmt(n, ctx)
	case *ExprStmt:
		v.VisitExprStmt(n, ctx)
	case *QualIdent:
		v.VisitQualIdent(n, ctx)
	case *IdentDef:
		v.VisitIdentDef(n, ctx)
	case *Module:
		v.VisitModule(n, ctx)
	case *TemplateParams:
		v.VisitTemplateParams(n, ctx)
	case *TemplateParam:
		v.VisitTemplateParam(n, ctx)
	case *ImportList:
		v.VisitImportList(n, ctx)
	case *Import:
		v.VisitImport(n, ctx)
	case *DeclSeq:
		v.VisitDeclSeq(n, ctx)
	case *DeclSection:
		v.VisitDeclSection(n, ctx)
	case *ConstDecl:
		v.VisitConstDecl(n, ctx)
	case *TypeDecl:
		v.VisitTypeDecl(n, ctx)
	case *VarDecl:
		v.VisitVarDecl(n, ctx)
	case *VarName:
		v.VisitVarName(n, ctx)
	case *ProcDecl:
		v.VisitProcDecl(n, ctx)
	case *OperatorDecl:
		v.VisitOperatorDecl(n, ctx)
	case *FormalParams:
		v.VisitFormalParams(n, ctx)
	case *ParamSection:
		v.VisitParamSection(n, ctx)
	case *ParamName:
		v.VisitParamName(n, ctx)
	case *Body:
		v.VisitBody(n, ctx)
	case *NamedType:
		v.VisitNamedType(n, ctx)
	case *KeywordType:
		v.VisitKeywordType(n, ctx)
	case *ArrayType:
		v.VisitArrayType(n, ctx)
	case *MathArrayType:
		v.VisitMathArrayType(n, ctx)
	case *MathDim:
		v.VisitMathDim(n, ctx)
	case *RecordType:
		v.VisitRecordType(n, ctx)
	case *PointerType:
		v.VisitPointerType(n, ctx)
	case *ProcType:
		v.VisitProcType(n, ctx)
	case *ObjectType:
		v.VisitObjectType(n, ctx)
	case *EnumType:
		v.VisitEnumType(n, ctx)
	case *EnumElem:
		v.VisitEnumElem(n, ctx)
	case *CellType:
		v.VisitCellType(n, ctx)
	case *PortDecl:
		v.VisitPortDecl(n, ctx)
	case *PortType:
		v.VisitPortType(n, ctx)
	default:
		panic(fmt.Sprintf("ast: unexpected node type %T", n))
	}
}

// WalkChildren dispatches every direct child of n in source order. Visitor
// methods call it to continue the traversal below the current node.
func WalkChildren[C any](v Visitor[C], n Node, ctx C) {
	for _, child := range Children(n) {
		Dispatch(v, child, ctx)
	}
}

// NodeTypeName returns the short type name of n, e.g. "IfStmt".
func NodeTypeName(n Node) string {
	switch n.(type) {
	case *Ident:
		return "Ident"
	case *BasicLit:
		return "BasicLit"
	case *ConstLit:
		return "ConstLit"
	case *AddressExpr:
		return "AddressExpr"
	case *SizeExpr:
		return "SizeExpr"
	case *AliasExpr:
		return "AliasExpr"
	case *NewExpr:
		return "NewExpr"
	case *ParenExpr:
		return "ParenExpr"
	case *ArrayExpr:
		return "ArrayExpr"
	case *SetExpr:
		return "SetExpr"
	case *ExprList:
		return "ExprList"
	case *IndexList:
		return "IndexList"
	case *UnaryExpr:
		return "UnaryExpr"
	case *BinaryExpr:
		return "BinaryExpr"
	case *RangeExpr:
		return "RangeExpr"
	case *Designator:
		return "Designator"
	case *CallSelector:
		return "CallSelector"
	case *DotSelector:
		return "DotSelector"
	case *IndexSelector:
		return "IndexSelector"
	case *ArrowSelector:
		return "ArrowSelector"
	case *TransposeSelector:
		return "TransposeSelector"
	case *FlagSet:
		return "FlagSet"
	case *Flag:
		return "Flag"
	case *StmtSeq:
		return "StmtSeq"
	case *BlockStmt:
		return "BlockStmt"
	case *IfStmt:
		return "IfStmt"
	case *ElsifClause:
		return "ElsifClause"
	case *WithStmt:
		return "WithStmt"
	case *WithArm:
		return "WithArm"
	case *CaseStmt:
		return "CaseStmt"
	case *CaseArm:
		return "CaseArm"
	case *WhileStmt:
		return "WhileStmt"
	case *RepeatStmt:
		return "RepeatStmt"
	case *ForStmt:
		return "ForStmt"
	case *LoopStmt:
		return "LoopStmt"
	case *ExitStmt:
		return "ExitStmt"
	case *ReturnStmt:
		return "ReturnStmt"
	case *AwaitStmt:
		return "AwaitStmt"
	case *IgnoreStmt:
		return "IgnoreStmt"
	case *CodeBlock:
		return "CodeBlock"
	case *CodeStmt:
		return "CodeStmt"
	case *AssignStmt:
		return "AssignStmt"
	case *ExprStmt:
		return "ExprStmt"
	case *QualIdent:
		return "QualIdent"
	case *IdentDef:
		return "IdentDef"
	case *Module:
		return "Module"
	case *TemplateParams:
		return "TemplateParams"
	case *TemplateParam:
		return "TemplateParam"
	case *ImportList:
		return "ImportList"
	case *Import:
		return "Import"
	case *DeclSeq:
		return "DeclSeq"
	case *DeclSection:
		return "DeclSection"
	case *ConstDecl:
		return "ConstDecl"
	case *TypeDecl:
		return "TypeDecl"
	case *VarDecl:
		return "VarDecl"
	case *VarName:
		return "VarName"
	case *ProcDecl:
		return "ProcDecl"
	case *OperatorDecl:
		return "OperatorDecl"
	case *FormalParams:
		return "FormalParams"
	case *ParamSection:
		return "ParamSection"
	case *ParamName:
		return "ParamName"
	case *Body:
		return "Body"
	case *NamedType:
		return "NamedType"
	case *KeywordType:
		return "KeywordType"
	case *ArrayType:
		return "ArrayType"
	case *MathArrayType:
		return "MathArrayType"
	case *MathDim:
		return "MathDim"
	case *RecordType:
		return "RecordType"
	case *PointerType:
		return "PointerType"
	case *ProcType:
		return "ProcType"
	case *ObjectType:
		return "ObjectType"
	case *EnumType:
		return "EnumType"
	case *EnumElem:
		return "EnumElem"
	case *CellType:
		return "CellType"
	case *PortDecl:
		return "PortDecl"
	case *PortType:
		return "PortType"
	}
	return fmt.Sprintf("%T", n)
}
