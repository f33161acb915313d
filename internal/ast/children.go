package ast

import (
	"fmt"
	"reflect"
)

type collector []Node

// add appends n unless it is a nil interface or a typed nil pointer.
func (c *collector) add(ns ...Node) {
	for _, n := range ns {
		if n == nil {
			continue
		}
		if v := reflect.ValueOf(n); v.Kind() == reflect.Pointer && v.IsNil() {
			continue
		}
		*c = append(*c, n)
	}
}

func addAll[T Node](c *collector, list []T) {
	for _, n := range list {
		c.add(n)
	}
}

// Children returns the direct children of n in source order. It panics on a
// node type that does not belong to this package.
func Children(n Node) []Node {
	var c collector
	switch n := n.(type) {
	case *Ident, *BasicLit, *ConstLit, *ArrowSelector, *TransposeSelector,
		*ExitStmt, *KeywordType, *CodeBlock:
		// листья
	case *AddressExpr:
		c.add(n.X)
	case *SizeExpr:
		c.add(n.X)
	case *AliasExpr:
		c.add(n.X)
	case *NewExpr:
		c.add(n.Type, n.Args)
	case *ParenExpr:
		c.add(n.X)
	case *ArrayExpr:
		c.add(n.Elems)
	case *SetExpr:
		c.add(n.Elems)
	case *ExprList:
		addAll(&c, n.List)
	case *IndexList:
		c.add(n.Head, n.Tail)
	case *UnaryExpr:
		c.add(n.X)
	case *BinaryExpr:
		c.add(n.X, n.Y)
	case *RangeExpr:
		c.add(n.Lower, n.Upper, n.Step)
	case *Designator:
		c.add(n.X)
		addAll(&c, n.Selectors)
		c.add(n.Flags)
	case *CallSelector:
		c.add(n.Args)
	case *DotSelector:
		c.add(n.Name)
	case *IndexSelector:
		c.add(n.Index)
	case *FlagSet:
		addAll(&c, n.Flags)
	case *Flag:
		c.add(n.Name, n.Value)

	case *StmtSeq:
		addAll(&c, n.List)
	case *BlockStmt:
		c.add(n.Flags, n.Body)
	case *IfStmt:
		c.add(n.Cond, n.Body)
		addAll(&c, n.Elsifs)
		c.add(n.ElseBody)
	case *ElsifClause:
		c.add(n.Cond, n.Body)
	case *WithStmt:
		c.add(n.Var)
		addAll(&c, n.Arms)
		c.add(n.ElseBody)
	case *WithArm:
		c.add(n.Type, n.Body)
	case *CaseStmt:
		c.add(n.X)
		addAll(&c, n.Arms)
		c.add(n.ElseBody)
	case *CaseArm:
		addAll(&c, n.Labels)
		c.add(n.Body)
	case *WhileStmt:
		c.add(n.Cond, n.Body)
	case *RepeatStmt:
		c.add(n.Body, n.Cond)
	case *ForStmt:
		c.add(n.Var, n.From, n.Limit, n.Step, n.Body)
	case *LoopStmt:
		c.add(n.Body)
	case *ReturnStmt:
		c.add(n.X)
	case *AwaitStmt:
		c.add(n.X)
	case *IgnoreStmt:
		c.add(n.X)
	case *CodeStmt:
		c.add(n.Block)
	case *AssignStmt:
		c.add(n.Lhs, n.Rhs)
	case *ExprStmt:
		c.add(n.X)

	case *QualIdent:
		c.add(n.Module, n.Name)
	case *IdentDef:
		c.add(n.Name)
	case *Module:
		c.add(n.Params, n.Name, n.Context, n.Imports, n.Decls, n.Body, n.EndName)
	case *TemplateParams:
		addAll(&c, n.Params)
	case *TemplateParam:
		c.add(n.Name)
	case *ImportList:
		addAll(&c, n.Imports)
	case *Import:
		c.add(n.Alias, n.Name, n.Args, n.Context)
	case *DeclSeq:
		addAll(&c, n.Sections)
	case *DeclSection:
		addAll(&c, n.Decls)
	case *ConstDecl:
		c.add(n.Name, n.Value)
	case *TypeDecl:
		c.add(n.Name, n.Type)
	case *VarDecl:
		addAll(&c, n.Names)
		c.add(n.Type)
	case *VarName:
		c.add(n.Name, n.Flags, n.Init)
	case *ProcDecl:
		c.add(n.Flags, n.Name, n.Params, n.Decls, n.Body, n.EndName)
	case *OperatorDecl:
		c.add(n.Flags, n.Params, n.Decls, n.Body)
	case *FormalParams:
		addAll(&c, n.Sections)
		c.add(n.ResultFlags, n.Result)
	case *ParamSection:
		addAll(&c, n.Names)
		c.add(n.Type)
	case *ParamName:
		c.add(n.Name, n.Flags, n.Default)
	case *Body:
		c.add(n.Flags, n.Stmts, n.FinallyBody, n.Code)

	case *NamedType:
		c.add(n.Name)
	case *ArrayType:
		c.add(n.Flags)
		addAll(&c, n.Lens)
		c.add(n.Elem)
	case *MathArrayType:
		addAll(&c, n.Dims)
		c.add(n.Elem)
	case *MathDim:
		c.add(n.Len)
	case *RecordType:
		c.add(n.Flags, n.BaseType)
		addAll(&c, n.Fields)
	case *PointerType:
		c.add(n.Flags, n.Target)
	case *ProcType:
		c.add(n.Flags, n.Params)
	case *ObjectType:
		c.add(n.Flags, n.BaseType, n.Decls, n.Body, n.EndName)
	case *EnumType:
		c.add(n.BaseType)
		addAll(&c, n.Elems)
	case *EnumElem:
		c.add(n.Name, n.Value)
	case *CellType:
		c.add(n.Flags)
		addAll(&c, n.Ports)
		c.add(n.Imports, n.Decls, n.Body, n.EndName)
	case *PortDecl:
		addAll(&c, n.Names)
		c.add(n.Type)
	case *PortType:
		c.add(n.Width)
	default:
		panic(fmt.Sprintf("ast: unexpected node type %T", n))
	}
	return c
}

// Inspect traverses the tree rooted at n in depth-first source order. If f
// returns false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, child := range Children(n) {
		Inspect(child, f)
	}
}
