package ast

import (
	"aoc/internal/token"
)

// NamedType refers to a type by (qualified) name.
type NamedType struct {
	Base
	Name *QualIdent
}

// KeywordType is a type spelled by a reserved word: ANY, ADDRESS, SIZE, or a
// bare OBJECT.
type KeywordType struct {
	Base
	Tok token.Token
}

// ArrayType is ARRAY [flags] [len {',' len}] OF elem. No lengths means an
// open array.
type ArrayType struct {
	Base
	Array  token.Token
	Flags  *FlagSet
	Lens   []Expr
	Commas []token.Token
	Of     token.Token
	Elem   Type
}

// MathArrayType is ARRAY '[' dim {',' dim} ']' OF elem.
type MathArrayType struct {
	Base
	Array  token.Token
	Lbrack token.Token
	Dims   []*MathDim
	Commas []token.Token
	Rbrack token.Token
	Of     token.Token
	Elem   Type
}

// MathDim is a math-array dimension: a length expression, '*' (open) or
// '?' (any rank). Exactly one of Len and Wildcard is set.
type MathDim struct {
	Base
	Wildcard token.Token
	Len      Expr
}

// RecordType is RECORD [flags] ['(' base ')'] fields END.
type RecordType struct {
	Base
	Record   token.Token
	Flags    *FlagSet
	Lparen   token.Token
	BaseType *QualIdent
	Rparen   token.Token
	Fields   []*VarDecl
	End      token.Token
}

// PointerType is POINTER [flags] TO type.
type PointerType struct {
	Base
	Pointer token.Token
	Flags   *FlagSet
	To      token.Token
	Target  Type
}

// ProcType is PROCEDURE [flags] [params].
type ProcType struct {
	Base
	Procedure token.Token
	Flags     *FlagSet
	Params    *FormalParams
}

// ObjectType is OBJECT [flags] ['(' base ')'] DeclSeq [Body] END [name].
type ObjectType struct {
	Base
	Object   token.Token
	Flags    *FlagSet
	Lparen   token.Token
	BaseType *QualIdent
	Rparen   token.Token
	Decls    *DeclSeq
	Body     *Body
	End      token.Token
	EndName  *Ident
}

// EnumType is ENUM ['(' base ')'] elem {',' elem} END.
type EnumType struct {
	Base
	Enum     token.Token
	Lparen   token.Token
	BaseType *QualIdent
	Rparen   token.Token
	Elems    []*EnumElem
	Commas   []token.Token
	End      token.Token
}

// EnumElem is identdef ['=' value].
type EnumElem struct {
	Base
	Name  *IdentDef
	Eq    token.Token
	Value Expr
}

// CellType is (CELL | CELLNET) [flags] ['(' ports ')'] [';'] [ImportList]
// DeclSeq [Body] END [name].
type CellType struct {
	Base
	Keyword token.Token
	Flags   *FlagSet
	Lparen  token.Token
	Ports   []*PortDecl
	Semis   []token.Token
	Rparen  token.Token
	Semi    token.Token
	Imports *ImportList
	Decls   *DeclSeq
	Body    *Body
	End     token.Token
	EndName *Ident
}

// IsNet reports whether the cell was declared with CELLNET.
func (c *CellType) IsNet() bool { return c.Keyword.Kind == token.KwCellnet }

// PortDecl is identdef [flags] {',' identdef [flags]} ':' port_type.
type PortDecl struct {
	Base
	Names  []*VarName
	Commas []token.Token
	Colon  token.Token
	Type   Type
}

// PortType is PORT (IN | OUT) ['(' width ')'].
type PortType struct {
	Base
	Port   token.Token
	Dir    token.Token
	Lparen token.Token
	Width  Expr
	Rparen token.Token
}

func (*NamedType) typeNode()     {}
func (*KeywordType) typeNode()   {}
func (*ArrayType) typeNode()     {}
func (*MathArrayType) typeNode() {}
func (*RecordType) typeNode()    {}
func (*PointerType) typeNode()   {}
func (*ProcType) typeNode()      {}
func (*ObjectType) typeNode()    {}
func (*EnumType) typeNode()      {}
func (*CellType) typeNode()      {}
func (*PortType) typeNode()      {}
