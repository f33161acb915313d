package ast

import (
	"aoc/internal/token"
)

// QualIdent is ident ['.' ident]. Module is nil for an unqualified name.
type QualIdent struct {
	Base
	Module *Ident
	Dot    token.Token
	Name   *Ident
}

// String renders the qualified name as written.
func (q *QualIdent) String() string {
	if q.Module != nil {
		return q.Module.Name + "." + q.Name.Name
	}
	return q.Name.Name
}

// ExportMark is the visibility suffix of a defining identifier.
type ExportMark uint8

const (
	NotExported     ExportMark = iota
	ExportReadWrite            // *
	ExportRead                 // -
)

func (m ExportMark) String() string {
	switch m {
	case ExportReadWrite:
		return "*"
	case ExportRead:
		return "-"
	}
	return ""
}

// IdentDef is a defining occurrence: ident ['*' | '-'].
type IdentDef struct {
	Base
	Name   *Ident
	Export ExportMark
	Mark   token.Token
}

// Module is the root of a translation unit:
//
//	MODULE [TemplateParams] Name [IN Context] ';' [ImportList] DeclSeq [Body] END EndName '.'
type Module struct {
	Base
	ModuleTok token.Token
	Params    *TemplateParams
	Name      *Ident
	In        token.Token
	Context   *Ident
	Semi      token.Token
	Imports   *ImportList
	Decls     *DeclSeq
	Body      *Body
	End       token.Token
	EndName   *Ident
	Dot       token.Token
}

// TemplateParams is '(' param {',' param} ')'.
type TemplateParams struct {
	Base
	Lparen token.Token
	Params []*TemplateParam
	Commas []token.Token
	Rparen token.Token
}

// TemplateParam is (CONST | TYPE) ident.
type TemplateParam struct {
	Base
	Kind token.Token
	Name *Ident
}

// ImportList is IMPORT import {',' import} ';'.
type ImportList struct {
	Base
	Import  token.Token
	Imports []*Import
	Commas  []token.Token
	Semi    token.Token
}

// Import is [alias ':='] name ['(' args ')'] [IN context].
type Import struct {
	Base
	Alias   *Ident
	Becomes token.Token
	Name    *Ident
	Lparen  token.Token
	Args    *ExprList
	Rparen  token.Token
	In      token.Token
	Context *Ident
}

// DeclSeq keeps sections in source order and, for convenience, the
// declarations of each kind aggregated across all sections.
type DeclSeq struct {
	Base
	Sections   []Decl
	Consts     []*ConstDecl
	Types      []*TypeDecl
	Vars       []*VarDecl
	Procedures []*ProcDecl
	Operators  []*OperatorDecl
}

// DeclSection is a CONST, TYPE or VAR keyword followed by its declarations.
type DeclSection struct {
	Base
	Keyword token.Token
	Decls   []Decl
}

// ConstDecl is name '=' value ';'.
type ConstDecl struct {
	Base
	Name  *IdentDef
	Eq    token.Token
	Value Expr
	Semi  token.Token
}

// TypeDecl is name '=' type ';'.
type TypeDecl struct {
	Base
	Name *IdentDef
	Eq   token.Token
	Type Type
	Semi token.Token
}

// VarDecl is name {',' name} ':' type [';']. Record fields use the same node;
// the last field of a record may omit the semicolon.
type VarDecl struct {
	Base
	Names  []*VarName
	Commas []token.Token
	Colon  token.Token
	Type   Type
	Semi   token.Token
}

// VarName is identdef [flags] [':=' init | EXTERN name].
type VarName struct {
	Base
	Name       *IdentDef
	Flags      *FlagSet
	Becomes    token.Token
	Init       Expr
	Extern     token.Token
	ExternName token.Token
}

// ProcDecl is a procedure declaration. Forward declarations (marker '^') and
// EXTERN procedures end after the heading semicolon and have no block.
type ProcDecl struct {
	Base
	Procedure  token.Token
	Flags      *FlagSet
	Marker     token.Token // ^ & ~ -
	Name       *IdentDef
	Params     *FormalParams
	Extern     token.Token
	ExternName token.Token
	Semi       token.Token
	Decls      *DeclSeq
	Body       *Body
	End        token.Token
	EndName    *Ident
	Term       token.Token // ';' after the closing name
}

// HasBlock reports whether the declaration carries a declaration block.
func (p *ProcDecl) HasBlock() bool { return p.End.IsValid() }

// OperatorDecl is OPERATOR [flags] ['-'] "op" ['*'|'-'] params ';' block END "op" ';'.
type OperatorDecl struct {
	Base
	Operator token.Token
	Flags    *FlagSet
	Inline   token.Token
	Name     token.Token // string literal naming the operator
	Export   ExportMark
	Mark     token.Token
	Params   *FormalParams
	Semi     token.Token
	Decls    *DeclSeq
	Body     *Body
	End      token.Token
	EndName  token.Token
	Term     token.Token
}

// FormalParams is '(' [section {';' section}] ')' [':' [flags] type].
type FormalParams struct {
	Base
	Lparen      token.Token
	Sections    []*ParamSection
	Semis       []token.Token
	Rparen      token.Token
	Colon       token.Token
	ResultFlags *FlagSet
	Result      Type
}

// ParamSection is [VAR | CONST] name {',' name} ':' type.
type ParamSection struct {
	Base
	Mode   token.Token
	Names  []*ParamName
	Commas []token.Token
	Colon  token.Token
	Type   Type
}

// ParamName is ident [flags] ['=' default].
type ParamName struct {
	Base
	Name    *Ident
	Flags   *FlagSet
	Eq      token.Token
	Default Expr
}

// Body is BEGIN [flags] seq [FINALLY seq], or a CODE block.
type Body struct {
	Base
	Begin       token.Token
	Flags       *FlagSet
	Stmts       *StmtSeq
	Finally     token.Token
	FinallyBody *StmtSeq
	Code        *CodeBlock
}

func (*DeclSection) declNode()  {}
func (*ConstDecl) declNode()    {}
func (*TypeDecl) declNode()     {}
func (*VarDecl) declNode()      {}
func (*ProcDecl) declNode()     {}
func (*OperatorDecl) declNode() {}
