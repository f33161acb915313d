package ast

import (
	"aoc/internal/asm"
	"aoc/internal/source"
	"aoc/internal/token"
)

// StmtSeq is a ';' separated statement list. Empty statements are not
// recorded, their separators are.
type StmtSeq struct {
	Base
	List  []Stmt
	Semis []token.Token
}

// BlockStmt is BEGIN [flags] seq END.
type BlockStmt struct {
	Base
	Begin token.Token
	Flags *FlagSet
	Body  *StmtSeq
	End   token.Token
}

// IfStmt is IF cond THEN seq {ELSIF ...} [ELSE seq] END.
type IfStmt struct {
	Base
	If       token.Token
	Cond     Expr
	Then     token.Token
	Body     *StmtSeq
	Elsifs   []*ElsifClause
	Else     token.Token
	ElseBody *StmtSeq
	End      token.Token
}

// ElsifClause is ELSIF cond THEN seq.
type ElsifClause struct {
	Base
	Elsif token.Token
	Cond  Expr
	Then  token.Token
	Body  *StmtSeq
}

// WithStmt is WITH ident ':' arm {'|' arm} [ELSE seq] END.
type WithStmt struct {
	Base
	With     token.Token
	Var      *Ident
	Colon    token.Token
	Arms     []*WithArm
	Else     token.Token
	ElseBody *StmtSeq
	End      token.Token
}

// WithArm is ['|'] qualident DO seq; the first arm has no bar.
type WithArm struct {
	Base
	Bar  token.Token
	Type *QualIdent
	Do   token.Token
	Body *StmtSeq
}

// CaseStmt is CASE expr OF arm {'|' arm} [ELSE seq] END.
type CaseStmt struct {
	Base
	Case     token.Token
	X        Expr
	Of       token.Token
	Arms     []*CaseArm
	Else     token.Token
	ElseBody *StmtSeq
	End      token.Token
}

// CaseArm is ['|'] label {',' label} ':' seq. Labels are range expressions.
type CaseArm struct {
	Base
	Bar    token.Token
	Labels []Expr
	Commas []token.Token
	Colon  token.Token
	Body   *StmtSeq
}

type WhileStmt struct {
	Base
	While token.Token
	Cond  Expr
	Do    token.Token
	Body  *StmtSeq
	End   token.Token
}

type RepeatStmt struct {
	Base
	Repeat token.Token
	Body   *StmtSeq
	Until  token.Token
	Cond   Expr
}

// ForStmt is FOR v ':=' from TO limit [BY step] DO seq END.
type ForStmt struct {
	Base
	For     token.Token
	Var     *Ident
	Becomes token.Token
	From    Expr
	To      token.Token
	Limit   Expr
	By      token.Token
	Step    Expr
	Do      token.Token
	Body    *StmtSeq
	End     token.Token
}

type LoopStmt struct {
	Base
	Loop token.Token
	Body *StmtSeq
	End  token.Token
}

type ExitStmt struct {
	Base
	Exit token.Token
}

// ReturnStmt has an optional result expression.
type ReturnStmt struct {
	Base
	Return token.Token
	X      Expr
}

type AwaitStmt struct {
	Base
	Await token.Token
	X     Expr
}

type IgnoreStmt struct {
	Base
	Ignore token.Token
	X      Expr
}

// CodeBlock is CODE followed by assembler text. Text spans the raw slice that
// was assembled; Asm holds the parsed instructions and the emitted bytes.
type CodeBlock struct {
	Base
	Code token.Token
	Text source.Span
	Asm  *asm.Block
}

// CodeStmt is a CODE block used as a statement, closed by its own END.
type CodeStmt struct {
	Base
	Block *CodeBlock
	End   token.Token
}

// AssignOp is the operator of an assignment-like statement.
type AssignOp uint8

const (
	AssignBecomes        AssignOp = iota // :=
	AssignSend                           // !
	AssignReceive                        // ?
	AssignLessLess                       // <<
	AssignGreaterGreater                 // >>
)

func (op AssignOp) String() string {
	switch op {
	case AssignBecomes:
		return "Becomes"
	case AssignSend:
		return "Send"
	case AssignReceive:
		return "Receive"
	case AssignLessLess:
		return "LessLess"
	case AssignGreaterGreater:
		return "GreaterGreater"
	}
	return "assign(?)"
}

// AssignStmt is lhs op rhs for ':=', '!', '?', '<<' and '>>'.
type AssignStmt struct {
	Base
	Lhs   Expr
	Op    AssignOp
	OpTok token.Token
	Rhs   Expr
}

// ExprStmt is an expression used as a statement (procedure call).
type ExprStmt struct {
	Base
	X Expr
}

func (*BlockStmt) stmtNode()  {}
func (*IfStmt) stmtNode()     {}
func (*WithStmt) stmtNode()   {}
func (*CaseStmt) stmtNode()   {}
func (*WhileStmt) stmtNode()  {}
func (*RepeatStmt) stmtNode() {}
func (*ForStmt) stmtNode()    {}
func (*LoopStmt) stmtNode()   {}
func (*ExitStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode() {}
func (*AwaitStmt) stmtNode()  {}
func (*IgnoreStmt) stmtNode() {}
func (*CodeStmt) stmtNode()   {}
func (*AssignStmt) stmtNode() {}
func (*ExprStmt) stmtNode()   {}
