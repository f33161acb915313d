package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token. The zero Token is Invalid, which
	// the AST uses to mark an absent optional token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// Integer is a decimal or H-suffixed hexadecimal integer literal.
	Integer
	// Real is a floating point literal.
	Real
	// Character is an X-suffixed character code literal.
	Character
	// String is a quoted string literal.
	String

	keywordBegin
	KwAddress    // ADDRESS
	KwAlias      // ALIAS
	KwAnd        // AND
	KwAny        // ANY
	KwArray      // ARRAY
	KwAwait      // AWAIT
	KwBegin      // BEGIN
	KwBy         // BY
	KwCase       // CASE
	KwCell       // CELL
	KwCellnet    // CELLNET
	KwCode       // CODE
	KwConst      // CONST
	KwDefinition // DEFINITION
	KwDiv        // DIV
	KwDo         // DO
	KwElse       // ELSE
	KwElsif      // ELSIF
	KwEnd        // END
	KwEnum       // ENUM
	KwExit       // EXIT
	KwExtern     // EXTERN
	KwFalse      // FALSE
	KwFinally    // FINALLY
	KwFor        // FOR
	KwIf         // IF
	KwIgnore     // IGNORE
	KwImag       // IMAG
	KwImport     // IMPORT
	KwIn         // IN
	KwIs         // IS
	KwLoop       // LOOP
	KwMod        // MOD
	KwModule     // MODULE
	KwNew        // NEW
	KwNil        // NIL
	KwNot        // NOT
	KwObject     // OBJECT
	KwOf         // OF
	KwOperator   // OPERATOR
	KwOr         // OR
	KwOut        // OUT
	KwPointer    // POINTER
	KwPort       // PORT
	KwProcedure  // PROCEDURE
	KwRecord     // RECORD
	KwRepeat     // REPEAT
	KwResult     // RESULT
	KwReturn     // RETURN
	KwSelf       // SELF
	KwSize       // SIZE
	KwThen       // THEN
	KwTo         // TO
	KwTrue       // TRUE
	KwType       // TYPE
	KwUntil      // UNTIL
	KwVar        // VAR
	KwWhile      // WHILE
	KwWith       // WITH
	keywordEnd

	Plus            // +
	Minus           // -
	Times           // *
	Slash           // /
	Backslash       // \
	TimesTimes      // **
	PlusTimes       // +*
	DotTimes        // .*
	DotSlash        // ./
	Equal           // =
	Unequal         // #
	Less            // <
	LessEqual       // <=
	Greater         // >
	GreaterEqual    // >=
	DotEqual        // .=
	DotUnequal      // .#
	DotLess         // .<
	DotLessEqual    // .<=
	DotGreater      // .>
	DotGreaterEqual // .>=
	LessLess        // <<
	LessLessQ       // <<?
	GreaterGreater  // >>
	GreaterGreaterQ // >>?
	Question        // ?
	QuestionMarks   // ??
	Exclaim         // !
	ExclaimMarks    // !!
	Becomes         // :=
	Colon           // :
	Semicolon       // ;
	Comma           // ,
	Period          // .
	Upto            // ..
	LParen          // (
	RParen          // )
	LBracket        // [
	RBracket        // ]
	LBrace          // {
	RBrace          // }
	Arrow           // ^
	Bar             // |
	Tilde           // ~
	Ampersand       // &
	Transpose       // `

	kindCount
)

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k > keywordBegin && k < keywordEnd }

// IsLiteral reports whether k is a numeric, character or string literal.
func (k Kind) IsLiteral() bool {
	switch k {
	case Integer, Real, Character, String:
		return true
	default:
		return false
	}
}

// IsRelation reports whether k is one of the relational operators of the
// expression grammar.
func (k Kind) IsRelation() bool {
	switch k {
	case Equal, Unequal, Less, LessEqual, Greater, GreaterEqual, KwIn, KwIs,
		DotEqual, DotUnequal, DotLess, DotLessEqual, DotGreater, DotGreaterEqual,
		QuestionMarks, ExclaimMarks, LessLessQ, GreaterGreaterQ:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether k is punctuation or an operator.
func (k Kind) IsPunctOrOp() bool { return k > keywordEnd && k < kindCount }
