package token

var kindNames = [kindCount]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	Integer:   "Integer",
	Real:      "Real",
	Character: "Character",
	String:    "String",
}

func init() {
	for text, k := range keywords {
		kindNames[k] = text
	}
	for text, k := range punct {
		kindNames[k] = text
	}
}

// punct maps operator spellings to kinds; the lexer scans greedily and the
// table is used for naming and tests.
var punct = map[string]Kind{
	`+`:    Plus,
	`-`:    Minus,
	`*`:    Times,
	`/`:    Slash,
	`\`:    Backslash,
	`**`:   TimesTimes,
	`+*`:   PlusTimes,
	`.*`:   DotTimes,
	`./`:   DotSlash,
	`=`:    Equal,
	`#`:    Unequal,
	`<`:    Less,
	`<=`:   LessEqual,
	`>`:    Greater,
	`>=`:   GreaterEqual,
	`.=`:   DotEqual,
	`.#`:   DotUnequal,
	`.<`:   DotLess,
	`.<=`:  DotLessEqual,
	`.>`:   DotGreater,
	`.>=`:  DotGreaterEqual,
	`<<`:   LessLess,
	`<<?`:  LessLessQ,
	`>>`:   GreaterGreater,
	`>>?`:  GreaterGreaterQ,
	`?`:    Question,
	`??`:   QuestionMarks,
	`!`:    Exclaim,
	`!!`:   ExclaimMarks,
	`:=`:   Becomes,
	`:`:    Colon,
	`;`:    Semicolon,
	`,`:    Comma,
	`.`:    Period,
	`..`:   Upto,
	`(`:    LParen,
	`)`:    RParen,
	`[`:    LBracket,
	`]`:    RBracket,
	`{`:    LBrace,
	`}`:    RBrace,
	`^`:    Arrow,
	`|`:    Bar,
	`~`:    Tilde,
	`&`:    Ampersand,
	"`":    Transpose,
}

// String returns the source spelling for keywords and operators and the kind
// name for everything else.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// LookupPunct returns the kind of an operator spelling.
func LookupPunct(text string) (Kind, bool) {
	k, ok := punct[text]
	return k, ok
}
