package token

// keywords is the reserved-word table. Matching is exact and case-sensitive.
var keywords = map[string]Kind{
	"ADDRESS":    KwAddress,
	"ALIAS":      KwAlias,
	"AND":        KwAnd,
	"ANY":        KwAny,
	"ARRAY":      KwArray,
	"AWAIT":      KwAwait,
	"BEGIN":      KwBegin,
	"BY":         KwBy,
	"CASE":       KwCase,
	"CELL":       KwCell,
	"CELLNET":    KwCellnet,
	"CODE":       KwCode,
	"CONST":      KwConst,
	"DEFINITION": KwDefinition,
	"DIV":        KwDiv,
	"DO":         KwDo,
	"ELSE":       KwElse,
	"ELSIF":      KwElsif,
	"END":        KwEnd,
	"ENUM":       KwEnum,
	"EXIT":       KwExit,
	"EXTERN":     KwExtern,
	"FALSE":      KwFalse,
	"FINALLY":    KwFinally,
	"FOR":        KwFor,
	"IF":         KwIf,
	"IGNORE":     KwIgnore,
	"IMAG":       KwImag,
	"IMPORT":     KwImport,
	"IN":         KwIn,
	"IS":         KwIs,
	"LOOP":       KwLoop,
	"MOD":        KwMod,
	"MODULE":     KwModule,
	"NEW":        KwNew,
	"NIL":        KwNil,
	"NOT":        KwNot,
	"OBJECT":     KwObject,
	"OF":         KwOf,
	"OPERATOR":   KwOperator,
	"OR":         KwOr,
	"OUT":        KwOut,
	"POINTER":    KwPointer,
	"PORT":       KwPort,
	"PROCEDURE":  KwProcedure,
	"RECORD":     KwRecord,
	"REPEAT":     KwRepeat,
	"RESULT":     KwResult,
	"RETURN":     KwReturn,
	"SELF":       KwSelf,
	"SIZE":       KwSize,
	"THEN":       KwThen,
	"TO":         KwTo,
	"TRUE":       KwTrue,
	"TYPE":       KwType,
	"UNTIL":      KwUntil,
	"VAR":        KwVar,
	"WHILE":      KwWhile,
	"WITH":       KwWith,
}

// LookupKeyword returns the keyword kind for ident, if it is reserved.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
