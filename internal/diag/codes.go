package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0
	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedParen      Code = 2002
	SynUnclosedBracket    Code = 2003
	SynUnclosedBrace      Code = 2004
	SynExpectSemicolon    Code = 2005
	SynExpectIdentifier   Code = 2006
	SynExpectExpression   Code = 2007
	SynExpectType         Code = 2008
	SynExpectEnd          Code = 2009
	SynExpectKeyword      Code = 2010
	SynExpectColon        Code = 2011
	SynExpectEquals       Code = 2012
	SynExpectString       Code = 2013
	SynExpectStatement    Code = 2014
	SynMismatchedEndName  Code = 2015
	SynUnterminatedCode   Code = 2016
	SynUnexpectedTopLevel Code = 2017

	// Граф модулей
	ProjInfo             Code = 3000
	ProjDuplicateModule  Code = 3001
	ProjMissingModule    Code = 3002
	ProjSelfImport       Code = 3003
	ProjImportCycle      Code = 3004
	ProjDependencyFailed Code = 3005

	// Встроенный ассемблер
	AsmInfo               Code = 4000
	AsmUnexpectedToken    Code = 4001
	AsmUnknownFlag        Code = 4002
	AsmUnsupportedTarget  Code = 4003
	AsmIllegalInstruction Code = 4004
	AsmBadOperand         Code = 4005
	AsmBadNumber          Code = 4006
	AsmUndefinedSymbol    Code = 4007
	AsmDuplicateLabel     Code = 4008
	AsmPhaseError         Code = 4009
	AsmMissingFeature     Code = 4010

	// Ввод/вывод и драйвер
	IOLoadFileError Code = 5001
	IOCacheError    Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number",
	LexTokenTooLong:             "Token too long",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBracket:          "Unclosed bracket",
	SynUnclosedBrace:            "Unclosed brace",
	SynExpectSemicolon:          "Expect semicolon",
	SynExpectIdentifier:         "Expect identifier",
	SynExpectExpression:         "Expect expression",
	SynExpectType:               "Expect type",
	SynExpectEnd:                "Expect END",
	SynExpectKeyword:            "Expect keyword",
	SynExpectColon:              "Expect colon",
	SynExpectEquals:             "Expect '='",
	SynExpectString:             "Expect string",
	SynExpectStatement:          "Expect statement",
	SynMismatchedEndName:        "END name does not match declaration",
	SynUnterminatedCode:         "CODE block without END",
	SynUnexpectedTopLevel:       "Unexpected text before MODULE",
	ProjInfo:                    "Module graph information",
	ProjDuplicateModule:         "Duplicate module",
	ProjMissingModule:           "Imported module not found",
	ProjSelfImport:              "Module imports itself",
	ProjImportCycle:             "Import cycle",
	ProjDependencyFailed:        "Dependency has errors",
	AsmInfo:                     "Assembler information",
	AsmUnexpectedToken:          "Unexpected assembler token",
	AsmUnknownFlag:              "Unknown CPU flag",
	AsmUnsupportedTarget:        "Unsupported target",
	AsmIllegalInstruction:       "Illegal instruction",
	AsmBadOperand:               "Bad operand",
	AsmBadNumber:                "Bad number",
	AsmUndefinedSymbol:          "Undefined symbol",
	AsmDuplicateLabel:           "Duplicate label",
	AsmPhaseError:               "Instruction size changed between passes",
	AsmMissingFeature:           "Instruction requires a CPU feature",
	IOLoadFileError:             "Failed to load file",
	IOCacheError:                "Cache error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("ASM%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
