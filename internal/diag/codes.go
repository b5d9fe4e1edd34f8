package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Syntax
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectSemicolon  Code = 2002
	SynExpectIdentifier Code = 2003
	SynExpectExpression Code = 2004
	SynExpectType       Code = 2005
	SynUnclosedParen    Code = 2006
	SynUnclosedBrace    Code = 2007
	SynExpectLParen     Code = 2008
	SynExpectLBrace     Code = 2009

	// Semantic
	SemaInfo                  Code = 3000
	SemaError                 Code = 3001
	SemaDuplicateSymbol       Code = 3002
	SemaUnresolvedSymbol      Code = 3003
	SemaUsedBeforeDeclaration Code = 3004
	SemaNotAVariable          Code = 3005
	SemaNotAFunction          Code = 3006
	SemaOperatorMismatch      Code = 3007
	SemaArgumentCount         Code = 3008
	SemaArgumentType          Code = 3009
	SemaNotLeftValue          Code = 3010
	SemaVoidValue             Code = 3011
	SemaCapturedLocal         Code = 3012
	SemaReturnType            Code = 3013
	SemaUnknownType           Code = 3014
	SemaAssignMismatch        Code = 3015
	SemaTooManyLocals         Code = 3016
	SemaMissingReturn         Code = 3017

	// Code generation limits reported to the user
	GenFunctionTooLarge Code = 4001

	// I/O
	IOLoadFileError Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectSemicolon:          "Missing semicolon",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectExpression:         "Expected expression",
	SynExpectType:               "Expected type name",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBrace:            "Unclosed brace",
	SynExpectLParen:             "Expected '('",
	SynExpectLBrace:             "Expected '{'",
	SemaInfo:                    "Semantic information",
	SemaError:                   "Semantic error",
	SemaDuplicateSymbol:         "Duplicate symbol",
	SemaUnresolvedSymbol:        "Unresolved symbol",
	SemaUsedBeforeDeclaration:   "Variable used before declaration",
	SemaNotAVariable:            "Symbol is not a variable",
	SemaNotAFunction:            "Symbol is not a function",
	SemaOperatorMismatch:        "Operator cannot be applied to operand types",
	SemaArgumentCount:           "Wrong number of arguments",
	SemaArgumentType:            "Argument type mismatch",
	SemaNotLeftValue:            "Expression is not assignable",
	SemaVoidValue:               "Void expression used as a value",
	SemaCapturedLocal:           "Local of an enclosing function is not accessible",
	SemaReturnType:              "Return type mismatch",
	SemaUnknownType:             "Unknown type name",
	SemaAssignMismatch:          "Assignment type mismatch",
	SemaTooManyLocals:           "Too many local variables",
	SemaMissingReturn:           "Function may end without a return",
	GenFunctionTooLarge:         "Function body too large",
	IOLoadFileError:             "Failed to load file",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("GEN%04d", ic)
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
