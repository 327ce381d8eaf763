package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Парсерные
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynExpectIdentifier  Code = 2002
	SynExpectType        Code = 2003
	SynExpectColon       Code = 2004
	SynExpectSemicolon   Code = 2005
	SynUnclosedDelimiter Code = 2006
	SynSelfNotFirst      Code = 2007
	SynExpectParamList   Code = 2008
	SynUnexpectedItem    Code = 2009

	// Семантические
	SemaInfo                   Code = 3000
	SemaError                  Code = 3001
	SemaDuplicateSymbol        Code = 3002
	SemaShadowSymbol           Code = 3003
	SemaUnresolvedType         Code = 3004
	SemaSelfOutsideImpl        Code = 3005
	SemaSelfParamOutsideImpl   Code = 3006
	SemaMissingTypeArgs        Code = 3007
	SemaTypeArgCountMismatch   Code = 3008
	SemaUnexpectedTypeArgs     Code = 3009
	SemaMutableParamNotAllowed Code = 3010
	SemaDuplicateTypeParam     Code = 3011
	SemaScopeMismatch          Code = 3012
	SemaRecursiveAlias         Code = 3013

	// I/O
	IOLoadFileError Code = 4001

	// Наблюдаемость
	ObsTimings Code = 5001

	// Подсказки о чужом синтаксисе: файл похож на другой язык.
	AlnRustSyntax       Code = 6001
	AlnGoSyntax         Code = 6002
	AlnTypeScriptSyntax Code = 6003
	AlnPythonSyntax     Code = 6004
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	LexInfo:                     "Lexer information",
	LexUnknownChar:              "unknown character",
	LexUnterminatedString:       "unterminated string literal",
	LexUnterminatedBlockComment: "unterminated block comment",
	LexBadNumber:                "malformed numeric literal",

	SynInfo:              "Parser information",
	SynUnexpectedToken:   "unexpected token",
	SynExpectIdentifier:  "expected identifier",
	SynExpectType:        "expected type",
	SynExpectColon:       "expected ':'",
	SynExpectSemicolon:   "expected ';'",
	SynUnclosedDelimiter: "unclosed delimiter",
	SynSelfNotFirst:      "self parameter must come first",
	SynExpectParamList:   "expected parameter list",
	SynUnexpectedItem:    "unexpected item at top level",

	SemaInfo:                   "Semantic information",
	SemaError:                  "semantic error",
	SemaDuplicateSymbol:        "duplicate symbol",
	SemaShadowSymbol:           "symbol shadows earlier declaration",
	SemaUnresolvedType:         "unknown type",
	SemaSelfOutsideImpl:        "Self used outside impl or contract",
	SemaSelfParamOutsideImpl:   "self parameter outside impl or contract",
	SemaMissingTypeArgs:        "missing type arguments",
	SemaTypeArgCountMismatch:   "wrong number of type arguments",
	SemaUnexpectedTypeArgs:     "type does not take type arguments",
	SemaMutableParamNotAllowed: "mutable parameter is not supported",
	SemaDuplicateTypeParam:     "duplicate type parameter",
	SemaScopeMismatch:          "scope stack mismatch",
	SemaRecursiveAlias:         "recursive type alias",

	IOLoadFileError: "I/O load file error",

	ObsTimings: "pipeline timings",

	AlnRustSyntax:       "source resembles rust",
	AlnGoSyntax:         "source resembles go",
	AlnTypeScriptSyntax: "source resembles typescript",
	AlnPythonSyntax:     "source resembles python",
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
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("ALN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
