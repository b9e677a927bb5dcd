package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadEscape          Code = 1003
	LexBadNumber          Code = 1004
	LexTokenTooLong       Code = 1005

	// Синтаксические
	SynInfo                  Code = 2000
	SynUnexpectedToken       Code = 2001
	SynExpectType            Code = 2002
	SynExpectFieldName       Code = 2003
	SynExpectValue           Code = 2004
	SynExpectRightBracket    Code = 2005
	SynExpectBound           Code = 2006
	SynTrailingTokens        Code = 2007
	SynMissingServiceSep     Code = 2008
	SynExtraServiceSep       Code = 2009
	SynSeparatorInMessage    Code = 2010
	SynExpectConstantValue   Code = 2011
	SynUnsupportedSchemaKind Code = 2012

	// Семантические
	SemaInfo                 Code = 3000
	SemaUnresolvedType       Code = 3001
	SemaServiceHalfReference Code = 3002
	SemaInvalidBound         Code = 3003
	SemaCyclicType           Code = 3004
	SemaInvalidDefault       Code = 3005
	SemaInvalidConstant      Code = 3006
	SemaDuplicateField       Code = 3007
	SemaDuplicateMessage     Code = 3008

	// style warnings
	SemaFieldNameStyle    Code = 3100
	SemaConstantNameStyle Code = 3101

	// I/O
	IOInfo           Code = 4000
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002
	IOCacheError     Code = 4003

	// Layout
	LayoutInfo        Code = 5000
	LayoutOverflow    Code = 5001
	LayoutUnsupported Code = 5002
	LayoutMissingPlan Code = 5003

	// Emission
	EmitInfo          Code = 6000
	EmitNameCollision Code = 6001
	EmitFormatFailed  Code = 6002
	EmitInternal      Code = 6003

	// Project / invocation
	ProjectInfo             Code = 7000
	ProjectDuplicatePackage Code = 7001
	ProjectNoInputs         Code = 7002
	ProjectBadPackageName   Code = 7003
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	LexInfo:                  "Lexical information",
	LexUnknownChar:           "Unknown character",
	LexUnterminatedString:    "Unterminated string literal",
	LexBadEscape:             "Invalid escape sequence",
	LexBadNumber:             "Malformed number",
	LexTokenTooLong:          "Token too long",
	SynInfo:                  "Syntax information",
	SynUnexpectedToken:       "Unexpected token",
	SynExpectType:            "Expected field type",
	SynExpectFieldName:       "Expected field name",
	SynExpectValue:           "Expected literal value",
	SynExpectRightBracket:    "Expected ']'",
	SynExpectBound:           "Expected bound after '<='",
	SynTrailingTokens:        "Unexpected tokens after declaration",
	SynMissingServiceSep:     "Service is missing the '---' separator",
	SynExtraServiceSep:       "Service has more than one '---' separator",
	SynSeparatorInMessage:    "Separator line is not allowed in a message",
	SynExpectConstantValue:   "Expected constant value after '='",
	SynUnsupportedSchemaKind: "Unsupported schema file extension",
	SemaInfo:                 "Semantic information",
	SemaUnresolvedType:       "Unresolved type",
	SemaServiceHalfReference: "Service request/response cannot be used as a field type",
	SemaInvalidBound:         "Invalid array or string bound",
	SemaCyclicType:           "Message contains itself",
	SemaInvalidDefault:       "Invalid default value",
	SemaInvalidConstant:      "Invalid constant",
	SemaDuplicateField:       "Duplicate field name",
	SemaDuplicateMessage:     "Duplicate message definition",
	SemaFieldNameStyle:       "Field name is not snake_case",
	SemaConstantNameStyle:    "Constant name is not UPPER_CASE",
	IOInfo:                   "I/O information",
	IOLoadFileError:          "I/O load file error",
	IOWriteFileError:         "I/O write file error",
	IOCacheError:             "Generation cache error",
	LayoutInfo:               "Layout information",
	LayoutOverflow:           "Type size overflows the target",
	LayoutUnsupported:        "Unsupported type combination",
	LayoutMissingPlan:        "Nested message has no layout",
	EmitInfo:                 "Emitter information",
	EmitNameCollision:        "Generated identifier collision",
	EmitFormatFailed:         "Generated source failed to format",
	EmitInternal:             "Internal emitter error",
	ProjectInfo:              "Project information",
	ProjectDuplicatePackage:  "Package listed twice",
	ProjectNoInputs:          "No schema files given",
	ProjectBadPackageName:    "Invalid package name",
}

// ID returns the stable string identifier, e.g. "SEM3001".
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
		return fmt.Sprintf("LAY%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("EMT%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("PRJ%04d", ic)
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
