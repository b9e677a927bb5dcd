package token

import "fmt"

// Kind represents the category of a schema token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline ends a declaration line. Blank lines never produce one.
	Newline
	// Separator is a line made only of three or more '-' (service request/response split).
	Separator

	Ident
	IntLit
	FloatLit
	StringLit

	Slash    // /
	LBracket // [
	RBracket // ]
	LtEq     // <=
	Assign   // =
	Comma    // ,
	Minus    // -
	Plus     // +
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Newline:   "Newline",
	Separator: "Separator",
	Ident:     "Ident",
	IntLit:    "IntLit",
	FloatLit:  "FloatLit",
	StringLit: "StringLit",
	Slash:     "Slash",
	LBracket:  "LBracket",
	RBracket:  "RBracket",
	LtEq:      "LtEq",
	Assign:    "Assign",
	Comma:     "Comma",
	Minus:     "Minus",
	Plus:      "Plus",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}
