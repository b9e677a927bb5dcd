package token

import (
	"rosgen/internal/source"
)

// Token represents a single schema token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
	// Trailing holds a same-line comment; only set on Newline and EOF tokens.
	Trailing *Trivia
}

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit:
		return true
	default:
		return false
	}
}

// IsPunct reports whether the token is punctuation.
func (t Token) IsPunct() bool {
	switch t.Kind {
	case Slash, LBracket, RBracket, LtEq, Assign, Comma, Minus, Plus:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// EndsLine reports whether the token terminates a declaration.
func (t Token) EndsLine() bool {
	return t.Kind == Newline || t.Kind == EOF || t.Kind == Separator
}
