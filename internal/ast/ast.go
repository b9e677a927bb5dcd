// Package ast holds the syntactic form of a schema file: ordered declarations
// exactly as written, before any name or type is resolved.
package ast

import (
	"strings"

	"rosgen/internal/source"
)

// SchemaKind distinguishes .msg from .srv files.
type SchemaKind uint8

const (
	SchemaMessage SchemaKind = iota
	SchemaService
)

func (k SchemaKind) String() string {
	if k == SchemaService {
		return "srv"
	}
	return "msg"
}

// File is one parsed schema. A message has one block; a service has two
// (request, response) when it parsed cleanly.
type File struct {
	Source  source.FileID
	Package string
	Name    string
	Kind    SchemaKind
	Blocks  []*Block
	Span    source.Span
}

// Block is the ordered declaration list of one message or service half.
type Block struct {
	Decls []*Decl
	Span  source.Span
}

type DeclKind uint8

const (
	DeclField DeclKind = iota
	DeclConstant
)

// Decl is a single `TYPE NAME`, `TYPE NAME DEFAULT` or `TYPE NAME=VALUE` line.
type Decl struct {
	Kind     DeclKind
	Type     *TypeExpr
	Name     string
	NameSpan source.Span
	Value    *Value // default for fields, required for constants
	Span     source.Span
	Line     uint32
	Doc      []string // comment lines directly above the declaration
	Comment  string   // same-line comment
}

type ArrayKind uint8

const (
	ArrayNone ArrayKind = iota
	ArrayFixed
	ArrayUnbounded
	ArrayBounded
)

// Bound keeps the raw text of a numeric bound; the resolver validates it.
type Bound struct {
	Text string
	Span source.Span
}

// TypeExpr is `[pkg/]Name[<=N][ [] | [N] | [<=N] ]`.
type TypeExpr struct {
	Package     string // empty for primitives and same-package references
	Name        string
	NameSpan    source.Span
	StringBound *Bound // string<=N
	Array       ArrayKind
	ArrayBound  *Bound // ArrayFixed, ArrayBounded
	Span        source.Span
}

// BaseName returns the element type spelling without array suffix.
func (t *TypeExpr) BaseName() string {
	var b strings.Builder
	if t.Package != "" {
		b.WriteString(t.Package)
		b.WriteByte('/')
	}
	b.WriteString(t.Name)
	if t.StringBound != nil {
		b.WriteString("<=")
		b.WriteString(t.StringBound.Text)
	}
	return b.String()
}

// String returns the normalized spelling, e.g. "string<=5[<=3]".
func (t *TypeExpr) String() string {
	base := t.BaseName()
	switch t.Array {
	case ArrayFixed:
		return base + "[" + t.ArrayBound.Text + "]"
	case ArrayUnbounded:
		return base + "[]"
	case ArrayBounded:
		return base + "[<=" + t.ArrayBound.Text + "]"
	}
	return base
}

type ValueKind uint8

const (
	ValueInt ValueKind = iota
	ValueFloat
	ValueString
	ValueIdent // true, false, nan, ... interpreted by the resolver
	ValueArray
)

func (k ValueKind) String() string {
	switch k {
	case ValueInt:
		return "integer"
	case ValueFloat:
		return "float"
	case ValueString:
		return "string"
	case ValueIdent:
		return "identifier"
	case ValueArray:
		return "array"
	}
	return "unknown"
}

// Value is a literal. Text keeps the sign for numbers; Str holds the
// decoded contents of string literals.
type Value struct {
	Kind  ValueKind
	Text  string
	Str   string
	Elems []*Value
	Span  source.Span
}
