package model

import (
	"strconv"
	"strings"
)

// ValueKind is the checked form of a literal.
type ValueKind uint8

const (
	ValueInvalid ValueKind = iota
	ValueBool
	ValueInt  // signed integer target
	ValueUint // unsigned integer target
	ValueFloat
	ValueString
	ValueArray
)

// Value is a literal already validated against its target type.
type Value struct {
	Kind  ValueKind
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
	Str   string
	Elems []Value
	Text  string // source spelling
}

// GoLiteral renders the value as Go source. Element literals of arrays are
// rendered without the surrounding type; callers add it.
func (v Value) GoLiteral() string {
	switch v.Kind {
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueUint:
		return strconv.FormatUint(v.Uint, 10)
	case ValueFloat:
		s := strconv.FormatFloat(v.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case ValueString:
		return strconv.Quote(v.Str)
	case ValueArray:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.GoLiteral()
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
