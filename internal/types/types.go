package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
// IDs depend on interning order and never appear in generated output.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind is the closed set of semantic types. Consumers switch on it
// exhaustively and treat any other value as an internal error.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindText
	KindFixedArray
	KindSequence
	KindNested
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindPrimitive:
		return "primitive"
	case KindText:
		return "text"
	case KindFixedArray:
		return "fixed array"
	case KindSequence:
		return "sequence"
	case KindNested:
		return "nested"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Unbounded marks Text and Sequence types without an upper bound.
const Unbounded uint32 = 0

// Type is a compact descriptor for a semantic type.
type Type struct {
	Kind  Kind
	Prim  Prim   // KindPrimitive
	Elem  TypeID // KindFixedArray, KindSequence
	Count uint32 // FixedArray length; Text/Sequence bound (Unbounded = none)
	Name  uint32 // KindNested: index into the interner's name table
}

// QualifiedName identifies a message: "pkg/Name".
type QualifiedName struct {
	Package string
	Name    string
}

func (q QualifiedName) String() string {
	return q.Package + "/" + q.Name
}

// Less orders names by package, then name.
func (q QualifiedName) Less(o QualifiedName) bool {
	if q.Package != o.Package {
		return q.Package < o.Package
	}
	return q.Name < o.Name
}
