package diag

import (
	"errors"
	"fmt"
	"strings"

	"rosgen/internal/source"
)

// Kind classifies a diagnostic code into the user-facing error taxonomy.
type Kind uint8

const (
	KindNone Kind = iota
	KindSyntax
	KindUnresolvedType
	KindInvalidBound
	KindCyclicType
	KindInvalidDefault
	KindDuplicateField
	KindLayout
	KindEmit
	KindIO
	KindProject
)

var kindNames = [...]string{
	KindNone:           "None",
	KindSyntax:         "SyntaxError",
	KindUnresolvedType: "UnresolvedTypeError",
	KindInvalidBound:   "InvalidBoundError",
	KindCyclicType:     "CyclicTypeError",
	KindInvalidDefault: "InvalidDefaultError",
	KindDuplicateField: "DuplicateFieldError",
	KindLayout:         "LayoutError",
	KindEmit:           "EmitError",
	KindIO:             "IOError",
	KindProject:        "ProjectError",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Sentinels matched with errors.Is against errors returned by Bag.Err.
var (
	ErrSyntax         = errors.New("syntax error")
	ErrUnresolvedType = errors.New("unresolved type")
	ErrInvalidBound   = errors.New("invalid bound")
	ErrCyclicType     = errors.New("cyclic type")
	ErrInvalidDefault = errors.New("invalid default")
	ErrDuplicateField = errors.New("duplicate field")
	ErrLayout         = errors.New("layout error")
	ErrEmit           = errors.New("emit error")
	ErrIO             = errors.New("i/o error")
	ErrProject        = errors.New("project error")
)

// Sentinel returns the sentinel error of k, nil for KindNone.
func (k Kind) Sentinel() error {
	switch k {
	case KindSyntax:
		return ErrSyntax
	case KindUnresolvedType:
		return ErrUnresolvedType
	case KindInvalidBound:
		return ErrInvalidBound
	case KindCyclicType:
		return ErrCyclicType
	case KindInvalidDefault:
		return ErrInvalidDefault
	case KindDuplicateField:
		return ErrDuplicateField
	case KindLayout:
		return ErrLayout
	case KindEmit:
		return ErrEmit
	case KindIO:
		return ErrIO
	case KindProject:
		return ErrProject
	}
	return nil
}

// Kind maps a code onto the error taxonomy.
func (c Code) Kind() Kind {
	switch c {
	case SemaUnresolvedType, SemaServiceHalfReference:
		return KindUnresolvedType
	case SemaInvalidBound:
		return KindInvalidBound
	case SemaCyclicType:
		return KindCyclicType
	case SemaInvalidDefault, SemaInvalidConstant:
		return KindInvalidDefault
	case SemaDuplicateField, SemaDuplicateMessage:
		return KindDuplicateField
	}
	switch ic := int(c); {
	case ic >= 1000 && ic < 3000:
		return KindSyntax
	case ic >= 4000 && ic < 5000:
		return KindIO
	case ic >= 5000 && ic < 6000:
		return KindLayout
	case ic >= 6000 && ic < 7000:
		return KindEmit
	case ic >= 7000 && ic < 8000:
		return KindProject
	}
	return KindNone
}

// Error is a located error-severity diagnostic usable as a Go error.
type Error struct {
	Diag *Diagnostic
	Path string
	Line uint32
	Col  uint32
}

func (e *Error) Error() string {
	var b strings.Builder
	switch {
	case e.Path != "" && e.Line > 0:
		fmt.Fprintf(&b, "%s:%d:%d: ", e.Path, e.Line, e.Col)
	case e.Path != "":
		fmt.Fprintf(&b, "%s: ", e.Path)
	}
	fmt.Fprintf(&b, "%s %s: %s", e.Diag.Code.ID(), e.Diag.Code.Kind(), e.Diag.Message)
	return b.String()
}

// Unwrap exposes the taxonomy sentinel.
func (e *Error) Unwrap() error {
	return e.Diag.Code.Kind().Sentinel()
}

// AsError locates d through fs. fs may be nil for span-less diagnostics.
func AsError(d *Diagnostic, fs *source.FileSet) *Error {
	e := &Error{Diag: d}
	if d.Path != "" {
		e.Path = d.Path
		return e
	}
	if fs != nil && int(d.Primary.File) < fs.Len() {
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		e.Path, e.Line, e.Col = f.Path, start.Line, start.Col
	}
	return e
}
