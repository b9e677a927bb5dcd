package layout

import (
	"fmt"
	"strings"

	"rosgen/internal/types"
)

// LayoutErrorKind enumerates types of layout calculation errors.
type LayoutErrorKind uint8

const (
	// LayoutErrRecursive indicates a message that contains itself in place.
	LayoutErrRecursive LayoutErrorKind = iota + 1
	// LayoutErrOverflow: the byte size does not fit the target.
	LayoutErrOverflow
	// LayoutErrMissing: a nested message has no resolved spec.
	LayoutErrMissing
	// LayoutErrUnsupported: a type the planner has no representation for.
	LayoutErrUnsupported
)

// LayoutError represents an error during memory layout calculation.
type LayoutError struct {
	Kind    LayoutErrorKind
	Type    string // formatted type
	Message types.QualifiedName
	Field   string
	Cycle   []types.QualifiedName // for LayoutErrRecursive
	// Inner is the nested message whose own layout failed; zero when the
	// failure belongs to the planned message.
	Inner types.QualifiedName
	Err   error
}

func (e *LayoutError) Error() string {
	if e == nil {
		return "<nil>"
	}
	where := ""
	if e.Field != "" {
		where = fmt.Sprintf(" in field %s.%s", e.Message, e.Field)
	}
	switch e.Kind {
	case LayoutErrRecursive:
		parts := make([]string, 0, len(e.Cycle))
		for _, q := range e.Cycle {
			parts = append(parts, q.String())
		}
		return fmt.Sprintf("message has infinite size (cycle: %s)", strings.Join(parts, " -> "))
	case LayoutErrOverflow:
		if e.Err != nil {
			return fmt.Sprintf("size of %s overflows the target%s: %v", e.Type, where, e.Err)
		}
		return fmt.Sprintf("size of %s overflows the target%s", e.Type, where)
	case LayoutErrMissing:
		return fmt.Sprintf("nested message %s has no layout%s", e.Type, where)
	case LayoutErrUnsupported:
		return fmt.Sprintf("unsupported type %s%s", e.Type, where)
	default:
		return fmt.Sprintf("layout error kind=%d type %s", e.Kind, e.Type)
	}
}

// FromNested reports whether the failure lies in a contained message.
func (e *LayoutError) FromNested() bool { return e != nil && e.Inner != (types.QualifiedName{}) }

func (e *LayoutError) Unwrap() error { return e.Err }

// withField attaches the owning field unless an inner field is already recorded.
func (e *LayoutError) withField(msg types.QualifiedName, field string) *LayoutError {
	if e == nil || e.Field != "" {
		return e
	}
	cp := *e
	cp.Message, cp.Field = msg, field
	return &cp
}

// within marks an error raised while laying out nested message q; the
// innermost message wins.
func (e *LayoutError) within(q types.QualifiedName) *LayoutError {
	if e == nil || e.FromNested() {
		return e
	}
	cp := *e
	cp.Inner = q
	return &cp
}
