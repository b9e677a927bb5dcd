package testkit

import (
	"fmt"

	"rosgen/internal/ast"
	"rosgen/internal/source"
)

// CheckSchemaSpans runs a minimal set of span invariants on a parsed schema:
// 1) file.Span is non-empty
// 2) every declaration span is non-empty, in the same file and inside file.Span
// 3) declarations appear in source order and do not overlap
// 4) type, name and value spans lie inside their declaration
// 5) a non-empty block span covers all of its declarations
func CheckSchemaSpans(f *ast.File) error {
	if f == nil {
		return fmt.Errorf("nil file")
	}
	if f.Span.End <= f.Span.Start {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}
	if f.Span.File != f.Source {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, f.Source)
	}

	var prevEnd uint32
	for bi, b := range f.Blocks {
		for _, d := range b.Decls {
			sp := d.Span
			if sp.End <= sp.Start {
				return fmt.Errorf("empty span for %q: %v", d.Name, sp)
			}
			if !f.Span.Contains(sp) {
				return fmt.Errorf("decl %q span %v is outside file span %v", d.Name, sp, f.Span)
			}
			if sp.Start < prevEnd {
				return fmt.Errorf("decl %q span %v overlaps previous declaration ending at %d", d.Name, sp, prevEnd)
			}
			prevEnd = sp.End
			if err := within(sp, d.Type.Span, d.Name+" type"); err != nil {
				return err
			}
			if err := within(sp, d.NameSpan, d.Name+" name"); err != nil {
				return err
			}
			if d.Value != nil {
				if err := within(sp, d.Value.Span, d.Name+" value"); err != nil {
					return err
				}
			}
			if !b.Span.Contains(sp) {
				return fmt.Errorf("block %d span %v does not cover %q at %v", bi, b.Span, d.Name, sp)
			}
		}
	}
	return nil
}

func within(outer, inner source.Span, what string) error {
	if !outer.Contains(inner) {
		return fmt.Errorf("%s span %v is outside %v", what, inner, outer)
	}
	return nil
}
