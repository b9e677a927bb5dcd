package sema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"rosgen/internal/ast"
	"rosgen/internal/diag"
	"rosgen/internal/symbols"
	"rosgen/internal/types"
)

// resolveType: primitives first, then the array suffix, then nested lookup.
func (rs *Resolver) resolveType(te *ast.TypeExpr, pkg string, r diag.Reporter) (types.TypeID, bool) {
	elem, ok := rs.resolveElem(te, pkg, r)
	if !ok {
		return types.NoTypeID, false
	}
	switch te.Array {
	case ast.ArrayNone:
		return elem, true
	case ast.ArrayFixed:
		n, ok := parseBound(te.ArrayBound, "array length", r)
		if !ok {
			return types.NoTypeID, false
		}
		return rs.Types.FixedArray(elem, n), true
	case ast.ArrayUnbounded:
		return rs.Types.Sequence(elem, types.Unbounded), true
	case ast.ArrayBounded:
		n, ok := parseBound(te.ArrayBound, "sequence bound", r)
		if !ok {
			return types.NoTypeID, false
		}
		return rs.Types.Sequence(elem, n), true
	default:
		panic(fmt.Sprintf("sema: unexpected array kind %d", te.Array))
	}
}

func (rs *Resolver) resolveElem(te *ast.TypeExpr, pkg string, r diag.Reporter) (types.TypeID, bool) {
	if te.Package == "" {
		if te.Name == "string" {
			if te.StringBound == nil {
				return rs.Types.Builtins().Text, true
			}
			n, ok := parseBound(te.StringBound, "string bound", r)
			if !ok {
				return types.NoTypeID, false
			}
			return rs.Types.Text(n), true
		}
		if p, ok := types.LookupPrim(te.Name); ok {
			if te.StringBound != nil {
				diag.ReportError(r, diag.SemaInvalidBound, te.StringBound.Span,
					fmt.Sprintf("'<=' bound only applies to string, not %s", te.Name)).Emit()
				return types.NoTypeID, false
			}
			return rs.Types.Builtins().Prim(p), true
		}
		if te.Name == "wstring" || te.Name == "wchar" {
			diag.ReportError(r, diag.SemaUnresolvedType, te.NameSpan,
				fmt.Sprintf("type '%s' is not supported", te.Name)).
				WithNote(te.NameSpan, "only 8-bit string is supported").
				Emit()
			return types.NoTypeID, false
		}
	}

	if te.StringBound != nil {
		diag.ReportError(r, diag.SemaInvalidBound, te.StringBound.Span,
			fmt.Sprintf("'<=' bound only applies to string, not %s", te.BaseName())).Emit()
		return types.NoTypeID, false
	}

	q := types.QualifiedName{Package: te.Package, Name: te.Name}
	if q.Package == "" {
		q.Package = pkg
	}
	if id, ok := rs.Symbols.Lookup(q); ok {
		if !rs.Symbols.Get(id).Kind.Referenceable() {
			panic("sema: non-message symbol in message namespace")
		}
		return rs.Types.Nested(q), true
	}
	if id, ok := rs.Symbols.LookupIn(symbols.NamespaceSrv, q); ok {
		sym := rs.Symbols.Get(id)
		diag.ReportError(r, diag.SemaServiceHalfReference, te.NameSpan,
			fmt.Sprintf("%s %s cannot be used as a field type", sym.Kind, q)).Emit()
		return types.NoTypeID, false
	}
	msg := fmt.Sprintf("unknown type '%s'", te.BaseName())
	if te.Package == "" {
		msg = fmt.Sprintf("unknown type '%s': not a primitive and no message %s in this invocation", te.Name, q)
	}
	diag.ReportError(r, diag.SemaUnresolvedType, te.NameSpan, msg).Emit()
	return types.NoTypeID, false
}

// parseBound validates a raw bound: a positive decimal that fits in uint32.
func parseBound(b *ast.Bound, what string, r diag.Reporter) (uint32, bool) {
	if b == nil {
		panic("sema: missing bound")
	}
	text := strings.TrimPrefix(b.Text, "+")
	fail := func(msg string) (uint32, bool) {
		diag.ReportError(r, diag.SemaInvalidBound, b.Span, msg).Emit()
		return 0, false
	}
	if strings.HasPrefix(text, "-") {
		return fail(fmt.Sprintf("%s must be positive, got %s", what, b.Text))
	}
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return fail(fmt.Sprintf("%s %s is too large", what, b.Text))
		}
		return fail(fmt.Sprintf("malformed %s '%s'", what, b.Text))
	}
	if v == 0 {
		return fail(fmt.Sprintf("%s must be positive, got %s", what, b.Text))
	}
	n, err := safecast.Conv[uint32](v)
	if err != nil {
		return fail(fmt.Sprintf("%s %s is too large", what, b.Text))
	}
	return n, true
}
