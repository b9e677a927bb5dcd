package sema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"rosgen/internal/ast"
	"rosgen/internal/diag"
	"rosgen/internal/model"
	"rosgen/internal/types"
)

// valueError describes why a literal does not fit its type.
type valueError struct {
	msg string
	at  *ast.Value
}

func (e *valueError) Error() string { return e.msg }

func (rs *Resolver) checkDefault(d *ast.Decl, typ types.TypeID, r diag.Reporter) (model.Value, bool) {
	v, err := rs.checkValue(d.Value, typ)
	if err != nil {
		diag.ReportError(r, diag.SemaInvalidDefault, err.at.Span,
			fmt.Sprintf("invalid default for field '%s' of type %s: %s", d.Name, rs.Types.Format(typ), err.msg)).Emit()
		return model.Value{}, false
	}
	return v, true
}

func (rs *Resolver) checkConstant(d *ast.Decl, typ types.TypeID, r diag.Reporter) (model.Value, bool) {
	tt := rs.Types.MustLookup(typ)
	if tt.Kind != types.KindPrimitive && tt.Kind != types.KindText {
		diag.ReportError(r, diag.SemaInvalidConstant, d.Type.Span,
			fmt.Sprintf("constant '%s' has type %s; constants must be a primitive or string", d.Name, rs.Types.Format(typ))).Emit()
		return model.Value{}, false
	}
	v, err := rs.checkValue(d.Value, typ)
	if err != nil {
		diag.ReportError(r, diag.SemaInvalidConstant, err.at.Span,
			fmt.Sprintf("invalid value for constant '%s' of type %s: %s", d.Name, rs.Types.Format(typ), err.msg)).Emit()
		return model.Value{}, false
	}
	return v, true
}

func (rs *Resolver) checkValue(v *ast.Value, typ types.TypeID) (model.Value, *valueError) {
	tt := rs.Types.MustLookup(typ)
	fail := func(format string, args ...any) (model.Value, *valueError) {
		return model.Value{}, &valueError{msg: fmt.Sprintf(format, args...), at: v}
	}
	switch tt.Kind {
	case types.KindPrimitive:
		return checkScalar(v, tt.Prim)
	case types.KindText:
		if v.Kind != ast.ValueString {
			return fail("expected a quoted string, found %s %s", v.Kind, v.Text)
		}
		if tt.Count != types.Unbounded && uint64(len(v.Str)) > uint64(tt.Count) {
			return fail("string of %d bytes exceeds bound %d", len(v.Str), tt.Count)
		}
		return model.Value{Kind: model.ValueString, Str: v.Str, Text: v.Text}, nil
	case types.KindFixedArray, types.KindSequence:
		if v.Kind != ast.ValueArray {
			return fail("expected an array literal, found %s %s", v.Kind, v.Text)
		}
		n := uint64(len(v.Elems))
		switch {
		case tt.Kind == types.KindFixedArray && n != uint64(tt.Count):
			return fail("array needs exactly %d elements, got %d", tt.Count, n)
		case tt.Kind == types.KindSequence && tt.Count != types.Unbounded && n > uint64(tt.Count):
			return fail("sequence allows at most %d elements, got %d", tt.Count, n)
		}
		out := model.Value{Kind: model.ValueArray, Text: v.Text, Elems: make([]model.Value, 0, len(v.Elems))}
		for _, e := range v.Elems {
			ev, err := rs.checkValue(e, tt.Elem)
			if err != nil {
				return model.Value{}, err
			}
			out.Elems = append(out.Elems, ev)
		}
		return out, nil
	case types.KindNested:
		return fail("fields of message type cannot have a default")
	default:
		panic(fmt.Sprintf("sema: unexpected type kind %s", tt.Kind))
	}
}

func checkScalar(v *ast.Value, p types.Prim) (model.Value, *valueError) {
	fail := func(format string, args ...any) (model.Value, *valueError) {
		return model.Value{}, &valueError{msg: fmt.Sprintf(format, args...), at: v}
	}
	info := p.Info()
	switch {
	case p == types.PrimBool:
		b, ok := parseBool(v)
		if !ok {
			return fail("expected true or false, found %s", v.Text)
		}
		return model.Value{Kind: model.ValueBool, Bool: b, Text: v.Text}, nil

	case info.Float:
		if v.Kind != ast.ValueInt && v.Kind != ast.ValueFloat {
			return fail("expected a number, found %s %s", v.Kind, v.Text)
		}
		f, err := strconv.ParseFloat(v.Text, info.Bits)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return fail("%s is out of range for %s", v.Text, info.Name)
			}
			return fail("malformed number %s", v.Text)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fail("%s is not a finite number", v.Text)
		}
		return model.Value{Kind: model.ValueFloat, Float: f, Text: v.Text}, nil

	case info.Signed:
		if v.Kind != ast.ValueInt {
			return fail("expected an integer, found %s %s", v.Kind, v.Text)
		}
		text, base, ok := intBase(v.Text)
		if !ok {
			return fail("malformed integer %s", v.Text)
		}
		n, err := strconv.ParseInt(text, base, info.Bits)
		switch {
		case errors.Is(err, strconv.ErrSyntax):
			return fail("malformed integer %s", v.Text)
		case err != nil:
			return fail("%s is out of range for %s [%d, %d]", v.Text, info.Name, minSigned(info.Bits), maxSigned(info.Bits))
		}
		return model.Value{Kind: model.ValueInt, Int: n, Text: v.Text}, nil

	default:
		if v.Kind != ast.ValueInt {
			return fail("expected an integer, found %s %s", v.Kind, v.Text)
		}
		// -0 допустим и для беззнаковых
		neg := strings.HasPrefix(v.Text, "-")
		text, base, ok := intBase(strings.TrimPrefix(v.Text, "-"))
		if !ok {
			return fail("malformed integer %s", v.Text)
		}
		n, err := strconv.ParseUint(text, base, info.Bits)
		switch {
		case errors.Is(err, strconv.ErrSyntax):
			return fail("malformed integer %s", v.Text)
		case err != nil, neg && n != 0:
			return fail("%s is out of range for %s [0, %d]", v.Text, info.Name, maxUnsigned(info.Bits))
		}
		return model.Value{Kind: model.ValueUint, Uint: n, Text: v.Text}, nil
	}
}

func parseBool(v *ast.Value) (bool, bool) {
	switch v.Kind {
	case ast.ValueIdent:
		switch v.Text {
		case "true", "True":
			return true, true
		case "false", "False":
			return false, true
		}
	case ast.ValueInt:
		switch v.Text {
		case "1":
			return true, true
		case "0":
			return false, true
		}
	}
	return false, false
}

// intBase: decimal unless 0x/0o/0b prefix; a leading zero is still decimal.
// intBase splits off the sign and base prefix and drops '_' separators.
// A separator must sit between two digits; ok is false otherwise, and for a
// prefix with no digits.
func intBase(text string) (digits string, base int, ok bool) {
	sign, body := "", text
	if strings.HasPrefix(body, "-") {
		sign, body = "-", body[1:]
	}
	base = 10
	if len(body) >= 2 && body[0] == '0' {
		switch body[1] {
		case 'x', 'X':
			base, body = 16, body[2:]
		case 'o', 'O':
			base, body = 8, body[2:]
		case 'b', 'B':
			base, body = 2, body[2:]
		}
	}
	if body == "" || body[0] == '_' || body[len(body)-1] == '_' || strings.Contains(body, "__") {
		return "", base, false
	}
	return sign + strings.ReplaceAll(body, "_", ""), base, true
}

func minSigned(bits int) int64 { return -1 << (bits - 1) }
func maxSigned(bits int) int64 { return 1<<(bits-1) - 1 }
func maxUnsigned(bits int) uint64 { return 1<<bits - 1 }
