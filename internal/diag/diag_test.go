package diag

import (
	"errors"
	"strings"
	"testing"

	"rosgen/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("demo/msg/Sample.msg", []byte("int32 x\nint32 x\n"))

	diags := []*Diagnostic{
		NewError(SemaDuplicateField, source.Span{File: file, Start: 14, End: 15}, "duplicate field 'x'\nin demo/Sample").
			WithNote(source.Span{File: file, Start: 6, End: 7}, "first declared here"),
		{
			Severity: SevWarning,
			Code:     SemaFieldNameStyle,
			Message:  "style",
			Primary:  source.Span{File: file, Start: 6, End: 7},
		},
		NewPathError(IOWriteFileError, "out/demo/msg/sample.go", "permission denied"),
	}

	expected := "note SEM3007 demo/msg/Sample.msg:1:7 first declared here\n" +
		"warning SEM3100 demo/msg/Sample.msg:1:7 style\n" +
		"error SEM3007 demo/msg/Sample.msg:2:7 duplicate field 'x' in demo/Sample\n" +
		"error IO4002 out/demo/msg/sample.go permission denied"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestCodeKind(t *testing.T) {
	cases := []struct {
		code Code
		want Kind
	}{
		{LexUnterminatedString, KindSyntax},
		{SynMissingServiceSep, KindSyntax},
		{SemaUnresolvedType, KindUnresolvedType},
		{SemaServiceHalfReference, KindUnresolvedType},
		{SemaInvalidBound, KindInvalidBound},
		{SemaCyclicType, KindCyclicType},
		{SemaInvalidDefault, KindInvalidDefault},
		{SemaDuplicateField, KindDuplicateField},
		{IOLoadFileError, KindIO},
		{LayoutOverflow, KindLayout},
		{EmitNameCollision, KindEmit},
		{SemaFieldNameStyle, KindNone},
	}
	for _, tc := range cases {
		if got := tc.code.Kind(); got != tc.want {
			t.Errorf("%s.Kind() = %s, want %s", tc.code.ID(), got, tc.want)
		}
	}
}

func TestBagErrMatchesSentinels(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("a.msg", []byte("foo x\n"))

	bag := NewBag(0)
	if bag.Err(fs) != nil {
		t.Fatal("empty bag must not produce an error")
	}
	bag.Add(NewError(SemaUnresolvedType, source.Span{File: file, Start: 0, End: 3}, "unknown type 'foo'"))
	bag.Add(New(SevWarning, SemaFieldNameStyle, source.Span{File: file, Start: 4, End: 5}, "style"))
	bag.Add(NewPathError(IOLoadFileError, "missing.msg", "no such file"))

	err := bag.Err(fs)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrUnresolvedType) || !errors.Is(err, ErrIO) {
		t.Errorf("sentinels not matched: %v", err)
	}
	if errors.Is(err, ErrSyntax) {
		t.Error("unexpected ErrSyntax match")
	}
	if !strings.Contains(err.Error(), "a.msg:1:1: SEM3001 UnresolvedTypeError: unknown type 'foo'") {
		t.Errorf("message = %q", err.Error())
	}
	if !bag.HasKind(KindIO) || bag.HasKind(KindCyclicType) {
		t.Error("HasKind mismatch")
	}
}

func TestBagLimitKeepsFailure(t *testing.T) {
	bag := NewBag(1)
	bag.Add(New(SevWarning, SemaFieldNameStyle, source.Span{}, "w"))
	if bag.Add(NewError(SemaCyclicType, source.Span{}, "cycle")) {
		t.Fatal("limit not enforced")
	}
	if !bag.HasErrors() {
		t.Error("dropped error must still fail the bag")
	}
	if bag.Dropped() != 1 {
		t.Errorf("Dropped = %d", bag.Dropped())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewError(SemaDuplicateField, source.Span{File: 0, Start: 10, End: 11}, "b"))
	bag.Add(NewError(SemaUnresolvedType, source.Span{File: 0, Start: 2, End: 3}, "a"))
	bag.Add(NewError(SemaUnresolvedType, source.Span{File: 0, Start: 2, End: 3}, "a"))
	bag.Dedup()
	bag.Sort()
	if bag.Len() != 2 {
		t.Fatalf("Len = %d", bag.Len())
	}
	if bag.Items()[0].Message != "a" {
		t.Errorf("sort order wrong: %q first", bag.Items()[0].Message)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 1, End: 2}
	ReportError(r, SynUnexpectedToken, sp, "x").Emit()
	ReportError(r, SynUnexpectedToken, sp, "x").Emit()
	ReportWarning(r, SynUnexpectedToken, sp, "y").Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
}
