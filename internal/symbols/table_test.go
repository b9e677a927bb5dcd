package symbols

import (
	"testing"

	"rosgen/internal/model"
	"rosgen/internal/types"
)

func qn(pkg, name string) types.QualifiedName {
	return types.QualifiedName{Package: pkg, Name: name}
}

func TestDeclareDetectsDuplicates(t *testing.T) {
	table := NewTable(4)
	first, ok := table.Declare(qn("demo", "Point"), KindMessage, 1, spanOf(1))
	if !ok || !first.IsValid() {
		t.Fatalf("first declare failed")
	}
	again, ok := table.Declare(qn("demo", "Point"), KindMessage, 2, spanOf(2))
	if ok || again != first {
		t.Fatalf("duplicate should return previous symbol, got %d ok=%v", again, ok)
	}
	// service namespace is separate
	if _, ok := table.Declare(qn("demo", "Point"), KindService, 3, spanOf(3)); !ok {
		t.Fatalf("service may share a message name")
	}
	if table.Len() != 2 {
		t.Fatalf("len = %d", table.Len())
	}
}

func TestLookupOnlySeesMessages(t *testing.T) {
	table := NewTable(0)
	table.Declare(qn("demo", "Add_Request"), KindRequest, 1, spanOf(1))
	if _, ok := table.Lookup(qn("demo", "Add_Request")); ok {
		t.Fatalf("service halves must not resolve as message types")
	}
	id, ok := table.LookupIn(NamespaceSrv, qn("demo", "Add_Request"))
	if !ok || table.Get(id).Kind.Referenceable() {
		t.Fatalf("half lookup: ok=%v", ok)
	}
}

func TestTwoPhaseLifecycle(t *testing.T) {
	table := NewTable(0)
	id, _ := table.Declare(qn("demo", "A"), KindMessage, 1, spanOf(1))

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("fill before freeze must panic")
			}
		}()
		table.FillMessage(id, &model.MessageSpec{})
	}()

	table.Freeze()
	spec := &model.MessageSpec{Name: qn("demo", "A")}
	table.FillMessage(id, spec)
	if table.MessageByName(qn("demo", "A")) != spec {
		t.Fatalf("filled spec not returned")
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("declare after freeze must panic")
		}
	}()
	table.Declare(qn("demo", "B"), KindMessage, 1, spanOf(1))
}

func TestSymbolsSorted(t *testing.T) {
	table := NewTable(0)
	table.Declare(qn("b", "Z"), KindMessage, 1, spanOf(1))
	table.Declare(qn("a", "Y"), KindService, 1, spanOf(1))
	table.Declare(qn("a", "X"), KindMessage, 1, spanOf(1))
	var got []string
	for _, id := range table.Symbols() {
		got = append(got, table.Get(id).Name.String())
	}
	want := []string{"a/X", "b/Z", "a/Y"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
