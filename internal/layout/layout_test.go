package layout

import (
	"errors"
	"testing"

	"rosgen/internal/model"
	"rosgen/internal/types"
)

type msgMap map[types.QualifiedName]*model.MessageSpec

func (m msgMap) MessageByName(q types.QualifiedName) *model.MessageSpec { return m[q] }

type fixture struct {
	in   *types.Interner
	msgs msgMap
}

func newFixture() *fixture {
	return &fixture{in: types.NewInterner(), msgs: msgMap{}}
}

func (f *fixture) prim(p types.Prim) types.TypeID { return f.in.Builtins().Prim(p) }

func (f *fixture) nested(name string) types.TypeID {
	return f.in.Nested(types.QualifiedName{Package: "demo", Name: name})
}

func (f *fixture) add(name string, fields ...model.FieldSpec) *model.MessageSpec {
	q := types.QualifiedName{Package: "demo", Name: name}
	m := &model.MessageSpec{Name: q, Fields: fields}
	f.msgs[q] = m
	return m
}

func field(name string, t types.TypeID) model.FieldSpec {
	return model.FieldSpec{Name: name, Type: t}
}

func (f *fixture) engine() *LayoutEngine {
	return New(X86_64LinuxGNU(), f.in, f.msgs)
}

func TestPlanSample(t *testing.T) {
	f := newFixture()
	msg := f.add("Sample",
		field("x", f.prim(types.PrimInt32)),
		field("name", f.in.Builtins().Text),
		field("ids", f.in.FixedArray(f.prim(types.PrimInt32), 3)),
	)
	plan, err := f.engine().Plan(msg)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	want := []struct {
		name   string
		repr   Repr
		d      Discipline
		offset int
		size   int
	}{
		{"x", ReprInPlace, InPlace, 0, 4},
		{"name", ReprDescriptor, SingleBuffer, 8, 24},
		{"ids", ReprFixedArray, InPlace, 32, 12},
	}
	for i, w := range want {
		got := plan.Fields[i]
		if got.Name != w.name || got.Repr != w.repr || got.Discipline != w.d || got.Offset != w.offset || got.Size != w.size {
			t.Errorf("field %d = %+v, want %+v", i, got, w)
		}
	}
	if plan.Size != 48 || plan.Align != 8 {
		t.Errorf("size/align = %d/%d, want 48/8", plan.Size, plan.Align)
	}
	if !plan.Owns() {
		t.Errorf("Sample owns its string")
	}
}

func TestDisciplines(t *testing.T) {
	f := newFixture()
	f.add("Point",
		field("x", f.prim(types.PrimFloat64)),
		field("y", f.prim(types.PrimFloat64)),
	)
	f.add("Named", field("label", f.in.Builtins().Text))
	msg := f.add("Mix",
		field("p", f.nested("Point")),
		field("n", f.nested("Named")),
		field("ints", f.in.Sequence(f.prim(types.PrimInt32), types.Unbounded)),
		field("strs", f.in.Sequence(f.in.Text(4), 8)),
		field("fixed_strs", f.in.FixedArray(f.in.Builtins().Text, 2)),
		field("points", f.in.Sequence(f.nested("Point"), types.Unbounded)),
		field("flag", f.prim(types.PrimBool)),
	)
	plan, err := f.engine().Plan(msg)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	cases := map[string]struct {
		repr Repr
		d    Discipline
		elem Discipline
	}{
		"p":          {ReprEmbedded, InPlace, InPlace},
		"n":          {ReprEmbedded, RecursiveOwned, InPlace},
		"ints":       {ReprDescriptor, SingleBuffer, InPlace},
		"strs":       {ReprDescriptor, RecursiveOwned, SingleBuffer},
		"fixed_strs": {ReprFixedArray, RecursiveOwned, SingleBuffer},
		"points":     {ReprDescriptor, SingleBuffer, InPlace},
		"flag":       {ReprInPlace, InPlace, InPlace},
	}
	for _, fp := range plan.Fields {
		want := cases[fp.Name]
		if fp.Repr != want.repr || fp.Discipline != want.d || fp.ElemDiscipline != want.elem {
			t.Errorf("%s: repr=%s d=%s elem=%s, want %s %s %s", fp.Name, fp.Repr, fp.Discipline, fp.ElemDiscipline, want.repr, want.d, want.elem)
		}
	}
	if plan.Fields[0].Nested.Name != "Point" || !plan.Fields[5].IsNested() {
		t.Errorf("nested leaf not recorded")
	}
	// Point 16, Named 24, three sequences 72, two strings 48, bool 1: 161 rounded to 168
	if plan.Size != 168 {
		t.Errorf("size = %d, want 168", plan.Size)
	}
}

func TestSelfReferenceThroughSequence(t *testing.T) {
	f := newFixture()
	tree := f.add("Tree",
		field("value", f.prim(types.PrimInt32)),
		field("children", f.in.Sequence(f.nested("Tree"), types.Unbounded)),
	)
	f.add("Forest", field("root", f.nested("Tree")))
	e := f.engine()
	plan, err := e.Plan(tree)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Fields[1].Discipline != RecursiveOwned || plan.Fields[1].ElemDiscipline != RecursiveOwned {
		t.Errorf("children = %+v", plan.Fields[1])
	}
	forest, err := e.Plan(f.msgs[types.QualifiedName{Package: "demo", Name: "Forest"}])
	if err != nil {
		t.Fatalf("Plan forest: %v", err)
	}
	if forest.Size != 32 || forest.Fields[0].Discipline != RecursiveOwned {
		t.Errorf("forest = %+v", forest)
	}
}

func TestLayoutErrors(t *testing.T) {
	t.Run("in-place cycle", func(t *testing.T) {
		f := newFixture()
		node := f.add("Node", field("next", f.nested("Node")))
		_, err := f.engine().Plan(node)
		var le *LayoutError
		if !errors.As(err, &le) || le.Kind != LayoutErrRecursive {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("overflow", func(t *testing.T) {
		f := newFixture()
		big := f.add("Big", field("blob", f.in.FixedArray(f.prim(types.PrimUint64), 300_000_000)))
		_, err := f.engine().Plan(big)
		var le *LayoutError
		if !errors.As(err, &le) || le.Kind != LayoutErrOverflow || le.Field != "blob" {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("overflow inside a nested message", func(t *testing.T) {
		f := newFixture()
		f.add("Big", field("a", f.in.FixedArray(f.prim(types.PrimFloat64), 300_000_000)))
		huge := f.add("Huge", field("x", f.in.FixedArray(f.nested("Big"), 4294967295)))
		_, err := f.engine().Plan(huge)
		var le *LayoutError
		if !errors.As(err, &le) || le.Kind != LayoutErrOverflow {
			t.Fatalf("err = %v", err)
		}
		if !le.FromNested() || le.Inner.Name != "Big" {
			t.Errorf("Inner = %v, want demo/Big", le.Inner)
		}

		own := f.add("Wide", field("x", f.in.FixedArray(f.prim(types.PrimUint64), 300_000_000)))
		_, err = f.engine().Plan(own)
		if !errors.As(err, &le) || le.FromNested() || le.Field != "x" {
			t.Errorf("own overflow: err = %v, Inner = %v", err, le.Inner)
		}
	})
	t.Run("missing nested", func(t *testing.T) {
		f := newFixture()
		m := f.add("Holder", field("ghost", f.nested("Ghost")))
		_, err := f.engine().Plan(m)
		var le *LayoutError
		if !errors.As(err, &le) || le.Kind != LayoutErrMissing {
			t.Fatalf("err = %v", err)
		}
		if le.Error() != "nested message demo/Ghost has no layout in field demo/Holder.ghost" {
			t.Errorf("message = %q", le.Error())
		}
	})
}

func TestEmptyMessagePlaceholder(t *testing.T) {
	f := newFixture()
	plan, err := f.engine().Plan(f.add("Empty"))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if !plan.Placeholder || plan.Size != 1 || plan.Align != 1 {
		t.Errorf("plan = %+v", plan)
	}
}

func TestTargetByTriple(t *testing.T) {
	if tg, ok := TargetByTriple(""); !ok || tg.Triple != "x86_64-linux-gnu" {
		t.Errorf("default target = %+v", tg)
	}
	if _, ok := TargetByTriple("pdp11-unix"); ok {
		t.Errorf("unknown triple accepted")
	}
	if got := KnownTriples(); len(got) != 2 || got[0] != "aarch64-linux-gnu" {
		t.Errorf("KnownTriples = %v", got)
	}
}
