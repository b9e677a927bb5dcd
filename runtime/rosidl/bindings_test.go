package rosidl_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	fixture_msg "rosgen/internal/fixture/gen/fixture/msg"
	fixture_srv "rosgen/internal/fixture/gen/fixture/srv"
	geo_msg "rosgen/internal/fixture/gen/geo/msg"
	"rosgen/runtime/rosidl"
)

// Типы ниже сгенерированы rosgen из internal/fixture/schemas; driver
// проверяет, что они совпадают с текущим выводом генератора.
type (
	Scene   = fixture_msg.Scene
	Scene_C = fixture_msg.Scene_C
	Named   = fixture_msg.Named
	Point   = geo_msg.Point
)

func sampleScene(i int) Scene {
	m := fixture_msg.NewScene()
	m.Origin = Point{X: float64(i), Y: -1}
	m.Points = []Point{{X: 1, Y: 2}, {X: 3, Y: 4}}
	m.Names = []Named{
		{Label: fmt.Sprintf("n%d", i), Tags: []string{"a", "bb"}},
		{Label: "", Tags: []string{""}},
	}
	m.Pair = [2]Named{{Label: "left"}, {Label: "right", Tags: []string{"r"}}}
	m.Data = []uint8{0, 1, 2, 255}
	return m
}

func TestSceneLifecycleLeavesNothingBehind(t *testing.T) {
	a := rosidl.NewTracking(nil)
	for i := range 1000 {
		m := sampleScene(i)
		c, err := m.ToC(a)
		if err != nil {
			t.Fatalf("iteration %d: ToC: %v", i, err)
		}
		dup, err := c.Clone(a)
		if err != nil {
			t.Fatalf("iteration %d: Clone: %v", i, err)
		}
		c.Fini(a)
		c.Fini(a)
		back := fixture_msg.SceneFromC(&dup, a)
		if !reflect.DeepEqual(back, m) {
			t.Fatalf("iteration %d: round trip through a clone changed the value:\n got %+v\nwant %+v", i, back, m)
		}
		if dup != (Scene_C{}) {
			t.Fatalf("iteration %d: FromC left the raw value non-zero", i)
		}
	}
	if a.Live() != 0 || a.DoubleFrees() != 0 {
		t.Errorf("live=%d doubleFrees=%d after 1000 iterations", a.Live(), a.DoubleFrees())
	}
	if a.Allocs() != a.Frees() {
		t.Errorf("allocs=%d frees=%d", a.Allocs(), a.Frees())
	}
}

func TestSceneRoundTrip(t *testing.T) {
	m := sampleScene(7)
	c, err := m.ToC(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Fini(nil)
	if got := c.ToGo(); !reflect.DeepEqual(got, m) {
		t.Errorf("ToGo = %+v, want %+v", got, m)
	}
	if c.Title.Get() != "untitled" || c.Names.Len() != 2 || c.Data.Len() != 4 {
		t.Errorf("raw value = %+v", c)
	}
}

func TestSceneBoundsAreChecked(t *testing.T) {
	a := rosidl.NewTracking(nil)
	m := sampleScene(0)
	m.Names = make([]Named, 5)
	if _, err := m.ToC(a); !errors.Is(err, rosidl.ErrBoundExceeded) {
		t.Errorf("five names: err = %v", err)
	}
	m = sampleScene(0)
	m.Title = "ninechars"
	if _, err := m.ToC(a); !errors.Is(err, rosidl.ErrBoundExceeded) {
		t.Errorf("long title: err = %v", err)
	}
	if a.Live() != 0 {
		t.Errorf("failed conversions leaked %d buffers", a.Live())
	}
}

func TestSceneFailedAllocationRollsBack(t *testing.T) {
	m := sampleScene(1)
	counting := rosidl.NewTracking(nil)
	c, err := m.ToC(counting)
	if err != nil {
		t.Fatal(err)
	}
	total := counting.Allocs()
	c.Fini(counting)

	for n := range total {
		a := rosidl.NewTracking(nil)
		a.FailAfter(n)
		if _, err := m.ToC(a); !errors.Is(err, rosidl.ErrAllocation) {
			t.Fatalf("fail after %d: ToC err = %v", n, err)
		}
		if a.Live() != 0 || a.DoubleFrees() != 0 {
			t.Fatalf("fail after %d: ToC live=%d doubleFrees=%d", n, a.Live(), a.DoubleFrees())
		}

		src, err := m.ToC(rosidl.GoAllocator{})
		if err != nil {
			t.Fatal(err)
		}
		b := rosidl.NewTracking(nil)
		b.FailAfter(n)
		if _, err := src.Clone(b); !errors.Is(err, rosidl.ErrAllocation) {
			t.Fatalf("fail after %d: Clone err = %v", n, err)
		}
		if b.Live() != 0 || b.DoubleFrees() != 0 {
			t.Fatalf("fail after %d: Clone live=%d doubleFrees=%d", n, b.Live(), b.DoubleFrees())
		}
	}
}

func TestSceneCloneIsDeep(t *testing.T) {
	m := sampleScene(3)
	dup := m.Clone()
	dup.Names[0].Tags[0] = "changed"
	dup.Pair[1].Tags[0] = "changed"
	dup.Data[0] = 9
	if m.Names[0].Tags[0] != "a" || m.Pair[1].Tags[0] != "r" || m.Data[0] != 0 {
		t.Errorf("Clone shares memory with the original: %+v", m)
	}

	c, err := m.ToC(nil)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := c.Clone(nil)
	if err != nil {
		t.Fatal(err)
	}
	if raw.Title.Data == c.Title.Data || raw.Names.Data == c.Names.Data || raw.Names.Slice()[0].Tags.Data == c.Names.Slice()[0].Tags.Data {
		t.Errorf("raw clone shares buffers with the source")
	}
}

func TestSetPairExactLength(t *testing.T) {
	var m Scene
	for _, n := range []int{1, 3} {
		if err := m.SetPair(make([]Named, n)); !errors.Is(err, rosidl.ErrArrayLength) {
			t.Errorf("len %d: err = %v", n, err)
		}
	}
	if err := m.SetPair([]Named{{Label: "a"}, {Label: "b"}}); err != nil {
		t.Fatal(err)
	}
	if m.Pair[1].Label != "b" {
		t.Errorf("Pair = %+v", m.Pair)
	}
}

func TestSceneDefaults(t *testing.T) {
	m := fixture_msg.NewScene()
	if m.Title != "untitled" || m.Names != nil || m.Points != nil {
		t.Errorf("NewScene = %+v", m)
	}
	if fixture_msg.Scene_LIMIT != 10 || fixture_msg.Scene_TypeName != "fixture/msg/Scene" {
		t.Errorf("LIMIT=%d TypeName=%q", fixture_msg.Scene_LIMIT, fixture_msg.Scene_TypeName)
	}
	if c := fixture_msg.NewScene_C(); c != (Scene_C{}) {
		t.Errorf("NewScene_C is not zeroed")
	}
}

func sampleTree() fixture_msg.Tree {
	return fixture_msg.Tree{
		Name: "root",
		Children: []fixture_msg.Tree{
			{Name: "a", Children: []fixture_msg.Tree{{Name: "a1"}, {Name: "a2"}}},
			{Name: ""},
		},
	}
}

func TestTreeLifecycle(t *testing.T) {
	a := rosidl.NewTracking(nil)
	for i := range 100 {
		m := sampleTree()
		c, err := m.ToC(a)
		if err != nil {
			t.Fatalf("iteration %d: ToC: %v", i, err)
		}
		dup, err := c.Clone(a)
		if err != nil {
			t.Fatalf("iteration %d: Clone: %v", i, err)
		}
		if dup.Children.Slice()[0].Children.Data == c.Children.Slice()[0].Children.Data {
			t.Fatalf("iteration %d: nested children share a buffer", i)
		}
		c.Fini(a)
		if back := fixture_msg.TreeFromC(&dup, a); !reflect.DeepEqual(back, m) {
			t.Fatalf("iteration %d: got %+v, want %+v", i, back, m)
		}
	}
	if a.Live() != 0 || a.DoubleFrees() != 0 {
		t.Errorf("live=%d doubleFrees=%d", a.Live(), a.DoubleFrees())
	}
}

func TestTreeBoundInsideChildRollsBack(t *testing.T) {
	a := rosidl.NewTracking(nil)
	m := sampleTree()
	m.Children[0].Children[1].Name = "ninechars"
	if _, err := m.ToC(a); !errors.Is(err, rosidl.ErrBoundExceeded) {
		t.Fatalf("err = %v", err)
	}
	if a.Live() != 0 || a.DoubleFrees() != 0 {
		t.Errorf("live=%d doubleFrees=%d", a.Live(), a.DoubleFrees())
	}
}

func TestTreeCloneIsDeep(t *testing.T) {
	m := sampleTree()
	dup := m.Clone()
	dup.Children[0].Children[0].Name = "changed"
	if m.Children[0].Children[0].Name != "a1" {
		t.Errorf("Clone shares children with the original")
	}
}

func TestLookupServiceRoundTrip(t *testing.T) {
	a := rosidl.NewTracking(nil)

	req := fixture_srv.NewLookup_Request()
	req.Key = "robot"
	rc, err := req.ToC(a)
	if err != nil {
		t.Fatal(err)
	}
	if got := fixture_srv.Lookup_RequestFromC(&rc, a); got != req {
		t.Errorf("request = %+v, want %+v", got, req)
	}
	req.Key = "seventeen-chars!!"
	if _, err := req.ToC(a); !errors.Is(err, rosidl.ErrBoundExceeded) {
		t.Errorf("long key: err = %v", err)
	}

	resp := fixture_srv.NewLookup_Response()
	resp.Found = true
	resp.Value = Named{Label: "arm", Tags: []string{"x", "y"}}
	sc, err := resp.ToC(a)
	if err != nil {
		t.Fatal(err)
	}
	dup, err := sc.Clone(a)
	if err != nil {
		t.Fatal(err)
	}
	fixture_srv.Lookup_ResponseFromC(&sc, a)
	if got := fixture_srv.Lookup_ResponseFromC(&dup, a); !reflect.DeepEqual(got, resp) {
		t.Errorf("response = %+v, want %+v", got, resp)
	}
	if a.Live() != 0 || a.DoubleFrees() != 0 {
		t.Errorf("live=%d doubleFrees=%d", a.Live(), a.DoubleFrees())
	}
	if fixture_srv.Lookup_TypeName != "fixture/srv/Lookup" {
		t.Errorf("Lookup_TypeName = %q", fixture_srv.Lookup_TypeName)
	}
}

func TestPointOwnsNothing(t *testing.T) {
	a := rosidl.NewTracking(nil)
	p := Point{X: 1, Y: 2}
	c, err := p.ToC(a)
	if err != nil {
		t.Fatal(err)
	}
	if a.Allocs() != 0 {
		t.Errorf("Point.ToC allocated %d buffers", a.Allocs())
	}
	if got := geo_msg.PointFromC(&c, a); got != p {
		t.Errorf("got %+v", got)
	}
}
