package rosidl_test

import (
	"errors"
	"testing"

	"rosgen/runtime/rosidl"
)

func TestStringAssignGetFini(t *testing.T) {
	a := rosidl.NewTracking(nil)
	var s rosidl.String
	if err := s.Assign(a, "hello"); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if s.Size != 5 || s.Capacity != 6 {
		t.Errorf("size/capacity = %d/%d, want 5/6", s.Size, s.Capacity)
	}
	if got := s.Get(); got != "hello" {
		t.Errorf("Get = %q", got)
	}
	if err := s.Assign(a, "hi"); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if a.Live() != 1 {
		t.Errorf("reassign leaked: live = %d", a.Live())
	}
	s.Fini(a)
	s.Fini(a)
	if a.Live() != 0 || a.DoubleFrees() != 0 {
		t.Errorf("live=%d doubleFrees=%d", a.Live(), a.DoubleFrees())
	}
	if s != (rosidl.String{}) {
		t.Errorf("Fini left %+v", s)
	}
}

func TestStringEmptyKeepsTerminator(t *testing.T) {
	a := rosidl.NewTracking(nil)
	var s rosidl.String
	if err := s.Assign(a, ""); err != nil {
		t.Fatal(err)
	}
	if s.Data == nil || s.Size != 0 || s.Capacity != s.Size+1 || s.Get() != "" {
		t.Fatalf("empty string = %+v, want a 1-byte NUL buffer", s)
	}
	if *s.Data != 0 {
		t.Errorf("terminator = %d", *s.Data)
	}

	c, err := s.Clone(a)
	if err != nil {
		t.Fatal(err)
	}
	if c.Data == nil || c.Data == s.Data || c.Capacity != 1 {
		t.Errorf("clone of empty string = %+v", c)
	}

	var zero rosidl.String
	z, err := zero.Clone(a)
	if err != nil || z != (rosidl.String{}) {
		t.Errorf("clone of zeroed string = %+v, %v", z, err)
	}

	c.Fini(a)
	s.Fini(a)
	if a.Live() != 0 || a.DoubleFrees() != 0 {
		t.Errorf("live=%d doubleFrees=%d", a.Live(), a.DoubleFrees())
	}
}

func TestStringCloneIsIndependent(t *testing.T) {
	a := rosidl.NewTracking(nil)
	var s rosidl.String
	if err := s.Assign(a, "abc"); err != nil {
		t.Fatal(err)
	}
	c, err := s.Clone(a)
	if err != nil {
		t.Fatal(err)
	}
	if c.Data == s.Data {
		t.Fatalf("clone aliases the source buffer")
	}
	s.Fini(a)
	if c.Get() != "abc" {
		t.Errorf("clone = %q after source Fini", c.Get())
	}
	c.Fini(a)
	if a.Live() != 0 {
		t.Errorf("live = %d", a.Live())
	}
}

func TestSequenceFromAndToSlice(t *testing.T) {
	a := rosidl.NewTracking(nil)
	src := []int32{1, 2, 3}
	seq, err := rosidl.SequenceFrom(a, src)
	if err != nil {
		t.Fatal(err)
	}
	src[0] = 100
	got := seq.ToSlice()
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("ToSlice = %v", got)
	}
	got[1] = 42
	if seq.Slice()[1] != 2 {
		t.Errorf("ToSlice aliases the buffer")
	}
	seq.Fini(a)
	seq.Fini(a)
	if a.Live() != 0 || a.DoubleFrees() != 0 {
		t.Errorf("live=%d doubleFrees=%d", a.Live(), a.DoubleFrees())
	}
	if seq.ToSlice() != nil {
		t.Errorf("empty sequence should convert to nil")
	}
}

func TestStringSequenceDeepClone(t *testing.T) {
	a := rosidl.NewTracking(nil)
	names := []string{"a", "bb", ""}
	seq, err := rosidl.ConvertSequence(a, names, rosidl.MakeString, (*rosidl.String).Fini)
	if err != nil {
		t.Fatal(err)
	}
	clone, err := rosidl.CloneSequence(&seq, a, (*rosidl.String).Clone, (*rosidl.String).Fini)
	if err != nil {
		t.Fatal(err)
	}
	rosidl.FiniSequence(&seq, a, (*rosidl.String).Fini)
	got := rosidl.MapSequence(&clone, (*rosidl.String).Get)
	if len(got) != 3 || got[0] != "a" || got[1] != "bb" || got[2] != "" {
		t.Errorf("clone = %q", got)
	}
	rosidl.FiniSequence(&clone, a, (*rosidl.String).Fini)
	if a.Live() != 0 || a.DoubleFrees() != 0 {
		t.Errorf("live=%d doubleFrees=%d", a.Live(), a.DoubleFrees())
	}
}

func TestConvertSequenceRollsBack(t *testing.T) {
	a := rosidl.NewTracking(nil)
	// buffer + two strings succeed, the third string fails
	a.FailAfter(3)
	_, err := rosidl.ConvertSequence(a, []string{"x", "y", "z"}, rosidl.MakeString, (*rosidl.String).Fini)
	if !errors.Is(err, rosidl.ErrAllocation) {
		t.Fatalf("err = %v, want ErrAllocation", err)
	}
	if a.Live() != 0 || a.DoubleFrees() != 0 {
		t.Errorf("live=%d doubleFrees=%d after rollback", a.Live(), a.DoubleFrees())
	}
}

func TestCopyFixed(t *testing.T) {
	var arr [10]float64
	for _, n := range []int{9, 11} {
		err := rosidl.CopyFixed(arr[:], make([]float64, n))
		if !errors.Is(err, rosidl.ErrArrayLength) {
			t.Errorf("len %d: err = %v, want ErrArrayLength", n, err)
		}
	}
	src := make([]float64, 10)
	src[9] = 1.5
	if err := rosidl.CopyFixed(arr[:], src); err != nil {
		t.Fatalf("len 10: %v", err)
	}
	if arr[9] != 1.5 {
		t.Errorf("arr[9] = %v", arr[9])
	}
}

func TestCheckBound(t *testing.T) {
	if err := rosidl.CheckBound("name", 8, 8); err != nil {
		t.Errorf("at bound: %v", err)
	}
	err := rosidl.CheckBound("name", 9, 8)
	if !errors.Is(err, rosidl.ErrBoundExceeded) {
		t.Fatalf("err = %v", err)
	}
	if err.Error() != "rosidl: bound exceeded: name has length 9, bound is 8" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestTrackingDetectsDoubleFree(t *testing.T) {
	a := rosidl.NewTracking(nil)
	var s rosidl.String
	if err := s.Assign(a, "x"); err != nil {
		t.Fatal(err)
	}
	alias := s
	s.Fini(a)
	alias.Fini(a)
	if a.DoubleFrees() != 1 {
		t.Errorf("DoubleFrees = %d, want 1", a.DoubleFrees())
	}
}
