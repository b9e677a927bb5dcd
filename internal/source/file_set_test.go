package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("demo/msg/Sample.msg", []byte("int32 x"), 0)
	id2 := fs.Add("demo/msg/Sample.msg", []byte("int64 x"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("unexpected ids %d %d", id1, id2)
	}
	latest, ok := fs.GetLatest("demo/msg/Sample.msg")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v; want %d", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "int32 x" {
		t.Errorf("old content lost: %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d", fs.Len())
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.msg", []byte("int32 x\nstring name\n"))

	start, end := fs.Resolve(Span{File: id, Start: 8, End: 14})
	if start != (LineCol{Line: 2, Col: 1}) {
		t.Errorf("start = %+v", start)
	}
	if end != (LineCol{Line: 2, Col: 7}) {
		t.Errorf("end = %+v", end)
	}

	// перевод строки принадлежит строке, которую он завершает
	nl, _ := fs.Resolve(Span{File: id, Start: 7, End: 7})
	if nl.Line != 1 || nl.Col != 8 {
		t.Errorf("newline position = %+v", nl)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.msg", []byte("one\ntwo\nthree")))
	cases := map[uint32]string{0: "", 1: "one", 2: "two", 3: "three", 4: ""}
	for line, want := range cases {
		if got := f.GetLine(line); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, want)
		}
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Pose.msg")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("float64 x\r\nfloat64 y\r\n")...)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "float64 x\nfloat64 y\n" {
		t.Errorf("content not normalized: %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b", f.Flags)
	}
	if f.Stem() != "Pose" || f.Ext() != "msg" {
		t.Errorf("Stem/Ext = %q/%q", f.Stem(), f.Ext())
	}
}

func TestLoadMissing(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "nope.msg")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Errorf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Errorf("cross-file Cover = %v", got)
	}
	if !a.Cover(b).Contains(a) {
		t.Error("cover must contain a")
	}
}
