package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	parse := tm.Begin("parse")
	time.Sleep(time.Millisecond)
	tm.End(parse, "3 files")
	emit := tm.Begin("emit")
	tm.End(emit, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "parse" || r.Phases[1].Name != "emit" {
		t.Fatalf("phases = %+v", r.Phases)
	}
	if r.Phases[0].DurationMS <= 0 || r.TotalMS < r.Phases[0].DurationMS {
		t.Errorf("durations = %+v total %v", r.Phases, r.TotalMS)
	}
	if p, ok := r.Phase("parse"); !ok || p.Note != "3 files" {
		t.Errorf("Phase(parse) = %+v, %v", p, ok)
	}
	if _, ok := r.Phase("write"); ok {
		t.Error("Phase(write) found")
	}

	sum := tm.Summary()
	for _, want := range []string{"timings:", "parse", "// 3 files", "total"} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary lacks %q:\n%s", want, sum)
		}
	}
}

func TestEmptyReport(t *testing.T) {
	r := NewTimer().Report()
	if r.TotalMS != 0 || len(r.Phases) != 0 {
		t.Errorf("report = %+v", r)
	}
}
