package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"rosgen/internal/buildpipeline"
)

func TestProgressModelTracksFiles(t *testing.T) {
	files := []string{"demo/msg/Point.msg", "demo/msg/Bad.msg"}
	m := NewProgressModel("rosgen generate", files, nil).(*progressModel)

	m.Update(eventMsg{File: files[0], Stage: buildpipeline.StageResolve, Status: buildpipeline.StatusWorking})
	m.Update(eventMsg{File: files[1], Stage: buildpipeline.StageParse, Status: buildpipeline.StatusError})
	m.Update(eventMsg{Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusWorking})
	m.Update(eventMsg{File: "unknown.msg", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusDone})

	view := m.View()
	for _, want := range []string{"rosgen generate (writing)", "resolving", "error", "demo/msg/Point.msg"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
	if got := m.percent(); got <= 0.5 || got >= 1 {
		t.Errorf("percent = %v", got)
	}

	m.Update(eventMsg{File: files[0], Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone})
	if got := m.percent(); got != 1 {
		t.Errorf("percent after write = %v", got)
	}
	m.Update(doneMsg{})
	if !strings.Contains(m.View(), "done: rosgen generate") {
		t.Errorf("final view:\n%s", m.View())
	}
}

func TestItemLabel(t *testing.T) {
	tests := []struct {
		item fileItem
		want string
	}{
		{fileItem{stage: buildpipeline.StageParse, status: buildpipeline.StatusQueued}, "queued"},
		{fileItem{stage: buildpipeline.StageLayout, status: buildpipeline.StatusWorking}, "layout"},
		{fileItem{stage: buildpipeline.StageLayout, status: buildpipeline.StatusDone}, "checked"},
		{fileItem{stage: buildpipeline.StageEmit, status: buildpipeline.StatusDone}, "done"},
		{fileItem{stage: buildpipeline.StageResolve, status: buildpipeline.StatusSkipped}, "skipped"},
	}
	for _, tt := range tests {
		if got := itemLabel(tt.item); got != tt.want {
			t.Errorf("itemLabel(%+v) = %q, want %q", tt.item, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("demo/msg/VeryLongName.msg", 10); got != "demo/ms..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	for _, width := range []int{4, 10, 20} {
		if got := truncate("demo/msg/VeryLongName.msg", width); runewidth.StringWidth(got) != width {
			t.Errorf("truncate(_, %d) = %q is %d columns wide", width, got, runewidth.StringWidth(got))
		}
	}
}
