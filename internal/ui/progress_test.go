package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"weave/internal/pipeline"
)

func TestProgressModel_ApplyEvents(t *testing.T) {
	events := make(chan pipeline.Event)
	m := NewProgressModel("render", []string{"a.json", "b.json", "c.json"}, events).(*progressModel)

	steps := []pipeline.Event{
		{File: "a.json", Stage: pipeline.StageLoad, Status: pipeline.StatusWorking},
		{File: "a.json", Stage: pipeline.StageLoad, Status: pipeline.StatusDone},
		{File: "a.json", Stage: pipeline.StageRender, Status: pipeline.StatusDone},
		{File: "a.json", Stage: pipeline.StageWrite, Status: pipeline.StatusDone},
		{File: "b.json", Stage: pipeline.StageRender, Status: pipeline.StatusCached},
		{File: "b.json", Stage: pipeline.StageWrite, Status: pipeline.StatusDone},
		{File: "c.json", Stage: pipeline.StageLoad, Status: pipeline.StatusError},
		{File: "c.json", Stage: pipeline.StageRender, Status: pipeline.StatusWorking},
		{File: "unknown.json", Stage: pipeline.StageLoad, Status: pipeline.StatusDone},
	}
	for _, ev := range steps {
		m.applyEvent(ev)
	}

	want := []string{"done", "cached", "error"}
	for i, item := range m.items {
		if item.status != want[i] {
			t.Errorf("item %s status = %q, want %q", item.path, item.status, want[i])
		}
	}
	if finished, failed := m.counts(); finished != 3 || failed != 1 {
		t.Errorf("counts = %d finished, %d failed", finished, failed)
	}
	if p := m.percent(); p != 1 {
		t.Errorf("percent = %v, want 1", p)
	}

	view := m.View()
	if !strings.Contains(view, "render 3/3, 1 failed") || !strings.Contains(view, "b.json") {
		t.Errorf("unexpected view:\n%s", view)
	}
}

func TestProgressModel_Partial(t *testing.T) {
	m := NewProgressModel("render", []string{"a.json", "b.json"}, nil).(*progressModel)
	m.applyEvent(pipeline.Event{File: "a.json", Stage: pipeline.StageRender, Status: pipeline.StatusWorking})
	if m.items[0].status != "rendering" {
		t.Errorf("status = %q", m.items[0].status)
	}
	if p := m.percent(); p <= 0 || p >= 0.5 {
		t.Errorf("percent = %v", p)
	}
}

func TestTruncate(t *testing.T) {
	long := "shaders/very/deep/directory/structure/fragment.json"
	got := truncate(long, 20)
	if runewidth.StringWidth(got) > 20 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate() = %q", got)
	}
	if truncate("short", 20) != "short" {
		t.Error("short values must be kept")
	}
}
