package ui

import (
	"strings"
	"testing"
	"time"

	"aoc/internal/buildpipeline"
)

func TestProgressModelAppliesEvents(t *testing.T) {
	events := make(chan buildpipeline.Event)
	model := NewProgressModel("check", []string{"A.Mod", "B.Mod"}, events)
	m := model.(*progressModel)

	m.Update(eventMsg{File: "A.Mod", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})
	if m.items[0].label != "parsing" {
		t.Fatalf("A label = %q", m.items[0].label)
	}
	if p := m.percent(); p <= 0 || p >= 0.5 {
		t.Fatalf("percent after start = %.2f", p)
	}

	m.Update(eventMsg{File: "A.Mod", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusCached})
	m.Update(eventMsg{File: "B.Mod", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusError, Elapsed: 1500 * time.Microsecond})
	m.Update(eventMsg{File: "unknown.Mod", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusDone})
	m.Update(eventMsg{Stage: buildpipeline.StageGraph, Status: buildpipeline.StatusWorking})

	if m.finished() != 2 || m.percent() != 1 {
		t.Fatalf("finished = %d, percent = %.2f", m.finished(), m.percent())
	}
	view := m.View()
	for _, want := range []string{"check: 2/2 files", "(linking)", "cached", "error", "A.Mod", "B.Mod", "2ms"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view misses %q:\n%s", want, view)
		}
	}

	if _, cmd := m.Update(doneMsg{}); cmd == nil || !m.done {
		t.Fatalf("done message must quit")
	}
	if !strings.Contains(m.View(), "done: check") {
		t.Fatalf("final header missing:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("internal/very/long/path/Module.Mod", 12); got != "internal/..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("日本語.Mod", 4); got != "日本" {
		t.Fatalf("wide truncate = %q", got)
	}
	if got := truncate("Module.Mod", 5); got != "Modul" {
		t.Fatalf("narrow truncate = %q", got)
	}
	if got := truncate("Module.Mod", 6); got != "Mod..." {
		t.Fatalf("tail truncate = %q", got)
	}
	if got := truncate("short", 0); got != "short" {
		t.Fatalf("zero width = %q", got)
	}
}
