// Package observ collects phase timings and counters for the --timings
// output of the CLI.
package observ

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// Phase is one timed step: tokenize, parse, assemble, ...
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks phases and named counters. It is safe for concurrent use so
// parallel file workers can share one.
type Timer struct {
	mu       sync.Mutex
	phases   []Phase
	counters map[string]int64
}

func NewTimer() *Timer {
	return &Timer{phases: make([]Phase, 0, 8), counters: make(map[string]int64)}
}

// Begin starts a phase and returns its index for End.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes the phase started by Begin.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Count adds n to the named counter ("files", "tokens", "code_bytes", ...).
func (t *Timer) Count(name string, n int64) {
	t.mu.Lock()
	t.counters[name] += n
	t.mu.Unlock()
}

// Summary renders the report as aligned text.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-20s %7.2f ms\n", "total", report.TotalMS)
	for _, name := range slices.Sorted(maps.Keys(report.Counters)) {
		fmt.Fprintf(&sb, "  %-20s %7d\n", name, report.Counters[name])
	}
	return sb.String()
}

// PhaseReport: сериализуемая информация о фазе.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report: агрегированные данные таймера.
type Report struct {
	TotalMS  float64          `json:"total_ms"`
	Phases   []PhaseReport    `json:"phases"`
	Counters map[string]int64 `json:"counters,omitempty"`
}

// Report snapshots phases in start order with the total duration.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	var report Report
	if len(t.counters) > 0 {
		report.Counters = maps.Clone(t.counters)
	}
	if len(t.phases) == 0 {
		return report
	}
	report.Phases = make([]PhaseReport, len(t.phases))
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
