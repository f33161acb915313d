package main

import (
	"bytes"
	"strings"
	"testing"

	"aoc/internal/driver"
)

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in   string
		want uiMode
		ok   bool
	}{
		{"", uiModeAuto, true},
		{" AUTO ", uiModeAuto, true},
		{"on", uiModeOn, true},
		{"Off", uiModeOff, true},
		{"sometimes", "", false},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Fatalf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestShouldUseTUIOverrides(t *testing.T) {
	if shouldUseTUI(uiModeOn, true, "pretty") {
		t.Fatalf("quiet run must not use the progress view")
	}
	if shouldUseTUI(uiModeOn, false, "json") {
		t.Fatalf("json output must not use the progress view")
	}
	if !shouldUseTUI(uiModeOn, false, "pretty") {
		t.Fatalf("--ui=on ignored")
	}
}

func TestColorEnabled(t *testing.T) {
	if on, err := colorEnabled("on"); err != nil || !on {
		t.Fatalf("on = %v, %v", on, err)
	}
	if on, err := colorEnabled("off"); err != nil || on {
		t.Fatalf("off = %v, %v", on, err)
	}
	if _, err := colorEnabled("rainbow"); err == nil {
		t.Fatalf("expected error for unknown value")
	}
}

func TestHexBytes(t *testing.T) {
	if got := hexBytes([]byte{0x48, 0x89, 0xc8}); got != "48 89 C8" {
		t.Fatalf("hexBytes = %q", got)
	}
	if got := hexBytes(nil); got != "" {
		t.Fatalf("hexBytes(nil) = %q", got)
	}
}

func TestPrintCheckSummary(t *testing.T) {
	res := &driver.CheckResult{
		Files:   make([]driver.CheckFile, 3),
		Order:   []string{"A", "C", "B"},
		Batches: [][]string{{"A", "C"}, {"B"}},
		Cycles:  []string{"X", "Y"},
		Hits:    1,
	}
	var buf bytes.Buffer
	printCheckSummary(&buf, res)
	out := buf.String()
	for _, want := range []string{"  1  A C\n", "  2  B\n", "cycle: X Y\n", "checked 3 file(s), 3 module(s) in load order, 1 cached"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
