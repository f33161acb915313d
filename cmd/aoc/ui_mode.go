package main

import (
	"fmt"
	"os"
	"strings"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

var uiModes = map[string]uiMode{"": uiModeAuto, "auto": uiModeAuto, "on": uiModeOn, "off": uiModeOff}

// readUIMode parses --ui; case and surrounding blanks are ignored.
func readUIMode(value string) (uiMode, error) {
	if m, ok := uiModes[strings.ToLower(strings.TrimSpace(value))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI: quiet runs and machine-readable output never get the
// progress view; auto means stdout is a terminal.
func shouldUseTUI(mode uiMode, quiet bool, format string) bool {
	if mode == uiModeOff || quiet || format != "pretty" {
		return false
	}
	return mode == uiModeOn || isTerminal(os.Stdout)
}
