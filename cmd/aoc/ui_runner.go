package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"aoc/internal/buildpipeline"
	"aoc/internal/driver"
	"aoc/internal/ui"
)

type checkOutcome struct {
	result *driver.CheckResult
	err    error
}

// runCheckWithUI runs driver.Check in the background and renders its
// progress events until the event channel closes.
func runCheckWithUI(ctx context.Context, title, root string, files []string, opts driver.Options) (*driver.CheckResult, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := driver.Check(ctx, root, optsCopy)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// модель могла выйти раньше (Ctrl+C), не даём Check заблокироваться
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
