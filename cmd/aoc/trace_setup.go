package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aoc/internal/config"
	"aoc/internal/trace"
)

type tracing struct {
	tracer trace.Tracer
	format trace.Format
	errOut *os.File
}

// setupTracing builds the tracer described by cfg and the trace flags and
// attaches it to the command context.
func setupTracing(cmd *cobra.Command, cfg config.Config) (*tracing, error) {
	root := cmd.Root()

	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	level, err := trace.ParseLevel(cfg.TraceLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return &tracing{tracer: trace.Nop, errOut: os.Stderr}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	output := cfg.TraceOutput
	tcfg := trace.Config{Level: level, Mode: mode, RingSize: ringSize}
	switch output {
	case "stdout":
		tcfg.Output = os.Stdout
	case "stderr", "":
		tcfg.Output = os.Stderr
	default:
		tcfg.OutputPath = output
	}
	tcfg.Format, err = trace.ParseFormat(cfg.TraceFormat, output)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(tcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	root.SetContext(ctx)
	return &tracing{tracer: tracer, format: tcfg.Format, errOut: os.Stderr}, nil
}

// close dumps the ring buffer when the run failed, then flushes and closes
// the tracer.
func (t *tracing) close(failed bool) {
	if failed {
		if ring := trace.RingOf(t.tracer); ring != nil {
			fmt.Fprintln(t.errOut, "trace: last events before the failure:")
			if err := ring.Dump(t.errOut, t.format); err != nil {
				fmt.Fprintf(t.errOut, "trace: dump error: %v\n", err)
			}
		}
	}
	if err := t.tracer.Flush(); err != nil {
		fmt.Fprintf(t.errOut, "trace: flush error: %v\n", err)
	}
	if err := t.tracer.Close(); err != nil {
		fmt.Fprintf(t.errOut, "trace: close error: %v\n", err)
	}
}
