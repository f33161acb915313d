package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aoc/internal/config"
	"aoc/internal/diagfmt"
	"aoc/internal/driver"
	"aoc/internal/isa"
	"aoc/internal/observ"
	"aoc/internal/prof"
)

// session holds what every command resolves the same way: aoc.toml merged
// with the global flags, diagnostics rendering, the timer and the tracer.
type session struct {
	cfg     config.Config
	opts    driver.Options
	pretty  diagfmt.PrettyOpts
	quiet   bool
	timings bool
	timer   *observ.Timer
	tracing *tracing
	profile *prof.Session
}

var current *session

// openSession is the PersistentPreRunE of the root command. The first
// argument, when present, is the input path aoc.toml is searched from.
func openSession(cmd *cobra.Command, args []string) error {
	start := "."
	if len(args) > 0 {
		start = args[0]
	}
	cfg, err := loadConfig(cmd, start)
	if err != nil {
		return err
	}

	flags := cmd.Root().PersistentFlags()
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor, err := colorEnabled(colorFlag)
	if err != nil {
		return err
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	s := &session{
		cfg:  cfg,
		opts: driver.OptionsFromConfig(cfg),
		pretty: diagfmt.PrettyOpts{
			Color:     useColor,
			Context:   2,
			ShowNotes: true,
			Max:       cfg.MaxDiagnostics,
		},
		quiet:   quiet,
		timings: timings,
	}
	if timings {
		s.timer = observ.NewTimer()
		s.opts.Timer = s.timer
	}
	s.profile, err = setupProfiling(cmd)
	if err != nil {
		return err
	}
	current = s
	s.tracing, err = setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	return nil
}

// closeSession flushes the tracer. A failed run dumps the trace ring first.
func closeSession(failed bool) {
	if current == nil {
		return
	}
	if current.tracing != nil {
		current.tracing.close(failed)
	}
	if err := current.profile.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", err)
	}
	current = nil
}

// loadConfig reads aoc.toml (explicit --config or discovered from start)
// and applies the flags the user set explicitly.
func loadConfig(cmd *cobra.Command, start string) (config.Config, error) {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(start)
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}

	if flags.Changed("target") {
		value, _ := flags.GetString("target")
		arch, parseErr := isa.ParseArch(value)
		if parseErr != nil {
			return config.Config{}, parseErr
		}
		cfg.Arch = arch
	}
	if flags.Changed("cpu") {
		value, _ := flags.GetString("cpu")
		cpu, parseErr := isa.ParseFlags(value)
		if parseErr != nil {
			return config.Config{}, parseErr
		}
		cfg.CPU = cpu
	}
	if flags.Changed("max-diagnostics") {
		cfg.MaxDiagnostics, _ = flags.GetInt("max-diagnostics")
	}
	if flags.Changed("trace-level") {
		cfg.TraceLevel, _ = flags.GetString("trace-level")
	}
	if flags.Changed("trace") {
		cfg.TraceOutput, _ = flags.GetString("trace")
		// --trace без уровня включает фазы
		if !flags.Changed("trace-level") && (cfg.TraceLevel == "" || cfg.TraceLevel == "off") {
			cfg.TraceLevel = "phase"
		}
	}
	if flags.Changed("trace-format") {
		cfg.TraceFormat, _ = flags.GetString("trace-format")
	}
	return cfg, nil
}

func colorEnabled(value string) (bool, error) {
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(os.Stderr), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
}
