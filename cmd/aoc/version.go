package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"aoc/internal/version"
)

var (
	versionFormat string
	versionFull   bool
)

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "include the commit message")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show aoc build metadata",
	// версия не зависит от aoc.toml и трассировки
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Current()
		switch strings.ToLower(versionFormat) {
		case "json":
			if !versionFull {
				info.GitMessage = ""
			}
			return writeJSON(cmd.OutOrStdout(), info)
		case "pretty":
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}

		out := cmd.OutOrStdout()
		line := info.String()
		line = strings.Replace(line, info.Version, version.Colored(), 1)
		fmt.Fprintln(out, line)
		if versionFull && info.GitMessage != "" {
			fmt.Fprintf(out, "message: %s\n", info.GitMessage)
		}
		return nil
	},
}
