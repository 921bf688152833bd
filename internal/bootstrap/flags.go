// Package bootstrap wires the gitsummary command line: flags, subcommands,
// configuration loading and exit codes.
package bootstrap

import (
	urfavecli "github.com/urfave/cli/v3"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via Command.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:  "width",
			Usage: "Output width: a column count, auto or unbounded",
		},
		&urfavecli.BoolFlag{
			Name:  "color",
			Usage: "Always emit colors",
		},
		&urfavecli.BoolFlag{
			Name:  "no-color",
			Usage: "Never emit colors",
		},
		&urfavecli.BoolFlag{
			Name:  "current-only",
			Usage: "Only show the current branch",
		},
		&urfavecli.BoolFlag{
			Name:  "watch",
			Usage: "Redraw the summary whenever the repository changes",
		},
		&urfavecli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "Summarize the repository in this directory",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=gitsummary.key=value",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
	}
}
