// Package completion describes the gitsummary command line for shell
// completion scripts.
package completion

import "github.com/chmouel/gitsummary/internal/config"

// FlagInfo contains metadata about a command-line flag for completion generation.
type FlagInfo struct {
	Name        string   // Flag name without dashes
	Alias       string   // Single-letter alias, "" for none
	Description string   // Human-readable description
	HasValue    bool     // true for string flags, false for bool flags
	ValueHint   string   // Hint for value type (e.g., "FILE", "DIR", "KEY=VALUE")
	Values      []string // Enumerated values for completion
}

// IsPath reports whether the flag value is a file system path.
func (f FlagInfo) IsPath() bool {
	switch f.ValueHint {
	case "FILE", "DIR", "PATH":
		return true
	}
	return false
}

// Subcommand is a gitsummary subcommand and the words it takes.
type Subcommand struct {
	Name        string
	Description string
	Args        []string
}

// GetFlags returns metadata for all gitsummary command-line flags.
func GetFlags() []FlagInfo {
	overrideKeys := make([]string, 0, len(config.Keys()))
	for _, key := range config.Keys() {
		overrideKeys = append(overrideKeys, key+"=")
	}

	return []FlagInfo{
		{
			Name:        "width",
			Description: "Output width: a column count, auto or unbounded",
			HasValue:    true,
			ValueHint:   "WIDTH",
			Values:      []string{config.WidthAuto, config.WidthUnbounded},
		},
		{
			Name:        "color",
			Description: "Always emit colors",
		},
		{
			Name:        "no-color",
			Description: "Never emit colors",
		},
		{
			Name:        "current-only",
			Description: "Only show the current branch",
		},
		{
			Name:        "watch",
			Description: "Redraw the summary whenever the repository changes",
		},
		{
			Name:        "dir",
			Alias:       "d",
			Description: "Summarize the repository in this directory",
			HasValue:    true,
			ValueHint:   "DIR",
		},
		{
			Name:        "config-file",
			Description: "Path to configuration file",
			HasValue:    true,
			ValueHint:   "FILE",
		},
		{
			Name:        "config",
			Alias:       "C",
			Description: "Override a config value (repeatable)",
			HasValue:    true,
			ValueHint:   "KEY=VALUE",
			Values:      overrideKeys,
		},
		{
			Name:        "debug-log",
			Description: "Path to debug log file",
			HasValue:    true,
			ValueHint:   "PATH",
		},
		{
			Name:        "version",
			Alias:       "v",
			Description: "Print version information",
		},
	}
}

// GetSubcommands returns the gitsummary subcommands.
func GetSubcommands() []Subcommand {
	return []Subcommand{
		{
			Name:        "config",
			Description: "Inspect the configuration",
			Args:        []string{"show", "check", "default"},
		},
		{
			Name:        "completion",
			Description: "Generate shell completion script",
			Args:        Shells(),
		},
	}
}
