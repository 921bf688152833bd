package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/chmouel/gitsummary/internal/completion"
	"github.com/chmouel/gitsummary/internal/config"
	urfavecli "github.com/urfave/cli/v3"
)

func configCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "config",
		Usage: "Inspect the configuration",
		Commands: []*urfavecli.Command{
			{
				Name:   "show",
				Usage:  "Print the effective configuration as YAML",
				Action: handleConfigShow,
			},
			{
				Name:   "check",
				Usage:  "Validate the configuration",
				Action: handleConfigCheck,
			},
			{
				Name:   "default",
				Usage:  "Print the default configuration as YAML",
				Action: handleConfigDefault,
			},
		},
	}
}

func handleConfigShow(_ context.Context, cmd *urfavecli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.Root().Writer
	if cfg.Path != "" {
		fmt.Fprintf(out, "# loaded from %s\n", cfg.Path)
	}
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func handleConfigCheck(_ context.Context, cmd *urfavecli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	source := cfg.Path
	if source == "" {
		source = "defaults"
	}
	fmt.Fprintf(cmd.Root().Writer, "ok (%s)\n", source)
	return nil
}

func handleConfigDefault(_ context.Context, cmd *urfavecli.Command) error {
	data, err := config.DefaultConfig().YAML()
	if err != nil {
		return err
	}
	_, err = cmd.Root().Writer.Write(data)
	return err
}

// completionCommand returns the completion subcommand definition.
func completionCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "completion",
		Usage:     "Generate shell completion scripts",
		ArgsUsage: "<bash|zsh|fish>",
		Action:    handleCompletion,
	}
}

func handleCompletion(_ context.Context, cmd *urfavecli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("usage: gitsummary completion <bash|zsh|fish>")
	}
	script, err := completion.Script(cmd.Args().First())
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.Root().Writer, script)
	return err
}
