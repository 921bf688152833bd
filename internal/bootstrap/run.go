package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/gitsummary/internal/app"
	"github.com/chmouel/gitsummary/internal/buildinfo"
	"github.com/chmouel/gitsummary/internal/config"
	"github.com/chmouel/gitsummary/internal/git"
	log "github.com/chmouel/gitsummary/internal/log"
	"github.com/chmouel/gitsummary/internal/theme"
	"github.com/chmouel/gitsummary/internal/watch"
	"github.com/muesli/termenv"
	urfavecli "github.com/urfave/cli/v3"
	"golang.org/x/term"
)

const notTrackedMessage = "This folder is not tracked by git."

// NewCommand builds the gitsummary root command.
func NewCommand(stdout, stderr io.Writer) *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "gitsummary",
		Usage:     "Summarize the state of a git working copy",
		Version:   buildinfo.Summary(),
		Flags:     globalFlags(),
		Writer:    stdout,
		ErrWriter: stderr,
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			// Capture config loading in the log when the flag asks for it.
			if path := cmd.String("debug-log"); path != "" {
				openDebugLog(cmd.Root().ErrWriter, path)
			}
			return ctx, nil
		},
		Commands: []*urfavecli.Command{
			configCommand(),
			completionCommand(),
		},
		Action: runSummary,
	}
}

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := NewCommand(stdout, stderr).Run(ctx, args)
	_ = log.Close()
	return exitCode(stderr, err)
}

// exitCode prints err to w and maps it to an exit code.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	msgs := theme.NewMessages(lipgloss.NewRenderer(w))
	if errors.Is(err, git.ErrNotRepository) {
		fmt.Fprintln(w, msgs.Warning.Render(notTrackedMessage))
		return 1
	}
	fmt.Fprintf(w, "%s %v\n", msgs.Error.Render("Error:"), err)
	return 1
}

func openDebugLog(stderr io.Writer, path string) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		expanded = path
	}
	if err := log.SetFile(expanded); err != nil {
		fmt.Fprintf(stderr, "Error opening debug log file %q: %v\n", expanded, err)
	}
}

// flagOverrides turns the dedicated flags into config overrides so they win
// over every other source.
func flagOverrides(cmd *urfavecli.Command) ([]string, error) {
	if cmd.Bool("color") && cmd.Bool("no-color") {
		return nil, errors.New("--color and --no-color are mutually exclusive")
	}

	var overrides []string
	if cmd.IsSet("width") {
		overrides = append(overrides, "width="+cmd.String("width"))
	}
	if cmd.Bool("color") {
		overrides = append(overrides, "color="+config.ColorAlways)
	}
	if cmd.Bool("no-color") {
		overrides = append(overrides, "color="+config.ColorNever)
	}
	if cmd.Bool("current-only") {
		overrides = append(overrides, "show_all_branches=false")
	}
	return overrides, nil
}

// loadConfig loads the configuration for cmd and settles the debug log.
func loadConfig(cmd *urfavecli.Command) (*config.Config, error) {
	flags, err := flagOverrides(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(config.LoadOptions{
		File:      cmd.String("config-file"),
		Dir:       cmd.String("dir"),
		Overrides: slices.Concat(cmd.StringSlice("config"), flags),
		GitConfig: true,
	})
	if err != nil {
		return nil, err
	}

	if cmd.String("debug-log") == "" {
		if cfg.DebugLog != "" {
			openDebugLog(cmd.Root().ErrWriter, cfg.DebugLog)
		} else {
			// No debug log configured, discard any buffered logs
			_ = log.SetFile("")
		}
	}
	return cfg, nil
}

type terminal struct {
	fd  int
	tty bool
}

func detectTerminal(w io.Writer) terminal {
	f, ok := w.(*os.File)
	if !ok {
		return terminal{}
	}
	fd := int(f.Fd()) //nolint:gosec
	return terminal{fd: fd, tty: term.IsTerminal(fd)}
}

func (t terminal) size() (int, bool) {
	if !t.tty {
		return 0, false
	}
	w, _, err := term.GetSize(t.fd)
	return w, err == nil
}

func (t terminal) color() bool {
	return t.tty && !termenv.EnvNoColor()
}

func runSummary(ctx context.Context, cmd *urfavecli.Command) error {
	if cmd.Args().Len() > 0 {
		return fmt.Errorf("unexpected argument %q", cmd.Args().First())
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	svc := git.NewService(git.Options{Dir: cmd.String("dir"), NoOptionalLocks: cfg.NoOptionalLocks})
	summary := app.NewSummary(svc, cfg)
	out := cmd.Root().Writer

	// Resolved per render so a resized terminal is picked up in watch mode.
	options := func() app.Options {
		t := detectTerminal(out)
		return app.Options{Width: cfg.LayoutWidth(t.size), Color: cfg.UseColor(t.color())}
	}

	if !cmd.Bool("watch") {
		return summary.Write(ctx, out, options())
	}
	return watchSummary(ctx, svc, summary, out, options)
}

func watchSummary(ctx context.Context, svc *git.Service, summary *app.Summary, out io.Writer, options func() app.Options) error {
	gitDir, err := svc.GitDir(ctx)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	screen := termenv.NewOutput(out)
	return watch.Loop(ctx, gitDir, func(ctx context.Context) error {
		lines, err := summary.Lines(ctx, options())
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}
		screen.ClearScreen()
		for _, line := range lines {
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
		return nil
	})
}
