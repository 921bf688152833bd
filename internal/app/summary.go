// Package app produces one gitsummary report: it collects the repository
// state through git and hands it to the report builder.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/chmouel/gitsummary/internal/config"
	log "github.com/chmouel/gitsummary/internal/log"
	"github.com/chmouel/gitsummary/internal/render"
	"github.com/chmouel/gitsummary/internal/report"
)

// Options are the per-run output settings resolved from the terminal.
type Options struct {
	Width int  // layout.Unbounded disables truncation
	Color bool // emit ANSI styles
}

// Summary builds reports for one repository.
type Summary struct {
	repo Repository
	cfg  *config.Config
}

// NewSummary returns a Summary reading repo with the validated cfg.
func NewSummary(repo Repository, cfg *config.Config) *Summary {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Summary{repo: repo, cfg: cfg}
}

// Lines collects the repository state and renders it.
func (s *Summary) Lines(ctx context.Context, opts Options) ([]string, error) {
	snap, err := s.Collect(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("summary: %d staged, %d modified, %d unmerged, %d untracked, %d unknown, %d stashes, %d branches",
		len(snap.Statuses.Stage), len(snap.Statuses.Workdir), len(snap.Statuses.Unmerged),
		len(snap.Statuses.Untracked), len(snap.Statuses.Unknown), len(snap.Stashes), len(snap.Branches))

	return report.Build(snap, report.Options{
		Width:     opts.Width,
		Indicator: s.cfg.TruncationIndicator,
		Sections:  s.cfg.Sections,
		Palette:   s.cfg.Palette(),
		Renderer:  render.New(opts.Color),
	}), nil
}

// Write prints the report to w, one line per report line.
func (s *Summary) Write(ctx context.Context, w io.Writer, opts Options) error {
	lines, err := s.Lines(ctx, opts)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
