// Package stash lists stash entries from the stash reflog.
package stash

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/chmouel/gitsummary/internal/models"
)

var stashNameRe = regexp.MustCompile(`^refs/([^:]+})`)

// Source provides the two queries needed to list stashes. Asking git for the
// reflog of a missing ref is an error, so existence is checked first.
type Source interface {
	StashRefExists(ctx context.Context) (bool, error)
	StashReflog(ctx context.Context) ([]string, error)
}

// List returns the stashes newest first, or an empty list when there is no
// stash ref. StashReflog is not called in that case.
func List(ctx context.Context, src Source) ([]models.StashEntry, error) {
	exists, err := src.StashRefExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking stash ref: %w", err)
	}
	if !exists {
		return []models.StashEntry{}, nil
	}

	lines, err := src.StashReflog(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading stash reflog: %w", err)
	}
	return Parse(lines), nil
}

// Parse turns `git reflog --no-abbrev-commit refs/stash` lines into entries.
// Lines that do not look like a stash reflog entry are skipped.
func Parse(lines []string) []models.StashEntry {
	entries := make([]models.StashEntry, 0, len(lines))
	for _, line := range lines {
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			continue
		}
		m := stashNameRe.FindStringSubmatch(parts[1])
		if m == nil {
			continue
		}
		entries = append(entries, models.StashEntry{
			FullHash:    parts[0],
			Name:        m[1],
			Description: parts[2],
		})
	}
	return entries
}
