package branch

import (
	"context"

	"github.com/chmouel/gitsummary/internal/models"
)

// Counter counts commits reachable from one ref and not from another.
// An empty exclude counts every commit reachable from from.
type Counter interface {
	CountCommits(ctx context.Context, from, exclude string) (int, error)
}

// CommitsInFirstNotSecond counts commits in a that are not in b. A missing
// a yields 0; a missing b yields every commit reachable from a.
func CommitsInFirstNotSecond(ctx context.Context, c Counter, refs RefSet, a, b string) (int, error) {
	switch {
	case !refs.Has(a):
		return 0, nil
	case !refs.Has(b):
		return c.CountCommits(ctx, a, "")
	default:
		return c.CountCommits(ctx, a, b)
	}
}

// Divergence computes ahead/behind counts of name against its remote and
// target. Empty remote or target leaves the matching counts absent.
func Divergence(ctx context.Context, c Counter, refs RefSet, name, remote, target string) (models.BranchDivergence, error) {
	d := models.BranchDivergence{RemoteBranch: remote, TargetBranch: target}

	var err error
	if remote != "" {
		if d.AheadRemote, d.BehindRemote, err = aheadBehind(ctx, c, refs, name, remote); err != nil {
			return d, err
		}
	}
	if target != "" {
		if d.AheadTarget, d.BehindTarget, err = aheadBehind(ctx, c, refs, name, target); err != nil {
			return d, err
		}
	}
	return d, nil
}

func aheadBehind(ctx context.Context, c Counter, refs RefSet, name, other string) (models.Count, models.Count, error) {
	ahead, err := CommitsInFirstNotSecond(ctx, c, refs, name, other)
	if err != nil {
		return models.Absent, models.Absent, err
	}
	behind, err := CommitsInFirstNotSecond(ctx, c, refs, other, name)
	if err != nil {
		return models.Absent, models.Absent, err
	}
	return models.Known(ahead), models.Known(behind), nil
}

// Row builds the five-column summary of a branch.
func Row(current, name string, d models.BranchDivergence) models.BranchRow {
	marker := ""
	if name == current {
		marker = "*"
	}
	return models.BranchRow{
		Marker:       marker,
		Name:         name,
		RemoteString: FormatAheadBehind(d.AheadRemote, d.BehindRemote),
		TargetString: FormatAheadBehind(d.AheadTarget, d.BehindTarget),
		Target:       d.TargetBranch,
	}
}
