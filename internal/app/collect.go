package app

import (
	"context"
	"fmt"

	"github.com/chmouel/gitsummary/internal/branch"
	"github.com/chmouel/gitsummary/internal/git"
	"github.com/chmouel/gitsummary/internal/models"
	"github.com/chmouel/gitsummary/internal/stash"
	"github.com/chmouel/gitsummary/internal/status"
)

// detachedName labels the row shown for a detached HEAD.
const detachedName = "(detached HEAD)"

// Repository is the set of git queries a summary needs. *git.Service
// implements it.
type Repository interface {
	IsRepository(ctx context.Context) (bool, error)
	StatusLines(ctx context.Context) ([]string, error)
	StashRefExists(ctx context.Context) (bool, error)
	StashReflog(ctx context.Context) ([]string, error)
	Header(ctx context.Context) (git.BranchHeader, error)
	LocalBranches(ctx context.Context) ([]string, error)
	RemoteBranches(ctx context.Context) ([]string, error)
	Upstream(ctx context.Context, branch string) (string, error)
	CountCommits(ctx context.Context, from, exclude string) (int, error)
}

var _ Repository = (*git.Service)(nil)

// Collect queries the repository for everything a report shows. Any failing
// query aborts the collection.
func (s *Summary) Collect(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot

	ok, err := s.repo.IsRepository(ctx)
	if err != nil {
		return snap, err
	}
	if !ok {
		return snap, git.ErrNotRepository
	}

	lines, err := s.repo.StatusLines(ctx)
	if err != nil {
		return snap, fmt.Errorf("reading status: %w", err)
	}
	snap.Statuses = status.ParseFileStatuses(lines)

	if snap.Stashes, err = stash.List(ctx, s.repo); err != nil {
		return snap, fmt.Errorf("listing stashes: %w", err)
	}

	header, err := s.repo.Header(ctx)
	if err != nil {
		return snap, fmt.Errorf("reading branch header: %w", err)
	}
	snap.CurrentBranch = header.Head
	snap.Detached = header.Detached

	if snap.Branches, err = s.branchRows(ctx, header); err != nil {
		return snap, err
	}
	return snap, nil
}

func (s *Summary) branchRows(ctx context.Context, header git.BranchHeader) ([]models.BranchRow, error) {
	local, err := s.repo.LocalBranches(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing local branches: %w", err)
	}
	remote, err := s.repo.RemoteBranches(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing remote branches: %w", err)
	}

	// Right after git init there are no refs, only the unborn current branch.
	branches := local
	if len(branches) == 0 && header.Head != "" {
		branches = []string{header.Head}
	}

	existing := branch.NewRefSet(local...)
	refs := branch.NewRefSet(append(append([]string(nil), local...), remote...)...)
	bcfg := s.cfg.BranchConfig()

	rows := make([]models.BranchRow, 0, len(branches)+1)
	for _, name := range branch.Order(branches, bcfg.Order) {
		if !s.cfg.ShowAllBranches && name != header.Head {
			continue
		}

		upstream, err := s.upstream(ctx, name, branches, header)
		if err != nil {
			return nil, fmt.Errorf("reading upstream of %s: %w", name, err)
		}
		target := branch.ResolveTarget(name, bcfg, existing)

		d, err := branch.Divergence(ctx, s.repo, refs, name, upstream, target)
		if err != nil {
			return nil, fmt.Errorf("comparing %s: %w", name, err)
		}
		rows = append(rows, branch.Row(header.Head, name, d))
	}

	if header.Detached {
		rows = append(rows, models.BranchRow{Marker: "*", Name: detachedName})
	}
	return rows, nil
}

// upstream uses the status header when the current branch is the only one,
// which also covers a repository without commits.
func (s *Summary) upstream(ctx context.Context, name string, branches []string, header git.BranchHeader) (string, error) {
	if len(branches) == 1 && name == header.Head {
		return header.Upstream, nil
	}
	return s.repo.Upstream(ctx, name)
}
