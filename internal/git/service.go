// Package git wraps the git queries used by gitsummary.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strconv"
	"strings"

	log "github.com/chmouel/gitsummary/internal/log"
)

const (
	headsPrefix   = "refs/heads/"
	remotesPrefix = "refs/remotes/"
	stashRef      = "refs/stash"
	detachedHead  = "(detached)"
	notRepoMarker = "not a git repository"
)

// ErrNotRepository is returned when the working directory is not tracked by git.
var ErrNotRepository = errors.New("not a git repository")

// Runner executes git with the given arguments in dir.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs the git binary found in PATH.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir string, args ...string) ([]byte, []byte, error) {
	// #nosec G204 -- arguments come from internal query builders, not a shell
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Options configures a Service.
type Options struct {
	Dir             string // working directory, "" for the process cwd
	NoOptionalLocks bool   // pass --no-optional-locks so reads never take the index lock
	Runner          Runner
}

// Service runs read-only git queries against one repository.
type Service struct {
	dir             string
	noOptionalLocks bool
	runner          Runner
}

// NewService constructs a Service.
func NewService(opts Options) *Service {
	runner := opts.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Service{
		dir:             opts.Dir,
		noOptionalLocks: opts.NoOptionalLocks,
		runner:          runner,
	}
}

// Dir returns the working directory queries run in.
func (s *Service) Dir() string { return s.dir }

func (s *Service) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

// RunGit executes git and returns its stdout. Exit codes listed in
// okReturncodes are not treated as failures.
func (s *Service) RunGit(ctx context.Context, args []string, okReturncodes ...int) (string, error) {
	full := args
	if s.noOptionalLocks {
		full = append([]string{"--no-optional-locks"}, args...)
	}
	command := "git " + strings.Join(full, " ")
	s.debugf("run: %s (cwd=%s)", command, s.dir)

	done := log.Timed(command)
	stdout, stderr, err := s.runner.Run(ctx, s.dir, full...)
	done()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			s.debugf("error: %s: %v", command, err)
			return "", fmt.Errorf("%s: %w", command, err)
		}
		code := exitErr.ExitCode()
		if !slices.Contains(okReturncodes, code) {
			detail := strings.TrimSpace(string(stderr))
			s.debugf("error: %s (exit %d): %s", command, code, detail)
			if strings.Contains(strings.ToLower(detail), notRepoMarker) {
				return "", ErrNotRepository
			}
			if detail == "" {
				detail = "exit " + strconv.Itoa(code)
			}
			return "", fmt.Errorf("%s: %s", command, detail)
		}
	}

	s.debugf("ok: %s", command)
	return string(stdout), nil
}

func (s *Service) lines(ctx context.Context, args ...string) ([]string, error) {
	out, err := s.RunGit(ctx, args)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func splitLines(out string) []string {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return []string{}
	}
	return strings.Split(out, "\n")
}

// IsRepository reports whether the working directory is tracked by git.
func (s *Service) IsRepository(ctx context.Context) (bool, error) {
	_, err := s.RunGit(ctx, []string{"for-each-ref", "--count=1", "--format=42"})
	if errors.Is(err, ErrNotRepository) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// StatusLines returns `git status --porcelain=2` output, one entry per line.
func (s *Service) StatusLines(ctx context.Context) ([]string, error) {
	return s.lines(ctx, "status", "--porcelain=2")
}

// BranchHeader holds the branch lines of a porcelain v2 status.
type BranchHeader struct {
	Head     string // "" when detached
	Detached bool
	Upstream string
}

// Header reads the `# branch.*` lines of `git status --branch --porcelain=2`.
func (s *Service) Header(ctx context.Context) (BranchHeader, error) {
	lines, err := s.lines(ctx, "status", "--branch", "--porcelain=2", "--untracked-files=no")
	if err != nil {
		return BranchHeader{}, err
	}
	return parseHeader(lines), nil
}

func parseHeader(lines []string) BranchHeader {
	var h BranchHeader
	for _, line := range lines {
		if head, ok := strings.CutPrefix(line, "# branch.head "); ok {
			h.Head = head
			continue
		}
		if upstream, ok := strings.CutPrefix(line, "# branch.upstream "); ok {
			h.Upstream = upstream
		}
	}
	if h.Head == detachedHead {
		h.Head = ""
		h.Detached = true
	}
	return h
}

func (s *Service) refNames(ctx context.Context, prefix string) ([]string, error) {
	refs, err := s.lines(ctx, "for-each-ref", "--format=%(refname)", prefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, strings.TrimPrefix(ref, prefix))
	}
	return names, nil
}

// LocalBranches returns the names of refs under refs/heads.
func (s *Service) LocalBranches(ctx context.Context) ([]string, error) {
	return s.refNames(ctx, headsPrefix)
}

// RemoteBranches returns remote-tracking names such as "origin/main".
func (s *Service) RemoteBranches(ctx context.Context) ([]string, error) {
	return s.refNames(ctx, remotesPrefix)
}

// Upstream returns the short upstream name of a local branch, "" if unset.
func (s *Service) Upstream(ctx context.Context, branch string) (string, error) {
	out, err := s.RunGit(ctx, []string{"for-each-ref", "--format=%(upstream:short)", headsPrefix + branch})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// StashRefExists reports whether refs/stash exists. Listing every ref avoids
// the error git raises when asked for the reflog of a missing ref.
func (s *Service) StashRefExists(ctx context.Context) (bool, error) {
	refs, err := s.lines(ctx, "for-each-ref", "--format=%(refname)")
	if err != nil {
		return false, err
	}
	return slices.Contains(refs, stashRef), nil
}

// StashReflog returns the stash reflog with full hashes.
func (s *Service) StashReflog(ctx context.Context) ([]string, error) {
	return s.lines(ctx, "reflog", "--no-abbrev-commit", stashRef)
}

// CountCommits counts commits reachable from from and not from exclude.
// An empty exclude counts everything reachable from from.
func (s *Service) CountCommits(ctx context.Context, from, exclude string) (int, error) {
	args := []string{"rev-list", "--count", "--topo-order", from}
	if exclude != "" {
		args = append(args, "^"+exclude)
	}
	args = append(args, "--")
	out, err := s.RunGit(ctx, args)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("parsing rev-list count %q: %w", strings.TrimSpace(out), err)
	}
	return n, nil
}

// GitDir returns the absolute path of the repository's git directory.
func (s *Service) GitDir(ctx context.Context) (string, error) {
	out, err := s.RunGit(ctx, []string{"rev-parse", "--absolute-git-dir"})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
