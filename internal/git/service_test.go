package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	args   [][]string
	stdout string
	err    error
}

func (r *recordingRunner) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	r.args = append(r.args, args)
	return []byte(r.stdout), nil, r.err
}

func TestRunGitNoOptionalLocks(t *testing.T) {
	tests := []struct {
		name     string
		noLocks  bool
		wantArgs []string
	}{
		{name: "enabled", noLocks: true, wantArgs: []string{"--no-optional-locks", "status", "--porcelain=2"}},
		{name: "disabled", noLocks: false, wantArgs: []string{"status", "--porcelain=2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &recordingRunner{stdout: "? a\n? b\n"}
			svc := NewService(Options{NoOptionalLocks: tt.noLocks, Runner: runner})

			lines, err := svc.StatusLines(context.Background())

			require.NoError(t, err)
			assert.Equal(t, []string{"? a", "? b"}, lines)
			require.Len(t, runner.args, 1)
			assert.Equal(t, tt.wantArgs, runner.args[0])
		})
	}
}

func TestRunGitRunnerFailure(t *testing.T) {
	boom := errors.New("exec: \"git\": executable file not found in $PATH")
	svc := NewService(Options{Runner: &recordingRunner{err: boom}})

	_, err := svc.RunGit(context.Background(), []string{"status"})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{}, splitLines(""))
	assert.Equal(t, []string{}, splitLines("\n"))
	assert.Equal(t, []string{"a", "b c"}, splitLines("a\nb c\n"))
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  BranchHeader
	}{
		{
			name:  "branch with upstream",
			lines: []string{"# branch.oid abc", "# branch.head dev", "# branch.upstream origin/dev", "# branch.ab +1 -0"},
			want:  BranchHeader{Head: "dev", Upstream: "origin/dev"},
		},
		{
			name:  "detached",
			lines: []string{"# branch.oid abc", "# branch.head (detached)"},
			want:  BranchHeader{Detached: true},
		},
		{
			name:  "branch names with spaces are not possible but the rest of the line is kept",
			lines: []string{"# branch.head feature/x"},
			want:  BranchHeader{Head: "feature/x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseHeader(tt.lines))
		})
	}
}

func TestRepositoryQueries(t *testing.T) {
	repo := t.TempDir()
	setupGitRepo(t, repo)
	ctx := context.Background()
	svc := NewService(Options{Dir: repo, NoOptionalLocks: true})

	ok, err := svc.IsRepository(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	writeFile(t, repo, "tracked.txt", "one\n")
	runGit(t, repo, "add", "tracked.txt")
	runGit(t, repo, "commit", "-m", "initial")

	t.Run("status lines", func(t *testing.T) {
		writeFile(t, repo, "tracked.txt", "two\n")
		writeFile(t, repo, "new file.txt", "x\n")
		t.Cleanup(func() {
			runGit(t, repo, "checkout", "--", "tracked.txt")
			_ = os.Remove(filepath.Join(repo, "new file.txt"))
		})

		lines, err := svc.StatusLines(ctx)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "1 .M "), lines[0])
		assert.True(t, strings.HasSuffix(lines[0], " tracked.txt"), lines[0])
		assert.Equal(t, "? new file.txt", lines[1])
	})

	t.Run("branches and counts", func(t *testing.T) {
		runGit(t, repo, "branch", "dev")
		runGit(t, repo, "checkout", "-q", "dev")
		writeFile(t, repo, "dev.txt", "dev\n")
		runGit(t, repo, "add", "dev.txt")
		runGit(t, repo, "commit", "-m", "dev 1")
		writeFile(t, repo, "dev.txt", "dev 2\n")
		runGit(t, repo, "commit", "-am", "dev 2")

		branches, err := svc.LocalBranches(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"dev", "master"}, branches)

		header, err := svc.Header(ctx)
		require.NoError(t, err)
		assert.Equal(t, BranchHeader{Head: "dev"}, header)

		ahead, err := svc.CountCommits(ctx, "dev", "master")
		require.NoError(t, err)
		assert.Equal(t, 2, ahead)

		behind, err := svc.CountCommits(ctx, "master", "dev")
		require.NoError(t, err)
		assert.Equal(t, 0, behind)

		total, err := svc.CountCommits(ctx, "dev", "")
		require.NoError(t, err)
		assert.Equal(t, 3, total)

		upstream, err := svc.Upstream(ctx, "dev")
		require.NoError(t, err)
		assert.Empty(t, upstream)

		runGit(t, repo, "branch", "--set-upstream-to=master", "dev")
		upstream, err = svc.Upstream(ctx, "dev")
		require.NoError(t, err)
		assert.Equal(t, "master", upstream)

		remotes, err := svc.RemoteBranches(ctx)
		require.NoError(t, err)
		assert.Empty(t, remotes)
	})

	t.Run("stashes", func(t *testing.T) {
		exists, err := svc.StashRefExists(ctx)
		require.NoError(t, err)
		assert.False(t, exists)

		writeFile(t, repo, "tracked.txt", "stashed\n")
		runGit(t, repo, "stash", "push", "-m", "first: with colon")

		exists, err = svc.StashRefExists(ctx)
		require.NoError(t, err)
		assert.True(t, exists)

		reflog, err := svc.StashReflog(ctx)
		require.NoError(t, err)
		require.Len(t, reflog, 1)
		assert.Regexp(t, `^[0-9a-f]{40} refs/stash@\{0\}: On dev: first: with colon$`, reflog[0])
	})

	t.Run("git dir", func(t *testing.T) {
		dir, err := svc.GitDir(ctx)
		require.NoError(t, err)
		resolved, err := filepath.EvalSymlinks(filepath.Join(repo, ".git"))
		require.NoError(t, err)
		got, err := filepath.EvalSymlinks(dir)
		require.NoError(t, err)
		assert.Equal(t, resolved, got)
	})

	t.Run("failing command", func(t *testing.T) {
		_, err := svc.RunGit(ctx, []string{"rev-parse", "--verify", "does-not-exist"})
		require.Error(t, err)

		_, err = svc.RunGit(ctx, []string{"rev-parse", "--verify", "--quiet", "does-not-exist"}, 1)
		require.NoError(t, err)
	})
}

func TestDetachedHeader(t *testing.T) {
	repo := t.TempDir()
	setupGitRepo(t, repo)
	ctx := context.Background()
	writeFile(t, repo, "a.txt", "a\n")
	runGit(t, repo, "add", "a.txt")
	runGit(t, repo, "commit", "-m", "one")
	runGit(t, repo, "checkout", "-q", "--detach")

	header, err := NewService(Options{Dir: repo}).Header(ctx)

	require.NoError(t, err)
	assert.Equal(t, BranchHeader{Detached: true}, header)
}

func TestIsRepositoryOutsideRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	svc := NewService(Options{Dir: dir})
	ok, err := svc.IsRepository(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.StatusLines(context.Background())
	assert.ErrorIs(t, err, ErrNotRepository)
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, output)
	}
	return strings.TrimSpace(string(output))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// setupGitRepo creates an empty repository on branch master.
func setupGitRepo(t *testing.T, dir string) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	t.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")

	runGit(t, dir, "init", "-q")
	runGit(t, dir, "symbolic-ref", "HEAD", "refs/heads/master")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
	runGit(t, dir, "config", "commit.gpgsign", "false")
}
