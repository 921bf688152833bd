package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/chmouel/gitsummary/internal/branch"
	"github.com/chmouel/gitsummary/internal/layout"
	"github.com/chmouel/gitsummary/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	return dir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestDefaultConfigTargets(t *testing.T) {
	cfg := DefaultConfig().BranchConfig()
	existing := branch.NewRefSet("master", "develop")

	tests := []struct {
		branch string
		want   string
	}{
		{branch: "master", want: ""},
		{branch: "develop", want: "master"},
		{branch: "hotfix-oops", want: "master"},
		{branch: "release-1.0.0", want: "master"},
		{branch: "make-something", want: "develop"},
	}

	for _, tt := range tests {
		t.Run(tt.branch, func(t *testing.T) {
			assert.Equal(t, tt.want, branch.ResolveTarget(tt.branch, cfg, existing))
		})
	}
}

func TestLoadWithoutFiles(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(LoadOptions{Dir: dir})

	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadSearchesParents(t *testing.T) {
	dir := isolate(t)
	nested := filepath.Join(dir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o700))
	path := filepath.Join(dir, "a", ".gitsummary.yaml")
	writeConfig(t, path, "default_target: main\nsections: [branches]\n")

	cfg, err := Load(LoadOptions{Dir: nested})

	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "main", cfg.DefaultTarget)
	assert.Equal(t, []string{"branches"}, cfg.Sections)
	assert.Equal(t, DefaultConfig().BranchOrder, cfg.BranchOrder)
}

func TestLoadXDGFallback(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "xdg", "gitsummary", "config.yml")
	writeConfig(t, path, "width: 100\ncolor: never\n")

	cfg, err := Load(LoadOptions{Dir: filepath.Join(dir)})

	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "100", cfg.Width)
	assert.Equal(t, ColorNever, cfg.Color)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, filepath.Join(dir, ".gitsummary.yaml"), "default_target: ignored\n")
	explicit := filepath.Join(dir, "custom.yaml")
	writeConfig(t, explicit, `
branch_order: ['^main$']
default_target: main
branches:
  - name: '^main$'
    target: ''
  - name: '^feat/'
    target: main
show_all_branches: false
truncation_indicator: "~"
colors:
  staged: [yellow, bold]
`)

	cfg, err := Load(LoadOptions{File: explicit, Dir: dir})

	require.NoError(t, err)
	assert.Equal(t, explicit, cfg.Path)
	assert.Equal(t, []string{"^main$"}, cfg.BranchOrder)
	assert.Equal(t, "main", cfg.DefaultTarget)
	assert.Equal(t, []BranchRule{{Name: "^main$"}, {Name: "^feat/", Target: "main"}}, cfg.Branches)
	assert.False(t, cfg.ShowAllBranches)
	assert.Equal(t, "~", cfg.TruncationIndicator)
	assert.Equal(t, []theme.Token{theme.Yellow, theme.Bold}, cfg.Palette().Staged)
	assert.Equal(t, []theme.Token{theme.Red}, cfg.Palette().Modified)
}

func TestLoadEmptyFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "empty.yaml")
	writeConfig(t, path, "")

	cfg, err := Load(LoadOptions{File: path})

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Sections, cfg.Sections)
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(LoadOptions{File: filepath.Join(dir, "nope.yaml")})
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		writeConfig(t, path, "branches: [\n")
		_, err := Load(LoadOptions{File: path})
		require.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.yaml")
		writeConfig(t, path, "branch_order: ['(']\nbogus: 1\n")
		_, err := Load(LoadOptions{File: path})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalid)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Problems, 2)
	})

	t.Run("bad override", func(t *testing.T) {
		_, err := Load(LoadOptions{Dir: dir, Overrides: []string{"default_target"}})
		require.Error(t, err)
	})
}

func TestLoadOverridesWin(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, ".gitsummary.yaml")
	writeConfig(t, path, "default_target: develop\nshow_all_branches: true\n")

	cfg, err := Load(LoadOptions{Dir: dir, Overrides: []string{
		"gitsummary.default_target=trunk",
		"show-all-branches=no",
		"branches=^feat- trunk",
		"branches=^trunk$",
		"colors.untracked=magenta,flashing",
	}})

	require.NoError(t, err)
	assert.Equal(t, "trunk", cfg.DefaultTarget)
	assert.False(t, cfg.ShowAllBranches)
	assert.Equal(t, []BranchRule{{Name: "^feat-", Target: "trunk"}, {Name: "^trunk$"}}, cfg.Branches)
	assert.Equal(t, []theme.Token{theme.Magenta, theme.Flashing}, cfg.Palette().Untracked)
	assert.Equal(t, []theme.Token{theme.Green}, cfg.Palette().Staged)
}

func TestLoadGitConfigLayer(t *testing.T) {
	dir := isolate(t)
	gitConfigMock = func(args []string, _ string) (string, error) {
		if args[len(args)-1] == "--global" {
			return "gitsummary.default-target from-git\ngitsummary.truncation-indicator >>\n", nil
		}
		return "", nil
	}
	t.Cleanup(func() { gitConfigMock = nil })

	cfg, err := Load(LoadOptions{Dir: dir, GitConfig: true, Overrides: []string{"truncation_indicator=.."}})

	require.NoError(t, err)
	assert.Equal(t, "from-git", cfg.DefaultTarget)
	assert.Equal(t, "..", cfg.TruncationIndicator)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		data     map[string]any
		problems int
		contains string
	}{
		{name: "empty", data: map[string]any{}},
		{name: "unknown key", data: map[string]any{"nope": 1}, problems: 1, contains: `unknown key "nope"`},
		{name: "branch order not a list", data: map[string]any{"branch_order": "x"}, problems: 1},
		{name: "invalid regex", data: map[string]any{"branch_order": []any{"ok", "(", "[a-"}}, problems: 2, contains: "branch_order[1]"},
		{name: "default target type", data: map[string]any{"default_target": 3}, problems: 1},
		{
			name: "branch rules",
			data: map[string]any{"branches": []any{
				map[string]any{"name": "^ok$", "target": "master"},
				map[string]any{"name": "(", "target": "", "extra": true},
				map[string]any{"target": 1},
				"not a rule",
			}},
			problems: 5,
			contains: `branches[1]: unknown key "extra"`,
		},
		{name: "unknown section", data: map[string]any{"sections": []any{"branches", "commits"}}, problems: 1, contains: "sections[1]"},
		{name: "bool", data: map[string]any{"show_all_branches": "maybe", "no_optional_locks": "off"}, problems: 1},
		{name: "width values", data: map[string]any{"width": -1}, problems: 1},
		{name: "width strings", data: map[string]any{"width": "120"}},
		{name: "width unbounded", data: map[string]any{"width": "Unbounded"}},
		{name: "color", data: map[string]any{"color": "sometimes"}, problems: 1},
		{
			name: "colors",
			data: map[string]any{"colors": map[string]any{
				"staged":   []any{"green", "blink"},
				"unknown":  []any{"red"},
				"modified": "red",
				"stash":    nil,
			}},
			problems: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := Validate(tt.data)
			assert.Len(t, problems, tt.problems, "%v", problems)
			if tt.contains != "" {
				assert.True(t, slices.ContainsFunc(problems, func(p string) bool {
					return strings.Contains(p, tt.contains)
				}), "no problem mentions %q: %v", tt.contains, problems)
			}
		})
	}
}

func TestDefaultConfigYAMLIsValid(t *testing.T) {
	out, err := DefaultConfig().YAML()
	require.NoError(t, err)

	var data map[string]any
	require.NoError(t, yaml.Unmarshal(out, &data))
	assert.Empty(t, Validate(data))
	assert.Equal(t, DefaultConfig(), parseConfig(data))
}

func TestLayoutWidth(t *testing.T) {
	terminal := func() (int, bool) { return 132, true }
	noTerminal := func() (int, bool) { return 0, false }

	tests := []struct {
		width    string
		terminal func() (int, bool)
		want     int
	}{
		{width: WidthAuto, terminal: terminal, want: 132},
		{width: WidthAuto, terminal: noTerminal, want: layout.Unbounded},
		{width: WidthUnbounded, terminal: terminal, want: layout.Unbounded},
		{width: "80", terminal: terminal, want: 80},
		{width: "0", terminal: terminal, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.width, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Width = tt.width
			assert.Equal(t, tt.want, cfg.LayoutWidth(tt.terminal))
		})
	}
}

func TestUseColor(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.UseColor(true))
	assert.False(t, cfg.UseColor(false))

	cfg.Color = ColorAlways
	assert.True(t, cfg.UseColor(false))

	cfg.Color = ColorNever
	assert.False(t, cfg.UseColor(true))
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GITSUMMARY_TEST_DIR", "logs")

	got, err := ExpandPath("~/$GITSUMMARY_TEST_DIR/debug.log")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "debug.log"), got)
}
