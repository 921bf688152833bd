// Package config loads gitsummary settings from YAML, git config and the
// command line.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/chmouel/gitsummary/internal/branch"
	"github.com/chmouel/gitsummary/internal/layout"
	log "github.com/chmouel/gitsummary/internal/log"
	"github.com/chmouel/gitsummary/internal/models"
	"github.com/chmouel/gitsummary/internal/theme"
	"gopkg.in/yaml.v3"
)

// Special values of the width and color keys.
const (
	WidthAuto      = "auto"
	WidthUnbounded = "unbounded"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// File names searched for, from the working directory upwards.
var repoConfigNames = []string{".gitsummary.yaml", ".gitsummary.yml"}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// BranchRule maps branches matching Name to Target.
type BranchRule struct {
	Name   string `yaml:"name"`
	Target string `yaml:"target"`
}

// Config holds every gitsummary setting.
type Config struct {
	BranchOrder         []string            `yaml:"branch_order"`
	DefaultTarget       string              `yaml:"default_target"`
	Branches            []BranchRule        `yaml:"branches"`
	Sections            []string            `yaml:"sections"`
	ShowAllBranches     bool                `yaml:"show_all_branches"`
	TruncationIndicator string              `yaml:"truncation_indicator"`
	Width               string              `yaml:"width"` // "auto", "unbounded" or a column count
	Color               string              `yaml:"color"`
	NoOptionalLocks     bool                `yaml:"no_optional_locks"`
	Colors              map[string][]string `yaml:"colors"`
	DebugLog            string              `yaml:"debug_log"`

	Path string `yaml:"-"` // file the settings were read from, "" for none
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *Config {
	palette := theme.DefaultPalette()
	colors := make(map[string][]string, len(theme.Keys()))
	for _, key := range theme.Keys() {
		tokens, _ := palette.Get(key)
		names := make([]string, 0, len(tokens))
		for _, t := range tokens {
			names = append(names, string(t))
		}
		colors[key] = names
	}

	return &Config{
		BranchOrder:   []string{"^master$", "^develop$", "^hotfix-", "^release-"},
		DefaultTarget: "develop",
		Branches: []BranchRule{
			{Name: "^master$", Target: ""},
			{Name: "^hotfix-", Target: "master"},
			{Name: "^release-", Target: "master"},
			{Name: "^develop$", Target: "master"},
		},
		Sections:            models.AllSections(),
		ShowAllBranches:     true,
		TruncationIndicator: "...",
		Width:               WidthAuto,
		Color:               ColorAuto,
		NoOptionalLocks:     true,
		Colors:              colors,
	}
}

// BranchConfig compiles the branch rules. The config must have been validated.
func (c *Config) BranchConfig() branch.Config {
	cfg := branch.Config{DefaultTarget: c.DefaultTarget}
	for _, rule := range c.Branches {
		cfg.Rules = append(cfg.Rules, branch.Rule{Pattern: regexp.MustCompile(rule.Name), Target: rule.Target})
	}
	for _, pattern := range c.BranchOrder {
		cfg.Order = append(cfg.Order, regexp.MustCompile(pattern))
	}
	return cfg
}

// Palette returns the default palette with the configured colours applied.
func (c *Config) Palette() theme.Palette {
	p := theme.DefaultPalette()
	for key, names := range c.Colors {
		tokens := make([]theme.Token, 0, len(names))
		for _, name := range names {
			if tok, err := theme.ParseToken(name); err == nil {
				tokens = append(tokens, tok)
			}
		}
		_ = p.Set(key, tokens)
	}
	return p
}

// LayoutWidth resolves the width setting. terminal reports the terminal width
// and whether there is one; "auto" without a terminal is unbounded.
func (c *Config) LayoutWidth(terminal func() (int, bool)) int {
	switch c.Width {
	case WidthUnbounded:
		return layout.Unbounded
	case WidthAuto, "":
		if terminal != nil {
			if w, ok := terminal(); ok && w > 0 {
				return w
			}
		}
		return layout.Unbounded
	}
	n, err := strconv.Atoi(c.Width)
	if err != nil || n < 0 {
		return layout.Unbounded
	}
	return n
}

// UseColor resolves the color setting against whether stdout is a terminal.
func (c *Config) UseColor(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return isTerminal
}

// YAML renders the config as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func stringList(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return append([]string(nil), v...)
	}
	return nil
}

func widthString(value any) string {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	}
	return WidthAuto
}

// parseConfig applies validated raw settings on top of the defaults.
func parseConfig(data map[string]any) *Config {
	cfg := DefaultConfig()

	if v, ok := data["branch_order"]; ok {
		cfg.BranchOrder = stringList(v)
	}
	if v, ok := data["default_target"].(string); ok {
		cfg.DefaultTarget = v
	}
	if v, ok := data["branches"].([]any); ok {
		cfg.Branches = make([]BranchRule, 0, len(v))
		for _, item := range v {
			rule, _ := item.(map[string]any)
			name, _ := rule["name"].(string)
			target, _ := rule["target"].(string)
			cfg.Branches = append(cfg.Branches, BranchRule{Name: name, Target: target})
		}
	}
	if v, ok := data["sections"]; ok {
		cfg.Sections = stringList(v)
	}
	if v, ok := data["show_all_branches"]; ok {
		cfg.ShowAllBranches = coerceBool(v, cfg.ShowAllBranches)
	}
	if v, ok := data["truncation_indicator"].(string); ok {
		cfg.TruncationIndicator = v
	}
	if v, ok := data["width"]; ok {
		cfg.Width = widthString(v)
	}
	if v, ok := data["color"].(string); ok {
		cfg.Color = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := data["no_optional_locks"]; ok {
		cfg.NoOptionalLocks = coerceBool(v, cfg.NoOptionalLocks)
	}
	if v, ok := data["colors"].(map[string]any); ok {
		for key, tokens := range v {
			cfg.Colors[key] = stringList(tokens)
		}
	}
	if v, ok := data["debug_log"].(string); ok {
		cfg.DebugLog = strings.TrimSpace(v)
	}

	return cfg
}

// LoadOptions selects the configuration sources.
type LoadOptions struct {
	File      string   // explicit config file, skips the search
	Dir       string   // where the upward search starts, "" for the cwd
	Overrides []string // --config key=value pairs
	GitConfig bool     // read gitsummary.* keys from git config
}

// Load merges defaults, the config file, git config and CLI overrides, in
// that order, and validates the result.
func Load(opts LoadOptions) (*Config, error) {
	path, err := resolvePath(opts)
	if err != nil {
		return nil, err
	}

	data := map[string]any{}
	if path != "" {
		fileData, err := readFile(path)
		if err != nil {
			return nil, err
		}
		mergeLayer(data, fileData)
		log.Printf("config: loaded %s", path)
	}

	if opts.GitConfig {
		repoPath := determineRepoPath(opts.Dir)
		for _, globalOnly := range []bool{true, false} {
			if !globalOnly && repoPath == "" {
				continue
			}
			gitData, err := loadGitConfig(globalOnly, repoPath)
			if err != nil {
				log.Printf("config: git config unavailable: %v", err)
				continue
			}
			mergeLayer(data, gitData)
		}
	}

	if len(opts.Overrides) > 0 {
		overrides, err := parseCLIConfigOverrides(opts.Overrides)
		if err != nil {
			return nil, err
		}
		mergeLayer(data, overrides)
	}

	if problems := Validate(data); len(problems) > 0 {
		return nil, newValidationError(problems)
	}

	cfg := parseConfig(data)
	cfg.Path = path
	return cfg, nil
}

// mergeLayer copies src over dst. The colors map is merged per entry so a
// single colour can be overridden.
func mergeLayer(dst, src map[string]any) {
	for key, value := range src {
		if key == "colors" {
			existing, ok1 := dst[key].(map[string]any)
			incoming, ok2 := value.(map[string]any)
			if ok1 && ok2 {
				merged := maps.Clone(existing)
				maps.Copy(merged, incoming)
				dst[key] = merged
				continue
			}
		}
		dst[key] = value
	}
}

func readFile(path string) (map[string]any, error) {
	// #nosec G304 -- the path is chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var yamlData map[string]any
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if yamlData == nil {
		yamlData = map[string]any{}
	}
	return yamlData, nil
}

func resolvePath(opts LoadOptions) (string, error) {
	if opts.File != "" {
		expanded, err := expandPath(opts.File)
		if err != nil {
			return "", err
		}
		return filepath.Abs(expanded)
	}

	start := opts.Dir
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		start = wd
	}
	if abs, err := filepath.Abs(start); err == nil {
		start = abs
	}
	if found := FindRepoConfig(start); found != "" {
		return found, nil
	}

	configBase := filepath.Join(getConfigDir(), "gitsummary")
	for _, name := range []string{"config.yaml", "config.yml"} {
		path := filepath.Join(configBase, name)
		if isFile(path) {
			return path, nil
		}
	}
	return "", nil
}

// FindRepoConfig returns the nearest .gitsummary.yaml in dir or one of its
// parents, or "".
func FindRepoConfig(dir string) string {
	dir = filepath.Clean(dir)
	for {
		for _, name := range repoConfigNames {
			path := filepath.Join(dir, name)
			if isFile(path) {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}
