package config

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// gitConfigPrefix namespaces gitsummary keys in git config and CLI overrides.
const gitConfigPrefix = "gitsummary."

// gitConfigMock allows tests to mock git config output.
var gitConfigMock func(args []string, repoPath string) (string, error)

// runGitConfig executes git config command and returns raw output.
func runGitConfig(args []string, repoPath string) (string, error) {
	if gitConfigMock != nil {
		return gitConfigMock(args, repoPath)
	}

	cmd := exec.Command("git", args...)
	if repoPath != "" {
		cmd.Dir = repoPath
	}

	output, err := cmd.Output()
	if err != nil {
		// git config returns exit code 1 when key not found (not an error)
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return string(output), nil
}

// normalizeKey maps "gitsummary.default-target" to "default_target". Git
// does not allow underscores in variable names, so dashes stand in for them.
func normalizeKey(key string) string {
	key = strings.TrimPrefix(key, gitConfigPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "-", "_")
}

// parseGitConfigOutput parses git config output into multi-value map.
// Input format: "gitsummary.default-target develop\ngitsummary.branch-order ^main$\n"
func parseGitConfigOutput(output string) (map[string][]string, error) {
	configMap := make(map[string][]string)
	if output == "" {
		return configMap, nil
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")

	for _, line := range lines {
		if line == "" {
			continue
		}

		// Values may contain spaces, only the key is split off.
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}

		key := normalizeKey(parts[0])
		configMap[key] = append(configMap[key], parts[1])
	}

	return configMap, nil
}

// convertStringValues turns string settings from git config or the command
// line into the shapes Validate and parseConfig expect.
func convertStringValues(values map[string][]string) map[string]any {
	result := make(map[string]any)

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}

		if entry, ok := strings.CutPrefix(key, "colors."); ok {
			colors, _ := result["colors"].(map[string]any)
			if colors == nil {
				colors = make(map[string]any)
				result["colors"] = colors
			}
			colors[entry] = splitList(vals[len(vals)-1])
			continue
		}

		switch key {
		case "branch_order":
			result[key] = toAnySlice(vals)
		case "sections":
			var names []string
			for _, v := range vals {
				for _, item := range splitList(v) {
					names = append(names, item.(string))
				}
			}
			result[key] = toAnySlice(names)
		case "branches":
			rules := make([]any, 0, len(vals))
			for _, v := range vals {
				rules = append(rules, parseRuleString(v))
			}
			result[key] = rules
		case "show_all_branches", "no_optional_locks":
			last := vals[len(vals)-1]
			if coerceBool(last, true) == coerceBool(last, false) {
				result[key] = coerceBool(last, false)
			} else {
				result[key] = last
			}
		default:
			// Single-valued keys keep the last value, as git does.
			result[key] = vals[len(vals)-1]
		}
	}

	return result
}

// parseRuleString reads "<regex> <target>"; the target is everything after
// the last space and may be omitted.
func parseRuleString(v string) map[string]any {
	v = strings.TrimSpace(v)
	name, target := v, ""
	if i := strings.LastIndex(v, " "); i >= 0 {
		name, target = strings.TrimSpace(v[:i]), v[i+1:]
	}
	return map[string]any{"name": name, "target": target}
}

func splitList(v string) []any {
	var out []any
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if out == nil {
		out = []any{}
	}
	return out
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// loadGitConfig reads git config values and returns map for parseConfig.
func loadGitConfig(globalOnly bool, repoPath string) (map[string]any, error) {
	args := []string{"config", "--get-regexp", `^gitsummary\.`}

	if globalOnly {
		args = append(args, "--global")
	} else {
		args = append(args, "--local")
	}

	output, err := runGitConfig(args, repoPath)
	if err != nil {
		return nil, err
	}

	if output == "" {
		return make(map[string]any), nil
	}

	gitCfg, err := parseGitConfigOutput(output)
	if err != nil {
		return nil, err
	}

	return convertStringValues(gitCfg), nil
}

// isInGitRepo checks if path is in a git repository.
func isInGitRepo(path string) bool {
	if path == "" {
		return false
	}
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = path
	return cmd.Run() == nil
}

// determineRepoPath returns repo path for local git config lookup.
func determineRepoPath(dir string) string {
	if dir != "" && isInGitRepo(dir) {
		return dir
	}

	if wd, err := os.Getwd(); err == nil && isInGitRepo(wd) {
		return wd
	}

	return ""
}

// parseCLIConfigOverrides parses --config=key=value pairs. The key may carry
// the "gitsummary." prefix used in git config.
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	values := make(map[string][]string)
	for _, override := range overrides {
		fullKey, value, ok := strings.Cut(override, "=")
		if !ok {
			return nil, fmt.Errorf("invalid config override: %q, expected format: key=value (note: use = not space)", override)
		}

		key := normalizeKey(strings.TrimSpace(fullKey))
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}
		values[key] = append(values[key], value)
	}

	return convertStringValues(values), nil
}
