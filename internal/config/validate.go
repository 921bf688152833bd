package config

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/chmouel/gitsummary/internal/models"
	"github.com/chmouel/gitsummary/internal/theme"
)

type validator func(key string, value any) []string

var validators = map[string]validator{
	"branch_order":         validateRegexList,
	"default_target":       validateString,
	"branches":             validateBranches,
	"sections":             validateSections,
	"show_all_branches":    validateBool,
	"truncation_indicator": validateString,
	"width":                validateWidth,
	"color":                validateColor,
	"no_optional_locks":    validateBool,
	"colors":               validateColors,
	"debug_log":            validateString,
}

// Keys lists the accepted top-level keys.
func Keys() []string {
	keys := make([]string, 0, len(validators))
	for key := range validators {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Problems []string
}

func newValidationError(problems []string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return ErrInvalid.Error() + ":\n  " + strings.Join(e.Problems, "\n  ")
}

// Unwrap makes errors.Is(err, ErrInvalid) hold.
func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Validate checks raw settings and returns one message per problem, sorted.
// An empty result means the settings can be used.
func Validate(data map[string]any) []string {
	var problems []string
	for key, value := range data {
		check, ok := validators[key]
		if !ok {
			problems = append(problems, fmt.Sprintf("unknown key %q", key))
			continue
		}
		problems = append(problems, check(key, value)...)
	}
	sort.Strings(problems)
	return problems
}

func validateString(key string, value any) []string {
	if _, ok := value.(string); !ok {
		return []string{fmt.Sprintf("%s: expected a string, got %s", key, describe(value))}
	}
	return nil
}

func validateBool(key string, value any) []string {
	switch v := value.(type) {
	case bool:
		return nil
	case string:
		if coerceBool(v, true) == coerceBool(v, false) {
			return nil
		}
	}
	return []string{fmt.Sprintf("%s: expected a boolean, got %s", key, describe(value))}
}

func validateRegex(key, pattern string) []string {
	if _, err := regexp.Compile(pattern); err != nil {
		return []string{fmt.Sprintf("%s: invalid regular expression %q: %v", key, pattern, err)}
	}
	return nil
}

func validateRegexList(key string, value any) []string {
	items, ok := value.([]any)
	if !ok {
		return []string{fmt.Sprintf("%s: expected a list of regular expressions, got %s", key, describe(value))}
	}
	var problems []string
	for i, item := range items {
		itemKey := fmt.Sprintf("%s[%d]", key, i)
		pattern, ok := item.(string)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: expected a string, got %s", itemKey, describe(item)))
			continue
		}
		problems = append(problems, validateRegex(itemKey, pattern)...)
	}
	return problems
}

func validateBranches(key string, value any) []string {
	items, ok := value.([]any)
	if !ok {
		return []string{fmt.Sprintf("%s: expected a list of {name, target} rules, got %s", key, describe(value))}
	}
	var problems []string
	for i, item := range items {
		itemKey := fmt.Sprintf("%s[%d]", key, i)
		rule, ok := item.(map[string]any)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: expected a {name, target} rule, got %s", itemKey, describe(item)))
			continue
		}
		for field := range rule {
			if field != "name" && field != "target" {
				problems = append(problems, fmt.Sprintf("%s: unknown key %q", itemKey, field))
			}
		}
		name, hasName := rule["name"]
		switch pattern, ok := name.(string); {
		case !hasName:
			problems = append(problems, fmt.Sprintf("%s: missing key \"name\"", itemKey))
		case !ok:
			problems = append(problems, fmt.Sprintf("%s.name: expected a string, got %s", itemKey, describe(name)))
		default:
			problems = append(problems, validateRegex(itemKey+".name", pattern)...)
		}
		target, hasTarget := rule["target"]
		if !hasTarget {
			problems = append(problems, fmt.Sprintf("%s: missing key \"target\"", itemKey))
		} else if _, ok := target.(string); !ok {
			problems = append(problems, fmt.Sprintf("%s.target: expected a string, got %s", itemKey, describe(target)))
		}
	}
	return problems
}

func validateSections(key string, value any) []string {
	items, ok := value.([]any)
	if !ok {
		return []string{fmt.Sprintf("%s: expected a list of section names, got %s", key, describe(value))}
	}
	known := models.AllSections()
	var problems []string
	for i, item := range items {
		name, ok := item.(string)
		if !ok || !slices.Contains(known, name) {
			problems = append(problems, fmt.Sprintf("%s[%d]: unknown section %s (expected one of %s)",
				key, i, describe(item), strings.Join(known, ", ")))
		}
	}
	return problems
}

func validateWidth(key string, value any) []string {
	switch v := value.(type) {
	case int:
		if v >= 0 {
			return nil
		}
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		if text == WidthAuto || text == WidthUnbounded {
			return nil
		}
		if n, err := strconv.Atoi(text); err == nil && n >= 0 {
			return nil
		}
	}
	return []string{fmt.Sprintf("%s: expected a column count, %q or %q, got %s", key, WidthAuto, WidthUnbounded, describe(value))}
}

func validateColor(key string, value any) []string {
	if v, ok := value.(string); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case ColorAuto, ColorAlways, ColorNever:
			return nil
		}
	}
	return []string{fmt.Sprintf("%s: expected %q, %q or %q, got %s", key, ColorAuto, ColorAlways, ColorNever, describe(value))}
}

func validateColors(key string, value any) []string {
	entries, ok := value.(map[string]any)
	if !ok {
		return []string{fmt.Sprintf("%s: expected a map of style lists, got %s", key, describe(value))}
	}
	var problems []string
	for entry, tokens := range entries {
		entryKey := key + "." + entry
		if !slices.Contains(theme.Keys(), entry) {
			problems = append(problems, fmt.Sprintf("%s: unknown entry (expected one of %s)", entryKey, strings.Join(theme.Keys(), ", ")))
			continue
		}
		var names []any
		switch v := tokens.(type) {
		case string:
			names = []any{v}
		case []any:
			names = v
		case nil:
		default:
			problems = append(problems, fmt.Sprintf("%s: expected a list of styles, got %s", entryKey, describe(tokens)))
			continue
		}
		for _, n := range names {
			name, ok := n.(string)
			if !ok {
				problems = append(problems, fmt.Sprintf("%s: expected a style name, got %s", entryKey, describe(n)))
				continue
			}
			if _, err := theme.ParseToken(name); err != nil {
				problems = append(problems, fmt.Sprintf("%s: %v (expected one of %s)", entryKey, err, strings.Join(theme.TokenNames(), ", ")))
			}
		}
	}
	return problems
}

func describe(value any) string {
	switch v := value.(type) {
	case nil:
		return "nothing"
	case string:
		return strconv.Quote(v)
	case []any:
		return "a list"
	case map[string]any:
		return "a map"
	default:
		return fmt.Sprintf("%T %v", v, v)
	}
}
