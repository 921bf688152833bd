// Package branch resolves target branches, orders branches for display and
// computes ahead/behind divergence.
package branch

import (
	"regexp"
	"slices"
)

// Rule maps branches whose name matches Pattern to a target branch.
type Rule struct {
	Pattern *regexp.Regexp
	Target  string
}

// Config holds the validated branch rules.
type Config struct {
	Rules         []Rule
	DefaultTarget string
	Order         []*regexp.Regexp
}

// RefSet is a set of branch names, local ("dev") or remote ("origin/dev").
type RefSet map[string]struct{}

// NewRefSet builds a set from the given names.
func NewRefSet(names ...string) RefSet {
	set := make(RefSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Has reports whether name is in the set.
func (s RefSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// ResolveTarget returns the branch that name is compared against. The first
// matching rule wins; its target only counts when it exists. Without a
// matching rule the default target is used under the same condition.
func ResolveTarget(name string, cfg Config, existing RefSet) string {
	target := cfg.DefaultTarget
	for _, rule := range cfg.Rules {
		if rule.Pattern.MatchString(name) {
			target = rule.Target
			break
		}
	}
	if target == "" || !existing.Has(target) {
		return ""
	}
	return target
}

// Order sorts branches for display: for each pattern in turn the matching
// branches not yet placed are appended in lexical order, followed by the
// remaining branches in lexical order.
func Order(branches []string, patterns []*regexp.Regexp) []string {
	remaining := slices.Clone(branches)
	slices.Sort(remaining)

	ordered := make([]string, 0, len(branches))
	for _, re := range patterns {
		kept := remaining[:0]
		for _, b := range remaining {
			if re.MatchString(b) {
				ordered = append(ordered, b)
				continue
			}
			kept = append(kept, b)
		}
		remaining = kept
	}
	return append(ordered, remaining...)
}
