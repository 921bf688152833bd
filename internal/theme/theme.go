// Package theme defines the style tokens and palettes used by the report.
package theme

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Token is one text attribute or colour.
type Token string

// Style tokens.
const (
	Bold     Token = "bold"
	Flashing Token = "flashing"
	Green    Token = "green"
	Magenta  Token = "magenta"
	Red      Token = "red"
	Yellow   Token = "yellow"
)

var knownTokens = []Token{Bold, Flashing, Green, Magenta, Red, Yellow}

// ParseToken maps a token name to a Token.
func ParseToken(name string) (Token, error) {
	tok := Token(strings.ToLower(strings.TrimSpace(name)))
	if slices.Contains(knownTokens, tok) {
		return tok, nil
	}
	return "", fmt.Errorf("unknown style %q", name)
}

// TokenNames lists the accepted token names.
func TokenNames() []string {
	names := make([]string, 0, len(knownTokens))
	for _, t := range knownTokens {
		names = append(names, string(t))
	}
	return names
}

// Palette keys.
const (
	KeyStash          = "stash"
	KeyStaged         = "staged"
	KeyUnmerged       = "unmerged"
	KeyModified       = "modified"
	KeyUntracked      = "untracked"
	KeyBranchMarker   = "branch_marker"
	KeyBranchDiverged = "branch_diverged"
)

// Palette assigns tokens to each styled part of the report.
type Palette struct {
	Stash          []Token
	Staged         []Token
	Unmerged       []Token
	Modified       []Token
	Untracked      []Token
	BranchMarker   []Token
	BranchDiverged []Token // added to the marker, name and remote columns of a branch out of sync with its remote
}

// DefaultPalette returns the stock report colours.
func DefaultPalette() Palette {
	return Palette{
		Stash:          []Token{Green},
		Staged:         []Token{Green},
		Unmerged:       []Token{Red, Bold},
		Modified:       []Token{Red},
		Untracked:      []Token{Yellow},
		BranchMarker:   []Token{Magenta},
		BranchDiverged: []Token{Bold},
	}
}

func (p *Palette) slot(key string) *[]Token {
	switch key {
	case KeyStash:
		return &p.Stash
	case KeyStaged:
		return &p.Staged
	case KeyUnmerged:
		return &p.Unmerged
	case KeyModified:
		return &p.Modified
	case KeyUntracked:
		return &p.Untracked
	case KeyBranchMarker:
		return &p.BranchMarker
	case KeyBranchDiverged:
		return &p.BranchDiverged
	}
	return nil
}

// Set replaces the tokens of one palette entry.
func (p *Palette) Set(key string, tokens []Token) error {
	slot := p.slot(key)
	if slot == nil {
		return fmt.Errorf("unknown palette entry %q", key)
	}
	*slot = slices.Clone(tokens)
	return nil
}

// Get returns the tokens of one palette entry.
func (p Palette) Get(key string) ([]Token, bool) {
	slot := p.slot(key)
	if slot == nil {
		return nil, false
	}
	return *slot, true
}

// Keys lists palette entries in sorted order.
func Keys() []string {
	keys := []string{
		KeyStash, KeyStaged, KeyUnmerged, KeyModified,
		KeyUntracked, KeyBranchMarker, KeyBranchDiverged,
	}
	sort.Strings(keys)
	return keys
}

// Messages styles diagnostics written to stderr.
type Messages struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
}

// NewMessages builds message styles bound to renderer r.
func NewMessages(r *lipgloss.Renderer) Messages {
	return Messages{
		Error:   r.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color("#FFB86C")),
	}
}
