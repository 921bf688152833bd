package report

import (
	"regexp"

	"github.com/chmouel/gitsummary/internal/layout"
	"github.com/chmouel/gitsummary/internal/models"
	"github.com/chmouel/gitsummary/internal/render"
	"github.com/chmouel/gitsummary/internal/theme"
)

// Unknown status output trailer.
const (
	UnknownHeader = "git returned some unexpected output:"
	UnknownFooter = "Please notify the gitsummary author."
)

var digitRe = regexp.MustCompile(`[0-9]`)

// Options controls how a snapshot is laid out and styled.
type Options struct {
	Width     int // layout.Unbounded disables truncation
	Indicator string
	Sections  []string
	Palette   theme.Palette
	Renderer  render.Renderer
}

type styler func(row []string) string

type section struct {
	rows     [][]string
	variable int
	style    styler
	titled   bool
}

// Build renders the snapshot into printable lines.
func Build(snap models.Snapshot, opts Options) []string {
	r := opts.Renderer
	if r == nil {
		r = render.Plain{}
	}
	p := opts.Palette

	joinStyled := func(tokens []theme.Token) styler {
		return func(row []string) string {
			return row[0] + layout.Separator + r.Style(tokens, row[1]+layout.Separator+row[2])
		}
	}

	all := map[string]*section{
		models.SectionStashes: {
			rows:     StashRows(snap.Stashes),
			variable: stashVariable,
			titled:   true,
			style: func(row []string) string {
				return row[0] + layout.Separator + r.Style(p.Stash, row[1]) + layout.Separator + row[2]
			},
		},
		models.SectionStaged: {
			rows:     ChangeRows(TitleStaged, snap.Statuses.Stage),
			variable: changeVariable,
			titled:   true,
			style:    joinStyled(p.Staged),
		},
		models.SectionUnmerged: {
			rows:     ChangeRows(TitleUnmerged, snap.Statuses.Unmerged),
			variable: changeVariable,
			titled:   true,
			style:    joinStyled(p.Unmerged),
		},
		models.SectionModified: {
			rows:     ChangeRows(TitleModified, snap.Statuses.Workdir),
			variable: changeVariable,
			titled:   true,
			style:    joinStyled(p.Modified),
		},
		models.SectionUntracked: {
			rows:     UntrackedRows(snap.Statuses.Untracked),
			variable: untrackedVariable,
			titled:   true,
			style: func(row []string) string {
				return row[0] + layout.Separator + r.Style(p.Untracked, row[1])
			},
		},
		models.SectionBranches: {
			rows:     BranchRows(snap.Branches),
			variable: branchVariable,
			style:    branchStyler(r, p),
		},
	}

	widths := make(map[string][]int, len(opts.Sections))
	var titled [][]int
	for _, name := range opts.Sections {
		s, ok := all[name]
		if !ok {
			continue
		}
		widths[name] = layout.MaxColumnWidths(s.rows)
		if s.titled {
			titled = append(titled, widths[name])
		}
	}
	layout.SyncTitleWidth(titled...)

	styled := make(map[string][]string, len(widths))
	for name, w := range widths {
		s := all[name]
		aligned := layout.Align(opts.Width, opts.Indicator, s.variable, w, s.rows)
		lines := make([]string, 0, len(aligned))
		for _, row := range aligned {
			lines = append(lines, s.style(row))
		}
		styled[name] = lines
	}

	return Assemble(opts.Sections, styled, snap.Statuses.Unknown)
}

func branchStyler(r render.Renderer, p theme.Palette) styler {
	return func(row []string) string {
		var marker, diverged []theme.Token
		marker = append(marker, p.BranchMarker...)
		// Digits in the remote column mean the branch is out of sync with it.
		if digitRe.MatchString(row[2]) {
			marker = append(marker, p.BranchDiverged...)
			diverged = p.BranchDiverged
		}
		return r.Style(marker, row[0]) + layout.Separator +
			r.Style(diverged, row[1]) + layout.Separator +
			r.Style(diverged, row[2]) + layout.Separator +
			row[3] + layout.Separator +
			row[4]
	}
}

// Assemble prints sections in order with one blank line between consecutive
// non-empty sections, followed by the unknown status lines if any.
func Assemble(order []string, sections map[string][]string, unknown []string) []string {
	var out []string
	printed := false
	for _, name := range order {
		lines := sections[name]
		if len(lines) == 0 {
			continue
		}
		if printed {
			out = append(out, "")
		}
		out = append(out, lines...)
		printed = true
	}

	if len(unknown) > 0 {
		out = append(out, UnknownHeader, "")
		out = append(out, unknown...)
		out = append(out, "", UnknownFooter)
	}
	if out == nil {
		out = []string{}
	}
	return out
}
