// Package layout aligns rows of cells into fixed-width columns. One column
// per section is variable: it absorbs whatever width is left and is the only
// one ever truncated.
package layout

import (
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

// Unbounded disables truncation; the variable column keeps its natural width.
const Unbounded = -1

// Separator joins adjacent columns.
const Separator = " "

// Section is a block of rows sharing column widths.
type Section struct {
	Rows           [][]string
	VariableColumn int
}

// Width returns the display width of s.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// MaxColumnWidths returns, per column, the widest cell across rows. No rows
// yields an empty list.
func MaxColumnWidths(rows [][]string) []int {
	if len(rows) == 0 {
		return []int{}
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			widths[i] = max(widths[i], Width(cell))
		}
	}
	return widths
}

// SyncTitleWidth sets the first column of every non-empty widths list to the
// largest first column among them, so titles of several sections line up.
func SyncTitleWidth(sections ...[]int) {
	title := 0
	for _, widths := range sections {
		if len(widths) > 0 {
			title = max(title, widths[0])
		}
	}
	for _, widths := range sections {
		if len(widths) > 0 {
			widths[0] = title
		}
	}
}

// Available returns the width left for the variable column once the fixed
// columns and separators are placed, never below zero.
func Available(width, variable int, widths []int) int {
	if width == Unbounded {
		return widths[variable]
	}
	static := 0
	for i, w := range widths {
		if i != variable {
			static += w
		}
	}
	return max(0, width-static-(len(widths)-1)*Width(Separator))
}

// Align pads fixed columns to their width and fits the variable column to the
// width that remains. With a bounded width, over-long variable cells are cut
// and end with indicator when it fits.
func Align(width int, indicator string, variable int, widths []int, rows [][]string) [][]string {
	if len(rows) == 0 {
		return [][]string{}
	}

	available := Available(width, variable, widths)
	aligned := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			switch {
			case i == variable:
				cells[i] = fit(cell, available, indicator, width != Unbounded)
			case i < len(widths):
				cells[i] = runewidth.FillRight(cell, widths[i])
			default:
				cells[i] = cell
			}
		}
		aligned = append(aligned, cells)
	}
	return aligned
}

// AlignSection runs Align over a section.
func AlignSection(width int, indicator string, widths []int, s Section) Section {
	return Section{
		Rows:           Align(width, indicator, s.VariableColumn, widths, s.Rows),
		VariableColumn: s.VariableColumn,
	}
}

func fit(cell string, available int, indicator string, bounded bool) string {
	if bounded && Width(cell) > available {
		if indicator != "" && Width(indicator) <= available {
			cell = truncate.StringWithTail(cell, uint(available), indicator) //nolint:gosec // available is clamped to >= 0
		} else {
			cell = runewidth.Truncate(cell, available, "")
		}
	}
	return runewidth.FillRight(cell, available)
}
