// Package report turns a repository snapshot into the lines of the summary.
package report

import (
	"fmt"

	"github.com/chmouel/gitsummary/internal/models"
)

// Section titles, shown on the first row of each file section.
const (
	TitleStashes   = "Stashes"
	TitleStaged    = "Staged"
	TitleUnmerged  = "Unmerged"
	TitleModified  = "Modified"
	TitleUntracked = "Untracked"
)

// Variable column per section.
const (
	stashVariable     = 2
	changeVariable    = 2
	untrackedVariable = 1
	branchVariable    = 1
)

// branchHeader labels the two ahead/behind columns.
var branchHeader = []string{"", "", "  Remote", "  Target", ""}

func title(label string, i int) string {
	if i == 0 {
		return label
	}
	return ""
}

// StashRows returns [title, name, description] rows.
func StashRows(stashes []models.StashEntry) [][]string {
	rows := make([][]string, 0, len(stashes))
	for i, s := range stashes {
		rows = append(rows, []string{title(TitleStashes, i), s.Name, s.Description})
	}
	return rows
}

// ChangeRows returns [title, type, file] rows. Renames and copies show their
// score and both names.
func ChangeRows(label string, changes []models.Change) [][]string {
	rows := make([][]string, 0, len(changes))
	for i, c := range changes {
		kind, file := c.Type, c.Filename
		if c.Rename != nil {
			kind = fmt.Sprintf("%s(%s)", c.Type, c.Rename.Score)
			file = c.Filename + " -> " + c.Rename.NewFilename
		}
		rows = append(rows, []string{title(label, i), kind, file})
	}
	return rows
}

// UntrackedRows returns [title, file] rows.
func UntrackedRows(files []string) [][]string {
	rows := make([][]string, 0, len(files))
	for i, f := range files {
		rows = append(rows, []string{title(TitleUntracked, i), f})
	}
	return rows
}

// BranchRows returns the header row followed by one row per branch, or no
// rows at all without branches.
func BranchRows(branches []models.BranchRow) [][]string {
	if len(branches) == 0 {
		return [][]string{}
	}
	rows := make([][]string, 0, len(branches)+1)
	rows = append(rows, append([]string(nil), branchHeader...))
	for _, b := range branches {
		rows = append(rows, b.Cells())
	}
	return rows
}
