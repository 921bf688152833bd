// Package status parses `git status --porcelain=2` output.
package status

import (
	"strings"

	"github.com/chmouel/gitsummary/internal/models"
)

// noChange marks an untouched dimension in an XY code.
const noChange = '.'

// Leading space-delimited fields before the path, per line type.
const (
	ordinaryFields = 8
	renameFields   = 9
	unmergedFields = 10
)

type lineParser struct {
	prefix string
	parse  func(set *models.FileStatusSet, line string) bool
}

// lineParsers is evaluated in order; the first matching prefix handles the
// line. A handler returning false leaves the line to the unknown bucket.
var lineParsers = []lineParser{
	{prefix: "1 ", parse: parseOrdinary},
	{prefix: "2 ", parse: parseRename},
	{prefix: "u ", parse: parseUnmerged},
	{prefix: "? ", parse: parseUntracked},
}

// ParseFileStatuses sorts porcelain v2 lines into stage, workdir, unmerged,
// untracked and unknown buckets. It never fails: lines it cannot make sense
// of are kept verbatim in Unknown.
func ParseFileStatuses(lines []string) models.FileStatusSet {
	set := models.FileStatusSet{
		Stage:     []models.Change{},
		Workdir:   []models.Change{},
		Unmerged:  []models.Change{},
		Untracked: []string{},
		Unknown:   []string{},
	}

	for _, line := range lines {
		handled := false
		for _, p := range lineParsers {
			if strings.HasPrefix(line, p.prefix) {
				handled = p.parse(&set, line)
				break
			}
		}
		if !handled {
			set.Unknown = append(set.Unknown, line)
		}
	}

	return set
}

// splitFields returns the first n space-delimited fields and the rest of the
// line verbatim. Paths may contain spaces, so only the fixed fields are split.
func splitFields(line string, n int) ([]string, string, bool) {
	parts := strings.SplitN(line, " ", n+1)
	if len(parts) != n+1 {
		return nil, "", false
	}
	return parts[:n], parts[n], true
}

func xyCode(fields []string) (byte, byte, bool) {
	if len(fields) < 2 || len(fields[1]) != 2 {
		return 0, 0, false
	}
	return fields[1][0], fields[1][1], true
}

func parseOrdinary(set *models.FileStatusSet, line string) bool {
	fields, path, ok := splitFields(line, ordinaryFields)
	if !ok || path == "" {
		return false
	}
	x, y, ok := xyCode(fields)
	if !ok {
		return false
	}

	if x != noChange {
		set.Stage = append(set.Stage, models.Change{Type: string(x), Filename: path})
	}
	if y != noChange {
		set.Workdir = append(set.Workdir, models.Change{Type: string(y), Filename: path})
	}
	return true
}

func parseRename(set *models.FileStatusSet, line string) bool {
	fields, paths, ok := splitFields(line, renameFields)
	if !ok {
		return false
	}
	x, y, ok := xyCode(fields)
	if !ok {
		return false
	}
	score := fields[renameFields-1]
	if len(score) < 2 {
		return false
	}
	newPath, origPath, found := strings.Cut(paths, "\t")
	if !found || newPath == "" || origPath == "" {
		return false
	}

	if x != noChange {
		set.Stage = append(set.Stage, models.Change{
			Type:     string(x),
			Filename: origPath,
			Rename: &models.Rename{
				NewFilename: newPath,
				Score:       score[1:],
			},
		})
	}
	// The working tree is compared with the index, which already has the new name.
	if y != noChange {
		set.Workdir = append(set.Workdir, models.Change{Type: string(y), Filename: newPath})
	}
	return true
}

func parseUnmerged(set *models.FileStatusSet, line string) bool {
	fields, path, ok := splitFields(line, unmergedFields)
	if !ok || path == "" {
		return false
	}
	if _, _, ok := xyCode(fields); !ok {
		return false
	}
	set.Unmerged = append(set.Unmerged, models.Change{Type: fields[1], Filename: path})
	return true
}

func parseUntracked(set *models.FileStatusSet, line string) bool {
	path := line[2:]
	if path == "" {
		return false
	}
	set.Untracked = append(set.Untracked, path)
	return true
}
