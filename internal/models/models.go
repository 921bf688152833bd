// Package models defines the data objects shared across gitsummary packages.
package models

// Change is one file's divergence in one dimension (HEAD vs index or index
// vs working tree).
type Change struct {
	Type     string // A=Added, M=Modified, D=Deleted, R=Renamed, C=Copied, XY for unmerged
	Filename string
	Rename   *Rename // non-nil only for rename/copy records
}

// Rename carries the extra fields of a rename or copy record.
type Rename struct {
	NewFilename string
	Score       string // similarity heuristic, 0-100
}

// IsRename reports whether the change is a rename or copy.
func (c Change) IsRename() bool { return c.Rename != nil }

// DisplayFilename returns the path the working tree knows the file by.
func (c Change) DisplayFilename() string {
	if c.Rename != nil {
		return c.Rename.NewFilename
	}
	return c.Filename
}

// FileStatusSet groups the parsed status lines of a single query.
type FileStatusSet struct {
	Stage     []Change
	Workdir   []Change
	Unmerged  []Change
	Untracked []string
	Unknown   []string // raw lines the parser did not recognise
}

// StashEntry is one entry of the stash reflog, newest first.
type StashEntry struct {
	FullHash    string
	Name        string // stash@{N}
	Description string
}

// Count is a commit count that may be absent. Absent means there was nothing
// to compare against and renders differently from zero.
type Count struct {
	N     int
	Valid bool
}

// Known returns a present count.
func Known(n int) Count { return Count{N: n, Valid: true} }

// Absent is the not-applicable count.
var Absent = Count{}

// BranchDivergence holds ahead/behind counts against the remote and the
// target branch.
type BranchDivergence struct {
	AheadRemote  Count
	BehindRemote Count
	AheadTarget  Count
	BehindTarget Count
	RemoteBranch string
	TargetBranch string
}

// BranchRow is the five-column summary of one branch.
type BranchRow struct {
	Marker       string // "*" for the current branch
	Name         string
	RemoteString string
	TargetString string
	Target       string
}

// Cells returns the row as table cells.
func (r BranchRow) Cells() []string {
	return []string{r.Marker, r.Name, r.RemoteString, r.TargetString, r.Target}
}
