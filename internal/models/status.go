package models

// Section names accepted in the report configuration.
const (
	SectionStashes   = "stashes"
	SectionStaged    = "staged"
	SectionUnmerged  = "unmerged"
	SectionModified  = "modified"
	SectionUntracked = "untracked"
	SectionBranches  = "branches"
)

// AllSections lists every known section in default display order.
func AllSections() []string {
	return []string{
		SectionStashes,
		SectionStaged,
		SectionUnmerged,
		SectionModified,
		SectionUntracked,
		SectionBranches,
	}
}

// Snapshot is the raw repository state collected for one report.
type Snapshot struct {
	Statuses      FileStatusSet
	Stashes       []StashEntry
	Branches      []BranchRow
	CurrentBranch string
	Detached      bool
}
