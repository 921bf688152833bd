package branch

import (
	"fmt"
	"strconv"

	"github.com/chmouel/gitsummary/internal/models"
)

const (
	aheadBehindCellWidth = 4
	maxShownCount        = 999
)

// FormatAheadBehind renders a pair of counts in a fixed 10-character cell:
// the ahead part right-aligned to 4, two spaces, the behind part left-aligned
// to 4. Zero reads ".", absent is blank and counts above 999 read ">999".
func FormatAheadBehind(ahead, behind models.Count) string {
	return fmt.Sprintf("%*s  %-*s",
		aheadBehindCellWidth, formatCount(ahead, "+"),
		aheadBehindCellWidth, formatCount(behind, "-"))
}

func formatCount(c models.Count, sign string) string {
	switch {
	case !c.Valid:
		return ""
	case c.N == 0:
		return "."
	case c.N > maxShownCount:
		return ">" + strconv.Itoa(maxShownCount)
	default:
		return sign + strconv.Itoa(c.N)
	}
}
