package process

import (
	"fmt"
	"sort"
	"strings"

	"github.com/snarg/atc-engine/internal/filter"
)

// FormatStats renders filtering statistics as a plain-text report, reasons
// sorted by count descending then alphabetically.
func FormatStats(s filter.Stats) string {
	var b strings.Builder

	b.WriteString("TRANSMISSION FILTER REPORT\n")
	fmt.Fprintf(&b, "  total:    %d\n", s.Total)
	fmt.Fprintf(&b, "  kept:     %d\n", s.Kept)
	fmt.Fprintf(&b, "  excluded: %d (%.1f%%)\n", s.Excluded, s.ExclusionRate*100)

	if len(s.Reasons) == 0 {
		return b.String()
	}

	type rc struct {
		reason string
		count  int
	}
	reasons := make([]rc, 0, len(s.Reasons))
	width := 0
	for reason, count := range s.Reasons {
		reasons = append(reasons, rc{reason, count})
		if len(reason) > width {
			width = len(reason)
		}
	}
	sort.Slice(reasons, func(i, j int) bool {
		if reasons[i].count != reasons[j].count {
			return reasons[i].count > reasons[j].count
		}
		return reasons[i].reason < reasons[j].reason
	})

	b.WriteString("  exclusion reasons:\n")
	for _, r := range reasons {
		fmt.Fprintf(&b, "    %-*s %d\n", width, r.reason, r.count)
	}
	return b.String()
}
