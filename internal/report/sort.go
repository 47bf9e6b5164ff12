package report

import (
	"cmp"
	"sort"
	"strings"
)

// SortKey selects the field the project breakdown is ordered by
type SortKey string

const (
	SortTotalTasks      SortKey = "total_tasks"
	SortCompletionRatio SortKey = "completion_ratio"
	SortName            SortKey = "name"
)

// SortKeys lists the accepted sort keys
var SortKeys = []SortKey{SortTotalTasks, SortCompletionRatio, SortName}

// ParseSortKey returns the named key, falling back to total_tasks
func ParseSortKey(s string) SortKey {
	for _, k := range SortKeys {
		if string(k) == s {
			return k
		}
	}
	return SortTotalTasks
}

// Direction is ascending or descending
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection returns asc or desc, falling back to desc
func ParseDirection(s string) Direction {
	if Direction(s) == Asc {
		return Asc
	}
	return Desc
}

// Sort orders the project breakdown in place. Ties keep their current
// order.
func (r *Result) Sort(key SortKey, dir Direction) {
	pb := r.ProjectsBreakdown
	sort.SliceStable(pb, func(i, j int) bool {
		c := compareBreakdown(pb[i], pb[j], key)
		if dir == Asc {
			return c < 0
		}
		return c > 0
	})
}

func compareBreakdown(a, b ProjectBreakdown, key SortKey) int {
	switch key {
	case SortCompletionRatio:
		return cmp.Compare(a.CompletionRatio, b.CompletionRatio)
	case SortName:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	default:
		return cmp.Compare(a.TotalTasks, b.TotalTasks)
	}
}
