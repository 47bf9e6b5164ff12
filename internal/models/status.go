package models

import "sort"

// StatusKey identifies a canonical lifecycle status. Names outside the
// catalog map to StatusCustom.
type StatusKey int

const (
	StatusCustom StatusKey = iota
	StatusNotStarted
	StatusToInvestigate
	StatusInvestigated
	StatusInProgress
	StatusReadyToTest
	StatusClosed
	StatusComplete
)

var statusCatalog = []struct {
	key  StatusKey
	slug string
	name string
}{
	{StatusNotStarted, "not_started", "Not Started"},
	{StatusToInvestigate, "to_investigate", "To Investigate"},
	{StatusInvestigated, "investigated", "Investigated"},
	{StatusInProgress, "in_progress", "In Progress"},
	{StatusReadyToTest, "ready_to_test", "Ready to Test"},
	{StatusClosed, "closed", "Closed"},
	{StatusComplete, "complete", "Complete"},
}

// DefaultStatuses returns the canonical statuses in catalog order.
// Every project receives one status row per entry.
func DefaultStatuses() []StatusKey {
	keys := make([]StatusKey, len(statusCatalog))
	for i, entry := range statusCatalog {
		keys[i] = entry.key
	}
	return keys
}

// Name returns the display name stored in the statuses table
func (k StatusKey) Name() string {
	for _, entry := range statusCatalog {
		if entry.key == k {
			return entry.name
		}
	}
	return ""
}

// String returns the stable slug for the key ("not_started", ...)
func (k StatusKey) String() string {
	for _, entry := range statusCatalog {
		if entry.key == k {
			return entry.slug
		}
	}
	return "custom"
}

// StatusKeyForName maps a status name to its canonical key
func StatusKeyForName(name string) StatusKey {
	for _, entry := range statusCatalog {
		if entry.name == name {
			return entry.key
		}
	}
	return StatusCustom
}

// StatusKeyForSlug maps a slug such as "in_progress" to its key
func StatusKeyForSlug(slug string) (StatusKey, bool) {
	for _, entry := range statusCatalog {
		if entry.slug == slug {
			return entry.key, true
		}
	}
	return StatusCustom, false
}

// StatusCount is one row of a status breakdown
type StatusCount struct {
	Name  string
	Count int
}

// SortedStatusBreakdown orders counts with canonical statuses first in
// catalog order, followed by custom names alphabetically.
func SortedStatusBreakdown(counts map[string]int) []StatusCount {
	out := make([]StatusCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, StatusCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := StatusKeyForName(out[i].Name), StatusKeyForName(out[j].Name)
		if ki != kj {
			if ki == StatusCustom {
				return false
			}
			if kj == StatusCustom {
				return true
			}
			return ki < kj
		}
		return out[i].Name < out[j].Name
	})
	return out
}
