package models

import (
	"reflect"
	"testing"
)

func TestDefaultStatusesOrder(t *testing.T) {
	want := []string{"Not Started", "To Investigate", "Investigated", "In Progress", "Ready to Test", "Closed", "Complete"}

	keys := DefaultStatuses()
	if len(keys) != len(want) {
		t.Fatalf("got %d statuses, want %d", len(keys), len(want))
	}
	for i, k := range keys {
		if k.Name() != want[i] {
			t.Errorf("status %d: got %q, want %q", i, k.Name(), want[i])
		}
	}
}

func TestStatusKeyForName(t *testing.T) {
	tests := []struct {
		name string
		want StatusKey
	}{
		{"Not Started", StatusNotStarted},
		{"In Progress", StatusInProgress},
		{"Complete", StatusComplete},
		{"Closed", StatusClosed},
		{"complete", StatusCustom},
		{"Blocked", StatusCustom},
		{"", StatusCustom},
	}
	for _, tt := range tests {
		if got := StatusKeyForName(tt.name); got != tt.want {
			t.Errorf("StatusKeyForName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStatusKeySlugRoundTrip(t *testing.T) {
	for _, k := range DefaultStatuses() {
		got, ok := StatusKeyForSlug(k.String())
		if !ok || got != k {
			t.Errorf("slug %q resolved to %v (ok=%v)", k.String(), got, ok)
		}
	}
	if _, ok := StatusKeyForSlug("custom"); ok {
		t.Error("custom slug should not resolve to a canonical key")
	}
}

func TestStatusIsDefault(t *testing.T) {
	if !(&Status{Name: "Ready to Test"}).IsDefault() {
		t.Error("Ready to Test should be a default status")
	}
	if (&Status{Name: "Waiting on Vendor"}).IsDefault() {
		t.Error("custom status reported as default")
	}
}

func TestSortedStatusBreakdown(t *testing.T) {
	got := SortedStatusBreakdown(map[string]int{
		"Complete":    2,
		"Custom":      1,
		"Not Started": 4,
	})
	want := []StatusCount{
		{Name: "Not Started", Count: 4},
		{Name: "Complete", Count: 2},
		{Name: "Custom", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSortedStatusBreakdownCustomAlphabetical(t *testing.T) {
	got := SortedStatusBreakdown(map[string]int{
		"Zeta":        1,
		"Alpha":       1,
		"In Progress": 3,
		"Blocked":     2,
	})
	names := make([]string, len(got))
	for i, sc := range got {
		names[i] = sc.Name
	}
	want := []string{"In Progress", "Alpha", "Blocked", "Zeta"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("got %v, want %v", names, want)
	}
}

func TestSortedStatusBreakdownEmpty(t *testing.T) {
	if got := SortedStatusBreakdown(nil); len(got) != 0 {
		t.Errorf("expected empty breakdown, got %v", got)
	}
}

func TestTaskStatusPredicates(t *testing.T) {
	task := Task{Status: &Status{Name: "In Progress"}}
	if !task.IsInProgress() {
		t.Error("expected IsInProgress")
	}
	if task.IsNotStarted() || task.IsComplete() || task.IsClosed() {
		t.Error("predicates for other statuses should be false")
	}

	preds := map[string]func(*Task) bool{
		"Not Started":    (*Task).IsNotStarted,
		"To Investigate": (*Task).IsToInvestigate,
		"Investigated":   (*Task).IsInvestigated,
		"In Progress":    (*Task).IsInProgress,
		"Ready to Test":  (*Task).IsReadyToTest,
		"Closed":         (*Task).IsClosed,
		"Complete":       (*Task).IsComplete,
	}
	for name := range preds {
		task := Task{Status: &Status{Name: name}}
		for other, otherPred := range preds {
			if got := otherPred(&task); got != (other == name) {
				t.Errorf("status %q: predicate for %q = %v", name, other, got)
			}
		}
	}

	var unloaded Task
	if unloaded.IsNotStarted() {
		t.Error("task without a loaded status should match nothing")
	}
}
