package services

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/tgienger/mustermeister/internal/models"
)

func boardTitles(columns []KanbanColumn) map[models.StatusKey][]string {
	out := make(map[models.StatusKey][]string)
	for _, col := range columns {
		titles := []string{}
		for _, t := range col.Tasks {
			titles = append(titles, t.Title)
		}
		slices.Sort(titles)
		out[col.Status] = titles
	}
	return out
}

func TestKanban(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	garden := f.project(t, nil)
	kitchen := f.project(t, &models.Project{Title: "Kitchen", DefaultPriority: models.PriorityHigh})

	f.task(t, garden.ID, "Sow")
	dig := f.task(t, garden.ID, "Dig")
	harvest := f.task(t, garden.ID, "Harvest")
	scrap := f.task(t, garden.ID, "Scrap")
	ponder := f.task(t, garden.ID, "Ponder")
	old := f.task(t, garden.ID, "Old")
	f.task(t, kitchen.ID, "Knead")

	if _, err := f.svc.SetTaskStatus(ctx, f.user.ID, dig.ID, f.status(t, garden.ID, models.StatusInProgress).ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.MarkComplete(ctx, f.user.ID, harvest.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SetTaskStatus(ctx, f.user.ID, scrap.ID, f.status(t, garden.ID, models.StatusClosed).ID); err != nil {
		t.Fatal(err)
	}
	blocked, err := f.svc.CreateStatus(ctx, f.user.ID, garden.ID, "Blocked")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SetTaskStatus(ctx, f.user.ID, ponder.ID, blocked.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.ArchiveTask(ctx, f.user.ID, old.ID); err != nil {
		t.Fatal(err)
	}

	f.clock.Advance(10 * 24 * time.Hour)
	f.task(t, garden.ID, "Water")

	tests := []struct {
		name   string
		filter KanbanFilter
		want   map[models.StatusKey][]string
	}{
		{"default hides old completions", KanbanFilter{}, map[models.StatusKey][]string{
			models.StatusNotStarted: {"Knead", "Sow", "Water"},
			models.StatusInProgress: {"Dig"},
		}},
		{"show all completed folds closed in", KanbanFilter{ShowAllCompleted: true}, map[models.StatusKey][]string{
			models.StatusNotStarted: {"Knead", "Sow", "Water"},
			models.StatusInProgress: {"Dig"},
			models.StatusComplete:   {"Harvest", "Scrap"},
		}},
		{"one project", KanbanFilter{ProjectID: kitchen.ID}, map[models.StatusKey][]string{
			models.StatusNotStarted: {"Knead"},
		}},
		{"priority", KanbanFilter{Priority: models.PriorityHigh}, map[models.StatusKey][]string{
			models.StatusNotStarted: {"Knead"},
		}},
		{"updated recently", KanbanFilter{UpdatedWithinDays: 3}, map[models.StatusKey][]string{
			models.StatusNotStarted: {"Water"},
		}},
		{"stale", KanbanFilter{UpdatedWithinDays: -3, ShowAllCompleted: true}, map[models.StatusKey][]string{
			models.StatusNotStarted: {"Knead", "Sow"},
			models.StatusInProgress: {"Dig"},
			models.StatusComplete:   {"Harvest", "Scrap"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			columns, err := f.svc.Kanban(ctx, f.user.ID, tt.filter)
			if err != nil {
				t.Fatal(err)
			}

			var keys []models.StatusKey
			for _, col := range columns {
				keys = append(keys, col.Status)
			}
			wantKeys := slices.DeleteFunc(models.DefaultStatuses(), func(k models.StatusKey) bool {
				return k == models.StatusClosed
			})
			if !slices.Equal(keys, wantKeys) {
				t.Fatalf("columns = %v, want %v", keys, wantKeys)
			}

			got := boardTitles(columns)
			for _, key := range wantKeys {
				want := tt.want[key]
				if want == nil {
					want = []string{}
				}
				if !slices.Equal(got[key], want) {
					t.Errorf("%s column = %v, want %v", key, got[key], want)
				}
			}
		})
	}
}

func TestKanbanRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, nil)

	var verr *models.ValidationError
	if _, err := f.svc.Kanban(ctx, f.user.ID, KanbanFilter{Priority: "urgent"}); !errors.As(err, &verr) {
		t.Errorf("bad priority err = %v, want validation error", err)
	}

	stranger, err := f.db.CreateUser(ctx, "Eve", "eve@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Kanban(ctx, stranger.ID, KanbanFilter{ProjectID: p.ID}); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign project err = %v, want ErrNotFound", err)
	}
	columns, err := f.svc.Kanban(ctx, stranger.ID, KanbanFilter{})
	if err != nil {
		t.Fatal(err)
	}
	for _, col := range columns {
		if len(col.Tasks) != 0 {
			t.Errorf("stranger sees tasks in %s", col.Status)
		}
	}
}
