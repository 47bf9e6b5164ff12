package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tgienger/mustermeister/internal/models"
)

func day(d int) *time.Time {
	t := time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func (f *fixture) due(t *testing.T, task *models.Task, due *time.Time) {
	t.Helper()
	task.DueDate = due
	if err := f.svc.UpdateTask(context.Background(), f.user.ID, task); err != nil {
		t.Fatalf("set due date: %v", err)
	}
}

func TestBulkRescheduleIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, nil)
	a := f.task(t, p.ID, "Dig")
	b := f.task(t, p.ID, "Plant")

	n, err := f.svc.BulkReschedule(ctx, f.user.ID, []int64{a.ID, b.ID, a.ID}, day(10))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("rescheduled %d, want 2", n)
	}
	for _, id := range []int64{a.ID, b.ID} {
		if got := f.reload(t, id).DueDate; got == nil || !got.Equal(*day(10)) {
			t.Errorf("task %d due %v", id, got)
		}
	}

	_, err = f.svc.BulkReschedule(ctx, f.user.ID, []int64{a.ID, 999}, day(20))
	var serr *Error
	if !errors.As(err, &serr) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing task: %v", err)
	}
	if got := f.reload(t, a.ID).DueDate; !got.Equal(*day(10)) {
		t.Errorf("partial batch applied: due %v", got)
	}
}

func TestArchiveCompletedTasksBeforeCutoff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, nil)

	old := f.task(t, p.ID, "Old")
	if _, err := f.svc.MarkComplete(ctx, f.user.ID, old.ID); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(48 * time.Hour)
	recent := f.task(t, p.ID, "Recent")
	if _, err := f.svc.MarkComplete(ctx, f.user.ID, recent.ID); err != nil {
		t.Fatal(err)
	}
	open := f.task(t, p.ID, "Open")

	n, err := f.svc.ArchiveCompletedTasks(ctx, f.user.ID, f.clock.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("archived %d, want 1", n)
	}
	if !f.reload(t, old.ID).Archived {
		t.Error("old task not archived")
	}
	if f.reload(t, recent.ID).Archived || f.reload(t, open.ID).Archived {
		t.Error("archived a task after the cutoff or an open task")
	}

	// already archived tasks are skipped on the next run
	if n, err = f.svc.ArchiveCompletedTasks(ctx, f.user.ID, f.clock.Now().Add(time.Hour)); err != nil || n != 1 {
		t.Errorf("second run archived %d, %v; want 1", n, err)
	}
}

func TestProjectDueDateReschedulesTasks(t *testing.T) {
	tests := []struct {
		name     string
		oldDue   *time.Time
		newDue   *time.Time
		taskDue  *time.Time
		wantDue  *time.Time
		wantMove int
	}{
		{"shift by offset", day(10), day(15), day(8), day(13), 1},
		{"clamp when first set", nil, day(10), day(12), day(10), 1},
		{"earlier task left alone", nil, day(10), day(5), day(5), 0},
		{"cleared date changes nothing", day(10), nil, day(8), day(8), 0},
		{"task without due date", day(10), day(15), nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			p := f.project(t, &models.Project{Title: "Garden", DueDate: tt.oldDue})
			task := f.task(t, p.ID, "Dig")
			f.due(t, task, tt.taskDue)
			done := f.task(t, p.ID, "Done")
			f.due(t, done, day(9))
			if _, err := f.svc.MarkComplete(ctx, f.user.ID, done.ID); err != nil {
				t.Fatal(err)
			}

			p.DueDate = tt.newDue
			res, err := f.svc.UpdateProject(ctx, f.user.ID, p)
			if err != nil {
				t.Fatal(err)
			}
			if res.RescheduleErr != nil {
				t.Fatal(res.RescheduleErr)
			}
			if res.Rescheduled != tt.wantMove {
				t.Errorf("rescheduled %d, want %d", res.Rescheduled, tt.wantMove)
			}
			got := f.reload(t, task.ID).DueDate
			if (got == nil) != (tt.wantDue == nil) || (got != nil && !got.Equal(*tt.wantDue)) {
				t.Errorf("task due %v, want %v", got, tt.wantDue)
			}
			if got := f.reload(t, done.ID).DueDate; !got.Equal(*day(9)) {
				t.Errorf("completed task moved to %v", got)
			}
		})
	}
}

func TestBulkUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, nil)
	a := f.task(t, p.ID, "Dig")
	b := f.task(t, p.ID, "Plant")

	complete := f.status(t, p.ID, models.StatusComplete)
	n, err := f.svc.BulkUpdateStatus(ctx, f.user.ID, []int64{a.ID, b.ID}, complete.ID)
	if err != nil || n != 2 {
		t.Fatalf("bulk complete: %d, %v", n, err)
	}
	for _, id := range []int64{a.ID, b.ID} {
		if !f.reload(t, id).Completed {
			t.Errorf("task %d not completed", id)
		}
	}

	inProgress := f.status(t, p.ID, models.StatusInProgress)
	if _, err := f.svc.BulkUpdateStatus(ctx, f.user.ID, []int64{a.ID}, inProgress.ID); err != nil {
		t.Fatal(err)
	}
	if got := f.reload(t, a.ID); got.Completed || !got.IsInProgress() {
		t.Errorf("task a: completed=%v status=%q", got.Completed, got.StatusName())
	}

	other := f.project(t, &models.Project{Title: "Kitchen"})
	foreign := f.status(t, other.ID, models.StatusNotStarted)
	if _, err := f.svc.BulkUpdateStatus(ctx, f.user.ID, []int64{b.ID}, foreign.ID); err == nil {
		t.Error("status from another project accepted")
	}
	if !f.reload(t, b.ID).Completed {
		t.Error("failed batch changed the task")
	}
}
