package services

import (
	"context"
	"testing"
	"time"
)

func TestArchiveStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, nil)

	old := f.task(t, p.ID, "Old")
	if _, err := f.svc.MarkComplete(ctx, f.user.ID, old.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.ArchiveTask(ctx, f.user.ID, old.ID); err != nil {
		t.Fatal(err)
	}

	f.clock.Advance(45 * 24 * time.Hour)
	recent := f.task(t, p.ID, "Recent")
	if _, err := f.svc.ArchiveTask(ctx, f.user.ID, recent.ID); err != nil {
		t.Fatal(err)
	}
	done := f.task(t, p.ID, "Done")
	if _, err := f.svc.MarkComplete(ctx, f.user.ID, done.ID); err != nil {
		t.Fatal(err)
	}
	f.task(t, p.ID, "Open")

	got, err := f.svc.ArchiveStats(ctx, f.user.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := ArchiveStats{TotalArchived: 2, ArchivedThisMonth: 1, TotalCompleted: 2}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

func TestScheduleStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, nil)

	// the fixture clock reads March 1st, noon
	for _, tt := range []struct {
		title string
		due   *time.Time
	}{
		{"late", day(1)},
		{"later", day(10)},
		{"soon", day(2)},
		{"whenever", nil},
	} {
		task := f.task(t, p.ID, tt.title)
		f.due(t, task, tt.due)
	}
	archived := f.task(t, p.ID, "gone")
	f.due(t, archived, day(1))
	if _, err := f.svc.ArchiveTask(ctx, f.user.ID, archived.ID); err != nil {
		t.Fatal(err)
	}

	got, err := f.svc.ScheduleStats(ctx, f.user.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := ScheduleStats{Total: 4, Overdue: 1, Upcoming: 2}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}

	stranger, err := f.db.CreateUser(ctx, "Eve", "eve@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got, err := f.svc.ScheduleStats(ctx, stranger.ID); err != nil || got != (ScheduleStats{}) {
		t.Errorf("stranger stats = %+v, %v", got, err)
	}
}
