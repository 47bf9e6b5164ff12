package services

import (
	"context"

	"github.com/tgienger/mustermeister/internal/db"
)

// ArchiveStats summarizes actor's archive
type ArchiveStats struct {
	TotalArchived int
	// ArchivedThisMonth counts tasks archived within the last month
	ArchivedThisMonth int
	// TotalCompleted counts completed tasks, archived or not
	TotalCompleted int
}

// ScheduleStats summarizes the due dates of actor's non-archived tasks
type ScheduleStats struct {
	Total    int
	Overdue  int
	Upcoming int
}

// ArchiveStats counts actor's archived and completed tasks
func (s *Service) ArchiveStats(ctx context.Context, actor int64) (ArchiveStats, error) {
	archived, err := s.db.ListArchivedTasks(ctx, actor)
	if err != nil {
		return ArchiveStats{}, err
	}
	completed, err := s.db.ListCompletedTasks(ctx, actor)
	if err != nil {
		return ArchiveStats{}, err
	}

	monthAgo := s.now().UTC().AddDate(0, -1, 0)
	stats := ArchiveStats{TotalArchived: len(archived), TotalCompleted: len(completed)}
	for _, t := range archived {
		if t.ArchivedAt != nil && t.ArchivedAt.After(monthAgo) {
			stats.ArchivedThisMonth++
		}
		if t.Completed {
			stats.TotalCompleted++
		}
	}
	return stats, nil
}

// ScheduleStats counts actor's overdue and upcoming tasks. Tasks without
// a due date only count towards the total.
func (s *Service) ScheduleStats(ctx context.Context, actor int64) (ScheduleStats, error) {
	tasks, err := s.db.ListTasksFiltered(ctx, db.TaskFilter{UserID: actor, ShowCompleted: true})
	if err != nil {
		return ScheduleStats{}, err
	}

	now := s.now()
	stats := ScheduleStats{Total: len(tasks)}
	for _, t := range tasks {
		switch {
		case t.DueDate == nil:
		case t.DueDate.Before(now):
			stats.Overdue++
		case t.DueDate.After(now):
			stats.Upcoming++
		}
	}
	return stats, nil
}
