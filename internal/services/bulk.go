package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tgienger/mustermeister/internal/models"
)

// BulkReschedule moves the due date of every listed task. All tasks must
// belong to actor; if any is missing nothing is changed.
func (s *Service) BulkReschedule(ctx context.Context, actor int64, taskIDs []int64, due *time.Time) (int, error) {
	ids := uniqueIDs(taskIDs)
	if len(ids) == 0 {
		return 0, nil
	}

	err := s.run(ctx, actor, func(o *op) error {
		for _, id := range ids {
			t, err := o.ownedTask(ctx, id)
			if err != nil {
				return fmt.Errorf("task %d: %w", id, err)
			}
			t.DueDate = due
			if err := o.save(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, opError("bulk reschedule", err)
	}
	s.logger.InfoContext(ctx, "bulk reschedule", "user_id", actor, "tasks", len(ids))
	return len(ids), nil
}

// ArchiveCompletedTasks archives actor's completed tasks that were
// completed before the cutoff
func (s *Service) ArchiveCompletedTasks(ctx context.Context, actor int64, before time.Time) (int, error) {
	archived := 0
	err := s.run(ctx, actor, func(o *op) error {
		tasks, err := o.ListCompletedTasks(ctx, actor)
		if err != nil {
			return err
		}
		for i := range tasks {
			t := &tasks[i]
			if t.CompletedAt == nil || !t.CompletedAt.Before(before) {
				continue
			}
			if err := o.archive(ctx, t); err != nil {
				return fmt.Errorf("task %d: %w", t.ID, err)
			}
			archived++
		}
		return nil
	})
	if err != nil {
		return 0, opError("archive completed tasks", err)
	}
	s.logger.InfoContext(ctx, "archived completed tasks", "user_id", actor, "before", before.Format(time.DateOnly), "archived", archived)
	return archived, nil
}

// RescheduleProjectTasks follows a project due date change. With both
// dates set, open tasks that have a due date move by the same offset as
// the project. With only a new date, open tasks due after it are pulled
// in to it. Clearing the project's date leaves tasks alone.
func (s *Service) RescheduleProjectTasks(ctx context.Context, actor, projectID int64, oldDue, newDue *time.Time) (int, error) {
	if newDue == nil {
		return 0, nil
	}

	moved := 0
	err := s.run(ctx, actor, func(o *op) error {
		if _, err := o.ownedProject(ctx, projectID); err != nil {
			return err
		}
		tasks, err := o.ListOpenProjectTasks(ctx, projectID)
		if err != nil {
			return err
		}
		for i := range tasks {
			t := &tasks[i]
			due, ok := rescheduled(t.DueDate, oldDue, *newDue)
			if !ok {
				continue
			}
			t.DueDate = &due
			if err := o.save(ctx, t); err != nil {
				return fmt.Errorf("task %d: %w", t.ID, err)
			}
			moved++
		}
		return nil
	})
	if err != nil {
		return 0, opError("reschedule project tasks", err)
	}
	return moved, nil
}

func rescheduled(taskDue, oldDue *time.Time, newDue time.Time) (time.Time, bool) {
	if taskDue == nil {
		return time.Time{}, false
	}
	if oldDue != nil {
		shift := newDue.Sub(*oldDue)
		if shift == 0 {
			return time.Time{}, false
		}
		return taskDue.Add(shift), true
	}
	if taskDue.After(newDue) {
		return newDue, true
	}
	return time.Time{}, false
}

// BulkUpdateStatus moves every listed task to one status, completing or
// reopening tasks the way a single status change does
func (s *Service) BulkUpdateStatus(ctx context.Context, actor int64, taskIDs []int64, statusID int64) (int, error) {
	ids := uniqueIDs(taskIDs)
	if len(ids) == 0 {
		return 0, nil
	}

	err := s.run(ctx, actor, func(o *op) error {
		status, err := o.GetStatus(ctx, statusID)
		if err != nil {
			return fmt.Errorf("status %d: %w", statusID, err)
		}
		for _, id := range ids {
			t, err := o.ownedTask(ctx, id)
			if err != nil {
				return fmt.Errorf("task %d: %w", id, err)
			}
			prev := t.Status
			t.StatusID = status.ID
			t.Status = statusCopy(status)
			if err := o.save(ctx, t); err != nil {
				return fmt.Errorf("task %d: %w", id, err)
			}
			if err := o.transition(ctx, t, prev); err != nil {
				return fmt.Errorf("task %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "bulk status update failed", "user_id", actor, "error", err)
		return 0, opError("bulk update status", err)
	}
	s.logger.InfoContext(ctx, "bulk status update", "user_id", actor, "status_id", statusID, "task_ids", ids)
	return len(ids), nil
}

func statusCopy(s *models.Status) *models.Status {
	c := *s
	return &c
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
