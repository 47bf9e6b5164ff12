package services

import (
	"context"
	"time"

	"github.com/tgienger/mustermeister/internal/db"
	"github.com/tgienger/mustermeister/internal/models"
)

// recentCompletion is how long a completed task stays on the board
const recentCompletion = 7 * 24 * time.Hour

// KanbanFilter narrows the board
type KanbanFilter struct {
	// ProjectID limits the board to one project; zero shows every project
	ProjectID int64
	Priority  models.Priority

	// UpdatedWithinDays keeps tasks touched in the last n days. A negative
	// value keeps tasks that have not been touched for -n days.
	UpdatedWithinDays int

	// ShowAllCompleted keeps completed tasks older than a week
	ShowAllCompleted bool
}

// KanbanColumn is one status column of the board
type KanbanColumn struct {
	Status models.StatusKey
	Tasks  []models.Task
}

// Kanban groups actor's non-archived tasks into one column per canonical
// status, in catalog order. Closed tasks share the Complete column and
// tasks in custom statuses are left off the board.
func (s *Service) Kanban(ctx context.Context, actor int64, f KanbanFilter) ([]KanbanColumn, error) {
	if f.Priority != "" && !f.Priority.Valid() {
		return nil, &models.ValidationError{Fields: []models.FieldError{{Field: "priority", Message: "is not included in the list"}}}
	}
	if f.ProjectID != 0 {
		if _, err := s.Project(ctx, actor, f.ProjectID); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	filter := db.TaskFilter{
		ProjectID:     f.ProjectID,
		UserID:        actor,
		ShowCompleted: true,
		Priority:      f.Priority,
	}
	switch {
	case f.UpdatedWithinDays > 0:
		since := now.AddDate(0, 0, -f.UpdatedWithinDays)
		filter.UpdatedSince = &since
	case f.UpdatedWithinDays < 0:
		before := now.AddDate(0, 0, f.UpdatedWithinDays)
		filter.NotUpdatedSince = &before
	}
	tasks, err := s.db.ListTasksFiltered(ctx, filter)
	if err != nil {
		return nil, err
	}

	var columns []KanbanColumn
	index := make(map[models.StatusKey]int)
	for _, key := range models.DefaultStatuses() {
		if key == models.StatusClosed {
			continue
		}
		index[key] = len(columns)
		columns = append(columns, KanbanColumn{Status: key})
	}

	cutoff := now.Add(-recentCompletion)
	for _, t := range tasks {
		key := t.Status.Key()
		if key == models.StatusClosed {
			key = models.StatusComplete
		}
		i, ok := index[key]
		if !ok {
			continue
		}
		if key == models.StatusComplete && !f.ShowAllCompleted && t.UpdatedAt.Before(cutoff) {
			continue
		}
		columns[i].Tasks = append(columns[i].Tasks, t)
	}
	return columns, nil
}
