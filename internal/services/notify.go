package services

import (
	"context"

	"github.com/tgienger/mustermeister/internal/models"
)

// Notifier is told about tasks that were completed. It is optional and
// its failures never affect the completion itself.
type Notifier interface {
	TaskCompleted(ctx context.Context, task *models.Task) error
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, task *models.Task) error

func (f NotifierFunc) TaskCompleted(ctx context.Context, task *models.Task) error {
	return f(ctx, task)
}

// LogNotifier records completions in the log
type LogNotifier struct {
	Logger interface {
		InfoContext(ctx context.Context, msg string, args ...any)
	}
}

func (n LogNotifier) TaskCompleted(ctx context.Context, task *models.Task) error {
	n.Logger.InfoContext(ctx, "task completed", "task_id", task.ID, "project_id", task.ProjectID, "title", task.Title)
	return nil
}

func (s *Service) notifyCompleted(ctx context.Context, tasks []models.Task) {
	if s.notifier == nil {
		return
	}
	for i := range tasks {
		if err := s.notifier.TaskCompleted(ctx, &tasks[i]); err != nil {
			s.logger.WarnContext(ctx, "completion notification failed", "task_id", tasks[i].ID, "error", err)
		}
	}
}
