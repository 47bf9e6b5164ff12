package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tgienger/mustermeister/internal/db"
	"github.com/tgienger/mustermeister/internal/models"
)

func (o *op) ownedProject(ctx context.Context, id int64) (*models.Project, error) {
	p, err := o.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.actor != 0 && p.UserID != o.actor {
		return nil, ErrNotFound
	}
	return p, nil
}

func (o *op) ownedTask(ctx context.Context, id int64) (*models.Task, error) {
	t, err := o.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.actor != 0 && t.UserID != o.actor {
		return nil, ErrNotFound
	}
	return t, nil
}

// applyDefaults fills in what a new or edited task leaves unset and loads
// the status it points at
func (o *op) applyDefaults(ctx context.Context, project *models.Project, t *models.Task) error {
	if t.Priority == "" {
		t.Priority = project.EffectivePriority()
	}
	if t.StatusID == 0 {
		status, err := canonicalStatus(ctx, o.Tx, project.ID, models.StatusNotStarted)
		if err != nil {
			return err
		}
		t.StatusID = status.ID
		t.Status = status
		return nil
	}
	if t.Status == nil || t.Status.ID != t.StatusID {
		status, err := o.GetStatus(ctx, t.StatusID)
		if errors.Is(err, db.ErrNotFound) {
			return &models.ValidationError{Fields: []models.FieldError{{Field: "status", Message: "must exist"}}}
		}
		if err != nil {
			return err
		}
		t.Status = status
	}
	return nil
}

// save validates and writes the task, then records activity on its project
func (o *op) save(ctx context.Context, t *models.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.UpdatedAt = o.now
	if err := o.UpdateTask(ctx, t); err != nil {
		return fmt.Errorf("update task %d: %w", t.ID, err)
	}
	return o.TouchProject(ctx, t.ProjectID, o.now)
}

// markComplete completes the task, moves it to Complete and closes its
// open comments
func (o *op) markComplete(ctx context.Context, t *models.Task) error {
	status, err := canonicalStatus(ctx, o.Tx, t.ProjectID, models.StatusComplete)
	if err != nil {
		return err
	}
	now := o.now
	t.Completed = true
	t.CompletedAt = &now
	t.CompletedBy = o.actorRef()
	t.StatusID = status.ID
	t.Status = status
	if err := o.save(ctx, t); err != nil {
		return err
	}
	if _, err := o.CloseOpenTaskComments(ctx, t.ID, o.now); err != nil {
		return fmt.Errorf("close comments: %w", err)
	}
	o.completed = append(o.completed, *t)
	return nil
}

// markIncomplete clears completion. The status is left alone.
func (o *op) markIncomplete(ctx context.Context, t *models.Task) error {
	t.Completed = false
	t.CompletedAt = nil
	t.CompletedBy = nil
	return o.save(ctx, t)
}

// transition runs the completion side effects of a status change. prev is
// nil for a new task.
func (o *op) transition(ctx context.Context, t *models.Task, prev *models.Status) error {
	if prev != nil && prev.ID == t.StatusID {
		return nil
	}
	// Closed is a sink: leaving it never retriggers completion.
	if prev != nil && prev.Key() == models.StatusClosed {
		return nil
	}
	switch {
	case t.IsComplete():
		return o.markComplete(ctx, t)
	case prev != nil && prev.Key() == models.StatusComplete:
		return o.markIncomplete(ctx, t)
	}
	return nil
}

// CreateTask stores a new task in its project. Priority and status default
// from the project. Asking for a completed task completes it through the
// regular completion path.
func (s *Service) CreateTask(ctx context.Context, actor int64, t *models.Task) error {
	return s.run(ctx, actor, func(o *op) error {
		project, err := o.ownedProject(ctx, t.ProjectID)
		if err != nil {
			return err
		}
		if err := o.applyDefaults(ctx, project, t); err != nil {
			return err
		}

		wantComplete := t.Completed
		t.UserID = actor
		t.Completed, t.CompletedAt, t.CompletedBy = false, nil, nil
		t.Archived, t.ArchivedAt, t.ArchivedBy = false, nil, nil
		if err := t.Validate(); err != nil {
			return err
		}

		t.CreatedAt = o.now
		t.UpdatedAt = o.now
		if err := o.Queries.CreateTask(ctx, t); err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		if len(t.Tags) > 0 {
			if err := o.SetTaskTags(ctx, t.ID, tagIDs(t.Tags)); err != nil {
				return fmt.Errorf("tag task: %w", err)
			}
		}
		if err := o.TouchProject(ctx, t.ProjectID, o.now); err != nil {
			return err
		}

		if err := o.transition(ctx, t, nil); err != nil {
			return err
		}
		if wantComplete && !t.Completed {
			return o.markComplete(ctx, t)
		}
		return nil
	})
}

// UpdateTask writes the editable fields of a task: title, description,
// notes, priority, status, due date and tags. Completion and archival
// change only through their own operations, though a status change into
// or out of Complete still completes or reopens the task.
func (s *Service) UpdateTask(ctx context.Context, actor int64, t *models.Task) error {
	return s.run(ctx, actor, func(o *op) error {
		stored, err := o.ownedTask(ctx, t.ID)
		if err != nil {
			return err
		}
		project, err := o.GetProject(ctx, stored.ProjectID)
		if err != nil {
			return err
		}
		prev := stored.Status

		t.ProjectID = stored.ProjectID
		t.UserID = stored.UserID
		t.CreatedAt = stored.CreatedAt
		t.Completed, t.CompletedAt, t.CompletedBy = stored.Completed, stored.CompletedAt, stored.CompletedBy
		t.Archived, t.ArchivedAt, t.ArchivedBy = stored.Archived, stored.ArchivedAt, stored.ArchivedBy
		if t.StatusID == 0 {
			t.StatusID = stored.StatusID
		}
		t.Status = nil

		if err := o.applyDefaults(ctx, project, t); err != nil {
			return err
		}
		if err := o.save(ctx, t); err != nil {
			return err
		}
		if t.Tags != nil {
			if err := o.SetTaskTags(ctx, t.ID, tagIDs(t.Tags)); err != nil {
				return fmt.Errorf("tag task: %w", err)
			}
		}
		return o.transition(ctx, t, prev)
	})
}

// MarkComplete completes a task on behalf of actor
func (s *Service) MarkComplete(ctx context.Context, actor, taskID int64) (*models.Task, error) {
	var task *models.Task
	err := s.run(ctx, actor, func(o *op) error {
		t, err := o.ownedTask(ctx, taskID)
		if err != nil {
			return err
		}
		task = t
		return o.markComplete(ctx, t)
	})
	return task, err
}

// MarkIncomplete reopens a task without changing its status
func (s *Service) MarkIncomplete(ctx context.Context, actor, taskID int64) (*models.Task, error) {
	var task *models.Task
	err := s.run(ctx, actor, func(o *op) error {
		t, err := o.ownedTask(ctx, taskID)
		if err != nil {
			return err
		}
		task = t
		return o.markIncomplete(ctx, t)
	})
	return task, err
}

// ToggleCompletion flips a task between complete and incomplete. Reopening
// moves the task back to Not Started.
func (s *Service) ToggleCompletion(ctx context.Context, actor, taskID int64) (*models.Task, error) {
	var task *models.Task
	err := s.run(ctx, actor, func(o *op) error {
		t, err := o.ownedTask(ctx, taskID)
		if err != nil {
			return err
		}
		task = t
		if !t.Completed {
			return o.markComplete(ctx, t)
		}
		status, err := canonicalStatus(ctx, o.Tx, t.ProjectID, models.StatusNotStarted)
		if err != nil {
			return err
		}
		t.StatusID = status.ID
		t.Status = status
		return o.markIncomplete(ctx, t)
	})
	return task, err
}

// SetTaskStatus moves one task to another status of its project,
// completing or reopening it on the way
func (s *Service) SetTaskStatus(ctx context.Context, actor, taskID, statusID int64) (*models.Task, error) {
	var task *models.Task
	err := s.run(ctx, actor, func(o *op) error {
		t, err := o.ownedTask(ctx, taskID)
		if err != nil {
			return err
		}
		status, err := o.GetStatus(ctx, statusID)
		if err != nil {
			return err
		}
		prev := t.Status
		t.StatusID = status.ID
		t.Status = status
		// save rejects a status from another project
		if err := o.save(ctx, t); err != nil {
			return err
		}
		task = t
		return o.transition(ctx, t, prev)
	})
	return task, err
}

// ArchiveTask archives a task, closes its open comments and leaves an
// audit comment. Archiving is permanent. A task that is already archived,
// or that fails validation, comes back as a *Failure and nothing changes.
func (s *Service) ArchiveTask(ctx context.Context, actor, taskID int64) (*models.Task, error) {
	var task *models.Task
	err := s.run(ctx, actor, func(o *op) error {
		t, err := o.ownedTask(ctx, taskID)
		if err != nil {
			return err
		}
		task = t
		return o.archive(ctx, t)
	})
	return task, err
}

func (o *op) archive(ctx context.Context, t *models.Task) error {
	// Re-checked under the write lock; a concurrent archive has already
	// committed by the time this transaction reads the row.
	if t.Archived {
		return &Failure{Reasons: []string{"Task is already archived"}, Err: ErrAlreadyArchived}
	}

	now := o.now
	t.Archived = true
	t.ArchivedAt = &now
	t.ArchivedBy = o.actorRef()
	if err := o.save(ctx, t); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			reasons := make([]string, 0, len(verr.Fields))
			for _, msg := range verr.Messages() {
				reasons = append(reasons, "Failed to archive task: "+msg)
			}
			return &Failure{Reasons: reasons, Err: err}
		}
		return err
	}

	if _, err := o.CloseOpenTaskComments(ctx, t.ID, o.now); err != nil {
		return fmt.Errorf("close comments: %w", err)
	}
	return o.auditComment(ctx, t, "Task archived on "+now.Format("2006-01-02"))
}

// auditComment records an automated change on a task as a closed comment
func (o *op) auditComment(ctx context.Context, t *models.Task, content string) error {
	taskID := t.ID
	c := &models.Comment{
		TaskID:    &taskID,
		UserID:    o.actorRef(),
		Content:   content,
		Status:    models.CommentClosed,
		CreatedAt: o.now,
		UpdatedAt: o.now,
	}
	if err := o.CreateComment(ctx, c); err != nil {
		return fmt.Errorf("audit comment: %w", err)
	}
	return nil
}

// DeleteTask removes a task with its comments and tag links. Tasks with
// open comments are kept and ErrUnresolvedComments is returned.
func (s *Service) DeleteTask(ctx context.Context, actor, taskID int64) error {
	return s.run(ctx, actor, func(o *op) error {
		t, err := o.ownedTask(ctx, taskID)
		if err != nil {
			return err
		}
		open, err := o.CountUnresolvedTaskComments(ctx, t.ID)
		if err != nil {
			return err
		}
		if open > 0 {
			return ErrUnresolvedComments
		}
		return o.Queries.DeleteTask(ctx, t.ID)
	})
}

// AddComment opens a discussion comment on a task
func (s *Service) AddComment(ctx context.Context, actor, taskID int64, content string) (*models.Comment, error) {
	var comment *models.Comment
	err := s.run(ctx, actor, func(o *op) error {
		t, err := o.ownedTask(ctx, taskID)
		if err != nil {
			return err
		}
		c := &models.Comment{
			TaskID:    &t.ID,
			UserID:    o.actorRef(),
			Content:   content,
			Status:    models.CommentOpen,
			CreatedAt: o.now,
			UpdatedAt: o.now,
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := o.CreateComment(ctx, c); err != nil {
			return err
		}
		comment = c
		return nil
	})
	return comment, err
}

// SetCommentStatus opens, closes or resolves a comment on one of actor's
// tasks
func (s *Service) SetCommentStatus(ctx context.Context, actor, commentID int64, status models.CommentStatus) error {
	if !status.Valid() {
		return &models.ValidationError{Fields: []models.FieldError{{Field: "status", Message: "is not included in the list"}}}
	}
	return s.run(ctx, actor, func(o *op) error {
		c, err := o.GetComment(ctx, commentID)
		if err != nil {
			return err
		}
		if c.TaskID != nil {
			if _, err := o.ownedTask(ctx, *c.TaskID); err != nil {
				return err
			}
		} else if c.ProjectID != nil {
			if _, err := o.ownedProject(ctx, *c.ProjectID); err != nil {
				return err
			}
		}
		return o.Queries.SetCommentStatus(ctx, commentID, status, o.now)
	})
}

// Task returns one of actor's tasks with its comments
func (s *Service) Task(ctx context.Context, actor, taskID int64) (*models.Task, error) {
	t, err := s.db.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if actor != 0 && t.UserID != actor {
		return nil, ErrNotFound
	}
	comments, err := s.db.GetTaskComments(ctx, taskID)
	if err != nil {
		return nil, err
	}
	t.Comments = comments
	return t, nil
}

// Tasks lists the tasks of one of actor's projects
func (s *Service) Tasks(ctx context.Context, actor int64, f db.TaskFilter) ([]models.Task, error) {
	if _, err := s.Project(ctx, actor, f.ProjectID); err != nil {
		return nil, err
	}
	return s.db.ListTasksFiltered(ctx, f)
}

// ArchivedTasks lists actor's archived tasks across projects, most
// recently archived first
func (s *Service) ArchivedTasks(ctx context.Context, actor int64) ([]models.Task, error) {
	return s.db.ListArchivedTasks(ctx, actor)
}

func tagIDs(tags []models.Tag) []int64 {
	ids := make([]int64, len(tags))
	for i, tag := range tags {
		ids[i] = tag.ID
	}
	return ids
}
