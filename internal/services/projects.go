package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tgienger/mustermeister/internal/models"
)

// CreateProject stores a new project for actor together with its default
// statuses
func (s *Service) CreateProject(ctx context.Context, actor int64, p *models.Project) error {
	p.UserID = actor
	if err := p.Validate(); err != nil {
		return err
	}
	return s.run(ctx, actor, func(o *op) error {
		p.LastActivityAt = o.now
		if err := o.Queries.CreateProject(ctx, p); err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		_, err := createDefaultStatuses(ctx, o.Tx, p.ID, false)
		return err
	})
}

// ProjectUpdate is the outcome of UpdateProject
type ProjectUpdate struct {
	Project *models.Project

	// Rescheduled counts tasks moved after a due date change
	Rescheduled int

	// RescheduleErr is set when moving the tasks failed. The project
	// update itself is kept.
	RescheduleErr error
}

// UpdateProject writes the editable project fields. When the due date
// changes the project's open tasks are rescheduled afterwards, in their
// own transaction.
func (s *Service) UpdateProject(ctx context.Context, actor int64, p *models.Project) (*ProjectUpdate, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var oldDue *time.Time
	err := s.run(ctx, actor, func(o *op) error {
		stored, err := o.ownedProject(ctx, p.ID)
		if err != nil {
			return err
		}
		oldDue = stored.DueDate

		p.UserID = stored.UserID
		p.CreatedAt = stored.CreatedAt
		p.LastActivityAt = o.now
		p.UpdatedAt = o.now
		return o.Queries.UpdateProject(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	res := &ProjectUpdate{Project: p}
	if sameTime(oldDue, p.DueDate) {
		return res, nil
	}
	res.Rescheduled, res.RescheduleErr = s.RescheduleProjectTasks(ctx, actor, p.ID, oldDue, p.DueDate)
	if res.RescheduleErr != nil {
		s.logger.WarnContext(ctx, "reschedule after due date change failed", "project_id", p.ID, "error", res.RescheduleErr)
	}
	return res, nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// DeleteProject removes a project with its tasks, statuses and comments
func (s *Service) DeleteProject(ctx context.Context, actor, projectID int64) error {
	return s.run(ctx, actor, func(o *op) error {
		if _, err := o.ownedProject(ctx, projectID); err != nil {
			return err
		}
		return o.Queries.DeleteProject(ctx, projectID)
	})
}

// Project returns one of actor's projects
func (s *Service) Project(ctx context.Context, actor, projectID int64) (*models.Project, error) {
	p, err := s.db.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if actor != 0 && p.UserID != actor {
		return nil, ErrNotFound
	}
	return p, nil
}

// Projects lists actor's projects, most recently active first
func (s *Service) Projects(ctx context.Context, actor int64) ([]models.Project, error) {
	return s.db.ListProjects(ctx, actor, nil)
}

// SearchProjects lists actor's projects whose title or description
// matches query, title matches first. A blank query lists everything.
func (s *Service) SearchProjects(ctx context.Context, actor int64, query string) ([]models.Project, error) {
	return s.db.SearchProjects(ctx, actor, query)
}

// ProjectProgress derives completion and state from every task of the
// project, archived ones included
func (s *Service) ProjectProgress(ctx context.Context, actor, projectID int64) (models.Progress, error) {
	if _, err := s.Project(ctx, actor, projectID); err != nil {
		return models.Progress{}, err
	}
	tasks, err := s.db.ListTasks(ctx, projectID)
	if err != nil {
		return models.Progress{}, err
	}
	return models.ProgressOf(tasks), nil
}

// ReprioritizeProjectTasks sets every task of the project to the project's
// default priority, leaving an audit comment on each task it changes. A
// project without a default counts as medium.
func (s *Service) ReprioritizeProjectTasks(ctx context.Context, actor, projectID int64) (int, error) {
	updated := 0
	err := s.run(ctx, actor, func(o *op) error {
		project, err := o.ownedProject(ctx, projectID)
		if err != nil {
			return err
		}
		target := project.EffectivePriority()

		tasks, err := o.ListTasks(ctx, projectID)
		if err != nil {
			return err
		}
		for i := range tasks {
			t := &tasks[i]
			if t.Priority == target {
				continue
			}
			t.Priority = target
			if err := o.save(ctx, t); err != nil {
				return err
			}
			if err := o.auditComment(ctx, t, fmt.Sprintf("Priority updated to %s to match project default", target)); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, opError("reprioritize project tasks", err)
	}
	s.logger.InfoContext(ctx, "reprioritized project tasks", "project_id", projectID, "user_id", actor, "updated", updated)
	return updated, nil
}
