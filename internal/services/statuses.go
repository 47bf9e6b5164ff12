package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tgienger/mustermeister/internal/db"
	"github.com/tgienger/mustermeister/internal/models"
)

// EnsureDefaultStatuses creates the canonical statuses of a project. It is
// a no-op when the project already has statuses unless force is set, in
// which case only the missing ones are added. It returns how many were
// created.
func (s *Service) EnsureDefaultStatuses(ctx context.Context, actor, projectID int64, force bool) (int, error) {
	var created int
	err := s.run(ctx, actor, func(o *op) error {
		if _, err := o.ownedProject(ctx, projectID); err != nil {
			return err
		}
		var err error
		created, err = createDefaultStatuses(ctx, o.Tx, projectID, force)
		return err
	})
	return created, err
}

func createDefaultStatuses(ctx context.Context, tx *db.Tx, projectID int64, force bool) (int, error) {
	if !force {
		n, err := tx.StatusCount(ctx, projectID)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			return 0, nil
		}
	}

	created := 0
	for _, key := range models.DefaultStatuses() {
		_, ok, err := tx.FindOrCreateStatus(ctx, projectID, key.Name())
		if err != nil {
			return created, fmt.Errorf("create status %q: %w", key.Name(), err)
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// canonicalStatus returns the project's status for key, creating it when
// the project lost it
func canonicalStatus(ctx context.Context, tx *db.Tx, projectID int64, key models.StatusKey) (*models.Status, error) {
	status, _, err := tx.FindOrCreateStatus(ctx, projectID, key.Name())
	if err != nil {
		return nil, fmt.Errorf("status %q: %w", key.Name(), err)
	}
	return status, nil
}

// Statuses lists a project's statuses in catalog order
func (s *Service) Statuses(ctx context.Context, actor, projectID int64) ([]models.Status, error) {
	if _, err := s.Project(ctx, actor, projectID); err != nil {
		return nil, err
	}
	return s.db.ListStatuses(ctx, projectID)
}

// CreateStatus adds a custom status to a project
func (s *Service) CreateStatus(ctx context.Context, actor, projectID int64, name string) (*models.Status, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &models.ValidationError{Fields: []models.FieldError{{Field: "name", Message: "can't be blank"}}}
	}
	var status *models.Status
	err := s.run(ctx, actor, func(o *op) error {
		if _, err := o.ownedProject(ctx, projectID); err != nil {
			return err
		}
		var err error
		status, err = o.CreateStatus(ctx, projectID, name)
		return taken("name", err)
	})
	return status, err
}

// ownedStatus loads a status of one of actor's projects
func (o *op) ownedStatus(ctx context.Context, id int64) (*models.Status, error) {
	status, err := o.GetStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := o.ownedProject(ctx, status.ProjectID); err != nil {
		return nil, err
	}
	return status, nil
}

func customOnly(status *models.Status, action string) error {
	if status.IsDefault() {
		return &Failure{Reasons: []string{fmt.Sprintf("Default status %q can't be %s", status.Name, action)}, Err: ErrDefaultStatus}
	}
	return nil
}

// RenameStatus renames a custom status. Default statuses keep their
// canonical names.
func (s *Service) RenameStatus(ctx context.Context, actor, statusID int64, name string) (*models.Status, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &models.ValidationError{Fields: []models.FieldError{{Field: "name", Message: "can't be blank"}}}
	}
	var status *models.Status
	err := s.run(ctx, actor, func(o *op) error {
		var err error
		if status, err = o.ownedStatus(ctx, statusID); err != nil {
			return err
		}
		if err := customOnly(status, "renamed"); err != nil {
			return err
		}
		if err := o.Queries.RenameStatus(ctx, status.ID, name); err != nil {
			return taken("name", err)
		}
		status.Name = name
		return nil
	})
	return status, err
}

// DeleteStatus removes a custom status that no task uses
func (s *Service) DeleteStatus(ctx context.Context, actor, statusID int64) error {
	return s.run(ctx, actor, func(o *op) error {
		status, err := o.ownedStatus(ctx, statusID)
		if err != nil {
			return err
		}
		if err := customOnly(status, "deleted"); err != nil {
			return err
		}
		used, err := o.StatusInUse(ctx, status.ID)
		if err != nil {
			return err
		}
		if used {
			return &Failure{Reasons: []string{fmt.Sprintf("Status %q is still assigned to tasks", status.Name)}, Err: ErrStatusInUse}
		}
		return o.Queries.DeleteStatus(ctx, status.ID)
	})
}
