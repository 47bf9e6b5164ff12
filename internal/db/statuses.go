package db

import (
	"context"
	"sort"

	"github.com/tgienger/mustermeister/internal/models"
)

// CreateStatus adds a status to a project
func (q *Queries) CreateStatus(ctx context.Context, projectID int64, name string) (*models.Status, error) {
	result, err := q.q.ExecContext(ctx, `
		INSERT INTO statuses (project_id, name) VALUES (?, ?)
	`, projectID, name)
	if err != nil {
		return nil, duplicate(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return q.GetStatus(ctx, id)
}

// FindOrCreateStatus returns the named status of a project, inserting it
// when missing. It reports whether a row was created.
func (q *Queries) FindOrCreateStatus(ctx context.Context, projectID int64, name string) (*models.Status, bool, error) {
	result, err := q.q.ExecContext(ctx, `
		INSERT OR IGNORE INTO statuses (project_id, name) VALUES (?, ?)
	`, projectID, name)
	if err != nil {
		return nil, false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	s, err := q.GetStatusByName(ctx, projectID, name)
	if err != nil {
		return nil, false, err
	}
	return s, n > 0, nil
}

// GetStatus retrieves a status by ID
func (q *Queries) GetStatus(ctx context.Context, id int64) (*models.Status, error) {
	s := &models.Status{}
	err := q.q.QueryRowContext(ctx, `
		SELECT id, project_id, name, created_at FROM statuses WHERE id = ?
	`, id).Scan(&s.ID, &s.ProjectID, &s.Name, &s.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// GetStatusByName retrieves a project's status by its exact name
func (q *Queries) GetStatusByName(ctx context.Context, projectID int64, name string) (*models.Status, error) {
	s := &models.Status{}
	err := q.q.QueryRowContext(ctx, `
		SELECT id, project_id, name, created_at FROM statuses WHERE project_id = ? AND name = ?
	`, projectID, name).Scan(&s.ID, &s.ProjectID, &s.Name, &s.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// ListStatuses returns a project's statuses, canonical entries first in
// catalog order and custom ones alphabetically after them
func (q *Queries) ListStatuses(ctx context.Context, projectID int64) ([]models.Status, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT id, project_id, name, created_at FROM statuses WHERE project_id = ? ORDER BY name
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []models.Status
	for rows.Next() {
		var s models.Status
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortStatuses(statuses)
	return statuses, nil
}

func sortStatuses(statuses []models.Status) {
	// Rows arrive alphabetical; the stable sort keeps custom names in that
	// order after the catalog entries.
	sort.SliceStable(statuses, func(i, j int) bool {
		ki, kj := statuses[i].Key(), statuses[j].Key()
		switch {
		case ki == kj:
			return false
		case ki == models.StatusCustom:
			return false
		case kj == models.StatusCustom:
			return true
		}
		return ki < kj
	})
}

// StatusCount returns how many statuses a project has
func (q *Queries) StatusCount(ctx context.Context, projectID int64) (int, error) {
	var count int
	err := q.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM statuses WHERE project_id = ?", projectID).Scan(&count)
	return count, err
}

// StatusInUse reports whether any task references the status
func (q *Queries) StatusInUse(ctx context.Context, id int64) (bool, error) {
	var used bool
	err := q.q.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM tasks WHERE status_id = ?)", id).Scan(&used)
	return used, err
}

// RenameStatus changes a status name; uniqueness per project is enforced
// by the schema
func (q *Queries) RenameStatus(ctx context.Context, id int64, name string) error {
	result, err := q.q.ExecContext(ctx, "UPDATE statuses SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return duplicate(err)
	}
	return expectOne(result)
}

// DeleteStatus removes a status. Statuses still referenced by tasks are
// protected by the tasks.status_id foreign key.
func (q *Queries) DeleteStatus(ctx context.Context, id int64) error {
	result, err := q.q.ExecContext(ctx, "DELETE FROM statuses WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOne(result)
}
