package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/tgienger/mustermeister/internal/models"
)

const projectColumns = `id, user_id, title, description, default_priority, color, due_date,
	last_activity_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	p := &models.Project{}
	var priority, color sql.NullString
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &priority, &color, &p.DueDate,
		&p.LastActivityAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.DefaultPriority = models.Priority(priority.String)
	p.Color = models.Color(color.String)
	return p, nil
}

// CreateProject inserts a project and fills in its ID
func (q *Queries) CreateProject(ctx context.Context, p *models.Project) error {
	result, err := q.q.ExecContext(ctx, `
		INSERT INTO projects (user_id, title, description, default_priority, color, due_date,
			last_activity_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.UserID, p.Title, p.Description, nullString(string(p.DefaultPriority)), nullString(string(p.Color)),
		p.DueDate, p.LastActivityAt, p.LastActivityAt, p.LastActivityAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	p.CreatedAt = p.LastActivityAt
	p.UpdatedAt = p.LastActivityAt
	return nil
}

// GetProject retrieves a project by ID
func (q *Queries) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	p, err := scanProject(q.q.QueryRowContext(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE id = ?
	`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// ListProjects returns a user's projects, most recently active first.
// A non-empty ids slice restricts the result to those projects.
func (q *Queries) ListProjects(ctx context.Context, userID int64, ids []int64) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE user_id = ?`
	args := []any{userID}
	if len(ids) > 0 {
		query += " AND id IN (" + placeholders(len(ids)) + ")"
		args = append(args, int64Args(ids)...)
	}
	query += " ORDER BY last_activity_at DESC, id DESC"

	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// SearchProjects returns a user's projects whose title or description
// contains search, ranking title prefix matches first.
func (q *Queries) SearchProjects(ctx context.Context, userID int64, search string) ([]models.Project, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return q.ListProjects(ctx, userID, nil)
	}
	pattern := "%" + search + "%"
	rows, err := q.q.QueryContext(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE user_id = ? AND (title LIKE ? OR description LIKE ?)
		ORDER BY CASE
			WHEN title LIKE ? THEN 1
			WHEN title LIKE ? THEN 2
			ELSE 3
		END, last_activity_at DESC
	`, userID, pattern, pattern, search+"%", "% "+search+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// UpdateProject writes the editable project fields
func (q *Queries) UpdateProject(ctx context.Context, p *models.Project) error {
	result, err := q.q.ExecContext(ctx, `
		UPDATE projects SET title = ?, description = ?, default_priority = ?, color = ?, due_date = ?,
			last_activity_at = ?, updated_at = ?
		WHERE id = ?
	`, p.Title, p.Description, nullString(string(p.DefaultPriority)), nullString(string(p.Color)), p.DueDate,
		p.LastActivityAt, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	return expectOne(result)
}

// TouchProject records activity on a project
func (q *Queries) TouchProject(ctx context.Context, id int64, at time.Time) error {
	_, err := q.q.ExecContext(ctx, "UPDATE projects SET last_activity_at = ? WHERE id = ?", at, id)
	return err
}

// DeleteProject deletes a project and, through cascades, its tasks,
// statuses and comments
func (q *Queries) DeleteProject(ctx context.Context, id int64) error {
	result, err := q.q.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func expectOne(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
