package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/tgienger/mustermeister/internal/models"
)

const taskSelect = `
	SELECT t.id, t.project_id, t.user_id, t.status_id, t.title, t.description, t.notes, t.priority,
		t.completed, t.completed_at, t.completed_by, t.archived, t.archived_at, t.archived_by,
		t.due_date, t.created_at, t.updated_at,
		s.id, s.project_id, s.name, s.created_at
	FROM tasks t
	JOIN statuses s ON s.id = t.status_id`

func scanTask(row rowScanner) (*models.Task, error) {
	t := &models.Task{Status: &models.Status{}}
	var priority sql.NullString
	err := row.Scan(&t.ID, &t.ProjectID, &t.UserID, &t.StatusID, &t.Title, &t.Description, &t.Notes, &priority,
		&t.Completed, &t.CompletedAt, &t.CompletedBy, &t.Archived, &t.ArchivedAt, &t.ArchivedBy,
		&t.DueDate, &t.CreatedAt, &t.UpdatedAt,
		&t.Status.ID, &t.Status.ProjectID, &t.Status.Name, &t.Status.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Priority = models.Priority(priority.String)
	return t, nil
}

func (q *Queries) queryTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// loadTags fills in the tags of each task
func (q *Queries) loadTags(ctx context.Context, tasks []models.Task) error {
	for i := range tasks {
		tags, err := q.GetTaskTags(ctx, tasks[i].ID)
		if err != nil {
			return err
		}
		tasks[i].Tags = tags
	}
	return nil
}

// CreateTask inserts a task and fills in its ID. Defaults are applied by
// the caller.
func (q *Queries) CreateTask(ctx context.Context, t *models.Task) error {
	result, err := q.q.ExecContext(ctx, `
		INSERT INTO tasks (project_id, user_id, status_id, title, description, notes, priority,
			completed, completed_at, completed_by, archived, archived_at, archived_by, due_date,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ProjectID, t.UserID, t.StatusID, t.Title, t.Description, t.Notes, nullString(string(t.Priority)),
		t.Completed, t.CompletedAt, t.CompletedBy, t.Archived, t.ArchivedAt, t.ArchivedBy, t.DueDate,
		t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// GetTask retrieves a task by ID with its status and tags
func (q *Queries) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	t, err := scanTask(q.q.QueryRowContext(ctx, taskSelect+" WHERE t.id = ?", id))
	if err != nil {
		return nil, notFound(err)
	}

	tags, err := q.GetTaskTags(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Tags = tags

	return t, nil
}

// UpdateTask writes every mutable column of a task
func (q *Queries) UpdateTask(ctx context.Context, t *models.Task) error {
	result, err := q.q.ExecContext(ctx, `
		UPDATE tasks SET project_id = ?, status_id = ?, title = ?, description = ?, notes = ?, priority = ?,
			completed = ?, completed_at = ?, completed_by = ?, archived = ?, archived_at = ?, archived_by = ?,
			due_date = ?, updated_at = ?
		WHERE id = ?
	`, t.ProjectID, t.StatusID, t.Title, t.Description, t.Notes, nullString(string(t.Priority)),
		t.Completed, t.CompletedAt, t.CompletedBy, t.Archived, t.ArchivedAt, t.ArchivedBy,
		t.DueDate, t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	return expectOne(result)
}

// DeleteTask deletes a task; its comments and tag links cascade
func (q *Queries) DeleteTask(ctx context.Context, id int64) error {
	result, err := q.q.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

// ListTasks returns every task of a project, archived ones included
func (q *Queries) ListTasks(ctx context.Context, projectID int64) ([]models.Task, error) {
	tasks, err := q.queryTasks(ctx, taskSelect+`
		WHERE t.project_id = ?
		ORDER BY t.created_at DESC, t.id DESC
	`, projectID)
	if err != nil {
		return nil, err
	}
	if err := q.loadTags(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// TaskFilter narrows ListTasksFiltered. A zero ProjectID spans every
// project; UserID restricts to one user's tasks.
type TaskFilter struct {
	ProjectID       int64
	UserID          int64
	Search          string
	TagID           *int64
	ShowCompleted   bool // include completed tasks
	OnlyCompleted   bool
	IncludeArchived bool
	Priority        models.Priority
	UpdatedSince    *time.Time
	NotUpdatedSince *time.Time
}

// ListTasksFiltered returns tasks filtered by project, user, search query,
// tag, priority, completion and last update, most recently touched first
func (q *Queries) ListTasksFiltered(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	query := taskSelect
	args := []any{}

	if f.TagID != nil {
		query += " JOIN task_tags tt ON t.id = tt.task_id"
	}

	query += " WHERE 1 = 1"
	if f.ProjectID != 0 {
		query += " AND t.project_id = ?"
		args = append(args, f.ProjectID)
	}
	if f.UserID != 0 {
		query += " AND t.user_id = ?"
		args = append(args, f.UserID)
	}

	search := strings.TrimSpace(f.Search)
	if search != "" {
		query += " AND (t.title LIKE ? OR t.description LIKE ?)"
		searchPattern := "%" + search + "%"
		args = append(args, searchPattern, searchPattern)
	}

	if f.TagID != nil {
		query += " AND tt.tag_id = ?"
		args = append(args, *f.TagID)
	}

	switch {
	case f.OnlyCompleted:
		query += " AND t.completed = 1"
	case !f.ShowCompleted:
		query += " AND t.completed = 0"
	}

	if !f.IncludeArchived {
		query += " AND t.archived = 0"
	}

	if f.Priority != "" {
		query += " AND t.priority = ?"
		args = append(args, string(f.Priority))
	}

	if f.UpdatedSince != nil {
		query += " AND t.updated_at >= ?"
		args = append(args, *f.UpdatedSince)
	}
	if f.NotUpdatedSince != nil {
		query += " AND t.updated_at < ?"
		args = append(args, *f.NotUpdatedSince)
	}

	query += " ORDER BY t.updated_at DESC, t.created_at DESC, t.id DESC"

	tasks, err := q.queryTasks(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if err := q.loadTags(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListCompletedTasks returns a user's completed tasks that are not yet archived
func (q *Queries) ListCompletedTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	return q.queryTasks(ctx, taskSelect+`
		WHERE t.user_id = ? AND t.completed = 1 AND t.archived = 0
		ORDER BY t.id
	`, userID)
}

// ListArchivedTasks returns a user's archived tasks, newest archive first
func (q *Queries) ListArchivedTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	return q.queryTasks(ctx, taskSelect+`
		WHERE t.user_id = ? AND t.archived = 1
		ORDER BY t.archived_at DESC, t.id DESC
	`, userID)
}

// ListOpenProjectTasks returns the incomplete, non-archived tasks of a project
func (q *Queries) ListOpenProjectTasks(ctx context.Context, projectID int64) ([]models.Task, error) {
	return q.queryTasks(ctx, taskSelect+`
		WHERE t.project_id = ? AND t.completed = 0 AND t.archived = 0
		ORDER BY t.id
	`, projectID)
}

// ListActiveTasksForProjects returns the non-archived tasks of the given
// projects with their statuses loaded
func (q *Queries) ListActiveTasksForProjects(ctx context.Context, projectIDs []int64) ([]models.Task, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	return q.queryTasks(ctx, taskSelect+`
		WHERE t.archived = 0 AND t.project_id IN (`+placeholders(len(projectIDs))+`)
		ORDER BY t.project_id, t.id
	`, int64Args(projectIDs)...)
}

// GetTaskTags returns all tags for a task
func (q *Queries) GetTaskTags(ctx context.Context, taskID int64) ([]models.Tag, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT t.id, t.name, t.color, t.tag_group_id, t.created_at
		FROM tags t
		JOIN task_tags tt ON t.id = tt.tag_id
		WHERE tt.task_id = ?
		ORDER BY t.name
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.TagGroupID, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// AddTagToTask adds a tag to a task, enforcing radio-button behavior for grouped tags
func (q *Queries) AddTagToTask(ctx context.Context, taskID, tagID int64) error {
	// Get the tag to check if it belongs to a group
	var tagGroupID *int64
	err := q.q.QueryRowContext(ctx, "SELECT tag_group_id FROM tags WHERE id = ?", tagID).Scan(&tagGroupID)
	if err != nil {
		return notFound(err)
	}

	// If the tag belongs to a group, remove any existing tags from that group
	if tagGroupID != nil {
		_, err = q.q.ExecContext(ctx, `
			DELETE FROM task_tags
			WHERE task_id = ? AND tag_id IN (
				SELECT id FROM tags WHERE tag_group_id = ?
			)
		`, taskID, *tagGroupID)
		if err != nil {
			return err
		}
	}

	_, err = q.q.ExecContext(ctx, `
		INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)
	`, taskID, tagID)
	return err
}

// RemoveTagFromTask removes a tag from a task
func (q *Queries) RemoveTagFromTask(ctx context.Context, taskID, tagID int64) error {
	_, err := q.q.ExecContext(ctx, "DELETE FROM task_tags WHERE task_id = ? AND tag_id = ?", taskID, tagID)
	return err
}

// SetTaskTags replaces a task's tags with tagIDs
func (q *Queries) SetTaskTags(ctx context.Context, taskID int64, tagIDs []int64) error {
	if _, err := q.q.ExecContext(ctx, "DELETE FROM task_tags WHERE task_id = ?", taskID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if err := q.AddTagToTask(ctx, taskID, tagID); err != nil {
			return err
		}
	}
	return nil
}
