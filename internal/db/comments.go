package db

import (
	"context"
	"time"

	"github.com/tgienger/mustermeister/internal/models"
)

const commentColumns = "id, task_id, project_id, user_id, content, status, created_at, updated_at"

func scanComment(row rowScanner) (*models.Comment, error) {
	c := &models.Comment{}
	var status string
	err := row.Scan(&c.ID, &c.TaskID, &c.ProjectID, &c.UserID, &c.Content, &status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Status = models.CommentStatus(status)
	return c, nil
}

// CreateComment inserts a comment and fills in its ID
func (q *Queries) CreateComment(ctx context.Context, c *models.Comment) error {
	result, err := q.q.ExecContext(ctx, `
		INSERT INTO comments (task_id, project_id, user_id, content, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.TaskID, c.ProjectID, c.UserID, c.Content, string(c.Status), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// GetComment retrieves a comment by ID
func (q *Queries) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	c, err := scanComment(q.q.QueryRowContext(ctx, `
		SELECT `+commentColumns+` FROM comments WHERE id = ?
	`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// GetTaskComments retrieves all comments for a task, ordered by creation time (oldest first)
func (q *Queries) GetTaskComments(ctx context.Context, taskID int64) ([]models.Comment, error) {
	return q.queryComments(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE task_id = ?
		ORDER BY created_at ASC, id ASC
	`, taskID)
}

func (q *Queries) queryComments(ctx context.Context, query string, args ...any) ([]models.Comment, error) {
	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// SetCommentStatus changes the status of one comment
func (q *Queries) SetCommentStatus(ctx context.Context, id int64, status models.CommentStatus, at time.Time) error {
	result, err := q.q.ExecContext(ctx, `
		UPDATE comments SET status = ?, updated_at = ? WHERE id = ?
	`, string(status), at, id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

// CloseOpenTaskComments closes every open comment on a task and returns
// how many changed
func (q *Queries) CloseOpenTaskComments(ctx context.Context, taskID int64, at time.Time) (int64, error) {
	result, err := q.q.ExecContext(ctx, `
		UPDATE comments SET status = 'closed', updated_at = ?
		WHERE task_id = ? AND status = 'open'
	`, at, taskID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CountUnresolvedTaskComments counts the open comments on a task
func (q *Queries) CountUnresolvedTaskComments(ctx context.Context, taskID int64) (int, error) {
	var count int
	err := q.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM comments WHERE task_id = ? AND status = 'open'
	`, taskID).Scan(&count)
	return count, err
}
