package db

import (
	"context"

	"github.com/tgienger/mustermeister/internal/models"
)

// CreateUser creates a new user
func (q *Queries) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	result, err := q.q.ExecContext(ctx, `
		INSERT INTO users (name, email) VALUES (?, ?)
	`, name, email)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return q.GetUser(ctx, id)
}

// GetUser retrieves a user by ID
func (q *Queries) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u := &models.User{}
	err := q.q.QueryRowContext(ctx, `
		SELECT id, name, email, created_at FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email address
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	err := q.q.QueryRowContext(ctx, `
		SELECT id, name, email, created_at FROM users WHERE LOWER(email) = LOWER(?)
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// EnsureUser returns the user with the given email, creating it if needed
func (q *Queries) EnsureUser(ctx context.Context, name, email string) (*models.User, error) {
	u, err := q.GetUserByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if err != ErrNotFound {
		return nil, err
	}
	return q.CreateUser(ctx, name, email)
}
