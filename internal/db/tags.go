package db

import (
	"context"

	"github.com/tgienger/mustermeister/internal/models"
)

// CreateTagGroup creates a new tag group
func (q *Queries) CreateTagGroup(ctx context.Context, name string) (*models.TagGroup, error) {
	result, err := q.q.ExecContext(ctx, "INSERT INTO tag_groups (name) VALUES (?)", name)
	if err != nil {
		return nil, duplicate(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return q.GetTagGroup(ctx, id)
}

// GetTagGroup retrieves a tag group by ID
func (q *Queries) GetTagGroup(ctx context.Context, id int64) (*models.TagGroup, error) {
	g := &models.TagGroup{}
	err := q.q.QueryRowContext(ctx, "SELECT id, name, created_at FROM tag_groups WHERE id = ?", id).
		Scan(&g.ID, &g.Name, &g.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

// ListTagGroups returns all tag groups
func (q *Queries) ListTagGroups(ctx context.Context) ([]models.TagGroup, error) {
	rows, err := q.q.QueryContext(ctx, "SELECT id, name, created_at FROM tag_groups ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.TagGroup
	for rows.Next() {
		var g models.TagGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// DeleteTagGroup deletes a tag group (tags in the group will have their group_id set to NULL)
func (q *Queries) DeleteTagGroup(ctx context.Context, id int64) error {
	_, err := q.q.ExecContext(ctx, "DELETE FROM tag_groups WHERE id = ?", id)
	return err
}

// CreateTag creates a new tag
func (q *Queries) CreateTag(ctx context.Context, name, color string, tagGroupID *int64) (*models.Tag, error) {
	result, err := q.q.ExecContext(ctx, "INSERT INTO tags (name, color, tag_group_id) VALUES (?, ?, ?)", name, color, tagGroupID)
	if err != nil {
		return nil, duplicate(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return q.GetTag(ctx, id)
}

// GetTag retrieves a tag by ID
func (q *Queries) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	t := &models.Tag{}
	err := q.q.QueryRowContext(ctx, "SELECT id, name, color, tag_group_id, created_at FROM tags WHERE id = ?", id).
		Scan(&t.ID, &t.Name, &t.Color, &t.TagGroupID, &t.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// ListTags returns all tags
func (q *Queries) ListTags(ctx context.Context) ([]models.Tag, error) {
	return q.queryTags(ctx, "SELECT id, name, color, tag_group_id, created_at FROM tags ORDER BY name")
}

// ListTagsByGroup returns all tags in a specific group
func (q *Queries) ListTagsByGroup(ctx context.Context, groupID int64) ([]models.Tag, error) {
	return q.queryTags(ctx, `
		SELECT id, name, color, tag_group_id, created_at
		FROM tags
		WHERE tag_group_id = ?
		ORDER BY name
	`, groupID)
}

func (q *Queries) queryTags(ctx context.Context, query string, args ...any) ([]models.Tag, error) {
	rows, err := q.q.QueryContext(ctx, query, args...)
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

// DeleteTag deletes a tag
func (q *Queries) DeleteTag(ctx context.Context, id int64) error {
	_, err := q.q.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", id)
	return err
}

// GetTagByName retrieves a tag by its name (case-insensitive)
func (q *Queries) GetTagByName(ctx context.Context, name string) (*models.Tag, error) {
	t := &models.Tag{}
	err := q.q.QueryRowContext(ctx, "SELECT id, name, color, tag_group_id, created_at FROM tags WHERE LOWER(name) = LOWER(?)", name).
		Scan(&t.ID, &t.Name, &t.Color, &t.TagGroupID, &t.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}
