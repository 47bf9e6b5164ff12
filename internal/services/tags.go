package services

import (
	"context"
	"strings"

	"github.com/tgienger/mustermeister/internal/models"
)

// Tags lists every tag. Tags are shared between users.
func (s *Service) Tags(ctx context.Context) ([]models.Tag, error) {
	return s.db.ListTags(ctx)
}

// TagGroups lists the groups of mutually exclusive tags
func (s *Service) TagGroups(ctx context.Context) ([]models.TagGroup, error) {
	return s.db.ListTagGroups(ctx)
}

// CreateTagGroup adds a group whose tags replace each other on a task
func (s *Service) CreateTagGroup(ctx context.Context, name string) (*models.TagGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &models.ValidationError{Fields: []models.FieldError{{Field: "name", Message: "can't be blank"}}}
	}
	group, err := s.db.CreateTagGroup(ctx, name)
	if err != nil {
		return nil, taken("name", err)
	}
	return group, nil
}

// CreateTag adds a tag, optionally inside a group
func (s *Service) CreateTag(ctx context.Context, name, color string, groupID *int64) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &models.ValidationError{Fields: []models.FieldError{{Field: "name", Message: "can't be blank"}}}
	}
	tag, err := s.db.CreateTag(ctx, name, color, groupID)
	if err != nil {
		return nil, taken("name", err)
	}
	return tag, nil
}

// TagsInGroup lists the tags of one group
func (s *Service) TagsInGroup(ctx context.Context, groupID int64) ([]models.Tag, error) {
	if _, err := s.db.GetTagGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.db.ListTagsByGroup(ctx, groupID)
}

// DeleteTag removes a tag from every task that carries it
func (s *Service) DeleteTag(ctx context.Context, id int64) error {
	if _, err := s.db.GetTag(ctx, id); err != nil {
		return err
	}
	return s.db.DeleteTag(ctx, id)
}

// DeleteTagGroup removes a group. Its tags stay, ungrouped.
func (s *Service) DeleteTagGroup(ctx context.Context, id int64) error {
	if _, err := s.db.GetTagGroup(ctx, id); err != nil {
		return err
	}
	return s.db.DeleteTagGroup(ctx, id)
}

// TagTask adds or removes one tag on a task. Adding a grouped tag drops
// the task's other tags from the same group.
func (s *Service) TagTask(ctx context.Context, actor, taskID, tagID int64, on bool) error {
	return s.run(ctx, actor, func(o *op) error {
		t, err := o.ownedTask(ctx, taskID)
		if err != nil {
			return err
		}
		if on {
			err = o.AddTagToTask(ctx, t.ID, tagID)
		} else {
			err = o.RemoveTagFromTask(ctx, t.ID, tagID)
		}
		if err != nil {
			return err
		}
		return o.TouchProject(ctx, t.ProjectID, o.now)
	})
}
