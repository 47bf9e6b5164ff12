package server

import (
	"time"

	"github.com/tgienger/mustermeister/internal/models"
)

type projectJSON struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DefaultPriority models.Priority `json:"default_priority,omitempty"`
	Color           models.Color    `json:"color,omitempty"`
	DueDate         *time.Time      `json:"due_date"`
	LastActivityAt  time.Time       `json:"last_activity_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Progress        *progressJSON   `json:"progress,omitempty"`
}

type progressJSON struct {
	Total      int                 `json:"total"`
	Completed  int                 `json:"completed"`
	Percentage int                 `json:"percentage"`
	State      models.ProjectState `json:"state"`
}

type statusJSON struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	Name      string `json:"name"`
	Key       string `json:"key"`
}

type tagJSON struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	TagGroupID *int64 `json:"tag_group_id,omitempty"`
}

type tagGroupJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type commentJSON struct {
	ID        int64                `json:"id"`
	TaskID    *int64               `json:"task_id,omitempty"`
	UserID    *int64               `json:"user_id,omitempty"`
	Content   string               `json:"content"`
	Status    models.CommentStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

type taskJSON struct {
	ID          int64           `json:"id"`
	ProjectID   int64           `json:"project_id"`
	UserID      int64           `json:"user_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Notes       string          `json:"notes"`
	Priority    models.Priority `json:"priority"`
	Status      *statusJSON     `json:"status,omitempty"`
	Completed   bool            `json:"completed"`
	CompletedAt *time.Time      `json:"completed_at"`
	CompletedBy *int64          `json:"completed_by"`
	Archived    bool            `json:"archived"`
	ArchivedAt  *time.Time      `json:"archived_at"`
	ArchivedBy  *int64          `json:"archived_by"`
	DueDate     *time.Time      `json:"due_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Tags        []tagJSON       `json:"tags"`
	Comments    []commentJSON   `json:"comments,omitempty"`
}

type archiveStatsJSON struct {
	TotalArchived     int `json:"total_archived"`
	ArchivedThisMonth int `json:"archived_this_month"`
	TotalCompleted    int `json:"total_completed"`
}

type scheduleStatsJSON struct {
	TotalTasks    int `json:"total_tasks"`
	OverdueTasks  int `json:"overdue_tasks"`
	UpcomingTasks int `json:"upcoming_tasks"`
}

func toProjectJSON(p *models.Project) projectJSON {
	return projectJSON{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		DefaultPriority: p.DefaultPriority,
		Color:           p.Color,
		DueDate:         p.DueDate,
		LastActivityAt:  p.LastActivityAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toProgressJSON(p models.Progress) *progressJSON {
	return &progressJSON{Total: p.Total, Completed: p.Completed, Percentage: p.Percentage, State: p.State}
}

func toStatusJSON(s *models.Status) *statusJSON {
	if s == nil {
		return nil
	}
	return &statusJSON{ID: s.ID, ProjectID: s.ProjectID, Name: s.Name, Key: s.Key().String()}
}

func toCommentJSON(c *models.Comment) commentJSON {
	return commentJSON{
		ID:        c.ID,
		TaskID:    c.TaskID,
		UserID:    c.UserID,
		Content:   c.Content,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
	}
}

func toTagJSON(t *models.Tag) tagJSON {
	return tagJSON{ID: t.ID, Name: t.Name, Color: t.Color, TagGroupID: t.TagGroupID}
}

func toTaskJSON(t *models.Task) taskJSON {
	out := taskJSON{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Notes:       t.Notes,
		Priority:    t.Priority,
		Status:      toStatusJSON(t.Status),
		Completed:   t.Completed,
		CompletedAt: t.CompletedAt,
		CompletedBy: t.CompletedBy,
		Archived:    t.Archived,
		ArchivedAt:  t.ArchivedAt,
		ArchivedBy:  t.ArchivedBy,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Tags:        make([]tagJSON, 0, len(t.Tags)),
	}
	for _, tag := range t.Tags {
		out.Tags = append(out.Tags, toTagJSON(&tag))
	}
	for i := range t.Comments {
		out.Comments = append(out.Comments, toCommentJSON(&t.Comments[i]))
	}
	return out
}

type projectRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DefaultPriority models.Priority `json:"default_priority"`
	Color           models.Color    `json:"color"`
	DueDate         *time.Time      `json:"due_date"`
}

func (r projectRequest) apply(p *models.Project) {
	p.Title = r.Title
	p.Description = r.Description
	p.DefaultPriority = r.DefaultPriority
	p.Color = r.Color
	p.DueDate = r.DueDate
}

type taskRequest struct {
	ProjectID   int64           `json:"project_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Notes       string          `json:"notes"`
	Priority    models.Priority `json:"priority"`
	StatusID    int64           `json:"status_id"`
	Completed   bool            `json:"completed"`
	DueDate     *time.Time      `json:"due_date"`
	TagIDs      *[]int64        `json:"tag_ids"`
}

func (r taskRequest) apply(t *models.Task) {
	t.Title = r.Title
	t.Description = r.Description
	t.Notes = r.Notes
	t.Priority = r.Priority
	t.StatusID = r.StatusID
	t.DueDate = r.DueDate
	if r.TagIDs != nil {
		t.Tags = make([]models.Tag, len(*r.TagIDs))
		for i, id := range *r.TagIDs {
			t.Tags[i].ID = id
		}
	}
}

type commentRequest struct {
	Content string `json:"content"`
}

type commentStatusRequest struct {
	Status models.CommentStatus `json:"status" binding:"required"`
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

type taskStatusRequest struct {
	StatusID int64 `json:"status_id" binding:"required"`
}

type tagRequest struct {
	Name       string `json:"name" binding:"required"`
	Color      string `json:"color"`
	TagGroupID *int64 `json:"tag_group_id"`
}

type bulkRescheduleRequest struct {
	TaskIDs []int64    `json:"task_ids" binding:"required"`
	DueDate *time.Time `json:"due_date"`
}

type bulkArchiveRequest struct {
	Before *time.Time `json:"before"`
}

type bulkStatusRequest struct {
	TaskIDs  []int64 `json:"task_ids" binding:"required"`
	StatusID int64   `json:"status_id" binding:"required"`
}
