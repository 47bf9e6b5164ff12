package models

import "time"

// User is the acting identity recorded on tasks and audit fields.
// Authentication happens elsewhere; only the id and display name matter here.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

// Project groups tasks, statuses and project-level comments
type Project struct {
	ID              int64
	UserID          int64
	Title           string
	Description     string
	DefaultPriority Priority // empty when unset
	Color           Color    // empty when unset
	DueDate         *time.Time
	LastActivityAt  time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EffectivePriority is the priority new tasks inherit from the project
func (p *Project) EffectivePriority() Priority {
	if p.DefaultPriority == "" {
		return PriorityMedium
	}
	return p.DefaultPriority
}

// Status is a named lifecycle state owned by one project
type Status struct {
	ID        int64
	ProjectID int64
	Name      string
	CreatedAt time.Time
}

// Key returns the canonical key for the status, or StatusCustom
func (s *Status) Key() StatusKey {
	return StatusKeyForName(s.Name)
}

// IsDefault reports whether the status is one of the canonical catalog entries
func (s *Status) IsDefault() bool {
	return s.Key() != StatusCustom
}

// TagGroup represents a group of mutually exclusive tags
type TagGroup struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Tag represents a tag that can be applied to tasks
type Tag struct {
	ID         int64
	Name       string
	Color      string
	TagGroupID *int64 // nil if not part of a group
	CreatedAt  time.Time
}

// Comment belongs to a task or a project. System-authored audit entries
// are stored as closed comments.
type Comment struct {
	ID        int64
	TaskID    *int64
	ProjectID *int64
	UserID    *int64
	Content   string
	Status    CommentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Task represents a single task
type Task struct {
	ID          int64
	ProjectID   int64
	UserID      int64
	StatusID    int64
	Title       string
	Description string
	Notes       string
	Priority    Priority
	Completed   bool
	CompletedAt *time.Time
	CompletedBy *int64
	Archived    bool
	ArchivedAt  *time.Time
	ArchivedBy  *int64
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Status   *Status   // populated when loading tasks
	Tags     []Tag     // populated when loading tasks
	Comments []Comment // populated when loading task details
}

// StatusIs compares the task's status against a canonical key.
// An unloaded status never matches.
func (t *Task) StatusIs(key StatusKey) bool {
	if t.Status == nil {
		return false
	}
	return t.Status.Key() == key
}

func (t *Task) IsNotStarted() bool   { return t.StatusIs(StatusNotStarted) }
func (t *Task) IsToInvestigate() bool { return t.StatusIs(StatusToInvestigate) }
func (t *Task) IsInvestigated() bool  { return t.StatusIs(StatusInvestigated) }
func (t *Task) IsInProgress() bool    { return t.StatusIs(StatusInProgress) }
func (t *Task) IsReadyToTest() bool   { return t.StatusIs(StatusReadyToTest) }
func (t *Task) IsClosed() bool        { return t.StatusIs(StatusClosed) }
func (t *Task) IsComplete() bool      { return t.StatusIs(StatusComplete) }

// StatusName returns the loaded status name or an empty string
func (t *Task) StatusName() string {
	if t.Status == nil {
		return ""
	}
	return t.Status.Name
}
