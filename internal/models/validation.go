package models

import (
	"fmt"
	"strings"
)

// FieldError is a single validation failure
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

// ValidationError collects every failure found on a record
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

// Messages returns the human-readable failures
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return msgs
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Validate checks the project's required fields and enums
func (p *Project) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(p.Title) == "" {
		verr.add("title", "can't be blank")
	}
	if p.DefaultPriority != "" && !p.DefaultPriority.Valid() {
		verr.add("default_priority", "must be a valid priority level")
	}
	if p.Color != "" && !p.Color.Valid() {
		verr.add("color", "must be a valid color")
	}
	return verr.orNil()
}

// Validate checks the task invariants. The status must already be loaded
// for the project check to apply.
func (t *Task) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(t.Title) == "" {
		verr.add("title", "can't be blank")
	}
	if t.Priority != "" && !t.Priority.Valid() {
		verr.add("priority", "is not included in the list")
	}
	if t.Archived && t.ArchivedAt == nil {
		verr.add("archived_at", "must be present when task is archived")
	}
	if t.Status != nil && t.Status.ProjectID != t.ProjectID {
		verr.add("status", "must belong to the same project")
	}
	return verr.orNil()
}

// Validate checks a comment before it is stored
func (c *Comment) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(c.Content) == "" {
		verr.add("content", "can't be blank")
	}
	if !c.Status.Valid() {
		verr.add("status", "is not included in the list")
	}
	if c.TaskID == nil && c.ProjectID == nil {
		verr.add("", "comment must belong to a task or a project")
	}
	return verr.orNil()
}
