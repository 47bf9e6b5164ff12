package services

import (
	"errors"
	"strings"

	"github.com/tgienger/mustermeister/internal/db"
	"github.com/tgienger/mustermeister/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist or is not owned
	// by the acting user
	ErrNotFound = db.ErrNotFound

	// ErrAlreadyArchived rejects a second archive of the same task
	ErrAlreadyArchived = errors.New("task is already archived")

	// ErrUnresolvedComments blocks deleting a task with open comments
	ErrUnresolvedComments = errors.New("cannot delete task with unresolved comments")

	// ErrDefaultStatus protects the canonical statuses from rename and
	// delete
	ErrDefaultStatus = errors.New("default statuses are fixed")

	// ErrStatusInUse blocks deleting a status that tasks still reference
	ErrStatusInUse = errors.New("status is still in use")
)

// Failure is a rejected operation that made no changes. Reasons are
// ready to show to the user.
type Failure struct {
	Reasons []string
	Err     error
}

func (f *Failure) Error() string {
	return strings.Join(f.Reasons, "; ")
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Error is a failed bulk or dependent operation. Callers usually report it
// as a warning.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func opError(op string, err error) error {
	if err == nil {
		return nil
	}
	var serr *Error
	if errors.As(err, &serr) {
		return err
	}
	return &Error{Op: op, Err: err}
}

// taken reports a duplicate name as a validation error on field
func taken(field string, err error) error {
	if errors.Is(err, db.ErrDuplicate) {
		return &models.ValidationError{Fields: []models.FieldError{{Field: field, Message: "has already been taken"}}}
	}
	return err
}
