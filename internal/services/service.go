// Package services holds the task lifecycle, project and bulk operations.
// Every mutating call runs as one database transaction and takes the acting
// user's id explicitly.
package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/tgienger/mustermeister/internal/db"
	"github.com/tgienger/mustermeister/internal/models"
)

// Service runs lifecycle operations against the database
type Service struct {
	db       *db.DB
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithNotifier sets the collaborator told about completed tasks
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service
func New(database *db.DB, opts ...Option) *Service {
	s := &Service{
		db:     database,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB returns the underlying database for read-only callers
func (s *Service) DB() *db.DB {
	return s.db
}

// op is the state of one running transaction
type op struct {
	*db.Tx
	now   time.Time
	actor int64

	// tasks completed during the transaction, notified after commit
	completed []models.Task
}

func (o *op) actorRef() *int64 {
	if o.actor == 0 {
		return nil
	}
	id := o.actor
	return &id
}

// run executes fn in a transaction and dispatches notifications once it
// has committed
func (s *Service) run(ctx context.Context, actor int64, fn func(o *op) error) error {
	o := &op{now: s.now().UTC(), actor: actor}
	err := s.db.WithTx(ctx, func(tx *db.Tx) error {
		o.Tx = tx
		return fn(o)
	})
	if err != nil {
		return err
	}
	s.notifyCompleted(ctx, o.completed)
	return nil
}
