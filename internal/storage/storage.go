// Package storage defines the persistence contract consumed by the services.
//
// Task and event lookups always take the owner id; there is no
// way to query another identity's records through these interfaces.
package storage

import (
	"context"
	"errors"

	"github.com/isdelr/taskmanager-be/internal/models"
)

var (
	// ErrNotFound indicates a requested record is missing or not owned by the caller.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate indicates a unique constraint (username, email, id) was violated.
	ErrDuplicate = errors.New("record already exists")
)

// UserStore persists user records.
type UserStore interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
}

// TaskStore persists tasks with owner-scoped access.
type TaskStore interface {
	InsertTask(ctx context.Context, task models.Task) error
	FindTask(ctx context.Context, ownerID, taskID string) (models.Task, error)
	FindTasks(ctx context.Context, ownerID string) ([]models.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID string) (models.Task, error)
}

// EventStore persists activity log entries.
type EventStore interface {
	InsertEvent(ctx context.Context, event models.Event) error
	// FindEvents returns the owner's most recent events, newest first.
	FindEvents(ctx context.Context, ownerID string, limit int) ([]models.Event, error)
}

// Store is the full persistence backend.
type Store interface {
	UserStore
	TaskStore
	EventStore
	Ping(ctx context.Context) error
	Close() error
}
