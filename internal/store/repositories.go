package store

import (
	"context"
	"time"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	// Create inserts a new user and returns it. A duplicate email surfaces
	// as ErrEmailTaken rather than a raw constraint violation.
	Create(ctx context.Context, email, passwordHash string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

// TaskFilters narrows a task listing. Zero-valued fields are not applied.
type TaskFilters struct {
	Category string
	Priority string
	Search   string
}

// TaskDraft carries the caller-supplied fields for a new task. Priority and
// Category fall back to their documented defaults when empty.
type TaskDraft struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    string
	Category    string
}

// TaskRepository handles owner-scoped task CRUD. Every operation that targets
// an id also checks ownership; a row under another owner behaves exactly like
// a missing row.
type TaskRepository interface {
	List(ctx context.Context, userID int64, filters TaskFilters) ([]Task, error)
	GetByID(ctx context.Context, id, userID int64) (*Task, error)
	Create(ctx context.Context, userID int64, draft TaskDraft) (*Task, error)
	// Update applies an allow-listed partial patch. The result merges the id
	// with exactly the fields that were applied; it is nil both when the
	// patch contained no recognized fields and when no owned row matched.
	Update(ctx context.Context, id, userID int64, patch Patch) (Patch, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id, userID int64) (bool, error)
}

// EventDraft carries the caller-supplied fields for a new calendar event.
type EventDraft struct {
	Title       string
	Description *string
	EventDate   time.Time
	EventTime   *string
	Color       string
}

// EventRepository handles owner-scoped calendar event CRUD.
type EventRepository interface {
	List(ctx context.Context, userID int64) ([]Event, error)
	// ListByMonth returns events in the half-open range
	// [year-month-01, nextMonth-01). The caller validates month before
	// invoking.
	ListByMonth(ctx context.Context, userID int64, year, month int) ([]Event, error)
	GetByID(ctx context.Context, id, userID int64) (*Event, error)
	Create(ctx context.Context, userID int64, draft EventDraft) (*Event, error)
	Update(ctx context.Context, id, userID int64, patch Patch) (Patch, error)
	Delete(ctx context.Context, id, userID int64) (bool, error)
}

// SessionRepository stores server-side login sessions.
type SessionRepository interface {
	Create(ctx context.Context, session Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	TouchLastSeen(ctx context.Context, id string) error
}
