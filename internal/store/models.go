package store

import "time"

// User is an account holder identified by a unique email address.
// PasswordHash is a bcrypt digest and must never leave the server.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	DisplayName  *string
	CreatedAt    time.Time
}

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string
	Completed   bool
	DueDate     *time.Time
	Priority    string
	Category    string
	CreatedAt   time.Time
}

// Event is a calendar entry owned by exactly one user. EventTime is a
// time-of-day string ("HH:MM:SS") because the column is a bare TIME with no
// date component.
type Event struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string
	EventDate   time.Time
	EventTime   *string
	Color       string
	CreatedAt   time.Time
}

// Session is a server-side login session referenced by an opaque id stored in
// the client cookie.
type Session struct {
	ID         string
	UserID     int64
	CreatedAt  time.Time
	ExpiresAt  time.Time
	LastSeenAt *time.Time
	UserAgent  *string
	IPAddress  *string
}
