package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// sessionRepo implements SessionRepository.
type sessionRepo struct {
	db querier
}

func (r *sessionRepo) Create(ctx context.Context, session Session) error {
	defer observeDB(ctx, "db.sessions.create")()

	const q = `INSERT INTO sessions (id, user_id, created_at, expires_at, user_agent, ip_address)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, q,
		session.ID, session.UserID, session.CreatedAt, session.ExpiresAt,
		session.UserAgent, session.IPAddress)
	return err
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*Session, error) {
	defer observeDB(ctx, "db.sessions.get_by_id")()

	const q = `SELECT id, user_id, created_at, expires_at, last_seen_at, user_agent, ip_address
FROM sessions WHERE id = $1`

	var s Session
	err := r.db.QueryRow(ctx, q, id).Scan(&s.ID, &s.UserID, &s.CreatedAt,
		&s.ExpiresAt, &s.LastSeenAt, &s.UserAgent, &s.IPAddress)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	defer observeDB(ctx, "db.sessions.delete")()

	const q = `DELETE FROM sessions WHERE id = $1`

	_, err := r.db.Exec(ctx, q, id)
	return err
}

func (r *sessionRepo) TouchLastSeen(ctx context.Context, id string) error {
	defer observeDB(ctx, "db.sessions.touch_last_seen")()

	const q = `UPDATE sessions SET last_seen_at = NOW() WHERE id = $1`

	_, err := r.db.Exec(ctx, q, id)
	return err
}
