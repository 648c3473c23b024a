package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the subset of pgxpool.Pool the repositories execute against.
// Keeping it narrow lets tests substitute a mock connection.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgxPool represents the subset of pgxpool.Pool used by the store and the
// migration runner.
type PgxPool interface {
	querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// Store aggregates repositories backed by PostgreSQL.
type Store struct {
	pool PgxPool

	Users    UserRepository
	Tasks    TaskRepository
	Events   EventRepository
	Sessions SessionRepository
}

// New wires concrete repository implementations with a shared connection pool.
func New(pool PgxPool) *Store {
	return &Store{
		pool:     pool,
		Users:    &userRepo{db: pool},
		Tasks:    &taskRepo{db: pool},
		Events:   &eventRepo{db: pool},
		Sessions: &sessionRepo{db: pool},
	}
}

// HealthCheck verifies that the underlying database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	defer observeDB(ctx, "db.healthcheck")()
	return s.pool.Ping(ctx)
}
