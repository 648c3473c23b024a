package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// userRepo implements UserRepository.
type userRepo struct {
	db querier
}

const userColumns = "id, email, password_hash, display_name, created_at"

func (r *userRepo) Create(ctx context.Context, email, passwordHash string) (*User, error) {
	defer observeDB(ctx, "db.users.create")()

	const q = `INSERT INTO users (email, password_hash) VALUES ($1, $2)
RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, q, email, passwordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation on the email index.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	defer observeDB(ctx, "db.users.get_by_email")()

	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, q, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	defer observeDB(ctx, "db.users.get_by_id")()

	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
