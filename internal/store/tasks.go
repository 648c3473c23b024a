package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// taskRepo implements TaskRepository.
type taskRepo struct {
	db querier
}

const taskColumns = "id, user_id, title, description, completed, due_date, priority, category, created_at"

func (r *taskRepo) List(ctx context.Context, userID int64, filters TaskFilters) ([]Task, error) {
	defer observeDB(ctx, "db.tasks.list")()

	q, args := buildTaskListQuery(userID, filters)
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// buildTaskListQuery assembles the owner-scoped listing statement. Empty
// filter dimensions are simply not applied; search matches a substring of
// title or description, case-insensitively.
func buildTaskListQuery(userID int64, filters TaskFilters) (string, []any) {
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{userID}

	if filters.Category != "" {
		args = append(args, filters.Category)
		q += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filters.Priority != "" {
		args = append(args, filters.Priority)
		q += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		q += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	q += " ORDER BY created_at DESC"
	return q, args
}

func (r *taskRepo) GetByID(ctx context.Context, id, userID int64) (*Task, error) {
	defer observeDB(ctx, "db.tasks.get_by_id")()

	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	task, err := scanTask(r.db.QueryRow(ctx, q, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return task, err
}

// withDefaults fills the documented defaults for unsupplied fields.
func (d TaskDraft) withDefaults() TaskDraft {
	if d.Priority == "" {
		d.Priority = "medium"
	}
	if d.Category == "" {
		d.Category = "general"
	}
	return d
}

func (r *taskRepo) Create(ctx context.Context, userID int64, draft TaskDraft) (*Task, error) {
	defer observeDB(ctx, "db.tasks.create")()

	draft = draft.withDefaults()

	const q = `INSERT INTO tasks (user_id, title, description, due_date, priority, category)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + taskColumns

	return scanTask(r.db.QueryRow(ctx, q,
		userID, draft.Title, draft.Description, draft.DueDate, draft.Priority, draft.Category))
}

func (r *taskRepo) Update(ctx context.Context, id, userID int64, patch Patch) (Patch, error) {
	return applyPatch(ctx, r.db, taskPatch, id, userID, patch)
}

func (r *taskRepo) Delete(ctx context.Context, id, userID int64) (bool, error) {
	defer observeDB(ctx, "db.tasks.delete")()

	const q = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, q, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed,
		&t.DueDate, &t.Priority, &t.Category, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
