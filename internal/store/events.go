package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// eventRepo implements EventRepository.
type eventRepo struct {
	db querier
}

// event_time is selected as text so the time-of-day survives as the
// "HH:MM:SS" string the API serves. NULLS FIRST keeps events without a time
// ahead of timed ones on the same day.
const eventColumns = "id, user_id, title, description, event_date, event_time::text, color, created_at"

const eventOrder = " ORDER BY event_date ASC, event_time ASC NULLS FIRST"

func (r *eventRepo) List(ctx context.Context, userID int64) ([]Event, error) {
	defer observeDB(ctx, "db.events.list")()

	const q = `SELECT ` + eventColumns + ` FROM events WHERE user_id = $1` + eventOrder

	return r.queryEvents(ctx, q, userID)
}

func (r *eventRepo) ListByMonth(ctx context.Context, userID int64, year, month int) ([]Event, error) {
	defer observeDB(ctx, "db.events.list_by_month")()

	const q = `SELECT ` + eventColumns + ` FROM events
WHERE user_id = $1 AND event_date >= $2 AND event_date < $3` + eventOrder

	start, end := monthRange(year, month)
	return r.queryEvents(ctx, q, userID, start, end)
}

// monthRange returns the half-open interval [first of month, first of next
// month). time.Date normalizes month 13, so December rolls over to January of
// the following year.
func monthRange(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end
}

func (r *eventRepo) queryEvents(ctx context.Context, q string, args ...any) ([]Event, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

func (r *eventRepo) GetByID(ctx context.Context, id, userID int64) (*Event, error) {
	defer observeDB(ctx, "db.events.get_by_id")()

	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND user_id = $2`

	event, err := scanEvent(r.db.QueryRow(ctx, q, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return event, err
}

// withDefaults fills the fixed violet default color when none was supplied.
func (d EventDraft) withDefaults() EventDraft {
	if d.Color == "" {
		d.Color = "#8b5cf6"
	}
	return d
}

func (r *eventRepo) Create(ctx context.Context, userID int64, draft EventDraft) (*Event, error) {
	defer observeDB(ctx, "db.events.create")()

	draft = draft.withDefaults()

	const q = `INSERT INTO events (user_id, title, description, event_date, event_time, color)
VALUES ($1, $2, $3, $4, $5::time, $6)
RETURNING ` + eventColumns

	return scanEvent(r.db.QueryRow(ctx, q,
		userID, draft.Title, draft.Description, draft.EventDate, draft.EventTime, draft.Color))
}

func (r *eventRepo) Update(ctx context.Context, id, userID int64, patch Patch) (Patch, error) {
	return applyPatch(ctx, r.db, eventPatch, id, userID, patch)
}

func (r *eventRepo) Delete(ctx context.Context, id, userID int64) (bool, error) {
	defer observeDB(ctx, "db.events.delete")()

	const q = `DELETE FROM events WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, q, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Description, &e.EventDate,
		&e.EventTime, &e.Color, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
