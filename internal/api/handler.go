package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"gitea.jw6.us/james/taskdeck/internal/auth"
	"gitea.jw6.us/james/taskdeck/internal/store"
	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

// Handler serves the JSON API. Every resource handler runs behind the
// session middleware, so a user is always present in the request context.
type Handler struct {
	store    *store.Store
	auth     *auth.Service
	sessions *auth.SessionManager
}

func NewHandler(store *store.Store, authService *auth.Service, sessions *auth.SessionManager) *Handler {
	return &Handler{store: store, auth: authService, sessions: sessions}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// pathID parses the {id} route parameter. A non-numeric id behaves exactly
// like an id that matches no owned row.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

type userJSON struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type taskJSON struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	DueDate     *string   `json:"dueDate"`
	Priority    string    `json:"priority"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
}

func taskToJSON(t store.Task) taskJSON {
	out := taskJSON{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		Category:    t.Category,
		CreatedAt:   t.CreatedAt,
	}
	if t.DueDate != nil {
		due := t.DueDate.Format(dateLayout)
		out.DueDate = &due
	}
	return out
}

type eventJSON struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	EventDate   string    `json:"eventDate"`
	EventTime   *string   `json:"eventTime"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
}

func eventToJSON(e store.Event) eventJSON {
	return eventJSON{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		EventDate:   e.EventDate.Format(dateLayout),
		EventTime:   e.EventTime,
		Color:       e.Color,
		CreatedAt:   e.CreatedAt,
	}
}
