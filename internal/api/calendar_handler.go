package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gitea.jw6.us/james/taskdeck/internal/auth"
	"gitea.jw6.us/james/taskdeck/internal/store"
	"github.com/go-chi/chi/v5"

	httperrors "gitea.jw6.us/james/taskdeck/internal/http/errors"
)

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	events, err := h.store.Events.List(r.Context(), user.ID)
	if err != nil {
		httperrors.Internal(w, r, err, "Error fetching events")
		return
	}
	h.writeEvents(w, events)
}

// ListEventsByMonth serves the month view: events in the half-open range
// [first of month, first of next month).
func (h *Handler) ListEventsByMonth(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	year, yearErr := strconv.Atoi(chi.URLParam(r, "year"))
	month, monthErr := strconv.Atoi(chi.URLParam(r, "month"))
	if yearErr != nil || monthErr != nil || month < 1 || month > 12 {
		httperrors.JSON(w, http.StatusBadRequest, "Invalid year or month")
		return
	}

	events, err := h.store.Events.ListByMonth(r.Context(), user.ID, year, month)
	if err != nil {
		httperrors.Internal(w, r, err, "Error fetching events")
		return
	}
	h.writeEvents(w, events)
}

func (h *Handler) writeEvents(w http.ResponseWriter, events []store.Event) {
	out := make([]eventJSON, 0, len(events))
	for _, e := range events {
		out = append(out, eventToJSON(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		httperrors.JSON(w, http.StatusNotFound, "Event not found")
		return
	}

	event, err := h.store.Events.GetByID(r.Context(), id, user.ID)
	if err != nil {
		httperrors.Internal(w, r, err, "Error fetching event")
		return
	}
	if event == nil {
		httperrors.JSON(w, http.StatusNotFound, "Event not found")
		return
	}
	writeJSON(w, http.StatusOK, eventToJSON(*event))
}

type createEventRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	EventDate   string  `json:"eventDate"`
	EventTime   *string `json:"eventTime"`
	Color       string  `json:"color"`
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.JSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		httperrors.JSON(w, http.StatusBadRequest, "Title is required")
		return
	}
	if req.EventDate == "" {
		httperrors.JSON(w, http.StatusBadRequest, "Event date is required")
		return
	}
	eventDate, err := time.Parse(dateLayout, req.EventDate)
	if err != nil {
		httperrors.JSON(w, http.StatusBadRequest, "Invalid event date")
		return
	}

	event, err := h.store.Events.Create(r.Context(), user.ID, store.EventDraft{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   eventDate,
		EventTime:   req.EventTime,
		Color:       req.Color,
	})
	if err != nil {
		httperrors.Internal(w, r, err, "Error creating event")
		return
	}
	writeJSON(w, http.StatusCreated, eventToJSON(*event))
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		httperrors.JSON(w, http.StatusNotFound, "Event not found")
		return
	}

	var patch store.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httperrors.JSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.store.Events.Update(r.Context(), id, user.ID, patch)
	if err != nil {
		httperrors.Internal(w, r, err, "Error updating event")
		return
	}
	if result == nil {
		httperrors.JSON(w, http.StatusNotFound, "Event not found")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		httperrors.JSON(w, http.StatusNotFound, "Event not found")
		return
	}

	deleted, err := h.store.Events.Delete(r.Context(), id, user.ID)
	if err != nil {
		httperrors.Internal(w, r, err, "Error deleting event")
		return
	}
	if !deleted {
		httperrors.JSON(w, http.StatusNotFound, "Event not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
