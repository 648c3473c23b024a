package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"gitea.jw6.us/james/taskdeck/internal/auth"
	"gitea.jw6.us/james/taskdeck/internal/store"

	httperrors "gitea.jw6.us/james/taskdeck/internal/http/errors"
)

// ListTasks returns the caller's tasks, optionally narrowed by category,
// priority, and a title/description substring search.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	q := r.URL.Query()

	tasks, err := h.store.Tasks.List(r.Context(), user.ID, store.TaskFilters{
		Category: q.Get("category"),
		Priority: q.Get("priority"),
		Search:   q.Get("search"),
	})
	if err != nil {
		httperrors.Internal(w, r, err, "Error fetching tasks")
		return
	}

	out := make([]taskJSON, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToJSON(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		httperrors.JSON(w, http.StatusNotFound, "Task not found")
		return
	}

	task, err := h.store.Tasks.GetByID(r.Context(), id, user.ID)
	if err != nil {
		httperrors.Internal(w, r, err, "Error fetching task")
		return
	}
	if task == nil {
		httperrors.JSON(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, taskToJSON(*task))
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Priority    string  `json:"priority"`
	Category    string  `json:"category"`
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.JSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		httperrors.JSON(w, http.StatusBadRequest, "Title is required")
		return
	}

	draft := store.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			httperrors.JSON(w, http.StatusBadRequest, "Invalid due date")
			return
		}
		draft.DueDate = &due
	}

	task, err := h.store.Tasks.Create(r.Context(), user.ID, draft)
	if err != nil {
		httperrors.Internal(w, r, err, "Error creating task")
		return
	}
	writeJSON(w, http.StatusCreated, taskToJSON(*task))
}

// UpdateTask applies an allow-listed partial patch. The response echoes the
// id plus exactly the fields that were applied, not a full re-read.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		httperrors.JSON(w, http.StatusNotFound, "Task not found")
		return
	}

	var patch store.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httperrors.JSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.store.Tasks.Update(r.Context(), id, user.ID, patch)
	if err != nil {
		httperrors.Internal(w, r, err, "Error updating task")
		return
	}
	if result == nil {
		httperrors.JSON(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		httperrors.JSON(w, http.StatusNotFound, "Task not found")
		return
	}

	deleted, err := h.store.Tasks.Delete(r.Context(), id, user.ID)
	if err != nil {
		httperrors.Internal(w, r, err, "Error deleting task")
		return
	}
	if !deleted {
		httperrors.JSON(w, http.StatusNotFound, "Task not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
