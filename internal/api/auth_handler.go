package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"gitea.jw6.us/james/taskdeck/internal/auth"
	"gitea.jw6.us/james/taskdeck/internal/store"

	httperrors "gitea.jw6.us/james/taskdeck/internal/http/errors"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and logs the new user in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		httperrors.JSON(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			httperrors.JSON(w, http.StatusConflict, "Email already exists")
			return
		}
		httperrors.Internal(w, r, err, "Error creating user")
		return
	}

	if _, err := h.sessions.Issue(w, r, user.ID); err != nil {
		httperrors.Internal(w, r, err, "Error creating user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    userJSON{ID: user.ID, Email: user.Email},
	})
}

// Login verifies credentials and starts a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		httperrors.JSON(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			httperrors.JSON(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		httperrors.Internal(w, r, err, "Server error")
		return
	}

	if _, err := h.sessions.Issue(w, r, user.ID); err != nil {
		httperrors.Internal(w, r, err, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    userJSON{ID: user.ID, Email: user.Email},
	})
}

// Logout invalidates the server-side session. Logging out without a session
// still succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(w, r); err != nil {
		httperrors.Internal(w, r, err, "Could not log out")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Me returns the authenticated account's public projection.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"user": userJSON{ID: user.ID, Email: user.Email},
	})
}
