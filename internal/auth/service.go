package auth

import (
	"context"
	"errors"
	"net/http"

	"gitea.jw6.us/james/taskdeck/internal/store"
	"golang.org/x/crypto/bcrypt"

	httperrors "gitea.jw6.us/james/taskdeck/internal/http/errors"
)

// ErrInvalidCredentials covers both an unknown email and a password mismatch.
// Callers get the same error either way so login responses cannot be used to
// enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

const bcryptCost = 10

// dummyHash is a valid bcrypt digest compared (and discarded) when the email
// is unknown, so that path costs the same as a real mismatch.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Service encapsulates registration, credential verification, and the
// session-gated request boundary.
type Service struct {
	store    *store.Store
	sessions *SessionManager
}

func NewService(store *store.Store, sessions *SessionManager) *Service {
	return &Service{store: store, sessions: sessions}
}

// Register derives a one-way credential from the password and creates the
// account. The plaintext is never persisted. A duplicate email surfaces as
// store.ErrEmailTaken.
func (s *Service) Register(ctx context.Context, email, password string) (*store.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	return s.store.Users.Create(ctx, email, string(hash))
}

// Authenticate verifies email/password and returns the account on success.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*store.User, error) {
	user, err := s.store.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// RequireSession gates resource endpoints. A request without a resolvable
// session gets a uniform 401 before any repository handler runs; on success
// the user and session id are placed in the request context.
func (s *Service) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.sessions.Resolve(r)
		if err != nil {
			httperrors.Internal(w, r, err, "Server error")
			return
		}
		if session == nil {
			httperrors.JSON(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := s.store.Users.GetByID(r.Context(), session.UserID)
		if err != nil {
			httperrors.Internal(w, r, err, "Server error")
			return
		}
		if user == nil {
			httperrors.JSON(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		_ = s.store.Sessions.TouchLastSeen(r.Context(), session.ID)

		ctx := WithUser(r.Context(), user)
		ctx = WithSessionID(ctx, session.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
