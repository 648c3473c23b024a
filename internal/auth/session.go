package auth

import (
	"crypto/sha256"
	"net"
	"net/http"
	"net/url"
	"time"

	"gitea.jw6.us/james/taskdeck/internal/config"
	"gitea.jw6.us/james/taskdeck/internal/store"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

const sessionTTL = 24 * time.Hour

// SessionManager issues and resolves server-side sessions. The cookie only
// carries an opaque session id; the authoritative state lives in the sessions
// table, so logging out actually invalidates the session rather than just
// discarding the client's copy.
type SessionManager struct {
	cookieName string
	codec      *securecookie.SecureCookie
	secure     bool
	sessions   store.SessionRepository
}

func NewSessionManager(cfg *config.Config, sessions store.SessionRepository) *SessionManager {
	hash := sha256.Sum256([]byte(cfg.Session.Secret))
	sc := securecookie.New(hash[:], hash[:])
	sc.MaxAge(int(sessionTTL / time.Second))
	sc.SetSerializer(securecookie.JSONEncoder{})

	secure := true
	if base, err := url.Parse(cfg.BaseURL); err == nil && base.Scheme != "https" {
		secure = false
	}

	return &SessionManager{
		cookieName: "taskdeck_session",
		codec:      sc,
		secure:     secure,
		sessions:   sessions,
	}
}

// Issue creates a session row for the user and sets the session cookie.
func (m *SessionManager) Issue(w http.ResponseWriter, r *http.Request, userID int64) (string, error) {
	now := time.Now()
	session := store.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	if ua := r.UserAgent(); ua != "" {
		session.UserAgent = &ua
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		session.IPAddress = &host
	}

	if err := m.sessions.Create(r.Context(), session); err != nil {
		return "", err
	}

	encoded, err := m.codec.Encode(m.cookieName, session.ID)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    encoded,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return session.ID, nil
}

// Resolve maps the request's cookie to a live session. It returns (nil, nil)
// for any unusable token: missing cookie, undecodable value, unknown id, or
// an expired row. A non-nil error means the session store itself failed.
func (m *SessionManager) Resolve(r *http.Request) (*store.Session, error) {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil, nil
	}

	var sessionID string
	if err := m.codec.Decode(m.cookieName, c.Value, &sessionID); err != nil {
		return nil, nil
	}

	session, err := m.sessions.GetByID(r.Context(), sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	return session, nil
}

// Destroy deletes the session row referenced by the cookie, if any, and
// expires the cookie. Destroying an absent session is not an error.
func (m *SessionManager) Destroy(w http.ResponseWriter, r *http.Request) error {
	defer m.clearCookie(w)

	c, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil
	}
	var sessionID string
	if err := m.codec.Decode(m.cookieName, c.Value, &sessionID); err != nil {
		return nil
	}
	return m.sessions.Delete(r.Context(), sessionID)
}

func (m *SessionManager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
