package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gitea.jw6.us/james/taskdeck/internal/config"
	"gitea.jw6.us/james/taskdeck/internal/store"
)

type fakeSessionRepo struct {
	sessions map[string]store.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]store.Session)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session store.Session) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*store.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) TouchLastSeen(ctx context.Context, id string) error { return nil }

func testConfig() *config.Config {
	cfg := &config.Config{BaseURL: "http://localhost:8080"}
	cfg.Session.Secret = "0123456789abcdef0123456789abcdef"
	return cfg
}

func issueSession(t *testing.T, m *SessionManager, userID int64) (*http.Cookie, string) {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)

	id, err := m.Issue(w, r, userID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	return cookies[0], id
}

func TestSessionRoundTrip(t *testing.T) {
	repo := newFakeSessionRepo()
	m := NewSessionManager(testConfig(), repo)

	cookie, id := issueSession(t, m, 42)

	if cookie.Value == id {
		t.Error("cookie must not carry the raw session id")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	r := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	r.AddCookie(cookie)

	session, err := m.Resolve(r)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if session == nil || session.UserID != 42 || session.ID != id {
		t.Errorf("unexpected session: %+v", session)
	}
}

func TestResolveRejectsGarbageCookie(t *testing.T) {
	m := NewSessionManager(testConfig(), newFakeSessionRepo())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "taskdeck_session", Value: "not-a-valid-token"})

	session, err := m.Resolve(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session != nil {
		t.Errorf("garbage cookie resolved to %+v", session)
	}
}

func TestResolveRejectsExpiredSession(t *testing.T) {
	repo := newFakeSessionRepo()
	m := NewSessionManager(testConfig(), repo)

	cookie, id := issueSession(t, m, 42)

	expired := repo.sessions[id]
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	repo.sessions[id] = expired

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)

	session, err := m.Resolve(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session != nil {
		t.Error("expired session must not resolve")
	}
}

func TestDestroyInvalidatesServerSide(t *testing.T) {
	repo := newFakeSessionRepo()
	m := NewSessionManager(testConfig(), repo)

	cookie, id := issueSession(t, m, 42)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	r.AddCookie(cookie)

	if err := m.Destroy(w, r); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}
	if _, ok := repo.sessions[id]; ok {
		t.Error("session row survived logout")
	}

	// Replaying the old cookie must not authenticate.
	replay := httptest.NewRequest(http.MethodGet, "/", nil)
	replay.AddCookie(cookie)
	session, err := m.Resolve(replay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session != nil {
		t.Error("stale cookie resolved after logout")
	}
}

func TestDestroyWithoutSessionIsNoError(t *testing.T) {
	m := NewSessionManager(testConfig(), newFakeSessionRepo())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)

	if err := m.Destroy(w, r); err != nil {
		t.Errorf("logout without a session errored: %v", err)
	}
}
