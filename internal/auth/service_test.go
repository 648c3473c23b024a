package auth

import (
	"context"
	"errors"
	"testing"

	"gitea.jw6.us/james/taskdeck/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byEmail map[string]*store.User
	nextID  int64
	created []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*store.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, email, passwordHash string) (*store.User, error) {
	if _, ok := f.byEmail[email]; ok {
		return nil, store.ErrEmailTaken
	}
	user := &store.User{ID: f.nextID, Email: email, PasswordHash: passwordHash}
	f.nextID++
	f.byEmail[email] = user
	f.created = append(f.created, passwordHash)
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*store.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*store.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func newTestService(users store.UserRepository) *Service {
	return NewService(&store.Store{Users: users}, nil)
}

func TestRegisterStoresDerivedCredential(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(users)

	user, err := svc.Register(context.Background(), "a@example.com", "hunter22")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "a@example.com" {
		t.Errorf("unexpected email: %s", user.Email)
	}

	stored := users.created[0]
	if stored == "hunter22" {
		t.Fatal("plaintext password was persisted")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte("hunter22")); err != nil {
		t.Errorf("stored credential does not verify: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(users)

	if _, err := svc.Register(context.Background(), "a@example.com", "pw1"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), "a@example.com", "pw2")
	if !errors.Is(err, store.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
	if len(users.byEmail) != 1 {
		t.Errorf("expected exactly one account, got %d", len(users.byEmail))
	}
}

func TestAuthenticate(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(users)

	if _, err := svc.Register(context.Background(), "a@example.com", "correct horse"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), "a@example.com", "correct horse")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if user.Email != "a@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(users)

	if _, err := svc.Register(context.Background(), "a@example.com", "right"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, unknownErr := svc.Authenticate(context.Background(), "nobody@example.com", "whatever")
	_, mismatchErr := svc.Authenticate(context.Background(), "a@example.com", "wrong")

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(mismatchErr, ErrInvalidCredentials) {
		t.Errorf("password mismatch: expected ErrInvalidCredentials, got %v", mismatchErr)
	}
	if unknownErr.Error() != mismatchErr.Error() {
		t.Error("the two failure modes must not be distinguishable by the caller")
	}
}
