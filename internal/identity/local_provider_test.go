package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"prepwise/internal/repository"
)

type mockCredRepo struct {
	byEmail map[string]repository.Credential
}

func newMockCredRepo() *mockCredRepo {
	return &mockCredRepo{byEmail: make(map[string]repository.Credential)}
}

func (m *mockCredRepo) Create(_ context.Context, cred repository.Credential) error {
	if _, ok := m.byEmail[cred.Email]; ok {
		return repository.ErrDuplicate
	}
	m.byEmail[cred.Email] = cred
	return nil
}

func (m *mockCredRepo) GetByEmail(_ context.Context, email string) (repository.Credential, error) {
	cred, ok := m.byEmail[email]
	if !ok {
		return repository.Credential{}, errors.New("no rows")
	}
	return cred, nil
}

func TestLocalProviderRegisterAndIssue(t *testing.T) {
	p := NewLocalProvider(newMockCredRepo(), "test-secret")

	id, err := p.Register(context.Background(), "A@X.com", "password1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if id.UID == "" {
		t.Fatalf("expected uid to be assigned")
	}
	if id.Email != "a@x.com" {
		t.Fatalf("expected normalized email, got %s", id.Email)
	}

	token, err := p.IssueToken(context.Background(), "a@x.com", "password1")
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}

	got, err := p.VerifyToken(context.Background(), token)
	if err != nil {
		t.Fatalf("verify token failed: %v", err)
	}
	if got.UID != id.UID || got.Email != "a@x.com" {
		t.Fatalf("unexpected identity %+v", got)
	}
}

func TestLocalProviderRegisterDuplicate(t *testing.T) {
	p := NewLocalProvider(newMockCredRepo(), "test-secret")

	if _, err := p.Register(context.Background(), "a@x.com", "password1"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := p.Register(context.Background(), "a@x.com", "other-password")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLocalProviderIssueWrongPassword(t *testing.T) {
	p := NewLocalProvider(newMockCredRepo(), "test-secret")

	if _, err := p.Register(context.Background(), "a@x.com", "password1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := p.IssueToken(context.Background(), "a@x.com", "wrong"); !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("expected ErrInvalidLogin, got %v", err)
	}
	if _, err := p.IssueToken(context.Background(), "nobody@x.com", "password1"); !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("expected ErrInvalidLogin for unknown email, got %v", err)
	}
}

func TestLocalProviderVerifyGarbageAndExpired(t *testing.T) {
	repo := newMockCredRepo()
	p := NewLocalProvider(repo, "test-secret")

	if _, err := p.VerifyToken(context.Background(), "not-a-jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage, got %v", err)
	}

	if _, err := p.Register(context.Background(), "a@x.com", "password1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	p.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := p.IssueToken(context.Background(), "a@x.com", "password1")
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	p.now = time.Now
	if _, err := p.VerifyToken(context.Background(), token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestLocalProviderVerifyWrongSecret(t *testing.T) {
	repo := newMockCredRepo()
	p := NewLocalProvider(repo, "secret-a")
	if _, err := p.Register(context.Background(), "a@x.com", "password1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, err := p.IssueToken(context.Background(), "a@x.com", "password1")
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}

	other := NewLocalProvider(repo, "secret-b")
	if _, err := other.VerifyToken(context.Background(), token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong secret, got %v", err)
	}
}
