package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"prepwise/internal/domain"
	"prepwise/internal/identity"
	"prepwise/internal/repository"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrRateLimited  = errors.New("rate limited")
)

// AuthService coordina registro e inicio de sesión contra el proveedor de
// identidad y el directorio de usuarios.
type AuthService struct {
	logger   *zap.Logger
	provider identity.Provider
	users    repository.UserRepository
	sessions *SessionService
	limiter  LoginRateLimiter
}

func NewAuthService(logger *zap.Logger, provider identity.Provider, users repository.UserRepository, sessions *SessionService, limiter LoginRateLimiter) *AuthService {
	return &AuthService{
		logger:   logger,
		provider: provider,
		users:    users,
		sessions: sessions,
		limiter:  limiter,
	}
}

// CreateUser inserta el perfil para una identidad ya registrada.
// La unicidad del uid la garantiza la restricción del store, no un
// check-then-insert de aplicación.
func (s *AuthService) CreateUser(ctx context.Context, uid, name, email string) (domain.User, error) {
	user := domain.User{
		ID:        uid,
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrUserExists
		}
		return domain.User{}, err
	}
	return user, nil
}

// SignUp registra la identidad y crea el perfil asociado.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (domain.User, error) {
	id, err := s.provider.Register(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return domain.User{}, ErrUserExists
		}
		return domain.User{}, err
	}
	return s.CreateUser(ctx, id.UID, name, id.Email)
}

// SignIn autentica contra el proveedor y establece una sesión de 7 días.
// Devuelve el valor del cookie de sesión listo para enviar al cliente.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	if s.limiter != nil && !s.limiter.Allow(email) {
		return "", ErrRateLimited
	}

	if _, err := s.provider.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	idToken, err := s.provider.IssueToken(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidLogin) {
			return "", ErrInvalidCredential
		}
		return "", err
	}

	cookieValue, err := s.sessions.Establish(ctx, idToken)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("establish session failed", zap.Error(err))
		}
		return "", err
	}
	return cookieValue, nil
}
