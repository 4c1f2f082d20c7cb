package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"prepwise/internal/domain"
	"prepwise/internal/identity"
	"prepwise/internal/repository"
)

// SessionCookieName es el nombre del cookie HTTP que transporta la sesión.
const SessionCookieName = "session"

// SessionTTL es la vigencia fija de una sesión desde su emisión.
const SessionTTL = 7 * 24 * time.Hour

// ErrInvalidCredential indica que el token de identidad no pudo verificarse.
var ErrInvalidCredential = errors.New("invalid credential")

// SessionService emite y resuelve credenciales de sesión autofirmadas.
// No mantiene estado en el servidor: la sesión vive en el cookie firmado
// y expira sola; cerrar sesión equivale a borrar el cookie del cliente.
type SessionService struct {
	logger   *zap.Logger
	provider identity.Provider
	users    repository.UserRepository
	secret   []byte
	issuer   string
	now      func() time.Time
}

type sessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func NewSessionService(logger *zap.Logger, provider identity.Provider, users repository.UserRepository, secret string) *SessionService {
	return &SessionService{
		logger:   logger,
		provider: provider,
		users:    users,
		secret:   []byte(secret),
		issuer:   "prepwise",
		now:      time.Now,
	}
}

// Establish valida un token de identidad y acuña una credencial de sesión
// válida por exactamente SessionTTL desde la emisión.
func (s *SessionService) Establish(ctx context.Context, idToken string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrInvalidCredential
	}
	id, err := s.provider.VerifyToken(ctx, idToken)
	if err != nil {
		return "", ErrInvalidCredential
	}

	now := s.now().UTC()
	claims := sessionClaims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   id.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Resolve verifica la credencial y busca el usuario vinculado. Devuelve
// ausente (false) ante cookie faltante, inválido, expirado o usuario
// inexistente; nunca propaga un error más allá de este límite.
func (s *SessionService) Resolve(ctx context.Context, cookieValue string) (domain.User, bool) {
	if strings.TrimSpace(cookieValue) == "" {
		return domain.User{}, false
	}

	var claims sessionClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now().UTC() }),
	)
	_, err := parser.ParseWithClaims(cookieValue, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("session cookie rejected", zap.Error(err))
		}
		return domain.User{}, false
	}
	if claims.Issuer != s.issuer || strings.TrimSpace(claims.Subject) == "" {
		return domain.User{}, false
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("session user lookup failed",
				zap.String("uid", claims.Subject),
				zap.Error(err),
			)
		}
		return domain.User{}, false
	}
	return user, true
}

// IsAuthenticated indica si la credencial resuelve a un usuario presente.
func (s *SessionService) IsAuthenticated(ctx context.Context, cookieValue string) bool {
	_, ok := s.Resolve(ctx, cookieValue)
	return ok
}
