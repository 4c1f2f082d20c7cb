package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"prepwise/internal/repository"
)

// LocalProvider implementa Provider con credenciales propias en Postgres
// y tokens de identidad HS256 de corta vida.
type LocalProvider struct {
	creds  repository.IdentityRepository
	secret []byte
	issuer string
	now    func() time.Time
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func NewLocalProvider(creds repository.IdentityRepository, secret string) *LocalProvider {
	return &LocalProvider{
		creds:  creds,
		secret: []byte(secret),
		issuer: "prepwise-identity",
		now:    time.Now,
	}
}

func (p *LocalProvider) Register(ctx context.Context, email, password string) (Identity, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return Identity{}, ErrInvalidLogin
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, err
	}

	cred := repository.Credential{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashBytes),
		CreatedAt:    p.now().UTC(),
	}
	if err := p.creds.Create(ctx, cred); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Identity{}, ErrEmailTaken
		}
		return Identity{}, err
	}
	return Identity{UID: cred.UID, Email: cred.Email}, nil
}

func (p *LocalProvider) IssueToken(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return "", ErrInvalidLogin
	}

	cred, err := p.creds.GetByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidLogin
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidLogin
	}

	now := p.now().UTC()
	claims := tokenClaims{
		Email: cred.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   cred.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *LocalProvider) VerifyToken(_ context.Context, token string) (Identity, error) {
	if strings.TrimSpace(token) == "" {
		return Identity{}, ErrTokenInvalid
	}
	var claims tokenClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(token, &claims, func(_ *jwt.Token) (any, error) {
		return p.secret, nil
	})
	if err != nil {
		return Identity{}, ErrTokenInvalid
	}
	if claims.Issuer != p.issuer || strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, ErrTokenInvalid
	}
	return Identity{UID: claims.Subject, Email: claims.Email}, nil
}

func (p *LocalProvider) GetByEmail(ctx context.Context, email string) (Identity, error) {
	cred, err := p.creds.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return Identity{}, ErrNotFound
	}
	return Identity{UID: cred.UID, Email: cred.Email}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
