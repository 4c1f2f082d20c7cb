package identity

import (
	"context"
	"errors"
	"time"
)

// Identity es el vínculo entre un uid inmutable y un email verificado.
type Identity struct {
	UID   string
	Email string
}

// Provider emite y verifica tokens de identidad. Abstrae al proveedor
// externo: el resto del sistema solo conoce uid, email y tokens opacos.
type Provider interface {
	Register(ctx context.Context, email, password string) (Identity, error)
	IssueToken(ctx context.Context, email, password string) (string, error)
	VerifyToken(ctx context.Context, token string) (Identity, error)
	GetByEmail(ctx context.Context, email string) (Identity, error)
}

var (
	ErrEmailTaken   = errors.New("email already in use")
	ErrInvalidLogin = errors.New("invalid email or password")
	ErrNotFound     = errors.New("identity not found")
	ErrTokenInvalid = errors.New("identity token invalid")
)

// TokenTTL es la vigencia de un token de identidad emitido al iniciar sesión.
const TokenTTL = 15 * time.Minute
