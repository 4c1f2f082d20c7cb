package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Credential es una identidad registrada ante el proveedor local.
type Credential struct {
	UID          string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// IdentityRepository define el contrato de persistencia para credenciales.
type IdentityRepository interface {
	Create(ctx context.Context, cred Credential) error
	GetByEmail(ctx context.Context, email string) (Credential, error)
}

// PgIdentityRepository implementa IdentityRepository usando pgxpool.
type PgIdentityRepository struct {
	pool *pgxpool.Pool
}

func NewPgIdentityRepository(pool *pgxpool.Pool) *PgIdentityRepository {
	return &PgIdentityRepository{pool: pool}
}

func (r *PgIdentityRepository) Create(ctx context.Context, cred Credential) error {
	const query = `
		INSERT INTO identities (uid, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		cred.UID,
		cred.Email,
		cred.PasswordHash,
		cred.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PgIdentityRepository) GetByEmail(ctx context.Context, email string) (Credential, error) {
	const query = `
		SELECT uid, email, password_hash, created_at
		FROM identities
		WHERE email = $1
	`
	var c Credential
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&c.UID,
		&c.Email,
		&c.PasswordHash,
		&c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credential{}, err
	}
	return c, err
}
