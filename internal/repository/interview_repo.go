package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prepwise/internal/domain"
)

// DefaultLatestLimit es el tope por defecto de entrevistas descubribles.
const DefaultLatestLimit = 20

// InterviewRepository define el contrato de persistencia para entrevistas.
type InterviewRepository interface {
	Create(ctx context.Context, interview domain.Interview) error
	GetByID(ctx context.Context, id string) (domain.Interview, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Interview, error)
	ListLatest(ctx context.Context, excludeUserID string, limit int) ([]domain.Interview, error)
	MarkFinalized(ctx context.Context, id string) error
}

// PgInterviewRepository implementa InterviewRepository usando pgxpool.
type PgInterviewRepository struct {
	pool *pgxpool.Pool
}

func NewPgInterviewRepository(pool *pgxpool.Pool) *PgInterviewRepository {
	return &PgInterviewRepository{pool: pool}
}

func (r *PgInterviewRepository) Create(ctx context.Context, interview domain.Interview) error {
	const query = `
		INSERT INTO interviews (id, user_id, role, type, level, techstack, questions, finalized, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		interview.ID,
		interview.UserID,
		interview.Role,
		interview.Type,
		interview.Level,
		interview.Techstack,
		interview.Questions,
		interview.Finalized,
		interview.CreatedAt,
	)
	return err
}

func (r *PgInterviewRepository) GetByID(ctx context.Context, id string) (domain.Interview, error) {
	const query = `
		SELECT id, user_id, role, type, level, techstack, questions, finalized, created_at
		FROM interviews
		WHERE id = $1
	`
	var iv domain.Interview
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&iv.ID,
		&iv.UserID,
		&iv.Role,
		&iv.Type,
		&iv.Level,
		&iv.Techstack,
		&iv.Questions,
		&iv.Finalized,
		&iv.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Interview{}, err
	}
	return iv, err
}

// ListByUser retorna las entrevistas del usuario ordenadas por fecha de
// creación descendente; el id desempata para que el orden sea determinista.
func (r *PgInterviewRepository) ListByUser(ctx context.Context, userID string) ([]domain.Interview, error) {
	const query = `
		SELECT id, user_id, role, type, level, techstack, questions, finalized, created_at
		FROM interviews
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInterviews(rows)
}

// ListLatest retorna entrevistas finalizadas de otros usuarios, hasta limit.
func (r *PgInterviewRepository) ListLatest(ctx context.Context, excludeUserID string, limit int) ([]domain.Interview, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	const query = `
		SELECT id, user_id, role, type, level, techstack, questions, finalized, created_at
		FROM interviews
		WHERE finalized = TRUE AND user_id <> $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, excludeUserID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInterviews(rows)
}

func (r *PgInterviewRepository) MarkFinalized(ctx context.Context, id string) error {
	const query = `
		UPDATE interviews SET finalized = TRUE WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func scanInterviews(rows pgx.Rows) ([]domain.Interview, error) {
	interviews := make([]domain.Interview, 0)
	for rows.Next() {
		var iv domain.Interview
		if err := rows.Scan(
			&iv.ID,
			&iv.UserID,
			&iv.Role,
			&iv.Type,
			&iv.Level,
			&iv.Techstack,
			&iv.Questions,
			&iv.Finalized,
			&iv.CreatedAt,
		); err != nil {
			return nil, err
		}
		interviews = append(interviews, iv)
	}
	return interviews, rows.Err()
}
