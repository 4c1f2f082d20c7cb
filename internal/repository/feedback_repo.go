package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prepwise/internal/domain"
)

// FeedbackRepository define el contrato de persistencia para feedback.
// Un feedback es inmutable: solo se inserta y se lee.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback domain.Feedback) error
	GetByInterviewID(ctx context.Context, interviewID string) (domain.Feedback, error)
}

// PgFeedbackRepository implementa FeedbackRepository usando pgxpool.
type PgFeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewPgFeedbackRepository(pool *pgxpool.Pool) *PgFeedbackRepository {
	return &PgFeedbackRepository{pool: pool}
}

func (r *PgFeedbackRepository) Create(ctx context.Context, feedback domain.Feedback) error {
	const query = `
		INSERT INTO feedback (id, interview_id, total_score, category_scores, strengths, areas_for_improvement, final_assessment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		feedback.ID,
		feedback.InterviewID,
		feedback.TotalScore,
		feedback.CategoryScores,
		feedback.Strengths,
		feedback.AreasForImprovement,
		feedback.FinalAssessment,
		feedback.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PgFeedbackRepository) GetByInterviewID(ctx context.Context, interviewID string) (domain.Feedback, error) {
	const query = `
		SELECT id, interview_id, total_score, category_scores, strengths, areas_for_improvement, final_assessment, created_at
		FROM feedback
		WHERE interview_id = $1
	`
	var f domain.Feedback
	err := r.pool.QueryRow(ctx, query, interviewID).Scan(
		&f.ID,
		&f.InterviewID,
		&f.TotalScore,
		&f.CategoryScores,
		&f.Strengths,
		&f.AreasForImprovement,
		&f.FinalAssessment,
		&f.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Feedback{}, err
	}
	return f, err
}
