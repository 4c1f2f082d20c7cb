package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"prepwise/internal/ai"
	"prepwise/internal/domain"
	"prepwise/internal/repository"
)

var (
	ErrInterviewNotFound = errors.New("interview not found")
	ErrFeedbackNotFound  = errors.New("feedback not found")
	ErrFeedbackExists    = errors.New("feedback already exists")
	ErrForbidden         = errors.New("forbidden")
	ErrEmptyTranscript   = errors.New("empty transcript")
)

// TranscriptMessage es un turno de la entrevista grabada.
type TranscriptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FeedbackService genera y persiste la evaluación de una entrevista a
// partir de su transcripción, delegando el contenido al modelo externo.
type FeedbackService struct {
	logger     *zap.Logger
	client     ai.Client
	interviews repository.InterviewRepository
	feedback   repository.FeedbackRepository
}

func NewFeedbackService(logger *zap.Logger, client ai.Client, interviews repository.InterviewRepository, feedback repository.FeedbackRepository) *FeedbackService {
	return &FeedbackService{
		logger:     logger,
		client:     client,
		interviews: interviews,
		feedback:   feedback,
	}
}

// aiFeedback es la salida estructurada esperada del modelo evaluador.
type aiFeedback struct {
	TotalScore     int `json:"total_score"`
	CategoryScores []struct {
		Name    string `json:"name"`
		Score   int    `json:"score"`
		Comment string `json:"comment"`
	} `json:"category_scores"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement string   `json:"areas_for_improvement"`
	FinalAssessment     string   `json:"final_assessment"`
}

// Generate evalúa la transcripción, persiste el feedback resultante y
// marca la entrevista como finalizada. Solo el dueño puede generarlo y
// existe a lo sumo un feedback por entrevista.
func (s *FeedbackService) Generate(ctx context.Context, interviewID, userID string, transcript []TranscriptMessage) (domain.Feedback, error) {
	if len(transcript) == 0 {
		return domain.Feedback{}, ErrEmptyTranscript
	}

	interview, err := s.interviews.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Feedback{}, ErrInterviewNotFound
		}
		return domain.Feedback{}, err
	}
	if interview.UserID != userID {
		return domain.Feedback{}, ErrForbidden
	}

	raw, err := s.client.Generate(ctx, buildFeedbackPrompt(interview, transcript))
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("generate feedback: %w", err)
	}

	extracted := extractFirstJSONObject(raw)
	if extracted == "" {
		return domain.Feedback{}, fmt.Errorf("no json object in model output")
	}
	var out aiFeedback
	if err := json.Unmarshal([]byte(extracted), &out); err != nil {
		return domain.Feedback{}, fmt.Errorf("decode model output: %w", err)
	}

	feedback := domain.Feedback{
		ID:                  uuid.NewString(),
		InterviewID:         interview.ID,
		TotalScore:          clampScore(out.TotalScore, 0, 100),
		Strengths:           out.Strengths,
		AreasForImprovement: out.AreasForImprovement,
		FinalAssessment:     out.FinalAssessment,
		CreatedAt:           time.Now().UTC(),
	}
	for _, cs := range out.CategoryScores {
		feedback.CategoryScores = append(feedback.CategoryScores, domain.CategoryScore{
			Name:    cs.Name,
			Score:   clampScore(cs.Score, 0, 20),
			Comment: cs.Comment,
		})
	}

	if err := s.feedback.Create(ctx, feedback); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Feedback{}, ErrFeedbackExists
		}
		return domain.Feedback{}, err
	}

	if err := s.interviews.MarkFinalized(ctx, interview.ID); err != nil {
		// El feedback ya quedó persistido; solo registramos la falla.
		if s.logger != nil {
			s.logger.Error("mark interview finalized failed",
				zap.String("interview_id", interview.ID),
				zap.Error(err),
			)
		}
	}

	return feedback, nil
}

// GetForUser busca el feedback de una entrevista verificando que el
// solicitante sea su dueño.
func (s *FeedbackService) GetForUser(ctx context.Context, interviewID, userID string) (domain.Feedback, error) {
	interview, err := s.interviews.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Feedback{}, ErrInterviewNotFound
		}
		return domain.Feedback{}, err
	}
	if interview.UserID != userID {
		return domain.Feedback{}, ErrForbidden
	}

	feedback, err := s.feedback.GetByInterviewID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Feedback{}, ErrFeedbackNotFound
		}
		return domain.Feedback{}, err
	}
	return feedback, nil
}

func clampScore(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
