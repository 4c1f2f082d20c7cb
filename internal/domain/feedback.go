package domain

import "time"

// Feedback es la evaluación generada por el modelo para una entrevista.
// Una vez creado es inmutable y existe a lo sumo uno por entrevista.
type Feedback struct {
	ID                  string          `json:"id"`
	InterviewID         string          `json:"interview_id"`
	TotalScore          int             `json:"total_score"`
	CategoryScores      []CategoryScore `json:"category_scores"`
	Strengths           []string        `json:"strengths,omitempty"`
	AreasForImprovement string          `json:"areas_for_improvement"`
	FinalAssessment     string          `json:"final_assessment"`
	CreatedAt           time.Time       `json:"created_at"`
}

// CategoryScore es una puntuación parcial con comentario libre.
type CategoryScore struct {
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// Category es el veredicto cualitativo derivado del puntaje total.
type Category string

const (
	CategoryHighlyRecommended      Category = "Highly Recommended"       // 90-100
	CategoryRecommended            Category = "Recommended"              // 70-89
	CategoryNeutral                Category = "Neutral"                  // 50-69
	CategoryNotRecommended         Category = "Not Recommended"          // 30-49
	CategoryStronglyNotRecommended Category = "Strongly Not Recommended" // 0-29
)

// AnalyzeCategory mapea un puntaje total a su categoría. Es total sobre
// todos los enteros: valores fuera de 0-100 caen en el bucket extremo.
func AnalyzeCategory(score int) Category {
	switch {
	case score >= 90:
		return CategoryHighlyRecommended
	case score >= 70:
		return CategoryRecommended
	case score >= 50:
		return CategoryNeutral
	case score >= 30:
		return CategoryNotRecommended
	default:
		return CategoryStronglyNotRecommended
	}
}
