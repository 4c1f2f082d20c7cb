package service

import (
	"fmt"
	"strings"

	"prepwise/internal/domain"
)

// feedbackCategories son las cinco categorías fijas de la evaluación,
// cada una sobre 20 puntos para un total de 100.
var feedbackCategories = []string{
	"Communication Skills",
	"Technical Knowledge",
	"Problem Solving",
	"Cultural Fit",
	"Confidence and Clarity",
}

func buildFeedbackPrompt(interview domain.Interview, transcript []TranscriptMessage) string {
	var b strings.Builder

	b.WriteString("You are an experienced interviewer evaluating a mock job interview.\n")
	fmt.Fprintf(&b, "Role: %s.", interview.Role)
	if interview.Level != "" {
		fmt.Fprintf(&b, " Level: %s.", interview.Level)
	}
	if len(interview.Techstack) > 0 {
		fmt.Fprintf(&b, " Tech stack: %s.", strings.Join(interview.Techstack, ", "))
	}
	b.WriteString("\n\nTranscript:\n")
	for _, msg := range transcript {
		fmt.Fprintf(&b, "- %s: %s\n", msg.Role, msg.Content)
	}

	b.WriteString("\nScore the candidate from 0 to 20 in each of these categories:\n")
	for _, name := range feedbackCategories {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	b.WriteString(`
Respond with a single JSON object and nothing else:
{
  "total_score": <0-100>,
  "category_scores": [{"name": "...", "score": <0-20>, "comment": "..."}],
  "strengths": ["..."],
  "areas_for_improvement": "...",
  "final_assessment": "..."
}
`)
	return b.String()
}
