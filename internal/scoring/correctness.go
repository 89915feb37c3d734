package scoring

import (
	"strings"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
)

// IsCorrect reports whether the submitted answer matches the question's key.
// Free-form question types are never auto-scored.
func IsCorrect(question *models.Question, submitted models.Answer) bool {
	if submitted.Kind != models.ExpectedAnswerKind(question.Type) {
		return false
	}

	switch question.Type {
	case models.MultipleChoice:
		return submitted.Scalar == question.CorrectAnswer.Scalar
	case models.TrueFalse:
		return normalizeBool(submitted.Scalar) == normalizeBool(question.CorrectAnswer.Scalar)
	case models.Matching, models.Ranking:
		return submitted.Equal(question.CorrectAnswer)
	case models.Scenario, models.Simulation, models.CaseStudy:
		return false
	default:
		return false
	}
}

func normalizeBool(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
