package scoring

import (
	"math"
	"time"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
)

const (
	// HintPenalty multiplies the award of a correct answer given after a hint.
	HintPenalty = 0.8
	// SpeedBonus multiplies the award of a correct answer given in under
	// SpeedThreshold of the question's time limit.
	SpeedBonus     = 1.1
	SpeedThreshold = 0.5

	MaxScore = 100
)

// Evaluation is the arithmetic part of a result.
type Evaluation struct {
	TotalPoints       float64
	AwardedPoints     float64
	Score             int
	Ratio             float64
	QuestionsAnswered int
	HintsUsed         int
	Correct           map[string]bool
	Degenerate        bool
}

// AwardedPoints returns the points earned for one question. A nil record
// earns nothing.
func AwardedPoints(question *models.Question, record *models.AnswerRecord) float64 {
	if record == nil || !IsCorrect(question, record.Answer) {
		return 0
	}

	awarded := question.Points
	if record.HintsUsedCount > 0 {
		awarded *= HintPenalty
	}
	if question.HasTimeLimit() && float64(record.TimeSpentSeconds) < float64(*question.TimeLimitSeconds)*SpeedThreshold {
		awarded *= SpeedBonus
	}
	return awarded
}

// Score sums awards over every question of the session.
func Score(session *models.AssessmentSession) Evaluation {
	eval := Evaluation{Correct: make(map[string]bool, len(session.Questions))}

	for i := range session.Questions {
		question := &session.Questions[i]
		eval.TotalPoints += question.Points

		record, answered := session.Answers[question.ID]
		if !answered {
			continue
		}
		eval.QuestionsAnswered++
		eval.HintsUsed += record.HintsUsedCount

		if IsCorrect(question, record.Answer) {
			eval.Correct[question.ID] = true
		}
		eval.AwardedPoints += AwardedPoints(question, &record)
	}

	if eval.TotalPoints <= 0 {
		eval.Degenerate = true
		return eval
	}

	eval.Ratio = eval.AwardedPoints / eval.TotalPoints
	eval.Score = clampScore(math.Round(eval.Ratio * 100))
	return eval
}

func clampScore(score float64) int {
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return int(score)
}

// Evaluate builds the full result for a session finished at completedAt.
// The caller assigns the result ID.
func Evaluate(session *models.AssessmentSession, completedAt time.Time) *models.AssessmentResult {
	eval := Score(session)
	mastery := ConceptMasteries(session.Questions, eval.Correct)
	if len(mastery) == 0 {
		eval.Degenerate = true
	}

	elapsed := int(completedAt.Sub(session.StartedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	return &models.AssessmentResult{
		SessionID:         session.ID,
		ModuleID:          session.ModuleID,
		UserLevel:         session.UserLevel,
		AssessmentType:    session.AssessmentType,
		Score:             eval.Score,
		TotalPoints:       eval.TotalPoints,
		AwardedPoints:     eval.AwardedPoints,
		TimeSpentSeconds:  elapsed,
		QuestionsAnswered: eval.QuestionsAnswered,
		QuestionCount:     len(session.Questions),
		HintsUsed:         eval.HintsUsed,
		ConceptMastery:    mastery,
		Recommendations:   Recommendations(eval.Ratio, mastery),
		Feedback:          Feedback(mastery, eval.HintsUsed, len(session.Questions)),
		Degenerate:        eval.Degenerate,
		CompletedAt:       completedAt,
	}
}
