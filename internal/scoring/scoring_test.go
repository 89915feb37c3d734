package scoring

import (
	"testing"
	"time"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func sessionWith(questions []models.Question, answers ...models.AnswerRecord) *models.AssessmentSession {
	s := &models.AssessmentSession{
		ID:             "s-1",
		ModuleID:       "security-basics",
		UserLevel:      models.LevelIntermediate,
		AssessmentType: models.AssessmentQuiz,
		Questions:      questions,
		Answers:        map[string]models.AnswerRecord{},
		StartedAt:      time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	for _, a := range answers {
		s.Answers[a.QuestionID] = a
	}
	return s
}

func mcQuestion(id, concept string, points float64) models.Question {
	return models.Question{
		ID:            id,
		Type:          models.MultipleChoice,
		Difficulty:    models.DifficultyMedium,
		ModuleID:      "security-basics",
		Concept:       concept,
		Prompt:        "Pick one",
		Options:       []string{"a", "b", "c"},
		CorrectAnswer: models.ScalarAnswer("b"),
		Points:        points,
	}
}

func TestScore_Scenarios(t *testing.T) {
	t.Run("correct without hint or limit", func(t *testing.T) {
		s := sessionWith([]models.Question{mcQuestion("q1", "phishing", 10)},
			models.AnswerRecord{QuestionID: "q1", Answer: models.ScalarAnswer("b")})

		eval := Score(s)
		assert.Equal(t, 100, eval.Score)
		assert.Equal(t, 10.0, eval.TotalPoints)
	})

	t.Run("correct with hint", func(t *testing.T) {
		s := sessionWith([]models.Question{mcQuestion("q1", "phishing", 10)},
			models.AnswerRecord{QuestionID: "q1", Answer: models.ScalarAnswer("b"), HintsUsedCount: 1})

		eval := Score(s)
		assert.InDelta(t, 8.0, eval.AwardedPoints, 1e-9)
		assert.Equal(t, 80, eval.Score)
	})

	t.Run("fast answer earns speed bonus", func(t *testing.T) {
		q := mcQuestion("q1", "phishing", 20)
		q.TimeLimitSeconds = intPtr(120)
		s := sessionWith([]models.Question{q},
			models.AnswerRecord{QuestionID: "q1", Answer: models.ScalarAnswer("b"), TimeSpentSeconds: 50})

		eval := Score(s)
		assert.InDelta(t, 22.0, eval.AwardedPoints, 1e-9)
		assert.Equal(t, 20.0, eval.TotalPoints)
		assert.Equal(t, 100, eval.Score)
	})

	t.Run("answer at half the limit earns no bonus", func(t *testing.T) {
		q := mcQuestion("q1", "phishing", 20)
		q.TimeLimitSeconds = intPtr(120)
		s := sessionWith([]models.Question{q},
			models.AnswerRecord{QuestionID: "q1", Answer: models.ScalarAnswer("b"), TimeSpentSeconds: 60})

		assert.InDelta(t, 20.0, Score(s).AwardedPoints, 1e-9)
	})

	t.Run("hint penalty applies before speed bonus", func(t *testing.T) {
		q := mcQuestion("q1", "phishing", 10)
		q.TimeLimitSeconds = intPtr(60)
		rec := models.AnswerRecord{QuestionID: "q1", Answer: models.ScalarAnswer("b"), TimeSpentSeconds: 5, HintsUsedCount: 1}

		assert.InDelta(t, 8.8, AwardedPoints(&q, &rec), 1e-9)
	})

	t.Run("ranking order matters", func(t *testing.T) {
		q := models.Question{
			ID:            "r1",
			Type:          models.Ranking,
			Concept:       "incident-response",
			Options:       []string{"report", "contain", "identify"},
			CorrectAnswer: models.SequenceAnswer("identify", "contain", "report"),
			Points:        10,
		}

		exact := sessionWith([]models.Question{q},
			models.AnswerRecord{QuestionID: "r1", Answer: models.SequenceAnswer("identify", "contain", "report")})
		assert.Equal(t, 100, Score(exact).Score)

		swapped := sessionWith([]models.Question{q},
			models.AnswerRecord{QuestionID: "r1", Answer: models.SequenceAnswer("contain", "identify", "report")})
		assert.Equal(t, 0, Score(swapped).Score)
	})

	t.Run("scenario questions are never correct", func(t *testing.T) {
		q := models.Question{
			ID:            "sc1",
			Type:          models.Scenario,
			Concept:       "judgement",
			CorrectAnswer: models.ScalarAnswer("escalate"),
			Points:        10,
		}
		for _, answer := range []string{"escalate", "ignore", ""} {
			s := sessionWith([]models.Question{q},
				models.AnswerRecord{QuestionID: "sc1", Answer: models.ScalarAnswer(answer)})
			assert.Equal(t, 0, Score(s).Score, answer)
		}
	})
}

func TestScore_UnansweredCountsTowardTotal(t *testing.T) {
	s := sessionWith([]models.Question{
		mcQuestion("q1", "phishing", 10),
		mcQuestion("q2", "phishing", 30),
	}, models.AnswerRecord{QuestionID: "q1", Answer: models.ScalarAnswer("b")})

	eval := Score(s)
	assert.Equal(t, 40.0, eval.TotalPoints)
	assert.Equal(t, 25, eval.Score)
	assert.Equal(t, 1, eval.QuestionsAnswered)
}

func TestScore_RoundsHalfAwayFromZero(t *testing.T) {
	// 1 of 8 correct = 12.5%
	questions := make([]models.Question, 8)
	for i := range questions {
		questions[i] = mcQuestion(string(rune('a'+i)), "c", 1)
	}
	s := sessionWith(questions, models.AnswerRecord{QuestionID: "a", Answer: models.ScalarAnswer("b")})

	assert.Equal(t, 13, Score(s).Score)
}

func TestScore_Degenerate(t *testing.T) {
	eval := Score(sessionWith(nil))
	assert.True(t, eval.Degenerate)
	assert.Equal(t, 0, eval.Score)
}

func TestAwardedPoints_HintNeverIncreasesAward(t *testing.T) {
	limits := []*int{nil, intPtr(10), intPtr(100)}
	for _, limit := range limits {
		for _, spent := range []int{0, 4, 5, 20, 200} {
			q := mcQuestion("q", "c", 10)
			q.TimeLimitSeconds = limit
			plain := models.AnswerRecord{QuestionID: "q", Answer: models.ScalarAnswer("b"), TimeSpentSeconds: spent}
			hinted := plain
			hinted.HintsUsedCount = 1

			withHint := AwardedPoints(&q, &hinted)
			without := AwardedPoints(&q, &plain)
			assert.LessOrEqual(t, withHint, without)
			assert.LessOrEqual(t, without, q.Points*SpeedBonus+1e-9)
		}
	}
}

func TestIsCorrect(t *testing.T) {
	tf := models.Question{Type: models.TrueFalse, CorrectAnswer: models.ScalarAnswer("true")}
	assert.True(t, IsCorrect(&tf, models.ScalarAnswer("True")))
	assert.False(t, IsCorrect(&tf, models.ScalarAnswer("false")))

	matching := models.Question{
		Type:          models.Matching,
		Options:       []string{"GDPR", "HIPAA"},
		CorrectAnswer: models.MappingAnswer(map[string]string{"GDPR": "EU", "HIPAA": "US"}),
	}
	assert.True(t, IsCorrect(&matching, models.MappingAnswer(map[string]string{"HIPAA": "US", "GDPR": "EU"})))
	assert.False(t, IsCorrect(&matching, models.MappingAnswer(map[string]string{"HIPAA": "EU", "GDPR": "US"})))

	mc := mcQuestion("q", "c", 1)
	assert.False(t, IsCorrect(&mc, models.SequenceAnswer("b")), "kind mismatch is incorrect")
	assert.False(t, IsCorrect(&mc, models.ScalarAnswer("B")), "multiple choice is case sensitive")

	for _, qt := range []models.QuestionType{models.Simulation, models.CaseStudy} {
		q := models.Question{Type: qt, CorrectAnswer: models.ScalarAnswer("x")}
		assert.False(t, IsCorrect(&q, models.ScalarAnswer("x")))
	}
}

func TestConceptMasteries_FirstEncounterOrder(t *testing.T) {
	questions := []models.Question{
		mcQuestion("q1", "passwords", 1),
		mcQuestion("q2", "phishing", 1),
		mcQuestion("q3", "passwords", 1),
		mcQuestion("q4", "tailgating", 1),
	}
	mastery := ConceptMasteries(questions, map[string]bool{"q1": true, "q2": true})

	require.Len(t, mastery, 3)
	assert.Equal(t, "passwords", mastery[0].Concept)
	assert.Equal(t, 50.0, mastery[0].MasteryPercent)
	assert.Equal(t, "phishing", mastery[1].Concept)
	assert.Equal(t, 100.0, mastery[1].MasteryPercent)
	assert.Equal(t, "tailgating", mastery[2].Concept)
	assert.Equal(t, 0.0, mastery[2].MasteryPercent)
}

func TestRecommendations_Tiers(t *testing.T) {
	mastery := []models.ConceptMastery{
		{Concept: "passwords", MasteryPercent: 50},
		{Concept: "phishing", MasteryPercent: 100},
		{Concept: "tailgating", MasteryPercent: 69.9},
	}

	low := Recommendations(0.59, mastery)
	mid := Recommendations(0.60, mastery)
	high := Recommendations(0.80, mastery)

	require.Len(t, low, 4)
	assert.NotEqual(t, low[:2], mid[:2])
	assert.NotEqual(t, mid[:2], high[:2])
	assert.Contains(t, low[2], "passwords")
	assert.Contains(t, low[3], "tailgating")

	assert.Len(t, Recommendations(0.9, nil), 2)
}

func TestFeedback(t *testing.T) {
	mastery := []models.ConceptMastery{
		{Concept: "passwords", MasteryPercent: 80},
		{Concept: "phishing", MasteryPercent: 60},
	}

	t.Run("no hints", func(t *testing.T) {
		fb := Feedback(mastery, 0, 4)
		assert.Len(t, fb.Strengths, 2)
		assert.Contains(t, fb.Strengths[0], "passwords")
		assert.Len(t, fb.Improvements, 1)
		assert.Contains(t, fb.Improvements[0], "phishing")
		// mean 70 routes to the review tier
		assert.Equal(t, nextSteps(70), fb.NextSteps)
	})

	t.Run("hints on exactly half the questions", func(t *testing.T) {
		fb := Feedback(mastery, 2, 4)
		assert.Len(t, fb.Strengths, 1)
		assert.Len(t, fb.Improvements, 1)
	})

	t.Run("hints on more than half the questions", func(t *testing.T) {
		fb := Feedback(mastery, 3, 4)
		assert.Len(t, fb.Improvements, 2)
	})

	t.Run("no concepts routes to lowest tier", func(t *testing.T) {
		fb := Feedback(nil, 0, 0)
		assert.Equal(t, nextSteps(0), fb.NextSteps)
		assert.Len(t, fb.NextSteps, 2)
	})
}

func TestEvaluate(t *testing.T) {
	s := sessionWith([]models.Question{
		mcQuestion("q1", "passwords", 10),
		mcQuestion("q2", "phishing", 10),
	},
		models.AnswerRecord{QuestionID: "q1", Answer: models.ScalarAnswer("b"), HintsUsedCount: 1},
		models.AnswerRecord{QuestionID: "q2", Answer: models.ScalarAnswer("a")},
	)
	completedAt := s.StartedAt.Add(95*time.Second + 800*time.Millisecond)

	result := Evaluate(s, completedAt)

	assert.Equal(t, "s-1", result.SessionID)
	assert.Equal(t, 40, result.Score)
	assert.Equal(t, 95, result.TimeSpentSeconds)
	assert.Equal(t, 2, result.QuestionsAnswered)
	assert.Equal(t, 2, result.QuestionCount)
	assert.Equal(t, 1, result.HintsUsed)
	assert.False(t, result.Degenerate)
	require.Len(t, result.ConceptMastery, 2)
	assert.Equal(t, 100.0, result.ConceptMastery[0].MasteryPercent)
	assert.Equal(t, 0.0, result.ConceptMastery[1].MasteryPercent)
	// review tier plus one weak concept
	assert.Len(t, result.Recommendations, 3)
	assert.Equal(t, completedAt, result.CompletedAt)
}

func TestEvaluate_EmptySessionIsWellFormed(t *testing.T) {
	s := sessionWith(nil)
	result := Evaluate(s, s.StartedAt)

	assert.True(t, result.Degenerate)
	assert.Equal(t, 0, result.Score)
	assert.Empty(t, result.ConceptMastery)
	assert.Len(t, result.Recommendations, 2)
	assert.Len(t, result.Feedback.NextSteps, 2)
}
