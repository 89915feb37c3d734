package models

import (
	"slices"
	"time"
)

type ConceptMastery struct {
	Concept        string  `json:"concept" validate:"required"`
	MasteryPercent float64 `json:"mastery_percent" validate:"min=0,max=100"`
}

type DetailedFeedback struct {
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	NextSteps    []string `json:"next_steps"`
}

// AssessmentResult is produced once per session at completion.
type AssessmentResult struct {
	ID             string         `json:"id" validate:"required"`
	SessionID      string         `json:"session_id" validate:"required"`
	ModuleID       string         `json:"module_id" validate:"required"`
	UserLevel      UserLevel      `json:"user_level" validate:"required,user_level"`
	AssessmentType AssessmentType `json:"assessment_type" validate:"required,assessment_type"`

	Score         int     `json:"score" validate:"min=0,max=100"`
	TotalPoints   float64 `json:"total_points" validate:"min=0"`
	AwardedPoints float64 `json:"awarded_points" validate:"min=0"`

	TimeSpentSeconds  int `json:"time_spent_seconds" validate:"min=0"`
	QuestionsAnswered int `json:"questions_answered" validate:"min=0"`
	QuestionCount     int `json:"question_count" validate:"min=0"`
	HintsUsed         int `json:"hints_used" validate:"min=0"`

	ConceptMastery  []ConceptMastery `json:"concept_mastery" validate:"dive"`
	Recommendations []string         `json:"recommendations"`
	Feedback        DetailedFeedback `json:"feedback"`

	// Degenerate is set when the session had no points to score against.
	Degenerate  bool      `json:"degenerate"`
	CompletedAt time.Time `json:"completed_at"`
}

// Passed uses the mastery tier boundary.
func (r *AssessmentResult) Passed() bool {
	return r.Score >= 80
}

// Clone deep-copies the result so sinks never share slices with the session.
func (r *AssessmentResult) Clone() *AssessmentResult {
	if r == nil {
		return nil
	}
	out := *r
	out.ConceptMastery = slices.Clone(r.ConceptMastery)
	out.Recommendations = slices.Clone(r.Recommendations)
	out.Feedback = DetailedFeedback{
		Strengths:    slices.Clone(r.Feedback.Strengths),
		Improvements: slices.Clone(r.Feedback.Improvements),
		NextSteps:    slices.Clone(r.Feedback.NextSteps),
	}
	return &out
}
