package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionRecord is the persisted form of a Question.
type QuestionRecord struct {
	ID               string          `gorm:"primaryKey;size:100"`
	ModuleID         string          `gorm:"not null;size:100;index"`
	Position         int             `gorm:"not null;default:0"`
	Type             QuestionType    `gorm:"not null;size:32;index"`
	Difficulty       DifficultyLevel `gorm:"not null;size:16;index"`
	Concept          string          `gorm:"not null;size:200"`
	Prompt           string          `gorm:"not null;type:text"`
	Options          datatypes.JSON  `gorm:"type:jsonb"`
	CorrectAnswer    datatypes.JSON  `gorm:"type:jsonb"`
	Explanation      string          `gorm:"type:text"`
	TimeLimitSeconds *int
	Points           float64        `gorm:"not null"`
	Hints            datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (QuestionRecord) TableName() string {
	return "questions"
}

func NewQuestionRecord(q *Question, position int) (*QuestionRecord, error) {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal options: %w", err)
	}
	answer, err := json.Marshal(q.CorrectAnswer)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal correct answer: %w", err)
	}
	hints, err := json.Marshal(q.Hints)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hints: %w", err)
	}

	return &QuestionRecord{
		ID:               q.ID,
		ModuleID:         q.ModuleID,
		Position:         position,
		Type:             q.Type,
		Difficulty:       q.Difficulty,
		Concept:          q.Concept,
		Prompt:           q.Prompt,
		Options:          datatypes.JSON(options),
		CorrectAnswer:    datatypes.JSON(answer),
		Explanation:      q.Explanation,
		TimeLimitSeconds: q.TimeLimitSeconds,
		Points:           q.Points,
		Hints:            datatypes.JSON(hints),
	}, nil
}

func (r *QuestionRecord) ToQuestion() (Question, error) {
	q := Question{
		ID:               r.ID,
		Type:             r.Type,
		Difficulty:       r.Difficulty,
		ModuleID:         r.ModuleID,
		Concept:          r.Concept,
		Prompt:           r.Prompt,
		Explanation:      r.Explanation,
		TimeLimitSeconds: r.TimeLimitSeconds,
		Points:           r.Points,
	}
	if len(r.Options) > 0 {
		if err := json.Unmarshal(r.Options, &q.Options); err != nil {
			return Question{}, fmt.Errorf("failed to unmarshal options of question %s: %w", r.ID, err)
		}
	}
	if len(r.CorrectAnswer) > 0 {
		if err := json.Unmarshal(r.CorrectAnswer, &q.CorrectAnswer); err != nil {
			return Question{}, fmt.Errorf("failed to unmarshal correct answer of question %s: %w", r.ID, err)
		}
	}
	if len(r.Hints) > 0 {
		if err := json.Unmarshal(r.Hints, &q.Hints); err != nil {
			return Question{}, fmt.Errorf("failed to unmarshal hints of question %s: %w", r.ID, err)
		}
	}
	return q, nil
}

// ResultRecord is the persisted form of an AssessmentResult. Nested lists are
// kept as jsonb.
type ResultRecord struct {
	ID                string         `gorm:"primaryKey;size:36"`
	SessionID         string         `gorm:"not null;size:36;uniqueIndex"`
	ModuleID          string         `gorm:"not null;size:100;index"`
	UserLevel         UserLevel      `gorm:"not null;size:16"`
	AssessmentType    AssessmentType `gorm:"not null;size:32"`
	Score             int            `gorm:"not null;index"`
	TotalPoints       float64
	AwardedPoints     float64
	TimeSpentSeconds  int
	QuestionsAnswered int
	QuestionCount     int
	HintsUsed         int
	ConceptMastery    datatypes.JSON `gorm:"type:jsonb"`
	Recommendations   datatypes.JSON `gorm:"type:jsonb"`
	Feedback          datatypes.JSON `gorm:"type:jsonb"`
	Degenerate        bool
	CompletedAt       time.Time `gorm:"index"`
	CreatedAt         time.Time
}

func (ResultRecord) TableName() string {
	return "assessment_results"
}

func NewResultRecord(r *AssessmentResult) (*ResultRecord, error) {
	mastery, err := json.Marshal(r.ConceptMastery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal concept mastery: %w", err)
	}
	recs, err := json.Marshal(r.Recommendations)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recommendations: %w", err)
	}
	feedback, err := json.Marshal(r.Feedback)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feedback: %w", err)
	}

	return &ResultRecord{
		ID:                r.ID,
		SessionID:         r.SessionID,
		ModuleID:          r.ModuleID,
		UserLevel:         r.UserLevel,
		AssessmentType:    r.AssessmentType,
		Score:             r.Score,
		TotalPoints:       r.TotalPoints,
		AwardedPoints:     r.AwardedPoints,
		TimeSpentSeconds:  r.TimeSpentSeconds,
		QuestionsAnswered: r.QuestionsAnswered,
		QuestionCount:     r.QuestionCount,
		HintsUsed:         r.HintsUsed,
		ConceptMastery:    datatypes.JSON(mastery),
		Recommendations:   datatypes.JSON(recs),
		Feedback:          datatypes.JSON(feedback),
		Degenerate:        r.Degenerate,
		CompletedAt:       r.CompletedAt,
	}, nil
}

func (r *ResultRecord) ToResult() (*AssessmentResult, error) {
	res := &AssessmentResult{
		ID:                r.ID,
		SessionID:         r.SessionID,
		ModuleID:          r.ModuleID,
		UserLevel:         r.UserLevel,
		AssessmentType:    r.AssessmentType,
		Score:             r.Score,
		TotalPoints:       r.TotalPoints,
		AwardedPoints:     r.AwardedPoints,
		TimeSpentSeconds:  r.TimeSpentSeconds,
		QuestionsAnswered: r.QuestionsAnswered,
		QuestionCount:     r.QuestionCount,
		HintsUsed:         r.HintsUsed,
		Degenerate:        r.Degenerate,
		CompletedAt:       r.CompletedAt,
	}
	if len(r.ConceptMastery) > 0 {
		if err := json.Unmarshal(r.ConceptMastery, &res.ConceptMastery); err != nil {
			return nil, fmt.Errorf("failed to unmarshal concept mastery of result %s: %w", r.ID, err)
		}
	}
	if len(r.Recommendations) > 0 {
		if err := json.Unmarshal(r.Recommendations, &res.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recommendations of result %s: %w", r.ID, err)
		}
	}
	if len(r.Feedback) > 0 {
		if err := json.Unmarshal(r.Feedback, &res.Feedback); err != nil {
			return nil, fmt.Errorf("failed to unmarshal feedback of result %s: %w", r.ID, err)
		}
	}
	return res, nil
}
