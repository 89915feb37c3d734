package models

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
	Scenario       QuestionType = "scenario"
	Matching       QuestionType = "matching"
	Ranking        QuestionType = "ranking"
	Simulation     QuestionType = "simulation"
	CaseStudy      QuestionType = "case-study"
)

// QuestionTypes lists every supported question type in declaration order.
var QuestionTypes = []QuestionType{
	MultipleChoice,
	TrueFalse,
	Scenario,
	Matching,
	Ranking,
	Simulation,
	CaseStudy,
}

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

type UserLevel string

const (
	LevelBeginner     UserLevel = "beginner"
	LevelIntermediate UserLevel = "intermediate"
	LevelAdvanced     UserLevel = "advanced"
)

// Excludes reports whether questions of the given difficulty are withheld
// from learners at this level.
func (l UserLevel) Excludes(d DifficultyLevel) bool {
	switch l {
	case LevelBeginner:
		return d == DifficultyHard
	case LevelAdvanced:
		return d == DifficultyEasy
	default:
		return false
	}
}

type AssessmentType string

const (
	AssessmentPractice      AssessmentType = "practice"
	AssessmentQuiz          AssessmentType = "quiz"
	AssessmentCertification AssessmentType = "certification"
)

// Question is an immutable question definition supplied by a question source.
type Question struct {
	ID               string          `json:"id" yaml:"id" validate:"required,max=100"`
	Type             QuestionType    `json:"type" yaml:"type" validate:"required,question_type"`
	Difficulty       DifficultyLevel `json:"difficulty" yaml:"difficulty" validate:"required,difficulty_level"`
	ModuleID         string          `json:"module_id" yaml:"module_id" validate:"required,max=100"`
	Concept          string          `json:"concept" yaml:"concept" validate:"required,max=200"`
	Prompt           string          `json:"prompt" yaml:"prompt" validate:"required"`
	Options          []string        `json:"options,omitempty" yaml:"options,omitempty"`
	CorrectAnswer    Answer          `json:"correct_answer" yaml:"correct_answer"`
	Explanation      string          `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	TimeLimitSeconds *int            `json:"time_limit_seconds,omitempty" yaml:"time_limit_seconds,omitempty" validate:"omitempty,min=1"`
	Points           float64         `json:"points" yaml:"points" validate:"gt=0"`
	Hints            []string        `json:"hints,omitempty" yaml:"hints,omitempty"`
}

// HasTimeLimit reports whether the question carries a countdown.
func (q *Question) HasTimeLimit() bool {
	return q.TimeLimitSeconds != nil && *q.TimeLimitSeconds > 0
}

// FirstHint returns the only hint ever surfaced for the question.
func (q *Question) FirstHint() (string, bool) {
	if len(q.Hints) == 0 {
		return "", false
	}
	return q.Hints[0], true
}

// Clone returns a deep copy so callers never share slices with the source.
func (q Question) Clone() Question {
	out := q
	out.Options = append([]string(nil), q.Options...)
	out.Hints = append([]string(nil), q.Hints...)
	out.CorrectAnswer = q.CorrectAnswer.Clone()
	if q.TimeLimitSeconds != nil {
		limit := *q.TimeLimitSeconds
		out.TimeLimitSeconds = &limit
	}
	return out
}
