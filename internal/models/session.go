package models

import "time"

// AnswerRecord is the latest answer a learner gave for one question.
type AnswerRecord struct {
	QuestionID       string    `json:"question_id"`
	Answer           Answer    `json:"answer"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	HintsUsedCount   int       `json:"hints_used_count"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

// AssessmentSession is the state of one attempt. The engine owns the live
// value; everything else works with snapshots.
type AssessmentSession struct {
	ID             string         `json:"id"`
	ModuleID       string         `json:"module_id"`
	UserLevel      UserLevel      `json:"user_level"`
	AssessmentType AssessmentType `json:"assessment_type"`

	Questions    []Question              `json:"questions"`
	CurrentIndex int                     `json:"current_index"`
	Answers      map[string]AnswerRecord `json:"answers"`

	StartedAt         time.Time `json:"started_at"`
	QuestionStartedAt time.Time `json:"question_started_at"`

	HintsRevealed map[string]bool `json:"hints_revealed"`
	HintVisible   bool            `json:"hint_visible"`
	Completed     bool            `json:"completed"`
}

// CurrentQuestion returns the question at the current position, or nil when
// the position is out of range.
func (s *AssessmentSession) CurrentQuestion() *Question {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentIndex]
}

func (s *AssessmentSession) IsLastQuestion() bool {
	return s.CurrentIndex >= len(s.Questions)-1
}

// ProgressPercent reports 100 * CurrentIndex / len(Questions).
func (s *AssessmentSession) ProgressPercent() float64 {
	if len(s.Questions) == 0 {
		return 0
	}
	return 100 * float64(s.CurrentIndex) / float64(len(s.Questions))
}

// Clone deep-copies the session.
func (s *AssessmentSession) Clone() AssessmentSession {
	out := *s
	out.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		out.Questions[i] = q.Clone()
	}
	out.Answers = make(map[string]AnswerRecord, len(s.Answers))
	for id, rec := range s.Answers {
		rec.Answer = rec.Answer.Clone()
		out.Answers[id] = rec
	}
	out.HintsRevealed = make(map[string]bool, len(s.HintsRevealed))
	for id, v := range s.HintsRevealed {
		out.HintsRevealed[id] = v
	}
	return out
}
