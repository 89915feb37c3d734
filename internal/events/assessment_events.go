package events

import (
	"time"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/google/uuid"
)

// EventType represents different types of assessment events
type EventType string

const (
	EventAssessmentStarted   EventType = "assessment.started"
	EventAssessmentProgress  EventType = "assessment.progress"
	EventQuestionTimedOut    EventType = "assessment.question_timed_out"
	EventAssessmentCompleted EventType = "assessment.completed"
)

const (
	EventSource  = "adaptive-assessment"
	EventVersion = "1.0"
)

// AssessmentEvent is the envelope for every published event
type AssessmentEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	SessionID string                 `json:"session_id"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewAssessmentEvent wraps a payload in an envelope with a fresh ID
func NewAssessmentEvent(eventType EventType, sessionID string, data interface{}) *AssessmentEvent {
	return &AssessmentEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Source:    EventSource,
		Version:   EventVersion,
		Data:      data,
	}
}

// Event payloads

type AssessmentStartedEvent struct {
	SessionID      string                `json:"session_id"`
	ModuleID       string                `json:"module_id"`
	UserLevel      models.UserLevel      `json:"user_level"`
	AssessmentType models.AssessmentType `json:"assessment_type"`
	QuestionCount  int                   `json:"question_count"`
	StartedAt      time.Time             `json:"started_at"`
}

type AssessmentProgressEvent struct {
	SessionID string  `json:"session_id"`
	Percent   float64 `json:"percent"`
}

type QuestionTimedOutEvent struct {
	SessionID  string `json:"session_id"`
	QuestionID string `json:"question_id"`
}

type AssessmentCompletedEvent struct {
	Result *models.AssessmentResult `json:"result"`
}
