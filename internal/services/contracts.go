package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
)

// QuestionSource supplies the candidate questions of a module. It must be
// deterministic for a module for the lifetime of one session.
type QuestionSource interface {
	GetQuestions(ctx context.Context, moduleID string) ([]models.Question, error)
}

// ResultSink receives the result of a session exactly once.
type ResultSink interface {
	OnComplete(ctx context.Context, result *models.AssessmentResult) error
}

// ProgressObserver is told the session progress after every navigation.
type ProgressObserver interface {
	OnProgress(ctx context.Context, sessionID string, percent float64)
}

// TickObserver receives the countdown of timed questions.
type TickObserver interface {
	OnTick(ctx context.Context, sessionID, questionID string, remainingSeconds int)
}

// StartObserver is an optional extension of ResultSink notified when a
// session starts.
type StartObserver interface {
	OnStart(ctx context.Context, session models.AssessmentSession)
}

// TimeoutObserver is an optional extension of ResultSink notified when a
// question's time runs out.
type TimeoutObserver interface {
	OnTimeout(ctx context.Context, sessionID, questionID string)
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// QuestionSourceFunc adapts a function to QuestionSource.
type QuestionSourceFunc func(ctx context.Context, moduleID string) ([]models.Question, error)

func (f QuestionSourceFunc) GetQuestions(ctx context.Context, moduleID string) ([]models.Question, error) {
	return f(ctx, moduleID)
}

// ResultSinkFunc adapts a function to ResultSink.
type ResultSinkFunc func(ctx context.Context, result *models.AssessmentResult) error

func (f ResultSinkFunc) OnComplete(ctx context.Context, result *models.AssessmentResult) error {
	return f(ctx, result)
}

// ProgressObserverFunc adapts a function to ProgressObserver.
type ProgressObserverFunc func(ctx context.Context, sessionID string, percent float64)

func (f ProgressObserverFunc) OnProgress(ctx context.Context, sessionID string, percent float64) {
	f(ctx, sessionID, percent)
}
