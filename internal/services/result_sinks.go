package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SAP-F-2025/adaptive-assessment/internal/events"
	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
)

// MultiSink fans a result out to several sinks. Every sink is called even if
// an earlier one fails; the failures are joined.
type MultiSink []ResultSink

func (m MultiSink) OnComplete(ctx context.Context, result *models.AssessmentResult) error {
	var errs []error
	for _, sink := range m {
		if err := sink.OnComplete(ctx, result.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiSink) OnStart(ctx context.Context, session models.AssessmentSession) {
	for _, sink := range m {
		if observer, ok := sink.(StartObserver); ok {
			observer.OnStart(ctx, session.Clone())
		}
	}
}

func (m MultiSink) OnTimeout(ctx context.Context, sessionID, questionID string) {
	for _, sink := range m {
		if observer, ok := sink.(TimeoutObserver); ok {
			observer.OnTimeout(ctx, sessionID, questionID)
		}
	}
}

// ResultStoreSink records results through the result service.
type ResultStoreSink struct {
	results ResultService
}

func NewResultStoreSink(results ResultService) *ResultStoreSink {
	return &ResultStoreSink{results: results}
}

func (s *ResultStoreSink) OnComplete(ctx context.Context, result *models.AssessmentResult) error {
	_, err := s.results.Record(ctx, result)
	return err
}

// EventSink publishes the session lifecycle as assessment events. It is both
// a ResultSink and a ProgressObserver.
type EventSink struct {
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewEventSink(publisher events.EventPublisher, logger *slog.Logger) *EventSink {
	return &EventSink{publisher: publisher, logger: logger}
}

func (s *EventSink) OnComplete(ctx context.Context, result *models.AssessmentResult) error {
	return s.publisher.PublishAssessmentEvent(ctx,
		events.NewAssessmentEvent(events.EventAssessmentCompleted, result.SessionID, events.AssessmentCompletedEvent{Result: result}))
}

func (s *EventSink) OnStart(ctx context.Context, session models.AssessmentSession) {
	s.publish(ctx, events.NewAssessmentEvent(events.EventAssessmentStarted, session.ID, events.AssessmentStartedEvent{
		SessionID:      session.ID,
		ModuleID:       session.ModuleID,
		UserLevel:      session.UserLevel,
		AssessmentType: session.AssessmentType,
		QuestionCount:  len(session.Questions),
		StartedAt:      session.StartedAt,
	}))
}

func (s *EventSink) OnProgress(ctx context.Context, sessionID string, percent float64) {
	s.publish(ctx, events.NewAssessmentEvent(events.EventAssessmentProgress, sessionID, events.AssessmentProgressEvent{
		SessionID: sessionID,
		Percent:   percent,
	}))
}

func (s *EventSink) OnTimeout(ctx context.Context, sessionID, questionID string) {
	s.publish(ctx, events.NewAssessmentEvent(events.EventQuestionTimedOut, sessionID, events.QuestionTimedOutEvent{
		SessionID:  sessionID,
		QuestionID: questionID,
	}))
}

// publish is used for notifications that cannot fail the session
func (s *EventSink) publish(ctx context.Context, event *events.AssessmentEvent) {
	if err := s.publisher.PublishAssessmentEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish assessment event",
			"event_type", event.Type,
			"session_id", event.SessionID,
			"error", err)
	}
}

// ProgressObservers fans progress out to several observers.
type ProgressObservers []ProgressObserver

func (p ProgressObservers) OnProgress(ctx context.Context, sessionID string, percent float64) {
	for _, observer := range p {
		observer.OnProgress(ctx, sessionID, percent)
	}
}
