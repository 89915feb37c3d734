package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// opLogger records one line per engine operation, classified by error kind.
type opLogger struct {
	logger *slog.Logger
	clock  Clock
}

func newOpLogger(logger *slog.Logger, clock Clock) *opLogger {
	return &opLogger{
		logger: logger.With("service", "adaptive-assessment", "component", "assessment_engine"),
		clock:  clock,
	}
}

// operation tracks a single call from start to LogResult.
type operation struct {
	log       *opLogger
	ctx       context.Context
	name      string
	sessionID string
	started   time.Time
}

func (l *opLogger) Start(ctx context.Context, name, sessionID string) *operation {
	return &operation{log: l, ctx: ctx, name: name, sessionID: sessionID, started: l.clock.Now()}
}

// LogResult logs the outcome at a level matching the error class: caller
// mistakes are warnings, missing data is info, anything else is an error.
// Successful operations log at debug.
func (op *operation) LogResult(resourceID, resourceType string, err error) {
	level, status := classify(err)

	attrs := []slog.Attr{
		slog.String("operation", op.name),
		slog.String("status", status),
		slog.Duration("duration", op.log.clock.Now().Sub(op.started)),
	}
	if op.sessionID != "" {
		attrs = append(attrs, slog.String("session_id", op.sessionID))
	}
	if resourceID != "" {
		attrs = append(attrs, slog.String("resource_id", resourceID), slog.String("resource_type", resourceType))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		attrs = append(attrs, errorDetails(err)...)
	}

	op.log.logger.LogAttrs(op.ctx, level, fmt.Sprintf("%s operation %s", op.name, status), attrs...)
}

func classify(err error) (slog.Level, string) {
	switch {
	case err == nil:
		return slog.LevelDebug, "success"
	case IsValidation(err), IsBusinessRule(err):
		return slog.LevelWarn, "validation_error"
	case IsSessionError(err):
		return slog.LevelWarn, "rejected"
	case IsNotFound(err), errors.Is(err, ErrEmptyQuestionSet):
		return slog.LevelInfo, "not_found"
	default:
		return slog.LevelError, "error"
	}
}

// errorDetails lists at most five field errors, or the violated rule.
func errorDetails(err error) []slog.Attr {
	var fields ValidationErrors
	if errors.As(err, &fields) {
		attrs := []slog.Attr{slog.Int("validation_errors_count", len(fields))}
		for i, fe := range fields[:min(len(fields), 5)] {
			attrs = append(attrs, slog.Group(fmt.Sprintf("error_%d", i+1),
				slog.String("field", fe.Field),
				slog.String("message", fe.Message),
			))
		}
		return attrs
	}

	var rule *BusinessRuleError
	if errors.As(err, &rule) {
		return []slog.Attr{slog.String("business_rule", rule.Rule)}
	}
	return nil
}
