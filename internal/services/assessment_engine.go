package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/SAP-F-2025/adaptive-assessment/internal/errors"
	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/scoring"
	"github.com/SAP-F-2025/adaptive-assessment/internal/validator"
	"github.com/google/uuid"
)

const DefaultTickInterval = time.Second

type StartSessionRequest struct {
	ModuleID       string                `json:"module_id" validate:"required,max=100"`
	UserLevel      models.UserLevel      `json:"user_level" validate:"required,user_level"`
	AssessmentType models.AssessmentType `json:"assessment_type" validate:"required,assessment_type"`
}

type EngineOption func(*AssessmentEngine)

// WithClock replaces the wall clock used for timestamps and time spent.
func WithClock(clock Clock) EngineOption {
	return func(e *AssessmentEngine) { e.clock = clock }
}

// WithTickInterval sets the length of one countdown second.
func WithTickInterval(interval time.Duration) EngineOption {
	return func(e *AssessmentEngine) {
		if interval > 0 {
			e.tickInterval = interval
		}
	}
}

func WithProgressObserver(observer ProgressObserver) EngineOption {
	return func(e *AssessmentEngine) { e.progress = observer }
}

func WithTickObserver(observer TickObserver) EngineOption {
	return func(e *AssessmentEngine) { e.ticks = observer }
}

// AssessmentEngine runs assessment sessions: question selection, answers,
// hints, per-question countdown and scoring at completion.
type AssessmentEngine struct {
	source    QuestionSource
	sink      ResultSink
	progress  ProgressObserver
	ticks     TickObserver
	clock     Clock
	validator *validator.Validator

	tickInterval time.Duration
	logger       *slog.Logger
	opLogger     *opLogger
}

func NewAssessmentEngine(source QuestionSource, sink ResultSink, logger *slog.Logger, validator *validator.Validator, opts ...EngineOption) *AssessmentEngine {
	if sink == nil {
		sink = ResultSinkFunc(func(context.Context, *models.AssessmentResult) error { return nil })
	}

	e := &AssessmentEngine{
		source:       source,
		sink:         sink,
		clock:        systemClock{},
		validator:    validator,
		tickInterval: DefaultTickInterval,
		logger:       logger.With("component", "assessment_engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.opLogger = newOpLogger(logger, e.clock)
	return e
}

// ===== SESSION LIFECYCLE =====

// StartSession builds the question set for the module and level and starts
// the first countdown.
func (e *AssessmentEngine) StartSession(ctx context.Context, req StartSessionRequest) (session *Session, err error) {
	op := e.opLogger.Start(ctx, "start_session", "")
	defer func() { op.LogResult(req.ModuleID, "module", err) }()

	if err := e.validator.Validate(&req); err != nil {
		return nil, err
	}

	candidates, err := e.source.GetQuestions(ctx, req.ModuleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for module %s: %w", req.ModuleID, err)
	}

	questions := SelectQuestions(candidates, req.ModuleID, req.UserLevel)
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: module %s, level %s", ErrEmptyQuestionSet, req.ModuleID, req.UserLevel)
	}

	now := e.clock.Now()
	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	session = &Session{
		ctx:    sessionCtx,
		cancel: cancel,
		state: models.AssessmentSession{
			ID:                uuid.NewString(),
			ModuleID:          req.ModuleID,
			UserLevel:         req.UserLevel,
			AssessmentType:    req.AssessmentType,
			Questions:         questions,
			CurrentIndex:      0,
			Answers:           make(map[string]models.AnswerRecord),
			StartedAt:         now,
			QuestionStartedAt: now,
			HintsRevealed:     make(map[string]bool),
		},
	}

	session.mu.Lock()
	e.restartTimerLocked(session)
	snapshot := session.state.Clone()
	session.mu.Unlock()

	e.logger.Info("Session started",
		"session_id", session.ID(),
		"module_id", req.ModuleID,
		"user_level", req.UserLevel,
		"assessment_type", req.AssessmentType,
		"question_count", len(questions))

	if observer, ok := e.sink.(StartObserver); ok {
		observer.OnStart(session.ctx, snapshot)
	}

	return session, nil
}

// SubmitAnswer records the answer for the current question, replacing any
// earlier answer for it.
func (e *AssessmentEngine) SubmitAnswer(ctx context.Context, session *Session, questionID string, answer models.Answer) (record models.AnswerRecord, err error) {
	op := e.opLogger.Start(ctx, "submit_answer", session.ID())
	defer func() { op.LogResult(questionID, "question", err) }()

	session.mu.Lock()
	defer session.mu.Unlock()

	question, err := currentQuestionLocked(session, questionID)
	if err != nil {
		return models.AnswerRecord{}, err
	}

	if expected := models.ExpectedAnswerKind(question.Type); answer.Kind != expected {
		return models.AnswerRecord{}, fmt.Errorf("%w: %w", ErrAnswerKindMismatch,
			apperrors.NewValidationErrorWithRule("answer",
				fmt.Sprintf("must be a %s answer for %s questions", expected, question.Type), "answer_kind", answer.Kind))
	}

	now := e.clock.Now()
	spent := int(now.Sub(session.state.QuestionStartedAt) / time.Second)
	if spent < 0 {
		spent = 0
	}

	hintsUsed := 0
	if session.state.HintsRevealed[question.ID] {
		hintsUsed = 1
	}

	record = models.AnswerRecord{
		QuestionID:       question.ID,
		Answer:           answer.Clone(),
		TimeSpentSeconds: spent,
		HintsUsedCount:   hintsUsed,
		SubmittedAt:      now,
	}
	session.state.Answers[question.ID] = record

	return record, nil
}

// RevealHint marks the current question as hint-used and returns its first
// hint. Revealing again returns the same hint.
func (e *AssessmentEngine) RevealHint(ctx context.Context, session *Session, questionID string) (hint string, err error) {
	op := e.opLogger.Start(ctx, "reveal_hint", session.ID())
	defer func() { op.LogResult(questionID, "question", err) }()

	session.mu.Lock()
	defer session.mu.Unlock()

	question, err := currentQuestionLocked(session, questionID)
	if err != nil {
		return "", err
	}

	hint, ok := question.FirstHint()
	if !ok {
		return "", ErrNoHintAvailable
	}

	session.state.HintsRevealed[question.ID] = true
	session.state.HintVisible = true
	return hint, nil
}

// Advance moves to the next question, or completes the session when on the
// last one. The result is non-nil only when this call completed the session.
func (e *AssessmentEngine) Advance(ctx context.Context, session *Session) (result *models.AssessmentResult, err error) {
	op := e.opLogger.Start(ctx, "advance", session.ID())
	defer func() { op.LogResult("", "", err) }()

	session.mu.Lock()
	if session.state.Completed {
		session.mu.Unlock()
		return nil, ErrSessionCompleted
	}
	step := e.advanceLocked(session)
	session.mu.Unlock()

	return e.finishTransition(ctx, session, step)
}

// CompleteSession scores the session and hands the result to the sink.
// Repeated calls return the stored result without delivering it again.
func (e *AssessmentEngine) CompleteSession(ctx context.Context, session *Session) (result *models.AssessmentResult, err error) {
	op := e.opLogger.Start(ctx, "complete_session", session.ID())
	defer func() { op.LogResult("", "", err) }()

	session.mu.Lock()
	if session.state.Completed {
		stored := session.result.Clone()
		session.mu.Unlock()
		return stored, nil
	}
	result = e.completeLocked(session)
	session.mu.Unlock()

	return result, e.deliver(ctx, session, result)
}

// AbandonSession stops the countdown of a session that will not be finished.
// The session is not scored and nothing is delivered.
func (e *AssessmentEngine) AbandonSession(ctx context.Context, session *Session) {
	session.mu.Lock()
	completed := session.state.Completed
	session.stopTimerLocked()
	session.mu.Unlock()
	session.cancel()

	if !completed {
		e.logger.InfoContext(ctx, "Session abandoned", "session_id", session.ID())
	}
}

// ===== TRANSITIONS =====

// transition carries what must be announced once the session lock is
// released.
type transition struct {
	percent   float64
	completed *models.AssessmentResult
}

func (e *AssessmentEngine) advanceLocked(session *Session) transition {
	step := transition{percent: session.state.ProgressPercent()}

	if session.state.IsLastQuestion() {
		step.completed = e.completeLocked(session)
		return step
	}

	session.state.CurrentIndex++
	session.state.QuestionStartedAt = e.clock.Now()
	session.state.HintVisible = false
	e.restartTimerLocked(session)
	return step
}

func (e *AssessmentEngine) completeLocked(session *Session) *models.AssessmentResult {
	session.stopTimerLocked()

	result := scoring.Evaluate(&session.state, e.clock.Now())
	result.ID = uuid.NewString()

	session.state.Completed = true
	session.state.HintVisible = false
	session.result = result

	if result.Degenerate {
		e.logger.Warn("Degenerate session scored as zero",
			"session_id", session.state.ID,
			"error", ErrDegenerateScoring)
	}
	e.logger.Info("Session completed",
		"session_id", session.state.ID,
		"result_id", result.ID,
		"score", result.Score,
		"questions_answered", result.QuestionsAnswered,
		"question_count", result.QuestionCount)

	return result.Clone()
}

// finishTransition notifies observers and delivers a fresh result.
func (e *AssessmentEngine) finishTransition(ctx context.Context, session *Session, step transition) (*models.AssessmentResult, error) {
	if e.progress != nil {
		e.progress.OnProgress(ctx, session.ID(), step.percent)
	}
	if step.completed == nil {
		return nil, nil
	}
	return step.completed, e.deliver(ctx, session, step.completed)
}

func (e *AssessmentEngine) deliver(ctx context.Context, session *Session, result *models.AssessmentResult) error {
	defer session.cancel()

	if err := e.sink.OnComplete(ctx, result.Clone()); err != nil {
		e.logger.Error("Failed to deliver assessment result",
			"session_id", session.ID(),
			"result_id", result.ID,
			"error", err)
		return fmt.Errorf("%w: %w", ErrResultDelivery, err)
	}
	return nil
}

// ===== COUNTDOWN =====

// restartTimerLocked replaces the countdown with one for the current
// question, if it is timed.
func (e *AssessmentEngine) restartTimerLocked(session *Session) {
	session.stopTimerLocked()

	question := session.state.CurrentQuestion()
	if session.state.Completed || question == nil || !question.HasTimeLimit() {
		return
	}

	generation := session.generation
	sessionID := session.state.ID
	questionID := question.ID

	session.timer = startQuestionTimer(session.ctx, e.tickInterval, *question.TimeLimitSeconds,
		func(remaining int) {
			if e.ticks != nil && session.isGeneration(generation) {
				e.ticks.OnTick(session.ctx, sessionID, questionID, remaining)
			}
		},
		func() {
			e.expireQuestion(session, generation, questionID)
		})
}

// expireQuestion advances on behalf of the timer, keeping whatever answer was
// last submitted. Stale timers do nothing.
func (e *AssessmentEngine) expireQuestion(session *Session, generation uint64, questionID string) {
	ctx := session.ctx

	session.mu.Lock()
	if session.state.Completed || session.generation != generation {
		session.mu.Unlock()
		return
	}
	_, answered := session.state.Answers[questionID]
	step := e.advanceLocked(session)
	session.mu.Unlock()

	e.logger.Info("Question timed out",
		"session_id", session.ID(),
		"question_id", questionID,
		"answered", answered)

	if observer, ok := e.sink.(TimeoutObserver); ok {
		observer.OnTimeout(ctx, session.ID(), questionID)
	}
	if _, err := e.finishTransition(ctx, session, step); err != nil {
		e.logger.Error("Timed advance failed", "session_id", session.ID(), "error", err)
	}
}

// currentQuestionLocked rejects completed sessions and questions other than
// the current one.
func currentQuestionLocked(session *Session, questionID string) (*models.Question, error) {
	if session.state.Completed {
		return nil, ErrSessionCompleted
	}
	question := session.state.CurrentQuestion()
	if question == nil || question.ID != questionID {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidQuestionReference, questionID)
	}
	return question, nil
}
