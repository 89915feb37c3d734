package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/adaptive-assessment/internal/errors"
)

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Session errors
	ErrEmptyQuestionSet         = errors.New("no questions available for the module and level")
	ErrInvalidQuestionReference = errors.New("question is not the current question of the session")
	ErrSessionCompleted         = errors.New("session is already completed")
	ErrNoHintAvailable          = errors.New("question has no hints")
	ErrAnswerKindMismatch       = errors.New("answer shape does not match the question type")

	// Scoring and delivery
	ErrDegenerateScoring = errors.New("session has no points to score against")
	ErrResultDelivery    = errors.New("failed to deliver assessment result")

	// Question bank and result storage
	ErrQuestionNotFound  = errors.New("question not found")
	ErrModuleNotFound    = errors.New("module not found")
	ErrResultNotFound    = errors.New("result not found")
	ErrResultExists      = errors.New("result already recorded for this session")
	ErrInvalidImportFile = errors.New("invalid import file")
)

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// BusinessRuleError rejects input that is well formed but inconsistent, such
// as a result claiming more answers than questions.
type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", e.Rule, e.Message)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message, Context: context}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrModuleNotFound) ||
		errors.Is(err, ErrResultNotFound)
}

// IsValidation matches sentinel validation errors as well as field errors
// from the validator package.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrValidationFailed),
		errors.Is(err, ErrAnswerKindMismatch),
		errors.Is(err, ErrInvalidImportFile):
		return true
	}
	var many ValidationErrors
	if errors.As(err, &many) {
		return true
	}
	var one *ValidationError
	return errors.As(err, &one)
}

func IsBusinessRule(err error) bool {
	var rule *BusinessRuleError
	return errors.As(err, &rule)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrResultExists) || errors.Is(err, ErrSessionCompleted)
}

// IsSessionError reports errors a caller can recover from by re-reading the
// session state.
func IsSessionError(err error) bool {
	return errors.Is(err, ErrInvalidQuestionReference) ||
		errors.Is(err, ErrNoHintAvailable) ||
		errors.Is(err, ErrSessionCompleted)
}
