package validator

import (
	"fmt"
	"strings"

	apperrors "github.com/SAP-F-2025/adaptive-assessment/internal/errors"
	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/go-playground/validator/v10"
)

// QuestionValidator handles question-specific validation
type QuestionValidator struct {
	structValidator *validator.Validate
}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator(structValidator *validator.Validate) *QuestionValidator {
	return &QuestionValidator{structValidator: structValidator}
}

// ValidateQuestion checks struct tags and the answer key against the question type
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if err := v.structValidator.Struct(question); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return v.ValidateAnswerKey(question)
}

// ValidateAnswerKey checks that the correct answer has the shape the question
// type expects and that it agrees with the options.
func (v *QuestionValidator) ValidateAnswerKey(question *models.Question) error {
	key := question.CorrectAnswer
	expected := models.ExpectedAnswerKind(question.Type)

	if key.IsZero() {
		// Free-form types are never auto-scored, so an answer key is optional.
		if !isAutoScored(question.Type) {
			return nil
		}
		return apperrors.NewValidationErrorWithRule("correct_answer", "is required", "required", nil)
	}
	if key.Kind != expected {
		return apperrors.NewValidationErrorWithRule("correct_answer",
			fmt.Sprintf("must be a %s answer for %s questions", expected, question.Type), "answer_kind", key.Kind)
	}

	switch question.Type {
	case models.MultipleChoice:
		if len(question.Options) < 2 {
			return apperrors.NewValidationErrorWithRule("options", "must have at least 2 options", "min", len(question.Options))
		}
		if !contains(question.Options, key.Scalar) {
			return apperrors.NewValidationErrorWithRule("correct_answer", "must be one of the options", "oneof", key.Scalar)
		}
	case models.TrueFalse:
		normalized := strings.ToLower(strings.TrimSpace(key.Scalar))
		if normalized != "true" && normalized != "false" {
			return apperrors.NewValidationErrorWithRule("correct_answer", "must be true or false", "oneof", key.Scalar)
		}
	case models.Matching:
		if len(key.Mapping) != len(question.Options) {
			return apperrors.NewValidationErrorWithRule("correct_answer",
				fmt.Sprintf("must match each of the %d options exactly once", len(question.Options)), "cardinality", len(key.Mapping))
		}
		for left := range key.Mapping {
			if !contains(question.Options, left) {
				return apperrors.NewValidationErrorWithRule("correct_answer",
					fmt.Sprintf("matches unknown option %q", left), "oneof", left)
			}
		}
	case models.Ranking:
		if len(key.Sequence) != len(question.Options) {
			return apperrors.NewValidationErrorWithRule("correct_answer",
				fmt.Sprintf("must rank all %d options", len(question.Options)), "cardinality", len(key.Sequence))
		}
		seen := make(map[string]bool, len(key.Sequence))
		for _, item := range key.Sequence {
			if !contains(question.Options, item) || seen[item] {
				return apperrors.NewValidationErrorWithRule("correct_answer",
					"must be a permutation of the options", "permutation", item)
			}
			seen[item] = true
		}
	case models.Scenario, models.Simulation, models.CaseStudy:
	}

	return nil
}

// ValidateBatch validates multiple questions and rejects duplicate IDs
func (v *QuestionValidator) ValidateBatch(questions []*models.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("question batch cannot be empty")
	}

	seen := make(map[string]int, len(questions))
	for i, question := range questions {
		if err := v.ValidateQuestion(question); err != nil {
			return fmt.Errorf("validation failed for question %d (%s): %w", i+1, question.ID, err)
		}
		if first, ok := seen[question.ID]; ok {
			return fmt.Errorf("validation failed for question %d: id %q already used by question %d",
				i+1, question.ID, first+1)
		}
		seen[question.ID] = i
	}

	return nil
}

func isAutoScored(t models.QuestionType) bool {
	switch t {
	case models.MultipleChoice, models.TrueFalse, models.Matching, models.Ranking:
		return true
	default:
		return false
	}
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
