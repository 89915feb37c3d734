package validator

import (
	"reflect"
	"slices"
	"strings"

	apperrors "github.com/SAP-F-2025/adaptive-assessment/internal/errors"
	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground with the assessment tags registered and
// exposes the question rules that tags cannot express.
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

func New() *Validator {
	structValidator := validator.New()
	registerAssessmentTags(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(structValidator),
	}
}

// ValidateStruct returns the raw go-playground error.
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate checks struct tags and reports failures as apperrors.ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	err := v.ValidateStruct(s)
	if err == nil {
		return nil
	}
	if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
		return errs
	}
	return err
}

func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

func registerAssessmentTags(validate *validator.Validate) {
	validate.RegisterValidation("question_type", oneOfEnum(models.QuestionTypes...))
	validate.RegisterValidation("difficulty_level", oneOfEnum(
		models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard))
	validate.RegisterValidation("user_level", oneOfEnum(
		models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced))
	validate.RegisterValidation("assessment_type", oneOfEnum(
		models.AssessmentPractice, models.AssessmentQuiz, models.AssessmentCertification))

	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// oneOfEnum accepts string fields whose value is one of allowed.
func oneOfEnum[T ~string](allowed ...T) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, T(fl.Field().String()))
	}
}
