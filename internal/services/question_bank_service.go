package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/repositories"
	"github.com/SAP-F-2025/adaptive-assessment/internal/validator"
	"gorm.io/gorm"
)

// QuestionBankService serves module question sets. It is also the
// QuestionSource of engines that run next to the database.
type QuestionBankService interface {
	GetQuestions(ctx context.Context, moduleID string) ([]models.Question, error)
	// GetModuleQuestions returns the module's questions, filtered for the
	// level when one is given.
	GetModuleQuestions(ctx context.Context, moduleID string, level *models.UserLevel) ([]models.Question, error)
	GetQuestion(ctx context.Context, id string) (*models.Question, error)
	// CreateQuestions validates the questions as one bank and stores them in
	// a single transaction.
	CreateQuestions(ctx context.Context, questions []*models.Question) error
	// CreateQuestion stores one question at the end of its module, or in
	// place when it replaces a stored question.
	CreateQuestion(ctx context.Context, question *models.Question) error
	ListModules(ctx context.Context) ([]repositories.ModuleSummary, error)
}

type questionBankService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuestionBankService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) QuestionBankService {
	return &questionBankService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *questionBankService) GetQuestions(ctx context.Context, moduleID string) ([]models.Question, error) {
	questions, err := s.repo.Question().GetByModule(ctx, nil, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions of module %s: %w", moduleID, err)
	}
	return questions, nil
}

func (s *questionBankService) GetModuleQuestions(ctx context.Context, moduleID string, level *models.UserLevel) ([]models.Question, error) {
	if level != nil {
		if err := s.validator.Validate(&struct {
			Level models.UserLevel `json:"level" validate:"required,user_level"`
		}{Level: *level}); err != nil {
			return nil, err
		}
	}

	questions, err := s.GetQuestions(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, moduleID)
	}

	if level != nil {
		questions = SelectQuestions(questions, moduleID, *level)
	}
	return questions, nil
}

func (s *questionBankService) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

func (s *questionBankService) CreateQuestions(ctx context.Context, questions []*models.Question) error {
	s.logger.Info("Starting question batch creation", "count", len(questions))

	if err := s.validator.Question().ValidateBatch(questions); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		return s.repo.Question().CreateBatch(ctx, tx, questions)
	})
	if err != nil {
		s.logger.Error("Failed to create questions", "count", len(questions), "error", err)
		return fmt.Errorf("failed to create questions: %w", err)
	}

	s.logger.Info("Questions created successfully", "count", len(questions))
	return nil
}

func (s *questionBankService) CreateQuestion(ctx context.Context, question *models.Question) error {
	if question == nil {
		return fmt.Errorf("%w: question is required", ErrBadRequest)
	}
	if err := s.validator.Question().ValidateQuestion(question); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	if err := s.repo.Question().Create(ctx, nil, question); err != nil {
		s.logger.Error("Failed to create question", "question_id", question.ID, "error", err)
		return fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("Question created successfully", "question_id", question.ID, "module_id", question.ModuleID)
	return nil
}

func (s *questionBankService) ListModules(ctx context.Context) ([]repositories.ModuleSummary, error) {
	modules, err := s.repo.Question().ListModules(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	return modules, nil
}
