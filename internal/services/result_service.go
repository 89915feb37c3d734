package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/repositories"
	"github.com/SAP-F-2025/adaptive-assessment/internal/validator"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResultService stores finished assessment results. Each session has at most
// one result.
type ResultService interface {
	Record(ctx context.Context, result *models.AssessmentResult) (*models.AssessmentResult, error)
	GetByID(ctx context.Context, id string) (*models.AssessmentResult, error)
	GetBySession(ctx context.Context, sessionID string) (*models.AssessmentResult, error)
	List(ctx context.Context, filters repositories.ResultFilters) (*ResultListResponse, error)
	GetModuleStats(ctx context.Context, moduleID string) (*repositories.ResultStats, error)
}

type ResultListResponse struct {
	Results []*models.AssessmentResult `json:"results"`
	Total   int64                      `json:"total"`
	Limit   int                        `json:"limit"`
	Offset  int                        `json:"offset"`
}

type resultService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewResultService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ResultService {
	return &resultService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *resultService) Record(ctx context.Context, result *models.AssessmentResult) (*models.AssessmentResult, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: result is required", ErrBadRequest)
	}

	stored := result.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	s.logger.Info("Recording assessment result",
		"result_id", stored.ID,
		"session_id", stored.SessionID,
		"module_id", stored.ModuleID)

	if err := s.validator.Validate(stored); err != nil {
		return nil, err
	}
	if stored.QuestionsAnswered > stored.QuestionCount {
		return nil, NewBusinessRuleError("answered_within_count",
			"questions answered cannot exceed the questions presented",
			map[string]interface{}{
				"questions_answered": stored.QuestionsAnswered,
				"question_count":     stored.QuestionCount,
			})
	}

	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.Result().GetBySession(ctx, tx, stored.SessionID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: session %s", ErrResultExists, stored.SessionID)
		case !repositories.IsNotFoundError(err):
			return fmt.Errorf("failed to check existing result: %w", err)
		}
		return s.repo.Result().Create(ctx, tx, stored)
	})
	if err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, fmt.Errorf("%w: session %s", ErrResultExists, stored.SessionID)
		}
		if !IsConflict(err) {
			s.logger.Error("Failed to record result", "session_id", stored.SessionID, "error", err)
		}
		return nil, err
	}

	s.logger.Info("Assessment result recorded successfully",
		"result_id", stored.ID,
		"score", stored.Score)
	return stored, nil
}

func (s *resultService) GetByID(ctx context.Context, id string) (*models.AssessmentResult, error) {
	result, err := s.repo.Result().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrResultNotFound, id)
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return result, nil
}

func (s *resultService) GetBySession(ctx context.Context, sessionID string) (*models.AssessmentResult, error) {
	result, err := s.repo.Result().GetBySession(ctx, nil, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: session %s", ErrResultNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return result, nil
}

func (s *resultService) List(ctx context.Context, filters repositories.ResultFilters) (*ResultListResponse, error) {
	results, total, err := s.repo.Result().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return &ResultListResponse{
		Results: results,
		Total:   total,
		Limit:   filters.Limit,
		Offset:  filters.Offset,
	}, nil
}

func (s *resultService) GetModuleStats(ctx context.Context, moduleID string) (*repositories.ResultStats, error) {
	stats, err := s.repo.Result().GetModuleStats(ctx, nil, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats of module %s: %w", moduleID, err)
	}
	return stats, nil
}
