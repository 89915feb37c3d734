package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type ResultFilters struct {
	ModuleID       string                 `json:"module_id"`
	UserLevel      *models.UserLevel      `json:"user_level"`
	AssessmentType *models.AssessmentType `json:"assessment_type"`
	MinScore       *int                   `json:"min_score"`
	Limit          int                    `json:"limit"`
	Offset         int                    `json:"offset"`
	SortBy         string                 `json:"sort_by"`    // "completed_at", "score"
	SortOrder      string                 `json:"sort_order"` // "asc", "desc"
}

// ===== SHARED STATISTICS STRUCTS =====

type ModuleSummary struct {
	ModuleID      string `json:"module_id"`
	QuestionCount int64  `json:"question_count"`
}

type ResultStats struct {
	TotalResults     int64   `json:"total_results"`
	AverageScore     float64 `json:"average_score"`
	PassRate         float64 `json:"pass_rate"`
	AverageTimeSpent float64 `json:"average_time_spent"`
}

// Repository groups the repositories that share one database handle.
type Repository interface {
	Question() QuestionRepository
	Result() ResultRepository

	DB() *gorm.DB
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// IsNotFoundError reports whether err means the row does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err is a unique constraint violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
