package repositories

import (
	"context"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"gorm.io/gorm"
)

// ResultRepository interface for completed assessment results
type ResultRepository interface {
	Create(ctx context.Context, tx *gorm.DB, result *models.AssessmentResult) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.AssessmentResult, error)
	GetBySession(ctx context.Context, tx *gorm.DB, sessionID string) (*models.AssessmentResult, error)
	List(ctx context.Context, tx *gorm.DB, filters ResultFilters) ([]*models.AssessmentResult, int64, error)
	GetModuleStats(ctx context.Context, tx *gorm.DB, moduleID string) (*ResultStats, error)
}
