package repositories

import (
	"context"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"gorm.io/gorm"
)

// QuestionRepository interface for question bank operations. A nil tx uses
// the repository's own connection.
type QuestionRepository interface {
	// Create inserts or replaces a question, appending it to its module.
	Create(ctx context.Context, tx *gorm.DB, question *models.Question) error
	// CreateBatch inserts or replaces questions, keeping slice order per module.
	CreateBatch(ctx context.Context, tx *gorm.DB, questions []*models.Question) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Question, error)
	// GetByModule returns the module's questions in bank order.
	GetByModule(ctx context.Context, tx *gorm.DB, moduleID string) ([]models.Question, error)
	ListModules(ctx context.Context, tx *gorm.DB) ([]ModuleSummary, error)
}
