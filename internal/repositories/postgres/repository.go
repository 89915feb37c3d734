package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/adaptive-assessment/internal/cache"
	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db       *gorm.DB
	question repositories.QuestionRepository
	result   repositories.ResultRepository
}

// NewRepository wires the postgres repositories around one connection.
func NewRepository(db *gorm.DB, cacheService cache.CacheService, questionCacheTTL time.Duration) repositories.Repository {
	return &repository{
		db:       db,
		question: NewQuestionPostgreSQL(db, cacheService, questionCacheTTL),
		result:   NewResultPostgreSQL(db),
	}
}

func (r *repository) Question() repositories.QuestionRepository { return r.question }
func (r *repository) Result() repositories.ResultRepository     { return r.result }
func (r *repository) DB() *gorm.DB                              { return r.db }

func (r *repository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// AutoMigrate creates or updates the tables owned by this service
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.QuestionRecord{}, &models.ResultRecord{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
