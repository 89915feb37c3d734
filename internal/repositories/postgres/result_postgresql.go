package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/repositories"
	"gorm.io/gorm"
)

var resultSortColumns = map[string]bool{
	"completed_at": true,
	"score":        true,
	"created_at":   true,
}

type ResultPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (r *ResultPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create stores a finished result
func (r *ResultPostgreSQL) Create(ctx context.Context, tx *gorm.DB, result *models.AssessmentResult) error {
	record, err := models.NewResultRecord(result)
	if err != nil {
		return err
	}
	if err := r.getDB(tx).WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create result: %w", err)
	}
	return nil
}

// GetByID retrieves a result by ID
func (r *ResultPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.AssessmentResult, error) {
	var record models.ResultRecord
	if err := r.getDB(tx).WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return record.ToResult()
}

// GetBySession retrieves the result produced by a session
func (r *ResultPostgreSQL) GetBySession(ctx context.Context, tx *gorm.DB, sessionID string) (*models.AssessmentResult, error) {
	var record models.ResultRecord
	if err := r.getDB(tx).WithContext(ctx).Where("session_id = ?", sessionID).First(&record).Error; err != nil {
		return nil, err
	}
	return record.ToResult()
}

// List retrieves results with filters and pagination
func (r *ResultPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ResultFilters) ([]*models.AssessmentResult, int64, error) {
	query := r.getDB(tx).WithContext(ctx).Model(&models.ResultRecord{})
	query = r.helpers.ApplyResultFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset,
		resultSortColumns, "completed_at")

	var records []models.ResultRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	results := make([]*models.AssessmentResult, 0, len(records))
	for i := range records {
		result, err := records[i].ToResult()
		if err != nil {
			return nil, 0, err
		}
		results = append(results, result)
	}

	return results, total, nil
}

// GetModuleStats aggregates all results of a module
func (r *ResultPostgreSQL) GetModuleStats(ctx context.Context, tx *gorm.DB, moduleID string) (*repositories.ResultStats, error) {
	var row struct {
		TotalResults     int64
		AverageScore     float64
		Passed           int64
		AverageTimeSpent float64
	}

	err := r.getDB(tx).WithContext(ctx).
		Model(&models.ResultRecord{}).
		Select(`COUNT(*) AS total_results,
			COALESCE(AVG(score), 0) AS average_score,
			COUNT(*) FILTER (WHERE score >= 80) AS passed,
			COALESCE(AVG(time_spent_seconds), 0) AS average_time_spent`).
		Where("module_id = ?", moduleID).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get module stats: %w", err)
	}

	stats := &repositories.ResultStats{
		TotalResults:     row.TotalResults,
		AverageScore:     row.AverageScore,
		AverageTimeSpent: row.AverageTimeSpent,
	}
	if row.TotalResults > 0 {
		stats.PassRate = float64(row.Passed) / float64(row.TotalResults) * 100
	}
	return stats, nil
}
