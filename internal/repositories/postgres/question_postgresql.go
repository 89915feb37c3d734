package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/adaptive-assessment/internal/cache"
	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionPostgreSQL struct {
	db       *gorm.DB
	cache    cache.CacheService
	cacheTTL time.Duration
}

func NewQuestionPostgreSQL(db *gorm.DB, cacheService cache.CacheService, cacheTTL time.Duration) repositories.QuestionRepository {
	return &QuestionPostgreSQL{
		db:       db,
		cache:    cacheService,
		cacheTTL: cacheTTL,
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (q *QuestionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}

func moduleCacheKey(moduleID string) string {
	return fmt.Sprintf("module:%s", moduleID)
}

const modulesCacheKey = "modules"

// Create stores one question, appending it to its module unless it replaces
// a stored question of the same module.
func (q *QuestionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	return q.CreateBatch(ctx, tx, []*models.Question{question})
}

// CreateBatch stores the questions after the module's current last position,
// keeping slice order. A question replacing a stored one of the same module
// keeps its position.
func (q *QuestionPostgreSQL) CreateBatch(ctx context.Context, tx *gorm.DB, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}

	db := q.getDB(tx).WithContext(ctx)
	next, stored, err := loadPositions(db, questions)
	if err != nil {
		return err
	}

	records := make([]*models.QuestionRecord, 0, len(questions))
	for _, question := range questions {
		position, ok := stored[question.ID]
		if !ok || position.ModuleID != question.ModuleID {
			position.Position = next[question.ModuleID]
			next[question.ModuleID]++
		}

		record, err := models.NewQuestionRecord(question, position.Position)
		if err != nil {
			return err
		}
		records = append(records, record)
	}

	if err := upsertQuestions(db, records); err != nil {
		return fmt.Errorf("failed to create questions: %w", err)
	}

	for moduleID := range next {
		cache.SafeDelete(ctx, q.cache, moduleCacheKey(moduleID))
	}
	for _, position := range stored {
		cache.SafeDelete(ctx, q.cache, moduleCacheKey(position.ModuleID))
	}
	cache.SafeDelete(ctx, q.cache, modulesCacheKey)
	return nil
}

type modulePosition struct {
	ModuleID     string
	NextPosition int
}

type storedPosition struct {
	ID       string
	ModuleID string
	Position int
}

// loadPositions returns the next free position of every module in the batch
// and the stored positions of questions that already exist.
func loadPositions(db *gorm.DB, questions []*models.Question) (map[string]int, map[string]storedPosition, error) {
	ids := make([]string, 0, len(questions))
	next := make(map[string]int)
	for _, question := range questions {
		ids = append(ids, question.ID)
		next[question.ModuleID] = 0
	}
	moduleIDs := make([]string, 0, len(next))
	for moduleID := range next {
		moduleIDs = append(moduleIDs, moduleID)
	}

	var tails []modulePosition
	err := db.Model(&models.QuestionRecord{}).
		Select("module_id, COALESCE(MAX(position), -1) + 1 AS next_position").
		Where("module_id IN ?", moduleIDs).
		Group("module_id").
		Find(&tails).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute question positions: %w", err)
	}
	for _, tail := range tails {
		next[tail.ModuleID] = tail.NextPosition
	}

	var existing []storedPosition
	err = db.Model(&models.QuestionRecord{}).
		Select("id, module_id, position").
		Where("id IN ?", ids).
		Find(&existing).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load stored question positions: %w", err)
	}
	stored := make(map[string]storedPosition, len(existing))
	for _, position := range existing {
		stored[position.ID] = position
	}

	return next, stored, nil
}

func upsertQuestions(db *gorm.DB, records []*models.QuestionRecord) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).CreateInBatches(records, 100).Error
}

// GetByID retrieves a question by ID
func (q *QuestionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Question, error) {
	var record models.QuestionRecord
	if err := q.getDB(tx).WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}

	question, err := record.ToQuestion()
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// GetByModule retrieves a module's questions in bank order with caching
func (q *QuestionPostgreSQL) GetByModule(ctx context.Context, tx *gorm.DB, moduleID string) ([]models.Question, error) {
	var questions []models.Question

	err := cache.CacheOrExecute(ctx, q.cache, moduleCacheKey(moduleID), &questions, q.cacheTTL, func() (interface{}, error) {
		var records []models.QuestionRecord
		err := q.getDB(tx).WithContext(ctx).
			Where("module_id = ?", moduleID).
			Order("position ASC, id ASC").
			Find(&records).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get module questions: %w", err)
		}

		out := make([]models.Question, 0, len(records))
		for i := range records {
			question, err := records[i].ToQuestion()
			if err != nil {
				return nil, err
			}
			out = append(out, question)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return questions, nil
}

// ListModules returns every module that has questions
func (q *QuestionPostgreSQL) ListModules(ctx context.Context, tx *gorm.DB) ([]repositories.ModuleSummary, error) {
	var modules []repositories.ModuleSummary

	err := cache.CacheOrExecute(ctx, q.cache, modulesCacheKey, &modules, q.cacheTTL, func() (interface{}, error) {
		var rows []repositories.ModuleSummary
		err := q.getDB(tx).WithContext(ctx).
			Model(&models.QuestionRecord{}).
			Select("module_id, COUNT(*) AS question_count").
			Group("module_id").
			Order("module_id ASC").
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list modules: %w", err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	return modules, nil
}
