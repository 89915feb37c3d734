package services

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/repositories"
	"github.com/SAP-F-2025/adaptive-assessment/internal/utils"
	"github.com/SAP-F-2025/adaptive-assessment/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestResult() *models.AssessmentResult {
	return &models.AssessmentResult{
		SessionID:         "session-1",
		ModuleID:          "data-privacy",
		UserLevel:         models.LevelIntermediate,
		AssessmentType:    models.AssessmentQuiz,
		Score:             85,
		TotalPoints:       20,
		AwardedPoints:     17,
		QuestionsAnswered: 2,
		QuestionCount:     2,
		ConceptMastery: []models.ConceptMastery{
			{Concept: "classification", MasteryPercent: 100},
		},
		Recommendations: []string{"Ready for advanced topics"},
		CompletedAt:     time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestResultService_Record(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(r *models.AssessmentResult)
		setupMocks func(repo *MockResultRepository)
		check      func(t *testing.T, stored *models.AssessmentResult, err error)
	}{
		{
			name: "assigns an id and stores",
			setupMocks: func(repo *MockResultRepository) {
				repo.On("GetBySession", mock.Anything, mock.Anything, "session-1").Return(nil, gorm.ErrRecordNotFound)
				repo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(r *models.AssessmentResult) bool {
					return r.ID != "" && r.SessionID == "session-1"
				})).Return(nil)
			},
			check: func(t *testing.T, stored *models.AssessmentResult, err error) {
				require.NoError(t, err)
				assert.NotEmpty(t, stored.ID)
			},
		},
		{
			name:   "keeps the engine id",
			mutate: func(r *models.AssessmentResult) { r.ID = "result-1" },
			setupMocks: func(repo *MockResultRepository) {
				repo.On("GetBySession", mock.Anything, mock.Anything, "session-1").Return(nil, gorm.ErrRecordNotFound)
				repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
			check: func(t *testing.T, stored *models.AssessmentResult, err error) {
				require.NoError(t, err)
				assert.Equal(t, "result-1", stored.ID)
			},
		},
		{
			name: "second result for a session conflicts",
			setupMocks: func(repo *MockResultRepository) {
				repo.On("GetBySession", mock.Anything, mock.Anything, "session-1").Return(newTestResult(), nil)
			},
			check: func(t *testing.T, stored *models.AssessmentResult, err error) {
				assert.ErrorIs(t, err, ErrResultExists)
				assert.True(t, IsConflict(err))
			},
		},
		{
			name: "unique violation on insert conflicts",
			setupMocks: func(repo *MockResultRepository) {
				repo.On("GetBySession", mock.Anything, mock.Anything, "session-1").Return(nil, gorm.ErrRecordNotFound)
				repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
			},
			check: func(t *testing.T, stored *models.AssessmentResult, err error) {
				assert.ErrorIs(t, err, ErrResultExists)
			},
		},
		{
			name:       "score out of range is rejected",
			mutate:     func(r *models.AssessmentResult) { r.Score = 120 },
			setupMocks: func(repo *MockResultRepository) {},
			check: func(t *testing.T, stored *models.AssessmentResult, err error) {
				assert.True(t, IsValidation(err))
			},
		},
		{
			name:       "more answers than questions breaks a business rule",
			mutate:     func(r *models.AssessmentResult) { r.QuestionsAnswered = 3 },
			setupMocks: func(repo *MockResultRepository) {},
			check: func(t *testing.T, stored *models.AssessmentResult, err error) {
				var rule *BusinessRuleError
				require.ErrorAs(t, err, &rule)
				assert.Equal(t, "answered_within_count", rule.Rule)
				assert.True(t, IsBusinessRule(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			tt.setupMocks(repo.resultRepo)

			result := newTestResult()
			if tt.mutate != nil {
				tt.mutate(result)
			}

			service := NewResultService(repo, utils.NewDiscardLogger(), validator.New())
			stored, err := service.Record(context.Background(), result)
			tt.check(t, stored, err)
			repo.resultRepo.AssertExpectations(t)
		})
	}
}

func TestResultService_GetByID(t *testing.T) {
	repo := newMockRepository()
	stored := newTestResult()
	stored.ID = "result-1"
	repo.resultRepo.On("GetByID", mock.Anything, mock.Anything, "result-1").Return(stored, nil)
	repo.resultRepo.On("GetByID", mock.Anything, mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)

	service := NewResultService(repo, utils.NewDiscardLogger(), validator.New())

	got, err := service.GetByID(context.Background(), "result-1")
	require.NoError(t, err)
	assert.Equal(t, 85, got.Score)

	_, err = service.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrResultNotFound)
}

func TestResultService_List(t *testing.T) {
	repo := newMockRepository()
	filters := repositories.ResultFilters{ModuleID: "data-privacy", Limit: 10, Offset: 20}
	repo.resultRepo.On("List", mock.Anything, mock.Anything, filters).
		Return([]*models.AssessmentResult{newTestResult()}, int64(21), nil)

	service := NewResultService(repo, utils.NewDiscardLogger(), validator.New())
	page, err := service.List(context.Background(), filters)

	require.NoError(t, err)
	assert.Len(t, page.Results, 1)
	assert.Equal(t, int64(21), page.Total)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 20, page.Offset)
}
