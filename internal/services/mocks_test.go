package services

import (
	"context"
	"sync"
	"time"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/repositories"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	args := m.Called(ctx, tx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) CreateBatch(ctx context.Context, tx *gorm.DB, questions []*models.Question) error {
	args := m.Called(ctx, tx, questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Question, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByModule(ctx context.Context, tx *gorm.DB, moduleID string) ([]models.Question, error) {
	args := m.Called(ctx, tx, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockQuestionRepository) ListModules(ctx context.Context, tx *gorm.DB) ([]repositories.ModuleSummary, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.ModuleSummary), args.Error(1)
}

// MockResultRepository is a mock implementation of ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Create(ctx context.Context, tx *gorm.DB, result *models.AssessmentResult) error {
	args := m.Called(ctx, tx, result)
	return args.Error(0)
}

func (m *MockResultRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.AssessmentResult, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssessmentResult), args.Error(1)
}

func (m *MockResultRepository) GetBySession(ctx context.Context, tx *gorm.DB, sessionID string) (*models.AssessmentResult, error) {
	args := m.Called(ctx, tx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssessmentResult), args.Error(1)
}

func (m *MockResultRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.ResultFilters) ([]*models.AssessmentResult, int64, error) {
	args := m.Called(ctx, tx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.AssessmentResult), args.Get(1).(int64), args.Error(2)
}

func (m *MockResultRepository) GetModuleStats(ctx context.Context, tx *gorm.DB, moduleID string) (*repositories.ResultStats, error) {
	args := m.Called(ctx, tx, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.ResultStats), args.Error(1)
}

// MockRepository runs transactions inline with a nil tx.
type MockRepository struct {
	questionRepo *MockQuestionRepository
	resultRepo   *MockResultRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		questionRepo: &MockQuestionRepository{},
		resultRepo:   &MockResultRepository{},
	}
}

func (m *MockRepository) Question() repositories.QuestionRepository { return m.questionRepo }
func (m *MockRepository) Result() repositories.ResultRepository     { return m.resultRepo }
func (m *MockRepository) DB() *gorm.DB                              { return nil }
func (m *MockRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// fakeClock only moves when told to.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingSink collects delivered results and optional notifications.
type recordingSink struct {
	mu       sync.Mutex
	results  []*models.AssessmentResult
	started  []string
	timeouts []string
	err      error
}

func (s *recordingSink) OnComplete(ctx context.Context, result *models.AssessmentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return s.err
}

func (s *recordingSink) OnStart(ctx context.Context, session models.AssessmentSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, session.ID)
}

func (s *recordingSink) OnTimeout(ctx context.Context, sessionID, questionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeouts = append(s.timeouts, questionID)
}

func (s *recordingSink) Results() []*models.AssessmentResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.AssessmentResult(nil), s.results...)
}

func (s *recordingSink) Timeouts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.timeouts...)
}

// recordingProgress collects progress notifications in order.
type recordingProgress struct {
	mu       sync.Mutex
	percents []float64
}

func (p *recordingProgress) OnProgress(ctx context.Context, sessionID string, percent float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.percents = append(p.percents, percent)
}

func (p *recordingProgress) Percents() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]float64(nil), p.percents...)
}

type recordingTicks struct {
	mu        sync.Mutex
	remaining []int
}

func (r *recordingTicks) OnTick(ctx context.Context, sessionID, questionID string, remainingSeconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = append(r.remaining, remainingSeconds)
}

func (r *recordingTicks) Remaining() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.remaining...)
}

func intPtr(v int) *int {
	return &v
}
