package handlers

import (
	"context"
	"io"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/repositories"
	"github.com/SAP-F-2025/adaptive-assessment/internal/services"
	"github.com/stretchr/testify/mock"
)

type MockQuestionBankService struct {
	mock.Mock
}

func (m *MockQuestionBankService) GetQuestions(ctx context.Context, moduleID string) ([]models.Question, error) {
	args := m.Called(ctx, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockQuestionBankService) GetModuleQuestions(ctx context.Context, moduleID string, level *models.UserLevel) ([]models.Question, error) {
	args := m.Called(ctx, moduleID, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockQuestionBankService) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionBankService) CreateQuestion(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionBankService) CreateQuestions(ctx context.Context, questions []*models.Question) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

func (m *MockQuestionBankService) ListModules(ctx context.Context) ([]repositories.ModuleSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.ModuleSummary), args.Error(1)
}

type MockResultService struct {
	mock.Mock
}

func (m *MockResultService) Record(ctx context.Context, result *models.AssessmentResult) (*models.AssessmentResult, error) {
	args := m.Called(ctx, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssessmentResult), args.Error(1)
}

func (m *MockResultService) GetByID(ctx context.Context, id string) (*models.AssessmentResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssessmentResult), args.Error(1)
}

func (m *MockResultService) GetBySession(ctx context.Context, sessionID string) (*models.AssessmentResult, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssessmentResult), args.Error(1)
}

func (m *MockResultService) List(ctx context.Context, filters repositories.ResultFilters) (*services.ResultListResponse, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ResultListResponse), args.Error(1)
}

func (m *MockResultService) GetModuleStats(ctx context.Context, moduleID string) (*repositories.ResultStats, error) {
	args := m.Called(ctx, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.ResultStats), args.Error(1)
}

type MockImportExportService struct {
	mock.Mock
}

func (m *MockImportExportService) ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string) (*services.ImportResult, error) {
	args := m.Called(ctx, reader, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ImportResult), args.Error(1)
}

func (m *MockImportExportService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader) (*services.ImportResult, error) {
	args := m.Called(ctx, reader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ImportResult), args.Error(1)
}

func (m *MockImportExportService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*services.ImportResult, error) {
	args := m.Called(ctx, reader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ImportResult), args.Error(1)
}

func (m *MockImportExportService) ExportModuleResults(ctx context.Context, moduleID string) ([]byte, error) {
	args := m.Called(ctx, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type mockServiceManager struct {
	bank         *MockQuestionBankService
	results      *MockResultService
	importExport *MockImportExportService
}

func newMockServiceManager() *mockServiceManager {
	return &mockServiceManager{
		bank:         new(MockQuestionBankService),
		results:      new(MockResultService),
		importExport: new(MockImportExportService),
	}
}

func (m *mockServiceManager) QuestionBank() services.QuestionBankService { return m.bank }
func (m *mockServiceManager) Result() services.ResultService             { return m.results }
func (m *mockServiceManager) ImportExport() services.ImportExportService { return m.importExport }
