package services

import (
	"log/slog"

	"github.com/SAP-F-2025/adaptive-assessment/internal/repositories"
	"github.com/SAP-F-2025/adaptive-assessment/internal/validator"
)

// ServiceManager groups the services behind the HTTP API
type ServiceManager interface {
	QuestionBank() QuestionBankService
	Result() ResultService
	ImportExport() ImportExportService
}

type serviceManager struct {
	questionBank QuestionBankService
	result       ResultService
	importExport ImportExportService
}

func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ServiceManager {
	questionBank := NewQuestionBankService(repo, logger, validator)
	result := NewResultService(repo, logger, validator)
	return &serviceManager{
		questionBank: questionBank,
		result:       result,
		importExport: NewImportExportService(questionBank, result, logger, validator),
	}
}

func (m *serviceManager) QuestionBank() QuestionBankService { return m.questionBank }
func (m *serviceManager) Result() ResultService             { return m.result }
func (m *serviceManager) ImportExport() ImportExportService { return m.importExport }
