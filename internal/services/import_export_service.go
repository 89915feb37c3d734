package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	apperrors "github.com/SAP-F-2025/adaptive-assessment/internal/errors"
	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/repositories"
	"github.com/SAP-F-2025/adaptive-assessment/internal/validator"
	"github.com/xuri/excelize/v2"
)

// ImportExportService handles spreadsheet import of question banks and
// export of result reports
type ImportExportService interface {
	// Import operations
	ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string) (*ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader) (*ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error)

	// Export operations
	ExportModuleResults(ctx context.Context, moduleID string) ([]byte, error)
}

type importExportService struct {
	bank      QuestionBankService
	results   ResultService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportExportService(bank QuestionBankService, results ResultService, logger *slog.Logger, validator *validator.Validator) ImportExportService {
	return &importExportService{
		bank:      bank,
		results:   results,
		logger:    logger,
		validator: validator,
	}
}

// ===== IMPORT OPERATIONS =====

type ImportResult struct {
	TotalRows    int                            `json:"total_rows"`
	SuccessCount int                            `json:"success_count"`
	ErrorCount   int                            `json:"error_count"`
	Errors       []models.ImportValidationError `json:"errors"`
	Questions    []*models.Question             `json:"questions,omitempty"`
	Status       models.ImportStatus            `json:"status"`
}

func (s *importExportService) ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string) (*ImportResult, error) {
	s.logger.Info("Starting file import", "filename", filename)

	rows, err := ReadSheetRows(reader, filename)
	if err != nil {
		return nil, err
	}
	return s.importRows(ctx, rows)
}

func (s *importExportService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	rows, err := readCSVRows(reader)
	if err != nil {
		return nil, err
	}
	return s.importRows(ctx, rows)
}

func (s *importExportService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	rows, err := readExcelRows(reader)
	if err != nil {
		return nil, err
	}
	return s.importRows(ctx, rows)
}

// importRows stores every row that parses and validates. Rows with errors
// are reported and skipped.
func (s *importExportService) importRows(ctx context.Context, rows [][]string) (*ImportResult, error) {
	questions, rowErrors, total, err := ParseQuestionRows(s.validator, rows)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		TotalRows:    total,
		SuccessCount: len(questions),
		ErrorCount:   total - len(questions),
		Errors:       rowErrors,
		Questions:    questions,
		Status:       models.ImportCompleted,
	}

	switch {
	case len(questions) == 0:
		result.Status = models.ImportValidationFailed
	case result.ErrorCount > 0:
		result.Status = models.ImportPartial
	}

	if len(questions) > 0 {
		if err := s.bank.CreateQuestions(ctx, questions); err != nil {
			return nil, fmt.Errorf("failed to save questions: %w", err)
		}
	}

	s.logger.Info("Question import completed",
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount,
		"status", result.Status)

	return result, nil
}

// ReadSheetRows reads all rows of a .csv file or the first sheet of an .xlsx
// file.
func ReadSheetRows(reader io.Reader, filename string) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".csv":
		return readCSVRows(reader)
	case ".xlsx":
		return readExcelRows(reader)
	default:
		return nil, fmt.Errorf("%w: %w", ErrInvalidImportFile,
			apperrors.NewValidationErrorWithRule("file", "must be a .csv or .xlsx file", "file_type", ext))
	}
}

func readCSVRows(reader io.Reader) ([][]string, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV: %w", ErrInvalidImportFile, err)
	}
	return records, nil
}

func readExcelRows(reader io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open Excel file: %w", ErrInvalidImportFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: Excel file has no sheets", ErrInvalidImportFile)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return rows, nil
}

// ParseQuestionRows turns spreadsheet rows into validated questions. The first
// row is the header. Blank rows are ignored; total counts the data rows read.
func ParseQuestionRows(v *validator.Validator, rows [][]string) (questions []*models.Question, rowErrors []models.ImportValidationError, total int, err error) {
	if len(rows) < 2 {
		return nil, nil, 0, fmt.Errorf("%w: %w", ErrInvalidImportFile,
			apperrors.NewValidationErrorWithRule("file", "must have a header row and at least one data row", "min", len(rows)))
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range models.RequiredImportColumns {
		if _, exists := headerMap[col]; !exists {
			return nil, nil, 0, fmt.Errorf("%w: %w", ErrInvalidImportFile,
				apperrors.NewValidationErrorWithRule("headers", fmt.Sprintf("missing required column: %s", col), "required", col))
		}
	}

	rowErrors = []models.ImportValidationError{}
	seen := make(map[string]int)

	for i, record := range rows[1:] {
		if isBlankRow(record) {
			continue
		}
		total++
		rowNum := i + 2

		question, errs := parseQuestionRow(record, headerMap, rowNum)
		if len(errs) == 0 {
			errs = questionErrors(v.Question().ValidateQuestion(question), rowNum)
		}
		if len(errs) == 0 {
			if first, dup := seen[question.ID]; dup {
				errs = append(errs, models.ImportValidationError{
					Row:     rowNum,
					Column:  models.ColumnID,
					Message: fmt.Sprintf("already used in row %d", first),
					Value:   question.ID,
					Code:    "duplicate",
				})
			}
		}

		if len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			continue
		}
		seen[question.ID] = rowNum
		questions = append(questions, question)
	}

	return questions, rowErrors, total, nil
}

func parseQuestionRow(record []string, headerMap map[string]int, rowNum int) (*models.Question, []models.ImportValidationError) {
	var errs []models.ImportValidationError

	getColumn := func(name string) string {
		if index, exists := headerMap[name]; exists && index < len(record) {
			return strings.TrimSpace(record[index])
		}
		return ""
	}
	fail := func(column, message, value, code string) {
		errs = append(errs, models.ImportValidationError{
			Row: rowNum, Column: column, Message: message, Value: value, Code: code,
		})
	}

	question := &models.Question{
		ID:          getColumn(models.ColumnID),
		ModuleID:    getColumn(models.ColumnModuleID),
		Type:        models.QuestionType(strings.ToLower(getColumn(models.ColumnType))),
		Difficulty:  models.DifficultyLevel(strings.ToLower(getColumn(models.ColumnDifficulty))),
		Concept:     getColumn(models.ColumnConcept),
		Prompt:      getColumn(models.ColumnPrompt),
		Options:     models.SplitList(getColumn(models.ColumnOptions)),
		Explanation: getColumn(models.ColumnExplanation),
		Hints:       models.SplitList(getColumn(models.ColumnHints)),
	}

	pointsStr := getColumn(models.ColumnPoints)
	points, err := strconv.ParseFloat(pointsStr, 64)
	if err != nil {
		fail(models.ColumnPoints, "must be a number", pointsStr, "number")
	}
	question.Points = points

	if limitStr := getColumn(models.ColumnTimeLimit); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			fail(models.ColumnTimeLimit, "must be a whole number of seconds", limitStr, "integer")
		} else {
			question.TimeLimitSeconds = &limit
		}
	}

	answerStr := getColumn(models.ColumnCorrectAnswer)
	answer, err := models.ParseAnswerText(question.Type, answerStr)
	if err != nil {
		fail(models.ColumnCorrectAnswer, err.Error(), answerStr, "format")
	}
	question.CorrectAnswer = answer

	return question, errs
}

// questionErrors converts validator output to row errors. JSON field names
// match the column names.
func questionErrors(err error, rowNum int) []models.ImportValidationError {
	if err == nil {
		return nil
	}

	var many apperrors.ValidationErrors
	var single *apperrors.ValidationError
	switch {
	case errors.As(err, &many):
	case errors.As(err, &single):
		many = apperrors.ValidationErrors{*single}
	default:
		return []models.ImportValidationError{{Row: rowNum, Message: err.Error(), Code: "invalid"}}
	}

	out := make([]models.ImportValidationError, 0, len(many))
	for _, ve := range many {
		out = append(out, models.ImportValidationError{
			Row:     rowNum,
			Column:  ve.Field,
			Message: ve.Message,
			Value:   fmt.Sprint(ve.Value),
			Code:    ve.Rule,
		})
	}
	return out
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ===== EXPORT OPERATIONS =====

const exportPageSize = 100

func (s *importExportService) ExportModuleResults(ctx context.Context, moduleID string) ([]byte, error) {
	s.logger.Info("Starting result export", "module_id", moduleID)

	var all []*models.AssessmentResult
	for {
		page, err := s.results.List(ctx, repositories.ResultFilters{
			ModuleID:  moduleID,
			Limit:     exportPageSize,
			Offset:    len(all),
			SortBy:    "completed_at",
			SortOrder: "asc",
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page.Results...)
		if len(page.Results) == 0 || int64(len(all)) >= page.Total {
			break
		}
	}

	f, err := BuildResultReport(all)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Result export completed", "module_id", moduleID, "results", len(all))
	return buf.Bytes(), nil
}

const (
	ResultsSheet  = "Results"
	ConceptsSheet = "Concepts"
)

var resultHeaders = []interface{}{
	"Result ID", "Session ID", "Module", "User Level", "Assessment Type", "Score", "Passed",
	"Awarded Points", "Total Points", "Questions Answered", "Question Count", "Hints Used",
	"Time Spent (seconds)", "Completed At",
}

var conceptHeaders = []interface{}{"Result ID", "Session ID", "Concept", "Mastery (%)"}

// BuildResultReport lays the results out in a workbook with one row per
// result and one row per concept mastery entry.
func BuildResultReport(results []*models.AssessmentResult) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if _, err := f.NewSheet(ConceptsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	resultRows := make([][]interface{}, 0, len(results))
	var conceptRows [][]interface{}
	for _, r := range results {
		passed := "Fail"
		if r.Passed() {
			passed = "Pass"
		}
		resultRows = append(resultRows, []interface{}{
			r.ID, r.SessionID, r.ModuleID, string(r.UserLevel), string(r.AssessmentType), r.Score, passed,
			r.AwardedPoints, r.TotalPoints, r.QuestionsAnswered, r.QuestionCount, r.HintsUsed,
			r.TimeSpentSeconds, r.CompletedAt.Format("2006-01-02 15:04:05"),
		})
		for _, cm := range r.ConceptMastery {
			conceptRows = append(conceptRows, []interface{}{r.ID, r.SessionID, cm.Concept, cm.MasteryPercent})
		}
	}

	if err := writeSheet(f, ResultsSheet, headerStyle, resultHeaders, resultRows); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSheet(f, ConceptsSheet, headerStyle, conceptHeaders, conceptRows); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, headers []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 18)
}

// ReportFileSink writes the result of a session to an .xlsx report file.
type ReportFileSink struct {
	mu   sync.Mutex
	path string
}

func NewReportFileSink(path string) *ReportFileSink {
	return &ReportFileSink{path: path}
}

func (s *ReportFileSink) OnComplete(ctx context.Context, result *models.AssessmentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := BuildResultReport([]*models.AssessmentResult{result})
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("failed to save report %s: %w", s.path, err)
	}
	return nil
}
