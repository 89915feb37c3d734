package models

type ImportStatus string

const (
	ImportCompleted        ImportStatus = "completed"
	ImportPartial          ImportStatus = "partial"
	ImportValidationFailed ImportStatus = "validation_failed"
)

// Spreadsheet columns of a question import, in template order.
const (
	ColumnID            = "id"
	ColumnModuleID      = "module_id"
	ColumnType          = "type"
	ColumnDifficulty    = "difficulty"
	ColumnConcept       = "concept"
	ColumnPrompt        = "prompt"
	ColumnOptions       = "options"
	ColumnCorrectAnswer = "correct_answer"
	ColumnExplanation   = "explanation"
	ColumnTimeLimit     = "time_limit_seconds"
	ColumnPoints        = "points"
	ColumnHints         = "hints"
)

var QuestionImportColumns = []string{
	ColumnID, ColumnModuleID, ColumnType, ColumnDifficulty, ColumnConcept, ColumnPrompt,
	ColumnOptions, ColumnCorrectAnswer, ColumnExplanation, ColumnTimeLimit, ColumnPoints, ColumnHints,
}

// RequiredImportColumns must be present in the header row.
var RequiredImportColumns = []string{
	ColumnID, ColumnModuleID, ColumnType, ColumnDifficulty, ColumnConcept, ColumnPrompt, ColumnPoints,
}

type ImportValidationError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value"`
	Code    string `json:"code"`
}
