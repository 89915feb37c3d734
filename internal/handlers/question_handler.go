package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/services"
	"github.com/SAP-F-2025/adaptive-assessment/internal/utils"
	"github.com/SAP-F-2025/adaptive-assessment/internal/validator"
	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	BaseHandler
	bankService         services.QuestionBankService
	importExportService services.ImportExportService
	validator           *validator.Validator
}

func NewQuestionHandler(
	bankService services.QuestionBankService,
	importExportService services.ImportExportService,
	validator *validator.Validator,
	logger utils.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:         NewBaseHandler(logger),
		bankService:         bankService,
		importExportService: importExportService,
		validator:           validator,
	}
}

// CreateQuestionsRequest is a bank of questions created in one transaction
type CreateQuestionsRequest struct {
	Questions []*models.Question `json:"questions" validate:"required,min=1"`
}

// ListModules lists every module that has questions
// @Summary List modules
// @Tags modules
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]repositories.ModuleSummary}
// @Failure 500 {object} ErrorResponse
// @Router /modules [get]
func (h *QuestionHandler) ListModules(c *gin.Context) {
	modules, err := h.bankService.ListModules(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Modules retrieved successfully",
		Data:    modules,
	})
}

// GetModuleQuestions serves the question set of a module
// @Summary Get module questions
// @Description Returns the module's questions in bank order, filtered for the learner level when given
// @Tags modules
// @Produce json
// @Param module_id path string true "Module ID"
// @Param level query string false "beginner, intermediate or advanced"
// @Success 200 {object} SuccessResponse{data=[]models.Question}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /modules/{module_id}/questions [get]
func (h *QuestionHandler) GetModuleQuestions(c *gin.Context) {
	moduleID := ParseStringIDParam(c, "module_id")
	if moduleID == "" {
		return
	}

	var level *models.UserLevel
	if raw := c.Query("level"); raw != "" {
		l := models.UserLevel(raw)
		level = &l
	}

	questions, err := h.bankService.GetModuleQuestions(c.Request.Context(), moduleID, level)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Questions retrieved successfully",
		Data:    questions,
	})
}

// GetQuestion retrieves a question by ID
// @Summary Get question
// @Tags questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} SuccessResponse{data=models.Question}
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	question, err := h.bankService.GetQuestion(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Question retrieved successfully",
		Data:    question,
	})
}

// CreateQuestion adds one question to the end of its module
// @Summary Create question
// @Tags questions
// @Accept json
// @Produce json
// @Param request body models.Question true "Question"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var question models.Question
	if err := c.ShouldBindJSON(&question); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	h.LogRequest(c, "Creating question", "question_id", question.ID, "module_id", question.ModuleID)

	if err := h.bankService.CreateQuestion(c.Request.Context(), &question); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Question created successfully",
		Data:    question,
	})
}

// CreateQuestionsBatch creates or replaces a batch of questions
// @Summary Create questions in batch
// @Description Validates the questions as one bank and stores them
// @Tags questions
// @Accept json
// @Produce json
// @Param request body CreateQuestionsRequest true "Questions"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /questions/batch [post]
func (h *QuestionHandler) CreateQuestionsBatch(c *gin.Context) {
	var req CreateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Creating questions batch", "count", len(req.Questions))

	if err := h.bankService.CreateQuestions(c.Request.Context(), req.Questions); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Questions created successfully",
		Data:    gin.H{"count": len(req.Questions)},
	})
}

// ImportQuestions imports a question bank from an uploaded spreadsheet
// @Summary Import questions
// @Tags questions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet (.xlsx or .csv)"
// @Success 200 {object} services.ImportResult
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} services.ImportResult
// @Router /questions/import [post]
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "File is required", err, err.Error())
		return
	}

	h.LogRequest(c, "Importing questions", "filename", header.Filename, "size", header.Size)

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to open uploaded file", err, err.Error())
		return
	}
	defer file.Close()

	result, err := h.importExportService.ImportQuestionsFromFile(c.Request.Context(), file, header.Filename)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if result.Status == models.ImportValidationFailed {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}
