package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/services"
	"github.com/SAP-F-2025/adaptive-assessment/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ResultHandler struct {
	BaseHandler
	resultService       services.ResultService
	importExportService services.ImportExportService
}

func NewResultHandler(
	resultService services.ResultService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *ResultHandler {
	return &ResultHandler{
		BaseHandler:         NewBaseHandler(logger),
		resultService:       resultService,
		importExportService: importExportService,
	}
}

// CreateResult accepts the result of a finished session
// @Summary Record result
// @Tags results
// @Accept json
// @Produce json
// @Param result body models.AssessmentResult true "Finished assessment result"
// @Success 201 {object} SuccessResponse{data=models.AssessmentResult}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /results [post]
func (h *ResultHandler) CreateResult(c *gin.Context) {
	var result models.AssessmentResult
	if err := c.ShouldBindJSON(&result); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	h.LogRequest(c, "Recording result", "session_id", result.SessionID, "module_id", result.ModuleID)

	stored, err := h.resultService.Record(c.Request.Context(), &result)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Result recorded successfully",
		Data:    stored,
	})
}

// GetResult retrieves a result by ID
// @Summary Get result
// @Tags results
// @Produce json
// @Param id path string true "Result ID"
// @Success 200 {object} SuccessResponse{data=models.AssessmentResult}
// @Failure 404 {object} ErrorResponse
// @Router /results/{id} [get]
func (h *ResultHandler) GetResult(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	result, err := h.resultService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Result retrieved successfully",
		Data:    result,
	})
}

// ListModuleResults lists the results of a module
// @Summary List module results
// @Tags results
// @Produce json
// @Param module_id path string true "Module ID"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} SuccessResponse{data=services.ResultListResponse}
// @Router /modules/{module_id}/results [get]
func (h *ResultHandler) ListModuleResults(c *gin.Context) {
	moduleID := ParseStringIDParam(c, "module_id")
	if moduleID == "" {
		return
	}

	page, err := h.resultService.List(c.Request.Context(), parseResultFilters(c, moduleID))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Results retrieved successfully",
		Data:    page,
	})
}

// GetModuleStats summarizes the results of a module
// @Summary Module result statistics
// @Tags results
// @Produce json
// @Param module_id path string true "Module ID"
// @Success 200 {object} SuccessResponse{data=repositories.ResultStats}
// @Router /modules/{module_id}/results/stats [get]
func (h *ResultHandler) GetModuleStats(c *gin.Context) {
	moduleID := ParseStringIDParam(c, "module_id")
	if moduleID == "" {
		return
	}

	stats, err := h.resultService.GetModuleStats(c.Request.Context(), moduleID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Statistics retrieved successfully",
		Data:    stats,
	})
}

// ExportModuleResults downloads the module's results as a spreadsheet
// @Summary Export module results
// @Tags results
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param module_id path string true "Module ID"
// @Success 200 {file} file
// @Router /modules/{module_id}/results/export [get]
func (h *ResultHandler) ExportModuleResults(c *gin.Context) {
	moduleID := ParseStringIDParam(c, "module_id")
	if moduleID == "" {
		return
	}

	h.LogRequest(c, "Exporting module results", "module_id", moduleID)

	data, err := h.importExportService.ExportModuleResults(c.Request.Context(), moduleID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", moduleID+"-results.xlsx"))
	c.Data(http.StatusOK, xlsxContentType, data)
}
