package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/adaptive-assessment/internal/services"
	"github.com/SAP-F-2025/adaptive-assessment/internal/utils"
	"github.com/SAP-F-2025/adaptive-assessment/internal/validator"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	questionHandler *QuestionHandler
	resultHandler   *ResultHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		questionHandler: NewQuestionHandler(serviceManager.QuestionBank(), serviceManager.ImportExport(), validator, logger),
		resultHandler:   NewResultHandler(serviceManager.Result(), serviceManager.ImportExport(), logger),
	}
}

// NewRouter builds the gin engine with request logging and all API routes
func NewRouter(hm *HandlerManager, logger utils.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(utils.ContextLogger(logger))
	hm.SetupRoutes(router)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	{
		modules := v1.Group("/modules")
		{
			modules.GET("", hm.questionHandler.ListModules)
			modules.GET("/:module_id/questions", hm.questionHandler.GetModuleQuestions)

			modules.GET("/:module_id/results", hm.resultHandler.ListModuleResults)
			modules.GET("/:module_id/results/stats", hm.resultHandler.GetModuleStats)
			modules.GET("/:module_id/results/export", hm.resultHandler.ExportModuleResults)
		}

		questions := v1.Group("/questions")
		{
			questions.POST("", hm.questionHandler.CreateQuestion)
			questions.POST("/batch", hm.questionHandler.CreateQuestionsBatch)
			questions.POST("/import", hm.questionHandler.ImportQuestions)
			questions.GET("/:id", hm.questionHandler.GetQuestion)
		}

		results := v1.Group("/results")
		{
			results.POST("", hm.resultHandler.CreateResult)
			results.GET("/:id", hm.resultHandler.GetResult)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "adaptive-assessment",
	})
}
