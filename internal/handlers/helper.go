package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/repositories"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := c.Param(param)
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

func parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseResultFilters(c *gin.Context, moduleID string) repositories.ResultFilters {
	limit := parseIntQuery(c, "limit", defaultPageLimit)
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset := parseIntQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	filters := repositories.ResultFilters{
		ModuleID:  moduleID,
		Limit:     limit,
		Offset:    offset,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if level := c.Query("user_level"); level != "" {
		userLevel := models.UserLevel(level)
		filters.UserLevel = &userLevel
	}

	if assessmentType := c.Query("assessment_type"); assessmentType != "" {
		aType := models.AssessmentType(assessmentType)
		filters.AssessmentType = &aType
	}

	if minScoreStr := c.Query("min_score"); minScoreStr != "" {
		if minScore, err := strconv.Atoi(minScoreStr); err == nil {
			filters.MinScore = &minScore
		}
	}

	return filters
}
