package postgres

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/adaptive-assessment/internal/repositories"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SharedHelpers holds query helpers used by several repositories
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyResultFilters narrows a query over assessment_results
func (h *SharedHelpers) ApplyResultFilters(query *gorm.DB, filters repositories.ResultFilters) *gorm.DB {
	if filters.ModuleID != "" {
		query = query.Where("module_id = ?", filters.ModuleID)
	}
	if filters.UserLevel != nil {
		query = query.Where("user_level = ?", *filters.UserLevel)
	}
	if filters.AssessmentType != nil {
		query = query.Where("assessment_type = ?", *filters.AssessmentType)
	}
	if filters.MinScore != nil {
		query = query.Where("score >= ?", *filters.MinScore)
	}
	return query
}

// ApplyPaginationAndSort orders by an allowed column and pages the query.
// Unknown sort columns fall back to fallback.
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int, allowed map[string]bool, fallback string) *gorm.DB {
	if !allowed[sortBy] {
		sortBy = fallback
	}
	order := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		order = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, order))

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}
