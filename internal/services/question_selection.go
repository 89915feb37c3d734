package services

import "github.com/SAP-F-2025/adaptive-assessment/internal/models"

// SelectQuestions keeps the questions of moduleID that the level does not
// exclude, in source order. The returned questions are copies.
func SelectQuestions(candidates []models.Question, moduleID string, level models.UserLevel) []models.Question {
	selected := make([]models.Question, 0, len(candidates))
	for _, q := range candidates {
		if q.ModuleID != moduleID || level.Excludes(q.Difficulty) {
			continue
		}
		selected = append(selected, q.Clone())
	}
	return selected
}
