package scoring

import (
	"fmt"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
)

// Tier boundaries shared by recommendations, feedback and next steps.
const (
	ReviewRatio       = 0.60
	MasteryRatio      = 0.80
	WeakConcept       = 70.0
	StrongConcept     = 80.0
	AdvanceMastery    = 80.0
	ReviewAreaMastery = 60.0
)

// ConceptMasteries groups questions by concept in first-encounter order.
func ConceptMasteries(questions []models.Question, correct map[string]bool) []models.ConceptMastery {
	type tally struct {
		total   int
		correct int
	}

	var order []string
	tallies := make(map[string]*tally)
	for _, q := range questions {
		t, ok := tallies[q.Concept]
		if !ok {
			t = &tally{}
			tallies[q.Concept] = t
			order = append(order, q.Concept)
		}
		t.total++
		if correct[q.ID] {
			t.correct++
		}
	}

	mastery := make([]models.ConceptMastery, 0, len(order))
	for _, concept := range order {
		t := tallies[concept]
		mastery = append(mastery, models.ConceptMastery{
			Concept:        concept,
			MasteryPercent: 100 * float64(t.correct) / float64(t.total),
		})
	}
	return mastery
}

// Recommendations returns two tier recommendations followed by one entry per
// weak concept.
func Recommendations(ratio float64, mastery []models.ConceptMastery) []string {
	var recs []string
	switch {
	case ratio < ReviewRatio:
		recs = append(recs,
			"Review the module material before retaking this assessment",
			"Work through the practice questions for each concept")
	case ratio < MasteryRatio:
		recs = append(recs,
			"Revisit the questions you missed to close the remaining gaps",
			"Retake the assessment to consolidate your progress")
	default:
		recs = append(recs,
			"Move on to the next module in your learning path",
			"Try this assessment at a higher level")
	}

	for _, m := range mastery {
		if m.MasteryPercent < WeakConcept {
			recs = append(recs, fmt.Sprintf("Focus on %s: review the related material and practice questions", m.Concept))
		}
	}
	return recs
}

// Feedback builds strengths, improvements and next steps.
func Feedback(mastery []models.ConceptMastery, hintsUsed, questionCount int) models.DetailedFeedback {
	feedback := models.DetailedFeedback{
		Strengths:    []string{},
		Improvements: []string{},
	}

	for _, m := range mastery {
		if m.MasteryPercent >= StrongConcept {
			feedback.Strengths = append(feedback.Strengths, fmt.Sprintf("Strong understanding of %s", m.Concept))
		}
	}
	if hintsUsed == 0 {
		feedback.Strengths = append(feedback.Strengths, "Answered without needing any hints")
	}

	for _, m := range mastery {
		if m.MasteryPercent < WeakConcept {
			feedback.Improvements = append(feedback.Improvements, fmt.Sprintf("Needs more practice with %s", m.Concept))
		}
	}
	if float64(hintsUsed) > float64(questionCount)/2 {
		feedback.Improvements = append(feedback.Improvements, "Review the concepts before attempting the assessment")
	}

	feedback.NextSteps = nextSteps(averageMastery(mastery))
	return feedback
}

func nextSteps(average float64) []string {
	switch {
	case average >= AdvanceMastery:
		return []string{
			"Advance to the next module",
			"Apply these concepts in a practical scenario",
		}
	case average >= ReviewAreaMastery:
		return []string{
			"Review your weak areas",
			"Retake the assessment once you have reviewed them",
		}
	default:
		return []string{
			"Review the full module content",
			"Ask an instructor for help with the difficult concepts",
		}
	}
}

// averageMastery is 0 when there are no concepts.
func averageMastery(mastery []models.ConceptMastery) float64 {
	if len(mastery) == 0 {
		return 0
	}
	var sum float64
	for _, m := range mastery {
		sum += m.MasteryPercent
	}
	return sum / float64(len(mastery))
}
