package tui

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/services"
	"github.com/SAP-F-2025/adaptive-assessment/internal/utils"
	"github.com/SAP-F-2025/adaptive-assessment/internal/validator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuestions() []models.Question {
	return []models.Question{
		{
			ID: "q1", Type: models.MultipleChoice, Difficulty: models.DifficultyEasy,
			ModuleID: "data-privacy", Concept: "classification", Prompt: "Label for customer records?",
			Options: []string{"Public", "Confidential"}, CorrectAnswer: models.ScalarAnswer("Confidential"),
			Points: 10, Hints: []string{"Who may see it?"},
		},
		{
			ID: "q2", Type: models.TrueFalse, Difficulty: models.DifficultyEasy,
			ModuleID: "data-privacy", Concept: "consent", Prompt: "Consent must be freely given.",
			CorrectAnswer: models.ScalarAnswer("true"), Points: 10,
		},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	source := services.QuestionSourceFunc(func(context.Context, string) ([]models.Question, error) {
		return testQuestions(), nil
	})
	engine := services.NewAssessmentEngine(source, nil, utils.NewDiscardLogger(), validator.New())
	app := NewApp(engine, services.StartSessionRequest{
		ModuleID:       "data-privacy",
		UserLevel:      models.LevelIntermediate,
		AssessmentType: models.AssessmentPractice,
	})
	t.Cleanup(func() {
		if app.Session() != nil {
			engine.AbandonSession(context.Background(), app.Session())
		}
	})

	app.Update(app.Init()())
	require.Equal(t, stateAnswering, app.state)
	return app
}

func typeText(app *App, text string) {
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// press sends a key and runs the command it returns, feeding the result back.
func press(t *testing.T, app *App, key tea.KeyType) {
	t.Helper()
	_, cmd := app.Update(tea.KeyMsg{Type: key})
	if cmd != nil {
		if msg := cmd(); msg != nil {
			app.Update(msg)
		}
	}
}

func TestAppAnswersThroughToResult(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, "q1", app.question.ID)
	assert.Contains(t, app.View(), "Label for customer records?")

	typeText(app, "2")
	press(t, app, tea.KeyEnter)
	require.NoError(t, app.err)
	assert.Equal(t, "q2", app.question.ID)
	assert.Empty(t, app.input.Value())

	typeText(app, "yes")
	press(t, app, tea.KeyEnter)

	require.Equal(t, stateFinished, app.state)
	require.NotNil(t, app.Result())
	assert.Equal(t, 100, app.Result().Score)
	assert.Contains(t, app.View(), "Score 100%")
}

func TestAppRejectsUnparsableAnswer(t *testing.T) {
	app := newTestApp(t)

	typeText(app, "7")
	press(t, app, tea.KeyEnter)

	require.Error(t, app.err)
	assert.Equal(t, "q1", app.question.ID)
	assert.Contains(t, app.View(), "choose 1 to 2")
}

func TestAppRevealsHint(t *testing.T) {
	app := newTestApp(t)

	press(t, app, tea.KeyTab)
	assert.Equal(t, "Who may see it?", app.hint)
	assert.Contains(t, app.View(), "Hint: Who may see it?")

	typeText(app, "2")
	press(t, app, tea.KeyEnter)
	assert.Empty(t, app.hint)

	press(t, app, tea.KeyTab)
	assert.EqualError(t, app.err, "no hint for this question")
}

func TestAppSkipLeavesQuestionUnanswered(t *testing.T) {
	app := newTestApp(t)

	press(t, app, tea.KeyCtrlN)
	press(t, app, tea.KeyCtrlN)

	require.Equal(t, stateFinished, app.state)
	assert.Equal(t, 0, app.Result().QuestionsAnswered)
	assert.Equal(t, 0, app.Result().Score)
}

func TestAppIgnoresTicksForOtherQuestions(t *testing.T) {
	app := newTestApp(t)

	app.Update(tickMsg{questionID: "q1", remaining: 12})
	app.Update(tickMsg{questionID: "other", remaining: 3})

	assert.Equal(t, 12, app.remaining)
	assert.Contains(t, app.View(), "12s left")
}

func TestAppStartFailure(t *testing.T) {
	source := services.QuestionSourceFunc(func(context.Context, string) ([]models.Question, error) {
		return nil, nil
	})
	engine := services.NewAssessmentEngine(source, nil, utils.NewDiscardLogger(), validator.New())
	app := NewApp(engine, services.StartSessionRequest{
		ModuleID:       "empty",
		UserLevel:      models.LevelBeginner,
		AssessmentType: models.AssessmentQuiz,
	})

	_, cmd := app.Update(app.Init()())

	assert.NotNil(t, cmd)
	assert.ErrorIs(t, app.Err(), services.ErrEmptyQuestionSet)
	assert.Contains(t, app.View(), "Could not start")
}
