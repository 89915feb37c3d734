// Package tui runs one assessment session in the terminal. Engine calls run
// as tea.Cmds because engine callbacks are delivered back into the program
// through the Bridge.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/services"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type appState int

const (
	stateStarting appState = iota
	stateAnswering
	stateFinished
	stateFailed
)

type sessionStartedMsg struct {
	session *services.Session
	err     error
}

type answeredMsg struct {
	questionID string
	result     *models.AssessmentResult
	err        error
}

type hintMsg struct {
	questionID string
	hint       string
	err        error
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			MarginBottom(1)
	timerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5C07B")).
			Italic(true)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// App is the bubbletea model of one session.
type App struct {
	state   appState
	engine  *services.AssessmentEngine
	request services.StartSessionRequest
	session *services.Session

	input     textinput.Model
	question  models.Question
	remaining int
	percent   float64
	hint      string
	busy      bool

	statusMsg string
	err       error
	result    *models.AssessmentResult
	width     int
}

func NewApp(engine *services.AssessmentEngine, request services.StartSessionRequest) *App {
	input := textinput.New()
	input.Placeholder = "your answer"
	input.CharLimit = 500
	input.Width = 60

	return &App{
		state:     stateStarting,
		engine:    engine,
		request:   request,
		input:     input,
		remaining: -1,
	}
}

// Session returns the running session, or nil before it started.
func (a *App) Session() *services.Session {
	return a.session
}

// Result returns the result once the session is finished.
func (a *App) Result() *models.AssessmentResult {
	return a.result
}

// Err returns the error that stopped the session, if any.
func (a *App) Err() error {
	if a.state == stateFailed {
		return a.err
	}
	return nil
}

func (a *App) Init() tea.Cmd {
	engine, request := a.engine, a.request
	return func() tea.Msg {
		session, err := engine.StartSession(context.Background(), request)
		return sessionStartedMsg{session: session, err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.input.Width = max(20, msg.Width-10)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case sessionStartedMsg:
		if msg.err != nil {
			a.state = stateFailed
			a.err = msg.err
			return a, tea.Quit
		}
		a.session = msg.session
		a.state = stateAnswering
		a.syncQuestion()
		return a, tea.Batch(a.input.Focus(), textinput.Blink)

	case answeredMsg:
		a.busy = false
		if msg.result != nil {
			a.finish(msg.result)
		}
		if msg.err != nil {
			a.err = msg.err
			if errors.Is(msg.err, services.ErrInvalidQuestionReference) {
				a.err = errors.New("time ran out before the answer was saved")
			}
		}
		a.syncQuestion()
		return a, nil

	case hintMsg:
		if msg.err != nil {
			a.err = msg.err
			if errors.Is(msg.err, services.ErrNoHintAvailable) {
				a.err = errors.New("no hint for this question")
			}
			return a, nil
		}
		if msg.questionID == a.question.ID {
			a.hint = msg.hint
		}
		return a, nil

	case tickMsg:
		if msg.questionID == a.question.ID {
			a.remaining = msg.remaining
		}
		return a, nil

	case progressMsg:
		a.percent = msg.percent
		return a, nil

	case timeoutMsg:
		a.statusMsg = "Time is up, moved on."
		a.syncQuestion()
		return a, nil

	case completedMsg:
		a.finish(msg.result)
		return a, nil
	}

	if a.state == stateAnswering {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return a, tea.Quit
	}

	if a.state == stateFinished {
		if msg.String() == "q" || msg.String() == "enter" {
			return a, tea.Quit
		}
		return a, nil
	}
	if a.state != stateAnswering || a.busy {
		return a, nil
	}

	switch msg.String() {
	case "enter":
		answer, err := ParseAnswer(a.question, a.input.Value())
		if err != nil {
			a.err = err
			return a, nil
		}
		return a, a.submit(answer)
	case "ctrl+n":
		return a, a.submit(models.Answer{})
	case "tab":
		return a, a.revealHint()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit records answer (unless it is zero) and moves on.
func (a *App) submit(answer models.Answer) tea.Cmd {
	a.busy = true
	a.err = nil
	a.statusMsg = ""

	engine, session, questionID := a.engine, a.session, a.question.ID
	return func() tea.Msg {
		ctx := context.Background()
		if !answer.IsZero() {
			if _, err := engine.SubmitAnswer(ctx, session, questionID, answer); err != nil {
				return answeredMsg{questionID: questionID, err: err}
			}
		}
		result, err := engine.Advance(ctx, session)
		return answeredMsg{questionID: questionID, result: result, err: err}
	}
}

func (a *App) revealHint() tea.Cmd {
	engine, session, questionID := a.engine, a.session, a.question.ID
	return func() tea.Msg {
		hint, err := engine.RevealHint(context.Background(), session, questionID)
		return hintMsg{questionID: questionID, hint: hint, err: err}
	}
}

// syncQuestion reloads the current question after any transition.
func (a *App) syncQuestion() {
	if a.session == nil || a.state == stateFinished {
		return
	}
	question, ok := a.session.CurrentQuestion()
	if !ok {
		if result, done := a.session.Result(); done {
			a.finish(result)
		}
		return
	}
	if question.ID == a.question.ID {
		return
	}

	a.question = question
	a.hint = ""
	a.input.SetValue("")
	a.remaining = -1
	if question.HasTimeLimit() {
		a.remaining = *question.TimeLimitSeconds
	}
}

func (a *App) finish(result *models.AssessmentResult) {
	if result == nil || a.state == stateFinished {
		return
	}
	a.state = stateFinished
	a.result = result
	a.percent = 100
	a.input.Blur()
}

func (a *App) View() string {
	switch a.state {
	case stateStarting:
		return metaStyle.Render("Preparing questions...")
	case stateFailed:
		return errorStyle.Render(fmt.Sprintf("Could not start the assessment: %v", a.err)) + "\n"
	case stateFinished:
		return a.renderResult()
	}
	return a.renderQuestion()
}

func (a *App) renderQuestion() string {
	snapshot := a.session.Snapshot()
	q := a.question

	header := titleStyle.Render(fmt.Sprintf("%s · question %d of %d",
		snapshot.ModuleID, snapshot.CurrentIndex+1, len(snapshot.Questions)))
	meta := metaStyle.Render(fmt.Sprintf("%s · %s · %s · %.0f pts · %.0f%% done",
		q.Type, q.Difficulty, q.Concept, q.Points, a.percent))

	lines := []string{header, meta}
	if a.remaining >= 0 {
		lines = append(lines, timerStyle.Render(fmt.Sprintf("⏱ %ds left", a.remaining)))
	}
	lines = append(lines, promptStyle.Render(q.Prompt))

	for i, option := range q.Options {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, option))
	}
	if q.Type == models.Matching {
		lines = append(lines, "", metaStyle.Render("Match with: "+strings.Join(matchTargets(q), ", ")))
	}

	if a.hint != "" {
		lines = append(lines, "", hintStyle.Render("Hint: "+a.hint))
	}

	lines = append(lines, "", a.input.View(), metaStyle.Render("Answer as "+inputHint(q)))

	if a.err != nil {
		lines = append(lines, errorStyle.Render(a.err.Error()))
	}
	if a.statusMsg != "" {
		lines = append(lines, metaStyle.Render(a.statusMsg))
	}

	footer := metaStyle.Render("Enter submit · Tab hint · Ctrl+N skip · Esc quit")
	return boxStyle.Render(strings.Join(lines, "\n")) + "\n" + footer + "\n"
}

func (a *App) renderResult() string {
	r := a.result
	verdict := "Keep practicing"
	if r.Passed() {
		verdict = "Passed"
	}

	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s · %s", r.ModuleID, verdict)),
		promptStyle.Render(fmt.Sprintf("Score %d%%", r.Score)),
		metaStyle.Render(fmt.Sprintf("%.1f of %.1f points · %d of %d answered · %d hints · %ds",
			r.AwardedPoints, r.TotalPoints, r.QuestionsAnswered, r.QuestionCount, r.HintsUsed, r.TimeSpentSeconds)),
	}

	if len(r.ConceptMastery) > 0 {
		lines = append(lines, "", titleStyle.Render("Concepts"))
		for _, cm := range r.ConceptMastery {
			lines = append(lines, fmt.Sprintf("  %-24s %3.0f%%", cm.Concept, cm.MasteryPercent))
		}
	}

	lines = appendSection(lines, "Recommendations", r.Recommendations)
	lines = appendSection(lines, "Strengths", r.Feedback.Strengths)
	lines = appendSection(lines, "To improve", r.Feedback.Improvements)
	lines = appendSection(lines, "Next steps", r.Feedback.NextSteps)

	if a.err != nil {
		lines = append(lines, "", errorStyle.Render(a.err.Error()))
	}

	return boxStyle.Render(strings.Join(lines, "\n")) + "\n" + metaStyle.Render("Enter or q to exit") + "\n"
}

func appendSection(lines []string, title string, items []string) []string {
	if len(items) == 0 {
		return lines
	}
	lines = append(lines, "", titleStyle.Render(title))
	for _, item := range items {
		lines = append(lines, "  • "+item)
	}
	return lines
}
