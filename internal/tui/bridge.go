package tui

import (
	"context"
	"sync"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg struct {
	questionID string
	remaining  int
}

type progressMsg struct {
	percent float64
}

type timeoutMsg struct {
	questionID string
}

type completedMsg struct {
	result *models.AssessmentResult
}

// Bridge forwards engine callbacks into a running bubbletea program. It is a
// ResultSink, TimeoutObserver, ProgressObserver and TickObserver at once.
// Callbacks that arrive before Attach are dropped.
type Bridge struct {
	mu      sync.Mutex
	program *tea.Program
}

func NewBridge() *Bridge {
	return &Bridge{}
}

func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.program = p
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.Lock()
	p := b.program
	b.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (b *Bridge) OnTick(_ context.Context, _ string, questionID string, remainingSeconds int) {
	b.send(tickMsg{questionID: questionID, remaining: remainingSeconds})
}

func (b *Bridge) OnProgress(_ context.Context, _ string, percent float64) {
	b.send(progressMsg{percent: percent})
}

func (b *Bridge) OnTimeout(_ context.Context, _ string, questionID string) {
	b.send(timeoutMsg{questionID: questionID})
}

func (b *Bridge) OnComplete(_ context.Context, result *models.AssessmentResult) error {
	b.send(completedMsg{result: result})
	return nil
}
