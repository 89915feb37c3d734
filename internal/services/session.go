package services

import (
	"context"
	"sync"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
)

// Session is the engine-owned handle of one attempt. All mutation goes
// through the AssessmentEngine; callers read through Snapshot.
type Session struct {
	mu sync.Mutex

	// ctx outlives the request that started the session and carries the
	// countdown goroutines.
	ctx    context.Context
	cancel context.CancelFunc

	state  models.AssessmentSession
	result *models.AssessmentResult

	timer *questionTimer
	// generation changes on every question transition; timer callbacks
	// carrying an older generation are stale.
	generation uint64
}

func (s *Session) ID() string {
	return s.state.ID
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() models.AssessmentSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// CurrentQuestion returns a copy of the question on screen, or false once
// the session is completed.
func (s *Session) CurrentQuestion() (models.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Completed {
		return models.Question{}, false
	}
	q := s.state.CurrentQuestion()
	if q == nil {
		return models.Question{}, false
	}
	return q.Clone(), true
}

func (s *Session) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Completed
}

// Result returns a copy of the result once the session is completed.
func (s *Session) Result() (*models.AssessmentResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil, false
	}
	return s.result.Clone(), true
}

func (s *Session) isGeneration(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.state.Completed && s.generation == generation
}

// stopTimerLocked cancels the live countdown and invalidates its callbacks.
func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.generation++
}
