package services

import (
	"context"
	"time"
)

// questionTimer counts down one question. Stop cancels it; callbacks of a
// stopped timer are ignored by the engine through the session generation.
type questionTimer struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startQuestionTimer(parent context.Context, interval time.Duration, limitSeconds int, onTick func(remaining int), onExpire func()) *questionTimer {
	ctx, cancel := context.WithCancel(parent)
	t := &questionTimer{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		remaining := limitSeconds
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				remaining--
				if remaining <= 0 {
					onExpire()
					return
				}
				onTick(remaining)
			}
		}
	}()

	return t
}

// Stop cancels the countdown without waiting for the goroutine, so it is
// safe to call while holding the session lock.
func (t *questionTimer) Stop() {
	t.cancel()
}
