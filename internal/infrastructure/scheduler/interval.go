package scheduler

import (
	"context"
	"sync"
	"time"

	"ReviewHound/internal/ports"
)

// IntervalTrigger fires the job on a fixed interval, first run immediately.
type IntervalTrigger struct {
	every time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

var _ ports.Trigger = (*IntervalTrigger)(nil)

// NewIntervalTrigger builds a trigger firing every given duration; non-positive
// intervals default to 6 hours.
func NewIntervalTrigger(every time.Duration) *IntervalTrigger {
	if every <= 0 {
		every = 6 * time.Hour
	}
	return &IntervalTrigger{every: every}
}

// Start begins ticking. Calling Start on a running trigger is a no-op.
func (t *IntervalTrigger) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	t.mu.Lock()
	if t.stop != nil {
		t.mu.Unlock()
		return nil
	}
	stop := make(chan struct{})
	t.stop = stop
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(t.every)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case at := <-ticker.C:
				job(at)
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine. Safe to call more than once.
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop == nil {
		return nil
	}
	close(t.stop)
	t.stop = nil
	return nil
}
