package session

import (
	"sync"
	"time"
)

// scheduler runs delayed transition effects that can be cancelled
// synchronously. Every pending task carries the generation it was
// scheduled under; Cancel bumps the generation, so a timer that fires
// after a reset finds its generation stale and does nothing.
type scheduler struct {
	mu     sync.Mutex
	gen    int
	timers map[*time.Timer]struct{}
}

func newScheduler() *scheduler {
	return &scheduler{timers: make(map[*time.Timer]struct{})}
}

// Schedule runs fn after the delay unless the scheduler is cancelled
// first. A zero delay runs fn synchronously.
func (s *scheduler) Schedule(delay time.Duration, fn func()) {
	if delay <= 0 {
		fn()
		return
	}
	s.mu.Lock()
	gen := s.gen
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		stale := gen != s.gen
		delete(s.timers, timer)
		s.mu.Unlock()
		if stale {
			return
		}
		fn()
	})
	s.timers[timer] = struct{}{}
	s.mu.Unlock()
}

// Cancel invalidates every pending task. Tasks already executing are
// not interrupted, but none scheduled before the call will start after
// it returns.
func (s *scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	for timer := range s.timers {
		timer.Stop()
		delete(s.timers, timer)
	}
}
