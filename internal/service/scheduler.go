package service

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// TimerScheduler runs one-shot expiry tasks keyed by artifact ID. At most
// one task may be pending per key; scheduling a key again replaces its
// pending task.
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	log    *zap.Logger
}

// NewTimerScheduler constructs an empty scheduler.
func NewTimerScheduler(log *zap.Logger) *TimerScheduler {
	return &TimerScheduler{
		timers: make(map[string]*time.Timer),
		log:    log,
	}
}

// Schedule arranges for fn to run once after d, replacing any task already
// pending for the same ID.
func (s *TimerScheduler) Schedule(id string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
	}
	s.timers[id] = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		fn()
	})
	s.log.Debug("expiry scheduled", zap.String("artifact", id), zap.Duration("after", d))
}

// Cancel stops the pending task for the ID, if any. Cancellation is
// best-effort: a task already firing is not interrupted.
func (s *TimerScheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
		s.log.Debug("expiry cancelled", zap.String("artifact", id))
	}
}

// Stop cancels every pending task.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
