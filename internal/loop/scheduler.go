package loop

import (
	"sync"
	"time"
)

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 60

// TimerScheduler schedules frames on a fixed wall-clock interval. Callbacks
// run on timer goroutines; Loop serializes them.
type TimerScheduler struct {
	interval time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// NewTimerScheduler returns a scheduler ticking at fps frames per second.
func NewTimerScheduler(fps int) *TimerScheduler {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &TimerScheduler{interval: time.Second / time.Duration(fps)}
}

func (s *TimerScheduler) ScheduleNext(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.timer = time.AfterFunc(s.interval, fn)
}

// Close cancels the pending frame, if any, and drops all later requests.
func (s *TimerScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
