package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameScheduler ties loop frames to the bubbletea frame tick, so every
// cycle runs on the program's update goroutine.
type FrameScheduler struct {
	interval time.Duration

	mu      sync.Mutex
	pending func()
}

// NewFrameScheduler returns a scheduler firing at fps frames per second.
func NewFrameScheduler(fps int) *FrameScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &FrameScheduler{interval: time.Second / time.Duration(fps)}
}

// ScheduleNext queues fn for the next frame, replacing any queued callback.
func (s *FrameScheduler) ScheduleNext(fn func()) {
	s.mu.Lock()
	s.pending = fn
	s.mu.Unlock()
}

// fire runs the queued callback, if any.
func (s *FrameScheduler) fire() bool {
	s.mu.Lock()
	fn := s.pending
	s.pending = nil
	s.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

func (s *FrameScheduler) tick() tea.Cmd {
	return tea.Tick(s.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// FPS reports the frame rate the scheduler ticks at.
func (s *FrameScheduler) FPS() float64 {
	return float64(time.Second) / float64(s.interval)
}
