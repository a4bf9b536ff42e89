// Package loop drives the per-frame sample -> synthesize -> dispatch cycle.
//
// A Loop is idle until its first subscriber arrives. That first Subscribe
// runs one cycle synchronously and from then on every cycle asks the
// Scheduler for the next frame before returning.
package loop

import (
	"log/slog"
	"sync"

	"github.com/olivier-w/glowgrid/internal/grid"
)

// Sampler overwrites buf with the current window of unsigned 8-bit
// amplitude samples.
type Sampler interface {
	Refresh(buf []byte)
}

// Scheduler invokes fn once, asynchronously, at the host's next frame.
type Scheduler interface {
	ScheduleNext(fn func())
}

// Listener receives every grid produced while the loop runs. The slice is a
// fresh snapshot owned by the listeners; they must not write to it.
type Listener func(cells []float64)

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) {
		if l != nil {
			lp.log = l
		}
	}
}

// Loop owns the amplitude window and the listener registry.
type Loop struct {
	synth   *grid.Synthesizer
	sampler Sampler
	sched   Scheduler
	log     *slog.Logger

	// cycleMu makes one cycle the atomic unit; window is only touched under it.
	cycleMu sync.Mutex
	window  []byte

	mu        sync.Mutex
	listeners []Listener
	running   bool
	stopped   bool
	cycles    uint64
}

// New returns an idle loop.
func New(synth *grid.Synthesizer, sampler Sampler, sched Scheduler, opts ...Option) *Loop {
	l := &Loop{
		synth:   synth,
		sampler: sampler,
		sched:   sched,
		log:     slog.Default(),
		window:  make([]byte, synth.Config().WindowSize()),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Subscribe appends fn to the delivery order. The first subscription starts
// the loop and runs the first cycle before returning. Later subscriptions
// only join subsequent cycles. Registering the same listener twice delivers
// every grid to it twice.
func (l *Loop) Subscribe(fn Listener) {
	l.mu.Lock()
	start := len(l.listeners) == 0 && !l.running && !l.stopped
	l.listeners = append(l.listeners, fn)
	if start {
		l.running = true
	}
	l.mu.Unlock()

	if start {
		l.log.Info("work loop started",
			"window", l.synth.Config().WindowSize(),
			"points", l.synth.Config().PointCount())
		l.runCycle()
	}
}

// Stop prevents any further cycle from being scheduled. A cycle already in
// flight completes. Stop is terminal: later subscriptions never restart the
// loop.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	l.running = false
	l.log.Info("work loop stopped", "cycles", l.cycles)
}

// Running reports whether cycles are being scheduled.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Cycles returns the number of completed cycles.
func (l *Loop) Cycles() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cycles
}

// Listeners returns the number of registered listeners.
func (l *Loop) Listeners() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.listeners)
}

func (l *Loop) runCycle() {
	if l.cycle() {
		l.sched.ScheduleNext(l.runCycle)
	}
}

// cycle runs sample -> synthesize -> dispatch once and reports whether the
// next frame should be scheduled.
func (l *Loop) cycle() bool {
	l.cycleMu.Lock()
	defer l.cycleMu.Unlock()

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.mu.Unlock()

	l.sampler.Refresh(l.window)
	cells := l.synth.Synthesize(l.window)

	l.mu.Lock()
	listeners := l.listeners
	l.mu.Unlock()

	// Listener failures are not isolated; a panic unwinds into the scheduler.
	for _, fn := range listeners {
		fn(cells)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.cycles++
	return !l.stopped
}
