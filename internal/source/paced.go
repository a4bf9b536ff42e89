package source

import (
	"log/slog"
	"sync"
	"time"
)

// blockSize is the number of samples produced per paced tick.
const blockSize = 1024

// pacedSignal delivers blocks from a generator at real-time speed.
type pacedSignal struct {
	rate    int
	next    func(dst []float32) error
	release func() error
	log     *slog.Logger

	mu        sync.Mutex
	connected bool
	closed    bool
	stop      chan struct{}
	done      chan struct{}
}

func newPacedSignal(rate int, next func([]float32) error, release func() error, log *slog.Logger) *pacedSignal {
	return &pacedSignal{
		rate:    rate,
		next:    next,
		release: release,
		log:     log,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (p *pacedSignal) SampleRate() int { return p.rate }

func (p *pacedSignal) Connect(w SampleWriter) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if p.connected {
		return ErrAlreadyConnected
	}
	p.connected = true
	go p.run(w)
	return nil
}

func (p *pacedSignal) run(w SampleWriter) {
	defer close(p.done)

	period := time.Duration(float64(time.Second) * blockSize / float64(p.rate))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	buf := make([]float32, blockSize)
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
		}
		if err := p.next(buf); err != nil {
			p.log.Error("signal ended", "error", err)
			return
		}
		w.WriteSamples(buf)
	}
}

func (p *pacedSignal) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	connected := p.connected
	close(p.stop)
	p.mu.Unlock()

	if connected {
		<-p.done
	}
	if p.release != nil {
		return p.release()
	}
	return nil
}
