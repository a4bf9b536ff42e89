// Package monitor plays a connected signal through the default audio output.
package monitor

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

const (
	channelCount   = 1
	bytesPerSample = 4 // float32
	// maxLatencySamples bounds queued audio; older samples are dropped first.
	maxLatencySamples = 8192
)

var (
	globalOtoCtx  *oto.Context
	globalOtoRate int
	otoOnce       sync.Once
	otoInitErr    error
)

// initOto creates the process-wide output context. Its sample rate is fixed
// by the first caller.
func initOto(rate int) (*oto.Context, int, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   rate,
			ChannelCount: channelCount,
			Format:       oto.FormatFloat32LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
			globalOtoRate = rate
		}
	})
	return globalOtoCtx, globalOtoRate, otoInitErr
}

// Output is a source.SampleWriter that plays everything written to it.
type Output struct {
	queue  *sampleQueue
	player *oto.Player

	mu     sync.Mutex
	volume float64
	muted  bool
	closed bool
}

// New opens the audio output for a signal at rate.
func New(rate int, volume float64) (*Output, error) {
	ctx, ctxRate, err := initOto(rate)
	if err != nil {
		return nil, err
	}
	if ctxRate != rate {
		return nil, &RateError{Want: rate, Have: ctxRate}
	}

	o := &Output{
		queue:  newSampleQueue(maxLatencySamples),
		volume: clampVolume(volume),
	}
	o.player = ctx.NewPlayer(o.queue)
	o.player.SetVolume(o.volume)
	o.player.Play()
	return o, nil
}

// RateError is returned when the output context already runs at another rate.
type RateError struct {
	Want, Have int
}

func (e *RateError) Error() string {
	return fmt.Sprintf("monitor: output runs at %d Hz, signal needs %d Hz", e.Have, e.Want)
}

func (o *Output) WriteSamples(samples []float32) {
	o.queue.push(samples)
}

// Volume returns the current volume (0.0 to 1.0).
func (o *Output) Volume() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (o *Output) SetVolume(v float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.volume = clampVolume(v)
	if !o.muted {
		o.player.SetVolume(o.volume)
	}
}

// ToggleMute silences the output without losing the volume setting.
func (o *Output) ToggleMute() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.muted = !o.muted
	if o.muted {
		o.player.SetVolume(0)
	} else {
		o.player.SetVolume(o.volume)
	}
	return o.muted
}

// Muted reports whether the output is muted.
func (o *Output) Muted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.muted
}

// Close stops playback.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	o.queue.close()
	o.player.Pause()
	return o.player.Close()
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// sampleQueue is the io.Reader oto pulls from. Reads block until samples
// arrive or the queue is closed.
type sampleQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	samples []float32
	max     int
	closed  bool
}

func newSampleQueue(max int) *sampleQueue {
	q := &sampleQueue{max: max}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *sampleQueue) push(samples []float32) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.samples = append(q.samples, samples...)
	if over := len(q.samples) - q.max; over > 0 {
		q.samples = q.samples[over:]
	}
	q.cond.Signal()
}

func (q *sampleQueue) Read(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.samples) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.samples) == 0 {
		return 0, io.EOF
	}

	n := len(p) / bytesPerSample
	if n > len(q.samples) {
		n = len(q.samples)
	}
	for i := range n {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(q.samples[i]))
	}
	q.samples = q.samples[n:]
	return n * bytesPerSample, nil
}

func (q *sampleQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}
