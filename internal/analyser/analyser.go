// Package analyser snapshots the most recent time-domain samples of a
// connected signal as unsigned 8-bit amplitudes centered at 128.
package analyser

import (
	"errors"
	"fmt"
	"math"
)

// DefaultSmoothing is the smoothing time constant used when none is set.
const DefaultSmoothing = 0.1

// ErrInvalidSmoothing is returned for a smoothing constant outside [0, 1).
var ErrInvalidSmoothing = errors.New("smoothing must be in [0, 1)")

// Options configures an Analyser.
type Options struct {
	WindowSize int
	// Smoothing averages spectral frames over time. Time-domain windows,
	// the only output of this analyser, are never smoothed.
	Smoothing float64
}

// Analyser receives samples as a source.SampleWriter and serves
// loop.Sampler refreshes.
type Analyser struct {
	windowSize int
	smoothing  float64
	ring       *ringBuffer
	scratch    []float32
}

// New returns an analyser holding the last WindowSize samples.
func New(opts Options) (*Analyser, error) {
	if opts.WindowSize <= 0 {
		return nil, fmt.Errorf("window size %d must be positive", opts.WindowSize)
	}
	if opts.Smoothing < 0 || opts.Smoothing >= 1 || math.IsNaN(opts.Smoothing) {
		return nil, fmt.Errorf("smoothing %v: %w", opts.Smoothing, ErrInvalidSmoothing)
	}
	return &Analyser{
		windowSize: opts.WindowSize,
		smoothing:  opts.Smoothing,
		ring:       newRingBuffer(opts.WindowSize),
		scratch:    make([]float32, opts.WindowSize),
	}, nil
}

func (a *Analyser) WindowSize() int     { return a.windowSize }
func (a *Analyser) Smoothing() float64 { return a.smoothing }

// WriteSamples records samples from the connected signal.
func (a *Analyser) WriteSamples(samples []float32) {
	a.ring.write(samples)
}

// Refresh overwrites buf with the most recent len(buf) samples. Missing
// history reads as silence (128). buf may not exceed WindowSize; Refresh is
// not safe for concurrent callers.
func (a *Analyser) Refresh(buf []byte) {
	if len(buf) > a.windowSize {
		panic("analyser: refresh buffer larger than window")
	}
	window := a.scratch[:len(buf)]
	for i := range window {
		window[i] = 0
	}
	a.ring.latest(window)
	for i, s := range window {
		buf[i] = ToByte(s)
	}
}

// ToByte maps a sample in [-1, 1] to 0..255 with silence at 128. Values
// outside the range clip.
func ToByte(s float32) byte {
	v := math.Floor(128 * (1 + float64(s)))
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 255:
		return 255
	}
	return byte(v)
}
