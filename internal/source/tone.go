package source

import (
	"log/slog"
	"math"
)

// DefaultToneHz is the frequency of the synthetic tone.
const DefaultToneHz = 16

// Tone is a continuous sine oscillator. Acquire never fails and reports
// synchronously.
type Tone struct {
	hz   float64
	rate int
	log  *slog.Logger
}

// NewTone returns a tone source at hz, sampled at rate.
func NewTone(hz float64, rate int, log *slog.Logger) *Tone {
	if hz <= 0 {
		hz = DefaultToneHz
	}
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	if log == nil {
		log = slog.Default()
	}
	return &Tone{hz: hz, rate: rate, log: log}
}

func (t *Tone) Kind() Kind { return KindTone }

// Frequency returns the oscillator frequency in Hz.
func (t *Tone) Frequency() float64 { return t.hz }

func (t *Tone) Acquire(cb Callback) {
	osc := &oscillator{step: 2 * math.Pi * t.hz / float64(t.rate)}
	t.log.Info("tone acquired", "hz", t.hz, "rate", t.rate)
	cb(newPacedSignal(t.rate, osc.fill, nil, t.log), nil)
}

// oscillator keeps phase continuous across blocks.
type oscillator struct {
	phase float64
	step  float64
}

func (o *oscillator) fill(dst []float32) error {
	for i := range dst {
		dst[i] = float32(math.Sin(o.phase))
		o.phase += o.step
		if o.phase >= 2*math.Pi {
			o.phase -= 2 * math.Pi
		}
	}
	return nil
}
