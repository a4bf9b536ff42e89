package source

import (
	"math"
	"time"
)

// Processor transforms a block of samples in place.
type Processor interface {
	Process(samples []float32)
}

// Chain runs processors in order.
type Chain []Processor

func (c Chain) Process(samples []float32) {
	for _, p := range c {
		p.Process(samples)
	}
}

// Compressor is a feed-forward dynamics compressor working on the
// instantaneous sample level in dBFS. With zero attack and release the gain
// follows the input sample by sample.
type Compressor struct {
	ThresholdDB float64
	KneeDB      float64
	Ratio       float64

	attackCoef  float64
	releaseCoef float64
	envDB       float64
}

// NewCompressor returns a compressor; attack and release are converted to
// one-pole smoothing coefficients at rate.
func NewCompressor(thresholdDB, kneeDB, ratio float64, attack, release time.Duration, rate int) *Compressor {
	if ratio < 1 {
		ratio = 1
	}
	return &Compressor{
		ThresholdDB: thresholdDB,
		KneeDB:      math.Max(kneeDB, 0),
		Ratio:       ratio,
		attackCoef:  smoothingCoef(attack, rate),
		releaseCoef: smoothingCoef(release, rate),
		envDB:       silenceDB,
	}
}

const silenceDB = -120.0

func smoothingCoef(d time.Duration, rate int) float64 {
	if d <= 0 || rate <= 0 {
		return 0
	}
	return math.Exp(-1 / (d.Seconds() * float64(rate)))
}

func (c *Compressor) Process(samples []float32) {
	for i, s := range samples {
		level := math.Abs(float64(s))
		inDB := silenceDB
		if level > 1e-6 {
			inDB = 20 * math.Log10(level)
		}

		coef := c.releaseCoef
		if inDB > c.envDB {
			coef = c.attackCoef
		}
		c.envDB = coef*c.envDB + (1-coef)*inDB

		gainDB := c.curve(c.envDB) - c.envDB
		if gainDB != 0 {
			samples[i] = float32(float64(s) * math.Pow(10, gainDB/20))
		}
	}
}

// curve maps an input level to the compressed output level.
func (c *Compressor) curve(in float64) float64 {
	over := in - c.ThresholdDB
	switch {
	case c.KneeDB > 0 && 2*math.Abs(over) <= c.KneeDB:
		x := over + c.KneeDB/2
		return in + (1/c.Ratio-1)*x*x/(2*c.KneeDB)
	case over > 0:
		return c.ThresholdDB + over/c.Ratio
	default:
		return in
	}
}

// Gain multiplies every sample by Factor.
type Gain struct {
	Factor float32
}

func (g Gain) Process(samples []float32) {
	for i := range samples {
		samples[i] *= g.Factor
	}
}
