// Package grid reduces a window of unsigned 8-bit amplitude samples into a
// square brightness grid.
//
// Each column is one data point: the mean of a contiguous slice of the
// window, normalized to [0,1]. Each row stands for an ideal amplitude
// between 0 (row 0) and 1 (last row). A cell is bright when its column's
// data point sits close to its row's amplitude and falls off linearly to
// zero at Spread.
package grid

import "math"

// Synthesizer turns amplitude windows into grids. It holds no state besides
// its Config, so a single value may be shared between goroutines.
type Synthesizer struct {
	cfg Config
}

// NewSynthesizer returns a synthesizer for cfg. It panics if cfg is the zero
// value, which can only happen when NewConfig's error was ignored.
func NewSynthesizer(cfg Config) *Synthesizer {
	if !cfg.valid() {
		panic("grid: synthesizer needs a Config from NewConfig")
	}
	return &Synthesizer{cfg: cfg}
}

// Config returns the synthesizer's sizing.
func (s *Synthesizer) Config() Config { return s.cfg }

// DataPoints averages window into PointCount normalized amplitudes.
// window must hold exactly WindowSize bytes.
func (s *Synthesizer) DataPoints(window []byte) []float64 {
	points := make([]float64, s.cfg.pointCount)
	s.dataPointsInto(points, window)
	return points
}

func (s *Synthesizer) dataPointsInto(points []float64, window []byte) {
	s.checkWindow(window)
	spp := s.cfg.samplesPerPoint
	if spp == 1 {
		for i := range points {
			points[i] = float64(window[i]) / 255
		}
		return
	}

	for i := range points {
		sum := 0
		for _, b := range window[i*spp : (i+1)*spp] {
			sum += int(b)
		}
		points[i] = float64(sum) / float64(spp) / 255
	}
}

// Synthesize produces a fresh PointCount x PointCount grid for window,
// flattened row-major (index row*PointCount + col).
func (s *Synthesizer) Synthesize(window []byte) []float64 {
	n := s.cfg.pointCount
	points := make([]float64, n)
	s.dataPointsInto(points, window)

	cells := make([]float64, n*n)
	for row, target := range s.cfg.rowAmplitudes {
		base := row * n
		for col, d := range points {
			cells[base+col] = s.brightness(d, target)
		}
	}
	return cells
}

// Brightness is the falloff applied to one cell: 1 when the data point equals
// the row amplitude, 0 at or beyond Spread.
func (s *Synthesizer) Brightness(dataPoint, rowAmplitude float64) float64 {
	return s.brightness(dataPoint, rowAmplitude)
}

func (s *Synthesizer) brightness(d, target float64) float64 {
	spread := s.cfg.spread
	distance := math.Abs(d - target)
	// With a single cell the spread covers the whole range.
	if s.cfg.pointCount == 1 {
		if distance <= spread {
			return 1
		}
		return 0
	}
	return clamp01((spread - distance) / spread)
}

func (s *Synthesizer) checkWindow(window []byte) {
	if len(window) != s.cfg.windowSize {
		panic("grid: window length does not match configured window size")
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
