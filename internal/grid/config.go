package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWindow is returned when the window size or samples per point is not positive.
	ErrInvalidWindow = errors.New("window size and samples per point must be positive")
	// ErrUnevenWindow is returned when samples per point does not divide the window size.
	ErrUnevenWindow = errors.New("samples per point must evenly divide the window size")
)

// Default sizing used when nothing else is configured.
const (
	DefaultWindowSize      = 2048
	DefaultSamplesPerPoint = 64
)

// Config is the immutable sizing of one synthesizer. Build it with NewConfig.
type Config struct {
	windowSize      int
	samplesPerPoint int
	pointCount      int
	spread          float64
	rowAmplitudes   []float64
}

// NewConfig validates the window layout and precomputes the derived tables.
func NewConfig(windowSize, samplesPerPoint int) (Config, error) {
	if windowSize <= 0 || samplesPerPoint <= 0 {
		return Config{}, fmt.Errorf("window %d, samples per point %d: %w", windowSize, samplesPerPoint, ErrInvalidWindow)
	}
	if windowSize%samplesPerPoint != 0 {
		return Config{}, fmt.Errorf("window %d, samples per point %d: %w", windowSize, samplesPerPoint, ErrUnevenWindow)
	}

	points := windowSize / samplesPerPoint
	rows := make([]float64, points)
	// A single row has nothing to interpolate against; it sits at 0.
	if points > 1 {
		last := float64(points - 1)
		for r := range rows {
			rows[r] = float64(r) / last
		}
	}

	return Config{
		windowSize:      windowSize,
		samplesPerPoint: samplesPerPoint,
		pointCount:      points,
		spread:          2 / float64(points),
		rowAmplitudes:   rows,
	}, nil
}

// MustConfig is like NewConfig but panics on an invalid layout.
func MustConfig(windowSize, samplesPerPoint int) Config {
	cfg, err := NewConfig(windowSize, samplesPerPoint)
	if err != nil {
		panic(err)
	}
	return cfg
}

// DefaultConfig returns the 2048/64 layout (32x32 grid).
func DefaultConfig() Config {
	return MustConfig(DefaultWindowSize, DefaultSamplesPerPoint)
}

func (c Config) WindowSize() int      { return c.windowSize }
func (c Config) SamplesPerPoint() int { return c.samplesPerPoint }
func (c Config) PointCount() int      { return c.pointCount }
func (c Config) Spread() float64      { return c.spread }

// CellCount is the number of entries in every produced grid.
func (c Config) CellCount() int { return c.pointCount * c.pointCount }

// RowAmplitudes returns a copy of the ideal amplitude each row represents.
func (c Config) RowAmplitudes() []float64 {
	out := make([]float64, len(c.rowAmplitudes))
	copy(out, c.rowAmplitudes)
	return out
}

func (c Config) valid() bool { return c.pointCount > 0 }
