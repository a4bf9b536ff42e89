// Package config loads glowgrid settings from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/olivier-w/glowgrid/internal/analyser"
	"github.com/olivier-w/glowgrid/internal/grid"
	"github.com/olivier-w/glowgrid/internal/loop"
	"github.com/olivier-w/glowgrid/internal/source"
)

type Config struct {
	WindowSize      int           `yaml:"window_size"`
	SamplesPerPoint int           `yaml:"samples_per_point"`
	Smoothing       float64       `yaml:"smoothing"`
	FPS             int           `yaml:"fps"`
	Source          SourceConfig  `yaml:"source"`
	Monitor         MonitorConfig `yaml:"monitor"`
	Logging         LoggingConfig `yaml:"logging"`
}

type SourceConfig struct {
	Kind       string  `yaml:"kind"`
	ToneHz     float64 `yaml:"tone_hz"`
	File       string  `yaml:"file"`
	SampleRate int     `yaml:"sample_rate"`
}

type MonitorConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
	JSON  bool   `yaml:"json"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		WindowSize:      grid.DefaultWindowSize,
		SamplesPerPoint: grid.DefaultSamplesPerPoint,
		Smoothing:       analyser.DefaultSmoothing,
		FPS:             loop.DefaultFPS,
		Source: SourceConfig{
			Kind:       source.KindTone.String(),
			ToneHz:     source.DefaultToneHz,
			SampleRate: source.DefaultSampleRate,
		},
		Monitor: MonitorConfig{Volume: 0.8},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Validate checks every setting before any device is touched.
func (c *Config) Validate() error {
	if _, err := c.Grid(); err != nil {
		return err
	}
	if c.Smoothing < 0 || c.Smoothing >= 1 {
		return fmt.Errorf("smoothing %v: %w", c.Smoothing, analyser.ErrInvalidSmoothing)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	kind, err := source.ParseKind(c.Source.Kind)
	if err != nil {
		return err
	}
	if kind == source.KindFile && c.Source.File == "" {
		return errors.New("source kind file needs source.file")
	}
	if c.Source.SampleRate <= 0 {
		return fmt.Errorf("source sample rate must be positive, got %d", c.Source.SampleRate)
	}
	if c.Source.ToneHz <= 0 {
		return fmt.Errorf("source tone frequency must be positive, got %v", c.Source.ToneHz)
	}
	if c.Monitor.Volume < 0 || c.Monitor.Volume > 1 {
		return fmt.Errorf("monitor volume must be within [0, 1], got %v", c.Monitor.Volume)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Grid returns the validated grid layout.
func (c *Config) Grid() (grid.Config, error) {
	return grid.NewConfig(c.WindowSize, c.SamplesPerPoint)
}

// SourceOptions converts the source section for source.New.
func (c *Config) SourceOptions(log *slog.Logger) (source.Options, error) {
	kind, err := source.ParseKind(c.Source.Kind)
	if err != nil {
		return source.Options{}, err
	}
	return source.Options{
		Kind:       kind,
		SampleRate: c.Source.SampleRate,
		ToneHz:     c.Source.ToneHz,
		Path:       c.Source.File,
		Logger:     log,
	}, nil
}

// Level parses logging.level.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.Logging.Level))); err != nil {
		return 0, fmt.Errorf("logging level: %w", err)
	}
	return lvl, nil
}
