package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/olivier-w/glowgrid/internal/grid"
	"github.com/olivier-w/glowgrid/internal/source"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	g, _ := cfg.Grid()
	if g.PointCount() != 32 {
		t.Fatalf("expected 32 points, got %d", g.PointCount())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
window_size: 1024
samples_per_point: 16
fps: 30
source:
  kind: file
  file: song.flac
monitor:
  enabled: true
logging:
  level: debug
  json: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.WindowSize != 1024 || cfg.SamplesPerPoint != 16 || cfg.FPS != 30 {
		t.Fatalf("unexpected sizing: %+v", cfg)
	}
	if cfg.Smoothing != 0.1 {
		t.Fatalf("expected default smoothing to survive, got %v", cfg.Smoothing)
	}
	if !cfg.Monitor.Enabled || cfg.Monitor.Volume != 0.8 {
		t.Fatalf("unexpected monitor config: %+v", cfg.Monitor)
	}
	lvl, err := cfg.Level()
	if err != nil || lvl != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v (%v)", lvl, err)
	}

	opts, err := cfg.SourceOptions(nil)
	if err != nil {
		t.Fatalf("SourceOptions: %v", err)
	}
	if opts.Kind != source.KindFile || opts.Path != "song.flac" {
		t.Fatalf("unexpected source options: %+v", opts)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"uneven_window", func(c *Config) { c.SamplesPerPoint = 3 }},
		{"smoothing", func(c *Config) { c.Smoothing = 1 }},
		{"fps", func(c *Config) { c.FPS = 0 }},
		{"kind", func(c *Config) { c.Source.Kind = "radio" }},
		{"file_without_path", func(c *Config) { c.Source.Kind = "file" }},
		{"level", func(c *Config) { c.Logging.Level = "loud" }},
		{"zero_sample_rate", func(c *Config) { c.Source.SampleRate = 0 }},
		{"negative_sample_rate", func(c *Config) { c.Source.SampleRate = -8000 }},
		{"zero_tone_hz", func(c *Config) { c.Source.ToneHz = 0 }},
		{"loud_volume", func(c *Config) { c.Monitor.Volume = 1.5 }},
		{"negative_volume", func(c *Config) { c.Monitor.Volume = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := Default()
	cfg.SamplesPerPoint = 3
	if err := cfg.Validate(); !errors.Is(err, grid.ErrUnevenWindow) {
		t.Fatalf("expected ErrUnevenWindow, got %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "window_size: [")); err == nil {
		t.Fatal("expected parse error")
	}
}
