package ui

import (
	"strings"
	"testing"
	"time"
)

func TestShadeFor(t *testing.T) {
	tests := []struct {
		in   float64
		want rune
	}{
		{-1, ' '},
		{0, ' '},
		{0.5, '▒'},
		{1, '█'},
		{2, '█'},
	}
	for _, tt := range tests {
		if got := shadeFor(tt.in); got != tt.want {
			t.Fatalf("shadeFor(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderGridPaintsRowZeroAtBottom(t *testing.T) {
	cells := []float64{
		1, 1, // row 0
		0, 0, // row 1
	}
	got := renderGrid(cells, 2, colorNone)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "    " {
		t.Fatalf("expected dark top row, got %q", lines[0])
	}
	if lines[1] != "████" {
		t.Fatalf("expected lit bottom row, got %q", lines[1])
	}
}

func TestRenderGridShortInput(t *testing.T) {
	if got := renderGrid([]float64{1}, 2, colorNone); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
}

func TestRenderGridResetsColorPerRow(t *testing.T) {
	got := renderGrid([]float64{1}, 1, colorTrueColor)
	if !strings.HasPrefix(got, "\x1b[38;2;255;255;255m") {
		t.Fatalf("expected truecolor prefix, got %q", got)
	}
	if !strings.HasSuffix(got, "\x1b[0m") {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestDetectColorProfile(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want colorProfile
	}{
		{"no color", map[string]string{"NO_COLOR": "1", "COLORTERM": "truecolor"}, colorNone},
		{"truecolor", map[string]string{"COLORTERM": "truecolor", "TERM": "xterm"}, colorTrueColor},
		{"256", map[string]string{"TERM": "xterm-256color"}, colorANSI256},
		{"dumb", map[string]string{"TERM": "dumb"}, colorNone},
		{"basic", map[string]string{"TERM": "xterm"}, colorANSI16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				v, ok := tt.env[k]
				return v, ok
			}
			if got := detectColorProfile(lookup); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGlowColorEndpoints(t *testing.T) {
	if got := glowColor(0); got != glowPalette[0] {
		t.Fatalf("expected darkest stop, got %+v", got)
	}
	if got := glowColor(1); got != glowPalette[len(glowPalette)-1] {
		t.Fatalf("expected brightest stop, got %+v", got)
	}
}

func TestFrameSchedulerFiresLatestOnce(t *testing.T) {
	s := NewFrameScheduler(30)
	if s.fire() {
		t.Fatal("expected nothing to fire")
	}

	var calls []int
	s.ScheduleNext(func() { calls = append(calls, 1) })
	s.ScheduleNext(func() { calls = append(calls, 2) })
	if !s.fire() {
		t.Fatal("expected queued callback to fire")
	}
	if s.fire() {
		t.Fatal("expected callback to fire once")
	}
	if len(calls) != 1 || calls[0] != 2 {
		t.Fatalf("expected only latest callback, got %v", calls)
	}
	if s.FPS() < 29.9 || s.FPS() > 30.1 {
		t.Fatalf("expected 30 fps, got %v", s.FPS())
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-time.Second, "0:00"},
		{0, "0:00"},
		{65 * time.Second, "1:05"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.in); got != tt.want {
			t.Fatalf("formatElapsed(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderStatus(t *testing.T) {
	tests := []struct {
		in   status
		want string
	}{
		{status{cycles: 120, fps: 60, listeners: 2, running: true, monitor: true, volume: 0.8, muted: true}, "running  0:02  frame 120  listeners 2  muted"},
		{status{cycles: 120, fps: 60, listeners: 2, running: true, monitor: true, volume: 0.8}, "running  0:02  frame 120  listeners 2  vol 80%"},
		{status{fps: 60}, "idle  0:00  frame 0  listeners 0"},
	}
	for _, tt := range tests {
		if got := renderStatus(tt.in); got != tt.want {
			t.Fatalf("renderStatus = %q, want %q", got, tt.want)
		}
	}
}
