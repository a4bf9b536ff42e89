package analyser

import (
	"errors"
	"testing"
)

func TestNewValidatesOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"default", Options{WindowSize: 2048, Smoothing: DefaultSmoothing}, false},
		{"zero_smoothing", Options{WindowSize: 8}, false},
		{"no_window", Options{WindowSize: 0}, true},
		{"smoothing_one", Options{WindowSize: 8, Smoothing: 1}, true},
		{"negative_smoothing", Options{WindowSize: 8, Smoothing: -0.1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.WindowSize() != tt.opts.WindowSize || a.Smoothing() != tt.opts.Smoothing {
				t.Fatalf("options not retained: %+v", tt.opts)
			}
		})
	}

	_, err := New(Options{WindowSize: 8, Smoothing: 2})
	if !errors.Is(err, ErrInvalidSmoothing) {
		t.Fatalf("expected ErrInvalidSmoothing, got %v", err)
	}
}

func TestToByte(t *testing.T) {
	tests := []struct {
		in   float32
		want byte
	}{
		{0, 128},
		{-1, 0},
		{1, 255},
		{0.5, 192},
		{-0.5, 64},
		{3, 255},
		{-3, 0},
	}
	for _, tt := range tests {
		if got := ToByte(tt.in); got != tt.want {
			t.Fatalf("ToByte(%v): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestRefreshWithoutSignalIsSilent(t *testing.T) {
	a, _ := New(Options{WindowSize: 4})
	buf := []byte{1, 2, 3, 4}
	a.Refresh(buf)
	for i, b := range buf {
		if b != 128 {
			t.Fatalf("byte %d: expected silence, got %d", i, b)
		}
	}
}

func TestRefreshPadsShortHistory(t *testing.T) {
	a, _ := New(Options{WindowSize: 4})
	a.WriteSamples([]float32{1, -1})

	buf := make([]byte, 4)
	a.Refresh(buf)
	want := []byte{128, 128, 255, 0}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, buf)
		}
	}
}

func TestRefreshKeepsMostRecentWindow(t *testing.T) {
	a, _ := New(Options{WindowSize: 3})
	a.WriteSamples([]float32{-1, -1})
	a.WriteSamples([]float32{0, 0.5, 1})

	buf := make([]byte, 3)
	a.Refresh(buf)
	want := []byte{128, 192, 255}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, buf)
		}
	}

	// Oversized writes keep only their tail.
	a.WriteSamples([]float32{1, 1, 1, 1, -1, 0})
	a.Refresh(buf)
	want = []byte{255, 0, 128}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, buf)
		}
	}
}
