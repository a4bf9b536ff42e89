package source

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"tone", KindTone, false},
		{"", KindTone, false},
		{"Microphone", KindMicrophone, false},
		{"mic", KindMicrophone, false},
		{" file ", KindFile, false},
		{"radio", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownKind) {
					t.Fatalf("expected ErrUnknownKind, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNewSelectsVariant(t *testing.T) {
	for _, kind := range []Kind{KindTone, KindMicrophone, KindFile} {
		src, err := New(Options{Kind: kind, Path: "song.wav"})
		if err != nil {
			t.Fatalf("%v: %v", kind, err)
		}
		if src.Kind() != kind {
			t.Fatalf("expected %v, got %v", kind, src.Kind())
		}
	}

	if _, err := New(Options{Kind: KindFile}); err == nil {
		t.Fatal("expected error for file source without path")
	}
	if _, err := New(Options{Kind: Kind(9)}); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestAcquireErrorClassification(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrPermissionDenied, NameNotAllowed},
		{ErrNoDevice, NameNotFound},
		{ErrDeviceBusy, NameNotReadable},
		{errors.New("something else"), NameAbort},
	}
	for _, tt := range tests {
		ae := newAcquireError(tt.err)
		if ae.Name != tt.want {
			t.Fatalf("%v: expected %s, got %s", tt.err, tt.want, ae.Name)
		}
		if !errors.Is(ae, tt.err) {
			t.Fatalf("%v: expected AcquireError to unwrap to its cause", tt.err)
		}
	}

	inner := &AcquireError{Name: NameNotFound, Err: errors.New("gone")}
	if got := newAcquireError(inner); got != inner {
		t.Fatal("expected an existing AcquireError to pass through")
	}
}

// collector records every block written to it.
type collector struct {
	mu      sync.Mutex
	samples []float32
	blocks  chan struct{}
}

func newCollector() *collector {
	return &collector{blocks: make(chan struct{}, 64)}
}

func (c *collector) WriteSamples(s []float32) {
	c.mu.Lock()
	c.samples = append(c.samples, s...)
	c.mu.Unlock()
	select {
	case c.blocks <- struct{}{}:
	default:
	}
}

func (c *collector) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.blocks:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for samples")
	}
}

func (c *collector) snapshot() []float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]float32, len(c.samples))
	copy(out, c.samples)
	return out
}

func TestToneAcquiresSynchronously(t *testing.T) {
	tone := NewTone(0, 0, nil)
	if tone.Frequency() != DefaultToneHz {
		t.Fatalf("expected default frequency, got %v", tone.Frequency())
	}

	var sig Signal
	calls := 0
	tone.Acquire(func(s Signal, err error) {
		calls++
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sig = s
	})
	if calls != 1 || sig == nil {
		t.Fatalf("expected one synchronous callback with a signal, got %d", calls)
	}
	defer sig.Close()

	if sig.SampleRate() != DefaultSampleRate {
		t.Fatalf("expected %d Hz, got %d", DefaultSampleRate, sig.SampleRate())
	}

	c := newCollector()
	if err := sig.Connect(c); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := sig.Connect(c); !errors.Is(err, ErrAlreadyConnected) {
		t.Fatalf("expected ErrAlreadyConnected, got %v", err)
	}
	c.wait(t)

	got := c.snapshot()
	step := 2 * math.Pi * DefaultToneHz / DefaultSampleRate
	for i := 0; i < 32; i++ {
		want := math.Sin(step * float64(i))
		if math.Abs(float64(got[i])-want) > 1e-5 {
			t.Fatalf("sample %d: expected %v, got %v", i, want, got[i])
		}
	}
}

func TestToneLogsThroughOptionsLogger(t *testing.T) {
	var buf bytes.Buffer
	src, err := New(Options{Kind: KindTone, Logger: slog.New(slog.NewTextHandler(&buf, nil))})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var sig Signal
	src.Acquire(func(s Signal, _ error) { sig = s })
	defer sig.Close()

	if !bytes.Contains(buf.Bytes(), []byte("tone acquired")) {
		t.Fatalf("expected acquisition to be logged through the configured logger, got %q", buf.String())
	}
}

func TestSignalConnectAfterClose(t *testing.T) {
	var sig Signal
	NewTone(440, 8000, quietLogger()).Acquire(func(s Signal, _ error) { sig = s })
	if err := sig.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := sig.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := sig.Connect(newCollector()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestOscillatorKeepsPhaseAcrossBlocks(t *testing.T) {
	step := 2 * math.Pi * 100 / 8000
	osc := &oscillator{step: step}
	a := make([]float32, 7)
	b := make([]float32, 7)
	osc.fill(a)
	osc.fill(b)
	for i, v := range append(a, b...) {
		want := math.Sin(step * float64(i))
		if math.Abs(float64(v)-want) > 1e-5 {
			t.Fatalf("sample %d: expected %v, got %v", i, want, v)
		}
	}
}

func TestTeeWritesInOrder(t *testing.T) {
	var order []string
	tee := Tee{
		SampleWriterFunc(func([]float32) { order = append(order, "a") }),
		SampleWriterFunc(func([]float32) { order = append(order, "b") }),
	}
	tee.WriteSamples([]float32{0})
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("unexpected order %v", order)
	}
}
