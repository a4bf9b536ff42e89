// Package source provides the audio signals the analyser listens to.
//
// A Source is a tagged variant selected at construction: a synthetic tone,
// the live microphone, or a decoded file. All of them hand back a Signal
// through a one-shot callback; connecting that Signal to a SampleWriter is a
// one-time wiring step.
package source

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultSampleRate is the rate every signal is delivered at unless configured.
const DefaultSampleRate = 44100

var (
	// ErrAlreadyConnected is returned by Connect on an already wired signal.
	ErrAlreadyConnected = errors.New("signal already connected")
	// ErrClosed is returned by Connect after Close.
	ErrClosed = errors.New("signal closed")
	// ErrUnknownKind is returned for an unrecognized source kind.
	ErrUnknownKind = errors.New("unknown source kind")

	ErrPermissionDenied = errors.New("permission denied")
	ErrNoDevice         = errors.New("no capture device")
	ErrDeviceBusy       = errors.New("capture device unavailable")
)

// Category names carried by AcquireError.
const (
	NameNotAllowed  = "NotAllowedError"
	NameNotFound    = "NotFoundError"
	NameNotReadable = "NotReadableError"
	NameAbort       = "AbortError"
)

// AcquireError reports why a source could not produce a signal. Name is the
// category shown to the user.
type AcquireError struct {
	Name string
	Err  error
}

func (e *AcquireError) Error() string {
	if e.Err == nil {
		return e.Name
	}
	return e.Name + ": " + e.Err.Error()
}

func (e *AcquireError) Unwrap() error { return e.Err }

// newAcquireError classifies err by the sentinel it wraps.
func newAcquireError(err error) *AcquireError {
	var ae *AcquireError
	if errors.As(err, &ae) {
		return ae
	}
	name := NameAbort
	switch {
	case errors.Is(err, ErrPermissionDenied):
		name = NameNotAllowed
	case errors.Is(err, ErrNoDevice):
		name = NameNotFound
	case errors.Is(err, ErrDeviceBusy):
		name = NameNotReadable
	}
	return &AcquireError{Name: name, Err: err}
}

// SampleWriter consumes mono float32 samples in [-1, 1]. Implementations
// must not retain samples after returning.
type SampleWriter interface {
	WriteSamples(samples []float32)
}

// SampleWriterFunc adapts a function to SampleWriter.
type SampleWriterFunc func(samples []float32)

func (f SampleWriterFunc) WriteSamples(samples []float32) { f(samples) }

// Tee fans every block out to each writer in order.
type Tee []SampleWriter

func (t Tee) WriteSamples(samples []float32) {
	for _, w := range t {
		w.WriteSamples(samples)
	}
}

// Signal is a connectable mono audio stream.
type Signal interface {
	SampleRate() int
	// Connect starts delivering samples to w. It may be called once.
	Connect(w SampleWriter) error
	Close() error
}

// Callback receives the outcome of Acquire. Exactly one of sig and err is
// non-nil. A non-nil err is always an *AcquireError.
type Callback func(sig Signal, err error)

// Source acquires a signal, synchronously or in the background, and reports
// it through cb exactly once. There is no retry and no cancellation.
type Source interface {
	Kind() Kind
	Acquire(cb Callback)
}

// Kind tags the source variant.
type Kind uint8

const (
	KindTone Kind = iota
	KindMicrophone
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindTone:
		return "tone"
	case KindMicrophone:
		return "microphone"
	case KindFile:
		return "file"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind accepts "tone", "microphone" (or "mic") and "file".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tone", "":
		return KindTone, nil
	case "microphone", "mic":
		return KindMicrophone, nil
	case "file":
		return KindFile, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownKind)
}

// Options selects and parameterizes a source.
type Options struct {
	Kind       Kind
	SampleRate int     // defaults to DefaultSampleRate
	ToneHz     float64 // tone only, defaults to DefaultToneHz
	Path       string  // file only
	Logger     *slog.Logger
}

// New builds the source variant named by opts.Kind.
func New(opts Options) (Source, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	switch opts.Kind {
	case KindTone:
		return NewTone(opts.ToneHz, opts.SampleRate, opts.Logger), nil
	case KindMicrophone:
		return NewMicrophone(opts.SampleRate, opts.Logger), nil
	case KindFile:
		if opts.Path == "" {
			return nil, errors.New("file source needs a path")
		}
		return NewFile(opts.Path, opts.SampleRate, opts.Logger), nil
	}
	return nil, fmt.Errorf("%v: %w", opts.Kind, ErrUnknownKind)
}
