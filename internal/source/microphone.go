package source

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"syscall"

	"github.com/gordonklaus/portaudio"
)

// Fixed processing applied to the live microphone.
const (
	micThresholdDB = -24
	micKneeDB      = 0
	micRatio       = 12
	// micMakeupGain compensates for the compressor's attenuation.
	micMakeupGain = 8
	micFrames     = 1024
)

// inputStream is the subset of *portaudio.Stream the microphone uses.
type inputStream interface {
	Start() error
	Stop() error
	Close() error
}

type openInputFunc func(rate float64, frames int, callback func(in []float32)) (inputStream, error)

// Microphone captures the default input device through a compressor and
// makeup gain stage. Acquire reports from a background goroutine.
type Microphone struct {
	rate int
	log  *slog.Logger
	open openInputFunc
}

// NewMicrophone returns a live capture source at rate.
func NewMicrophone(rate int, log *slog.Logger) *Microphone {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	if log == nil {
		log = slog.Default()
	}
	return &Microphone{rate: rate, log: log, open: openPortAudio}
}

func (m *Microphone) Kind() Kind { return KindMicrophone }

func (m *Microphone) Acquire(cb Callback) {
	go func() {
		sig, err := m.acquire()
		if err != nil {
			ae := newAcquireError(err)
			m.log.Error("microphone acquisition failed", "name", ae.Name, "error", ae.Err)
			cb(nil, ae)
			return
		}
		m.log.Info("microphone acquired", "rate", m.rate)
		cb(sig, nil)
	}()
}

func (m *Microphone) acquire() (*micSignal, error) {
	sig := &micSignal{
		rate: m.rate,
		chain: Chain{
			NewCompressor(micThresholdDB, micKneeDB, micRatio, 0, 0, m.rate),
			Gain{Factor: micMakeupGain},
		},
	}

	stream, err := m.open(float64(m.rate), micFrames, sig.process)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("start input: %w", err)
	}
	sig.stream = stream
	return sig, nil
}

type micSignal struct {
	rate   int
	chain  Chain
	stream inputStream

	mu     sync.RWMutex
	w      SampleWriter
	closed bool
}

func (s *micSignal) SampleRate() int { return s.rate }

func (s *micSignal) Connect(w SampleWriter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.w != nil {
		return ErrAlreadyConnected
	}
	s.w = w
	return nil
}

// process runs on the audio callback thread.
func (s *micSignal) process(in []float32) {
	s.chain.Process(in)

	s.mu.RLock()
	w := s.w
	s.mu.RUnlock()
	if w != nil {
		w.WriteSamples(in)
	}
}

func (s *micSignal) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.w = nil
	s.mu.Unlock()

	stopErr := s.stream.Stop()
	closeErr := s.stream.Close()
	return errors.Join(stopErr, closeErr)
}

// paStream owns one PortAudio initialization.
type paStream struct {
	*portaudio.Stream
}

func (s paStream) Close() error {
	err := s.Stream.Close()
	return errors.Join(err, portaudio.Terminate())
}

func openPortAudio(rate float64, frames int, callback func(in []float32)) (inputStream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, classifyPortAudio(err)
	}
	stream, err := portaudio.OpenDefaultStream(1, 0, rate, frames, callback)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, classifyPortAudio(err)
	}
	return paStream{stream}, nil
}

// classifyPortAudio tags host errors with the sentinel matching their cause.
func classifyPortAudio(err error) error {
	switch {
	case errors.Is(err, portaudio.NoDefaultInputDevice),
		errors.Is(err, portaudio.InvalidDevice),
		errors.Is(err, portaudio.InvalidChannelCount):
		return fmt.Errorf("%w: %w", ErrNoDevice, err)
	case errors.Is(err, portaudio.DeviceUnavailable):
		return fmt.Errorf("%w: %w", ErrDeviceBusy, err)
	}
	var host portaudio.UnanticipatedHostError
	if errors.As(err, &host) {
		return fmt.Errorf("%w: %w", classifyHostError(host), err)
	}
	return err
}

// classifyHostError maps host API error codes. ALSA reports negated errno
// values; anything else the host could not explain is a read failure.
func classifyHostError(host portaudio.UnanticipatedHostError) error {
	if host.HostApiType == portaudio.ALSA {
		switch host.Code {
		case -int(syscall.EACCES), -int(syscall.EPERM):
			return ErrPermissionDenied
		case -int(syscall.ENOENT), -int(syscall.ENODEV):
			return ErrNoDevice
		case -int(syscall.EBUSY):
			return ErrDeviceBusy
		}
	}
	return ErrDeviceBusy
}
