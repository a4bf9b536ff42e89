package source

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/audpbx/audio"
)

var errEmptyFile = errors.New("file contains no audio")

// File plays a decoded audio file as a mono signal, looping at the end.
type File struct {
	path string
	rate int
	log  *slog.Logger
}

// NewFile returns a file source delivering at rate.
func NewFile(path string, rate int, log *slog.Logger) *File {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	if log == nil {
		log = slog.Default()
	}
	return &File{path: path, rate: rate, log: log}
}

func (f *File) Kind() Kind { return KindFile }

// Path returns the file being played.
func (f *File) Path() string { return f.path }

func (f *File) Acquire(cb Callback) {
	go func() {
		r := &loopingReader{open: f.open}
		if err := r.rewind(); err != nil {
			ae := newAcquireError(err)
			f.log.Error("file acquisition failed", "path", f.path, "name", ae.Name, "error", ae.Err)
			cb(nil, ae)
			return
		}
		f.log.Info("file acquired", "path", f.path, "rate", f.rate)
		cb(newPacedSignal(f.rate, r.fill, r.close, f.log), nil)
	}()
}

// open decodes the file and adapts it to a mono stream at f.rate.
func (f *File) open() (audio.Source, error) {
	src, err := decodeFile(f.path)
	if err != nil {
		return nil, err
	}
	var out audio.Source = audio.NewMonoMixer(src)
	if out.SampleRate() != f.rate {
		out = audio.NewResampler(out, f.rate)
	}
	return out, nil
}

// loopingReader restarts its source at EOF.
type loopingReader struct {
	open      func() (audio.Source, error)
	src       audio.Source
	sinceOpen int
}

func (r *loopingReader) rewind() error {
	if r.src != nil {
		_ = r.src.Close()
		r.src = nil
	}
	src, err := r.open()
	if err != nil {
		return err
	}
	r.src = src
	r.sinceOpen = 0
	return nil
}

func (r *loopingReader) fill(dst []float32) error {
	filled := 0
	for filled < len(dst) {
		n, err := r.src.ReadSamples(dst[filled:])
		filled += n
		r.sinceOpen += n

		switch {
		case err == nil && n > 0:
		case err == nil, errors.Is(err, io.EOF):
			if r.sinceOpen == 0 {
				return errEmptyFile
			}
			if err := r.rewind(); err != nil {
				return fmt.Errorf("restart file: %w", err)
			}
		default:
			return err
		}
	}
	return nil
}

func (r *loopingReader) close() error {
	if r.src == nil {
		return nil
	}
	err := r.src.Close()
	r.src = nil
	return err
}
