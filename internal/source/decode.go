package source

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audpbx/audio"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// decodeFile opens path and returns an interleaved float32 source picked by
// file extension.
func decodeFile(path string) (audio.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &AcquireError{Name: NameNotFound, Err: err}
	}

	var src audio.Source
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		src, err = newWAVSource(f)
	case ".mp3":
		src, err = newMP3Source(f)
	case ".ogg":
		src, err = newOGGSource(f)
	case ".flac":
		src, err = newFLACSource(f)
	default:
		err = fmt.Errorf("unsupported format: %s", ext)
	}
	if err != nil {
		f.Close()
		return nil, &AcquireError{Name: NameNotReadable, Err: err}
	}
	return src, nil
}

// --- WAV ---

// wavReadBuffer batches file reads; resamplers pull a frame at a time.
const wavReadBuffer = 64 << 10

type wavSource struct {
	file       *os.File
	pcm        io.Reader
	sampleRate int
	channels   int
	bitDepth   int
	raw        []byte
}

func newWAVSource(f *os.File) (*wavSource, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	// FwdToPCM leaves f at the first PCM byte.
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported WAV bit depth %d", bitDepth)
	}

	return &wavSource{
		file:       f,
		pcm:        io.LimitReader(bufio.NewReaderSize(f, wavReadBuffer), dec.PCMLen()),
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   bitDepth,
	}, nil
}

func (s *wavSource) SampleRate() int { return s.sampleRate }
func (s *wavSource) Channels() int   { return s.channels }
func (s *wavSource) BufSize() int    { return 4096 }
func (s *wavSource) Close() error    { return s.file.Close() }

func (s *wavSource) ReadSamples(dst []float32) (int, error) {
	width := s.bitDepth / 8
	need := len(dst) * width
	if cap(s.raw) < need {
		s.raw = make([]byte, need)
	}
	s.raw = s.raw[:need]

	n, err := io.ReadFull(s.pcm, s.raw)
	samples := n / width
	for i := range samples {
		off := i * width
		switch s.bitDepth {
		case 8:
			// 8-bit WAV is unsigned
			dst[i] = float32(int(s.raw[off])-128) / 128
		case 16:
			dst[i] = float32(int16(binary.LittleEndian.Uint16(s.raw[off:]))) / 32768
		case 24:
			v := int32(s.raw[off]) | int32(s.raw[off+1])<<8 | int32(s.raw[off+2])<<16
			if v&0x800000 != 0 {
				v |= ^0xFFFFFF // sign extend
			}
			dst[i] = float32(v) / 8388608
		case 32:
			dst[i] = float32(int32(binary.LittleEndian.Uint32(s.raw[off:]))) / 2147483648
		}
	}

	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	if samples > 0 && err == io.EOF {
		return samples, nil
	}
	return samples, err
}

// --- MP3 ---

type mp3Source struct {
	file *os.File
	dec  *mp3.Decoder
	raw  []byte
}

func newMP3Source(f *os.File) (*mp3Source, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Source{file: f, dec: dec}, nil
}

func (s *mp3Source) SampleRate() int { return s.dec.SampleRate() }

// go-mp3 always decodes to 16-bit stereo.
func (s *mp3Source) Channels() int { return 2 }
func (s *mp3Source) BufSize() int  { return 4096 }
func (s *mp3Source) Close() error  { return s.file.Close() }

func (s *mp3Source) ReadSamples(dst []float32) (int, error) {
	need := len(dst) * 2
	if cap(s.raw) < need {
		s.raw = make([]byte, need)
	}
	s.raw = s.raw[:need]

	n, err := s.dec.Read(s.raw)
	samples := n / 2
	for i := range samples {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(s.raw[2*i:]))) / 32768
	}
	return samples, err
}

// --- OGG Vorbis ---

type oggSource struct {
	file   *os.File
	reader *oggvorbis.Reader
}

func newOGGSource(f *os.File) (*oggSource, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	return &oggSource{file: f, reader: reader}, nil
}

func (s *oggSource) SampleRate() int { return s.reader.SampleRate() }
func (s *oggSource) Channels() int   { return s.reader.Channels() }
func (s *oggSource) BufSize() int    { return 4096 }
func (s *oggSource) Close() error    { return s.file.Close() }

func (s *oggSource) ReadSamples(dst []float32) (int, error) {
	return s.reader.Read(dst)
}

// --- FLAC ---

type flacSource struct {
	stream   *flac.Stream
	file     *os.File
	channels int
	bps      int
	pending  []float32
}

func newFLACSource(f *os.File) (*flacSource, error) {
	stream, err := flac.New(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	return &flacSource{
		stream:   stream,
		file:     f,
		channels: int(stream.Info.NChannels),
		bps:      int(stream.Info.BitsPerSample),
	}, nil
}

func (s *flacSource) SampleRate() int { return int(s.stream.Info.SampleRate) }
func (s *flacSource) Channels() int   { return s.channels }
func (s *flacSource) BufSize() int    { return 4096 }

// Close closes the stream; flac also closes f since it is an io.Closer.
func (s *flacSource) Close() error {
	err := s.stream.Close()
	if cerr := s.file.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) && err == nil {
		err = cerr
	}
	return err
}

func (s *flacSource) ReadSamples(dst []float32) (int, error) {
	if len(s.pending) == 0 {
		frame, err := s.stream.ParseNext()
		if err != nil {
			return 0, err
		}
		scale := float32(int64(1) << (s.bps - 1))
		n := int(frame.Subframes[0].NSamples)
		s.pending = make([]float32, 0, n*s.channels)
		for i := range n {
			for ch := range s.channels {
				s.pending = append(s.pending, float32(frame.Subframes[ch].Samples[i])/scale)
			}
		}
	}

	n := copy(dst, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}
