package player

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// audioSource yields decoded audio as 16-bit little-endian interleaved
// PCM, plus the metadata the rest of the pipeline needs.
type audioSource interface {
	io.Reader
	Length() int64 // total decoded bytes
	SampleRate() int
	ChannelCount() int
}

// newSource picks a decoder by file extension.
func newSource(f *os.File) (audioSource, error) {
	switch ext := strings.ToLower(filepath.Ext(f.Name())); ext {
	case ".mp3":
		return newMP3Source(f)
	case ".wav":
		return newWAVSource(f)
	case ".flac":
		return newFLACSource(f)
	case ".ogg":
		return newOGGSource(f)
	default:
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
}

// clamp16 converts a widened sample back to int16 range.
func clamp16(v int) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// --- MP3 ---

// go-mp3 always emits 44.1 kHz 16-bit stereo, so it already speaks the
// pipeline's native format.
type mp3Source struct {
	dec *mp3.Decoder
}

func newMP3Source(f *os.File) (*mp3Source, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Source{dec: dec}, nil
}

func (s *mp3Source) Read(p []byte) (int, error) { return s.dec.Read(p) }
func (s *mp3Source) Length() int64              { return s.dec.Length() }
func (s *mp3Source) SampleRate() int            { return s.dec.SampleRate() }
func (s *mp3Source) ChannelCount() int          { return 2 }

// --- WAV ---

type wavSource struct {
	dec     *wav.Decoder
	chunk   *audio.IntBuffer
	pending []byte
	total   int64
}

func newWAVSource(f *os.File) (*wavSource, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	frameSize := int64(dec.NumChans) * int64(dec.BitDepth) / 8
	frames := dec.PCMLen() / frameSize

	return &wavSource{
		dec: dec,
		chunk: &audio.IntBuffer{
			Data:           make([]int, 2048),
			Format:         &audio.Format{NumChannels: int(dec.NumChans), SampleRate: int(dec.SampleRate)},
			SourceBitDepth: int(dec.BitDepth),
		},
		total: frames * int64(dec.NumChans) * 2,
	}, nil
}

func (s *wavSource) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		n, err := s.dec.PCMBuffer(s.chunk)
		if n == 0 {
			if err != nil {
				return 0, err
			}
			return 0, io.EOF
		}

		raw := make([]byte, n*2)
		for i, v := range s.chunk.Data[:n] {
			// Scale the source bit depth to 16 bits. 8-bit WAV is the
			// one unsigned case.
			switch s.chunk.SourceBitDepth {
			case 8:
				v = (v - 128) << 8
			case 24:
				v >>= 8
			case 32:
				v >>= 16
			}
			binary.LittleEndian.PutUint16(raw[i*2:], uint16(clamp16(v)))
		}
		s.pending = raw
	}

	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *wavSource) Length() int64     { return s.total }
func (s *wavSource) SampleRate() int   { return int(s.dec.SampleRate) }
func (s *wavSource) ChannelCount() int { return int(s.dec.NumChans) }

// --- FLAC ---

type flacSource struct {
	stream  *flac.Stream
	pending []byte
	total   int64
}

func newFLACSource(f *os.File) (*flacSource, error) {
	stream, err := flac.New(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	info := stream.Info
	return &flacSource{
		stream: stream,
		total:  int64(info.NSamples) * int64(info.NChannels) * 2,
	}, nil
}

func (s *flacSource) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		frame, err := s.stream.ParseNext()
		if err != nil {
			return 0, err
		}

		channels := int(s.stream.Info.NChannels)
		bps := int(s.stream.Info.BitsPerSample)
		frames := int(frame.Subframes[0].NSamples)
		raw := make([]byte, frames*channels*2)

		for i := 0; i < frames; i++ {
			for ch := 0; ch < channels; ch++ {
				v := int(frame.Subframes[ch].Samples[i])
				switch {
				case bps > 16:
					v >>= bps - 16
				case bps < 16:
					v <<= 16 - bps
				}
				binary.LittleEndian.PutUint16(raw[(i*channels+ch)*2:], uint16(clamp16(v)))
			}
		}
		s.pending = raw
	}

	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *flacSource) Length() int64     { return s.total }
func (s *flacSource) SampleRate() int   { return int(s.stream.Info.SampleRate) }
func (s *flacSource) ChannelCount() int { return int(s.stream.Info.NChannels) }

// --- OGG Vorbis ---

type oggSource struct {
	reader  *oggvorbis.Reader
	floats  []float32
	pending []byte
	total   int64
}

func newOGGSource(f *os.File) (*oggSource, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	return &oggSource{
		reader: reader,
		floats: make([]float32, 4096),
		total:  reader.Length() * int64(reader.Channels()) * 2,
	}, nil
}

func (s *oggSource) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		n, err := s.reader.Read(s.floats)
		if n == 0 {
			if err != nil {
				return 0, err
			}
			return 0, io.EOF
		}

		raw := make([]byte, n*2)
		for i, v := range s.floats[:n] {
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			binary.LittleEndian.PutUint16(raw[i*2:], uint16(int16(v*32767)))
		}
		s.pending = raw
	}

	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *oggSource) Length() int64     { return s.total }
func (s *oggSource) SampleRate() int   { return s.reader.SampleRate() }
func (s *oggSource) ChannelCount() int { return s.reader.Channels() }
