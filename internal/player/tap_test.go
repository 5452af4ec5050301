package player

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/olivier-w/specviz/internal/visualizer"
)

// stubSource yields a fixed PCM byte stream.
type stubSource struct {
	data     []byte
	pos      int
	rate     int
	channels int
	chunk    int // max bytes per Read, 0 for unlimited
}

func (s *stubSource) Read(p []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	if s.chunk > 0 && len(p) > s.chunk {
		p = p[:s.chunk]
	}
	n := copy(p, s.data[s.pos:])
	s.pos += n
	return n, nil
}

func (s *stubSource) Length() int64     { return int64(len(s.data)) }
func (s *stubSource) SampleRate() int   { return s.rate }
func (s *stubSource) ChannelCount() int { return s.channels }

func stereoPCM(frames [][2]int16) []byte {
	out := make([]byte, len(frames)*4)
	for i, f := range frames {
		binary.LittleEndian.PutUint16(out[i*4:], uint16(f[0]))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(f[1]))
	}
	return out
}

func TestTapPassesBytesUnchanged(t *testing.T) {
	frames := make([][2]int16, 200)
	for i := range frames {
		frames[i] = [2]int16{int16(i * 100), int16(-i * 50)}
	}
	data := stereoPCM(frames)

	src := &stubSource{data: data, rate: 44100, channels: 2}
	tp := newTap(src, visualizer.NewHistory(1024))

	got, err := io.ReadAll(tp)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("tap altered the pass-through byte stream")
	}
	if tp.Pos() != int64(len(data)) {
		t.Fatalf("position %d, want %d", tp.Pos(), len(data))
	}
}

func TestTapReportsSourceMetadata(t *testing.T) {
	src := &stubSource{data: make([]byte, 16), rate: 48000, channels: 2}
	tp := newTap(src, visualizer.NewHistory(16))

	if tp.SampleRate() != 48000 {
		t.Fatalf("sample rate %d, want 48000", tp.SampleRate())
	}
	if tp.ChannelCount() != 2 {
		t.Fatalf("channel count %d, want 2", tp.ChannelCount())
	}
	if tp.Length() != 16 {
		t.Fatalf("length %d, want 16", tp.Length())
	}
}

func TestTapCapturesMonoDownmix(t *testing.T) {
	frames := [][2]int16{
		{1000, 3000},
		{-2000, -4000},
		{32767, 32767},
		{0, 0},
	}
	src := &stubSource{data: stereoPCM(frames), rate: 44100, channels: 2}
	tp := newTap(src, visualizer.NewHistory(2))

	if _, err := io.ReadAll(tp); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	got, ok := tp.history.Snapshot(4)
	if !ok {
		t.Fatal("expected 4 captured samples")
	}
	want := []float32{2000.0 / 32768, -3000.0 / 32768, 32767.0 / 32768, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTapHandlesReadsOffFrameBoundaries(t *testing.T) {
	frames := make([][2]int16, 100)
	for i := range frames {
		frames[i] = [2]int16{int16(i), int16(i)}
	}
	// 3-byte reads never align with the 4-byte frame size.
	src := &stubSource{data: stereoPCM(frames), rate: 44100, channels: 2, chunk: 3}
	tp := newTap(src, visualizer.NewHistory(100))

	if _, err := io.ReadAll(tp); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	got, ok := tp.history.Snapshot(100)
	if !ok {
		t.Fatalf("captured %d samples, want 100", tp.history.Len())
	}
	for i, v := range got {
		if want := float32(i) / 32768; v != want {
			t.Fatalf("sample %d = %v, want %v", i, v, want)
		}
	}
}

func TestTapMonoSource(t *testing.T) {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint16(data[0:], uint16(int16(100)))
	binary.LittleEndian.PutUint16(data[2:], uint16(int16(-100)))
	binary.LittleEndian.PutUint16(data[4:], uint16(int16(200)))
	binary.LittleEndian.PutUint16(data[6:], uint16(int16(-200)))

	src := &stubSource{data: data, rate: 22050, channels: 1}
	tp := newTap(src, visualizer.NewHistory(4))

	if _, err := io.ReadAll(tp); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	got, ok := tp.history.Snapshot(4)
	if !ok {
		t.Fatal("expected 4 captured samples")
	}
	want := []float32{100.0 / 32768, -100.0 / 32768, 200.0 / 32768, -200.0 / 32768}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}
