package player

import (
	"encoding/binary"
	"sync"

	"github.com/olivier-w/specviz/internal/visualizer"
)

// tap sits between the decoder and the playback sink. It forwards the
// PCM byte stream untouched while folding complete frames down to mono
// samples for the visualizer's history, and tracks the byte position
// for elapsed-time reporting. History appends are best-effort; playback
// is never delayed by the analysis side.
type tap struct {
	src      audioSource
	history  *visualizer.History
	channels int

	carry []byte // bytes of an incomplete trailing frame

	mu  sync.Mutex
	pos int64
}

func newTap(src audioSource, history *visualizer.History) *tap {
	channels := src.ChannelCount()
	if channels < 1 {
		channels = 1
	}
	return &tap{src: src, history: history, channels: channels}
}

// Read is called by the playback sink from its own goroutine.
func (t *tap) Read(p []byte) (int, error) {
	n, err := t.src.Read(p)
	if n > 0 {
		t.mu.Lock()
		t.pos += int64(n)
		t.mu.Unlock()
		t.capture(p[:n])
	}
	return n, err
}

// capture averages each interleaved 16-bit frame to one mono sample and
// hands it to the history. Reads do not always end on a frame boundary,
// so leftover bytes carry over to the next call.
func (t *tap) capture(b []byte) {
	t.carry = append(t.carry, b...)

	frameSize := t.channels * 2
	frames := len(t.carry) / frameSize
	for i := 0; i < frames; i++ {
		off := i * frameSize
		var sum int
		for ch := 0; ch < t.channels; ch++ {
			sum += int(int16(binary.LittleEndian.Uint16(t.carry[off+ch*2:])))
		}
		t.history.Append(float32(sum) / float32(t.channels) / 32768)
	}

	rest := copy(t.carry, t.carry[frames*frameSize:])
	t.carry = t.carry[:rest]
}

// Pos returns the number of decoded bytes handed to the sink so far.
func (t *tap) Pos() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos
}

func (t *tap) Length() int64     { return t.src.Length() }
func (t *tap) SampleRate() int   { return t.src.SampleRate() }
func (t *tap) ChannelCount() int { return t.src.ChannelCount() }
