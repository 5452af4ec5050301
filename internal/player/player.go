package player

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/olivier-w/specviz/internal/visualizer"
)

// Player owns the playback pipeline: decoder -> tap -> oto sink. Audio
// starts as soon as New returns; the visualizer reads the tap's sample
// history concurrently while the monitor goroutine watches for the end
// of the stream or a cancellation request.
type Player struct {
	file      *os.File
	src       audioSource
	tap       *tap
	otoPlayer *oto.Player
	history   *visualizer.History

	sampleRate  int
	bytesPerSec int64
	duration    time.Duration

	cancel atomic.Bool
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

// initOto creates the process-wide oto context. oto allows exactly one
// context per process; the first track's format wins, and specviz plays
// one file per run.
func initOto(sampleRate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// New opens the file at path and starts playing it immediately.
func New(path string) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	src, err := newSource(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	ctx, err := initOto(src.SampleRate(), src.ChannelCount())
	if err != nil {
		f.Close()
		return nil, err
	}

	history := visualizer.NewHistory(visualizer.WindowSize)
	bytesPerSec := int64(src.SampleRate()) * int64(src.ChannelCount()) * 2

	p := &Player{
		file:        f,
		src:         src,
		tap:         newTap(src, history),
		history:     history,
		sampleRate:  src.SampleRate(),
		bytesPerSec: bytesPerSec,
		duration:    time.Duration(float64(src.Length()) / float64(bytesPerSec) * float64(time.Second)),
		done:        make(chan struct{}),
	}

	p.otoPlayer = ctx.NewPlayer(p.tap)
	p.otoPlayer.Play()

	go p.monitor()

	return p, nil
}

// monitor polls for natural completion or cancellation. Cancellation
// stops the sink at once rather than letting buffered audio drain.
func (p *Player) monitor() {
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		op := p.otoPlayer
		pos := p.tap.Pos()
		total := p.src.Length()
		p.mu.Unlock()

		if p.cancel.Load() {
			op.Pause()
			close(p.done)
			return
		}
		if pos >= total && op.BufferedSize() == 0 {
			close(p.done)
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// Done returns a channel that closes when playback stops, whether it
// ran to completion or was cancelled.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

// Cancel requests an immediate stop. It is one-way: the first call
// wins and the flag is never reset.
func (p *Player) Cancel() {
	p.cancel.Store(true)
}

// Cancelled reports whether a stop has been requested.
func (p *Player) Cancelled() bool {
	return p.cancel.Load()
}

// Playing reports whether the sink is still producing audio.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	return p.otoPlayer.IsPlaying()
}

// Position returns the elapsed playback time.
func (p *Player) Position() time.Duration {
	secs := float64(p.tap.Pos()) / float64(p.bytesPerSec)
	return time.Duration(secs * float64(time.Second))
}

// Duration returns the total length of the track.
func (p *Player) Duration() time.Duration {
	return p.duration
}

// SampleRate returns the decoded stream's sample rate in Hz.
func (p *Player) SampleRate() int {
	return p.sampleRate
}

// History returns the shared sample history fed by the tap.
func (p *Player) History() *visualizer.History {
	return p.history
}

// Close releases all resources. Safe to call more than once.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.otoPlayer.Pause()
	p.file.Close()
}
