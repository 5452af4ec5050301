package visualizer

import (
	"math"
	"testing"
)

func sineWindow(freq, rate float64) []float32 {
	out := make([]float32, WindowSize)
	for i := range out {
		out[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / rate))
	}
	return out
}

func TestAnalyzerProducesBoundedLevels(t *testing.T) {
	for _, n := range []int{1, 8, 16, 39, 96} {
		a := NewAnalyzer(44100)
		a.Resize(n)
		a.Process(sineWindow(440, 44100))

		levels := a.Levels()
		if len(levels) != n {
			t.Fatalf("n=%d: got %d levels", n, len(levels))
		}
		for i, v := range levels {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("n=%d: band %d is not finite: %v", n, i, v)
			}
			if v < 0 || v > 100 {
				t.Fatalf("n=%d: band %d = %v, want [0,100]", n, i, v)
			}
		}
	}
}

func TestBandStartFrequenciesIncrease(t *testing.T) {
	a := NewAnalyzer(44100)
	a.Resize(32)

	prev := a.BandStartFreq(0)
	if prev < 19 || prev > 21 {
		t.Fatalf("band 0 starts at %v Hz, want ~20", prev)
	}
	for b := 1; b < 32; b++ {
		f := a.BandStartFreq(b)
		if f <= prev {
			t.Fatalf("band %d starts at %v Hz, not above band %d at %v", b, f, b-1, prev)
		}
		prev = f
	}
	if nyq := a.BandStartFreq(32); math.Abs(nyq-22050) > 1 {
		t.Fatalf("band layout ends at %v Hz, want Nyquist 22050", nyq)
	}
}

func TestSilenceNormalizesToZero(t *testing.T) {
	a := NewAnalyzer(44100)
	a.Resize(16)
	a.Process(make([]float32, WindowSize))

	for i, v := range a.Levels() {
		if v != 0 {
			t.Fatalf("band %d = %v on silence, want 0", i, v)
		}
	}
}

func TestSinePeaksInContainingBand(t *testing.T) {
	const (
		rate = 44100.0
		freq = 1000.0
		n    = 32
	)
	a := NewAnalyzer(rate)
	a.Resize(n)

	// Several frames so smoothing converges.
	win := sineWindow(freq, rate)
	for i := 0; i < 10; i++ {
		a.Process(win)
	}

	peak := 0
	levels := a.Levels()
	for i, v := range levels {
		if v > levels[peak] {
			peak = i
		}
	}

	want := -1
	for b := 0; b < n; b++ {
		if a.BandStartFreq(b) <= freq && freq < a.BandStartFreq(b+1) {
			want = b
			break
		}
	}
	if want < 0 {
		t.Fatalf("no band contains %v Hz", freq)
	}
	// Log-spaced band edges put a pure tone's energy within one band
	// of its nominal home.
	if peak < want-1 || peak > want+1 {
		t.Fatalf("peak in band %d, want %d±1 (band %d starts at %v Hz)", peak, want, want, a.BandStartFreq(want))
	}
}

func TestResizePreservesSmoothedState(t *testing.T) {
	const rate = 44100.0
	a := NewAnalyzer(rate)
	a.Resize(16)

	win := sineWindow(1000, rate)
	for i := 0; i < 10; i++ {
		a.Process(win)
	}
	peakBefore := 0
	for i, v := range a.Levels() {
		if v > a.Levels()[peakBefore] {
			peakBefore = i
		}
	}

	// Grow: surviving bands keep their energy, new bands start silent.
	a.Resize(24)
	a.Process(make([]float32, WindowSize))

	levels := a.Levels()
	if len(levels) != 24 {
		t.Fatalf("got %d levels after grow, want 24", len(levels))
	}
	peak := 0
	for i, v := range levels {
		if v > levels[peak] {
			peak = i
		}
	}
	if peak != peakBefore {
		t.Fatalf("smoothed peak moved from band %d to %d across resize", peakBefore, peak)
	}
	for i := 16; i < 24; i++ {
		if levels[i] > levels[peak] {
			t.Fatalf("new band %d outranks surviving state", i)
		}
	}

	// Shrink to the minimum: no panic, truncated state.
	a.Resize(1)
	a.Process(win)
	if len(a.Levels()) != 1 {
		t.Fatalf("got %d levels after shrink, want 1", len(a.Levels()))
	}
}

func TestProcessSkipsShortWindow(t *testing.T) {
	a := NewAnalyzer(44100)
	a.Resize(8)
	a.Process(make([]float32, WindowSize/2))

	for i, v := range a.Levels() {
		if v != 0 {
			t.Fatalf("band %d = %v after short window, want untouched 0", i, v)
		}
	}
}

func TestProcessBeforeResizeIsNoop(t *testing.T) {
	a := NewAnalyzer(44100)
	a.Process(sineWindow(440, 44100))
	if len(a.Levels()) != 0 {
		t.Fatal("expected no levels before the first resize")
	}
}
