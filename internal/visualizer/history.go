package visualizer

import "sync"

// History is a bounded buffer of the most recent mono samples. The
// player's tap writes at audio rate while the analyzer reads at frame
// rate, so writes must never wait on a slow reader.
type History struct {
	mu      sync.Mutex
	samples []float32
	window  int
}

// NewHistory creates a history sized for analysis windows of window
// samples. It holds at most 2*window samples.
func NewHistory(window int) *History {
	return &History{
		samples: make([]float32, 0, 2*window+1),
		window:  window,
	}
}

// Append records one sample. It never blocks: if the analyzer holds the
// lock the sample is dropped. A torn or slightly stale window is fine,
// a stalled audio callback is not.
func (h *History) Append(s float32) {
	if !h.mu.TryLock() {
		return
	}
	h.samples = append(h.samples, s)
	if len(h.samples) > 2*h.window {
		// Bulk trim: drop the oldest window in one move instead of
		// shifting on every append.
		n := copy(h.samples, h.samples[h.window:])
		h.samples = h.samples[:n]
	}
	h.mu.Unlock()
}

// Snapshot returns the most recent n samples in chronological order.
// It reports false until at least n samples have been collected.
func (h *History) Snapshot(n int) ([]float32, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.samples) < n {
		return nil, false
	}
	out := make([]float32, n)
	copy(out, h.samples[len(h.samples)-n:])
	return out, true
}

// Len returns the current number of buffered samples.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.samples)
}
