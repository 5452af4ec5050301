package visualizer

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	// WindowSize is the number of samples consumed per analysis frame.
	WindowSize = 1024

	// minFreq is the lower edge of the displayed range. Content below
	// 20 Hz is inaudible and would waste the leftmost bands.
	minFreq = 20.0

	// smoothing is the exponential moving average weight applied to
	// each band between frames.
	smoothing = 0.3
)

// Analyzer turns windows of time-domain samples into smoothed frequency
// bands spaced logarithmically across the audible range, scaled 0-100.
// It is not safe for concurrent use; the render loop owns it.
type Analyzer struct {
	fft        *fourier.FFT
	sampleRate float64
	numBands   int

	input    []float64
	hann     []float64
	coeffs   []complex128
	mags     []float64
	smoothed []float64
	levels   []float64
	binLo    []int
	binHi    []int
}

// NewAnalyzer creates an analyzer for audio at the given sample rate.
// Call Resize before the first Process to set the band count.
func NewAnalyzer(sampleRate float64) *Analyzer {
	hann := make([]float64, WindowSize)
	for i := range hann {
		hann[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(WindowSize-1)))
	}
	return &Analyzer{
		fft:        fourier.NewFFT(WindowSize),
		sampleRate: sampleRate,
		input:      make([]float64, WindowSize),
		hann:       hann,
		coeffs:     make([]complex128, WindowSize/2+1),
		mags:       make([]float64, WindowSize/2),
	}
}

// NumBands returns the current band count.
func (a *Analyzer) NumBands() int { return a.numBands }

// Resize sets the band count, preserving smoothed values for bands that
// survive and zero-filling new ones. Buffers are only reallocated when
// n actually changes.
func (a *Analyzer) Resize(n int) {
	if n < 1 || n == a.numBands {
		return
	}

	smoothed := make([]float64, n)
	copy(smoothed, a.smoothed)
	a.smoothed = smoothed
	a.levels = make([]float64, n)
	a.binLo = make([]int, n)
	a.binHi = make([]int, n)
	a.numBands = n

	// Precompute the bin range of each band. Bands are equal-width in
	// log-frequency between minFreq and Nyquist.
	binHz := a.sampleRate / WindowSize
	half := WindowSize / 2
	for b := 0; b < n; b++ {
		lo := int(a.bandFreq(b) / binHz)
		hi := int(a.bandFreq(b+1) / binHz)
		if lo < 1 {
			lo = 1
		}
		if hi > half {
			hi = half
		}
		a.binLo[b] = lo
		a.binHi[b] = hi
	}
}

// bandFreq returns the start frequency of band b in the current layout.
func (a *Analyzer) bandFreq(b int) float64 {
	logMin := math.Log(minFreq)
	logMax := math.Log(a.sampleRate / 2)
	return math.Exp(logMin + float64(b)/float64(a.numBands)*(logMax-logMin))
}

// BandStartFreq returns the start frequency of band b in Hz, for the
// legend's label panel.
func (a *Analyzer) BandStartFreq(b int) float64 {
	return a.bandFreq(b)
}

// Process runs one analysis frame over the given window. Windows
// shorter than WindowSize and zero band counts are skipped; the
// previous levels stay on screen until the next usable frame.
func (a *Analyzer) Process(samples []float32) {
	if len(samples) < WindowSize || a.numBands == 0 {
		return
	}

	for i := 0; i < WindowSize; i++ {
		a.input[i] = float64(samples[i]) * a.hann[i]
	}
	a.fft.Coefficients(a.coeffs, a.input)

	// Bins above Nyquist mirror the lower half for real input.
	for i := 1; i < WindowSize/2; i++ {
		a.mags[i] = cmplx.Abs(a.coeffs[i])
	}

	for b := 0; b < a.numBands; b++ {
		var raw float64
		if lo, hi := a.binLo[b], a.binHi[b]; hi > lo {
			sum := 0.0
			for i := lo; i < hi; i++ {
				sum += a.mags[i]
			}
			raw = sum / float64(hi-lo)
			// Treble boost: most material carries far less energy up
			// high, so flat weighting would leave the right side dark.
			raw *= 1 + 2*float64(b)/float64(a.numBands)
		}
		a.smoothed[b] = a.smoothed[b]*(1-smoothing) + raw*smoothing
	}

	// Normalize against the loudest band this frame. The floor of 1
	// keeps silence at zero instead of dividing it up to full scale.
	maxVal := 1.0
	for _, v := range a.smoothed {
		if v > maxVal {
			maxVal = v
		}
	}
	for b, v := range a.smoothed {
		a.levels[b] = v / maxVal * 100
	}
}

// Levels returns the current band values on a 0-100 scale. The slice is
// reused between frames; callers must not retain it.
func (a *Analyzer) Levels() []float64 {
	return a.levels
}
