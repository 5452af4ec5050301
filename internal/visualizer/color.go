package visualizer

import "github.com/lucasb-eyer/go-colorful"

// gradient holds the seven stops of the band color ramp, red through
// violet, matching the order of the spectrum itself.
var gradient = []colorful.Color{
	{R: 1.00, G: 0.00, B: 0.00}, // red
	{R: 1.00, G: 0.50, B: 0.00}, // orange
	{R: 1.00, G: 1.00, B: 0.00}, // yellow
	{R: 0.00, G: 0.80, B: 0.00}, // green
	{R: 0.00, G: 0.85, B: 0.85}, // cyan
	{R: 0.10, G: 0.25, B: 1.00}, // blue
	{R: 0.58, G: 0.00, B: 0.83}, // violet
}

// BandColor maps a band position to a point on the red-to-violet ramp.
// It is a pure function of its inputs: band 0 is red, band total-1 is
// violet, everything between is a linear RGB blend inside its segment.
func BandColor(index, total int) colorful.Color {
	if total < 1 {
		total = 1
	}
	var t float64
	if total > 1 {
		t = float64(index) / float64(total-1)
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	seg := t * float64(len(gradient)-1)
	i := int(seg)
	if i >= len(gradient)-1 {
		return gradient[len(gradient)-1]
	}
	return gradient[i].BlendRgb(gradient[i+1], seg-float64(i))
}
