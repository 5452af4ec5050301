package visualizer

import "github.com/charmbracelet/harmonica"

// PeakCaps animates a falling marker above each spectrum bar. Caps snap
// up instantly when a bar overtakes them and sink back on a spring.
type PeakCaps struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

// NewPeakCaps creates caps stepped at the given frame rate.
func NewPeakCaps(fps int) *PeakCaps {
	return &PeakCaps{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

// Resize adjusts the cap state to n bands, keeping surviving positions.
func (p *PeakCaps) Resize(n int) {
	if len(p.pos) == n {
		return
	}
	pos := make([]float64, n)
	vel := make([]float64, n)
	copy(pos, p.pos)
	copy(vel, p.vel)
	p.pos = pos
	p.vel = vel
}

// Step advances cap i toward target and returns its new position.
func (p *PeakCaps) Step(i int, target float64) float64 {
	if i < 0 || i >= len(p.pos) {
		return target
	}
	if target >= p.pos[i] {
		p.pos[i] = target
		p.vel[i] = 0
		return target
	}
	p.pos[i], p.vel[i] = p.spring.Update(p.pos[i], p.vel[i], target)
	return p.pos[i]
}

// Positions returns the current cap positions.
func (p *PeakCaps) Positions() []float64 {
	return p.pos
}
