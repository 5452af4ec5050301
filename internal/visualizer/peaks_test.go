package visualizer

import "testing"

func TestPeakCapsSnapUpAndFall(t *testing.T) {
	caps := NewPeakCaps(60)
	caps.Resize(4)

	if got := caps.Step(0, 10); got != 10 {
		t.Fatalf("cap did not snap up: got %v, want 10", got)
	}

	// With the bar gone the cap must sink, but not teleport.
	first := caps.Step(0, 0)
	if first >= 10 {
		t.Fatalf("cap did not start falling: %v", first)
	}
	prev := first
	for i := 0; i < 300; i++ {
		prev = caps.Step(0, 0)
	}
	if prev > 0.5 {
		t.Fatalf("cap still at %v after 300 frames of silence", prev)
	}
}

func TestPeakCapsResizePreservesPositions(t *testing.T) {
	caps := NewPeakCaps(60)
	caps.Resize(4)
	caps.Step(1, 7)

	caps.Resize(8)
	if got := caps.Positions()[1]; got != 7 {
		t.Fatalf("grow lost cap position: got %v, want 7", got)
	}

	caps.Resize(2)
	if got := caps.Positions()[1]; got != 7 {
		t.Fatalf("shrink lost cap position: got %v, want 7", got)
	}
	if len(caps.Positions()) != 2 {
		t.Fatalf("expected 2 caps after shrink, got %d", len(caps.Positions()))
	}
}

func TestPeakCapsStepOutOfRange(t *testing.T) {
	caps := NewPeakCaps(60)
	caps.Resize(2)
	if got := caps.Step(5, 3); got != 3 {
		t.Fatalf("out-of-range step should pass the target through, got %v", got)
	}
}
