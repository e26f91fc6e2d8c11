package game

import (
	"testing"

	cp "github.com/jakecoffman/cp/v2"
)

func TestGrabPinsAndReleases(t *testing.T) {
	space, c := settledCreature(t)
	base := constraintCount(space)

	attached, released := 0, 0
	c.Bus().Subscribe(EventGrabAttach, func(e Event) { attached++ })
	c.Bus().Subscribe(EventGrabRelease, func(e Event) { released++ })

	runFrames(c, ControlFrame{HeadGrab: 1}, 3)
	if c.grab.Pinned() == 0 {
		t.Fatalf("no pins while grabbing on the floor")
	}
	if attached == 0 {
		t.Fatalf("no attach events")
	}
	if constraintCount(space) <= base {
		t.Fatalf("no pin constraints in the space")
	}

	runFrames(c, ControlFrame{}, 2)
	if got := c.grab.Pinned(); got != 0 {
		t.Fatalf("%d pins after release, want 0", got)
	}
	if released != 1 {
		t.Fatalf("release events = %d, want 1", released)
	}
	if got := constraintCount(space); got != base {
		t.Fatalf("constraints = %d after release, want %d", got, base)
	}
}

func TestGrabHoldsAgainstPull(t *testing.T) {
	_, c := settledCreature(t)

	runFrames(c, ControlFrame{HeadGrab: 1}, 3)
	pins := c.grab.Pinned()
	if pins == 0 {
		t.Fatalf("no pins to test against")
	}
	headStart := c.Head().Position()

	// Yank the head upward for a second while still holding the grab. The
	// pins must persist even though the chain strains against them.
	runFrames(c, ControlFrame{HeadGrab: 1, HeadStick: cp.Vector{Y: 1}}, 60)

	if got := c.grab.Pinned(); got < pins {
		t.Fatalf("pins dropped from %d to %d while held", pins, got)
	}
	if d := c.Head().Position().Sub(headStart).Length(); d > 6 {
		t.Fatalf("pinned head wandered %v units", d)
	}
}

func TestGrabSuppressedOnIce(t *testing.T) {
	space := newTestSpace()
	addTestFloor(space, 12, surfIce)
	c := NewCreature(space, cp.Vector{X: 60, Y: 30}, DefaultCreatureConfig())
	runFrames(c, ControlFrame{}, 120)
	if !c.iceInRange(0, 1) {
		t.Fatalf("no ice contact on iced floor")
	}

	runFrames(c, ControlFrame{HeadGrab: 1, TailGrab: 1}, 3)
	if got := c.grab.Pinned(); got != 0 {
		t.Fatalf("%d pins created on ice, want 0", got)
	}
}

func TestGrabReleasesWhenIceEntersWindow(t *testing.T) {
	space, c := settledCreature(t)

	runFrames(c, ControlFrame{HeadGrab: 1}, 3)
	if c.grab.Pinned() == 0 {
		t.Fatalf("no pins on plain ground")
	}

	// Ice appearing under the head section must strip its pins even though
	// the button stays down.
	addTestFloor(space, 12, surfIce)
	runFrames(c, ControlFrame{HeadGrab: 1}, 3)
	if got := c.grab.Pinned(); got != 0 {
		t.Fatalf("%d pins survived ice in the window while held", got)
	}
}

func TestGrabBelowThresholdIgnored(t *testing.T) {
	_, c := settledCreature(t)

	runFrames(c, ControlFrame{HeadGrab: c.cfg.Grab.Threshold * 0.5}, 3)
	if got := c.grab.Pinned(); got != 0 {
		t.Fatalf("%d pins below threshold, want 0", got)
	}
}
