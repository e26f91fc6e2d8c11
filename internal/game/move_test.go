package game

import (
	"testing"

	cp "github.com/jakecoffman/cp/v2"
)

func TestStickReleaseZeroesVelocity(t *testing.T) {
	var st stickTracker
	cfg := DefaultCreatureConfig().Move

	// Push the stick out; the tracker should see it held with velocity.
	st.update(cp.Vector{X: 0.5}, testDt, cfg.StickDamping, cfg.DeadZone)
	st.update(cp.Vector{X: 0.9}, testDt, cfg.StickDamping, cfg.DeadZone)
	if !st.held {
		t.Fatalf("stick not held at 0.9 deflection")
	}
	if st.vel.X <= 0 {
		t.Fatalf("outward sweep velocity = %v, want > 0", st.vel.X)
	}

	// Snap back toward centre: release detection must zero the velocity so
	// no spurious impulse fires.
	st.update(cp.Vector{X: 0.3}, testDt, cfg.StickDamping, cfg.DeadZone)
	if !st.releasing {
		t.Fatalf("release toward centre not detected")
	}
	if st.vel != (cp.Vector{}) {
		t.Fatalf("velocity on release = %v, want zero", st.vel)
	}
}

func TestHeadStickDrivesHeadSegment(t *testing.T) {
	space := newTestSpace()
	space.SetGravity(cp.Vector{}) // isolate the control forces
	c := NewCreature(space, cp.Vector{X: 60, Y: 60}, DefaultCreatureConfig())

	startX := c.Head().Position().X
	runFrames(c, ControlFrame{HeadStick: cp.Vector{X: 1}}, 90)

	if moved := c.Head().Position().X - startX; moved < 2 {
		t.Fatalf("head moved %v with full right stick, want noticeably right", moved)
	}
}

func TestAnchorSnapsHomeWhenCentered(t *testing.T) {
	space := newTestSpace()
	space.SetGravity(cp.Vector{})
	c := NewCreature(space, cp.Vector{X: 60, Y: 60}, DefaultCreatureConfig())

	runFrames(c, ControlFrame{HeadStick: cp.Vector{X: 1}}, 30)
	runFrames(c, ControlFrame{}, 5)

	// The anchor is repositioned during Update, so assert before the next
	// physics step moves the segment out from under it.
	cf := ControlFrame{Dt: testDt}
	c.Update(&cf)

	anchor := c.move.head
	if d := anchor.body.Position().Sub(c.Head().Position()).Length(); d > 1e-9 {
		t.Fatalf("anchor %v away from segment after release, want snapped", d)
	}
}

func TestRollModeDisablesTailAnchor(t *testing.T) {
	space := newTestSpace()
	c := NewCreature(space, cp.Vector{X: 60, Y: 30}, DefaultCreatureConfig())

	center := cp.Vector{X: 60, Y: 30}
	c.move.setRollMode(func() cp.Vector { return center })

	spring := c.move.tail.spring.Class.(*cp.DampedSpring)
	if spring.Stiffness != 0 {
		t.Fatalf("tail spring stiffness = %v in roll mode, want 0", spring.Stiffness)
	}
	if c.move.tail.enabled {
		t.Fatalf("tail anchor enabled in roll mode")
	}

	c.move.setRollMode(nil)
	if spring.Stiffness != c.cfg.Move.AnchorStiffness {
		t.Fatalf("tail spring stiffness = %v after roll, want %v",
			spring.Stiffness, c.cfg.Move.AnchorStiffness)
	}
}

func TestZeroInputAppliesNoControlForce(t *testing.T) {
	space := newTestSpace()
	addTestFloor(space, 12, surfGround)
	c := NewCreature(space, cp.Vector{X: 60, Y: 30}, DefaultCreatureConfig())
	runFrames(c, ControlFrame{}, 120) // settle

	// A resting chain with centred sticks gets no control force at all over
	// a full second, and the anchors track their attach segments exactly.
	total := 0.0
	cf := ControlFrame{Dt: testDt}
	for i := 0; i < 60; i++ {
		c.Update(&cf)
		total += c.move.head.applied.Length() + c.move.tail.applied.Length()

		for _, a := range []*anchor{c.move.head, c.move.tail} {
			seg := c.segments[a.segIndex]
			if d := a.body.Position().Sub(seg.Position()).Length(); d > 1e-9 {
				t.Fatalf("frame %d: anchor %v away from its segment at rest", i, d)
			}
		}
		space.Step(testDt)
	}
	if total != 0 {
		t.Fatalf("control force %v applied over 60 idle frames, want 0", total)
	}
}

func TestStabilizeCountersAirborneForces(t *testing.T) {
	space := newTestSpace()
	space.SetGravity(cp.Vector{})
	c := NewCreature(space, cp.Vector{X: 60, Y: 60}, DefaultCreatureConfig())

	// Airborne, both sticks up: anchors pull up, the mid-body counter-force
	// pushes down. The chain must not accelerate upward at anywhere near the
	// rate the raw anchor forces would produce.
	up := ControlFrame{HeadStick: cp.Vector{Y: 1}, TailStick: cp.Vector{Y: 1}, Dt: testDt}
	raw := 0.0
	for i := 0; i < 30; i++ {
		c.Update(&up)
		raw += c.move.head.applied.Y + c.move.tail.applied.Y
		space.Step(testDt)
	}
	if raw <= 0 {
		t.Fatalf("anchors applied no upward force")
	}

	var vy, mass float64
	for _, s := range c.segments {
		vy += s.Body.Velocity().Y * s.Mass()
		mass += s.Mass()
	}
	// Momentum gained vs momentum the raw forces alone would have injected.
	gained := vy
	injected := raw * testDt
	if gained > injected*(1.0-c.cfg.Move.StabilizePercent*0.5) {
		t.Fatalf("airborne lift barely countered: gained %v of %v injected", gained, injected)
	}
}
