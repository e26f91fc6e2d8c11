package game

import (
	"testing"

	cp "github.com/jakecoffman/cp/v2"
)

func settledCreature(t *testing.T) (*cp.Space, *Creature) {
	t.Helper()
	space := newTestSpace()
	addTestFloor(space, 12, surfGround)
	c := NewCreature(space, cp.Vector{X: 60, Y: 30}, DefaultCreatureConfig())
	runFrames(c, ControlFrame{}, 120)
	return space, c
}

func TestTriggerAttachesGroundedLeg(t *testing.T) {
	_, c := settledCreature(t)

	runFrames(c, ControlFrame{HeadTrigger: 0.6}, 1)

	if c.Mode() != ModeJumping {
		t.Fatalf("mode = %v, want jumping", c.Mode())
	}
	j := c.jump.(*JumpAbility)
	ch := j.head
	if ch.spring == nil {
		t.Fatalf("no leg spring after trigger press")
	}
	if !ch.grounded {
		t.Fatalf("leg not pinned to the ground while resting on the floor")
	}

	leg := ch.spring.Class.(*cp.DampedSpring)
	if leg.Stiffness != 0.6*c.cfg.Jump.MaxStiffness {
		t.Fatalf("leg stiffness = %v, want %v", leg.Stiffness, 0.6*c.cfg.Jump.MaxStiffness)
	}
	if leg.RestLength <= ch.baseDist {
		t.Fatalf("leg rest %v not extended past attach distance %v", leg.RestLength, ch.baseDist)
	}
}

func TestLegTelescopesWithTrigger(t *testing.T) {
	_, c := settledCreature(t)

	runFrames(c, ControlFrame{HeadTrigger: 0.3}, 1)
	j := c.jump.(*JumpAbility)
	restLow := j.head.spring.Class.(*cp.DampedSpring).RestLength

	runFrames(c, ControlFrame{HeadTrigger: 0.9}, 1)
	restHigh := j.head.spring.Class.(*cp.DampedSpring).RestLength

	if restHigh <= restLow {
		t.Fatalf("rest length %v at 0.9 not beyond %v at 0.3", restHigh, restLow)
	}
}

func TestTriggerReleaseDetachesEverything(t *testing.T) {
	space, c := settledCreature(t)
	base := constraintCount(space)

	runFrames(c, ControlFrame{HeadTrigger: 0.8, TailTrigger: 0.8}, 3)
	if constraintCount(space) <= base {
		t.Fatalf("no leg constraints while triggers held")
	}

	runFrames(c, ControlFrame{}, 2)
	if c.Mode() != ModeDefault {
		t.Fatalf("mode = %v after release, want default", c.Mode())
	}
	if c.jump.Active() {
		t.Fatalf("jump still active after release")
	}
	if got := constraintCount(space); got != base {
		t.Fatalf("constraints = %d after release, want %d", got, base)
	}
}

func TestAirborneLegFallsBackToBody(t *testing.T) {
	space := newTestSpace()
	space.SetGravity(cp.Vector{})
	c := NewCreature(space, cp.Vector{X: 60, Y: 100}, DefaultCreatureConfig())

	runFrames(c, ControlFrame{HeadTrigger: 0.5}, 1)

	j := c.jump.(*JumpAbility)
	if j.head.spring == nil {
		t.Fatalf("no leg spring airborne")
	}
	if j.head.grounded {
		t.Fatalf("airborne leg claims a ground pin")
	}
}

func TestGroundedLegConvertsOnContactLoss(t *testing.T) {
	_, c := settledCreature(t)

	runFrames(c, ControlFrame{HeadTrigger: 0.5}, 1)
	j := c.jump.(*JumpAbility)
	if !j.head.grounded {
		t.Fatalf("leg not grounded on the floor")
	}

	// Lift the whole chain clear of the floor with the trigger still held:
	// the world pin is stale and must become a segment-to-segment leg.
	for _, s := range c.segments {
		p := s.Position()
		s.Body.SetPosition(cp.Vector{X: p.X, Y: p.Y + 200})
	}
	runFrames(c, ControlFrame{HeadTrigger: 0.5}, 3)

	if j.head.grounded {
		t.Fatalf("leg still pinned to the world after contact loss")
	}
	if j.head.spring == nil {
		t.Fatalf("leg lost its spring in the conversion")
	}
	if j.head.groundBody != nil {
		t.Fatalf("converted leg kept a ground body reference")
	}
}

func TestJumpLegSkipsIceAnchor(t *testing.T) {
	space := newTestSpace()
	addTestFloor(space, 12, surfIce)
	c := NewCreature(space, cp.Vector{X: 60, Y: 30}, DefaultCreatureConfig())
	runFrames(c, ControlFrame{}, 120)
	if !c.iceInRange(0, 1) {
		t.Fatalf("no ice contact on iced floor")
	}

	runFrames(c, ControlFrame{HeadTrigger: 0.8}, 1)
	j := c.jump.(*JumpAbility)
	if j.head.spring == nil {
		t.Fatalf("no leg spring on ice")
	}
	if j.head.grounded {
		t.Fatalf("leg ground-anchored on ice, want segment-to-segment")
	}
}

func TestTinyChainSkipsJumpSprings(t *testing.T) {
	space := newTestSpace()
	addTestFloor(space, 12, surfGround)
	cfg := DefaultCreatureConfig()
	cfg.Chain.Segments = 2
	c := NewCreature(space, cp.Vector{X: 60, Y: 30}, cfg)
	runFrames(c, ControlFrame{}, 30)
	base := constraintCount(space)

	runFrames(c, ControlFrame{HeadTrigger: 1}, 3)
	if c.Mode() != ModeJumping {
		t.Fatalf("mode = %v, want jumping", c.Mode())
	}
	j := c.jump.(*JumpAbility)
	if !j.Active() {
		t.Fatalf("jump not active on a tiny chain")
	}
	if j.head != nil || j.coil != nil {
		t.Fatalf("jump built springs for a 2-segment chain")
	}
	if got := constraintCount(space); got != base {
		t.Fatalf("constraints = %d on tiny chain, want %d", got, base)
	}
}

func TestSharedCoilFollowsStrongerTrigger(t *testing.T) {
	_, c := settledCreature(t)

	runFrames(c, ControlFrame{HeadTrigger: 0.4, TailTrigger: 0.9}, 1)
	j := c.jump.(*JumpAbility)
	if j.coil == nil {
		t.Fatalf("no coil spring while triggers held")
	}
	coil := j.coil.Class.(*cp.DampedSpring)
	if want := 0.9 * c.cfg.Jump.CompressionMax; coil.Stiffness != want {
		t.Fatalf("coil stiffness = %v, want %v from the stronger trigger", coil.Stiffness, want)
	}

	runFrames(c, ControlFrame{}, 2)
	if j.coil != nil {
		t.Fatalf("coil survived trigger release")
	}
}

func TestFullTriggerLaunches(t *testing.T) {
	_, c := settledCreature(t)
	startY := c.Head().Position().Y

	runFrames(c, ControlFrame{HeadTrigger: 1.0}, 40)

	if rise := c.Head().Position().Y - startY; rise < 5 {
		t.Fatalf("head rose %v under full trigger, want a launch", rise)
	}
}
