package game

import (
	"testing"

	cp "github.com/jakecoffman/cp/v2"
)

const testDt = 1.0 / 60

func newTestSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = SolverIterations
	space.SetGravity(cp.Vector{Y: -Gravity})
	return space
}

func addTestFloor(space *cp.Space, y float64, surf *Surface) *cp.Shape {
	shape := cp.NewSegment(space.StaticBody,
		cp.Vector{X: -500, Y: y}, cp.Vector{X: 1500, Y: y}, 2)
	shape.SetFriction(surf.Friction)
	shape.SetElasticity(0)
	shape.UserData = surf
	space.AddShape(shape)
	return shape
}

// runFrames advances the creature and the space in the engine's frame order.
func runFrames(c *Creature, cf ControlFrame, n int) {
	cf.Dt = testDt
	for i := 0; i < n; i++ {
		c.Update(&cf)
		c.space.Step(testDt)
	}
}

func constraintCount(space *cp.Space) int {
	n := 0
	space.EachConstraint(func(*cp.Constraint) { n++ })
	return n
}

func dynamicBodyCount(space *cp.Space) int {
	n := 0
	space.EachBody(func(b *cp.Body) {
		if b.GetType() != cp.BODY_STATIC {
			n++
		}
	})
	return n
}

func TestChainConstruction(t *testing.T) {
	space := newTestSpace()
	cfg := DefaultCreatureConfig()
	c := NewCreature(space, cp.Vector{X: 60, Y: 30}, cfg)

	if got := len(c.Segments()); got != cfg.Chain.Segments {
		t.Fatalf("segments = %d, want %d", got, cfg.Chain.Segments)
	}
	if c.Head().Radius != cfg.Chain.HeadRadius {
		t.Fatalf("head radius = %v, want %v", c.Head().Radius, cfg.Chain.HeadRadius)
	}
	if c.Tail().Radius != cfg.Chain.TailRadius {
		t.Fatalf("tail radius = %v, want %v", c.Tail().Radius, cfg.Chain.TailRadius)
	}

	// Radii taper monotonically and neighbours sit a gap apart.
	for i := 1; i < len(c.segments); i++ {
		a, b := c.segments[i-1], c.segments[i]
		if b.Radius > a.Radius {
			t.Fatalf("radius grew from segment %d to %d", i-1, i)
		}
		dist := b.Position().Sub(a.Position()).Length()
		want := a.Radius + b.Radius + cfg.Chain.Gap
		if diff := dist - want; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("segment %d spacing = %v, want %v", i, dist, want)
		}
	}

	// One structural and one spacing spring per link, plus the two movement
	// anchor springs (movement is always on).
	wantCons := 2*(cfg.Chain.Segments-1) + 2
	if got := constraintCount(space); got != wantCons {
		t.Fatalf("constraints = %d, want %d", got, wantCons)
	}
}

func TestConfigValidateFillsDefaults(t *testing.T) {
	var cfg CreatureConfig
	cfg.validate()

	def := DefaultCreatureConfig()
	if cfg.Chain.Segments != def.Chain.Segments {
		t.Fatalf("segments = %d, want default %d", cfg.Chain.Segments, def.Chain.Segments)
	}
	if cfg.Move.AnchorRadius != def.Move.AnchorRadius {
		t.Fatalf("anchor radius not defaulted")
	}
	if cfg.JumpStyle != JumpStyleSpring {
		t.Fatalf("jump style = %q, want %q", cfg.JumpStyle, JumpStyleSpring)
	}

	cfg.Grab.HeadSection = [2]float64{0.5, -1}
	cfg.validate()
	if cfg.Grab.HeadSection[0] != 0 || cfg.Grab.HeadSection[1] != 0.5 {
		t.Fatalf("window not clamped and ordered: %v", cfg.Grab.HeadSection)
	}
}

func TestResolveSwapsChannels(t *testing.T) {
	in := InputFrame{
		LeftStick:    cp.Vector{X: 1},
		RightStick:   cp.Vector{X: -1},
		LeftTrigger:  0.7,
		RightTrigger: 0.2,
		LeftGrab:     1,
	}

	cf := in.Resolve()
	if cf.HeadStick.X != 1 || cf.HeadTrigger != 0.7 || cf.HeadGrab != 1 {
		t.Fatalf("default mapping broken: %+v", cf)
	}

	in.SwapControls = true
	cf = in.Resolve()
	if cf.HeadStick.X != -1 || cf.HeadTrigger != 0.2 || cf.TailGrab != 1 {
		t.Fatalf("swapped mapping broken: %+v", cf)
	}
}

func TestSegmentsInRange(t *testing.T) {
	space := newTestSpace()
	c := NewCreature(space, cp.Vector{X: 60, Y: 30}, DefaultCreatureConfig())

	head := c.segmentsInRange(0, 0.3)
	for _, s := range head {
		if s.Index > 3 {
			t.Fatalf("segment %d in head window of 13", s.Index)
		}
	}
	if len(head) != 4 {
		t.Fatalf("head window size = %d, want 4", len(head))
	}

	all := c.segmentsInRange(0, 1)
	if len(all) != len(c.segments) {
		t.Fatalf("full window size = %d, want %d", len(all), len(c.segments))
	}
}

func TestDestroyReleasesEverything(t *testing.T) {
	space := newTestSpace()
	addTestFloor(space, 12, surfGround)
	c := NewCreature(space, cp.Vector{X: 60, Y: 30}, DefaultCreatureConfig())

	// Let it settle and form the wheel so the roll ability owns constraints.
	runFrames(c, ControlFrame{}, 30)
	runFrames(c, ControlFrame{RollHeld: true}, 30)

	c.Destroy()
	c.Destroy() // second call must be a no-op

	if got := constraintCount(space); got != 0 {
		t.Fatalf("constraints after destroy = %d, want 0", got)
	}
	if got := dynamicBodyCount(space); got != 0 {
		t.Fatalf("bodies after destroy = %d, want 0", got)
	}
}

func TestHardLandingEmitsEvent(t *testing.T) {
	space := newTestSpace()
	addTestFloor(space, 12, surfGround)
	c := NewCreature(space, cp.Vector{X: 60, Y: 180}, DefaultCreatureConfig())

	landed := 0
	c.Bus().Subscribe(EventHardLanding, func(e Event) { landed++ })

	runFrames(c, ControlFrame{}, 400)

	if landed == 0 {
		t.Fatalf("no hard landing event after a long fall")
	}
}
