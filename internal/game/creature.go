package game

import (
	"math"

	cp "github.com/jakecoffman/cp/v2"
)

// Segments of one creature share a filter group so they slide past each
// other; the soft spacing springs provide the collision padding instead.
const creatureGroup = 1

// Segment is one circular body in the chain. Index 0 is the head.
type Segment struct {
	Index  int
	Radius float64
	Body   *cp.Body
	Shape  *cp.Shape
}

func (s *Segment) Position() cp.Vector { return s.Body.Position() }
func (s *Segment) Mass() float64       { return s.Body.Mass() }

// Creature is the worm: an ordered chain of segments plus the ability set
// and the mode machine that arbitrates the exclusive abilities.
type Creature struct {
	space *cp.Space
	cfg   CreatureConfig
	bus   *EventBus
	fsm   *ModeMachine

	segments   []*Segment
	structural []*cp.Constraint
	spacing    []*cp.Constraint

	move *MoveAbility
	roll *RollAbility
	jump Ability // *JumpAbility or *LatticeAbility depending on cfg.JumpStyle
	grab *GrabAbility

	prevRollHeld bool
	prevJumpHeld bool

	wasGrounded bool
	fallSpeed   float64 // peak downward speed since last airborne frame

	particles *ParticleSystem // optional, set by the world for ability emitters

	destroyed bool
}

// NewCreature builds the chain at origin (head leftmost, extending +x),
// wires the abilities to the mode machine and activates the always-on ones.
func NewCreature(space *cp.Space, origin cp.Vector, cfg CreatureConfig) *Creature {
	cfg.validate()

	c := &Creature{
		space: space,
		cfg:   cfg,
		bus:   NewEventBus(),
	}
	c.fsm = NewModeMachine(c.bus)

	c.buildChain(origin)

	c.move = NewMoveAbility(c, cfg.Move)
	c.roll = NewRollAbility(c, cfg.Roll, c.move)
	if cfg.JumpStyle == JumpStyleLattice {
		c.jump = NewLatticeAbility(c, cfg.Lattice)
	} else {
		c.jump = NewJumpAbility(c, cfg.Jump)
	}
	c.grab = NewGrabAbility(c, cfg.Grab)

	// The exclusive abilities follow mode transitions; Movement and Grab are
	// always on. The lattice jump is continuously active as well: it never
	// attaches or detaches, it only modulates stiffness.
	c.bus.Subscribe(EventModeEnter, func(e Event) {
		switch e.Mode {
		case ModeRolling:
			c.roll.Activate()
		case ModeJumping:
			if c.cfg.JumpStyle == JumpStyleSpring {
				c.jump.Activate()
			}
		}
	})
	c.bus.Subscribe(EventModeExit, func(e Event) {
		switch e.Mode {
		case ModeRolling:
			c.roll.Deactivate()
		case ModeJumping:
			if c.cfg.JumpStyle == JumpStyleSpring {
				c.jump.Deactivate()
			}
		}
	})

	c.move.Activate()
	c.grab.Activate()
	if cfg.JumpStyle == JumpStyleLattice {
		c.jump.Activate()
	}

	return c
}

func (c *Creature) buildChain(origin cp.Vector) {
	n := c.cfg.Chain.Segments
	c.segments = make([]*Segment, 0, n)

	x := origin.X
	for i := 0; i < n; i++ {
		r := c.segmentRadius(i)
		if i > 0 {
			x += c.segments[i-1].Radius + r + c.cfg.Chain.Gap
		}

		mass := c.cfg.Chain.Density * math.Pi * r * r
		body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, r, cp.Vector{}))
		body.SetPosition(cp.Vector{X: x, Y: origin.Y})
		c.space.AddBody(body)

		shape := cp.NewCircle(body, r, cp.Vector{})
		shape.SetFriction(c.cfg.Chain.Friction)
		shape.SetElasticity(c.cfg.Chain.Elasticity)
		shape.SetFilter(cp.NewShapeFilter(creatureGroup, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES))
		c.space.AddShape(shape)

		c.segments = append(c.segments, &Segment{Index: i, Radius: r, Body: body, Shape: shape})
	}

	for i := 0; i+1 < n; i++ {
		a, b := c.segments[i], c.segments[i+1]

		// Rigid-ish spring between the facing surface points. Anchoring at
		// the surfaces (not the centres) couples neighbour rotation.
		structural := cp.NewDampedSpring(a.Body, b.Body,
			cp.Vector{X: a.Radius}, cp.Vector{X: -b.Radius},
			c.cfg.Chain.Gap,
			c.cfg.Chain.StructuralStiffness, c.cfg.Chain.StructuralDamping)
		c.space.AddConstraint(structural)
		c.structural = append(c.structural, structural)

		// Centre-to-centre padding spring. One-sided: it only pushes when
		// the segments get closer than their rest distance, so it never
		// resists bending.
		rest := a.Radius + b.Radius + c.cfg.Chain.Gap
		spacing := cp.NewDampedSpring(a.Body, b.Body,
			cp.Vector{}, cp.Vector{},
			rest,
			c.cfg.Chain.SpacingStiffness, c.cfg.Chain.SpacingDamping)
		spring := spacing.Class.(*cp.DampedSpring)
		spring.SpringForceFunc = repelOnlySpringForce
		c.space.AddConstraint(spacing)
		c.spacing = append(c.spacing, spacing)
	}
}

func repelOnlySpringForce(spring *cp.DampedSpring, dist float64) float64 {
	if dist >= spring.RestLength {
		return 0
	}
	return (spring.RestLength - dist) * spring.Stiffness
}

func (c *Creature) segmentRadius(i int) float64 {
	n := c.cfg.Chain.Segments
	if n <= 1 {
		return c.cfg.Chain.HeadRadius
	}
	t := float64(i) / float64(n-1)
	return c.cfg.Chain.HeadRadius + (c.cfg.Chain.TailRadius-c.cfg.Chain.HeadRadius)*t
}

func (c *Creature) Head() *Segment { return c.segments[0] }
func (c *Creature) Tail() *Segment { return c.segments[len(c.segments)-1] }

func (c *Creature) Segments() []*Segment { return c.segments }

// SetParticles gives abilities a particle sink for their emitters.
func (c *Creature) SetParticles(ps *ParticleSystem) { c.particles = ps }

func (c *Creature) Mode() Mode       { return c.fsm.Mode() }
func (c *Creature) Bus() *EventBus   { return c.bus }
func (c *Creature) Space() *cp.Space { return c.space }

// Centroid is the mean segment position; while rolling this is the wheel centre.
func (c *Creature) Centroid() cp.Vector {
	var sum cp.Vector
	for _, s := range c.segments {
		sum = sum.Add(s.Position())
	}
	return sum.Mult(1.0 / float64(len(c.segments)))
}

// segmentsInRange returns the segments whose fractional index i/(N-1) lies
// in [lo,hi]. This is how head/tail "sections" are defined for grab and
// ground-anchored jumps.
func (c *Creature) segmentsInRange(lo, hi float64) []*Segment {
	n := len(c.segments)
	if n == 0 {
		return nil
	}
	var out []*Segment
	for _, s := range c.segments {
		f := 0.0
		if n > 1 {
			f = float64(s.Index) / float64(n-1)
		}
		if f >= lo && f <= hi {
			out = append(out, s)
		}
	}
	return out
}

// groundContactsInRange returns static-surface contacts for the window,
// considering only segments currently touching a static body.
func (c *Creature) groundContactsInRange(lo, hi float64) []groundContact {
	var out []groundContact
	for _, s := range c.segmentsInRange(lo, hi) {
		out = append(out, contactsFor(s)...)
	}
	return out
}

func (c *Creature) anyGrounded() bool {
	for _, s := range c.segments {
		if len(contactsFor(s)) > 0 {
			return true
		}
	}
	return false
}

// iceInRange reports whether any segment in the window rests on ice.
func (c *Creature) iceInRange(lo, hi float64) bool {
	for _, gc := range c.groundContactsInRange(lo, hi) {
		if gc.surface != nil && gc.surface.Ice {
			return true
		}
	}
	return false
}

// signals derives the machine's edge/level inputs from the resolved frame.
// Jump is held while either trigger is past the activation threshold.
func (c *Creature) signals(cf *ControlFrame) ModeSignals {
	jumpHeld := math.Max(cf.HeadTrigger, cf.TailTrigger) > c.cfg.Jump.ActivateThreshold

	sig := ModeSignals{
		RollHeld:    cf.RollHeld,
		JumpHeld:    jumpHeld,
		RollPressed: cf.RollHeld && !c.prevRollHeld,
		JumpPressed: jumpHeld && !c.prevJumpHeld,
	}
	c.prevRollHeld = cf.RollHeld
	c.prevJumpHeld = jumpHeld
	return sig
}

// Update runs one simulation frame in fixed order: mode transition, movement,
// the active exclusive ability, grab, then visual bookkeeping. The physics
// step itself happens outside, once per frame.
func (c *Creature) Update(cf *ControlFrame) {
	if c.destroyed || len(c.segments) == 0 {
		return
	}
	dt := cf.Dt
	if dt <= 0 {
		return
	}

	c.fsm.Step(c.signals(cf))

	c.move.HandleInput(cf)
	c.move.Update(dt)

	switch c.fsm.Mode() {
	case ModeRolling:
		c.roll.HandleInput(cf)
		c.roll.Update(dt)
	case ModeJumping:
		if c.cfg.JumpStyle == JumpStyleSpring {
			c.jump.HandleInput(cf)
			c.jump.Update(dt)
		}
	}
	// The lattice jump modulates continuously in every mode (it suppresses
	// itself to baseline while rolling).
	if c.cfg.JumpStyle == JumpStyleLattice {
		c.jump.HandleInput(cf)
		c.jump.Update(dt)
	}

	c.grab.HandleInput(cf)
	c.grab.Update(dt)

	c.trackLanding()
}

// trackLanding emits EventHardLanding when the chain regains ground contact
// after falling fast; the demo shell maps it to dust, shake and a thud.
func (c *Creature) trackLanding() {
	grounded := c.anyGrounded()
	if !grounded {
		var vy float64
		for _, s := range c.segments {
			vy += s.Body.Velocity().Y
		}
		vy /= float64(len(c.segments))
		if -vy > c.fallSpeed {
			c.fallSpeed = -vy
		}
	} else if !c.wasGrounded && c.fallSpeed > 120.0 {
		p := c.Centroid()
		c.bus.Emit(Event{Type: EventHardLanding, X: p.X, Y: p.Y})
	}
	if grounded {
		c.fallSpeed = 0
	}
	c.wasGrounded = grounded
}

// Destroy removes every owned body and constraint. Safe to call twice and on
// partially constructed creatures.
func (c *Creature) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true

	if c.grab != nil {
		c.grab.Deactivate()
	}
	if c.jump != nil {
		c.jump.Deactivate()
	}
	if c.roll != nil {
		c.roll.Deactivate()
	}
	if c.move != nil {
		c.move.Deactivate()
	}

	for _, con := range c.structural {
		removeConstraint(c.space, con)
	}
	for _, con := range c.spacing {
		removeConstraint(c.space, con)
	}
	c.structural = nil
	c.spacing = nil

	for _, s := range c.segments {
		if c.space.ContainsShape(s.Shape) {
			c.space.RemoveShape(s.Shape)
		}
		if c.space.ContainsBody(s.Body) {
			c.space.RemoveBody(s.Body)
		}
	}
	c.segments = nil
}

// removeConstraint tolerates constraints the space no longer knows about;
// cleanup must always be attemptable regardless of world lifecycle state.
func removeConstraint(space *cp.Space, con *cp.Constraint) {
	if con == nil || space == nil {
		return
	}
	if space.ContainsConstraint(con) {
		space.RemoveConstraint(con)
	}
}
