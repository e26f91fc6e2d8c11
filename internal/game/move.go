package game

import (
	"math"

	cp "github.com/jakecoffman/cp/v2"
)

// anchorControl is how the roll ability reaches the movement anchors
// without holding the movement ability itself: while a wheel exists the
// tail anchor is disabled and the head anchor orbits the wheel centre.
type anchorControl interface {
	setRollMode(center func() cp.Vector)
}

// stickTracker keeps per-stick position, previous position and a velocity
// estimate. The estimate is zeroed when the stick is being released toward
// centre (a snap-back would otherwise fire a spurious impulse) and decays
// by damping^(dt*TargetFrameRate) otherwise, so behaviour does not depend
// on frame rate.
type stickTracker struct {
	pos       cp.Vector
	prev      cp.Vector
	vel       cp.Vector
	held      bool
	releasing bool
}

func (st *stickTracker) update(stick cp.Vector, dt, damping, deadZone float64) {
	st.prev = st.pos
	st.pos = stick

	var raw cp.Vector
	if dt > 0 {
		raw = stick.Sub(st.prev).Mult(1 / dt)
	}

	prevMag := st.prev.Length()
	mag := stick.Length()
	st.releasing = prevMag > deadZone &&
		mag < prevMag-1e-4 &&
		stick.Sub(st.prev).Dot(st.prev) < 0

	if st.releasing {
		st.vel = cp.Vector{}
	} else {
		st.vel = raw.Mult(math.Pow(damping, dt*TargetFrameRate))
	}
	st.held = mag > deadZone
}

// anchor is a non-colliding control body bound to one attach segment. Its
// position is driven by the stick; the binding spring exists so roll mode
// has a stiffness to force to ~0.
type anchor struct {
	name     string
	segIndex int
	tail     bool

	body   *cp.Body
	shape  *cp.Shape
	spring *cp.Constraint

	stick   stickTracker
	applied cp.Vector // positional force applied this frame
	enabled bool
}

// MoveAbility is the default locomotion: two stick-driven anchors pulling
// the head and tail segments, with a mid-body counter-force that keeps the
// creature from lifting itself off the ground with its own control forces.
type MoveAbility struct {
	baseAbility
	cfg MoveConfig

	head *anchor
	tail *anchor

	// Non-nil while rolling: the head anchor tracks this point instead of
	// its attach segment, and the tail anchor is disabled.
	wheelCenter func() cp.Vector

	input ControlFrame
}

func NewMoveAbility(c *Creature, cfg MoveConfig) *MoveAbility {
	return &MoveAbility{
		baseAbility: baseAbility{c: c, name: "move"},
		cfg:         cfg,
	}
}

func (m *MoveAbility) Activate() {
	if !m.beginActivate() {
		return
	}
	n := len(m.c.segments)
	m.head = m.newAnchor("head", 0, false)
	m.tail = m.newAnchor("tail", n-1, true)
}

func (m *MoveAbility) Deactivate() {
	if !m.beginDeactivate() {
		return
	}
	m.head = nil
	m.tail = nil
	m.wheelCenter = nil
}

func (m *MoveAbility) newAnchor(name string, segIndex int, tail bool) *anchor {
	seg := m.c.segments[segIndex]

	body := cp.NewKinematicBody()
	body.SetPosition(seg.Position())
	m.ownBody(body)

	shape := cp.NewCircle(body, 1.2, cp.Vector{})
	shape.SetSensor(true)
	shape.SetFilter(cp.SHAPE_FILTER_NONE)
	m.ownShape(shape)

	spring := cp.NewDampedSpring(body, seg.Body,
		cp.Vector{}, cp.Vector{}, 0,
		m.cfg.AnchorStiffness, m.cfg.AnchorDamping)
	m.ownConstraint(spring)

	return &anchor{
		name:     name,
		segIndex: segIndex,
		tail:     tail,
		body:     body,
		shape:    shape,
		spring:   spring,
		enabled:  true,
	}
}

func (m *MoveAbility) HandleInput(cf *ControlFrame) {
	m.input = *cf
}

func (m *MoveAbility) Update(dt float64) {
	if !m.active || m.head == nil {
		return
	}

	rolling := m.wheelCenter != nil

	m.head.stick.update(m.input.HeadStick, dt, m.cfg.StickDamping, m.cfg.DeadZone)
	m.tail.stick.update(m.input.TailStick, dt, m.cfg.StickDamping, m.cfg.DeadZone)

	if rolling {
		// Wheel mode: the head anchor orbits the wheel centre for visual
		// feedback; stick input becomes crank torque inside the roll
		// ability, not positional force here.
		center := m.wheelCenter()
		pos := center
		if m.head.stick.held {
			pos = center.Add(m.input.HeadStick.Mult(m.cfg.AnchorRadius))
		}
		m.head.body.SetPosition(pos)
		m.head.applied = cp.Vector{}

		m.tail.body.SetPosition(m.c.segments[m.tail.segIndex].Position())
		m.tail.applied = cp.Vector{}
		return
	}

	m.driveAnchor(m.head, m.input.HeadStick, m.cfg.HeadImpulse)
	m.driveAnchor(m.tail, m.input.TailStick, m.cfg.TailImpulse)

	m.stabilize()
}

// driveAnchor applies the two control forces for one anchor: a positional
// pull proportional to anchor-segment distance and a stick-velocity impulse.
func (m *MoveAbility) driveAnchor(a *anchor, stick cp.Vector, impulseMult float64) {
	seg := m.c.segments[a.segIndex]
	segPos := seg.Position()
	a.applied = cp.Vector{}

	if !a.stick.held {
		// Centre: snap the anchor onto the segment so there is never a
		// residual spring pull or drift at rest.
		a.body.SetPosition(segPos)
		return
	}

	target := segPos.Add(stick.Mult(m.cfg.AnchorRadius))
	a.body.SetPosition(target)

	d := target.Sub(segPos)
	dist := d.Length()
	if dist > m.cfg.MinForceDistance {
		f := d.Mult(1 / dist).Mult(dist * m.cfg.PositionForce)
		seg.Body.ApplyForceAtWorldPoint(f, segPos)
		a.applied = f
	}

	if !a.stick.releasing {
		imp := a.stick.vel.Mult(impulseMult * seg.Mass()).Clamp(m.cfg.ImpulseMax)
		seg.Body.ApplyImpulseAtWorldPoint(imp, segPos)
	}
}

// stabilize mirrors the summed anchor forces onto a window of mid-body
// segments, weighted by a sine kernel, whenever nothing touches the ground.
// Without this the creature can lift itself purely with control forces.
func (m *MoveAbility) stabilize() {
	total := m.head.applied.Add(m.tail.applied)
	if total.LengthSq() < 1e-6 || m.c.anyGrounded() {
		return
	}

	segs := m.c.segments
	n := len(segs)
	count := int(math.Round(float64(n) * m.cfg.StabilizeFraction))
	if count < 1 {
		count = 1
	}
	if count > n {
		count = n
	}
	start := (n - count) / 2

	weightSum := 0.0
	for j := 0; j < count; j++ {
		weightSum += math.Sin(math.Pi * (float64(j) + 0.5) / float64(count))
	}

	counter := total.Mult(-m.cfg.StabilizePercent)
	for j := 0; j < count; j++ {
		w := math.Sin(math.Pi*(float64(j)+0.5)/float64(count)) / weightSum
		seg := segs[start+j]
		seg.Body.ApplyForceAtWorldPoint(counter.Mult(w), seg.Position())
	}
}

// setRollMode is the anchorControl hook. A non-nil centre disables the tail
// anchor (spring stiffness forced to ~0) and redirects the head anchor.
func (m *MoveAbility) setRollMode(center func() cp.Vector) {
	m.wheelCenter = center
	if m.tail == nil || m.tail.spring == nil {
		return
	}
	spring := m.tail.spring.Class.(*cp.DampedSpring)
	if center != nil {
		spring.Stiffness = 0
		m.tail.enabled = false
	} else {
		spring.Stiffness = m.cfg.AnchorStiffness
		m.tail.enabled = true
	}
}

// AnchorDots appends renderable sprites for the enabled anchors.
func (m *MoveAbility) AnchorDots(buf []float32) []float32 {
	for _, a := range []*anchor{m.head, m.tail} {
		if a == nil || !a.enabled || !a.stick.held {
			continue
		}
		p := a.body.Position()
		buf = append(buf,
			float32(p.X), float32(p.Y), 2.4, 1.0, 1.0, 0.85, 0.9, 0)
	}
	return buf
}
