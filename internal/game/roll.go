package game

import (
	"math"

	cp "github.com/jakecoffman/cp/v2"
)

// Stick must be deflected at least this far before its angle counts as a
// crank sweep.
const crankStickMin = 0.4

// crank accumulates the angular sweep of one stick. Sweeps larger than the
// per-frame cap are treated as stick snaps and discarded.
type crank struct {
	prevAngle float64
	havePrev  bool
}

func (cr *crank) sweep(stick cp.Vector, maxDelta float64) float64 {
	if stick.Length() < crankStickMin {
		cr.havePrev = false
		return 0
	}
	ang := math.Atan2(stick.Y, stick.X)
	if !cr.havePrev {
		cr.prevAngle = ang
		cr.havePrev = true
		return 0
	}
	d := angDiff(cr.prevAngle, ang)
	cr.prevAngle = ang
	if math.Abs(d) > maxDelta {
		return 0
	}
	return d
}

// RollAbility curls the chain into a wheel with chord springs and drives it
// with stick cranking. Exclusive with the jump ability via the mode machine.
type RollAbility struct {
	baseAbility
	cfg     RollConfig
	anchors anchorControl

	chords []*cp.DampedSpring
	radius float64
	formed bool // formation tween finished; cranking is inert before that

	headCrank crank
	tailCrank crank
	engaged   float64 // accumulated sweep from both cranks

	input ControlFrame
}

func NewRollAbility(c *Creature, cfg RollConfig, anchors anchorControl) *RollAbility {
	return &RollAbility{
		baseAbility: baseAbility{c: c, name: "roll"},
		cfg:         cfg,
		anchors:     anchors,
	}
}

// Radius is the target wheel radius derived from the chain's circumference.
func (r *RollAbility) Radius() float64 { return r.radius }

func (r *RollAbility) Activate() {
	if !r.beginActivate() {
		return
	}

	segs := r.c.segments
	n := len(segs)

	circ := 0.0
	for _, s := range segs {
		circ += 2*s.Radius + r.c.cfg.Chain.Gap
	}
	r.radius = circ / (2 * math.Pi)

	// Chords link segment i to i+skip around the ring (wrapping, which also
	// closes the tail back to the head). Rest length is the chord of the
	// target circle for that step count.
	skip := r.cfg.ChordSkip
	if skip >= n {
		skip = n - 1
	}
	for i := 0; i < n; i += r.cfg.ChordStep {
		j := (i + skip) % n
		if j == i {
			continue
		}
		rest := 2 * r.radius * math.Sin(math.Pi*float64(skip)/float64(n))
		con := cp.NewDampedSpring(segs[i].Body, segs[j].Body,
			cp.Vector{}, cp.Vector{},
			rest,
			r.cfg.StartStiffness, r.cfg.ChordDamping)
		r.ownConstraint(con)
		r.chords = append(r.chords, con.Class.(*cp.DampedSpring))
	}

	// Soft springs would launch the chain if they snapped rigid instantly;
	// ramp the stiffness over the formation time instead. Crank input stays
	// inert until the ramp finishes.
	r.formed = r.cfg.FormationTime <= 0
	tw := newTween(r.cfg.StartStiffness, r.cfg.EndStiffness, r.cfg.FormationTime,
		func(v float64) {
			for _, s := range r.chords {
				s.Stiffness = v
			}
		})
	tw.onDone = func() { r.formed = true }
	r.ownTween(tw)

	if r.anchors != nil {
		r.anchors.setRollMode(func() cp.Vector { return r.c.Centroid() })
	}

	if r.c.particles != nil {
		r.ownEmitter(NewEmitter(r.c.particles, ParticleDust, Palette.Dust, 30, 25,
			func() (cp.Vector, bool) {
				contacts := r.c.groundContactsInRange(0, 1)
				if len(contacts) == 0 {
					return cp.Vector{}, false
				}
				return contacts[0].point, true
			}))
	}

	r.headCrank = crank{}
	r.tailCrank = crank{}
	r.engaged = 0
}

func (r *RollAbility) Deactivate() {
	if !r.active {
		r.doubleActivations++
		return
	}

	// Exiting straight into a jump keeps the wheel's momentum as a final
	// tangential kick, so a spinning launch actually spins off.
	if r.c.Mode() == ModeJumping {
		if omega := r.spin(); math.Abs(omega) > 0.5 {
			r.applyTangential(omega * r.cfg.ExitBoost)
		}
	}

	r.beginDeactivate()
	r.chords = nil
	r.formed = false
	if r.anchors != nil {
		r.anchors.setRollMode(nil)
	}
}

func (r *RollAbility) HandleInput(cf *ControlFrame) {
	r.input = *cf
}

func (r *RollAbility) Update(dt float64) {
	if !r.active {
		return
	}
	r.updateTweens(dt)
	r.updateEmitters(dt)
	if !r.formed {
		return
	}

	sweep := r.headCrank.sweep(r.input.HeadStick, r.cfg.CrankMaxDelta) +
		r.tailCrank.sweep(r.input.TailStick, r.cfg.CrankMaxDelta)
	r.drive(sweep)

	omega := r.spin()
	r.limitSpin(omega)
	r.correctSlip(omega)
}

// drive turns accumulated stick sweep into tangential force around the wheel
// centre. The engage threshold filters out idle stick wobble.
func (r *RollAbility) drive(sweep float64) {
	r.engaged += sweep
	if math.Abs(r.engaged) < r.cfg.CrankEngage {
		return
	}
	if sweep != 0 {
		r.applyTangential(sweep * r.cfg.TorqueGain)
	}
}

// spin estimates the wheel's angular velocity about the centroid, CCW
// positive, from the segments' velocities relative to the centroid.
func (r *RollAbility) spin() float64 {
	segs := r.c.segments
	center := r.c.Centroid()

	var cv cp.Vector
	for _, s := range segs {
		cv = cv.Add(s.Body.Velocity())
	}
	cv = cv.Mult(1.0 / float64(len(segs)))

	sum, cnt := 0.0, 0
	for _, s := range segs {
		rel := s.Position().Sub(center)
		d2 := rel.LengthSq()
		if d2 < 1.0 {
			continue
		}
		sum += rel.Cross(s.Body.Velocity().Sub(cv)) / d2
		cnt++
	}
	if cnt == 0 {
		return 0
	}
	return sum / float64(cnt)
}

// applyTangential pushes every segment along its ring tangent. The mean
// tangent is subtracted so the sum of forces is zero: cranking spins the
// wheel without dragging its centre sideways.
func (r *RollAbility) applyTangential(f float64) {
	segs := r.c.segments
	center := r.c.Centroid()

	tangents := make([]cp.Vector, len(segs))
	var sum cp.Vector
	cnt := 0
	for i, s := range segs {
		rel := s.Position().Sub(center)
		if rel.LengthSq() < 1.0 {
			continue
		}
		t := cp.Vector{X: -rel.Y, Y: rel.X}.Normalize()
		tangents[i] = t
		sum = sum.Add(t)
		cnt++
	}
	if cnt == 0 {
		return
	}
	mean := sum.Mult(1.0 / float64(cnt))

	for i, s := range segs {
		if tangents[i] == (cp.Vector{}) {
			continue
		}
		s.Body.ApplyForceAtWorldPoint(tangents[i].Sub(mean).Mult(f), s.Position())
	}
}

func (r *RollAbility) limitSpin(omega float64) {
	if math.Abs(omega) <= r.cfg.MaxAngular {
		return
	}
	excess := omega - math.Copysign(r.cfg.MaxAngular, omega)
	r.applyTangential(-excess * r.cfg.OverspinDamp * r.cfg.TorqueGain)
}

// correctSlip nudges the grounded segments' horizontal velocity toward the
// no-slip speed for the current spin. Inert below the spin gate, and
// disabled on ice, which is the whole point of ice.
func (r *RollAbility) correctSlip(omega float64) {
	if math.Abs(omega) <= 0.1 {
		return
	}
	contacts := r.c.groundContactsInRange(0, 1)
	if len(contacts) == 0 {
		return
	}
	grounded := make(map[int]bool, len(contacts))
	for _, gc := range contacts {
		if gc.surface != nil && gc.surface.Ice {
			return
		}
		grounded[gc.seg.Index] = true
	}

	var vx float64
	for _, s := range r.c.segments {
		vx += s.Body.Velocity().X
	}
	vx /= float64(len(r.c.segments))

	// Rolling without slip, CCW-positive spin: centre moves at -omega*R.
	expected := -omega * r.radius
	slip := vx - expected
	denom := math.Max(math.Abs(expected), 20.0)
	if math.Abs(slip)/denom < r.cfg.SlipThreshold {
		return
	}

	corr := clampF(-slip*0.5, -r.cfg.SlipCorrection, r.cfg.SlipCorrection)
	for _, s := range r.c.segments {
		if !grounded[s.Index] {
			continue
		}
		v := s.Body.Velocity()
		s.Body.SetVelocityVector(cp.Vector{X: v.X + corr, Y: v.Y})
	}
}
