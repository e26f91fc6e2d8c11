package game

import (
	"math"

	cp "github.com/jakecoffman/cp/v2"
)

// jumpChannel is one trigger's telescoping leg. Head and tail channels are
// fully symmetric; each can independently attach, telescope and detach.
type jumpChannel struct {
	name    string
	drive   *Segment
	target  *Segment
	section [2]float64

	spring     *cp.Constraint // leg spring, nil while the trigger is idle
	grounded   bool           // leg pinned to the world at a contact point
	groundBody *cp.Body       // the surface body the leg is pinned against
	baseDist   float64        // drive-to-anchor distance at attach time
}

// JumpAbility drives one telescoping spring per trigger. The spring's rest
// length extends with the trigger value, pushing the drive segment away from
// either a ground contact under its own section or, airborne, from a segment
// partway down the chain.
type JumpAbility struct {
	baseAbility
	cfg JumpConfig

	head *jumpChannel
	tail *jumpChannel

	// One body-wide coiling spring shared by both channels, driven by the
	// larger trigger.
	coil *cp.Constraint

	input ControlFrame
}

func NewJumpAbility(c *Creature, cfg JumpConfig) *JumpAbility {
	return &JumpAbility{
		baseAbility: baseAbility{c: c, name: "jump"},
		cfg:         cfg,
	}
}

func (j *JumpAbility) Activate() {
	if !j.beginActivate() {
		return
	}
	segs := j.c.segments
	n := len(segs)
	// A chain too short for distinct drive and target segments gets no
	// springs; the ability stays a no-op until deactivation.
	if n < 3 {
		return
	}

	headTarget := int(j.cfg.TargetFraction * float64(n-1))
	tailTarget := n - 1 - headTarget

	j.head = &jumpChannel{
		name:    "head",
		drive:   segs[0],
		target:  segs[headTarget],
		section: j.cfg.HeadSection,
	}
	j.tail = &jumpChannel{
		name:    "tail",
		drive:   segs[n-1],
		target:  segs[tailTarget],
		section: j.cfg.TailSection,
	}
}

func (j *JumpAbility) Deactivate() {
	if !j.beginDeactivate() {
		return
	}
	j.head = nil
	j.tail = nil
	j.coil = nil
}

func (j *JumpAbility) HandleInput(cf *ControlFrame) {
	j.input = *cf
}

func (j *JumpAbility) Update(dt float64) {
	if !j.active || j.head == nil {
		return
	}
	j.updateChannel(j.head, j.input.HeadTrigger)
	j.updateChannel(j.tail, j.input.TailTrigger)
	j.updateCoil(math.Max(j.input.HeadTrigger, j.input.TailTrigger))
}

func (j *JumpAbility) updateChannel(ch *jumpChannel, trigger float64) {
	if trigger <= j.cfg.ActivateThreshold {
		j.detach(ch)
		return
	}
	if ch.spring == nil {
		j.attach(ch)
	}

	// A grounded leg pushes against a stale world point once the section
	// peels off its surface; swap it for a segment-to-segment leg in place.
	if ch.grounded && !j.sectionTouches(ch, ch.groundBody) {
		j.disownConstraint(ch.spring)
		con := cp.NewDampedSpring(ch.drive.Body, ch.target.Body,
			cp.Vector{}, cp.Vector{},
			0, 0, j.cfg.SpringDamping)
		ch.baseDist = ch.drive.Position().Sub(ch.target.Position()).Length()
		ch.spring = j.ownConstraint(con)
		ch.grounded = false
		ch.groundBody = nil
	}

	// Telescoping: rest length and stiffness track the trigger every frame,
	// so easing the trigger in extends the leg smoothly instead of firing a
	// fixed-size impulse.
	reach := j.reach(ch)
	leg := ch.spring.Class.(*cp.DampedSpring)
	leg.RestLength = ch.baseDist + trigger*reach
	leg.Stiffness = trigger * j.cfg.MaxStiffness
}

// updateCoil drives the body-wide coiling spring from the stronger trigger.
func (j *JumpAbility) updateCoil(trigger float64) {
	if trigger <= j.cfg.ActivateThreshold {
		if j.coil != nil {
			j.disownConstraint(j.coil)
			j.coil = nil
		}
		return
	}
	if j.coil == nil {
		j.coil = j.ownConstraint(cp.NewDampedSpring(
			j.head.drive.Body, j.tail.drive.Body,
			cp.Vector{}, cp.Vector{},
			0, 0, j.cfg.CompressionDamping))
	}
	j.coil.Class.(*cp.DampedSpring).Stiffness = trigger * j.cfg.CompressionMax
}

// attach builds the channel's leg. Grounded beats airborne: with a non-ice
// contact under the channel's own section the leg pins to the world there,
// so the push has something to push against. Ice never grounds a leg.
func (j *JumpAbility) attach(ch *jumpChannel) {
	ch.grounded = false
	ch.groundBody = nil

	var con *cp.Constraint
	if j.cfg.GroundAnchoring {
		for _, gc := range j.c.groundContactsInRange(ch.section[0], ch.section[1]) {
			if gc.surface != nil && gc.surface.Ice {
				continue
			}
			con = cp.NewDampedSpring(ch.drive.Body, j.c.space.StaticBody,
				cp.Vector{}, gc.point,
				0, 0, j.cfg.SpringDamping)
			ch.baseDist = ch.drive.Position().Sub(gc.point).Length()
			ch.grounded = true
			ch.groundBody = gc.body
			break
		}
	}
	if con == nil {
		con = cp.NewDampedSpring(ch.drive.Body, ch.target.Body,
			cp.Vector{}, cp.Vector{},
			0, 0, j.cfg.SpringDamping)
		ch.baseDist = ch.drive.Position().Sub(ch.target.Position()).Length()
	}
	ch.spring = j.ownConstraint(con)
}

func (j *JumpAbility) detach(ch *jumpChannel) {
	if ch.spring != nil {
		j.disownConstraint(ch.spring)
		ch.spring = nil
	}
	ch.grounded = false
	ch.groundBody = nil
}

// sectionTouches reports whether the channel's section still contacts the
// given surface body.
func (j *JumpAbility) sectionTouches(ch *jumpChannel, body *cp.Body) bool {
	for _, gc := range j.c.groundContactsInRange(ch.section[0], ch.section[1]) {
		if gc.body == body {
			return true
		}
	}
	return false
}

// reach is how far past the attach distance the leg extends at full trigger:
// the slack chain length between drive and target.
func (j *JumpAbility) reach(ch *jumpChannel) float64 {
	lo, hi := ch.drive.Index, ch.target.Index
	if lo > hi {
		lo, hi = hi, lo
	}
	span := 0.0
	for k := lo; k < hi; k++ {
		a, b := j.c.segments[k], j.c.segments[k+1]
		span += a.Radius + b.Radius + j.c.cfg.Chain.Gap
	}
	return span
}
