package game

import (
	cp "github.com/jakecoffman/cp/v2"
)

// grabChannel pins one end section to whatever it touches. Pins persist
// until the grab axis is released, not until contact is lost: a grabbed
// ledge stays grabbed even when the body swings off it.
type grabChannel struct {
	name    string
	section [2]float64
	held    bool
	pins    map[int]*cp.Constraint // segment index -> pivot pin
}

// GrabAbility is always-on surface adhesion: each grab axis pins the
// touching segments of its end section to the static world with pivot
// joints while held.
type GrabAbility struct {
	baseAbility
	cfg GrabConfig

	head *grabChannel
	tail *grabChannel

	input ControlFrame
}

func NewGrabAbility(c *Creature, cfg GrabConfig) *GrabAbility {
	return &GrabAbility{
		baseAbility: baseAbility{c: c, name: "grab"},
		cfg:         cfg,
	}
}

func (g *GrabAbility) Activate() {
	if !g.beginActivate() {
		return
	}
	g.head = &grabChannel{name: "head", section: g.cfg.HeadSection, pins: map[int]*cp.Constraint{}}
	g.tail = &grabChannel{name: "tail", section: g.cfg.TailSection, pins: map[int]*cp.Constraint{}}
}

func (g *GrabAbility) Deactivate() {
	if !g.beginDeactivate() {
		return
	}
	g.head = nil
	g.tail = nil
}

func (g *GrabAbility) HandleInput(cf *ControlFrame) {
	g.input = *cf
}

func (g *GrabAbility) Update(dt float64) {
	if !g.active || g.head == nil {
		return
	}
	g.updateChannel(g.head, g.input.HeadGrab)
	g.updateChannel(g.tail, g.input.TailGrab)
}

func (g *GrabAbility) updateChannel(ch *grabChannel, axis float64) {
	held := axis > g.cfg.Threshold

	if !held {
		if ch.held {
			g.release(ch)
		}
		ch.held = false
		return
	}
	ch.held = true

	// Ice in the window defeats the grab outright: no new pins, and any
	// existing ones let go even though the button is still down.
	if g.c.iceInRange(ch.section[0], ch.section[1]) {
		g.release(ch)
		return
	}

	// Sticky while held: segments that touch after the initial press get
	// pinned as they land, so a grab can be walked along a surface.
	for _, gc := range g.c.groundContactsInRange(ch.section[0], ch.section[1]) {
		if gc.surface != nil && gc.surface.Ice {
			continue
		}
		if _, ok := ch.pins[gc.seg.Index]; ok {
			continue
		}
		pin := cp.NewPivotJoint(gc.seg.Body, gc.body, gc.point)
		ch.pins[gc.seg.Index] = g.ownConstraint(pin)
		g.c.bus.Emit(Event{Type: EventGrabAttach, X: gc.point.X, Y: gc.point.Y})
	}
}

func (g *GrabAbility) release(ch *grabChannel) {
	if len(ch.pins) == 0 {
		return
	}
	n := float64(len(ch.pins))
	var at cp.Vector
	for idx, pin := range ch.pins {
		at = at.Add(g.c.segments[idx].Position())
		g.disownConstraint(pin)
		delete(ch.pins, idx)
	}
	at = at.Mult(1.0 / n)
	g.c.bus.Emit(Event{Type: EventGrabRelease, X: at.X, Y: at.Y})
}

// Pinned reports how many segments the channel currently holds; used by the
// renderer to tint grabbed segments and by tests.
func (g *GrabAbility) Pinned() int {
	if g.head == nil {
		return 0
	}
	return len(g.head.pins) + len(g.tail.pins)
}
