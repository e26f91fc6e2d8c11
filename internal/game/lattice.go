package game

import (
	cp "github.com/jakecoffman/cp/v2"
)

// latticeSpring is one bridging spring plus its position along the chain,
// used to blend the two trigger channels.
type latticeSpring struct {
	spring   *cp.DampedSpring
	fraction float64 // midpoint index / (N-1); 0 = head end, 1 = tail end
}

// LatticeAbility is the alternative jump: a lattice of springs bridging
// nearby segments, built once and never detached. Triggers modulate the
// lattice stiffness, so a pressed trigger snaps that end of the body
// straight and springy; at rest (and while rolling) the lattice idles at a
// baseline that leaves the chain floppy.
type LatticeAbility struct {
	baseAbility
	cfg LatticeConfig

	springs []latticeSpring
	input   ControlFrame
}

func NewLatticeAbility(c *Creature, cfg LatticeConfig) *LatticeAbility {
	return &LatticeAbility{
		baseAbility: baseAbility{c: c, name: "lattice"},
		cfg:         cfg,
	}
}

func (l *LatticeAbility) Activate() {
	if !l.beginActivate() {
		return
	}
	segs := l.c.segments
	n := len(segs)

	for span := 2; span <= l.cfg.Span; span++ {
		for i := 0; i+span < n; i++ {
			a, b := segs[i], segs[i+span]

			rest := 0.0
			for k := i; k < i+span; k++ {
				rest += segs[k].Radius + segs[k+1].Radius + l.c.cfg.Chain.Gap
			}

			con := cp.NewDampedSpring(a.Body, b.Body,
				cp.Vector{}, cp.Vector{},
				rest,
				l.cfg.Baseline, l.cfg.Damping)
			l.ownConstraint(con)

			l.springs = append(l.springs, latticeSpring{
				spring:   con.Class.(*cp.DampedSpring),
				fraction: (float64(i) + float64(span)/2) / float64(n-1),
			})
		}
	}
}

func (l *LatticeAbility) Deactivate() {
	if !l.beginDeactivate() {
		return
	}
	l.springs = nil
}

func (l *LatticeAbility) HandleInput(cf *ControlFrame) {
	l.input = *cf
}

// Update blends the two triggers along the chain and writes the resulting
// stiffness into every spring. Rolling suppresses the lattice to baseline so
// it never fights the wheel chords.
func (l *LatticeAbility) Update(dt float64) {
	if !l.active {
		return
	}

	headT, tailT := l.input.HeadTrigger, l.input.TailTrigger
	if l.c.Mode() == ModeRolling {
		headT, tailT = 0, 0
	}

	for _, ls := range l.springs {
		t := headT*(1-ls.fraction) + tailT*ls.fraction
		ls.spring.Stiffness = l.cfg.Baseline + t*(l.cfg.MaxStiffness-l.cfg.Baseline)
	}
}
