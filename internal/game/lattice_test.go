package game

import (
	"testing"

	cp "github.com/jakecoffman/cp/v2"
)

func latticeCreature(t *testing.T) (*cp.Space, *Creature, *LatticeAbility) {
	t.Helper()
	space := newTestSpace()
	addTestFloor(space, 12, surfGround)
	cfg := DefaultCreatureConfig()
	cfg.JumpStyle = JumpStyleLattice
	c := NewCreature(space, cp.Vector{X: 60, Y: 30}, cfg)
	return space, c, c.jump.(*LatticeAbility)
}

func TestLatticeBuiltAtConstruction(t *testing.T) {
	_, c, l := latticeCreature(t)

	if !l.Active() {
		t.Fatalf("lattice not active from construction")
	}
	if len(l.springs) == 0 {
		t.Fatalf("no lattice springs built")
	}
	for i, ls := range l.springs {
		if ls.spring.Stiffness != c.cfg.Lattice.Baseline {
			t.Fatalf("spring %d stiffness = %v at rest, want baseline %v",
				i, ls.spring.Stiffness, c.cfg.Lattice.Baseline)
		}
		if ls.spring.RestLength <= 0 {
			t.Fatalf("spring %d has zero rest length", i)
		}
	}
}

func TestLatticeStiffnessFollowsTriggers(t *testing.T) {
	_, c, l := latticeCreature(t)

	runFrames(c, ControlFrame{HeadTrigger: 1}, 1)

	// The spring nearest the head should be at (or near) full stiffness, the
	// one nearest the tail near baseline.
	headMost, tailMost := l.springs[0], l.springs[0]
	for _, ls := range l.springs {
		if ls.fraction < headMost.fraction {
			headMost = ls
		}
		if ls.fraction > tailMost.fraction {
			tailMost = ls
		}
	}

	if headMost.spring.Stiffness < 0.7*c.cfg.Lattice.MaxStiffness {
		t.Fatalf("head-end stiffness = %v at full head trigger, want near %v",
			headMost.spring.Stiffness, c.cfg.Lattice.MaxStiffness)
	}
	if tailMost.spring.Stiffness > 0.35*c.cfg.Lattice.MaxStiffness {
		t.Fatalf("tail-end stiffness = %v with tail trigger idle", tailMost.spring.Stiffness)
	}

	runFrames(c, ControlFrame{}, 1)
	for i, ls := range l.springs {
		if ls.spring.Stiffness != c.cfg.Lattice.Baseline {
			t.Fatalf("spring %d not back at baseline after release", i)
		}
	}
}

func TestLatticeSuppressedWhileRolling(t *testing.T) {
	_, c, l := latticeCreature(t)
	runFrames(c, ControlFrame{}, 60)

	// Reach Rolling with the trigger already held: trigger first (Jumping),
	// then a roll press preempts. A held trigger must not stiffen the
	// lattice while the wheel is formed.
	runFrames(c, ControlFrame{HeadTrigger: 1}, 2)
	runFrames(c, ControlFrame{HeadTrigger: 1, RollHeld: true}, 2)
	if c.Mode() != ModeRolling {
		t.Fatalf("mode = %v, want rolling", c.Mode())
	}
	for i, ls := range l.springs {
		if ls.spring.Stiffness != c.cfg.Lattice.Baseline {
			t.Fatalf("spring %d stiffness = %v while rolling, want baseline", i, ls.spring.Stiffness)
		}
	}
}
