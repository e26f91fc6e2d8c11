package game

import (
	cp "github.com/jakecoffman/cp/v2"
)

// Ability is the shared lifecycle contract. Activate and Deactivate are
// idempotent; Update and HandleInput are no-ops unless the ability cares.
type Ability interface {
	Name() string
	Active() bool
	Activate()
	Deactivate()
	HandleInput(cf *ControlFrame)
	Update(dt float64)
}

// baseAbility tracks every physics object and animation an ability creates,
// so deactivation can release all of it atomically. Concrete abilities embed
// it and route resource creation through own/disown.
type baseAbility struct {
	c    *Creature
	name string

	active bool

	constraints []*cp.Constraint
	bodies      []*cp.Body
	shapes      []*cp.Shape
	tweens      []*Tween
	emitters    []*Emitter

	doubleActivations int // double activate/deactivate calls, counted not fatal
}

func (b *baseAbility) Name() string { return b.name }
func (b *baseAbility) Active() bool { return b.active }

// beginActivate flips the ability on. Returns false (and counts) when it was
// already active, making a second Activate a no-op rather than an error.
func (b *baseAbility) beginActivate() bool {
	if b.active {
		b.doubleActivations++
		return false
	}
	b.active = true
	return true
}

// beginDeactivate flips the ability off and releases every owned resource
// before the caller runs its own teardown, guaranteeing nothing leaks even
// if that teardown bails early.
func (b *baseAbility) beginDeactivate() bool {
	if !b.active {
		b.doubleActivations++
		return false
	}
	b.active = false
	b.releaseOwned()
	return true
}

// ownConstraint adds the constraint to the space and the ledger.
func (b *baseAbility) ownConstraint(con *cp.Constraint) *cp.Constraint {
	b.c.space.AddConstraint(con)
	b.constraints = append(b.constraints, con)
	return con
}

// disownConstraint removes one constraint ahead of deactivation (for
// per-frame teardown like grab releases and jump detaches).
func (b *baseAbility) disownConstraint(con *cp.Constraint) {
	removeConstraint(b.c.space, con)
	for i, have := range b.constraints {
		if have == con {
			b.constraints = append(b.constraints[:i], b.constraints[i+1:]...)
			return
		}
	}
}

// ownBody adds a body (and optional shape) to the space and ledger.
func (b *baseAbility) ownBody(body *cp.Body) *cp.Body {
	b.c.space.AddBody(body)
	b.bodies = append(b.bodies, body)
	return body
}

func (b *baseAbility) ownShape(shape *cp.Shape) *cp.Shape {
	b.c.space.AddShape(shape)
	b.shapes = append(b.shapes, shape)
	return shape
}

func (b *baseAbility) ownTween(t *Tween) *Tween {
	b.tweens = append(b.tweens, t)
	return t
}

func (b *baseAbility) ownEmitter(e *Emitter) *Emitter {
	b.emitters = append(b.emitters, e)
	return e
}

func (b *baseAbility) updateTweens(dt float64) {
	for _, t := range b.tweens {
		t.update(dt)
	}
}

func (b *baseAbility) updateEmitters(dt float64) {
	for _, e := range b.emitters {
		e.Update(dt)
	}
}

// releaseOwned stops animations and removes constraints, shapes and bodies
// in that order. Removal is tolerant: objects already gone from the space
// (e.g. a torn-down world) are skipped, never fatal.
func (b *baseAbility) releaseOwned() {
	for _, t := range b.tweens {
		t.stop()
	}
	b.tweens = nil

	for _, e := range b.emitters {
		e.Stop()
	}
	b.emitters = nil

	for _, con := range b.constraints {
		removeConstraint(b.c.space, con)
	}
	b.constraints = nil

	for _, shape := range b.shapes {
		if b.c.space.ContainsShape(shape) {
			b.c.space.RemoveShape(shape)
		}
	}
	b.shapes = nil

	for _, body := range b.bodies {
		if b.c.space.ContainsBody(body) {
			b.c.space.RemoveBody(body)
		}
	}
	b.bodies = nil
}

// ownedConstraintCount is used by tests to assert the no-leak property.
func (b *baseAbility) ownedConstraintCount() int { return len(b.constraints) }
