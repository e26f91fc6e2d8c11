package game

// Tween ramps a value over a fixed duration with an ease-out curve, driven
// by the frame delta. Abilities own their tweens through the resource
// ledger, so deactivating mid-ramp stops them synchronously.
type Tween struct {
	from, to float64
	duration float64
	elapsed  float64
	stopped  bool
	apply    func(v float64)
	onDone   func()
}

func newTween(from, to, duration float64, apply func(v float64)) *Tween {
	t := &Tween{from: from, to: to, duration: duration, apply: apply}
	if apply != nil {
		apply(from)
	}
	return t
}

func (t *Tween) update(dt float64) {
	if t.stopped || t.done() {
		return
	}
	t.elapsed += dt
	v := t.value()
	if t.apply != nil {
		t.apply(v)
	}
	if t.done() && t.onDone != nil {
		t.onDone()
	}
}

func (t *Tween) value() float64 {
	if t.duration <= 0 {
		return t.to
	}
	return t.from + (t.to-t.from)*easeOutCubic(t.elapsed/t.duration)
}

func (t *Tween) done() bool {
	return t.duration <= 0 || t.elapsed >= t.duration
}

// stop freezes the tween where it is. It does not snap to the target; the
// owner decides what happens to the driven value afterwards.
func (t *Tween) stop() { t.stopped = true }
