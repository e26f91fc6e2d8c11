package game

import (
	"math"

	cp "github.com/jakecoffman/cp/v2"
)

type ParticleKind uint8

const (
	ParticleDust ParticleKind = iota
	ParticleSpark
	ParticleGlow
)

type Particle struct {
	X, Y   float64
	VX, VY float64

	Size float64

	Life    float64
	MaxLife float64

	Col  RGB
	Kind ParticleKind
}

type ParticleSystem struct {
	Max    int
	P      []Particle
	rng    *Rand
	ovrIdx int // circular overwrite index when full
}

func NewParticleSystem(maxParticles int, seed uint64) *ParticleSystem {
	if maxParticles <= 0 {
		maxParticles = MaxParticles
	}
	return &ParticleSystem{
		Max: maxParticles,
		P:   make([]Particle, 0, maxParticles),
		rng: NewRand(seed),
	}
}

func (ps *ParticleSystem) Clear() {
	ps.P = ps.P[:0]
	ps.ovrIdx = 0
}

func (ps *ParticleSystem) Add(p Particle) {
	if len(ps.P) < ps.Max {
		ps.P = append(ps.P, p)
		return
	}
	// Circular overwrite.
	if ps.ovrIdx >= ps.Max {
		ps.ovrIdx = 0
	}
	ps.P[ps.ovrIdx] = p
	ps.ovrIdx++
}

func (ps *ParticleSystem) Update(dt float64) {
	alive := ps.P[:0]
	for _, p := range ps.P {
		p.Life += dt
		if p.Life >= p.MaxLife {
			continue
		}
		switch p.Kind {
		case ParticleDust:
			p.VY -= Gravity * 0.15 * dt
			p.VX *= 1.0 - 2.2*dt
		case ParticleSpark:
			p.VY -= Gravity * 0.5 * dt
		case ParticleGlow:
			p.VX *= 1.0 - 4.0*dt
			p.VY *= 1.0 - 4.0*dt
		}
		p.X += p.VX * dt
		p.Y += p.VY * dt
		alive = append(alive, p)
	}
	ps.P = alive
	if ps.ovrIdx > len(ps.P) {
		ps.ovrIdx = 0
	}
}

// SpawnBurst scatters count particles from a point with random velocities up
// to speed. Used for landings, grabs and releases.
func (ps *ParticleSystem) SpawnBurst(kind ParticleKind, col RGB, at cp.Vector, count int, speed float64) {
	for i := 0; i < count; i++ {
		ang := ps.rng.RangeF(0, 2*math.Pi)
		v := ps.rng.RangeF(speed*0.25, speed)
		ps.Add(Particle{
			X: at.X, Y: at.Y,
			VX:      math.Cos(ang) * v,
			VY:      math.Abs(math.Sin(ang)) * v, // bursts kick upward
			Size:    ps.rng.RangeF(0.8, 2.0),
			MaxLife: ps.rng.RangeF(0.25, 0.8),
			Col:     col,
			Kind:    kind,
		})
	}
}

// ParticleRenderData splits particles into glow (additive) and normal
// (alpha blend) buffers. Format: [x, y, size, r, g, b, a, rotation] * N.
func (ps *ParticleSystem) ParticleRenderData(glowBuf, normBuf []float32) ([]float32, []float32) {
	glowBuf = glowBuf[:0]
	normBuf = normBuf[:0]

	for _, p := range ps.P {
		t := p.Life / p.MaxLife
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		a := float32(1.0 - t)
		rc := float32(p.Col.R) / 255.0
		gc := float32(p.Col.G) / 255.0
		bc := float32(p.Col.B) / 255.0

		if p.Kind == ParticleGlow || p.Kind == ParticleSpark {
			// Additive: pre-multiply by alpha.
			glowBuf = append(glowBuf,
				float32(p.X), float32(p.Y), float32(p.Size),
				rc*a, gc*a, bc*a, a, 0)
		} else {
			normBuf = append(normBuf,
				float32(p.X), float32(p.Y), float32(p.Size),
				rc, gc, bc, a, 0)
		}
	}
	return glowBuf, normBuf
}

// Emitter is a continuous particle source owned by an ability; the rolling
// wheel's ground dust is one. Stop is what the resource ledger calls on
// deactivation.
type Emitter struct {
	ps      *ParticleSystem
	kind    ParticleKind
	col     RGB
	rate    float64 // particles per second
	speed   float64
	pos     func() (cp.Vector, bool) // source point; false = skip this frame
	acc     float64
	stopped bool
}

func NewEmitter(ps *ParticleSystem, kind ParticleKind, col RGB, rate, speed float64, pos func() (cp.Vector, bool)) *Emitter {
	return &Emitter{ps: ps, kind: kind, col: col, rate: rate, speed: speed, pos: pos}
}

func (e *Emitter) Stop() { e.stopped = true }

func (e *Emitter) Update(dt float64) {
	if e.stopped || e.ps == nil || e.pos == nil {
		return
	}
	at, ok := e.pos()
	if !ok {
		return
	}
	e.acc += e.rate * dt
	for e.acc >= 1 {
		e.acc--
		ang := e.ps.rng.RangeF(math.Pi*0.15, math.Pi*0.85)
		v := e.ps.rng.RangeF(e.speed*0.3, e.speed)
		e.ps.Add(Particle{
			X: at.X, Y: at.Y,
			VX:      math.Cos(ang) * v,
			VY:      math.Sin(ang) * v,
			Size:    e.ps.rng.RangeF(0.7, 1.6),
			MaxLife: e.ps.rng.RangeF(0.2, 0.6),
			Col:     e.col,
			Kind:    e.kind,
		})
	}
}
