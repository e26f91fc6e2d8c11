package game

import (
	cp "github.com/jakecoffman/cp/v2"
)

// World owns the physics space, the terrain, the creature and the particle
// system, and steps them in a fixed order each frame.
type World struct {
	Space     *cp.Space
	Terrain   *Terrain
	Creature  *Creature
	Particles *ParticleSystem

	seed uint64
}

func NewWorld(seed uint64, cfg CreatureConfig) *World {
	space := cp.NewSpace()
	space.Iterations = SolverIterations
	space.SetGravity(cp.Vector{Y: -Gravity})

	w := &World{
		Space:     space,
		Terrain:   NewTerrain(space),
		Particles: NewParticleSystem(MaxParticles, seed),
		seed:      seed,
	}
	w.spawnCreature(cfg)
	return w
}

func (w *World) spawnCreature(cfg CreatureConfig) {
	w.Creature = NewCreature(w.Space, cp.Vector{X: 60, Y: 30}, cfg)
	w.Creature.SetParticles(w.Particles)

	bus := w.Creature.Bus()
	bus.Subscribe(EventHardLanding, func(e Event) {
		w.Particles.SpawnBurst(ParticleDust, Palette.Dust, cp.Vector{X: e.X, Y: e.Y}, 24, 40)
	})
	bus.Subscribe(EventGrabAttach, func(e Event) {
		w.Particles.SpawnBurst(ParticleSpark, Palette.Spark, cp.Vector{X: e.X, Y: e.Y}, 6, 20)
	})
	bus.Subscribe(EventGrabRelease, func(e Event) {
		w.Particles.SpawnBurst(ParticleGlow, Palette.Glow, cp.Vector{X: e.X, Y: e.Y}, 8, 15)
	})
}

// Reset tears the creature down and rebuilds it at the spawn point.
func (w *World) Reset(cfg CreatureConfig) {
	w.Creature.Destroy()
	w.Particles.Clear()
	w.spawnCreature(cfg)
}

// Step advances one frame: resolve input, run the creature, step physics
// once, then advance the particles. The dt clamp keeps the springs stable
// across stalls.
func (w *World) Step(in *InputFrame) {
	dt := in.DeltaSeconds
	if dt > MaxFrameDelta {
		dt = MaxFrameDelta
		in.DeltaSeconds = dt
		in.Delta = dt * 1000
	}
	if dt <= 0 {
		return
	}

	cf := in.Resolve()
	w.Creature.Update(&cf)
	w.Space.Step(dt)
	w.Particles.Update(dt)
}
