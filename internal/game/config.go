package game

// Window defaults.
const (
	WindowWidth  = 1024
	WindowHeight = 640
	DefaultZoom  = 3.0
	MinZoom      = 1.0
	MaxZoom      = 10.0
)

// World extent (world units). The terrain builder fills this box.
const (
	WorldWidth  = 480.0
	WorldHeight = 260.0
)

// Physics step tuning.
const (
	Gravity          = 420.0
	SolverIterations = 20
	MaxFrameDelta    = 0.05 // clamp dt on stalls so springs stay stable
	TargetFrameRate  = 60.0 // normalization base for frame-rate independent decay
)

// Particles.
const MaxParticles = 4000

// ChainConfig sizes the segment chain.
type ChainConfig struct {
	Segments   int     // body count; head is index 0
	HeadRadius float64 // radius at index 0
	TailRadius float64 // radius at index N-1, linear taper between
	Gap        float64 // surface-to-surface spacing between neighbours
	Density    float64 // mass = density * pi * r^2

	StructuralStiffness float64 // rigid-ish surface-to-surface spring
	StructuralDamping   float64
	SpacingStiffness    float64 // very soft one-sided minimum-distance spring
	SpacingDamping      float64

	Friction   float64
	Elasticity float64
}

// MoveConfig tunes the default (always-on) locomotion.
type MoveConfig struct {
	AnchorRadius     float64 // stick displacement scale around the attach segment
	DeadZone         float64 // stick magnitude below which the anchor snaps home
	PositionForce    float64 // force per unit of anchor-to-segment distance
	MinForceDistance float64 // below this, no positional force (jitter guard)

	HeadImpulse float64 // velocity-impulse multiplier, head channel
	TailImpulse float64 // tail is tuned stronger
	ImpulseMax  float64 // clamp on the impulse magnitude per frame

	StickDamping float64 // per-frame velocity decay base, raised to dt*TargetFrameRate

	AnchorStiffness float64 // binding spring; rolled mode forces the tail one to ~0
	AnchorDamping   float64

	StabilizeFraction float64 // fraction of mid-body segments receiving counter-force
	StabilizePercent  float64 // share of the anchor force mirrored onto them
}

// RollConfig tunes wheel formation and drive.
type RollConfig struct {
	ChordSkip     int     // chord links segment i to i+ChordSkip
	ChordStep     int     // a chord starts at every ChordStep-th segment
	FormationTime float64 // seconds from StartStiffness to EndStiffness

	StartStiffness float64
	EndStiffness   float64
	ChordDamping   float64

	MaxAngular   float64 // rad/s clamp on the estimated wheel spin
	OverspinDamp float64 // tangential damping force applied past the clamp

	SlipThreshold  float64 // relative slip ratio before correction kicks in
	SlipCorrection float64 // max horizontal velocity nudge per frame

	CrankMaxDelta float64 // stick sweeps above this per frame are discarded
	CrankEngage   float64 // accumulated sweep before torque applies
	TorqueGain    float64 // tangential force per radian of sweep

	ExitBoost float64 // tangential force per rad/s kept when exiting into a jump
}

// JumpConfig tunes the telescoping trigger springs.
type JumpConfig struct {
	ActivateThreshold float64 // trigger value that attaches a spring
	MaxStiffness      float64 // stiffness at full trigger
	SpringDamping     float64

	GroundAnchoring bool       // allow pinning the spring to the ground
	HeadSection     [2]float64 // fractional window that grounds the head channel
	TailSection     [2]float64

	TargetFraction float64 // chain fraction the drive segment is pulled toward

	CompressionMax     float64 // body-wide coiling spring at full trigger
	CompressionDamping float64
}

// LatticeConfig tunes the alternative lattice jump.
type LatticeConfig struct {
	MaxStiffness float64
	Baseline     float64 // stiffness at zero trigger and while rolling
	Damping      float64
	Span         int // lattice springs bridge up to this many segments from each end
}

// GrabConfig tunes surface adhesion.
type GrabConfig struct {
	Threshold   float64 // grab axis value that counts as held
	HeadSection [2]float64
	TailSection [2]float64
}

// JumpStyle selects which exclusive jump implementation the creature builds.
const (
	JumpStyleSpring  = "spring"
	JumpStyleLattice = "lattice"
)

// CreatureConfig aggregates every ability config. All fields are populated
// and normalized once at construction; abilities never read defaults lazily.
type CreatureConfig struct {
	Chain     ChainConfig
	Move      MoveConfig
	Roll      RollConfig
	Jump      JumpConfig
	Lattice   LatticeConfig
	Grab      GrabConfig
	JumpStyle string
}

func DefaultCreatureConfig() CreatureConfig {
	return CreatureConfig{
		Chain: ChainConfig{
			Segments:            13,
			HeadRadius:          7.0,
			TailRadius:          4.0,
			Gap:                 1.5,
			Density:             0.02,
			StructuralStiffness: 900.0,
			StructuralDamping:   18.0,
			SpacingStiffness:    12.0,
			SpacingDamping:      2.0,
			Friction:            0.9,
			Elasticity:          0.05,
		},
		Move: MoveConfig{
			AnchorRadius:      26.0,
			DeadZone:          0.12,
			PositionForce:     55.0,
			MinForceDistance:  0.5,
			HeadImpulse:       1.1,
			TailImpulse:       1.6,
			ImpulseMax:        90.0,
			StickDamping:      0.85,
			AnchorStiffness:   4.0,
			AnchorDamping:     1.0,
			StabilizeFraction: 0.4,
			StabilizePercent:  0.8,
		},
		Roll: RollConfig{
			ChordSkip:      4,
			ChordStep:      1,
			FormationTime:  0.8,
			StartStiffness: 2.0,
			EndStiffness:   320.0,
			ChordDamping:   9.0,
			MaxAngular:     14.0,
			OverspinDamp:   0.6,
			SlipThreshold:  0.25,
			SlipCorrection: 10.0,
			CrankMaxDelta:  1.2,
			CrankEngage:    0.6,
			TorqueGain:     240.0,
			ExitBoost:      14.0,
		},
		Jump: JumpConfig{
			ActivateThreshold:  0.08,
			MaxStiffness:       480.0,
			SpringDamping:      6.0,
			GroundAnchoring:    true,
			HeadSection:        [2]float64{0.0, 0.3},
			TailSection:        [2]float64{0.7, 1.0},
			TargetFraction:     0.75,
			CompressionMax:     140.0,
			CompressionDamping: 4.0,
		},
		Lattice: LatticeConfig{
			MaxStiffness: 380.0,
			Baseline:     1.0,
			Damping:      5.0,
			Span:         3,
		},
		Grab: GrabConfig{
			Threshold:   0.5,
			HeadSection: [2]float64{0.0, 0.3},
			TailSection: [2]float64{0.7, 1.0},
		},
		JumpStyle: JumpStyleSpring,
	}
}

// validate normalizes a config in place. Zero-valued ability blocks are
// replaced wholesale by defaults; out-of-range windows are clamped.
func (cfg *CreatureConfig) validate() {
	def := DefaultCreatureConfig()
	if cfg.Chain.Segments <= 0 {
		cfg.Chain = def.Chain
	}
	if cfg.Move.AnchorRadius <= 0 {
		cfg.Move = def.Move
	}
	if cfg.Roll.EndStiffness <= 0 {
		cfg.Roll = def.Roll
	}
	if cfg.Jump.MaxStiffness <= 0 {
		cfg.Jump = def.Jump
	}
	if cfg.Lattice.MaxStiffness <= 0 {
		cfg.Lattice = def.Lattice
	}
	if cfg.Grab.Threshold <= 0 {
		cfg.Grab = def.Grab
	}
	if cfg.JumpStyle != JumpStyleSpring && cfg.JumpStyle != JumpStyleLattice {
		cfg.JumpStyle = JumpStyleSpring
	}

	if cfg.Chain.HeadRadius <= 0 {
		cfg.Chain.HeadRadius = def.Chain.HeadRadius
	}
	if cfg.Chain.TailRadius <= 0 {
		cfg.Chain.TailRadius = def.Chain.TailRadius
	}
	if cfg.Chain.Density <= 0 {
		cfg.Chain.Density = def.Chain.Density
	}
	if cfg.Roll.ChordSkip < 2 {
		cfg.Roll.ChordSkip = 2
	}
	if cfg.Roll.ChordStep < 1 {
		cfg.Roll.ChordStep = 1
	}
	if cfg.Lattice.Span < 2 {
		cfg.Lattice.Span = 2
	}

	clampWindow(&cfg.Jump.HeadSection)
	clampWindow(&cfg.Jump.TailSection)
	clampWindow(&cfg.Grab.HeadSection)
	clampWindow(&cfg.Grab.TailSection)
}

func clampWindow(w *[2]float64) {
	w[0] = clampF(w[0], 0, 1)
	w[1] = clampF(w[1], 0, 1)
	if w[1] < w[0] {
		w[0], w[1] = w[1], w[0]
	}
}
