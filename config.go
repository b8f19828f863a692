package engine

import "github.com/go-gl/mathgl/mgl32"

// Tuning constants named directly by spec.md, kept as named constants
// instead of re-derived magic numbers.
const (
	// MouseAttractionK is the build-time mouse-attraction acceleration
	// constant from spec.md §4.1 ("K a build-time constant in the order
	// of 150 world-units·s⁻²").
	MouseAttractionK float32 = 150.0

	// Stiffness is the positional-correction factor from spec.md §4.6
	// ("Correction magnitude c = δ · STIFFNESS (≈0.6)").
	Stiffness float32 = 0.6

	// Epsilon guards the numeric-degeneracy case in spec.md §7: coincident
	// particles produce r == 0 and are skipped until jitter separates them.
	Epsilon float32 = 1e-6

	// Chunk is the fixed window size (in sorted cell-key slots) the
	// collision-cell extractor walks, per spec.md §4.5.
	Chunk uint32 = 4

	// SlotsPerParticle is the fixed per-particle budget of cell-key slots
	// (1 home + up to 3 phantom), per spec.md §3/§4.2.
	SlotsPerParticle uint32 = 4

	// UnusedKey is the sentinel cell key marking an empty slot (spec.md
	// §3): all bits set, sorts to the end of any ascending radix sort.
	UnusedKey uint32 = 0xFFFFFFFF

	// RadixDigitBits / RadixPasses / RadixBuckets describe the four
	// 8-bit-digit LSB-first passes of spec.md §4.3.
	RadixDigitBits  uint32 = 8
	RadixPasses     uint32 = 4
	RadixBuckets    uint32 = 256

	// DefaultWorkgroupSize is the compute workgroup size used by every
	// kernel in this pipeline unless a stage overrides it.
	DefaultWorkgroupSize uint32 = 256

	// DefaultMortonReorderInterval is the tuning parameter from spec.md
	// §4.7 / §9 ("the ≈4-second interval is a tuning parameter").
	DefaultMortonReorderInterval float32 = 4.0
)

// Config describes the fixed, validated-at-construction parameters of one
// Engine instance. Mirrors the per-frame/per-engine inputs named in
// spec.md §6, split between what changes every frame (FrameInput) and
// what is fixed for the engine's lifetime.
type Config struct {
	// WorldSize is the simulation domain, componentwise > 0.
	WorldSize mgl32.Vec2

	// CellSize must be >= 2*MaxRadius so a disk touches at most 4 cells
	// (spec.md §4.2's 4-slot budget guarantee).
	CellSize float32

	// MaxRadius bounds every particle ever spawned; used only to validate
	// CellSize at construction time.
	MaxRadius float32

	// InitialCapacity is the starting particle array capacity (length N
	// arrays in spec.md §3). Grown geometrically on spawn overflow.
	InitialCapacity int

	// Gravity is a constant downward (or arbitrary 2D) acceleration applied
	// every integrator step, in addition to optional mouse attraction.
	Gravity mgl32.Vec2

	// MortonReorderInterval is the tuning parameter of spec.md §4.7, in
	// simulated seconds between periodic reorders.
	MortonReorderInterval float32
}

// DefaultConfig returns a Config with the tuning defaults named throughout
// spec.md, for a world of the given size and a maximum particle radius.
func DefaultConfig(worldSize mgl32.Vec2, maxRadius float32) Config {
	return Config{
		WorldSize:             worldSize,
		CellSize:              2 * maxRadius,
		MaxRadius:             maxRadius,
		InitialCapacity:       1024,
		Gravity:               mgl32.Vec2{0, -981},
		MortonReorderInterval: DefaultMortonReorderInterval,
	}
}

// Validate enforces spec.md §7's "Invalid configuration" error class:
// cell_size < 2*max_radius, or world_size <= 0.
func (c Config) Validate() error {
	if c.WorldSize.X() <= 0 || c.WorldSize.Y() <= 0 {
		return &InvalidConfigError{Field: "WorldSize", Reason: "must be > 0 componentwise"}
	}
	if c.CellSize < 2*c.MaxRadius {
		return &InvalidConfigError{Field: "CellSize", Reason: "must be >= 2*MaxRadius so a disk never straddles more than 4 cells"}
	}
	if c.InitialCapacity <= 0 {
		return &InvalidConfigError{Field: "InitialCapacity", Reason: "must be > 0"}
	}
	return nil
}

// FrameInput is the host-to-core per-frame descriptor of spec.md §6,
// passed as a small uniform buffer to the GPU backend or as a plain value
// to the CPU backend.
type FrameInput struct {
	DeltaTime      float32
	MousePos       mgl32.Vec2
	AttractPressed bool
}
