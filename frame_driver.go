package engine

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// FrameDriver is the host orchestrator of spec.md §4.8: it owns the
// buffer pool, the current particle count (via BufferPool.Count), the
// Morton-reorder cadence, and the fixed per-frame dispatch sequence of
// spec.md §2. It holds no GPU state itself — that is Backend's job — so
// the same driver code runs unchanged against the CPU or GPU backend,
// mirroring the teacher's renderer-agnostic App/Module split
// (renderer_select.go).
type FrameDriver struct {
	cfg     Config
	backend Backend
	pool    *BufferPool
	log     Logger

	frameIndex       uint64
	timeSinceReorder float32

	jitterRng *rand.Rand

	// Bench, when non-nil, receives one FrameMetric per Step call. Nil by
	// default; set it directly to opt into recording (see BenchRecorder).
	Bench *BenchRecorder
}

// NewFrameDriver validates cfg (fatal on failure, per spec.md §7) and
// constructs a driver with a freshly allocated buffer pool.
func NewFrameDriver(cfg Config, backend Backend, logger Logger) (*FrameDriver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &FrameDriver{
		cfg:       cfg,
		backend:   backend,
		pool:      NewBufferPool(cfg.InitialCapacity, logger),
		log:       logger,
		jitterRng: rand.New(rand.NewSource(1)),
	}, nil
}

// Pool exposes the live buffer pool read-only handles named in spec.md §6's
// rendering interface: position, previous_position, radius, and the
// current particle count.
func (d *FrameDriver) Pool() *BufferPool { return d.pool }

// Spawn appends n particles at center with the given radius, jittered by a
// small random offset, per spec.md §6's spawn interface. Batches from 1 up
// to at least 1e5 are supported without reallocation if capacity permits;
// otherwise the pool grows geometrically and existing data is preserved.
// Returns CapacityExceededError if the pool has a MaxCapacity set and this
// spawn would exceed it.
func (d *FrameDriver) Spawn(n int, center mgl32.Vec2, radius float32) error {
	const jitterMagnitude = 0.01
	return d.pool.Spawn(n, center, radius, func(i int) mgl32.Vec2 {
		return mgl32.Vec2{
			(d.jitterRng.Float32()*2 - 1) * jitterMagnitude,
			(d.jitterRng.Float32()*2 - 1) * jitterMagnitude,
		}
	})
}

// Step runs exactly one frame of FramePlan() in order, with an implicit
// barrier between every stage (spec.md §5). It is the only place
// integrate, sort, extract, and resolve are ever sequenced.
func (d *FrameDriver) Step(input FrameInput) {
	for _, stage := range FramePlan() {
		switch stage.Name {
		case StageIntegrate:
			d.backend.Integrate(d.pool, d.cfg, input)
		case StageBuildCellIDs:
			d.backend.BuildCellIDs(d.pool, d.cfg)
		case StageRadixSort:
			d.backend.RadixSort(d.pool)
		case StageExtractCollisionCells:
			d.backend.ExtractCollisionCells(d.pool)
		case StageSolveCollisions:
			d.backend.SolveCollisions(d.pool)
		}
	}

	if d.Bench != nil {
		d.Bench.Record(FrameMetric{
			FrameIndex:         d.frameIndex,
			DeltaTime:          input.DeltaTime,
			ParticleCount:      d.pool.Count,
			CollisionCellCount: d.pool.CollisionCellCount,
		})
	}

	d.timeSinceReorder += input.DeltaTime
	if d.timeSinceReorder >= d.cfg.MortonReorderInterval {
		d.backend.MortonReorder(d.pool, d.cfg)
		d.timeSinceReorder = 0
	}

	d.frameIndex++
}

// FrameIndex returns the number of frames stepped so far.
func (d *FrameDriver) FrameIndex() uint64 { return d.frameIndex }
