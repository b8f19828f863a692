package engine

// Backend executes the five core GPU-resident subsystems of spec.md §4
// against a BufferPool. The frame driver (FrameDriver) is backend-agnostic:
// it sequences these calls and inserts the barriers spec.md §5 requires,
// but never inspects the buffers itself.
//
// Two implementations exist: cpubackend.Backend (goroutine-parallel, used
// by the test suite — see SPEC_FULL.md §0) and gpubackend.Backend (the
// real wgpu compute pipeline). Both mirror the same per-stage contracts so
// that properties proven against the CPU backend hold for the GPU kernels
// too.
type Backend interface {
	// Integrate advances position/previous_position by one Verlet step
	// under gravity and optional mouse attraction, then clamps to world
	// bounds (spec.md §4.1, invariant I6).
	Integrate(pool *BufferPool, cfg Config, input FrameInput)

	// BuildCellIDs emits one home key plus up to three phantom keys per
	// particle into CellKey/ObjectID (spec.md §4.2, invariants I1/I2).
	BuildCellIDs(pool *BufferPool, cfg Config)

	// RadixSort performs the four-pass LSB-first radix sort over
	// (CellKey, ObjectID) pairs (spec.md §4.3, invariant I3). On return,
	// the sorted stream is in pool.CellKey/pool.ObjectID regardless of
	// how many ping-pong passes were needed internally; gpubackend instead
	// leaves it in its own device-resident CellKey/ObjectID buffers and
	// does not write the pool's host arrays.
	RadixSort(pool *BufferPool)

	// ExtractCollisionCells runs the count-per-chunk and emit-and-dispatch
	// phases and the prefix-sum primitive between them (spec.md §4.4,
	// §4.5, invariants I4 and the P5 postcondition).
	ExtractCollisionCells(pool *BufferPool)

	// SolveCollisions runs the four-color collision resolver passes and
	// the integrator is not re-entered here (spec.md §4.6, invariant I5).
	SolveCollisions(pool *BufferPool)

	// MortonReorder rebuilds (morton(home_cell), particle_id) pairs, sorts
	// them, and rearranges the active arrays for cache locality (spec.md
	// §4.7). Must be a pure permutation (property P8).
	MortonReorder(pool *BufferPool, cfg Config)
}
