package engine

import "github.com/go-gl/mathgl/mgl32"

// BufferPool owns every parallel array named in spec.md §3. It grows
// geometrically on spawn overflow (spec.md §6's spawn interface contract)
// the same way the teacher's particlePool (particles_ecs.go) and
// GpuBufferManager.ensureBuffer (voxelrt/rt/gpu/manager_edit.go) do: copy
// existing data into a larger backing array, never shrink, log the event.
//
// Both backends read/write through this struct's fields directly when
// running on the CPU, or mirror its layout into GPU-resident buffers of
// the same sizes when running on the GPU (gpubackend.Buffers).
type BufferPool struct {
	Capacity int
	Count    int

	Position     []mgl32.Vec2
	PrevPosition []mgl32.Vec2
	Radius       []float32

	// CellKey/ObjectID are parallel arrays of length SlotsPerParticle*Capacity,
	// rewritten every frame by the grid builder and consumed by the sort,
	// extractor, and resolver (spec.md I1/I2).
	CellKey  []uint32
	ObjectID []uint32

	// ChunkCounts has length ceil(len(CellKey)/Chunk); rewritten by the
	// extractor's count-per-chunk phase and turned in place into an
	// exclusive prefix sum over the active chunks, after which the last
	// active chunk's entry is overwritten with the total.
	ChunkCounts []uint32

	// CollisionCells holds, after the extractor runs, the sorted-stream
	// index of the first occurrence of every multiply-occupied cell.
	CollisionCells []uint32

	// IndirectDispatchArgs is the (workgroups_x, 1, 1) indirect-dispatch
	// triple the extractor writes (spec.md §3, I4). The resolver does not
	// read it; it bounds its work by CollisionCellCount.
	IndirectDispatchArgs [3]uint32

	// CollisionCellCount is the true number of multiply-occupied cells this
	// frame — the prefix-sum total before it gets rounded up into
	// IndirectDispatchArgs[0]'s workgroup count. The resolver must bound its
	// walk of CollisionCells by this value, not by reconstructing a bound
	// from the rounded workgroup count, or it resolves stale slots left over
	// from a previous frame (spec.md I5).
	CollisionCellCount uint32

	// Ping-pong scratch for the radix sort and the periodic Morton
	// reorder's rearrange pass (spec.md §4.3, §4.7).
	CellKeyScratch  []uint32
	ObjectIDScratch []uint32

	PositionScratch     []mgl32.Vec2
	PrevPositionScratch []mgl32.Vec2
	RadiusScratch       []float32

	// MaxCapacity caps how far EnsureCapacity will grow the pool; zero
	// means unbounded (the default). A Spawn that would need to grow past
	// it fails with CapacityExceededError instead of over-allocating.
	MaxCapacity int

	log Logger
}

// NewBufferPool allocates a pool at the given initial capacity.
func NewBufferPool(capacity int, logger Logger) *BufferPool {
	if logger == nil {
		logger = NewNopLogger()
	}
	p := &BufferPool{Capacity: capacity, log: logger}
	p.allocate(capacity)
	return p
}

func (p *BufferPool) allocate(capacity int) {
	slots := capacity * int(SlotsPerParticle)
	chunks := (slots + int(Chunk) - 1) / int(Chunk)

	p.Position = make([]mgl32.Vec2, capacity)
	p.PrevPosition = make([]mgl32.Vec2, capacity)
	p.Radius = make([]float32, capacity)

	p.CellKey = make([]uint32, slots)
	p.ObjectID = make([]uint32, slots)
	p.ChunkCounts = make([]uint32, chunks)
	p.CollisionCells = make([]uint32, slots)

	p.CellKeyScratch = make([]uint32, slots)
	p.ObjectIDScratch = make([]uint32, slots)

	p.PositionScratch = make([]mgl32.Vec2, capacity)
	p.PrevPositionScratch = make([]mgl32.Vec2, capacity)
	p.RadiusScratch = make([]float32, capacity)
}

// nextPowerOfTwo returns the smallest power of two >= n.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// EnsureCapacity grows the pool to at least `want` particles if needed,
// preserving all live data (spec.md §6: "the buffer pool is grown to the
// next power-of-two capacity and existing data preserved"). Returns
// CapacityExceededError instead of growing if MaxCapacity is set and
// `want` exceeds it.
func (p *BufferPool) EnsureCapacity(want int) error {
	if want <= p.Capacity {
		return nil
	}
	if p.MaxCapacity > 0 && want > p.MaxCapacity {
		return &CapacityExceededError{Requested: want, Capacity: p.MaxCapacity}
	}
	newCap := nextPowerOfTwo(want)
	if p.MaxCapacity > 0 && newCap > p.MaxCapacity {
		newCap = p.MaxCapacity
	}
	p.log.Infof("buffer pool growing from %d to %d particles", p.Capacity, newCap)

	grownPos := make([]mgl32.Vec2, newCap)
	grownPrev := make([]mgl32.Vec2, newCap)
	grownRadius := make([]float32, newCap)
	copy(grownPos, p.Position)
	copy(grownPrev, p.PrevPosition)
	copy(grownRadius, p.Radius)
	p.Position = grownPos
	p.PrevPosition = grownPrev
	p.Radius = grownRadius

	p.Capacity = newCap
	slots := newCap * int(SlotsPerParticle)
	chunks := (slots + int(Chunk) - 1) / int(Chunk)
	p.CellKey = make([]uint32, slots)
	p.ObjectID = make([]uint32, slots)
	p.ChunkCounts = make([]uint32, chunks)
	p.CollisionCells = make([]uint32, slots)
	p.CellKeyScratch = make([]uint32, slots)
	p.ObjectIDScratch = make([]uint32, slots)
	p.PositionScratch = make([]mgl32.Vec2, newCap)
	p.PrevPositionScratch = make([]mgl32.Vec2, newCap)
	p.RadiusScratch = make([]float32, newCap)
	return nil
}

// ActiveSlots returns the number of live cell-key/object-id slots this
// frame: SlotsPerParticle * Count (spec.md §3's "4N" sizing is relative to
// the live particle count, not the allocated capacity).
func (p *BufferPool) ActiveSlots() int {
	return p.Count * int(SlotsPerParticle)
}

// Spawn appends n particles at the given center with the given radius and
// a small jitter, per spec.md §6. previous_position is set equal to
// position (zero initial velocity). Returns CapacityExceededError, and
// spawns nothing, if growing to fit would exceed MaxCapacity.
func (p *BufferPool) Spawn(n int, center mgl32.Vec2, radius float32, jitter func(i int) mgl32.Vec2) error {
	if n <= 0 {
		return nil
	}
	if err := p.EnsureCapacity(p.Count + n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		idx := p.Count + i
		pos := center
		if jitter != nil {
			pos = center.Add(jitter(i))
		}
		p.Position[idx] = pos
		p.PrevPosition[idx] = pos
		p.Radius[idx] = radius
	}
	p.Count += n
	return nil
}
