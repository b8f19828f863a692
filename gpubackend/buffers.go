package gpubackend

import (
	"github.com/cogentcore/webgpu/wgpu"

	engine "github.com/MarcVivas/gpu-physics-engine"
)

// Buffers mirrors engine.BufferPool's layout as device-resident wgpu
// buffers, grounded on GpuBufferManager's one-field-per-buffer struct
// shape (voxelrt/rt/gpu/manager.go). Unlike BufferPool, there is no host
// copy kept around between frames: every stage's compute pipeline reads
// and writes these buffers directly, and the host only reads back what
// spec.md §6's rendering/spawn interfaces need.
type Buffers struct {
	Capacity int

	Position     *wgpu.Buffer
	PrevPosition *wgpu.Buffer
	Radius       *wgpu.Buffer

	CellKey  *wgpu.Buffer
	ObjectID *wgpu.Buffer

	ChunkCounts    *wgpu.Buffer
	CollisionCells *wgpu.Buffer
	IndirectArgs   *wgpu.Buffer

	// CollisionCellTotal holds a single u32: the true collision-cell count
	// the extractor's emit phase computed, before it was rounded up into
	// IndirectArgs[0]'s workgroup count. IndirectArgs stays a literal
	// (workgroups, 1, 1) indirect-dispatch-args triple (spec.md §3), so the
	// real total needs a buffer of its own to survive into the resolver.
	CollisionCellTotal *wgpu.Buffer

	CellKeyScratch  *wgpu.Buffer
	ObjectIDScratch *wgpu.Buffer

	PositionScratch     *wgpu.Buffer
	PrevPositionScratch *wgpu.Buffer
	RadiusScratch       *wgpu.Buffer

	// RadixHistogram/RadixScatterBase are the coordination buffers
	// between the histogram and scatter passes of spec.md §4.3, sized
	// 256*numBlocks for the largest capacity this pool was built at.
	RadixHistogram  *wgpu.Buffer
	RadixScatterBase *wgpu.Buffer

	// BlockSums is the per-block total buffer of the prefix-sum primitive
	// (spec.md §4.4), sized ceil(4*Capacity/scanBlockSize).
	BlockSums *wgpu.Buffer
}

const storageUsage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst
const uniformUsage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst

// NewBuffers allocates every device-resident buffer spec.md §3's Data
// Model table names, sized for `capacity` particles (4*capacity transient
// slots, per spec.md's "4N" convention).
func NewBuffers(device *wgpu.Device, capacity int) (*Buffers, error) {
	slots := capacity * int(engine.SlotsPerParticle)
	chunks := (slots + int(engine.Chunk) - 1) / int(engine.Chunk)
	radixBlocks := (slots + radixBlockSize - 1) / radixBlockSize
	scanBlocks := (slots + scanBlockSize - 1) / scanBlockSize

	b := &Buffers{Capacity: capacity}
	makers := []struct {
		dst   **wgpu.Buffer
		label string
		size  uint64
		usage wgpu.BufferUsage
	}{
		{&b.Position, "position", vec2Bytes(capacity), storageUsage},
		{&b.PrevPosition, "previous_position", vec2Bytes(capacity), storageUsage},
		{&b.Radius, "radius", u32Bytes(capacity), storageUsage},
		{&b.CellKey, "cell_key", u32Bytes(slots), storageUsage},
		{&b.ObjectID, "object_id", u32Bytes(slots), storageUsage},
		{&b.ChunkCounts, "chunk_counts", u32Bytes(chunks), storageUsage},
		{&b.CollisionCells, "collision_cells", u32Bytes(slots), storageUsage},
		{&b.IndirectArgs, "indirect_args", u32Bytes(3), storageUsage},
		{&b.CollisionCellTotal, "collision_cell_total", u32Bytes(1), storageUsage},
		{&b.CellKeyScratch, "cell_key_scratch", u32Bytes(slots), storageUsage},
		{&b.ObjectIDScratch, "object_id_scratch", u32Bytes(slots), storageUsage},
		{&b.PositionScratch, "position_scratch", vec2Bytes(capacity), storageUsage},
		{&b.PrevPositionScratch, "previous_position_scratch", vec2Bytes(capacity), storageUsage},
		{&b.RadiusScratch, "radius_scratch", u32Bytes(capacity), storageUsage},
		{&b.RadixHistogram, "radix_histogram", u32Bytes(256 * radixBlocks), storageUsage},
		{&b.RadixScatterBase, "radix_scatter_base", u32Bytes(256 * radixBlocks), storageUsage},
		{&b.BlockSums, "block_sums", u32Bytes(scanBlocks), storageUsage},
	}

	for _, m := range makers {
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: m.label,
			Size:  m.size,
			Usage: m.usage,
		})
		if err != nil {
			return nil, err
		}
		*m.dst = buf
	}
	return b, nil
}

func vec2Bytes(n int) uint64 { return uint64(n) * 8 }
func u32Bytes(n int) uint64  { return uint64(n) * 4 }

// Release frees every buffer. Called when a capacity grow allocates a
// replacement set, mirroring GpuBufferManager's release-before-recreate
// convention (SetupHiZ releases the previous texture/views first).
func (b *Buffers) Release() {
	for _, buf := range []*wgpu.Buffer{
		b.Position, b.PrevPosition, b.Radius,
		b.CellKey, b.ObjectID, b.ChunkCounts, b.CollisionCells, b.IndirectArgs, b.CollisionCellTotal,
		b.CellKeyScratch, b.ObjectIDScratch,
		b.PositionScratch, b.PrevPositionScratch, b.RadiusScratch,
		b.RadixHistogram, b.RadixScatterBase, b.BlockSums,
	} {
		if buf != nil {
			buf.Release()
		}
	}
}
