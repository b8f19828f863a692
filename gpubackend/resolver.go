package gpubackend

import (
	"github.com/cogentcore/webgpu/wgpu"

	engine "github.com/MarcVivas/gpu-physics-engine"
)

// SolveCollisions dispatches collision_resolve.wgsl four times, once per
// color of spec.md §4.6's checkerboard partition. Submissions to the same
// queue against the same buffers execute in submission order, so the four
// color passes are serialized without any extra barrier — the same
// sequencing cpubackend.SolveCollisions gets from running its four
// runBlocked calls one after another.
func (b *Backend) SolveCollisions(pool *engine.BufferPool) {
	totals, err := readU32(b.device.device, b.buf.CollisionCellTotal, 1)
	if err != nil {
		b.log.Errorf("gpubackend: SolveCollisions: reading collision cell total: %v", err)
		return
	}
	total := totals[0]
	slots := uint32(pool.Capacity) * engine.SlotsPerParticle
	if total > slots {
		total = slots
	}
	if total == 0 {
		return
	}

	for color := uint32(1); color <= 4; color++ {
		uniforms := uniformWords(color, total)
		uniformBuf, err := b.device.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "collision_resolve_uniforms", Size: uint64(len(uniforms)), Usage: uniformUsage,
		})
		if err != nil {
			b.log.Errorf("gpubackend: SolveCollisions: color %d: %v", color, err)
			return
		}
		entries := []wgpu.BindGroupEntry{
			bufEntry(0, uniformBuf),
			bufEntry(1, b.buf.CollisionCells),
			bufEntry(2, b.buf.CellKey),
			bufEntry(3, b.buf.ObjectID),
			bufEntry(4, b.buf.Position),
			bufEntry(5, b.buf.Radius),
		}
		err = b.dispatch1D(b.pipes.collisionResolve, entries, workgroupsFor(int(total)))
		uniformBuf.Release()
		if err != nil {
			b.log.Errorf("gpubackend: SolveCollisions: color %d dispatch: %v", color, err)
			return
		}
	}
}
