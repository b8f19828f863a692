package gpubackend

import (
	"github.com/cogentcore/webgpu/wgpu"

	engine "github.com/MarcVivas/gpu-physics-engine"
)

// ExtractCollisionCells dispatches collision_count.wgsl, scans the
// resulting per-chunk counts with prefixSumDevice, and dispatches
// collision_emit.wgsl — the three-dispatch shape of spec.md §4.5,
// grounded the same way cpubackend.ExtractCollisionCells shares
// chunkRunStart between its count and emit phases: both WGSL kernels
// re-derive the identical run predicate so they can't disagree about
// which chunk owns a boundary-straddling run.
func (b *Backend) ExtractCollisionCells(pool *engine.BufferPool) {
	n := pool.ActiveSlots()
	if n == 0 {
		b.device.queue.WriteBuffer(b.buf.CollisionCellTotal, 0, encodeU32s([]uint32{0}))
		return
	}
	numChunks := (n + int(engine.Chunk) - 1) / int(engine.Chunk)

	chunkUniforms := uniformWords(uint32(n), engine.Chunk)
	countUniformBuf, err := b.device.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "collision_count_uniforms", Size: uint64(len(chunkUniforms)), Usage: uniformUsage,
	})
	if err != nil {
		b.log.Errorf("gpubackend: ExtractCollisionCells: %v", err)
		return
	}
	defer countUniformBuf.Release()
	b.device.queue.WriteBuffer(countUniformBuf, 0, chunkUniforms)

	countEntries := []wgpu.BindGroupEntry{
		bufEntry(0, countUniformBuf),
		bufEntry(1, b.buf.CellKey),
		bufEntry(2, b.buf.ChunkCounts),
	}
	if err := b.dispatch1D(b.pipes.collisionCount, countEntries, workgroupsFor(numChunks)); err != nil {
		b.log.Errorf("gpubackend: ExtractCollisionCells: count dispatch: %v", err)
		return
	}

	total, err := b.prefixSumDevice(b.buf.ChunkCounts, numChunks)
	if err != nil {
		b.log.Errorf("gpubackend: ExtractCollisionCells: prefix sum: %v", err)
		return
	}

	emitUniforms := uniformWords(uint32(n), engine.Chunk, total)
	emitUniformBuf, err := b.device.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "collision_emit_uniforms", Size: uint64(len(emitUniforms)), Usage: uniformUsage,
	})
	if err != nil {
		b.log.Errorf("gpubackend: ExtractCollisionCells: %v", err)
		return
	}
	defer emitUniformBuf.Release()
	b.device.queue.WriteBuffer(emitUniformBuf, 0, emitUniforms)

	emitEntries := []wgpu.BindGroupEntry{
		bufEntry(0, emitUniformBuf),
		bufEntry(1, b.buf.CellKey),
		bufEntry(2, b.buf.ChunkCounts),
		bufEntry(3, b.buf.CollisionCells),
		bufEntry(4, b.buf.IndirectArgs),
		bufEntry(5, b.buf.CollisionCellTotal),
	}
	if err := b.dispatch1D(b.pipes.collisionEmit, emitEntries, workgroupsFor(numChunks)); err != nil {
		b.log.Errorf("gpubackend: ExtractCollisionCells: emit dispatch: %v", err)
	}
}
