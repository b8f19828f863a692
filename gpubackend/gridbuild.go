package gpubackend

import (
	"github.com/cogentcore/webgpu/wgpu"

	engine "github.com/MarcVivas/gpu-physics-engine"
)

// BuildCellIDs dispatches grid_build.wgsl, one thread per particle,
// exactly mirroring cpubackend.BuildCellIDs's contract (spec.md §4.2).
func (b *Backend) BuildCellIDs(pool *engine.BufferPool, cfg engine.Config) {
	if pool.Count == 0 {
		return
	}
	uniforms := uniformWords(f32word(cfg.CellSize), uint32(pool.Count))

	uniformBuf, err := b.device.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "grid_build_uniforms", Size: uint64(len(uniforms)), Usage: uniformUsage,
	})
	if err != nil {
		b.log.Errorf("gpubackend: BuildCellIDs: %v", err)
		return
	}
	defer uniformBuf.Release()
	b.device.queue.WriteBuffer(uniformBuf, 0, uniforms)

	entries := []wgpu.BindGroupEntry{
		bufEntry(0, uniformBuf),
		bufEntry(1, b.buf.Position),
		bufEntry(2, b.buf.Radius),
		bufEntry(3, b.buf.CellKey),
		bufEntry(4, b.buf.ObjectID),
	}
	if err := b.dispatch1D(b.pipes.gridBuild, entries, workgroupsFor(pool.Count)); err != nil {
		b.log.Errorf("gpubackend: BuildCellIDs: dispatch: %v", err)
	}
}
