package gpubackend

import (
	"github.com/cogentcore/webgpu/wgpu"

	engine "github.com/MarcVivas/gpu-physics-engine"
)

// Integrate uploads the per-frame uniform descriptor of spec.md §6 and
// dispatches integrate.wgsl over one thread per particle.
func (b *Backend) Integrate(pool *engine.BufferPool, cfg engine.Config, input engine.FrameInput) {
	if err := b.ensureCapacity(pool); err != nil {
		b.log.Errorf("gpubackend: Integrate: %v", err)
		return
	}
	b.syncSpawns(pool)
	if pool.Count == 0 {
		return
	}

	uniforms := uniformWords(
		f32word(input.DeltaTime),
		f32word(cfg.WorldSize.X()),
		f32word(cfg.WorldSize.Y()),
		f32word(input.MousePos.X()),
		f32word(input.MousePos.Y()),
		boolWord(input.AttractPressed),
		f32word(cfg.Gravity.X()),
		f32word(cfg.Gravity.Y()),
		uint32(pool.Count),
	)

	uniformBuf, err := b.device.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "integrate_uniforms", Size: uint64(len(uniforms)), Usage: uniformUsage,
	})
	if err != nil {
		b.log.Errorf("gpubackend: Integrate: allocating uniform buffer: %v", err)
		return
	}
	defer uniformBuf.Release()
	b.device.queue.WriteBuffer(uniformBuf, 0, uniforms)

	entries := []wgpu.BindGroupEntry{
		bufEntry(0, uniformBuf),
		bufEntry(1, b.buf.Position),
		bufEntry(2, b.buf.PrevPosition),
		bufEntry(3, b.buf.Radius),
	}
	if err := b.dispatch1D(b.pipes.integrate, entries, workgroupsFor(pool.Count)); err != nil {
		b.log.Errorf("gpubackend: Integrate: dispatch: %v", err)
	}
}
