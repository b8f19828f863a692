package gpubackend

import (
	"github.com/cogentcore/webgpu/wgpu"

	engine "github.com/MarcVivas/gpu-physics-engine"
)

// MortonReorder implements spec.md §4.7. Unlike cpubackend's
// copy-into-Scratch-then-copy-back (cpubackend.MortonReorder), this
// backend performs the reorder with a real buffer-handle swap: the
// rearrange kernel gathers into the *Scratch buffers and this method
// then exchanges which wgpu.Buffer each Buffers field names, exactly the
// way RadixSort ping-pongs CellKey/CellKeyScratch.
//
// Building the sort keys needs a host-side read of Position (home-cell
// Morton encoding has no cheaper GPU-resident path at this particle
// count than readback-compute-upload), so this stage pays one extra
// round trip the other stages avoid — acceptable since it only runs
// once per engine.Config.MortonReorderInterval seconds of simulated time.
func (b *Backend) MortonReorder(pool *engine.BufferPool, cfg engine.Config) {
	n := pool.Count
	if n == 0 {
		return
	}

	positions, err := readVec2F32(b.device.device, b.buf.Position, n)
	if err != nil {
		b.log.Errorf("gpubackend: MortonReorder: reading positions: %v", err)
		return
	}

	keys := make([]uint32, n)
	ids := make([]uint32, n)
	for i := 0; i < n; i++ {
		x, y := engine.HomeCell([2]float32{positions[i].X(), positions[i].Y()}, cfg.CellSize)
		keys[i] = engine.MortonEncode2D(uint16(x), uint16(y))
		ids[i] = uint32(i)
	}
	b.device.queue.WriteBuffer(b.buf.CellKey, 0, encodeU32s(keys))
	b.device.queue.WriteBuffer(b.buf.ObjectID, 0, encodeU32s(ids))

	numBlocks := (n + radixBlockSize - 1) / radixBlockSize
	for pass := uint32(0); pass < engine.RadixPasses; pass++ {
		shift := pass * engine.RadixDigitBits
		if err := b.radixPass(n, numBlocks, shift); err != nil {
			b.log.Errorf("gpubackend: MortonReorder: sort pass %d: %v", pass, err)
			return
		}
		b.buf.CellKey, b.buf.CellKeyScratch = b.buf.CellKeyScratch, b.buf.CellKey
		b.buf.ObjectID, b.buf.ObjectIDScratch = b.buf.ObjectIDScratch, b.buf.ObjectID
	}
	// RadixPasses is even: b.buf.ObjectID now again names the buffer
	// holding the sorted particle-id permutation.

	uniforms := uniformWords(uint32(n))
	uniformBuf, err := b.device.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "morton_rearrange_uniforms", Size: uint64(len(uniforms)), Usage: uniformUsage,
	})
	if err != nil {
		b.log.Errorf("gpubackend: MortonReorder: %v", err)
		return
	}
	defer uniformBuf.Release()
	b.device.queue.WriteBuffer(uniformBuf, 0, uniforms)

	entries := []wgpu.BindGroupEntry{
		bufEntry(0, uniformBuf),
		bufEntry(1, b.buf.ObjectID),
		bufEntry(2, b.buf.Position),
		bufEntry(3, b.buf.PrevPosition),
		bufEntry(4, b.buf.Radius),
		bufEntry(5, b.buf.PositionScratch),
		bufEntry(6, b.buf.PrevPositionScratch),
		bufEntry(7, b.buf.RadiusScratch),
	}
	if err := b.dispatch1D(b.pipes.mortonRearrange, entries, workgroupsFor(n)); err != nil {
		b.log.Errorf("gpubackend: MortonReorder: dispatch: %v", err)
		return
	}

	b.buf.Position, b.buf.PositionScratch = b.buf.PositionScratch, b.buf.Position
	b.buf.PrevPosition, b.buf.PrevPositionScratch = b.buf.PrevPositionScratch, b.buf.PrevPosition
	b.buf.Radius, b.buf.RadiusScratch = b.buf.RadiusScratch, b.buf.Radius
}
