package cpubackend

import engine "github.com/MarcVivas/gpu-physics-engine"

// MortonReorder implements spec.md §4.7: build (morton(home_cell),
// particle_id) pairs, radix-sort them by key, then rearrange Position,
// PrevPosition and Radius into sorted order. The GPU backend does this by
// swapping shadow/active buffer handles; the CPU backend has no buffer
// handles to swap, so it copies directly into the *Scratch arrays and
// copies back — functionally identical, just without the handle-swap
// optimization (documented in DESIGN.md as a CPU-backend simplification).
func (b *Backend) MortonReorder(pool *engine.BufferPool, cfg engine.Config) {
	n := pool.Count
	if n == 0 {
		return
	}

	keys := pool.CellKeyScratch[:n]
	ids := pool.ObjectIDScratch[:n]
	for i := 0; i < n; i++ {
		x, y := engine.HomeCell([2]float32{pool.Position[i].X(), pool.Position[i].Y()}, cfg.CellSize)
		keys[i] = engine.MortonEncode2D(uint16(x), uint16(y))
		ids[i] = uint32(i)
	}

	scratchKeys := make([]uint32, n)
	scratchIDs := make([]uint32, n)
	sortPairs(keys, ids, scratchKeys, scratchIDs)

	dstPos := pool.PositionScratch[:n]
	dstPrev := pool.PrevPositionScratch[:n]
	dstRadius := pool.RadiusScratch[:n]
	for k := 0; k < n; k++ {
		src := ids[k]
		dstPos[k] = pool.Position[src]
		dstPrev[k] = pool.PrevPosition[src]
		dstRadius[k] = pool.Radius[src]
	}

	copy(pool.Position[:n], dstPos)
	copy(pool.PrevPosition[:n], dstPrev)
	copy(pool.Radius[:n], dstRadius)
}
