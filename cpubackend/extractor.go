package cpubackend

import (
	"sync"

	engine "github.com/MarcVivas/gpu-physics-engine"
)

// chunkRunStart reports, for slot j belonging to the chunk covering
// [chunkStart, chunkStart+Chunk), whether j is the first element of a
// maximal run of equal keys whose run contains >= 2 elements, and whose
// first element lies in this chunk (i.e. j is not a continuation of a run
// that started in an earlier chunk). Both the count and the emit phase of
// ExtractCollisionCells call this helper so the two phases can never
// disagree about which chunk owns which run — this is the "implementers
// must verify symmetry" resolution spec.md §9's open question calls for.
func chunkRunStart(cellKey []uint32, j, activeLen int) (isStart bool, runLen int) {
	key := cellKey[j]
	if key == engine.UnusedKey {
		return false, 0
	}
	if j > 0 && cellKey[j-1] == key {
		// Mid-run: this cell's first occurrence belongs to an earlier
		// chunk, which already counted/emitted it.
		return false, 0
	}
	runLen = 1
	for k := j + 1; k < activeLen && cellKey[k] == key; k++ {
		runLen++
	}
	return runLen >= 2, runLen
}

// ExtractCollisionCells implements spec.md §4.5: count-per-chunk, a
// prefix scan over the per-chunk counts (via the shared prefix-sum
// primitive, spec.md §4.4), and emit-and-dispatch. Postcondition: for
// every multiply-occupied cell there is exactly one index in
// pool.CollisionCells pointing at the start of its run (property P5).
func (b *Backend) ExtractCollisionCells(pool *engine.BufferPool) {
	activeLen := pool.ActiveSlots()
	numChunks := (activeLen + int(engine.Chunk) - 1) / int(engine.Chunk)
	if numChunks == 0 {
		pool.IndirectDispatchArgs = [3]uint32{0, 1, 1}
		pool.CollisionCellCount = 0
		return
	}
	counts := pool.ChunkCounts[:numChunks]

	// Count-per-chunk phase.
	var wg sync.WaitGroup
	for c := 0; c < numChunks; c++ {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			start := c * int(engine.Chunk)
			end := start + int(engine.Chunk)
			if end > activeLen {
				end = activeLen
			}
			var n uint32
			for j := start; j < end; j++ {
				if isStart, runLen := chunkRunStart(pool.CellKey, j, activeLen); isStart && runLen >= 2 {
					n++
				}
			}
			counts[c] = n
		}(c)
	}
	wg.Wait()

	originalLast := counts[numChunks-1]
	prefixSumExclusive(counts)
	total := counts[numChunks-1] + originalLast
	counts[numChunks-1] = total // Data Model §3: "last cell holds total"
	pool.CollisionCellCount = total

	workgroups := (total + engine.DefaultWorkgroupSize - 1) / engine.DefaultWorkgroupSize
	if total == 0 {
		workgroups = 0
	}
	pool.IndirectDispatchArgs = [3]uint32{workgroups, 1, 1}

	if total == 0 {
		return
	}

	// Emit phase: chunk_prefix[c] is now in counts[c] for c < numChunks-1;
	// the prefix for the last chunk is total - its own original count.
	chunkPrefix := func(c int) uint32 {
		if c == numChunks-1 {
			return total - originalLast
		}
		return counts[c]
	}

	for c := 0; c < numChunks; c++ {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			start := c * int(engine.Chunk)
			end := start + int(engine.Chunk)
			if end > activeLen {
				end = activeLen
			}
			offset := chunkPrefix(c)
			for j := start; j < end; j++ {
				if isStart, runLen := chunkRunStart(pool.CellKey, j, activeLen); isStart && runLen >= 2 {
					pool.CollisionCells[offset] = uint32(j)
					offset++
				}
			}
		}(c)
	}
	wg.Wait()
}
