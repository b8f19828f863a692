package cpubackend

import (
	"sync"

	engine "github.com/MarcVivas/gpu-physics-engine"
)

// radixBlockSize is the per-workgroup block size of spec.md §4.3's
// histogram/scatter phases.
const radixBlockSize = 1024

// RadixSort implements spec.md §4.3: four LSB-first passes over 8-bit
// digits of the 32-bit cell keys, ping-ponging (CellKey, ObjectID) against
// (CellKeyScratch, ObjectIDScratch). Within each pass, the key stream is
// split into fixed blocks standing in for workgroups; each block computes
// a local 256-bucket histogram, and a global pass turns per-block counts
// into a scatter base per (bucket, block) exactly as spec.md describes
// (`bucket_prefix[bucket] + local_histogram`), then every block re-walks
// its own elements in original order to get a stable per-bucket rank and
// scatters into the destination buffer. UNUSED (all-ones) keys sort to
// the end because they are numerically the largest possible key.
func (b *Backend) RadixSort(pool *engine.BufferPool) {
	n := pool.ActiveSlots()
	if n == 0 {
		return
	}
	sortPairs(pool.CellKey[:n], pool.ObjectID[:n], pool.CellKeyScratch[:n], pool.ObjectIDScratch[:n])
}

// sortPairs sorts (keys[i], payload[i]) pairs ascending by key, using
// keys/payload and scratchKeys/scratchPayload as the two ping-pong buffers
// described in spec.md §4.3. On return the sorted stream is in keys/payload.
func sortPairs(keys, payload, scratchKeys, scratchPayload []uint32) {
	n := len(keys)
	if n == 0 {
		return
	}
	srcK, srcP := keys, payload
	dstK, dstP := scratchKeys, scratchPayload

	for pass := uint32(0); pass < engine.RadixPasses; pass++ {
		shift := pass * engine.RadixDigitBits
		radixPass(srcK, srcP, dstK, dstP, shift)
		srcK, dstK = dstK, srcK
		srcP, dstP = dstP, srcP
	}

	// RadixPasses is even, so after an even number of swaps the sorted
	// data is back in the original keys/payload slices. Copy explicitly
	// instead of relying on that parity so the contract holds even if
	// RadixPasses is ever changed to an odd count.
	if &srcK[0] != &keys[0] {
		copy(keys, srcK)
		copy(payload, srcP)
	}
}

func radixPass(srcK, srcP, dstK, dstP []uint32, shift uint32) {
	n := len(srcK)
	numBlocks := (n + radixBlockSize - 1) / radixBlockSize
	if numBlocks == 0 {
		return
	}

	// Histogram phase: one 256-bucket row per block.
	hist := make([][engine.RadixBuckets]uint32, numBlocks)
	var wg sync.WaitGroup
	for blk := 0; blk < numBlocks; blk++ {
		lo, hi := blockRange(blk, n)
		wg.Add(1)
		go func(blk, lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				d := digit(srcK[i], shift)
				hist[blk][d]++
			}
		}(blk, lo, hi)
	}
	wg.Wait()

	// Global exclusive prefix per bucket across all blocks, and exclusive
	// running total per (block, bucket) across earlier blocks. Both are
	// small (256 * numBlocks) and computed single-threaded, mirroring the
	// spec's single coordinating pass that derives `bucket_prefix` and
	// `local_histogram` before the scatter phase starts.
	var bucketTotal [engine.RadixBuckets]uint32
	for blk := 0; blk < numBlocks; blk++ {
		for bkt := 0; bkt < int(engine.RadixBuckets); bkt++ {
			bucketTotal[bkt] += hist[blk][bkt]
		}
	}
	var bucketPrefix [engine.RadixBuckets]uint32
	var running uint32
	for bkt := 0; bkt < int(engine.RadixBuckets); bkt++ {
		bucketPrefix[bkt] = running
		running += bucketTotal[bkt]
	}

	localHistogram := make([][engine.RadixBuckets]uint32, numBlocks)
	var runningPerBucket [engine.RadixBuckets]uint32
	for blk := 0; blk < numBlocks; blk++ {
		for bkt := 0; bkt < int(engine.RadixBuckets); bkt++ {
			localHistogram[blk][bkt] = runningPerBucket[bkt]
			runningPerBucket[bkt] += hist[blk][bkt]
		}
	}

	// Scatter phase: each block re-walks its own elements in ascending
	// index order (this is what keeps the sort stable within a frame,
	// invariant I3) and writes to scatter_base[bucket] + intra-block rank.
	for blk := 0; blk < numBlocks; blk++ {
		lo, hi := blockRange(blk, n)
		wg.Add(1)
		go func(blk, lo, hi int) {
			defer wg.Done()
			var rank [engine.RadixBuckets]uint32
			for i := lo; i < hi; i++ {
				d := digit(srcK[i], shift)
				dst := bucketPrefix[d] + localHistogram[blk][d] + rank[d]
				rank[d]++
				dstK[dst] = srcK[i]
				dstP[dst] = srcP[i]
			}
		}(blk, lo, hi)
	}
	wg.Wait()
}

func blockRange(blk, n int) (lo, hi int) {
	lo = blk * radixBlockSize
	hi = lo + radixBlockSize
	if hi > n {
		hi = n
	}
	return
}

func digit(key, shift uint32) uint32 {
	return (key >> shift) & (engine.RadixBuckets - 1)
}
