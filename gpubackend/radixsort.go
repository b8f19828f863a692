package gpubackend

import (
	"github.com/cogentcore/webgpu/wgpu"

	engine "github.com/MarcVivas/gpu-physics-engine"
)

// RadixSort runs the four 8-bit-digit passes of spec.md §4.3: for each
// pass, dispatch radix_histogram.wgsl, read back the small per-block
// histogram, derive bucket_prefix and per-(block,bucket) scatter_base on
// the host (256*numBlocks words — tiny next to the key stream itself),
// upload scatter_base, then dispatch radix_scatter.wgsl. Buffers are
// ping-ponged by swapping which Go field points at which wgpu.Buffer
// (b.buf.CellKey/b.buf.CellKeyScratch) rather than copying device memory,
// the GPU-resident counterpart of cpubackend.sortPairs's slice swap.
func (b *Backend) RadixSort(pool *engine.BufferPool) {
	n := pool.ActiveSlots()
	if n == 0 {
		return
	}
	numBlocks := (n + radixBlockSize - 1) / radixBlockSize

	for pass := uint32(0); pass < engine.RadixPasses; pass++ {
		shift := pass * engine.RadixDigitBits
		if err := b.radixPass(n, numBlocks, shift); err != nil {
			b.log.Errorf("gpubackend: RadixSort: pass %d: %v", pass, err)
			return
		}
		b.buf.CellKey, b.buf.CellKeyScratch = b.buf.CellKeyScratch, b.buf.CellKey
		b.buf.ObjectID, b.buf.ObjectIDScratch = b.buf.ObjectIDScratch, b.buf.ObjectID
	}
	// RadixPasses is even, so after an even number of swaps b.buf.CellKey
	// and b.buf.ObjectID already name the sorted buffers again.
}

func (b *Backend) radixPass(n, numBlocks int, shift uint32) error {
	histUniforms := uniformWords(shift, uint32(n))
	histUniformBuf, err := b.device.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "radix_histogram_uniforms", Size: uint64(len(histUniforms)), Usage: uniformUsage,
	})
	if err != nil {
		return err
	}
	defer histUniformBuf.Release()
	b.device.queue.WriteBuffer(histUniformBuf, 0, histUniforms)

	histEntries := []wgpu.BindGroupEntry{
		bufEntry(0, histUniformBuf),
		bufEntry(1, b.buf.CellKey),
		bufEntry(2, b.buf.RadixHistogram),
	}
	if err := b.dispatch1D(b.pipes.radixHistogram, histEntries, uint32(numBlocks)); err != nil {
		return err
	}

	hist, err := readU32(b.device.device, b.buf.RadixHistogram, 256*numBlocks)
	if err != nil {
		return err
	}
	scatterBase := computeScatterBase(hist, numBlocks)
	b.device.queue.WriteBuffer(b.buf.RadixScatterBase, 0, encodeU32s(scatterBase))

	scatterEntries := []wgpu.BindGroupEntry{
		bufEntry(0, histUniformBuf),
		bufEntry(1, b.buf.CellKey),
		bufEntry(2, b.buf.ObjectID),
		bufEntry(3, b.buf.CellKeyScratch),
		bufEntry(4, b.buf.ObjectIDScratch),
		bufEntry(5, b.buf.RadixScatterBase),
	}
	return b.dispatch1D(b.pipes.radixScatter, scatterEntries, uint32(numBlocks))
}

// computeScatterBase derives, for every (block, bucket) pair, the device
// write offset radix_scatter.wgsl's scatter_base expects:
// bucket_prefix[bucket] (the exclusive prefix across all buckets' grand
// totals) plus local_histogram[block][bucket] (the exclusive running
// count of that bucket across all earlier blocks) — identical in shape to
// cpubackend.radixPass's host-side coordination math.
func computeScatterBase(hist []uint32, numBlocks int) []uint32 {
	const buckets = int(engine.RadixBuckets)
	var bucketTotal [buckets]uint32
	for blk := 0; blk < numBlocks; blk++ {
		for bkt := 0; bkt < buckets; bkt++ {
			bucketTotal[bkt] += hist[blk*buckets+bkt]
		}
	}
	var bucketPrefix [buckets]uint32
	var running uint32
	for bkt := 0; bkt < buckets; bkt++ {
		bucketPrefix[bkt] = running
		running += bucketTotal[bkt]
	}

	scatterBase := make([]uint32, buckets*numBlocks)
	var runningPerBucket [buckets]uint32
	for blk := 0; blk < numBlocks; blk++ {
		for bkt := 0; bkt < buckets; bkt++ {
			scatterBase[blk*buckets+bkt] = bucketPrefix[bkt] + runningPerBucket[bkt]
			runningPerBucket[bkt] += hist[blk*buckets+bkt]
		}
	}
	return scatterBase
}
