package gpubackend

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// prefixSumDevice runs the three-dispatch exclusive scan of spec.md §4.4
// over the first n elements of buf, in place, mirroring
// cpubackend.prefixSumExclusive's three phases but with the block-sum
// scan done host-side (scanBlocks is tiny — at most Capacity*4/512 words
// — so a readback-scan-writeback round trip costs far less than a second
// GPU dispatch chain would save). Returns the scan's total (the sum of
// all n pre-scan input values).
func (b *Backend) prefixSumDevice(buf *wgpu.Buffer, n int) (uint32, error) {
	if n == 0 {
		return 0, nil
	}
	numBlocks := workgroupsForBlock(n, scanBlockSize)

	scanUniforms := uniformWords(uint32(n))
	uniformBuf, err := b.device.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "scan_uniforms", Size: uint64(len(scanUniforms)), Usage: uniformUsage,
	})
	if err != nil {
		return 0, err
	}
	defer uniformBuf.Release()
	b.device.queue.WriteBuffer(uniformBuf, 0, scanUniforms)

	blockEntries := []wgpu.BindGroupEntry{
		bufEntry(0, uniformBuf),
		bufEntry(1, buf),
		bufEntry(2, b.buf.BlockSums),
	}
	if err := b.dispatch1D(b.pipes.prefixScanBlock, blockEntries, numBlocks); err != nil {
		return 0, err
	}

	blockSums, err := readU32(b.device.device, b.buf.BlockSums, int(numBlocks))
	if err != nil {
		return 0, err
	}
	var total uint32
	for i := range blockSums {
		total += blockSums[i]
	}
	var running uint32
	for i := range blockSums {
		s := blockSums[i]
		blockSums[i] = running
		running += s
	}
	b.device.queue.WriteBuffer(b.buf.BlockSums, 0, encodeU32s(blockSums))

	addBackEntries := []wgpu.BindGroupEntry{
		bufEntry(0, uniformBuf),
		bufEntry(1, buf),
		bufEntry(2, b.buf.BlockSums),
	}
	if err := b.dispatch1D(b.pipes.prefixAddBack, addBackEntries, numBlocks); err != nil {
		return 0, err
	}

	return total, nil
}
