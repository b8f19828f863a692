package gpubackend

import (
	"github.com/cogentcore/webgpu/wgpu"

	engine "github.com/MarcVivas/gpu-physics-engine"
)

// dispatch1D runs one compute pass of `pipeline` over a 1-D bind group,
// the same begin/set/dispatch/end/submit shape as DispatchHiZ, minus the
// multi-pass mip loop (every kernel in this package is a single dispatch).
func (b *Backend) dispatch1D(pipeline *wgpu.ComputePipeline, entries []wgpu.BindGroupEntry, workgroups uint32) error {
	if workgroups == 0 {
		return nil
	}
	bgl := pipeline.GetBindGroupLayout(0)
	bindGroup, err := b.device.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "dispatch",
		Layout:  bgl,
		Entries: entries,
	})
	if err != nil {
		return err
	}

	encoder, err := b.device.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(workgroups, 1, 1)
	pass.End()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	b.device.queue.Submit(cmd)
	return nil
}

func bufEntry(binding uint32, buf *wgpu.Buffer) wgpu.BindGroupEntry {
	return wgpu.BindGroupEntry{Binding: binding, Buffer: buf, Offset: 0, Size: buf.GetSize()}
}

func workgroupsFor(n int) uint32 {
	return workgroupsForBlock(n, int(engine.DefaultWorkgroupSize))
}

// workgroupsForBlock computes the dispatch size for kernels whose
// workgroup handles `blockSize` input elements per invocation group
// (radix_histogram/radix_scatter process BLOCK_SIZE=1024 keys per
// 256-thread workgroup; prefix_scan_block processes 2*256=512 per
// workgroup), as opposed to one element per thread.
func workgroupsForBlock(n, blockSize int) uint32 {
	if n <= 0 {
		return 0
	}
	return uint32((n + blockSize - 1) / blockSize)
}
