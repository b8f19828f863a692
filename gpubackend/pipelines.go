package gpubackend

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/MarcVivas/gpu-physics-engine/shaders"
)

// radixBlockSize/scanBlockSize mirror cpubackend's block sizes exactly —
// the two backends must agree on dispatch granularity, since property
// tests run on cpubackend are how this backend's contracts get proven.
const radixBlockSize = 1024
const scanBlockSize = 512

// pipelines holds one compute pipeline per WGSL kernel in shaders/,
// created once at device-open time, the same lifecycle as
// GpuBufferManager.HiZPipeline (created lazily, kept for the device's
// lifetime, never recreated per frame).
type pipelines struct {
	integrate        *wgpu.ComputePipeline
	gridBuild        *wgpu.ComputePipeline
	radixHistogram   *wgpu.ComputePipeline
	radixScatter     *wgpu.ComputePipeline
	prefixScanBlock  *wgpu.ComputePipeline
	prefixAddBack    *wgpu.ComputePipeline
	collisionCount   *wgpu.ComputePipeline
	collisionEmit    *wgpu.ComputePipeline
	collisionResolve *wgpu.ComputePipeline
	mortonRearrange  *wgpu.ComputePipeline
}

func newPipelines(device *wgpu.Device) (*pipelines, error) {
	build := func(label, code string) (*wgpu.ComputePipeline, error) {
		module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label:          label,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
		})
		if err != nil {
			return nil, err
		}
		return device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
			Label: label,
			Compute: wgpu.ProgrammableStageDescriptor{
				Module:     module,
				EntryPoint: "main",
			},
		})
	}

	specs := []struct {
		label string
		code  string
	}{
		{"integrate", shaders.IntegrateWGSL},
		{"grid_build", shaders.GridBuildWGSL},
		{"radix_histogram", shaders.RadixHistogramWGSL},
		{"radix_scatter", shaders.RadixScatterWGSL},
		{"prefix_scan_block", shaders.PrefixScanBlockWGSL},
		{"prefix_add_back", shaders.PrefixAddBackWGSL},
		{"collision_count", shaders.CollisionCountWGSL},
		{"collision_emit", shaders.CollisionEmitWGSL},
		{"collision_resolve", shaders.CollisionResolveWGSL},
		{"morton_rearrange", shaders.MortonRearrangeWGSL},
	}

	p := &pipelines{}
	dsts := []**wgpu.ComputePipeline{
		&p.integrate, &p.gridBuild, &p.radixHistogram, &p.radixScatter,
		&p.prefixScanBlock, &p.prefixAddBack, &p.collisionCount,
		&p.collisionEmit, &p.collisionResolve, &p.mortonRearrange,
	}
	for i, spec := range specs {
		pipe, err := build(spec.label, spec.code)
		if err != nil {
			return nil, err
		}
		*dsts[i] = pipe
	}
	return p, nil
}
