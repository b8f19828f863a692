// Package shaders embeds the WGSL compute kernels that back up
// gpubackend's compute pipelines, mirroring the teacher's
// voxelrt/rt/shaders package (one string variable per embedded .wgsl
// file).
package shaders

import (
	_ "embed"
)

//go:embed integrate.wgsl
var IntegrateWGSL string

//go:embed grid_build.wgsl
var GridBuildWGSL string

//go:embed radix_histogram.wgsl
var RadixHistogramWGSL string

//go:embed radix_scatter.wgsl
var RadixScatterWGSL string

//go:embed prefix_scan_block.wgsl
var PrefixScanBlockWGSL string

//go:embed prefix_add_back.wgsl
var PrefixAddBackWGSL string

//go:embed collision_count.wgsl
var CollisionCountWGSL string

//go:embed collision_emit.wgsl
var CollisionEmitWGSL string

//go:embed collision_resolve.wgsl
var CollisionResolveWGSL string

//go:embed morton_rearrange.wgsl
var MortonRearrangeWGSL string
