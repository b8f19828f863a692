// Package cpubackend is a goroutine-parallel reference implementation of
// engine.Backend. It mirrors the dispatch boundaries of spec.md §4's GPU
// pipeline (one stage function per kernel, operating over fixed-size
// blocks standing in for workgroups) without requiring a GPU, so the
// pipeline's algorithms can be unit-tested and benchmarked on any machine.
// gpubackend carries the same stage boundaries onto real wgpu compute
// dispatches.
package cpubackend

import engine "github.com/MarcVivas/gpu-physics-engine"

// Backend is the CPU reference implementation of engine.Backend. It holds
// no state of its own — all mutable simulation state lives in the
// engine.BufferPool passed to each stage — so a single Backend value can
// drive any number of independent simulations.
type Backend struct{}

// New returns a ready-to-use CPU backend.
func New() *Backend {
	return &Backend{}
}

var _ engine.Backend = (*Backend)(nil)
