package cpubackend

import (
	"sync"

	engine "github.com/MarcVivas/gpu-physics-engine"
)

// Integrate implements spec.md §4.1: velocity = position - previous
// position, previous position <- position, then a Verlet step under
// gravity plus optional mouse attraction, clamped to the world bounds
// (invariant I6). Particles are split into fixed-size blocks and
// processed by a worker pool, the same shape as the teacher's
// particlesCollect worker pool in particles_ecs.go, standing in for the
// GPU's per-workgroup parallelism.
func (b *Backend) Integrate(pool *engine.BufferPool, cfg engine.Config, input engine.FrameInput) {
	n := pool.Count
	if n == 0 {
		return
	}
	dt := input.DeltaTime
	dt2 := dt * dt

	runBlocked(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			pos := pool.Position[i]
			prev := pool.PrevPosition[i]
			vel := pos.Sub(prev)

			accel := cfg.Gravity
			if input.AttractPressed {
				toMouse := input.MousePos.Sub(pos)
				if l := toMouse.Len(); l > engine.Epsilon {
					accel = accel.Add(toMouse.Mul(engine.MouseAttractionK / l))
				}
			}

			next := pos.Add(vel).Add(accel.Mul(dt2))

			r := pool.Radius[i]
			next[0] = clamp(next[0], r, cfg.WorldSize.X()-r)
			next[1] = clamp(next[1], r, cfg.WorldSize.Y()-r)

			pool.PrevPosition[i] = pos
			pool.Position[i] = next
		}
	})
}

func clamp(v, lo, hi float32) float32 {
	if hi < lo {
		// Degenerate world/radius combination; Config.Validate should have
		// already rejected this, but never produce NaN-propagating output.
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// runBlocked partitions [0,n) into fixed-size blocks and runs fn over each
// block concurrently, mirroring the teacher's worker-pool shape
// (particles_ecs.go's particlesCollect) without its channel plumbing —
// blocks here are static index ranges, not a work queue, since every block
// does the same bounded amount of work.
func runBlocked(n int, fn func(lo, hi int)) {
	const blockSize = 2048
	if n <= blockSize {
		fn(0, n)
		return
	}
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += blockSize {
		hi := lo + blockSize
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
