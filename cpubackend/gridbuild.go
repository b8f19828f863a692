package cpubackend

import (
	engine "github.com/MarcVivas/gpu-physics-engine"
	"github.com/go-gl/mathgl/mgl32"
)

// neighborScanOrder is the fixed Δy∈{-1,0,1}, Δx∈{-1,0,1} scan order of
// spec.md §4.2, skipping (0,0) which is the home cell emitted separately.
var neighborScanOrder = [8][2]int32{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// BuildCellIDs implements spec.md §4.2: for each particle, emit the home
// cell key at slot 4k, then up to three phantom keys for neighbor cells
// whose square the particle's disk intersects, then UNUSED for any
// remaining slots (invariants I1, I2, properties P2, P3).
func (b *Backend) BuildCellIDs(pool *engine.BufferPool, cfg engine.Config) {
	n := pool.Count
	if n == 0 {
		return
	}

	runBlocked(n, func(lo, hi int) {
		for k := lo; k < hi; k++ {
			pos := pool.Position[k]
			radius := pool.Radius[k]
			cellSize := cfg.CellSize

			homeX, homeY := engine.HomeCell([2]float32{pos.X(), pos.Y()}, cellSize)

			base := k * int(engine.SlotsPerParticle)
			pool.CellKey[base] = engine.MortonEncode2D(uint16(homeX), uint16(homeY))
			pool.ObjectID[base] = uint32(k)

			next := base + 1
			limit := base + int(engine.SlotsPerParticle)
			for _, d := range neighborScanOrder {
				if next >= limit {
					// Config.Validate (cellSize >= 2*maxRadius) guarantees a
					// disk never touches more than 4 cells; this guard is
					// only here so a violated invariant overwrites nothing
					// instead of corrupting the next particle's home slot.
					break
				}
				nx, ny := homeX+d[0], homeY+d[1]
				if diskIntersectsCell(pos, radius, nx, ny, cellSize) {
					pool.CellKey[next] = engine.MortonEncode2D(uint16(nx), uint16(ny))
					pool.ObjectID[next] = uint32(k)
					next++
				}
			}
			for next < limit {
				pool.CellKey[next] = engine.UnusedKey
				next++
			}
		}
	})
}

// diskIntersectsCell is the closest-point-on-AABB test of spec.md §4.2:
// the particle's disk intersects the (cx,cy) cell's square iff the
// squared distance from the disk center to the closest point on the
// square is <= radius^2.
func diskIntersectsCell(pos mgl32.Vec2, radius float32, cx, cy int32, cellSize float32) bool {
	minX := float32(cx) * cellSize
	minY := float32(cy) * cellSize
	maxX := minX + cellSize
	maxY := minY + cellSize

	closestX := clampF(pos.X(), minX, maxX)
	closestY := clampF(pos.Y(), minY, maxY)

	dx := pos.X() - closestX
	dy := pos.Y() - closestY
	distSq := dx*dx + dy*dy
	return distSq <= radius*radius
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
