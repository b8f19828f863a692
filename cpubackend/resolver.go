package cpubackend

import engine "github.com/MarcVivas/gpu-physics-engine"

// SolveCollisions implements spec.md §4.6: four sequential color passes
// over the collision-cell list. Within one pass every collision cell
// whose parity matches the pass's color is resolved; collision cells of the
// same color share no particles by I5, so each pass here is itself
// parallelized across collision cells, while the four passes run one
// after another to preserve the barrier the spec requires between them.
func (b *Backend) SolveCollisions(pool *engine.BufferPool) {
	total := pool.CollisionCellCount
	cells := pool.CollisionCells
	if uint32(len(cells)) < total {
		total = uint32(len(cells))
	}

	for color := uint32(1); color <= 4; color++ {
		runBlocked(int(total), func(lo, hi int) {
			for t := lo; t < hi; t++ {
				s := cells[t]
				key := pool.CellKey[s]
				x, y := engine.MortonDecode2D(key)
				if engine.CellColor(int32(x), int32(y)) != color {
					continue
				}
				resolveRun(pool, int(s))
			}
		})
	}
}

// resolveRun walks the contiguous run of equal keys starting at slot s and
// applies a positional correction to every unordered pair of particles
// sharing the cell, per spec.md §4.6's penetration/normal/inverse-mass
// formula.
func resolveRun(pool *engine.BufferPool, s int) {
	key := pool.CellKey[s]
	end := s
	for end < len(pool.CellKey) && pool.CellKey[end] == key {
		end++
	}

	for a := s; a < end; a++ {
		i := pool.ObjectID[a]
		for bI := a + 1; bI < end; bI++ {
			j := pool.ObjectID[bI]
			if i == j {
				continue
			}
			resolvePair(pool, i, j)
		}
	}
}

func resolvePair(pool *engine.BufferPool, i, j uint32) {
	pi := pool.Position[i]
	pj := pool.Position[j]
	d := pi.Sub(pj)
	r := d.Len()
	if r <= engine.Epsilon {
		return
	}
	ri := pool.Radius[i]
	rj := pool.Radius[j]
	sumR := ri + rj
	if sumR*sumR <= r*r {
		return
	}

	delta := sumR - r
	n := d.Mul(1 / r)
	wi := 1 / ri
	wj := 1 / rj
	c := delta * engine.Stiffness
	denom := wi + wj
	if denom <= engine.Epsilon {
		return
	}

	pool.Position[i] = pi.Add(n.Mul(c * wi / denom))
	pool.Position[j] = pj.Sub(n.Mul(c * wj / denom))
}
