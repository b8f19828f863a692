package cpubackend

import (
	"math/rand"
	"testing"

	engine "github.com/MarcVivas/gpu-physics-engine"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

type triple struct {
	pos, prev mgl32.Vec2
	radius    float32
}

func TestMortonReorder_IsAPermutation(t *testing.T) {
	// P8: before/after the periodic reorder, the multiset of
	// (position, previous_position, radius) triples is equal.
	cfg := engine.DefaultConfig(mgl32.Vec2{500, 500}, 1)
	cfg.CellSize = 4
	pool := engine.NewBufferPool(64, nil)
	rng := rand.New(rand.NewSource(11))
	pool.Spawn(64, mgl32.Vec2{250, 250}, 1, func(i int) mgl32.Vec2 {
		return mgl32.Vec2{rng.Float32()*400 - 200, rng.Float32()*400 - 200}
	})
	for i := 0; i < pool.Count; i++ {
		pool.PrevPosition[i] = pool.Position[i].Sub(mgl32.Vec2{rng.Float32(), rng.Float32()})
		pool.Radius[i] = 0.5 + rng.Float32()
	}

	before := make(map[triple]int)
	for i := 0; i < pool.Count; i++ {
		before[triple{pool.Position[i], pool.PrevPosition[i], pool.Radius[i]}]++
	}

	backend := New()
	backend.MortonReorder(pool, cfg)

	after := make(map[triple]int)
	for i := 0; i < pool.Count; i++ {
		after[triple{pool.Position[i], pool.PrevPosition[i], pool.Radius[i]}]++
	}

	require.Equal(t, before, after)
}

func TestMortonReorder_SortsByHomeCellMorton(t *testing.T) {
	cfg := engine.DefaultConfig(mgl32.Vec2{500, 500}, 1)
	cfg.CellSize = 4
	pool := engine.NewBufferPool(32, nil)
	rng := rand.New(rand.NewSource(22))
	pool.Spawn(32, mgl32.Vec2{250, 250}, 1, func(i int) mgl32.Vec2 {
		return mgl32.Vec2{rng.Float32()*300 - 150, rng.Float32()*300 - 150}
	})

	backend := New()
	backend.MortonReorder(pool, cfg)

	for i := 1; i < pool.Count; i++ {
		x0, y0 := engine.HomeCell([2]float32{pool.Position[i-1].X(), pool.Position[i-1].Y()}, cfg.CellSize)
		x1, y1 := engine.HomeCell([2]float32{pool.Position[i].X(), pool.Position[i].Y()}, cfg.CellSize)
		k0 := engine.MortonEncode2D(uint16(x0), uint16(y0))
		k1 := engine.MortonEncode2D(uint16(x1), uint16(y1))
		require.LessOrEqual(t, k0, k1)
	}
}

func TestMortonReorder_EmptyPoolIsNoop(t *testing.T) {
	cfg := engine.DefaultConfig(mgl32.Vec2{500, 500}, 1)
	pool := engine.NewBufferPool(4, nil)
	backend := New()
	require.NotPanics(t, func() { backend.MortonReorder(pool, cfg) })
}
