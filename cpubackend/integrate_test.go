package cpubackend

import (
	"testing"

	engine "github.com/MarcVivas/gpu-physics-engine"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestIntegrate_SingleParticleAtRest(t *testing.T) {
	// Scenario 1 (spec.md §8): N=1, world=(100,100), position=(50,50),
	// prev=(50,50), radius=1, gravity=0. After 60 frames at dt=0.016,
	// position must remain exactly (50,50).
	cfg := engine.DefaultConfig(mgl32.Vec2{100, 100}, 1)
	cfg.Gravity = mgl32.Vec2{0, 0}
	pool := engine.NewBufferPool(1, nil)
	pool.Spawn(1, mgl32.Vec2{50, 50}, 1, nil)

	backend := New()
	input := engine.FrameInput{DeltaTime: 0.016}
	for i := 0; i < 60; i++ {
		backend.Integrate(pool, cfg, input)
	}

	require.InDelta(t, 50, pool.Position[0].X(), 1e-9)
	require.InDelta(t, 50, pool.Position[0].Y(), 1e-9)
}

func TestIntegrate_GravityDrop(t *testing.T) {
	// Scenario 3: position.y strictly decreases until it reaches 1.0
	// (radius), then stays clamped there.
	cfg := engine.DefaultConfig(mgl32.Vec2{100, 100}, 1)
	cfg.Gravity = mgl32.Vec2{0, -39.3}
	pool := engine.NewBufferPool(1, nil)
	pool.Spawn(1, mgl32.Vec2{50, 90}, 1, nil)

	backend := New()
	input := engine.FrameInput{DeltaTime: 0.003}

	prevY := pool.Position[0].Y()
	reachedFloor := false
	for i := 0; i < 5000; i++ {
		backend.Integrate(pool, cfg, input)
		y := pool.Position[0].Y()
		if !reachedFloor {
			require.Less(t, y, prevY)
			if y <= 1.0+1e-6 {
				reachedFloor = true
			}
		} else {
			require.GreaterOrEqual(t, y, 1.0-1e-6)
		}
		prevY = y
	}
	require.True(t, reachedFloor, "particle never reached the floor")
}

func TestIntegrate_ContainmentProperty(t *testing.T) {
	// P1: after any integrator step, radius <= position <= world-radius.
	cfg := engine.DefaultConfig(mgl32.Vec2{50, 50}, 2)
	cfg.Gravity = mgl32.Vec2{0, -200}
	pool := engine.NewBufferPool(8, nil)
	pool.Spawn(8, mgl32.Vec2{25, 25}, 2, func(i int) mgl32.Vec2 {
		return mgl32.Vec2{float32(i), -float32(i)}
	})

	backend := New()
	input := engine.FrameInput{DeltaTime: 0.05}
	for i := 0; i < 200; i++ {
		backend.Integrate(pool, cfg, input)
		for k := 0; k < pool.Count; k++ {
			r := pool.Radius[k]
			p := pool.Position[k]
			require.GreaterOrEqual(t, p.X(), r)
			require.LessOrEqual(t, p.X(), cfg.WorldSize.X()-r)
			require.GreaterOrEqual(t, p.Y(), r)
			require.LessOrEqual(t, p.Y(), cfg.WorldSize.Y()-r)
		}
	}
}

func TestIntegrate_MouseAttraction(t *testing.T) {
	cfg := engine.DefaultConfig(mgl32.Vec2{100, 100}, 1)
	cfg.Gravity = mgl32.Vec2{0, 0}
	pool := engine.NewBufferPool(1, nil)
	pool.Spawn(1, mgl32.Vec2{10, 50}, 1, nil)

	backend := New()
	input := engine.FrameInput{DeltaTime: 0.016, MousePos: mgl32.Vec2{90, 50}, AttractPressed: true}
	for i := 0; i < 30; i++ {
		backend.Integrate(pool, cfg, input)
	}
	require.Greater(t, pool.Position[0].X(), float32(10), "particle should move toward the mouse")
}
