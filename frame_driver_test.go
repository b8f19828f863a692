package engine_test

import (
	"testing"

	engine "github.com/MarcVivas/gpu-physics-engine"
	"github.com/MarcVivas/gpu-physics-engine/cpubackend"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestFrameDriver_RejectsInvalidConfig(t *testing.T) {
	cfg := engine.DefaultConfig(mgl32.Vec2{0, 0}, 1)
	_, err := engine.NewFrameDriver(cfg, cpubackend.New(), nil)
	require.Error(t, err)
}

func TestFrameDriver_StepAdvancesFrameIndex(t *testing.T) {
	cfg := engine.DefaultConfig(mgl32.Vec2{200, 200}, 1)
	driver, err := engine.NewFrameDriver(cfg, cpubackend.New(), nil)
	require.NoError(t, err)

	driver.Spawn(10, mgl32.Vec2{100, 100}, 1)
	require.Equal(t, 10, driver.Pool().Count)

	for i := uint64(0); i < 5; i++ {
		require.Equal(t, i, driver.FrameIndex())
		driver.Step(engine.FrameInput{DeltaTime: 0.016})
	}
	require.Equal(t, uint64(5), driver.FrameIndex())
}

func TestFrameDriver_TriggersPeriodicMortonReorder(t *testing.T) {
	cfg := engine.DefaultConfig(mgl32.Vec2{200, 200}, 1)
	cfg.MortonReorderInterval = 0.05
	driver, err := engine.NewFrameDriver(cfg, cpubackend.New(), nil)
	require.NoError(t, err)
	driver.Spawn(20, mgl32.Vec2{100, 100}, 1)

	before := make([]mgl32.Vec2, driver.Pool().Count)
	copy(before, driver.Pool().Position)

	// Several frames at dt=0.02 should cross the 0.05s reorder interval at
	// least once; the reorder must not change the multiset of positions
	// (P8), only their order, so this mainly checks it runs without panic
	// and preserves particle count.
	for i := 0; i < 10; i++ {
		driver.Step(engine.FrameInput{DeltaTime: 0.02})
	}
	require.Equal(t, 20, driver.Pool().Count)
}

func TestFrameDriver_ContainmentHoldsAcrossManyFrames(t *testing.T) {
	// P1, exercised through the full driver rather than the backend alone.
	cfg := engine.DefaultConfig(mgl32.Vec2{80, 80}, 1)
	cfg.Gravity = mgl32.Vec2{0, -500}
	driver, err := engine.NewFrameDriver(cfg, cpubackend.New(), nil)
	require.NoError(t, err)
	driver.Spawn(30, mgl32.Vec2{40, 40}, 1)

	for i := 0; i < 100; i++ {
		driver.Step(engine.FrameInput{DeltaTime: 0.01})
		pool := driver.Pool()
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
