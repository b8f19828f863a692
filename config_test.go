package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate_Accepts(t *testing.T) {
	cfg := DefaultConfig(mgl32.Vec2{100, 100}, 1)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate_RejectsNonPositiveWorldSize(t *testing.T) {
	cfg := DefaultConfig(mgl32.Vec2{0, 100}, 1)
	err := cfg.Validate()
	require.Error(t, err)
	var invalid *InvalidConfigError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "WorldSize", invalid.Field)
}

func TestConfig_Validate_RejectsSmallCellSize(t *testing.T) {
	cfg := DefaultConfig(mgl32.Vec2{100, 100}, 1)
	cfg.CellSize = 1 // < 2*MaxRadius
	err := cfg.Validate()
	require.Error(t, err)
	var invalid *InvalidConfigError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "CellSize", invalid.Field)
}

func TestConfig_Validate_RejectsNonPositiveCapacity(t *testing.T) {
	cfg := DefaultConfig(mgl32.Vec2{100, 100}, 1)
	cfg.InitialCapacity = 0
	require.Error(t, cfg.Validate())
}
