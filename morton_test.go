package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMortonEncodeDecode_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		x := uint16(rng.Intn(1 << 16))
		y := uint16(rng.Intn(1 << 16))
		key := MortonEncode2D(x, y)
		gotX, gotY := MortonDecode2D(key)
		require.Equal(t, x, gotX)
		require.Equal(t, y, gotY)
	}
}

func TestMortonEncode2D_KnownValues(t *testing.T) {
	require.EqualValues(t, 0, MortonEncode2D(0, 0))
	require.EqualValues(t, 1, MortonEncode2D(1, 0))
	require.EqualValues(t, 2, MortonEncode2D(0, 1))
	require.EqualValues(t, 3, MortonEncode2D(1, 1))
}

func TestHomeCell(t *testing.T) {
	x, y := HomeCell([2]float32{3.9, 4.1}, 2.0)
	require.EqualValues(t, 1, x)
	require.EqualValues(t, 2, y)

	x, y = HomeCell([2]float32{0, 0}, 2.0)
	require.EqualValues(t, 0, x)
	require.EqualValues(t, 0, y)
}

func TestCellColor_CheckerboardParity(t *testing.T) {
	require.EqualValues(t, 1, CellColor(0, 0))
	require.EqualValues(t, 2, CellColor(1, 0))
	require.EqualValues(t, 3, CellColor(0, 1))
	require.EqualValues(t, 4, CellColor(1, 1))
	require.EqualValues(t, 1, CellColor(2, 2))
	// Adjacent cells along either axis must differ in color.
	for x := int32(-5); x < 5; x++ {
		for y := int32(-5); y < 5; y++ {
			require.NotEqual(t, CellColor(x, y), CellColor(x+1, y))
			require.NotEqual(t, CellColor(x, y), CellColor(x, y+1))
		}
	}
}
