package cpubackend

import (
	"math/rand"
	"sort"
	"testing"

	engine "github.com/MarcVivas/gpu-physics-engine"
	"github.com/stretchr/testify/require"
)

func TestSortPairs_NonDecreasingAndStable(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const n = 5000
	keys := make([]uint32, n)
	payload := make([]uint32, n)
	for i := range keys {
		keys[i] = uint32(rng.Intn(1000))
		payload[i] = uint32(i) // original index, used to check stability
	}
	wantPairs := make([][2]uint32, n)
	for i := range keys {
		wantPairs[i] = [2]uint32{keys[i], payload[i]}
	}
	sort.SliceStable(wantPairs, func(i, j int) bool { return wantPairs[i][0] < wantPairs[j][0] })

	scratchK := make([]uint32, n)
	scratchP := make([]uint32, n)
	sortPairs(keys, payload, scratchK, scratchP)

	// P4: non-decreasing keys.
	for i := 1; i < n; i++ {
		require.LessOrEqual(t, keys[i-1], keys[i])
	}
	// Stability + bijection: the (key, payload) pair stream matches a
	// stable sort of the original pairs.
	for i := 0; i < n; i++ {
		require.Equal(t, wantPairs[i][0], keys[i])
		require.Equal(t, wantPairs[i][1], payload[i])
	}
}

func TestSortPairs_UnusedKeysSortLast(t *testing.T) {
	keys := []uint32{5, engine.UnusedKey, 1, engine.UnusedKey, 3}
	payload := []uint32{0, 1, 2, 3, 4}
	scratchK := make([]uint32, len(keys))
	scratchP := make([]uint32, len(keys))
	sortPairs(keys, payload, scratchK, scratchP)

	require.Equal(t, []uint32{1, 3, 5, engine.UnusedKey, engine.UnusedKey}, keys)
}

func TestSortPairs_Empty(t *testing.T) {
	var keys, payload, scratchK, scratchP []uint32
	require.NotPanics(t, func() {
		sortPairs(keys, payload, scratchK, scratchP)
	})
}

func TestRadixSort_OperatesOnlyOnActiveSlots(t *testing.T) {
	pool := engine.NewBufferPool(8, nil)
	pool.Count = 2 // only 2 particles live, despite capacity 8
	active := pool.ActiveSlots()
	require.Equal(t, 8, active)

	for i := range pool.CellKey {
		pool.CellKey[i] = engine.UnusedKey
	}
	pool.CellKey[0] = 5
	pool.CellKey[1] = 2
	pool.CellKey[2] = engine.UnusedKey
	pool.CellKey[3] = engine.UnusedKey
	pool.CellKey[4] = 9
	pool.CellKey[5] = 1
	pool.CellKey[6] = engine.UnusedKey
	pool.CellKey[7] = engine.UnusedKey
	// Garbage beyond the active range must be left untouched.
	pool.CellKey[8] = 777

	backend := New()
	backend.RadixSort(pool)

	require.Equal(t, []uint32{1, 2, 5, 9, engine.UnusedKey, engine.UnusedKey, engine.UnusedKey, engine.UnusedKey}, pool.CellKey[:active])
	require.EqualValues(t, 777, pool.CellKey[8])
}
