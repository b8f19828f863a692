package gpubackend

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// encodeU32s/encodeVec2s/encodeF32s pack host-side slices into the
// little-endian byte layout wgpu.Queue.WriteBuffer expects, the same
// encoding uniformWords uses for scalar uniform structs.
func encodeU32s(data []uint32) []byte {
	out := make([]byte, 4*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

func encodeVec2s(data []mgl32.Vec2) []byte {
	out := make([]byte, 8*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint32(out[i*8:], math.Float32bits(v.X()))
		binary.LittleEndian.PutUint32(out[i*8+4:], math.Float32bits(v.Y()))
	}
	return out
}

func encodeF32s(data []float32) []byte {
	out := make([]byte, 4*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}
