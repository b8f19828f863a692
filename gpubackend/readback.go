package gpubackend

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/cogentcore/webgpu/wgpu"
)

// readBytes blocks until `buf`'s first `size` bytes are readable and
// returns a copy of them. Grounded on GpuBufferManager.ReadbackHiZ's
// MapAsync/Poll/GetMappedRange/Unmap sequence, but polls with `true`
// (block until the map completes) instead of HiZ's poll-once-per-frame
// style: the coordination data read here (radix bucket histograms,
// prefix-sum block totals, the collision-cell total, positions ahead of a
// Morton reorder) is needed later in the
// same stage, not next frame, so there is no frame to hide the latency
// behind.
func readBytes(device *wgpu.Device, buf *wgpu.Buffer, size uint64) ([]byte, error) {
	var mapErr error
	mapped := false
	buf.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		if status == wgpu.BufferMapAsyncStatusSuccess {
			mapped = true
		} else {
			mapErr = errMapFailed(status)
		}
	})
	device.Poll(true, nil)
	if mapErr != nil {
		return nil, mapErr
	}
	if !mapped {
		return nil, errMapFailed(0)
	}

	data := buf.GetMappedRange(0, uint(size))
	out := make([]byte, size)
	copy(out, data)
	buf.Unmap()
	return out, nil
}

// readU32 is readBytes decoded as a little-endian []uint32.
func readU32(device *wgpu.Device, buf *wgpu.Buffer, count int) ([]uint32, error) {
	data, err := readBytes(device, buf, uint64(count)*4)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4 : i*4+4])
	}
	return out, nil
}

// readVec2F32 is readBytes decoded as a little-endian []mgl32.Vec2.
func readVec2F32(device *wgpu.Device, buf *wgpu.Buffer, count int) ([]mgl32.Vec2, error) {
	data, err := readBytes(device, buf, uint64(count)*8)
	if err != nil {
		return nil, err
	}
	out := make([]mgl32.Vec2, count)
	for i := range out {
		x := math.Float32frombits(binary.LittleEndian.Uint32(data[i*8:]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(data[i*8+4:]))
		out[i] = mgl32.Vec2{x, y}
	}
	return out, nil
}

type mapFailedError struct{ status wgpu.BufferMapAsyncStatus }

func (e mapFailedError) Error() string { return "gpubackend: buffer map failed" }

func errMapFailed(status wgpu.BufferMapAsyncStatus) error { return mapFailedError{status} }
