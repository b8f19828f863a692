package gpubackend

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"

	engine "github.com/MarcVivas/gpu-physics-engine"
)

// Backend is the wgpu compute-pipeline implementation of engine.Backend.
// It carries no host-resident copy of particle state between frames (that
// would defeat the point of a GPU-resident pipeline); every stage method
// dispatches directly against the buffers owned by this struct, growing
// them on demand the way GpuBufferManager grows its voxel buffers
// (manager_edit.go's ensureBuffer).
//
// A handful of stages need a small amount of host-side coordination data
// (radix sort's per-bucket prefixes, the extractor's chunk prefix sum) —
// exactly the kind of small, latency-tolerant readback the teacher's own
// HiZ pass performs for CPU-side occlusion culling (ReadbackHiZ). Those
// reads are synchronous relative to the frame (device.Poll(true, ...))
// because the pipeline's own barriers already require stage k+1 to wait
// for stage k, so no extra async machinery is needed at this scale.
type Backend struct {
	device *Device
	pipes  *pipelines
	buf    *Buffers
	log    engine.Logger

	// uploadedCount is how many particles (from index 0) are currently
	// reflected in the device-resident Position/PrevPosition/Radius
	// buffers. Spawn events append host-side via BufferPool.Spawn without
	// this backend's involvement, so syncSpawns catches the buffers up
	// before the frame's first dispatch.
	uploadedCount int
}

// NewBackend opens a device and builds every compute pipeline up front.
// Buffers are allocated lazily on first use (see ensureCapacity) once the
// caller's FrameDriver tells it how many particles to expect.
func NewBackend(logger engine.Logger) (*Backend, error) {
	if logger == nil {
		logger = engine.NewNopLogger()
	}
	logger = logger.WithPrefix("gpubackend")
	device, err := NewDevice(logger)
	if err != nil {
		return nil, err
	}
	pipes, err := newPipelines(device.device)
	if err != nil {
		device.Release()
		return nil, err
	}
	return &Backend{device: device, pipes: pipes, log: logger}, nil
}

// Release tears down the device and every allocated buffer.
func (b *Backend) Release() {
	if b.buf != nil {
		b.buf.Release()
	}
	b.device.Release()
}

var _ engine.Backend = (*Backend)(nil)

// ensureCapacity (re)allocates the device-resident buffers if the pool's
// capacity has grown since the last call, mirroring
// GpuBufferManager.ensureBuffer's release-then-recreate-then-reupload
// pattern: after recreating, it resets uploadedCount and re-uploads all
// pool.Count particles from the pool's host-side arrays through
// syncSpawns.
func (b *Backend) ensureCapacity(pool *engine.BufferPool) error {
	if b.buf != nil && b.buf.Capacity >= pool.Capacity {
		return nil
	}
	if b.buf != nil {
		b.buf.Release()
	}
	buf, err := NewBuffers(b.device.device, pool.Capacity)
	if err != nil {
		return b.device.lost(err.Error())
	}
	b.buf = buf
	b.uploadedCount = 0
	b.syncSpawns(pool)
	return nil
}

// syncSpawns uploads any particles appended to pool since the last sync
// (spec.md §6's spawn interface is a host-side call on BufferPool; this
// backend only finds out about it by comparing counts at the top of the
// next frame). Existing device-resident particles are left untouched —
// Integrate and the resolver are the only writers of live particle state.
func (b *Backend) syncSpawns(pool *engine.BufferPool) {
	if pool.Count <= b.uploadedCount {
		b.uploadedCount = pool.Count
		return
	}
	q := b.device.queue
	lo, hi := b.uploadedCount, pool.Count
	q.WriteBuffer(b.buf.Position, uint64(lo)*8, encodeVec2s(pool.Position[lo:hi]))
	q.WriteBuffer(b.buf.PrevPosition, uint64(lo)*8, encodeVec2s(pool.PrevPosition[lo:hi]))
	q.WriteBuffer(b.buf.Radius, uint64(lo)*4, encodeF32s(pool.Radius[lo:hi]))
	b.uploadedCount = pool.Count
}

// uniformWords packs a fixed sequence of 32-bit values (u32 or f32) into
// the little-endian byte layout every WGSL uniform struct in shaders/
// expects, field order matching declaration order.
func uniformWords(words ...uint32) []byte {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}

func f32word(f float32) uint32 { return math.Float32bits(f) }
func boolWord(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
