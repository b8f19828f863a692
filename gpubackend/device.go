// Package gpubackend is the real wgpu-backed implementation of
// engine.Backend. It grounds its device/adapter bootstrap on the teacher's
// gpu_operations.go (createGpuState) and its compute-pipeline/bind-group
// wiring on voxelrt/rt/gpu/manager_hiz.go's SetupHiZ/DispatchHiZ pair, but
// drops everything surface-related: this engine is headless compute, with
// no window, no swapchain, and no render pipeline.
package gpubackend

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	engine "github.com/MarcVivas/gpu-physics-engine"
)

// Device owns the wgpu instance/adapter/device/queue this backend dispatches
// against. Unlike the teacher's GpuState there is no *wgpu.Surface here:
// createGpuState's surface/swapchain configuration existed to present
// frames to a window, which this headless compute engine never does.
type Device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	log      engine.Logger
}

// NewDevice requests a high-performance adapter and device with no
// compatible surface requirement, the headless counterpart of the
// teacher's createGpuState. A failure to acquire either is treated the
// same way the teacher treats it: fatal, since there is no recovery path
// once device acquisition itself has failed.
func NewDevice(logger engine.Logger) (*Device, error) {
	if logger == nil {
		logger = engine.NewNopLogger()
	}

	instance := wgpu.CreateInstance(nil)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("gpubackend: requesting adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "physics-compute-device",
		RequiredFeatures: nil,
		RequiredLimits:   nil,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("gpubackend: requesting device: %w", err)
	}

	logger.Infof("gpubackend: device acquired")

	return &Device{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
		log:      logger,
	}, nil
}

// Release tears down the device and instance. Per spec.md §7, a device
// reported lost is fatal to the run; Release is for orderly shutdown, not
// loss recovery.
func (d *Device) Release() {
	if d.device != nil {
		d.device.Release()
	}
	if d.instance != nil {
		d.instance.Release()
	}
}

// lost reports a device-loss error in the vocabulary of spec.md §7,
// wrapping whatever detail wgpu surfaced.
func (d *Device) lost(reason string) error {
	return &engine.DeviceLostError{Reason: reason}
}
