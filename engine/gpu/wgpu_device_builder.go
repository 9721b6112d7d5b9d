package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// WGPUDeviceOption is a functional option for configuring a wgpu-backed Device.
type WGPUDeviceOption func(*wgpuDeviceImpl)

// WithTargetFormat is an option builder that sets the color target format used
// when compiling effects.
//
// Parameters:
//   - format: the texture format of the render target
//
// Returns:
//   - WGPUDeviceOption: a function that applies the target format option
func WithTargetFormat(format wgpu.TextureFormat) WGPUDeviceOption {
	return func(d *wgpuDeviceImpl) {
		d.targetFormat = format
	}
}

// WithDepthFormat is an option builder that sets the depth buffer format used
// when compiling effects.
//
// Parameters:
//   - format: the depth texture format
//
// Returns:
//   - WGPUDeviceOption: a function that applies the depth format option
func WithDepthFormat(format wgpu.TextureFormat) WGPUDeviceOption {
	return func(d *wgpuDeviceImpl) {
		d.depthFormat = format
	}
}

// WithSampleCount is an option builder that sets the MSAA sample count used
// when compiling effects.
//
// Parameters:
//   - count: the sample count (1 disables MSAA)
//
// Returns:
//   - WGPUDeviceOption: a function that applies the sample count option
func WithSampleCount(count int) WGPUDeviceOption {
	return func(d *wgpuDeviceImpl) {
		if count > 0 {
			d.sampleCount = count
		}
	}
}
