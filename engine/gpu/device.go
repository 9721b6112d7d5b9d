// Package gpu is the device boundary of the conversion pipeline. It wraps
// GPU resource creation behind a narrow Device interface so the rest of the
// pipeline never touches wgpu directly, and provides disposable handle types
// whose lifetimes are managed by a resource tracker.
package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// SamplerDescriptor holds the configuration for a sampler pending GPU
// creation. Zero values fall back to linear filtering and repeat wrapping.
type SamplerDescriptor struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for
	// texture coordinates outside the [0, 1] range in each dimension.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the level-of-detail clamp range.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level.
	MaxAnisotropy uint16
}

// Device defines the interface for GPU resource creation. All creation calls
// must happen on the thread driving the conversion; implementations are not
// required to be safe for concurrent use beyond serializing queue access.
type Device interface {
	// CreateVertexBuffer creates a GPU vertex buffer initialized with data.
	//
	// Parameters:
	//   - label: the debug label
	//   - data: the vertex data to upload
	//
	// Returns:
	//   - *Buffer: the buffer handle
	//   - error: error if GPU allocation fails
	CreateVertexBuffer(label string, data []byte) (*Buffer, error)

	// CreateIndexBuffer creates a GPU index buffer initialized with data.
	//
	// Parameters:
	//   - label: the debug label
	//   - data: the index data to upload (uint32 indices, little-endian)
	//
	// Returns:
	//   - *Buffer: the buffer handle
	//   - error: error if GPU allocation fails
	CreateIndexBuffer(label string, data []byte) (*Buffer, error)

	// CreateTexture creates a 2D RGBA texture and uploads pixel data.
	//
	// Parameters:
	//   - label: the debug label
	//   - pixels: RGBA pixel data, 4 bytes per pixel, row-major
	//   - width: the texture width in pixels
	//   - height: the texture height in pixels
	//
	// Returns:
	//   - *Texture: the texture handle with its default view
	//   - error: error if GPU allocation fails
	CreateTexture(label string, pixels []byte, width, height uint32) (*Texture, error)

	// CreateSampler creates a GPU sampler.
	//
	// Parameters:
	//   - label: the debug label
	//   - desc: the sampler configuration
	//
	// Returns:
	//   - *Sampler: the sampler handle
	//   - error: error if GPU allocation fails
	CreateSampler(label string, desc SamplerDescriptor) (*Sampler, error)

	// CreateEffect compiles a render effect for the given capabilities.
	//
	// Parameters:
	//   - desc: the effect capabilities
	//
	// Returns:
	//   - *Effect: the effect handle
	//   - error: error if shader or pipeline creation fails
	CreateEffect(desc EffectDescriptor) (*Effect, error)
}
