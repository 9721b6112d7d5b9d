// Package material converts source material descriptors into GPU-ready
// materials: a compiled effect plus the render state and texture bindings a
// draw call needs. Conversion is deterministic; memoization by source
// identity is the mesh factory's job, not the converter's.
package material

import (
	"github.com/meshforge/meshforge/engine/gpu"
)

// materialImpl is the implementation of the Material interface.
type materialImpl struct {
	name             string
	effect           *gpu.Effect
	blend            gpu.BlendState
	doubleSided      bool
	baseColorFactor  [4]float32
	metallicFactor   float32
	roughnessFactor  float32
	emissiveFactor   [3]float32
	alphaCutoff      float32
	baseColorTexture *gpu.Texture
	emissiveTexture  *gpu.Texture
	occlusionTexture *gpu.Texture
	sampler          *gpu.Sampler
}

// Material defines the interface for a converted, GPU-ready material. All
// properties are set at conversion time and are read-only through this
// interface. The GPU resources a material references (effect, textures,
// sampler) are owned by the conversion run's resource tracker, never by the
// material itself.
type Material interface {
	// Name retrieves the material identifier, possibly empty.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Effect retrieves the compiled render effect for this material.
	//
	// Returns:
	//   - *gpu.Effect: the effect handle
	Effect() *gpu.Effect

	// BlendState retrieves the blend state draw parts using this material
	// must render with.
	//
	// Returns:
	//   - gpu.BlendState: the blend state
	BlendState() gpu.BlendState

	// DoubleSided reports whether back-face culling is disabled for this
	// material.
	//
	// Returns:
	//   - bool: true when the material renders both faces
	DoubleSided() bool

	// BaseColorFactor retrieves the RGBA base color multiplier.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColorFactor() [4]float32

	// MetallicFactor retrieves the metallic factor.
	// A value of 0.0 represents a dielectric surface, 1.0 a fully metallic one.
	//
	// Returns:
	//   - float32: the metallic factor
	MetallicFactor() float32

	// RoughnessFactor retrieves the roughness factor.
	// A value of 0.0 represents a perfectly smooth surface, 1.0 a fully rough one.
	//
	// Returns:
	//   - float32: the roughness factor
	RoughnessFactor() float32

	// EmissiveFactor retrieves the RGB emissive multiplier.
	//
	// Returns:
	//   - [3]float32: the emissive factor
	EmissiveFactor() [3]float32

	// AlphaCutoff retrieves the alpha cutoff for masked materials.
	//
	// Returns:
	//   - float32: the cutoff value
	AlphaCutoff() float32

	// BaseColorTexture retrieves the uploaded base color texture, or nil.
	//
	// Returns:
	//   - *gpu.Texture: the texture handle, or nil
	BaseColorTexture() *gpu.Texture

	// EmissiveTexture retrieves the uploaded emissive texture, or nil.
	//
	// Returns:
	//   - *gpu.Texture: the texture handle, or nil
	EmissiveTexture() *gpu.Texture

	// OcclusionTexture retrieves the uploaded occlusion texture, or nil.
	//
	// Returns:
	//   - *gpu.Texture: the texture handle, or nil
	OcclusionTexture() *gpu.Texture

	// Sampler retrieves the sampler for the material's textures, or nil when
	// the material samples nothing.
	//
	// Returns:
	//   - *gpu.Sampler: the sampler handle, or nil
	Sampler() *gpu.Sampler
}

var _ Material = &materialImpl{}

// NewMaterial creates a new Material instance configured with the provided
// options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &materialImpl{
		baseColorFactor: [4]float32{1, 1, 1, 1},
		metallicFactor:  0.0,
		roughnessFactor: 1.0,
		alphaCutoff:     0.5,
		blend:           gpu.BlendOpaque,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *materialImpl) Name() string {
	return m.name
}

func (m *materialImpl) Effect() *gpu.Effect {
	return m.effect
}

func (m *materialImpl) BlendState() gpu.BlendState {
	return m.blend
}

func (m *materialImpl) DoubleSided() bool {
	return m.doubleSided
}

func (m *materialImpl) BaseColorFactor() [4]float32 {
	return m.baseColorFactor
}

func (m *materialImpl) MetallicFactor() float32 {
	return m.metallicFactor
}

func (m *materialImpl) RoughnessFactor() float32 {
	return m.roughnessFactor
}

func (m *materialImpl) EmissiveFactor() [3]float32 {
	return m.emissiveFactor
}

func (m *materialImpl) AlphaCutoff() float32 {
	return m.alphaCutoff
}

func (m *materialImpl) BaseColorTexture() *gpu.Texture {
	return m.baseColorTexture
}

func (m *materialImpl) EmissiveTexture() *gpu.Texture {
	return m.emissiveTexture
}

func (m *materialImpl) OcclusionTexture() *gpu.Texture {
	return m.occlusionTexture
}

func (m *materialImpl) Sampler() *gpu.Sampler {
	return m.sampler
}
