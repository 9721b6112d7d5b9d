package material

import (
	"github.com/meshforge/meshforge/engine/gpu"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*materialImpl)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.name = name
	}
}

// WithEffect is an option builder that sets the compiled render effect.
//
// Parameters:
//   - effect: the effect handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the effect option to a material
func WithEffect(effect *gpu.Effect) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.effect = effect
	}
}

// WithBlendState is an option builder that sets the material's blend state.
//
// Parameters:
//   - blend: the blend state
//
// Returns:
//   - MaterialBuilderOption: a function that applies the blend state option to a material
func WithBlendState(blend gpu.BlendState) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.blend = blend
	}
}

// WithDoubleSided is an option builder that disables back-face culling.
//
// Parameters:
//   - doubleSided: true to render both faces
//
// Returns:
//   - MaterialBuilderOption: a function that applies the double-sided option to a material
func WithDoubleSided(doubleSided bool) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.doubleSided = doubleSided
	}
}

// WithBaseColorFactor is an option builder that sets the RGBA base color multiplier.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColorFactor(color [4]float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.baseColorFactor = color
	}
}

// WithMetallicFactor is an option builder that sets the metallic factor.
//
// Parameters:
//   - metallic: the metallic factor (0.0 = dielectric, 1.0 = metal)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metallic option to a material
func WithMetallicFactor(metallic float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.metallicFactor = metallic
	}
}

// WithRoughnessFactor is an option builder that sets the roughness factor.
//
// Parameters:
//   - roughness: the roughness factor (0.0 = smooth, 1.0 = rough)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughnessFactor(roughness float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.roughnessFactor = roughness
	}
}

// WithEmissiveFactor is an option builder that sets the RGB emissive multiplier.
//
// Parameters:
//   - emissive: the emissive factor
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emissive option to a material
func WithEmissiveFactor(emissive [3]float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.emissiveFactor = emissive
	}
}

// WithAlphaCutoff is an option builder that sets the alpha cutoff for masked
// materials.
//
// Parameters:
//   - cutoff: the cutoff value
//
// Returns:
//   - MaterialBuilderOption: a function that applies the alpha cutoff option to a material
func WithAlphaCutoff(cutoff float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.alphaCutoff = cutoff
	}
}

// WithBaseColorTexture is an option builder that sets the uploaded base color texture.
//
// Parameters:
//   - tex: the texture handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color texture option to a material
func WithBaseColorTexture(tex *gpu.Texture) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.baseColorTexture = tex
	}
}

// WithEmissiveTexture is an option builder that sets the uploaded emissive texture.
//
// Parameters:
//   - tex: the texture handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emissive texture option to a material
func WithEmissiveTexture(tex *gpu.Texture) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.emissiveTexture = tex
	}
}

// WithOcclusionTexture is an option builder that sets the uploaded occlusion texture.
//
// Parameters:
//   - tex: the texture handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the occlusion texture option to a material
func WithOcclusionTexture(tex *gpu.Texture) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.occlusionTexture = tex
	}
}

// WithSampler is an option builder that sets the sampler for the material's
// textures.
//
// Parameters:
//   - sampler: the sampler handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the sampler option to a material
func WithSampler(sampler *gpu.Sampler) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.sampler = sampler
	}
}
