package material

import (
	"fmt"

	"github.com/meshforge/meshforge/engine/core"
	"github.com/meshforge/meshforge/engine/decoder"
	"github.com/meshforge/meshforge/engine/gpu"
	"github.com/meshforge/meshforge/engine/resource"
	"github.com/meshforge/meshforge/engine/texture"
)

// ConvertOptions carries the per-conversion context a converter needs beyond
// the source material itself.
type ConvertOptions struct {
	// Skinned selects the skinned vertex layout for the effect.
	Skinned bool

	// Tracker receives every GPU resource the conversion creates.
	Tracker resource.Tracker
}

// Converter defines the interface for turning a source material descriptor
// into a GPU-ready material. Conversion must be deterministic for a given
// source and options; callers memoize results by source identity.
type Converter interface {
	// Convert produces a GPU-ready material for the given source descriptor.
	// A nil source requests the default material. Every GPU resource created
	// during conversion is registered with opts.Tracker.
	//
	// Parameters:
	//   - src: the source material descriptor, or nil for the default material
	//   - opts: the conversion context
	//
	// Returns:
	//   - Material: the converted material
	//   - error: error if texture upload or effect compilation fails
	Convert(src decoder.Material, opts ConvertOptions) (Material, error)
}

// pbrConverterImpl is the implementation of the Converter interface for
// PBR-style source materials.
type pbrConverterImpl struct {
	device      gpu.Device
	textures    texture.Factory
	toneMapping bool
}

var _ Converter = &pbrConverterImpl{}

// NewPBRConverter creates a Converter that maps PBR source materials onto
// generated effects: textured or vertex-color-only, with optional emissive
// and occlusion sampling, alpha blending, and tone mapping.
//
// Parameters:
//   - device: the GPU device used for sampler and effect creation
//   - textures: the texture factory used for image decode and upload
//   - options: variadic list of PBRConverterOption functions
//
// Returns:
//   - Converter: a new PBR converter instance
func NewPBRConverter(device gpu.Device, textures texture.Factory, options ...PBRConverterOption) Converter {
	c := &pbrConverterImpl{
		device:      device,
		textures:    textures,
		toneMapping: true,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *pbrConverterImpl) Convert(src decoder.Material, opts ConvertOptions) (Material, error) {
	if src == nil {
		return c.convertDefault(opts)
	}

	name := src.Name()
	if name == "" {
		name = "material"
	}

	desc := gpu.EffectDescriptor{
		Textured:    len(src.BaseColorTexture()) > 0,
		Emissive:    len(src.EmissiveTexture()) > 0,
		Occlusion:   len(src.OcclusionTexture()) > 0,
		ToneMapping: c.toneMapping,
		Skinned:     opts.Skinned,
		DoubleSided: src.DoubleSided(),
	}
	if src.AlphaMode() == decoder.AlphaBlend {
		desc.Blend = gpu.BlendAlpha
	} else {
		desc.Blend = gpu.BlendOpaque
	}

	buildOpts := []MaterialBuilderOption{
		WithName(name),
		WithBlendState(desc.Blend),
		WithDoubleSided(src.DoubleSided()),
		WithBaseColorFactor(src.BaseColorFactor()),
		WithMetallicFactor(src.MetallicFactor()),
		WithRoughnessFactor(src.RoughnessFactor()),
		WithEmissiveFactor(src.EmissiveFactor()),
	}
	if src.AlphaMode() == decoder.AlphaMask {
		buildOpts = append(buildOpts, WithAlphaCutoff(src.AlphaCutoff()))
	}

	if desc.Textured {
		tex, err := c.textures.Load(src.BaseColorTexture(), opts.Tracker)
		if err != nil {
			return nil, fmt.Errorf("failed to load base color texture for %s: %w", name, err)
		}
		buildOpts = append(buildOpts, WithBaseColorTexture(tex))
	}
	if desc.Emissive {
		tex, err := c.textures.Load(src.EmissiveTexture(), opts.Tracker)
		if err != nil {
			return nil, fmt.Errorf("failed to load emissive texture for %s: %w", name, err)
		}
		buildOpts = append(buildOpts, WithEmissiveTexture(tex))
	}
	if desc.Occlusion {
		tex, err := c.textures.Load(src.OcclusionTexture(), opts.Tracker)
		if err != nil {
			return nil, fmt.Errorf("failed to load occlusion texture for %s: %w", name, err)
		}
		buildOpts = append(buildOpts, WithOcclusionTexture(tex))
	}

	if desc.Textured || desc.Emissive || desc.Occlusion {
		var samplerDesc gpu.SamplerDescriptor
		if sd := src.BaseColorSampler(); sd != nil {
			samplerDesc = *sd
		}
		sampler, err := c.device.CreateSampler(name+"_sampler", samplerDesc)
		if err != nil {
			return nil, fmt.Errorf("failed to create sampler for %s: %w", name, err)
		}
		opts.Tracker.Track(sampler)
		buildOpts = append(buildOpts, WithSampler(sampler))
	}

	effect, err := c.device.CreateEffect(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create effect for %s: %w", name, err)
	}
	opts.Tracker.Track(effect)
	buildOpts = append(buildOpts, WithEffect(effect))

	core.LogDebug("converted material %s (%s)", name, desc.Key())
	return NewMaterial(buildOpts...), nil
}

// convertDefault builds the material used by primitives that reference no
// source material: vertex colors only, opaque, single-sided.
func (c *pbrConverterImpl) convertDefault(opts ConvertOptions) (Material, error) {
	desc := gpu.EffectDescriptor{
		ToneMapping: c.toneMapping,
		Skinned:     opts.Skinned,
		Blend:       gpu.BlendOpaque,
	}

	effect, err := c.device.CreateEffect(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create default effect: %w", err)
	}
	opts.Tracker.Track(effect)

	return NewMaterial(
		WithName("default"),
		WithEffect(effect),
	), nil
}

// Converted is implemented by source materials that already carry a GPU-ready
// material, letting the passthrough converter hand it through unchanged. A
// source cannot implement Material directly: its texture accessors return raw
// bytes where Material's return GPU handles.
type Converted interface {
	ConvertedMaterial() Material
}

// passthroughConverterImpl is the implementation of the Converter interface
// for sources whose materials are already converted.
type passthroughConverterImpl struct{}

var _ Converter = &passthroughConverterImpl{}

// NewPassthroughConverter creates a Converter for pre-converted sources: it
// accepts source materials that implement Converted and returns the carried
// material unchanged. Any other source errors, as does the default-material
// request.
//
// Returns:
//   - Converter: a new passthrough converter instance
func NewPassthroughConverter() Converter {
	return &passthroughConverterImpl{}
}

func (c *passthroughConverterImpl) Convert(src decoder.Material, opts ConvertOptions) (Material, error) {
	if src == nil {
		return nil, fmt.Errorf("passthrough converter cannot provide a default material")
	}
	p, ok := src.(Converted)
	if !ok || p.ConvertedMaterial() == nil {
		return nil, fmt.Errorf("source material %s is not already converted", src.Name())
	}
	return p.ConvertedMaterial(), nil
}
