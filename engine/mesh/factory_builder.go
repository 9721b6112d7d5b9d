package mesh

import (
	"github.com/meshforge/meshforge/engine/config"
)

// FactoryOption is a function that configures a factory instance during
// construction.
type FactoryOption func(*factoryImpl)

// WithLayoutSelector is an option builder that overrides the vertex layout
// selector. The default selects the skinned layout for primitives with joint
// influences.
//
// Parameters:
//   - selector: the layout selector to use
//
// Returns:
//   - FactoryOption: a function that applies the selector option to a factory
func WithLayoutSelector(selector LayoutSelector) FactoryOption {
	return func(f *factoryImpl) {
		if selector != nil {
			f.selector = selector
		}
	}
}

// WithNormalGeneration is an option builder that enables or disables normal
// generation for primitives lacking a normal attribute. Enabled by default.
//
// Parameters:
//   - enabled: true to generate missing normals
//
// Returns:
//   - FactoryOption: a function that applies the normal generation option to a factory
func WithNormalGeneration(enabled bool) FactoryOption {
	return func(f *factoryImpl) {
		f.generateNormals = enabled
	}
}

// WithTangentGeneration is an option builder that enables or disables tangent
// generation for primitives lacking a tangent attribute. Enabled by default.
//
// Parameters:
//   - enabled: true to generate missing tangents
//
// Returns:
//   - FactoryOption: a function that applies the tangent generation option to a factory
func WithTangentGeneration(enabled bool) FactoryOption {
	return func(f *factoryImpl) {
		f.generateTangent = enabled
	}
}

// WithConfig is an option builder that applies the attribute-generation
// settings from a pipeline configuration.
//
// Parameters:
//   - cfg: the pipeline configuration
//
// Returns:
//   - FactoryOption: a function that applies the configuration to a factory
func WithConfig(cfg config.Pipeline) FactoryOption {
	return func(f *factoryImpl) {
		f.generateNormals = cfg.GenerateNormals
		f.generateTangent = cfg.GenerateTangents
	}
}
