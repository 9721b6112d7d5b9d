// Package config holds the tunable settings for the conversion pipeline.
// Settings can be loaded from a TOML file or constructed in code; every field
// has a usable default so a zero-configuration pipeline still works.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Pipeline is the configuration for a conversion run.
type Pipeline struct {
	// MaxTextureDimension clamps uploaded textures: any source image whose
	// width or height exceeds this value is downscaled before upload.
	// Zero disables clamping.
	MaxTextureDimension uint32 `toml:"max_texture_dimension"`

	// GenerateNormals enables smooth-normal generation for primitives whose
	// source data carries no normal attribute.
	GenerateNormals bool `toml:"generate_normals"`

	// GenerateTangents enables tangent generation for primitives whose source
	// data carries no tangent attribute.
	GenerateTangents bool `toml:"generate_tangents"`

	// ToneMapping enables tone mapping in generated effects.
	ToneMapping bool `toml:"tone_mapping"`

	// DecodeWorkers is the number of goroutines used for parallel texture
	// decoding during preload. Zero or negative selects a single worker.
	DecodeWorkers int `toml:"decode_workers"`

	// LogLevel sets the pipeline log level ("debug", "info", "warn", "error").
	LogLevel string `toml:"log_level"`
}

// Default returns the pipeline configuration used when no file is provided.
//
// Returns:
//   - *Pipeline: a configuration with all defaults applied
func Default() *Pipeline {
	return &Pipeline{
		MaxTextureDimension: 4096,
		GenerateNormals:     true,
		GenerateTangents:    true,
		ToneMapping:         true,
		DecodeWorkers:       4,
		LogLevel:            "warn",
	}
}

// Load reads a pipeline configuration from a TOML file. Fields absent from
// the file keep their default values.
//
// Parameters:
//   - path: the TOML file path
//
// Returns:
//   - *Pipeline: the merged configuration
//   - error: error if the file cannot be read or parsed
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
