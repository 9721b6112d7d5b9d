package material

// PBRConverterOption is a function that configures a PBR converter instance
// during construction.
type PBRConverterOption func(*pbrConverterImpl)

// WithToneMapping is an option builder that enables or disables tone mapping
// in the effects the converter compiles. Tone mapping is enabled by default.
//
// Parameters:
//   - enabled: true to tone map final fragment colors
//
// Returns:
//   - PBRConverterOption: a function that applies the tone mapping option to a converter
func WithToneMapping(enabled bool) PBRConverterOption {
	return func(c *pbrConverterImpl) {
		c.toneMapping = enabled
	}
}
