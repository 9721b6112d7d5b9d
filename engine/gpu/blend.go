package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// BlendState expresses a material's blend intent. Source blend semantics
// collapse into exactly two GPU states: opaque, or alpha blending with
// non-premultiplied alpha.
type BlendState int

const (
	// BlendOpaque disables blending entirely.
	BlendOpaque BlendState = iota

	// BlendAlpha enables classic non-premultiplied alpha blending
	// (SrcAlpha / OneMinusSrcAlpha).
	BlendAlpha
)

// String returns the name of the blend state.
func (b BlendState) String() string {
	switch b {
	case BlendAlpha:
		return "alpha"
	default:
		return "opaque"
	}
}

// Descriptor returns the wgpu blend state for a color target, or nil when
// blending is disabled.
//
// Returns:
//   - *wgpu.BlendState: the blend descriptor, or nil for BlendOpaque
func (b BlendState) Descriptor() *wgpu.BlendState {
	if b != BlendAlpha {
		return nil
	}
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}
