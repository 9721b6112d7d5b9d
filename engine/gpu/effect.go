package gpu

import (
	_ "embed"
	"fmt"
	"strings"
)

// effectSource is the shared WGSL body for all generated effects. The device
// composes it with a feature-constant prelude and a vertex input definition
// before creating the shader module.
//
//go:embed assets/effect.wgsl
var effectSource string

// EffectDescriptor describes the capabilities an effect must support. Two
// descriptors with the same field values compile to interchangeable effects,
// but the pipeline never relies on that: batching uses effect identity.
type EffectDescriptor struct {
	// Textured selects base-color texture sampling; when false the effect
	// renders from vertex colors and the material base color factor only.
	Textured bool

	// Emissive enables emissive texture sampling.
	Emissive bool

	// Occlusion enables occlusion texture sampling.
	Occlusion bool

	// ToneMapping enables tone mapping of the final fragment color.
	ToneMapping bool

	// Skinned selects the skinned vertex layout and joint-matrix deformation.
	Skinned bool

	// DoubleSided disables back-face culling.
	DoubleSided bool

	// Blend is the blend state baked into the effect's color target.
	Blend BlendState
}

// Key returns a stable string key describing the descriptor, used for effect
// labels and log output.
//
// Returns:
//   - string: the descriptor key
func (d EffectDescriptor) Key() string {
	var sb strings.Builder
	sb.WriteString("effect")
	if d.Skinned {
		sb.WriteString("_skinned")
	}
	if d.Textured {
		sb.WriteString("_textured")
	}
	if d.Emissive {
		sb.WriteString("_emissive")
	}
	if d.Occlusion {
		sb.WriteString("_occlusion")
	}
	if d.ToneMapping {
		sb.WriteString("_tonemapped")
	}
	if d.DoubleSided {
		sb.WriteString("_doublesided")
	}
	sb.WriteString("_" + d.Blend.String())
	return sb.String()
}

// composeWGSL assembles the complete WGSL source for a descriptor: feature
// constants, the vertex input struct matching the vertex layout, accessor
// functions bridging the layout difference, and the shared effect body.
func composeWGSL(d EffectDescriptor) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "const ENABLE_TEXTURE: bool = %t;\n", d.Textured)
	fmt.Fprintf(&sb, "const ENABLE_EMISSIVE: bool = %t;\n", d.Emissive)
	fmt.Fprintf(&sb, "const ENABLE_OCCLUSION: bool = %t;\n", d.Occlusion)
	fmt.Fprintf(&sb, "const ENABLE_TONE_MAPPING: bool = %t;\n", d.ToneMapping)
	fmt.Fprintf(&sb, "const ENABLE_SKINNING: bool = %t;\n", d.Skinned)
	sb.WriteString("\n")

	if d.Skinned {
		sb.WriteString(SkinnedVertexSource)
		sb.WriteString(`
fn vertex_joints(in: VertexInput) -> vec4<u32> { return in.joint_indices; }
fn vertex_weights(in: VertexInput) -> vec4<f32> { return in.joint_weights; }
`)
	} else {
		sb.WriteString(VertexSource)
		sb.WriteString(`
fn vertex_joints(in: VertexInput) -> vec4<u32> { return vec4<u32>(0u, 0u, 0u, 0u); }
fn vertex_weights(in: VertexInput) -> vec4<f32> { return vec4<f32>(0.0, 0.0, 0.0, 0.0); }
`)
	}

	sb.WriteString("\n")
	sb.WriteString(effectSource)
	return sb.String()
}
