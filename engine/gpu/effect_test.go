package gpu

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectDescriptorKey(t *testing.T) {
	assert.Equal(t, "effect_opaque", EffectDescriptor{}.Key())

	full := EffectDescriptor{
		Textured:    true,
		Emissive:    true,
		Occlusion:   true,
		ToneMapping: true,
		Skinned:     true,
		DoubleSided: true,
		Blend:       BlendAlpha,
	}
	key := full.Key()
	assert.Contains(t, key, "skinned")
	assert.Contains(t, key, "textured")
	assert.Contains(t, key, "alpha")
	assert.NotEqual(t, EffectDescriptor{}.Key(), key)
}

func TestComposeWGSLFeatureConstants(t *testing.T) {
	src := composeWGSL(EffectDescriptor{Textured: true, ToneMapping: true})
	assert.Contains(t, src, "const ENABLE_TEXTURE: bool = true;")
	assert.Contains(t, src, "const ENABLE_TONE_MAPPING: bool = true;")
	assert.Contains(t, src, "const ENABLE_SKINNING: bool = false;")
	assert.Contains(t, src, "fn vs_main")
	assert.Contains(t, src, "fn fs_main")
}

func TestComposeWGSLVertexVariants(t *testing.T) {
	rigid := composeWGSL(EffectDescriptor{})
	skinned := composeWGSL(EffectDescriptor{Skinned: true})

	// Both variants must define the joint accessors so the shared body
	// type-checks regardless of layout.
	for _, src := range []string{rigid, skinned} {
		assert.Contains(t, src, "fn vertex_joints")
		assert.Contains(t, src, "fn vertex_weights")
		assert.Contains(t, src, "struct VertexInput")
	}

	assert.Contains(t, skinned, "joint_indices")
	assert.False(t, strings.Contains(strings.Split(rigid, "fn vertex_joints")[0], "joint_indices"))
}

func TestBlendStateDescriptor(t *testing.T) {
	assert.Nil(t, BlendOpaque.Descriptor())

	alpha := BlendAlpha.Descriptor()
	require.NotNil(t, alpha)
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, alpha.Color.SrcFactor)
	assert.Equal(t, wgpu.BlendFactorOneMinusSrcAlpha, alpha.Color.DstFactor)
}

func TestBlendStateString(t *testing.T) {
	assert.Equal(t, "opaque", BlendOpaque.String())
	assert.Equal(t, "alpha", BlendAlpha.String())
}
