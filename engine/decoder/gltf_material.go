package decoder

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/qmuntal/gltf"

	"github.com/meshforge/meshforge/engine/gpu"
)

// gltfMaterial adapts a glTF material to the Material interface. All texture
// bytes are resolved eagerly at construction so the pipeline never touches
// the document again. Instances are shared by index through the owning
// source, which keeps identity-keyed memoization intact.
type gltfMaterial struct {
	name             string
	baseColorFactor  [4]float32
	metallicFactor   float32
	roughnessFactor  float32
	emissiveFactor   [3]float32
	baseColorTexture []byte
	emissiveTexture  []byte
	occlusionTexture []byte
	baseColorSampler *gpu.SamplerDescriptor
	alphaMode        AlphaMode
	alphaCutoff      float32
	doubleSided      bool
}

var _ Material = &gltfMaterial{}

// newGLTFMaterial extracts PBR factors and texture content from a glTF
// material. Unset factors fall back to the glTF defaults (white base color,
// fully metallic, fully rough).
func newGLTFMaterial(doc *gltf.Document, baseDir string, index int) (*gltfMaterial, error) {
	gm := doc.Materials[index]

	mat := &gltfMaterial{
		name:            gm.Name,
		baseColorFactor: [4]float32{1, 1, 1, 1},
		metallicFactor:  1,
		roughnessFactor: 1,
		alphaCutoff:     0.5,
		doubleSided:     gm.DoubleSided,
	}

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			c := *pbr.BaseColorFactor
			mat.baseColorFactor = [4]float32{
				float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3]),
			}
		}
		if pbr.MetallicFactor != nil {
			mat.metallicFactor = float32(*pbr.MetallicFactor)
		}
		if pbr.RoughnessFactor != nil {
			mat.roughnessFactor = float32(*pbr.RoughnessFactor)
		}
		if pbr.BaseColorTexture != nil {
			data, sampler, err := loadTextureContent(doc, baseDir, int(pbr.BaseColorTexture.Index))
			if err != nil {
				return nil, fmt.Errorf("base color texture: %w", err)
			}
			mat.baseColorTexture = data
			mat.baseColorSampler = sampler
		}
	}

	mat.emissiveFactor = [3]float32{
		float32(gm.EmissiveFactor[0]),
		float32(gm.EmissiveFactor[1]),
		float32(gm.EmissiveFactor[2]),
	}

	if gm.EmissiveTexture != nil {
		data, _, err := loadTextureContent(doc, baseDir, int(gm.EmissiveTexture.Index))
		if err != nil {
			return nil, fmt.Errorf("emissive texture: %w", err)
		}
		mat.emissiveTexture = data
	}

	if gm.OcclusionTexture != nil && gm.OcclusionTexture.Index != nil {
		data, _, err := loadTextureContent(doc, baseDir, int(*gm.OcclusionTexture.Index))
		if err != nil {
			return nil, fmt.Errorf("occlusion texture: %w", err)
		}
		mat.occlusionTexture = data
	}

	switch gm.AlphaMode {
	case gltf.AlphaMask:
		mat.alphaMode = AlphaMask
	case gltf.AlphaBlend:
		mat.alphaMode = AlphaBlend
	default:
		mat.alphaMode = AlphaOpaque
	}
	if gm.AlphaCutoff != nil {
		mat.alphaCutoff = float32(*gm.AlphaCutoff)
	}

	return mat, nil
}

// loadTextureContent resolves a glTF texture index into the encoded image
// bytes plus the sampler configuration the texture references. Image content
// may live in a buffer view (common in GLB), an inline data URI, or an
// external file relative to baseDir.
func loadTextureContent(doc *gltf.Document, baseDir string, textureIndex int) ([]byte, *gpu.SamplerDescriptor, error) {
	if textureIndex < 0 || textureIndex >= len(doc.Textures) {
		return nil, nil, fmt.Errorf("texture index %d out of range", textureIndex)
	}

	tex := doc.Textures[textureIndex]
	if tex.Source == nil {
		return nil, nil, nil
	}

	var sampler *gpu.SamplerDescriptor
	if tex.Sampler != nil && int(*tex.Sampler) < len(doc.Samplers) {
		sampler = gltfSamplerToDescriptor(doc.Samplers[*tex.Sampler])
	}

	imageIndex := int(*tex.Source)
	if imageIndex < 0 || imageIndex >= len(doc.Images) {
		return nil, nil, fmt.Errorf("image index %d out of range", imageIndex)
	}

	img := doc.Images[imageIndex]

	// Case 1: image embedded in a buffer view (common in GLB).
	if img.BufferView != nil {
		data, err := readBufferViewRaw(doc, int(*img.BufferView))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read image buffer view: %w", err)
		}
		return data, sampler, nil
	}

	// Case 2: inline data URI.
	if strings.HasPrefix(img.URI, "data:") {
		data, err := decodeDataURI(img.URI)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode image data URI: %w", err)
		}
		return data, sampler, nil
	}

	// Case 3: external file reference.
	if img.URI != "" {
		absPath := filepath.Join(baseDir, img.URI)
		data, err := os.ReadFile(absPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read image file %s: %w", absPath, err)
		}
		return data, sampler, nil
	}

	return nil, sampler, nil
}

// readBufferViewRaw reads raw bytes from a buffer view by index, without
// accessor interpretation. Used for image payloads.
func readBufferViewRaw(doc *gltf.Document, bufferViewIndex int) ([]byte, error) {
	if bufferViewIndex < 0 || bufferViewIndex >= len(doc.BufferViews) {
		return nil, fmt.Errorf("bufferView index %d out of range", bufferViewIndex)
	}

	bv := doc.BufferViews[bufferViewIndex]
	if int(bv.Buffer) >= len(doc.Buffers) {
		return nil, fmt.Errorf("buffer index %d out of range", bv.Buffer)
	}

	buf := doc.Buffers[bv.Buffer]
	start := int(bv.ByteOffset)
	end := start + int(bv.ByteLength)
	if end > len(buf.Data) {
		return nil, fmt.Errorf("bufferView exceeds buffer bounds: offset=%d length=%d bufSize=%d", bv.ByteOffset, bv.ByteLength, len(buf.Data))
	}

	data := make([]byte, bv.ByteLength)
	copy(data, buf.Data[start:end])
	return data, nil
}

// decodeDataURI decodes a base64 data URI into raw bytes.
func decodeDataURI(uri string) ([]byte, error) {
	// Format: data:[<mediatype>][;base64],<data>
	commaIdx := strings.Index(uri, ",")
	if commaIdx < 0 {
		return nil, fmt.Errorf("malformed data URI: no comma found")
	}

	data, err := base64.StdEncoding.DecodeString(uri[commaIdx+1:])
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, nil
}

// gltfSamplerToDescriptor converts a glTF sampler definition into a sampler
// descriptor. Unset fields fall back to the glTF spec defaults: linear
// filtering and repeat wrapping.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-sampler
func gltfSamplerToDescriptor(s *gltf.Sampler) *gpu.SamplerDescriptor {
	result := &gpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}

	switch s.MagFilter {
	case gltf.MagNearest:
		result.MagFilter = wgpu.FilterModeNearest
	case gltf.MagLinear:
		result.MagFilter = wgpu.FilterModeLinear
	}

	switch s.MinFilter {
	case gltf.MinNearest, gltf.MinNearestMipMapNearest, gltf.MinNearestMipMapLinear:
		result.MinFilter = wgpu.FilterModeNearest
	case gltf.MinLinear, gltf.MinLinearMipMapNearest, gltf.MinLinearMipMapLinear:
		result.MinFilter = wgpu.FilterModeLinear
	}
	// The mipmap filter follows the minification variant. Non-mipmapped
	// filters use nearest as a conservative default.
	switch s.MinFilter {
	case gltf.MinNearestMipMapNearest, gltf.MinLinearMipMapNearest:
		result.MipmapFilter = wgpu.MipmapFilterModeNearest
	case gltf.MinNearestMipMapLinear, gltf.MinLinearMipMapLinear:
		result.MipmapFilter = wgpu.MipmapFilterModeLinear
	case gltf.MinNearest, gltf.MinLinear:
		result.MipmapFilter = wgpu.MipmapFilterModeNearest
	}

	result.AddressModeU = gltfWrapToAddressMode(s.WrapS)
	result.AddressModeV = gltfWrapToAddressMode(s.WrapT)

	return result
}

// gltfWrapToAddressMode converts a glTF wrapping mode to a wgpu address mode.
func gltfWrapToAddressMode(wrap gltf.WrappingMode) wgpu.AddressMode {
	switch wrap {
	case gltf.WrapClampToEdge:
		return wgpu.AddressModeClampToEdge
	case gltf.WrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeRepeat
	}
}

func (m *gltfMaterial) Name() string                           { return m.name }
func (m *gltfMaterial) BaseColorFactor() [4]float32            { return m.baseColorFactor }
func (m *gltfMaterial) MetallicFactor() float32                { return m.metallicFactor }
func (m *gltfMaterial) RoughnessFactor() float32               { return m.roughnessFactor }
func (m *gltfMaterial) EmissiveFactor() [3]float32             { return m.emissiveFactor }
func (m *gltfMaterial) BaseColorTexture() []byte               { return m.baseColorTexture }
func (m *gltfMaterial) EmissiveTexture() []byte                { return m.emissiveTexture }
func (m *gltfMaterial) OcclusionTexture() []byte               { return m.occlusionTexture }
func (m *gltfMaterial) BaseColorSampler() *gpu.SamplerDescriptor { return m.baseColorSampler }
func (m *gltfMaterial) AlphaMode() AlphaMode                   { return m.alphaMode }
func (m *gltfMaterial) AlphaCutoff() float32                   { return m.alphaCutoff }
func (m *gltfMaterial) DoubleSided() bool                      { return m.doubleSided }
