// Package decoder defines the read-only input boundary of the conversion
// pipeline: a view over source meshes, primitives and materials supplied by a
// content-loading layer. The package also ships a glTF-backed implementation
// built on qmuntal/gltf.
package decoder

import (
	"github.com/meshforge/meshforge/engine/gpu"
)

// AlphaMode expresses a source material's blend intent.
type AlphaMode int

const (
	// AlphaOpaque renders fully opaque, ignoring alpha.
	AlphaOpaque AlphaMode = iota
	// AlphaMask renders opaque with an alpha cutoff.
	AlphaMask
	// AlphaBlend renders with alpha blending.
	AlphaBlend
)

// Mesh is a single source mesh: an ordered sequence of primitives.
type Mesh interface {
	// Name returns the mesh identifier, possibly empty.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// Primitives returns the mesh's primitives in declaration order.
	//
	// Returns:
	//   - []Primitive: the primitives
	Primitives() []Primitive
}

// Primitive is a single drawable piece of geometry bound to one material.
// Vertex attribute accessors take a vertex index in [0, VertexCount) and
// return zero values (white for color) for attributes the source lacks.
type Primitive interface {
	// TriangleIndices returns the triangle index list. An empty list marks
	// degenerate geometry that the pipeline skips silently.
	//
	// Returns:
	//   - []uint32: the indices, three per triangle
	TriangleIndices() []uint32

	// VertexCount returns the number of vertices.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// Position returns the position of vertex i.
	Position(i int) [3]float32

	// Normal returns the normal of vertex i, or zero if absent.
	Normal(i int) [3]float32

	// TexCoord returns the UV coordinate of vertex i, or zero if absent.
	TexCoord(i int) [2]float32

	// Color returns the RGBA color of vertex i, or opaque white if absent.
	Color(i int) [4]float32

	// Tangent returns the tangent (xyz) and handedness (w) of vertex i, or
	// zero if absent.
	Tangent(i int) [4]float32

	// Joints returns the joint indices influencing vertex i.
	Joints(i int) [4]uint32

	// Weights returns the joint weights of vertex i.
	Weights(i int) [4]float32

	// HasNormals reports whether the source supplied a normal attribute.
	HasNormals() bool

	// HasTangents reports whether the source supplied a tangent attribute.
	HasTangents() bool

	// JointCount returns the number of joint influences per vertex. A count
	// greater than zero selects the skinned vertex layout.
	//
	// Returns:
	//   - int: the per-vertex joint influence count
	JointCount() int

	// Material returns the primitive's source material, or nil when the
	// primitive should use the default material.
	//
	// Returns:
	//   - Material: the material reference, or nil
	Material() Material
}

// Material is an opaque source material descriptor. Implementations must be
// pointer-shaped: the pipeline memoizes conversion results keyed by material
// identity, so every primitive sharing a source material must return the same
// Material value.
type Material interface {
	// Name returns the material identifier, possibly empty.
	Name() string

	// BaseColorFactor returns the RGBA base color multiplier.
	BaseColorFactor() [4]float32

	// MetallicFactor returns the metalness multiplier.
	MetallicFactor() float32

	// RoughnessFactor returns the roughness multiplier.
	RoughnessFactor() float32

	// EmissiveFactor returns the RGB emissive multiplier.
	EmissiveFactor() [3]float32

	// BaseColorTexture returns the raw encoded bytes of the base color
	// texture, or nil when the material has none.
	BaseColorTexture() []byte

	// EmissiveTexture returns the raw encoded bytes of the emissive texture,
	// or nil.
	EmissiveTexture() []byte

	// OcclusionTexture returns the raw encoded bytes of the occlusion
	// texture, or nil.
	OcclusionTexture() []byte

	// BaseColorSampler returns the sampler configuration for the base color
	// texture, or nil for default sampling.
	BaseColorSampler() *gpu.SamplerDescriptor

	// AlphaMode returns the material's blend intent.
	AlphaMode() AlphaMode

	// AlphaCutoff returns the cutoff used by AlphaMask materials.
	AlphaCutoff() float32

	// DoubleSided reports whether back-face culling is disabled.
	DoubleSided() bool
}
