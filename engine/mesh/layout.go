package mesh

import (
	"github.com/meshforge/meshforge/engine/decoder"
)

// VertexLayout identifies the GPU vertex format a primitive renders with.
type VertexLayout int

const (
	// LayoutRigid is the static vertex layout: position, normal, texcoord,
	// color, tangent.
	LayoutRigid VertexLayout = iota
	// LayoutSkinned extends the rigid layout with joint indices and weights.
	LayoutSkinned
)

// String returns a human-readable name for the layout.
//
// Returns:
//   - string: the layout name
func (l VertexLayout) String() string {
	switch l {
	case LayoutSkinned:
		return "skinned"
	default:
		return "rigid"
	}
}

// LayoutSelector chooses the vertex layout for a source primitive. Selectors
// must be pure: the same primitive must always map to the same layout.
type LayoutSelector func(p decoder.Primitive) VertexLayout

// DefaultLayoutSelector selects the skinned layout for primitives carrying
// joint influences and the rigid layout otherwise.
//
// Parameters:
//   - p: the primitive to classify
//
// Returns:
//   - VertexLayout: the selected layout
func DefaultLayoutSelector(p decoder.Primitive) VertexLayout {
	if p.JointCount() > 0 {
		return LayoutSkinned
	}
	return LayoutRigid
}
