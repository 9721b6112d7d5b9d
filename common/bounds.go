package common

import (
	"github.com/flywave/go3d/vec3"
)

// AABB is an axis-aligned bounding box accumulated over vertex positions.
// The zero value is not valid; use NewAABB.
type AABB struct {
	// Min is the minimum corner of the box.
	Min vec3.T
	// Max is the maximum corner of the box.
	Max vec3.T

	empty bool
}

// NewAABB returns an empty bounding box that extends to the first point added.
//
// Returns:
//   - AABB: an empty box
func NewAABB() AABB {
	return AABB{empty: true}
}

// Extend grows the box to contain the point p.
//
// Parameters:
//   - p: the point to include
func (b *AABB) Extend(p vec3.T) {
	if b.empty {
		b.Min = p
		b.Max = p
		b.empty = false
		return
	}
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Union grows the box to contain the box other. Empty boxes are ignored.
//
// Parameters:
//   - other: the box to include
func (b *AABB) Union(other AABB) {
	if other.empty {
		return
	}
	b.Extend(other.Min)
	b.Extend(other.Max)
}

// IsEmpty reports whether the box has had no points added.
//
// Returns:
//   - bool: true if the box is empty
func (b *AABB) IsEmpty() bool {
	return b.empty
}
