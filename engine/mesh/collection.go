package mesh

import (
	"github.com/meshforge/meshforge/engine/gpu"
	"github.com/meshforge/meshforge/engine/material"
	"github.com/meshforge/meshforge/engine/resource"
)

// Part is a single draw call: one vertex/index buffer range bound to one
// material. The buffers are owned by the collection's resource tracker.
type Part struct {
	// VertexBuffer holds the part's vertex data.
	VertexBuffer *gpu.Buffer
	// IndexBuffer holds the part's uint32 triangle indices.
	IndexBuffer *gpu.Buffer
	// IndexCount is the number of indices to draw.
	IndexCount uint32
	// Layout is the vertex format of VertexBuffer.
	Layout VertexLayout
	// Material is the converted material the part renders with.
	Material material.Material
}

// RuntimeMesh is a converted source mesh: the draw parts produced from its
// non-empty primitives plus the mesh's model-space bounds.
type RuntimeMesh struct {
	// MeshIndex is the source mesh's position in the input sequence.
	MeshIndex int
	// Name is the source mesh name, possibly empty.
	Name string
	// Parts are the mesh's draw parts in build order.
	Parts []Part
	// BoundingMin and BoundingMax are the model-space axis-aligned bounds
	// over every vertex the mesh contributed.
	BoundingMin [3]float32
	BoundingMax [3]float32
}

// collectionImpl is the implementation of the Collection interface.
type collectionImpl struct {
	meshes  []RuntimeMesh
	tracker resource.Tracker
}

// Collection defines the interface for the output of a conversion run: the
// converted meshes plus ownership of every GPU resource the run created.
type Collection interface {
	// Meshes returns the converted meshes ordered by ascending source mesh
	// index. Source meshes whose primitives were all empty are absent.
	//
	// Returns:
	//   - []RuntimeMesh: the converted meshes
	Meshes() []RuntimeMesh

	// Resources returns a snapshot of every GPU resource the conversion run
	// created, in creation order.
	//
	// Returns:
	//   - []resource.Disposable: the tracked resources
	Resources() []resource.Disposable

	// Release disposes every tracked GPU resource in reverse creation order.
	// Safe to call more than once.
	Release()
}

var _ Collection = &collectionImpl{}

func (c *collectionImpl) Meshes() []RuntimeMesh {
	return c.meshes
}

func (c *collectionImpl) Resources() []resource.Disposable {
	return c.tracker.Resources()
}

func (c *collectionImpl) Release() {
	c.tracker.Release()
}
