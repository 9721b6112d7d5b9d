package mesh

import (
	"fmt"
	"sort"

	"github.com/flywave/go3d/vec3"

	"github.com/meshforge/meshforge/common"
	"github.com/meshforge/meshforge/engine/decoder"
	"github.com/meshforge/meshforge/engine/gpu"
	"github.com/meshforge/meshforge/engine/material"
	"github.com/meshforge/meshforge/engine/resource"
)

// drawKey identifies the bucket a primitive merges into. Primitives merge
// only within one source mesh, one vertex layout, and one render state;
// effect is compared by pointer identity, never by descriptor value.
type drawKey struct {
	meshIndex   int
	layout      VertexLayout
	effect      *gpu.Effect
	blend       gpu.BlendState
	doubleSided bool
}

// drawBucket accumulates the vertices and reindexed triangles of every
// primitive sharing one drawKey. Exactly one of rigid or skinned is used,
// matching the bucket's layout.
type drawBucket struct {
	key      drawKey
	material material.Material

	rigid   []gpu.Vertex
	skinned []gpu.SkinnedVertex
	indices []uint32
	bounds  common.AABB
}

func (b *drawBucket) vertexCount() int {
	if b.key.layout == LayoutSkinned {
		return len(b.skinned)
	}
	return len(b.rigid)
}

// primitiveBuilder merges appended primitives into per-bucket vertex and
// index streams and finalizes them into GPU buffers. Buckets keep insertion
// order so output parts are deterministic.
type primitiveBuilder struct {
	buckets map[drawKey]*drawBucket
	order   []drawKey

	meshNames map[int]string
}

func newPrimitiveBuilder() *primitiveBuilder {
	return &primitiveBuilder{
		buckets:   make(map[drawKey]*drawBucket),
		meshNames: make(map[int]string),
	}
}

// appendPrimitive decodes a primitive's vertices, optionally generates
// missing normals and tangents, and merges the primitive into its bucket
// with indices rebased onto the bucket's vertex stream.
func (b *primitiveBuilder) appendPrimitive(meshIndex int, meshName string, p decoder.Primitive, layout VertexLayout, mat material.Material, genNormals, genTangents bool) {
	b.meshNames[meshIndex] = meshName

	n := p.VertexCount()
	verts := make([]gpu.Vertex, n)
	for i := 0; i < n; i++ {
		verts[i] = gpu.Vertex{
			Position: p.Position(i),
			Normal:   p.Normal(i),
			TexCoord: p.TexCoord(i),
			Color:    p.Color(i),
			Tangent:  p.Tangent(i),
		}
	}

	indices := p.TriangleIndices()
	if genNormals && !p.HasNormals() {
		generateNormals(verts, indices)
	}
	if genTangents && !p.HasTangents() {
		generateTangents(verts, indices)
	}

	key := drawKey{
		meshIndex:   meshIndex,
		layout:      layout,
		effect:      mat.Effect(),
		blend:       mat.BlendState(),
		doubleSided: mat.DoubleSided(),
	}
	bucket, ok := b.buckets[key]
	if !ok {
		bucket = &drawBucket{
			key:      key,
			material: mat,
			bounds:   common.NewAABB(),
		}
		b.buckets[key] = bucket
		b.order = append(b.order, key)
	}

	base := uint32(bucket.vertexCount())
	if layout == LayoutSkinned {
		for i := 0; i < n; i++ {
			bucket.skinned = append(bucket.skinned, gpu.SkinnedVertex{
				Vertex:       verts[i],
				JointIndices: p.Joints(i),
				JointWeights: p.Weights(i),
			})
		}
	} else {
		bucket.rigid = append(bucket.rigid, verts...)
	}

	for _, idx := range indices {
		bucket.indices = append(bucket.indices, base+idx)
	}

	for i := 0; i < n; i++ {
		pos := verts[i].Position
		bucket.bounds.Extend(vec3.T{pos[0], pos[1], pos[2]})
	}
}

// build uploads every bucket into one vertex buffer and one index buffer,
// registers the buffers with the tracker, and groups the resulting draw
// parts into runtime meshes ordered by ascending source mesh index.
func (b *primitiveBuilder) build(device gpu.Device, tracker resource.Tracker) ([]RuntimeMesh, error) {
	type meshAccum struct {
		parts  []Part
		bounds common.AABB
	}
	accums := make(map[int]*meshAccum)

	for partIdx, key := range b.order {
		bucket := b.buckets[key]

		var vertexData []byte
		if key.layout == LayoutSkinned {
			vertexData = common.SliceToBytes(bucket.skinned)
		} else {
			vertexData = common.SliceToBytes(bucket.rigid)
		}

		label := fmt.Sprintf("mesh%d_part%d_%s", key.meshIndex, partIdx, key.layout)
		vb, err := device.CreateVertexBuffer(label+"_vertices", vertexData)
		if err != nil {
			return nil, fmt.Errorf("failed to create vertex buffer %s: %w", label, err)
		}
		tracker.Track(vb)

		ib, err := device.CreateIndexBuffer(label+"_indices", common.SliceToBytes(bucket.indices))
		if err != nil {
			return nil, fmt.Errorf("failed to create index buffer %s: %w", label, err)
		}
		tracker.Track(ib)

		accum, ok := accums[key.meshIndex]
		if !ok {
			accum = &meshAccum{bounds: common.NewAABB()}
			accums[key.meshIndex] = accum
		}
		accum.parts = append(accum.parts, Part{
			VertexBuffer: vb,
			IndexBuffer:  ib,
			IndexCount:   uint32(len(bucket.indices)),
			Layout:       key.layout,
			Material:     bucket.material,
		})
		accum.bounds.Union(bucket.bounds)
	}

	meshIndices := make([]int, 0, len(accums))
	for idx := range accums {
		meshIndices = append(meshIndices, idx)
	}
	sort.Ints(meshIndices)

	meshes := make([]RuntimeMesh, 0, len(meshIndices))
	for _, idx := range meshIndices {
		accum := accums[idx]
		rm := RuntimeMesh{
			MeshIndex: idx,
			Name:      b.meshNames[idx],
			Parts:     accum.parts,
		}
		if !accum.bounds.IsEmpty() {
			rm.BoundingMin = [3]float32(accum.bounds.Min)
			rm.BoundingMax = [3]float32(accum.bounds.Max)
		}
		meshes = append(meshes, rm)
	}

	return meshes, nil
}
