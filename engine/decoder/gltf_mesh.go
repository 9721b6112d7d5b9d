package decoder

import (
	"fmt"

	"github.com/qmuntal/gltf"
)

// gltfMeshImpl is the implementation of the Mesh interface for glTF sources.
type gltfMeshImpl struct {
	name       string
	primitives []Primitive
}

var _ Mesh = &gltfMeshImpl{}

func (m *gltfMeshImpl) Name() string {
	return m.name
}

func (m *gltfMeshImpl) Primitives() []Primitive {
	return m.primitives
}

// gltfPrimitiveImpl is the implementation of the Primitive interface for glTF
// sources. All attributes are decoded into plain slices at construction.
type gltfPrimitiveImpl struct {
	indices   []uint32
	positions [][3]float32
	normals   [][3]float32
	texCoords [][2]float32
	colors    [][4]float32
	tangents  [][4]float32
	joints    [][4]uint32
	weights   [][4]float32

	jointCount int
	material   Material
}

var _ Primitive = &gltfPrimitiveImpl{}

// newGLTFMesh decodes a glTF mesh and its primitives.
func newGLTFMesh(src *gltfSourceImpl, meshIndex int) (Mesh, error) {
	gm := src.doc.Meshes[meshIndex]
	mesh := &gltfMeshImpl{name: gm.Name}

	for primIdx, prim := range gm.Primitives {
		p, err := newGLTFPrimitive(src, prim)
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", primIdx, err)
		}
		mesh.primitives = append(mesh.primitives, p)
	}

	return mesh, nil
}

// newGLTFPrimitive decodes a single glTF primitive.
func newGLTFPrimitive(src *gltfSourceImpl, prim *gltf.Primitive) (Primitive, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, fmt.Errorf("unsupported primitive mode: %d (only triangles supported)", prim.Mode)
	}

	p := &gltfPrimitiveImpl{}
	doc := src.doc

	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := readVec3(doc, int(posAccessor))
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}
	p.positions = positions

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		p.normals, err = readVec3(doc, int(idx))
		if err != nil {
			return nil, fmt.Errorf("failed to read normals: %w", err)
		}
	}

	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		p.texCoords, err = readVec2(doc, int(idx))
		if err != nil {
			return nil, fmt.Errorf("failed to read texcoords: %w", err)
		}
	}

	if idx, ok := prim.Attributes["COLOR_0"]; ok {
		p.colors, err = readColors(doc, int(idx))
		if err != nil {
			return nil, fmt.Errorf("failed to read colors: %w", err)
		}
	}

	if idx, ok := prim.Attributes["TANGENT"]; ok {
		p.tangents, err = readVec4(doc, int(idx))
		if err != nil {
			return nil, fmt.Errorf("failed to read tangents: %w", err)
		}
	}

	if idx, ok := prim.Attributes["JOINTS_0"]; ok {
		p.joints, err = readJoints(doc, int(idx))
		if err != nil {
			return nil, fmt.Errorf("failed to read joints: %w", err)
		}
	}

	if idx, ok := prim.Attributes["WEIGHTS_0"]; ok {
		p.weights, err = readWeights(doc, int(idx))
		if err != nil {
			return nil, fmt.Errorf("failed to read weights: %w", err)
		}
	}

	// Skinning requires both joints and weights; glTF stores four influences
	// per vertex in the _0 attribute set.
	if len(p.joints) > 0 && len(p.weights) > 0 {
		p.jointCount = 4
	}

	if prim.Indices != nil {
		p.indices, err = readIndices(doc, int(*prim.Indices))
		if err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		// Non-indexed geometry: generate sequential indices.
		p.indices = make([]uint32, len(positions))
		for i := range p.indices {
			p.indices[i] = uint32(i)
		}
	}

	if prim.Material != nil {
		p.material = src.materialAt(int(*prim.Material))
	}

	return p, nil
}

func (p *gltfPrimitiveImpl) TriangleIndices() []uint32 {
	return p.indices
}

func (p *gltfPrimitiveImpl) VertexCount() int {
	return len(p.positions)
}

func (p *gltfPrimitiveImpl) Position(i int) [3]float32 {
	if i < 0 || i >= len(p.positions) {
		return [3]float32{}
	}
	return p.positions[i]
}

func (p *gltfPrimitiveImpl) Normal(i int) [3]float32 {
	if i < 0 || i >= len(p.normals) {
		return [3]float32{}
	}
	return p.normals[i]
}

func (p *gltfPrimitiveImpl) TexCoord(i int) [2]float32 {
	if i < 0 || i >= len(p.texCoords) {
		return [2]float32{}
	}
	return p.texCoords[i]
}

func (p *gltfPrimitiveImpl) Color(i int) [4]float32 {
	if i < 0 || i >= len(p.colors) {
		return [4]float32{1, 1, 1, 1}
	}
	return p.colors[i]
}

func (p *gltfPrimitiveImpl) Tangent(i int) [4]float32 {
	if i < 0 || i >= len(p.tangents) {
		return [4]float32{}
	}
	return p.tangents[i]
}

func (p *gltfPrimitiveImpl) Joints(i int) [4]uint32 {
	if i < 0 || i >= len(p.joints) {
		return [4]uint32{}
	}
	return p.joints[i]
}

func (p *gltfPrimitiveImpl) Weights(i int) [4]float32 {
	if i < 0 || i >= len(p.weights) {
		return [4]float32{}
	}
	return p.weights[i]
}

func (p *gltfPrimitiveImpl) HasNormals() bool {
	return len(p.normals) > 0
}

func (p *gltfPrimitiveImpl) HasTangents() bool {
	return len(p.tangents) > 0
}

func (p *gltfPrimitiveImpl) JointCount() int {
	return p.jointCount
}

func (p *gltfPrimitiveImpl) Material() Material {
	return p.material
}
