package decoder

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/qmuntal/gltf"
)

// gltfSourceImpl is the implementation of the GLTFSource interface.
type gltfSourceImpl struct {
	doc     *gltf.Document
	baseDir string

	meshes []Mesh

	// materials is index-aligned with doc.Materials. Every primitive
	// referencing material i shares the identical *gltfMaterial so that
	// identity-keyed memoization holds across primitives and meshes.
	materials []*gltfMaterial
}

// GLTFSource defines the interface for a glTF document adapted to the
// pipeline's input boundary.
type GLTFSource interface {
	// Meshes returns the document's meshes in declaration order.
	//
	// Returns:
	//   - []Mesh: the source meshes
	Meshes() []Mesh

	// Materials returns the document's materials in declaration order.
	//
	// Returns:
	//   - []Material: the source materials
	Materials() []Material
}

var _ GLTFSource = &gltfSourceImpl{}

// OpenGLTF parses a .gltf or .glb file and adapts it to the input boundary.
// External buffer and image references resolve relative to the file's
// directory.
//
// Parameters:
//   - path: the glTF file path
//
// Returns:
//   - GLTFSource: the adapted source
//   - error: error if parsing or attribute decoding fails
func OpenGLTF(path string) (GLTFSource, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return NewGLTFSource(doc, filepath.Dir(path))
}

// ReadGLTF parses binary glTF data from a reader and adapts it to the input
// boundary. External file references cannot be resolved through a reader.
//
// Parameters:
//   - r: the reader providing GLB data
//
// Returns:
//   - GLTFSource: the adapted source
//   - error: error if parsing or attribute decoding fails
func ReadGLTF(r io.Reader) (GLTFSource, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode glTF stream: %w", err)
	}
	return NewGLTFSource(doc, "")
}

// NewGLTFSource adapts an already-parsed glTF document to the input boundary.
// All vertex attributes are decoded eagerly so later pipeline stages never
// touch accessor data.
//
// Parameters:
//   - doc: the parsed document
//   - baseDir: the directory for resolving external image references
//
// Returns:
//   - GLTFSource: the adapted source
//   - error: error if attribute or texture decoding fails
func NewGLTFSource(doc *gltf.Document, baseDir string) (GLTFSource, error) {
	src := &gltfSourceImpl{
		doc:     doc,
		baseDir: baseDir,
	}

	src.materials = make([]*gltfMaterial, len(doc.Materials))
	for i := range doc.Materials {
		mat, err := newGLTFMaterial(doc, baseDir, i)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		src.materials[i] = mat
	}

	src.meshes = make([]Mesh, len(doc.Meshes))
	for i := range doc.Meshes {
		mesh, err := newGLTFMesh(src, i)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		src.meshes[i] = mesh
	}

	return src, nil
}

func (s *gltfSourceImpl) Meshes() []Mesh {
	return s.meshes
}

func (s *gltfSourceImpl) Materials() []Material {
	out := make([]Material, len(s.materials))
	for i, m := range s.materials {
		out[i] = m
	}
	return out
}

// materialAt returns the shared Material for a glTF material index, or nil
// for out-of-range indices.
func (s *gltfSourceImpl) materialAt(index int) Material {
	if index < 0 || index >= len(s.materials) {
		return nil
	}
	return s.materials[index]
}
