// Package mesh turns source meshes into GPU-ready mesh collections. The
// factory walks every primitive, resolves its material through a converter
// (memoized by source material identity within one call), merges compatible
// primitives into shared vertex and index buffers, and hands ownership of
// every created GPU resource to the returned collection.
package mesh

import (
	"errors"
	"fmt"
	"iter"

	"github.com/meshforge/meshforge/engine/core"
	"github.com/meshforge/meshforge/engine/decoder"
	"github.com/meshforge/meshforge/engine/gpu"
	"github.com/meshforge/meshforge/engine/material"
	"github.com/meshforge/meshforge/engine/resource"
)

var (
	// ErrNilSource is returned when CreateMeshCollection receives a nil mesh
	// sequence.
	ErrNilSource = errors.New("mesh: nil source sequence")

	// ErrMaterialConversion wraps material converter failures.
	ErrMaterialConversion = errors.New("mesh: material conversion failed")
)

// factoryImpl is the implementation of the Factory interface.
type factoryImpl struct {
	device          gpu.Device
	converter       material.Converter
	selector        LayoutSelector
	generateNormals bool
	generateTangent bool
}

// Factory defines the interface for converting source meshes into GPU-ready
// collections. A factory instance is not safe for concurrent use; run one
// conversion at a time per instance.
type Factory interface {
	// CreateMeshCollection converts every mesh in the sequence into a
	// collection of runtime meshes backed by shared GPU buffers.
	//
	// The conversion is all-or-nothing: on any failure every GPU resource
	// created so far is released before the error returns. Primitives with
	// empty triangle lists are skipped; a source mesh whose primitives are
	// all empty produces no runtime mesh. Output meshes are ordered by
	// ascending source mesh index with gaps closed.
	//
	// Parameters:
	//   - meshes: the source mesh sequence, indexed by iteration order
	//
	// Returns:
	//   - Collection: the converted meshes plus owned GPU resources
	//   - error: ErrNilSource, a wrapped ErrMaterialConversion, or a GPU failure
	CreateMeshCollection(meshes iter.Seq[decoder.Mesh]) (Collection, error)
}

var _ Factory = &factoryImpl{}

// NewFactory creates a new Factory instance configured with the provided
// options.
//
// Parameters:
//   - device: the GPU device buffers are created on
//   - converter: the material converter for this factory's conversions
//   - options: variadic list of FactoryOption functions to configure the factory
//
// Returns:
//   - Factory: a new Factory instance
func NewFactory(device gpu.Device, converter material.Converter, options ...FactoryOption) Factory {
	f := &factoryImpl{
		device:          device,
		converter:       converter,
		selector:        DefaultLayoutSelector,
		generateNormals: true,
		generateTangent: true,
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

func (f *factoryImpl) CreateMeshCollection(meshes iter.Seq[decoder.Mesh]) (Collection, error) {
	if meshes == nil {
		return nil, ErrNilSource
	}

	tracker := resource.NewTracker()
	session := newConversionSession(f.converter, tracker)
	builder := newPrimitiveBuilder()

	meshIndex := 0
	for m := range meshes {
		for primIdx, prim := range m.Primitives() {
			if len(prim.TriangleIndices()) == 0 {
				core.LogDebug("skipping empty primitive %d of mesh %d", primIdx, meshIndex)
				continue
			}

			layout := f.selector(prim)
			mat, err := session.resolveMaterial(prim.Material(), layout == LayoutSkinned)
			if err != nil {
				tracker.Release()
				return nil, fmt.Errorf("%w: mesh %d primitive %d: %w", ErrMaterialConversion, meshIndex, primIdx, err)
			}

			builder.appendPrimitive(meshIndex, m.Name(), prim, layout, mat, f.generateNormals, f.generateTangent)
		}
		meshIndex++
	}

	runtimeMeshes, err := builder.build(f.device, tracker)
	if err != nil {
		tracker.Release()
		return nil, err
	}

	core.LogInfo("converted %d meshes into %d runtime meshes (%d resources, run %s)",
		meshIndex, len(runtimeMeshes), tracker.Size(), tracker.ID())

	return &collectionImpl{
		meshes:  runtimeMeshes,
		tracker: tracker,
	}, nil
}
