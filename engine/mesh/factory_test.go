package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshforge/meshforge/engine/decoder"
	"github.com/meshforge/meshforge/engine/gpu"
	"github.com/meshforge/meshforge/engine/material"
)

// fakeDevice records buffer creation so tests can inspect uploaded data.
type fakeDevice struct {
	vertexBuffers map[*gpu.Buffer][]byte
	indexBuffers  map[*gpu.Buffer][]byte
	failBuffers   bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		vertexBuffers: make(map[*gpu.Buffer][]byte),
		indexBuffers:  make(map[*gpu.Buffer][]byte),
	}
}

func (d *fakeDevice) CreateVertexBuffer(label string, data []byte) (*gpu.Buffer, error) {
	if d.failBuffers {
		return nil, errors.New("out of GPU memory")
	}
	buf := gpu.NewBuffer(label, len(data), nil)
	d.vertexBuffers[buf] = slices.Clone(data)
	return buf, nil
}

func (d *fakeDevice) CreateIndexBuffer(label string, data []byte) (*gpu.Buffer, error) {
	if d.failBuffers {
		return nil, errors.New("out of GPU memory")
	}
	buf := gpu.NewBuffer(label, len(data), nil)
	d.indexBuffers[buf] = slices.Clone(data)
	return buf, nil
}

func (d *fakeDevice) CreateTexture(label string, pixels []byte, width, height uint32) (*gpu.Texture, error) {
	return gpu.NewTexture(label, width, height, nil, nil), nil
}

func (d *fakeDevice) CreateSampler(label string, desc gpu.SamplerDescriptor) (*gpu.Sampler, error) {
	return gpu.NewSampler(label, nil), nil
}

func (d *fakeDevice) CreateEffect(desc gpu.EffectDescriptor) (*gpu.Effect, error) {
	return gpu.NewEffect(desc.Key(), desc, nil, nil), nil
}

var _ gpu.Device = &fakeDevice{}

// releaseSpy observes its own release through the run's tracker.
type releaseSpy struct {
	released bool
}

func (r *releaseSpy) Release() { r.released = true }

var errUnsupportedMaterial = errors.New("unsupported material")

// fakeConverter counts conversions per source identity and registers a spy
// resource for every conversion, so tests can observe cleanup.
type fakeConverter struct {
	calls        map[decoder.Material]int
	defaultCalls int
	spies        []*releaseSpy
	failOn       decoder.Material
}

func newFakeConverter() *fakeConverter {
	return &fakeConverter{calls: make(map[decoder.Material]int)}
}

func (c *fakeConverter) Convert(src decoder.Material, opts material.ConvertOptions) (material.Material, error) {
	if src == nil {
		c.defaultCalls++
	} else {
		if src == c.failOn {
			return nil, errUnsupportedMaterial
		}
		c.calls[src]++
	}

	spy := &releaseSpy{}
	c.spies = append(c.spies, spy)
	opts.Tracker.Track(spy)

	effect := gpu.NewEffect("fake", gpu.EffectDescriptor{Skinned: opts.Skinned}, nil, nil)
	opts.Tracker.Track(effect)

	name := "default"
	if src != nil {
		name = src.Name()
	}
	return material.NewMaterial(
		material.WithName(name),
		material.WithEffect(effect),
	), nil
}

var _ material.Converter = &fakeConverter{}

// fakeSourceMaterial is an opaque source material usable as a memo key.
type fakeSourceMaterial struct {
	name string
}

func (s *fakeSourceMaterial) Name() string                             { return s.name }
func (s *fakeSourceMaterial) BaseColorFactor() [4]float32              { return [4]float32{1, 1, 1, 1} }
func (s *fakeSourceMaterial) MetallicFactor() float32                  { return 0 }
func (s *fakeSourceMaterial) RoughnessFactor() float32                 { return 1 }
func (s *fakeSourceMaterial) EmissiveFactor() [3]float32               { return [3]float32{} }
func (s *fakeSourceMaterial) BaseColorTexture() []byte                 { return nil }
func (s *fakeSourceMaterial) EmissiveTexture() []byte                  { return nil }
func (s *fakeSourceMaterial) OcclusionTexture() []byte                 { return nil }
func (s *fakeSourceMaterial) BaseColorSampler() *gpu.SamplerDescriptor { return nil }
func (s *fakeSourceMaterial) AlphaMode() decoder.AlphaMode             { return decoder.AlphaOpaque }
func (s *fakeSourceMaterial) AlphaCutoff() float32                     { return 0.5 }
func (s *fakeSourceMaterial) DoubleSided() bool                        { return false }

// fakePrimitive is a triangle-list primitive with inline attribute data.
type fakePrimitive struct {
	positions  [][3]float32
	indices    []uint32
	jointCount int
	mat        decoder.Material
}

func triangle(mat decoder.Material) *fakePrimitive {
	return &fakePrimitive{
		positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		indices:   []uint32{0, 1, 2},
		mat:       mat,
	}
}

func (p *fakePrimitive) TriangleIndices() []uint32 { return p.indices }
func (p *fakePrimitive) VertexCount() int          { return len(p.positions) }
func (p *fakePrimitive) Position(i int) [3]float32 { return p.positions[i] }
func (p *fakePrimitive) Normal(i int) [3]float32   { return [3]float32{0, 0, 1} }
func (p *fakePrimitive) TexCoord(i int) [2]float32 { return [2]float32{} }
func (p *fakePrimitive) Color(i int) [4]float32    { return [4]float32{1, 1, 1, 1} }
func (p *fakePrimitive) Tangent(i int) [4]float32  { return [4]float32{1, 0, 0, 1} }
func (p *fakePrimitive) Joints(i int) [4]uint32    { return [4]uint32{} }
func (p *fakePrimitive) Weights(i int) [4]float32  { return [4]float32{1, 0, 0, 0} }
func (p *fakePrimitive) HasNormals() bool          { return true }
func (p *fakePrimitive) HasTangents() bool         { return true }
func (p *fakePrimitive) JointCount() int           { return p.jointCount }
func (p *fakePrimitive) Material() decoder.Material {
	return p.mat
}

// fakeMesh groups primitives under a name.
type fakeMesh struct {
	name  string
	prims []decoder.Primitive
}

func (m *fakeMesh) Name() string                   { return m.name }
func (m *fakeMesh) Primitives() []decoder.Primitive { return m.prims }

func meshSeq(meshes ...decoder.Mesh) iter.Seq[decoder.Mesh] {
	return func(yield func(decoder.Mesh) bool) {
		for _, m := range meshes {
			if !yield(m) {
				return
			}
		}
	}
}

func TestCreateMeshCollectionNilSource(t *testing.T) {
	converter := newFakeConverter()
	factory := NewFactory(newFakeDevice(), converter)

	_, err := factory.CreateMeshCollection(nil)
	assert.ErrorIs(t, err, ErrNilSource)
	assert.Empty(t, converter.calls)
	assert.Zero(t, converter.defaultCalls)
}

func TestCreateMeshCollectionRoundTrip(t *testing.T) {
	converter := newFakeConverter()
	factory := NewFactory(newFakeDevice(), converter)
	mat := &fakeSourceMaterial{name: "stone"}

	coll, err := factory.CreateMeshCollection(meshSeq(
		&fakeMesh{name: "rock", prims: []decoder.Primitive{triangle(mat)}},
	))
	require.NoError(t, err)
	defer coll.Release()

	meshes := coll.Meshes()
	require.Len(t, meshes, 1)
	assert.Equal(t, 0, meshes[0].MeshIndex)
	assert.Equal(t, "rock", meshes[0].Name)
	require.Len(t, meshes[0].Parts, 1)

	part := meshes[0].Parts[0]
	assert.NotNil(t, part.VertexBuffer)
	assert.NotNil(t, part.IndexBuffer)
	assert.Equal(t, uint32(3), part.IndexCount)
	assert.Equal(t, LayoutRigid, part.Layout)
	assert.Equal(t, "stone", part.Material.Name())

	assert.GreaterOrEqual(t, len(coll.Resources()), 2, "vertex and index buffer at minimum")

	assert.Equal(t, [3]float32{0, 0, 0}, meshes[0].BoundingMin)
	assert.Equal(t, [3]float32{1, 1, 0}, meshes[0].BoundingMax)
}

func TestMemoizationOneConvertPerIdentity(t *testing.T) {
	converter := newFakeConverter()
	factory := NewFactory(newFakeDevice(), converter)
	shared := &fakeSourceMaterial{name: "shared"}

	// 10 meshes with 10 primitives each, all referencing one material.
	var meshes []decoder.Mesh
	for m := 0; m < 10; m++ {
		prims := make([]decoder.Primitive, 10)
		for p := range prims {
			prims[p] = triangle(shared)
		}
		meshes = append(meshes, &fakeMesh{name: fmt.Sprintf("m%d", m), prims: prims})
	}

	coll, err := factory.CreateMeshCollection(meshSeq(meshes...))
	require.NoError(t, err)
	defer coll.Release()

	assert.Equal(t, 1, converter.calls[shared], "100 primitives sharing one material convert once")
	assert.Len(t, coll.Meshes(), 10)
}

func TestDefaultMaterialOncePerCallFreshPerSession(t *testing.T) {
	converter := newFakeConverter()
	factory := NewFactory(newFakeDevice(), converter)

	source := func() iter.Seq[decoder.Mesh] {
		return meshSeq(&fakeMesh{prims: []decoder.Primitive{triangle(nil), triangle(nil)}})
	}

	first, err := factory.CreateMeshCollection(source())
	require.NoError(t, err)
	assert.Equal(t, 1, converter.defaultCalls, "default converts at most once per call")

	second, err := factory.CreateMeshCollection(source())
	require.NoError(t, err)
	assert.Equal(t, 2, converter.defaultCalls, "a new call starts a fresh session and converts the default again")

	first.Release()
	second.Release()
}

func TestMemoizationDoesNotSpanCalls(t *testing.T) {
	converter := newFakeConverter()
	factory := NewFactory(newFakeDevice(), converter)
	mat := &fakeSourceMaterial{name: "reused"}

	for i := 0; i < 3; i++ {
		coll, err := factory.CreateMeshCollection(meshSeq(
			&fakeMesh{prims: []decoder.Primitive{triangle(mat)}},
		))
		require.NoError(t, err)
		coll.Release()
	}
	assert.Equal(t, 3, converter.calls[mat])
}

func TestEmptyPrimitivesSkipped(t *testing.T) {
	converter := newFakeConverter()
	factory := NewFactory(newFakeDevice(), converter)
	mat := &fakeSourceMaterial{}

	empty := &fakePrimitive{mat: mat}
	coll, err := factory.CreateMeshCollection(meshSeq(
		&fakeMesh{name: "a", prims: []decoder.Primitive{triangle(mat)}},
		&fakeMesh{name: "hollow", prims: []decoder.Primitive{empty}},
		&fakeMesh{name: "c", prims: []decoder.Primitive{triangle(mat)}},
	))
	require.NoError(t, err)
	defer coll.Release()

	meshes := coll.Meshes()
	require.Len(t, meshes, 2, "a mesh of only empty primitives produces no runtime mesh")
	assert.Equal(t, 0, meshes[0].MeshIndex)
	assert.Equal(t, 2, meshes[1].MeshIndex, "source indices are preserved, not renumbered")
}

func TestMeshIndicesAscending(t *testing.T) {
	converter := newFakeConverter()
	factory := NewFactory(newFakeDevice(), converter)
	mat := &fakeSourceMaterial{}

	var meshes []decoder.Mesh
	for i := 0; i < 5; i++ {
		meshes = append(meshes, &fakeMesh{prims: []decoder.Primitive{triangle(mat)}})
	}
	coll, err := factory.CreateMeshCollection(meshSeq(meshes...))
	require.NoError(t, err)
	defer coll.Release()

	indices := make([]int, 0, len(coll.Meshes()))
	for _, m := range coll.Meshes() {
		indices = append(indices, m.MeshIndex)
	}
	assert.True(t, slices.IsSorted(indices))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, indices)
}

func TestLayoutSelection(t *testing.T) {
	converter := newFakeConverter()
	factory := NewFactory(newFakeDevice(), converter)
	mat := &fakeSourceMaterial{}

	rigid := triangle(mat)
	skinned := triangle(mat)
	skinned.jointCount = 4

	coll, err := factory.CreateMeshCollection(meshSeq(
		&fakeMesh{prims: []decoder.Primitive{rigid, skinned}},
	))
	require.NoError(t, err)
	defer coll.Release()

	parts := coll.Meshes()[0].Parts
	require.Len(t, parts, 2, "skinned and rigid primitives never share a draw part")

	layouts := []VertexLayout{parts[0].Layout, parts[1].Layout}
	assert.Contains(t, layouts, LayoutRigid)
	assert.Contains(t, layouts, LayoutSkinned)
	assert.NotSame(t, parts[0].VertexBuffer, parts[1].VertexBuffer)
}

func TestLayoutSelectorOverride(t *testing.T) {
	converter := newFakeConverter()
	factory := NewFactory(newFakeDevice(), converter,
		WithLayoutSelector(func(p decoder.Primitive) VertexLayout { return LayoutSkinned }))
	mat := &fakeSourceMaterial{}

	coll, err := factory.CreateMeshCollection(meshSeq(
		&fakeMesh{prims: []decoder.Primitive{triangle(mat)}},
	))
	require.NoError(t, err)
	defer coll.Release()

	assert.Equal(t, LayoutSkinned, coll.Meshes()[0].Parts[0].Layout)
}

func TestMergeReindexesPrimitives(t *testing.T) {
	converter := newFakeConverter()
	device := newFakeDevice()
	factory := NewFactory(device, converter)
	mat := &fakeSourceMaterial{}

	coll, err := factory.CreateMeshCollection(meshSeq(
		&fakeMesh{prims: []decoder.Primitive{triangle(mat), triangle(mat)}},
	))
	require.NoError(t, err)
	defer coll.Release()

	parts := coll.Meshes()[0].Parts
	require.Len(t, parts, 1, "compatible primitives merge into one part")
	assert.Equal(t, uint32(6), parts[0].IndexCount)

	data := device.indexBuffers[parts[0].IndexBuffer]
	require.Len(t, data, 24)
	indices := make([]uint32, 6)
	for i := range indices {
		indices[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, indices, "second primitive's indices rebase past the first's vertices")

	vertexData := device.vertexBuffers[parts[0].VertexBuffer]
	assert.Len(t, vertexData, 6*64)
}

func TestDifferentMaterialsNeverMerge(t *testing.T) {
	converter := newFakeConverter()
	factory := NewFactory(newFakeDevice(), converter)

	coll, err := factory.CreateMeshCollection(meshSeq(
		&fakeMesh{prims: []decoder.Primitive{
			triangle(&fakeSourceMaterial{name: "a"}),
			triangle(&fakeSourceMaterial{name: "b"}),
		}},
	))
	require.NoError(t, err)
	defer coll.Release()

	parts := coll.Meshes()[0].Parts
	require.Len(t, parts, 2)
	assert.NotEqual(t, parts[0].Material.Name(), parts[1].Material.Name())
}

func TestPrimitivesNeverMergeAcrossMeshes(t *testing.T) {
	converter := newFakeConverter()
	factory := NewFactory(newFakeDevice(), converter)
	mat := &fakeSourceMaterial{}

	coll, err := factory.CreateMeshCollection(meshSeq(
		&fakeMesh{name: "a", prims: []decoder.Primitive{triangle(mat)}},
		&fakeMesh{name: "b", prims: []decoder.Primitive{triangle(mat)}},
	))
	require.NoError(t, err)
	defer coll.Release()

	meshes := coll.Meshes()
	require.Len(t, meshes, 2)
	assert.NotSame(t, meshes[0].Parts[0].VertexBuffer, meshes[1].Parts[0].VertexBuffer)
}

func TestConversionFailureReleasesResources(t *testing.T) {
	converter := newFakeConverter()
	good := &fakeSourceMaterial{name: "good"}
	bad := &fakeSourceMaterial{name: "bad"}
	converter.failOn = bad
	factory := NewFactory(newFakeDevice(), converter)

	_, err := factory.CreateMeshCollection(meshSeq(
		&fakeMesh{prims: []decoder.Primitive{triangle(good)}},
		&fakeMesh{prims: []decoder.Primitive{triangle(bad)}},
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaterialConversion)
	assert.ErrorIs(t, err, errUnsupportedMaterial, "the converter's error stays reachable through the wrap")

	for _, spy := range converter.spies {
		assert.True(t, spy.released, "every resource tracked before the failure must be released")
	}
}

func TestBufferFailureReleasesResources(t *testing.T) {
	converter := newFakeConverter()
	device := newFakeDevice()
	device.failBuffers = true
	factory := NewFactory(device, converter)

	_, err := factory.CreateMeshCollection(meshSeq(
		&fakeMesh{prims: []decoder.Primitive{triangle(&fakeSourceMaterial{})}},
	))
	require.Error(t, err)

	for _, spy := range converter.spies {
		assert.True(t, spy.released)
	}
}

func TestCollectionReleaseIdempotent(t *testing.T) {
	converter := newFakeConverter()
	factory := NewFactory(newFakeDevice(), converter)

	coll, err := factory.CreateMeshCollection(meshSeq(
		&fakeMesh{prims: []decoder.Primitive{triangle(&fakeSourceMaterial{})}},
	))
	require.NoError(t, err)

	coll.Release()
	coll.Release()

	for _, spy := range converter.spies {
		assert.True(t, spy.released)
	}
}

func TestDefaultLayoutSelector(t *testing.T) {
	rigid := triangle(nil)
	assert.Equal(t, LayoutRigid, DefaultLayoutSelector(rigid))

	skinned := triangle(nil)
	skinned.jointCount = 4
	assert.Equal(t, LayoutSkinned, DefaultLayoutSelector(skinned))

	// Selection is idempotent.
	assert.Equal(t, DefaultLayoutSelector(skinned), DefaultLayoutSelector(skinned))
}
