package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshforge/meshforge/engine/gpu"
	"github.com/meshforge/meshforge/engine/resource"
)

// fakeDevice records texture uploads without touching a GPU.
type fakeDevice struct {
	uploads []uploadRecord
}

type uploadRecord struct {
	label  string
	width  uint32
	height uint32
}

func (d *fakeDevice) CreateVertexBuffer(label string, data []byte) (*gpu.Buffer, error) {
	return gpu.NewBuffer(label, len(data), nil), nil
}

func (d *fakeDevice) CreateIndexBuffer(label string, data []byte) (*gpu.Buffer, error) {
	return gpu.NewBuffer(label, len(data), nil), nil
}

func (d *fakeDevice) CreateTexture(label string, pixels []byte, width, height uint32) (*gpu.Texture, error) {
	d.uploads = append(d.uploads, uploadRecord{label: label, width: width, height: height})
	return gpu.NewTexture(label, width, height, nil, nil), nil
}

func (d *fakeDevice) CreateSampler(label string, desc gpu.SamplerDescriptor) (*gpu.Sampler, error) {
	return gpu.NewSampler(label, nil), nil
}

func (d *fakeDevice) CreateEffect(desc gpu.EffectDescriptor) (*gpu.Effect, error) {
	return gpu.NewEffect(desc.Key(), desc, nil, nil), nil
}

var _ gpu.Device = &fakeDevice{}

// pngBytes encodes a solid-color image of the given size.
func pngBytes(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFactoryLoad(t *testing.T) {
	device := &fakeDevice{}
	factory := NewFactory(device)
	tracker := resource.NewTracker()

	content := pngBytes(t, 4, 4, color.RGBA{R: 255, A: 255})
	tex, err := factory.Load(content, tracker)
	require.NoError(t, err)
	require.NotNil(t, tex)

	assert.Equal(t, uint32(4), tex.Width())
	assert.Equal(t, uint32(4), tex.Height())
	assert.Equal(t, 1, tracker.Size())
	require.Len(t, device.uploads, 1)
}

func TestFactoryLoadDedupsWithinRun(t *testing.T) {
	device := &fakeDevice{}
	factory := NewFactory(device)
	tracker := resource.NewTracker()

	content := pngBytes(t, 2, 2, color.RGBA{G: 255, A: 255})
	first, err := factory.Load(content, tracker)
	require.NoError(t, err)
	second, err := factory.Load(content, tracker)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, device.uploads, 1)
	assert.Equal(t, 1, tracker.Size())
}

func TestFactoryLoadReuploadsAcrossTrackers(t *testing.T) {
	device := &fakeDevice{}
	factory := NewFactory(device)
	content := pngBytes(t, 2, 2, color.RGBA{B: 255, A: 255})

	first := resource.NewTracker()
	texA, err := factory.Load(content, first)
	require.NoError(t, err)
	first.Release()

	second := resource.NewTracker()
	texB, err := factory.Load(content, second)
	require.NoError(t, err)

	assert.NotSame(t, texA, texB, "a new run must never receive a texture owned by a disposed run")
	assert.Len(t, device.uploads, 2)
	assert.Equal(t, 1, second.Size())
}

func TestFactoryLoadDistinctContent(t *testing.T) {
	device := &fakeDevice{}
	factory := NewFactory(device)
	tracker := resource.NewTracker()

	_, err := factory.Load(pngBytes(t, 2, 2, color.RGBA{R: 255, A: 255}), tracker)
	require.NoError(t, err)
	_, err = factory.Load(pngBytes(t, 2, 2, color.RGBA{G: 255, A: 255}), tracker)
	require.NoError(t, err)

	assert.Len(t, device.uploads, 2)
	assert.Equal(t, 2, tracker.Size())
}

func TestFactoryLoadErrors(t *testing.T) {
	factory := NewFactory(&fakeDevice{})
	tracker := resource.NewTracker()

	_, err := factory.Load(nil, tracker)
	assert.Error(t, err)

	_, err = factory.Load([]byte("not an image"), tracker)
	assert.Error(t, err)

	_, err = factory.Load(pngBytes(t, 1, 1, color.RGBA{A: 255}), nil)
	assert.Error(t, err)
}

func TestFactoryDownscale(t *testing.T) {
	device := &fakeDevice{}
	factory := NewFactory(device, WithMaxDimension(8))
	tracker := resource.NewTracker()

	tex, err := factory.Load(pngBytes(t, 32, 16, color.RGBA{R: 128, A: 255}), tracker)
	require.NoError(t, err)

	assert.Equal(t, uint32(8), tex.Width())
	assert.Equal(t, uint32(4), tex.Height())
}

func TestFactoryPreload(t *testing.T) {
	device := &fakeDevice{}
	factory := NewFactory(device, WithDecodeWorkers(2))
	tracker := resource.NewTracker()

	contents := [][]byte{
		pngBytes(t, 2, 2, color.RGBA{R: 255, A: 255}),
		pngBytes(t, 2, 2, color.RGBA{G: 255, A: 255}),
		pngBytes(t, 2, 2, color.RGBA{B: 255, A: 255}),
	}
	require.NoError(t, factory.Preload(contents, tracker))
	assert.Len(t, device.uploads, 3)

	// A subsequent Load under the same tracker hits the warmed cache.
	_, err := factory.Load(contents[0], tracker)
	require.NoError(t, err)
	assert.Len(t, device.uploads, 3)
}

func TestFactoryPreloadReusesDecodePool(t *testing.T) {
	device := &fakeDevice{}
	factory := NewFactory(device, WithDecodeWorkers(2))
	tracker := resource.NewTracker()

	contents := [][]byte{
		pngBytes(t, 2, 2, color.RGBA{R: 255, A: 255}),
		pngBytes(t, 2, 2, color.RGBA{G: 255, A: 255}),
	}

	// First call spins up the factory's decode workers.
	require.NoError(t, factory.Preload(contents, tracker))
	baseline := runtime.NumGoroutine()

	for range 10 {
		require.NoError(t, factory.Preload(contents, tracker))
	}

	// Let any stray workers get scheduled before counting.
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, runtime.NumGoroutine(), baseline,
		"repeated preloads must reuse the decode workers, not start new ones")
}

func TestFactoryPreloadDecodeError(t *testing.T) {
	factory := NewFactory(&fakeDevice{})
	tracker := resource.NewTracker()

	err := factory.Preload([][]byte{
		pngBytes(t, 2, 2, color.RGBA{A: 255}),
		[]byte("garbage"),
	}, tracker)
	assert.Error(t, err)
}
