// Package texture provides the texture factory: a content-addressed cache of
// GPU texture uploads. Identical image bytes within one conversion run share a
// single GPU texture; ownership of every created texture belongs to the run's
// resource tracker.
package texture

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/meshforge/meshforge/engine/core"
	"github.com/meshforge/meshforge/engine/gpu"
	"github.com/meshforge/meshforge/engine/resource"
)

// factoryImpl is the implementation of the Factory interface.
type factoryImpl struct {
	mu sync.Mutex

	device       gpu.Device
	maxDimension uint32
	workers      int

	cache      map[[sha256.Size]byte]cacheEntry
	decodePool worker.DynamicWorkerPool
}

// cacheEntry remembers the tracker a texture was created under. A lookup from
// a different tracker is treated as a miss so a disposed collection can never
// strand a later conversion run with a dead texture.
type cacheEntry struct {
	texture *gpu.Texture
	owner   resource.Tracker
}

// Factory defines the interface for loading GPU textures from raw encoded
// image content (PNG, JPEG, BMP or TIFF bytes). Textures are cached by
// content identity per conversion run.
type Factory interface {
	// Load decodes content and uploads it as a GPU texture, registering the
	// texture with tracker. Repeated loads of identical content under the
	// same tracker return the cached texture without a second upload.
	//
	// Parameters:
	//   - content: the raw encoded image bytes
	//   - tracker: the resource tracker owning textures created by this call
	//
	// Returns:
	//   - *gpu.Texture: the GPU texture
	//   - error: error if decoding or GPU upload fails
	Load(content []byte, tracker resource.Tracker) (*gpu.Texture, error)

	// Preload decodes a batch of image contents in parallel and uploads them
	// serially, warming the cache for a subsequent conversion run. Decode
	// errors fail the whole batch; textures uploaded before the failure stay
	// registered with the tracker.
	//
	// Parameters:
	//   - contents: the raw encoded image byte slices
	//   - tracker: the resource tracker owning the created textures
	//
	// Returns:
	//   - error: the first decode or upload error
	Preload(contents [][]byte, tracker resource.Tracker) error
}

var _ Factory = &factoryImpl{}

// NewFactory creates a texture factory bound to a GPU device.
//
// Parameters:
//   - device: the device used for texture uploads
//   - options: a variadic list of FactoryOption functions
//
// Returns:
//   - Factory: the texture factory
func NewFactory(device gpu.Device, options ...FactoryOption) Factory {
	f := &factoryImpl{
		device:       device,
		maxDimension: 4096,
		workers:      4,
		cache:        make(map[[sha256.Size]byte]cacheEntry),
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

func (f *factoryImpl) Load(content []byte, tracker resource.Tracker) (*gpu.Texture, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("texture factory: empty content")
	}
	if tracker == nil {
		return nil, fmt.Errorf("texture factory: nil tracker")
	}

	key := sha256.Sum256(content)

	f.mu.Lock()
	if entry, ok := f.cache[key]; ok && entry.owner == tracker {
		f.mu.Unlock()
		core.LogDebug("texture cache hit for %x", key[:6])
		return entry.texture, nil
	}
	f.mu.Unlock()

	pixels, width, height, err := f.decode(content)
	if err != nil {
		return nil, err
	}

	return f.upload(key, pixels, width, height, tracker)
}

func (f *factoryImpl) Preload(contents [][]byte, tracker resource.Tracker) error {
	if tracker == nil {
		return fmt.Errorf("texture factory: nil tracker")
	}

	type decoded struct {
		key    [sha256.Size]byte
		pixels []byte
		width  uint32
		height uint32
		err    error
	}

	results := make([]decoded, len(contents))
	pool := f.decodeWorkers()

	var wg sync.WaitGroup
	for i, content := range contents {
		wg.Add(1)
		idx, data := i, content
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				r := decoded{key: sha256.Sum256(data)}
				r.pixels, r.width, r.height, r.err = f.decode(data)
				results[idx] = r
				return nil, r.err
			},
		})
	}
	wg.Wait()

	// Uploads stay on the calling goroutine: one logical GPU context.
	for _, r := range results {
		if r.err != nil {
			return r.err
		}
		if _, err := f.upload(r.key, r.pixels, r.width, r.height, tracker); err != nil {
			return err
		}
	}
	return nil
}

// decodeWorkers returns the decode pool, creating it on first use. The pool
// lives as long as the factory and is shared by every Preload call; its
// workers never self-terminate, so constructing one per call would leak
// goroutines.
func (f *factoryImpl) decodeWorkers() worker.DynamicWorkerPool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.decodePool == nil {
		f.decodePool = worker.NewDynamicWorkerPool(f.workers, 256, time.Second)
	}
	return f.decodePool
}

// decode converts encoded image bytes into RGBA pixels, downscaling when
// either dimension exceeds the configured maximum.
func (f *factoryImpl) decode(content []byte) ([]byte, uint32, uint32, error) {
	img, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if f.maxDimension > 0 && (uint32(width) > f.maxDimension || uint32(height) > f.maxDimension) {
		scale := float64(f.maxDimension) / float64(max(width, height))
		dstW := max(1, int(float64(width)*scale))
		dstH := max(1, int(float64(height)*scale))
		dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
		core.LogDebug("downscaled %s texture %dx%d -> %dx%d", format, width, height, dstW, dstH)
		return dst.Pix, uint32(dstW), uint32(dstH), nil
	}

	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == width*4 {
		return rgba.Pix, uint32(width), uint32(height), nil
	}

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba.Pix, uint32(width), uint32(height), nil
}

func (f *factoryImpl) upload(key [sha256.Size]byte, pixels []byte, width, height uint32, tracker resource.Tracker) (*gpu.Texture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// A concurrent Preload may have uploaded the same content already.
	if entry, ok := f.cache[key]; ok && entry.owner == tracker {
		return entry.texture, nil
	}

	label := fmt.Sprintf("texture_%x", key[:6])
	tex, err := f.device.CreateTexture(label, pixels, width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to upload texture %s: %w", label, err)
	}

	tracker.Track(tex)
	f.cache[key] = cacheEntry{texture: tex, owner: tracker}
	return tex, nil
}
