package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Buffer is a disposable handle to a GPU vertex or index buffer.
type Buffer struct {
	label string
	size  int
	raw   *wgpu.Buffer
}

// NewBuffer wraps a raw wgpu buffer in a disposable handle. The raw handle
// may be nil for device implementations that do not allocate real GPU state.
//
// Parameters:
//   - label: the debug label
//   - size: the buffer size in bytes
//   - raw: the underlying wgpu buffer, or nil
//
// Returns:
//   - *Buffer: the buffer handle
func NewBuffer(label string, size int, raw *wgpu.Buffer) *Buffer {
	return &Buffer{label: label, size: size, raw: raw}
}

// Label returns the debug label of the buffer.
func (b *Buffer) Label() string {
	return b.label
}

// Size returns the buffer size in bytes.
func (b *Buffer) Size() int {
	return b.size
}

// Raw returns the underlying wgpu buffer, or nil.
func (b *Buffer) Raw() *wgpu.Buffer {
	return b.raw
}

// Release frees the underlying GPU buffer. Safe to call more than once.
func (b *Buffer) Release() {
	if b.raw != nil {
		b.raw.Release()
		b.raw = nil
	}
}

// Texture is a disposable handle to a GPU texture and its default view.
type Texture struct {
	label  string
	width  uint32
	height uint32
	raw    *wgpu.Texture
	view   *wgpu.TextureView
}

// NewTexture wraps a raw wgpu texture and view in a disposable handle. Both
// raw handles may be nil for device implementations without real GPU state.
//
// Parameters:
//   - label: the debug label
//   - width: the texture width in pixels
//   - height: the texture height in pixels
//   - raw: the underlying wgpu texture, or nil
//   - view: the texture view, or nil
//
// Returns:
//   - *Texture: the texture handle
func NewTexture(label string, width, height uint32, raw *wgpu.Texture, view *wgpu.TextureView) *Texture {
	return &Texture{label: label, width: width, height: height, raw: raw, view: view}
}

// Label returns the debug label of the texture.
func (t *Texture) Label() string {
	return t.label
}

// Width returns the texture width in pixels.
func (t *Texture) Width() uint32 {
	return t.width
}

// Height returns the texture height in pixels.
func (t *Texture) Height() uint32 {
	return t.height
}

// View returns the texture view used for shader binding, or nil.
func (t *Texture) View() *wgpu.TextureView {
	return t.view
}

// Release frees the underlying GPU texture and view. Safe to call more than once.
func (t *Texture) Release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.raw != nil {
		t.raw.Release()
		t.raw = nil
	}
}

// Sampler is a disposable handle to a GPU sampler.
type Sampler struct {
	label string
	raw   *wgpu.Sampler
}

// NewSampler wraps a raw wgpu sampler in a disposable handle.
//
// Parameters:
//   - label: the debug label
//   - raw: the underlying wgpu sampler, or nil
//
// Returns:
//   - *Sampler: the sampler handle
func NewSampler(label string, raw *wgpu.Sampler) *Sampler {
	return &Sampler{label: label, raw: raw}
}

// Label returns the debug label of the sampler.
func (s *Sampler) Label() string {
	return s.label
}

// Raw returns the underlying wgpu sampler, or nil.
func (s *Sampler) Raw() *wgpu.Sampler {
	return s.raw
}

// Release frees the underlying GPU sampler. Safe to call more than once.
func (s *Sampler) Release() {
	if s.raw != nil {
		s.raw.Release()
		s.raw = nil
	}
}

// Effect is a disposable handle to a compiled shader effect: a render
// pipeline plus the bind group layouts it was created with. Effect identity
// (pointer equality) is the merge key used when batching draw calls.
type Effect struct {
	label    string
	desc     EffectDescriptor
	pipeline *wgpu.RenderPipeline
	layouts  []*wgpu.BindGroupLayout
}

// NewEffect wraps a compiled render pipeline in a disposable handle. The
// pipeline and layouts may be nil for device implementations without real
// GPU state.
//
// Parameters:
//   - label: the debug label
//   - desc: the descriptor the effect was compiled from
//   - pipeline: the underlying render pipeline, or nil
//   - layouts: the bind group layouts owned by this effect
//
// Returns:
//   - *Effect: the effect handle
func NewEffect(label string, desc EffectDescriptor, pipeline *wgpu.RenderPipeline, layouts []*wgpu.BindGroupLayout) *Effect {
	return &Effect{label: label, desc: desc, pipeline: pipeline, layouts: layouts}
}

// Label returns the debug label of the effect.
func (e *Effect) Label() string {
	return e.label
}

// Descriptor returns the descriptor the effect was compiled from.
func (e *Effect) Descriptor() EffectDescriptor {
	return e.desc
}

// Pipeline returns the underlying render pipeline, or nil.
func (e *Effect) Pipeline() *wgpu.RenderPipeline {
	return e.pipeline
}

// Release frees the underlying pipeline and layouts. Safe to call more than once.
func (e *Effect) Release() {
	if e.pipeline != nil {
		e.pipeline.Release()
		e.pipeline = nil
	}
	for _, l := range e.layouts {
		if l != nil {
			l.Release()
		}
	}
	e.layouts = nil
}
