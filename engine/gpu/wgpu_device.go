package gpu

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/meshforge/meshforge/common"
	"github.com/meshforge/meshforge/engine/core"
)

// wgpuDeviceImpl is the wgpu-backed implementation of the Device interface.
type wgpuDeviceImpl struct {
	mu sync.Mutex

	device *wgpu.Device
	queue  *wgpu.Queue

	targetFormat wgpu.TextureFormat
	depthFormat  wgpu.TextureFormat
	sampleCount  int
}

var _ Device = &wgpuDeviceImpl{}

// NewWGPUDevice creates a Device backed by a real wgpu device and queue.
//
// Parameters:
//   - device: the wgpu device used for all resource creation
//   - queue: the queue used for buffer and texture uploads
//   - options: a variadic list of WGPUDeviceOption functions
//
// Returns:
//   - Device: the wgpu-backed device
func NewWGPUDevice(device *wgpu.Device, queue *wgpu.Queue, options ...WGPUDeviceOption) Device {
	d := &wgpuDeviceImpl{
		device:       device,
		queue:        queue,
		targetFormat: wgpu.TextureFormatRGBA8UnormSrgb,
		depthFormat:  wgpu.TextureFormatDepth24Plus,
		sampleCount:  1,
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

func (d *wgpuDeviceImpl) CreateVertexBuffer(label string, data []byte) (*Buffer, error) {
	return d.createBuffer(label, data, wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
}

func (d *wgpuDeviceImpl) CreateIndexBuffer(label string, data []byte) (*Buffer, error) {
	return d.createBuffer(label, data, wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst)
}

func (d *wgpuDeviceImpl) createBuffer(label string, data []byte, usage wgpu.BufferUsage) (*Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             uint64(len(data)),
		Usage:            usage,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer %q: %w", label, err)
	}
	d.queue.WriteBuffer(buf, 0, data)

	return NewBuffer(label, len(data), buf), nil
}

func (d *wgpuDeviceImpl) CreateTexture(label string, pixels []byte, width, height uint32) (*Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if uint32(len(pixels)) < width*height*4 {
		return nil, fmt.Errorf("texture %q: pixel data too short: have %d bytes, need %d", label, len(pixels), width*height*4)
	}

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %q: %w", label, err)
	}

	d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  width * 4,
			RowsPerImage: height,
		},
		&wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("failed to create texture view %q: %w", label, err)
	}

	return NewTexture(label, width, height, tex, view), nil
}

func (d *wgpuDeviceImpl) CreateSampler(label string, desc SamplerDescriptor) (*Sampler, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	samp, err := d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  common.Coalesce(desc.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(desc.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(desc.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(desc.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(desc.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(desc.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(desc.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(desc.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(desc.MaxAnisotropy, 1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler %q: %w", label, err)
	}

	return NewSampler(label, samp), nil
}

func (d *wgpuDeviceImpl) CreateEffect(desc EffectDescriptor) (*Effect, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	label := desc.Key()
	source := composeWGSL(desc)

	module, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shader module for %s: %w", label, err)
	}
	defer module.Release()

	frameLayout, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: label + " frame layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageVertex,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create frame bind group layout for %s: %w", label, err)
	}

	materialLayout, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label + " material layout",
		Entries: materialLayoutEntries(),
	})
	if err != nil {
		frameLayout.Release()
		return nil, fmt.Errorf("failed to create material bind group layout for %s: %w", label, err)
	}

	layouts := []*wgpu.BindGroupLayout{frameLayout, materialLayout}

	pipelineLayout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		frameLayout.Release()
		materialLayout.Release()
		return nil, fmt.Errorf("failed to create pipeline layout for %s: %w", label, err)
	}
	defer pipelineLayout.Release()

	vertexLayout := VertexBufferLayout()
	if desc.Skinned {
		vertexLayout = SkinnedVertexBufferLayout()
	}

	cullMode := wgpu.CullModeBack
	if desc.DoubleSided {
		cullMode = wgpu.CullModeNone
	}

	pipeline, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    d.targetFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend:     desc.Blend.Descriptor(),
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(d.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            d.depthFormat,
			DepthWriteEnabled: desc.Blend == BlendOpaque,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		frameLayout.Release()
		materialLayout.Release()
		return nil, fmt.Errorf("failed to create render pipeline for %s: %w", label, err)
	}

	core.LogDebug("compiled effect %s", label)
	return NewEffect(label, desc, pipeline, layouts), nil
}

// materialLayoutEntries declares the material bind group: a uniform block plus
// base-color, emissive and occlusion texture/sampler pairs. All bindings are
// declared regardless of effect features so the layout matches the shader.
func materialLayoutEntries() []wgpu.BindGroupLayoutEntry {
	entries := []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
		},
	}
	for binding := uint32(1); binding <= 5; binding += 2 {
		entries = append(entries,
			wgpu.BindGroupLayoutEntry{
				Binding:    binding,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			wgpu.BindGroupLayoutEntry{
				Binding:    binding + 1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		)
	}
	return entries
}
