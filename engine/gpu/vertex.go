package gpu

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// VertexSource is the canonical WGSL definition of the VertexInput struct for
// rigid mesh pipelines. Matches the Vertex layout exactly (64 bytes).
//
//go:embed assets/vertex.wgsl
var VertexSource string

// Vertex is the GPU-aligned representation of a single mesh vertex for rigid
// (non-skinned) geometry. Matches the WGSL VertexInput struct layout exactly
// (see VertexSource). Size: 64 bytes, no padding required.
type Vertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
	TexCoord [2]float32 // offset 24: UV texture coordinate (8 bytes)
	Color    [4]float32 // offset 32: per-vertex RGBA color (16 bytes)
	Tangent  [4]float32 // offset 48: tangent vector (xyz) + handedness (w) (16 bytes)
}

// Size returns the size of the Vertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes
func (v *Vertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Marshal serializes the Vertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (v *Vertex) Marshal() []byte {
	buf := make([]byte, 64)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v.Normal[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(v.Normal[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(v.Normal[2]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(v.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(v.TexCoord[1]))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(v.Color[0]))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(v.Color[1]))
	binary.LittleEndian.PutUint32(buf[40:44], math.Float32bits(v.Color[2]))
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(v.Color[3]))
	binary.LittleEndian.PutUint32(buf[48:52], math.Float32bits(v.Tangent[0]))
	binary.LittleEndian.PutUint32(buf[52:56], math.Float32bits(v.Tangent[1]))
	binary.LittleEndian.PutUint32(buf[56:60], math.Float32bits(v.Tangent[2]))
	binary.LittleEndian.PutUint32(buf[60:64], math.Float32bits(v.Tangent[3]))
	return buf
}

// SkinnedVertexSource is the canonical WGSL definition of the VertexInput
// struct for skinned mesh pipelines. Matches the SkinnedVertex layout exactly
// (96 bytes).
//
//go:embed assets/skinned_vertex.wgsl
var SkinnedVertexSource string

// SkinnedVertex is the GPU-aligned representation of a single mesh vertex for
// skinned (bone-deformed) geometry. It extends Vertex with per-vertex joint
// influence data. Size: 96 bytes (64 base + 32 skinning data).
type SkinnedVertex struct {
	Vertex                 // offset  0: base vertex data (64 bytes)
	JointIndices [4]uint32 // offset 64: indices of up to 4 influencing joints (16 bytes)
	JointWeights [4]float32 // offset 80: blend weights, sum to 1.0 (16 bytes)
}

// Size returns the size of the SkinnedVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes
func (v *SkinnedVertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Marshal serializes the SkinnedVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload
func (v *SkinnedVertex) Marshal() []byte {
	buf := make([]byte, 96)
	copy(buf[0:64], v.Vertex.Marshal())
	binary.LittleEndian.PutUint32(buf[64:68], v.JointIndices[0])
	binary.LittleEndian.PutUint32(buf[68:72], v.JointIndices[1])
	binary.LittleEndian.PutUint32(buf[72:76], v.JointIndices[2])
	binary.LittleEndian.PutUint32(buf[76:80], v.JointIndices[3])
	binary.LittleEndian.PutUint32(buf[80:84], math.Float32bits(v.JointWeights[0]))
	binary.LittleEndian.PutUint32(buf[84:88], math.Float32bits(v.JointWeights[1]))
	binary.LittleEndian.PutUint32(buf[88:92], math.Float32bits(v.JointWeights[2]))
	binary.LittleEndian.PutUint32(buf[92:96], math.Float32bits(v.JointWeights[3]))
	return buf
}

// VertexBufferLayout returns the wgpu vertex buffer layout for rigid vertices.
//
// Returns:
//   - wgpu.VertexBufferLayout: the attribute layout for Vertex
func VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 64,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1}, // normal
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2}, // texcoord
			{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 3}, // color
			{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 4}, // tangent
		},
	}
}

// SkinnedVertexBufferLayout returns the wgpu vertex buffer layout for skinned vertices.
//
// Returns:
//   - wgpu.VertexBufferLayout: the attribute layout for SkinnedVertex
func SkinnedVertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 96,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1}, // normal
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2}, // texcoord
			{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 3}, // color
			{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 4}, // tangent
			{Format: wgpu.VertexFormatUint32x4, Offset: 64, ShaderLocation: 5},  // joint indices
			{Format: wgpu.VertexFormatFloat32x4, Offset: 80, ShaderLocation: 6}, // joint weights
		},
	}
}
