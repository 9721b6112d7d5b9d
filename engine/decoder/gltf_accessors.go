package decoder

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
)

// componentSize returns the byte size of a single accessor component.
func componentSize(t gltf.ComponentType) int {
	switch t {
	case gltf.ComponentByte, gltf.ComponentUbyte:
		return 1
	case gltf.ComponentShort, gltf.ComponentUshort:
		return 2
	default:
		return 4
	}
}

// componentCount returns the number of components per accessor element.
func componentCount(t gltf.AccessorType) int {
	switch t {
	case gltf.AccessorScalar:
		return 1
	case gltf.AccessorVec2:
		return 2
	case gltf.AccessorVec3:
		return 3
	case gltf.AccessorVec4:
		return 4
	case gltf.AccessorMat4:
		return 16
	default:
		return 1
	}
}

// accessorView resolves an accessor to its backing bytes and element stride.
// The returned data starts at the accessor's first element; element i lives
// at data[i*stride : i*stride+elemSize].
func accessorView(doc *gltf.Document, accessorIndex int) (data []byte, stride, count, elemSize int, err error) {
	if accessorIndex < 0 || accessorIndex >= len(doc.Accessors) {
		return nil, 0, 0, 0, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	acc := doc.Accessors[accessorIndex]
	if acc.BufferView == nil {
		return nil, 0, 0, 0, fmt.Errorf("accessor %d has no buffer view", accessorIndex)
	}

	bvIdx := int(*acc.BufferView)
	if bvIdx < 0 || bvIdx >= len(doc.BufferViews) {
		return nil, 0, 0, 0, fmt.Errorf("bufferView index %d out of range", bvIdx)
	}
	bv := doc.BufferViews[bvIdx]

	bufIdx := int(bv.Buffer)
	if bufIdx < 0 || bufIdx >= len(doc.Buffers) {
		return nil, 0, 0, 0, fmt.Errorf("buffer index %d out of range", bufIdx)
	}
	buf := doc.Buffers[bufIdx]

	elemSize = componentSize(acc.ComponentType) * componentCount(acc.Type)
	stride = elemSize
	if bv.ByteStride > 0 {
		stride = int(bv.ByteStride)
	}
	count = int(acc.Count)

	start := int(bv.ByteOffset) + int(acc.ByteOffset)
	end := start + (count-1)*stride + elemSize
	if count == 0 {
		end = start
	}
	if end > len(buf.Data) {
		return nil, 0, 0, 0, fmt.Errorf("accessor %d exceeds buffer bounds: end=%d bufSize=%d", accessorIndex, end, len(buf.Data))
	}

	return buf.Data[start:], stride, count, elemSize, nil
}

func f32(data []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data))
}

// readVec2 reads a float VEC2 accessor.
func readVec2(doc *gltf.Document, accessorIndex int) ([][2]float32, error) {
	data, stride, count, _, err := accessorView(doc, accessorIndex)
	if err != nil {
		return nil, err
	}
	out := make([][2]float32, count)
	for i := 0; i < count; i++ {
		e := data[i*stride:]
		out[i] = [2]float32{f32(e), f32(e[4:])}
	}
	return out, nil
}

// readVec3 reads a float VEC3 accessor.
func readVec3(doc *gltf.Document, accessorIndex int) ([][3]float32, error) {
	data, stride, count, _, err := accessorView(doc, accessorIndex)
	if err != nil {
		return nil, err
	}
	out := make([][3]float32, count)
	for i := 0; i < count; i++ {
		e := data[i*stride:]
		out[i] = [3]float32{f32(e), f32(e[4:]), f32(e[8:])}
	}
	return out, nil
}

// readVec4 reads a float VEC4 accessor.
func readVec4(doc *gltf.Document, accessorIndex int) ([][4]float32, error) {
	data, stride, count, _, err := accessorView(doc, accessorIndex)
	if err != nil {
		return nil, err
	}
	out := make([][4]float32, count)
	for i := 0; i < count; i++ {
		e := data[i*stride:]
		out[i] = [4]float32{f32(e), f32(e[4:]), f32(e[8:]), f32(e[12:])}
	}
	return out, nil
}

// readIndices reads a SCALAR index accessor of u8, u16 or u32 width.
func readIndices(doc *gltf.Document, accessorIndex int) ([]uint32, error) {
	data, stride, count, _, err := accessorView(doc, accessorIndex)
	if err != nil {
		return nil, err
	}
	acc := doc.Accessors[accessorIndex]

	out := make([]uint32, count)
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		for i := 0; i < count; i++ {
			out[i] = uint32(data[i*stride])
		}
	case gltf.ComponentUshort:
		for i := 0; i < count; i++ {
			out[i] = uint32(binary.LittleEndian.Uint16(data[i*stride:]))
		}
	case gltf.ComponentUint:
		for i := 0; i < count; i++ {
			out[i] = binary.LittleEndian.Uint32(data[i*stride:])
		}
	default:
		return nil, fmt.Errorf("unsupported index component type: %d", acc.ComponentType)
	}
	return out, nil
}

// readJoints reads a JOINTS_0 VEC4 accessor of u8 or u16 components.
func readJoints(doc *gltf.Document, accessorIndex int) ([][4]uint32, error) {
	data, stride, count, _, err := accessorView(doc, accessorIndex)
	if err != nil {
		return nil, err
	}
	acc := doc.Accessors[accessorIndex]

	out := make([][4]uint32, count)
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		for i := 0; i < count; i++ {
			e := data[i*stride:]
			out[i] = [4]uint32{uint32(e[0]), uint32(e[1]), uint32(e[2]), uint32(e[3])}
		}
	case gltf.ComponentUshort:
		for i := 0; i < count; i++ {
			e := data[i*stride:]
			out[i] = [4]uint32{
				uint32(binary.LittleEndian.Uint16(e)),
				uint32(binary.LittleEndian.Uint16(e[2:])),
				uint32(binary.LittleEndian.Uint16(e[4:])),
				uint32(binary.LittleEndian.Uint16(e[6:])),
			}
		}
	default:
		return nil, fmt.Errorf("unsupported joints component type: %d", acc.ComponentType)
	}
	return out, nil
}

// readWeights reads a WEIGHTS_0 VEC4 accessor of float or normalized u8/u16
// components.
func readWeights(doc *gltf.Document, accessorIndex int) ([][4]float32, error) {
	acc := doc.Accessors[accessorIndex]
	if acc.ComponentType == gltf.ComponentFloat {
		return readVec4(doc, accessorIndex)
	}

	data, stride, count, _, err := accessorView(doc, accessorIndex)
	if err != nil {
		return nil, err
	}

	out := make([][4]float32, count)
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		for i := 0; i < count; i++ {
			e := data[i*stride:]
			out[i] = [4]float32{
				float32(e[0]) / 255.0,
				float32(e[1]) / 255.0,
				float32(e[2]) / 255.0,
				float32(e[3]) / 255.0,
			}
		}
	case gltf.ComponentUshort:
		for i := 0; i < count; i++ {
			e := data[i*stride:]
			out[i] = [4]float32{
				float32(binary.LittleEndian.Uint16(e)) / 65535.0,
				float32(binary.LittleEndian.Uint16(e[2:])) / 65535.0,
				float32(binary.LittleEndian.Uint16(e[4:])) / 65535.0,
				float32(binary.LittleEndian.Uint16(e[6:])) / 65535.0,
			}
		}
	default:
		return nil, fmt.Errorf("unsupported weights component type: %d", acc.ComponentType)
	}
	return out, nil
}

// readColors reads a COLOR_0 accessor, handling VEC3/VEC4 float and
// normalized u8/u16 formats. Missing alpha components default to 1.
func readColors(doc *gltf.Document, accessorIndex int) ([][4]float32, error) {
	acc := doc.Accessors[accessorIndex]
	comps := componentCount(acc.Type)
	if comps != 3 && comps != 4 {
		return nil, fmt.Errorf("unsupported color accessor type: %d", acc.Type)
	}

	if acc.ComponentType == gltf.ComponentFloat {
		if comps == 4 {
			return readVec4(doc, accessorIndex)
		}
		vec3s, err := readVec3(doc, accessorIndex)
		if err != nil {
			return nil, err
		}
		out := make([][4]float32, len(vec3s))
		for i, v := range vec3s {
			out[i] = [4]float32{v[0], v[1], v[2], 1.0}
		}
		return out, nil
	}

	data, stride, count, _, err := accessorView(doc, accessorIndex)
	if err != nil {
		return nil, err
	}

	out := make([][4]float32, count)
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		for i := 0; i < count; i++ {
			e := data[i*stride:]
			c := [4]float32{0, 0, 0, 1}
			for j := 0; j < comps; j++ {
				c[j] = float32(e[j]) / 255.0
			}
			out[i] = c
		}
	case gltf.ComponentUshort:
		for i := 0; i < count; i++ {
			e := data[i*stride:]
			c := [4]float32{0, 0, 0, 1}
			for j := 0; j < comps; j++ {
				c[j] = float32(binary.LittleEndian.Uint16(e[j*2:])) / 65535.0
			}
			out[i] = c
		}
	default:
		return nil, fmt.Errorf("unsupported color component type: %d", acc.ComponentType)
	}
	return out, nil
}
