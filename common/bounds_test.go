package common

import (
	"testing"

	"github.com/flywave/go3d/vec3"
	"github.com/stretchr/testify/assert"
)

func TestAABBExtend(t *testing.T) {
	box := NewAABB()
	assert.True(t, box.IsEmpty())

	box.Extend(vec3.T{1, 2, 3})
	assert.False(t, box.IsEmpty())
	assert.Equal(t, vec3.T{1, 2, 3}, box.Min)
	assert.Equal(t, vec3.T{1, 2, 3}, box.Max)

	box.Extend(vec3.T{-1, 5, 0})
	assert.Equal(t, vec3.T{-1, 2, 0}, box.Min)
	assert.Equal(t, vec3.T{1, 5, 3}, box.Max)
}

func TestAABBUnion(t *testing.T) {
	a := NewAABB()
	a.Extend(vec3.T{0, 0, 0})

	b := NewAABB()
	b.Extend(vec3.T{2, 2, 2})

	a.Union(b)
	assert.Equal(t, vec3.T{0, 0, 0}, a.Min)
	assert.Equal(t, vec3.T{2, 2, 2}, a.Max)

	// Union with an empty box is a no-op.
	a.Union(NewAABB())
	assert.Equal(t, vec3.T{2, 2, 2}, a.Max)
}

func TestSliceToBytes(t *testing.T) {
	data := SliceToBytes([]uint32{1, 2})
	assert.Len(t, data, 8)
	assert.Equal(t, byte(1), data[0])
	assert.Equal(t, byte(2), data[4])

	assert.Nil(t, SliceToBytes[uint32](nil))
}
