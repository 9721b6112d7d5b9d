// Package animation provides keyframe curves sampled by time: vector curves
// with linear or stepped interpolation and quaternion curves with spherical
// interpolation. Curves are pure data; driving them from a playback clock is
// the caller's concern.
package animation

import (
	"sort"

	"github.com/chewxy/math32"
)

// Interpolation selects how a curve blends between adjacent keyframes.
type Interpolation int

const (
	// InterpolationLinear blends linearly between keyframes (spherically for
	// quaternion curves).
	InterpolationLinear Interpolation = iota
	// InterpolationStep holds each keyframe's value until the next.
	InterpolationStep
)

// VectorKeyframe stores a 3D vector value at a specific time.
type VectorKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the 3D vector value at this keyframe.
	Value [3]float32
}

// QuaternionKeyframe stores a quaternion rotation at a specific time.
type QuaternionKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the quaternion value at this keyframe (x, y, z, w).
	Value [4]float32
}

// VectorCurve is a time-ordered sequence of vector keyframes.
type VectorCurve struct {
	keys   []VectorKeyframe
	interp Interpolation
}

// NewVectorCurve creates a vector curve from keyframes. Keyframes are sorted
// by time; the input slice is not modified.
//
// Parameters:
//   - keys: the keyframes
//   - interp: the interpolation mode
//
// Returns:
//   - *VectorCurve: the curve
func NewVectorCurve(keys []VectorKeyframe, interp Interpolation) *VectorCurve {
	sorted := make([]VectorKeyframe, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	return &VectorCurve{keys: sorted, interp: interp}
}

// Duration returns the timestamp of the last keyframe, or zero for an empty
// curve.
//
// Returns:
//   - float32: the curve duration in seconds
func (c *VectorCurve) Duration() float32 {
	if len(c.keys) == 0 {
		return 0
	}
	return c.keys[len(c.keys)-1].Time
}

// Sample evaluates the curve at time t. Times outside the keyframe range
// clamp to the first or last value; an empty curve samples to zero.
//
// Parameters:
//   - t: the sample time in seconds
//
// Returns:
//   - [3]float32: the interpolated value
func (c *VectorCurve) Sample(t float32) [3]float32 {
	if len(c.keys) == 0 {
		return [3]float32{}
	}

	i, frac := segment(len(c.keys), t, func(k int) float32 { return c.keys[k].Time })
	if c.interp == InterpolationStep || frac <= 0 {
		return c.keys[i].Value
	}

	a, b := c.keys[i].Value, c.keys[i+1].Value
	return [3]float32{
		a[0] + (b[0]-a[0])*frac,
		a[1] + (b[1]-a[1])*frac,
		a[2] + (b[2]-a[2])*frac,
	}
}

// QuaternionCurve is a time-ordered sequence of quaternion keyframes.
type QuaternionCurve struct {
	keys   []QuaternionKeyframe
	interp Interpolation
}

// NewQuaternionCurve creates a quaternion curve from keyframes. Keyframes are
// sorted by time; the input slice is not modified.
//
// Parameters:
//   - keys: the keyframes
//   - interp: the interpolation mode
//
// Returns:
//   - *QuaternionCurve: the curve
func NewQuaternionCurve(keys []QuaternionKeyframe, interp Interpolation) *QuaternionCurve {
	sorted := make([]QuaternionKeyframe, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	return &QuaternionCurve{keys: sorted, interp: interp}
}

// Duration returns the timestamp of the last keyframe, or zero for an empty
// curve.
//
// Returns:
//   - float32: the curve duration in seconds
func (c *QuaternionCurve) Duration() float32 {
	if len(c.keys) == 0 {
		return 0
	}
	return c.keys[len(c.keys)-1].Time
}

// Sample evaluates the curve at time t using spherical interpolation. Times
// outside the keyframe range clamp to the first or last value; an empty
// curve samples to the identity rotation.
//
// Parameters:
//   - t: the sample time in seconds
//
// Returns:
//   - [4]float32: the interpolated quaternion (x, y, z, w)
func (c *QuaternionCurve) Sample(t float32) [4]float32 {
	if len(c.keys) == 0 {
		return [4]float32{0, 0, 0, 1}
	}

	i, frac := segment(len(c.keys), t, func(k int) float32 { return c.keys[k].Time })
	if c.interp == InterpolationStep || frac <= 0 {
		return c.keys[i].Value
	}

	return slerp(c.keys[i].Value, c.keys[i+1].Value, frac)
}

// segment finds the keyframe segment containing time t. It returns the index
// of the segment's first keyframe and the normalized position inside the
// segment. Out-of-range times return the boundary keyframe with frac 0.
func segment(n int, t float32, timeAt func(int) float32) (int, float32) {
	if t <= timeAt(0) || n == 1 {
		return 0, 0
	}
	if t >= timeAt(n-1) {
		return n - 1, 0
	}

	// Binary search for the first keyframe with Time > t.
	hi := sort.Search(n, func(k int) bool { return timeAt(k) > t })
	i := hi - 1
	span := timeAt(hi) - timeAt(i)
	if span <= 0 {
		return i, 0
	}
	return i, (t - timeAt(i)) / span
}

// slerp spherically interpolates between two quaternions, taking the shorter
// arc. Nearly parallel quaternions fall back to normalized linear
// interpolation.
func slerp(a, b [4]float32, t float32) [4]float32 {
	dot := a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]

	// Take the shorter arc.
	if dot < 0 {
		dot = -dot
		b = [4]float32{-b[0], -b[1], -b[2], -b[3]}
	}

	var wa, wb float32
	if dot > 0.9995 {
		wa, wb = 1-t, t
	} else {
		theta := math32.Acos(dot)
		sinTheta := math32.Sin(theta)
		wa = math32.Sin((1-t)*theta) / sinTheta
		wb = math32.Sin(t*theta) / sinTheta
	}

	out := [4]float32{
		wa*a[0] + wb*b[0],
		wa*a[1] + wb*b[1],
		wa*a[2] + wb*b[2],
		wa*a[3] + wb*b[3],
	}

	length := math32.Sqrt(out[0]*out[0] + out[1]*out[1] + out[2]*out[2] + out[3]*out[3])
	if length < 1e-6 {
		return [4]float32{0, 0, 0, 1}
	}
	invLen := 1 / length
	return [4]float32{out[0] * invLen, out[1] * invLen, out[2] * invLen, out[3] * invLen}
}
