package polyline

import (
	"math"
	"slices"

	"github.com/golang/geo/r3"

	"github.com/gogpu/polyline/ellipsoid"
)

// PackLayoutVersion identifies the flat layout written by Pack. It is not
// stored in the buffer; producer and consumer must agree on it.
//
// Layout, in order:
//
//	positions count
//	positions        3 values each
//	colors count     0 when uncolored
//	colors           4 values each (R, G, B, A)
//	colorsPerVertex  0 or 1
//	ellipsoid radii  x, y, z
//	line type        0 geodesic, 1 rhumb, 2 straight
//	granularity
//	width
//	followSurface    0 or 1
const PackLayoutVersion = 1

// packedFixedLength counts the values following the variable-length sections.
const packedFixedLength = 1 + 3 + 1 + 1 + 1 + 1

// PackedLength returns the number of values Pack writes for g.
func PackedLength(g *Geometry) int {
	return 1 + 3*len(g.positions) + 1 + 4*len(g.colors) + packedFixedLength
}

// Pack writes g into array starting at startingIndex and returns the index
// following the last value written. It panics if array is too short; size it
// with PackedLength or use AppendPacked.
func Pack(g *Geometry, array []float64, startingIndex int) int {
	_ = array[startingIndex+PackedLength(g)-1] // bounds check hint

	i := startingIndex
	array[i] = float64(len(g.positions))
	i++
	for _, p := range g.positions {
		array[i], array[i+1], array[i+2] = p.X, p.Y, p.Z
		i += 3
	}

	array[i] = float64(len(g.colors))
	i++
	for _, c := range g.colors {
		array[i], array[i+1], array[i+2], array[i+3] = c.R, c.G, c.B, c.A
		i += 4
	}

	array[i] = boolToFloat(g.colorsPerVertex)
	i++

	r := g.ellipsoid.Radii()
	array[i], array[i+1], array[i+2] = r.X, r.Y, r.Z
	i += 3

	array[i] = float64(g.lineType)
	array[i+1] = g.granularity
	array[i+2] = g.width
	array[i+3] = boolToFloat(g.followSurface)
	return i + 4
}

// AppendPacked appends the packed form of g to dst and returns the extended
// slice.
func AppendPacked(dst []float64, g *Geometry) []float64 {
	start := len(dst)
	n := PackedLength(g)
	dst = slices.Grow(dst, n)[:start+n]
	Pack(g, dst, start)
	return dst
}

// Unpack reads a geometry packed at startingIndex and returns it together
// with the index following the last value read.
//
// If result is non-nil it is overwritten in place, reusing its slices, and
// returned; otherwise a new Geometry is allocated. The buffer is trusted:
// malformed input yields an undefined geometry or a panic, never an error.
func Unpack(array []float64, startingIndex int, result *Geometry) (*Geometry, int) {
	if result == nil {
		result = &Geometry{}
	}

	i := startingIndex
	n := int(array[i])
	i++
	result.positions = resize(result.positions, n)
	for k := range result.positions {
		result.positions[k] = r3.Vector{X: array[i], Y: array[i+1], Z: array[i+2]}
		i += 3
	}

	nc := int(array[i])
	i++
	result.colors = resize(result.colors, nc)
	for k := range result.colors {
		result.colors[k] = RGBA{R: array[i], G: array[i+1], B: array[i+2], A: array[i+3]}
		i += 4
	}

	result.colorsPerVertex = array[i] != 0
	i++

	radii := r3.Vector{X: array[i], Y: array[i+1], Z: array[i+2]}
	i += 3
	if result.ellipsoid == nil || result.ellipsoid.Radii() != radii {
		result.ellipsoid = ellipsoid.FromRadii(radii)
	}

	result.lineType = LineType(array[i])
	result.granularity = array[i+1]
	result.width = array[i+2]
	result.followSurface = array[i+3] != 0
	return result, i + 4
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// resize returns s with length n, reusing its backing array when it fits.
func resize[T any](s []T, n int) []T {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]T, n)
}

// SkipPacked returns the index following the geometry packed at
// startingIndex without decoding it. It fails with ErrInvalidArgument if the
// counts are malformed or the object extends past the end of array.
func SkipPacked(array []float64, startingIndex int) (int, error) {
	i := startingIndex
	if i < 0 || i >= len(array) {
		return 0, invalidArgument("packed geometry at %d: offset out of range", startingIndex)
	}
	n, ok := packedCount(array[i])
	if !ok {
		return 0, invalidArgument("packed geometry at %d: bad position count %v", startingIndex, array[i])
	}
	i += 1 + 3*n
	if i >= len(array) {
		return 0, invalidArgument("packed geometry at %d: truncated", startingIndex)
	}
	nc, ok := packedCount(array[i])
	if !ok {
		return 0, invalidArgument("packed geometry at %d: bad color count %v", startingIndex, array[i])
	}
	i += 1 + 4*nc + packedFixedLength
	if i > len(array) {
		return 0, invalidArgument("packed geometry at %d: truncated", startingIndex)
	}
	return i, nil
}

// packedCount validates a count stored as a float.
func packedCount(v float64) (int, bool) {
	if !(v >= 0) || v > math.MaxInt32 || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}
