// Package arc subdivides polyline segments so that consecutive vertices stay
// within an angular granularity along a surface path.
package arc

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"

	"github.com/gogpu/polyline/ellipsoid"
)

// Law selects the interpolation used between two points.
type Law uint8

const (
	// Chord connects the endpoints directly; segments are never subdivided.
	Chord Law = iota
	// Geodesic follows great circles of the geodetic normals.
	Geodesic
	// Rhumb follows lines of constant bearing.
	Rhumb
)

// String returns the law name.
func (l Law) String() string {
	switch l {
	case Chord:
		return "Chord"
	case Geodesic:
		return "Geodesic"
	case Rhumb:
		return "Rhumb"
	default:
		return "Unknown"
	}
}

// path is implemented by ellipsoid.Geodesic and ellipsoid.RhumbLine.
type path interface {
	Angle() s1.Angle
	Interpolate(t float64) r3.Vector
}

// Segment is one original polyline segment planned for subdivision.
type Segment struct {
	p0, p1 r3.Vector
	n      int
	path   path
}

// Plan computes how many sub-segments the segment p0→p1 needs under law so
// that no step exceeds granularity radians.
//
// Segments that need no subdivision, and segments with an endpoint that has
// no geodetic position, keep just their two endpoints.
func Plan(e *ellipsoid.Ellipsoid, law Law, p0, p1 r3.Vector, granularity float64) Segment {
	s := Segment{p0: p0, p1: p1, n: 1}

	var p path
	switch law {
	case Geodesic:
		if g, ok := e.NewGeodesic(p0, p1); ok {
			p = g
		}
	case Rhumb:
		if r, ok := e.NewRhumbLine(p0, p1); ok {
			p = r
		}
	}
	if p == nil {
		return s
	}

	s.n = Count(p.Angle().Radians(), granularity)
	if s.n > 1 {
		s.path = p
	}
	return s
}

// MaxCount is the largest number of sub-segments Count returns.
const MaxCount = 1 << 30

// Count returns max(1, ceil(angle/granularity)), clamped to MaxCount. Zero
// angles and non-positive granularities give 1.
func Count(angle, granularity float64) int {
	if !(angle > 0) || !(granularity > 0) {
		return 1
	}
	n := math.Ceil(angle / granularity)
	switch {
	case !(n > 1):
		return 1
	case !(n < MaxCount):
		return MaxCount
	}
	return int(n)
}

// Count returns the number of sub-segments.
func (s Segment) Count() int { return s.n }

// Fraction returns the interpolation parameter of vertex i.
func (s Segment) Fraction(i int) float64 {
	return float64(i) / float64(s.n)
}

// Point returns vertex i in [0, Count()]. The endpoints are returned exactly
// as given to Plan.
func (s Segment) Point(i int) r3.Vector {
	switch {
	case i <= 0:
		return s.p0
	case i >= s.n:
		return s.p1
	}
	return s.path.Interpolate(s.Fraction(i))
}
