package ellipsoid

import (
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Geodesic is the great-circle-consistent path between two points: the
// geodetic surface normals are interpolated along a great circle and mapped
// back onto the surface, with height varying linearly.
type Geodesic struct {
	e      *Ellipsoid
	n0, n1 s2.Point
	h0, h1 float64
	angle  s1.Angle
}

// NewGeodesic prepares the geodesic path from p0 to p1. It reports false if
// either point is at the ellipsoid center.
func (e *Ellipsoid) NewGeodesic(p0, p1 r3.Vector) (*Geodesic, bool) {
	c0, ok := e.CartesianToCartographic(p0)
	if !ok {
		return nil, false
	}
	c1, ok := e.CartesianToCartographic(p1)
	if !ok {
		return nil, false
	}

	n0 := s2.PointFromLatLng(s2.LatLng{Lat: c0.Latitude, Lng: c0.Longitude})
	n1 := s2.PointFromLatLng(s2.LatLng{Lat: c1.Latitude, Lng: c1.Longitude})

	return &Geodesic{
		e:     e,
		n0:    n0,
		n1:    n1,
		h0:    c0.Height,
		h1:    c1.Height,
		angle: n0.Distance(n1),
	}, true
}

// Angle returns the central angle swept by the path.
func (g *Geodesic) Angle() s1.Angle { return g.angle }

// Interpolate returns the point at fraction t of the path.
func (g *Geodesic) Interpolate(t float64) r3.Vector {
	n := s2.Interpolate(t, g.n0, g.n1)
	return g.e.fromNormal(n.Vector, g.h0+(g.h1-g.h0)*t)
}

// GeodesicAngle returns the central angle of the geodesic between p0 and p1,
// or 0 if either point has no geodetic position.
func (e *Ellipsoid) GeodesicAngle(p0, p1 r3.Vector) s1.Angle {
	g, ok := e.NewGeodesic(p0, p1)
	if !ok {
		return 0
	}
	return g.Angle()
}

// GeodesicInterpolate returns the point at fraction t of the geodesic from
// p0 to p1. Points without a geodetic position interpolate along the chord.
func (e *Ellipsoid) GeodesicInterpolate(p0, p1 r3.Vector, t float64) r3.Vector {
	g, ok := e.NewGeodesic(p0, p1)
	if !ok {
		return lerp(p0, p1, t)
	}
	return g.Interpolate(t)
}

func lerp(p0, p1 r3.Vector, t float64) r3.Vector {
	return p0.Add(p1.Sub(p0).Mul(t))
}
