// Package ellipsoid provides the reference-surface math used by the polyline
// tessellator: conversion between cartesian and cartographic (geodetic)
// coordinates, and interpolation along geodesic and rhumb paths.
//
// Coordinates are Earth-centered: X points to the prime meridian on the
// equator, Z to the north pole. Angles are radians unless a function name
// says otherwise.
package ellipsoid

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
)

const (
	// centerToleranceSquared bounds the squared normalized distance below which
	// a point is treated as lying at the ellipsoid center.
	centerToleranceSquared = 0.1

	// convergence is the Newton iteration threshold for surface scaling.
	convergence = 1e-12

	maxIterations = 64
)

// Ellipsoid is a triaxial ellipsoid centered at the origin.
//
// The zero value is not usable; create ellipsoids with New or use one of the
// predefined values. An Ellipsoid is immutable and safe for concurrent use.
type Ellipsoid struct {
	radii               r3.Vector
	radiiSquared        r3.Vector
	oneOverRadii        r3.Vector
	oneOverRadiiSquared r3.Vector
	minimumRadius       float64
	maximumRadius       float64
}

var (
	// WGS84 is the World Geodetic System 1984 reference ellipsoid.
	WGS84 = New(6378137.0, 6378137.0, 6356752.3142451793)

	// UnitSphere is a sphere with radius 1.
	UnitSphere = New(1.0, 1.0, 1.0)
)

// New creates an ellipsoid with the given radii along the X, Y and Z axes.
func New(x, y, z float64) *Ellipsoid {
	return &Ellipsoid{
		radii:               r3.Vector{X: x, Y: y, Z: z},
		radiiSquared:        r3.Vector{X: x * x, Y: y * y, Z: z * z},
		oneOverRadii:        r3.Vector{X: inverse(x), Y: inverse(y), Z: inverse(z)},
		oneOverRadiiSquared: r3.Vector{X: inverse(x * x), Y: inverse(y * y), Z: inverse(z * z)},
		minimumRadius:       math.Min(x, math.Min(y, z)),
		maximumRadius:       math.Max(x, math.Max(y, z)),
	}
}

// FromRadii creates an ellipsoid from a radii vector.
func FromRadii(radii r3.Vector) *Ellipsoid {
	return New(radii.X, radii.Y, radii.Z)
}

func inverse(v float64) float64 {
	if v == 0 {
		return 0
	}
	return 1 / v
}

// Radii returns the radii along the X, Y and Z axes.
func (e *Ellipsoid) Radii() r3.Vector { return e.radii }

// MinimumRadius returns the smallest of the three radii.
func (e *Ellipsoid) MinimumRadius() float64 { return e.minimumRadius }

// MaximumRadius returns the largest of the three radii.
func (e *Ellipsoid) MaximumRadius() float64 { return e.maximumRadius }

// Equal reports whether both ellipsoids have identical radii.
func (e *Ellipsoid) Equal(other *Ellipsoid) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.radii == other.radii
}

// String returns a human-readable description of the ellipsoid.
func (e *Ellipsoid) String() string {
	return fmt.Sprintf("Ellipsoid(%g, %g, %g)", e.radii.X, e.radii.Y, e.radii.Z)
}

// eccentricity returns the first eccentricity of the meridian ellipse.
// Prolate and spherical shapes report 0.
func (e *Ellipsoid) eccentricity() float64 {
	a, b := e.radii.X, e.radii.Z
	if a <= b || a == 0 {
		return 0
	}
	return math.Sqrt(1 - (b*b)/(a*a))
}

// GeodeticSurfaceNormal returns the unit normal of the surface at a point
// lying on the ellipsoid.
func (e *Ellipsoid) GeodeticSurfaceNormal(p r3.Vector) r3.Vector {
	return r3.Vector{
		X: p.X * e.oneOverRadiiSquared.X,
		Y: p.Y * e.oneOverRadiiSquared.Y,
		Z: p.Z * e.oneOverRadiiSquared.Z,
	}.Normalize()
}

// ScaleToGeodeticSurface projects p along the geodetic surface normal onto
// the ellipsoid surface. It reports false when p is at the ellipsoid center,
// where the projection is undefined.
func (e *Ellipsoid) ScaleToGeodeticSurface(p r3.Vector) (r3.Vector, bool) {
	x2 := p.X * p.X * e.oneOverRadii.X * e.oneOverRadii.X
	y2 := p.Y * p.Y * e.oneOverRadii.Y * e.oneOverRadii.Y
	z2 := p.Z * p.Z * e.oneOverRadii.Z * e.oneOverRadii.Z

	squaredNorm := x2 + y2 + z2
	ratio := math.Sqrt(1 / squaredNorm)
	intersection := p.Mul(ratio)

	if squaredNorm < centerToleranceSquared {
		if math.IsInf(ratio, 0) || math.IsNaN(ratio) {
			return r3.Vector{}, false
		}
		return intersection, true
	}

	gradient := r3.Vector{
		X: intersection.X * e.oneOverRadiiSquared.X * 2,
		Y: intersection.Y * e.oneOverRadiiSquared.Y * 2,
		Z: intersection.Z * e.oneOverRadiiSquared.Z * 2,
	}

	lambda := (1 - ratio) * p.Norm() / (0.5 * gradient.Norm())
	correction := 0.0

	var xm, ym, zm float64
	for range maxIterations {
		lambda -= correction

		xm = 1 / (1 + lambda*e.oneOverRadiiSquared.X)
		ym = 1 / (1 + lambda*e.oneOverRadiiSquared.Y)
		zm = 1 / (1 + lambda*e.oneOverRadiiSquared.Z)

		xm2, ym2, zm2 := xm*xm, ym*ym, zm*zm
		xm3, ym3, zm3 := xm2*xm, ym2*ym, zm2*zm

		f := x2*xm2 + y2*ym2 + z2*zm2 - 1
		if math.Abs(f) <= convergence {
			break
		}

		denominator := x2*xm3*e.oneOverRadiiSquared.X +
			y2*ym3*e.oneOverRadiiSquared.Y +
			z2*zm3*e.oneOverRadiiSquared.Z
		correction = f / (-2 * denominator)
	}

	return r3.Vector{X: p.X * xm, Y: p.Y * ym, Z: p.Z * zm}, true
}

// CartesianToCartographic converts an Earth-centered point to geodetic
// longitude, latitude and height. It reports false at the ellipsoid center.
func (e *Ellipsoid) CartesianToCartographic(p r3.Vector) (Cartographic, bool) {
	surface, ok := e.ScaleToGeodeticSurface(p)
	if !ok {
		return Cartographic{}, false
	}

	n := e.GeodeticSurfaceNormal(surface)
	h := p.Sub(surface)

	height := h.Norm()
	if h.Dot(p) < 0 {
		height = -height
	}

	return Cartographic{
		Longitude: s1.Angle(math.Atan2(n.Y, n.X)),
		Latitude:  s1.Angle(math.Asin(n.Z)),
		Height:    height,
	}, true
}

// CartographicToCartesian converts geodetic coordinates to an Earth-centered point.
func (e *Ellipsoid) CartographicToCartesian(c Cartographic) r3.Vector {
	cosLat := math.Cos(c.Latitude.Radians())
	n := r3.Vector{
		X: cosLat * math.Cos(c.Longitude.Radians()),
		Y: cosLat * math.Sin(c.Longitude.Radians()),
		Z: math.Sin(c.Latitude.Radians()),
	}.Normalize()
	return e.fromNormal(n, c.Height)
}

// fromNormal returns the point at height above the surface location whose
// geodetic normal is n.
func (e *Ellipsoid) fromNormal(n r3.Vector, height float64) r3.Vector {
	k := r3.Vector{
		X: e.radiiSquared.X * n.X,
		Y: e.radiiSquared.Y * n.Y,
		Z: e.radiiSquared.Z * n.Z,
	}
	gamma := math.Sqrt(n.Dot(k))
	return k.Mul(1 / gamma).Add(n.Mul(height))
}

// CartesianFromDegrees converts longitude and latitude in degrees and a
// height in meters to an Earth-centered point.
func (e *Ellipsoid) CartesianFromDegrees(lon, lat, height float64) r3.Vector {
	return e.CartographicToCartesian(CartographicFromDegrees(lon, lat, height))
}

// CartesianArrayFromDegrees converts a flat list of longitude/latitude pairs
// in degrees to points on the surface. A trailing unpaired value is ignored.
func (e *Ellipsoid) CartesianArrayFromDegrees(coords []float64) []r3.Vector {
	points := make([]r3.Vector, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		points = append(points, e.CartesianFromDegrees(coords[i], coords[i+1], 0))
	}
	return points
}

// Cartographic is a geodetic position.
type Cartographic struct {
	Longitude s1.Angle
	Latitude  s1.Angle
	Height    float64
}

// CartographicFromDegrees creates a Cartographic from degrees and a height.
func CartographicFromDegrees(lon, lat, height float64) Cartographic {
	return Cartographic{
		Longitude: s1.Angle(lon) * s1.Degree,
		Latitude:  s1.Angle(lat) * s1.Degree,
		Height:    height,
	}
}
