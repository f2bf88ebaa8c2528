package ellipsoid

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
)

// maxLatitude keeps isometric latitude finite near the poles.
const maxLatitude = math.Pi/2 - 1e-9

// flatPsi is the isometric latitude difference below which a rhumb line is
// treated as running due east or west.
const flatPsi = 1e-12

// RhumbLine is the loxodrome between two points: a path that crosses every
// meridian at the same bearing. Latitude advances linearly with the
// interpolation fraction and longitude follows from the constant bearing.
type RhumbLine struct {
	e          *Ellipsoid
	ecc        float64
	lat0, lon0 float64
	dLat, dLon float64
	psi0, dPsi float64
	h0, h1     float64
	angle      s1.Angle
}

// NewRhumbLine prepares the rhumb line from p0 to p1. It reports false if
// either point is at the ellipsoid center.
func (e *Ellipsoid) NewRhumbLine(p0, p1 r3.Vector) (*RhumbLine, bool) {
	c0, ok := e.CartesianToCartographic(p0)
	if !ok {
		return nil, false
	}
	c1, ok := e.CartesianToCartographic(p1)
	if !ok {
		return nil, false
	}

	ecc := e.eccentricity()
	lat0 := clampLatitude(c0.Latitude.Radians())
	lat1 := clampLatitude(c1.Latitude.Radians())
	lon0 := c0.Longitude.Radians()

	r := &RhumbLine{
		e:    e,
		ecc:  ecc,
		lat0: lat0,
		lon0: lon0,
		dLat: lat1 - lat0,
		dLon: wrapLongitude(c1.Longitude.Radians() - lon0),
		psi0: isometricLatitude(lat0, ecc),
		h0:   c0.Height,
		h1:   c1.Height,
	}
	r.dPsi = isometricLatitude(lat1, ecc) - r.psi0

	q := math.Cos(lat0)
	if math.Abs(r.dPsi) > flatPsi {
		q = r.dLat / r.dPsi
	}
	r.angle = s1.Angle(math.Hypot(r.dLat, q*r.dLon))

	return r, true
}

// Angle returns the angular length of the path on the auxiliary sphere.
func (r *RhumbLine) Angle() s1.Angle { return r.angle }

// Heading returns the constant bearing, clockwise from north.
func (r *RhumbLine) Heading() s1.Angle {
	return s1.Angle(math.Atan2(r.dLon, r.dPsi))
}

// Interpolate returns the point at fraction t of the path.
func (r *RhumbLine) Interpolate(t float64) r3.Vector {
	lat := r.lat0 + r.dLat*t

	var lon float64
	if math.Abs(r.dPsi) > flatPsi {
		lon = r.lon0 + r.dLon*(isometricLatitude(lat, r.ecc)-r.psi0)/r.dPsi
	} else {
		lon = r.lon0 + r.dLon*t
	}

	return r.e.CartographicToCartesian(Cartographic{
		Longitude: s1.Angle(wrapLongitude(lon)),
		Latitude:  s1.Angle(lat),
		Height:    r.h0 + (r.h1-r.h0)*t,
	})
}

// RhumbAngle returns the angular length of the rhumb line between p0 and p1,
// or 0 if either point has no geodetic position.
func (e *Ellipsoid) RhumbAngle(p0, p1 r3.Vector) s1.Angle {
	r, ok := e.NewRhumbLine(p0, p1)
	if !ok {
		return 0
	}
	return r.Angle()
}

// RhumbInterpolate returns the point at fraction t of the rhumb line from p0
// to p1. Points without a geodetic position interpolate along the chord.
func (e *Ellipsoid) RhumbInterpolate(p0, p1 r3.Vector, t float64) r3.Vector {
	r, ok := e.NewRhumbLine(p0, p1)
	if !ok {
		return lerp(p0, p1, t)
	}
	return r.Interpolate(t)
}

// isometricLatitude returns the Mercator ordinate of a geodetic latitude.
func isometricLatitude(lat, ecc float64) float64 {
	s := math.Sin(lat)
	return math.Atanh(s) - ecc*math.Atanh(ecc*s)
}

func clampLatitude(lat float64) float64 {
	return math.Max(-maxLatitude, math.Min(maxLatitude, lat))
}

// wrapLongitude maps an angle into [-π, π].
func wrapLongitude(lon float64) float64 {
	for lon > math.Pi {
		lon -= 2 * math.Pi
	}
	for lon < -math.Pi {
		lon += 2 * math.Pi
	}
	return lon
}
