// Package bounds computes bounding volumes for vertex data.
package bounds

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Sphere is a bounding sphere.
type Sphere struct {
	Center r3.Vector
	Radius float64
}

// FromPoints returns a tight sphere enclosing all points.
//
// Two candidates are computed in a single extra pass: Ritter's sphere, grown
// from the pair of extreme points along the axis of largest spread, and the
// sphere centered on the axis-aligned bounding box. The smaller one wins.
// An empty input yields the zero sphere.
func FromPoints(points []r3.Vector) Sphere {
	if len(points) == 0 {
		return Sphere{}
	}

	first := points[0]
	xMin, yMin, zMin := first, first, first
	xMax, yMax, zMax := first, first, first

	for _, p := range points[1:] {
		if p.X < xMin.X {
			xMin = p
		}
		if p.X > xMax.X {
			xMax = p
		}
		if p.Y < yMin.Y {
			yMin = p
		}
		if p.Y > yMax.Y {
			yMax = p
		}
		if p.Z < zMin.Z {
			zMin = p
		}
		if p.Z > zMax.Z {
			zMax = p
		}
	}

	xSpan := xMax.Sub(xMin).Norm2()
	ySpan := yMax.Sub(yMin).Norm2()
	zSpan := zMax.Sub(zMin).Norm2()

	d1, d2 := xMin, xMax
	maxSpan := xSpan
	if ySpan > maxSpan {
		maxSpan = ySpan
		d1, d2 = yMin, yMax
	}
	if zSpan > maxSpan {
		d1, d2 = zMin, zMax
	}

	ritterCenter := d1.Add(d2).Mul(0.5)
	radiusSquared := d2.Sub(ritterCenter).Norm2()
	ritterRadius := math.Sqrt(radiusSquared)

	minBox := r3.Vector{X: xMin.X, Y: yMin.Y, Z: zMin.Z}
	maxBox := r3.Vector{X: xMax.X, Y: yMax.Y, Z: zMax.Z}
	naiveCenter := minBox.Add(maxBox).Mul(0.5)
	naiveRadius := 0.0

	for _, p := range points {
		if r := p.Sub(naiveCenter).Norm(); r > naiveRadius {
			naiveRadius = r
		}

		d2 := p.Sub(ritterCenter).Norm2()
		if d2 > radiusSquared {
			d := math.Sqrt(d2)
			ritterRadius = (ritterRadius + d) * 0.5
			radiusSquared = ritterRadius * ritterRadius
			shift := d - ritterRadius
			ritterCenter = ritterCenter.Mul(ritterRadius).Add(p.Mul(shift)).Mul(1 / d)
		}
	}

	if ritterRadius < naiveRadius {
		return Sphere{Center: ritterCenter, Radius: ritterRadius}
	}
	return Sphere{Center: naiveCenter, Radius: naiveRadius}
}

// Contains reports whether p lies inside the sphere, allowing a tolerance.
func (s Sphere) Contains(p r3.Vector, tolerance float64) bool {
	return p.Distance(s.Center) <= s.Radius+tolerance
}

// String returns a human-readable description of the sphere.
func (s Sphere) String() string {
	return fmt.Sprintf("Sphere(center=(%g, %g, %g), radius=%g)", s.Center.X, s.Center.Y, s.Center.Z, s.Radius)
}
