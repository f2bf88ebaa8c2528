package polyline

import (
	"github.com/golang/geo/r3"
	"github.com/twpayne/go-geom"
)

// FromLineString creates a Geometry from a go-geom LineString whose X and Y
// are longitude and latitude in degrees. For layouts with a Z ordinate, Z is
// the height in meters; M is ignored.
func FromLineString(ls *geom.LineString, opts ...Option) (*Geometry, error) {
	if ls == nil {
		return nil, invalidArgument("line string is nil")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	zIndex := ls.Layout().ZIndex()
	positions := make([]r3.Vector, ls.NumCoords())
	for i := range positions {
		c := ls.Coord(i)
		var h float64
		if zIndex >= 0 {
			h = c[zIndex]
		}
		positions[i] = o.ellipsoid.CartesianFromDegrees(c.X(), c.Y(), h)
	}
	return New(positions, opts...)
}
