package polyline

import (
	"fmt"

	"github.com/golang/geo/r3"
	geojson "github.com/paulmach/go.geojson"

	"github.com/gogpu/polyline/ellipsoid"
)

// Simplestyle property names read from GeoJSON features.
const (
	propStroke        = "stroke"
	propStrokeWidth   = "stroke-width"
	propStrokeOpacity = "stroke-opacity"
)

// FromGeoJSON creates a Geometry from a GeoJSON Feature or bare Geometry of
// type LineString. Coordinates are [longitude, latitude] or
// [longitude, latitude, height] in degrees and meters on the ellipsoid
// selected by opts.
//
// Feature properties follow the simplestyle conventions: "stroke" colors the
// line, "stroke-opacity" sets its alpha and "stroke-width" its width.
// Options passed explicitly take precedence over properties.
func FromGeoJSON(data []byte, opts ...Option) (*Geometry, error) {
	f, err := geojson.UnmarshalFeature(data)
	if err != nil {
		return nil, fmt.Errorf("polyline: decode geojson: %w", err)
	}
	if f.Type == "Feature" {
		return fromFeature(f, opts)
	}

	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("polyline: decode geojson: %w", err)
	}
	return fromGeoJSONGeometry(g, nil, opts)
}

// FromFeatureCollection creates one Geometry per LineString feature of a
// GeoJSON FeatureCollection, in order. Features of other geometry types are
// skipped.
func FromFeatureCollection(data []byte, opts ...Option) ([]*Geometry, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("polyline: decode geojson: %w", err)
	}

	geometries := make([]*Geometry, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry == nil || !f.Geometry.IsLineString() {
			Logger().Debug("polyline: skipping feature", "index", i, "id", f.ID)
			continue
		}
		g, err := fromFeature(f, opts)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		geometries = append(geometries, g)
	}
	return geometries, nil
}

func fromFeature(f *geojson.Feature, opts []Option) (*Geometry, error) {
	if f.Geometry == nil {
		return nil, invalidArgument("feature has no geometry")
	}
	return fromGeoJSONGeometry(f.Geometry, f, opts)
}

func fromGeoJSONGeometry(g *geojson.Geometry, f *geojson.Feature, opts []Option) (*Geometry, error) {
	if !g.IsLineString() {
		return nil, invalidArgument("geojson geometry type %q is not a LineString", g.Type)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	positions, err := positionsFromCoords(o.ellipsoid, g.LineString)
	if err != nil {
		return nil, err
	}

	var styled []Option
	if f != nil {
		styled, err = styleOptions(f, o, len(positions))
		if err != nil {
			return nil, err
		}
	}
	return New(positions, append(styled, opts...)...)
}

func positionsFromCoords(e *ellipsoid.Ellipsoid, coords [][]float64) ([]r3.Vector, error) {
	positions := make([]r3.Vector, len(coords))
	for i, c := range coords {
		var h float64
		switch len(c) {
		case 2:
		case 3:
			h = c[2]
		default:
			return nil, invalidArgument("coordinate %d has %d values, want 2 or 3", i, len(c))
		}
		positions[i] = e.CartesianFromDegrees(c[0], c[1], h)
	}
	return positions, nil
}

// styleOptions converts simplestyle properties into options. Properties that
// an explicit option already covers are ignored.
func styleOptions(f *geojson.Feature, o options, numPositions int) ([]Option, error) {
	var styled []Option

	if s, err := f.PropertyString(propStroke); err == nil && !o.colorsSet {
		c, err := ParseHex(s)
		if err != nil {
			return nil, fmt.Errorf("%w: property %q: %w", ErrInvalidArgument, propStroke, err)
		}
		if a, err := f.PropertyFloat64(propStrokeOpacity); err == nil {
			c.A = a
		}
		n := numPositions - 1
		if o.colorsPerVertex {
			n = numPositions
		}
		if n > 0 {
			colors := make([]RGBA, n)
			for i := range colors {
				colors[i] = c
			}
			styled = append(styled, WithColors(colors...))
		}
	}

	if w, err := f.PropertyFloat64(propStrokeWidth); err == nil && w > 0 {
		styled = append(styled, WithWidth(w))
	}
	return styled, nil
}
