package polyline

import (
	"math"

	"github.com/gogpu/polyline/ellipsoid"
)

// DefaultGranularity is the default maximum angle, in radians, between
// adjacent vertices of a subdivided segment (0.05°).
const DefaultGranularity = math.Pi / 3600

// Option configures a Geometry during construction.
//
// Example:
//
//	g, err := polyline.New(positions,
//	    polyline.WithLineType(polyline.LineTypeRhumb),
//	    polyline.WithColors(polyline.Red, polyline.Blue),
//	    polyline.WithColorsPerVertex(true),
//	)
type Option func(*options)

// options holds optional configuration for Geometry creation.
type options struct {
	colors          []RGBA
	colorsSet       bool
	colorsPerVertex bool
	width           float64
	followSurface   bool
	granularity     float64
	ellipsoid       *ellipsoid.Ellipsoid
	lineType        LineType
}

func defaultOptions() options {
	return options{
		width:         1.0,
		followSurface: true,
		granularity:   DefaultGranularity,
		ellipsoid:     ellipsoid.WGS84,
		lineType:      LineTypeGeodesic,
	}
}

// WithColors sets the colors of the polyline: one per position when
// colors are per vertex, otherwise one per segment. Passing no colors is
// an error at construction; omit the option to leave the line uncolored.
func WithColors(colors ...RGBA) Option {
	return func(o *options) {
		o.colors = colors
		o.colorsSet = true
	}
}

// WithColorsPerVertex selects per-vertex colors, interpolated across
// subdivided segments. The default assigns one flat color per segment.
func WithColorsPerVertex(perVertex bool) Option {
	return func(o *options) {
		o.colorsPerVertex = perVertex
	}
}

// WithWidth sets the line width in pixels. The width is carried through for
// renderers and does not affect the generated geometry.
func WithWidth(width float64) Option {
	return func(o *options) {
		o.width = width
	}
}

// WithFollowSurface controls subdivision. When false, the input positions
// are used as vertices directly, whatever the line type.
func WithFollowSurface(follow bool) Option {
	return func(o *options) {
		o.followSurface = follow
	}
}

// WithGranularity sets the maximum angle in radians between adjacent
// vertices of a subdivided segment.
func WithGranularity(radians float64) Option {
	return func(o *options) {
		o.granularity = radians
	}
}

// WithEllipsoid sets the reference ellipsoid. A nil ellipsoid keeps the default.
func WithEllipsoid(e *ellipsoid.Ellipsoid) Option {
	return func(o *options) {
		if e != nil {
			o.ellipsoid = e
		}
	}
}

// WithLineType sets the path law used when subdividing segments.
func WithLineType(t LineType) Option {
	return func(o *options) {
		o.lineType = t
	}
}
