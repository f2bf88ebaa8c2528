package polyline

import (
	"slices"

	"github.com/golang/geo/r3"

	"github.com/gogpu/polyline/ellipsoid"
)

// Geometry describes a polyline to be tessellated: its positions, optional
// colors and the rules used to follow the ellipsoid surface.
//
// A Geometry is immutable once created and safe for concurrent reads.
// Use CreateGeometry to produce a Mesh from it.
type Geometry struct {
	positions       []r3.Vector
	colors          []RGBA
	colorsPerVertex bool
	width           float64
	followSurface   bool
	granularity     float64
	ellipsoid       *ellipsoid.Ellipsoid
	lineType        LineType
}

// New validates the parameters and creates a Geometry. Positions and colors
// are copied.
//
// New returns an error wrapping ErrInvalidArgument when fewer than two
// positions are given, when WithColors is passed no colors, or when the
// number of colors does not match: len(positions) for per-vertex colors,
// len(positions)-1 otherwise.
func New(positions []r3.Vector, opts ...Option) (*Geometry, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if positions == nil {
		return nil, invalidArgument("positions are required")
	}
	if o.colorsSet && len(o.colors) == 0 {
		return nil, invalidArgument("colors were supplied but empty")
	}

	g := &Geometry{
		positions:       slices.Clone(positions),
		colors:          slices.Clone(o.colors),
		colorsPerVertex: o.colorsPerVertex,
		width:           o.width,
		followSurface:   o.followSurface,
		granularity:     o.granularity,
		ellipsoid:       o.ellipsoid,
		lineType:        o.lineType,
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// validate checks the position count and the color count. It also guards
// CreateGeometry against geometries rebuilt by Unpack, which trusts its input.
func (g *Geometry) validate() error {
	if len(g.positions) < 2 {
		return invalidArgument("at least two positions are required, got %d", len(g.positions))
	}
	if len(g.colors) == 0 {
		return nil
	}
	want := len(g.positions) - 1
	if g.colorsPerVertex {
		want = len(g.positions)
	}
	if len(g.colors) != want {
		return invalidArgument("expected %d colors for %d positions (per vertex: %t), got %d",
			want, len(g.positions), g.colorsPerVertex, len(g.colors))
	}
	return nil
}

// Positions returns a copy of the input positions.
func (g *Geometry) Positions() []r3.Vector { return slices.Clone(g.positions) }

// NumPositions returns the number of input positions.
func (g *Geometry) NumPositions() int { return len(g.positions) }

// Colors returns a copy of the colors, or nil if the line is uncolored.
func (g *Geometry) Colors() []RGBA {
	if len(g.colors) == 0 {
		return nil
	}
	return slices.Clone(g.colors)
}

// HasColors reports whether colors were supplied.
func (g *Geometry) HasColors() bool { return len(g.colors) > 0 }

// ColorsPerVertex reports whether colors are assigned per position.
func (g *Geometry) ColorsPerVertex() bool { return g.colorsPerVertex }

// Width returns the line width.
func (g *Geometry) Width() float64 { return g.width }

// FollowSurface reports whether segments are subdivided along the ellipsoid.
func (g *Geometry) FollowSurface() bool { return g.followSurface }

// Granularity returns the maximum angle between subdivided vertices.
func (g *Geometry) Granularity() float64 { return g.granularity }

// Ellipsoid returns the reference ellipsoid.
func (g *Geometry) Ellipsoid() *ellipsoid.Ellipsoid { return g.ellipsoid }

// LineType returns the path law.
func (g *Geometry) LineType() LineType { return g.lineType }

// Equal reports whether two geometries have identical parameters.
func (g *Geometry) Equal(other *Geometry) bool {
	if g == nil || other == nil {
		return g == other
	}
	return slices.Equal(g.positions, other.positions) &&
		slices.Equal(g.colors, other.colors) &&
		g.colorsPerVertex == other.colorsPerVertex &&
		g.width == other.width &&
		g.followSurface == other.followSurface &&
		g.granularity == other.granularity &&
		g.ellipsoid.Equal(other.ellipsoid) &&
		g.lineType == other.lineType
}
