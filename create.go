package polyline

import (
	"github.com/golang/geo/r3"

	"github.com/gogpu/polyline/bounds"
	"github.com/gogpu/polyline/internal/arc"
)

// MaxVertices is the largest mesh CreateGeometry builds. Geometries whose
// granularity would need more vertices are rejected with ErrInvalidArgument.
const MaxVertices = 1 << 24

// CreateGeometry tessellates g into a LINES mesh.
//
// Each original segment is subdivided along the geometry's line type so that
// adjacent vertices are at most Granularity radians apart, unless
// FollowSurface is false, in which case the input positions are used as is.
//
// Without colors, and with per-vertex colors, vertices are shared: the end of
// one segment is the start of the next and indices form the chain
// [0,1, 1,2, 2,3, ...]. Per-vertex colors are interpolated across subdivided
// vertices. With per-segment colors every sub-segment gets its own pair of
// vertices so each original segment carries one flat color.
//
// CreateGeometry is deterministic and does not modify g.
func CreateGeometry(g *Geometry) (*Mesh, error) {
	if g == nil {
		return nil, invalidArgument("geometry is nil")
	}
	if err := g.validate(); err != nil {
		return nil, err
	}

	if !g.lineType.known() {
		Logger().Debug("polyline: unknown line type, subdividing as geodesic",
			"lineType", g.lineType)
	}

	law := g.law()
	perSegment := g.HasColors() && !g.colorsPerVertex
	segments := make([]arc.Segment, len(g.positions)-1)
	total := 0
	for i := range segments {
		segments[i] = arc.Plan(g.ellipsoid, law, g.positions[i], g.positions[i+1], g.granularity)
		total += segments[i].Count()
		if total > MaxVertices {
			break
		}
	}

	vertices := total + 1
	if perSegment {
		vertices = 2 * total
	}
	if vertices > MaxVertices {
		return nil, invalidArgument("granularity %g needs more than %d vertices", g.granularity, MaxVertices)
	}

	var a assembler
	if perSegment {
		a.perSegment(g, segments, total)
	} else {
		a.shared(g, segments, total)
	}

	Logger().Debug("polyline: tessellated",
		"lineType", g.lineType,
		"followSurface", g.followSurface,
		"positions", len(g.positions),
		"subSegments", total,
		"vertices", len(a.positions)/3)

	return &Mesh{
		Positions:      a.positions,
		Colors:         a.colors,
		Indices:        a.indices,
		PrimitiveType:  PrimitiveLines,
		BoundingSphere: bounds.FromPoints(g.positions),
	}, nil
}

// law maps the line type to a subdivision law. Straight lines that follow the
// surface are subdivided like geodesics.
func (g *Geometry) law() arc.Law {
	if !g.followSurface {
		return arc.Chord
	}
	switch g.lineType {
	case LineTypeRhumb:
		return arc.Rhumb
	default:
		return arc.Geodesic
	}
}

// assembler accumulates the attribute streams of a mesh. Buffers are sized
// exactly before the first append.
type assembler struct {
	positions []float64
	colors    []float32
	indices   []uint32
}

func (a *assembler) shared(g *Geometry, segments []arc.Segment, total int) {
	vertices := total + 1
	a.positions = make([]float64, 0, 3*vertices)
	a.indices = make([]uint32, 0, 2*total)
	colored := g.HasColors()
	if colored {
		a.colors = make([]float32, 0, 4*vertices)
	}

	a.addPosition(g.positions[0])
	if colored {
		a.addColor(g.colors[0])
	}

	for i, s := range segments {
		n := s.Count()
		for j := 1; j <= n; j++ {
			k := uint32(len(a.positions) / 3)
			a.addPosition(s.Point(j))
			a.indices = append(a.indices, k-1, k)
			if !colored {
				continue
			}
			if j == n {
				a.addColor(g.colors[i+1])
			} else {
				a.addColor(g.colors[i].Lerp(g.colors[i+1], s.Fraction(j)))
			}
		}
	}
}

func (a *assembler) perSegment(g *Geometry, segments []arc.Segment, total int) {
	vertices := 2 * total
	a.positions = make([]float64, 0, 3*vertices)
	a.colors = make([]float32, 0, 4*vertices)
	a.indices = make([]uint32, 0, vertices)

	for i, s := range segments {
		c := g.colors[i]
		prev := s.Point(0)
		for j := 1; j <= s.Count(); j++ {
			next := s.Point(j)
			k := uint32(len(a.positions) / 3)
			a.addPosition(prev)
			a.addPosition(next)
			a.addColor(c)
			a.addColor(c)
			a.indices = append(a.indices, k, k+1)
			prev = next
		}
	}
}

func (a *assembler) addPosition(p r3.Vector) {
	a.positions = append(a.positions, p.X, p.Y, p.Z)
}

func (a *assembler) addColor(c RGBA) {
	a.colors = append(a.colors, float32(c.R), float32(c.G), float32(c.B), float32(c.A))
}
