package polyline

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gogpu/polyline/bounds"
	"github.com/gogpu/polyline/ellipsoid"
)

var octant = []r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}

func flatten(points []r3.Vector) []float64 {
	out := make([]float64, 0, 3*len(points))
	for _, p := range points {
		out = append(out, p.X, p.Y, p.Z)
	}
	return out
}

func vertex(m *Mesh, i int) r3.Vector {
	return r3.Vector{X: m.Positions[3*i], Y: m.Positions[3*i+1], Z: m.Positions[3*i+2]}
}

func chain(segments int) []uint32 {
	out := make([]uint32, 0, 2*segments)
	for i := range segments {
		out = append(out, uint32(i), uint32(i+1))
	}
	return out
}

func sequence(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}

func mustCreate(t *testing.T, positions []r3.Vector, opts ...Option) *Mesh {
	t.Helper()
	g, err := New(positions, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	m, err := CreateGeometry(g)
	if err != nil {
		t.Fatalf("CreateGeometry() error = %v", err)
	}
	return m
}

func TestCreateGeometryNil(t *testing.T) {
	if _, err := CreateGeometry(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("CreateGeometry(nil) error = %v, want %v", err, ErrInvalidArgument)
	}
}

func TestCreateGeometryNoSubdivision(t *testing.T) {
	positions := []r3.Vector{{}, {X: 1}, {X: 2}}
	m := mustCreate(t, positions, WithFollowSurface(false))

	if diff := cmp.Diff(flatten(positions), m.Positions); diff != "" {
		t.Errorf("Positions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint32{0, 1, 1, 2}, m.Indices); diff != "" {
		t.Errorf("Indices mismatch (-want +got):\n%s", diff)
	}
	if m.Colors != nil {
		t.Errorf("Colors = %v, want nil", m.Colors)
	}
	if m.PrimitiveType != PrimitiveLines {
		t.Errorf("PrimitiveType = %q, want %q", m.PrimitiveType, PrimitiveLines)
	}
	if m.BoundingSphere != bounds.FromPoints(positions) {
		t.Errorf("BoundingSphere = %v, want %v", m.BoundingSphere, bounds.FromPoints(positions))
	}
}

func TestCreateGeometryOctant(t *testing.T) {
	m := mustCreate(t, octant, WithGranularity(math.Pi), WithEllipsoid(ellipsoid.UnitSphere))

	if diff := cmp.Diff(flatten(octant), m.Positions, cmpopts.EquateApprox(0, 1e-10)); diff != "" {
		t.Errorf("Positions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint32{0, 1, 1, 2}, m.Indices); diff != "" {
		t.Errorf("Indices mismatch (-want +got):\n%s", diff)
	}
	if m.PrimitiveType != PrimitiveLines {
		t.Errorf("PrimitiveType = %q, want %q", m.PrimitiveType, PrimitiveLines)
	}
	if m.BoundingSphere != bounds.FromPoints(octant) {
		t.Errorf("BoundingSphere = %v, want %v", m.BoundingSphere, bounds.FromPoints(octant))
	}
}

func TestCreateGeometryRhumbNoSubdivision(t *testing.T) {
	positions := ellipsoid.UnitSphere.CartesianArrayFromDegrees([]float64{
		30, 30,
		30, 60,
		60, 60,
	})
	m := mustCreate(t, positions,
		WithGranularity(math.Pi),
		WithEllipsoid(ellipsoid.UnitSphere),
		WithLineType(LineTypeRhumb))

	if diff := cmp.Diff(flatten(positions), m.Positions, cmpopts.EquateApprox(0, 1e-8)); diff != "" {
		t.Errorf("Positions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint32{0, 1, 1, 2}, m.Indices); diff != "" {
		t.Errorf("Indices mismatch (-want +got):\n%s", diff)
	}
	if m.BoundingSphere != bounds.FromPoints(positions) {
		t.Errorf("BoundingSphere = %v, want %v", m.BoundingSphere, bounds.FromPoints(positions))
	}
}

func TestCreateGeometryColorCounts(t *testing.T) {
	colors := []RGBA{Red, Lime, Blue}
	straight := []r3.Vector{{}, {X: 1}, {X: 2}}

	tests := []struct {
		name       string
		positions  []r3.Vector
		opts       []Option
		wantColors int
		wantIdx    []uint32
	}{
		{
			name:       "per segment",
			positions:  octant,
			opts:       []Option{WithColors(colors[:2]...), WithGranularity(math.Pi), WithEllipsoid(ellipsoid.UnitSphere)},
			wantColors: (2*3 - 2) * 4,
			wantIdx:    []uint32{0, 1, 2, 3},
		},
		{
			name:       "per vertex",
			positions:  octant,
			opts:       []Option{WithColors(colors...), WithColorsPerVertex(true), WithGranularity(math.Pi), WithEllipsoid(ellipsoid.UnitSphere)},
			wantColors: 3 * 4,
			wantIdx:    []uint32{0, 1, 1, 2},
		},
		{
			name:       "per segment no subdivision",
			positions:  straight,
			opts:       []Option{WithColors(colors[:2]...), WithFollowSurface(false)},
			wantColors: (2*3 - 2) * 4,
			wantIdx:    []uint32{0, 1, 2, 3},
		},
		{
			name:       "per vertex no subdivision",
			positions:  straight,
			opts:       []Option{WithColors(colors...), WithColorsPerVertex(true), WithFollowSurface(false)},
			wantColors: 3 * 4,
			wantIdx:    []uint32{0, 1, 1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustCreate(t, tt.positions, tt.opts...)
			if len(m.Colors) != tt.wantColors {
				t.Errorf("len(Colors) = %d, want %d", len(m.Colors), tt.wantColors)
			}
			if len(m.Colors)/4 != m.VertexCount() {
				t.Errorf("%d colors for %d vertices", len(m.Colors)/4, m.VertexCount())
			}
			if diff := cmp.Diff(tt.wantIdx, m.Indices); diff != "" {
				t.Errorf("Indices mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCreateGeometryPerSegmentNoSubdivisionValues(t *testing.T) {
	positions := []r3.Vector{{}, {X: 1}, {X: 2}}
	m := mustCreate(t, positions, WithColors(Red, Blue), WithFollowSurface(false))

	wantPositions := []float64{0, 0, 0, 1, 0, 0, 1, 0, 0, 2, 0, 0}
	if diff := cmp.Diff(wantPositions, m.Positions); diff != "" {
		t.Errorf("Positions mismatch (-want +got):\n%s", diff)
	}
	wantColors := []float32{1, 0, 0, 1, 1, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 1}
	if diff := cmp.Diff(wantColors, m.Colors); diff != "" {
		t.Errorf("Colors mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateGeometrySubdividedChain(t *testing.T) {
	m := mustCreate(t, octant, WithGranularity(0.4), WithEllipsoid(ellipsoid.UnitSphere))

	// Each quarter circle is split in four.
	if m.VertexCount() != 9 {
		t.Fatalf("VertexCount() = %d, want 9", m.VertexCount())
	}
	if diff := cmp.Diff(chain(8), m.Indices); diff != "" {
		t.Errorf("Indices mismatch (-want +got):\n%s", diff)
	}
	for i, want := range octant {
		if got := vertex(m, 4*i); got != want {
			t.Errorf("vertex %d = %v, want original position %v", 4*i, got, want)
		}
	}
	for i := range m.VertexCount() {
		if r := vertex(m, i).Norm(); math.Abs(r-1) > 1e-12 {
			t.Errorf("vertex %d is off the sphere: |p| = %v", i, r)
		}
	}
	for i := 1; i < 4; i++ {
		angle := float64(i) * math.Pi / 8
		want := r3.Vector{X: math.Cos(angle), Y: math.Sin(angle)}
		if got := vertex(m, i); got.Sub(want).Norm() > 1e-12 {
			t.Errorf("vertex %d = %v, want %v", i, got, want)
		}
	}
}

func TestCreateGeometryPerSegmentSubdivided(t *testing.T) {
	m := mustCreate(t, octant,
		WithGranularity(0.4),
		WithEllipsoid(ellipsoid.UnitSphere),
		WithColors(Red, Lime))

	const subSegments = 8
	if m.VertexCount() != 2*subSegments {
		t.Fatalf("VertexCount() = %d, want %d", m.VertexCount(), 2*subSegments)
	}
	if diff := cmp.Diff(sequence(2*subSegments), m.Indices); diff != "" {
		t.Errorf("Indices mismatch (-want +got):\n%s", diff)
	}

	// The shared original vertex appears once for each segment.
	if vertex(m, 7) != octant[1] || vertex(m, 8) != octant[1] {
		t.Errorf("vertices 7 and 8 = %v, %v, want %v", vertex(m, 7), vertex(m, 8), octant[1])
	}
	// Interior sub-segment endpoints are duplicated too.
	if vertex(m, 1) != vertex(m, 2) {
		t.Errorf("vertex 1 = %v, vertex 2 = %v, want equal", vertex(m, 1), vertex(m, 2))
	}

	for i := range m.VertexCount() {
		want := []float32{1, 0, 0, 1}
		if i >= subSegments {
			want = []float32{0, 1, 0, 1}
		}
		if diff := cmp.Diff(want, m.Colors[4*i:4*i+4]); diff != "" {
			t.Errorf("color of vertex %d (-want +got):\n%s", i, diff)
		}
	}
}

func TestCreateGeometryPerVertexInterpolation(t *testing.T) {
	m := mustCreate(t, octant[:2],
		WithGranularity(0.4),
		WithEllipsoid(ellipsoid.UnitSphere),
		WithColors(Red, Blue),
		WithColorsPerVertex(true))

	want := []float32{
		1, 0, 0, 1,
		0.75, 0, 0.25, 1,
		0.5, 0, 0.5, 1,
		0.25, 0, 0.75, 1,
		0, 0, 1, 1,
	}
	if diff := cmp.Diff(want, m.Colors); diff != "" {
		t.Errorf("Colors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(chain(4), m.Indices); diff != "" {
		t.Errorf("Indices mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateGeometryRhumbSubdivided(t *testing.T) {
	e := ellipsoid.UnitSphere
	positions := e.CartesianArrayFromDegrees([]float64{
		30, 30,
		30, 60,
		60, 60,
	})
	m := mustCreate(t, positions,
		WithGranularity(0.1),
		WithEllipsoid(e),
		WithLineType(LineTypeRhumb))

	// 30° of meridian needs 6 steps; 30° of longitude at 60° latitude needs 3.
	if m.VertexCount() != 10 {
		t.Fatalf("VertexCount() = %d, want 10", m.VertexCount())
	}
	if diff := cmp.Diff(chain(9), m.Indices); diff != "" {
		t.Errorf("Indices mismatch (-want +got):\n%s", diff)
	}

	for i := range m.VertexCount() {
		c, ok := e.CartesianToCartographic(vertex(m, i))
		if !ok {
			t.Fatalf("vertex %d has no cartographic position", i)
		}
		switch {
		case i <= 6:
			if d := math.Abs(c.Longitude.Degrees() - 30); d > 1e-9 {
				t.Errorf("vertex %d longitude = %v, want 30", i, c.Longitude.Degrees())
			}
		default:
			if d := math.Abs(c.Latitude.Degrees() - 60); d > 1e-9 {
				t.Errorf("vertex %d latitude = %v, want 60", i, c.Latitude.Degrees())
			}
		}
	}
}

func TestCreateGeometryGranularityBound(t *testing.T) {
	e := ellipsoid.WGS84
	positions := e.CartesianArrayFromDegrees([]float64{-75, 35, -125, 35, -100, 60})

	for _, lt := range []LineType{LineTypeGeodesic, LineTypeRhumb} {
		t.Run(lt.String(), func(t *testing.T) {
			g, err := New(positions, WithLineType(lt))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			m, err := CreateGeometry(g)
			if err != nil {
				t.Fatalf("CreateGeometry() error = %v", err)
			}

			if m.VertexCount() <= len(positions) {
				t.Fatalf("VertexCount() = %d, expected subdivision", m.VertexCount())
			}
			// Curvature radii on the ellipsoid reach a²/b, slightly above a.
			maxStep := g.Granularity() * e.MaximumRadius() * 1.01
			for i := 1; i < m.VertexCount(); i++ {
				if d := vertex(m, i).Distance(vertex(m, i-1)); d > maxStep {
					t.Errorf("step %d is %v m, longer than %v m", i, d, maxStep)
				}
			}
			for i := range m.VertexCount() {
				c, ok := e.CartesianToCartographic(vertex(m, i))
				if !ok || math.Abs(c.Height) > 1e-3 {
					t.Errorf("vertex %d height = %v, want on the surface", i, c.Height)
				}
			}
		})
	}
}

func TestCreateGeometryStraightFollowsGeodesic(t *testing.T) {
	positions := ellipsoid.WGS84.CartesianArrayFromDegrees([]float64{0, 0, 40, 20})

	geodesic := mustCreate(t, positions, WithLineType(LineTypeGeodesic))
	straight := mustCreate(t, positions, WithLineType(LineTypeStraight))
	if diff := cmp.Diff(geodesic, straight); diff != "" {
		t.Errorf("straight line differs from geodesic (-geodesic +straight):\n%s", diff)
	}

	flat := mustCreate(t, positions, WithLineType(LineTypeStraight), WithFollowSurface(false))
	if flat.VertexCount() != 2 {
		t.Errorf("VertexCount() without surface following = %d, want 2", flat.VertexCount())
	}
}

func TestCreateGeometryCoincidentPoints(t *testing.T) {
	p := ellipsoid.WGS84.CartesianFromDegrees(10, 20, 0)
	for _, lt := range []LineType{LineTypeGeodesic, LineTypeRhumb, LineTypeStraight} {
		m := mustCreate(t, []r3.Vector{p, p}, WithLineType(lt))
		if m.VertexCount() != 2 {
			t.Errorf("%v: VertexCount() = %d, want 2", lt, m.VertexCount())
		}
		if diff := cmp.Diff([]uint32{0, 1}, m.Indices); diff != "" {
			t.Errorf("%v: Indices mismatch (-want +got):\n%s", lt, diff)
		}
	}
}

func TestCreateGeometryIdempotent(t *testing.T) {
	positions := ellipsoid.WGS84.CartesianArrayFromDegrees([]float64{-75, 35, -125, 35, -100, 60})
	g, err := New(positions,
		WithColors(Red, Lime, Blue),
		WithColorsPerVertex(true),
		WithLineType(LineTypeRhumb))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	before := g.Positions()

	first, err := CreateGeometry(g)
	if err != nil {
		t.Fatalf("CreateGeometry() error = %v", err)
	}
	second, err := CreateGeometry(g)
	if err != nil {
		t.Fatalf("CreateGeometry() error = %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second call differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, g.Positions()); diff != "" {
		t.Errorf("CreateGeometry modified its input:\n%s", diff)
	}
}

func TestCreateGeometryCenterPoint(t *testing.T) {
	m := mustCreate(t, []r3.Vector{{}, {X: 1}}, WithEllipsoid(ellipsoid.UnitSphere), WithGranularity(0.01))
	if m.VertexCount() != 2 {
		t.Errorf("VertexCount() = %d, want 2", m.VertexCount())
	}
}

func TestCreateGeometryRejectsUnpackedInvalid(t *testing.T) {
	g, _ := Unpack([]float64{1, 1, 2, 3, 0, 0, 1, 1, 1, 0, 0.1, 1, 1}, 0, nil)
	if _, err := CreateGeometry(g); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("CreateGeometry() error = %v, want %v", err, ErrInvalidArgument)
	}
}

func TestCreateGeometryGranularityLimits(t *testing.T) {
	quarter := []r3.Vector{{X: 1}, {Y: 1}}
	unit := WithEllipsoid(ellipsoid.UnitSphere)

	tests := []struct {
		name      string
		positions []r3.Vector
		opts      []Option
		vertices  int
		wantErr   bool
	}{
		{"zero", quarter, []Option{unit, WithGranularity(0)}, 2, false},
		{"negative", quarter, []Option{unit, WithGranularity(-0.1)}, 2, false},
		{"infinite", quarter, []Option{unit, WithGranularity(math.Inf(1))}, 2, false},
		{"nan", quarter, []Option{unit, WithGranularity(math.NaN())}, 2, false},
		{"fine", quarter, []Option{unit, WithGranularity(math.Pi / 2 / 999.5)}, 1001, false},
		{"denormal", quarter, []Option{unit, WithGranularity(1e-320)}, 0, true},
		{"tiny on wgs84", ellipsoid.WGS84.CartesianArrayFromDegrees([]float64{0, 0, 90, 0}),
			[]Option{WithGranularity(1e-12)}, 0, true},
		{"tiny per segment", quarter, []Option{unit, WithGranularity(1e-9), WithColors(Red)}, 0, true},
		{"tiny rhumb", ellipsoid.WGS84.CartesianArrayFromDegrees([]float64{-75, 35, -125, 35}),
			[]Option{WithGranularity(1e-320), WithLineType(LineTypeRhumb)}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.positions, tt.opts...)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			m, err := CreateGeometry(g)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("CreateGeometry() error = %v, want %v", err, ErrInvalidArgument)
				}
				if m != nil {
					t.Errorf("CreateGeometry() mesh = %d vertices, want nil", m.VertexCount())
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateGeometry() error = %v", err)
			}
			if m.VertexCount() != tt.vertices {
				t.Errorf("VertexCount() = %d, want %d", m.VertexCount(), tt.vertices)
			}
			if diff := cmp.Diff(chain(tt.vertices-1), m.Indices); diff != "" {
				t.Errorf("Indices mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCreateGeometryUnknownLineType(t *testing.T) {
	positions := ellipsoid.WGS84.CartesianArrayFromDegrees([]float64{0, 0, 90, 0})
	want := mustCreate(t, positions, WithLineType(LineTypeGeodesic))
	got := mustCreate(t, positions, WithLineType(LineType(7)))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unknown line type does not subdivide as geodesic (-want +got):\n%s", diff)
	}
}

func BenchmarkCreateGeometry(b *testing.B) {
	positions := ellipsoid.WGS84.CartesianArrayFromDegrees([]float64{-75, 35, -125, 35, -100, 60, -60, 10})

	for _, lt := range []LineType{LineTypeGeodesic, LineTypeRhumb} {
		g, err := New(positions, WithLineType(lt), WithColors(Red, Lime, Blue))
		if err != nil {
			b.Fatal(err)
		}
		b.Run(lt.String(), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := CreateGeometry(g); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
