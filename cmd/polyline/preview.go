package main

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/golang/geo/r3"
	"golang.org/x/image/vector"

	"github.com/gogpu/polyline"
)

var previewBackground = color.NRGBA{R: 16, G: 24, B: 40, A: 255}

// projector maps Earth-centered points to equirectangular pixel coordinates.
type projector struct {
	geometry *polyline.Geometry
	w, h     float32
}

func (p projector) project(m *polyline.Mesh, vertex uint32) (x, y float32, ok bool) {
	i := 3 * int(vertex)
	v := r3.Vector{X: m.Positions[i], Y: m.Positions[i+1], Z: m.Positions[i+2]}
	c, ok := p.geometry.Ellipsoid().CartesianToCartographic(v)
	if !ok {
		return 0, 0, false
	}
	x = float32((c.Longitude.Degrees() + 180) / 360 * float64(p.w))
	y = float32((90 - c.Latitude.Degrees()) / 180 * float64(p.h))
	return x, y, true
}

// renderPreview draws every mesh segment as a quad of the geometry's width
// and encodes the image as PNG.
func renderPreview(w io.Writer, width int, geometries []*polyline.Geometry, meshes []*polyline.Mesh) error {
	height := width / 2
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(previewBackground), image.Point{}, draw.Src)

	z := vector.NewRasterizer(width, height)
	for k, m := range meshes {
		g := geometries[k]
		p := projector{geometry: g, w: float32(width), h: float32(height)}
		half := float32(math.Max(g.Width(), 1)) / 2

		for s := 0; s+1 < len(m.Indices); s += 2 {
			a, b := m.Indices[s], m.Indices[s+1]
			ax, ay, okA := p.project(m, a)
			bx, by, okB := p.project(m, b)
			// Segments crossing the antimeridian would span the whole map.
			if !okA || !okB || math.Abs(float64(bx-ax)) > float64(width)/2 {
				continue
			}

			z.Reset(width, height)
			segmentQuad(z, ax, ay, bx, by, half)
			z.Draw(dst, dst.Bounds(), image.NewUniform(segmentColor(m, a, b)), image.Point{})
		}
	}
	return png.Encode(w, dst)
}

// segmentQuad adds the outline of a line of half-width half from a to b.
func segmentQuad(z *vector.Rasterizer, ax, ay, bx, by, half float32) {
	dx, dy := bx-ax, by-ay
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		dx, dy, l = 1, 0, 1
	}
	nx, ny := -dy/l*half, dx/l*half

	z.MoveTo(ax+nx, ay+ny)
	z.LineTo(bx+nx, by+ny)
	z.LineTo(bx-nx, by-ny)
	z.LineTo(ax-nx, ay-ny)
	z.ClosePath()
}

// segmentColor averages the colors of the segment's two vertices, or returns
// white for uncolored meshes.
func segmentColor(m *polyline.Mesh, a, b uint32) color.Color {
	if !m.HasColors() {
		return color.White
	}
	ca, cb := m.Colors[4*a:4*a+4], m.Colors[4*b:4*b+4]
	c := polyline.RGBA{
		R: float64(ca[0]+cb[0]) / 2,
		G: float64(ca[1]+cb[1]) / 2,
		B: float64(ca[2]+cb[2]) / 2,
		A: float64(ca[3]+cb[3]) / 2,
	}
	return c.Color()
}
