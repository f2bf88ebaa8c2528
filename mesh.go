package polyline

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/polyline/bounds"
)

// PrimitiveType tags how a Mesh's indices are to be interpreted.
type PrimitiveType string

// PrimitiveLines means every pair of indices is an independent line segment.
const PrimitiveLines PrimitiveType = "LINES"

// Vertex attribute shader locations used by VertexBufferLayouts.
const (
	PositionLocation uint32 = 0
	ColorLocation    uint32 = 1
)

// Mesh is the tessellated output of CreateGeometry.
//
// Positions holds 3 components per vertex and Colors, when the geometry was
// colored, 4 components per vertex. Indices pairs vertices into line
// segments. BoundingSphere encloses the original, unsubdivided positions.
type Mesh struct {
	Positions      []float64
	Colors         []float32
	Indices        []uint32
	PrimitiveType  PrimitiveType
	BoundingSphere bounds.Sphere
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) / 3 }

// SegmentCount returns the number of rendered line segments.
func (m *Mesh) SegmentCount() int { return len(m.Indices) / 2 }

// HasColors reports whether the mesh carries a color attribute.
func (m *Mesh) HasColors() bool { return m.Colors != nil }

// Topology returns the GPU primitive topology for the mesh.
func (m *Mesh) Topology() gputypes.PrimitiveTopology {
	return gputypes.PrimitiveTopologyLineList
}

// PrimitiveState returns a render pipeline primitive state for drawing the mesh.
// Lines have no faces, so culling is disabled.
func (m *Mesh) PrimitiveState() gputypes.PrimitiveState {
	return gputypes.PrimitiveState{
		Topology:  m.Topology(),
		FrontFace: gputypes.FrontFaceCCW,
		CullMode:  gputypes.CullModeNone,
	}
}

// VertexBufferLayouts describes the vertex buffers of the mesh: positions as
// float32x3 at PositionLocation and, if present, colors as float32x4 at
// ColorLocation. Positions are expected to be uploaded in the form returned
// by RelativePositions.
func (m *Mesh) VertexBufferLayouts() []gputypes.VertexBufferLayout {
	layouts := []gputypes.VertexBufferLayout{{
		ArrayStride: gputypes.VertexFormatFloat32x3.Size(),
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{{
			Format:         gputypes.VertexFormatFloat32x3,
			Offset:         0,
			ShaderLocation: PositionLocation,
		}},
	}}
	if m.HasColors() {
		layouts = append(layouts, gputypes.VertexBufferLayout{
			ArrayStride: gputypes.VertexFormatFloat32x4.Size(),
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{{
				Format:         gputypes.VertexFormatFloat32x4,
				Offset:         0,
				ShaderLocation: ColorLocation,
			}},
		})
	}
	return layouts
}

// IndexFormat returns the narrowest index format able to address every vertex.
func (m *Mesh) IndexFormat() gputypes.IndexFormat {
	if m.VertexCount() <= math.MaxUint16 {
		return gputypes.IndexFormatUint16
	}
	return gputypes.IndexFormatUint32
}

// IndexBytes encodes Indices little-endian in IndexFormat.
func (m *Mesh) IndexBytes() []byte {
	if m.IndexFormat() == gputypes.IndexFormatUint16 {
		b := make([]byte, 0, 2*len(m.Indices))
		for _, i := range m.Indices {
			b = binary.LittleEndian.AppendUint16(b, uint16(i))
		}
		return b
	}
	b := make([]byte, 0, 4*len(m.Indices))
	for _, i := range m.Indices {
		b = binary.LittleEndian.AppendUint32(b, i)
	}
	return b
}

// RelativePositions returns the positions as float32 offsets from the
// bounding sphere center. Planet-scale coordinates lose centimeter precision
// in float32; offsets from a nearby center do not.
func (m *Mesh) RelativePositions() []float32 {
	c := m.BoundingSphere.Center
	out := make([]float32, len(m.Positions))
	for i := 0; i+2 < len(m.Positions); i += 3 {
		out[i] = float32(m.Positions[i] - c.X)
		out[i+1] = float32(m.Positions[i+1] - c.Y)
		out[i+2] = float32(m.Positions[i+2] - c.Z)
	}
	return out
}
