// Package polyline tessellates polylines on a reference ellipsoid into
// renderable line meshes.
//
// # Overview
//
// A Geometry holds validated, immutable construction parameters: the
// Earth-centered positions of the line, optional colors and the rules used to
// follow the surface. CreateGeometry turns it into a Mesh of LINES: flat
// position and color streams, index pairs and a bounding sphere.
//
// # Quick Start
//
//	import "github.com/gogpu/polyline"
//
//	e := ellipsoid.WGS84
//	g, err := polyline.New(e.CartesianArrayFromDegrees([]float64{
//	    -75, 35,
//	    -125, 35,
//	}), polyline.WithLineType(polyline.LineTypeRhumb))
//	if err != nil {
//	    return err
//	}
//	mesh, err := polyline.CreateGeometry(g)
//
// # Line Types
//
// Segments between consecutive positions are subdivided so that adjacent
// vertices are at most the granularity apart (an angle in radians):
//   - LineTypeGeodesic follows the shortest path on the surface
//   - LineTypeRhumb keeps a constant bearing
//   - LineTypeStraight is subdivided like a geodesic while following the surface
//
// WithFollowSurface(false) disables subdivision for every line type.
//
// # Colors
//
// Colors are either one per segment, drawn flat, or one per position with
// WithColorsPerVertex, interpolated across subdivided vertices. Per-segment
// meshes duplicate shared vertices so that each segment keeps its own color.
//
// # Serialization
//
// Pack and Unpack convert a Geometry to and from a flat []float64 so it can
// be handed to another goroutine or process without sharing references.
// Several geometries can be packed back to back; see the worker package.
//
// # GPU Upload
//
// Mesh exposes gputypes descriptors (topology, vertex buffer layouts, index
// format) and float32 positions relative to the bounding sphere center.
//
// # Logging
//
// The package is silent by default. Use SetLogger to receive debug output.
package polyline
