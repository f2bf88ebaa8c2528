package polyline

import (
	"fmt"
	"strings"
)

// LineType selects the path followed between two consecutive positions.
//
// The numeric values are part of the packed layout and must never change.
type LineType uint8

const (
	// LineTypeGeodesic follows the shortest path along the ellipsoid.
	LineTypeGeodesic LineType = 0
	// LineTypeRhumb follows a path of constant bearing.
	LineTypeRhumb LineType = 1
	// LineTypeStraight connects positions without following a path law of
	// its own. When the surface is followed it is subdivided like a geodesic.
	LineTypeStraight LineType = 2
)

// String returns the line type name.
func (t LineType) String() string {
	switch t {
	case LineTypeGeodesic:
		return "Geodesic"
	case LineTypeRhumb:
		return "Rhumb"
	case LineTypeStraight:
		return "Straight"
	default:
		return fmt.Sprintf("LineType(%d)", uint8(t))
	}
}

func (t LineType) known() bool {
	return t <= LineTypeStraight
}

// ParseLineType parses a case-insensitive line type name.
func ParseLineType(s string) (LineType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "geodesic":
		return LineTypeGeodesic, nil
	case "rhumb":
		return LineTypeRhumb, nil
	case "straight":
		return LineTypeStraight, nil
	default:
		return 0, invalidArgument("unknown line type %q", s)
	}
}
