package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gogpu/polyline"
)

// readInput reads a file, or standard input for "-".
func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

// loadGeometries decodes a GeoJSON FeatureCollection, Feature or LineString.
func loadGeometries(data []byte, opts []polyline.Option) ([]*polyline.Geometry, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}

	if head.Type == "FeatureCollection" {
		geometries, err := polyline.FromFeatureCollection(data, opts...)
		if err != nil {
			return nil, err
		}
		if len(geometries) == 0 {
			return nil, fmt.Errorf("feature collection has no LineString features")
		}
		return geometries, nil
	}

	g, err := polyline.FromGeoJSON(data, opts...)
	if err != nil {
		return nil, err
	}
	return []*polyline.Geometry{g}, nil
}
