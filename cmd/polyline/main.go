// Command polyline tessellates GeoJSON line strings on an ellipsoid.
//
// Usage:
//
//	polyline tessellate routes.geojson --line-type rhumb --preview routes.png
//	polyline pack routes.geojson --format binary -o routes.bin
//
// Every flag can also be set through a POLYLINE_ environment variable
// (POLYLINE_GRANULARITY=0.01) or a --config file.
package main

func main() {
	Execute()
}
