package polyline

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record. Enabled reports false, so tessellation never
// pays for building log attributes unless a logger is installed.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

var (
	silent = slog.New(discard{})
	active atomic.Pointer[slog.Logger]
)

func init() {
	active.Store(silent)
}

// SetLogger routes diagnostics from polyline, worker and the polyline
// command to l. Nil restores the default, which logs nothing.
//
// Records emitted:
//   - Debug "polyline: tessellated" once per CreateGeometry, with lineType,
//     followSurface, positions, subSegments and vertices.
//   - Debug "polyline: unknown line type, subdividing as geodesic" when a
//     geometry carries a line type code outside Geodesic, Rhumb and Straight,
//     usually from a corrupt packed buffer.
//   - Debug "polyline: skipping feature" for non-LineString features of a
//     GeoJSON FeatureCollection.
//   - Debug "worker: batch tessellated" with the batch size and worker count.
//   - Warn "worker: tessellation failed" with the index of the failing
//     geometry in a batch.
//
// SetLogger may be called while other goroutines tessellate.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	active.Store(l)
}

// Logger returns the logger installed with SetLogger.
func Logger() *slog.Logger {
	return active.Load()
}
