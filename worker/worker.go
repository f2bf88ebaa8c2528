// Package worker tessellates batches of polylines on a goroutine pool.
//
// Geometries cross into the pool only in packed form: a producer appends
// them to a Batch, hands over the flat buffer, and Tessellate rebuilds each
// Geometry from it before creating its mesh. Nothing else is shared.
package worker

import (
	"context"
	"fmt"

	"github.com/gogpu/polyline"
	"github.com/gogpu/polyline/internal/parallel"
)

// Batch accumulates packed geometries in one contiguous buffer.
// The zero value is an empty batch ready to use.
type Batch struct {
	buf   []float64
	count int
}

// Add packs g at the end of the batch and returns its offset.
func (b *Batch) Add(g *polyline.Geometry) int {
	offset := len(b.buf)
	b.buf = polyline.AppendPacked(b.buf, g)
	b.count++
	return offset
}

// Len returns the number of geometries in the batch.
func (b *Batch) Len() int { return b.count }

// Buffer returns the packed buffer. It is owned by the batch until Reset.
func (b *Batch) Buffer() []float64 { return b.buf }

// Reset empties the batch, keeping its storage.
func (b *Batch) Reset() {
	b.buf = b.buf[:0]
	b.count = 0
}

// Offsets returns the starting index of each of the count geometries packed
// back to back in buf.
func Offsets(buf []float64, count int) ([]int, error) {
	offsets := make([]int, count)
	next := 0
	for i := range offsets {
		offsets[i] = next
		var err error
		if next, err = polyline.SkipPacked(buf, next); err != nil {
			return nil, fmt.Errorf("worker: geometry %d: %w", i, err)
		}
	}
	return offsets, nil
}

// Option configures a Tessellator.
type Option func(*options)

type options struct {
	workers int
}

// WithWorkers sets the number of goroutines. Zero or negative uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// Tessellator owns a goroutine pool for repeated batch tessellation.
type Tessellator struct {
	pool *parallel.WorkerPool
}

// NewTessellator starts a Tessellator. Call Close to stop its goroutines.
func NewTessellator(opts ...Option) *Tessellator {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Tessellator{pool: parallel.NewWorkerPool(o.workers)}
}

// Close stops the pool. It must not be called while Tessellate runs.
func (t *Tessellator) Close() { t.pool.Close() }

// Tessellate unpacks count geometries from buf and creates their meshes in
// parallel. Meshes are returned in buffer order.
//
// The first failure stops the batch and is returned annotated with the index
// of the failing geometry. Cancelling ctx stops scheduling further work and
// returns ctx.Err().
func (t *Tessellator) Tessellate(ctx context.Context, buf []float64, count int) ([]*polyline.Mesh, error) {
	offsets, err := Offsets(buf, count)
	if err != nil {
		return nil, err
	}

	meshes := make([]*polyline.Mesh, count)
	err = t.pool.Run(ctx, count, func(_ context.Context, i int) error {
		g, _ := polyline.Unpack(buf, offsets[i], nil)
		m, err := polyline.CreateGeometry(g)
		if err != nil {
			polyline.Logger().Warn("worker: tessellation failed", "index", i, "error", err)
			return fmt.Errorf("worker: geometry %d: %w", i, err)
		}
		meshes[i] = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	polyline.Logger().Debug("worker: batch tessellated", "geometries", count, "workers", t.pool.Workers())
	return meshes, nil
}

// Tessellate runs a batch on a temporary Tessellator.
func Tessellate(ctx context.Context, buf []float64, count int, opts ...Option) ([]*polyline.Mesh, error) {
	t := NewTessellator(opts...)
	defer t.Close()
	return t.Tessellate(ctx, buf, count)
}
