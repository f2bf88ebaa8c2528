// Package parallel runs indexed tasks on a fixed set of goroutines.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Run on a closed pool.
var ErrClosed = errors.New("parallel: pool is closed")

// WorkerPool is a pool of goroutines executing indexed tasks.
//
// Each worker owns a queue. Tasks are dealt round-robin, and a worker whose
// queue is empty steals from the others, which balances batches where some
// polylines need far more subdivision than others.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case fn := <-own:
			fn()
			continue
		default:
		}

		if fn := p.steal(id); fn != nil {
			fn()
			continue
		}

		select {
		case <-p.done:
			p.drain(own)
			return
		case fn := <-own:
			fn()
		}
	}
}

func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case fn := <-queue:
			fn()
		default:
			return
		}
	}
}

// steal takes one task from another worker's queue, or returns nil.
func (p *WorkerPool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case fn := <-p.queues[i]:
			return fn
		default:
		}
	}
	return nil
}

// Run calls task(ctx, i) for every i in [0, n) and waits for them to finish.
//
// The first failing task cancels the context passed to the remaining ones;
// tasks that have not started by then are skipped. Run returns ctx.Err() if
// ctx was canceled, otherwise the error of the lowest failing index, or nil.
// A closed pool runs nothing and returns ErrClosed.
func (p *WorkerPool) Run(ctx context.Context, n int, task func(ctx context.Context, i int) error) error {
	if !p.running.Load() {
		return ErrClosed
	}
	if n <= 0 {
		return ctx.Err()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make([]error, n)
	var pending sync.WaitGroup
	closed := false

submit:
	for i := range n {
		fn := func() {
			defer pending.Done()
			if runCtx.Err() != nil {
				return
			}
			if err := task(runCtx, i); err != nil {
				errs[i] = err
				cancel()
			}
		}

		pending.Add(1)
		select {
		case p.queues[i%p.workers] <- fn:
		case <-runCtx.Done():
			pending.Done()
			break submit
		case <-p.done:
			pending.Done()
			closed = true
			break submit
		}
	}
	pending.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	if closed {
		return ErrClosed
	}
	return nil
}

// Close stops the pool after the queued tasks have run. It must not race
// with a Run call in progress. Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
