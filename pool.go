package markrender

import (
	"context"
	"runtime"
	"sync"

	"github.com/alnah/go-markrender/internal/metrics"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent renders. Each raster render holds a page
	// canvas of up to DesiredResolution squared pixels.
	MaxPoolSize = 16
)

// WorkerPool bounds the number of renders running at once. Each render
// runs start to finish on its own goroutine holding one worker slot.
type WorkerPool struct {
	renderer *Renderer
	size     int
	slots    chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	closed   bool
}

// NewWorkerPool creates a pool of n worker slots over r.
func NewWorkerPool(r *Renderer, n int) *WorkerPool {
	if n < 1 {
		n = 1
	}
	return &WorkerPool{
		renderer: r,
		size:     n,
		slots:    make(chan struct{}, n),
	}
}

type renderResult struct {
	out *Rendered
	err error
}

// Render waits for a free slot and renders input on it. ctx bounds only
// the wait: once started, a render runs to completion and a result that
// arrives after ctx is done is discarded.
func (p *WorkerPool) Render(ctx context.Context, input Input) (*Rendered, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.wg.Add(1)
	p.mu.Unlock()

	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		p.wg.Done()
		return nil, ctx.Err()
	}

	done := make(chan renderResult, 1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.slots }()
		metrics.BusyWorkers.Inc()
		defer metrics.BusyWorkers.Dec()

		out, err := p.renderer.Render(context.WithoutCancel(ctx), input)
		done <- renderResult{out: out, err: err}
	}()

	select {
	case res := <-done:
		return res.out, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close rejects new renders and waits for running ones to finish.
func (p *WorkerPool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
	return nil
}

// Size returns the pool capacity.
func (p *WorkerPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	return min(max(runtime.GOMAXPROCS(0), MinPoolSize), MaxPoolSize)
}
