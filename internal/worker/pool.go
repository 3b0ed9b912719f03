// Package worker bounds pipeline concurrency. The queue subscription
// hands paths to the pool; workers run the classification pipeline
// independently, sharing nothing but the registry snapshot mechanism
// and the review queue.
package worker

import (
	"context"
	"sync"
)

type Handler func(ctx context.Context, path string) error

type Pool struct {
	workers int
	jobs    chan string
	handler Handler

	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewPool(workers int, handler Handler) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan string, workers*2),
		handler: handler,
	}
}

// Start launches the workers. They exit when ctx is cancelled or the
// pool is closed.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-p.jobs:
			if !ok {
				return
			}
			// Handler errors are local to one candidate; the handler
			// logs them and the pool keeps draining.
			_ = p.handler(ctx, path)
		}
	}
}

// Submit blocks until a worker can take the path or ctx is cancelled.
func (p *Pool) Submit(ctx context.Context, path string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.jobs <- path:
		return nil
	}
}

// Close stops intake and waits for in-flight work to finish.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}
