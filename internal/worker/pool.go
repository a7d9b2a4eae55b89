// Package worker provides a small bounded job pool for background work
// such as reconciliation runs. The pool is injected into whoever needs it,
// not a process-wide singleton.
package worker

import (
	"errors"
	"sync"
)

var (
	ErrQueueFull = errors.New("worker queue is full")
	ErrClosed    = errors.New("worker pool is closed")
)

// Pool executes submitted jobs on a fixed set of goroutines. A pool with one
// worker doubles as a serializer: jobs run strictly one after another.
type Pool struct {
	mu     sync.Mutex
	jobs   chan func()
	wg     sync.WaitGroup
	closed bool
}

// New starts a pool with the given worker count and queue capacity.
// Non-positive values fall back to 1 worker / an unbuffered queue.
func New(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	p := &Pool{jobs: make(chan func(), queueSize)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// Submit enqueues a job without blocking. Returns ErrQueueFull when the
// queue is saturated so callers can push back instead of piling up work.
func (p *Pool) Submit(job func()) error {
	if job == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Async runs fn on the pool and routes its outcome to the callbacks, either
// of which may be nil.
func Async[T any](p *Pool, fn func() (T, error), onResult func(T), onErr func(error)) error {
	return p.Submit(func() {
		v, err := fn()
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		if onResult != nil {
			onResult(v)
		}
	})
}

// Close stops accepting jobs and waits for queued work to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
