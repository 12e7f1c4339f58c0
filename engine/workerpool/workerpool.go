// Package workerpool implements the fixed pool of worker goroutines that
// consume a FIFO of type-erased jobs and return futures, as described by
// the spec's WorkerPool component. It is a thin wrapper around
// automation/tools/worker's DynamicWorkerPool, which supplies the actual
// goroutine management and FIFO dispatch; this package adds the
// generic, per-job Future[R] the spec requires on top of that pool's
// (any, error)-returning Task contract.
package workerpool

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// defaultIdleTimeout controls how long the underlying dynamic pool keeps
// an idle worker goroutine alive before spinning it down. It only
// affects steady-state goroutine count, never correctness.
const defaultIdleTimeout = 30 * time.Second

// Future is the result of a job submitted to a Pool. Wait blocks until
// the job has run and returns its result (or the error it returned, or
// panicked-and-recovered into).
type Future[R any] struct {
	ch <-chan result[R]
}

type result[R any] struct {
	value R
	err   error
}

// Wait blocks until the job completes and returns its result.
func (f Future[R]) Wait() (R, error) {
	r := <-f.ch
	return r.value, r.err
}

// Pool is the WorkerPool described by the spec: a single global FIFO of
// jobs serviced by a fixed (or hardware-concurrency-sized) set of worker
// goroutines.
type Pool struct {
	inner  worker.DynamicWorkerPool
	nextID atomic.Int64

	mu      sync.Mutex
	stopped bool
	pending sync.WaitGroup
}

// New creates a Pool with the given number of worker goroutines. If
// workers <= 0, hardware concurrency is used, matching the spec's
// default. queueSize bounds the backlog the underlying dynamic pool will
// buffer before SubmitTask applies backpressure.
func New(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Pool{
		inner: worker.NewDynamicWorkerPool(workers, queueSize, defaultIdleTimeout),
	}
}

// Enqueue wraps fn into a job and pushes it onto the pool's FIFO,
// returning a Future that resolves once some worker goroutine has run
// it. Enqueue after Stop is undefined, matching the spec's documented
// lifecycle contract — callers are expected not to race shutdown.
func Enqueue[R any](p *Pool, fn func() (R, error)) Future[R] {
	ch := make(chan result[R], 1)
	id := int(p.nextID.Add(1))

	p.pending.Add(1)
	p.inner.SubmitTask(worker.Task{
		ID: id,
		Do: func() (out any, err error) {
			defer p.pending.Done()
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("workerpool: job %d panicked: %v", id, r)
					ch <- result[R]{err: err}
				}
			}()

			v, fnErr := fn()
			ch <- result[R]{value: v, err: fnErr}
			return v, fnErr
		},
	})

	return Future[R]{ch: ch}
}

// Stop waits for every job already submitted to finish running, then
// returns. Enqueue does not check whether Stop has run, so callers must
// not call Enqueue concurrently with or after Stop. The underlying dynamic
// pool retires its own idle worker goroutines on its configured
// timeout; Stop only guarantees job completion, not goroutine exit.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	p.pending.Wait()
}
