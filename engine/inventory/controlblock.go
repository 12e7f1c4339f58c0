package inventory

import (
	"sync"
	"sync/atomic"

	"github.com/badke/saberrender/common/hashkey"
)

// cacheLinePad approximates the spec's cache-line-aligned control block:
// Go has no alignment pragma for struct fields pre-generics, so the hot
// atomics are simply declared first and this padding documents intent
// without claiming a guarantee the language can't make.
const cacheLinePad = 56

// controlBlock is one Inventory entry. The atomic fields are read and
// written without holding mu; mu guards data and loadCtx, which are
// written exactly once (by the load job) and read thereafter.
type controlBlock[T any] struct {
	state    atomic.Int32
	refcount atomic.Uint32
	_        [cacheLinePad]byte

	id        hashkey.HashKey
	retention RetentionPolicy
	owner     *ResourceSystem[T]

	mu      sync.Mutex
	data    T
	loadCtx LoadContext[T]

	ready     chan struct{}
	readyOnce sync.Once
}

func newControlBlock[T any](id hashkey.HashKey, loadCtx LoadContext[T], retention RetentionPolicy, owner *ResourceSystem[T]) *controlBlock[T] {
	cb := &controlBlock[T]{
		id:        id,
		retention: retention,
		owner:     owner,
		loadCtx:   loadCtx,
		ready:     make(chan struct{}),
	}
	cb.state.Store(int32(Empty))
	if retention == Permanent {
		cb.refcount.Store(1)
	}
	return cb
}

func (cb *controlBlock[T]) loadState() ResourceState {
	return ResourceState(cb.state.Load())
}

// publish stores the loaded value. Called once, from the load job,
// after Load returns but before OnLoadComplete and the Ready
// transition, matching the spec's "data populated before state becomes
// Ready" ordering.
func (cb *controlBlock[T]) publish(value T) {
	cb.mu.Lock()
	cb.data = value
	cb.loadCtx = nil
	cb.mu.Unlock()
}

// commitReady transitions to Ready and wakes every goroutine parked in
// waitUntilSettled. Called once, from the load job, after
// OnLoadComplete has run.
func (cb *controlBlock[T]) commitReady() {
	cb.state.Store(int32(Ready))
	cb.readyOnce.Do(func() { close(cb.ready) })
}

// waitUntilSettled blocks until state is no longer Loading.
func (cb *controlBlock[T]) waitUntilSettled() {
	if cb.loadState() != Loading {
		return
	}
	<-cb.ready
}

func (cb *controlBlock[T]) value() T {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.data
}
