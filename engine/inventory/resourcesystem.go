package inventory

import (
	"fmt"
	"sync"

	"github.com/badke/saberrender/common/hashkey"
	"github.com/badke/saberrender/engine/workerpool"
)

type deferredRelease struct {
	enqueueFrame uint64
	hash         uint64
}

// ResourceSystem is the per-T entry map and deferred-release FIFO
// backing one of Inventory's type-indexed resource systems.
type ResourceSystem[T any] struct {
	inv *Inventory

	mu      sync.RWMutex
	entries map[uint64]*controlBlock[T]

	deferredMu sync.Mutex
	deferred   []deferredRelease
}

func newResourceSystem[T any](inv *Inventory) *ResourceSystem[T] {
	return &ResourceSystem[T]{
		inv:     inv,
		entries: make(map[uint64]*controlBlock[T]),
	}
}

// get implements Inventory.Get's dedup-or-create-and-load sequence for a
// single type T.
func (s *ResourceSystem[T]) get(id hashkey.HashKey, loadCtx LoadContext[T], retention RetentionPolicy) InvPtr[T] {
	h := id.Hash()

	s.mu.RLock()
	cb, ok := s.entries[h]
	s.mu.RUnlock()
	if ok {
		cb.refcount.Add(1)
		s.tryResurrect(cb)
		return InvPtr[T]{cb: cb}
	}

	s.mu.Lock()
	cb, ok = s.entries[h]
	if !ok {
		if loadCtx == nil {
			s.mu.Unlock()
			panic(fmt.Sprintf("inventory: Get(%q) on absent entry with nil LoadContext", id.Key()))
		}
		cb = newControlBlock[T](id, loadCtx, retention, s)
		s.entries[h] = cb
	}
	s.mu.Unlock()

	cb.refcount.Add(1)
	s.tryResurrect(cb)
	s.tryStartLoad(cb)

	return InvPtr[T]{cb: cb}
}

func (s *ResourceSystem[T]) tryResurrect(cb *controlBlock[T]) {
	cb.state.CompareAndSwap(int32(Released), int32(Ready))
}

// tryStartLoad wins the Empty->Loading transition at most once per
// control block and, on success, enqueues the three-hook load job on
// the inventory's worker pool.
func (s *ResourceSystem[T]) tryStartLoad(cb *controlBlock[T]) {
	if !cb.state.CompareAndSwap(int32(Empty), int32(Loading)) {
		return
	}

	ptr := InvPtr[T]{cb: cb}
	loadCtx := cb.loadCtx

	workerpool.Enqueue(s.inv.pool, func() (struct{}, error) {
		loadCtx.OnLoadBegin(ptr)
		value := loadCtx.Load(ptr)
		cb.publish(value)
		loadCtx.OnLoadComplete(ptr)
		cb.commitReady()
		return struct{}{}, nil
	})
}

// release implements InvPtr.Release for this system.
func (s *ResourceSystem[T]) release(cb *controlBlock[T]) {
	remaining := cb.refcount.Add(^uint32(0))
	if remaining != 0 {
		return
	}

	cb.state.Store(int32(Released))

	if cb.retention == ForceNew {
		s.destroy(cb.id.Hash())
		return
	}

	s.deferredMu.Lock()
	s.deferred = append(s.deferred, deferredRelease{enqueueFrame: s.inv.Frame(), hash: cb.id.Hash()})
	s.deferredMu.Unlock()
}

func (s *ResourceSystem[T]) destroy(hash uint64) {
	s.mu.Lock()
	delete(s.entries, hash)
	s.mu.Unlock()
}

// has reports whether an entry exists and is in Requested, Loading or
// Ready — Empty entries are never reported present.
func (s *ResourceSystem[T]) has(id hashkey.HashKey) bool {
	s.mu.RLock()
	cb, ok := s.entries[id.Hash()]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	switch cb.loadState() {
	case Requested, Loading, Ready:
		return true
	default:
		return false
	}
}

func (s *ResourceSystem[T]) hasLoaded(id hashkey.HashKey) bool {
	s.mu.RLock()
	cb, ok := s.entries[id.Hash()]
	s.mu.RUnlock()
	return ok && cb.loadState() == Ready
}

// onEndOfFrame implements resourceSystemBase: it pops every deferred
// release whose enqueueFrame+N <= frame and destroys the entry unless
// the refcount was resurrected above zero in the meantime.
func (s *ResourceSystem[T]) onEndOfFrame(frame uint64) {
	const deferredFrames = 1

	s.deferredMu.Lock()
	due := s.deferred[:0:0]
	remaining := s.deferred[:0]
	for _, d := range s.deferred {
		if d.enqueueFrame+deferredFrames <= frame {
			due = append(due, d)
		} else {
			remaining = append(remaining, d)
		}
	}
	s.deferred = remaining
	s.deferredMu.Unlock()

	for _, d := range due {
		s.mu.RLock()
		cb, ok := s.entries[d.hash]
		s.mu.RUnlock()
		if !ok {
			continue
		}
		if cb.refcount.Load() == 0 && cb.loadState() == Released {
			s.destroy(d.hash)
		}
	}
}
