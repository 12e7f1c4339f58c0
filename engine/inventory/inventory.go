// Package inventory implements the engine's type-indexed, reference
// counted async resource manager: Inventory, InvPtr[T], ResourceSystem[T]
// and the LoadContext[T] hooks a caller supplies to populate an entry.
package inventory

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/badke/saberrender/common/hashkey"
	"github.com/badke/saberrender/engine/workerpool"
)

// resourceSystemBase is the type-erased surface Inventory needs to
// sweep every per-type system once per frame, regardless of T.
type resourceSystemBase interface {
	onEndOfFrame(frame uint64)
}

// Inventory is the process-wide, type-indexed resource manager. The
// zero value is not usable; construct with New.
type Inventory struct {
	pool *workerpool.Pool

	mu      sync.RWMutex
	systems map[reflect.Type]resourceSystemBase

	frame atomic.Uint64
}

// New creates an Inventory whose load jobs run on pool.
func New(pool *workerpool.Pool) *Inventory {
	return &Inventory{
		pool:    pool,
		systems: make(map[reflect.Type]resourceSystemBase),
	}
}

// Frame returns the current frame number, as observed by deferred
// release bookkeeping.
func (inv *Inventory) Frame() uint64 {
	return inv.frame.Load()
}

// OnEndOfFrame sweeps every per-type system's deferred-release FIFO and
// then advances the frame counter. Call once per frame, after all
// Release calls for the frame have been made.
func (inv *Inventory) OnEndOfFrame() {
	inv.mu.RLock()
	systems := make([]resourceSystemBase, 0, len(inv.systems))
	for _, s := range inv.systems {
		systems = append(systems, s)
	}
	inv.mu.RUnlock()

	frame := inv.frame.Load()
	for _, s := range systems {
		s.onEndOfFrame(frame)
	}
	inv.frame.Add(1)
}

// Option customizes a Get call.
type Option func(*getOptions)

type getOptions struct {
	retention RetentionPolicy
}

// WithRetention sets the retention policy used when Get creates a new
// entry. Ignored when the entry already exists. Defaults to Reusable.
func WithRetention(p RetentionPolicy) Option {
	return func(o *getOptions) { o.retention = p }
}

func systemFor[T any](inv *Inventory) *ResourceSystem[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()

	inv.mu.RLock()
	if s, ok := inv.systems[t]; ok {
		inv.mu.RUnlock()
		return s.(*ResourceSystem[T])
	}
	inv.mu.RUnlock()

	inv.mu.Lock()
	defer inv.mu.Unlock()
	if s, ok := inv.systems[t]; ok {
		return s.(*ResourceSystem[T])
	}
	sys := newResourceSystem[T](inv)
	inv.systems[t] = sys
	return sys
}

// Get returns a handle to the entry identified by id, creating and
// asynchronously loading it via loadCtx if it does not yet exist.
// loadCtx may be nil only when the entry is known to already exist —
// Get panics if it must create an entry and loadCtx is nil.
//
// Additional parameter types can't be attached to a method in Go, so
// Get is a free function rather than an Inventory method; this is the
// idiomatic shape for a type-indexed generic lookup.
func Get[T any](inv *Inventory, id hashkey.HashKey, loadCtx LoadContext[T], opts ...Option) InvPtr[T] {
	o := getOptions{retention: Reusable}
	for _, opt := range opts {
		opt(&o)
	}
	return systemFor[T](inv).get(id, loadCtx, o.retention)
}

// Has reports whether an entry for id exists in state Requested,
// Loading or Ready.
func Has[T any](inv *Inventory, id hashkey.HashKey) bool {
	return systemFor[T](inv).has(id)
}

// HasLoaded reports whether an entry for id exists and is Ready.
func HasLoaded[T any](inv *Inventory, id hashkey.HashKey) bool {
	return systemFor[T](inv).hasLoaded(id)
}

// SystemFor returns the concrete ResourceSystem[T], creating it on
// first use. Most callers only need Get/Has/HasLoaded; SystemFor is
// exposed for code that releases handles or needs direct system access
// (tests, end-of-frame diagnostics).
func SystemFor[T any](inv *Inventory) *ResourceSystem[T] {
	return systemFor[T](inv)
}
