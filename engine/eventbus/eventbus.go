// Package eventbus implements the engine's process-wide publish/subscribe
// mechanism: listeners subscribe by HashKey, posted events are queued, and
// Update() drains the queue and dispatches synchronously to subscribers.
package eventbus

import (
	"sync"

	"github.com/badke/saberrender/common/hashkey"
)

// Listener receives events for every kind it has subscribed to.
type Listener interface {
	// PostEvent is invoked synchronously, on the goroutine calling
	// Bus.Update, once per matching queued event.
	PostEvent(Info)
}

// ListenerFunc adapts a plain function to the Listener interface.
type ListenerFunc func(Info)

// PostEvent implements Listener.
func (f ListenerFunc) PostEvent(info Info) { f(info) }

// Info is a single queued event: a kind and an opaque payload. The spec's
// tagged union (bool, i32, u32, f32, char, string, and four 2-tuples) is
// represented as `any` — the idiomatic Go substitute for a closed set of
// payload types, since listeners type-switch on Data rather than relying
// on compile-time exhaustiveness.
type Info struct {
	Kind hashkey.HashKey
	Data any
}

// Bus is the implementation of the EventBus described by the spec.
type Bus struct {
	queueMu sync.Mutex
	queue   []Info

	listenersMu sync.RWMutex
	listeners   map[uint64][]Listener
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{
		queue:     make([]Info, 0, 1024),
		listeners: make(map[uint64][]Listener),
	}
}

// Subscribe registers listener to receive every event posted under kind,
// in the order Subscribe was called for that kind.
func (b *Bus) Subscribe(kind hashkey.HashKey, listener Listener) {
	b.listenersMu.Lock()
	defer b.listenersMu.Unlock()
	b.listeners[kind.Hash()] = append(b.listeners[kind.Hash()], listener)
}

// Post enqueues an event for dispatch on the next call to Update. Safe to
// call from any goroutine, including from within a Listener.PostEvent
// callback — events posted during dispatch are queued for the next
// Update, never the one in progress.
func (b *Bus) Post(info Info) {
	b.queueMu.Lock()
	defer b.queueMu.Unlock()
	b.queue = append(b.queue, info)
}

// Update drains the queue and dispatches each event, in queue order, to
// every listener subscribed to that event's kind, in subscription order.
// Dispatch happens synchronously on the calling goroutine. Events whose
// kind has no subscribers are silently dropped.
func (b *Bus) Update() {
	b.queueMu.Lock()
	pending := b.queue
	b.queue = make([]Info, 0, len(pending))
	b.queueMu.Unlock()

	b.listenersMu.RLock()
	defer b.listenersMu.RUnlock()

	for _, evt := range pending {
		for _, l := range b.listeners[evt.Kind.Hash()] {
			l.PostEvent(evt)
		}
	}
}
