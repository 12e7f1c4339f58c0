package inventory

// LoadContext is supplied to Inventory.Get when an entry does not yet
// exist; its three hooks run, in order, on a worker-pool goroutine once
// the control block has won the Empty->Loading transition.
type LoadContext[T any] interface {
	// OnLoadBegin runs before the heavy work. It may register side
	// effects (enqueue GPU-side creation, etc.) but must not block on
	// ptr itself — ptr is still Loading and Deref would deadlock.
	OnLoadBegin(ptr InvPtr[T])
	// Load performs the work and returns the value to publish. It may
	// call Get for other resources to build dependency chains.
	Load(ptr InvPtr[T]) T
	// OnLoadComplete runs after the value has been published into the
	// control block but before state transitions to Ready — the last
	// chance to finalize something that needs the value to already
	// exist and waiters to still be blocked.
	OnLoadComplete(ptr InvPtr[T])
}
