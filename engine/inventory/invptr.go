package inventory

// InvPtr is a refcounted handle into an Inventory entry for a resource
// of type T. The zero value is invalid and points at nothing.
type InvPtr[T any] struct {
	cb *controlBlock[T]
}

// IsValid reports whether the handle points at a control block whose
// state is not Empty, Released or Error.
func (p InvPtr[T]) IsValid() bool {
	if p.cb == nil {
		return false
	}
	switch p.cb.loadState() {
	case Empty, Released, Error:
		return false
	default:
		return true
	}
}

// HasLoaded reports whether the underlying entry's state is Ready.
func (p InvPtr[T]) HasLoaded() bool {
	return p.cb != nil && p.cb.loadState() == Ready
}

// Deref blocks until the entry's state leaves Loading, then returns the
// published value. Calling Deref on an invalid handle (a nil or
// Empty/Released/Error control block) is a programmer error; it panics,
// mirroring the spec's "fatal in debug" contract for that case since
// this package carries no separate release build.
func (p InvPtr[T]) Deref() T {
	if p.cb == nil {
		panic("inventory: Deref of nil InvPtr")
	}
	p.cb.waitUntilSettled()
	switch p.cb.loadState() {
	case Ready:
		return p.cb.value()
	default:
		panic("inventory: Deref of handle not in Ready state: " + p.cb.loadState().String())
	}
}

// Release decrements the handle's refcount. When it reaches zero the
// entry is marked Released and, unless its retention is ForceNew,
// deferred for destruction at a future end-of-frame sweep. Release is
// idempotent-unsafe by design: calling it more times than the handle
// was acquired underflows the refcount, matching the spec's "programmer
// error, no mitigation" stance on misuse.
func (p InvPtr[T]) Release() {
	if p.cb == nil {
		return
	}
	p.cb.owner.release(p.cb)
}
