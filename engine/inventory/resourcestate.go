package inventory

// ResourceState is the lifecycle state of a control block, always read
// and written atomically: Empty->Loading and Released->Ready use
// compare-and-swap in Inventory.Get, while the load job's Ready and
// release's Released transitions are plain atomic stores.
type ResourceState int32

const (
	// Empty is the state of a freshly-inserted control block that has not
	// yet been claimed by a loader. has() does not report Empty entries
	// present, closing the race where a caller without a load context
	// could otherwise observe a not-yet-loadable entry.
	Empty ResourceState = iota
	Requested
	Loading
	Ready
	Released
	Error
)

func (s ResourceState) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Requested:
		return "Requested"
	case Loading:
		return "Loading"
	case Ready:
		return "Ready"
	case Released:
		return "Released"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// RetentionPolicy controls deduplication and deferred-release behavior
// for a control block.
type RetentionPolicy int

const (
	// Reusable entries dedupe by id and are deferred-released N frames
	// after their refcount hits zero.
	Reusable RetentionPolicy = iota
	// Permanent entries hold a synthetic extra refcount of 1 for their
	// entire lifetime and are never swept.
	Permanent
	// ForceNew entries are destroyed immediately (not deferred) when
	// their refcount hits zero. Get still deduplicates them by id like
	// any other entry: a second Get for a live ForceNew id returns the
	// existing entry rather than a new one.
	ForceNew
)
