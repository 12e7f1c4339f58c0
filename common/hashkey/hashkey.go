// Package hashkey implements the FNV-1a hashed string token used as a map
// key throughout the render-graph core: event kinds, graphics-system
// input/output names, config keys, and resource IDs.
package hashkey

const (
	fnvOffsetBasis uint64 = 14695981039346656037
	fnvPrime       uint64 = 1099511628211
)

// HashKey is a 64-bit FNV-1a hash of a string, carried alongside the
// original string for diagnostics. Equality and ordering are defined on
// the hash alone; collisions between distinct strings are a programmer
// error the type does nothing to detect.
type HashKey struct {
	key  string
	hash uint64
}

// New constructs a HashKey from a runtime string. This is the "runtime"
// constructor described by the spec: identical to NewStatic, kept as a
// distinct name so call sites can document whether the string is known
// ahead of time or built up dynamically (e.g. a formatted resource path).
func New(key string) HashKey {
	return HashKey{key: key, hash: fnv1a(key)}
}

// NewStatic constructs a HashKey from a string literal known at the call
// site. Go has no consteval equivalent to force compile-time evaluation,
// so this is implemented identically to New — the distinction is purely
// documentary, mirroring the spec's two constructors.
func NewStatic(key string) HashKey {
	return New(key)
}

func fnv1a(s string) uint64 {
	h := fnvOffsetBasis
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime
	}
	return h
}

// Hash returns the underlying FNV-1a hash. This is what should be used
// as an actual map key wherever HashKey values are compared, so that two
// distinct strings which happen to collide are treated as equal the way
// the spec's hash-only equality demands.
func (k HashKey) Hash() uint64 {
	return k.hash
}

// Key returns the original string the HashKey was constructed from, for
// diagnostics and logging only — never compare keys by this field.
func (k HashKey) Key() string {
	return k.key
}

// Equal reports whether two HashKeys hash equal. Per the spec, equality
// is hash equality, not string equality.
func (k HashKey) Equal(rhs HashKey) bool {
	return k.hash == rhs.hash
}

// Less orders HashKeys by hash, for deterministic iteration (e.g. log
// output) where callers want the values sorted.
func (k HashKey) Less(rhs HashKey) bool {
	return k.hash < rhs.hash
}

// IsZero reports whether this HashKey is the zero value (uninitialized).
func (k HashKey) IsZero() bool {
	return k.hash == 0 && k.key == ""
}

// String implements fmt.Stringer for diagnostics.
func (k HashKey) String() string {
	return k.key
}
