package rendersystem

import "math"

// RenderDataID, TransformID, EffectID and ResourceHandle are opaque
// handles never interpreted arithmetically outside their owning
// system; each has a dedicated Invalid sentinel.
type (
	RenderDataID   uint32
	TransformID    uint32
	EffectID       uint32
	ResourceHandle uint32
)

const (
	RenderDataIDInvalid   RenderDataID   = math.MaxUint32
	TransformIDInvalid    TransformID    = math.MaxUint32
	EffectIDInvalid       EffectID       = math.MaxUint32
	ResourceHandleInvalid ResourceHandle = math.MaxUint32
)
