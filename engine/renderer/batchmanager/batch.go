package batchmanager

import (
	"github.com/badke/saberrender/engine/renderer/stage"
	"github.com/badke/saberrender/engine/rendersystem"
	"github.com/cogentcore/webgpu/wgpu"
)

// Batch is a draw-call recipe: a mesh primitive and material effect,
// optionally merged into an instanced run. Cached batches are
// Permanent; everything handed out of buildViewBatches is a SingleFrame
// duplicate, since permanent entries are mutated in place next frame.
type Batch struct {
	Lifetime stage.Lifetime

	EffectID     rendersystem.EffectID
	RenderDataID rendersystem.RenderDataID
	DataHash     uint64

	// InstanceCount and InstanceIDs are only meaningful on batches
	// produced by buildViewBatches: InstanceIDs lists every render-data
	// id merged into this run, in ascending-hash order.
	InstanceCount uint32
	InstanceIDs   []rendersystem.RenderDataID

	Buffer *wgpu.Buffer // bound instancing/LUT buffer, set by AttachInstanceBuffers
}

// DuplicateBatch copies b with a new lifetime classification. Cached
// batches are Permanent and must never be handed out directly, since
// the cache mutates them in place on the next dirty update.
func DuplicateBatch(b Batch, lifetime stage.Lifetime) Batch {
	dup := b
	dup.Lifetime = lifetime
	if b.InstanceIDs != nil {
		dup.InstanceIDs = append([]rendersystem.RenderDataID(nil), b.InstanceIDs...)
	}
	return dup
}

// BatchMetadata is the cache's per-object bookkeeping entry.
type BatchMetadata struct {
	Hash         uint64
	RenderDataID rendersystem.RenderDataID
	MatEffectID  rendersystem.EffectID
	CacheIndex   int
}

// MeshUpdate describes one new-or-dirty mesh primitive, supplied by
// whatever GraphicsSystem owns scene render data. There is no
// RenderDataManager in this repo's scope, so BatchManager receives
// these pre-computed rather than scanning a render-data store itself.
type MeshUpdate struct {
	RenderDataID rendersystem.RenderDataID
	Hash         uint64
	MatEffectID  rendersystem.EffectID
}
