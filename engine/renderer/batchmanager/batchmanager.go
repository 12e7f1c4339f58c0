// Package batchmanager implements BatchManager as a GraphicsSystem: a
// stable cache of per-mesh-primitive draw batches, rebuilt into
// per-view instanced batch lists every frame.
package batchmanager

import (
	"sort"

	"github.com/badke/saberrender/common/hashkey"
	"github.com/badke/saberrender/engine/renderer/graphicssystem"
	"github.com/badke/saberrender/engine/renderer/stage"
	"github.com/badke/saberrender/engine/rendersystem"
)

// ScriptName is the name BatchManagerGraphicsSystem registers under.
const ScriptName = "BatchManager"

var (
	cullingDataInput           = hashkey.NewStatic("viewcullingresults")
	animatedVertexStreamsInput = hashkey.NewStatic("animatedvertexstreams")
	deletedIDsInput            = hashkey.NewStatic("deletedmeshprimitiveids")
	dirtyUpdatesInput          = hashkey.NewStatic("dirtymeshupdates")

	viewBatchesOutput = hashkey.NewStatic("viewbatches")
	allBatchesOutput  = hashkey.NewStatic("allbatches")
)

// ViewCullingResults maps a view identifier to the render-data ids
// visible in it this frame. The source keys this by a Camera::View
// value; that type has no equivalent in this repo's scope, so the view
// is identified by a plain HashKey (e.g. a camera or shadow-cascade
// name) instead.
type ViewCullingResults = map[hashkey.HashKey][]rendersystem.RenderDataID

// AnimatedVertexStreams maps a render-data id to its vertex-stream
// override payload. BatchManager never interprets the payload itself —
// it is opaque, passed through to whatever builds the real Batch.
type AnimatedVertexStreams = map[rendersystem.RenderDataID]any

// BatchManagerGraphicsSystem maintains permanentCachedBatches and the
// renderDataID<->cacheIndex maps, and rebuilds viewBatches/allBatches
// every PreRender from the current culling results.
type BatchManagerGraphicsSystem struct {
	graphicssystem.Base

	viewCullingResults    *ViewCullingResults
	animatedVertexStreams *AnimatedVertexStreams
	deletedIDs            *[]rendersystem.RenderDataID
	dirtyUpdates          *[]MeshUpdate

	permanentCachedBatches []Batch
	renderDataIDToMetadata map[rendersystem.RenderDataID]BatchMetadata
	cacheIdxToRenderDataID map[int]rendersystem.RenderDataID

	viewBatches map[hashkey.HashKey][]Batch
	allBatches  []Batch

	// AttachInstanceBuffers, if set, is called once per emitted
	// instanced run with the ids merged into it, so a caller-supplied
	// indexed-buffer collaborator can bind the instancing and LUT
	// buffers the way the source's IndexedBufferManager does. This
	// repo has no IndexedBufferManager/EffectDB, so the default is a
	// no-op.
	AttachInstanceBuffers func(batch *Batch, ids []rendersystem.RenderDataID)
}

// New constructs a BatchManagerGraphicsSystem. Matches
// graphicssystem.CreateFunc for registration with a Registry.
func New(graphicssystem.Manager) graphicssystem.GraphicsSystem {
	return &BatchManagerGraphicsSystem{
		Base:                   graphicssystem.NewBase(ScriptName),
		renderDataIDToMetadata: make(map[rendersystem.RenderDataID]BatchMetadata),
		cacheIdxToRenderDataID: make(map[int]rendersystem.RenderDataID),
		viewBatches:            make(map[hashkey.HashKey][]Batch),
	}
}

func init() {
	graphicssystem.Register(ScriptName, New)
}

func (g *BatchManagerGraphicsSystem) RegisterFlags() {}

func (g *BatchManagerGraphicsSystem) RegisterInputs() {
	g.DeclareDataInput(cullingDataInput)
	g.DeclareDataInput(animatedVertexStreamsInput)
	g.DeclareDataInput(deletedIDsInput)
	g.DeclareDataInput(dirtyUpdatesInput)
}

func (g *BatchManagerGraphicsSystem) RegisterOutputs() {
	g.SetDataOutput(viewBatchesOutput, &g.viewBatches)
	g.SetDataOutput(allBatchesOutput, &g.allBatches)
}

func (g *BatchManagerGraphicsSystem) RuntimeBindings() graphicssystem.RuntimeBindings {
	return graphicssystem.RuntimeBindings{
		InitPipeline: []graphicssystem.NamedInitStep{
			{Name: "batchmanager-init", Fn: g.init},
		},
		PreRender: []graphicssystem.NamedUpdateStep{
			{Name: "batchmanager-prerender", Fn: g.PreRender},
		},
	}
}

func (g *BatchManagerGraphicsSystem) init(
	_ *stage.Pipeline,
	_ graphicssystem.TextureDependencies,
	_ graphicssystem.BufferDependencies,
	data graphicssystem.DataDependencies,
) {
	if v, ok := data[cullingDataInput].(*ViewCullingResults); ok {
		g.viewCullingResults = v
	}
	if v, ok := data[animatedVertexStreamsInput].(*AnimatedVertexStreams); ok {
		g.animatedVertexStreams = v
	}
	if v, ok := data[deletedIDsInput].(*[]rendersystem.RenderDataID); ok {
		g.deletedIDs = v
	}
	if v, ok := data[dirtyUpdatesInput].(*[]MeshUpdate); ok {
		g.dirtyUpdates = v
	}
}

func (g *BatchManagerGraphicsSystem) HandleEvents() { g.DrainEvents() }

// PreRender removes batches for deleted mesh primitives, creates or
// refreshes batches for dirty ones, then rebuilds every view's
// instanced batch list from the current culling results.
func (g *BatchManagerGraphicsSystem) PreRender() {
	g.removeDeleted()
	g.applyDirty()
	g.buildViewBatches()
}

// EndOfFrame clears viewBatches and allBatches so neither holds a
// reference past the frame it was built for.
func (g *BatchManagerGraphicsSystem) EndOfFrame() {
	for k := range g.viewBatches {
		delete(g.viewBatches, k)
	}
	g.allBatches = g.allBatches[:0]
}

// removeDeleted swap-removes each deleted id's batch from
// permanentCachedBatches: the last-cached batch is duplicated into the
// hole being vacated, and both index maps are patched to match.
func (g *BatchManagerGraphicsSystem) removeDeleted() {
	if g.deletedIDs == nil {
		return
	}

	for _, id := range *g.deletedIDs {
		meta, ok := g.renderDataIDToMetadata[id]
		if !ok {
			continue
		}

		cacheIdxToReplace := meta.CacheIndex
		cacheIdxToMove := len(g.permanentCachedBatches) - 1
		renderDataIDToMove := g.cacheIdxToRenderDataID[cacheIdxToMove]

		delete(g.cacheIdxToRenderDataID, cacheIdxToMove)
		delete(g.renderDataIDToMetadata, id)

		if cacheIdxToReplace != cacheIdxToMove {
			g.permanentCachedBatches[cacheIdxToReplace] = DuplicateBatch(
				g.permanentCachedBatches[cacheIdxToMove],
				g.permanentCachedBatches[cacheIdxToMove].Lifetime)

			g.cacheIdxToRenderDataID[cacheIdxToReplace] = renderDataIDToMove

			movedMeta := g.renderDataIDToMetadata[renderDataIDToMove]
			movedMeta.CacheIndex = cacheIdxToReplace
			g.renderDataIDToMetadata[renderDataIDToMove] = movedMeta
		}

		g.permanentCachedBatches = g.permanentCachedBatches[:len(g.permanentCachedBatches)-1]
	}
}

// applyDirty appends a new cache entry for each previously-unseen id,
// and rebuilds in place the entry for each id already cached.
func (g *BatchManagerGraphicsSystem) applyDirty() {
	if g.dirtyUpdates == nil {
		return
	}

	for _, update := range *g.dirtyUpdates {
		if meta, ok := g.renderDataIDToMetadata[update.RenderDataID]; ok {
			meta.Hash = update.Hash
			meta.MatEffectID = update.MatEffectID
			g.renderDataIDToMetadata[update.RenderDataID] = meta

			g.permanentCachedBatches[meta.CacheIndex] = Batch{
				Lifetime:     stage.PermanentLifetime,
				EffectID:     update.MatEffectID,
				RenderDataID: update.RenderDataID,
				DataHash:     update.Hash,
			}
			continue
		}

		newIdx := len(g.permanentCachedBatches)
		g.permanentCachedBatches = append(g.permanentCachedBatches, Batch{
			Lifetime:     stage.PermanentLifetime,
			EffectID:     update.MatEffectID,
			RenderDataID: update.RenderDataID,
			DataHash:     update.Hash,
		})
		g.cacheIdxToRenderDataID[newIdx] = update.RenderDataID
		g.renderDataIDToMetadata[update.RenderDataID] = BatchMetadata{
			Hash:         update.Hash,
			RenderDataID: update.RenderDataID,
			MatEffectID:  update.MatEffectID,
			CacheIndex:   newIdx,
		}
	}
}

// buildViewBatches sorts each view's visible metadata by batch hash and
// run-length-merges identical hashes into a single instanced batch,
// duplicating the cached entry with SingleFrame lifetime. A run whose
// first render-data id has not already led a run in an earlier view also
// contributes its merged duplicate to allBatches; only that first id of
// each run is recorded as seen, the run's other ids are not tracked.
func (g *BatchManagerGraphicsSystem) buildViewBatches() {
	for k := range g.viewBatches {
		delete(g.viewBatches, k)
	}
	g.allBatches = g.allBatches[:0]

	if g.viewCullingResults == nil {
		return
	}

	seen := make(map[rendersystem.RenderDataID]struct{})

	for view, ids := range *g.viewCullingResults {
		metas := make([]BatchMetadata, 0, len(ids))
		for _, id := range ids {
			if meta, ok := g.renderDataIDToMetadata[id]; ok {
				metas = append(metas, meta)
			}
		}
		if len(metas) == 0 {
			g.viewBatches[view] = nil
			continue
		}

		sort.SliceStable(metas, func(i, j int) bool { return metas[i].Hash < metas[j].Hash })

		batches := make([]Batch, 0, len(metas))
		i := 0
		for i < len(metas) {
			start := i
			curHash := metas[i].Hash
			for i < len(metas) && metas[i].Hash == curHash {
				i++
			}
			run := metas[start:i]

			cached := g.permanentCachedBatches[run[0].CacheIndex]
			merged := DuplicateBatch(cached, stage.SingleFrame)
			merged.InstanceCount = uint32(len(run))
			merged.InstanceIDs = make([]rendersystem.RenderDataID, len(run))
			for k, m := range run {
				merged.InstanceIDs[k] = m.RenderDataID
			}
			if g.AttachInstanceBuffers != nil {
				g.AttachInstanceBuffers(&merged, merged.InstanceIDs)
			}

			if _, alreadySeen := seen[run[0].RenderDataID]; !alreadySeen {
				seen[run[0].RenderDataID] = struct{}{}
				g.allBatches = append(g.allBatches, merged)
			}

			batches = append(batches, merged)
		}
		g.viewBatches[view] = batches
	}
}
