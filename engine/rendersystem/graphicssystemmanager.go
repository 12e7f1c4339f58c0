package rendersystem

import (
	"fmt"
	"strings"
	"sync"

	"github.com/badke/saberrender/engine/events"
	"github.com/badke/saberrender/engine/eventbus"
	"github.com/badke/saberrender/engine/renderer/graphicssystem"
)

// GraphicsSystemManager owns the set of GraphicsSystem instances for
// one RenderSystem and the small amount of per-frame bookkeeping every
// GS can rely on without declaring it as a formal dependency: the
// active camera and active ambient light.
type GraphicsSystemManager struct {
	name string
	bus  *eventbus.Bus

	mu     sync.RWMutex
	byName map[string]graphicssystem.GraphicsSystem
	order  []string

	activeCameraRenderDataID RenderDataID
	activeCameraTransformID  TransformID

	activeAmbientLightID RenderDataID
	ambientLightChanged  bool
}

// NewGraphicsSystemManager creates an empty manager identified by name,
// posting active-ambient-light-changed events on bus (may be nil).
func NewGraphicsSystemManager(name string, bus *eventbus.Bus) *GraphicsSystemManager {
	return &GraphicsSystemManager{
		name:                 name,
		bus:                  bus,
		byName:               make(map[string]graphicssystem.GraphicsSystem),
		activeCameraRenderDataID: RenderDataIDInvalid,
		activeCameraTransformID:  TransformIDInvalid,
		activeAmbientLightID:     RenderDataIDInvalid,
	}
}

// Name implements graphicssystem.Manager.
func (m *GraphicsSystemManager) Name() string { return m.name }

// Register stores an already-constructed GraphicsSystem under its
// lowercased script name.
func (m *GraphicsSystemManager) Register(scriptName string, gs graphicssystem.GraphicsSystem) error {
	key := strings.ToLower(scriptName)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byName[key]; exists {
		return fmt.Errorf("%w: graphics system %q already added", ErrPipelineDescription, scriptName)
	}
	m.byName[key] = gs
	m.order = append(m.order, key)
	return nil
}

// Get returns the GraphicsSystem registered under scriptName
// (case-insensitive).
func (m *GraphicsSystemManager) Get(scriptName string) (graphicssystem.GraphicsSystem, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gs, ok := m.byName[strings.ToLower(scriptName)]
	return gs, ok
}

// SetActiveCamera records the active camera's render-data/transform
// pair, read back through ActiveCamera. PreRender does not use it, and
// no camera buffer is written from it. Both ids must be valid or both
// invalid together.
func (m *GraphicsSystemManager) SetActiveCamera(renderDataID RenderDataID, transformID TransformID) {
	if (renderDataID != RenderDataIDInvalid) != (transformID != TransformIDInvalid) {
		panic("rendersystem: SetActiveCamera ids must both be valid or both invalid")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeCameraRenderDataID = renderDataID
	m.activeCameraTransformID = transformID
}

// ActiveCamera returns the current active camera render-data and
// transform ids.
func (m *GraphicsSystemManager) ActiveCamera() (RenderDataID, TransformID) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeCameraRenderDataID, m.activeCameraTransformID
}

// SetActiveAmbientLight records a candidate active ambient light.
// Lighting GraphicsSystems call this from their own pre_render closure
// once they've determined which ambient light (if any) should be
// active this frame, since this manager has no render-data store of
// its own to scan — this is a simplification of the original source's
// GraphicsSystemManager::UpdateActiveAmbientLight, which scans the
// scene's render data directly.
func (m *GraphicsSystemManager) SetActiveAmbientLight(id RenderDataID) {
	m.mu.Lock()
	changed := id != m.activeAmbientLightID
	m.activeAmbientLightID = id
	m.ambientLightChanged = changed
	m.mu.Unlock()
}

// ActiveAmbientLight returns the current active ambient light id and
// whether it changed this frame.
func (m *GraphicsSystemManager) ActiveAmbientLight() (RenderDataID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeAmbientLightID, m.ambientLightChanged
}

// PreRender runs once per frame, before any execution group: it resets
// the ambient-light-changed flag and broadcasts a change event if the
// active ambient light changed since the last call.
func (m *GraphicsSystemManager) PreRender(frameNum uint64) {
	m.mu.Lock()
	changed := m.ambientLightChanged
	id := m.activeAmbientLightID
	m.ambientLightChanged = false
	m.mu.Unlock()

	if changed && m.bus != nil {
		m.bus.Post(eventbus.Info{Kind: events.ActiveAmbientLightChanged, Data: id})
	}
}
