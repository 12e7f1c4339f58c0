package graphicssystem

import (
	"fmt"
	"strings"
	"sync"
)

// Manager is the owning collaborator every CreateFunc receives —
// rendersystem.GraphicsSystemManager implements it. It exposes only the
// manager's Name; it gives no access to the Inventory, EventBus or
// other collaborators.
type Manager interface {
	Name() string
}

// CreateFunc constructs a GraphicsSystem and binds it to its owning
// manager. The returned instance has not yet had RegisterFlags or
// RegisterInputs called on it — the Factory does that immediately
// after construction.
type CreateFunc func(mgr Manager) GraphicsSystem

// Registry is the process-wide script-name -> CreateFunc map. The zero
// value is ready to use; Register is typically called from a package
// init() so a GS type self-registers merely by being imported, the Go
// equivalent of the spec's static-initializer registrar.
type Registry struct {
	mu      sync.RWMutex
	creates map[string]CreateFunc
}

var defaultRegistry = &Registry{creates: make(map[string]CreateFunc)}

// DefaultRegistry returns the process-wide registry that package-level
// Register populates. Production bootstrap code passes this to
// rendersystem.New after blank-importing every built-in GraphicsSystem
// package so its init() has run; tests construct their own throwaway
// &Registry{} instead, to stay isolated from other tests' registrations.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds scriptName (case-insensitively) to the default
// registry. Panics on duplicate registration — a programming error,
// not a runtime condition callers should recover from.
func Register(scriptName string, create CreateFunc) {
	defaultRegistry.Register(scriptName, create)
}

// Create constructs the GraphicsSystem registered under scriptName
// (case-insensitive) on the default registry, applies flags, and
// returns the ready-to-use instance. See Registry.Create.
func Create(mgr Manager, scriptName string, flags [][2]string) (GraphicsSystem, error) {
	return defaultRegistry.Create(mgr, scriptName, flags)
}

// Register adds scriptName (case-insensitively) to the registry. The
// zero Registry is ready to use — Register lazily allocates its map.
func (r *Registry) Register(scriptName string, create CreateFunc) {
	key := strings.ToLower(scriptName)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.creates == nil {
		r.creates = make(map[string]CreateFunc)
	}
	if _, exists := r.creates[key]; exists {
		panic(fmt.Sprintf("graphicssystem: %q already registered", scriptName))
	}
	r.creates[key] = create
}

// Create looks up scriptName (case-insensitive), constructs the
// GraphicsSystem, calls RegisterFlags then RegisterInputs on it, then
// applies every (flag, value) pair from the pipeline description.
func (r *Registry) Create(mgr Manager, scriptName string, flags [][2]string) (GraphicsSystem, error) {
	key := strings.ToLower(scriptName)

	r.mu.RLock()
	create, ok := r.creates[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("graphicssystem: no factory registered for %q", scriptName)
	}

	gs := create(mgr)
	gs.RegisterFlags()
	gs.RegisterInputs()

	for _, kv := range flags {
		gs.SetFlag(kv[0], kv[1])
	}

	return gs, nil
}
