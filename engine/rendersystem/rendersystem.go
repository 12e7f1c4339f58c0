// Package rendersystem implements the RenderSystem builder: pipeline
// description parsing, per-GS dependency resolution, parallel update
// execution-group computation, and the per-frame drive loop.
package rendersystem

import (
	"fmt"

	"github.com/badke/saberrender/engine/eventbus"
	"github.com/badke/saberrender/engine/renderer/graphicssystem"
	"github.com/badke/saberrender/engine/renderer/stage"
	"github.com/badke/saberrender/engine/workerpool"
	"go.uber.org/zap"
)

// RenderSystem owns one pipeline description's worth of GraphicsSystem
// instances, the render pipeline their stages are built into, and the
// computed per-frame update execution groups.
type RenderSystem struct {
	name    string
	desc    *PipelineDescription
	manager *GraphicsSystemManager
	pool    *workerpool.Pool
	log     *zap.Logger

	registry *graphicssystem.Registry
	pipeline *stage.RenderPipeline

	singleThreadExecution bool
	reorderExecution      bool

	updateGroups [][]graphicssystem.NamedUpdateStep
}

// Option customizes New.
type Option func(*RenderSystem)

// WithSingleThreadExecution forces serial, declared-order execution of
// every GS's pre_render closure, matching the spec's
// singleThreadGSExecution config flag.
func WithSingleThreadExecution(v bool) Option {
	return func(rs *RenderSystem) { rs.singleThreadExecution = v }
}

// WithReorderExecution toggles the stable-sort-by-dependency-count
// reordering pass in ComputeExecutionGroups. Defaults to true.
func WithReorderExecution(v bool) Option {
	return func(rs *RenderSystem) { rs.reorderExecution = v }
}

// WithLogger attaches a logger. Defaults to zap.NewNop().
func WithLogger(log *zap.Logger) Option {
	return func(rs *RenderSystem) { rs.log = log }
}

// New creates a RenderSystem for desc, using registry to construct
// GraphicsSystems and pool to dispatch parallel execution groups.
func New(desc *PipelineDescription, registry *graphicssystem.Registry, pool *workerpool.Pool, bus *eventbus.Bus, opts ...Option) *RenderSystem {
	rs := &RenderSystem{
		name:             desc.Name,
		desc:             desc,
		registry:         registry,
		pool:             pool,
		log:              zap.NewNop(),
		reorderExecution: true,
		pipeline:         stage.NewRenderPipeline(desc.Name),
	}
	rs.manager = NewGraphicsSystemManager(desc.Name, bus)
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// Manager returns the render system's GraphicsSystemManager.
func (rs *RenderSystem) Manager() *GraphicsSystemManager { return rs.manager }

// Pipeline returns the render pipeline GS init steps build stages into.
func (rs *RenderSystem) Pipeline() *stage.RenderPipeline { return rs.pipeline }

// BuildPipeline constructs every GS in pd.PipelineOrder, resolves each
// one's dependencies against already-constructed producers, runs its
// init-pipeline closures into a fresh stage.Pipeline, calls
// RegisterOutputs, and finally computes the per-frame update execution
// groups. Must run on the render thread, once, before any frame.
func (rs *RenderSystem) BuildPipeline() error {
	byName := make(map[string]graphicssystem.GraphicsSystem, len(rs.desc.PipelineOrder))

	for _, name := range rs.desc.PipelineOrder {
		flags := rs.desc.Flags[name]
		gs, err := rs.registry.Create(rs.manager, name, flags)
		if err != nil {
			return fmt.Errorf("%w: constructing %q: %v", ErrPipelineDescription, name, err)
		}
		if err := rs.manager.Register(name, gs); err != nil {
			return err
		}
		byName[name] = gs

		textureDeps, err := resolveTextureDependencies(name, gs, rs.desc, byName)
		if err != nil {
			return err
		}
		bufferDeps, err := resolveBufferDependencies(name, gs, rs.desc, byName)
		if err != nil {
			return err
		}
		dataDeps, err := resolveDataDependencies(name, gs, rs.desc, byName)
		if err != nil {
			return err
		}

		gsPipeline := rs.pipeline.AddNewStagePipeline(name)
		bindings := gs.RuntimeBindings()
		for _, init := range bindings.InitPipeline {
			init.Fn(gsPipeline, textureDeps, bufferDeps, dataDeps)
		}

		gs.RegisterOutputs()
	}

	groups, err := ComputeExecutionGroups(rs.desc, rs.singleThreadExecution, rs.reorderExecution)
	if err != nil {
		return err
	}

	rs.updateGroups = make([][]graphicssystem.NamedUpdateStep, len(groups))
	for i, group := range groups {
		steps := make([]graphicssystem.NamedUpdateStep, 0, len(group))
		for _, name := range group {
			gs := byName[name]
			for _, step := range gs.RuntimeBindings().PreRender {
				steps = append(steps, step)
			}
		}
		rs.updateGroups[i] = steps
	}

	rs.log.Info("render pipeline built",
		zap.String("name", rs.name),
		zap.Int("graphics_systems", len(rs.desc.PipelineOrder)),
		zap.Int("execution_groups", len(rs.updateGroups)))

	return nil
}

// ExecuteInitializationPipeline is a no-op hook reserved for
// construction-time-only GS work beyond BuildPipeline's init-pipeline
// closures (e.g. one-time asset preloads); exposed separately so
// callers can log/measure it apart from BuildPipeline itself.
func (rs *RenderSystem) ExecuteInitializationPipeline() error {
	return nil
}

// ExecuteUpdatePipeline runs GraphicsSystemManager.PreRender, then each
// execution group in order: serially if singleThreadExecution is set,
// otherwise dispatched to the worker pool with a wait on every future
// before the next group starts. A panicking step is recovered, logged
// with the step's name (the owning GS's name is not logged), and does
// not stop its sibling steps or later groups.
func (rs *RenderSystem) ExecuteUpdatePipeline(frameNum uint64) {
	rs.manager.PreRender(frameNum)

	for _, group := range rs.updateGroups {
		if rs.singleThreadExecution {
			for _, step := range group {
				runStepSafely(rs.log, step)
			}
			continue
		}

		futures := make([]workerpool.Future[struct{}], len(group))
		for i, step := range group {
			step := step
			futures[i] = workerpool.Enqueue(rs.pool, func() (struct{}, error) {
				runStepSafely(rs.log, step)
				return struct{}{}, nil
			})
		}
		for _, f := range futures {
			_, _ = f.Wait()
		}
	}
}

func runStepSafely(log *zap.Logger, step graphicssystem.NamedUpdateStep) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("graphics system pre_render step failed",
				zap.String("step", step.Name),
				zap.Any("panic", r))
		}
	}()
	step.Fn()
}

// PostUpdatePreRender runs PostUpdatePreRender on the render pipeline.
func (rs *RenderSystem) PostUpdatePreRender() {
	rs.pipeline.PostUpdatePreRender()
}

// EndOfFrame runs EndOfFrame on the render pipeline, then on every
// GraphicsSystem implementing graphicssystem.OptionalEndOfFramer, in
// pipeline order.
func (rs *RenderSystem) EndOfFrame() {
	rs.pipeline.EndOfFrame()
	for _, name := range rs.desc.PipelineOrder {
		if gs, ok := rs.manager.Get(name); ok {
			if e, ok := gs.(graphicssystem.OptionalEndOfFramer); ok {
				e.EndOfFrame()
			}
		}
	}
}
