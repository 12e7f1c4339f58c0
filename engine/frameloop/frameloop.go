// Package frameloop drives the main/render thread pair described by
// the render-graph core: a fixed-timestep simulation loop on the main
// thread, an uncapped render thread that drains every RenderSystem's
// update pipeline, and a barrier coupling the two once per frame.
package frameloop

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/badke/saberrender/engine/eventbus"
	"github.com/badke/saberrender/engine/rendersystem"
)

// DefaultFixedTimestep is ~1000/120ms, the spec's FIXED_TIMESTEP_MS.
const DefaultFixedTimestep = time.Second / 120

// DefaultMaxOuterFrameTime clamps how much elapsed time a single stalled
// outer frame can contribute to the fixed-step accumulator, preventing
// a spiral of death after a long pause (debugger breakpoint, GC stall).
const DefaultMaxOuterFrameTime = 250 * time.Millisecond

// RenderUpdate is what the main thread enqueues for the render thread
// once per outer frame. Quit is set on the final update sent after Stop
// is called, telling the render goroutine to exit after this barrier
// round instead of expecting another update.
type RenderUpdate struct {
	FrameNum uint64
	DtMs     float64
	Quit     bool
}

// FrameLoop owns the barrier, the render-update handoff channel, and
// every registered RenderSystem's per-frame drive calls.
type FrameLoop struct {
	bus           *eventbus.Bus
	renderSystems []*rendersystem.RenderSystem
	barrier       *Barrier

	fixedTimestep     time.Duration
	maxOuterFrameTime time.Duration

	MainUpdate  func(frameNum uint64, lastOuter time.Duration)
	FixedUpdate func(dt time.Duration)
	SceneUpdate func(lastOuter time.Duration)
	UIUpdate    func(lastOuter time.Duration)

	renderQueue chan RenderUpdate

	running atomic.Bool
	log     *zap.Logger
	wg      sync.WaitGroup
}

// Option customizes New.
type Option func(*FrameLoop)

func WithFixedTimestep(d time.Duration) Option {
	return func(f *FrameLoop) { f.fixedTimestep = d }
}

func WithMaxOuterFrameTime(d time.Duration) Option {
	return func(f *FrameLoop) { f.maxOuterFrameTime = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(f *FrameLoop) { f.log = log }
}

func WithMainUpdate(fn func(frameNum uint64, lastOuter time.Duration)) Option {
	return func(f *FrameLoop) { f.MainUpdate = fn }
}

func WithFixedUpdate(fn func(dt time.Duration)) Option {
	return func(f *FrameLoop) { f.FixedUpdate = fn }
}

func WithSceneUpdate(fn func(lastOuter time.Duration)) Option {
	return func(f *FrameLoop) { f.SceneUpdate = fn }
}

func WithUIUpdate(fn func(lastOuter time.Duration)) Option {
	return func(f *FrameLoop) { f.UIUpdate = fn }
}

// New creates a FrameLoop coupling the main and render threads via a
// 2-party barrier, driving renderSystems' update pipelines each frame.
func New(bus *eventbus.Bus, renderSystems []*rendersystem.RenderSystem, opts ...Option) *FrameLoop {
	f := &FrameLoop{
		bus:               bus,
		renderSystems:     renderSystems,
		barrier:           NewBarrier(2),
		fixedTimestep:     DefaultFixedTimestep,
		maxOuterFrameTime: DefaultMaxOuterFrameTime,
		renderQueue:       make(chan RenderUpdate, 1),
		log:               zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run starts the main and render goroutines. Stop requests the main
// loop to exit at its next loop head, after which it signals the
// render goroutine to exit too; Wait blocks until both have.
func (f *FrameLoop) Run() {
	f.running.Store(true)
	f.wg.Add(2)
	go f.runMain()
	go f.runRender()
}

// Stop requests the loop to exit. In-flight GPU work in the render
// thread is not interrupted; the flag is only polled at the main loop's
// head, once per outer frame.
func (f *FrameLoop) Stop() {
	f.running.Store(false)
}

// Wait blocks until both the main and render goroutines have exited.
func (f *FrameLoop) Wait() {
	f.wg.Wait()
}

// StepFixedUpdates advances the accumulator by outerFrame (clamped to
// maxOuterFrameTime) and returns how many fixedTimestep-sized steps it
// consumed, plus the leftover carried into the next frame. Extracted
// from runMain's loop body so the accumulator's convergence behavior
// can be exercised directly, without driving real goroutines.
func StepFixedUpdates(elapsed, outerFrame, fixedTimestep, maxOuterFrameTime time.Duration) (steps int, remaining time.Duration) {
	if outerFrame > maxOuterFrameTime {
		outerFrame = maxOuterFrameTime
	}
	elapsed += outerFrame
	for elapsed >= fixedTimestep {
		elapsed -= fixedTimestep
		steps++
	}
	return steps, elapsed
}

func (f *FrameLoop) runMain() {
	defer f.wg.Done()

	var frameNum uint64
	var elapsed time.Duration
	last := time.Now()

	for f.running.Load() {
		now := time.Now()
		lastOuter := now.Sub(last)
		last = now

		if f.MainUpdate != nil {
			f.MainUpdate(frameNum, lastOuter)
		}

		var steps int
		steps, elapsed = StepFixedUpdates(elapsed, lastOuter, f.fixedTimestep, f.maxOuterFrameTime)
		for i := 0; i < steps; i++ {
			if f.bus != nil {
				f.bus.Update()
			}
			if f.FixedUpdate != nil {
				f.FixedUpdate(f.fixedTimestep)
			}
		}

		if f.SceneUpdate != nil {
			f.SceneUpdate(lastOuter)
		}
		if f.UIUpdate != nil {
			f.UIUpdate(lastOuter)
		}

		// The render thread always drains renderQueue and arrives at the
		// barrier before this thread sends the next frame's update, so
		// the size-1 channel is guaranteed empty here; this send never
		// blocks.
		f.renderQueue <- RenderUpdate{FrameNum: frameNum, DtMs: float64(lastOuter.Microseconds()) / 1000}

		frameNum++
		f.barrier.Arrive()
	}

	// Stop was observed: send one final, authoritative signal so the
	// render goroutine (which has no independent stop check of its own)
	// exits after this round instead of blocking on the next recv
	// forever. Only this goroutine decides when to stop, so there is no
	// race between two independently-polled flags.
	f.renderQueue <- RenderUpdate{Quit: true}
	f.barrier.Arrive()
}

func (f *FrameLoop) runRender() {
	defer f.wg.Done()

	for {
		update := <-f.renderQueue
		if update.Quit {
			f.barrier.Arrive()
			return
		}

		for _, rs := range f.renderSystems {
			func() {
				defer func() {
					if r := recover(); r != nil {
						f.log.Error("render system update pipeline panicked",
							zap.Any("panic", r))
					}
				}()
				rs.ExecuteUpdatePipeline(update.FrameNum)
			}()
		}
		for _, rs := range f.renderSystems {
			rs.PostUpdatePreRender()
		}
		for _, rs := range f.renderSystems {
			rs.EndOfFrame()
		}

		f.barrier.Arrive()
	}
}
