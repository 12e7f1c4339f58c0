package frameloop_test

import (
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/badke/saberrender/engine/eventbus"
	"github.com/badke/saberrender/engine/frameloop"
	"github.com/badke/saberrender/engine/renderer/graphicssystem"
	"github.com/badke/saberrender/engine/rendersystem"
	"github.com/badke/saberrender/engine/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFixedStepCadenceConverges exercises invariant 12 directly against
// the accumulator function, without driving real goroutines/timers:
// across many outer frames of constant duration T, the total number of
// fixed-step updates consumed converges to T/FIXED_TIMESTEP_MS.
func TestFixedStepCadenceConverges(t *testing.T) {
	const fixedStep = 8 * time.Millisecond
	const maxOuter = time.Second
	const outerFrame = 33 * time.Millisecond // e.g. ~30fps
	const numFrames = 10_000

	var elapsed time.Duration
	var totalSteps int
	for i := 0; i < numFrames; i++ {
		steps, rem := frameloop.StepFixedUpdates(elapsed, outerFrame, fixedStep, maxOuter)
		elapsed = rem
		totalSteps += steps
	}

	expected := float64(numFrames) * float64(outerFrame) / float64(fixedStep)
	actual := float64(totalSteps)

	assert.InDelta(t, expected, actual, 1, "fixed-step count must converge to outer_time/timestep within the accumulator carry")
}

func TestStepFixedUpdatesClampsLongStalls(t *testing.T) {
	const fixedStep = 8 * time.Millisecond
	const maxOuter = 50 * time.Millisecond

	steps, remaining := frameloop.StepFixedUpdates(0, 10*time.Second, fixedStep, maxOuter)

	assert.Equal(t, int(maxOuter/fixedStep), steps)
	assert.Less(t, remaining, fixedStep)
}

func TestStepFixedUpdatesCarriesRemainder(t *testing.T) {
	const fixedStep = 10 * time.Millisecond
	const maxOuter = time.Second

	steps1, rem1 := frameloop.StepFixedUpdates(0, 25*time.Millisecond, fixedStep, maxOuter)
	require.Equal(t, 2, steps1)
	assert.Equal(t, 5*time.Millisecond, rem1)

	steps2, rem2 := frameloop.StepFixedUpdates(rem1, 5*time.Millisecond, fixedStep, maxOuter)
	assert.Equal(t, 1, steps2)
	assert.Equal(t, time.Duration(0), rem2)
}

// TestFrameLoopDrivesCallbacksAndRenderSystem runs the real goroutines
// for a short, bounded window and checks that both the fixed-update
// callback and an attached (empty) RenderSystem's update pipeline are
// actually driven, and that the loop stops cleanly.
func TestFrameLoopDrivesCallbacksAndRenderSystem(t *testing.T) {
	pd, err := rendersystem.ParsePipelineDescription([]byte(`{"name":"empty","graphics_systems":[],"pipeline_order":[]}`))
	require.NoError(t, err)

	pool := workerpool.New(2, 8)
	defer pool.Stop()

	rs := rendersystem.New(pd, &graphicssystem.Registry{}, pool, nil)
	require.NoError(t, rs.BuildPipeline())

	bus := eventbus.New()

	var fixedSteps atomic.Int64
	var mainCalls atomic.Int64

	fl := frameloop.New(bus, []*rendersystem.RenderSystem{rs},
		frameloop.WithFixedTimestep(time.Millisecond),
		frameloop.WithMainUpdate(func(uint64, time.Duration) { mainCalls.Add(1) }),
		frameloop.WithFixedUpdate(func(time.Duration) { fixedSteps.Add(1) }),
	)

	fl.Run()
	time.Sleep(50 * time.Millisecond)
	fl.Stop()

	done := make(chan struct{})
	go func() { fl.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("frame loop did not stop after Stop()")
	}

	assert.Greater(t, mainCalls.Load(), int64(0))
	assert.Greater(t, fixedSteps.Load(), int64(0))
}

func TestDefaultFixedTimestepIsApproximately120Hz(t *testing.T) {
	hz := float64(time.Second) / float64(frameloop.DefaultFixedTimestep)
	assert.True(t, math.Abs(hz-120) < 1)
}
