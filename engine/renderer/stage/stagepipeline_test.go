package stage_test

import (
	"testing"

	"github.com/badke/saberrender/engine/renderer/stage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(stages []*stage.Stage) []string {
	out := make([]string, len(stages))
	for i, s := range stages {
		out[i] = s.Name
	}
	return out
}

func TestAppendPreservesOrder(t *testing.T) {
	p := stage.NewPipeline("opaque")

	p.AppendStage(&stage.Stage{Name: "a"})
	p.AppendStage(&stage.Stage{Name: "b"})
	p.AppendStage(&stage.Stage{Name: "c"})

	require.Equal(t, 3, p.NumStages())
	assert.Equal(t, []string{"a", "b", "c"}, names(p.Stages()))
}

func TestAppendAfterInsertsAtPosition(t *testing.T) {
	p := stage.NewPipeline("opaque")

	a := p.AppendStage(&stage.Stage{Name: "a"})
	p.AppendStage(&stage.Stage{Name: "c"})
	p.AppendStageAfter(a, &stage.Stage{Name: "b"})

	assert.Equal(t, []string{"a", "b", "c"}, names(p.Stages()))
}

func TestSingleFrameStagesErasedAtEndOfFrame(t *testing.T) {
	p := stage.NewPipeline("opaque")

	p.AppendStage(&stage.Stage{Name: "permanent"})
	p.AppendSingleFrameStage(&stage.Stage{Name: "transient"})

	require.Equal(t, []string{"permanent", "transient"}, names(p.Stages()))

	p.EndOfFrame()
	assert.Equal(t, []string{"permanent"}, names(p.Stages()))
}

func TestSingleFrameStageAfterDoesNotDisturbPermanentEntries(t *testing.T) {
	p := stage.NewPipeline("opaque")

	a := p.AppendStage(&stage.Stage{Name: "a"})
	p.AppendStage(&stage.Stage{Name: "b"})
	p.AppendSingleFrameStageAfter(a, &stage.Stage{Name: "transient"})

	assert.Equal(t, []string{"a", "transient", "b"}, names(p.Stages()))

	p.EndOfFrame()
	assert.Equal(t, []string{"a", "b"}, names(p.Stages()))
}

func TestEndOfFrameRunsHooksBeforeErasing(t *testing.T) {
	p := stage.NewPipeline("opaque")

	var ranOn []string
	hook := func(name string) func() {
		return func() { ranOn = append(ranOn, name) }
	}

	p.AppendStage(&stage.Stage{Name: "a", OnEndOfFrame: hook("a")})
	p.AppendSingleFrameStage(&stage.Stage{Name: "b", OnEndOfFrame: hook("b")})

	p.EndOfFrame()
	assert.Equal(t, []string{"a", "b"}, ranOn)
	assert.Equal(t, []string{"a"}, names(p.Stages()))
}

func TestPostUpdatePreRenderRunsAllHooksInOrder(t *testing.T) {
	p := stage.NewPipeline("opaque")

	var ran []string
	p.AppendStage(&stage.Stage{Name: "a", ResolveBuffers: func() { ran = append(ran, "a") }})
	p.AppendStage(&stage.Stage{Name: "b", ResolveBuffers: func() { ran = append(ran, "b") }})

	p.PostUpdatePreRender()
	assert.Equal(t, []string{"a", "b"}, ran)
}

func TestRenderPipelineTracksStagePipelines(t *testing.T) {
	rp := stage.NewRenderPipeline("frame")

	rp.AddNewStagePipeline("gs-a")
	rp.AddNewStagePipeline("gs-b")

	require.Equal(t, 2, rp.NumGraphicsSystems())
	assert.Equal(t, []string{"gs-a", "gs-b"}, []string{
		rp.StagePipelines()[0].Name(),
		rp.StagePipelines()[1].Name(),
	})
}
