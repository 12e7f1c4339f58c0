package rendersystem_test

import (
	"testing"

	"github.com/badke/saberrender/common/hashkey"
	"github.com/badke/saberrender/engine/renderer/graphicssystem"
	"github.com/badke/saberrender/engine/renderer/stage"
	"github.com/badke/saberrender/engine/rendersystem"
	"github.com/badke/saberrender/engine/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// producerGS declares one data output and records the dependency maps
// it's initialized with, so tests can assert on exactly what
// RenderSystem resolved for it.
type producerGS struct {
	graphicssystem.Base
}

func newProducerGS(graphicssystem.Manager) graphicssystem.GraphicsSystem {
	return &producerGS{Base: graphicssystem.NewBase("Producer")}
}

func (g *producerGS) RegisterFlags()  {}
func (g *producerGS) RegisterInputs() {}
func (g *producerGS) RegisterOutputs() {
	g.SetDataOutput(hashkey.New("value"), 42)
}
func (g *producerGS) RuntimeBindings() graphicssystem.RuntimeBindings {
	return graphicssystem.RuntimeBindings{
		InitPipeline: []graphicssystem.NamedInitStep{
			{Name: "init", Fn: func(p *stage.Pipeline, _ graphicssystem.TextureDependencies, _ graphicssystem.BufferDependencies, _ graphicssystem.DataDependencies) {
				p.AppendStage(stage.NewParent("producer-root"))
			}},
		},
	}
}
func (g *producerGS) HandleEvents() {}

// consumerGS records the DataDependencies it was initialized with.
type consumerGS struct {
	graphicssystem.Base
	gotValue any
}

func newConsumerGS(graphicssystem.Manager) graphicssystem.GraphicsSystem {
	return &consumerGS{Base: graphicssystem.NewBase("Consumer")}
}

func (g *consumerGS) RegisterFlags() {}
func (g *consumerGS) RegisterInputs() {
	g.DeclareDataInput(hashkey.New("input"))
}
func (g *consumerGS) RegisterOutputs() {}
func (g *consumerGS) RuntimeBindings() graphicssystem.RuntimeBindings {
	return graphicssystem.RuntimeBindings{
		InitPipeline: []graphicssystem.NamedInitStep{
			{Name: "init", Fn: func(p *stage.Pipeline, _ graphicssystem.TextureDependencies, _ graphicssystem.BufferDependencies, data graphicssystem.DataDependencies) {
				g.gotValue = data[hashkey.New("input")]
			}},
		},
	}
}
func (g *consumerGS) HandleEvents() {}

func TestBuildPipelineResolvesDataDependency(t *testing.T) {
	reg := &graphicssystem.Registry{}
	reg.Register("Producer", newProducerGS)
	reg.Register("Consumer", newConsumerGS)

	pd, err := rendersystem.ParsePipelineDescription([]byte(`{
		"name": "t",
		"graphics_systems": ["Producer", "Consumer"],
		"pipeline_order": ["Producer", "Consumer"],
		"data_inputs": {
			"Consumer": [{"src": "Producer", "map": [["value", "input"]]}]
		}
	}`))
	require.NoError(t, err)

	pool := workerpool.New(2, 16)
	defer pool.Stop()

	rs := rendersystem.New(pd, reg, pool, nil)
	require.NoError(t, rs.BuildPipeline())

	consumer, ok := rs.Manager().Get("consumer")
	require.True(t, ok)
	assert.Equal(t, 42, consumer.(*consumerGS).gotValue)

	assert.Equal(t, 2, rs.Pipeline().NumGraphicsSystems())
}

func TestBuildPipelineErrorsOnUndeclaredProducer(t *testing.T) {
	reg := &graphicssystem.Registry{}
	reg.Register("Consumer", newConsumerGS)

	pd, err := rendersystem.ParsePipelineDescription([]byte(`{
		"name": "t",
		"graphics_systems": ["Consumer"],
		"pipeline_order": ["Consumer"],
		"data_inputs": {
			"Consumer": [{"src": "Missing", "map": [["value", "input"]]}]
		}
	}`))
	require.NoError(t, err)

	pool := workerpool.New(1, 4)
	defer pool.Stop()

	rs := rendersystem.New(pd, reg, pool, nil)
	assert.ErrorIs(t, rs.BuildPipeline(), rendersystem.ErrPipelineDescription)
}

func TestExecuteUpdatePipelineRunsAllSteps(t *testing.T) {
	reg := &graphicssystem.Registry{}
	reg.Register("Producer", newProducerGS)
	reg.Register("Consumer", newConsumerGS)

	pd, err := rendersystem.ParsePipelineDescription([]byte(`{
		"name": "t",
		"graphics_systems": ["Producer", "Consumer"],
		"pipeline_order": ["Producer", "Consumer"],
		"data_inputs": {
			"Consumer": [{"src": "Producer", "map": [["value", "input"]]}]
		}
	}`))
	require.NoError(t, err)

	pool := workerpool.New(2, 16)
	defer pool.Stop()

	rs := rendersystem.New(pd, reg, pool, nil)
	require.NoError(t, rs.BuildPipeline())

	assert.NotPanics(t, func() { rs.ExecuteUpdatePipeline(0) })
	rs.PostUpdatePreRender()
	rs.EndOfFrame()
}
