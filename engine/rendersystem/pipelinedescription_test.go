package rendersystem_test

import (
	"testing"

	"github.com/badke/saberrender/engine/rendersystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePipelineJSON = `{
	"name": "Default",
	"graphics_systems": ["GBuffer", "Deferred", "Tonemapping"],
	"pipeline_order": ["GBuffer", "Deferred", "Tonemapping"],
	"flags": {
		"Deferred": [["UseSSAO", "true"]]
	},
	"texture_inputs": {
		"Deferred": [{"src": "GBuffer", "map": [["Albedo", "GBufferAlbedo"]]}]
	}
}`

func TestParsePipelineDescriptionLowercasesNames(t *testing.T) {
	pd, err := rendersystem.ParsePipelineDescription([]byte(samplePipelineJSON))
	require.NoError(t, err)

	assert.Equal(t, []string{"gbuffer", "deferred", "tonemapping"}, pd.GraphicsSystems)
	assert.Equal(t, []string{"gbuffer", "deferred", "tonemapping"}, pd.PipelineOrder)
	assert.Equal(t, "usessao", pd.Flags["deferred"][0][0])
	assert.Equal(t, "gbufferalbedo", pd.TextureInputs["deferred"][0].Map[0][1])
}

func TestParsePipelineDescriptionRejectsMismatchedOrder(t *testing.T) {
	bad := `{"name":"x","graphics_systems":["A","B"],"pipeline_order":["A"]}`
	_, err := rendersystem.ParsePipelineDescription([]byte(bad))
	assert.ErrorIs(t, err, rendersystem.ErrPipelineDescription)
}

func TestParsePipelineDescriptionRejectsUnknownOrderEntry(t *testing.T) {
	bad := `{"name":"x","graphics_systems":["A"],"pipeline_order":["B"]}`
	_, err := rendersystem.ParsePipelineDescription([]byte(bad))
	assert.ErrorIs(t, err, rendersystem.ErrPipelineDescription)
}

func TestParsePipelineDescriptionRequiresName(t *testing.T) {
	bad := `{"graphics_systems":["A"],"pipeline_order":["A"]}`
	_, err := rendersystem.ParsePipelineDescription([]byte(bad))
	assert.ErrorIs(t, err, rendersystem.ErrPipelineDescription)
}
