package graphicssystem_test

import (
	"testing"

	"github.com/badke/saberrender/common/hashkey"
	"github.com/badke/saberrender/engine/renderer/graphicssystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeManager struct{}

func (fakeManager) Name() string { return "fake" }

type fakeGS struct {
	graphicssystem.Base
	strength string
}

func newFakeGS(graphicssystem.Manager) graphicssystem.GraphicsSystem {
	return &fakeGS{Base: graphicssystem.NewBase("FakeGS")}
}

func (g *fakeGS) RegisterFlags()  { g.DeclareFlag("strength") }
func (g *fakeGS) RegisterInputs() { g.DeclareTextureInput(hashkey.New("albedo"), graphicssystem.DefaultOpaqueWhite) }
func (g *fakeGS) RegisterOutputs() {}
func (g *fakeGS) HandleEvents()    { g.DrainEvents() }
func (g *fakeGS) RuntimeBindings() graphicssystem.RuntimeBindings {
	return graphicssystem.RuntimeBindings{}
}
func (g *fakeGS) SetFlag(name, value string) {
	g.Base.SetFlag(name, value)
	if name == "strength" {
		g.strength = value
	}
}

func TestRegistryCreateAppliesFlags(t *testing.T) {
	reg := &graphicssystem.Registry{}
	reg.Register("FakeGS", newFakeGS)

	gs, err := reg.Create(fakeManager{}, "fakegs", [][2]string{{"strength", "high"}})
	require.NoError(t, err)

	assert.Equal(t, "high", gs.(*fakeGS).strength)
}

func TestRegistryCreateUnknownNameErrors(t *testing.T) {
	reg := &graphicssystem.Registry{}
	reg.Register("FakeGS", newFakeGS)

	_, err := reg.Create(fakeManager{}, "nonexistent", nil)
	assert.Error(t, err)
}

func TestSetFlagPanicsOnUnregisteredFlag(t *testing.T) {
	reg := &graphicssystem.Registry{}
	reg.Register("FakeGS", newFakeGS)

	assert.Panics(t, func() {
		_, _ = reg.Create(fakeManager{}, "fakegs", [][2]string{{"unknown", "x"}})
	})
}

func TestDeclaredTextureInputVisible(t *testing.T) {
	gs := newFakeGS(fakeManager{})
	gs.RegisterInputs()

	inputs := gs.TextureInputs()
	fallback, ok := inputs[hashkey.New("albedo")]
	require.True(t, ok)
	assert.Equal(t, graphicssystem.DefaultOpaqueWhite, fallback)
}

func TestBaseEventInboxDrains(t *testing.T) {
	b := graphicssystem.NewBase("X")

	b.PostEvent(hashkey.New("evt"), 1)
	b.PostEvent(hashkey.New("evt"), 2)

	drained := b.DrainEvents()
	assert.Len(t, drained, 2)
	assert.Empty(t, b.DrainEvents())
}
