// Package graphicssystem defines the GraphicsSystem ABI every render
// stage-producing system implements, plus the process-wide Factory and
// Registry used to construct them by script name from a pipeline
// description.
package graphicssystem

import (
	"github.com/badke/saberrender/common/hashkey"
	"github.com/badke/saberrender/engine/renderer/stage"
)

// UpdateStep is one closure RenderSystem schedules per execution group:
// the GS's pre_render work for one frame.
type UpdateStep func()

// InitStep is one closure RenderSystem runs during pipeline
// construction: it builds the GS's stages into pipeline, given its
// resolved dependency maps.
type InitStep func(pipeline *stage.Pipeline, textures TextureDependencies, buffers BufferDependencies, data DataDependencies)

// RuntimeBindings is what a GraphicsSystem hands back to RenderSystem
// after construction: its named init-pipeline closures (run once,
// serially, during BuildPipeline) and its named pre-render closures
// (run every frame, possibly in parallel with other GSs in the same
// execution group).
type RuntimeBindings struct {
	InitPipeline []NamedInitStep
	PreRender    []NamedUpdateStep
}

type NamedInitStep struct {
	Name string
	Fn   InitStep
}

type NamedUpdateStep struct {
	Name string
	Fn   UpdateStep
}

// GraphicsSystem is the ABI every concrete graphics system implements.
// ScriptName is deliberately a method rather than only a registry key:
// an instance can report its own name for logging even when obtained
// through a generic `GraphicsSystem` value.
type GraphicsSystem interface {
	ScriptName() string

	// RegisterFlags declares the flag names this GS recognizes. Called
	// immediately after construction, before RegisterInputs.
	RegisterFlags()
	// RegisterInputs declares every texture/buffer/data input key this
	// GS consumes, with texture defaults where relevant. Called after
	// RegisterFlags, before dependency resolution.
	RegisterInputs()
	// RegisterOutputs declares this GS's outputs. Called after Init, so
	// outputs can depend on what Init actually produced.
	RegisterOutputs()

	// RuntimeBindings returns this GS's init-pipeline and pre-render
	// closures once construction is otherwise complete.
	RuntimeBindings() RuntimeBindings

	// TextureInputs, BufferInputs and DataInputs return the input
	// declarations made during RegisterInputs, for RenderSystem's
	// dependency-resolution pass.
	TextureInputs() map[hashkey.HashKey]TextureInputDefault
	BufferInputs() map[hashkey.HashKey]struct{}
	DataInputs() map[hashkey.HashKey]struct{}

	// TextureOutputs, BufferOutputs and DataOutputs return this GS's
	// concrete outputs, valid only after RegisterOutputs has run.
	TextureOutputs() TextureOutputs
	BufferOutputs() BufferOutputs
	DataOutputs() DataOutputs

	// SetFlag applies one (name, value) pair from the pipeline
	// description's per-instance flags. Called once per pair listed for
	// this instance in the description, after RegisterInputs. Implementations panic if name was not
	// registered, per the spec's "fatal if a flag isn't registered"
	// contract.
	SetFlag(name, value string)

	// PostEvent enqueues an event on this GS's thread-safe inbox; other
	// GSs in later execution groups may call it. HandleEvents drains
	// the inbox, typically from within a pre-render closure.
	PostEvent(kind hashkey.HashKey, data any)
	HandleEvents()
}

// OptionalEndOfFramer is implemented by GraphicsSystems that need
// per-frame cleanup beyond what their stages already do via
// stage.Pipeline.EndOfFrame.
type OptionalEndOfFramer interface {
	EndOfFrame()
}

// OptionalDebugUI is implemented by GraphicsSystems that contribute a
// debug UI panel.
type OptionalDebugUI interface {
	ShowDebugUI()
}
