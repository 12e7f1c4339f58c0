// Package stage implements the render-graph's Stage and StagePipeline
// types: ordered, mutable lists of render/compute work items threaded
// through a frame's GraphicsSystems.
package stage

import "github.com/badke/saberrender/common/hashkey"

// Kind distinguishes the four stage variants the spec names. Parent is
// an empty grouping container with no batches or targets of its own.
type Kind int

const (
	Render Kind = iota
	Compute
	FullscreenQuad
	Parent
)

func (k Kind) String() string {
	switch k {
	case Render:
		return "Render"
	case Compute:
		return "Compute"
	case FullscreenQuad:
		return "FullscreenQuad"
	case Parent:
		return "Parent"
	default:
		return "Unknown"
	}
}

// Lifetime controls whether a StagePipeline entry survives past the
// frame it was appended in.
type Lifetime int

const (
	PermanentLifetime Lifetime = iota
	SingleFrame
)

// Stage is one unit of render-graph work: a target set, its batches,
// declared buffer/texture inputs, an effect id, and a lifetime.
type Stage struct {
	Name     string
	Kind     Kind
	Lifetime Lifetime
	EffectID hashkey.HashKey

	Targets       []string
	Batches       []any
	BufferInputs  []hashkey.HashKey
	TextureInputs []hashkey.HashKey

	// ResolveBuffers is invoked by StagePipeline.PostUpdatePreRender to
	// let the stage finalize its buffer bindings once per frame, after
	// all GraphicsSystem updates for the frame have run.
	ResolveBuffers func()
	// OnEndOfFrame is invoked by StagePipeline.EndOfFrame for every
	// stage in the pipeline, single-frame ones included, before
	// single-frame entries are erased.
	OnEndOfFrame func()
}

// NewParent returns an empty grouping stage with no batches or targets.
func NewParent(name string) *Stage {
	return &Stage{Name: name, Kind: Parent, Lifetime: PermanentLifetime}
}
