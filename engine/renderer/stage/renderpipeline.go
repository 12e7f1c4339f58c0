package stage

// RenderPipeline is the ordered collection of per-GraphicsSystem
// StagePipelines that make up one frame's render graph.
type RenderPipeline struct {
	name      string
	pipelines []*Pipeline
}

// NewRenderPipeline creates an empty, named RenderPipeline.
func NewRenderPipeline(name string) *RenderPipeline {
	return &RenderPipeline{name: name}
}

// Name returns the render pipeline's name.
func (r *RenderPipeline) Name() string { return r.name }

// AddNewStagePipeline appends and returns a new, empty Pipeline.
func (r *RenderPipeline) AddNewStagePipeline(name string) *Pipeline {
	p := NewPipeline(name)
	r.pipelines = append(r.pipelines, p)
	return p
}

// StagePipelines returns the per-GraphicsSystem pipelines, in the order
// they were added (processed left-to-right, one GraphicsSystem's column
// at a time).
func (r *RenderPipeline) StagePipelines() []*Pipeline {
	return r.pipelines
}

// NumGraphicsSystems returns the number of StagePipelines (one per
// GraphicsSystem instance) in the render pipeline.
func (r *RenderPipeline) NumGraphicsSystems() int {
	return len(r.pipelines)
}

// PostUpdatePreRender runs PostUpdatePreRender on every StagePipeline.
func (r *RenderPipeline) PostUpdatePreRender() {
	for _, p := range r.pipelines {
		p.PostUpdatePreRender()
	}
}

// EndOfFrame runs EndOfFrame on every StagePipeline.
func (r *RenderPipeline) EndOfFrame() {
	for _, p := range r.pipelines {
		p.EndOfFrame()
	}
}
