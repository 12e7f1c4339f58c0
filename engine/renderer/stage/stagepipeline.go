package stage

import "container/list"

// Iterator identifies a position within a StagePipeline, returned by
// the Append* methods so callers can anchor later insertions.
type Iterator = *list.Element

// Pipeline is a doubly-linked, order-preserving list of stages, plus
// bookkeeping to erase every single-frame stage appended this frame
// without disturbing the permanent entries around it.
type Pipeline struct {
	name   string
	stages *list.List

	singleFrameInsertionPoints []Iterator
}

// NewPipeline creates an empty, named Pipeline.
func NewPipeline(name string) *Pipeline {
	return &Pipeline{name: name, stages: list.New()}
}

// Name returns the pipeline's name.
func (p *Pipeline) Name() string { return p.name }

// NumStages returns the number of stages currently in the pipeline.
func (p *Pipeline) NumStages() int { return p.stages.Len() }

// Stages returns the stages in pipeline order.
func (p *Pipeline) Stages() []*Stage {
	out := make([]*Stage, 0, p.stages.Len())
	for e := p.stages.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*Stage))
	}
	return out
}

// AppendStage appends a permanent stage to the tail of the pipeline.
func (p *Pipeline) AppendStage(s *Stage) Iterator {
	return p.stages.PushBack(s)
}

// AppendStageAfter inserts a permanent stage immediately after parent.
func (p *Pipeline) AppendStageAfter(parent Iterator, s *Stage) Iterator {
	return p.stages.InsertAfter(s, parent)
}

// AppendSingleFrameStage appends a stage to the tail of the pipeline
// and records it for erasure at the next EndOfFrame.
func (p *Pipeline) AppendSingleFrameStage(s *Stage) Iterator {
	s.Lifetime = SingleFrame
	it := p.stages.PushBack(s)
	p.singleFrameInsertionPoints = append(p.singleFrameInsertionPoints, it)
	return it
}

// AppendSingleFrameStageAfter inserts a stage immediately after parent
// and records it for erasure at the next EndOfFrame.
func (p *Pipeline) AppendSingleFrameStageAfter(parent Iterator, s *Stage) Iterator {
	s.Lifetime = SingleFrame
	it := p.stages.InsertAfter(s, parent)
	p.singleFrameInsertionPoints = append(p.singleFrameInsertionPoints, it)
	return it
}

// PostUpdatePreRender runs every stage's ResolveBuffers hook, in
// pipeline order, once GraphicsSystem updates for the frame are done.
func (p *Pipeline) PostUpdatePreRender() {
	for e := p.stages.Front(); e != nil; e = e.Next() {
		s := e.Value.(*Stage)
		if s.ResolveBuffers != nil {
			s.ResolveBuffers()
		}
	}
}

// EndOfFrame runs every stage's OnEndOfFrame hook, then erases every
// single-frame stage appended this frame, leaving permanent entries
// undisturbed.
func (p *Pipeline) EndOfFrame() {
	for e := p.stages.Front(); e != nil; e = e.Next() {
		s := e.Value.(*Stage)
		if s.OnEndOfFrame != nil {
			s.OnEndOfFrame()
		}
	}

	for _, it := range p.singleFrameInsertionPoints {
		p.stages.Remove(it)
	}
	p.singleFrameInsertionPoints = p.singleFrameInsertionPoints[:0]
}
