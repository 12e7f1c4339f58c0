package rendersystem

import (
	"fmt"

	"github.com/badke/saberrender/common/hashkey"
	"github.com/badke/saberrender/engine/inventory"
	"github.com/badke/saberrender/engine/renderer/graphicssystem"
	"github.com/cogentcore/webgpu/wgpu"
)

// resolveTextureDependencies builds dstName's TextureDependencies: every
// declared input starts at its registered default, then any
// (src_gs, src_output -> dst_input) mapping from the pipeline
// description overrides it with the producer's concrete output.
func resolveTextureDependencies(
	dstName string,
	dst graphicssystem.GraphicsSystem,
	pd *PipelineDescription,
	byName map[string]graphicssystem.GraphicsSystem,
) (graphicssystem.TextureDependencies, error) {
	deps := make(graphicssystem.TextureDependencies, len(dst.TextureInputs()))
	for name := range dst.TextureInputs() {
		// The zero InvPtr stands in for "use the registered default
		// fallback texture" — resolving that into a concrete loaded
		// texture is the GPU backend's job (it owns the Inventory
		// entries for the well-known default textures), not this
		// package's dependency-resolution pass.
		deps[name] = inventory.InvPtr[*wgpu.Texture]{}
	}

	for _, src := range pd.TextureInputs[dstName] {
		producer, ok := byName[src.Src]
		if !ok {
			return nil, fmt.Errorf("%w: %q declares a texture input from undeclared graphics system %q", ErrPipelineDescription, dstName, src.Src)
		}
		outputs := producer.TextureOutputs()
		for _, pair := range src.Map {
			srcOut, dstIn := hashkey.New(pair[0]), hashkey.New(pair[1])
			out, ok := outputs[srcOut]
			if !ok {
				return nil, fmt.Errorf("%w: %q's producer %q has no texture output %q", ErrPipelineDescription, dstName, src.Src, pair[0])
			}
			deps[dstIn] = out
		}
	}
	return deps, nil
}

// resolveBufferDependencies mirrors resolveTextureDependencies for
// buffer inputs; unresolved inputs stay nil, which is the GS's problem
// to detect in its own init hook per spec.md §4.8.
func resolveBufferDependencies(
	dstName string,
	dst graphicssystem.GraphicsSystem,
	pd *PipelineDescription,
	byName map[string]graphicssystem.GraphicsSystem,
) (graphicssystem.BufferDependencies, error) {
	deps := make(graphicssystem.BufferDependencies, len(dst.BufferInputs()))
	for name := range dst.BufferInputs() {
		deps[name] = nil
	}

	for _, src := range pd.BufferInputs[dstName] {
		producer, ok := byName[src.Src]
		if !ok {
			return nil, fmt.Errorf("%w: %q declares a buffer input from undeclared graphics system %q", ErrPipelineDescription, dstName, src.Src)
		}
		outputs := producer.BufferOutputs()
		for _, pair := range src.Map {
			srcOut, dstIn := hashkey.New(pair[0]), hashkey.New(pair[1])
			out, ok := outputs[srcOut]
			if !ok {
				return nil, fmt.Errorf("%w: %q's producer %q has no buffer output %q", ErrPipelineDescription, dstName, src.Src, pair[0])
			}
			deps[dstIn] = out
		}
	}
	return deps, nil
}

// resolveDataDependencies mirrors resolveTextureDependencies for
// type-erased data inputs.
func resolveDataDependencies(
	dstName string,
	dst graphicssystem.GraphicsSystem,
	pd *PipelineDescription,
	byName map[string]graphicssystem.GraphicsSystem,
) (graphicssystem.DataDependencies, error) {
	deps := make(graphicssystem.DataDependencies, len(dst.DataInputs()))
	for name := range dst.DataInputs() {
		deps[name] = nil
	}

	for _, src := range pd.DataInputs[dstName] {
		producer, ok := byName[src.Src]
		if !ok {
			return nil, fmt.Errorf("%w: %q declares a data input from undeclared graphics system %q", ErrPipelineDescription, dstName, src.Src)
		}
		outputs := producer.DataOutputs()
		for _, pair := range src.Map {
			srcOut, dstIn := hashkey.New(pair[0]), hashkey.New(pair[1])
			out, ok := outputs[srcOut]
			if !ok {
				return nil, fmt.Errorf("%w: %q's producer %q has no data output %q", ErrPipelineDescription, dstName, src.Src, pair[0])
			}
			deps[dstIn] = out
		}
	}
	return deps, nil
}

// gsDependencySet returns the set of producer GS names dstName depends
// on, across all three input kinds, restricted to declared GS names —
// the input ComputeExecutionGroups needs per GS.
func gsDependencySet(dstName string, pd *PipelineDescription) map[string]struct{} {
	declared := make(map[string]struct{}, len(pd.GraphicsSystems))
	for _, gs := range pd.GraphicsSystems {
		declared[gs] = struct{}{}
	}
	deps := make(map[string]struct{})
	for _, sources := range [][]InputSource{pd.TextureInputs[dstName], pd.BufferInputs[dstName], pd.DataInputs[dstName]} {
		for _, src := range sources {
			if _, ok := declared[src.Src]; ok {
				deps[src.Src] = struct{}{}
			}
		}
	}
	return deps
}
