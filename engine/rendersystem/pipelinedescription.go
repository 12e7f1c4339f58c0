package rendersystem

import (
	"encoding/json"
	"fmt"
	"strings"
)

// InputSource names one producer GS and the (src_output, dst_input)
// name pairs it maps into a consumer's texture/buffer/data inputs.
type InputSource struct {
	Src string      `json:"src"`
	Map [][2]string `json:"map"`
}

// PipelineDescription is the parsed form of a pipeline description
// document. Field shapes follow spec.md §6 exactly; encoding/json maps
// its JSON-array-of-pairs shape onto [][2]string directly, with no
// custom unmarshaling needed.
//
// No third-party declarative-config parser in the retrieval pack
// targets a JSON-shaped document (the pack's config-parsing examples
// are TOML/protobuf-flavored), so this uses stdlib encoding/json.
type PipelineDescription struct {
	Name            string                   `json:"name"`
	GraphicsSystems []string                 `json:"graphics_systems"`
	PipelineOrder   []string                 `json:"pipeline_order"`
	Flags           map[string][][2]string   `json:"flags"`
	TextureInputs   map[string][]InputSource `json:"texture_inputs"`
	BufferInputs    map[string][]InputSource `json:"buffer_inputs"`
	DataInputs      map[string][]InputSource `json:"data_inputs"`
}

// ParsePipelineDescription parses and case-normalizes raw JSON into a
// PipelineDescription, validating that pipeline_order is a permutation
// of graphics_systems.
func ParsePipelineDescription(raw []byte) (*PipelineDescription, error) {
	var pd PipelineDescription
	if err := json.Unmarshal(raw, &pd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPipelineDescription, err)
	}
	pd.normalize()

	if err := pd.validate(); err != nil {
		return nil, err
	}
	return &pd, nil
}

func lower(s string) string { return strings.ToLower(s) }

// normalize lowercases every GS name, input/output name, flag name and
// src reference, per spec.md §6's "all names are case-insensitive; the
// loader lowercases them".
func (pd *PipelineDescription) normalize() {
	for i, s := range pd.GraphicsSystems {
		pd.GraphicsSystems[i] = lower(s)
	}
	for i, s := range pd.PipelineOrder {
		pd.PipelineOrder[i] = lower(s)
	}

	pd.Flags = lowerFlagsMap(pd.Flags)
	pd.TextureInputs = lowerInputsMap(pd.TextureInputs)
	pd.BufferInputs = lowerInputsMap(pd.BufferInputs)
	pd.DataInputs = lowerInputsMap(pd.DataInputs)
}

func lowerFlagsMap(m map[string][][2]string) map[string][][2]string {
	out := make(map[string][][2]string, len(m))
	for gsName, pairs := range m {
		lowered := make([][2]string, len(pairs))
		for i, p := range pairs {
			lowered[i] = [2]string{lower(p[0]), p[1]}
		}
		out[lower(gsName)] = lowered
	}
	return out
}

func lowerInputsMap(m map[string][]InputSource) map[string][]InputSource {
	out := make(map[string][]InputSource, len(m))
	for dstGS, sources := range m {
		lowered := make([]InputSource, len(sources))
		for i, src := range sources {
			mapping := make([][2]string, len(src.Map))
			for j, pair := range src.Map {
				mapping[j] = [2]string{lower(pair[0]), lower(pair[1])}
			}
			lowered[i] = InputSource{Src: lower(src.Src), Map: mapping}
		}
		out[lower(dstGS)] = lowered
	}
	return out
}

func (pd *PipelineDescription) validate() error {
	if pd.Name == "" {
		return fmt.Errorf("%w: missing \"name\"", ErrPipelineDescription)
	}

	declared := make(map[string]struct{}, len(pd.GraphicsSystems))
	for _, gs := range pd.GraphicsSystems {
		declared[gs] = struct{}{}
	}
	if len(pd.PipelineOrder) != len(declared) {
		return fmt.Errorf("%w: pipeline_order is not a permutation of graphics_systems", ErrPipelineDescription)
	}
	seen := make(map[string]struct{}, len(pd.PipelineOrder))
	for _, gs := range pd.PipelineOrder {
		if _, ok := declared[gs]; !ok {
			return fmt.Errorf("%w: pipeline_order references undeclared graphics system %q", ErrPipelineDescription, gs)
		}
		if _, dup := seen[gs]; dup {
			return fmt.Errorf("%w: pipeline_order lists %q more than once", ErrPipelineDescription, gs)
		}
		seen[gs] = struct{}{}
	}
	return nil
}
