package rendersystem

import (
	"fmt"
	"sort"
)

type gsDependencies struct {
	name string
	deps map[string]struct{}
}

// ComputeExecutionGroups layers pd.PipelineOrder into groups of
// mutually-independent GS names: no GS in group k depends (via any
// texture/buffer/data input) on a GS in group k or later. With
// singleThread set, every entry becomes its own singleton group in
// declared order instead.
//
// reorder mirrors the original's ALLOW_UPDATE_EXECUTION_REORDERING
// toggle: when true (the default), the remaining entries are stable-
// -sorted by ascending dependency count before each group is peeled
// off, letting independent GS's declared later run earlier than their
// pipeline_order position would otherwise allow.
func ComputeExecutionGroups(pd *PipelineDescription, singleThread, reorder bool) ([][]string, error) {
	if singleThread {
		groups := make([][]string, len(pd.PipelineOrder))
		for i, name := range pd.PipelineOrder {
			groups[i] = []string{name}
		}
		return groups, nil
	}

	remaining := make([]gsDependencies, len(pd.PipelineOrder))
	for i, name := range pd.PipelineOrder {
		remaining[i] = gsDependencies{name: name, deps: gsDependencySet(name, pd)}
	}

	var groups [][]string
	for len(remaining) > 0 {
		if reorder {
			sort.SliceStable(remaining, func(i, j int) bool {
				return len(remaining[i].deps) < len(remaining[j].deps)
			})
		}

		end := 0
		for end < len(remaining) && len(remaining[end].deps) == 0 {
			end++
		}
		if end == 0 {
			return nil, fmt.Errorf("%w: %w: cycle detected among %v", ErrPipelineDescription, ErrInvariantViolation, namesOf(remaining))
		}

		group := make([]string, end)
		for i := 0; i < end; i++ {
			group[i] = remaining[i].name
		}
		groups = append(groups, group)

		rest := remaining[end:]
		for i := range rest {
			for _, n := range group {
				delete(rest[i].deps, n)
			}
		}
		remaining = rest
	}

	return groups, nil
}

func namesOf(deps []gsDependencies) []string {
	names := make([]string, len(deps))
	for i, d := range deps {
		names[i] = d.name
	}
	return names
}
