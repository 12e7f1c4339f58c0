package rendersystem

import "errors"

// ErrPipelineDescription is wrapped around every pipeline-description
// problem a render system's construction detects: a missing GS, a
// missing dependency source GS, or an unresolved required input. Fatal
// at startup per spec.md §7 — the caller is expected to abort the
// process on this error, not retry.
var ErrPipelineDescription = errors.New("rendersystem: pipeline description error")

// ErrInvariantViolation marks detected invariant violations.
// ComputeExecutionGroups wraps it, together with ErrPipelineDescription,
// around a dependency-graph cycle. It is returned as an ordinary error:
// nothing in this module panics on it or consults the debugLevel config
// key to choose between a panic and a no-op.
var ErrInvariantViolation = errors.New("rendersystem: invariant violation")
